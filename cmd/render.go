package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsphweid/ustxroll/editor"
	"github.com/jsphweid/ustxroll/logger"
	"github.com/jsphweid/ustxroll/render"
	"github.com/jsphweid/ustxroll/report"
	"github.com/jsphweid/ustxroll/surface"
)

var renderOut struct {
	grid     string
	keys     string
	phonemes string
	note     int
}

func init() {
	rootCmd.AddCommand(renderCmd)
	addViewFlags(renderCmd)
	renderCmd.Flags().StringVarP(&renderOut.grid, "out", "o", "grid.png", "note grid image")
	renderCmd.Flags().StringVar(&renderOut.keys, "keys", "", "key panel image")
	renderCmd.Flags().StringVar(&renderOut.phonemes, "phonemes", "", "phoneme panel image")
	renderCmd.Flags().IntVar(&renderOut.note, "note", -1, "index of the note to show in the phoneme panel")
}

var renderCmd = &cobra.Command{
	Use:   "render FILE",
	Short: "Renders a score to PNG",
	Long:  `Renders the note grid of a USTX or MIDI score, and optionally the key and phoneme panels, to PNG files.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return renderFile(args[0])
	},
}

type pngEncoder interface {
	EncodePNG(w io.Writer) error
}

func openEditor(path string) (*editor.Editor, error) {
	cfg, err := editorConfig()
	if err != nil {
		return nil, err
	}
	ed, err := editor.New(cfg, surface.CanvasFactory, editor.OnNoteActivated(logActivation))
	if err != nil {
		return nil, report.Describe(err, "create editor")
	}
	if path == "" {
		return ed, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		ed.Close()
		return nil, report.Describe(err, "read "+path)
	}
	if err := ed.Load(path, data); err != nil {
		ed.Close()
		return nil, report.Describe(err, "load "+path)
	}
	return ed, nil
}

func logActivation(ev render.NoteActivated) {
	logger.L().Info("note activated", "id", ev.ID, "lyric", ev.Note.Lyric, "tone", ev.Note.Tone)
}

func renderFile(path string) error {
	ed, err := openEditor(path)
	if err != nil {
		return err
	}
	defer ed.Close()

	if renderOut.note >= 0 {
		boxes := ed.Boxes()
		if renderOut.note >= len(boxes) {
			return fmt.Errorf("note %d out of range, score has %d notes", renderOut.note, len(boxes))
		}
		if _, _, err := ed.Select(boxes[renderOut.note].Note.ID); err != nil {
			return report.Describe(err, "select note")
		}
	}

	outputs := []struct {
		kind editor.Kind
		path string
	}{
		{editor.GridSurface, renderOut.grid},
		{editor.KeysSurface, renderOut.keys},
		{editor.PhonemeSurface, renderOut.phonemes},
	}
	for _, o := range outputs {
		if o.path == "" {
			continue
		}
		if err := savePNG(ed, o.kind, o.path); err != nil {
			return report.Describe(err, "write "+o.path)
		}
		logger.L().Info("wrote image", "surface", o.kind, "path", o.path)
	}
	return nil
}

func writePNG(ed *editor.Editor, kind editor.Kind, w io.Writer) error {
	return ed.WithSurface(kind, func(s surface.Surface) error {
		enc, ok := s.(pngEncoder)
		if !ok {
			return fmt.Errorf("%v surface cannot be encoded", kind)
		}
		return enc.EncodePNG(w)
	})
}

func savePNG(ed *editor.Editor, kind editor.Kind, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writePNG(ed, kind, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
