package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsphweid/ustxroll/keyboard"
	"github.com/jsphweid/ustxroll/model"
	"github.com/jsphweid/ustxroll/report"
	"github.com/jsphweid/ustxroll/ustx"
	"github.com/jsphweid/ustxroll/util"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Summarizes a score",
	Long:  `Parses a USTX or MIDI score and prints its header, voice parts and tone histogram.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return report.Describe(err, "read "+args[0])
		}
		p, err := ustx.Decode(args[0], data)
		if err != nil {
			return report.Describe(err, "parse "+args[0])
		}
		inspect(os.Stdout, p)
		return nil
	},
}

func inspect(w io.Writer, p *model.Project) {
	fmt.Fprintf(w, "name: %s\n", p.Name)
	fmt.Fprintf(w, "resolution: %d\n", p.Resolution)
	fmt.Fprintf(w, "bpm: %g\n", p.BPM)
	fmt.Fprintf(w, "meter: %d/%d\n", p.BeatPerBar, p.BeatUnit)
	fmt.Fprintf(w, "length: %d ticks\n", p.MaxEndTick())
	for i, part := range p.VoiceParts {
		fmt.Fprintf(w, "part %d: %q track %d at %d, %d notes\n", i, part.Name, part.TrackNo, part.Position, len(part.Notes))
	}

	tones := make(map[int]int)
	for _, n := range p.Notes() {
		tones[n.Tone]++
	}
	for _, tone := range util.GetKeys(tones) {
		fmt.Fprintf(w, "tone %d (%s): %d\n", tone, keyboard.KeyName(tone), tones[tone])
	}
}
