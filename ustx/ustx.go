package ustx

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/jsphweid/ustxroll/constants"
	"github.com/jsphweid/ustxroll/logger"
	"github.com/jsphweid/ustxroll/midi"
	"github.com/jsphweid/ustxroll/model"
)

// document mirrors the subset of the USTX schema the editor renders.
// Pointers distinguish "absent" from an explicit zero.
type document struct {
	Name           string          `yaml:"name"`
	Resolution     *int            `yaml:"resolution"`
	BPM            *float64        `yaml:"bpm"`
	BeatPerBar     *int            `yaml:"beat_per_bar"`
	BeatUnit       *int            `yaml:"beat_unit"`
	Tempos         []tempo         `yaml:"tempos"`
	TimeSignatures []timeSignature `yaml:"time_signatures"`
	VoiceParts     []voicePart     `yaml:"voice_parts"`
}

type tempo struct {
	Position int     `yaml:"position"`
	BPM      float64 `yaml:"bpm"`
}

type timeSignature struct {
	BarPosition int `yaml:"bar_position"`
	BeatPerBar  int `yaml:"beat_per_bar"`
	BeatUnit    int `yaml:"beat_unit"`
}

type voicePart struct {
	Name     string `yaml:"name"`
	TrackNo  int    `yaml:"track_no"`
	Position int    `yaml:"position"`
	Notes    []note `yaml:"notes"`
}

type note struct {
	Position  *int       `yaml:"position"`
	Duration  *int       `yaml:"duration"`
	Tone      *int       `yaml:"tone"`
	Lyric     string     `yaml:"lyric"`
	Pitch     *pitch     `yaml:"pitch"`
	Vibrato   *vibrato   `yaml:"vibrato"`
	Overrides []override `yaml:"phoneme_overrides"`
}

type pitch struct {
	Data []pitchPoint `yaml:"data"`
}

type pitchPoint struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Shape string  `yaml:"shape"`
}

type vibrato struct {
	Length float64 `yaml:"length"`
	Period float64 `yaml:"period"`
	Depth  float64 `yaml:"depth"`
	In     float64 `yaml:"in"`
	Out    float64 `yaml:"out"`
	Shift  float64 `yaml:"shift"`
	Drift  float64 `yaml:"drift"`
}

type override struct {
	Index   int     `yaml:"index"`
	Phoneme *string `yaml:"phoneme"`
}

// Parse turns a USTX document into a Project. It either returns a complete
// Project or a *model.ParseError; there is no partial result.
func Parse(doc []byte) (*model.Project, error) {
	return parseNamed("<input>", doc)
}

// Decode picks a parser from the file extension: .mid and .midi go through
// the MIDI importer, anything else is read as USTX.
func Decode(path string, data []byte) (*model.Project, error) {
	source := filepath.Base(path)
	if source == "." || source == "" {
		source = "<input>"
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mid", ".midi":
		p, err := midi.Import(bytes.NewReader(data))
		var pe *model.ParseError
		if errors.As(err, &pe) {
			pe.Source = source
		}
		if err != nil {
			return nil, err
		}
		if p.Name == "" {
			p.Name = strings.TrimSuffix(source, filepath.Ext(source))
		}
		return p, nil
	default:
		return parseNamed(source, data)
	}
}

func parseNamed(source string, data []byte) (*model.Project, error) {
	var d document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, &model.ParseError{Source: source, Reason: "not a valid USTX document", Err: err}
	}

	p, err := d.project()
	if err != nil {
		err.Source = source
		return nil, err
	}

	logger.L().Info("parsed score",
		"source", source,
		"parts", len(p.VoiceParts),
		"notes", p.NoteCount(),
		"resolution", p.Resolution,
		"bpm", p.BPM)
	return p, nil
}

func (d *document) project() (*model.Project, *model.ParseError) {
	if len(d.VoiceParts) == 0 {
		return nil, &model.ParseError{Reason: "document has no voice parts"}
	}

	p := &model.Project{
		Name:       d.Name,
		Resolution: constants.DefaultResolution,
		BPM:        constants.DefaultBPM,
		BeatPerBar: constants.DefaultBeatPerBar,
		BeatUnit:   constants.DefaultBeatUnit,
	}

	if d.Resolution != nil {
		if *d.Resolution <= 0 {
			return nil, &model.ParseError{Reason: fmt.Sprintf("resolution must be > 0, got %d", *d.Resolution)}
		}
		p.Resolution = *d.Resolution
	}

	switch {
	case d.BPM != nil:
		p.BPM = *d.BPM
	case len(d.Tempos) > 0:
		p.BPM = d.Tempos[0].BPM
	}
	if math.IsNaN(p.BPM) || math.IsInf(p.BPM, 0) || p.BPM <= 0 {
		return nil, &model.ParseError{Reason: fmt.Sprintf("tempo must be > 0, got %v", p.BPM)}
	}

	if len(d.TimeSignatures) > 0 {
		ts := d.TimeSignatures[0]
		if ts.BeatPerBar > 0 {
			p.BeatPerBar = ts.BeatPerBar
		}
		if ts.BeatUnit > 0 {
			p.BeatUnit = ts.BeatUnit
		}
	}
	if d.BeatPerBar != nil && *d.BeatPerBar > 0 {
		p.BeatPerBar = *d.BeatPerBar
	}
	if d.BeatUnit != nil && *d.BeatUnit > 0 {
		p.BeatUnit = *d.BeatUnit
	}

	for i, vp := range d.VoiceParts {
		if vp.Position < 0 {
			return nil, &model.ParseError{Reason: fmt.Sprintf("voice part %d: position must be >= 0, got %d", i, vp.Position)}
		}
		part := model.VoicePart{
			Name:     vp.Name,
			TrackNo:  vp.TrackNo,
			Position: vp.Position,
		}
		for j, n := range vp.Notes {
			converted, err := n.note()
			if err != nil {
				err.Reason = fmt.Sprintf("voice part %d note %d: %s", i, j, err.Reason)
				return nil, err
			}
			part.Notes = append(part.Notes, converted)
		}
		p.VoiceParts = append(p.VoiceParts, part)
	}

	return p, nil
}

func (n *note) note() (model.Note, *model.ParseError) {
	if n.Position == nil || n.Duration == nil || n.Tone == nil {
		return model.Note{}, &model.ParseError{Reason: "position, duration and tone are required"}
	}
	if *n.Position < 0 {
		return model.Note{}, &model.ParseError{Reason: fmt.Sprintf("position must be >= 0, got %d", *n.Position)}
	}
	if *n.Duration <= 0 {
		return model.Note{}, &model.ParseError{Reason: fmt.Sprintf("duration must be > 0, got %d", *n.Duration)}
	}

	res := model.Note{
		ID:       uuid.New(),
		Position: *n.Position,
		Duration: *n.Duration,
		Tone:     *n.Tone,
		Lyric:    n.Lyric,
	}

	if n.Pitch != nil {
		for _, pt := range n.Pitch.Data {
			res.Pitch = append(res.Pitch, model.PitchPoint{X: pt.X, Y: pt.Y, Shape: pt.Shape})
		}
	}

	if n.Vibrato != nil {
		v := model.Vibrato(*n.Vibrato)
		res.Vibrato = &v
	}

	for _, o := range n.Overrides {
		// overrides may only carry timing deltas
		if o.Phoneme == nil {
			continue
		}
		res.Phonemes = append(res.Phonemes, model.PhonemeOverride{Index: o.Index, Phoneme: *o.Phoneme})
	}

	return res, nil
}
