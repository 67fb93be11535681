package midi

import (
	"fmt"
	"io"
	"sort"

	"github.com/google/uuid"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/ustxroll/constants"
	"github.com/jsphweid/ustxroll/logger"
	"github.com/jsphweid/ustxroll/model"
)

type pending struct {
	start int
}

// channelKey identifies a sounding note. The same key can sound on several
// channels of one track at once.
type channelKey struct {
	channel, key uint8
}

// Import reads a Standard MIDI File into a Project, one voice part per track
// that carries notes. Lyric meta events that share a tick with a note start
// become that note's lyric.
func Import(r io.Reader) (p *model.Project, e error) {
	// smf panics on some truncated inputs
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if rec := recover(); rec != nil {
			p = nil
			e = &model.ParseError{Source: "<midi>", Reason: "corrupt MIDI file", Err: fmt.Errorf("%v", rec)}
		}
	}()

	s, err := smf.ReadFrom(r)
	if err != nil {
		return nil, &model.ParseError{Source: "<midi>", Reason: "not a valid MIDI file", Err: err}
	}

	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, &model.ParseError{Source: "<midi>", Reason: "only metric time formats are supported", Err: fmt.Errorf("time format %v", s.TimeFormat)}
	}

	project := &model.Project{
		Resolution: int(ticks.Resolution()),
		BPM:        0,
		BeatPerBar: constants.DefaultBeatPerBar,
		BeatUnit:   constants.DefaultBeatUnit,
	}
	if project.Resolution <= 0 {
		return nil, &model.ParseError{Source: "<midi>", Reason: "resolution must be > 0"}
	}

	meterSeen := false
	for trackNo, track := range s.Tracks {
		var part model.VoicePart
		part.TrackNo = trackNo

		var absTicks int
		open := make(map[channelKey]pending)
		lyrics := make(map[int]string)

		for _, event := range track {
			absTicks += int(event.Delta)
			var channel, key, velocity, num, denom uint8
			var bpm float64
			var text string
			switch {
			case event.Message.GetMetaTempo(&bpm):
				if project.BPM == 0 && bpm > 0 {
					project.BPM = bpm
				}
			case event.Message.GetMetaMeter(&num, &denom):
				if !meterSeen && num > 0 && denom > 0 {
					project.BeatPerBar = int(num)
					project.BeatUnit = int(denom)
					meterSeen = true
				}
			case event.Message.GetMetaTrackName(&text):
				part.Name = text
			case event.Message.GetMetaLyric(&text):
				lyrics[absTicks] = text
			case event.Message.GetNoteStart(&channel, &key, &velocity):
				// a retrigger closes the sounding note first
				v := channelKey{channel: channel, key: key}
				if prev, ok := open[v]; ok {
					part.Notes = appendNote(part.Notes, prev, absTicks, key)
				}
				open[v] = pending{start: absTicks}
			case event.Message.GetNoteEnd(&channel, &key):
				v := channelKey{channel: channel, key: key}
				if prev, ok := open[v]; ok {
					part.Notes = appendNote(part.Notes, prev, absTicks, key)
					delete(open, v)
				}
			}
		}

		if len(part.Notes) == 0 {
			continue
		}

		sort.SliceStable(part.Notes, func(i, j int) bool {
			return part.Notes[i].Position < part.Notes[j].Position
		})
		for i := range part.Notes {
			part.Notes[i].Lyric = lyrics[part.Notes[i].Position]
		}
		project.VoiceParts = append(project.VoiceParts, part)
	}

	if len(project.VoiceParts) == 0 {
		return nil, &model.ParseError{Source: "<midi>", Reason: "document has no voice parts"}
	}
	if project.BPM == 0 {
		project.BPM = constants.DefaultBPM
	}

	logger.L().Info("imported midi",
		"tracks", len(s.Tracks),
		"parts", len(project.VoiceParts),
		"notes", project.NoteCount(),
		"resolution", project.Resolution)
	return project, nil
}

// zero-length notes cannot be drawn and are dropped
func appendNote(notes []model.Note, p pending, end int, key uint8) []model.Note {
	if end <= p.start {
		return notes
	}
	return append(notes, model.Note{
		ID:       uuid.New(),
		Position: p.start,
		Duration: end - p.start,
		Tone:     int(key),
	})
}
