package model

import (
	"github.com/google/uuid"
)

// Project is the normalized form of one loaded score. A new Project replaces
// the previous one wholesale; nothing is merged.
type Project struct {
	Name       string
	Resolution int     // ticks per quarter note
	BPM        float64 // first tempo of the score
	BeatPerBar int
	BeatUnit   int
	VoiceParts []VoicePart
}

// VoicePart is a named run of notes placed on a track at a tick offset.
type VoicePart struct {
	Name     string
	TrackNo  int
	Position int
	Notes    []Note
}

type Note struct {
	ID       uuid.UUID
	Position int // ticks, relative to the owning part until flattened
	Duration int
	Tone     int // MIDI pitch
	Lyric    string
	Pitch    []PitchPoint
	Vibrato  *Vibrato
	Phonemes []PhonemeOverride
}

// PitchPoint is one sample of a note's pitch curve. X is a tick offset from
// the note start; Y is in cents, so 100 is one semitone.
type PitchPoint struct {
	X     float64
	Y     float64
	Shape string
}

type Vibrato struct {
	Length float64
	Period float64
	Depth  float64
	In     float64
	Out    float64
	Shift  float64
	Drift  float64
}

type PhonemeOverride struct {
	Index   int
	Phoneme string
}

func (n Note) End() int {
	return n.Position + n.Duration
}

// Notes flattens every voice part in order, shifting each note by its
// part's position. Order inside a part is preserved, so later notes still
// draw on top of earlier ones.
func (p *Project) Notes() []Note {
	var res []Note
	for _, part := range p.VoiceParts {
		for _, n := range part.Notes {
			n.Position += part.Position
			res = append(res, n)
		}
	}
	return res
}

// NoteByID looks a note up by identifier, returning it in absolute ticks.
func (p *Project) NoteByID(id uuid.UUID) (Note, bool) {
	for _, n := range p.Notes() {
		if n.ID == id {
			return n, true
		}
	}
	return Note{}, false
}

func (p *Project) MaxEndTick() int {
	var end int
	for _, n := range p.Notes() {
		if n.End() > end {
			end = n.End()
		}
	}
	return end
}

func (p *Project) NoteCount() int {
	var count int
	for _, part := range p.VoiceParts {
		count += len(part.Notes)
	}
	return count
}
