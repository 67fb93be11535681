// Package mapper converts between musical units and pixels. It is the single
// place where ticks, tones, rows and coordinates are related to each other.
//
// The time axis is linear: ticks/resolution beats, each beat PixelsPerBeat
// wide. The pitch axis is inverted so higher tones sit higher on screen: the
// highest key of the range is row 0.
//
// Nothing here clamps. Callers bound their ticks and tones to real data, and
// use CheckTone before placing a note.
package mapper

import (
	"fmt"
	"math"

	"github.com/jsphweid/ustxroll/constants"
	"github.com/jsphweid/ustxroll/model"
)

type Mapper struct {
	resolution    int
	pixelsPerBeat float64
	keyHeight     float64
	lowestKey     int
	totalKeys     int
}

type Option func(*Mapper)

func WithPixelsPerBeat(px float64) Option {
	return func(m *Mapper) {
		m.pixelsPerBeat = px
	}
}

func WithKeyHeight(h float64) Option {
	return func(m *Mapper) {
		m.keyHeight = h
	}
}

// WithKeyRange limits the pitch axis to total keys starting at lowest. The
// default is the full MIDI range, lowest 0 and 128 keys.
func WithKeyRange(lowest, total int) Option {
	return func(m *Mapper) {
		m.lowestKey = lowest
		m.totalKeys = total
	}
}

// New returns a mapper for a score with the given resolution in ticks per
// quarter note.
func New(resolution int, opts ...Option) (Mapper, error) {
	m := Mapper{
		resolution:    resolution,
		pixelsPerBeat: constants.PixelsPerBeat,
		keyHeight:     constants.KeyHeight,
		lowestKey:     constants.MinTone,
		totalKeys:     constants.TotalKeys,
	}
	for _, opt := range opts {
		opt(&m)
	}

	switch {
	case m.resolution <= 0:
		return Mapper{}, &model.GeometryError{Op: "new mapper", Reason: fmt.Sprintf("resolution must be > 0, got %d", m.resolution)}
	case m.pixelsPerBeat <= 0:
		return Mapper{}, &model.GeometryError{Op: "new mapper", Reason: fmt.Sprintf("pixels per beat must be > 0, got %v", m.pixelsPerBeat)}
	case m.keyHeight <= 0:
		return Mapper{}, &model.GeometryError{Op: "new mapper", Reason: fmt.Sprintf("key height must be > 0, got %v", m.keyHeight)}
	case m.totalKeys <= 0:
		return Mapper{}, &model.GeometryError{Op: "new mapper", Reason: fmt.Sprintf("totalKeys must be > 0, got %d", m.totalKeys)}
	}
	return m, nil
}

func (m Mapper) Resolution() int        { return m.resolution }
func (m Mapper) PixelsPerBeat() float64 { return m.pixelsPerBeat }
func (m Mapper) KeyHeight() float64     { return m.keyHeight }
func (m Mapper) LowestKey() int         { return m.lowestKey }
func (m Mapper) TotalKeys() int         { return m.totalKeys }
func (m Mapper) ContentHeight() float64 { return float64(m.totalKeys) * m.keyHeight }
func (m Mapper) HighestKey() int        { return m.lowestKey + m.totalKeys - 1 }

func (m Mapper) TicksToPixels(ticks float64) float64 {
	return ticks / float64(m.resolution) * m.pixelsPerBeat
}

func (m Mapper) PixelsToTicks(px float64) float64 {
	return px / m.pixelsPerBeat * float64(m.resolution)
}

func (m Mapper) RowIndex(tone int) int {
	return m.totalKeys - (tone - m.lowestKey) - 1
}

func (m Mapper) ToneForRow(row int) int {
	return m.totalKeys - row - 1 + m.lowestKey
}

func (m Mapper) RowToY(row int) float64 {
	return float64(row) * m.keyHeight
}

// YToRow is the row containing y; rows are half-open [top, top+keyHeight).
func (m Mapper) YToRow(y float64) int {
	return int(math.Floor(y / m.keyHeight))
}

func (m Mapper) ToneToY(tone int) float64 {
	return m.RowToY(m.RowIndex(tone))
}

// CheckTone reports whether a tone can be placed on this pitch axis.
func (m Mapper) CheckTone(tone int) error {
	if tone < constants.MinTone || tone > constants.MaxTone {
		return &model.GeometryError{Op: "place note", Reason: fmt.Sprintf("tone %d outside MIDI range %d-%d", tone, constants.MinTone, constants.MaxTone)}
	}
	if tone < m.lowestKey || tone > m.HighestKey() {
		return &model.GeometryError{Op: "place note", Reason: fmt.Sprintf("tone %d outside key range %d-%d", tone, m.lowestKey, m.HighestKey())}
	}
	return nil
}
