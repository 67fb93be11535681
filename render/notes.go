package render

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/jsphweid/ustxroll/logger"
	"github.com/jsphweid/ustxroll/model"
	"github.com/jsphweid/ustxroll/surface"
)

// NoteBox is where a note landed on the grid surface.
type NoteBox struct {
	Note model.Note
	Rect surface.Rect
}

// NoteActivated is emitted when a note rectangle is double-activated. The
// receiver decides what to do with it (inline lyric edit, phoneme view);
// the renderer keeps no editable state.
type NoteActivated struct {
	ID   uuid.UUID
	Note model.Note
}

// NoteRect is the grid rectangle for a note in absolute ticks.
func (r *Renderer) NoteRect(n model.Note) surface.Rect {
	return surface.Rect{
		X: r.m.TicksToPixels(float64(n.Position)),
		Y: r.m.ToneToY(n.Tone),
		W: r.m.TicksToPixels(float64(n.Duration)),
		H: r.m.KeyHeight(),
	}
}

// PitchCurve maps a note's pitch points onto the grid, relative to the
// top-left of its rectangle.
func (r *Renderer) PitchCurve(n model.Note) []surface.Point {
	if len(n.Pitch) == 0 {
		return nil
	}
	rect := r.NoteRect(n)
	points := make([]surface.Point, 0, len(n.Pitch))
	for _, pt := range n.Pitch {
		points = append(points, surface.Point{
			X: rect.X + r.m.TicksToPixels(pt.X),
			Y: rect.Y + pt.Y/100*r.m.KeyHeight(),
		})
	}
	return points
}

// Validate reports the first note whose tone has no row in the configured
// key range.
func (r *Renderer) Validate(notes []model.Note) error {
	for _, n := range notes {
		if err := r.m.CheckTone(n.Tone); err != nil {
			logger.L().Warn("note out of range", "note", n.ID, "tone", n.Tone, "err", err)
			return err
		}
	}
	return nil
}

// RenderNotes draws notes in order onto s, so later notes cover earlier
// ones. Every tone is checked before anything is drawn: one bad note aborts
// the call with a *model.GeometryError and leaves s untouched.
func (r *Renderer) RenderNotes(s surface.Surface, notes []model.Note) ([]NoteBox, error) {
	if err := r.Validate(notes); err != nil {
		return nil, err
	}

	p := &pen{s: s}
	noteStyle := surface.Style{Fill: r.theme.NoteFill, Stroke: r.theme.NoteStroke, LineWidth: 1}
	curveStyle := surface.Style{Stroke: r.theme.PitchCurve, LineWidth: 1.5}
	boxes := make([]NoteBox, 0, len(notes))

	for _, n := range notes {
		rect := r.NoteRect(n)
		p.rect(rect, noteStyle)

		if n.Lyric != "" {
			center := surface.Point{X: rect.X + rect.W/2, Y: rect.Y + rect.H/2}
			p.text(n.Lyric, center, surface.TextStyle{
				Color: r.theme.Lyric,
				Size:  r.labelSize,
				Align: surface.AlignCenter,
				Clip:  rect,
			})
		}

		if curve := r.PitchCurve(n); len(curve) > 1 {
			p.polyline(curve, curveStyle)
		}

		boxes = append(boxes, NoteBox{Note: n, Rect: rect})
	}

	if p.err != nil {
		return nil, fmt.Errorf("render notes: %w", p.err)
	}
	logger.L().Debug("notes rendered", "count", len(boxes))
	return boxes, nil
}

// HitTest finds the topmost note box under (x, y).
func HitTest(boxes []NoteBox, x, y float64) (NoteActivated, bool) {
	for i := len(boxes) - 1; i >= 0; i-- {
		if boxes[i].Rect.Contains(x, y) {
			return NoteActivated{ID: boxes[i].Note.ID, Note: boxes[i].Note}, true
		}
	}
	return NoteActivated{}, false
}
