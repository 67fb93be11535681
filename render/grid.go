package render

import (
	"fmt"
	"math"

	"github.com/jsphweid/ustxroll/keyboard"
	"github.com/jsphweid/ustxroll/logger"
	"github.com/jsphweid/ustxroll/model"
	"github.com/jsphweid/ustxroll/surface"
)

// RenderGrid clears s and draws the pitch/time grid across width pixels:
// shading for black-key rows, a line at every row boundary and a line at
// every beat from 0 through ceil(width/pixelsPerBeat) beats.
func (r *Renderer) RenderGrid(s surface.Surface, width float64) error {
	if width <= 0 || math.IsNaN(width) || math.IsInf(width, 0) {
		return &model.GeometryError{Op: "render grid", Reason: fmt.Sprintf("viewport width must be > 0, got %v", width)}
	}

	m := r.m
	height := m.ContentHeight()
	p := &pen{s: s}
	p.clear()

	for row := 0; row < m.TotalKeys(); row++ {
		if keyboard.IsBlackKey(m.ToneForRow(row)) {
			p.rect(surface.Rect{Y: m.RowToY(row), W: width, H: m.KeyHeight()}, surface.Style{Fill: r.theme.BlackRow})
		}
	}

	rowLine := surface.Style{Stroke: r.theme.GridLine, LineWidth: 1}
	for row := 0; row <= m.TotalKeys(); row++ {
		y := m.RowToY(row)
		p.line(0, y, width, y, rowLine)
	}

	beats := int(math.Ceil(width / m.PixelsPerBeat()))
	barLine := surface.Style{Stroke: r.theme.BarLine, LineWidth: 1}
	for beat := 0; beat <= beats; beat++ {
		x := float64(beat) * m.PixelsPerBeat()
		style := rowLine
		if r.beatsPerBar > 0 && beat%r.beatsPerBar == 0 {
			style = barLine
		}
		p.line(x, 0, x, height, style)
	}

	if p.err != nil {
		return fmt.Errorf("render grid: %w", p.err)
	}
	logger.L().Debug("grid rendered", "width", width, "rows", m.TotalKeys(), "beat_lines", beats+1)
	return nil
}
