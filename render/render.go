// Package render turns a project and its geometry into drawing commands. A
// Renderer holds only configuration; every call redraws its output from
// scratch and nothing it draws can mutate the score.
package render

import (
	"image/color"

	"github.com/jsphweid/ustxroll/constants"
	"github.com/jsphweid/ustxroll/mapper"
	"github.com/jsphweid/ustxroll/surface"
)

type Theme struct {
	Background    color.Color
	GridLine      color.Color
	BarLine       color.Color
	BlackRow      color.Color
	NoteFill      color.Color
	NoteStroke    color.Color
	Lyric         color.Color
	PitchCurve    color.Color
	WhiteKey      color.Color
	BlackKey      color.Color
	KeyBorder     color.Color
	WhiteKeyLabel color.Color
	BlackKeyLabel color.Color
	PhonemeFill   color.Color
	PhonemeStroke color.Color
	PhonemeLabel  color.Color
	PanelLight    color.Color
}

func DefaultTheme() Theme {
	return Theme{
		Background:    surface.Hex("#2c2c2c"),
		GridLine:      surface.Hex("#3f3f3f"),
		BarLine:       surface.Hex("#5a5a5a"),
		BlackRow:      surface.Hex("#242424"),
		NoteFill:      surface.Hex("#4a90d9"),
		NoteStroke:    surface.Hex("#1f4f80"),
		Lyric:         surface.Hex("#ffffff"),
		PitchCurve:    surface.Hex("#ffcc33"),
		WhiteKey:      surface.Hex("#ffffff"),
		BlackKey:      surface.Hex("#000000"),
		KeyBorder:     surface.Hex("#000000"),
		WhiteKeyLabel: surface.Hex("#333333"),
		BlackKeyLabel: surface.Hex("#cccccc"),
		PhonemeFill:   surface.Hex("#ff99004d"),
		PhonemeStroke: surface.Hex("#00000080"),
		PhonemeLabel:  surface.Hex("#000000"),
		PanelLight:    surface.Hex("#ffffff"),
	}
}

type Renderer struct {
	m           mapper.Mapper
	theme       Theme
	beatsPerBar int
	labelSize   float64
}

type Option func(*Renderer)

func WithTheme(t Theme) Option {
	return func(r *Renderer) {
		r.theme = t
	}
}

// WithBeatsPerBar makes every n-th beat line a bar line; 0 disables bars.
func WithBeatsPerBar(n int) Option {
	return func(r *Renderer) {
		r.beatsPerBar = n
	}
}

func WithLabelSize(size float64) Option {
	return func(r *Renderer) {
		r.labelSize = size
	}
}

func New(m mapper.Mapper, opts ...Option) *Renderer {
	r := &Renderer{
		m:           m,
		theme:       DefaultTheme(),
		beatsPerBar: constants.DefaultBeatPerBar,
		labelSize:   constants.LabelFontSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Renderer) Mapper() mapper.Mapper {
	return r.m
}

func (r *Renderer) Theme() Theme {
	return r.theme
}

// pen keeps the first surface error and turns later calls into no-ops, so
// drawing code reads straight through and checks once at the end.
type pen struct {
	s   surface.Surface
	err error
}

func (p *pen) clear() {
	if p.err == nil {
		p.err = p.s.Clear()
	}
}

func (p *pen) rect(r surface.Rect, s surface.Style) {
	if p.err == nil {
		p.err = p.s.DrawRect(r, s)
	}
}

func (p *pen) line(x1, y1, x2, y2 float64, s surface.Style) {
	if p.err == nil {
		p.err = p.s.DrawLine(surface.Point{X: x1, Y: y1}, surface.Point{X: x2, Y: y2}, s)
	}
}

func (p *pen) polyline(points []surface.Point, s surface.Style) {
	if p.err == nil {
		p.err = p.s.DrawPolyline(points, s)
	}
}

func (p *pen) text(label string, at surface.Point, s surface.TextStyle) {
	if p.err == nil {
		p.err = p.s.DrawText(label, at, s)
	}
}
