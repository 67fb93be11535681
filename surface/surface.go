// Package surface defines the drawing capability the renderers consume and
// two implementations of it: Recorder keeps the issued commands, Canvas
// rasterizes them with gogpu/gg.
//
// A surface is owned by exactly one renderer. Dispose releases it once;
// every later call fails with a *model.SurfaceError and the owner is
// expected to create a fresh surface.
package surface

import (
	"image/color"

	"github.com/gogpu/gg"
)

type Point struct {
	X, Y float64
}

type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }
func (r Rect) Empty() bool     { return r.W <= 0 || r.H <= 0 }

// Contains treats the rectangle as half-open so adjacent rectangles never
// both claim a point on their shared edge.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// OverlapsVertically reports whether the vertical extents of r and o intersect.
func (r Rect) OverlapsVertically(o Rect) bool {
	return r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Style describes a shape. A nil Fill or Stroke skips that pass.
type Style struct {
	Fill      color.Color
	Stroke    color.Color
	LineWidth float64
}

type Align int

const (
	AlignCenter Align = iota
	AlignLeft
)

// TextStyle places a label. With AlignCenter the anchor point is the centre
// of the label; with AlignLeft it is the middle of the left edge. A non-empty
// Clip truncates the label to that rectangle.
type TextStyle struct {
	Color color.Color
	Size  float64
	Align Align
	Clip  Rect
}

type Surface interface {
	Size() (width, height int)
	Resize(width, height int) error
	// Clear drops everything drawn so far and paints the background.
	Clear() error
	DrawRect(r Rect, s Style) error
	DrawLine(from, to Point, s Style) error
	// DrawPolyline moves to the first point and draws lines through the rest.
	DrawPolyline(points []Point, s Style) error
	DrawText(text string, at Point, s TextStyle) error
	Dispose() error
}

// Factory creates a surface; it is the createSurface capability handed to the
// editor so tests can swap the raster backend for a Recorder.
type Factory func(width, height int, background color.Color) (Surface, error)

// Hex parses "#rgb", "#rrggbb" or "#rrggbbaa" into a colour.
func Hex(hex string) color.NRGBA {
	return gg.Hex(hex).Color().(color.NRGBA)
}
