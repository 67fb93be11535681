package surface

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/jsphweid/ustxroll/logger"
	"github.com/jsphweid/ustxroll/model"
)

var (
	fontOnce   sync.Once
	fontSource *text.FontSource
	fontErr    error
)

func labelFont() (*text.FontSource, error) {
	fontOnce.Do(func() {
		fontSource, fontErr = text.NewFontSource(goregular.TTF)
	})
	return fontSource, fontErr
}

// Canvas is a Surface backed by a gogpu/gg software context.
type Canvas struct {
	dc         *gg.Context
	background gg.RGBA
	fonts      *text.FontSource
	faces      map[float64]text.Face
	disposed   bool
}

var _ Surface = (*Canvas)(nil)

func NewCanvas(width, height int, background color.Color) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, &model.SurfaceError{Op: "create", Err: fmt.Errorf("invalid dimensions %dx%d", width, height)}
	}
	fonts, err := labelFont()
	if err != nil {
		return nil, &model.SurfaceError{Op: "create", Err: fmt.Errorf("load label font: %w", err)}
	}

	c := &Canvas{
		dc:         gg.NewContext(width, height),
		background: gg.FromColor(background),
		fonts:      fonts,
		faces:      make(map[float64]text.Face),
	}
	c.dc.ClearWithColor(c.background)
	logger.L().Debug("canvas created", "width", width, "height", height)
	return c, nil
}

// CanvasFactory adapts NewCanvas to Factory.
func CanvasFactory(width, height int, background color.Color) (Surface, error) {
	return NewCanvas(width, height, background)
}

func (c *Canvas) check(op string) error {
	if c.disposed {
		return &model.SurfaceError{Op: op, Err: ErrDisposed}
	}
	return nil
}

func (c *Canvas) Size() (int, int) {
	return c.dc.Width(), c.dc.Height()
}

// Resize reallocates the pixel buffer; the old content is lost, so callers
// redraw afterwards.
func (c *Canvas) Resize(width, height int) error {
	if err := c.check("resize"); err != nil {
		return err
	}
	if err := c.dc.Resize(width, height); err != nil {
		return &model.SurfaceError{Op: "resize", Err: err}
	}
	c.dc.ClearWithColor(c.background)
	logger.L().Debug("canvas resized", "width", width, "height", height)
	return nil
}

func (c *Canvas) Clear() error {
	if err := c.check("clear"); err != nil {
		return err
	}
	c.dc.ClearPath()
	c.dc.ClearWithColor(c.background)
	return nil
}

func (c *Canvas) paint(s Style) error {
	if s.Fill != nil {
		c.dc.SetColor(s.Fill)
		if s.Stroke != nil {
			if err := c.dc.FillPreserve(); err != nil {
				return err
			}
		} else if err := c.dc.Fill(); err != nil {
			return err
		}
	}
	if s.Stroke != nil {
		width := s.LineWidth
		if width <= 0 {
			width = 1
		}
		c.dc.SetColor(s.Stroke)
		c.dc.SetLineWidth(width)
		if err := c.dc.Stroke(); err != nil {
			return err
		}
	}
	c.dc.ClearPath()
	return nil
}

func (c *Canvas) DrawRect(r Rect, s Style) error {
	if err := c.check("draw rect"); err != nil {
		return err
	}
	c.dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	if err := c.paint(s); err != nil {
		return &model.SurfaceError{Op: "draw rect", Err: err}
	}
	return nil
}

func (c *Canvas) DrawLine(from, to Point, s Style) error {
	if err := c.check("draw line"); err != nil {
		return err
	}
	c.dc.DrawLine(from.X, from.Y, to.X, to.Y)
	if err := c.paint(Style{Stroke: s.Stroke, LineWidth: s.LineWidth}); err != nil {
		return &model.SurfaceError{Op: "draw line", Err: err}
	}
	return nil
}

func (c *Canvas) DrawPolyline(points []Point, s Style) error {
	if err := c.check("draw polyline"); err != nil {
		return err
	}
	if len(points) < 2 {
		return nil
	}
	c.dc.MoveTo(points[0].X, points[0].Y)
	for _, p := range points[1:] {
		c.dc.LineTo(p.X, p.Y)
	}
	if err := c.paint(Style{Stroke: s.Stroke, LineWidth: s.LineWidth}); err != nil {
		return &model.SurfaceError{Op: "draw polyline", Err: err}
	}
	return nil
}

func (c *Canvas) face(size float64) text.Face {
	if f, ok := c.faces[size]; ok {
		return f
	}
	f := c.fonts.Face(size)
	c.faces[size] = f
	return f
}

func (c *Canvas) DrawText(label string, at Point, s TextStyle) error {
	if err := c.check("draw text"); err != nil {
		return err
	}
	if label == "" {
		return nil
	}
	size := s.Size
	if size <= 0 {
		size = 11
	}
	c.dc.SetFont(c.face(size))

	if !s.Clip.Empty() {
		label = fit(label, s.Clip.W, func(v string) float64 {
			w, _ := c.dc.MeasureString(v)
			return w
		})
		if label == "" {
			return nil
		}
	}

	col := s.Color
	if col == nil {
		col = color.Black
	}
	c.dc.SetColor(col)
	switch s.Align {
	case AlignLeft:
		c.dc.DrawStringAnchored(label, at.X, at.Y, 0, 0.5)
	default:
		c.dc.DrawStringAnchored(label, at.X, at.Y, 0.5, 0.5)
	}
	return nil
}

// fit drops trailing runes until the label is no wider than width.
func fit(label string, width float64, measure func(string) float64) string {
	runes := []rune(label)
	for len(runes) > 0 && measure(string(runes)) > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes)
}

func (c *Canvas) Dispose() error {
	if err := c.check("dispose"); err != nil {
		return err
	}
	c.disposed = true
	c.faces = nil
	if err := c.dc.Close(); err != nil {
		return &model.SurfaceError{Op: "dispose", Err: err}
	}
	return nil
}

func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

func (c *Canvas) EncodePNG(w io.Writer) error {
	if err := c.check("encode"); err != nil {
		return err
	}
	return c.dc.EncodePNG(w)
}

func (c *Canvas) SavePNG(path string) error {
	if err := c.check("save"); err != nil {
		return err
	}
	return c.dc.SavePNG(path)
}
