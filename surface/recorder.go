package surface

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/jsphweid/ustxroll/model"
)

var ErrDisposed = errors.New("surface already disposed")

type Op int

const (
	OpClear Op = iota
	OpRect
	OpLine
	OpPolyline
	OpText
)

func (o Op) String() string {
	switch o {
	case OpClear:
		return "clear"
	case OpRect:
		return "rect"
	case OpLine:
		return "line"
	case OpPolyline:
		return "polyline"
	case OpText:
		return "text"
	}
	return fmt.Sprintf("op(%d)", int(o))
}

type Command struct {
	Op        Op
	Rect      Rect
	Points    []Point
	Text      string
	Style     Style
	TextStyle TextStyle
}

// Recorder is a Surface that keeps the command list instead of pixels.
type Recorder struct {
	width      int
	height     int
	background color.Color
	commands   []Command
	disposed   bool
}

var _ Surface = (*Recorder)(nil)

func NewRecorder(width, height int, background color.Color) (*Recorder, error) {
	if width <= 0 || height <= 0 {
		return nil, &model.SurfaceError{Op: "create", Err: fmt.Errorf("invalid dimensions %dx%d", width, height)}
	}
	return &Recorder{width: width, height: height, background: background}, nil
}

// RecorderFactory adapts NewRecorder to Factory.
func RecorderFactory(width, height int, background color.Color) (Surface, error) {
	return NewRecorder(width, height, background)
}

func (r *Recorder) check(op string) error {
	if r.disposed {
		return &model.SurfaceError{Op: op, Err: ErrDisposed}
	}
	return nil
}

func (r *Recorder) Size() (int, int) {
	return r.width, r.height
}

func (r *Recorder) Resize(width, height int) error {
	if err := r.check("resize"); err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return &model.SurfaceError{Op: "resize", Err: fmt.Errorf("invalid dimensions %dx%d", width, height)}
	}
	r.width, r.height = width, height
	return nil
}

func (r *Recorder) Clear() error {
	if err := r.check("clear"); err != nil {
		return err
	}
	r.commands = append(r.commands[:0], Command{
		Op:    OpClear,
		Rect:  Rect{W: float64(r.width), H: float64(r.height)},
		Style: Style{Fill: r.background},
	})
	return nil
}

func (r *Recorder) DrawRect(rect Rect, s Style) error {
	if err := r.check("draw rect"); err != nil {
		return err
	}
	r.commands = append(r.commands, Command{Op: OpRect, Rect: rect, Style: s})
	return nil
}

func (r *Recorder) DrawLine(from, to Point, s Style) error {
	if err := r.check("draw line"); err != nil {
		return err
	}
	r.commands = append(r.commands, Command{Op: OpLine, Points: []Point{from, to}, Style: s})
	return nil
}

func (r *Recorder) DrawPolyline(points []Point, s Style) error {
	if err := r.check("draw polyline"); err != nil {
		return err
	}
	if len(points) < 2 {
		return nil
	}
	pts := make([]Point, len(points))
	copy(pts, points)
	r.commands = append(r.commands, Command{Op: OpPolyline, Points: pts, Style: s})
	return nil
}

func (r *Recorder) DrawText(text string, at Point, s TextStyle) error {
	if err := r.check("draw text"); err != nil {
		return err
	}
	r.commands = append(r.commands, Command{Op: OpText, Text: text, Points: []Point{at}, TextStyle: s})
	return nil
}

func (r *Recorder) Dispose() error {
	if err := r.check("dispose"); err != nil {
		return err
	}
	r.disposed = true
	r.commands = nil
	return nil
}

func (r *Recorder) Disposed() bool {
	return r.disposed
}

// Commands returns a copy of everything drawn since the last Clear.
func (r *Recorder) Commands() []Command {
	res := make([]Command, len(r.commands))
	copy(res, r.commands)
	return res
}

func (r *Recorder) Filter(op Op) []Command {
	var res []Command
	for _, c := range r.commands {
		if c.Op == op {
			res = append(res, c)
		}
	}
	return res
}

func (r *Recorder) Count(op Op) int {
	return len(r.Filter(op))
}
