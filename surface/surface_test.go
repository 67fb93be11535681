package surface

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsphweid/ustxroll/model"
)

func TestRectContainsIsHalfOpen(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 30, H: 40}

	assert := assert.New(t)
	assert.True(r.Contains(10, 20))
	assert.True(r.Contains(39.9, 59.9))
	assert.False(r.Contains(40, 30))
	assert.False(r.Contains(20, 60))
	assert.True(r.OverlapsVertically(Rect{Y: 59, H: 5}))
	assert.False(r.OverlapsVertically(Rect{Y: 60, H: 5}))
	assert.True(Rect{W: 0, H: 3}.Empty())
}

func TestHex(t *testing.T) {
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0x99, B: 0x00, A: 0xff}, Hex("#ff9900"))
}

func TestRecorderClearReplacesOutput(t *testing.T) {
	r, err := NewRecorder(100, 50, color.White)
	require.NoError(t, err)

	require.NoError(t, r.DrawRect(Rect{W: 5, H: 5}, Style{Fill: color.Black}))
	require.NoError(t, r.DrawLine(Point{}, Point{X: 1, Y: 1}, Style{Stroke: color.Black}))
	require.NoError(t, r.Clear())
	require.NoError(t, r.DrawText("a", Point{X: 1, Y: 1}, TextStyle{}))

	cmds := r.Commands()
	assert := assert.New(t)
	require.Len(t, cmds, 2)
	assert.Equal(OpClear, cmds[0].Op)
	assert.Equal(Rect{W: 100, H: 50}, cmds[0].Rect)
	assert.Equal(OpText, cmds[1].Op)
	assert.Equal(1, r.Count(OpText))
	assert.Equal("polyline", OpPolyline.String())
}

func TestRecorderSkipsDegeneratePolyline(t *testing.T) {
	r, err := NewRecorder(10, 10, color.White)
	require.NoError(t, err)
	require.NoError(t, r.DrawPolyline([]Point{{X: 1, Y: 1}}, Style{}))
	assert.Equal(t, 0, r.Count(OpPolyline))
}

func TestRecorderDisposeOnce(t *testing.T) {
	r, err := NewRecorder(10, 10, color.White)
	require.NoError(t, err)
	require.NoError(t, r.Dispose())
	assert.True(t, r.Disposed())

	var se *model.SurfaceError
	err = r.Dispose()
	assert.True(t, errors.As(err, &se))
	assert.ErrorIs(t, err, ErrDisposed)
	assert.ErrorIs(t, r.DrawRect(Rect{}, Style{}), ErrDisposed)
	assert.ErrorIs(t, r.Resize(5, 5), ErrDisposed)
}

func TestInvalidDimensions(t *testing.T) {
	var se *model.SurfaceError

	_, err := NewRecorder(0, 10, color.White)
	assert.True(t, errors.As(err, &se))

	_, err = NewCanvas(10, -1, color.White)
	assert.True(t, errors.As(err, &se))

	r, err := NewRecorder(10, 10, color.White)
	require.NoError(t, err)
	assert.True(t, errors.As(r.Resize(0, 0), &se))
	w, h := r.Size()
	assert.Equal(t, []int{10, 10}, []int{w, h})
}

func TestCanvasDrawsAndEncodes(t *testing.T) {
	c, err := NewCanvas(64, 32, color.White)
	require.NoError(t, err)

	red := color.NRGBA{R: 255, A: 255}
	require.NoError(t, c.DrawRect(Rect{X: 8, Y: 8, W: 16, H: 16}, Style{Fill: red, Stroke: color.Black}))
	require.NoError(t, c.DrawPolyline([]Point{{X: 30, Y: 2}, {X: 40, Y: 20}, {X: 60, Y: 4}}, Style{Stroke: color.Black, LineWidth: 2}))
	require.NoError(t, c.DrawText("la", Point{X: 16, Y: 16}, TextStyle{Color: color.White, Clip: Rect{X: 8, Y: 8, W: 16, H: 16}}))

	r, g, b, _ := c.Image().At(10, 10).RGBA()
	assert := assert.New(t)
	assert.Equal(uint32(0xffff), r)
	assert.Equal(uint32(0), g)
	assert.Equal(uint32(0), b)

	var buf bytes.Buffer
	require.NoError(t, c.EncodePNG(&buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(64, img.Bounds().Dx())

	require.NoError(t, c.Resize(128, 32))
	w, _ := c.Size()
	assert.Equal(128, w)

	require.NoError(t, c.Dispose())
	assert.ErrorIs(c.Dispose(), ErrDisposed)
	assert.ErrorIs(c.EncodePNG(&buf), ErrDisposed)
}

func TestFitTruncatesToWidth(t *testing.T) {
	measure := func(s string) float64 { return float64(len([]rune(s))) * 5 }

	assert := assert.New(t)
	assert.Equal("hello", fit("hello", 30, measure))
	assert.Equal("hel", fit("hello", 15, measure))
	assert.Equal("", fit("hello", 2, measure))
}
