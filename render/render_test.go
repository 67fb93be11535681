package render

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsphweid/ustxroll/keyboard"
	"github.com/jsphweid/ustxroll/mapper"
	"github.com/jsphweid/ustxroll/model"
	"github.com/jsphweid/ustxroll/surface"
)

func newRenderer(t *testing.T, opts ...mapper.Option) *Renderer {
	t.Helper()
	m, err := mapper.New(480, opts...)
	require.NoError(t, err)
	return New(m)
}

func newRecorder(t *testing.T, width int) *surface.Recorder {
	t.Helper()
	rec, err := surface.NewRecorder(width, 2560, DefaultTheme().Background)
	require.NoError(t, err)
	return rec
}

func verticalLines(rec *surface.Recorder) []surface.Command {
	var res []surface.Command
	for _, c := range rec.Filter(surface.OpLine) {
		if c.Points[0].X == c.Points[1].X {
			res = append(res, c)
		}
	}
	return res
}

func TestRenderGridLineCounts(t *testing.T) {
	for _, width := range []float64{1, 49, 50, 51, 500, 777.5, 1000} {
		t.Run(fmt.Sprintf("width %v", width), func(t *testing.T) {
			r := newRenderer(t)
			rec := newRecorder(t, int(math.Ceil(width)))
			require.NoError(t, r.RenderGrid(rec, width))

			assert := assert.New(t)
			assert.Len(verticalLines(rec), int(math.Ceil(width/50))+1)
			assert.Equal(129+len(verticalLines(rec)), rec.Count(surface.OpLine))
			// C♯ D♯ F♯ G♯ A♯ across ten full octaves plus C♯ D♯ F♯ in the top one
			assert.Equal(53, rec.Count(surface.OpRect))
		})
	}
}

func TestRenderGridReplacesPreviousOutput(t *testing.T) {
	r := newRenderer(t)
	rec := newRecorder(t, 1000)

	require.NoError(t, r.RenderGrid(rec, 1000))
	first := len(rec.Commands())
	require.NoError(t, r.RenderGrid(rec, 1000))

	cmds := rec.Commands()
	assert.Equal(t, first, len(cmds))
	assert.Equal(t, surface.OpClear, cmds[0].Op)
	assert.Equal(t, 1, rec.Count(surface.OpClear))
}

func TestRenderGridShadesBlackRows(t *testing.T) {
	r := newRenderer(t)
	rec := newRecorder(t, 200)
	require.NoError(t, r.RenderGrid(rec, 200))

	m := r.Mapper()
	for _, c := range rec.Filter(surface.OpRect) {
		row := m.YToRow(c.Rect.Y)
		assert.True(t, keyboard.IsBlackKey(m.ToneForRow(row)))
		assert.Equal(t, 200.0, c.Rect.W)
	}
}

func TestRenderGridBarLines(t *testing.T) {
	r := newRenderer(t)
	rec := newRecorder(t, 400)
	require.NoError(t, r.RenderGrid(rec, 400))

	var bars []float64
	for _, c := range verticalLines(rec) {
		if c.Style.Stroke == r.Theme().BarLine {
			bars = append(bars, c.Points[0].X)
		}
	}
	assert.Equal(t, []float64{0, 200, 400}, bars)
}

func TestRenderGridRejectsBadWidth(t *testing.T) {
	r := newRenderer(t)
	rec := newRecorder(t, 10)

	var ge *model.GeometryError
	assert.True(t, errors.As(r.RenderGrid(rec, 0), &ge))
	assert.Empty(t, rec.Commands())
}

func TestRenderNotesGeometry(t *testing.T) {
	r := newRenderer(t)
	rec := newRecorder(t, 1000)
	note := model.Note{ID: uuid.New(), Position: 480, Duration: 960, Tone: 64, Lyric: "la"}

	boxes, err := r.RenderNotes(rec, []model.Note{note})
	require.NoError(t, err)

	assert := assert.New(t)
	require.Len(t, boxes, 1)
	assert.Equal(surface.Rect{X: 50, Y: float64(128-64-1) * 20, W: 100, H: 20}, boxes[0].Rect)

	rects := rec.Filter(surface.OpRect)
	require.Len(t, rects, 1)
	assert.Equal(boxes[0].Rect, rects[0].Rect)

	texts := rec.Filter(surface.OpText)
	require.Len(t, texts, 1)
	assert.Equal("la", texts[0].Text)
	assert.Equal(surface.Point{X: 100, Y: 63*20 + 10}, texts[0].Points[0])
	assert.Equal(boxes[0].Rect, texts[0].TextStyle.Clip)
	assert.Equal(surface.AlignCenter, texts[0].TextStyle.Align)
}

func TestRenderNotesPitchCurve(t *testing.T) {
	r := newRenderer(t)
	rec := newRecorder(t, 1000)
	note := model.Note{
		ID: uuid.New(), Position: 0, Duration: 480, Tone: 60,
		Pitch: []model.PitchPoint{{X: 0, Y: 0}, {X: 240, Y: 50, Shape: "io"}, {X: 480, Y: -100}},
	}

	_, err := r.RenderNotes(rec, []model.Note{note})
	require.NoError(t, err)

	lines := rec.Filter(surface.OpPolyline)
	require.Len(t, lines, 1)
	y := float64(128-60-1) * 20
	assert.Equal(t, []surface.Point{{X: 0, Y: y}, {X: 25, Y: y + 10}, {X: 50, Y: y - 20}}, lines[0].Points)
	// no lyric, no label
	assert.Equal(t, 0, rec.Count(surface.OpText))
}

func TestRenderNotesKeepsOrder(t *testing.T) {
	r := newRenderer(t)
	rec := newRecorder(t, 1000)
	a := model.Note{ID: uuid.New(), Position: 0, Duration: 960, Tone: 60}
	b := model.Note{ID: uuid.New(), Position: 480, Duration: 960, Tone: 60}

	boxes, err := r.RenderNotes(rec, []model.Note{a, b})
	require.NoError(t, err)

	rects := rec.Filter(surface.OpRect)
	require.Len(t, rects, 2)
	assert.Equal(t, 0.0, rects[0].Rect.X)
	assert.Equal(t, 50.0, rects[1].Rect.X)

	// the overlap belongs to the note drawn last
	hit, ok := HitTest(boxes, 75, boxes[0].Rect.Y+5)
	assert.True(t, ok)
	assert.Equal(t, b.ID, hit.ID)

	hit, ok = HitTest(boxes, 25, boxes[0].Rect.Y+5)
	assert.True(t, ok)
	assert.Equal(t, a.ID, hit.ID)
	assert.Equal(t, a, hit.Note)

	_, ok = HitTest(boxes, 25, 0)
	assert.False(t, ok)
}

func TestRenderNotesAbortsOnBadTone(t *testing.T) {
	r := newRenderer(t)
	rec := newRecorder(t, 1000)
	require.NoError(t, r.RenderGrid(rec, 1000))
	before := rec.Commands()

	notes := []model.Note{
		{ID: uuid.New(), Position: 0, Duration: 480, Tone: 60},
		{ID: uuid.New(), Position: 480, Duration: 480, Tone: 130},
	}
	boxes, err := r.RenderNotes(rec, notes)

	var ge *model.GeometryError
	assert.True(t, errors.As(err, &ge))
	assert.Nil(t, boxes)
	assert.Equal(t, before, rec.Commands())
}

func TestRenderNotesTruncatedRange(t *testing.T) {
	r := newRenderer(t, mapper.WithKeyRange(21, 88))
	rec := newRecorder(t, 1000)

	boxes, err := r.RenderNotes(rec, []model.Note{{ID: uuid.New(), Position: 0, Duration: 480, Tone: 108}})
	require.NoError(t, err)
	assert.Equal(t, 0.0, boxes[0].Rect.Y)

	_, err = r.RenderNotes(rec, []model.Note{{ID: uuid.New(), Position: 0, Duration: 480, Tone: 12}})
	assert.Error(t, err)
}

func TestRenderNotesSurfaceFailure(t *testing.T) {
	r := newRenderer(t)
	rec := newRecorder(t, 100)
	require.NoError(t, rec.Dispose())

	_, err := r.RenderNotes(rec, []model.Note{{ID: uuid.New(), Position: 0, Duration: 480, Tone: 60}})
	var se *model.SurfaceError
	assert.True(t, errors.As(err, &se))
}

func TestRenderKeysDrawsWhitesFirst(t *testing.T) {
	r := newRenderer(t)
	layout := keyboard.DefaultLayout(keyboard.Differentiated)
	layout.LowestKey = 60
	keys, err := keyboard.ComputeKeys(12, layout)
	require.NoError(t, err)

	rec, err := surface.NewRecorder(100, 140, r.Theme().Background)
	require.NoError(t, err)
	require.NoError(t, r.RenderKeys(rec, keys))

	rects := rec.Filter(surface.OpRect)
	require.Len(t, rects, 12)
	for i, c := range rects {
		if i < 7 {
			assert.Equal(t, r.Theme().WhiteKey, c.Style.Fill)
		} else {
			assert.Equal(t, r.Theme().BlackKey, c.Style.Fill)
		}
	}

	var labels []string
	for _, c := range rec.Filter(surface.OpText) {
		labels = append(labels, c.Text)
	}
	assert.Equal(t, []string{"B4", "A4", "G4", "F4", "E4", "D4", "C4"}, labels)
}

func TestPhonemes(t *testing.T) {
	assert := assert.New(t)
	assert.Equal([]string{"l", "a"}, Phonemes(model.Note{Lyric: "la"}))
	assert.Equal([]string{"す", "し"}, Phonemes(model.Note{Lyric: "すし"}))
	assert.Nil(Phonemes(model.Note{}))
	assert.Equal([]string{"k", "a"}, Phonemes(model.Note{
		Lyric:    "ka",
		Phonemes: []model.PhonemeOverride{{Index: 1, Phoneme: "a"}, {Index: 0, Phoneme: "k"}},
	}))
}

func TestRenderPhonemes(t *testing.T) {
	r := newRenderer(t)
	rec, err := surface.NewRecorder(1000, 150, r.Theme().PanelLight)
	require.NoError(t, err)

	note := model.Note{ID: uuid.New(), Position: 480, Duration: 960, Tone: 60, Lyric: "abcd"}
	require.NoError(t, r.RenderPhonemes(rec, []model.Note{note}))

	rects := rec.Filter(surface.OpRect)
	require.Len(t, rects, 4)
	for i, c := range rects {
		assert.Equal(t, surface.Rect{X: 50 + float64(i)*25, W: 25, H: 150}, c.Rect)
	}
	texts := rec.Filter(surface.OpText)
	require.Len(t, texts, 4)
	assert.Equal(t, "c", texts[2].Text)
	assert.Equal(t, surface.Point{X: 112.5, Y: 75}, texts[2].Points[0])
}
