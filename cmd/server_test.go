package cmd

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsphweid/ustxroll/editor"
	"github.com/jsphweid/ustxroll/model"
	"github.com/jsphweid/ustxroll/surface"
)

const score = `
name: test
resolution: 480
voice_parts:
- name: lead
  notes:
  - {position: 0, duration: 480, tone: 60, lyric: la}
  - {position: 7680, duration: 960, tone: 62, lyric: ka}
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := editor.DefaultConfig()
	cfg.PixelsPerBeat = 50
	cfg.KeyHeight = 20
	cfg.LowestKey = 0
	cfg.TotalKeys = 128
	cfg.Padding = 100
	cfg.ClientWidth = 700
	ed, err := editor.New(cfg, surface.CanvasFactory)
	require.NoError(t, err)

	srv := httptest.NewServer(newRouter(ed))
	t.Cleanup(func() {
		srv.Close()
		ed.Close()
	})
	return srv
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	res, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	res, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func decode[T any](t *testing.T, res *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(res.Body).Decode(&v))
	return v
}

func TestServerLoadAndInspect(t *testing.T) {
	srv := newTestServer(t)

	res := get(t, srv.URL+"/project")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res = post(t, srv.URL+"/project?name=test.ustx", score)
	require.Equal(t, http.StatusOK, res.StatusCode)
	p := decode[model.ProjectResponse](t, res)

	assert := assert.New(t)
	assert.Equal("test", p.Name)
	assert.Equal(120.0, p.BPM)
	require.Len(t, p.Notes, 2)
	assert.Equal(800.0, p.Notes[1].X)
	assert.Equal(1300.0, p.Notes[1].Y)
	assert.Equal("ka", p.Notes[1].Lyric)

	vp := decode[model.ViewportResponse](t, get(t, srv.URL+"/viewport"))
	assert.Equal(1000.0, vp.Width)
	assert.Equal(2560.0, vp.Height)
}

func TestServerRejectsMalformedScore(t *testing.T) {
	srv := newTestServer(t)
	require.Equal(t, http.StatusOK, post(t, srv.URL+"/project?name=test.ustx", score).StatusCode)

	res := post(t, srv.URL+"/project?name=broken.ustx", "voice_parts: [")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	e := decode[model.ErrorResponse](t, res)
	assert.Contains(t, e.Error, "The score could not be read")

	p := decode[model.ProjectResponse](t, get(t, srv.URL+"/project"))
	assert.Equal(t, "test", p.Name)
}

func TestServerSurfaces(t *testing.T) {
	srv := newTestServer(t)
	require.Equal(t, http.StatusOK, post(t, srv.URL+"/project?name=test.ustx", score).StatusCode)

	res := get(t, srv.URL+"/surfaces/grid.png")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "image/png", res.Header.Get("Content-Type"))
	img, err := png.Decode(res.Body)
	require.NoError(t, err)
	assert.Equal(t, 1000, img.Bounds().Dx())
	assert.Equal(t, 2560, img.Bounds().Dy())

	res = get(t, srv.URL+"/surfaces/piano.png")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestServerScrollPropagates(t *testing.T) {
	srv := newTestServer(t)

	res := post(t, srv.URL+"/scroll", `{"region": "grid", "offset": 240}`)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	assert.Eventually(t, func() bool {
		res, err := http.Get(srv.URL + "/viewport")
		if err != nil {
			return false
		}
		defer res.Body.Close()
		var vp model.ViewportResponse
		return json.NewDecoder(res.Body).Decode(&vp) == nil && vp.KeysOffset == 240
	}, time.Second, 5*time.Millisecond)

	res = post(t, srv.URL+"/scroll", `{"region": "phonemes", "offset": 1}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	res = post(t, srv.URL+"/scroll", `{"region":`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestServerActivateAndResize(t *testing.T) {
	srv := newTestServer(t)
	require.Equal(t, http.StatusOK, post(t, srv.URL+"/project?name=test.ustx", score).StatusCode)

	res := post(t, srv.URL+"/activate", `{"x": 810, "y": 1305}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	n := decode[model.NoteResponse](t, res)
	assert.Equal(t, "ka", n.Lyric)
	assert.Equal(t, 100.0, n.Width)

	res = post(t, srv.URL+"/activate", `{"x": 400, "y": 0}`)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	res = post(t, srv.URL+"/resize", `{"width": 1200, "height": 600}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, 1200.0, decode[model.ViewportResponse](t, res).Width)

	res = post(t, srv.URL+"/resize", `{"width": 0, "height": 600}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestServerAllowsCrossOrigin(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/viewport", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
}

func TestPrintKeysAndInspect(t *testing.T) {
	var keys bytes.Buffer
	cfg := editor.DefaultConfig()
	cfg.TotalKeys = 12
	cfg.LowestKey = 60
	ed, err := editor.New(cfg, surface.RecorderFactory)
	require.NoError(t, err)
	defer ed.Close()

	require.NoError(t, printKeys(&keys, ed.Keys()))
	lines := strings.Split(strings.TrimSpace(keys.String()), "\n")
	require.Len(t, lines, 14)
	assert.Contains(t, lines[1], "B4")
	assert.Contains(t, lines[12], "C4")
	assert.Contains(t, lines[2], "black")

	require.NoError(t, ed.Load("test.ustx", []byte(score)))
	var out bytes.Buffer
	inspect(&out, ed.Project())
	assert.Contains(t, out.String(), "length: 8640 ticks")
	assert.Contains(t, out.String(), "tone 60 (C4): 1")
	assert.Contains(t, out.String(), "tone 62 (D4): 1")
}
