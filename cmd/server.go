package cmd

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/jsphweid/ustxroll/editor"
	"github.com/jsphweid/ustxroll/model"
	"github.com/jsphweid/ustxroll/render"
	"github.com/jsphweid/ustxroll/report"
	"github.com/jsphweid/ustxroll/viewport"
)

// maxScoreSize bounds uploaded scores.
const maxScoreSize = 32 << 20

// server forwards host events to one editor session.
type server struct {
	ed *editor.Editor
}

func newRouter(ed *editor.Editor) http.Handler {
	s := &server{ed: ed}
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/project", s.handleLoad).Methods("POST")
	router.HandleFunc("/project", s.handleProject).Methods("GET")
	router.HandleFunc("/surfaces/{kind:[a-z]+}.png", s.handleSurface).Methods("GET")
	router.HandleFunc("/scroll", s.handleScroll).Methods("POST")
	router.HandleFunc("/resize", s.handleResize).Methods("POST")
	router.HandleFunc("/activate", s.handleActivate).Methods("POST")
	router.HandleFunc("/viewport", s.handleViewport).Methods("GET")
	return cors.Default().Handler(router)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	report.Error(err)
	writeJSON(w, report.Status(err), model.ErrorResponse{Error: report.Message(err)})
}

func badRequest(err error, what string) error {
	return report.Invalid(err, what)
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest(err, "malformed request body")
	}
	return nil
}

// handleLoad takes the raw score as the body. The name query parameter
// picks the format the same way a file name would.
func (s *server) handleLoad(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "upload.ustx"
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxScoreSize))
	if err != nil {
		writeError(w, badRequest(err, "unreadable request body"))
		return
	}
	if err := s.ed.Load(name, data); err != nil {
		writeError(w, report.Describe(err, "load "+name))
		return
	}
	s.handleProject(w, r)
}

func (s *server) handleProject(w http.ResponseWriter, r *http.Request) {
	p := s.ed.Project()
	if p == nil {
		writeJSON(w, http.StatusNotFound, model.ErrorResponse{Error: "No score loaded."})
		return
	}
	writeJSON(w, http.StatusOK, projectResponse(p, s.ed.Boxes()))
}

func projectResponse(p *model.Project, boxes []render.NoteBox) model.ProjectResponse {
	res := model.ProjectResponse{
		Name:       p.Name,
		Resolution: p.Resolution,
		BPM:        p.BPM,
		BeatPerBar: p.BeatPerBar,
		BeatUnit:   p.BeatUnit,
		Parts:      len(p.VoiceParts),
		Notes:      make([]model.NoteResponse, 0, len(boxes)),
	}
	for _, b := range boxes {
		res.Notes = append(res.Notes, noteResponse(b.Note, b.Rect.X, b.Rect.Y, b.Rect.W, b.Rect.H))
	}
	return res
}

func noteResponse(n model.Note, x, y, w, h float64) model.NoteResponse {
	return model.NoteResponse{
		ID:       n.ID.String(),
		Position: n.Position,
		Duration: n.Duration,
		Tone:     n.Tone,
		Lyric:    n.Lyric,
		Pitch:    len(n.Pitch),
		X:        x,
		Y:        y,
		Width:    w,
		Height:   h,
	}
}

func (s *server) handleSurface(w http.ResponseWriter, r *http.Request) {
	kind, err := editor.ParseKind(mux.Vars(r)["kind"])
	if err != nil {
		writeJSON(w, http.StatusNotFound, model.ErrorResponse{Error: "No such surface."})
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := writePNG(s.ed, kind, w); err != nil {
		w.Header().Del("Content-Type")
		writeError(w, report.Describe(err, "encode "+kind.String()))
	}
}

func (s *server) handleScroll(w http.ResponseWriter, r *http.Request) {
	var body model.ScrollRequestBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	region, err := viewport.ParseRegion(body.Region)
	if err != nil {
		writeError(w, badRequest(err, "unknown region"))
		return
	}
	if err := s.ed.Scroll(region, body.Offset); err != nil {
		writeError(w, report.Describe(err, "scroll"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleResize(w http.ResponseWriter, r *http.Request) {
	var body model.ResizeRequestBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	if err := s.ed.Resize(body.Width, body.Height); err != nil {
		writeError(w, report.Describe(err, "resize"))
		return
	}
	s.handleViewport(w, r)
}

func (s *server) handleActivate(w http.ResponseWriter, r *http.Request) {
	var body model.ActivateRequestBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	ev, ok, err := s.ed.Activate(body.X, body.Y)
	if err != nil {
		writeError(w, report.Describe(err, "activate"))
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	rect := render.New(s.ed.Mapper()).NoteRect(ev.Note)
	writeJSON(w, http.StatusOK, noteResponse(ev.Note, rect.X, rect.Y, rect.W, rect.H))
}

func (s *server) handleViewport(w http.ResponseWriter, r *http.Request) {
	vp := s.ed.Viewport()
	writeJSON(w, http.StatusOK, model.ViewportResponse{
		KeysOffset: vp.KeysOffset,
		GridOffset: vp.GridOffset,
		Width:      vp.Width,
		Height:     vp.Height,
	})
}
