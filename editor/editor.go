// Package editor owns one piano-roll session: the loaded project, the three
// drawing surfaces, the scroll panes and their synchronizer. Everything is
// acquired in New and released exactly once in Close; a closed editor
// cannot be reopened.
//
// All methods are serialized. Host events (load, resize, scroll,
// double-activate) map one-to-one onto Load, Resize, Scroll and Activate.
package editor

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jsphweid/ustxroll/constants"
	"github.com/jsphweid/ustxroll/keyboard"
	"github.com/jsphweid/ustxroll/logger"
	"github.com/jsphweid/ustxroll/mapper"
	"github.com/jsphweid/ustxroll/model"
	"github.com/jsphweid/ustxroll/render"
	"github.com/jsphweid/ustxroll/surface"
	"github.com/jsphweid/ustxroll/ustx"
	"github.com/jsphweid/ustxroll/viewport"
)

var ErrClosed = errors.New("editor closed")

type Kind int

const (
	KeysSurface Kind = iota
	GridSurface
	PhonemeSurface
)

func (k Kind) String() string {
	switch k {
	case KeysSurface:
		return "keys"
	case GridSurface:
		return "grid"
	case PhonemeSurface:
		return "phonemes"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func ParseKind(s string) (Kind, error) {
	for _, k := range []Kind{KeysSurface, GridSurface, PhonemeSurface} {
		if k.String() == s {
			return k, nil
		}
	}
	return KeysSurface, fmt.Errorf("unknown surface %q", s)
}

type Config struct {
	PixelsPerBeat float64
	KeyHeight     float64
	LowestKey     int
	TotalKeys     int
	KeyboardMode  keyboard.Mode
	Padding       float64
	ClientWidth   int
	ClientHeight  int
	PhonemeHeight int
	ScrollWindow  time.Duration
	Theme         render.Theme
}

// DefaultConfig reads the environment overrides in constants.
func DefaultConfig() Config {
	return Config{
		PixelsPerBeat: constants.GetPixelsPerBeat(),
		KeyHeight:     constants.GetKeyHeight(),
		LowestKey:     constants.GetLowestKey(),
		TotalKeys:     constants.GetTotalKeys(),
		KeyboardMode:  keyboard.Uniform,
		Padding:       constants.GetPadding(),
		ClientWidth:   constants.DefaultViewWidth,
		ClientHeight:  constants.DefaultViewHeight,
		PhonemeHeight: constants.PhonemePanelHeight,
		ScrollWindow:  constants.ScrollDebounce,
		Theme:         render.DefaultTheme(),
	}
}

type Option func(*Editor)

// OnNoteActivated registers the receiver of double-activate events. It runs
// after the editor has released its lock, so it may call back in.
func OnNoteActivated(fn func(render.NoteActivated)) Option {
	return func(e *Editor) {
		e.onActivate = fn
	}
}

// WithDebouncer replaces the scroll debouncer, mostly for tests.
func WithDebouncer(fn func(func())) Option {
	return func(e *Editor) {
		e.debouncer = fn
	}
}

type ViewportState struct {
	KeysOffset float64
	GridOffset float64
	Width      float64
	Height     float64
}

type Editor struct {
	mu sync.Mutex

	cfg       Config
	surfaces  [3]surface.Surface
	keyPane   *viewport.Pane
	gridPane  *viewport.Pane
	sync      *viewport.Synchronizer
	debouncer func(func())

	project  *model.Project
	renderer *render.Renderer
	keys     []keyboard.KeyDescriptor
	boxes    []render.NoteBox
	selected uuid.UUID

	onActivate func(render.NoteActivated)
	closed     bool
}

// New creates the surfaces through factory and draws the empty key panel
// and grid. On failure every surface created so far is disposed.
func New(cfg Config, factory surface.Factory, opts ...Option) (*Editor, error) {
	if cfg.Theme.Background == nil {
		cfg.Theme = render.DefaultTheme()
	}
	e := &Editor{cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}

	m, err := e.mapperFor(constants.DefaultResolution)
	if err != nil {
		return nil, err
	}
	e.renderer = render.New(m, render.WithTheme(cfg.Theme))

	layout := keyboard.DefaultLayout(cfg.KeyboardMode)
	layout.LowestKey = cfg.LowestKey
	layout.KeyHeight = cfg.KeyHeight
	e.keys, err = keyboard.ComputeKeys(cfg.TotalKeys, layout)
	if err != nil {
		return nil, err
	}

	height := pixels(m.ContentHeight())
	sizes := [3][2]int{
		KeysSurface:    {pixels(layout.KeyWidth), pixels(keyboard.Height(e.keys))},
		GridSurface:    {cfg.ClientWidth, height},
		PhonemeSurface: {cfg.ClientWidth, cfg.PhonemeHeight},
	}
	backgrounds := [3]color.Color{cfg.Theme.Background, cfg.Theme.Background, cfg.Theme.PanelLight}
	for kind, size := range sizes {
		s, err := factory(size[0], size[1], backgrounds[kind])
		if err != nil {
			e.disposeAll()
			return nil, fmt.Errorf("create %v surface: %w", Kind(kind), err)
		}
		e.surfaces[kind] = s
	}

	e.keyPane = viewport.NewPane(layout.KeyWidth, float64(cfg.ClientHeight))
	e.gridPane = viewport.NewPane(float64(cfg.ClientWidth), float64(cfg.ClientHeight))
	syncOpts := []viewport.Option{
		viewport.WithPadding(cfg.Padding),
		viewport.WithHeights(keyboard.Height(e.keys), m.ContentHeight()),
		viewport.WithResizer(e.resizeGrid),
	}
	if e.debouncer != nil {
		syncOpts = append(syncOpts, viewport.WithDebouncer(e.debouncer))
	} else if cfg.ScrollWindow > 0 {
		syncOpts = append(syncOpts, viewport.WithWindow(cfg.ScrollWindow))
	}
	e.sync = viewport.New(e.keyPane, e.gridPane, syncOpts...)

	if err := e.renderer.RenderKeys(e.surfaces[KeysSurface], e.keys); err != nil {
		e.disposeAll()
		return nil, err
	}
	if _, _, err := e.sync.OnContentGrow(m, nil, float64(cfg.ClientWidth)); err != nil {
		e.disposeAll()
		return nil, err
	}
	return e, nil
}

func pixels(v float64) int {
	return int(math.Ceil(v))
}

func (e *Editor) mapperFor(resolution int) (mapper.Mapper, error) {
	return mapper.New(resolution,
		mapper.WithPixelsPerBeat(e.cfg.PixelsPerBeat),
		mapper.WithKeyHeight(e.cfg.KeyHeight),
		mapper.WithKeyRange(e.cfg.LowestKey, e.cfg.TotalKeys))
}

func (e *Editor) notes() []model.Note {
	if e.project == nil {
		return nil
	}
	return e.project.Notes()
}

// Load parses data (path only picks the format) and replaces the current
// project. A *model.ParseError leaves the previous project and frame as they
// were. A *model.GeometryError means the project loaded but its notes could
// not be placed; the previous frame stays on screen.
func (e *Editor) Load(path string, data []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}

	p, err := ustx.Decode(path, data)
	if err != nil {
		logger.L().Warn("score rejected", "path", path, "err", err)
		return err
	}
	m, err := e.mapperFor(p.Resolution)
	if err != nil {
		return err
	}

	return e.sync.Exclusive(func() error {
		e.project = p
		e.renderer = render.New(m, render.WithTheme(e.cfg.Theme), render.WithBeatsPerBar(p.BeatPerBar))
		e.selected = uuid.Nil
		e.boxes = nil

		notes := p.Notes()
		if err := e.renderer.Validate(notes); err != nil {
			logger.L().Warn("render aborted", "err", err)
			return err
		}
		if err := e.renderer.RenderKeys(e.surfaces[KeysSurface], e.keys); err != nil {
			return err
		}
		if err := e.renderer.RenderPhonemes(e.surfaces[PhonemeSurface], nil); err != nil {
			return err
		}

		clientWidth, _ := e.gridPane.ClientSize()
		width, grown, err := e.sync.OnContentGrow(m, notes, clientWidth)
		if err != nil {
			return err
		}
		logger.L().Info("project loaded", "name", p.Name, "notes", len(notes), "width", width)
		if grown {
			return nil
		}
		return e.redraw(width)
	})
}

// resizeGrid is the synchronizer's Resizer. It runs with e.mu held. Notes
// are checked before any surface is touched, so a failure keeps the frame.
func (e *Editor) resizeGrid(width float64) error {
	if err := e.renderer.Validate(e.notes()); err != nil {
		logger.L().Warn("resize aborted", "err", err)
		return err
	}
	height := pixels(e.renderer.Mapper().ContentHeight())
	if err := e.surfaces[GridSurface].Resize(pixels(width), height); err != nil {
		return err
	}
	if err := e.surfaces[PhonemeSurface].Resize(pixels(width), e.cfg.PhonemeHeight); err != nil {
		return err
	}
	if err := e.redraw(width); err != nil {
		return err
	}
	return e.redrawPhonemes()
}

func (e *Editor) redraw(width float64) error {
	notes := e.notes()
	if err := e.renderer.Validate(notes); err != nil {
		logger.L().Warn("render aborted", "err", err)
		return err
	}
	grid := e.surfaces[GridSurface]
	if err := e.renderer.RenderGrid(grid, width); err != nil {
		return err
	}
	boxes, err := e.renderer.RenderNotes(grid, notes)
	if err != nil {
		return err
	}
	e.boxes = boxes
	return nil
}

func (e *Editor) redrawPhonemes() error {
	var notes []model.Note
	if e.selected != uuid.Nil && e.project != nil {
		if n, ok := e.project.NoteByID(e.selected); ok {
			notes = append(notes, n)
		}
	}
	return e.renderer.RenderPhonemes(e.surfaces[PhonemeSurface], notes)
}

// Resize handles a host window resize. The grid never shrinks below the
// score's extent.
func (e *Editor) Resize(clientWidth, clientHeight int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if clientWidth <= 0 || clientHeight <= 0 {
		return &model.GeometryError{Op: "resize", Reason: fmt.Sprintf("client size must be > 0, got %dx%d", clientWidth, clientHeight)}
	}

	e.gridPane.SetClientSize(float64(clientWidth), float64(clientHeight))
	kw, _ := e.keyPane.ClientSize()
	e.keyPane.SetClientSize(kw, float64(clientHeight))

	return e.sync.Exclusive(func() error {
		_, _, err := e.sync.OnContentGrow(e.renderer.Mapper(), e.notes(), float64(clientWidth))
		return err
	})
}

// Scroll reports that the host scrolled region to offset.
func (e *Editor) Scroll(region viewport.Region, offset float64) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	pane := e.gridPane
	if region == viewport.KeyPanel {
		pane = e.keyPane
	}
	e.mu.Unlock()

	pane.SetScrollTop(offset)
	e.sync.OnScroll(region, offset)
	return nil
}

// Flush propagates any pending scroll right away.
func (e *Editor) Flush() {
	e.sync.Flush()
}

// Activate handles a double-activate at grid coordinates (x, y). When a note
// is hit it becomes the selection, the phoneme panel shows it and the
// NoteActivated event goes to the registered receiver.
func (e *Editor) Activate(x, y float64) (render.NoteActivated, bool, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return render.NoteActivated{}, false, ErrClosed
	}
	ev, ok := render.HitTest(e.boxes, x, y)
	if !ok {
		e.mu.Unlock()
		return ev, false, nil
	}
	return e.choose(ev)
}

// Select makes the note with id the selection, as if it had been activated.
// Unlike Activate it never picks a different note drawn over the same spot.
func (e *Editor) Select(id uuid.UUID) (render.NoteActivated, bool, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return render.NoteActivated{}, false, ErrClosed
	}
	for _, b := range e.boxes {
		if b.Note.ID == id {
			return e.choose(render.NoteActivated{ID: b.Note.ID, Note: b.Note})
		}
	}
	e.mu.Unlock()
	return render.NoteActivated{}, false, nil
}

// choose runs with e.mu held and releases it before calling the handler.
func (e *Editor) choose(ev render.NoteActivated) (render.NoteActivated, bool, error) {
	e.selected = ev.ID
	err := e.redrawPhonemes()
	handler := e.onActivate
	e.mu.Unlock()

	if err != nil {
		return ev, true, err
	}
	if handler != nil {
		handler(ev)
	}
	return ev, true, nil
}

// Project is the current project, or nil before the first successful load.
func (e *Editor) Project() *model.Project {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.project
}

func (e *Editor) Selected() (model.Note, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.selected == uuid.Nil || e.project == nil {
		return model.Note{}, false
	}
	return e.project.NoteByID(e.selected)
}

func (e *Editor) Mapper() mapper.Mapper {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.renderer.Mapper()
}

func (e *Editor) Boxes() []render.NoteBox {
	e.mu.Lock()
	defer e.mu.Unlock()
	res := make([]render.NoteBox, len(e.boxes))
	copy(res, e.boxes)
	return res
}

func (e *Editor) Keys() []keyboard.KeyDescriptor {
	e.mu.Lock()
	defer e.mu.Unlock()
	res := make([]keyboard.KeyDescriptor, len(e.keys))
	copy(res, e.keys)
	return res
}

func (e *Editor) Viewport() ViewportState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ViewportState{
		KeysOffset: e.keyPane.ScrollTop(),
		GridOffset: e.gridPane.ScrollTop(),
		Width:      e.sync.Width(),
		Height:     e.renderer.Mapper().ContentHeight(),
	}
}

// Surface hands out a surface for reading (encoding, inspection). The editor
// keeps ownership; callers must not dispose it.
func (e *Editor) Surface(kind Kind) (surface.Surface, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}
	if kind < KeysSurface || kind > PhonemeSurface {
		return nil, fmt.Errorf("unknown surface kind %d", int(kind))
	}
	return e.surfaces[kind], nil
}

// WithSurface runs fn on a surface while holding the editor lock, so the
// surface cannot be redrawn or disposed underneath it.
func (e *Editor) WithSurface(kind Kind, fn func(surface.Surface) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if kind < KeysSurface || kind > PhonemeSurface {
		return fmt.Errorf("unknown surface kind %d", int(kind))
	}
	return fn(e.surfaces[kind])
}

func (e *Editor) disposeAll() error {
	var errs []error
	for kind, s := range e.surfaces {
		if s == nil {
			continue
		}
		if err := s.Dispose(); err != nil {
			errs = append(errs, fmt.Errorf("dispose %v surface: %w", Kind(kind), err))
		}
		e.surfaces[kind] = nil
	}
	return errors.Join(errs...)
}

// Close disposes every surface once and stops scroll propagation.
func (e *Editor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.closed = true
	e.sync.Close()
	err := e.disposeAll()
	logger.L().Info("editor closed")
	return err
}
