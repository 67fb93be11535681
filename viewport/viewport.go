// Package viewport keeps the key panel and the note grid scrolled together
// and sizes the grid to the score.
//
// By default both regions have the same content height and an offset read
// from one is written to the other as is. WithHeights scales offsets when the
// key panel is laid out taller or shorter than the grid. Only offsets and
// widths are touched here; redrawing is delegated to the Resizer hook.
package viewport

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/bep/debounce"

	"github.com/jsphweid/ustxroll/constants"
	"github.com/jsphweid/ustxroll/logger"
	"github.com/jsphweid/ustxroll/mapper"
	"github.com/jsphweid/ustxroll/model"
	"github.com/jsphweid/ustxroll/util"
)

type Region int

const (
	KeyPanel Region = iota
	GridPanel
)

func (r Region) Other() Region {
	if r == KeyPanel {
		return GridPanel
	}
	return KeyPanel
}

func (r Region) String() string {
	if r == KeyPanel {
		return "keys"
	}
	return "grid"
}

func ParseRegion(s string) (Region, error) {
	switch s {
	case "keys":
		return KeyPanel, nil
	case "grid":
		return GridPanel, nil
	}
	return KeyPanel, fmt.Errorf("unknown region %q", s)
}

type Scroller interface {
	ScrollTop() float64
	SetScrollTop(offset float64)
}

// Resizer is told the new content width; it resizes the grid surface and
// redraws grid and notes.
type Resizer func(width float64) error

type scrollEvent struct {
	src    Region
	offset float64
}

type Synchronizer struct {
	// flushMu orders propagation against Exclusive work such as a reload
	flushMu sync.Mutex

	mu       sync.Mutex
	panes    [2]Scroller
	debounce func(func())
	pending  *scrollEvent
	padding  float64
	heights  [2]float64
	width    float64
	resize   Resizer
	closed   bool
}

type Option func(*Synchronizer)

// WithWindow coalesces scroll bursts inside d into one propagation.
func WithWindow(d time.Duration) Option {
	return func(s *Synchronizer) {
		s.debounce = debounce.New(d)
	}
}

// WithDebouncer replaces the timer-based debouncer; fn receives the flush
// to run once the burst is over.
func WithDebouncer(fn func(func())) Option {
	return func(s *Synchronizer) {
		s.debounce = fn
	}
}

func WithPadding(px float64) Option {
	return func(s *Synchronizer) {
		s.padding = px
	}
}

// WithHeights sets the content height of each region. An offset is carried
// over at the same fraction of the content, so both regions show the same
// part of the key range.
func WithHeights(keys, grid float64) Option {
	return func(s *Synchronizer) {
		s.heights = [2]float64{keys, grid}
	}
}

func WithResizer(fn Resizer) Option {
	return func(s *Synchronizer) {
		s.resize = fn
	}
}

func New(keys, grid Scroller, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		panes:    [2]Scroller{keys, grid},
		debounce: debounce.New(constants.ScrollDebounce),
		padding:  constants.ContentPadding,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnScroll records that src now shows offset. The write to the other region
// happens once the burst settles, using the last offset seen.
func (s *Synchronizer) OnScroll(src Region, offset float64) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.pending = &scrollEvent{src: src, offset: offset}
	s.mu.Unlock()

	s.debounce(s.Flush)
}

// Flush propagates the pending offset now. The other region is only written
// when its offset differs by half a pixel or more, so the scroll event caused
// by our own write settles without bouncing back.
func (s *Synchronizer) Flush() {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	s.mu.Lock()
	ev := s.pending
	s.pending = nil
	closed := s.closed
	s.mu.Unlock()

	if ev == nil || closed {
		return
	}
	dst := s.panes[ev.src.Other()]
	offset := s.translate(ev.src, ev.offset)
	if math.Abs(dst.ScrollTop()-offset) < 0.5 {
		return
	}
	dst.SetScrollTop(offset)
	logger.L().Debug("scroll synchronized", "from", ev.src, "offset", ev.offset, "to", offset)
}

// translate maps an offset in src to the other region.
func (s *Synchronizer) translate(src Region, offset float64) float64 {
	from, to := s.heights[src], s.heights[src.Other()]
	if from <= 0 || to <= 0 || from == to {
		return offset
	}
	return offset * to / from
}

// Exclusive runs fn while no propagation can happen. fn must not call Flush.
func (s *Synchronizer) Exclusive(fn func() error) error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()
	return fn()
}

// RequiredWidth is the grid width needed to show every note in full.
func (s *Synchronizer) RequiredWidth(m mapper.Mapper, notes []model.Note, clientWidth float64) float64 {
	maxEnd := util.MaxOf(notes, func(n model.Note) int { return n.End() })
	return util.Max(clientWidth, m.TicksToPixels(float64(maxEnd))+s.padding)
}

// OnContentGrow recomputes the grid width for notes. When it differs from
// the current width the Resizer runs and the new width is kept; grown
// reports whether that happened.
func (s *Synchronizer) OnContentGrow(m mapper.Mapper, notes []model.Note, clientWidth float64) (width float64, grown bool, err error) {
	required := math.Ceil(s.RequiredWidth(m, notes, clientWidth))

	s.mu.Lock()
	current := s.width
	s.mu.Unlock()
	if required == current {
		return current, false, nil
	}

	if s.resize != nil {
		if err := s.resize(required); err != nil {
			return current, false, err
		}
	}

	s.mu.Lock()
	s.width = required
	s.mu.Unlock()
	logger.L().Info("grid width changed", "from", current, "to", required)
	return required, true, nil
}

func (s *Synchronizer) Width() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width
}

// Close drops any pending propagation; later scroll events are ignored.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	s.closed = true
	s.pending = nil
	s.mu.Unlock()
}
