package viewport

import "sync"

// Pane is the scroll state of one region: its vertical offset and the size
// of the part the host shows.
type Pane struct {
	mu           sync.Mutex
	top          float64
	clientWidth  float64
	clientHeight float64
	writes       int
}

var _ Scroller = (*Pane)(nil)

func NewPane(clientWidth, clientHeight float64) *Pane {
	return &Pane{clientWidth: clientWidth, clientHeight: clientHeight}
}

func (p *Pane) ScrollTop() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.top
}

func (p *Pane) SetScrollTop(offset float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.top = offset
	p.writes++
}

// Writes counts SetScrollTop calls.
func (p *Pane) Writes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writes
}

func (p *Pane) ClientSize() (float64, float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clientWidth, p.clientHeight
}

func (p *Pane) SetClientSize(width, height float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clientWidth, p.clientHeight = width, height
}
