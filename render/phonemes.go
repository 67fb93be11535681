package render

import (
	"fmt"
	"sort"

	"github.com/jsphweid/ustxroll/model"
	"github.com/jsphweid/ustxroll/surface"
)

// Phonemes splits a note into the sub-note segments shown in the phoneme
// panel. Overrides win, ordered by index; otherwise every rune of the
// lyric becomes one segment.
func Phonemes(n model.Note) []string {
	if len(n.Phonemes) > 0 {
		overrides := make([]model.PhonemeOverride, len(n.Phonemes))
		copy(overrides, n.Phonemes)
		sort.SliceStable(overrides, func(i, j int) bool {
			return overrides[i].Index < overrides[j].Index
		})
		res := make([]string, 0, len(overrides))
		for _, o := range overrides {
			res = append(res, o.Phoneme)
		}
		return res
	}

	var res []string
	for _, ch := range n.Lyric {
		res = append(res, string(ch))
	}
	return res
}

// PhonemeSegments lays the phonemes of n out along the time axis. Every
// phoneme has the same weight, so the note width is split evenly.
func (r *Renderer) PhonemeSegments(n model.Note, height float64) []surface.Rect {
	phonemes := Phonemes(n)
	if len(phonemes) == 0 {
		return nil
	}
	x := r.m.TicksToPixels(float64(n.Position))
	width := r.m.TicksToPixels(float64(n.Duration)) / float64(len(phonemes))

	res := make([]surface.Rect, len(phonemes))
	for i := range phonemes {
		res[i] = surface.Rect{X: x + float64(i)*width, W: width, H: height}
	}
	return res
}

// RenderPhonemes clears s and draws the phoneme timeline for notes, using
// the grid's tick mapping so segments line up under their notes.
func (r *Renderer) RenderPhonemes(s surface.Surface, notes []model.Note) error {
	_, h := s.Size()
	height := float64(h)

	p := &pen{s: s}
	p.clear()

	area := surface.Style{Fill: r.theme.PhonemeFill, Stroke: r.theme.PhonemeStroke, LineWidth: 1}
	for _, n := range notes {
		phonemes := Phonemes(n)
		for i, seg := range r.PhonemeSegments(n, height) {
			p.rect(seg, area)
			p.text(phonemes[i], surface.Point{X: seg.X + seg.W/2, Y: seg.Y + seg.H/2}, surface.TextStyle{
				Color: r.theme.PhonemeLabel,
				Size:  r.labelSize + 1,
				Align: surface.AlignCenter,
				Clip:  seg,
			})
		}
	}

	if p.err != nil {
		return fmt.Errorf("render phonemes: %w", p.err)
	}
	return nil
}
