package render

import (
	"fmt"

	"github.com/jsphweid/ustxroll/keyboard"
	"github.com/jsphweid/ustxroll/surface"
)

const keyLabelInset = 4

// RenderKeys clears s and draws the key panel. White keys go first so
// overlaid black keys in differentiated layouts stay visible.
func (r *Renderer) RenderKeys(s surface.Surface, keys []keyboard.KeyDescriptor) error {
	p := &pen{s: s}
	p.clear()

	for _, pass := range []bool{false, true} {
		for _, k := range keys {
			if k.Black != pass {
				continue
			}
			fill, label := r.theme.WhiteKey, r.theme.WhiteKeyLabel
			if k.Black {
				fill, label = r.theme.BlackKey, r.theme.BlackKeyLabel
			}
			p.rect(k.Rect, surface.Style{Fill: fill, Stroke: r.theme.KeyBorder, LineWidth: 1})
			if k.Label {
				p.text(k.Name, surface.Point{X: k.Rect.X + keyLabelInset, Y: k.Rect.Y + k.Rect.H/2}, surface.TextStyle{
					Color: label,
					Size:  r.labelSize,
					Align: surface.AlignLeft,
					Clip:  surface.Rect{X: k.Rect.X + keyLabelInset, Y: k.Rect.Y, W: k.Rect.W - keyLabelInset, H: k.Rect.H},
				})
			}
		}
	}

	if p.err != nil {
		return fmt.Errorf("render keys: %w", p.err)
	}
	return nil
}
