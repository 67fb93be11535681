package keyboard

import (
	"fmt"

	"github.com/jsphweid/ustxroll/constants"
	"github.com/jsphweid/ustxroll/model"
	"github.com/jsphweid/ustxroll/surface"
)

type Mode int

const (
	// Uniform gives every key, white or black, one row of KeyHeight so the
	// panel lines up with the note grid.
	Uniform Mode = iota
	// Differentiated stacks taller white keys and overlays shorter, narrower
	// black keys the way a real keyboard looks.
	Differentiated
)

func (m Mode) String() string {
	switch m {
	case Uniform:
		return "uniform"
	case Differentiated:
		return "differentiated"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "uniform", "":
		return Uniform, nil
	case "differentiated":
		return Differentiated, nil
	}
	return Uniform, fmt.Errorf("unknown keyboard mode %q", s)
}

type Layout struct {
	Mode      Mode
	LowestKey int
	KeyWidth  float64
	KeyHeight float64 // uniform rows

	WhiteKeyHeight float64
	BlackKeyHeight float64
	BlackKeyOffset float64 // from the top of the white key above
	BlackKeyWidth  float64
}

func DefaultLayout(mode Mode) Layout {
	return Layout{
		Mode:           mode,
		LowestKey:      constants.MinTone,
		KeyWidth:       constants.KeyWidth,
		KeyHeight:      constants.KeyHeight,
		WhiteKeyHeight: constants.WhiteKeyHeight,
		BlackKeyHeight: constants.BlackKeyHeight,
		BlackKeyOffset: constants.BlackKeyOffset,
		BlackKeyWidth:  constants.BlackKeyWidth,
	}
}

type KeyDescriptor struct {
	Key   int
	Black bool
	Name  string
	Rect  surface.Rect
	// Label is false for keys too small to carry their name
	Label bool
}

var names = [12]string{"C", "C♯", "D", "D♯", "E", "F", "F♯", "G", "G♯", "A", "A♯", "B"}

func pitchClass(key int) int {
	pc := key % 12
	if pc < 0 {
		pc += 12
	}
	return pc
}

func octave(key int) int {
	// floor division so negative keys land in the right octave
	o := key / 12
	if key < 0 && key%12 != 0 {
		o--
	}
	return o - 1
}

func IsBlackKey(key int) bool {
	switch pitchClass(key) {
	case 1, 3, 6, 8, 10:
		return true
	}
	return false
}

// KeyName is the scientific pitch name, so key 60 is "C4".
func KeyName(key int) string {
	return fmt.Sprintf("%s%d", names[pitchClass(key)], octave(key))
}

// ComputeKeys lays out totalKeys keys starting at layout.LowestKey, returned
// highest key first. The result only depends on its arguments.
func ComputeKeys(totalKeys int, layout Layout) ([]KeyDescriptor, error) {
	if totalKeys <= 0 {
		return nil, &model.GeometryError{Op: "compute keys", Reason: fmt.Sprintf("totalKeys must be > 0, got %d", totalKeys)}
	}

	highest := layout.LowestKey + totalKeys - 1
	res := make([]KeyDescriptor, 0, totalKeys)

	// white keys already stacked above the current key
	var whites int
	for key := highest; key >= layout.LowestKey; key-- {
		d := KeyDescriptor{
			Key:   key,
			Black: IsBlackKey(key),
			Name:  KeyName(key),
		}

		switch layout.Mode {
		case Differentiated:
			if d.Black {
				// the white key above sits in slot whites-1; when it is
				// outside the range the slot is virtual
				top := float64(whites-1) * layout.WhiteKeyHeight
				d.Rect = surface.Rect{
					Y: top + layout.BlackKeyOffset,
					W: layout.BlackKeyWidth,
					H: layout.BlackKeyHeight,
				}
			} else {
				d.Rect = surface.Rect{
					Y: float64(whites) * layout.WhiteKeyHeight,
					W: layout.KeyWidth,
					H: layout.WhiteKeyHeight,
				}
				d.Label = true
			}
		default:
			d.Rect = surface.Rect{
				Y: float64(highest-key) * layout.KeyHeight,
				W: layout.KeyWidth,
				H: layout.KeyHeight,
			}
			d.Label = true
		}

		if !d.Black {
			whites++
		}
		res = append(res, d)
	}

	return res, nil
}

// Height is the vertical extent of a computed key panel.
func Height(keys []KeyDescriptor) float64 {
	var h float64
	for _, k := range keys {
		if k.Rect.Bottom() > h {
			h = k.Rect.Bottom()
		}
	}
	return h
}
