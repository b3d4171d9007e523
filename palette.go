package gifscii

import (
	"errors"
	"image/color"
	"math"
	"sort"
)

const maxPaletteSize = 256

// paletteSteps maps the glyph font size to quantization steps per channel.
// Small glyphs are dominated by anti-aliased edge pixels and need the
// finest grid; large glyphs tolerate coarse levels.
func paletteSteps(fontSize float64) int {
	switch {
	case fontSize < 2.0:
		return 32
	case fontSize <= 6.0:
		return 16
	default:
		return 8
	}
}

// Palette is a bounded set of quantized colors with nearest-entry lookup.
// Read-only after construction; safe to share across render workers.
type Palette struct {
	colors []color.RGBA
	steps  int
}

/*
NewPalette snaps every observed color onto the quantization grid for
fontSize and deduplicates the results in first-seen order. If more than 256
entries survive, the 256 most frequently observed win (ties break on packed
RGB value) and everything else resolves through Nearest.
*/
func NewPalette(fontSize float64, observed []color.RGBA) (*Palette, error) {
	if fontSize < 0.1 || fontSize > 100 {
		return nil, &FontSizeError{Size: fontSize}
	}
	if len(observed) == 0 {
		return nil, errors.New("gifscii: no colors to build a palette from")
	}
	steps := paletteSteps(fontSize)

	type entry struct {
		c     color.RGBA
		count int
	}
	index := make(map[color.RGBA]*entry)
	var order []*entry
	for _, c := range observed {
		q := quantizeColor(c, steps)
		if e, ok := index[q]; ok {
			e.count++
			continue
		}
		e := &entry{c: q, count: 1}
		index[q] = e
		order = append(order, e)
	}

	if len(order) > maxPaletteSize {
		sort.SliceStable(order, func(i, j int) bool {
			if order[i].count != order[j].count {
				return order[i].count > order[j].count
			}
			return packRGB(order[i].c) < packRGB(order[j].c)
		})
		order = order[:maxPaletteSize]
	}

	colors := make([]color.RGBA, len(order))
	for i, e := range order {
		colors[i] = e.c
	}
	return &Palette{colors: colors, steps: steps}, nil
}

// Len returns the number of palette entries.
func (p *Palette) Len() int {
	return len(p.colors)
}

// Steps returns the per-channel quantization level count.
func (p *Palette) Steps() int {
	return p.steps
}

// Color returns the entry at index i.
func (p *Palette) Color(i int) color.RGBA {
	return p.colors[i]
}

// ColorPalette adapts the palette for image.Paletted.
func (p *Palette) ColorPalette() color.Palette {
	out := make(color.Palette, len(p.colors))
	for i, c := range p.colors {
		out[i] = c
	}
	return out
}

// Nearest returns the index of the entry closest to c. Channel differences
// weigh 30/59/11 so green dominates, mirroring perceived luminance.
func (p *Palette) Nearest(c color.RGBA) uint8 {
	best, bestDist := 0, math.MaxInt
	for i, pc := range p.colors {
		dr := int(c.R) - int(pc.R)
		dg := int(c.G) - int(pc.G)
		db := int(c.B) - int(pc.B)
		d := 30*dr*dr + 59*dg*dg + 11*db*db
		if d < bestDist {
			best, bestDist = i, d
			if d == 0 {
				break
			}
		}
	}
	return uint8(best)
}

func quantizeColor(c color.RGBA, steps int) color.RGBA {
	return color.RGBA{
		R: quantizeChannel(c.R, steps),
		G: quantizeChannel(c.G, steps),
		B: quantizeChannel(c.B, steps),
		A: 0xff,
	}
}

// quantizeChannel snaps v to one of steps evenly spaced levels in [0, 255].
// The 32-step tier rounds in floating point to keep the extremes exact, the
// 16-step tier rounds in integer space, and the 8-step tier trades nearest
// placement for a plain shift.
func quantizeChannel(v uint8, steps int) uint8 {
	n := steps - 1
	switch {
	case steps >= 32:
		q := math.Round(float64(v) * float64(n) / 255)
		return uint8(math.Round(q * 255 / float64(n)))
	case steps > 8:
		q := (int(v)*n + 127) / 255
		return uint8((q*255 + n/2) / n)
	default:
		q := int(v) >> 5
		return uint8(q * 255 / 7)
	}
}

func packRGB(c color.RGBA) int {
	return int(c.R)<<16 | int(c.G)<<8 | int(c.B)
}
