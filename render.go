package gifscii

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"
)

// GIFOptions controls glyph rendering when frames are re-encoded as a GIF.
type GIFOptions struct {
	FontSize   float64        // glyph size in pixels
	Background color.RGBA     // canvas fill
	Foreground color.RGBA     // glyph color; per-cell colors win when the conversion ran colored
	Font       *truetype.Font // nil means the embedded Go Mono face
}

// Validate checks the font size against its documented range.
func (o GIFOptions) Validate() error {
	if o.FontSize < 0.1 || o.FontSize > 100 {
		return &FontSizeError{Size: o.FontSize}
	}
	return nil
}

// CellSize reports the pixel footprint of one glyph cell: 0.6x the font
// size wide and 1.2x tall, matching monospace advance and line height.
// Never smaller than 1x1.
func (o GIFOptions) CellSize() (w, h int) {
	w = round(o.FontSize * 0.6)
	h = round(o.FontSize * 1.2)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

var (
	gomonoOnce sync.Once
	gomonoFont *truetype.Font
	gomonoErr  error
)

func embeddedFont() (*truetype.Font, error) {
	gomonoOnce.Do(func() {
		gomonoFont, gomonoErr = truetype.Parse(gomono.TTF)
	})
	return gomonoFont, gomonoErr
}

// glyphAtlas holds one alpha coverage tile per charset character, rendered
// once per encode and shared read-only by every render worker.
type glyphAtlas struct {
	cellW, cellH int
	tiles        []*image.Alpha
}

func newGlyphAtlas(cs Charset, opts GIFOptions) (*glyphAtlas, error) {
	ttf := opts.Font
	if ttf == nil {
		var err error
		ttf, err = embeddedFont()
		if err != nil {
			return nil, fmt.Errorf("gifscii: load font: %w", err)
		}
	}

	cellW, cellH := opts.CellSize()
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    opts.FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()
	ascent := face.Metrics().Ascent

	atlas := &glyphAtlas{cellW: cellW, cellH: cellH, tiles: make([]*image.Alpha, cs.Len())}
	for i := 0; i < cs.Len(); i++ {
		r := cs.Rune(i)
		if ttf.Index(r) == 0 {
			return nil, fmt.Errorf("gifscii: font has no glyph for %q", r)
		}
		tile := image.NewAlpha(image.Rect(0, 0, cellW, cellH))
		d := &font.Drawer{
			Dst:  tile,
			Src:  image.White,
			Face: face,
			Dot:  fixed.Point26_6{X: 0, Y: ascent},
		}
		if adv, ok := face.GlyphAdvance(r); ok && adv < fixed.I(cellW) {
			d.Dot.X = (fixed.I(cellW) - adv) / 2
		}
		d.DrawString(string(r))
		atlas.tiles[i] = tile
	}
	return atlas, nil
}

// coverageLevels returns every distinct nonzero alpha value across the
// atlas tiles, ascending. These are the only blend factors a render will
// ever request.
func (a *glyphAtlas) coverageLevels() []uint8 {
	var seen [256]bool
	for _, tile := range a.tiles {
		for _, v := range tile.Pix {
			seen[v] = true
		}
	}
	var levels []uint8
	for v := 1; v < 256; v++ {
		if seen[v] {
			levels = append(levels, uint8(v))
		}
	}
	return levels
}

/*
renderFrame rasterizes one TextFrame onto a paletted canvas. Each glyph
pixel blends the cell's foreground over the background by its coverage and
snaps to the palette at draw time, so no second full-canvas quantization
pass is needed. The blend cache is keyed on (foreground, coverage), which
bounds palette lookups by distinct colors rather than canvas pixels.
*/
func renderFrame(tf *TextFrame, atlas *glyphAtlas, pal *Palette, opts GIFOptions, colored bool) *image.Paletted {
	cw, ch := atlas.cellW, atlas.cellH
	img := image.NewPaletted(image.Rect(0, 0, tf.Cols*cw, tf.Rows*ch), pal.ColorPalette())

	bg := quantizeColor(opts.Background, pal.Steps())
	bgIdx := pal.Nearest(bg)
	for i := range img.Pix {
		img.Pix[i] = bgIdx
	}

	type blendKey struct {
		c color.RGBA
		a uint8
	}
	cache := make(map[blendKey]uint8)

	for y := 0; y < tf.Rows; y++ {
		for x := 0; x < tf.Cols; x++ {
			cell := tf.CellAt(x, y)
			fg := opts.Foreground
			if colored {
				fg = cell.Color
			}
			tile := atlas.tiles[cell.Index]
			ox, oy := x*cw, y*ch
			for ty := 0; ty < ch; ty++ {
				row := tile.Pix[ty*tile.Stride : ty*tile.Stride+cw]
				for tx, a := range row {
					if a == 0 {
						continue
					}
					key := blendKey{c: fg, a: a}
					idx, ok := cache[key]
					if !ok {
						idx = pal.Nearest(blend(bg, fg, a))
						cache[key] = idx
					}
					img.Pix[(oy+ty)*img.Stride+ox+tx] = idx
				}
			}
		}
	}
	return img
}

// blend mixes fg over bg by coverage a using integer arithmetic.
func blend(bg, fg color.RGBA, a uint8) color.RGBA {
	ia := 255 - int(a)
	return color.RGBA{
		R: uint8((int(fg.R)*int(a) + int(bg.R)*ia) / 255),
		G: uint8((int(fg.G)*int(a) + int(bg.G)*ia) / 255),
		B: uint8((int(fg.B)*int(a) + int(bg.B)*ia) / 255),
		A: 0xff,
	}
}
