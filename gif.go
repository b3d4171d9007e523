package gifscii

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
	"sync"
)

/*
EncodeGIF renders frames back into pixels and writes one animated GIF to w.
The shared palette is built first, from every color the render can request:
the quantized background plus the blend ramp of each distinct glyph color at
the atlas's actual coverage levels. Frames then render in parallel on
cfg.Workers goroutines, and the worker count never changes the bytes
written. Delays convert from milliseconds to GIF hundredths of a second with
rounding; loopCount passes through untouched.
*/
func EncodeGIF(w io.Writer, frames []TextFrame, delays []int, loopCount int, cfg *Config, opts GIFOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if len(frames) == 0 {
		return ErrEmptyAnimation
	}
	if len(delays) != len(frames) {
		return fmt.Errorf("gifscii: %d delays for %d frames", len(delays), len(frames))
	}

	atlas, err := newGlyphAtlas(frames[0].charset, opts)
	if err != nil {
		return err
	}
	pal, err := NewPalette(opts.FontSize, observedColors(frames, atlas, cfg, opts))
	if err != nil {
		return err
	}

	images := make([]*image.Paletted, len(frames))
	workers := cfg.workers()
	if workers > len(frames) {
		workers = len(frames)
	}
	var wg sync.WaitGroup
	for wkr := 0; wkr < workers; wkr++ {
		wg.Add(1)
		go func(start int) {
			defer wg.Done()
			for i := start; i < len(frames); i += workers {
				images[i] = renderFrame(&frames[i], atlas, pal, opts, cfg.Colored)
			}
		}(wkr)
	}
	wg.Wait()

	g := &gif.GIF{
		Image:     images,
		Delay:     make([]int, len(frames)),
		LoopCount: loopCount,
		Config: image.Config{
			Width:  images[0].Bounds().Dx(),
			Height: images[0].Bounds().Dy(),
		},
	}
	for i, d := range delays {
		g.Delay[i] = (d + 5) / 10
	}
	if err := gif.EncodeAll(w, g); err != nil {
		return fmt.Errorf("gifscii: encode gif: %w", err)
	}
	return nil
}

// observedColors collects, in deterministic order, every color the render
// will ask the palette for: the quantized background first, then for each
// distinct foreground (first-seen across frames, row-major) its blend ramp
// over the background at the atlas coverage levels.
func observedColors(frames []TextFrame, atlas *glyphAtlas, cfg *Config, opts GIFOptions) []color.RGBA {
	steps := paletteSteps(opts.FontSize)
	bg := quantizeColor(opts.Background, steps)
	levels := atlas.coverageLevels()

	colors := []color.RGBA{bg}
	appendRamp := func(fg color.RGBA) {
		for _, a := range levels {
			colors = append(colors, blend(bg, fg, a))
		}
	}

	if !cfg.Colored {
		appendRamp(opts.Foreground)
		return colors
	}
	seen := make(map[color.RGBA]bool)
	for i := range frames {
		for _, cell := range frames[i].cells {
			if !seen[cell.Color] {
				seen[cell.Color] = true
				appendRamp(cell.Color)
			}
		}
	}
	return colors
}
