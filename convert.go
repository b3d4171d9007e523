package gifscii

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

// Cell is one character cell: an index into the charset plus the averaged
// source color for that cell. Color is recorded regardless of Config.Colored
// so one conversion can feed both plain and colored outputs.
type Cell struct {
	Index uint8
	Color color.RGBA
}

// TextFrame is the character grid rendered from one source frame.
type TextFrame struct {
	Cols, Rows int

	cells   []Cell
	charset Charset
}

// CellAt returns the cell at column x, row y.
func (f *TextFrame) CellAt(x, y int) Cell {
	return f.cells[y*f.Cols+x]
}

// RuneAt returns the character at column x, row y.
func (f *TextFrame) RuneAt(x, y int) rune {
	return f.charset.Rune(int(f.cells[y*f.Cols+x].Index))
}

// Charset returns the character set the frame was converted with.
func (f *TextFrame) Charset() Charset {
	return f.charset
}

// Lines renders the grid as plain text rows.
func (f *TextFrame) Lines() []string {
	lines := make([]string, f.Rows)
	var b strings.Builder
	for y := 0; y < f.Rows; y++ {
		b.Reset()
		b.Grow(f.Cols)
		for x := 0; x < f.Cols; x++ {
			b.WriteRune(f.RuneAt(x, y))
		}
		lines[y] = b.String()
	}
	return lines
}

/*
Convert maps every frame of anim to a TextFrame. Frames convert in parallel
on cfg.Workers goroutines; results keep frame order and are byte-identical
for any worker count, because each frame's conversion is independent and
deterministic. If any frame fails the whole batch fails with the lowest
detected failing index and no partial results.
*/
func Convert(anim *Animation, cfg *Config) ([]TextFrame, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if anim == nil || len(anim.Frames) == 0 {
		return nil, ErrEmptyAnimation
	}
	cols, rows, err := Dimensions(anim.Width, anim.Height, cfg)
	if err != nil {
		return nil, err
	}

	frames := anim.Frames
	out := make([]TextFrame, len(frames))
	workers := cfg.workers()
	if workers > len(frames) {
		workers = len(frames)
	}

	var (
		wg      sync.WaitGroup
		abort   atomic.Bool
		mu      sync.Mutex
		failIdx = -1
		failErr error
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(start int) {
			defer wg.Done()
			for i := start; i < len(frames); i += workers {
				if abort.Load() {
					return
				}
				tf, err := convertFrame(frames[i].Image, cols, rows, cfg)
				if err != nil {
					mu.Lock()
					if failIdx == -1 || i < failIdx {
						failIdx, failErr = i, err
					}
					mu.Unlock()
					abort.Store(true)
					return
				}
				out[i] = tf
			}
		}(w)
	}
	wg.Wait()

	if failIdx >= 0 {
		return nil, &FrameError{Index: failIdx, Err: failErr}
	}
	return out, nil
}

func convertFrame(img image.Image, cols, rows int, cfg *Config) (TextFrame, error) {
	if img == nil {
		return TextFrame{}, errors.New("nil image")
	}
	if b := img.Bounds(); b.Dx() < 1 || b.Dy() < 1 {
		return TextFrame{}, errors.New("empty image")
	}

	// Shrinking the frame to exactly cols x rows makes each destination
	// pixel the sample for one character cell.
	var sample *image.NRGBA
	switch cfg.Sampling {
	case SampleNearest:
		sample = imaging.Clone(resize.Resize(uint(cols), uint(rows), img, resize.NearestNeighbor))
	default:
		sample = imaging.Resize(img, cols, rows, imaging.Box)
	}

	cs := cfg.charset()
	n := cs.Len()
	cells := make([]Cell, cols*rows)
	// Looping over Y first and X second is more likely to result in better
	// memory access patterns than X first and Y second.
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			px := sample.NRGBAAt(x, y)
			var cell Cell
			if px.A > 0 {
				// Luminance in thousandths: 0.299 R + 0.587 G + 0.114 B,
				// kept in integers so boundary values land exactly.
				lum := 299*int(px.R) + 587*int(px.G) + 114*int(px.B)
				idx := lum * n / 256000
				if idx > n-1 {
					idx = n - 1
				}
				cell = Cell{Index: uint8(idx), Color: color.RGBA{R: px.R, G: px.G, B: px.B, A: 0xff}}
			} else {
				// Fully transparent samples read as black.
				cell = Cell{Color: color.RGBA{A: 0xff}}
			}
			if cfg.Invert {
				cell.Index = uint8(n - 1 - int(cell.Index))
			}
			cells[y*cols+x] = cell
		}
	}
	return TextFrame{Cols: cols, Rows: rows, cells: cells, charset: cs}, nil
}
