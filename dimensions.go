package gifscii

import (
	"fmt"
	"math"
)

// maxDimension bounds both axes of the character grid.
const maxDimension = 10000

/*
Dimensions derives the character grid for a srcW x srcH source under cfg.
Exactly one sizing rule applies, in order of precedence:

 1. Width and Height both set: used verbatim, unless PreserveAspect is on,
    in which case Width is authoritative and rows are recomputed.
 2. Width only: rows follow the source aspect ratio, corrected for the
    cell aspect (character cells are taller than they are wide).
 3. Height only: the mirror of rule 2.
 4. Scale only: both axes scale from the source pixel size.
 5. FitColumns (terminal playback): columns match the terminal, rows follow
    rule 2.
 6. Nothing set: one column per source pixel, corrected for cell aspect,
    and one row per pixel.

Either result outside [1, maxDimension] is an error.
*/
func Dimensions(srcW, srcH int, cfg *Config) (cols, rows int, err error) {
	if srcW < 1 || srcH < 1 {
		return 0, 0, fmt.Errorf("gifscii: source image is %dx%d", srcW, srcH)
	}
	aspect := cfg.charAspect()
	w, h := float64(srcW), float64(srcH)

	switch {
	case cfg.Width > 0 && cfg.Height > 0:
		cols, rows = cfg.Width, cfg.Height
		if cfg.PreserveAspect {
			rows = round(float64(cfg.Width) * h / w * aspect)
		}
	case cfg.Width > 0:
		cols = cfg.Width
		rows = round(float64(cfg.Width) * h / w * aspect)
	case cfg.Height > 0:
		rows = cfg.Height
		cols = round(float64(cfg.Height) * w / h / aspect)
	case cfg.Scale > 0:
		cols = round(w * cfg.Scale * aspect)
		rows = round(h * cfg.Scale)
	case cfg.FitColumns > 0:
		cols = cfg.FitColumns
		rows = round(float64(cfg.FitColumns) * h / w * aspect)
	default:
		cols = round(w * aspect)
		rows = srcH
	}

	if cols < 1 || cols > maxDimension || rows < 1 || rows > maxDimension {
		return 0, 0, &DimensionsError{Cols: cols, Rows: rows}
	}
	return cols, rows, nil
}

func round(f float64) int {
	return int(math.Round(f))
}
