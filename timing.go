package gifscii

const (
	// minDelayMS floors every scaled delay so extreme speedups stay visible.
	minDelayMS = 10
	// defaultDelayMS substitutes for zero-length source delays before any
	// speed scaling, matching how browsers treat them.
	defaultDelayMS = 20
)

// Timing remaps per-frame delays. The zero value leaves delays untouched.
type Timing struct {
	speed float64
	fps   int
}

// NewTiming builds a timing policy from at most one of speed and fps; zero
// for both means identity. Speed multiplies playback rate within [0.1, 10].
// FPS discards source pacing for a uniform rate within [1, 120].
func NewTiming(speed float64, fps int) (Timing, error) {
	if speed != 0 && fps != 0 {
		return Timing{}, ErrTimingConflict
	}
	if speed != 0 && (speed < 0.1 || speed > 10) {
		return Timing{}, &OptionError{Option: "speed", Value: speed, Min: 0.1, Max: 10}
	}
	if fps != 0 && (fps < 1 || fps > 120) {
		return Timing{}, &OptionError{Option: "fps", Value: float64(fps), Min: 1, Max: 120}
	}
	return Timing{speed: speed, fps: fps}, nil
}

// Apply returns the remapped delays in milliseconds, same length and order
// as in. The input is never modified.
func (t Timing) Apply(delays []int) []int {
	out := make([]int, len(delays))
	switch {
	case t.fps > 0:
		d := round(1000 / float64(t.fps))
		for i := range out {
			out[i] = d
		}
	case t.speed > 0:
		for i, d := range delays {
			if d == 0 {
				d = defaultDelayMS
			}
			d = round(float64(d) / t.speed)
			if d < minDelayMS {
				d = minDelayMS
			}
			out[i] = d
		}
	default:
		copy(out, delays)
	}
	return out
}
