package gifscii

import (
	"errors"
	"fmt"
)

var (
	// ErrTimingConflict is returned when both a speed factor and a fixed
	// frame rate are requested for the same run.
	ErrTimingConflict = errors.New("gifscii: speed and fps are mutually exclusive")

	// ErrOutputConflict is returned when more than one output destination
	// is selected.
	ErrOutputConflict = errors.New("gifscii: exactly one output mode may be selected")

	// ErrEmptyAnimation is returned when an input decodes to zero frames.
	ErrEmptyAnimation = errors.New("gifscii: animation has no frames")
)

// DimensionsError reports a requested or computed character grid outside the
// supported range.
type DimensionsError struct {
	Cols, Rows int
}

func (e *DimensionsError) Error() string {
	return fmt.Sprintf("gifscii: invalid dimensions %dx%d (must be between 1 and %d)", e.Cols, e.Rows, maxDimension)
}

// FontSizeError reports a glyph size outside the supported range.
type FontSizeError struct {
	Size float64
}

func (e *FontSizeError) Error() string {
	return fmt.Sprintf("gifscii: invalid font size %g (must be between 0.1 and 100)", e.Size)
}

// CharsetError reports an unusable character set.
type CharsetError struct {
	Reason string
}

func (e *CharsetError) Error() string {
	return "gifscii: invalid character set: " + e.Reason
}

// OptionError reports a numeric option outside its documented bounds.
type OptionError struct {
	Option   string
	Value    float64
	Min, Max float64
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("gifscii: %s %g out of range [%g, %g]", e.Option, e.Value, e.Min, e.Max)
}

// ModeError reports an option requested alongside an output mode that
// cannot honor it.
type ModeError struct {
	Option string // the rejected option
	Needs  string // the one mode that honors it
	Got    string // the mode the run resolved to
}

func (e *ModeError) Error() string {
	return fmt.Sprintf("gifscii: %s applies to %s output only, got %s", e.Option, e.Needs, e.Got)
}

// FrameError wraps a failure while converting or rendering a single frame.
// Index is the position of the earliest frame that failed.
type FrameError struct {
	Index int
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("gifscii: frame %d: %v", e.Index, e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}
