package gifscii

import (
	"errors"
	"runtime"
)

// Sampling selects how a cell's block of source pixels becomes one sample.
type Sampling int

const (
	// SampleArea averages the whole block. The default.
	SampleArea Sampling = iota
	// SampleNearest picks the nearest source pixel. Faster and noisier.
	SampleNearest
)

// Config holds every knob for one conversion run. Fill it in, Validate it,
// and pass it by pointer; nothing mutates it afterwards, so one Config may
// serve any number of concurrent conversions.
type Config struct {
	Width          int     // target columns; 0 means unset
	Height         int     // target rows; 0 means unset
	Scale          float64 // uniform scale factor; 0 means unset
	CharAspect     float64 // cell width:height correction; 0 means 0.5
	PreserveAspect bool    // width wins when both dimensions are given
	Invert         bool    // flip the charset mapping, for dark-on-light terminals
	Colored        bool    // record per-cell color
	Charset        Charset // zero value means Simple
	Workers        int     // parallel frame converters; 0 means GOMAXPROCS
	Sampling       Sampling
	FitColumns     int // terminal width to fit; set for terminal playback only
}

// Validate checks every field against its documented range.
func (c *Config) Validate() error {
	if (c.Width != 0 && (c.Width < 1 || c.Width > maxDimension)) ||
		(c.Height != 0 && (c.Height < 1 || c.Height > maxDimension)) {
		return &DimensionsError{Cols: c.Width, Rows: c.Height}
	}
	if c.Scale != 0 && (c.Scale < 0.1 || c.Scale > 10) {
		return &OptionError{Option: "scale", Value: c.Scale, Min: 0.1, Max: 10}
	}
	if c.CharAspect < 0 || c.CharAspect > 10 {
		return &OptionError{Option: "char aspect", Value: c.CharAspect, Min: 0, Max: 10}
	}
	if c.Workers != 0 && (c.Workers < 1 || c.Workers > maxWorkers) {
		return &OptionError{Option: "workers", Value: float64(c.Workers), Min: 1, Max: maxWorkers}
	}
	if c.FitColumns < 0 {
		return &OptionError{Option: "fit columns", Value: float64(c.FitColumns), Min: 0, Max: maxDimension}
	}
	return nil
}

const maxWorkers = 1000

func (c *Config) charset() Charset {
	if c.Charset.Len() == 0 {
		return Simple
	}
	return c.Charset
}

func (c *Config) charAspect() float64 {
	if c.CharAspect == 0 {
		return 0.5
	}
	return c.CharAspect
}

func (c *Config) workers() int {
	w := c.Workers
	if w == 0 {
		w = runtime.GOMAXPROCS(0)
	}
	if w < 1 {
		w = 1
	}
	if w > maxWorkers {
		w = maxWorkers
	}
	return w
}

type outputKind int

const (
	outputTerminal outputKind = iota
	outputText
	outputGIF
)

func (k outputKind) String() string {
	switch k {
	case outputText:
		return "text"
	case outputGIF:
		return "gif"
	default:
		return "terminal"
	}
}

// OutputMode is the single destination for a run: live terminal playback, a
// plain text file, or a re-encoded GIF file. Exactly one.
type OutputMode struct {
	kind outputKind
	path string
}

// TerminalOutput plays the animation in the terminal.
func TerminalOutput() OutputMode {
	return OutputMode{kind: outputTerminal}
}

// TextFileOutput writes every frame as text to path.
func TextFileOutput(path string) (OutputMode, error) {
	if path == "" {
		return OutputMode{}, errors.New("gifscii: text output requires a path")
	}
	return OutputMode{kind: outputText, path: path}, nil
}

// GIFFileOutput re-encodes the frames as an animated GIF at path.
func GIFFileOutput(path string) (OutputMode, error) {
	if path == "" {
		return OutputMode{}, errors.New("gifscii: gif output requires a path")
	}
	return OutputMode{kind: outputGIF, path: path}, nil
}

// OutputOptions are the mode-bound extras requested alongside the output
// destination. Each one belongs to a single mode, so the builder can reject
// a run that asks for an extra its mode cannot honor.
type OutputOptions struct {
	Fit      bool // follow the terminal width; terminal playback only
	Colors   bool // background or glyph color override; GIF output only
	Compress bool // zstd-compress the dump; text output only
}

// ResolveOutput maps the optional text and GIF paths to a single mode. Both
// set is a conflict; neither means terminal playback. An opts extra that the
// resolved mode cannot honor fails here, before any frame work starts.
func ResolveOutput(textPath, gifPath string, opts OutputOptions) (OutputMode, error) {
	var mode OutputMode
	var err error
	switch {
	case textPath != "" && gifPath != "":
		return OutputMode{}, ErrOutputConflict
	case textPath != "":
		mode, err = TextFileOutput(textPath)
	case gifPath != "":
		mode, err = GIFFileOutput(gifPath)
	default:
		mode = TerminalOutput()
	}
	if err != nil {
		return OutputMode{}, err
	}
	if err := mode.checkOptions(opts); err != nil {
		return OutputMode{}, err
	}
	return mode, nil
}

func (m OutputMode) checkOptions(opts OutputOptions) error {
	switch {
	case opts.Fit && m.kind != outputTerminal:
		return &ModeError{Option: "fit", Needs: "terminal", Got: m.kind.String()}
	case opts.Colors && m.kind != outputGIF:
		return &ModeError{Option: "color override", Needs: "gif", Got: m.kind.String()}
	case opts.Compress && m.kind != outputText:
		return &ModeError{Option: "compression", Needs: "text", Got: m.kind.String()}
	}
	return nil
}

// Terminal reports whether the mode is live terminal playback.
func (m OutputMode) Terminal() bool {
	return m.kind == outputTerminal
}

// Path returns the destination file for file-backed modes.
func (m OutputMode) Path() string {
	return m.path
}

func (m OutputMode) String() string {
	if m.path != "" {
		return m.kind.String() + ":" + m.path
	}
	return m.kind.String()
}
