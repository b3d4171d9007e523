package gifscii

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"
)

// resizePollInterval paces the fit-mode geometry checks.
const resizePollInterval = 100 * time.Millisecond

// Animator plays converted frames in a terminal.
type Animator struct {
	Out  io.Writer
	In   *os.File // key input; nil disables the quit keys
	Term Terminal // nil means Xterm on Out
}

func NewAnimator(out io.Writer, in *os.File) *Animator {
	return &Animator{Out: out, In: in}
}

/*
Animate converts anim under cfg and plays it on Out until the loop count
runs out or the user quits with q, Q, Esc or Ctrl-C. A zero LoopCount plays
forever; a negative one plays once. When cfg.FitColumns is set the player
follows terminal resizes, reconverting frames at each new geometry and
caching per-geometry results so bouncing between sizes stays cheap.
*/
func (a *Animator) Animate(anim *Animation, cfg *Config, timing Timing) error {
	t := a.Term
	if t == nil {
		t = &Xterm{Writer: a.Out}
	}

	// Explicit geometry outranks terminal fit, so resizes only matter when
	// fit is the governing rule.
	fit := cfg.FitColumns > 0 && cfg.Width == 0 && cfg.Height == 0 && cfg.Scale == 0
	geo := cfg
	if fit {
		if cols, lines, err := TerminalSize(); err == nil {
			geo = fitConfig(cfg, anim, cols, lines)
		}
	}
	frames, err := Convert(anim, geo)
	if err != nil {
		return err
	}
	delays := timing.Apply(anim.Delays())

	t.ShowCursor(false)
	defer t.ShowCursor(true)

	// The signal path runs release before the process dies: cooked mode
	// first when raw mode is active, then the cursor.
	release := func() { t.ShowCursor(true) }
	quit := make(chan struct{})
	if a.In != nil && term.IsTerminal(int(a.In.Fd())) {
		fd := int(a.In.Fd())
		if state, err := term.MakeRaw(fd); err == nil {
			defer term.Restore(fd, state)
			release = func() {
				term.Restore(fd, state)
				t.ShowCursor(true)
			}
			go watchKeys(a.In, quit)
		}
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer func() {
		signal.Stop(signals)
		close(signals)
	}()
	go restoreOnSignal(signals, release)

	var resize chan [2]int
	if fit {
		resize = make(chan [2]int, 1)
		stop := make(chan struct{})
		defer close(stop)
		go watchResize(stop, resize)
	}

	cache := make(map[[2]int][]TextFrame)
	t.Clear()

	// Step below the image on the way out so the prompt lands clean.
	rows := 0
	defer func() {
		if rows > 0 {
			fmt.Fprintf(a.Out, "\033[%dB\r\n", rows)
		}
	}()

	iterations := anim.LoopCount
	if iterations < 0 {
		iterations = 1
	}
	var buf strings.Builder
	for c := 0; iterations == 0 || c < iterations; c++ {
		for i := 0; i < len(frames); i++ {
			delay := time.After(time.Duration(delays[i]) * time.Millisecond)

			buf.Reset()
			writeANSI(&buf, &frames[i], cfg.Colored)
			io.WriteString(a.Out, buf.String())
			rows = frames[i].Rows
			t.ResetCursor(rows)

			select {
			case <-quit:
				return nil
			case g := <-resize:
				next, ok := cache[g]
				if !ok {
					next, err = Convert(anim, fitConfig(cfg, anim, g[0], g[1]))
					if err != nil {
						return err
					}
					cache[g] = next
				}
				frames = next
				t.Clear()
				// Redraw the current frame at the new geometry.
				i--
			case <-delay:
			}
		}
	}
	return nil
}

// fitConfig clones base for a termCols x termLines terminal: columns fill
// the width, and when the derived rows would overflow, the height becomes
// authoritative instead, leaving one line for the prompt.
func fitConfig(base *Config, anim *Animation, termCols, termLines int) *Config {
	if termCols < 1 {
		termCols = 1
	}
	c := *base
	c.FitColumns = termCols
	if _, rows, err := Dimensions(anim.Width, anim.Height, &c); err == nil && termLines > 1 && rows > termLines-1 {
		c.FitColumns = 0
		c.Height = termLines - 1
	}
	return &c
}

// writeANSI renders one frame, plain or with truecolor escapes. Lines end
// with \r\n so output stays aligned while the terminal is in raw mode.
func writeANSI(b *strings.Builder, f *TextFrame, colored bool) {
	for y := 0; y < f.Rows; y++ {
		if colored {
			for x := 0; x < f.Cols; x++ {
				cell := f.CellAt(x, y)
				fmt.Fprintf(b, "\033[38;2;%d;%d;%dm%c", cell.Color.R, cell.Color.G, cell.Color.B, f.charset.Rune(int(cell.Index)))
			}
			b.WriteString("\033[0m")
		} else {
			for x := 0; x < f.Cols; x++ {
				b.WriteRune(f.RuneAt(x, y))
			}
		}
		b.WriteString("\r\n")
	}
}

// restoreOnSignal returns the terminal to its shell state before the process
// dies from an outside signal, then re-raises so the default handler still
// runs. A closed channel means a normal shutdown; the deferred cleanup owns
// the terminal then.
func restoreOnSignal(signals chan os.Signal, release func()) {
	s, ok := <-signals
	if !ok {
		return
	}
	release()
	signal.Stop(signals)
	if signum, ok := s.(syscall.Signal); ok {
		syscall.Kill(syscall.Getpid(), signum)
	}
}

// watchKeys reads single bytes off the raw-mode input and fires quit on
// q, Q, Esc, or Ctrl-C (raw mode swallows the usual interrupt).
func watchKeys(in *os.File, quit chan struct{}) {
	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		if err != nil {
			return
		}
		if n == 0 {
			continue
		}
		switch buf[0] {
		case 'q', 'Q', 27, 3:
			close(quit)
			return
		}
	}
}

// watchResize polls the terminal geometry and reports changes, keeping only
// the latest pending one.
func watchResize(stop <-chan struct{}, resize chan [2]int) {
	lastCols, lastLines, _ := TerminalSize()
	ticker := time.NewTicker(resizePollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			cols, lines, err := TerminalSize()
			if err != nil || (cols == lastCols && lines == lastLines) {
				continue
			}
			lastCols, lastLines = cols, lines
			g := [2]int{cols, lines}
			select {
			case resize <- g:
			default:
				select {
				case <-resize:
				default:
				}
				select {
				case resize <- g:
				default:
				}
			}
		}
	}
}
