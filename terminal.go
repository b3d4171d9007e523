package gifscii

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Terminal abstracts the escape codes the player needs.
type Terminal interface {
	ResetCursor(rows int)
	ShowCursor(show bool)
	Clear()
} // Reset Text Color: "\033[0m"

type Xterm struct {
	Writer io.Writer
}

// Move the cursor to the beginning of the line and up rows
func (term *Xterm) ResetCursor(rows int) {
	term.Writer.Write([]byte(fmt.Sprintf("\033[999D\033[%dA", rows)))
}

func (term *Xterm) ShowCursor(show bool) {
	if show {
		term.Writer.Write([]byte("\033[?12l\033[?25h"))
	} else {
		term.Writer.Write([]byte("\033[?25l"))
	}
}

// Clear wipes the screen and homes the cursor.
func (term *Xterm) Clear() {
	term.Writer.Write([]byte("\033[2J\033[H"))
}

// TerminalSize reports the current terminal geometry in columns and rows.
func TerminalSize() (cols, rows int, err error) {
	return term.GetSize(int(os.Stdout.Fd()))
}
