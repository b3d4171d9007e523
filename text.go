package gifscii

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
)

const frameRuleWidth = 80

/*
WriteText writes every frame to w as plain text. Each frame is a rule of 80
equals signs, a "Frame N" header (1-based), the rule again, the grid rows,
then one blank line:

	================================================================================
	Frame 1
	================================================================================
	@@::
	..##

	================================================================================
	Frame 2
	...

The output is identical across runs for identical inputs.
*/
func WriteText(w io.Writer, frames []TextFrame) error {
	bw := bufio.NewWriter(w)
	rule := strings.Repeat("=", frameRuleWidth)
	for i := range frames {
		bw.WriteString(rule)
		bw.WriteByte('\n')
		fmt.Fprintf(bw, "Frame %d\n", i+1)
		bw.WriteString(rule)
		bw.WriteByte('\n')
		for _, line := range frames[i].Lines() {
			bw.WriteString(line)
			bw.WriteByte('\n')
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteTextCompressed is WriteText behind a zstd stream, for large dumps.
func WriteTextCompressed(w io.Writer, frames []TextFrame) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	if err := WriteText(zw, frames); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}
