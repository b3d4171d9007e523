package gifscii

import (
	"fmt"
	"strings"
	"unicode"
)

var (
	// Simple is the default 10-character ramp, darkest to lightest.
	Simple = mustCharset(" .:-=+*#%@")

	// Detailed is a 69-character ramp for finer luminance resolution.
	Detailed = mustCharset(" .'`^\",:;Il!i><~+_-?][}{1)(|\\/tfjrxnuvczXYUJCLQ0OZmwqpdbkhao*#MW&8%B@")
)

// Charset is an ordered run of unique characters, darkest to lightest.
// Construct one with NewCharset or NewCharsetFromFile; the zero value is
// treated as Simple wherever a Config carries it.
type Charset struct {
	runes []rune
}

// NewCharset validates chars and builds a Charset from it. The set must hold
// between 2 and 256 unique characters and no control characters.
func NewCharset(chars string) (Charset, error) {
	return newCharset(chars, false)
}

// NewCharsetFromFile builds a Charset from raw file contents. One trailing
// newline is stripped; interior tabs and newlines are legal members.
func NewCharsetFromFile(contents string) (Charset, error) {
	if strings.HasSuffix(contents, "\n") {
		contents = strings.TrimSuffix(contents, "\n")
		contents = strings.TrimSuffix(contents, "\r")
	}
	return newCharset(contents, true)
}

func newCharset(chars string, fromFile bool) (Charset, error) {
	runes := []rune(chars)
	if len(runes) < 2 || len(runes) > 256 {
		return Charset{}, &CharsetError{Reason: fmt.Sprintf("length %d not in [2, 256]", len(runes))}
	}
	seen := make(map[rune]bool, len(runes))
	for _, r := range runes {
		if seen[r] {
			return Charset{}, &CharsetError{Reason: fmt.Sprintf("duplicate character %q", r)}
		}
		seen[r] = true
		if unicode.IsControl(r) {
			if fromFile && (r == '\t' || r == '\n') {
				continue
			}
			return Charset{}, &CharsetError{Reason: fmt.Sprintf("control character %q", r)}
		}
	}
	return Charset{runes: runes}, nil
}

func mustCharset(chars string) Charset {
	cs, err := NewCharset(chars)
	if err != nil {
		panic(err)
	}
	return cs
}

// Len returns the number of characters in the set.
func (cs Charset) Len() int {
	return len(cs.runes)
}

// Rune returns the character at index i, darkest first.
func (cs Charset) Rune(i int) rune {
	return cs.runes[i]
}

func (cs Charset) String() string {
	return string(cs.runes)
}
