package peg

import (
	"strings"
	"unicode/utf8"
)

// StringReader is an Input over an in-memory string. The cursor is a
// byte offset.
type StringReader struct {
	input  string
	cursor int
}

func NewStringReader(input string) *StringReader {
	return &StringReader{input: input}
}

func (r *StringReader) Cursor() int { return r.cursor }

func (r *StringReader) SetCursor(cursor int) { r.cursor = cursor }

// String returns the whole input.
func (r *StringReader) String() string { return r.input }

// Remaining returns the unread part of the input.
func (r *StringReader) Remaining() string { return r.input[r.cursor:] }

func (r *StringReader) CanRead() bool { return r.cursor < len(r.input) }

// Peek decodes the rune at the cursor without consuming it. size is 0
// at end of input.
func (r *StringReader) Peek() (ch rune, size int) {
	if !r.CanRead() {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(r.input[r.cursor:])
}

// Read consumes and returns the rune at the cursor.
func (r *StringReader) Read() rune {
	ch, size := r.Peek()
	r.cursor += size
	return ch
}

// HasPrefix reports whether the unread input starts with s.
func (r *StringReader) HasPrefix(s string) bool {
	return strings.HasPrefix(r.input[r.cursor:], s)
}

// Position returns the 1-based line and byte column of cursor.
func (r *StringReader) Position(cursor int) (line, column int) {
	return LineColumn(r.input, cursor)
}
