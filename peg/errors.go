package peg

import (
	"fmt"
	"strings"
)

// UnboundError lists the forward references left without a rule.
type UnboundError struct {
	Names []string
}

func (e *UnboundError) Error() string {
	return fmt.Sprintf("unbound names: %s", strings.Join(e.Names, ", "))
}

// SyntaxError is a positioned parse failure.
type SyntaxError struct {
	Input       string
	Cursor      int
	Messages    []string
	Suggestions []string
}

// Position returns the 1-based line and byte column of the cursor.
func (e *SyntaxError) Position() (line, column int) {
	return LineColumn(e.Input, e.Cursor)
}

func (e *SyntaxError) Error() string {
	line, col := e.Position()
	msg := "unexpected input"
	if len(e.Messages) > 0 {
		msg = strings.Join(e.Messages, "; ")
	}
	return fmt.Sprintf("syntax error at %d:%d: %s", line, col, msg)
}

// LineColumn converts a byte offset of input into a 1-based line and
// column. Offsets past the end are clamped.
func LineColumn(input string, cursor int) (line, column int) {
	if cursor > len(input) {
		cursor = len(input)
	}
	if cursor < 0 {
		cursor = 0
	}
	line = 1 + strings.Count(input[:cursor], "\n")
	start := strings.LastIndexByte(input[:cursor], '\n') + 1
	return line, cursor - start + 1
}
