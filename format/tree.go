package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/packrat/ebnf/grammar"
	"github.com/dhamidi/packrat/peg"
)

// TreeEncoder writes the indented tree form of a node, or an error
// message followed by a caret under the failing column.
type TreeEncoder struct {
	w    io.Writer
	text string
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w}
}

func (e *TreeEncoder) Encode(node *grammar.Node) error {
	e.text = node.String() + "\n"
	_, err := io.WriteString(e.w, e.text)
	return err
}

func (e *TreeEncoder) EncodeError(err *peg.SyntaxError) error {
	var b strings.Builder
	fmt.Fprintln(&b, err.Error())
	line, col := err.Position()
	if src := sourceLine(err.Input, line); src != "" {
		fmt.Fprintf(&b, "  %s\n", src)
		fmt.Fprintf(&b, "  %s^\n", strings.Repeat(" ", len([]rune(src[:min(col-1, len(src))]))))
	}
	if len(err.Suggestions) > 0 {
		fmt.Fprintf(&b, "expected one of: %s\n", strings.Join(err.Suggestions, " "))
	}
	e.text = b.String()
	_, werr := io.WriteString(e.w, e.text)
	return werr
}

func (e *TreeEncoder) MarshalText() ([]byte, error) {
	return []byte(e.text), nil
}

func sourceLine(input string, line int) string {
	lines := strings.Split(input, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line-1], "\r")
}
