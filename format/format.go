// Package format renders parse results for the command line.
package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/packrat/ebnf/grammar"
	"github.com/dhamidi/packrat/peg"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(node *grammar.Node) error
	EncodeError(err *peg.SyntaxError) error
}

// New returns the encoder registered under name: "json" or "tree".
func New(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "json":
		return NewJSONEncoder(w), nil
	case "tree":
		return NewTreeEncoder(w), nil
	default:
		return nil, fmt.Errorf("unknown format: %s", name)
	}
}
