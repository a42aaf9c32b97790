package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/packrat/ebnf/grammar"
	"github.com/dhamidi/packrat/peg"
)

type JSONEncoder struct {
	w     io.Writer
	value any
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(node *grammar.Node) error {
	e.value = nodeToJSON(node)
	return e.write()
}

func (e *JSONEncoder) EncodeError(err *peg.SyntaxError) error {
	e.value = errorToJSON(err)
	return e.write()
}

func (e *JSONEncoder) write() error {
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	text = append(text, '\n')
	_, err = e.w.Write(text)
	return err
}

// MarshalText returns the last encoded value.
func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(e.value, "", "  ")
}

type jsonNode struct {
	Kind     string      `json:"kind"`
	Span     jsonSpan    `json:"span"`
	Text     string      `json:"text,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

type jsonSpan struct {
	Start jsonPosition `json:"start"`
	End   jsonPosition `json:"end"`
}

type jsonPosition struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

type jsonError struct {
	Message     string       `json:"message"`
	Position    jsonPosition `json:"position"`
	Expected    []string     `json:"expected,omitempty"`
	Suggestions []string     `json:"suggestions,omitempty"`
}

func position(p grammar.Position) jsonPosition {
	return jsonPosition{Offset: p.Offset, Line: p.Line, Column: p.Column}
}

// nodeToJSON keeps the text of leaves only; inner nodes are spelled out by
// their children.
func nodeToJSON(n *grammar.Node) *jsonNode {
	jn := &jsonNode{
		Kind: n.Kind,
		Span: jsonSpan{Start: position(n.Span.Start), End: position(n.Span.End)},
	}

	if n.IsLeaf() {
		jn.Text = n.Text
	}

	if len(n.Children) > 0 {
		jn.Children = make([]*jsonNode, len(n.Children))
		for i, child := range n.Children {
			jn.Children[i] = nodeToJSON(child)
		}
	}

	return jn
}

func errorToJSON(err *peg.SyntaxError) *jsonError {
	line, col := err.Position()
	return &jsonError{
		Message:     err.Error(),
		Position:    jsonPosition{Offset: err.Cursor, Line: line, Column: col},
		Expected:    err.Messages,
		Suggestions: err.Suggestions,
	}
}
