package grammar

import (
	"fmt"
	"strings"

	"github.com/dhamidi/packrat/peg"
)

// Position is a location in the parsed input.
type Position struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

func positionAt(input string, offset int) Position {
	line, col := peg.LineColumn(input, offset)
	return Position{Offset: offset, Line: line, Column: col}
}

// Span represents a range in the input.
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Node is a node of the concrete syntax tree. Every node stands for one
// matched production.
type Node struct {
	Kind     string  `json:"kind"`
	Text     string  `json:"text"`
	Span     Span    `json:"span"`
	Children []*Node `json:"children,omitempty"`
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Find returns the nodes of the given kind in depth-first order.
func (n *Node) Find(kind string) []*Node {
	var out []*Node
	n.walk(func(c *Node) {
		if c.Kind == kind {
			out = append(out, c)
		}
	})
	return out
}

func (n *Node) walk(f func(*Node)) {
	f(n)
	for _, c := range n.Children {
		c.walk(f)
	}
}

// String renders the tree one node per line, children indented.
func (n *Node) String() string {
	var b strings.Builder
	n.format(&b, 0)
	return strings.TrimSuffix(b.String(), "\n")
}

func (n *Node) format(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	if n.IsLeaf() {
		fmt.Fprintf(b, "%s %q\n", n.Kind, n.Text)
		return
	}
	fmt.Fprintf(b, "%s\n", n.Kind)
	for _, c := range n.Children {
		c.format(b, depth+1)
	}
}

// childList is the persistent list of the children matched so far in a
// production, most recent first. It is immutable so that a binding of it
// can be rolled back by the scope.
type childList struct {
	node *Node
	next *childList
}

func (l *childList) push(n *Node) *childList {
	return &childList{node: n, next: l}
}

func (l *childList) nodes() []*Node {
	var out []*Node
	for c := l; c != nil; c = c.next {
		out = append(out, c.node)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
