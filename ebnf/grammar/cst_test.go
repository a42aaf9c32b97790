package grammar

import (
	"slices"
	"testing"
)

func TestChildListOrder(t *testing.T) {
	var l *childList
	if got := l.nodes(); len(got) != 0 {
		t.Fatalf("empty list gave %v", got)
	}
	a, b, c := &Node{Kind: "a"}, &Node{Kind: "b"}, &Node{Kind: "c"}
	l = l.push(a).push(b)
	shared := l
	l = l.push(c)
	if got := kinds(l.nodes()); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("got %v", got)
	}
	if got := kinds(shared.nodes()); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("pushing changed an earlier list: %v", got)
	}
}

func TestPositionAt(t *testing.T) {
	tests := []struct {
		input  string
		offset int
		want   string
	}{
		{"abc", 0, "1:1"},
		{"abc", 3, "1:4"},
		{"a\nbc", 2, "2:1"},
		{"a\nbc", 4, "2:3"},
	}
	for _, tt := range tests {
		if got := positionAt(tt.input, tt.offset).String(); got != tt.want {
			t.Errorf("positionAt(%q, %d) = %s, want %s", tt.input, tt.offset, got, tt.want)
		}
	}
}

func TestFind(t *testing.T) {
	leaf := func(kind, text string) *Node { return &Node{Kind: kind, Text: text} }
	root := &Node{Kind: "S", Children: []*Node{
		leaf("x", "1"),
		{Kind: "T", Children: []*Node{leaf("x", "2")}},
		leaf("y", "3"),
	}}
	var texts []string
	for _, n := range root.Find("x") {
		texts = append(texts, n.Text)
	}
	if !slices.Equal(texts, []string{"1", "2"}) {
		t.Errorf("got %v", texts)
	}
	if root.IsLeaf() || !root.Children[0].IsLeaf() {
		t.Error("wrong leaf classification")
	}
	if got := root.Find("S"); len(got) != 1 || got[0] != root {
		t.Error("Find should include the receiver")
	}
}
