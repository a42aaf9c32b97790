package peg

import "fmt"

// ErrorCollector receives the failures recorded while parsing.
type ErrorCollector[S Input] interface {
	Store(cursor int, suggestions SuggestionSupplier[S], reason any)
	// Finish is called with the final cursor of a successful top-level
	// parse.
	Finish(cursor int)
}

// ErrorEntry is one recorded failure.
type ErrorEntry[S Input] struct {
	Cursor      int
	Suggestions SuggestionSupplier[S]
	Reason      any
}

func (e ErrorEntry[S]) String() string {
	return fmt.Sprintf("%d: %v", e.Cursor, e.Reason)
}

// NopCollector discards everything. Silent states use it.
type NopCollector[S Input] struct{}

func (NopCollector[S]) Store(int, SuggestionSupplier[S], any) {}
func (NopCollector[S]) Finish(int) {}

// LongestOnly keeps the failures recorded at the furthest cursor seen and
// drops everything recorded before it.
type LongestOnly[S Input] struct {
	entries    []ErrorEntry[S]
	lastCursor int
}

// NewLongestOnly returns an empty collector whose cursor is -1.
func NewLongestOnly[S Input]() *LongestOnly[S] {
	return &LongestOnly[S]{entries: make([]ErrorEntry[S], 0, 16), lastCursor: -1}
}

func (c *LongestOnly[S]) discardShorter(cursor int) {
	if cursor > c.lastCursor {
		c.lastCursor = cursor
		clear(c.entries)
		c.entries = c.entries[:0]
	}
}

func (c *LongestOnly[S]) Store(cursor int, suggestions SuggestionSupplier[S], reason any) {
	c.discardShorter(cursor)
	if cursor == c.lastCursor {
		if suggestions == nil {
			suggestions = NoSuggestions[S]()
		}
		c.entries = append(c.entries, ErrorEntry[S]{Cursor: cursor, Suggestions: suggestions, Reason: reason})
	}
}

func (c *LongestOnly[S]) Finish(cursor int) {
	c.discardShorter(cursor)
}

// Entries returns a copy of the failures recorded at Cursor.
func (c *LongestOnly[S]) Entries() []ErrorEntry[S] {
	out := make([]ErrorEntry[S], len(c.entries))
	copy(out, c.entries)
	return out
}

// Cursor returns the furthest position any failure or finish was
// reported at, or -1.
func (c *LongestOnly[S]) Cursor() int {
	return c.lastCursor
}

// Reset empties the collector so it can serve another parse.
func (c *LongestOnly[S]) Reset() {
	clear(c.entries)
	c.entries = c.entries[:0]
	c.lastCursor = -1
}
