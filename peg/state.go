package peg

import (
	"fmt"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("packrat.peg")

// Input is the cursor contract a ParseState drives. Marks are cursor
// values.
type Input interface {
	Cursor() int
	SetCursor(cursor int)
}

// ParseState carries everything one top-level parse needs.
//
// A ParseState is not safe for concurrent use. Concurrent parses use
// separate states and may share the same rules.
type ParseState[S Input] interface {
	Scope() *Scope
	Errors() ErrorCollector[S]
	Input() S
	Mark() int
	Restore(mark int)
	AcquireControl() Control
	ReleaseControl()
	// Silent returns a view of the state that drops every failure.
	Silent() ParseState[S]

	parseMemoized(key AtomID, rule erasedRule[S]) (any, bool)
}

type erasedRule[S Input] interface {
	parseErased(st ParseState[S]) (any, bool)
}

// Parse runs rule at the current position, at most once per position
// within one state.
func Parse[S Input, T any](st ParseState[S], rule *NamedRule[S, T]) (T, bool) {
	v, ok := st.parseMemoized(rule.name.id, rule)
	if !ok {
		var zero T
		return zero, false
	}
	t, _ := v.(T)
	return t, true
}

// ParseTopRule parses rule from the current position and checks that
// the scope collapsed back to its base frame. On success the error
// collector is finished with the final cursor.
func ParseTopRule[S Input, T any](st *CachedParseState[S], rule *NamedRule[S, T]) (T, bool) {
	start := st.Mark()
	v, ok := Parse[S, T](st, rule)
	if ok {
		st.errs.Finish(st.Mark())
	}
	if !st.scope.HasOnlySingleFrame() {
		panic(fmt.Sprintf("peg: malformed scope after parsing %s: %v", rule.name.name, st.scope))
	}
	if err := st.scope.Validate(); err != nil {
		panic(err)
	}
	if log.AllowLevel(commonlog.Debug) {
		log.Debugf("parsed %s from %d: ok=%t cursor=%d positions=%d", rule.name.name, start, ok, st.Mark(), st.cachedPositions())
	}
	return v, ok
}

var negativeEntry = &cacheEntry{markAfter: -1}

type cacheEntry struct {
	value     any
	markAfter int
}

type cacheSlot struct {
	key   AtomID
	entry *cacheEntry
}

// positionCache holds the results of every rule tried at one position.
// Grammars try few rules per position, so a linear scan beats hashing.
type positionCache struct {
	slots []cacheSlot
}

func (c *positionCache) find(key AtomID) int {
	for i := range c.slots {
		if c.slots[i].key == key {
			return i
		}
	}
	return -1
}

func (c *positionCache) allocate(key AtomID) int {
	if len(c.slots) == cap(c.slots) {
		grown := make([]cacheSlot, len(c.slots), growByHalf(cap(c.slots), len(c.slots)+1))
		copy(grown, c.slots)
		c.slots = grown
	}
	c.slots = append(c.slots, cacheSlot{key: key})
	return len(c.slots) - 1
}

func growByHalf(current, minimum int) int {
	return max(current+current>>1, minimum)
}

// CachedParseState is the memoizing ParseState.
type CachedParseState[S Input] struct {
	input       S
	scope       *Scope
	errs        ErrorCollector[S]
	positions   []*positionCache
	controls    []*simpleControl
	nextControl int
	silent      silentState[S]
}

// NewParseState returns a fresh state reading input and reporting to
// errs.
func NewParseState[S Input](input S, errs ErrorCollector[S]) *CachedParseState[S] {
	st := &CachedParseState[S]{
		input:     input,
		scope:     NewScope(),
		errs:      errs,
		positions: make([]*positionCache, 256),
		controls:  make([]*simpleControl, 16),
	}
	st.silent.parent = st
	return st
}

func (st *CachedParseState[S]) Scope() *Scope { return st.scope }
func (st *CachedParseState[S]) Errors() ErrorCollector[S] { return st.errs }
func (st *CachedParseState[S]) Input() S { return st.input }
func (st *CachedParseState[S]) Mark() int { return st.input.Cursor() }
func (st *CachedParseState[S]) Restore(mark int) { st.input.SetCursor(mark) }
func (st *CachedParseState[S]) Silent() ParseState[S] { return &st.silent }

func (st *CachedParseState[S]) parseMemoized(key AtomID, rule erasedRule[S]) (any, bool) {
	return st.memoized(st, key, rule)
}

// memoized replays or records the result of rule at the current mark.
// self is the state the rule runs against, which is either st or its
// silent view.
func (st *CachedParseState[S]) memoized(self ParseState[S], key AtomID, rule erasedRule[S]) (any, bool) {
	mark := st.Mark()
	cache := st.cacheFor(mark)
	idx := cache.find(key)
	if idx != -1 {
		if entry := cache.slots[idx].entry; entry != nil {
			if entry == negativeEntry {
				return nil, false
			}
			st.Restore(entry.markAfter)
			return entry.value, true
		}
	} else {
		idx = cache.allocate(key)
	}
	v, ok := rule.parseErased(self)
	entry := negativeEntry
	if ok {
		entry = &cacheEntry{value: v, markAfter: st.Mark()}
	}
	cache.slots[idx].entry = entry
	return v, ok
}

func (st *CachedParseState[S]) cacheFor(mark int) *positionCache {
	if mark >= len(st.positions) {
		grown := make([]*positionCache, growByHalf(len(st.positions), mark+1))
		copy(grown, st.positions)
		st.positions = grown
	}
	c := st.positions[mark]
	if c == nil {
		c = &positionCache{slots: make([]cacheSlot, 0, 4)}
		st.positions[mark] = c
	}
	return c
}

func (st *CachedParseState[S]) cachedPositions() int {
	n := 0
	for _, c := range st.positions {
		if c != nil {
			n++
		}
	}
	return n
}

// AcquireControl hands out the Control for the next nesting level.
// Controls are reused in LIFO order with their cut flag cleared.
func (st *CachedParseState[S]) AcquireControl() Control {
	idx := st.nextControl
	if idx >= len(st.controls) {
		grown := make([]*simpleControl, growByHalf(len(st.controls), idx+1))
		copy(grown, st.controls)
		st.controls = grown
	}
	c := st.controls[idx]
	if c == nil {
		c = &simpleControl{}
		st.controls[idx] = c
	} else {
		c.reset()
	}
	st.nextControl = idx + 1
	return c
}

func (st *CachedParseState[S]) ReleaseControl() {
	if st.nextControl == 0 {
		panic("peg: ReleaseControl without AcquireControl")
	}
	st.nextControl--
}

// silentState shares everything with its parent except the error
// collector.
type silentState[S Input] struct {
	parent *CachedParseState[S]
}

func (s *silentState[S]) Scope() *Scope { return s.parent.scope }
func (s *silentState[S]) Errors() ErrorCollector[S] { return NopCollector[S]{} }
func (s *silentState[S]) Input() S { return s.parent.input }
func (s *silentState[S]) Mark() int { return s.parent.Mark() }
func (s *silentState[S]) Restore(mark int) { s.parent.Restore(mark) }
func (s *silentState[S]) AcquireControl() Control { return s.parent.AcquireControl() }
func (s *silentState[S]) ReleaseControl() { s.parent.ReleaseControl() }
func (s *silentState[S]) Silent() ParseState[S] { return s }

func (s *silentState[S]) parseMemoized(key AtomID, rule erasedRule[S]) (any, bool) {
	return s.parent.memoized(s, key, rule)
}
