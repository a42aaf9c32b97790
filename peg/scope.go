package peg

import (
	"fmt"
	"strings"
)

type scopeEntry struct {
	key   AtomID
	name  string
	value any
	set   bool
}

// Scope is a backtrackable stack of atom bindings.
//
// All bindings live in one arena. Frames are contiguous regions of the
// arena; frames holds the start offset of every frame above the base
// frame, which always starts at 0. A lookup walks the arena from the top
// down, so the most recent binding of an atom wins.
//
// The zero value is an empty scope holding only the base frame.
type Scope struct {
	entries []scopeEntry
	frames  []int
}

// NewScope returns an empty scope with room for a few bindings.
func NewScope() *Scope {
	return &Scope{entries: make([]scopeEntry, 0, 16), frames: make([]int, 0, 16)}
}

func (s *Scope) frameStart() int {
	if len(s.frames) == 0 {
		return 0
	}
	return s.frames[len(s.frames)-1]
}

func (s *Scope) parentStart() int {
	if len(s.frames) < 2 {
		return 0
	}
	return s.frames[len(s.frames)-2]
}

// FrameCount returns the number of open frames, including the base.
func (s *Scope) FrameCount() int {
	return len(s.frames) + 1
}

// HasOnlySingleFrame reports whether every pushed frame has been popped
// or merged.
func (s *Scope) HasOnlySingleFrame() bool {
	return len(s.frames) == 0
}

// PushFrame opens an empty frame.
func (s *Scope) PushFrame() {
	s.frames = append(s.frames, len(s.entries))
}

// PopFrame discards the current frame and everything bound in it.
func (s *Scope) PopFrame() {
	if len(s.frames) == 0 {
		panic("peg: cannot pop the base frame of a scope")
	}
	s.truncate(s.frameStart())
	s.frames = s.frames[:len(s.frames)-1]
}

func (s *Scope) truncate(n int) {
	clear(s.entries[n:])
	s.entries = s.entries[:n]
}

// SplitFrame opens a frame holding the keys of the current frame with
// no values. Binding an existing key in the split frame does not touch
// the parent until MergeFrame.
func (s *Scope) SplitFrame() {
	start, end := s.frameStart(), len(s.entries)
	s.PushFrame()
	for i := start; i < end; i++ {
		e := s.entries[i]
		s.entries = append(s.entries, scopeEntry{key: e.key, name: e.name})
	}
}

// ClearFrameValues unsets every value of the current frame and keeps the
// keys.
func (s *Scope) ClearFrameValues() {
	for i := s.frameStart(); i < len(s.entries); i++ {
		s.entries[i].value = nil
		s.entries[i].set = false
	}
}

// MergeFrame folds the current frame, which must have been opened by
// SplitFrame, into its parent. Values set in the split frame replace the
// parent's values; keys the parent did not have are appended to it.
func (s *Scope) MergeFrame() {
	if len(s.frames) == 0 {
		panic("peg: cannot merge the base frame of a scope")
	}
	parent, split := s.parentStart(), s.frameStart()
	parentSize := split - parent
	if len(s.entries)-split < parentSize {
		panic(fmt.Sprintf("peg: merged frame is not a split of its parent: %v", s))
	}
	w := split
	for i := split; i < len(s.entries); i++ {
		e := s.entries[i]
		if i-split < parentSize {
			dst := &s.entries[parent+i-split]
			if dst.key != e.key {
				panic(fmt.Sprintf("peg: merged frame keys diverge from parent: %v", s))
			}
			if e.set {
				dst.value, dst.set = e.value, true
			}
			continue
		}
		if e.set {
			s.entries[w] = e
			w++
		}
	}
	s.truncate(w)
	s.frames = s.frames[:len(s.frames)-1]
}

// Validate walks the frame offsets back to the base frame and reports
// the first inconsistency.
func (s *Scope) Validate() error {
	prev := 0
	for i, start := range s.frames {
		if start < prev || start > len(s.entries) {
			return fmt.Errorf("peg: frame %d starts at %d (previous %d, size %d)", i+1, start, prev, len(s.entries))
		}
		prev = start
	}
	return nil
}

func (s *Scope) put(key AtomID, name string, value any) {
	for i := len(s.entries) - 1; i >= s.frameStart(); i-- {
		if s.entries[i].key == key {
			s.entries[i].value, s.entries[i].set = value, true
			return
		}
	}
	s.entries = append(s.entries, scopeEntry{key: key, name: name, value: value, set: true})
}

func (s *Scope) lookup(match func(AtomID) bool) (any, bool) {
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := &s.entries[i]
		if e.set && match(e.key) {
			return e.value, true
		}
	}
	return nil, false
}

func (s *Scope) String() string {
	var b strings.Builder
	frame := 0
	for i, e := range s.entries {
		for frame < len(s.frames) && s.frames[frame] == i {
			b.WriteString("| ")
			frame++
		}
		if e.set {
			fmt.Fprintf(&b, "%s=%v ", e.name, e.value)
		} else {
			fmt.Fprintf(&b, "%s=_ ", e.name)
		}
	}
	for ; frame < len(s.frames); frame++ {
		b.WriteString("| ")
	}
	return strings.TrimSpace(b.String())
}

// Put binds value to atom in the current frame, replacing an earlier
// binding of the same atom in that frame.
func Put[T any](s *Scope, atom Atom[T], value T) {
	s.put(atom.id, atom.name, value)
}

// Get returns the most recent binding of atom.
func Get[T any](s *Scope, atom Atom[T]) (T, bool) {
	v, ok := s.lookup(func(id AtomID) bool { return id == atom.id })
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// GetOrDefault returns the most recent binding of atom, or def.
func GetOrDefault[T any](s *Scope, atom Atom[T], def T) T {
	if v, ok := Get(s, atom); ok {
		return v
	}
	return def
}

// MustGet returns the most recent binding of atom and panics if there is
// none. Actions use it for values their term always binds.
func MustGet[T any](s *Scope, atom Atom[T]) T {
	v, ok := Get(s, atom)
	if !ok {
		panic(fmt.Sprintf("peg: no value bound for %v", atom))
	}
	return v
}

// GetAny returns the most recent binding of any of the atoms. It lets the
// branches of an alternation bind under different names while one
// consumer reads the result.
func GetAny[T any](s *Scope, atoms ...Atom[T]) (T, bool) {
	v, ok := s.lookup(func(id AtomID) bool {
		for _, a := range atoms {
			if a.id == id {
				return true
			}
		}
		return false
	})
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// GetAnyOrDefault is GetAny with a fallback.
func GetAnyOrDefault[T any](s *Scope, def T, atoms ...Atom[T]) T {
	if v, ok := GetAny(s, atoms...); ok {
		return v
	}
	return def
}

// MustGetAny is GetAny that panics when none of the atoms is bound.
func MustGetAny[T any](s *Scope, atoms ...Atom[T]) T {
	v, ok := GetAny(s, atoms...)
	if !ok {
		panic(fmt.Sprintf("peg: no value bound for any of %v", atoms))
	}
	return v
}
