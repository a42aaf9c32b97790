package peg

import (
	"strings"
	"testing"
)

func mustPanic(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	f()
}

func TestScopePushPop(t *testing.T) {
	a := NewAtom[int]("a")
	s := NewScope()

	Put(s, a, 1)
	s.PushFrame()
	Put(s, a, 2)
	if got := MustGet(s, a); got != 2 {
		t.Errorf("got %d, want 2", got)
	}
	if s.FrameCount() != 2 {
		t.Errorf("got %d frames, want 2", s.FrameCount())
	}
	s.PopFrame()
	if got := MustGet(s, a); got != 1 {
		t.Errorf("got %d after pop, want 1", got)
	}
	if !s.HasOnlySingleFrame() {
		t.Errorf("scope should be back to the base frame: %v", s)
	}
	mustPanic(t, s.PopFrame)
}

func TestScopeZeroValue(t *testing.T) {
	var s Scope
	a := NewAtom[string]("a")
	if _, ok := Get(&s, a); ok {
		t.Fatal("empty scope should not have a binding")
	}
	Put(&s, a, "x")
	if got := GetOrDefault(&s, a, "y"); got != "x" {
		t.Errorf("got %q, want %q", got, "x")
	}
}

func TestScopePutReplacesWithinFrame(t *testing.T) {
	a := NewAtom[int]("a")
	s := NewScope()
	s.PushFrame()
	Put(s, a, 1)
	Put(s, a, 2)
	if len(s.entries) != 1 {
		t.Errorf("got %d entries, want 1", len(s.entries))
	}
	if got := MustGet(s, a); got != 2 {
		t.Errorf("got %d, want 2", got)
	}
}

func TestScopeAtomsAreIdentityKeyed(t *testing.T) {
	a1 := NewAtom[int]("same")
	a2 := NewAtom[int]("same")
	s := NewScope()
	Put(s, a1, 1)
	if _, ok := Get(s, a2); ok {
		t.Error("atoms with equal names must not share bindings")
	}
	if a1 == a2 {
		t.Error("atoms with equal names must not compare equal")
	}
}

func TestScopeSplitAndMerge(t *testing.T) {
	a := NewAtom[int]("a")
	b := NewAtom[int]("b")
	c := NewAtom[int]("c")
	s := NewScope()
	s.PushFrame()
	Put(s, a, 1)
	Put(s, b, 2)

	s.SplitFrame()
	if got := MustGet(s, a); got != 1 {
		t.Errorf("split frame should see parent value, got %d", got)
	}
	Put(s, a, 10)
	Put(s, c, 30)
	s.ClearFrameValues()
	if got := MustGet(s, a); got != 1 {
		t.Errorf("cleared split should fall back to parent, got %d", got)
	}
	if _, ok := Get(s, c); ok {
		t.Error("cleared split should drop new bindings")
	}

	Put(s, a, 11)
	Put(s, c, 31)
	s.MergeFrame()

	if s.FrameCount() != 2 {
		t.Fatalf("got %d frames after merge, want 2", s.FrameCount())
	}
	for _, tt := range []struct {
		atom Atom[int]
		want int
	}{{a, 11}, {b, 2}, {c, 31}} {
		if got := MustGet(s, tt.atom); got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.atom.Name(), got, tt.want)
		}
	}
	if len(s.entries) != 3 {
		t.Errorf("got %d entries after merge, want 3: %v", len(s.entries), s)
	}
	s.PopFrame()
	if !s.HasOnlySingleFrame() || len(s.entries) != 0 {
		t.Errorf("scope not empty: %v", s)
	}
}

func TestScopeNestedSplits(t *testing.T) {
	a := NewAtom[string]("a")
	s := NewScope()
	s.SplitFrame()
	s.SplitFrame()
	Put(s, a, "inner")
	s.MergeFrame()
	if got := MustGet(s, a); got != "inner" {
		t.Errorf("got %q, want inner", got)
	}
	s.MergeFrame()
	if !s.HasOnlySingleFrame() {
		t.Fatalf("got %d frames, want 1", s.FrameCount())
	}
	if got := MustGet(s, a); got != "inner" {
		t.Errorf("got %q after second merge, want inner", got)
	}
}

func TestScopeGetAny(t *testing.T) {
	x := NewAtom[string]("x")
	y := NewAtom[string]("y")
	s := NewScope()
	if got := GetAnyOrDefault(s, "none", x, y); got != "none" {
		t.Errorf("got %q, want none", got)
	}
	Put(s, x, "from x")
	s.PushFrame()
	Put(s, y, "from y")
	if got := MustGetAny(s, x, y); got != "from y" {
		t.Errorf("got %q, want the most recent binding", got)
	}
	s.PopFrame()
	if got := MustGetAny(s, x, y); got != "from x" {
		t.Errorf("got %q, want from x", got)
	}
	mustPanic(t, func() { MustGetAny(s, y) })
}

func TestScopeMergeBaseFramePanics(t *testing.T) {
	s := NewScope()
	mustPanic(t, s.MergeFrame)
}

func TestScopeMergeWithoutSplitPanics(t *testing.T) {
	a := NewAtom[int]("a")
	s := NewScope()
	s.PushFrame()
	Put(s, a, 1)
	s.PushFrame()
	mustPanic(t, s.MergeFrame)
}

func TestScopeValidate(t *testing.T) {
	s := NewScope()
	s.PushFrame()
	s.PushFrame()
	if err := s.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.frames[0] = 5
	if err := s.Validate(); err == nil {
		t.Error("expected corrupted frames to be reported")
	}
}

func TestScopeString(t *testing.T) {
	a := NewAtom[int]("a")
	s := NewScope()
	Put(s, a, 1)
	s.SplitFrame()
	got := s.String()
	if !strings.Contains(got, "a=1") || !strings.Contains(got, "| a=_") {
		t.Errorf("unexpected rendering %q", got)
	}
}
