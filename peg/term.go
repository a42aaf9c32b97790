package peg

// Term is a grammar expression. Parse reports whether the term matched
// at the current position. A term that fails leaves the input mark and
// the scope as it found them.
type Term[S Input] interface {
	Parse(st ParseState[S], scope *Scope, ctl Control) bool
}

// TermFunc adapts a function to Term.
type TermFunc[S Input] func(st ParseState[S], scope *Scope, ctl Control) bool

func (f TermFunc[S]) Parse(st ParseState[S], scope *Scope, ctl Control) bool {
	return f(st, scope, ctl)
}

type sequence[S Input] []Term[S]

// Sequence matches every term in order, or nothing.
func Sequence[S Input](terms ...Term[S]) Term[S] {
	return sequence[S](terms)
}

func (seq sequence[S]) Parse(st ParseState[S], scope *Scope, ctl Control) bool {
	mark := st.Mark()
	scope.SplitFrame()
	for _, t := range seq {
		if !t.Parse(st, scope, ctl) {
			scope.PopFrame()
			st.Restore(mark)
			return false
		}
	}
	scope.MergeFrame()
	return true
}

type alternative[S Input] []Term[S]

// Alternative tries the terms in order and keeps the first match. A
// branch calling Cut prevents the remaining branches from being tried
// once it fails.
func Alternative[S Input](terms ...Term[S]) Term[S] {
	return alternative[S](terms)
}

func (alt alternative[S]) Parse(st ParseState[S], scope *Scope, _ Control) bool {
	ctl := st.AcquireControl()
	defer st.ReleaseControl()
	mark := st.Mark()
	scope.SplitFrame()
	for _, t := range alt {
		if t.Parse(st, scope, ctl) {
			scope.MergeFrame()
			return true
		}
		scope.ClearFrameValues()
		st.Restore(mark)
		if ctl.HasCut() {
			break
		}
	}
	scope.PopFrame()
	return false
}

type maybe[S Input] struct {
	term Term[S]
}

// Optional tries term once and always succeeds.
func Optional[S Input](term Term[S]) Term[S] {
	return maybe[S]{term: term}
}

func (m maybe[S]) Parse(st ParseState[S], scope *Scope, ctl Control) bool {
	mark := st.Mark()
	scope.SplitFrame()
	if !m.term.Parse(st, scope, ctl) {
		scope.PopFrame()
		st.Restore(mark)
		return true
	}
	scope.MergeFrame()
	return true
}

type repeated[S Input, T any] struct {
	element *NamedRule[S, T]
	list    Atom[[]T]
	min     int
}

// Repeated matches element as often as possible and binds the values
// under list. Fewer than min matches is a failure. A match consuming no
// input ends the repetition.
func Repeated[S Input, T any](element *NamedRule[S, T], list Atom[[]T], min int) Term[S] {
	return &repeated[S, T]{element: element, list: list, min: min}
}

func (r *repeated[S, T]) Parse(st ParseState[S], scope *Scope, _ Control) bool {
	mark := st.Mark()
	values := make([]T, 0, r.min)
	for {
		start := st.Mark()
		v, ok := Parse(st, r.element)
		if !ok {
			st.Restore(start)
			break
		}
		values = append(values, v)
		if st.Mark() == start {
			break
		}
	}
	if len(values) < r.min {
		st.Restore(mark)
		return false
	}
	Put(scope, r.list, values)
	return true
}

// TrailingPolicy decides what a separated repetition does with a
// separator that is not followed by an element.
type TrailingPolicy int

const (
	// TrailingAllowed consumes the dangling separator.
	TrailingAllowed TrailingPolicy = iota
	// TrailingForbidden fails the whole list.
	TrailingForbidden
	// TrailingLeft stops before the dangling separator.
	TrailingLeft
)

func (p TrailingPolicy) String() string {
	switch p {
	case TrailingAllowed:
		return "allowed"
	case TrailingForbidden:
		return "forbidden"
	case TrailingLeft:
		return "left"
	}
	return "unknown"
}

type repeatedWithSeparator[S Input, T any] struct {
	element   *NamedRule[S, T]
	list      Atom[[]T]
	separator Term[S]
	min       int
	policy    TrailingPolicy
}

// RepeatedWithSeparator matches element { separator element } and binds
// the values under list.
func RepeatedWithSeparator[S Input, T any](element *NamedRule[S, T], list Atom[[]T], separator Term[S], min int, policy TrailingPolicy) Term[S] {
	return &repeatedWithSeparator[S, T]{element: element, list: list, separator: separator, min: min, policy: policy}
}

// RepeatedWithTrailingSeparator is RepeatedWithSeparator with
// TrailingAllowed.
func RepeatedWithTrailingSeparator[S Input, T any](element *NamedRule[S, T], list Atom[[]T], separator Term[S], min int) Term[S] {
	return RepeatedWithSeparator(element, list, separator, min, TrailingAllowed)
}

// RepeatedWithoutTrailingSeparator is RepeatedWithSeparator with
// TrailingLeft.
func RepeatedWithoutTrailingSeparator[S Input, T any](element *NamedRule[S, T], list Atom[[]T], separator Term[S], min int) Term[S] {
	return RepeatedWithSeparator(element, list, separator, min, TrailingLeft)
}

func (r *repeatedWithSeparator[S, T]) Parse(st ParseState[S], scope *Scope, ctl Control) bool {
	mark := st.Mark()
	scope.SplitFrame()
	reject := func() bool {
		scope.PopFrame()
		st.Restore(mark)
		return false
	}
	values := make([]T, 0, r.min)
	first := true
	for {
		beforeSeparator := st.Mark()
		// Separator bindings are dropped with a separator that is given back.
		scope.SplitFrame()
		if !first && !r.separator.Parse(st, scope, ctl) {
			scope.PopFrame()
			st.Restore(beforeSeparator)
			break
		}
		afterSeparator := st.Mark()
		v, ok := Parse(st, r.element)
		if !ok {
			if first {
				scope.PopFrame()
				st.Restore(afterSeparator)
				break
			}
			switch r.policy {
			case TrailingForbidden:
				scope.PopFrame()
				return reject()
			case TrailingLeft:
				scope.PopFrame()
				st.Restore(beforeSeparator)
			default:
				scope.MergeFrame()
				st.Restore(afterSeparator)
			}
			break
		}
		scope.MergeFrame()
		values = append(values, v)
		first = false
		if st.Mark() == beforeSeparator {
			break
		}
	}
	if len(values) < r.min {
		return reject()
	}
	scope.MergeFrame()
	Put(scope, r.list, values)
	return true
}

type lookAhead[S Input] struct {
	term     Term[S]
	positive bool
}

// PositiveLookahead succeeds if term matches here, without consuming
// input or recording failures. Bindings made by term stay in scope.
func PositiveLookahead[S Input](term Term[S]) Term[S] {
	return lookAhead[S]{term: term, positive: true}
}

// NegativeLookahead succeeds if term does not match here.
func NegativeLookahead[S Input](term Term[S]) Term[S] {
	return lookAhead[S]{term: term, positive: false}
}

func (l lookAhead[S]) Parse(st ParseState[S], scope *Scope, ctl Control) bool {
	mark := st.Mark()
	ok := l.term.Parse(st.Silent(), scope, ctl)
	st.Restore(mark)
	return ok == l.positive
}

type marker[S Input, T any] struct {
	name  Atom[T]
	value T
}

// Marker binds value under name and always succeeds.
func Marker[S Input, T any](name Atom[T], value T) Term[S] {
	return marker[S, T]{name: name, value: value}
}

func (m marker[S, T]) Parse(_ ParseState[S], scope *Scope, _ Control) bool {
	Put(scope, m.name, m.value)
	return true
}

type cut[S Input] struct{}

// Cut commits the enclosing Alternative to the current branch.
func Cut[S Input]() Term[S] { return cut[S]{} }

func (cut[S]) Parse(_ ParseState[S], _ *Scope, ctl Control) bool {
	ctl.Cut()
	return true
}

type empty[S Input] struct{}

// Empty always succeeds.
func Empty[S Input]() Term[S] { return empty[S]{} }

func (empty[S]) Parse(ParseState[S], *Scope, Control) bool { return true }

type fail[S Input] struct {
	reason any
}

// Fail always fails and records reason at the current position.
func Fail[S Input](reason any) Term[S] { return fail[S]{reason: reason} }

func (f fail[S]) Parse(st ParseState[S], _ *Scope, _ Control) bool {
	st.Errors().Store(st.Mark(), NoSuggestions[S](), f.reason)
	return false
}

type reference[S Input, T any] struct {
	rule  *NamedRule[S, T]
	alias Atom[T]
}

// Reference parses rule and binds its value under alias.
func Reference[S Input, T any](rule *NamedRule[S, T], alias Atom[T]) Term[S] {
	return reference[S, T]{rule: rule, alias: alias}
}

func (r reference[S, T]) Parse(st ParseState[S], scope *Scope, _ Control) bool {
	v, ok := Parse(st, r.rule)
	if !ok {
		return false
	}
	Put(scope, r.alias, v)
	return true
}
