package peg

import "fmt"

// Rule produces a typed value from the input, or reports a failure.
// Returning false after a syntactic match is a semantic rejection and is
// treated as any other failure.
type Rule[S Input, T any] interface {
	Parse(st ParseState[S]) (T, bool)
}

// RuleFunc adapts a function to Rule.
type RuleFunc[S Input, T any] func(st ParseState[S]) (T, bool)

func (f RuleFunc[S, T]) Parse(st ParseState[S]) (T, bool) {
	return f(st)
}

// Action computes a rule's value once its term matched.
type Action[S Input, T any] func(st ParseState[S]) (T, bool)

// SimpleAction computes a rule's value from the bindings of its term.
type SimpleAction[T any] func(scope *Scope) (T, bool)

type wrappedTerm[S Input, T any] struct {
	term   Term[S]
	action Action[S, T]
}

// FromTerm builds a rule that runs term in a fresh frame and then
// action. The frame is popped on every exit path.
func FromTerm[S Input, T any](term Term[S], action Action[S, T]) Rule[S, T] {
	return &wrappedTerm[S, T]{term: term, action: action}
}

// FromSimpleTerm is FromTerm for actions that only read the scope.
func FromSimpleTerm[S Input, T any](term Term[S], action SimpleAction[T]) Rule[S, T] {
	return &wrappedTerm[S, T]{term: term, action: func(st ParseState[S]) (T, bool) {
		return action(st.Scope())
	}}
}

func (w *wrappedTerm[S, T]) Parse(st ParseState[S]) (T, bool) {
	scope := st.Scope()
	scope.PushFrame()
	defer scope.PopFrame()
	if !w.term.Parse(st, scope, Unbound) {
		var zero T
		return zero, false
	}
	return w.action(st)
}

// NamedRule binds a rule to the atom it is memoized and referenced by.
type NamedRule[S Input, T any] struct {
	name Atom[T]
	rule Rule[S, T]
}

func (n *NamedRule[S, T]) Name() Atom[T] { return n.name }
func (n *NamedRule[S, T]) Rule() Rule[S, T] { return n.rule }
func (n *NamedRule[S, T]) Bound() bool { return n.rule != nil }
func (n *NamedRule[S, T]) ruleName() string { return n.name.name }
func (n *NamedRule[S, T]) String() string { return n.name.String() }

func (n *NamedRule[S, T]) parseErased(st ParseState[S]) (any, bool) {
	if n.rule == nil {
		panic(fmt.Sprintf("peg: rule %s is not bound", n.name.name))
	}
	return n.rule.Parse(st)
}
