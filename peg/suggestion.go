package peg

import (
	"iter"
	"slices"
)

// SuggestionSupplier lazily produces completion candidates for the
// position a failure was recorded at. The returned sequence must be
// finite and may be iterated more than once.
type SuggestionSupplier[S Input] interface {
	PossibleValues(state ParseState[S]) iter.Seq[string]
}

// SuggestionFunc adapts a function to SuggestionSupplier.
type SuggestionFunc[S Input] func(state ParseState[S]) iter.Seq[string]

func (f SuggestionFunc[S]) PossibleValues(state ParseState[S]) iter.Seq[string] {
	return f(state)
}

type noSuggestions[S Input] struct{}

func (noSuggestions[S]) PossibleValues(ParseState[S]) iter.Seq[string] {
	return func(func(string) bool) {}
}

// NoSuggestions returns a supplier that never yields anything.
func NoSuggestions[S Input]() SuggestionSupplier[S] {
	return noSuggestions[S]{}
}

type fixedSuggestions[S Input] []string

func (f fixedSuggestions[S]) PossibleValues(ParseState[S]) iter.Seq[string] {
	return slices.Values(f)
}

// Suggest returns a supplier yielding the given values in order.
func Suggest[S Input](values ...string) SuggestionSupplier[S] {
	if len(values) == 0 {
		return NoSuggestions[S]()
	}
	return fixedSuggestions[S](slices.Clone(values))
}
