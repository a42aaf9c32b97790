package peg

import (
	"errors"
	"fmt"
	"slices"
)

// Grammar is a frozen dictionary together with its top rule, ready to
// parse strings. It is safe for concurrent use.
type Grammar[T any] struct {
	rules *Dictionary[Text]
	top   *NamedRule[Text, T]
}

// NewGrammar checks that every rule of rules is bound and freezes it.
func NewGrammar[T any](rules *Dictionary[Text], top *NamedRule[Text, T]) (*Grammar[T], error) {
	if err := rules.CheckAllBound(); err != nil {
		return nil, err
	}
	return &Grammar[T]{rules: rules, top: top}, nil
}

func (g *Grammar[T]) Rules() *Dictionary[Text] { return g.rules }

func (g *Grammar[T]) Top() *NamedRule[Text, T] { return g.top }

// Parse parses input with the top rule, which decides whether trailing
// input is an error. A failure is returned as a *SyntaxError positioned
// at the furthest point reached.
func (g *Grammar[T]) Parse(input string) (T, error) {
	errs := NewLongestOnly[Text]()
	st := NewParseState(NewStringReader(input), errs)
	v, ok := ParseTopRule(st, g.top)
	if ok {
		return v, nil
	}
	return v, NewSyntaxError(st, errs)
}

// Suggest parses input starting at start and returns the completion
// candidates of the furthest failure together with the offset they
// apply at. The offset is -1 when nothing failed or start lies outside
// input.
func (g *Grammar[T]) Suggest(input string, start int) (int, []string) {
	if start < 0 || start > len(input) {
		return -1, nil
	}
	errs := NewLongestOnly[Text]()
	in := NewStringReader(input)
	in.SetCursor(start)
	st := NewParseState(in, errs)
	ParseTopRule(st, g.top)
	entries := errs.Entries()
	if len(entries) == 0 {
		return -1, nil
	}
	in.SetCursor(errs.Cursor())
	return errs.Cursor(), suggestions(st, entries)
}

func suggestions[S Input](st ParseState[S], entries []ErrorEntry[S]) []string {
	var out []string
	for _, e := range entries {
		for v := range e.Suggestions.PossibleValues(st) {
			if !slices.Contains(out, v) {
				out = append(out, v)
			}
		}
	}
	return out
}

// NewSyntaxError materialises the failures kept by errs. Delayed errors
// are created at this point; messages of nested *SyntaxErrors are
// merged into one.
func NewSyntaxError(st *CachedParseState[Text], errs *LongestOnly[Text]) *SyntaxError {
	input := st.Input().String()
	se := &SyntaxError{Input: input, Cursor: max(errs.Cursor(), 0)}
	addMessage := func(msg string) {
		if !slices.Contains(se.Messages, msg) {
			se.Messages = append(se.Messages, msg)
		}
	}
	addError := func(err error) {
		var syn *SyntaxError
		if errors.As(err, &syn) {
			for _, m := range syn.Messages {
				addMessage(m)
			}
			return
		}
		addMessage(err.Error())
	}
	entries := errs.Entries()
	for _, e := range entries {
		switch r := e.Reason.(type) {
		case nil:
		case DelayedError:
			if err := r.Create(input, e.Cursor); err != nil {
				addError(err)
			}
		case error:
			addError(r)
		default:
			addMessage(fmt.Sprint(r))
		}
	}
	st.Input().SetCursor(se.Cursor)
	se.Suggestions = suggestions[Text](st, entries)
	return se
}
