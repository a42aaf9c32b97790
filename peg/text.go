package peg

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Text is the input type of the string terms.
type Text = *StringReader

type literal struct {
	word        string
	reason      DelayedError
	suggestions SuggestionSupplier[Text]
}

// Literal matches word exactly. A failure suggests word.
func Literal(word string) Term[Text] {
	return &literal{
		word:        word,
		reason:      NewDelayedError(fmt.Sprintf("expected %q", word)),
		suggestions: Suggest[Text](word),
	}
}

func (l *literal) Parse(st ParseState[Text], _ *Scope, _ Control) bool {
	in := st.Input()
	if in.HasPrefix(l.word) {
		in.SetCursor(in.Cursor() + len(l.word))
		return true
	}
	st.Errors().Store(in.Cursor(), l.suggestions, l.reason)
	return false
}

type runeMatch struct {
	match  func(rune) bool
	reason DelayedError
}

func (m *runeMatch) Parse(st ParseState[Text], _ *Scope, _ Control) bool {
	in := st.Input()
	ch, size := in.Peek()
	if size > 0 && m.match(ch) {
		in.SetCursor(in.Cursor() + size)
		return true
	}
	st.Errors().Store(in.Cursor(), NoSuggestions[Text](), m.reason)
	return false
}

// Char matches the single rune ch.
func Char(ch rune) Term[Text] {
	return &runeMatch{
		match:  func(r rune) bool { return r == ch },
		reason: NewDelayedError(fmt.Sprintf("expected %q", ch)),
	}
}

// CharRange matches one rune in [lo, hi].
func CharRange(lo, hi rune) Term[Text] {
	return &runeMatch{
		match:  func(r rune) bool { return r >= lo && r <= hi },
		reason: NewDelayedError(fmt.Sprintf("expected character in %q…%q", lo, hi)),
	}
}

// CharIn matches one rune contained in set.
func CharIn(set string) Term[Text] {
	return &runeMatch{
		match:  func(r rune) bool { return strings.ContainsRune(set, r) },
		reason: NewDelayedError(fmt.Sprintf("expected one of %q", set)),
	}
}

type endOfInput struct{}

var errEndOfInput = NewDelayedError("expected end of input")

// EndOfInput matches only when nothing is left to read.
func EndOfInput() Term[Text] { return endOfInput{} }

func (endOfInput) Parse(st ParseState[Text], _ *Scope, _ Control) bool {
	in := st.Input()
	if in.CanRead() {
		st.Errors().Store(in.Cursor(), NoSuggestions[Text](), errEndOfInput)
		return false
	}
	return true
}

type greedyPredicate struct {
	min, max int
	pred     func(rune) bool
	err      DelayedError
}

// GreedyPredicate returns a rule reading the longest run of runes
// satisfying pred, up to max runes when max > 0. Runs shorter than min
// fail with err.
func GreedyPredicate(min, max int, pred func(rune) bool, err DelayedError) Rule[Text, string] {
	return &greedyPredicate{min: min, max: max, pred: pred, err: err}
}

func (g *greedyPredicate) Parse(st ParseState[Text]) (string, bool) {
	in := st.Input()
	start := in.Cursor()
	rest := in.Remaining()
	n, end := 0, 0
	for end < len(rest) && (g.max <= 0 || n < g.max) {
		ch, size := utf8.DecodeRuneInString(rest[end:])
		if !g.pred(ch) {
			break
		}
		end += size
		n++
	}
	if n < g.min {
		st.Errors().Store(start, NoSuggestions[Text](), g.err)
		return "", false
	}
	in.SetCursor(start + end)
	return rest[:end], true
}
