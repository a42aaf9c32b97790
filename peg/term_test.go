package peg

import (
	"slices"
	"testing"
	"unicode"
)

// parseTop runs term as the only term of a throwaway top rule and
// returns whether it matched, the final cursor and the collector.
func parseTop(t *testing.T, input string, term Term[Text]) (bool, int, *LongestOnly[Text]) {
	t.Helper()
	d := NewDictionary[Text]()
	top := PutTerm(d, NewAtom[bool]("top"), term, func(*Scope) (bool, bool) { return true, true })
	if err := d.CheckAllBound(); err != nil {
		t.Fatalf("check: %v", err)
	}
	errs := NewLongestOnly[Text]()
	st := NewParseState(NewStringReader(input), errs)
	_, ok := ParseTopRule(st, top)
	if !st.Scope().HasOnlySingleFrame() {
		t.Fatalf("scope not collapsed: %v", st.Scope())
	}
	return ok, st.Mark(), errs
}

func letterRule(d *Dictionary[Text], name string) *NamedRule[Text, string] {
	return PutRule(d, NewAtom[string](name), GreedyPredicate(1, 1, unicode.IsLetter, NewDelayedError("expected letter")))
}

func TestSequence(t *testing.T) {
	tests := []struct {
		input  string
		ok     bool
		cursor int
	}{
		{"abc", true, 3},
		{"abx", false, 0},
		{"a", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ok, cursor, _ := parseTop(t, tt.input, Sequence(Literal("a"), Literal("b"), Literal("c")))
			if ok != tt.ok || cursor != tt.cursor {
				t.Errorf("got (%t, %d), want (%t, %d)", ok, cursor, tt.ok, tt.cursor)
			}
		})
	}
}

func TestAlternativeFirstMatchWins(t *testing.T) {
	ok, cursor, _ := parseTop(t, "abc", Alternative(Literal("a"), Literal("abc")))
	if !ok || cursor != 1 {
		t.Errorf("got (%t, %d), want (true, 1)", ok, cursor)
	}
	ok, cursor, _ = parseTop(t, "abc", Alternative(Literal("x"), Literal("ab")))
	if !ok || cursor != 2 {
		t.Errorf("got (%t, %d), want (true, 2)", ok, cursor)
	}
}

func TestAlternativeDiscardsFailedBranchBindings(t *testing.T) {
	tag := NewAtom[string]("tag")
	d := NewDictionary[Text]()
	top := PutTerm(d, NewAtom[string]("top"),
		Alternative(
			Sequence(Marker[Text](tag, "first"), Literal("x")),
			Literal("a"),
		),
		func(s *Scope) (string, bool) { return GetOrDefault(s, tag, "unset"), true },
	)
	g, err := NewGrammar(d, top)
	if err != nil {
		t.Fatal(err)
	}
	got, err := g.Parse("a")
	if err != nil {
		t.Fatal(err)
	}
	if got != "unset" {
		t.Errorf("got %q, want bindings of the failed branch to be discarded", got)
	}
}

func TestAlternativeMergesWinningBranch(t *testing.T) {
	left := NewAtom[string]("left")
	right := NewAtom[string]("right")
	d := NewDictionary[Text]()
	top := PutTerm(d, NewAtom[string]("top"),
		Alternative(
			Sequence(Literal("l"), Marker[Text](left, "L")),
			Sequence(Literal("r"), Marker[Text](right, "R")),
		),
		func(s *Scope) (string, bool) { return GetAny(s, left, right) },
	)
	g, err := NewGrammar(d, top)
	if err != nil {
		t.Fatal(err)
	}
	for input, want := range map[string]string{"l": "L", "r": "R"} {
		got, err := g.Parse(input)
		if err != nil {
			t.Fatalf("%s: %v", input, err)
		}
		if got != want {
			t.Errorf("%s: got %q, want %q", input, got, want)
		}
	}
}

func TestCutCommitsAlternative(t *testing.T) {
	withCut := Alternative(Sequence(Literal("a"), Cut[Text](), Literal("b")), Literal("ac"))
	ok, cursor, _ := parseTop(t, "ac", withCut)
	if ok {
		t.Error("cut should prevent trying the second branch")
	}
	if cursor != 0 {
		t.Errorf("got cursor %d, want 0", cursor)
	}

	withoutCut := Alternative(Sequence(Literal("a"), Literal("b")), Literal("ac"))
	if ok, _, _ := parseTop(t, "ac", withoutCut); !ok {
		t.Error("without cut the second branch should match")
	}
}

func TestCutIsLocalToItsAlternative(t *testing.T) {
	inner := Alternative(Sequence(Literal("a"), Cut[Text](), Literal("b")), Literal("a"))
	outer := Alternative(Sequence(inner, Literal("!")), Literal("ac"))
	if ok, cursor, _ := parseTop(t, "ac", outer); !ok || cursor != 2 {
		t.Errorf("got (%t, %d), want the outer alternative to keep trying", ok, cursor)
	}
}

func TestCutOutsideAlternative(t *testing.T) {
	if ok, _, _ := parseTop(t, "a", Sequence(Cut[Text](), Literal("a"))); !ok {
		t.Error("cut outside an alternative should be a no-op")
	}
}

func TestOptional(t *testing.T) {
	ok, cursor, _ := parseTop(t, "ab", Sequence(Optional(Sequence(Literal("a"), Literal("x"))), Literal("a")))
	if !ok || cursor != 1 {
		t.Errorf("got (%t, %d), want (true, 1)", ok, cursor)
	}
	ok, cursor, _ = parseTop(t, "ab", Optional(Literal("ab")))
	if !ok || cursor != 2 {
		t.Errorf("got (%t, %d), want (true, 2)", ok, cursor)
	}
}

func TestEmptyAndFail(t *testing.T) {
	if ok, cursor, _ := parseTop(t, "x", Empty[Text]()); !ok || cursor != 0 {
		t.Errorf("empty: got (%t, %d)", ok, cursor)
	}
	ok, _, errs := parseTop(t, "ab", Sequence(Literal("a"), Fail[Text]("nope")))
	if ok {
		t.Fatal("fail should fail")
	}
	entries := errs.Entries()
	if errs.Cursor() != 1 || len(entries) != 1 || entries[0].Reason != "nope" {
		t.Errorf("got cursor %d entries %v", errs.Cursor(), entries)
	}
}

func TestLongestErrorWins(t *testing.T) {
	term := Alternative(
		Sequence(Literal("ab"), Fail[Text]("c")),
		Sequence(Literal("abcd"), Fail[Text]("e")),
	)
	ok, _, errs := parseTop(t, "abcdx", term)
	if ok {
		t.Fatal("expected failure")
	}
	if errs.Cursor() != 4 {
		t.Errorf("got cursor %d, want 4", errs.Cursor())
	}
	entries := errs.Entries()
	if len(entries) != 1 || entries[0].Reason != "e" {
		t.Errorf("got entries %v, want only the failure at 4", entries)
	}
}

func TestRepeated(t *testing.T) {
	tests := []struct {
		input  string
		min    int
		ok     bool
		want   []string
		cursor int
	}{
		{"", 2, false, nil, 0},
		{"a", 2, false, nil, 0},
		{"ab", 2, true, []string{"a", "b"}, 2},
		{"abc1", 2, true, []string{"a", "b", "c"}, 3},
		{"1", 0, true, []string{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d := NewDictionary[Text]()
			letters := NewAtom[[]string]("letters")
			top := PutTerm(d, NewAtom[[]string]("top"), Repeated(letterRule(d, "letter"), letters, tt.min),
				func(s *Scope) ([]string, bool) { return MustGet(s, letters), true })
			if err := d.CheckAllBound(); err != nil {
				t.Fatal(err)
			}
			st := NewParseState(NewStringReader(tt.input), NewLongestOnly[Text]())
			got, ok := ParseTopRule(st, top)
			if ok != tt.ok {
				t.Fatalf("got ok=%t, want %t", ok, tt.ok)
			}
			if st.Mark() != tt.cursor {
				t.Errorf("got cursor %d, want %d", st.Mark(), tt.cursor)
			}
			if ok && !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRepeatedStopsOnEmptyMatch(t *testing.T) {
	d := NewDictionary[Text]()
	items := NewAtom[[]bool]("items")
	nothing := PutTerm(d, NewAtom[bool]("nothing"), Empty[Text](), func(*Scope) (bool, bool) { return true, true })
	ok, cursor, _ := parseTop(t, "x", Repeated(nothing, items, 0))
	if !ok || cursor != 0 {
		t.Errorf("got (%t, %d), want (true, 0)", ok, cursor)
	}
}

func TestRepeatedWithSeparator(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		policy TrailingPolicy
		min    int
		ok     bool
		want   []string
		cursor int
	}{
		{"trailing allowed", "a,b,", TrailingAllowed, 0, true, []string{"a", "b"}, 4},
		{"trailing left", "a,b,", TrailingLeft, 0, true, []string{"a", "b"}, 3},
		{"trailing forbidden", "a,b,", TrailingForbidden, 0, false, nil, 0},
		{"no trailing", "a,b", TrailingForbidden, 0, true, []string{"a", "b"}, 3},
		{"empty", "", TrailingAllowed, 0, true, []string{}, 0},
		{"leading separator", ",a", TrailingAllowed, 0, true, []string{}, 0},
		{"too few", "a", TrailingAllowed, 2, false, nil, 0},
		{"enough", "a,b,c", TrailingLeft, 2, true, []string{"a", "b", "c"}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDictionary[Text]()
			letters := NewAtom[[]string]("letters")
			term := RepeatedWithSeparator(letterRule(d, "letter"), letters, Literal(","), tt.min, tt.policy)
			top := PutTerm(d, NewAtom[[]string]("top"), term,
				func(s *Scope) ([]string, bool) { return MustGet(s, letters), true })
			if err := d.CheckAllBound(); err != nil {
				t.Fatal(err)
			}
			st := NewParseState(NewStringReader(tt.input), NewLongestOnly[Text]())
			got, ok := ParseTopRule(st, top)
			if ok != tt.ok {
				t.Fatalf("got ok=%t, want %t", ok, tt.ok)
			}
			if st.Mark() != tt.cursor {
				t.Errorf("got cursor %d, want %d", st.Mark(), tt.cursor)
			}
			if ok && !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSeparatorHelpers(t *testing.T) {
	for _, tt := range []struct {
		name   string
		build  func(*NamedRule[Text, string], Atom[[]string]) Term[Text]
		cursor int
	}{
		{"with trailing", func(e *NamedRule[Text, string], l Atom[[]string]) Term[Text] {
			return RepeatedWithTrailingSeparator(e, l, Literal(","), 0)
		}, 4},
		{"without trailing", func(e *NamedRule[Text, string], l Atom[[]string]) Term[Text] {
			return RepeatedWithoutTrailingSeparator(e, l, Literal(","), 0)
		}, 3},
	} {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDictionary[Text]()
			letters := NewAtom[[]string]("letters")
			top := PutTerm(d, NewAtom[[]string]("top"), tt.build(letterRule(d, "letter"), letters),
				func(s *Scope) ([]string, bool) { return MustGet(s, letters), true })
			if err := d.CheckAllBound(); err != nil {
				t.Fatal(err)
			}
			st := NewParseState(NewStringReader("a,b,"), NewLongestOnly[Text]())
			got, ok := ParseTopRule(st, top)
			if !ok || !slices.Equal(got, []string{"a", "b"}) || st.Mark() != tt.cursor {
				t.Errorf("got (%v, %t, %d), want ([a b], true, %d)", got, ok, st.Mark(), tt.cursor)
			}
		})
	}
}

func TestLookahead(t *testing.T) {
	tests := []struct {
		name string
		term Term[Text]
		ok   bool
	}{
		{"positive match", PositiveLookahead(Literal("ab")), true},
		{"positive miss", PositiveLookahead(Literal("x")), false},
		{"negative match", NegativeLookahead(Literal("ab")), false},
		{"negative miss", NegativeLookahead(Literal("x")), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, cursor, errs := parseTop(t, "abc", tt.term)
			if ok != tt.ok {
				t.Errorf("got %t, want %t", ok, tt.ok)
			}
			if cursor != 0 {
				t.Errorf("lookahead must not consume input, cursor %d", cursor)
			}
			if len(errs.Entries()) != 0 {
				t.Errorf("lookahead must not record failures, got %v", errs.Entries())
			}
		})
	}
}

func TestLookaheadKeepsBindings(t *testing.T) {
	d := NewDictionary[Text]()
	wordAtom := NewAtom[string]("word")
	PutRule(d, wordAtom, GreedyPredicate(1, 0, unicode.IsLetter, NewDelayedError("expected word")))
	top := PutTerm(d, NewAtom[string]("top"),
		PositiveLookahead(Named(d, wordAtom)),
		func(s *Scope) (string, bool) { return Get(s, wordAtom) },
	)
	if err := d.CheckAllBound(); err != nil {
		t.Fatal(err)
	}
	st := NewParseState(NewStringReader("abc"), NewLongestOnly[Text]())
	got, ok := ParseTopRule(st, top)
	if !ok {
		t.Fatal("expected the value found by the lookahead to stay bound")
	}
	if got != "abc" {
		t.Errorf("got %q, want abc", got)
	}
	if st.Mark() != 0 {
		t.Errorf("got cursor %d, want 0", st.Mark())
	}
}

func TestReferenceWithAlias(t *testing.T) {
	d := NewDictionary[Text]()
	letter := NewAtom[string]("letter")
	first := NewAtom[string]("first")
	second := NewAtom[string]("second")
	PutRule(d, letter, GreedyPredicate(1, 1, unicode.IsLetter, NewDelayedError("expected letter")))
	top := PutTerm(d, NewAtom[string]("top"),
		Sequence(NamedWithAlias(d, letter, first), NamedWithAlias(d, letter, second)),
		func(s *Scope) (string, bool) { return MustGet(s, first) + MustGet(s, second), true },
	)
	g, err := NewGrammar(d, top)
	if err != nil {
		t.Fatal(err)
	}
	got, err := g.Parse("xy")
	if err != nil {
		t.Fatal(err)
	}
	if got != "xy" {
		t.Errorf("got %q, want xy", got)
	}
}

func TestFailedTermLeavesScope(t *testing.T) {
	flag := NewAtom[bool]("flag")
	d := NewDictionary[Text]()
	letter := letterRule(d, "letter")
	letters := NewAtom[[]string]("letters")
	if err := d.CheckAllBound(); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name  string
		input string
		term  Term[Text]
	}{
		{"sequence", "x", Sequence(Marker[Text](flag, true), Literal("-"))},
		{"nested sequence", "x", Sequence(Sequence(Marker[Text](flag, true)), Literal("-"))},
		{"cut sequence", "x", Sequence(Cut[Text](), Marker[Text](flag, true), Literal("-"))},
		{"forbidden trailing separator", "a,", RepeatedWithSeparator(letter, letters,
			Sequence(Marker[Text](flag, true), Literal(",")), 0, TrailingForbidden)},
		{"too few separated", "a,b", RepeatedWithSeparator(letter, letters,
			Sequence(Marker[Text](flag, true), Literal(",")), 3, TrailingAllowed)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := NewParseState(NewStringReader(tt.input), NewLongestOnly[Text]())
			scope := st.Scope()
			if tt.term.Parse(st, scope, Unbound) {
				t.Fatal("expected the term to fail")
			}
			if got := scope.String(); got != "" {
				t.Errorf("failed term left bindings: %q", got)
			}
			if _, ok := Get(scope, flag); ok {
				t.Error("flag should not be bound")
			}
			if st.Mark() != 0 {
				t.Errorf("got cursor %d, want 0", st.Mark())
			}
		})
	}
}

func TestOptionalDiscardsFailedBindings(t *testing.T) {
	d := NewDictionary[Text]()
	digits := NewAtom[string]("digits")
	negative := NewAtom[bool]("negative")
	PutRule(d, digits, GreedyPredicate(1, 0, unicode.IsDigit, NewDelayedError("expected digit")))
	top := PutTerm(d, NewAtom[string]("top"),
		Sequence(Optional(Sequence(Marker[Text](negative, true), Literal("-"))), Named(d, digits), EndOfInput()),
		func(s *Scope) (string, bool) {
			n := MustGet(s, digits)
			if GetOrDefault(s, negative, false) {
				return "-" + n, true
			}
			return n, true
		})
	if err := d.CheckAllBound(); err != nil {
		t.Fatal(err)
	}
	for _, tt := range []struct{ input, want string }{
		{"5", "5"},
		{"-5", "-5"},
	} {
		t.Run(tt.input, func(t *testing.T) {
			st := NewParseState(NewStringReader(tt.input), NewLongestOnly[Text]())
			got, ok := ParseTopRule(st, top)
			if !ok || got != tt.want {
				t.Errorf("got (%q, %t), want (%q, true)", got, ok, tt.want)
			}
		})
	}
}

func TestSeparatorBindingsFollowPolicy(t *testing.T) {
	tests := []struct {
		policy TrailingPolicy
		input  string
		bound  bool
	}{
		{TrailingLeft, "a,", false},
		{TrailingAllowed, "a,", true},
		{TrailingLeft, "a,b", true},
	}
	for _, tt := range tests {
		t.Run(tt.policy.String()+" "+tt.input, func(t *testing.T) {
			d := NewDictionary[Text]()
			seen := NewAtom[bool]("seen")
			letters := NewAtom[[]string]("letters")
			separator := Sequence(Marker[Text](seen, true), Literal(","))
			top := PutTerm(d, NewAtom[bool]("top"),
				RepeatedWithSeparator(letterRule(d, "letter"), letters, separator, 0, tt.policy),
				func(s *Scope) (bool, bool) { return GetOrDefault(s, seen, false), true })
			if err := d.CheckAllBound(); err != nil {
				t.Fatal(err)
			}
			st := NewParseState(NewStringReader(tt.input), NewLongestOnly[Text]())
			got, ok := ParseTopRule(st, top)
			if !ok {
				t.Fatal("expected a match")
			}
			if got != tt.bound {
				t.Errorf("separator binding kept = %t, want %t", got, tt.bound)
			}
		})
	}
}
