// Package peg is a memoizing backtracking parser engine for parsing
// expression grammars.
//
// # Overview
//
// A grammar is a Dictionary of named rules. Each rule is a Term, the
// grammar expression, plus an action turning the values the term bound
// into a typed result:
//
//	d := peg.NewDictionary[peg.Text]()
//	digits := peg.NewAtom[string]("digits")
//	number := peg.NewAtom[int]("number")
//
//	peg.PutRule(d, digits, peg.GreedyPredicate(1, 0, unicode.IsDigit, peg.NewDelayedError("expected digit")))
//	top := peg.PutTerm(d, number, peg.Sequence(peg.Named(d, digits), peg.EndOfInput()),
//	    func(s *peg.Scope) (int, bool) {
//	        n, err := strconv.Atoi(peg.MustGet(s, digits))
//	        return n, err == nil
//	    })
//
//	g, err := peg.NewGrammar(d, top)
//	n, err := g.Parse("42")
//
// # Bindings
//
// Terms bind values into a Scope under Atoms. An Atom is compared by
// identity: the producer and the consumer of a binding must use the same
// Atom value. Every rule runs in its own frame; an Alternative gives each
// branch a split frame that is merged into its parent only if the branch
// wins. Lookaheads run silently and restore the input, but the bindings
// they make stay visible to the terms that follow.
//
// # Memoization
//
// CachedParseState records the result of every named rule at every
// position, so each rule runs at most once per position within a parse.
// Left-recursive rules are not supported and recurse without bound.
//
// # Errors
//
// Failures are values, not errors. Terms record a reason at the cursor
// they failed at and LongestOnly keeps only the failures recorded at the
// furthest cursor. Grammar.Parse turns those into a *SyntaxError.
// Malformed grammars (unbound rules, unbalanced scopes) panic.
package peg
