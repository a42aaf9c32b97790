// Package grammar compiles EBNF grammars into packrat parsers producing
// concrete syntax trees.
//
// Grammars use the notation of golang.org/x/exp/ebnf. Productions whose
// name starts with a lower-case letter are lexical: their parts are
// matched back to back. Between the tokens of the other productions
// whitespace is skipped. Alternatives are tried in order and the first
// match wins, so a grammar must list longer alternatives first where
// they share a prefix.
package grammar

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/exp/ebnf"
)

// Load reads and parses an EBNF grammar file.
func Load(filename string) (ebnf.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()

	return Parse(filename, f)
}

// Parse parses an EBNF grammar read from r. name is used in error
// positions.
func Parse(name string, r io.Reader) (ebnf.Grammar, error) {
	g, err := ebnf.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return g, nil
}
