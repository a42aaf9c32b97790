package peg

import (
	"fmt"
	"sort"
)

type dictionaryEntry interface {
	ruleName() string
	Bound() bool
}

// Dictionary registers the named rules of a grammar. Rules may be
// referenced through Forward before they are defined, which is how
// mutually recursive rules are written.
//
// Once CheckAllBound succeeds the dictionary is frozen and may be shared
// by any number of concurrent parses.
type Dictionary[S Input] struct {
	entries map[AtomID]dictionaryEntry
	order   []AtomID
	frozen  bool
}

func NewDictionary[S Input]() *Dictionary[S] {
	return &Dictionary[S]{entries: make(map[AtomID]dictionaryEntry)}
}

func (d *Dictionary[S]) Len() int { return len(d.order) }

// Frozen reports whether CheckAllBound has succeeded.
func (d *Dictionary[S]) Frozen() bool { return d.frozen }

// Names returns the atom names in registration order.
func (d *Dictionary[S]) Names() []string {
	names := make([]string, len(d.order))
	for i, id := range d.order {
		names[i] = d.entries[id].ruleName()
	}
	return names
}

// CheckAllBound reports every forward reference that never received a
// rule. On success the dictionary is frozen.
func (d *Dictionary[S]) CheckAllBound() error {
	var unbound []string
	for _, id := range d.order {
		if e := d.entries[id]; !e.Bound() {
			unbound = append(unbound, e.ruleName())
		}
	}
	if len(unbound) > 0 {
		sort.Strings(unbound)
		return &UnboundError{Names: unbound}
	}
	d.frozen = true
	return nil
}

func entryFor[S Input, T any](d *Dictionary[S], name Atom[T]) *NamedRule[S, T] {
	if !name.Valid() {
		panic("peg: atom was not created by NewAtom")
	}
	if e, ok := d.entries[name.id]; ok {
		return e.(*NamedRule[S, T])
	}
	if d.frozen {
		panic(fmt.Sprintf("peg: dictionary is frozen, cannot add %s", name.name))
	}
	n := &NamedRule[S, T]{name: name}
	d.entries[name.id] = n
	d.order = append(d.order, name.id)
	return n
}

// PutRule binds rule to name. Binding a name twice panics.
func PutRule[S Input, T any](d *Dictionary[S], name Atom[T], rule Rule[S, T]) *NamedRule[S, T] {
	n := entryFor(d, name)
	if n.rule != nil {
		panic(fmt.Sprintf("peg: rule %s is already defined", name.name))
	}
	n.rule = rule
	return n
}

// PutTerm binds a rule made of term and a scope-reading action.
func PutTerm[S Input, T any](d *Dictionary[S], name Atom[T], term Term[S], action SimpleAction[T]) *NamedRule[S, T] {
	return PutRule(d, name, FromSimpleTerm[S](term, action))
}

// PutComplex binds a rule made of term and an action reading the whole
// state.
func PutComplex[S Input, T any](d *Dictionary[S], name Atom[T], term Term[S], action Action[S, T]) *NamedRule[S, T] {
	return PutRule(d, name, FromTerm(term, action))
}

// Forward returns the named rule for name, creating an unbound entry if
// none exists yet.
func Forward[S Input, T any](d *Dictionary[S], name Atom[T]) *NamedRule[S, T] {
	return entryFor(d, name)
}

// Named returns a term that parses the rule for name and binds its value
// under name.
func Named[S Input, T any](d *Dictionary[S], name Atom[T]) Term[S] {
	return Reference(Forward(d, name), name)
}

// NamedWithAlias returns a term that parses the rule for name and binds
// its value under alias.
func NamedWithAlias[S Input, T any](d *Dictionary[S], name, alias Atom[T]) Term[S] {
	return Reference(Forward(d, name), alias)
}
