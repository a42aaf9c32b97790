package peg

import (
	"fmt"
	"sync/atomic"
)

// AtomID is the interned handle of an Atom. Zero is never assigned.
type AtomID uint32

var lastAtomID atomic.Uint32

// Atom is a typed name used as a key into a Scope or a Dictionary.
//
// Two atoms are equal only if they were returned by the same NewAtom
// call; atoms created with the same name are distinct keys. The type
// parameter records the type of the values bound under the atom.
type Atom[T any] struct {
	id   AtomID
	name string
}

// NewAtom registers a fresh atom. It is safe to call concurrently.
func NewAtom[T any](name string) Atom[T] {
	return Atom[T]{id: AtomID(lastAtomID.Add(1)), name: name}
}

// ID returns the interned handle.
func (a Atom[T]) ID() AtomID { return a.id }

// Name returns the name the atom was created with.
func (a Atom[T]) Name() string { return a.name }

// Valid reports whether a was created by NewAtom.
func (a Atom[T]) Valid() bool { return a.id != 0 }

func (a Atom[T]) String() string {
	return fmt.Sprintf("<%s#%d>", a.name, a.id)
}
