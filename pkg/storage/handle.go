// Package storage provides the append-only object arenas that own every
// entity of a shape, and the identity-keyed handles used to refer to them.
package storage

import (
	"cmp"
	"fmt"
	"sync/atomic"
)

// ObjectID identifies a slot across all stores. IDs are never reused.
type ObjectID uint64

var nextID atomic.Uint64

func newObjectID() ObjectID {
	return ObjectID(nextID.Add(1))
}

// slot is the storage cell a handle points at. A reserved slot stays empty
// until Store.Insert fills it.
type slot[T any] struct {
	id     ObjectID
	owner  *Store[T]
	value  T
	filled bool
}

// Handle is a shared reference to an object in a Store.
//
// Handles compare equal if and only if they point at the same slot, so they
// can be used directly as map keys. The zero Handle refers to nothing.
type Handle[T any] struct {
	s *slot[T]
}

// ID returns the identity of the slot this handle refers to.
func (h Handle[T]) ID() ObjectID {
	if h.s == nil {
		return 0
	}
	return h.s.id
}

// IsZero reports whether the handle refers to no slot at all.
func (h Handle[T]) IsZero() bool {
	return h.s == nil
}

// Get returns a copy of the referenced object. It panics if the handle is
// zero or if its slot was reserved but never filled.
func (h Handle[T]) Get() T {
	if h.s == nil {
		panic("storage: dereferencing zero handle")
	}
	if !h.s.filled {
		panic(fmt.Sprintf("storage: object %d was reserved but never inserted", h.s.id))
	}
	return h.s.value
}

// Filled reports whether the slot behind the handle holds a value.
func (h Handle[T]) Filled() bool {
	return h.s != nil && h.s.filled
}

// Compare orders handles by slot identity.
func (h Handle[T]) Compare(other Handle[T]) int {
	return cmp.Compare(h.ID(), other.ID())
}

func (h Handle[T]) String() string {
	var zero T
	return fmt.Sprintf("Handle[%T](%d)", zero, h.ID())
}
