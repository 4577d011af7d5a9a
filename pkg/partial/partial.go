// Package partial implements staged construction of objects.
//
// Every object kind has a partial counterpart whose fields are optional and
// whose dependencies are themselves partials. Partials can be shared between
// several dependents (both vertices of a half-edge point at the same *Curve),
// filled in any order, merged with MergeWith, and finally turned into full
// objects by Build.
//
// Build resolves dependencies depth-first, applies defaults, and inserts the
// result into the store. The result is remembered, so building a shared
// partial twice yields the same handle. A partial created from a full object
// (CurveFrom, HalfEdgeFrom, ...) builds back into that object. Partials must
// not be changed after they have been built.
//
// A required field that is still missing after defaulting is a programming
// error; Build panics in that case.
package partial

import (
	"fmt"

	"github.com/chazu/kerf/pkg/storage"
)

// memo remembers the handle a partial was built into.
type memo[T any] struct {
	built storage.Handle[T]
}

// Built returns the handle the partial was built into, or the zero handle.
func (m *memo[T]) Built() storage.Handle[T] {
	return m.built
}

// build reserves a slot before computing the object so that a reference
// cycle back to this partial finds a handle instead of recursing forever.
// If compute panics, the partial forgets the reserved slot, which stays
// unfilled.
func (m *memo[T]) build(store *storage.Store[T], compute func() T) storage.Handle[T] {
	if !m.built.IsZero() {
		return m.built
	}
	h := store.Reserve()
	m.built = h
	defer func() {
		if r := recover(); r != nil {
			m.built = storage.Handle[T]{}
			panic(r)
		}
	}()
	store.Insert(h, compute())
	return h
}

func missing(kind, field string) string {
	return fmt.Sprintf("partial: cannot build %s: %s is missing", kind, field)
}

// first returns a if it is set, b otherwise.
func first[T any](a, b *T) *T {
	if a != nil {
		return a
	}
	return b
}

func mergeMemo[T any](a, b memo[T]) memo[T] {
	if !a.built.IsZero() {
		return a
	}
	return b
}
