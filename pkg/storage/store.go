package storage

import (
	"fmt"
	"iter"
	"sync"
)

// Store is an append-only arena of objects of one kind.
//
// Objects are never removed or modified after insertion. A slot can be
// reserved before its value is known, which lets callers build graphs where
// objects refer to each other before all of them exist.
type Store[T any] struct {
	mu    sync.RWMutex
	slots []*slot[T]
}

// NewStore creates an empty store.
func NewStore[T any]() *Store[T] {
	return &Store[T]{}
}

// Reserve allocates an empty slot and returns a handle to it. The slot must
// be filled with Insert before the handle is dereferenced.
func (s *Store[T]) Reserve() Handle[T] {
	sl := &slot[T]{id: newObjectID(), owner: s}

	s.mu.Lock()
	s.slots = append(s.slots, sl)
	s.mu.Unlock()

	return Handle[T]{s: sl}
}

// Insert fills a previously reserved slot. It panics if the handle belongs
// to another store or if the slot is already filled.
func (s *Store[T]) Insert(h Handle[T], value T) {
	if h.s == nil || h.s.owner != s {
		panic(fmt.Sprintf("storage: handle %d does not belong to this store", h.ID()))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if h.s.filled {
		panic(fmt.Sprintf("storage: object %d inserted twice", h.s.id))
	}
	h.s.value = value
	h.s.filled = true
}

// Add reserves a slot and fills it in one step.
func (s *Store[T]) Add(value T) Handle[T] {
	h := s.Reserve()
	s.Insert(h, value)
	return h
}

// Len returns the number of slots, filled or not.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.slots)
}

// Handles iterates over all filled slots in insertion order.
func (s *Store[T]) Handles() iter.Seq[Handle[T]] {
	return func(yield func(Handle[T]) bool) {
		s.mu.RLock()
		slots := make([]*slot[T], 0, len(s.slots))
		for _, sl := range s.slots {
			if sl.filled {
				slots = append(slots, sl)
			}
		}
		s.mu.RUnlock()

		for _, sl := range slots {
			if !yield(Handle[T]{s: sl}) {
				return
			}
		}
	}
}

// Unfilled returns the handles of all slots that were reserved but never
// filled.
func (s *Store[T]) Unfilled() []Handle[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Handle[T]
	for _, sl := range s.slots {
		if !sl.filled {
			out = append(out, Handle[T]{s: sl})
		}
	}
	return out
}
