package storage

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct{ x, y float64 }

func TestStoreAddAndGet(t *testing.T) {
	s := NewStore[point]()

	a := s.Add(point{1, 2})
	b := s.Add(point{1, 2})

	assert.Equal(t, point{1, 2}, a.Get())
	assert.Equal(t, point{1, 2}, b.Get())
	assert.NotEqual(t, a, b, "handles to equal values must still differ")
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, 2, s.Len())
}

func TestStoreReserveThenInsert(t *testing.T) {
	s := NewStore[point]()

	h := s.Reserve()
	require.False(t, h.Filled())
	require.Len(t, s.Unfilled(), 1)

	s.Insert(h, point{3, 4})

	assert.True(t, h.Filled())
	assert.Equal(t, point{3, 4}, h.Get())
	assert.Empty(t, s.Unfilled())
}

func TestHandleIdentity(t *testing.T) {
	s := NewStore[point]()
	a := s.Add(point{})
	b := s.Add(point{})
	aCopy := a

	seen := map[Handle[point]]bool{a: true}

	assert.True(t, seen[aCopy])
	assert.False(t, seen[b])
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(aCopy))
}

func TestHandlesIteratesFilledSlotsInOrder(t *testing.T) {
	s := NewStore[point]()
	a := s.Add(point{0, 0})
	_ = s.Reserve()
	c := s.Add(point{2, 2})

	got := slices.Collect(s.Handles())

	assert.Equal(t, []Handle[point]{a, c}, got)
}

func TestPreconditionPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"zero handle", func() {
			var h Handle[point]
			h.Get()
		}},
		{"reserved never filled", func() {
			s := NewStore[point]()
			s.Reserve().Get()
		}},
		{"double insert", func() {
			s := NewStore[point]()
			h := s.Add(point{})
			s.Insert(h, point{})
		}},
		{"foreign handle", func() {
			a := NewStore[point]()
			b := NewStore[point]()
			b.Insert(a.Reserve(), point{})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Panics(t, tt.fn)
		})
	}
}

func TestZeroHandle(t *testing.T) {
	var h Handle[point]
	assert.True(t, h.IsZero())
	assert.False(t, h.Filled())
	assert.Equal(t, ObjectID(0), h.ID())
}
