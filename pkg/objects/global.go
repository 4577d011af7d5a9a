package objects

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/kerf/pkg/storage"
)

// GlobalVertex is the canonical form of a vertex: a position in model space.
type GlobalVertex struct {
	position v3.Vec
}

// NewGlobalVertex creates a global vertex at the given position.
func NewGlobalVertex(position v3.Vec) GlobalVertex {
	return GlobalVertex{position: position}
}

// Position returns the model space position of the vertex.
func (v GlobalVertex) Position() v3.Vec { return v.position }

// GlobalCurve marks the canonical existence of a curve. It has no data; its
// geometry is defined by the local curves that refer to it.
type GlobalCurve struct{}

// GlobalEdge is the canonical form of an edge: a global curve bounded by two
// global vertices, kept in normalized order.
type GlobalEdge struct {
	curve    storage.Handle[GlobalCurve]
	vertices VerticesInNormalizedOrder
}

// NewGlobalEdge creates a global edge. The order of vertices does not matter.
func NewGlobalEdge(curve storage.Handle[GlobalCurve], vertices [2]storage.Handle[GlobalVertex]) GlobalEdge {
	if curve.IsZero() || vertices[0].IsZero() || vertices[1].IsZero() {
		panic("objects: global edge needs a curve and two vertices")
	}
	normalized, _ := NewVerticesInNormalizedOrder(vertices)
	return GlobalEdge{curve: curve, vertices: normalized}
}

// Curve returns the global curve the edge lies on.
func (e GlobalEdge) Curve() storage.Handle[GlobalCurve] { return e.curve }

// Vertices returns the bounding vertices in normalized order.
func (e GlobalEdge) Vertices() VerticesInNormalizedOrder { return e.vertices }

// VerticesInNormalizedOrder is an unordered pair of global vertices, stored
// sorted by handle identity so that equal pairs compare equal regardless of
// the direction they were discovered in.
type VerticesInNormalizedOrder struct {
	vertices [2]storage.Handle[GlobalVertex]
}

// NewVerticesInNormalizedOrder normalizes a pair. The second result reports
// whether the given order had to be swapped.
func NewVerticesInNormalizedOrder(vertices [2]storage.Handle[GlobalVertex]) (VerticesInNormalizedOrder, bool) {
	a, b := vertices[0], vertices[1]
	if b.Compare(a) < 0 {
		return VerticesInNormalizedOrder{vertices: [2]storage.Handle[GlobalVertex]{b, a}}, true
	}
	return VerticesInNormalizedOrder{vertices: vertices}, false
}

// AccessInNormalizedOrder returns the vertices sorted by identity.
func (v VerticesInNormalizedOrder) AccessInNormalizedOrder() [2]storage.Handle[GlobalVertex] {
	return v.vertices
}

// AccessInGivenOrder undoes normalization given the flag returned by
// NewVerticesInNormalizedOrder.
func (v VerticesInNormalizedOrder) AccessInGivenOrder(wasReversed bool) [2]storage.Handle[GlobalVertex] {
	if wasReversed {
		return [2]storage.Handle[GlobalVertex]{v.vertices[1], v.vertices[0]}
	}
	return v.vertices
}

func (v VerticesInNormalizedOrder) String() string {
	return fmt.Sprintf("[%d %d]", v.vertices[0].ID(), v.vertices[1].ID())
}
