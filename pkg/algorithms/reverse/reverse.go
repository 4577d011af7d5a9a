// Package reverse flips the orientation of half-edges, cycles and faces.
// Every function inserts new objects; the inputs stay untouched.
package reverse

import (
	"slices"

	"github.com/samber/lo"

	"github.com/chazu/kerf/pkg/objects"
	"github.com/chazu/kerf/pkg/storage"
)

// HalfEdge swaps back and front vertex. Curve and global form are kept.
func HalfEdge(objs *objects.Objects, h storage.Handle[objects.HalfEdge]) storage.Handle[objects.HalfEdge] {
	edge := h.Get()
	vertices := edge.Vertices()
	return objs.HalfEdges.Add(objects.NewHalfEdge(
		[2]storage.Handle[objects.Vertex]{vertices[1], vertices[0]},
		edge.GlobalForm(),
	))
}

// Cycle reverses every half-edge and their order.
func Cycle(objs *objects.Objects, h storage.Handle[objects.Cycle]) storage.Handle[objects.Cycle] {
	edges := lo.Map(h.Get().HalfEdges(), func(e storage.Handle[objects.HalfEdge], _ int) storage.Handle[objects.HalfEdge] {
		return HalfEdge(objs, e)
	})
	slices.Reverse(edges)
	return objs.Cycles.Add(objects.NewCycle(edges))
}

// Face reverses the exterior and all interior cycles. The surface and color
// are kept.
func Face(objs *objects.Objects, h storage.Handle[objects.Face]) storage.Handle[objects.Face] {
	face := h.Get()
	interiors := lo.Map(face.Interiors(), func(c storage.Handle[objects.Cycle], _ int) storage.Handle[objects.Cycle] {
		return Cycle(objs, c)
	})
	return objs.Faces.Add(objects.NewFace(face.Surface(), Cycle(objs, face.Exterior()), interiors, face.Color()))
}
