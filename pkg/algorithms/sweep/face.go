package sweep

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/kerf/pkg/algorithms/reverse"
	"github.com/chazu/kerf/pkg/algorithms/transform"
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/objects"
	"github.com/chazu/kerf/pkg/storage"
)

// Face sweeps a planar face into a closed shell: the face itself as bottom,
// its translated copy as top and one side face per boundary half-edge. All
// faces of the shell point outwards.
func Face(objs *objects.Objects, cache *Cache, h storage.Handle[objects.Face], path v3.Vec) storage.Handle[objects.Shell] {
	face := h.Get()
	plane, ok := face.Surface().Get().Geometry().Plane()
	if !ok {
		panic(fmt.Sprintf("sweep: face %s is not planar", h))
	}
	// Sweeping against the normal turns the face's front side inwards.
	negative := plane.U.Cross(plane.V).Dot(path) < 0

	bottom := h
	if !negative {
		bottom = reverse.Face(objs, h)
	}

	var sides []storage.Handle[objects.Face]
	for _, cycle := range face.AllCycles() {
		for _, edge := range cycle.Get().HalfEdges() {
			if negative {
				edge = reverse.HalfEdge(objs, edge)
			}
			sides = append(sides, HalfEdge(objs, cache, edge, face.Color(), path))
		}
	}

	top := topFace(objs, cache, h, path)
	if negative {
		top = reverse.Face(objs, top)
	}

	faces := append([]storage.Handle[objects.Face]{bottom, top}, sides...)
	return objs.Shells.Add(objects.NewShell(faces))
}

// topFace translates the face, reusing the global objects the side faces
// already created for its boundary.
func topFace(objs *objects.Objects, cache *Cache, h storage.Handle[objects.Face], path v3.Vec) storage.Handle[objects.Face] {
	x := transform.New(objs, geom.Translation(path))
	for _, swept := range cache.globalVertices {
		transform.Seed(x, swept.Vertices[0], swept.Vertices[1])
	}
	for _, cycle := range h.Get().AllCycles() {
		for _, edge := range cycle.Get().HalfEdges() {
			global := edge.Get().GlobalForm()
			if moved, ok := cache.globalEdges[global.ID()]; ok {
				transform.Seed(x, global, moved)
				transform.Seed(x, global.Get().Curve(), moved.Get().Curve())
			}
		}
	}
	return x.Face(h)
}

// Sketch sweeps every face of a sketch into a shell and collects the shells
// into a solid.
func Sketch(objs *objects.Objects, h storage.Handle[objects.Sketch], path v3.Vec) storage.Handle[objects.Solid] {
	cache := NewCache()
	var shells []storage.Handle[objects.Shell]
	for _, face := range h.Get().Faces() {
		shells = append(shells, Face(objs, cache, face, path))
	}
	return objs.Solids.Add(objects.NewSolid(shells))
}
