package sweep

import (
	"fmt"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/objects"
	"github.com/chazu/kerf/pkg/storage"
)

// GlobalVertex sweeps a global vertex into a global edge on a new global
// curve.
func GlobalVertex(objs *objects.Objects, cache *Cache, h storage.Handle[objects.GlobalVertex], path v3.Vec) SweptGlobalVertex {
	if swept, ok := cache.globalVertices[h.ID()]; ok {
		return swept
	}

	moved := objs.GlobalVertices.Add(objects.NewGlobalVertex(h.Get().Position().Add(path)))
	vertices := [2]storage.Handle[objects.GlobalVertex]{h, moved}
	swept := SweptGlobalVertex{
		Edge:     objs.GlobalEdges.Add(objects.NewGlobalEdge(objs.GlobalCurves.Add(objects.GlobalCurve{}), vertices)),
		Vertices: vertices,
	}
	cache.globalVertices[h.ID()] = swept
	return swept
}

// Vertex sweeps a vertex into a half-edge on surface. The surface must be
// the one swept out by the vertex's curve along path, so the vertex's
// position on its curve is the u coordinate of the new edge.
func Vertex(objs *objects.Objects, cache *Cache, h storage.Handle[objects.Vertex], surface storage.Handle[objects.Surface], path v3.Vec) storage.Handle[objects.HalfEdge] {
	if v := surface.Get().Geometry().V; v != path {
		panic(fmt.Sprintf("sweep: path %v does not match surface %s, which was swept along %v", path, surface, v))
	}
	vertex := h.Get()
	if vertex.SurfaceForm().Get().Surface() != surface {
		panic(fmt.Sprintf("sweep: vertex %s is not on surface %s", h, surface))
	}

	global := GlobalVertex(objs, cache, vertex.GlobalForm(), path)

	t := vertex.Position()
	points := [2]v2.Vec{{X: t, Y: 0}, {X: t, Y: 1}}
	curve := objs.Curves.Add(objects.NewCurve(
		surface,
		geom.SurfacePathFromLine(geom.Line2FromPoints(points[0], points[1])),
		global.Edge.Get().Curve(),
	))

	surfaceForms := [2]storage.Handle[objects.SurfaceVertex]{
		vertex.SurfaceForm(),
		objs.SurfaceVertices.Add(objects.NewSurfaceVertex(points[1], surface, global.Vertices[1])),
	}
	var vertices [2]storage.Handle[objects.Vertex]
	for i, sv := range surfaceForms {
		vertices[i] = objs.Vertices.Add(objects.NewVertex(sv.Get().Position().Y, curve, sv))
	}
	return objs.HalfEdges.Add(objects.NewHalfEdge(vertices, global.Edge))
}
