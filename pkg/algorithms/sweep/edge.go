package sweep

import (
	"fmt"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/kerf/pkg/algorithms/reverse"
	"github.com/chazu/kerf/pkg/algorithms/transform"
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/objects"
	"github.com/chazu/kerf/pkg/storage"
)

// Curve sweeps a curve into a surface. The curve, taken to model space,
// becomes the u path of the surface and path its v direction. Curves on
// curved surfaces can't be swept.
func Curve(objs *objects.Objects, h storage.Handle[objects.Curve], path v3.Vec) storage.Handle[objects.Surface] {
	curve := h.Get()
	u, ok := curve.Surface().Get().Geometry().GlobalPath(curve.Path())
	if !ok {
		panic(fmt.Sprintf("sweep: curve %s lies on a curved surface", h))
	}
	return objs.Surfaces.Add(objects.NewSurface(geom.SurfaceGeometry{U: u, V: path}))
}

// HalfEdge sweeps a half-edge into a face with four edges: the original
// edge at the bottom, one edge per swept vertex and the moved edge on top.
func HalfEdge(objs *objects.Objects, cache *Cache, h storage.Handle[objects.HalfEdge], color objects.Color, path v3.Vec) storage.Handle[objects.Face] {
	edge := h.Get()
	surface := Curve(objs, edge.Curve(), path)

	bottom := bottomEdge(objs, edge, surface)
	bottomVertices := bottom.Get().Vertices()

	var sides [2]storage.Handle[objects.HalfEdge]
	for i, v := range bottomVertices {
		sides[i] = Vertex(objs, cache, v, surface, path)
	}

	top := topEdge(objs, cache, bottom.Get(), sides, surface, path)

	edges := []storage.Handle[objects.HalfEdge]{bottom, sides[1], top, sides[0]}
	for i := range edges {
		j := (i + 1) % len(edges)
		// Surface forms, not global forms: sweeping a circle puts two
		// different surface vertices on the same global vertex.
		prevFront := edges[i].Get().SurfaceVertices()[1]
		nextBack := edges[j].Get().SurfaceVertices()[0]
		if prevFront != nextBack {
			edges[j] = reverse.HalfEdge(objs, edges[j])
		}
	}

	cycle := objs.Cycles.Add(objects.NewCycle(edges))
	return objs.Faces.Add(objects.NewFace(surface, cycle, nil, color))
}

// bottomEdge redefines edge on the swept surface, where it runs along the
// u axis at v = 0.
func bottomEdge(objs *objects.Objects, edge objects.HalfEdge, surface storage.Handle[objects.Surface]) storage.Handle[objects.HalfEdge] {
	curve := edge.Curve().Get()
	vertices := edge.Vertices()
	return onSurface(objs, surface, vertices, 0, curve.GlobalForm(), edge.GlobalForm(), func(i int, point v2.Vec) storage.Handle[objects.SurfaceVertex] {
		return objs.SurfaceVertices.Add(objects.NewSurfaceVertex(point, surface, vertices[i].Get().GlobalForm()))
	})
}

// topEdge creates the moved copy of bottom at v = 1, connecting the ends of
// the side edges.
func topEdge(objs *objects.Objects, cache *Cache, bottom objects.HalfEdge, sides [2]storage.Handle[objects.HalfEdge], surface storage.Handle[objects.Surface], path v3.Vec) storage.Handle[objects.HalfEdge] {
	var surfaceForms [2]storage.Handle[objects.SurfaceVertex]
	var globalVertices [2]storage.Handle[objects.GlobalVertex]
	for i, side := range sides {
		surfaceForms[i] = side.Get().SurfaceVertices()[1]
		globalVertices[i] = surfaceForms[i].Get().GlobalForm()
	}

	bottomGlobal := bottom.GlobalForm()
	globalCurve := translatedGlobalCurve(objs, cache, bottomGlobal.Get().Curve(), path)
	globalEdge, ok := cache.globalEdges[bottomGlobal.ID()]
	if !ok {
		globalEdge = objs.GlobalEdges.Add(objects.NewGlobalEdge(globalCurve, globalVertices))
		cache.globalEdges[bottomGlobal.ID()] = globalEdge
	}

	return onSurface(objs, surface, bottom.Vertices(), 1, globalCurve, globalEdge, func(i int, _ v2.Vec) storage.Handle[objects.SurfaceVertex] {
		return surfaceForms[i]
	})
}

// onSurface creates a half-edge along the u axis of surface at height v,
// whose vertices keep the curve coordinates of vertices. A line is right
// even for circles: swept, they become the u axis of the surface.
func onSurface(
	objs *objects.Objects,
	surface storage.Handle[objects.Surface],
	vertices [2]storage.Handle[objects.Vertex],
	v float64,
	globalCurve storage.Handle[objects.GlobalCurve],
	globalEdge storage.Handle[objects.GlobalEdge],
	surfaceForm func(i int, point v2.Vec) storage.Handle[objects.SurfaceVertex],
) storage.Handle[objects.HalfEdge] {
	var points [2]geom.LinePoint2
	for i, vertex := range vertices {
		t := vertex.Get().Position()
		points[i] = geom.LinePoint2{T: t, Point: v2.Vec{X: t, Y: v}}
	}
	curve := objs.Curves.Add(objects.NewCurve(
		surface,
		geom.SurfacePathFromLine(geom.Line2FromPointsWithLineCoords(points[0], points[1])),
		globalCurve,
	))

	var out [2]storage.Handle[objects.Vertex]
	for i, p := range points {
		out[i] = objs.Vertices.Add(objects.NewVertex(p.T, curve, surfaceForm(i, p.Point)))
	}
	return objs.HalfEdges.Add(objects.NewHalfEdge(out, globalEdge))
}

func translatedGlobalCurve(objs *objects.Objects, cache *Cache, h storage.Handle[objects.GlobalCurve], path v3.Vec) storage.Handle[objects.GlobalCurve] {
	if moved, ok := cache.globalCurves[h.ID()]; ok {
		return moved
	}
	moved := transform.Translate(objs, h, path)
	cache.globalCurves[h.ID()] = moved
	return moved
}
