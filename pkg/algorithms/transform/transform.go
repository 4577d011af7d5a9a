// Package transform applies rigid transforms to objects.
//
// Transforming an object inserts a transformed copy of it and of everything
// it references. Objects shared within one call, like the global vertices of
// a cube, are transformed once, so the copy shares them the same way.
package transform

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/objects"
	"github.com/chazu/kerf/pkg/storage"
	"github.com/chazu/kerf/pkg/traverse"
)

// Transformer applies one transform. Its cache lives as long as the
// Transformer; use a new one per top-level call.
type Transformer struct {
	objs  *objects.Objects
	t     geom.Transform
	cache map[storage.ObjectID]any
}

// New creates a Transformer that inserts into objs.
func New(objs *objects.Objects, t geom.Transform) *Transformer {
	return &Transformer{objs: objs, t: t, cache: make(map[storage.ObjectID]any)}
}

// Apply transforms any object with a fresh Transformer.
func Apply[T traverse.Entity](objs *objects.Objects, h storage.Handle[T], t geom.Transform) storage.Handle[T] {
	return Object(New(objs, t), h)
}

// Translate moves an object by offset.
func Translate[T traverse.Entity](objs *objects.Objects, h storage.Handle[T], offset v3.Vec) storage.Handle[T] {
	return Apply(objs, h, geom.Translation(offset))
}

// Rotate rotates an object around the origin. The direction of axisAngle is
// the axis, its length the angle in radians.
func Rotate[T traverse.Entity](objs *objects.Objects, h storage.Handle[T], axisAngle v3.Vec) storage.Handle[T] {
	return Apply(objs, h, geom.Rotation(axisAngle))
}

// Object transforms a handle of any kind.
func Object[T traverse.Entity](x *Transformer, h storage.Handle[T]) storage.Handle[T] {
	var out any
	switch h := any(h).(type) {
	case storage.Handle[objects.GlobalVertex]:
		out = x.GlobalVertex(h)
	case storage.Handle[objects.GlobalCurve]:
		out = x.GlobalCurve(h)
	case storage.Handle[objects.GlobalEdge]:
		out = x.GlobalEdge(h)
	case storage.Handle[objects.Surface]:
		out = x.Surface(h)
	case storage.Handle[objects.Curve]:
		out = x.Curve(h)
	case storage.Handle[objects.SurfaceVertex]:
		out = x.SurfaceVertex(h)
	case storage.Handle[objects.Vertex]:
		out = x.Vertex(h)
	case storage.Handle[objects.HalfEdge]:
		out = x.HalfEdge(h)
	case storage.Handle[objects.Cycle]:
		out = x.Cycle(h)
	case storage.Handle[objects.Face]:
		out = x.Face(h)
	case storage.Handle[objects.Shell]:
		out = x.Shell(h)
	case storage.Handle[objects.Solid]:
		out = x.Solid(h)
	case storage.Handle[objects.Sketch]:
		out = x.Sketch(h)
	default:
		panic(fmt.Sprintf("transform: unexpected handle %T", h))
	}
	return out.(storage.Handle[T])
}

// Seed makes x use to as the transformed form of from. Callers that already
// created some transformed objects use it to keep sharing them.
func Seed[T traverse.Entity](x *Transformer, from, to storage.Handle[T]) {
	x.cache[from.ID()] = to
}

func cached[T any](x *Transformer, h storage.Handle[T], transform func(T) T, store *storage.Store[T]) storage.Handle[T] {
	if out, ok := x.cache[h.ID()]; ok {
		return out.(storage.Handle[T])
	}
	out := store.Add(transform(h.Get()))
	x.cache[h.ID()] = out
	return out
}

func (x *Transformer) GlobalVertex(h storage.Handle[objects.GlobalVertex]) storage.Handle[objects.GlobalVertex] {
	return cached(x, h, func(v objects.GlobalVertex) objects.GlobalVertex {
		return objects.NewGlobalVertex(x.t.Point(v.Position()))
	}, x.objs.GlobalVertices)
}

func (x *Transformer) GlobalCurve(h storage.Handle[objects.GlobalCurve]) storage.Handle[objects.GlobalCurve] {
	return cached(x, h, func(objects.GlobalCurve) objects.GlobalCurve {
		return objects.GlobalCurve{}
	}, x.objs.GlobalCurves)
}

func (x *Transformer) GlobalEdge(h storage.Handle[objects.GlobalEdge]) storage.Handle[objects.GlobalEdge] {
	return cached(x, h, func(e objects.GlobalEdge) objects.GlobalEdge {
		vertices := e.Vertices().AccessInNormalizedOrder()
		return objects.NewGlobalEdge(x.GlobalCurve(e.Curve()), [2]storage.Handle[objects.GlobalVertex]{
			x.GlobalVertex(vertices[0]),
			x.GlobalVertex(vertices[1]),
		})
	}, x.objs.GlobalEdges)
}

func (x *Transformer) Surface(h storage.Handle[objects.Surface]) storage.Handle[objects.Surface] {
	return cached(x, h, func(s objects.Surface) objects.Surface {
		return objects.NewSurface(s.Geometry().Transform(x.t))
	}, x.objs.Surfaces.Store)
}

// Curve keeps the path, which is relative to the transformed surface.
func (x *Transformer) Curve(h storage.Handle[objects.Curve]) storage.Handle[objects.Curve] {
	return cached(x, h, func(c objects.Curve) objects.Curve {
		return objects.NewCurve(x.Surface(c.Surface()), c.Path(), x.GlobalCurve(c.GlobalForm()))
	}, x.objs.Curves)
}

func (x *Transformer) SurfaceVertex(h storage.Handle[objects.SurfaceVertex]) storage.Handle[objects.SurfaceVertex] {
	return cached(x, h, func(v objects.SurfaceVertex) objects.SurfaceVertex {
		return objects.NewSurfaceVertex(v.Position(), x.Surface(v.Surface()), x.GlobalVertex(v.GlobalForm()))
	}, x.objs.SurfaceVertices)
}

func (x *Transformer) Vertex(h storage.Handle[objects.Vertex]) storage.Handle[objects.Vertex] {
	return cached(x, h, func(v objects.Vertex) objects.Vertex {
		return objects.NewVertex(v.Position(), x.Curve(v.Curve()), x.SurfaceVertex(v.SurfaceForm()))
	}, x.objs.Vertices)
}

func (x *Transformer) HalfEdge(h storage.Handle[objects.HalfEdge]) storage.Handle[objects.HalfEdge] {
	return cached(x, h, func(e objects.HalfEdge) objects.HalfEdge {
		return objects.NewHalfEdge(
			[2]storage.Handle[objects.Vertex]{x.Vertex(e.Back()), x.Vertex(e.Front())},
			x.GlobalEdge(e.GlobalForm()),
		)
	}, x.objs.HalfEdges)
}

func (x *Transformer) Cycle(h storage.Handle[objects.Cycle]) storage.Handle[objects.Cycle] {
	return cached(x, h, func(c objects.Cycle) objects.Cycle {
		return objects.NewCycle(lo.Map(c.HalfEdges(), mapper(x.HalfEdge)))
	}, x.objs.Cycles)
}

func (x *Transformer) Face(h storage.Handle[objects.Face]) storage.Handle[objects.Face] {
	return cached(x, h, func(f objects.Face) objects.Face {
		return objects.NewFace(
			x.Surface(f.Surface()),
			x.Cycle(f.Exterior()),
			lo.Map(f.Interiors(), mapper(x.Cycle)),
			f.Color(),
		)
	}, x.objs.Faces)
}

func (x *Transformer) Shell(h storage.Handle[objects.Shell]) storage.Handle[objects.Shell] {
	return cached(x, h, func(s objects.Shell) objects.Shell {
		return objects.NewShell(lo.Map(s.Faces(), mapper(x.Face)))
	}, x.objs.Shells)
}

func (x *Transformer) Solid(h storage.Handle[objects.Solid]) storage.Handle[objects.Solid] {
	return cached(x, h, func(s objects.Solid) objects.Solid {
		return objects.NewSolid(lo.Map(s.Shells(), mapper(x.Shell)))
	}, x.objs.Solids)
}

func (x *Transformer) Sketch(h storage.Handle[objects.Sketch]) storage.Handle[objects.Sketch] {
	return cached(x, h, func(s objects.Sketch) objects.Sketch {
		return objects.NewSketch(lo.Map(s.Faces(), mapper(x.Face)))
	}, x.objs.Sketches)
}

// mapper adapts a transform method to lo.Map.
func mapper[T any](f func(storage.Handle[T]) storage.Handle[T]) func(storage.Handle[T], int) storage.Handle[T] {
	return func(h storage.Handle[T], _ int) storage.Handle[T] { return f(h) }
}
