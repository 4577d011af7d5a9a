// Package traverse walks the object graph below a root object.
//
// Objects of every kind are wrapped in Object, a closed tagged variant.
// A walk visits every reachable object exactly once, parents before
// children, in a deterministic order.
package traverse

import (
	"fmt"
	"iter"

	"github.com/samber/lo"

	"github.com/chazu/kerf/pkg/objects"
	"github.com/chazu/kerf/pkg/storage"
)

// Kind identifies the entity kind an Object refers to.
type Kind int

const (
	KindGlobalVertex Kind = iota
	KindGlobalCurve
	KindGlobalEdge
	KindSurface
	KindCurve
	KindSurfaceVertex
	KindVertex
	KindHalfEdge
	KindCycle
	KindFace
	KindShell
	KindSolid
	KindSketch
)

var kindNames = [...]string{
	KindGlobalVertex:  "global vertex",
	KindGlobalCurve:   "global curve",
	KindGlobalEdge:    "global edge",
	KindSurface:       "surface",
	KindCurve:         "curve",
	KindSurfaceVertex: "surface vertex",
	KindVertex:        "vertex",
	KindHalfEdge:      "half-edge",
	KindCycle:         "cycle",
	KindFace:          "face",
	KindShell:         "shell",
	KindSolid:         "solid",
	KindSketch:        "sketch",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Entity is the set of types an Object can refer to.
type Entity interface {
	objects.GlobalVertex | objects.GlobalCurve | objects.GlobalEdge |
		objects.Surface | objects.Curve | objects.SurfaceVertex | objects.Vertex |
		objects.HalfEdge | objects.Cycle | objects.Face |
		objects.Shell | objects.Solid | objects.Sketch
}

// Object is a handle of any entity kind.
type Object struct {
	kind   Kind
	id     storage.ObjectID
	handle any
}

// Of wraps a handle.
func Of[T Entity](h storage.Handle[T]) Object {
	var kind Kind
	switch any(h).(type) {
	case storage.Handle[objects.GlobalVertex]:
		kind = KindGlobalVertex
	case storage.Handle[objects.GlobalCurve]:
		kind = KindGlobalCurve
	case storage.Handle[objects.GlobalEdge]:
		kind = KindGlobalEdge
	case storage.Handle[objects.Surface]:
		kind = KindSurface
	case storage.Handle[objects.Curve]:
		kind = KindCurve
	case storage.Handle[objects.SurfaceVertex]:
		kind = KindSurfaceVertex
	case storage.Handle[objects.Vertex]:
		kind = KindVertex
	case storage.Handle[objects.HalfEdge]:
		kind = KindHalfEdge
	case storage.Handle[objects.Cycle]:
		kind = KindCycle
	case storage.Handle[objects.Face]:
		kind = KindFace
	case storage.Handle[objects.Shell]:
		kind = KindShell
	case storage.Handle[objects.Solid]:
		kind = KindSolid
	case storage.Handle[objects.Sketch]:
		kind = KindSketch
	}
	return Object{kind: kind, id: h.ID(), handle: h}
}

// As returns the handle held by o if it has type T.
func As[T Entity](o Object) (storage.Handle[T], bool) {
	h, ok := o.handle.(storage.Handle[T])
	return h, ok
}

func (o Object) Kind() Kind           { return o.kind }
func (o Object) ID() storage.ObjectID { return o.id }

func (o Object) String() string {
	return fmt.Sprintf("%s #%d", o.kind, o.id)
}

// Children returns the objects o refers to directly.
func (o Object) Children() []Object {
	switch h := o.handle.(type) {
	case storage.Handle[objects.GlobalEdge]:
		edge := h.Get()
		vertices := edge.Vertices().AccessInNormalizedOrder()
		return []Object{Of(edge.Curve()), Of(vertices[0]), Of(vertices[1])}
	case storage.Handle[objects.Curve]:
		curve := h.Get()
		return []Object{Of(curve.Surface()), Of(curve.GlobalForm())}
	case storage.Handle[objects.SurfaceVertex]:
		sv := h.Get()
		return []Object{Of(sv.Surface()), Of(sv.GlobalForm())}
	case storage.Handle[objects.Vertex]:
		v := h.Get()
		return []Object{Of(v.Curve()), Of(v.SurfaceForm())}
	case storage.Handle[objects.HalfEdge]:
		edge := h.Get()
		return []Object{Of(edge.Back()), Of(edge.Front()), Of(edge.GlobalForm())}
	case storage.Handle[objects.Cycle]:
		return wrap(h.Get().HalfEdges())
	case storage.Handle[objects.Face]:
		face := h.Get()
		return append([]Object{Of(face.Surface())}, wrap(face.AllCycles())...)
	case storage.Handle[objects.Shell]:
		return wrap(h.Get().Faces())
	case storage.Handle[objects.Solid]:
		return wrap(h.Get().Shells())
	case storage.Handle[objects.Sketch]:
		return wrap(h.Get().Faces())
	}
	return nil
}

func wrap[T Entity](handles []storage.Handle[T]) []Object {
	return lo.Map(handles, func(h storage.Handle[T], _ int) Object { return Of(h) })
}

// Walk calls visit for root and every object reachable from it, once per
// object. Returning false from visit stops the walk.
func Walk(root Object, visit func(Object) bool) {
	seen := make(map[storage.ObjectID]struct{})
	var walk func(o Object) bool
	walk = func(o Object) bool {
		if _, ok := seen[o.id]; ok {
			return true
		}
		seen[o.id] = struct{}{}
		if !visit(o) {
			return false
		}
		for _, child := range o.Children() {
			if !walk(child) {
				return false
			}
		}
		return true
	}
	walk(root)
}

// All iterates over root and every object reachable from it.
func All(root Object) iter.Seq[Object] {
	return func(yield func(Object) bool) {
		Walk(root, yield)
	}
}

// OfKind returns the reachable objects of type T in walk order.
func OfKind[T Entity](root Object) []storage.Handle[T] {
	var out []storage.Handle[T]
	for o := range All(root) {
		if h, ok := As[T](o); ok {
			out = append(out, h)
		}
	}
	return out
}

// Counts maps each kind to the number of reachable objects of that kind.
type Counts map[Kind]int

// Count walks root and counts the objects per kind.
func Count(root Object) Counts {
	counts := make(Counts)
	for o := range All(root) {
		counts[o.kind]++
	}
	return counts
}
