// Package objects defines the entities of a boundary representation and the
// stores that own them.
//
// Global objects (GlobalVertex, GlobalCurve, GlobalEdge) hold canonical,
// coordinate-free information. Local objects (Curve, SurfaceVertex, Vertex,
// HalfEdge, ...) are expressed in the coordinates of a surface or curve and
// refer to their global form. Objects are values; they refer to each other
// through storage handles and are never changed after insertion.
package objects

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/storage"
)

// Objects holds one store per entity kind.
type Objects struct {
	Curves          *storage.Store[Curve]
	Cycles          *storage.Store[Cycle]
	Faces           *storage.Store[Face]
	GlobalCurves    *storage.Store[GlobalCurve]
	GlobalEdges     *storage.Store[GlobalEdge]
	GlobalVertices  *storage.Store[GlobalVertex]
	HalfEdges       *storage.Store[HalfEdge]
	Shells          *storage.Store[Shell]
	Sketches        *storage.Store[Sketch]
	Solids          *storage.Store[Solid]
	Surfaces        *Surfaces
	SurfaceVertices *storage.Store[SurfaceVertex]
	Vertices        *storage.Store[Vertex]
}

// New creates an empty set of stores. The surface store starts out with the
// xy, xz and yz planes.
func New() *Objects {
	return &Objects{
		Curves:          storage.NewStore[Curve](),
		Cycles:          storage.NewStore[Cycle](),
		Faces:           storage.NewStore[Face](),
		GlobalCurves:    storage.NewStore[GlobalCurve](),
		GlobalEdges:     storage.NewStore[GlobalEdge](),
		GlobalVertices:  storage.NewStore[GlobalVertex](),
		HalfEdges:       storage.NewStore[HalfEdge](),
		Shells:          storage.NewStore[Shell](),
		Sketches:        storage.NewStore[Sketch](),
		Solids:          storage.NewStore[Solid](),
		Surfaces:        newSurfaces(),
		SurfaceVertices: storage.NewStore[SurfaceVertex](),
		Vertices:        storage.NewStore[Vertex](),
	}
}

// Surfaces is the surface store plus the three well-known planes.
type Surfaces struct {
	*storage.Store[Surface]

	xy storage.Handle[Surface]
	xz storage.Handle[Surface]
	yz storage.Handle[Surface]
}

func newSurfaces() *Surfaces {
	store := storage.NewStore[Surface]()
	plane := func(u, v v3.Vec) storage.Handle[Surface] {
		return store.Add(NewSurface(geom.SurfaceGeometry{
			U: geom.GlobalPathFromLine(geom.Line3{Direction: u}),
			V: v,
		}))
	}

	return &Surfaces{
		Store: store,
		xy:    plane(v3.Vec{X: 1}, v3.Vec{Y: 1}),
		xz:    plane(v3.Vec{X: 1}, v3.Vec{Z: 1}),
		yz:    plane(v3.Vec{Y: 1}, v3.Vec{Z: 1}),
	}
}

// XYPlane returns the plane spanned by the x and y axes.
func (s *Surfaces) XYPlane() storage.Handle[Surface] { return s.xy }

// XZPlane returns the plane spanned by the x and z axes.
func (s *Surfaces) XZPlane() storage.Handle[Surface] { return s.xz }

// YZPlane returns the plane spanned by the y and z axes.
func (s *Surfaces) YZPlane() storage.Handle[Surface] { return s.yz }

// Unfilled reports how many reserved slots across all stores were never
// filled. A finished shape has none.
func (o *Objects) Unfilled() int {
	return len(o.Curves.Unfilled()) +
		len(o.Cycles.Unfilled()) +
		len(o.Faces.Unfilled()) +
		len(o.GlobalCurves.Unfilled()) +
		len(o.GlobalEdges.Unfilled()) +
		len(o.GlobalVertices.Unfilled()) +
		len(o.HalfEdges.Unfilled()) +
		len(o.Shells.Unfilled()) +
		len(o.Sketches.Unfilled()) +
		len(o.Solids.Unfilled()) +
		len(o.Surfaces.Unfilled()) +
		len(o.SurfaceVertices.Unfilled()) +
		len(o.Vertices.Unfilled())
}
