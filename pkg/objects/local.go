package objects

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/storage"
)

// Surface is a 2D parameter space embedded in model space.
type Surface struct {
	geometry geom.SurfaceGeometry
}

// NewSurface creates a surface from its geometry.
func NewSurface(geometry geom.SurfaceGeometry) Surface {
	return Surface{geometry: geometry}
}

// Geometry returns the surface geometry.
func (s Surface) Geometry() geom.SurfaceGeometry { return s.geometry }

// Curve is a path in the coordinates of a surface.
type Curve struct {
	surface    storage.Handle[Surface]
	path       geom.SurfacePath
	globalForm storage.Handle[GlobalCurve]
}

// NewCurve creates a curve on a surface.
func NewCurve(surface storage.Handle[Surface], path geom.SurfacePath, globalForm storage.Handle[GlobalCurve]) Curve {
	if surface.IsZero() || globalForm.IsZero() {
		panic("objects: curve needs a surface and a global form")
	}
	return Curve{surface: surface, path: path, globalForm: globalForm}
}

func (c Curve) Surface() storage.Handle[Surface]        { return c.surface }
func (c Curve) Path() geom.SurfacePath                  { return c.path }
func (c Curve) GlobalForm() storage.Handle[GlobalCurve] { return c.globalForm }

// SurfaceVertex is a vertex expressed in the coordinates of a surface.
type SurfaceVertex struct {
	position   v2.Vec
	surface    storage.Handle[Surface]
	globalForm storage.Handle[GlobalVertex]
}

// NewSurfaceVertex creates a surface vertex.
func NewSurfaceVertex(position v2.Vec, surface storage.Handle[Surface], globalForm storage.Handle[GlobalVertex]) SurfaceVertex {
	if surface.IsZero() || globalForm.IsZero() {
		panic("objects: surface vertex needs a surface and a global form")
	}
	return SurfaceVertex{position: position, surface: surface, globalForm: globalForm}
}

func (v SurfaceVertex) Position() v2.Vec                         { return v.position }
func (v SurfaceVertex) Surface() storage.Handle[Surface]         { return v.surface }
func (v SurfaceVertex) GlobalForm() storage.Handle[GlobalVertex] { return v.globalForm }

// ModelPosition converts the surface position into model space.
func (v SurfaceVertex) ModelPosition() v3.Vec {
	return v.surface.Get().Geometry().PointFromSurfaceCoords(v.position)
}

// Vertex is a vertex expressed in the coordinates of a curve.
type Vertex struct {
	position    float64
	curve       storage.Handle[Curve]
	surfaceForm storage.Handle[SurfaceVertex]
}

// NewVertex creates a vertex on a curve. It panics if the curve and the
// surface form are not defined on the same surface.
func NewVertex(position float64, curve storage.Handle[Curve], surfaceForm storage.Handle[SurfaceVertex]) Vertex {
	if curve.IsZero() || surfaceForm.IsZero() {
		panic("objects: vertex needs a curve and a surface form")
	}
	if curve.Get().Surface() != surfaceForm.Get().Surface() {
		panic("objects: vertex surface form must be defined on the surface of its curve")
	}
	return Vertex{position: position, curve: curve, surfaceForm: surfaceForm}
}

func (v Vertex) Position() float64                          { return v.position }
func (v Vertex) Curve() storage.Handle[Curve]               { return v.curve }
func (v Vertex) SurfaceForm() storage.Handle[SurfaceVertex] { return v.surfaceForm }

// GlobalForm is a shortcut for the global vertex behind the surface form.
func (v Vertex) GlobalForm() storage.Handle[GlobalVertex] {
	return v.surfaceForm.Get().GlobalForm()
}
