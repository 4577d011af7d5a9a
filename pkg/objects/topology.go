package objects

import (
	"fmt"
	"slices"

	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/samber/lo"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/storage"
)

// HalfEdge is a directed edge on a surface, bounded by a back and a front
// vertex on the same curve.
type HalfEdge struct {
	vertices   [2]storage.Handle[Vertex]
	globalForm storage.Handle[GlobalEdge]
}

// NewHalfEdge creates a half-edge. Coherence between the vertices and the
// global form is checked by validation, not here.
func NewHalfEdge(vertices [2]storage.Handle[Vertex], globalForm storage.Handle[GlobalEdge]) HalfEdge {
	if vertices[0].IsZero() || vertices[1].IsZero() || globalForm.IsZero() {
		panic("objects: half-edge needs two vertices and a global form")
	}
	return HalfEdge{vertices: vertices, globalForm: globalForm}
}

func (e HalfEdge) Vertices() [2]storage.Handle[Vertex]    { return e.vertices }
func (e HalfEdge) Back() storage.Handle[Vertex]           { return e.vertices[0] }
func (e HalfEdge) Front() storage.Handle[Vertex]          { return e.vertices[1] }
func (e HalfEdge) GlobalForm() storage.Handle[GlobalEdge] { return e.globalForm }

// Curve returns the curve of the back vertex. Both vertices of a valid
// half-edge share it.
func (e HalfEdge) Curve() storage.Handle[Curve] {
	return e.vertices[0].Get().Curve()
}

// Surface returns the surface the half-edge is defined on.
func (e HalfEdge) Surface() storage.Handle[Surface] {
	return e.Curve().Get().Surface()
}

// SurfaceVertices returns the surface forms of back and front vertex.
func (e HalfEdge) SurfaceVertices() [2]storage.Handle[SurfaceVertex] {
	return [2]storage.Handle[SurfaceVertex]{
		e.vertices[0].Get().SurfaceForm(),
		e.vertices[1].Get().SurfaceForm(),
	}
}

// Cycle is a closed chain of half-edges on one surface.
type Cycle struct {
	halfEdges []storage.Handle[HalfEdge]
}

// NewCycle creates a cycle. It panics if halfEdges is empty.
func NewCycle(halfEdges []storage.Handle[HalfEdge]) Cycle {
	if len(halfEdges) == 0 {
		panic("objects: cycle needs at least one half-edge")
	}
	return Cycle{halfEdges: slices.Clone(halfEdges)}
}

// HalfEdges returns the half-edges of the cycle in order.
func (c Cycle) HalfEdges() []storage.Handle[HalfEdge] {
	return slices.Clone(c.halfEdges)
}

// Surface returns the surface of the first half-edge.
func (c Cycle) Surface() storage.Handle[Surface] {
	return c.halfEdges[0].Get().Surface()
}

// Winding tells the orientation of a cycle in surface coordinates.
type Winding int

const (
	CCW Winding = iota
	CW
)

func (w Winding) String() string {
	if w == CW {
		return "cw"
	}
	return "ccw"
}

// Winding computes the orientation of the cycle from the signed area of the
// polygon through its surface vertices. Cycles of a single edge (circles)
// take the sweep direction of their curve.
func (c Cycle) Winding() Winding {
	if len(c.halfEdges) == 1 {
		edge := c.halfEdges[0].Get()
		path := edge.Curve().Get().Path()
		back, front := edge.Back().Get().Position(), edge.Front().Get().Position()
		forward := front > back
		if path.Kind == geom.PathCircle {
			if geom.Cross2(path.Circle.A, path.Circle.B) < 0 {
				forward = !forward
			}
		}
		if forward {
			return CCW
		}
		return CW
	}

	polygon := make([]v2.Vec, 0, len(c.halfEdges))
	for _, h := range c.halfEdges {
		polygon = append(polygon, h.Get().SurfaceVertices()[0].Get().Position())
	}
	if geom.SignedArea(polygon) < 0 {
		return CW
	}
	return CCW
}

// Color is an RGBA color.
type Color [4]uint8

// DefaultColor is used for faces that don't specify one.
var DefaultColor = Color{255, 0, 0, 255}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c[0], c[1], c[2], c[3])
}

// Face is a bounded region of a surface: an exterior cycle, optional
// interior cycles (holes) and a color.
type Face struct {
	surface   storage.Handle[Surface]
	exterior  storage.Handle[Cycle]
	interiors []storage.Handle[Cycle]
	color     Color
}

// NewFace creates a face. It panics if a cycle is defined on another
// surface than the face.
func NewFace(surface storage.Handle[Surface], exterior storage.Handle[Cycle], interiors []storage.Handle[Cycle], color Color) Face {
	if surface.IsZero() || exterior.IsZero() {
		panic("objects: face needs a surface and an exterior cycle")
	}
	for _, c := range append([]storage.Handle[Cycle]{exterior}, interiors...) {
		if c.Get().Surface() != surface {
			panic(fmt.Sprintf("objects: cycle %d is not defined on the surface of its face", c.ID()))
		}
	}
	return Face{surface: surface, exterior: exterior, interiors: slices.Clone(interiors), color: color}
}

func (f Face) Surface() storage.Handle[Surface] { return f.surface }
func (f Face) Exterior() storage.Handle[Cycle]  { return f.exterior }
func (f Face) Color() Color                     { return f.color }

// Interiors returns the hole cycles of the face.
func (f Face) Interiors() []storage.Handle[Cycle] {
	return slices.Clone(f.interiors)
}

// AllCycles returns the exterior followed by all interiors.
func (f Face) AllCycles() []storage.Handle[Cycle] {
	return append([]storage.Handle[Cycle]{f.exterior}, f.interiors...)
}

// Shell is a set of faces forming a boundary skin.
type Shell struct {
	faces []storage.Handle[Face]
}

// NewShell creates a shell. Duplicate handles are dropped.
func NewShell(faces []storage.Handle[Face]) Shell {
	return Shell{faces: dedup(faces)}
}

// Faces returns the faces of the shell.
func (s Shell) Faces() []storage.Handle[Face] { return slices.Clone(s.faces) }

// Solid is a set of shells, assumed not to intersect each other.
type Solid struct {
	shells []storage.Handle[Shell]
}

// NewSolid creates a solid. Duplicate handles are dropped.
func NewSolid(shells []storage.Handle[Shell]) Solid {
	return Solid{shells: dedup(shells)}
}

// Shells returns the shells of the solid.
func (s Solid) Shells() []storage.Handle[Shell] { return slices.Clone(s.shells) }

// Sketch is a set of faces on one plane, used as input for sweeps.
type Sketch struct {
	faces []storage.Handle[Face]
}

// NewSketch creates a sketch. Duplicate handles are dropped.
func NewSketch(faces []storage.Handle[Face]) Sketch {
	return Sketch{faces: dedup(faces)}
}

// Faces returns the faces of the sketch.
func (s Sketch) Faces() []storage.Handle[Face] { return slices.Clone(s.faces) }

func dedup[T any](handles []storage.Handle[T]) []storage.Handle[T] {
	return lo.Uniq(handles)
}
