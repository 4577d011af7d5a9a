// Package kernel defines the geometry kernel interface the front-end and the
// tessellator work against. The B-rep implementation lives in kernel/brep.
package kernel

import (
	"errors"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

var (
	// ErrInvalidArgument is returned for geometry that can't be built, like a
	// polygon with fewer than three points or a zero sweep path.
	ErrInvalidArgument = errors.New("kernel: invalid argument")

	// ErrForeignObject is returned when a sketch or solid created by one
	// kernel is passed to another.
	ErrForeignObject = errors.New("kernel: object belongs to another kernel")
)

// Sketch is an opaque handle to a set of planar faces in the xy plane.
type Sketch interface {
	// FaceCount returns the number of faces in the sketch.
	FaceCount() int
}

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() sdf.Box3
}

// Kernel builds solids by sweeping sketches and moving the results around.
type Kernel interface {
	// Sketches
	Polygon(exterior []v2.Vec, holes ...[]v2.Vec) (Sketch, error)
	Circle(center v2.Vec, radius float64) (Sketch, error)
	Combine(sketches ...Sketch) (Sketch, error)

	// Solids
	Sweep(s Sketch, path v3.Vec) (Solid, error)
	Cube(edgeLength float64) (Solid, error)

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Checks and output
	Validate(s Solid) error
	ToMesh(s Solid) (*Mesh, error)
}

// Part is a named solid produced by evaluating a design.
type Part struct {
	Name  string
	Solid Solid
}
