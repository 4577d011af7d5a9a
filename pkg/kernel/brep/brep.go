// Package brep implements kernel.Kernel with a boundary representation.
//
// Sketches are faces on the xy plane. Solids come from sweeping sketches or
// from the cube builder and are moved with the transform algorithms. All
// objects of one Kernel live in one objects.Objects, so that solids created
// from each other share what they have in common.
package brep

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"

	"github.com/chazu/kerf/pkg/algorithms/approx"
	"github.com/chazu/kerf/pkg/algorithms/intersect"
	"github.com/chazu/kerf/pkg/algorithms/sweep"
	"github.com/chazu/kerf/pkg/algorithms/transform"
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/kernel"
	"github.com/chazu/kerf/pkg/logging"
	"github.com/chazu/kerf/pkg/objects"
	"github.com/chazu/kerf/pkg/partial"
	"github.com/chazu/kerf/pkg/storage"
	"github.com/chazu/kerf/pkg/tessellate"
	"github.com/chazu/kerf/pkg/traverse"
	"github.com/chazu/kerf/pkg/validate"
)

// Compile-time interface check.
var _ kernel.Kernel = (*Kernel)(nil)

// Options configures a Kernel.
type Options struct {
	// Tolerance bounds the distance between approximated and exact curves.
	Tolerance float64
	// Validation holds the distances used by Validate.
	Validation validate.Config
	// Intersect configures Intersections.
	Intersect intersect.Options
	// Workers limits how many shells are approximated at once; zero means
	// no limit.
	Workers int
	// Logger receives debug output for every operation. Nil discards it.
	Logger *logging.Logger
}

// DefaultOptions returns the options New uses for zero fields.
func DefaultOptions() Options {
	return Options{
		Tolerance:  0.01,
		Validation: validate.DefaultConfig(),
	}
}

// Kernel builds and meshes B-rep solids.
type Kernel struct {
	objs *objects.Objects
	opts Options
	tol  approx.Tolerance
	log  *logging.Logger
}

// New returns a Kernel that inserts into objs. A nil objs gets a fresh set
// of stores.
func New(objs *objects.Objects, opts Options) (*Kernel, error) {
	defaults := DefaultOptions()
	if opts.Tolerance == 0 {
		opts.Tolerance = defaults.Tolerance
	}
	if opts.Validation == (validate.Config{}) {
		opts.Validation = defaults.Validation
	}
	tol, err := approx.NewTolerance(opts.Tolerance)
	if err != nil {
		return nil, fmt.Errorf("brep: %w", err)
	}
	if objs == nil {
		objs = objects.New()
	}
	log := opts.Logger
	if log == nil {
		log = logging.NoopLogger()
	}
	return &Kernel{objs: objs, opts: opts, tol: tol, log: log}, nil
}

// Objects returns the stores the kernel inserts into.
func (k *Kernel) Objects() *objects.Objects { return k.objs }

// ----------------------------------------------------------------------------
// Handles
// ----------------------------------------------------------------------------

type brepSketch struct {
	k *Kernel
	h storage.Handle[objects.Sketch]
}

// FaceCount returns the number of faces in the sketch.
func (s *brepSketch) FaceCount() int { return len(s.h.Get().Faces()) }

type brepSolid struct {
	k *Kernel
	h storage.Handle[objects.Solid]
}

// BoundingBox returns the box around the approximated edges of the solid.
func (s *brepSolid) BoundingBox() sdf.Box3 {
	var points []v3.Vec
	a := approx.New(s.k.tol)
	for _, edge := range traverse.OfKind[objects.HalfEdge](traverse.Of(s.h)) {
		for _, p := range a.HalfEdge(edge).Points {
			points = append(points, p.Global)
		}
	}
	return geom.BoundingBox(points)
}

func (k *Kernel) sketch(s kernel.Sketch) (storage.Handle[objects.Sketch], error) {
	b, ok := s.(*brepSketch)
	if !ok || b.k != k {
		return storage.Handle[objects.Sketch]{}, kernel.ErrForeignObject
	}
	return b.h, nil
}

func (k *Kernel) solid(s kernel.Solid) (storage.Handle[objects.Solid], error) {
	b, ok := s.(*brepSolid)
	if !ok || b.k != k {
		return storage.Handle[objects.Solid]{}, kernel.ErrForeignObject
	}
	return b.h, nil
}

// mustSolid unwraps s for the operations that can't return an error.
func (k *Kernel) mustSolid(s kernel.Solid) storage.Handle[objects.Solid] {
	h, err := k.solid(s)
	if err != nil {
		panic(fmt.Sprintf("brep: %v", err))
	}
	return h
}

func (k *Kernel) wrapSketch(h storage.Handle[objects.Sketch]) kernel.Sketch {
	return &brepSketch{k: k, h: h}
}

func (k *Kernel) wrapSolid(h storage.Handle[objects.Solid]) kernel.Solid {
	return &brepSolid{k: k, h: h}
}

// SolidHandle returns the object behind a solid created by k.
func (k *Kernel) SolidHandle(s kernel.Solid) (storage.Handle[objects.Solid], error) {
	return k.solid(s)
}

// Count returns the number of objects per kind that make up s.
func (k *Kernel) Count(s kernel.Solid) (traverse.Counts, error) {
	h, err := k.solid(s)
	if err != nil {
		return nil, err
	}
	return traverse.Count(traverse.Of(h)), nil
}

// ----------------------------------------------------------------------------
// Sketches
// ----------------------------------------------------------------------------

// Polygon creates a one-face sketch on the xy plane. The exterior is made
// counter-clockwise and the holes clockwise, whatever order the points come
// in.
func (k *Kernel) Polygon(exterior []v2.Vec, holes ...[]v2.Vec) (kernel.Sketch, error) {
	exterior, err := ring(exterior, true)
	if err != nil {
		return nil, fmt.Errorf("brep: polygon exterior: %w", err)
	}
	surface := partial.SurfaceFrom(k.objs.Surfaces.XYPlane())
	face := (&partial.Face{Surface: surface}).UpdateExteriorAsPolygon(exterior)
	for i, hole := range holes {
		hole, err := ring(hole, false)
		if err != nil {
			return nil, fmt.Errorf("brep: polygon hole %d: %w", i, err)
		}
		face.AddInteriorPolygon(hole)
	}

	h := (&partial.Sketch{}).AddFace(face).Build(k.objs)
	k.log.WithOp("polygon").Debug("created sketch", "points", len(exterior), "holes", len(holes))
	return k.wrapSketch(h), nil
}

// ring checks a closed polygon and returns it wound counter-clockwise, or
// clockwise if ccw is false.
func ring(points []v2.Vec, ccw bool) ([]v2.Vec, error) {
	if len(points) < 3 {
		return nil, fmt.Errorf("%w: %d points, need at least 3", kernel.ErrInvalidArgument, len(points))
	}
	for i, p := range points {
		if !finite(p.X, p.Y) {
			return nil, fmt.Errorf("%w: point %d is not finite", kernel.ErrInvalidArgument, i)
		}
		if p == points[(i+1)%len(points)] {
			return nil, fmt.Errorf("%w: point %d repeats", kernel.ErrInvalidArgument, i)
		}
	}
	area := geom.SignedArea(points)
	if area == 0 {
		return nil, fmt.Errorf("%w: polygon has no area", kernel.ErrInvalidArgument)
	}
	if (area > 0) != ccw {
		points = slices.Clone(points)
		slices.Reverse(points)
	}
	return points, nil
}

// Circle creates a one-face sketch bounded by a circle on the xy plane.
func (k *Kernel) Circle(center v2.Vec, radius float64) (kernel.Sketch, error) {
	if !finite(center.X, center.Y, radius) || radius <= 0 {
		return nil, fmt.Errorf("brep: circle: %w: radius %g", kernel.ErrInvalidArgument, radius)
	}
	surface := partial.SurfaceFrom(k.objs.Surfaces.XYPlane())
	edge := partial.NewHalfEdge()
	edge.Curve().Surface = surface
	edge.UpdateAsCircleFromCenterAndRadius(center, radius)
	face := &partial.Face{Surface: surface, Exterior: (&partial.Cycle{}).AddHalfEdge(edge)}

	h := (&partial.Sketch{}).AddFace(face).Build(k.objs)
	k.log.WithOp("circle").Debug("created sketch", "radius", radius)
	return k.wrapSketch(h), nil
}

// Combine creates a sketch holding the faces of all sketches.
func (k *Kernel) Combine(sketches ...kernel.Sketch) (kernel.Sketch, error) {
	if len(sketches) == 0 {
		return nil, fmt.Errorf("brep: combine: %w: no sketches", kernel.ErrInvalidArgument)
	}
	var faces []storage.Handle[objects.Face]
	for _, s := range sketches {
		h, err := k.sketch(s)
		if err != nil {
			return nil, fmt.Errorf("brep: combine: %w", err)
		}
		faces = append(faces, h.Get().Faces()...)
	}
	h := k.objs.Sketches.Add(objects.NewSketch(faces))
	return k.wrapSketch(h), nil
}

// ----------------------------------------------------------------------------
// Solids
// ----------------------------------------------------------------------------

// Sweep extrudes a sketch along path. The path must leave the plane of every
// face.
func (k *Kernel) Sweep(s kernel.Sketch, path v3.Vec) (kernel.Solid, error) {
	h, err := k.sketch(s)
	if err != nil {
		return nil, fmt.Errorf("brep: sweep: %w", err)
	}
	if !finite(path.X, path.Y, path.Z) || path.Length() == 0 {
		return nil, fmt.Errorf("brep: sweep: %w: path %v", kernel.ErrInvalidArgument, path)
	}
	for _, face := range h.Get().Faces() {
		plane, ok := face.Get().Surface().Get().Geometry().Plane()
		if !ok || math.Abs(plane.Normal().Dot(path)) < k.opts.Validation.DistinctMinDistance {
			return nil, fmt.Errorf("brep: sweep: %w: path %v lies in the sketch plane", kernel.ErrInvalidArgument, path)
		}
	}

	solid := sweep.Sketch(k.objs, h, path)
	k.log.WithOp("sweep").Debug("swept sketch", "faces", s.FaceCount(), "path", path)
	return k.wrapSolid(solid), nil
}

// Cube creates a cube centered on the origin.
func (k *Kernel) Cube(edgeLength float64) (kernel.Solid, error) {
	if !finite(edgeLength) || edgeLength <= 0 {
		return nil, fmt.Errorf("brep: cube: %w: edge length %g", kernel.ErrInvalidArgument, edgeLength)
	}
	h := (&partial.Solid{}).WithCubeFromEdgeLength(edgeLength).Build(k.objs)
	k.log.WithOp("cube").Debug("created cube", "edge_length", edgeLength)
	return k.wrapSolid(h), nil
}

// ----------------------------------------------------------------------------
// Transforms
// ----------------------------------------------------------------------------

// Translate moves a solid by (x, y, z). The original solid is unchanged.
func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	h := transform.Translate(k.objs, k.mustSolid(s), v3.Vec{X: x, Y: y, Z: z})
	return k.wrapSolid(h)
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes,
// applied in that order.
func (k *Kernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	t := geom.RotationXYZ(radians(x), radians(y), radians(z))
	return k.wrapSolid(transform.Apply(k.objs, k.mustSolid(s), t))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// ----------------------------------------------------------------------------
// Checks and output
// ----------------------------------------------------------------------------

// Validate checks the solid and everything it is made of.
func (k *Kernel) Validate(s kernel.Solid) error {
	h, err := k.solid(s)
	if err != nil {
		return fmt.Errorf("brep: validate: %w", err)
	}
	return validate.Check(h, k.opts.Validation)
}

// Intersections counts the pairs of faces, one from each solid, that cross
// along a segment of positive length. Faces on curved surfaces are skipped.
// Solids that only touch along an edge may or may not be reported.
func (k *Kernel) Intersections(a, b kernel.Solid) (int, error) {
	ha, err := k.solid(a)
	if err != nil {
		return 0, fmt.Errorf("brep: intersections: %w", err)
	}
	hb, err := k.solid(b)
	if err != nil {
		return 0, fmt.Errorf("brep: intersections: %w", err)
	}

	n := 0
	facesB := traverse.OfKind[objects.Face](traverse.Of(hb))
	for _, fa := range traverse.OfKind[objects.Face](traverse.Of(ha)) {
		for _, fb := range facesB {
			_, ok, err := intersect.FaceFace(k.objs, [2]storage.Handle[objects.Face]{fa, fb}, k.opts.Intersect)
			switch {
			case errors.Is(err, intersect.ErrUnsupportedSurface), errors.Is(err, intersect.ErrUnsupportedCurve):
				continue
			case err != nil:
				return 0, fmt.Errorf("brep: intersections: %w", err)
			case ok:
				n++
			}
		}
	}
	k.log.WithOp("intersect").Debug("intersected solids", "crossings", n)
	return n, nil
}

// ToMesh approximates the solid and converts it to a triangle mesh.
func (k *Kernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	return k.ToMeshContext(context.Background(), s)
}

// ToMeshContext is ToMesh with a context that stops shell approximation
// early. Approximations are cached for the duration of one call only.
func (k *Kernel) ToMeshContext(ctx context.Context, s kernel.Solid) (*kernel.Mesh, error) {
	h, err := k.solid(s)
	if err != nil {
		return nil, fmt.Errorf("brep: mesh: %w", err)
	}
	approximated, err := approx.New(k.tol).Solid(ctx, h, k.opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("brep: mesh: %w", err)
	}
	m := tessellate.FromShells(approximated.Shells)
	k.log.WithOp("mesh").LogMesh(m.VertexCount(), m.TriangleCount(), nil)
	return m, nil
}

func finite(values ...float64) bool {
	return lo.EveryBy(values, func(v float64) bool {
		return !math.IsNaN(v) && !math.IsInf(v, 0)
	})
}
