// Package validate checks object graphs for coherence between local and
// global forms, structural consistency and uniqueness of global vertices.
//
// Validation only reads the graph. Every check runs, and all failures are
// reported together in an *Error.
package validate

import (
	"fmt"
	"math"

	"github.com/chazu/kerf/pkg/objects"
	"github.com/chazu/kerf/pkg/storage"
	"github.com/chazu/kerf/pkg/traverse"
)

// Config holds the distances validation works with.
type Config struct {
	// DistinctMinDistance is the distance below which two points count as
	// the same point.
	DistinctMinDistance float64 `yaml:"distinct_min_distance" validate:"gt=0"`
	// IdenticalMaxDistance is the numerical noise allowed between values
	// that are the same by construction.
	IdenticalMaxDistance float64 `yaml:"identical_max_distance" validate:"gte=0"`
}

// DefaultConfig returns the default distances.
func DefaultConfig() Config {
	return Config{
		DistinctMinDistance:  5e-7,
		IdenticalMaxDistance: 5e-14,
	}
}

// Check validates root and everything it references.
func Check[T traverse.Entity](h storage.Handle[T], cfg Config) error {
	return Validate(traverse.Of(h), cfg)
}

// Validate runs every check over root and everything it references.
func Validate(root traverse.Object, cfg Config) error {
	var failures []error
	var globalVertices []storage.Handle[objects.GlobalVertex]

	for o := range traverse.All(root) {
		switch o.Kind() {
		case traverse.KindHalfEdge:
			h, _ := traverse.As[objects.HalfEdge](o)
			failures = append(failures, HalfEdge(h, cfg)...)
		case traverse.KindVertex:
			h, _ := traverse.As[objects.Vertex](o)
			if err := Vertex(h, cfg); err != nil {
				failures = append(failures, err)
			}
		case traverse.KindSurfaceVertex:
			h, _ := traverse.As[objects.SurfaceVertex](o)
			if err := SurfaceVertex(h, cfg); err != nil {
				failures = append(failures, err)
			}
		case traverse.KindCycle:
			h, _ := traverse.As[objects.Cycle](o)
			if err := Cycle(h); err != nil {
				failures = append(failures, err)
			}
		case traverse.KindGlobalVertex:
			h, _ := traverse.As[objects.GlobalVertex](o)
			globalVertices = append(globalVertices, h)
		}
	}
	failures = append(failures, Uniqueness(globalVertices, cfg)...)

	if len(failures) == 0 {
		return nil
	}
	return &Error{Failures: failures}
}

// HalfEdge checks that a half-edge agrees with its global form.
func HalfEdge(h storage.Handle[objects.HalfEdge], cfg Config) []error {
	edge := h.Get()
	back, front := edge.Back().Get(), edge.Front().Get()
	global := edge.GlobalForm().Get()
	fail := func(kind HalfEdgeErrorKind, format string, args ...any) error {
		return &HalfEdgeError{Kind: kind, HalfEdge: h, Detail: fmt.Sprintf(format, args...)}
	}

	var errs []error
	if back.Curve() != front.Curve() {
		errs = append(errs, fail(CurveMismatch, "back on %s, front on %s", back.Curve(), front.Curve()))
	}
	if curve := back.Curve().Get().GlobalForm(); curve != global.Curve() {
		errs = append(errs, fail(GlobalCurveMismatch, "curve has %s, global edge has %s", curve, global.Curve()))
	}
	vertices, _ := objects.NewVerticesInNormalizedOrder([2]storage.Handle[objects.GlobalVertex]{
		back.GlobalForm(), front.GlobalForm(),
	})
	if vertices != global.Vertices() {
		errs = append(errs, fail(GlobalVertexMismatch, "vertices have %s, global edge has %s", vertices, global.Vertices()))
	}
	if d := math.Abs(back.Position() - front.Position()); d < cfg.DistinctMinDistance {
		errs = append(errs, fail(VerticesAreCoincident, "positions %g and %g", back.Position(), front.Position()))
	}
	return errs
}

// Uniqueness checks that no two of vertices are closer than the distinct
// minimum distance. Every pair is reported once.
func Uniqueness(vertices []storage.Handle[objects.GlobalVertex], cfg Config) []error {
	var errs []error
	for i, a := range vertices {
		pa := a.Get().Position()
		for _, b := range vertices[:i] {
			if a == b {
				continue
			}
			if d := pa.Sub(b.Get().Position()).Length(); d < cfg.DistinctMinDistance {
				errs = append(errs, &UniquenessError{Vertices: [2]storage.Handle[objects.GlobalVertex]{b, a}, Distance: d})
			}
		}
	}
	return errs
}

// SurfaceVertex checks that a surface vertex lies where its global form is.
func SurfaceVertex(h storage.Handle[objects.SurfaceVertex], cfg Config) error {
	sv := h.Get()
	local := sv.ModelPosition()
	global := sv.GlobalForm().Get().Position()
	if d := local.Sub(global).Length(); d > cfg.DistinctMinDistance {
		return &SurfaceVertexError{SurfaceVertex: h, Surface: local, Global: global, Distance: d}
	}
	return nil
}

// Vertex checks that a vertex lies where its surface form is.
func Vertex(h storage.Handle[objects.Vertex], cfg Config) error {
	v := h.Get()
	onCurve := v.Curve().Get().Path().PointFromPathCoords(v.Position())
	onSurface := v.SurfaceForm().Get().Position()
	if d := onCurve.Sub(onSurface).Length(); d > cfg.DistinctMinDistance {
		return &VertexError{Vertex: h, Curve: onCurve, Surface: onSurface, Distance: d}
	}
	return nil
}

// Cycle checks that each half-edge of a cycle starts where the previous one
// ends, including the last and the first.
func Cycle(h storage.Handle[objects.Cycle]) error {
	edges := h.Get().HalfEdges()
	for i, edge := range edges {
		next := edges[(i+1)%len(edges)]
		if edge.Get().SurfaceVertices()[1] != next.Get().SurfaceVertices()[0] {
			return &CycleError{Cycle: h, Index: i}
		}
	}
	return nil
}
