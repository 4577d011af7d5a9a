package validate

import (
	"fmt"
	"strings"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"

	"github.com/chazu/kerf/pkg/objects"
	"github.com/chazu/kerf/pkg/storage"
)

// Error is returned by Validate and lists every failed check. Use errors.As
// to get at the individual failures.
type Error struct {
	Failures []error
}

func (e *Error) Error() string {
	msgs := lo.Map(e.Failures, func(err error, _ int) string { return err.Error() })
	if len(msgs) == 1 {
		return "validate: " + msgs[0]
	}
	return fmt.Sprintf("validate: %d checks failed: %s", len(msgs), strings.Join(msgs, "; "))
}

func (e *Error) Unwrap() []error { return e.Failures }

// HalfEdgeErrorKind names the way a half-edge disagrees with its global
// form.
type HalfEdgeErrorKind int

const (
	// CurveMismatch: the vertices are on different curves.
	CurveMismatch HalfEdgeErrorKind = iota + 1
	// GlobalCurveMismatch: the curve's global form differs from the global
	// edge's curve.
	GlobalCurveMismatch
	// GlobalVertexMismatch: the vertices' global forms differ from the
	// global edge's vertices.
	GlobalVertexMismatch
	// VerticesAreCoincident: the vertices are too close on their curve.
	VerticesAreCoincident
)

var halfEdgeErrorNames = [...]string{
	CurveMismatch:         "curve mismatch",
	GlobalCurveMismatch:   "global curve mismatch",
	GlobalVertexMismatch:  "global vertex mismatch",
	VerticesAreCoincident: "vertices are coincident",
}

func (k HalfEdgeErrorKind) String() string {
	if k > 0 && int(k) < len(halfEdgeErrorNames) {
		return halfEdgeErrorNames[k]
	}
	return fmt.Sprintf("HalfEdgeErrorKind(%d)", int(k))
}

// HalfEdgeError reports a half-edge that is not coherent.
type HalfEdgeError struct {
	Kind     HalfEdgeErrorKind
	HalfEdge storage.Handle[objects.HalfEdge]
	Detail   string
}

func (e *HalfEdgeError) Error() string {
	return fmt.Sprintf("half-edge %s: %s: %s", e.HalfEdge, e.Kind, e.Detail)
}

// UniquenessError reports two distinct global vertices at the same place.
type UniquenessError struct {
	Vertices [2]storage.Handle[objects.GlobalVertex]
	Distance float64
}

func (e *UniquenessError) Error() string {
	return fmt.Sprintf("global vertices %s and %s are %g apart", e.Vertices[0], e.Vertices[1], e.Distance)
}

// SurfaceVertexError reports a surface vertex whose position on its surface
// doesn't match its global form.
type SurfaceVertexError struct {
	SurfaceVertex storage.Handle[objects.SurfaceVertex]
	Surface       v3.Vec
	Global        v3.Vec
	Distance      float64
}

func (e *SurfaceVertexError) Error() string {
	return fmt.Sprintf("surface vertex %s is at %v, its global form at %v (distance %g)",
		e.SurfaceVertex, e.Surface, e.Global, e.Distance)
}

// VertexError reports a vertex whose position on its curve doesn't match its
// surface form.
type VertexError struct {
	Vertex   storage.Handle[objects.Vertex]
	Curve    v2.Vec
	Surface  v2.Vec
	Distance float64
}

func (e *VertexError) Error() string {
	return fmt.Sprintf("vertex %s is at %v on its curve, its surface form at %v (distance %g)",
		e.Vertex, e.Curve, e.Surface, e.Distance)
}

// CycleError reports a cycle whose half-edges don't connect.
type CycleError struct {
	Cycle storage.Handle[objects.Cycle]
	// Index is the half-edge whose front doesn't start the next one.
	Index int
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle %s is not connected after half-edge %d", e.Cycle, e.Index)
}
