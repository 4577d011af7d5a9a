package approx

import (
	"github.com/samber/lo"

	"github.com/chazu/kerf/pkg/objects"
	"github.com/chazu/kerf/pkg/storage"
)

// Segment is a line segment between two points of an approximation.
type Segment [2]Point

// HalfEdgeApprox is the polyline approximating a half-edge, from its back
// vertex to its front vertex.
type HalfEdgeApprox struct {
	Points []Point
}

// HalfEdge approximates a half-edge. The ends are the exact positions of its
// vertices.
func (a *Approximator) HalfEdge(h storage.Handle[objects.HalfEdge]) HalfEdgeApprox {
	edge := h.Get()
	back, front := edge.Back().Get(), edge.Front().Get()
	interior := a.Curve(edge.Curve(), [2]float64{back.Position(), front.Position()})
	return HalfEdgeApprox{
		Points: Edge(interior, &[2]Point{vertexPoint(back), vertexPoint(front)}),
	}
}

func vertexPoint(v objects.Vertex) Point {
	sv := v.SurfaceForm().Get()
	return Point{Local: sv.Position(), Global: sv.GlobalForm().Get().Position()}
}

// CycleApprox is the closed polygon approximating a cycle. The first point
// is not repeated at the end.
type CycleApprox struct {
	Points []Point
}

// Cycle approximates a cycle by joining the approximations of its
// half-edges.
func (a *Approximator) Cycle(h storage.Handle[objects.Cycle]) CycleApprox {
	var points []Point
	for _, edge := range h.Get().HalfEdges() {
		approx := a.HalfEdge(edge)
		// The last point starts the next half-edge.
		points = append(points, approx.Points[:len(approx.Points)-1]...)
	}
	return CycleApprox{Points: points}
}

// Segments returns the closed polygon as line segments.
func (c CycleApprox) Segments() []Segment {
	return lo.Map(c.Points, func(p Point, i int) Segment {
		return Segment{p, c.Points[(i+1)%len(c.Points)]}
	})
}
