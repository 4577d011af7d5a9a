package intersect

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/objects"
	"github.com/chazu/kerf/pkg/storage"
)

// ErrUnsupportedCurve is returned when intersecting a face with a curve that
// is not a line.
var ErrUnsupportedCurve = errors.New("intersect: curve is not a line")

// Interval is a closed range of curve coordinates, Start < End.
type Interval struct {
	Start, End float64
}

// CurveFaceIntersection is the set of disjoint intervals in which a curve
// lies inside a face, in ascending order.
type CurveFaceIntersection struct {
	Intervals []Interval
}

// IsEmpty reports whether the curve misses the face.
func (i CurveFaceIntersection) IsEmpty() bool {
	return len(i.Intervals) == 0
}

// Merge intersects two interval sets for the same curve coordinates.
func (i CurveFaceIntersection) Merge(other CurveFaceIntersection) CurveFaceIntersection {
	var merged CurveFaceIntersection
	for _, a := range i.Intervals {
		for _, b := range other.Intervals {
			start := math.Max(a.Start, b.Start)
			end := math.Min(a.End, b.End)
			if start < end {
				merged.Intervals = append(merged.Intervals, Interval{Start: start, End: end})
			}
		}
	}
	slices.SortFunc(merged.Intervals, func(a, b Interval) int {
		return cmp.Compare(a.Start, b.Start)
	})
	return merged
}

// CurveFace computes where a line curve lies inside a face. The curve must
// be defined on the face's surface.
func CurveFace(curve storage.Handle[objects.Curve], face storage.Handle[objects.Face]) (CurveFaceIntersection, error) {
	c := curve.Get()
	f := face.Get()
	if c.Surface() != f.Surface() {
		panic(fmt.Sprintf("intersect: curve %s is not on the surface of face %s", curve, face))
	}
	path := c.Path()
	if path.Kind != geom.PathLine {
		return CurveFaceIntersection{}, fmt.Errorf("intersect: curve %s: %w", curve, ErrUnsupportedCurve)
	}
	line := path.Line

	var hits []float64
	for _, cycle := range f.AllCycles() {
		for _, edge := range cycle.Get().HalfEdges() {
			hits = append(hits, edgeCrossings(line, edge.Get())...)
		}
	}
	slices.Sort(hits)

	var result CurveFaceIntersection
	for i := 0; i+1 < len(hits); i += 2 {
		if hits[i] < hits[i+1] {
			result.Intervals = append(result.Intervals, Interval{Start: hits[i], End: hits[i+1]})
		}
	}
	return result, nil
}

// edgeCrossings returns the line coordinates at which the line crosses the
// edge. Vertices on the line count as being on its non-positive side, so a
// line through a polygon corner is counted once or not at all.
func edgeCrossings(line geom.Line2, edge objects.HalfEdge) []float64 {
	path := edge.Curve().Get().Path()
	if path.Kind == geom.PathCircle {
		return circleCrossings(line, path.Circle, edge)
	}

	positions := edge.SurfaceVertices()
	a, b := positions[0].Get().Position(), positions[1].Get().Position()
	sa, sb := side(line, a), side(line, b)
	if (sa > 0) == (sb > 0) {
		return nil
	}
	point := a.Add(b.Sub(a).MulScalar(sa / (sa - sb)))
	return []float64{line.PointToLineCoords(point)}
}

func circleCrossings(line geom.Line2, circle geom.Circle2, edge objects.HalfEdge) []float64 {
	// |origin + t*direction - center|² = r²
	d := line.Direction
	o := line.Origin.Sub(circle.Center)
	r := circle.Radius()
	qa := d.Dot(d)
	qb := 2 * o.Dot(d)
	qc := o.Dot(o) - r*r
	disc := qb*qb - 4*qa*qc
	if disc <= 0 {
		return nil
	}

	back, front := edge.Back().Get().Position(), edge.Front().Get().Position()
	from, to := math.Min(back, front), math.Max(back, front)

	var out []float64
	root := math.Sqrt(disc)
	for _, t := range []float64{(-qb - root) / (2 * qa), (-qb + root) / (2 * qa)} {
		angle := circle.PointToCircleCoords(line.PointFromLineCoords(t))
		if onArc(angle, from, to) {
			out = append(out, t)
		}
	}
	return out
}

// onArc reports whether the circle coordinate angle in [0, 2π) lies in
// [from, to], allowing for ranges that extend past 2π.
func onArc(angle, from, to float64) bool {
	if to-from >= 2*math.Pi {
		return true
	}
	for _, a := range []float64{angle - 2*math.Pi, angle, angle + 2*math.Pi} {
		if a >= from && a <= to {
			return true
		}
	}
	return false
}

func side(line geom.Line2, p v2.Vec) float64 {
	return geom.Cross2(line.Direction, p.Sub(line.Origin))
}
