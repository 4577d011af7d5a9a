package approx

import (
	"fmt"
	"math"
	"slices"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/objects"
	"github.com/chazu/kerf/pkg/storage"
)

// Point is a point of an approximation, in the coordinates of the surface it
// was approximated on and in model space.
type Point struct {
	Local  v2.Vec
	Global v3.Vec
}

// curvePoint is a sample of a global curve: the curve coordinate it was
// taken at and its position in model space. Every curve on the same global
// curve shares its curve coordinates, so these can be reused between them.
type curvePoint struct {
	T      float64
	Global v3.Vec
}

// boundaryEpsilon keeps samples from landing on the ends of a range, where
// the exact vertex positions are used instead.
const boundaryEpsilon = 1e-9

// Curve approximates the part of a curve between two curve coordinates. The
// result excludes both boundaries and runs from boundary[0] to boundary[1];
// lines need no points in between.
func (a *Approximator) Curve(h storage.Handle[objects.Curve], boundary [2]float64) []Point {
	curve := h.Get()
	from, to := min(boundary[0], boundary[1]), max(boundary[0], boundary[1])
	key := fmt.Sprintf("curve:%d:%v:%v", curve.GlobalForm().ID(), from, to)

	samples, _ := a.curves.get(key, func() ([]curvePoint, error) {
		return sampleCurve(curve, from, to, a.tolerance), nil
	})

	path := curve.Path()
	points := lo.Map(samples, func(p curvePoint, _ int) Point {
		return Point{Local: path.PointFromPathCoords(p.T), Global: p.Global}
	})
	if boundary[0] > boundary[1] {
		slices.Reverse(points)
	}
	return points
}

// sampleCurve returns the samples of curve strictly between from and to, in
// ascending order.
func sampleCurve(curve objects.Curve, from, to float64, tolerance Tolerance) []curvePoint {
	surface := curve.Surface().Get().Geometry()
	path := curve.Path()

	if surface.U.Kind == geom.PathLine {
		if path.Kind == geom.PathLine {
			return nil
		}
		global, _ := surface.GlobalPath(path)
		n := NumberOfVertices(tolerance, global.Circle.Radius())
		return lo.Map(circleAngles(n, from, to), func(t float64, _ int) curvePoint {
			return curvePoint{T: t, Global: global.Circle.PointFromCircleCoords(t)}
		})
	}

	// On a surface swept from a circle, lines wrap around the surface as
	// soon as they move along u.
	if path.Kind == geom.PathCircle {
		panic(fmt.Sprintf("approx: circle %s on a curved surface", path))
	}
	line := path.Line
	if line.Direction.X == 0 {
		return nil
	}
	n := NumberOfVertices(tolerance, surface.U.Circle.Radius())
	uFrom, uTo := line.PointFromLineCoords(from).X, line.PointFromLineCoords(to).X
	angles := circleAngles(n, min(uFrom, uTo), max(uFrom, uTo))
	samples := lo.Map(angles, func(u float64, _ int) curvePoint {
		t := (u - line.Origin.X) / line.Direction.X
		return curvePoint{T: t, Global: surface.PointFromSurfaceCoords(line.PointFromLineCoords(t))}
	})
	if line.Direction.X < 0 {
		slices.Reverse(samples)
	}
	return samples
}

// circleAngles returns the multiples of 2π/n strictly between from and to.
func circleAngles(n int, from, to float64) []float64 {
	step := 2 * math.Pi / float64(n)
	var angles []float64
	for k := math.Ceil(from / step); k*step < to; k++ {
		angle := k * step
		if angle-from <= boundaryEpsilon || to-angle <= boundaryEpsilon {
			continue
		}
		angles = append(angles, angle)
	}
	return angles
}

// Edge completes the points sampled along an edge's curve. If the edge has
// endpoints, they are put in front and at the back. An edge without
// endpoints connects to itself, so its first point is repeated at the end.
func Edge(points []Point, endpoints *[2]Point) []Point {
	if endpoints != nil {
		out := make([]Point, 0, len(points)+2)
		out = append(out, endpoints[0])
		out = append(out, points...)
		return append(out, endpoints[1])
	}
	if len(points) > 0 {
		return append(slices.Clone(points), points[0])
	}
	return points
}
