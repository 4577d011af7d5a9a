package approx

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/samber/lo"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/objects"
	"github.com/chazu/kerf/pkg/storage"
)

// FaceApprox approximates a face by the polygons of its cycles and by
// triangles covering its area.
type FaceApprox struct {
	Exterior  CycleApprox
	Interiors []CycleApprox
	Color     objects.Color
	// Triangles are wound counter-clockwise seen from the front of the
	// face.
	Triangles []geom.Triangle
}

// Points returns the points of all cycles, exterior first.
func (f FaceApprox) Points() []Point {
	points := slices.Clone(f.Exterior.Points)
	for _, interior := range f.Interiors {
		points = append(points, interior.Points...)
	}
	return points
}

// Segments returns the line segments of all cycles, exterior first.
func (f FaceApprox) Segments() []Segment {
	segments := f.Exterior.Segments()
	for _, interior := range f.Interiors {
		segments = append(segments, interior.Segments()...)
	}
	return segments
}

// Face approximates a face and triangulates it. Triangulation happens in
// surface coordinates, so the triangles follow curved surfaces.
func (a *Approximator) Face(h storage.Handle[objects.Face]) (FaceApprox, error) {
	return a.faces.get(fmt.Sprint(h.ID()), func() (FaceApprox, error) {
		face := h.Get()
		approx := FaceApprox{
			Exterior:  a.Cycle(face.Exterior()),
			Interiors: lo.Map(face.Interiors(), func(c storage.Handle[objects.Cycle], _ int) CycleApprox { return a.Cycle(c) }),
			Color:     face.Color(),
		}

		var points []Point
		ring := func(c CycleApprox) []int {
			start := len(points)
			points = append(points, c.Points...)
			return lo.Range(len(points))[start:]
		}
		exterior := ring(approx.Exterior)
		holes := lo.Map(approx.Interiors, func(c CycleApprox, _ int) []int { return ring(c) })

		surface := face.Surface().Get().Geometry()
		curved := surface.U.Kind == geom.PathCircle
		local := lo.Map(points, func(p Point, _ int) v2.Vec { return p.Local })
		indices, err := triangulate(local, exterior, holes, curved)
		if err != nil {
			return FaceApprox{}, fmt.Errorf("face %s: %w", h, err)
		}
		if curved {
			n := NumberOfVertices(a.tolerance, surface.U.Circle.Radius())
			approx.Triangles = splitAtColumns(points, indices, surface, n)
			return approx, nil
		}
		approx.Triangles = lo.Map(indices, func(t [3]int, _ int) geom.Triangle {
			return geom.Triangle{points[t[0]].Global, points[t[1]].Global, points[t[2]].Global}
		})
		return approx, nil
	})
}

// splitAtColumns cuts triangles on a surface swept from a circle along the
// lines u = k*2π/n, the same angles the boundary curves are sampled at. No
// resulting triangle spans more than one sample step around the circle.
func splitAtColumns(points []Point, indices [][3]int, surface geom.SurfaceGeometry, n int) []geom.Triangle {
	var out []geom.Triangle
	for _, t := range indices {
		corners := []Point{points[t[0]], points[t[1]], points[t[2]]}
		low := slices.MinFunc(corners, byU).Local.X
		high := slices.MaxFunc(corners, byU).Local.X
		columns := circleAngles(n, low, high)
		if len(columns) == 0 {
			out = append(out, geom.Triangle{corners[0].Global, corners[1].Global, corners[2].Global})
			continue
		}

		var ring []Point
		for i, a := range corners {
			ring = append(ring, a)
			ring = append(ring, columnCrossings(a, corners[(i+1)%3], columns, surface)...)
		}

		bounds := slices.Concat([]float64{low}, columns, []float64{high})
		for i := range len(bounds) - 1 {
			strip := lo.Filter(ring, func(p Point, _ int) bool {
				return p.Local.X >= bounds[i]-boundaryEpsilon && p.Local.X <= bounds[i+1]+boundaryEpsilon
			})
			for j := 1; j+1 < len(strip); j++ {
				a, b, c := strip[0], strip[j], strip[j+1]
				if math.Abs(geom.Cross2(b.Local.Sub(a.Local), c.Local.Sub(a.Local))) <= collinearEpsilon {
					continue
				}
				out = append(out, geom.Triangle{a.Global, b.Global, c.Global})
			}
		}
	}
	return out
}

func byU(a, b Point) int { return cmp.Compare(a.Local.X, b.Local.X) }

// columnCrossings returns the points where the segment from a to b crosses
// the given columns, ordered from a to b. Both triangles sharing a segment
// compute the same points, whichever way round they walk it.
func columnCrossings(a, b Point, columns []float64, surface geom.SurfaceGeometry) []Point {
	from, to := a.Local, b.Local
	if from.X > to.X {
		from, to = to, from
	}
	var out []Point
	for _, u := range columns {
		if u <= from.X+boundaryEpsilon || u >= to.X-boundaryEpsilon {
			continue
		}
		s := (u - from.X) / (to.X - from.X)
		local := v2.Vec{X: u, Y: from.Y + s*(to.Y-from.Y)}
		out = append(out, Point{Local: local, Global: surface.PointFromSurfaceCoords(local)})
	}
	if a.Local.X > b.Local.X {
		slices.Reverse(out)
	}
	return out
}
