package approx_test

import (
	"context"
	"math"
	"slices"
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/kerf/pkg/algorithms/approx"
	"github.com/chazu/kerf/pkg/algorithms/reverse"
	"github.com/chazu/kerf/pkg/algorithms/sweep"
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/objects"
	"github.com/chazu/kerf/pkg/partial"
	"github.com/chazu/kerf/pkg/storage"
)

func tolerance(t *testing.T, v float64) approx.Tolerance {
	t.Helper()
	tol, err := approx.NewTolerance(v)
	require.NoError(t, err)
	return tol
}

func TestNewTolerance(t *testing.T) {
	for _, v := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := approx.NewTolerance(v)
		assert.ErrorIs(t, err, approx.ErrInvalidTolerance, "%v", v)
	}
	tol, err := approx.NewTolerance(0.5)
	require.NoError(t, err)
	assert.Equal(t, approx.Tolerance(0.5), tol)
}

func TestNumberOfVertices(t *testing.T) {
	tests := []struct {
		tolerance, radius float64
		want              int
	}{
		{50, 100, 3},
		{10, 100, 7},
		{1, 100, 23},
		{200, 100, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, approx.NumberOfVertices(approx.Tolerance(tt.tolerance), tt.radius),
			"tolerance %v, radius %v", tt.tolerance, tt.radius)
	}
}

func TestNumberOfVerticesIsMinimal(t *testing.T) {
	const radius = 10.0
	for _, tol := range []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2, 4.9} {
		n := approx.NumberOfVertices(approx.Tolerance(tol), radius)
		assert.LessOrEqual(t, approx.CalculateError(radius, n), tol+1e-12, "tolerance %v", tol)
		if n > 3 {
			assert.Greater(t, approx.CalculateError(radius, n-1), tol, "tolerance %v", tol)
		}
	}
}

func circleEdge(objs *objects.Objects, radius float64) storage.Handle[objects.HalfEdge] {
	p := partial.NewHalfEdge()
	p.Curve().Surface = partial.SurfaceFrom(objs.Surfaces.XYPlane())
	p.UpdateAsCircleFromRadius(radius)
	return p.Build(objs)
}

func TestCurveCircle(t *testing.T) {
	objs := objects.New()
	curve := circleEdge(objs, 1).Get().Curve()
	a := approx.New(tolerance(t, 0.1))

	points := a.Curve(curve, [2]float64{0, 2 * math.Pi})
	require.Len(t, points, 6)
	for i, p := range points {
		angle := float64(i+1) * 2 * math.Pi / 7
		assert.InDelta(t, math.Cos(angle), p.Global.X, 1e-9)
		assert.InDelta(t, math.Sin(angle), p.Global.Y, 1e-9)
		assert.InDelta(t, 0, p.Local.Sub(v2.Vec{X: p.Global.X, Y: p.Global.Y}).Length(), 1e-9)
	}

	want := slices.Clone(points)
	slices.Reverse(want)
	assert.Equal(t, want, a.Curve(curve, [2]float64{2 * math.Pi, 0}))
	assert.Equal(t, 1, a.CachedCurves())

	partly := a.Curve(curve, [2]float64{0, math.Pi})
	assert.Len(t, partly, 3)
}

func TestCurveLine(t *testing.T) {
	objs := objects.New()
	p := partial.NewHalfEdge()
	p.UpdateAsLineSegmentFromPoints(partial.SurfaceFrom(objs.Surfaces.XYPlane()), [2]v2.Vec{{X: 0, Y: 0}, {X: 5, Y: 0}})
	edge := p.Build(objs)

	a := approx.New(tolerance(t, 0.1))
	assert.Empty(t, a.Curve(edge.Get().Curve(), [2]float64{0, 1}))

	points := a.HalfEdge(edge).Points
	require.Len(t, points, 2)
	assert.Equal(t, v3.Vec{}, points[0].Global)
	assert.Equal(t, v3.Vec{X: 5}, points[1].Global)
}

func TestEdge(t *testing.T) {
	a := approx.Point{Global: v3.Vec{X: 1}}
	b := approx.Point{Global: v3.Vec{X: 2}}
	c := approx.Point{Global: v3.Vec{X: 3}}

	assert.Equal(t, []approx.Point{a, b, c}, approx.Edge([]approx.Point{b}, &[2]approx.Point{a, c}))
	assert.Equal(t, []approx.Point{a, b, a}, approx.Edge([]approx.Point{a, b}, nil))
	assert.Empty(t, approx.Edge(nil, nil))
}

func TestCycleIsClosedPolygon(t *testing.T) {
	objs := objects.New()
	edge := circleEdge(objs, 1)
	cycle := objs.Cycles.Add(objects.NewCycle([]storage.Handle[objects.HalfEdge]{edge}))

	c := approx.New(tolerance(t, 0.1)).Cycle(cycle)
	require.Len(t, c.Points, 7)
	assert.InDelta(t, 0, c.Points[0].Global.Sub(v3.Vec{X: 1}).Length(), 1e-12)
	segments := c.Segments()
	require.Len(t, segments, 7)
	assert.Equal(t, c.Points[0], segments[6][1])
}

func totalArea(triangles []geom.Triangle) float64 {
	return lo.SumBy(triangles, func(t geom.Triangle) float64 { return t.Area() })
}

func TestFaceWithHole(t *testing.T) {
	objs := objects.New()
	face := (&partial.Face{Surface: partial.SurfaceFrom(objs.Surfaces.XYPlane())}).
		UpdateExteriorAsPolygon([]v2.Vec{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 3}, {X: 0, Y: 3}}).
		AddInteriorPolygon([]v2.Vec{{X: 1, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 1}}).
		Build(objs)

	f, err := approx.New(tolerance(t, 0.1)).Face(face)
	require.NoError(t, err)
	assert.Len(t, f.Points(), 8)
	assert.Len(t, f.Segments(), 8)
	assert.InDelta(t, 8, totalArea(f.Triangles), 1e-9)
	for _, tri := range f.Triangles {
		assert.InDelta(t, 1, tri.Normal().Z, 1e-9)
	}
}

func TestCubeTriangles(t *testing.T) {
	objs := objects.New()
	shell := partial.CreateCubeFromEdgeLength(1).Build(objs)

	s, err := approx.New(tolerance(t, 0.01)).Shell(shell)
	require.NoError(t, err)
	triangles := s.Triangles()
	assert.Len(t, triangles, 12)
	assert.InDelta(t, 6, totalArea(triangles), 1e-9)
	assert.Len(t, s.Points(), 8)

	// With the cube centered on the origin, every triangle faces away from
	// it.
	for _, tri := range triangles {
		centroid := tri[0].Add(tri[1]).Add(tri[2]).MulScalar(1.0 / 3)
		assert.Greater(t, tri.Normal().Dot(centroid), 0.0)
	}
}

// signedVolume sums the tetrahedra between the origin and each triangle.
func signedVolume(triangles []geom.Triangle) float64 {
	return lo.SumBy(triangles, func(t geom.Triangle) float64 { return t[0].Dot(t[1].Cross(t[2])) / 6 })
}

// inscribedArea is the area of the polygon a circle is approximated by.
func inscribedArea(tol approx.Tolerance, radius float64) float64 {
	n := float64(approx.NumberOfVertices(tol, radius))
	return n / 2 * radius * radius * math.Sin(2*math.Pi/n)
}

func sweptDisc(objs *objects.Objects, radius float64, path v3.Vec) storage.Handle[objects.Solid] {
	surface := partial.SurfaceFrom(objs.Surfaces.XYPlane())
	circle := partial.NewHalfEdge()
	circle.Curve().Surface = surface
	circle.UpdateAsCircleFromRadius(radius)
	sketch := (&partial.Sketch{}).
		AddFace(&partial.Face{Surface: surface, Exterior: (&partial.Cycle{}).AddHalfEdge(circle)}).
		Build(objs)
	return sweep.Sketch(objs, sketch, path)
}

func TestSweptCylinderSharesEdgePoints(t *testing.T) {
	objs := objects.New()
	solid := sweptDisc(objs, 1, v3.Vec{Z: 2})

	s, err := approx.New(tolerance(t, 0.1)).Solid(context.Background(), solid, 0)
	require.NoError(t, err)
	require.Len(t, s.Shells, 1)
	faces := s.Shells[0].Faces
	require.Len(t, faces, 3)
	bottom, top, side := faces[0], faces[1], faces[2]

	sidePoints := lo.Map(side.Points(), func(p approx.Point, _ int) v3.Vec { return p.Global })
	for _, f := range []approx.FaceApprox{bottom, top} {
		require.Len(t, f.Exterior.Points, 7)
		for _, p := range f.Exterior.Points {
			assert.Contains(t, sidePoints, p.Global)
		}
	}

	polygon := 3.5 * math.Sin(2*math.Pi/7)
	assert.InDelta(t, polygon, totalArea(bottom.Triangles), 1e-9)
	assert.InDelta(t, polygon, totalArea(top.Triangles), 1e-9)
	for _, tri := range bottom.Triangles {
		assert.InDelta(t, -1, tri.Normal().Z, 1e-9)
	}
	for _, tri := range top.Triangles {
		assert.InDelta(t, 1, tri.Normal().Z, 1e-9)
	}
	require.NotEmpty(t, side.Triangles)
	// The wall is made of flat strips between neighboring samples, so it
	// has the area of the sampled polygon's sides.
	assert.InDelta(t, 7*2*math.Sin(math.Pi/7)*2, totalArea(side.Triangles), 1e-9)
	for _, tri := range side.Triangles {
		centroid := tri[0].Add(tri[1]).Add(tri[2]).MulScalar(1.0 / 3)
		r := math.Hypot(centroid.X, centroid.Y)
		assert.LessOrEqual(t, 1-r, 0.1+1e-9, "triangle %v cuts into the cylinder", tri)
		assert.LessOrEqual(t, r, 1+1e-9, "triangle %v lies outside the cylinder", tri)
	}
}

func TestCurvedFacesFollowTheSurface(t *testing.T) {
	for _, tol := range []float64{0.01, 0.001} {
		objs := objects.New()
		solid := sweptDisc(objs, 1, v3.Vec{Z: 2})

		s, err := approx.New(tolerance(t, tol)).Solid(context.Background(), solid, 0)
		require.NoError(t, err)
		side := s.Shells[0].Faces[2]
		for _, tri := range side.Triangles {
			centroid := tri[0].Add(tri[1]).Add(tri[2]).MulScalar(1.0 / 3)
			assert.InDelta(t, 1, math.Hypot(centroid.X, centroid.Y), tol, "tolerance %v", tol)
		}

		volume := math.Abs(signedVolume(s.Triangles()))
		assert.InDelta(t, 2*inscribedArea(approx.Tolerance(tol), 1), volume, 1e-9, "tolerance %v", tol)
		// The whole wall is within tolerance of the cylinder.
		assert.InDelta(t, 2*math.Pi, volume, 2*math.Pi*2*tol, "tolerance %v", tol)
	}
}

func TestFaceWithRoundHole(t *testing.T) {
	objs := objects.New()
	surface := partial.SurfaceFrom(objs.Surfaces.XYPlane())
	circle := partial.NewHalfEdge()
	circle.Curve().Surface = surface
	circle.UpdateAsCircleFromCenterAndRadius(v2.Vec{X: 1.5, Y: 1.5}, 0.5)
	hole := reverse.Cycle(objs, (&partial.Cycle{}).AddHalfEdge(circle).Build(objs))
	exterior := (&partial.Cycle{}).
		UpdateAsPolygonFromPoints(surface, []v2.Vec{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 3}, {X: 0, Y: 3}}).
		Build(objs)
	face := objs.Faces.Add(objects.NewFace(surface.Build(objs), exterior, []storage.Handle[objects.Cycle]{hole}, objects.DefaultColor))
	sketch := objs.Sketches.Add(objects.NewSketch([]storage.Handle[objects.Face]{face}))
	solid := sweep.Sketch(objs, sketch, v3.Vec{Z: 1})

	tol := tolerance(t, 0.01)
	s, err := approx.New(tol).Solid(context.Background(), solid, 0)
	require.NoError(t, err)
	volume := math.Abs(signedVolume(s.Triangles()))
	assert.InDelta(t, 9-inscribedArea(tol, 0.5), volume, 1e-9)
	assert.InDelta(t, 9-math.Pi/4, volume, 2*math.Pi*0.5*0.01)

	// The hole's wall keeps to the circle around its axis.
	for _, f := range s.Shells[0].Faces[2:] {
		for _, tri := range f.Triangles {
			centroid := tri[0].Add(tri[1]).Add(tri[2]).MulScalar(1.0 / 3)
			r := math.Hypot(centroid.X-1.5, centroid.Y-1.5)
			if r < 1 {
				assert.InDelta(t, 0.5, r, 0.01, "triangle %v", tri)
			}
		}
	}
}

func TestFaceWithTwoHoles(t *testing.T) {
	outer := []v2.Vec{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 3}, {X: 0, Y: 3}}
	tests := []struct {
		name   string
		second []v2.Vec
		area   float64
	}{
		{"same size", []v2.Vec{{X: 3, Y: 1}, {X: 3, Y: 2}, {X: 4, Y: 2}, {X: 4, Y: 1}}, 13},
		{"shorter", []v2.Vec{{X: 3, Y: 1}, {X: 3, Y: 1.5}, {X: 4, Y: 1.5}, {X: 4, Y: 1}}, 13.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			objs := objects.New()
			face := (&partial.Face{Surface: partial.SurfaceFrom(objs.Surfaces.XYPlane())}).
				UpdateExteriorAsPolygon(outer).
				AddInteriorPolygon([]v2.Vec{{X: 1, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 1}}).
				AddInteriorPolygon(tt.second).
				Build(objs)

			f, err := approx.New(tolerance(t, 0.1)).Face(face)
			require.NoError(t, err)
			assert.InDelta(t, tt.area, totalArea(f.Triangles), 1e-9)
			for _, tri := range f.Triangles {
				assert.InDelta(t, 1, tri.Normal().Z, 1e-9)
			}
		})
	}
}

func TestShellsParallel(t *testing.T) {
	objs := objects.New()
	shells := lo.Times(4, func(i int) storage.Handle[objects.Shell] {
		return partial.CreateCubeFromEdgeLength(float64(i + 1)).Build(objs)
	})

	out, err := approx.New(tolerance(t, 0.01)).Shells(context.Background(), shells, 2)
	require.NoError(t, err)
	require.Len(t, out, 4)
	for i, s := range out {
		l := float64(i + 1)
		assert.InDelta(t, 6*l*l, totalArea(s.Triangles()), 1e-9)
	}
}

func TestShellsCanceled(t *testing.T) {
	objs := objects.New()
	shell := partial.CreateCubeFromEdgeLength(1).Build(objs)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := approx.New(tolerance(t, 0.01)).Shells(ctx, []storage.Handle[objects.Shell]{shell}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
