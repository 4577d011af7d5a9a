package intersect_test

import (
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/kerf/pkg/algorithms/intersect"
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/objects"
	"github.com/chazu/kerf/pkg/partial"
	"github.com/chazu/kerf/pkg/storage"
)

func square(objs *objects.Objects, surface storage.Handle[objects.Surface], min, max float64) storage.Handle[objects.Face] {
	face := &partial.Face{Surface: partial.SurfaceFrom(surface)}
	face.UpdateExteriorAsPolygon([]v2.Vec{{X: min, Y: min}, {X: max, Y: min}, {X: max, Y: max}, {X: min, Y: max}})
	return face.Build(objs)
}

func plane(objs *objects.Objects, p geom.Plane) storage.Handle[objects.Surface] {
	return objs.Surfaces.Add(objects.NewSurface(p.SurfaceGeometry()))
}

func TestSurfaceSurfaceXYAndXZ(t *testing.T) {
	objs := objects.New()
	surfaces := [2]storage.Handle[objects.Surface]{objs.Surfaces.XYPlane(), objs.Surfaces.XZPlane()}

	result, ok, err := intersect.SurfaceSurface(objs, surfaces, intersect.Options{})
	require.NoError(t, err)
	require.True(t, ok)

	curves := result.IntersectionCurves
	for i, c := range curves {
		curve := c.Get()
		assert.Equal(t, surfaces[i], curve.Surface())
		assert.Equal(t, geom.UAxis(), curve.Path(), "curve %d", i)
	}
	assert.NotEqual(t, curves[0].Get().GlobalForm(), curves[1].Get().GlobalForm())

	for _, tt := range []float64{-1, 0, 0.5, 3} {
		var points [2]v3.Vec
		for i, c := range curves {
			curve := c.Get()
			local := curve.Path().PointFromPathCoords(tt)
			points[i] = curve.Surface().Get().Geometry().PointFromSurfaceCoords(local)
		}
		assert.InDelta(t, points[0].X, points[1].X, 1e-12)
		assert.InDelta(t, points[0].Y, points[1].Y, 1e-12)
		assert.InDelta(t, points[0].Z, points[1].Z, 1e-12)
		assert.InDelta(t, tt, points[0].X, 1e-12)
	}
}

func TestSurfaceSurfaceSkewPlanes(t *testing.T) {
	objs := objects.New()
	a := plane(objs, geom.Plane{Origin: v3.Vec{Z: 1}, U: v3.Vec{X: 1, Y: 1}, V: v3.Vec{Y: 2}})
	b := plane(objs, geom.Plane{Origin: v3.Vec{X: 2}, U: v3.Vec{Y: 1}, V: v3.Vec{Y: 1, Z: 1}})

	result, ok, err := intersect.SurfaceSurface(objs, [2]storage.Handle[objects.Surface]{a, b}, intersect.Options{})
	require.NoError(t, err)
	require.True(t, ok)

	for _, tt := range []float64{0, 1, -2.5} {
		var points [2]v3.Vec
		for i, c := range result.IntersectionCurves {
			curve := c.Get()
			points[i] = curve.Surface().Get().Geometry().PointFromSurfaceCoords(curve.Path().PointFromPathCoords(tt))
		}
		assert.InDelta(t, 0, points[0].Sub(points[1]).Length(), 1e-9)
		// the line lies in z=1 and x=2
		assert.InDelta(t, 1, points[0].Z, 1e-9)
		assert.InDelta(t, 2, points[0].X, 1e-9)
	}
}

func TestSurfaceSurfaceParallel(t *testing.T) {
	objs := objects.New()
	xy := objs.Surfaces.XYPlane()
	lifted := plane(objs, geom.Plane{Origin: v3.Vec{Z: 3}, U: v3.Vec{X: 1}, V: v3.Vec{Y: 1}})

	tests := []struct {
		name     string
		surfaces [2]storage.Handle[objects.Surface]
	}{
		{"coincident", [2]storage.Handle[objects.Surface]{xy, xy}},
		{"parallel", [2]storage.Handle[objects.Surface]{xy, lifted}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := objs.Curves.Len()
			_, ok, err := intersect.SurfaceSurface(objs, tt.surfaces, intersect.Options{})
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Equal(t, before, objs.Curves.Len())
		})
	}
}

func TestSurfaceSurfaceParallelEpsilon(t *testing.T) {
	objs := objects.New()
	tilted := plane(objs, geom.Plane{U: v3.Vec{X: 1}, V: v3.Vec{Y: 1, Z: 1e-9}})
	surfaces := [2]storage.Handle[objects.Surface]{objs.Surfaces.XYPlane(), tilted}

	_, ok, err := intersect.SurfaceSurface(objs, surfaces, intersect.Options{})
	require.NoError(t, err)
	assert.True(t, ok)

	_, ok, err = intersect.SurfaceSurface(objs, surfaces, intersect.Options{ParallelEpsilon: 1e-12})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSurfaceSurfaceUnsupported(t *testing.T) {
	objs := objects.New()
	cylinder := objs.Surfaces.Add(objects.NewSurface(geom.SurfaceGeometry{
		U: geom.GlobalPathFromCircle(geom.Circle3FromCenterAndRadius(v3.Vec{}, 1)),
		V: v3.Vec{Z: 1},
	}))

	_, ok, err := intersect.SurfaceSurface(objs, [2]storage.Handle[objects.Surface]{objs.Surfaces.XYPlane(), cylinder}, intersect.Options{})
	assert.False(t, ok)
	assert.ErrorIs(t, err, intersect.ErrUnsupportedSurface)
}

func TestCurveFaceSquare(t *testing.T) {
	objs := objects.New()
	face := square(objs, objs.Surfaces.XYPlane(), -1, 1)
	curve := (&partial.Curve{Surface: partial.SurfaceFrom(objs.Surfaces.XYPlane()), Path: lo.ToPtr(geom.UAxis())}).Build(objs)

	result, err := intersect.CurveFace(curve, face)
	require.NoError(t, err)
	assert.Equal(t, []intersect.Interval{{Start: -1, End: 1}}, result.Intervals)
}

func TestCurveFaceThroughCorner(t *testing.T) {
	objs := objects.New()
	surface := partial.SurfaceFrom(objs.Surfaces.XYPlane())
	face := (&partial.Face{Surface: surface}).
		UpdateExteriorAsPolygon([]v2.Vec{{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}}).
		Build(objs)
	curve := (&partial.Curve{Surface: surface, Path: lo.ToPtr(geom.UAxis())}).Build(objs)

	result, err := intersect.CurveFace(curve, face)
	require.NoError(t, err)
	require.Len(t, result.Intervals, 1)
	assert.InDelta(t, 0, result.Intervals[0].Start, 1e-12)
	assert.InDelta(t, 1, result.Intervals[0].End, 1e-12)
}

func TestCurveFaceTouchingCorner(t *testing.T) {
	tests := []struct {
		name     string
		triangle []v2.Vec
	}{
		{"from below", []v2.Vec{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 1, Y: 1}}},
		{"from above", []v2.Vec{{X: 0, Y: 2}, {X: 1, Y: 1}, {X: 2, Y: 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			objs := objects.New()
			surface := partial.SurfaceFrom(objs.Surfaces.XYPlane())
			face := (&partial.Face{Surface: surface}).UpdateExteriorAsPolygon(tt.triangle).Build(objs)
			line := geom.SurfacePathFromLine(geom.Line2{Origin: v2.Vec{Y: 1}, Direction: v2.Vec{X: 1}})
			curve := (&partial.Curve{Surface: surface, Path: &line}).Build(objs)

			result, err := intersect.CurveFace(curve, face)
			require.NoError(t, err)
			assert.True(t, result.IsEmpty(), "%v", result.Intervals)
		})
	}
}

func TestCurveFaceWithCircularHole(t *testing.T) {
	objs := objects.New()
	surface := partial.SurfaceFrom(objs.Surfaces.XYPlane())

	hole := partial.NewHalfEdge()
	hole.Curve().Surface = surface
	hole.UpdateAsCircleFromRadius(1)

	face := (&partial.Face{Surface: surface}).
		UpdateExteriorAsPolygon([]v2.Vec{{X: -2, Y: -2}, {X: 2, Y: -2}, {X: 2, Y: 2}, {X: -2, Y: 2}})
	face.Interiors = append(face.Interiors, (&partial.Cycle{}).AddHalfEdge(hole))
	curve := (&partial.Curve{Surface: surface, Path: lo.ToPtr(geom.UAxis())}).Build(objs)

	result, err := intersect.CurveFace(curve, face.Build(objs))
	require.NoError(t, err)
	require.Len(t, result.Intervals, 2)
	assert.InDelta(t, -2, result.Intervals[0].Start, 1e-12)
	assert.InDelta(t, -1, result.Intervals[0].End, 1e-12)
	assert.InDelta(t, 1, result.Intervals[1].Start, 1e-12)
	assert.InDelta(t, 2, result.Intervals[1].End, 1e-12)
}

func TestCurveFaceRejectsCircles(t *testing.T) {
	objs := objects.New()
	face := square(objs, objs.Surfaces.XYPlane(), -1, 1)
	c := &partial.Curve{Surface: partial.SurfaceFrom(objs.Surfaces.XYPlane())}
	c.UpdateAsCircleFromRadius(0.5)

	_, err := intersect.CurveFace(c.Build(objs), face)
	assert.ErrorIs(t, err, intersect.ErrUnsupportedCurve)
}

func TestMerge(t *testing.T) {
	a := intersect.CurveFaceIntersection{Intervals: []intersect.Interval{{Start: 0, End: 2}, {Start: 3, End: 5}}}
	b := intersect.CurveFaceIntersection{Intervals: []intersect.Interval{{Start: 1, End: 4}}}

	merged := a.Merge(b)
	assert.Equal(t, []intersect.Interval{{Start: 1, End: 2}, {Start: 3, End: 4}}, merged.Intervals)

	touching := intersect.CurveFaceIntersection{Intervals: []intersect.Interval{{Start: 2, End: 3}}}
	assert.True(t, a.Merge(touching).IsEmpty())
}

func TestFaceFace(t *testing.T) {
	objs := objects.New()
	xy, xz := objs.Surfaces.XYPlane(), objs.Surfaces.XZPlane()

	t.Run("overlapping", func(t *testing.T) {
		faces := [2]storage.Handle[objects.Face]{square(objs, xy, -1, 1), square(objs, xz, -1, 1)}
		result, ok, err := intersect.FaceFace(objs, faces, intersect.Options{})
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []intersect.Interval{{Start: -1, End: 1}}, result.IntersectionIntervals.Intervals)
		assert.Equal(t, xy, result.IntersectionCurves[0].Get().Surface())
		assert.Equal(t, xz, result.IntersectionCurves[1].Get().Surface())
	})

	t.Run("disjoint", func(t *testing.T) {
		faces := [2]storage.Handle[objects.Face]{square(objs, xy, 1, 2), square(objs, xz, 1, 2)}
		_, ok, err := intersect.FaceFace(objs, faces, intersect.Options{})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("parallel", func(t *testing.T) {
		lifted := plane(objs, geom.Plane{Origin: v3.Vec{Z: 1}, U: v3.Vec{X: 1}, V: v3.Vec{Y: 1}})
		faces := [2]storage.Handle[objects.Face]{square(objs, xy, -1, 1), square(objs, lifted, -1, 1)}
		_, ok, err := intersect.FaceFace(objs, faces, intersect.Options{})
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
