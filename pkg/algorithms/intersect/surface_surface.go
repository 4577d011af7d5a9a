// Package intersect computes intersections between surfaces, curves and
// faces.
//
// Only planar surfaces are supported. An intersection that does not exist
// (parallel planes, faces that don't overlap) is reported through a false
// second result, not as an error.
package intersect

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/objects"
	"github.com/chazu/kerf/pkg/partial"
	"github.com/chazu/kerf/pkg/storage"
)

// ErrUnsupportedSurface is returned for surfaces that are not planes.
var ErrUnsupportedSurface = errors.New("intersect: surface is not a plane")

// Options tune the numeric tests.
type Options struct {
	// ParallelEpsilon is the largest squared length of the cross product of
	// two plane normals for which the planes count as parallel. Zero
	// requires the cross product to vanish exactly.
	ParallelEpsilon float64
}

// SurfaceSurfaceIntersection is the line two surfaces meet in, expressed
// once in the coordinates of each surface.
type SurfaceSurfaceIntersection struct {
	IntersectionCurves [2]storage.Handle[objects.Curve]
}

// SurfaceSurface intersects two planar surfaces. Both resulting curves get
// their own global curve.
func SurfaceSurface(objs *objects.Objects, surfaces [2]storage.Handle[objects.Surface], opts Options) (SurfaceSurfaceIntersection, bool, error) {
	var planes [2]geom.Plane
	for i, s := range surfaces {
		plane, ok := s.Get().Geometry().Plane()
		if !ok {
			return SurfaceSurfaceIntersection{}, false, fmt.Errorf("intersect: surface %s: %w", s, ErrUnsupportedSurface)
		}
		planes[i] = plane
	}

	line, ok := planeIntersection(planes, opts.ParallelEpsilon)
	if !ok {
		return SurfaceSurfaceIntersection{}, false, nil
	}

	var result SurfaceSurfaceIntersection
	for i, s := range surfaces {
		curve := &partial.Curve{
			Surface:    partial.SurfaceFrom(s),
			Path:       lo.ToPtr(geom.SurfacePathFromLine(planes[i].ProjectLine(line))),
			GlobalForm: &partial.GlobalCurve{},
		}
		result.IntersectionCurves[i] = curve.Build(objs)
	}
	return result, true, nil
}

func planeIntersection(planes [2]geom.Plane, epsilon float64) (geom.Line3, bool) {
	dA, nA := planes[0].ConstantNormalForm()
	dB, nB := planes[1].ConstantNormalForm()

	direction := nA.Cross(nB)
	denom := direction.Dot(direction)
	if denom <= epsilon {
		return geom.Line3{}, false
	}

	origin := nB.MulScalar(dA).Sub(nA.MulScalar(dB)).Cross(direction).MulScalar(1 / denom)
	return geom.Line3{Origin: origin, Direction: direction}, true
}
