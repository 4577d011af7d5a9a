package intersect

import (
	"github.com/chazu/kerf/pkg/objects"
	"github.com/chazu/kerf/pkg/storage"
)

// FaceFaceIntersection describes where two faces meet: the intersection
// line in the coordinates of each face's surface, and the intervals along
// it that lie inside both faces.
type FaceFaceIntersection struct {
	IntersectionCurves    [2]storage.Handle[objects.Curve]
	IntersectionIntervals CurveFaceIntersection
}

// FaceFace intersects two faces. The second result is false if the faces'
// surfaces are parallel or the faces don't overlap along their intersection
// line.
func FaceFace(objs *objects.Objects, faces [2]storage.Handle[objects.Face], opts Options) (FaceFaceIntersection, bool, error) {
	surfaces := [2]storage.Handle[objects.Surface]{
		faces[0].Get().Surface(),
		faces[1].Get().Surface(),
	}
	ss, ok, err := SurfaceSurface(objs, surfaces, opts)
	if err != nil || !ok {
		return FaceFaceIntersection{}, false, err
	}

	var intervals [2]CurveFaceIntersection
	for i, curve := range ss.IntersectionCurves {
		intervals[i], err = CurveFace(curve, faces[i])
		if err != nil {
			return FaceFaceIntersection{}, false, err
		}
	}

	merged := intervals[0].Merge(intervals[1])
	if merged.IsEmpty() {
		return FaceFaceIntersection{}, false, nil
	}
	return FaceFaceIntersection{
		IntersectionCurves:    ss.IntersectionCurves,
		IntersectionIntervals: merged,
	}, true, nil
}
