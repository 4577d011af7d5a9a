package partial

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/objects"
	"github.com/chazu/kerf/pkg/storage"
)

// Surface is a partial objects.Surface.
type Surface struct {
	Geometry *geom.SurfaceGeometry

	memo[objects.Surface]
}

// SurfaceFrom creates a partial that builds into h.
func SurfaceFrom(h storage.Handle[objects.Surface]) *Surface {
	return &Surface{
		Geometry: lo.ToPtr(h.Get().Geometry()),
		memo:     memo[objects.Surface]{built: h},
	}
}

// UpdateAsPlaneFromPoints defines the surface as the plane through three
// points and returns their surface coordinates.
func (p *Surface) UpdateAsPlaneFromPoints(points [3]v3.Vec) [3]v2.Vec {
	plane := geom.PlaneFromPoints(points[0], points[1], points[2])
	p.Geometry = lo.ToPtr(plane.SurfaceGeometry())
	return [3]v2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
}

// MergeWith combines two partials, preferring values already present in p.
func (p *Surface) MergeWith(other *Surface) *Surface {
	if other == nil {
		return p
	}
	return &Surface{
		Geometry: first(p.Geometry, other.Geometry),
		memo:     mergeMemo(p.memo, other.memo),
	}
}

// Build creates the surface.
func (p *Surface) Build(objs *objects.Objects) storage.Handle[objects.Surface] {
	return p.build(objs.Surfaces.Store, func() objects.Surface {
		if p.Geometry == nil {
			panic(missing("surface", "geometry"))
		}
		return objects.NewSurface(*p.Geometry)
	})
}

// Curve is a partial objects.Curve.
type Curve struct {
	Surface    *Surface
	Path       *geom.SurfacePath
	GlobalForm *GlobalCurve

	memo[objects.Curve]
}

// CurveFrom creates a partial that builds into h.
func CurveFrom(h storage.Handle[objects.Curve]) *Curve {
	curve := h.Get()
	return &Curve{
		Surface:    SurfaceFrom(curve.Surface()),
		Path:       lo.ToPtr(curve.Path()),
		GlobalForm: GlobalCurveFrom(curve.GlobalForm()),
		memo:       memo[objects.Curve]{built: h},
	}
}

// UpdateAsUAxis makes the curve the u axis of its surface.
func (p *Curve) UpdateAsUAxis() geom.SurfacePath {
	return p.setPath(geom.UAxis())
}

// UpdateAsVAxis makes the curve the v axis of its surface.
func (p *Curve) UpdateAsVAxis() geom.SurfacePath {
	return p.setPath(geom.VAxis())
}

// UpdateAsCircleFromRadius makes the curve a circle around the surface
// origin.
func (p *Curve) UpdateAsCircleFromRadius(radius float64) geom.SurfacePath {
	return p.UpdateAsCircleFromCenterAndRadius(v2.Vec{}, radius)
}

// UpdateAsCircleFromCenterAndRadius makes the curve a circle.
func (p *Curve) UpdateAsCircleFromCenterAndRadius(center v2.Vec, radius float64) geom.SurfacePath {
	return p.setPath(geom.SurfacePathFromCircle(geom.Circle2FromCenterAndRadius(center, radius)))
}

// UpdateAsLineFromPoints makes the curve the line through two points, with
// the first at curve coordinate 0 and the second at 1.
func (p *Curve) UpdateAsLineFromPoints(points [2]v2.Vec) geom.SurfacePath {
	return p.setPath(geom.SurfacePathFromLine(geom.Line2FromPoints(points[0], points[1])))
}

// UpdateAsLineFromPointsWithLineCoords makes the curve the line through two
// points, each placed at the given curve coordinate.
func (p *Curve) UpdateAsLineFromPointsWithLineCoords(points [2]geom.LinePoint2) geom.SurfacePath {
	return p.setPath(geom.SurfacePathFromLine(geom.Line2FromPointsWithLineCoords(points[0], points[1])))
}

func (p *Curve) setPath(path geom.SurfacePath) geom.SurfacePath {
	p.Path = &path
	return path
}

// MergeWith combines two partials, preferring values already present in p.
func (p *Curve) MergeWith(other *Curve) *Curve {
	if other == nil {
		return p
	}
	return &Curve{
		Surface:    mergeSurface(p.Surface, other.Surface),
		Path:       first(p.Path, other.Path),
		GlobalForm: first(p.GlobalForm, other.GlobalForm),
		memo:       mergeMemo(p.memo, other.memo),
	}
}

// Build creates the curve. A missing global form defaults to a new global
// curve.
func (p *Curve) Build(objs *objects.Objects) storage.Handle[objects.Curve] {
	return p.build(objs.Curves, func() objects.Curve {
		if p.Surface == nil {
			panic(missing("curve", "surface"))
		}
		if p.Path == nil {
			panic(missing("curve", "path"))
		}
		if p.GlobalForm == nil {
			p.GlobalForm = &GlobalCurve{}
		}
		return objects.NewCurve(p.Surface.Build(objs), *p.Path, p.GlobalForm.Build(objs))
	})
}

func mergeSurface(a, b *Surface) *Surface {
	if a == nil || b == nil || a == b {
		return first(a, b)
	}
	return a.MergeWith(b)
}
