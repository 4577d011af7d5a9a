package geom

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// SurfaceGeometry describes a surface as the path U swept along the vector
// V. Surface coordinates (u, v) map to U(u) + V*v.
type SurfaceGeometry struct {
	U GlobalPath
	V v3.Vec
}

// PointFromSurfaceCoords converts surface coordinates into a model point.
func (s SurfaceGeometry) PointFromSurfaceCoords(p v2.Vec) v3.Vec {
	return s.U.PointFromPathCoords(p.X).Add(s.V.MulScalar(p.Y))
}

// VectorFromSurfaceCoords converts a surface vector into a model vector.
func (s SurfaceGeometry) VectorFromSurfaceCoords(v v2.Vec) v3.Vec {
	return s.U.VectorFromPathCoords(v.X).Add(s.V.MulScalar(v.Y))
}

// Plane returns the plane spanned by the surface. The second result is false
// if the surface is curved.
func (s SurfaceGeometry) Plane() (Plane, bool) {
	if s.U.Kind != PathLine {
		return Plane{}, false
	}
	return Plane{Origin: s.U.Line.Origin, U: s.U.Line.Direction, V: s.V}, true
}

// Transform applies t to the surface.
func (s SurfaceGeometry) Transform(t Transform) SurfaceGeometry {
	return SurfaceGeometry{U: s.U.Transform(t), V: t.Vector(s.V)}
}

// Plane is an infinite plane through Origin, spanned by U and V. U and V
// need not be unit length or orthogonal, only linearly independent.
type Plane struct {
	Origin v3.Vec
	U      v3.Vec
	V      v3.Vec
}

// PlaneFromPoints creates the plane through three points, with a as origin.
func PlaneFromPoints(a, b, c v3.Vec) Plane {
	return Plane{Origin: a, U: b.Sub(a), V: c.Sub(a)}
}

// Normal returns the unit normal U × V.
func (p Plane) Normal() v3.Vec {
	return p.U.Cross(p.V).Normalize()
}

// ConstantNormalForm returns the plane as n·x = d with unit normal n.
func (p Plane) ConstantNormalForm() (distance float64, normal v3.Vec) {
	normal = p.Normal()
	return normal.Dot(p.Origin), normal
}

// ProjectVector expresses a model vector in the plane's (U, V) basis. The
// component along the normal is discarded.
func (p Plane) ProjectVector(v v3.Vec) v2.Vec {
	uu := p.U.Dot(p.U)
	uv := p.U.Dot(p.V)
	vv := p.V.Dot(p.V)
	du := v.Dot(p.U)
	dv := v.Dot(p.V)

	det := uu*vv - uv*uv
	return v2.Vec{
		X: (du*vv - dv*uv) / det,
		Y: (dv*uu - du*uv) / det,
	}
}

// ProjectPoint returns the surface coordinates of the point of the plane
// closest to p.
func (p Plane) ProjectPoint(point v3.Vec) v2.Vec {
	return p.ProjectVector(point.Sub(p.Origin))
}

// ProjectLine projects a model space line into the plane's coordinates.
func (p Plane) ProjectLine(l Line3) Line2 {
	return Line2{
		Origin:    p.ProjectPoint(l.Origin),
		Direction: p.ProjectVector(l.Direction),
	}
}

// SurfaceGeometry returns the plane as a surface with a line as u path.
func (p Plane) SurfaceGeometry() SurfaceGeometry {
	return SurfaceGeometry{
		U: GlobalPathFromLine(Line3{Origin: p.Origin, Direction: p.U}),
		V: p.V,
	}
}

// GlobalPath converts a path in surface coordinates into model space. This
// is only possible on planes; the second result is false on curved
// surfaces.
func (s SurfaceGeometry) GlobalPath(p SurfacePath) (GlobalPath, bool) {
	if s.U.Kind != PathLine {
		return GlobalPath{}, false
	}
	if p.Kind == PathCircle {
		return GlobalPathFromCircle(Circle3{
			Center: s.PointFromSurfaceCoords(p.Circle.Center),
			A:      s.VectorFromSurfaceCoords(p.Circle.A),
			B:      s.VectorFromSurfaceCoords(p.Circle.B),
		}), true
	}
	return GlobalPathFromLine(Line3{
		Origin:    s.PointFromSurfaceCoords(p.Line.Origin),
		Direction: s.VectorFromSurfaceCoords(p.Line.Direction),
	}), true
}
