package geom

import (
	"fmt"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// PathKind tags which primitive a path holds.
type PathKind int

const (
	PathLine PathKind = iota
	PathCircle
)

func (k PathKind) String() string {
	switch k {
	case PathLine:
		return "line"
	case PathCircle:
		return "circle"
	}
	return fmt.Sprintf("PathKind(%d)", int(k))
}

// SurfacePath is a line or circle in surface coordinates. Only the field
// matching Kind is meaningful. SurfacePath values are comparable.
type SurfacePath struct {
	Kind   PathKind
	Line   Line2
	Circle Circle2
}

// SurfacePathFromLine wraps a line.
func SurfacePathFromLine(l Line2) SurfacePath {
	return SurfacePath{Kind: PathLine, Line: l}
}

// SurfacePathFromCircle wraps a circle.
func SurfacePathFromCircle(c Circle2) SurfacePath {
	return SurfacePath{Kind: PathCircle, Circle: c}
}

// UAxis is the line along the u axis of a surface.
func UAxis() SurfacePath {
	return SurfacePathFromLine(Line2{Direction: v2.Vec{X: 1}})
}

// VAxis is the line along the v axis of a surface.
func VAxis() SurfacePath {
	return SurfacePathFromLine(Line2{Direction: v2.Vec{Y: 1}})
}

// PointFromPathCoords converts a path coordinate into a surface point.
func (p SurfacePath) PointFromPathCoords(t float64) v2.Vec {
	if p.Kind == PathCircle {
		return p.Circle.PointFromCircleCoords(t)
	}
	return p.Line.PointFromLineCoords(t)
}

// PointToPathCoords returns the path coordinate of a surface point on the path.
func (p SurfacePath) PointToPathCoords(point v2.Vec) float64 {
	if p.Kind == PathCircle {
		return p.Circle.PointToCircleCoords(point)
	}
	return p.Line.PointToLineCoords(point)
}

func (p SurfacePath) String() string {
	if p.Kind == PathCircle {
		return fmt.Sprintf("circle(center=%v, a=%v, b=%v)", p.Circle.Center, p.Circle.A, p.Circle.B)
	}
	return fmt.Sprintf("line(origin=%v, direction=%v)", p.Line.Origin, p.Line.Direction)
}

// GlobalPath is a line or circle in model space.
type GlobalPath struct {
	Kind   PathKind
	Line   Line3
	Circle Circle3
}

// GlobalPathFromLine wraps a line.
func GlobalPathFromLine(l Line3) GlobalPath {
	return GlobalPath{Kind: PathLine, Line: l}
}

// GlobalPathFromCircle wraps a circle.
func GlobalPathFromCircle(c Circle3) GlobalPath {
	return GlobalPath{Kind: PathCircle, Circle: c}
}

// XAxis, YAxis and ZAxis are the model space axes as paths.
func XAxis() GlobalPath { return GlobalPathFromLine(Line3{Direction: v3.Vec{X: 1}}) }
func YAxis() GlobalPath { return GlobalPathFromLine(Line3{Direction: v3.Vec{Y: 1}}) }
func ZAxis() GlobalPath { return GlobalPathFromLine(Line3{Direction: v3.Vec{Z: 1}}) }

// PointFromPathCoords converts a path coordinate into a model point.
func (p GlobalPath) PointFromPathCoords(t float64) v3.Vec {
	if p.Kind == PathCircle {
		return p.Circle.PointFromCircleCoords(t)
	}
	return p.Line.PointFromLineCoords(t)
}

// VectorFromPathCoords converts a path-coordinate vector into a model vector.
// For circles the vector is taken relative to the circle center.
func (p GlobalPath) VectorFromPathCoords(t float64) v3.Vec {
	if p.Kind == PathCircle {
		return p.Circle.VectorFromCircleCoords(t)
	}
	return p.Line.VectorFromLineCoords(t)
}

// Transform applies t to the path.
func (p GlobalPath) Transform(t Transform) GlobalPath {
	if p.Kind == PathCircle {
		return GlobalPathFromCircle(p.Circle.Transform(t))
	}
	return GlobalPathFromLine(p.Line.Transform(t))
}
