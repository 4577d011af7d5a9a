// Package geom contains the geometric primitives of the kernel: lines,
// circles, paths, planes and surfaces, and the conversions between a
// surface's 2D coordinates and 3D model space.
//
// Points and vectors are sdfx vectors. Curve coordinates are plain float64.
package geom

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Line2 is an infinite line in surface coordinates. The line coordinate t
// maps to Origin + Direction*t.
type Line2 struct {
	Origin    v2.Vec
	Direction v2.Vec
}

// LinePoint2 pairs a point in surface coordinates with the line coordinate
// it should have.
type LinePoint2 struct {
	T     float64
	Point v2.Vec
}

// Line2FromPoints creates a line through a and b, with a at t=0 and b at t=1.
func Line2FromPoints(a, b v2.Vec) Line2 {
	return Line2{Origin: a, Direction: b.Sub(a)}
}

// Line2FromPointsWithLineCoords creates a line through two points, each of
// which is placed at the given line coordinate.
func Line2FromPointsWithLineCoords(a, b LinePoint2) Line2 {
	direction := b.Point.Sub(a.Point).MulScalar(1 / (b.T - a.T))
	origin := a.Point.Sub(direction.MulScalar(a.T))
	return Line2{Origin: origin, Direction: direction}
}

// PointFromLineCoords converts a line coordinate into a surface point.
func (l Line2) PointFromLineCoords(t float64) v2.Vec {
	return l.Origin.Add(l.Direction.MulScalar(t))
}

// VectorFromLineCoords converts a line-coordinate vector into a surface vector.
func (l Line2) VectorFromLineCoords(t float64) v2.Vec {
	return l.Direction.MulScalar(t)
}

// PointToLineCoords projects p onto the line and returns its line coordinate.
func (l Line2) PointToLineCoords(p v2.Vec) float64 {
	return p.Sub(l.Origin).Dot(l.Direction) / l.Direction.Dot(l.Direction)
}

// Reverse returns the same line, traversed in the opposite direction.
func (l Line2) Reverse() Line2 {
	return Line2{Origin: l.Origin, Direction: l.Direction.MulScalar(-1)}
}

// Line3 is an infinite line in model space.
type Line3 struct {
	Origin    v3.Vec
	Direction v3.Vec
}

// Line3FromPoints creates a line through a and b, with a at t=0 and b at t=1.
func Line3FromPoints(a, b v3.Vec) Line3 {
	return Line3{Origin: a, Direction: b.Sub(a)}
}

// PointFromLineCoords converts a line coordinate into a model point.
func (l Line3) PointFromLineCoords(t float64) v3.Vec {
	return l.Origin.Add(l.Direction.MulScalar(t))
}

// VectorFromLineCoords converts a line-coordinate vector into a model vector.
func (l Line3) VectorFromLineCoords(t float64) v3.Vec {
	return l.Direction.MulScalar(t)
}

// PointToLineCoords projects p onto the line and returns its line coordinate.
func (l Line3) PointToLineCoords(p v3.Vec) float64 {
	return p.Sub(l.Origin).Dot(l.Direction) / l.Direction.Dot(l.Direction)
}

// Transform applies t to the line.
func (l Line3) Transform(t Transform) Line3 {
	return Line3{
		Origin:    t.Point(l.Origin),
		Direction: t.Vector(l.Direction),
	}
}
