package geom

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Circle2 is a circle in surface coordinates. A and B are perpendicular
// vectors of equal length; the circle coordinate t maps to
// Center + A*cos(t) + B*sin(t).
type Circle2 struct {
	Center v2.Vec
	A      v2.Vec
	B      v2.Vec
}

// Circle2FromCenterAndRadius creates a circle whose coordinate origin lies
// in the positive u direction from the center.
func Circle2FromCenterAndRadius(center v2.Vec, radius float64) Circle2 {
	return Circle2{
		Center: center,
		A:      v2.Vec{X: radius, Y: 0},
		B:      v2.Vec{X: 0, Y: radius},
	}
}

// Radius returns the radius of the circle.
func (c Circle2) Radius() float64 {
	return c.A.Length()
}

// PointFromCircleCoords converts a circle coordinate into a surface point.
func (c Circle2) PointFromCircleCoords(t float64) v2.Vec {
	return c.Center.Add(c.VectorFromCircleCoords(t))
}

// VectorFromCircleCoords returns the vector from the center to the point at
// circle coordinate t.
func (c Circle2) VectorFromCircleCoords(t float64) v2.Vec {
	return c.A.MulScalar(math.Cos(t)).Add(c.B.MulScalar(math.Sin(t)))
}

// PointToCircleCoords returns the circle coordinate of p in [0, 2π).
func (c Circle2) PointToCircleCoords(p v2.Vec) float64 {
	d := p.Sub(c.Center)
	x := d.Dot(c.A) / c.A.Dot(c.A)
	y := d.Dot(c.B) / c.B.Dot(c.B)
	return normalizeAngle(math.Atan2(y, x))
}

// Circle3 is a circle in model space.
type Circle3 struct {
	Center v3.Vec
	A      v3.Vec
	B      v3.Vec
}

// Circle3FromCenterAndRadius creates a circle in a plane parallel to xy.
func Circle3FromCenterAndRadius(center v3.Vec, radius float64) Circle3 {
	return Circle3{
		Center: center,
		A:      v3.Vec{X: radius},
		B:      v3.Vec{Y: radius},
	}
}

// Radius returns the radius of the circle.
func (c Circle3) Radius() float64 {
	return c.A.Length()
}

// PointFromCircleCoords converts a circle coordinate into a model point.
func (c Circle3) PointFromCircleCoords(t float64) v3.Vec {
	return c.Center.Add(c.VectorFromCircleCoords(t))
}

// VectorFromCircleCoords returns the vector from the center to the point at
// circle coordinate t.
func (c Circle3) VectorFromCircleCoords(t float64) v3.Vec {
	return c.A.MulScalar(math.Cos(t)).Add(c.B.MulScalar(math.Sin(t)))
}

// PointToCircleCoords returns the circle coordinate of p in [0, 2π).
func (c Circle3) PointToCircleCoords(p v3.Vec) float64 {
	d := p.Sub(c.Center)
	x := d.Dot(c.A) / c.A.Dot(c.A)
	y := d.Dot(c.B) / c.B.Dot(c.B)
	return normalizeAngle(math.Atan2(y, x))
}

// Transform applies t to the circle.
func (c Circle3) Transform(t Transform) Circle3 {
	return Circle3{
		Center: t.Point(c.Center),
		A:      t.Vector(c.A),
		B:      t.Vector(c.B),
	}
}

func normalizeAngle(a float64) float64 {
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
