package geom

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Triangle is a triangle in model space, wound counter-clockwise when seen
// from the side its normal points to.
type Triangle [3]v3.Vec

// Normal returns the unit normal of the triangle, or the zero vector for a
// degenerate triangle.
func (t Triangle) Normal() v3.Vec {
	n := t[1].Sub(t[0]).Cross(t[2].Sub(t[0]))
	l := n.Length()
	if l == 0 {
		return v3.Vec{}
	}
	return n.MulScalar(1 / l)
}

// Area returns the area of the triangle.
func (t Triangle) Area() float64 {
	return t[1].Sub(t[0]).Cross(t[2].Sub(t[0])).Length() / 2
}

// BoundingBox returns the axis-aligned box around points. The box of no
// points is the zero box.
func BoundingBox(points []v3.Vec) sdf.Box3 {
	if len(points) == 0 {
		return sdf.Box3{}
	}
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		lo = v3.Vec{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = v3.Vec{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}
	return sdf.Box3{Min: lo, Max: hi}
}

// Cross2 is the z component of the 3D cross product of two surface vectors.
func Cross2(a, b v2.Vec) float64 {
	return a.X*b.Y - a.Y*b.X
}

// SignedArea returns twice the signed area of a closed polygon; positive
// for counter-clockwise winding.
func SignedArea(polygon []v2.Vec) float64 {
	var sum float64
	for i, p := range polygon {
		q := polygon[(i+1)%len(polygon)]
		sum += Cross2(p, q)
	}
	return sum
}
