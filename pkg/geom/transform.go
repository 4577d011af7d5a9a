package geom

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Transform is a 3D affine transform backed by an sdfx matrix.
type Transform struct {
	m sdf.M44
}

// Identity returns the transform that changes nothing.
func Identity() Transform {
	return Transform{m: sdf.Translate3d(v3.Vec{})}
}

// Translation returns a transform that moves points by v.
func Translation(v v3.Vec) Transform {
	return Transform{m: sdf.Translate3d(v)}
}

// Rotation returns a right-handed rotation about the axis of axisAngle, by
// an angle (in radians) equal to its length. A zero vector is the identity.
func Rotation(axisAngle v3.Vec) Transform {
	angle := axisAngle.Length()
	if angle == 0 {
		return Identity()
	}
	return Transform{m: sdf.Rotate3d(axisAngle.MulScalar(1/angle), angle)}
}

// RotationXYZ rotates about x, then y, then z. Angles are in radians.
func RotationXYZ(x, y, z float64) Transform {
	return Transform{m: sdf.RotateZ(z).Mul(sdf.RotateY(y)).Mul(sdf.RotateX(x))}
}

// Then returns the transform that applies t first and next afterwards.
func (t Transform) Then(next Transform) Transform {
	return Transform{m: next.m.Mul(t.m)}
}

// Point transforms a position.
func (t Transform) Point(p v3.Vec) v3.Vec {
	return t.m.MulPosition(p)
}

// Vector transforms a direction; translation does not apply.
func (t Transform) Vector(v v3.Vec) v3.Vec {
	return t.m.MulPosition(v).Sub(t.m.MulPosition(v3.Vec{}))
}

// Matrix exposes the underlying sdfx matrix.
func (t Transform) Matrix() sdf.M44 {
	return t.m
}
