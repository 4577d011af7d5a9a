// Package approx approximates objects by points, line segments and
// triangles, within a given tolerance.
//
// An Approximator caches everything it computes by object identity. Edges
// shared by neighboring faces are therefore approximated once, and both
// faces get exactly the same points along them. One Approximator may be
// used from several goroutines.
package approx

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidTolerance is returned for tolerances that are not positive and
// finite.
var ErrInvalidTolerance = errors.New("approx: tolerance must be positive and finite")

// Tolerance is the largest distance an approximation may deviate from the
// approximated geometry, in model units.
type Tolerance float64

// NewTolerance checks v and converts it.
func NewTolerance(v float64) (Tolerance, error) {
	if !(v > 0) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidTolerance, v)
	}
	return Tolerance(v), nil
}

// NumberOfVertices returns how many vertices a regular polygon inscribed in
// a circle of the given radius needs so that it deviates from the circle by
// no more than tolerance. The result is at least 3.
func NumberOfVertices(tolerance Tolerance, radius float64) int {
	tol := float64(tolerance)
	if tol > radius/2 {
		return 3
	}
	// The subtraction keeps exact results like π/(π/3) from rounding up.
	n := math.Ceil(math.Pi/math.Acos(1-tol/radius) - 1e-12)
	return max(3, int(n))
}

// CalculateError returns the largest distance between a circle and a
// regular polygon with n vertices inscribed in it.
func CalculateError(radius float64, n int) float64 {
	return radius - radius*math.Cos(math.Pi/float64(n))
}
