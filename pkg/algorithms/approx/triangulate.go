package approx

import (
	"cmp"
	"errors"
	"math"
	"slices"

	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/samber/lo"

	"github.com/chazu/kerf/pkg/geom"
)

// ErrTriangulation is returned for polygons that ear clipping can't handle,
// usually because their boundary intersects itself.
var ErrTriangulation = errors.New("approx: polygon can't be triangulated")

const collinearEpsilon = 1e-12

// triangulate splits a polygon with holes into triangles. Rings and
// triangles are given as indices into points. The triangles are wound like
// the exterior ring. With narrow set, ears spanning the smallest range of x
// are cut first.
func triangulate(points []v2.Vec, exterior []int, holes [][]int, narrow bool) ([][3]int, error) {
	outer := slices.Clone(exterior)
	flipped := ringArea(points, outer) < 0
	if flipped {
		slices.Reverse(outer)
	}

	rings := lo.Map(holes, func(hole []int, _ int) []int {
		ring := slices.Clone(hole)
		if ringArea(points, ring) > 0 {
			slices.Reverse(ring)
		}
		return ring
	})
	slices.SortFunc(rings, func(a, b []int) int {
		return cmp.Compare(points[b[rightmost(points, b)]].X, points[a[rightmost(points, a)]].X)
	})
	for _, hole := range rings {
		var err error
		if outer, err = bridge(points, outer, hole); err != nil {
			return nil, err
		}
	}

	triangles, err := clipEars(points, outer, narrow)
	if err != nil {
		return nil, err
	}
	if flipped {
		for i := range triangles {
			triangles[i][1], triangles[i][2] = triangles[i][2], triangles[i][1]
		}
	}
	return triangles, nil
}

func ringArea(points []v2.Vec, ring []int) float64 {
	return geom.SignedArea(lo.Map(ring, func(i int, _ int) v2.Vec { return points[i] }))
}

func rightmost(points []v2.Vec, ring []int) int {
	best := 0
	for i, p := range ring {
		if points[p].X > points[ring[best]].X {
			best = i
		}
	}
	return best
}

// bridge merges a clockwise hole into a counter-clockwise ring, by cutting
// from the hole's rightmost vertex to a vertex of the ring it can see.
func bridge(points []v2.Vec, outer, hole []int) ([]int, error) {
	m := rightmost(points, hole)
	mp := points[hole[m]]

	// Cast a ray from m in +x and find the closest ring edge it hits.
	target, hitX := -1, math.Inf(1)
	for i := range outer {
		a, b := points[outer[i]], points[outer[(i+1)%len(outer)]]
		if a.Y == b.Y || min(a.Y, b.Y) > mp.Y || max(a.Y, b.Y) < mp.Y {
			continue
		}
		x := a.X + (mp.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
		if x < mp.X || x >= hitX {
			continue
		}
		hitX = x
		switch {
		case a.Y == mp.Y:
			target = i
		case b.Y == mp.Y || b.X > a.X:
			target = (i + 1) % len(outer)
		default:
			target = i
		}
	}
	if target < 0 {
		return nil, ErrTriangulation
	}

	// A ring vertex inside the triangle between m, the hit and the target
	// would block the view. Take the one closest in angle to the ray.
	hit := v2.Vec{X: hitX, Y: mp.Y}
	tp := points[outer[target]]
	best := math.Inf(1)
	for i, p := range outer {
		q := points[p]
		if q == mp || q == tp || !inTriangle(q, mp, hit, tp) || !locallyInside(points, outer, i, mp) {
			continue
		}
		d := q.Sub(mp)
		if angle := math.Abs(math.Atan2(d.Y, d.X)); angle < best {
			best = angle
			target = i
		}
	}

	// Earlier bridges leave the same position in the ring more than once.
	// Cut at the copy whose corner opens towards m.
	if !locallyInside(points, outer, target, mp) {
		tp = points[outer[target]]
		for i, p := range outer {
			if points[p] == tp && locallyInside(points, outer, i, mp) {
				target = i
				break
			}
		}
	}

	out := make([]int, 0, len(outer)+len(hole)+2)
	out = append(out, outer[:target+1]...)
	out = append(out, hole[m:]...)
	out = append(out, hole[:m+1]...)
	out = append(out, outer[target:]...)
	return out, nil
}

// clipEars triangulates a counter-clockwise ring.
func clipEars(points []v2.Vec, ring []int, narrow bool) ([][3]int, error) {
	ring = slices.Clone(ring)
	var out [][3]int
	for len(ring) > 3 {
		ear, width := -1, math.Inf(1)
		for i := range ring {
			if !isEar(points, ring, i) {
				continue
			}
			if !narrow {
				ear = i
				break
			}
			if w := earWidth(points, ring, i); w < width {
				ear, width = i, w
			}
		}
		if ear < 0 {
			// Without an ear, only straight runs of vertices can be
			// removed.
			ear = slices.IndexFunc(lo.Range(len(ring)), func(i int) bool {
				return math.Abs(turn(points, ring, i)) <= collinearEpsilon
			})
			if ear < 0 {
				return nil, ErrTriangulation
			}
		} else {
			prev, next := (ear+len(ring)-1)%len(ring), (ear+1)%len(ring)
			out = append(out, [3]int{ring[prev], ring[ear], ring[next]})
		}
		ring = slices.Delete(ring, ear, ear+1)
	}
	if len(ring) == 3 && turn(points, ring, 1) > collinearEpsilon {
		out = append(out, [3]int{ring[0], ring[1], ring[2]})
	}
	return out, nil
}

func earWidth(points []v2.Vec, ring []int, i int) float64 {
	xs := lo.Map([]int{len(ring) - 1, 0, 1}, func(d int, _ int) float64 {
		return points[ring[(i+d)%len(ring)]].X
	})
	return lo.Max(xs) - lo.Min(xs)
}

// turn is positive where the ring turns left at vertex i.
func turn(points []v2.Vec, ring []int, i int) float64 {
	a := points[ring[(i+len(ring)-1)%len(ring)]]
	b := points[ring[i]]
	c := points[ring[(i+1)%len(ring)]]
	return geom.Cross2(b.Sub(a), c.Sub(b))
}

// isEar reports whether the corner at i can be cut off. Only reflex or
// straight vertices can sit inside a convex corner, and bridged rings repeat
// positions, so copies of the corner's own points are skipped.
func isEar(points []v2.Vec, ring []int, i int) bool {
	if turn(points, ring, i) <= collinearEpsilon {
		return false
	}
	a := points[ring[(i+len(ring)-1)%len(ring)]]
	b, c := points[ring[i]], points[ring[(i+1)%len(ring)]]
	for j, p := range ring {
		q := points[p]
		if q == a || q == b || q == c || turn(points, ring, j) > collinearEpsilon {
			continue
		}
		if inTriangle(q, a, b, c) {
			return false
		}
	}
	return true
}

// locallyInside reports whether p lies inside the ring's corner at vertex i.
func locallyInside(points []v2.Vec, ring []int, i int, p v2.Vec) bool {
	prev := points[ring[(i+len(ring)-1)%len(ring)]]
	v, next := points[ring[i]], points[ring[(i+1)%len(ring)]]
	leftOfNext := geom.Cross2(next.Sub(v), p.Sub(v)) > 0
	leftOfPrev := geom.Cross2(v.Sub(prev), p.Sub(v)) > 0
	if turn(points, ring, i) > 0 {
		return leftOfNext && leftOfPrev
	}
	return leftOfNext || leftOfPrev
}

// inTriangle reports whether p lies inside or on the border of a triangle.
func inTriangle(p, a, b, c v2.Vec) bool {
	d1 := geom.Cross2(b.Sub(a), p.Sub(a))
	d2 := geom.Cross2(c.Sub(b), p.Sub(b))
	d3 := geom.Cross2(a.Sub(c), p.Sub(c))
	negative := d1 < 0 || d2 < 0 || d3 < 0
	positive := d1 > 0 || d2 > 0 || d3 > 0
	return !(negative && positive)
}
