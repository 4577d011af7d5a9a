package approx

import (
	"math"
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/kerf/pkg/geom"
)

func square(x0, y0, x1, y1 float64) []v2.Vec {
	return []v2.Vec{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

func regular(center v2.Vec, r float64, n int) []v2.Vec {
	return lo.Times(n, func(i int) v2.Vec {
		a := 2 * math.Pi * float64(i) / float64(n)
		return v2.Vec{X: center.X + r*math.Cos(a), Y: center.Y + r*math.Sin(a)}
	})
}

// polygon flattens rings into one point list with index rings.
func polygon(exterior []v2.Vec, holes ...[]v2.Vec) ([]v2.Vec, []int, [][]int) {
	var points []v2.Vec
	ring := func(r []v2.Vec) []int {
		start := len(points)
		points = append(points, r...)
		return lo.Range(len(points))[start:]
	}
	return points, ring(exterior), lo.Map(holes, func(h []v2.Vec, _ int) []int { return ring(h) })
}

func TestTriangulateHoles(t *testing.T) {
	tests := []struct {
		name     string
		exterior []v2.Vec
		holes    [][]v2.Vec
	}{
		{"one hole", square(0, 0, 3, 3), [][]v2.Vec{square(1, 1, 2, 2)}},
		{"two holes in a row", square(0, 0, 5, 3), [][]v2.Vec{square(1, 1, 2, 2), square(3, 1, 4, 2)}},
		{"second hole shorter", square(0, 0, 5, 3), [][]v2.Vec{square(1, 1, 2, 2), square(3, 1, 4, 1.5)}},
		{"diagonal holes", square(0, 0, 10, 10), [][]v2.Vec{square(2, 2, 4, 4), square(6, 6, 8, 8)}},
		{"stacked holes", square(0, 0, 3, 7), [][]v2.Vec{square(1, 1, 2, 2), square(1, 3, 2, 4), square(1, 5, 2, 6)}},
		{"grid of holes", square(0, 0, 7, 7), lo.FlatMap(lo.Range(3), func(i int, _ int) [][]v2.Vec {
			return lo.Map(lo.Range(3), func(j int, _ int) []v2.Vec {
				x, y := float64(1+2*i), float64(1+2*j)
				return square(x, y, x+1, y+1)
			})
		})},
		{"round holes", square(0, 0, 10, 4), [][]v2.Vec{
			regular(v2.Vec{X: 2, Y: 2}, 1, 23),
			regular(v2.Vec{X: 5, Y: 2}, 1, 23),
			regular(v2.Vec{X: 8, Y: 2}, 1, 23),
		}},
		{"clockwise exterior", []v2.Vec{{X: 0, Y: 0}, {X: 0, Y: 3}, {X: 5, Y: 3}, {X: 5, Y: 0}}, [][]v2.Vec{square(1, 1, 2, 2), square(3, 1, 4, 2)}},
	}
	for _, tt := range tests {
		for _, narrow := range []bool{false, true} {
			points, exterior, holes := polygon(tt.exterior, tt.holes...)
			want := math.Abs(geom.SignedArea(tt.exterior))
			for _, h := range tt.holes {
				want -= math.Abs(geom.SignedArea(h))
			}
			sign := math.Copysign(1, geom.SignedArea(tt.exterior))

			triangles, err := triangulate(points, exterior, holes, narrow)
			require.NoError(t, err, "%s, narrow %v", tt.name, narrow)
			var area float64
			for _, tri := range triangles {
				a := geom.SignedArea([]v2.Vec{points[tri[0]], points[tri[1]], points[tri[2]]}) * sign
				assert.Positive(t, a, "%s: triangle %v is wound the wrong way", tt.name, tri)
				area += a
			}
			assert.InDelta(t, want, area, 1e-9, "%s, narrow %v", tt.name, narrow)
		}
	}
}

func TestTriangulateNarrowStrip(t *testing.T) {
	// A long strip sampled along both sides, like an unrolled cylinder wall.
	var exterior []v2.Vec
	for x := range 9 {
		exterior = append(exterior, v2.Vec{X: float64(x)})
	}
	for x := 8; x >= 0; x-- {
		exterior = append(exterior, v2.Vec{X: float64(x), Y: 1})
	}
	points, ring, _ := polygon(exterior)

	triangles, err := triangulate(points, ring, nil, true)
	require.NoError(t, err)
	assert.Len(t, triangles, 16)
	for _, tri := range triangles {
		assert.LessOrEqual(t, earWidth(points, tri[:], 1), 1.0, "triangle %v", tri)
	}
}
