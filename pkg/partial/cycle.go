package partial

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/samber/lo"

	"github.com/chazu/kerf/pkg/objects"
	"github.com/chazu/kerf/pkg/storage"
)

// Cycle is a partial objects.Cycle.
type Cycle struct {
	HalfEdges []*HalfEdge

	memo[objects.Cycle]
}

// CycleFrom creates a partial that builds into h.
func CycleFrom(h storage.Handle[objects.Cycle]) *Cycle {
	return &Cycle{
		HalfEdges: lo.Map(h.Get().HalfEdges(), func(e storage.Handle[objects.HalfEdge], _ int) *HalfEdge {
			return HalfEdgeFrom(e)
		}),
		memo: memo[objects.Cycle]{built: h},
	}
}

// AddHalfEdge appends a half-edge to the cycle.
func (p *Cycle) AddHalfEdge(edge *HalfEdge) *Cycle {
	p.HalfEdges = append(p.HalfEdges, edge)
	return p
}

// UpdateAsPolygonFromPoints replaces the half-edges with the line segments
// of a closed polygon on surface. Neighboring half-edges share their surface
// vertex.
func (p *Cycle) UpdateAsPolygonFromPoints(surface *Surface, points []v2.Vec) *Cycle {
	if len(points) < 3 {
		panic(missing("polygon", "third point"))
	}

	corners := lo.Map(points, func(point v2.Vec, _ int) *SurfaceVertex {
		return &SurfaceVertex{
			Position:   lo.ToPtr(point),
			Surface:    surface,
			GlobalForm: &GlobalVertex{},
		}
	})

	p.HalfEdges = make([]*HalfEdge, len(corners))
	for i := range corners {
		edge := NewHalfEdge()
		edge.Curve().Surface = surface
		edge.Vertices[0].SurfaceForm = corners[i]
		edge.Vertices[1].SurfaceForm = corners[(i+1)%len(corners)]
		edge.UpdateAsLineSegment()
		p.HalfEdges[i] = edge
	}
	return p
}

// Surface returns the surface of the first half-edge, or nil.
func (p *Cycle) Surface() *Surface {
	if len(p.HalfEdges) == 0 {
		return nil
	}
	return p.HalfEdges[0].Curve().Surface
}

// MergeWith combines two partials, preferring values already present in p.
func (p *Cycle) MergeWith(other *Cycle) *Cycle {
	if other == nil {
		return p
	}
	merged := &Cycle{HalfEdges: p.HalfEdges, memo: mergeMemo(p.memo, other.memo)}
	if len(merged.HalfEdges) == 0 {
		merged.HalfEdges = other.HalfEdges
	}
	return merged
}

// Build creates the cycle and its half-edges.
func (p *Cycle) Build(objs *objects.Objects) storage.Handle[objects.Cycle] {
	return p.build(objs.Cycles, func() objects.Cycle {
		if len(p.HalfEdges) == 0 {
			panic(missing("cycle", "half-edges"))
		}
		return objects.NewCycle(lo.Map(p.HalfEdges, func(e *HalfEdge, _ int) storage.Handle[objects.HalfEdge] {
			return e.Build(objs)
		}))
	})
}
