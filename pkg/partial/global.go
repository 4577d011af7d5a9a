package partial

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"

	"github.com/chazu/kerf/pkg/objects"
	"github.com/chazu/kerf/pkg/storage"
)

// GlobalVertex is a partial objects.GlobalVertex.
type GlobalVertex struct {
	Position *v3.Vec

	memo[objects.GlobalVertex]
}

// GlobalVertexFrom creates a partial that builds into h.
func GlobalVertexFrom(h storage.Handle[objects.GlobalVertex]) *GlobalVertex {
	return &GlobalVertex{
		Position: lo.ToPtr(h.Get().Position()),
		memo:     memo[objects.GlobalVertex]{built: h},
	}
}

// MergeWith combines two partials, preferring values already present in p.
func (p *GlobalVertex) MergeWith(other *GlobalVertex) *GlobalVertex {
	if other == nil {
		return p
	}
	return &GlobalVertex{
		Position: first(p.Position, other.Position),
		memo:     mergeMemo(p.memo, other.memo),
	}
}

// Build creates the global vertex.
func (p *GlobalVertex) Build(objs *objects.Objects) storage.Handle[objects.GlobalVertex] {
	return p.build(objs.GlobalVertices, func() objects.GlobalVertex {
		if p.Position == nil {
			panic(missing("global vertex", "position"))
		}
		return objects.NewGlobalVertex(*p.Position)
	})
}

// GlobalCurve is a partial objects.GlobalCurve. It carries no data; sharing
// one *GlobalCurve between partials makes them share the built curve.
type GlobalCurve struct {
	memo[objects.GlobalCurve]
}

// GlobalCurveFrom creates a partial that builds into h.
func GlobalCurveFrom(h storage.Handle[objects.GlobalCurve]) *GlobalCurve {
	return &GlobalCurve{memo: memo[objects.GlobalCurve]{built: h}}
}

// Build creates the global curve.
func (p *GlobalCurve) Build(objs *objects.Objects) storage.Handle[objects.GlobalCurve] {
	return p.build(objs.GlobalCurves, func() objects.GlobalCurve {
		return objects.GlobalCurve{}
	})
}

// GlobalEdge is a partial objects.GlobalEdge.
type GlobalEdge struct {
	Curve    *GlobalCurve
	Vertices [2]*GlobalVertex

	memo[objects.GlobalEdge]
}

// GlobalEdgeFrom creates a partial that builds into h.
func GlobalEdgeFrom(h storage.Handle[objects.GlobalEdge]) *GlobalEdge {
	edge := h.Get()
	vertices := edge.Vertices().AccessInNormalizedOrder()
	return &GlobalEdge{
		Curve:    GlobalCurveFrom(edge.Curve()),
		Vertices: [2]*GlobalVertex{GlobalVertexFrom(vertices[0]), GlobalVertexFrom(vertices[1])},
		memo:     memo[objects.GlobalEdge]{built: h},
	}
}

// UpdateFromCurveAndVertices takes the global curve and global vertices from
// the local forms of an edge.
func (p *GlobalEdge) UpdateFromCurveAndVertices(curve *Curve, vertices [2]*Vertex) {
	p.Curve = curve.GlobalForm
	for i, v := range vertices {
		p.Vertices[i] = v.SurfaceForm.GlobalForm
	}
}

// MergeWith combines two partials, preferring values already present in p.
func (p *GlobalEdge) MergeWith(other *GlobalEdge) *GlobalEdge {
	if other == nil {
		return p
	}
	merged := &GlobalEdge{
		Curve: first(p.Curve, other.Curve),
		memo:  mergeMemo(p.memo, other.memo),
	}
	for i := range merged.Vertices {
		merged.Vertices[i] = mergeGlobalVertex(p.Vertices[i], other.Vertices[i])
	}
	return merged
}

// Build creates the global edge and its dependencies.
func (p *GlobalEdge) Build(objs *objects.Objects) storage.Handle[objects.GlobalEdge] {
	return p.build(objs.GlobalEdges, func() objects.GlobalEdge {
		if p.Curve == nil {
			panic(missing("global edge", "curve"))
		}
		if p.Vertices[0] == nil || p.Vertices[1] == nil {
			panic(missing("global edge", "vertices"))
		}
		return objects.NewGlobalEdge(p.Curve.Build(objs), [2]storage.Handle[objects.GlobalVertex]{
			p.Vertices[0].Build(objs),
			p.Vertices[1].Build(objs),
		})
	})
}

func mergeGlobalVertex(a, b *GlobalVertex) *GlobalVertex {
	if a == nil || b == nil || a == b {
		return first(a, b)
	}
	return a.MergeWith(b)
}
