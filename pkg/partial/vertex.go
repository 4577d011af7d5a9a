package partial

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/samber/lo"

	"github.com/chazu/kerf/pkg/objects"
	"github.com/chazu/kerf/pkg/storage"
)

// SurfaceVertex is a partial objects.SurfaceVertex.
type SurfaceVertex struct {
	Position   *v2.Vec
	Surface    *Surface
	GlobalForm *GlobalVertex

	memo[objects.SurfaceVertex]
}

// SurfaceVertexFrom creates a partial that builds into h.
func SurfaceVertexFrom(h storage.Handle[objects.SurfaceVertex]) *SurfaceVertex {
	sv := h.Get()
	return &SurfaceVertex{
		Position:   lo.ToPtr(sv.Position()),
		Surface:    SurfaceFrom(sv.Surface()),
		GlobalForm: GlobalVertexFrom(sv.GlobalForm()),
		memo:       memo[objects.SurfaceVertex]{built: h},
	}
}

// MergeWith combines two partials, preferring values already present in p.
func (p *SurfaceVertex) MergeWith(other *SurfaceVertex) *SurfaceVertex {
	if other == nil {
		return p
	}
	return &SurfaceVertex{
		Position:   first(p.Position, other.Position),
		Surface:    mergeSurface(p.Surface, other.Surface),
		GlobalForm: mergeGlobalVertex(p.GlobalForm, other.GlobalForm),
		memo:       mergeMemo(p.memo, other.memo),
	}
}

// Build creates the surface vertex. A missing global form, or a global form
// without position, is derived from the surface position.
func (p *SurfaceVertex) Build(objs *objects.Objects) storage.Handle[objects.SurfaceVertex] {
	return p.build(objs.SurfaceVertices, func() objects.SurfaceVertex {
		if p.Position == nil {
			panic(missing("surface vertex", "position"))
		}
		if p.Surface == nil {
			panic(missing("surface vertex", "surface"))
		}
		surface := p.Surface.Build(objs)

		if p.GlobalForm == nil {
			p.GlobalForm = &GlobalVertex{}
		}
		if p.GlobalForm.Position == nil {
			position := surface.Get().Geometry().PointFromSurfaceCoords(*p.Position)
			p.GlobalForm.Position = &position
		}

		return objects.NewSurfaceVertex(*p.Position, surface, p.GlobalForm.Build(objs))
	})
}

// Vertex is a partial objects.Vertex.
type Vertex struct {
	Position    *float64
	Curve       *Curve
	SurfaceForm *SurfaceVertex

	memo[objects.Vertex]
}

// VertexFrom creates a partial that builds into h.
func VertexFrom(h storage.Handle[objects.Vertex]) *Vertex {
	return vertexFrom(h, CurveFrom(h.Get().Curve()))
}

func vertexFrom(h storage.Handle[objects.Vertex], curve *Curve) *Vertex {
	v := h.Get()
	return &Vertex{
		Position:    lo.ToPtr(v.Position()),
		Curve:       curve,
		SurfaceForm: SurfaceVertexFrom(v.SurfaceForm()),
		memo:        memo[objects.Vertex]{built: h},
	}
}

// MergeWith combines two partials, preferring values already present in p.
func (p *Vertex) MergeWith(other *Vertex) *Vertex {
	if other == nil {
		return p
	}
	merged := &Vertex{
		Position: first(p.Position, other.Position),
		memo:     mergeMemo(p.memo, other.memo),
	}
	switch {
	case p.Curve == nil || other.Curve == nil || p.Curve == other.Curve:
		merged.Curve = first(p.Curve, other.Curve)
	default:
		merged.Curve = p.Curve.MergeWith(other.Curve)
	}
	switch {
	case p.SurfaceForm == nil || other.SurfaceForm == nil || p.SurfaceForm == other.SurfaceForm:
		merged.SurfaceForm = first(p.SurfaceForm, other.SurfaceForm)
	default:
		merged.SurfaceForm = p.SurfaceForm.MergeWith(other.SurfaceForm)
	}
	return merged
}

// Build creates the vertex. The surface form defaults to the point of the
// curve at the vertex position, on the curve's surface.
func (p *Vertex) Build(objs *objects.Objects) storage.Handle[objects.Vertex] {
	return p.build(objs.Vertices, func() objects.Vertex {
		if p.Position == nil {
			panic(missing("vertex", "position"))
		}
		if p.Curve == nil {
			panic(missing("vertex", "curve"))
		}
		curve := p.Curve.Build(objs)

		if p.SurfaceForm == nil {
			p.SurfaceForm = &SurfaceVertex{}
		}
		if p.SurfaceForm.Position == nil {
			position := curve.Get().Path().PointFromPathCoords(*p.Position)
			p.SurfaceForm.Position = &position
		}
		if p.SurfaceForm.Surface == nil {
			p.SurfaceForm.Surface = p.Curve.Surface
		}

		return objects.NewVertex(*p.Position, curve, p.SurfaceForm.Build(objs))
	})
}
