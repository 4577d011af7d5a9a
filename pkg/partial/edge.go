package partial

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/samber/lo"

	"github.com/chazu/kerf/pkg/objects"
	"github.com/chazu/kerf/pkg/storage"
)

// HalfEdge is a partial objects.HalfEdge. Both vertices refer to the same
// *Curve.
type HalfEdge struct {
	Vertices   [2]*Vertex
	GlobalForm *GlobalEdge

	memo[objects.HalfEdge]
}

// NewHalfEdge creates an empty partial half-edge whose two vertices share
// one curve.
func NewHalfEdge() *HalfEdge {
	curve := &Curve{GlobalForm: &GlobalCurve{}}
	newVertex := func() *Vertex {
		return &Vertex{
			Curve:       curve,
			SurfaceForm: &SurfaceVertex{GlobalForm: &GlobalVertex{}},
		}
	}
	return &HalfEdge{Vertices: [2]*Vertex{newVertex(), newVertex()}}
}

// HalfEdgeFrom creates a partial that builds into h.
func HalfEdgeFrom(h storage.Handle[objects.HalfEdge]) *HalfEdge {
	edge := h.Get()
	curve := CurveFrom(edge.Curve())
	return &HalfEdge{
		Vertices: [2]*Vertex{
			vertexFrom(edge.Back(), curve),
			vertexFrom(edge.Front(), curve),
		},
		GlobalForm: GlobalEdgeFrom(edge.GlobalForm()),
		memo:       memo[objects.HalfEdge]{built: h},
	}
}

// Curve returns the curve shared by the vertices.
func (p *HalfEdge) Curve() *Curve {
	return p.Vertices[0].Curve
}

// UpdateAsCircleFromRadius defines the half-edge as a full circle around
// the surface origin. The curve's surface must be set already.
func (p *HalfEdge) UpdateAsCircleFromRadius(radius float64) {
	p.UpdateAsCircleFromCenterAndRadius(v2.Vec{}, radius)
}

// UpdateAsCircleFromCenterAndRadius defines the half-edge as a full circle.
// Both vertices sit on the same surface vertex, at curve coordinates 0 and
// 2π.
func (p *HalfEdge) UpdateAsCircleFromCenterAndRadius(center v2.Vec, radius float64) {
	curve := p.Curve()
	path := curve.UpdateAsCircleFromCenterAndRadius(center, radius)

	surfaceVertex := &SurfaceVertex{
		Position:   lo.ToPtr(path.PointFromPathCoords(0)),
		Surface:    curve.Surface,
		GlobalForm: &GlobalVertex{},
	}
	for i, t := range [2]float64{0, 2 * math.Pi} {
		p.Vertices[i].Position = lo.ToPtr(t)
		p.Vertices[i].Curve = curve
		p.Vertices[i].SurfaceForm = surfaceVertex
	}

	p.InferGlobalForm()
}

// UpdateAsLineSegmentFromPoints defines the half-edge as the line segment
// between two points on surface.
func (p *HalfEdge) UpdateAsLineSegmentFromPoints(surface *Surface, points [2]v2.Vec) {
	for i, v := range p.Vertices {
		v.SurfaceForm.Position = lo.ToPtr(points[i])
		v.SurfaceForm.Surface = surface
	}
	p.UpdateAsLineSegment()
}

// UpdateAsLineSegment defines the half-edge as the line segment between
// the positions of its surface vertices, which must be set already.
func (p *HalfEdge) UpdateAsLineSegment() {
	var points [2]v2.Vec
	for i, v := range p.Vertices {
		if v.SurfaceForm == nil || v.SurfaceForm.Position == nil {
			panic(missing("line segment", "surface vertex position"))
		}
		points[i] = *v.SurfaceForm.Position
	}

	curve := p.Curve()
	if curve.Surface == nil {
		curve.Surface = p.Vertices[0].SurfaceForm.Surface
	}
	curve.UpdateAsLineFromPoints(points)

	for i, v := range p.Vertices {
		v.Position = lo.ToPtr(float64(i))
		v.Curve = curve
	}

	p.InferGlobalForm()
}

// InferGlobalForm replaces the global form with one derived from the curve
// and the vertices.
func (p *HalfEdge) InferGlobalForm() {
	edge := &GlobalEdge{}
	edge.UpdateFromCurveAndVertices(p.Curve(), p.Vertices)
	p.GlobalForm = edge
}

// MergeWith combines two partials, preferring values already present in p.
func (p *HalfEdge) MergeWith(other *HalfEdge) *HalfEdge {
	if other == nil {
		return p
	}
	merged := &HalfEdge{memo: mergeMemo(p.memo, other.memo)}
	for i := range merged.Vertices {
		a, b := p.Vertices[i], other.Vertices[i]
		if a == nil || b == nil || a == b {
			merged.Vertices[i] = first(a, b)
		} else {
			merged.Vertices[i] = a.MergeWith(b)
		}
	}
	if p.GlobalForm != nil && other.GlobalForm != nil && p.GlobalForm != other.GlobalForm {
		merged.GlobalForm = p.GlobalForm.MergeWith(other.GlobalForm)
	} else {
		merged.GlobalForm = first(p.GlobalForm, other.GlobalForm)
	}
	return merged
}

// Build creates the half-edge. A missing global form is inferred from the
// curve and the vertices.
func (p *HalfEdge) Build(objs *objects.Objects) storage.Handle[objects.HalfEdge] {
	return p.build(objs.HalfEdges, func() objects.HalfEdge {
		if p.Vertices[0] == nil || p.Vertices[1] == nil {
			panic(missing("half-edge", "vertices"))
		}
		vertices := [2]storage.Handle[objects.Vertex]{
			p.Vertices[0].Build(objs),
			p.Vertices[1].Build(objs),
		}
		if p.GlobalForm == nil {
			p.InferGlobalForm()
		}
		return objects.NewHalfEdge(vertices, p.GlobalForm.Build(objs))
	})
}
