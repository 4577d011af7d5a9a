package partial

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/samber/lo"

	"github.com/chazu/kerf/pkg/objects"
	"github.com/chazu/kerf/pkg/storage"
)

// Face is a partial objects.Face.
type Face struct {
	Surface   *Surface
	Exterior  *Cycle
	Interiors []*Cycle
	Color     *objects.Color

	memo[objects.Face]
}

// FaceFrom creates a partial that builds into h.
func FaceFrom(h storage.Handle[objects.Face]) *Face {
	face := h.Get()
	return &Face{
		Surface:  SurfaceFrom(face.Surface()),
		Exterior: CycleFrom(face.Exterior()),
		Interiors: lo.Map(face.Interiors(), func(c storage.Handle[objects.Cycle], _ int) *Cycle {
			return CycleFrom(c)
		}),
		Color: lo.ToPtr(face.Color()),
		memo:  memo[objects.Face]{built: h},
	}
}

// UpdateExteriorAsPolygon sets the exterior to a polygon on the face's
// surface, which must be set already.
func (p *Face) UpdateExteriorAsPolygon(points []v2.Vec) *Face {
	if p.Surface == nil {
		panic(missing("face exterior", "surface"))
	}
	p.Exterior = (&Cycle{}).UpdateAsPolygonFromPoints(p.Surface, points)
	return p
}

// AddInteriorPolygon adds a polygonal hole on the face's surface.
func (p *Face) AddInteriorPolygon(points []v2.Vec) *Face {
	if p.Surface == nil {
		panic(missing("face interior", "surface"))
	}
	p.Interiors = append(p.Interiors, (&Cycle{}).UpdateAsPolygonFromPoints(p.Surface, points))
	return p
}

// MergeWith combines two partials, preferring values already present in p.
func (p *Face) MergeWith(other *Face) *Face {
	if other == nil {
		return p
	}
	merged := &Face{
		Surface:   mergeSurface(p.Surface, other.Surface),
		Exterior:  first(p.Exterior, other.Exterior),
		Interiors: p.Interiors,
		Color:     first(p.Color, other.Color),
		memo:      mergeMemo(p.memo, other.memo),
	}
	if len(merged.Interiors) == 0 {
		merged.Interiors = other.Interiors
	}
	return merged
}

// Build creates the face. The surface defaults to the exterior's surface,
// the color to objects.DefaultColor.
func (p *Face) Build(objs *objects.Objects) storage.Handle[objects.Face] {
	return p.build(objs.Faces, func() objects.Face {
		if p.Exterior == nil {
			panic(missing("face", "exterior"))
		}
		if p.Surface == nil {
			p.Surface = p.Exterior.Surface()
		}
		if p.Surface == nil {
			panic(missing("face", "surface"))
		}
		color := objects.DefaultColor
		if p.Color != nil {
			color = *p.Color
		}

		exterior := p.Exterior.Build(objs)
		interiors := lo.Map(p.Interiors, func(c *Cycle, _ int) storage.Handle[objects.Cycle] {
			return c.Build(objs)
		})
		return objects.NewFace(p.Surface.Build(objs), exterior, interiors, color)
	})
}
