package partial

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/objects"
	"github.com/chazu/kerf/pkg/storage"
)

// Shell is a partial objects.Shell.
type Shell struct {
	Faces []*Face

	memo[objects.Shell]
}

// ShellFrom creates a partial that builds into h.
func ShellFrom(h storage.Handle[objects.Shell]) *Shell {
	return &Shell{
		Faces: lo.Map(h.Get().Faces(), func(f storage.Handle[objects.Face], _ int) *Face {
			return FaceFrom(f)
		}),
		memo: memo[objects.Shell]{built: h},
	}
}

// AddFace appends a face.
func (p *Shell) AddFace(face *Face) *Shell {
	p.Faces = append(p.Faces, face)
	return p
}

// Build creates the shell and its faces.
func (p *Shell) Build(objs *objects.Objects) storage.Handle[objects.Shell] {
	return p.build(objs.Shells, func() objects.Shell {
		return objects.NewShell(lo.Map(p.Faces, func(f *Face, _ int) storage.Handle[objects.Face] {
			return f.Build(objs)
		}))
	})
}

// corner indexes one of the eight corners of the unit cube.
type corner [3]int

func (c corner) add(d corner) corner {
	return corner{c[0] + d[0], c[1] + d[1], c[2] + d[2]}
}

func (c corner) index() int {
	return c[0]<<2 | c[1]<<1 | c[2]
}

type cubeSide struct {
	origin corner
	u, v   corner
}

// The u × v of every side points out of the cube.
var cubeSides = []cubeSide{
	{origin: corner{0, 0, 0}, u: corner{0, 1, 0}, v: corner{1, 0, 0}}, // bottom
	{origin: corner{0, 0, 1}, u: corner{1, 0, 0}, v: corner{0, 1, 0}}, // top
	{origin: corner{0, 0, 0}, u: corner{1, 0, 0}, v: corner{0, 0, 1}}, // front
	{origin: corner{0, 1, 0}, u: corner{0, 0, 1}, v: corner{1, 0, 0}}, // back
	{origin: corner{0, 0, 0}, u: corner{0, 0, 1}, v: corner{0, 1, 0}}, // left
	{origin: corner{1, 0, 0}, u: corner{0, 1, 0}, v: corner{0, 0, 1}}, // right
}

// CreateCubeFromEdgeLength creates a shell in the shape of a cube centered
// at the origin. Neighboring faces share their global vertices and global
// edges.
func CreateCubeFromEdgeLength(edgeLength float64) *Shell {
	toModel := func(c corner) v3.Vec {
		return v3.Vec{
			X: (float64(c[0]) - 0.5) * edgeLength,
			Y: (float64(c[1]) - 0.5) * edgeLength,
			Z: (float64(c[2]) - 0.5) * edgeLength,
		}
	}
	direction := func(c corner) v3.Vec {
		return v3.Vec{X: float64(c[0]), Y: float64(c[1]), Z: float64(c[2])}.MulScalar(edgeLength)
	}

	var globalVertices [8]*GlobalVertex
	for i := range globalVertices {
		c := corner{i >> 2 & 1, i >> 1 & 1, i & 1}
		globalVertices[i] = &GlobalVertex{Position: lo.ToPtr(toModel(c))}
	}

	type edgeKey [2]int
	globalEdges := make(map[edgeKey]*GlobalEdge, 12)
	sharedEdge := func(a, b int) *GlobalEdge {
		key := edgeKey{min(a, b), max(a, b)}
		if edge, ok := globalEdges[key]; ok {
			return edge
		}
		edge := &GlobalEdge{
			Curve:    &GlobalCurve{},
			Vertices: [2]*GlobalVertex{globalVertices[key[0]], globalVertices[key[1]]},
		}
		globalEdges[key] = edge
		return edge
	}

	shell := &Shell{}
	for _, side := range cubeSides {
		surface := &Surface{Geometry: lo.ToPtr(geom.Plane{
			Origin: toModel(side.origin),
			U:      direction(side.u),
			V:      direction(side.v),
		}.SurfaceGeometry())}

		corners := []int{
			side.origin.index(),
			side.origin.add(side.u).index(),
			side.origin.add(side.u).add(side.v).index(),
			side.origin.add(side.v).index(),
		}
		points := []v2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}

		face := (&Face{Surface: surface}).UpdateExteriorAsPolygon(points)
		for i, edge := range face.Exterior.HalfEdges {
			edge.Vertices[0].SurfaceForm.GlobalForm = globalVertices[corners[i]]
			shared := sharedEdge(corners[i], corners[(i+1)%len(corners)])
			edge.Curve().GlobalForm = shared.Curve
			edge.GlobalForm = shared
		}
		shell.AddFace(face)
	}
	return shell
}

// Solid is a partial objects.Solid.
type Solid struct {
	Shells []*Shell

	memo[objects.Solid]
}

// SolidFrom creates a partial that builds into h.
func SolidFrom(h storage.Handle[objects.Solid]) *Solid {
	return &Solid{
		Shells: lo.Map(h.Get().Shells(), func(s storage.Handle[objects.Shell], _ int) *Shell {
			return ShellFrom(s)
		}),
		memo: memo[objects.Solid]{built: h},
	}
}

// AddShell appends a shell.
func (p *Solid) AddShell(shell *Shell) *Solid {
	p.Shells = append(p.Shells, shell)
	return p
}

// WithCubeFromEdgeLength adds a cube shell.
func (p *Solid) WithCubeFromEdgeLength(edgeLength float64) *Solid {
	return p.AddShell(CreateCubeFromEdgeLength(edgeLength))
}

// Build creates the solid and its shells.
func (p *Solid) Build(objs *objects.Objects) storage.Handle[objects.Solid] {
	return p.build(objs.Solids, func() objects.Solid {
		return objects.NewSolid(lo.Map(p.Shells, func(s *Shell, _ int) storage.Handle[objects.Shell] {
			return s.Build(objs)
		}))
	})
}

// Sketch is a partial objects.Sketch.
type Sketch struct {
	Faces []*Face

	memo[objects.Sketch]
}

// SketchFrom creates a partial that builds into h.
func SketchFrom(h storage.Handle[objects.Sketch]) *Sketch {
	return &Sketch{
		Faces: lo.Map(h.Get().Faces(), func(f storage.Handle[objects.Face], _ int) *Face {
			return FaceFrom(f)
		}),
		memo: memo[objects.Sketch]{built: h},
	}
}

// AddFace appends a face.
func (p *Sketch) AddFace(face *Face) *Sketch {
	p.Faces = append(p.Faces, face)
	return p
}

// Build creates the sketch and its faces.
func (p *Sketch) Build(objs *objects.Objects) storage.Handle[objects.Sketch] {
	return p.build(objs.Sketches, func() objects.Sketch {
		return objects.NewSketch(lo.Map(p.Faces, func(f *Face, _ int) storage.Handle[objects.Face] {
			return f.Build(objs)
		}))
	})
}
