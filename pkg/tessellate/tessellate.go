// Package tessellate converts approximated faces into indexed triangle meshes
// and produces one mesh per part using a geometry kernel.
package tessellate

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"

	"github.com/chazu/kerf/pkg/algorithms/approx"
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/kernel"
)

// flatTolerance is how far the dot product of a triangle normal and the
// face normal may drop below one for the face to count as flat.
const flatTolerance = 1e-9

type vertexKey struct {
	position v3.Vec
	normal   v3.Vec
}

// meshBuilder collects vertices, sharing those with equal position and
// normal.
type meshBuilder struct {
	mesh  *kernel.Mesh
	index map[vertexKey]uint32
}

func newMeshBuilder() *meshBuilder {
	return &meshBuilder{mesh: &kernel.Mesh{}, index: make(map[vertexKey]uint32)}
}

func (b *meshBuilder) vertex(p, n v3.Vec) uint32 {
	key := vertexKey{position: p, normal: n}
	if i, ok := b.index[key]; ok {
		return i
	}
	i := uint32(b.mesh.VertexCount())
	b.index[key] = i
	b.mesh.Vertices = append(b.mesh.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
	b.mesh.Normals = append(b.mesh.Normals, float32(n.X), float32(n.Y), float32(n.Z))
	return i
}

// face adds the triangles of one face. A flat face gets a single normal; a
// curved one gets per-position normals averaged over its triangles, so that
// cylinder walls shade smoothly.
func (b *meshBuilder) face(triangles []geom.Triangle) {
	triangles = lo.Filter(triangles, func(t geom.Triangle, _ int) bool {
		return t.Normal() != v3.Vec{}
	})
	if len(triangles) == 0 {
		return
	}

	var sum v3.Vec
	for _, t := range triangles {
		sum = sum.Add(t.Normal().MulScalar(t.Area()))
	}
	faceNormal := sum.Normalize()
	flat := lo.EveryBy(triangles, func(t geom.Triangle) bool {
		return t.Normal().Dot(faceNormal) > 1-flatTolerance
	})

	normalAt := func(v3.Vec) v3.Vec { return faceNormal }
	if !flat {
		smooth := make(map[v3.Vec]v3.Vec)
		for _, t := range triangles {
			weighted := t.Normal().MulScalar(t.Area())
			for _, p := range t {
				smooth[p] = smooth[p].Add(weighted)
			}
		}
		normalAt = func(p v3.Vec) v3.Vec { return smooth[p].Normalize() }
	}

	for _, t := range triangles {
		for _, p := range t {
			b.mesh.Indices = append(b.mesh.Indices, b.vertex(p, normalAt(p)))
		}
	}
}

// FromFaces builds one mesh out of face approximations. Degenerate triangles
// are dropped.
func FromFaces(faces []approx.FaceApprox) *kernel.Mesh {
	b := newMeshBuilder()
	for _, f := range faces {
		b.face(f.Triangles)
	}
	return b.mesh
}

// FromShells builds one mesh out of the faces of all shells.
func FromShells(shells []approx.ShellApprox) *kernel.Mesh {
	return FromFaces(lo.FlatMap(shells, func(s approx.ShellApprox, _ int) []approx.FaceApprox {
		return s.Faces
	}))
}

// Tessellate produces one triangle mesh per part using the provided kernel.
// Each mesh carries the name of its part.
func Tessellate(parts []kernel.Part, k kernel.Kernel) ([]*kernel.Mesh, error) {
	meshes := make([]*kernel.Mesh, 0, len(parts))
	for _, p := range parts {
		if p.Solid == nil {
			return nil, fmt.Errorf("tessellate: part %q has no solid", p.Name)
		}
		m, err := k.ToMesh(p.Solid)
		if err != nil {
			return nil, fmt.Errorf("tessellate: part %q: %w", p.Name, err)
		}
		m.PartName = p.Name
		meshes = append(meshes, m)
	}
	return meshes, nil
}
