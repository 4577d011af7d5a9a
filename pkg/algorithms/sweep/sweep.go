// Package sweep extrudes objects along a straight path.
//
// A global vertex sweeps into a global edge, a vertex on a surface into a
// half-edge, a half-edge into a face, a face into a shell and a sketch into
// a solid. All functions share a Cache for one top-level call, so that
// objects swept from the same source (the vertical edge between two side
// faces) are created once.
//
// Passing a path that doesn't match the surface being swept on is a
// programming error and panics.
package sweep

import (
	"github.com/chazu/kerf/pkg/objects"
	"github.com/chazu/kerf/pkg/storage"
)

// SweptGlobalVertex is the result of sweeping a global vertex: the edge
// between the original and the moved vertex, and both vertices in sweep
// order.
type SweptGlobalVertex struct {
	Edge     storage.Handle[objects.GlobalEdge]
	Vertices [2]storage.Handle[objects.GlobalVertex]
}

// Cache remembers swept global objects by the identity of their source.
type Cache struct {
	globalVertices map[storage.ObjectID]SweptGlobalVertex
	globalCurves   map[storage.ObjectID]storage.Handle[objects.GlobalCurve]
	globalEdges    map[storage.ObjectID]storage.Handle[objects.GlobalEdge]
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		globalVertices: make(map[storage.ObjectID]SweptGlobalVertex),
		globalCurves:   make(map[storage.ObjectID]storage.Handle[objects.GlobalCurve]),
		globalEdges:    make(map[storage.ObjectID]storage.Handle[objects.GlobalEdge]),
	}
}
