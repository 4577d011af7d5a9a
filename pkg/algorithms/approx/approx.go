package approx

import (
	"context"
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/objects"
	"github.com/chazu/kerf/pkg/storage"
)

// Approximator approximates objects within one tolerance and remembers what
// it has computed.
type Approximator struct {
	tolerance Tolerance
	curves    memo[[]curvePoint]
	faces     memo[FaceApprox]
}

// New returns an Approximator with an empty cache.
func New(tolerance Tolerance) *Approximator {
	return &Approximator{tolerance: tolerance}
}

// Tolerance returns the tolerance a is working with.
func (a *Approximator) Tolerance() Tolerance { return a.tolerance }

// CachedCurves returns how many curve approximations a has computed.
func (a *Approximator) CachedCurves() int { return a.curves.len() }

// ShellApprox approximates a shell face by face.
type ShellApprox struct {
	Faces []FaceApprox
}

// Triangles returns the triangles of all faces.
func (s ShellApprox) Triangles() []geom.Triangle {
	return lo.FlatMap(s.Faces, func(f FaceApprox, _ int) []geom.Triangle { return f.Triangles })
}

// Points returns the model positions of all cycle points, without
// duplicates.
func (s ShellApprox) Points() []v3.Vec {
	points := lo.FlatMap(s.Faces, func(f FaceApprox, _ int) []Point { return f.Points() })
	return lo.Uniq(lo.Map(points, func(p Point, _ int) v3.Vec { return p.Global }))
}

// Shell approximates every face of a shell.
func (a *Approximator) Shell(h storage.Handle[objects.Shell]) (ShellApprox, error) {
	return a.faceSet(h.Get().Faces())
}

// Sketch approximates every face of a sketch.
func (a *Approximator) Sketch(h storage.Handle[objects.Sketch]) (ShellApprox, error) {
	return a.faceSet(h.Get().Faces())
}

func (a *Approximator) faceSet(faces []storage.Handle[objects.Face]) (ShellApprox, error) {
	var out ShellApprox
	for _, face := range faces {
		approx, err := a.Face(face)
		if err != nil {
			return ShellApprox{}, err
		}
		out.Faces = append(out.Faces, approx)
	}
	return out, nil
}

// SolidApprox approximates a solid shell by shell.
type SolidApprox struct {
	Shells []ShellApprox
}

// Triangles returns the triangles of all shells.
func (s SolidApprox) Triangles() []geom.Triangle {
	return lo.FlatMap(s.Shells, func(shell ShellApprox, _ int) []geom.Triangle { return shell.Triangles() })
}

// Solid approximates the shells of a solid, several at a time.
func (a *Approximator) Solid(ctx context.Context, h storage.Handle[objects.Solid], workers int) (SolidApprox, error) {
	shells, err := a.Shells(ctx, h.Get().Shells(), workers)
	if err != nil {
		return SolidApprox{}, fmt.Errorf("solid %s: %w", h, err)
	}
	return SolidApprox{Shells: shells}, nil
}

// Shells approximates shells in parallel, running at most workers at once;
// workers <= 0 means no limit. Shells sharing edges still get identical
// points along them. The results keep the order of shells.
func (a *Approximator) Shells(ctx context.Context, shells []storage.Handle[objects.Shell], workers int) ([]ShellApprox, error) {
	out := make([]ShellApprox, len(shells))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, shell := range shells {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			approx, err := a.Shell(shell)
			if err != nil {
				return err
			}
			out[i] = approx
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
