// Package app runs the whole pipeline for one piece of source: evaluation,
// validation, tessellation and the per-part report.
package app

import (
	"fmt"
	"runtime"
	"time"

	"github.com/samber/lo"

	"github.com/chazu/kerf/pkg/algorithms/intersect"
	"github.com/chazu/kerf/pkg/config"
	"github.com/chazu/kerf/pkg/engine"
	"github.com/chazu/kerf/pkg/kernel"
	"github.com/chazu/kerf/pkg/kernel/brep"
	"github.com/chazu/kerf/pkg/logging"
	"github.com/chazu/kerf/pkg/tessellate"
	"github.com/chazu/kerf/pkg/traverse"
)

// colorPalette assigns distinct colors to parts.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// MeshData is the JSON form of one part's mesh.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// Diagnostic is an error or warning with an optional source position.
type Diagnostic struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// Bounds is an axis-aligned box.
type Bounds struct {
	Min [3]float64 `json:"min"`
	Max [3]float64 `json:"max"`
}

// PartStats summarises one part.
type PartStats struct {
	Name      string         `json:"name"`
	Objects   map[string]int `json:"objects,omitempty"`
	Vertices  int            `json:"vertices"`
	Triangles int            `json:"triangles"`
	Bounds    Bounds         `json:"bounds"`
}

// Result is everything Evaluate produces. Meshes and Stats are empty when
// Errors is not.
type Result struct {
	Meshes   []MeshData   `json:"meshes"`
	Stats    []PartStats  `json:"stats"`
	Errors   []Diagnostic `json:"errors"`
	Warnings []Diagnostic `json:"warnings"`
	Elapsed  string       `json:"elapsed"`
}

// OK reports whether the evaluation produced no errors.
func (r Result) OK() bool { return len(r.Errors) == 0 }

// objectCounter is implemented by kernels that can count the topological
// objects of a solid.
type objectCounter interface {
	Count(kernel.Solid) (traverse.Counts, error)
}

// intersector is implemented by kernels that can detect overlapping solids.
type intersector interface {
	Intersections(a, b kernel.Solid) (int, error)
}

// App evaluates source with a fixed configuration.
type App struct {
	cfg    *config.Config
	engine *engine.Engine
	log    *logging.Logger
}

// New creates an App. A nil cfg means config.Default, a nil logger discards
// everything.
func New(cfg *config.Config, logger *logging.Logger) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NoopLogger()
	}

	opts := KernelOptions(cfg, logger)
	eng := engine.NewEngine(engine.Options{
		NewKernel: func() (kernel.Kernel, error) { return brep.New(nil, opts) },
		Timeout:   cfg.Engine.Timeout,
		Logger:    logger,
	})
	return &App{cfg: cfg, engine: eng, log: logger}, nil
}

// KernelOptions maps the configuration onto B-rep kernel options. Zero
// workers in the configuration becomes GOMAXPROCS.
func KernelOptions(cfg *config.Config, logger *logging.Logger) brep.Options {
	workers := cfg.Approx.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return brep.Options{
		Tolerance:  cfg.Tolerance,
		Validation: cfg.Validation,
		Intersect:  intersect.Options{ParallelEpsilon: cfg.Intersect.ParallelEpsilon},
		Workers:    workers,
		Logger:     logger,
	}
}

// Config returns the configuration the App runs with.
func (a *App) Config() *config.Config { return a.cfg }

// Evaluate takes Lisp source and returns mesh data, statistics and
// diagnostics.
func (a *App) Evaluate(source string) Result {
	start := time.Now()
	result := a.evaluate(source)
	result.Elapsed = time.Since(start).String()
	return result
}

func (a *App) evaluate(source string) Result {
	result := Result{
		Meshes:   []MeshData{},
		Stats:    []PartStats{},
		Errors:   []Diagnostic{},
		Warnings: []Diagnostic{},
	}

	d, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		a.log.Error("evaluation failed", "error", err)
		result.Errors = append(result.Errors, Diagnostic{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		result.Errors = lo.Map(evalErrs, func(e engine.EvalError, _ int) Diagnostic {
			return Diagnostic{Line: e.Line, Col: e.Col, Message: e.Message}
		})
		return result
	}

	for _, p := range d.Parts {
		if err := d.Kernel.Validate(p.Solid); err != nil {
			a.log.WithPart(p.Name).Warn("part is invalid", "error", err)
			result.Errors = append(result.Errors, Diagnostic{
				Message: fmt.Sprintf("part %q is invalid: %v", p.Name, err),
			})
		}
	}
	if len(result.Errors) > 0 {
		return result
	}

	meshes, err := tessellate.Tessellate(d.Parts, d.Kernel)
	if err != nil {
		a.log.Error("tessellation failed", "error", err)
		result.Errors = append(result.Errors, Diagnostic{Message: "tessellation failed: " + err.Error()})
		return result
	}

	for i, m := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Color:    colorPalette[i%len(colorPalette)],
		})
		result.Stats = append(result.Stats, a.stats(d.Kernel, d.Parts[i], m))
	}
	result.Warnings = append(result.Warnings, a.overlaps(d)...)
	return result
}

func (a *App) stats(k kernel.Kernel, p kernel.Part, m *kernel.Mesh) PartStats {
	box := p.Solid.BoundingBox()
	s := PartStats{
		Name:      p.Name,
		Vertices:  m.VertexCount(),
		Triangles: m.TriangleCount(),
		Bounds: Bounds{
			Min: [3]float64{box.Min.X, box.Min.Y, box.Min.Z},
			Max: [3]float64{box.Max.X, box.Max.Y, box.Max.Z},
		},
	}
	if c, ok := k.(objectCounter); ok {
		counts, err := c.Count(p.Solid)
		if err != nil {
			a.log.WithPart(p.Name).Warn("counting objects failed", "error", err)
			return s
		}
		s.Objects = lo.MapKeys(counts, func(_ int, kind traverse.Kind) string { return kind.String() })
	}
	return s
}

// overlaps warns about every pair of parts whose faces cross.
func (a *App) overlaps(d *engine.Design) []Diagnostic {
	x, ok := d.Kernel.(intersector)
	if !ok {
		return nil
	}
	var warnings []Diagnostic
	for i, p := range d.Parts {
		for _, q := range d.Parts[i+1:] {
			n, err := x.Intersections(p.Solid, q.Solid)
			if err != nil {
				a.log.Warn("intersection check failed", "a", p.Name, "b", q.Name, "error", err)
				continue
			}
			if n > 0 {
				warnings = append(warnings, Diagnostic{
					Message: fmt.Sprintf("parts %q and %q intersect", p.Name, q.Name),
				})
			}
		}
	}
	return warnings
}
