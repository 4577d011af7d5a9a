package engine

import (
	"fmt"
	"strings"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/samber/lo"

	"github.com/chazu/kerf/pkg/kernel"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites kerf source into something zygomys accepts:
//
//  1. :keyword becomes the string literal "__kw_keyword", so keywords need
//     no global symbols and can't clash with user variables.
//  2. kebab-case identifiers become snake_case; zygomys reads a hyphen
//     inside a symbol as subtraction.
//  3. ; line comments become // comments.
//
// String literals are copied unchanged.
func preprocessSource(source string) string {
	s := &scanner{src: []byte(source), out: make([]byte, 0, len(source)+len(source)/4)}
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '"' || c == '`':
			s.quoted(c)
		case c == ';':
			s.comment()
		case c == ':' && s.peek(1) == '=':
			s.copy(2)
		case c == ':' && isLetter(s.peek(1)):
			s.keyword()
		case c == '-' && s.pos > 0 && isIdentChar(s.src[s.pos-1]) && isLetter(s.peek(1)):
			s.out = append(s.out, '_')
			s.pos++
		default:
			s.copy(1)
		}
	}
	return string(s.out)
}

type scanner struct {
	src []byte
	out []byte
	pos int
}

// peek returns the byte n ahead, or zero past the end.
func (s *scanner) peek(n int) byte {
	if s.pos+n < len(s.src) {
		return s.src[s.pos+n]
	}
	return 0
}

func (s *scanner) copy(n int) {
	end := min(s.pos+n, len(s.src))
	s.out = append(s.out, s.src[s.pos:end]...)
	s.pos = end
}

// quoted copies a literal delimited by q. Backslash escapes only count in
// double-quoted strings.
func (s *scanner) quoted(q byte) {
	s.copy(1)
	for s.pos < len(s.src) && s.src[s.pos] != q {
		if q == '"' && s.src[s.pos] == '\\' {
			s.copy(2)
			continue
		}
		s.copy(1)
	}
	s.copy(1)
}

func (s *scanner) comment() {
	for s.pos < len(s.src) && s.src[s.pos] == ';' {
		s.pos++
	}
	s.out = append(s.out, '/', '/')
	for s.pos < len(s.src) && s.src[s.pos] != '\n' {
		s.copy(1)
	}
}

func (s *scanner) keyword() {
	end := s.pos + 1
	for end < len(s.src) && isKWChar(s.src[end]) {
		end++
	}
	s.out = append(s.out, '"')
	s.out = append(s.out, kwPrefix...)
	s.out = append(s.out, s.src[s.pos+1:end]...)
	s.out = append(s.out, '"')
	s.pos = end
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isIdentChar(c) || c == '-'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing kernel values through the zygomys environment
// ---------------------------------------------------------------------------

type sexpVec2 struct {
	vec v2.Vec
}

func (v *sexpVec2) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec2 %g %g)", v.vec.X, v.vec.Y)
}
func (v *sexpVec2) Type() *zygo.RegisteredType { return nil }

type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpSketch wraps a kernel.Sketch returned by polygon, circle and sketch.
type sexpSketch struct {
	sketch kernel.Sketch
}

func (s *sexpSketch) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(sketch %d faces)", s.sketch.FaceCount())
}
func (s *sexpSketch) Type() *zygo.RegisteredType { return nil }

// sexpSolid wraps a kernel.Solid. name is set for solids that are parts.
type sexpSolid struct {
	solid kernel.Solid
	name  string
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	if s.name != "" {
		return fmt.Sprintf("(part %q)", s.name)
	}
	b := s.solid.BoundingBox()
	return fmt.Sprintf("(solid %v %v)", b.Min, b.Max)
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW reports whether s is a preprocessed keyword and returns its name.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	return strings.CutPrefix(str.S, kwPrefix)
}

// kwArgs holds a mixed positional and keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments. A keyword
// at the very end gets SexpNull as its value.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		result.kw[name] = zygo.SexpNull
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		}
	}
	return result
}

// arg returns the keyword argument key, or else positional argument i.
func (a kwArgs) arg(key string, i int) (zygo.Sexp, bool) {
	if v, ok := a.kw[key]; ok {
		return v, true
	}
	if i >= 0 && i < len(a.positional) {
		return a.positional[i], true
	}
	return nil, false
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func describe(s zygo.Sexp) string {
	return fmt.Sprintf("%T (%s)", s, s.SexpString(nil))
}

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %s", describe(s))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %s", describe(s))
}

func toVec2(s zygo.Sexp) (v2.Vec, error) {
	if v, ok := s.(*sexpVec2); ok {
		return v.vec, nil
	}
	return v2.Vec{}, fmt.Errorf("expected vec2, got %s", describe(s))
}

func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %s", describe(s))
}

func toSketch(s zygo.Sexp) (kernel.Sketch, error) {
	if v, ok := s.(*sexpSketch); ok {
		return v.sketch, nil
	}
	return nil, fmt.Errorf("expected sketch, got %s", describe(s))
}

func toSolid(s zygo.Sexp) (kernel.Solid, error) {
	if v, ok := s.(*sexpSolid); ok {
		return v.solid, nil
	}
	return nil, fmt.Errorf("expected solid, got %s", describe(s))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toPoints reads a ring of points given either as vec2 arguments or as a
// single list of them.
func toPoints(args []zygo.Sexp) ([]v2.Vec, error) {
	if len(args) == 1 {
		items, err := sexpListToSlice(args[0])
		if err == nil {
			args = items
		}
	}
	points := make([]v2.Vec, 0, len(args))
	for i, a := range args {
		p, err := toVec2(a)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		points = append(points, p)
	}
	return points, nil
}

// floatArg reads an optional number, falling back to def.
func floatArg(a kwArgs, key string, i int, def float64) (float64, error) {
	v, ok := a.arg(key, i)
	if !ok {
		return def, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// builtin is the signature of every DSL function.
type builtin func(a kwArgs) (zygo.Sexp, error)

// registerBuiltins installs the kerf DSL into a zygomys environment. Geometry
// is built with d.Kernel and parts are collected in d.Parts.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, d *Design) {
	k := d.Kernel
	add := func(name string, fn builtin) {
		env.AddFunction(name, func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
			out, err := fn(parseArgs(args))
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			return out, nil
		})
	}

	// -----------------------------------------------------------------------
	// (vec2 1 2) (vec3 1 2 3)
	// -----------------------------------------------------------------------
	add("vec2", func(a kwArgs) (zygo.Sexp, error) {
		xy, err := numbers(a.positional, 2)
		if err != nil {
			return nil, err
		}
		return &sexpVec2{vec: v2.Vec{X: xy[0], Y: xy[1]}}, nil
	})
	add("vec3", func(a kwArgs) (zygo.Sexp, error) {
		xyz, err := numbers(a.positional, 3)
		if err != nil {
			return nil, err
		}
		return &sexpVec3{vec: v3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (polygon (vec2 0 0) (vec2 4 0) (vec2 4 3) :holes (list (list ...)))
	// -----------------------------------------------------------------------
	add("polygon", func(a kwArgs) (zygo.Sexp, error) {
		exterior, err := toPoints(a.positional)
		if err != nil {
			return nil, err
		}
		var holes [][]v2.Vec
		if v, ok := a.kw["holes"]; ok {
			items, err := sexpListToSlice(v)
			if err != nil {
				return nil, fmt.Errorf("holes: %w", err)
			}
			for i, item := range items {
				hole, err := toPoints([]zygo.Sexp{item})
				if err != nil {
					return nil, fmt.Errorf("hole %d: %w", i, err)
				}
				holes = append(holes, hole)
			}
		}
		s, err := k.Polygon(exterior, holes...)
		if err != nil {
			return nil, err
		}
		return &sexpSketch{sketch: s}, nil
	})

	// -----------------------------------------------------------------------
	// (rect :width 40 :height 20 :at (vec2 0 0))
	// -----------------------------------------------------------------------
	add("rect", func(a kwArgs) (zygo.Sexp, error) {
		w, err := floatArg(a, "width", 0, 0)
		if err != nil {
			return nil, err
		}
		h, err := floatArg(a, "height", 1, w)
		if err != nil {
			return nil, err
		}
		var at v2.Vec
		if v, ok := a.kw["at"]; ok {
			if at, err = toVec2(v); err != nil {
				return nil, fmt.Errorf("at: %w", err)
			}
		}
		corners := []v2.Vec{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}}
		s, err := k.Polygon(lo.Map(corners, func(c v2.Vec, _ int) v2.Vec { return c.Add(at) }))
		if err != nil {
			return nil, err
		}
		return &sexpSketch{sketch: s}, nil
	})

	// -----------------------------------------------------------------------
	// (circle :radius 5 :center (vec2 0 0))
	// -----------------------------------------------------------------------
	add("circle", func(a kwArgs) (zygo.Sexp, error) {
		r, err := floatArg(a, "radius", 0, 0)
		if err != nil {
			return nil, err
		}
		var center v2.Vec
		if v, ok := a.kw["center"]; ok {
			if center, err = toVec2(v); err != nil {
				return nil, fmt.Errorf("center: %w", err)
			}
		}
		s, err := k.Circle(center, r)
		if err != nil {
			return nil, err
		}
		return &sexpSketch{sketch: s}, nil
	})

	// -----------------------------------------------------------------------
	// (sketch (rect ...) (circle ...))
	// -----------------------------------------------------------------------
	add("sketch", func(a kwArgs) (zygo.Sexp, error) {
		sketches := make([]kernel.Sketch, 0, len(a.positional))
		for i, p := range a.positional {
			s, err := toSketch(p)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			sketches = append(sketches, s)
		}
		s, err := k.Combine(sketches...)
		if err != nil {
			return nil, err
		}
		return &sexpSketch{sketch: s}, nil
	})

	// -----------------------------------------------------------------------
	// (sweep sketch (vec3 0 0 10))  (extrude sketch 10)
	// -----------------------------------------------------------------------
	add("sweep", func(a kwArgs) (zygo.Sexp, error) {
		s, err := sketchArg(a)
		if err != nil {
			return nil, err
		}
		v, ok := a.arg("path", 1)
		if !ok {
			return nil, fmt.Errorf("missing path")
		}
		path, err := toVec3(v)
		if err != nil {
			return nil, fmt.Errorf("path: %w", err)
		}
		return solidResult(k.Sweep(s, path))
	})
	add("extrude", func(a kwArgs) (zygo.Sexp, error) {
		s, err := sketchArg(a)
		if err != nil {
			return nil, err
		}
		h, err := floatArg(a, "height", 1, 0)
		if err != nil {
			return nil, err
		}
		return solidResult(k.Sweep(s, v3.Vec{Z: h}))
	})

	// -----------------------------------------------------------------------
	// (cube 10)
	// -----------------------------------------------------------------------
	add("cube", func(a kwArgs) (zygo.Sexp, error) {
		size, err := floatArg(a, "size", 0, 0)
		if err != nil {
			return nil, err
		}
		return solidResult(k.Cube(size))
	})

	// -----------------------------------------------------------------------
	// (translate solid (vec3 10 0 0))
	// -----------------------------------------------------------------------
	add("translate", func(a kwArgs) (zygo.Sexp, error) {
		s, err := solidArg(a)
		if err != nil {
			return nil, err
		}
		v, ok := a.arg("by", 1)
		if !ok {
			return nil, fmt.Errorf("missing offset")
		}
		offset, err := toVec3(v)
		if err != nil {
			return nil, fmt.Errorf("by: %w", err)
		}
		return &sexpSolid{solid: k.Translate(s, offset.X, offset.Y, offset.Z)}, nil
	})

	// -----------------------------------------------------------------------
	// (rotate solid :x 0 :y 0 :z 90)   angles in degrees
	// -----------------------------------------------------------------------
	add("rotate", func(a kwArgs) (zygo.Sexp, error) {
		s, err := solidArg(a)
		if err != nil {
			return nil, err
		}
		var angles [3]float64
		for i, axis := range []string{"x", "y", "z"} {
			if angles[i], err = floatArg(a, axis, -1, 0); err != nil {
				return nil, err
			}
		}
		return &sexpSolid{solid: k.Rotate(s, angles[0], angles[1], angles[2])}, nil
	})

	// -----------------------------------------------------------------------
	// (defpart "name" solid)
	// -----------------------------------------------------------------------
	add("defpart", func(a kwArgs) (zygo.Sexp, error) {
		if len(a.positional) < 2 {
			return nil, fmt.Errorf("requires a name and a body expression")
		}
		name, err := toString(a.positional[0])
		if err != nil {
			return nil, fmt.Errorf("name: %w", err)
		}
		if _, exists := d.Part(name); exists {
			return nil, fmt.Errorf("part %q is already defined", name)
		}
		s, err := toSolid(a.positional[1])
		if err != nil {
			return nil, fmt.Errorf("body: %w", err)
		}
		d.Parts = append(d.Parts, kernel.Part{Name: name, Solid: s})
		return &sexpSolid{solid: s, name: name}, nil
	})

	// -----------------------------------------------------------------------
	// (part "name")
	// -----------------------------------------------------------------------
	add("part", func(a kwArgs) (zygo.Sexp, error) {
		if len(a.positional) < 1 {
			return nil, fmt.Errorf("requires a name argument")
		}
		name, err := toString(a.positional[0])
		if err != nil {
			return nil, fmt.Errorf("name: %w", err)
		}
		p, ok := d.Part(name)
		if !ok {
			return nil, fmt.Errorf("no part named %q", name)
		}
		return &sexpSolid{solid: p.Solid, name: name}, nil
	})
}

func numbers(args []zygo.Sexp, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("requires exactly %d arguments, got %d", n, len(args))
	}
	out := make([]float64, n)
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = f
	}
	return out, nil
}

func sketchArg(a kwArgs) (kernel.Sketch, error) {
	v, ok := a.arg("sketch", 0)
	if !ok {
		return nil, fmt.Errorf("missing sketch")
	}
	return toSketch(v)
}

func solidArg(a kwArgs) (kernel.Solid, error) {
	v, ok := a.arg("solid", 0)
	if !ok {
		return nil, fmt.Errorf("missing solid")
	}
	return toSolid(v)
}

func solidResult(s kernel.Solid, err error) (zygo.Sexp, error) {
	if err != nil {
		return nil, err
	}
	return &sexpSolid{solid: s}, nil
}
