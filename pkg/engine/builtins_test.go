package engine

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(cube :size 10)`,
			expect: `(cube "__kw_size" 10)`,
		},
		{
			name:   "multiple keywords",
			input:  `(rect :width 40 :height 20)`,
			expect: `(rect "__kw_width" 40 "__kw_height" 20)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "escaped quote in string",
			input:  `"say \":x\"" :y`,
			expect: `"say \":x\"" "__kw_y"`,
		},
		{
			name:   "backtick string preserved",
			input:  "`raw :z ; text`",
			expect: "`raw :z ; text`",
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(def wall-height 3)`,
			expect: `(def wall_height 3)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "negative number preserved",
			input:  `(vec3 0 0 -1)`,
			expect: `(vec3 0 0 -1)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  "; simple comment\n(cube 1)",
			expect: "// simple comment\n(cube 1)",
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:wall-height`,
			expect: `"__kw_wall-height"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestParseArgs(t *testing.T) {
	args := []zygo.Sexp{
		&zygo.SexpInt{Val: 1},
		&zygo.SexpStr{S: kwPrefix + "radius"},
		&zygo.SexpFloat{Val: 2.5},
		&zygo.SexpInt{Val: 3},
		&zygo.SexpStr{S: kwPrefix + "flag"},
	}
	pa := parseArgs(args)

	if len(pa.positional) != 2 {
		t.Fatalf("expected 2 positional args, got %d", len(pa.positional))
	}
	if r, err := toFloat64(pa.kw["radius"]); err != nil || r != 2.5 {
		t.Errorf("radius = %v, %v; want 2.5", r, err)
	}
	if pa.kw["flag"] != zygo.SexpNull {
		t.Errorf("trailing keyword should map to SexpNull, got %v", pa.kw["flag"])
	}
	if v, ok := pa.arg("missing", 1); !ok || v != args[3] {
		t.Errorf("arg fell back to %v, want positional 1", v)
	}
	if _, ok := pa.arg("missing", 5); ok {
		t.Error("arg past the positional list should be missing")
	}
}

// ---------------------------------------------------------------------------
// DSL tests
// ---------------------------------------------------------------------------

// evaluate runs source and fails the test on any error.
func evaluate(t *testing.T, source string) *Design {
	t.Helper()
	d, evalErrs, err := newEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if d == nil {
		t.Fatal("expected non-nil design")
	}
	return d
}

// evalFails runs source and expects at least one non-empty eval error.
func evalFails(t *testing.T, source string) {
	t.Helper()
	_, evalErrs, err := newEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatalf("expected eval errors for %q", source)
	}
	if evalErrs[0].Message == "" {
		t.Error("eval error should have a non-empty message")
	}
}

func checkBox(t *testing.T, d *Design, part string, wantMin, wantMax v3.Vec) {
	t.Helper()
	p, ok := d.Part(part)
	if !ok {
		t.Fatalf("expected part named %q", part)
	}
	if err := d.Kernel.Validate(p.Solid); err != nil {
		t.Errorf("part %q is not valid: %v", part, err)
	}
	box := p.Solid.BoundingBox()
	for _, c := range []struct {
		name      string
		got, want v3.Vec
	}{{"min", box.Min, wantMin}, {"max", box.Max, wantMax}} {
		if c.got.Sub(c.want).Length() > 1e-6 {
			t.Errorf("part %q: %s = %v, want %v", part, c.name, c.got, c.want)
		}
	}
}

func TestExtrudedRect(t *testing.T) {
	d := evaluate(t, `
(defpart "plate"
  (extrude (rect :width 40 :height 20 :at (vec2 -20 0)) 5))
`)
	if len(d.Parts) != 1 {
		t.Fatalf("expected 1 part, got %d", len(d.Parts))
	}
	checkBox(t, d, "plate", v3.Vec{X: -20}, v3.Vec{X: 20, Y: 20, Z: 5})
}

func TestVariableReference(t *testing.T) {
	d := evaluate(t, `
(def t 19)
(def wall-height 30)
(defpart "post" (sweep (rect t t) (vec3 0 0 wall-height)))
`)
	checkBox(t, d, "post", v3.Vec{}, v3.Vec{X: 19, Y: 19, Z: 30})
}

func TestPolygonWithHoles(t *testing.T) {
	d := evaluate(t, `
(def frame
  (polygon (list (vec2 0 0) (vec2 10 0) (vec2 10 10) (vec2 0 10))
           :holes (list (list (vec2 2 2) (vec2 4 2) (vec2 4 4) (vec2 2 4))
                        (list (vec2 6 6) (vec2 8 6) (vec2 8 8) (vec2 6 8)))))
(defpart "frame" (sweep frame :path (vec3 0 0 -2)))
`)
	checkBox(t, d, "frame", v3.Vec{Z: -2}, v3.Vec{X: 10, Y: 10})

	p, _ := d.Part("frame")
	m, err := d.Kernel.ToMesh(p.Solid)
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	// 12 side quads; each cap is a 16-point bridged polygon.
	if got, want := m.TriangleCount(), 12*2+2*14; got != want {
		t.Errorf("TriangleCount() = %d, want %d", got, want)
	}
}

func TestCircleSweep(t *testing.T) {
	d := evaluate(t, `(defpart "rod" (sweep (circle :radius 3 :center (vec2 10 0)) (vec3 0 0 4)))`)
	p, _ := d.Part("rod")
	if err := d.Kernel.Validate(p.Solid); err != nil {
		t.Fatalf("rod is not valid: %v", err)
	}
	box := p.Solid.BoundingBox()
	if box.Max.X > 13+1e-9 || box.Max.X < 13-0.01 || math.Abs(box.Max.Z-4) > 1e-9 {
		t.Errorf("unexpected bounding box %v", box)
	}
}

func TestSketchCombinesFaces(t *testing.T) {
	d := evaluate(t, `
(def pair (sketch (rect 1 1) (circle 1 :center (vec2 5 5))))
(defpart "pair" (extrude pair 1))
`)
	p, _ := d.Part("pair")
	if err := d.Kernel.Validate(p.Solid); err != nil {
		t.Fatalf("pair is not valid: %v", err)
	}
	box := p.Solid.BoundingBox()
	if box.Min.Length() > 1e-9 || box.Max.X > 6+1e-9 || box.Max.X < 6-0.01 {
		t.Errorf("unexpected bounding box %v", box)
	}
}

func TestPartReuse(t *testing.T) {
	d := evaluate(t, `
(defpart "block" (cube 2))
(defpart "moved" (translate (part "block") (vec3 10 0 0)))
(defpart "turned" (rotate (sweep (rect 2 1) (vec3 0 0 1)) :z 90))
`)
	if len(d.Parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(d.Parts))
	}
	checkBox(t, d, "block", v3.Vec{X: -1, Y: -1, Z: -1}, v3.Vec{X: 1, Y: 1, Z: 1})
	checkBox(t, d, "moved", v3.Vec{X: 9, Y: -1, Z: -1}, v3.Vec{X: 11, Y: 1, Z: 1})
	checkBox(t, d, "turned", v3.Vec{X: -1}, v3.Vec{Y: 2, Z: 1})

	names := []string{"block", "moved", "turned"}
	for i, p := range d.Parts {
		if p.Name != names[i] {
			t.Errorf("part %d = %q, want %q", i, p.Name, names[i])
		}
	}
}

func TestDSLErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"missing part", `(part "nonexistent")`},
		{"duplicate part", `(defpart "a" (cube 1)) (defpart "a" (cube 2))`},
		{"defpart needs solid", `(defpart "a" (rect 1 1))`},
		{"bad vec3", `(vec3 1 2)`},
		{"bad cube", `(cube -1)`},
		{"flat sweep", `(sweep (rect 1 1) (vec3 1 0 0))`},
		{"degenerate polygon", `(polygon (vec2 0 0) (vec2 1 1))`},
		{"sweep without path", `(sweep (rect 1 1))`},
		{"number expected", `(cube "big")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evalFails(t, tt.source)
		})
	}
}
