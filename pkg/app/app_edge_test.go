package app

import (
	"fmt"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Syntax and reference errors
// ---------------------------------------------------------------------------

func TestE2ESyntaxErrorWithLineInfo(t *testing.T) {
	// Valid code on line 1, broken code on line 2 so line info is meaningful.
	result := newApp(t).Evaluate("(+ 1 2)\n(defpart \"test\"")

	if result.OK() {
		t.Fatal("expected at least one eval error for unmatched parens")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on syntax error, got %d", len(result.Meshes))
	}
	e := result.Errors[0]
	if e.Message == "" {
		t.Error("syntax error should have a non-empty message")
	}
	t.Logf("syntax error: line=%d, col=%d, message=%q", e.Line, e.Col, e.Message)
}

func TestE2EUndefinedPartReference(t *testing.T) {
	source := `
(defpart "shelf" (extrude (rect 600 300) 18))
(defpart "copy" (translate (part "nonexistent") (vec3 0 0 100)))
`
	result := newApp(t).Evaluate(source)
	if result.OK() {
		t.Fatal("expected eval error for undefined part reference")
	}
	if !mentions(result.Errors, "nonexistent") {
		t.Errorf("expected error mentioning 'nonexistent', got: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on error, got %d", len(result.Meshes))
	}
}

func TestE2EDefpartMissingBody(t *testing.T) {
	result := newApp(t).Evaluate(`(defpart "empty")`)
	if result.OK() {
		t.Fatal("expected an error for defpart without a solid")
	}
}

func mentions(diags []Diagnostic, s string) bool {
	for _, d := range diags {
		if strings.Contains(d.Message, s) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Degenerate dimensions
// ---------------------------------------------------------------------------

func TestE2EDegenerateDimensions(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"zero width", `(defpart "bad" (extrude (rect 0 100) 19))`},
		{"zero height", `(defpart "bad" (extrude (rect 100 50) 0))`},
		{"zero cube", `(defpart "bad" (cube 0))`},
		{"zero radius", `(defpart "bad" (extrude (circle 0) 5))`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := newApp(t).Evaluate(tt.source)
			if result.OK() {
				t.Fatalf("expected an error, got %d meshes", len(result.Meshes))
			}
			if len(result.Meshes) != 0 {
				t.Errorf("expected 0 meshes on error, got %d", len(result.Meshes))
			}
		})
	}
}

func TestE2ENegativeDimension(t *testing.T) {
	// A clockwise rectangle is turned around, so this still builds a board.
	result := newApp(t).Evaluate(`(defpart "negative" (extrude (rect -100 100) 19))`)
	requireOK(t, result)

	b := result.Stats[0].Bounds
	if b.Min[0] != -100 || b.Max[0] != 0 {
		t.Errorf("unexpected bounds %v", b)
	}
}

// ---------------------------------------------------------------------------
// Rapid evaluation: no panics, no data races. Run with -race.
// ---------------------------------------------------------------------------

func TestE2ERapidEvaluation(t *testing.T) {
	a := newApp(t)
	sources := []string{
		`(defpart "a" (extrude (rect 100 50) 10))`,
		`(defpart "b" (cube 20))`,
		`(+ 1 2)`,
		``,
		`(defpart "c" (extrude (circle 15) 30))`,
		`(defpart "d"`,
		`(+ 100 200)`,
		``,
		`(defpart "e" (rotate (cube 5) :x 45))`,
	}
	for i, source := range sources {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("iteration %d panicked: %v", i, r)
				}
			}()
			_ = a.Evaluate(source)
		}()
	}
}

// ---------------------------------------------------------------------------
// Numbers
// ---------------------------------------------------------------------------

func TestE2ELargeDimensions(t *testing.T) {
	result := newApp(t).Evaluate(`(defpart "huge" (extrude (rect 100000 50000) 20000))`)
	requireOK(t, result)
	if got := result.Stats[0].Bounds.Max; got != [3]float64{100000, 50000, 20000} {
		t.Errorf("unexpected max %v", got)
	}
}

func TestE2ENestedArithmeticDef(t *testing.T) {
	source := `
(def base 100)
(def double (* base 2))
(def half (/ base 2))
(defpart "plank" (extrude (rect double half) (- base 82)))
`
	result := newApp(t).Evaluate(source)
	requireOK(t, result)
	if got := result.Stats[0].Bounds.Max; got != [3]float64{200, 50, 18} {
		t.Errorf("unexpected max %v", got)
	}
}

func TestE2EFloatingPointDimensions(t *testing.T) {
	result := newApp(t).Evaluate(`(defpart "thin" (extrude (rect 12.5 3.25) 0.75))`)
	requireOK(t, result)
	if len(result.Meshes) != 1 || len(result.Meshes[0].Vertices) == 0 {
		t.Fatal("expected one non-empty mesh")
	}
}

// ---------------------------------------------------------------------------
// Comments and whitespace
// ---------------------------------------------------------------------------

func TestE2ECommentsOnly(t *testing.T) {
	for _, source := range []string{
		";; nothing here\n; still nothing\n",
		"   \n\t\n  ;; indented comment\n\n",
	} {
		result := newApp(t).Evaluate(source)
		requireOK(t, result)
		if len(result.Meshes) != 0 {
			t.Errorf("expected 0 meshes, got %d", len(result.Meshes))
		}
	}
}

// ---------------------------------------------------------------------------
// Part overlap and colors
// ---------------------------------------------------------------------------

func TestE2EOverlappingPartsWarn(t *testing.T) {
	source := `
(defpart "left" (cube 2))
(defpart "right" (translate (cube 2) (vec3 1 1 0)))
(defpart "far" (translate (cube 2) (vec3 10 0 0)))
`
	result := newApp(t).Evaluate(source)
	requireOK(t, result)

	if len(result.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", result.Warnings)
	}
	if !mentions(result.Warnings, `"left" and "right"`) {
		t.Errorf("unexpected warning %q", result.Warnings[0].Message)
	}
}

func TestE2EColorPaletteWrapping(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 9; i++ {
		fmt.Fprintf(&b, "(defpart \"p%d\" (translate (cube 10) (vec3 %d 0 0)))\n", i+1, i*20)
	}

	result := newApp(t).Evaluate(b.String())
	requireOK(t, result)
	if len(result.Meshes) != 9 {
		t.Fatalf("expected 9 meshes, got %d", len(result.Meshes))
	}
	if result.Meshes[8].Color != result.Meshes[0].Color {
		t.Errorf("palette should wrap: %q vs %q", result.Meshes[8].Color, result.Meshes[0].Color)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("separated parts should not warn: %v", result.Warnings)
	}
}
