package engine

import (
	"math"
	"strings"
	"testing"

	"github.com/chazu/octreeview/pkg/cloud"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

func mustEval(t *testing.T, source string) *cloud.Cloud {
	t.Helper()
	c, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	return c
}

func mustFail(t *testing.T, source, want string) {
	t.Helper()
	c, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if c != nil {
		t.Fatal("expected nil cloud on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatalf("expected eval error containing %q", want)
	}
	if !strings.Contains(evalErrs[0].Message, want) {
		t.Errorf("message = %q, want containing %q", evalErrs[0].Message, want)
	}
}

func TestPointBuiltin(t *testing.T) {
	c := mustEval(t, `
(point 1 2 3)
(point (vec3 -0.5 0.25 0))
`)
	if c.Len() != 2 {
		t.Fatalf("expected 2 points, got %d", c.Len())
	}
	if got := c.Position(0); got != (v3.Vec{X: 1, Y: 2, Z: 3}) {
		t.Errorf("point 0 = %v", got)
	}
	if got := c.Position(1); got != (v3.Vec{X: -0.5, Y: 0.25, Z: 0}) {
		t.Errorf("point 1 = %v", got)
	}
}

func TestPointReturnsIndex(t *testing.T) {
	c := mustEval(t, `
(def a (point 0 0 0))
(def b (point 1 1 1))
(point b a a)
`)
	if c.Len() != 3 {
		t.Fatalf("expected 3 points, got %d", c.Len())
	}
	if got := c.Position(2); got != (v3.Vec{X: 1, Y: 0, Z: 0}) {
		t.Errorf("point 2 = %v, want indices 1 0 0", got)
	}
}

func TestVariableReference(t *testing.T) {
	c := mustEval(t, `
(def origin (vec3 0 0 0))
(def corner (vec3 2 2 2))
(line :from origin :to corner :count 3)
`)
	want := []v3.Vec{{}, {X: 1, Y: 1, Z: 1}, {X: 2, Y: 2, Z: 2}}
	if c.Len() != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), c.Len())
	}
	for i, w := range want {
		if got := c.Position(i); got != w {
			t.Errorf("point %d = %v, want %v", i, got, w)
		}
	}
}

func TestLineSinglePoint(t *testing.T) {
	c := mustEval(t, `(line :from (vec3 1 1 1) :to (vec3 5 5 5) :count 1)`)
	if c.Len() != 1 || c.Position(0) != (v3.Vec{X: 1, Y: 1, Z: 1}) {
		t.Errorf("expected the start point only, got %d points", c.Len())
	}
}

func TestUniformStaysInDomain(t *testing.T) {
	c := mustEval(t, `(uniform 200)`)
	if c.Len() != 200 {
		t.Fatalf("expected 200 points, got %d", c.Len())
	}
	for i := 0; i < c.Len(); i++ {
		p := c.Position(i)
		if p.X < -1 || p.X > 1 || p.Y < -1 || p.Y > 1 || p.Z < -1 || p.Z > 1 {
			t.Fatalf("point %d %v outside the default domain", i, p)
		}
	}
}

func TestUniformExplicitBounds(t *testing.T) {
	c := mustEval(t, `(uniform 100 :min (vec3 2 2 2) :max (vec3 3 4 5) :seed 9)`)
	for i := 0; i < c.Len(); i++ {
		p := c.Position(i)
		if p.X < 2 || p.X > 3 || p.Y < 2 || p.Y > 4 || p.Z < 2 || p.Z > 5 {
			t.Fatalf("point %d %v outside the requested bounds", i, p)
		}
	}
}

func TestUniformSeedIsRepeatable(t *testing.T) {
	c := mustEval(t, `
(uniform 5 :seed 42)
(uniform 5 :seed 42)
`)
	for i := 0; i < 5; i++ {
		if c.Position(i) != c.Position(i+5) {
			t.Errorf("point %d differs between equal seeds: %v vs %v", i, c.Position(i), c.Position(i+5))
		}
	}
}

func TestUniformUsesEngineDomain(t *testing.T) {
	eng := NewEngine()
	eng.Domain = sdf.Box3{Min: v3.Vec{X: 10, Y: 10, Z: 10}, Max: v3.Vec{X: 11, Y: 11, Z: 11}}
	c, _, err := eng.Evaluate(`(uniform 20)`)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < c.Len(); i++ {
		if p := c.Position(i); p.X < 10 || p.X > 11 {
			t.Fatalf("point %d %v outside engine domain", i, p)
		}
	}
}

func TestSphereShellRadius(t *testing.T) {
	c := mustEval(t, `(sphere-shell :center (vec3 1 0 0) :radius 0.5 :count 64 :seed 3)`)
	if c.Len() != 64 {
		t.Fatalf("expected 64 points, got %d", c.Len())
	}
	center := v3.Vec{X: 1}
	for i := 0; i < c.Len(); i++ {
		// Positions are stored as float32.
		if d := c.Position(i).Sub(center).Length(); math.Abs(d-0.5) > 1e-6 {
			t.Errorf("point %d at distance %g, want 0.5", i, d)
		}
	}
}

func TestPointCount(t *testing.T) {
	c := mustEval(t, `
(uniform 7)
(if (== (point-count) 7) (point 0 0 0) (point 9 9 9))
`)
	if c.Len() != 8 {
		t.Fatalf("expected 8 points, got %d", c.Len())
	}
	if got := c.Position(7); got != (v3.Vec{}) {
		t.Errorf("point-count mismatch, last point = %v", got)
	}
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"vec3 arity", `(vec3 1 2)`, "vec3 requires 3 numbers"},
		{"point arity", `(point 1 2)`, "point requires"},
		{"point non-vector", `(point 5)`, "expected vec3"},
		{"uniform missing count", `(uniform :seed 1)`, "requires a point count"},
		{"uniform negative count", `(uniform -3)`, "out of range"},
		{"uniform fractional count", `(uniform 2.5)`, "expected integer"},
		{"line missing from", `(line :to (vec3 1 1 1) :count 2)`, "missing :from"},
		{"line missing count", `(line :from (vec3 0 0 0) :to (vec3 1 1 1))`, "missing :count"},
		{"shell missing radius", `(sphere-shell :count 3)`, "missing :radius"},
		{"shell negative radius", `(sphere-shell :radius -1 :count 3)`, "non-negative"},
		{"too many points", `(uniform 2000000)`, "out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mustFail(t, tt.source, tt.want)
		})
	}
}

func TestParseArgs(t *testing.T) {
	pa := parseArgs(nil)
	if len(pa.kw) != 0 || len(pa.positional) != 0 {
		t.Errorf("parseArgs(nil) = %+v", pa)
	}
}

func TestEmptySourceStillWorks(t *testing.T) {
	c := mustEval(t, "")
	if c.Len() != 0 {
		t.Errorf("expected empty cloud, got %d points", c.Len())
	}
}
