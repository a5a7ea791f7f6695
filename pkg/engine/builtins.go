package engine

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/chazu/octreeview/pkg/cloud"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/pkg/errors"
)

// scriptState is what the builtins of one evaluation share.
type scriptState struct {
	cloud  *cloud.Cloud
	domain sdf.Box3
	seed   int64
	rng    *rand.Rand
}

func (s *scriptState) add(p v3.Vec) (int, error) {
	if s.cloud.Len() >= MaxPoints {
		return 0, errors.Errorf("point limit of %d exceeded", MaxPoints)
	}
	return s.cloud.Add(p), nil
}

// random returns a generator seeded from :seed if given, otherwise the
// evaluation-wide generator seeded from the engine seed.
func (s *scriptState) random(pa kwArgs) (*rand.Rand, error) {
	if v, ok := pa.kw["seed"]; ok {
		seed, err := toInt(v)
		if err != nil {
			return nil, errors.Wrap(err, "seed")
		}
		return rand.New(rand.NewSource(seed)), nil
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(s.seed))
	}
	return s.rng, nil
}

// sexpVec3 wraps a v3.Vec so it can be passed between builtins.
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// isKW returns the keyword name of a preprocessed keyword string.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds a mixed positional and keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, errors.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toInt(s zygo.Sexp) (int64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return v.Val, nil
	case *zygo.SexpFloat:
		if v.Val == math.Trunc(v.Val) {
			return int64(v.Val), nil
		}
	}
	return 0, errors.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

func toCount(s zygo.Sexp) (int, error) {
	n, err := toInt(s)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > MaxPoints {
		return 0, errors.Errorf("count %d out of range [0, %d]", n, MaxPoints)
	}
	return int(n), nil
}

func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, errors.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

func intResult(n int) zygo.Sexp {
	return &zygo.SexpInt{Val: int64(n)}
}

// registerBuiltins installs the point builtins into env. Source must go
// through preprocessSource first so keywords and kebab-case names match.
func registerBuiltins(env *zygo.Zlisp, s *scriptState) {

	// (vec3 x y z)
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, errors.Errorf("vec3 requires 3 numbers, got %d arguments", len(args))
		}
		v, err := numbersToVec3(args)
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "vec3")
		}
		return &sexpVec3{vec: v}, nil
	})

	// (point x y z) or (point (vec3 x y z)); returns the point index.
	env.AddFunction("point", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		var p v3.Vec
		switch len(args) {
		case 1:
			v, err := toVec3(args[0])
			if err != nil {
				return zygo.SexpNull, errors.Wrap(err, "point")
			}
			p = v
		case 3:
			v, err := numbersToVec3(args)
			if err != nil {
				return zygo.SexpNull, errors.Wrap(err, "point")
			}
			p = v
		default:
			return zygo.SexpNull, errors.Errorf("point requires a vec3 or 3 numbers, got %d arguments", len(args))
		}
		i, err := s.add(p)
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "point")
		}
		return intResult(i), nil
	})

	// (uniform n :min (vec3 ...) :max (vec3 ...) :seed s); returns n.
	env.AddFunction("uniform", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, errors.New("uniform requires a point count")
		}
		n, err := toCount(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "uniform")
		}
		lo, hi := s.domain.Min, s.domain.Max
		if v, ok := pa.kw["min"]; ok {
			if lo, err = toVec3(v); err != nil {
				return zygo.SexpNull, errors.Wrap(err, "uniform: min")
			}
		}
		if v, ok := pa.kw["max"]; ok {
			if hi, err = toVec3(v); err != nil {
				return zygo.SexpNull, errors.Wrap(err, "uniform: max")
			}
		}
		rng, err := s.random(pa)
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "uniform")
		}

		span := hi.Sub(lo)
		for i := 0; i < n; i++ {
			p := v3.Vec{
				X: lo.X + rng.Float64()*span.X,
				Y: lo.Y + rng.Float64()*span.Y,
				Z: lo.Z + rng.Float64()*span.Z,
			}
			if _, err := s.add(p); err != nil {
				return zygo.SexpNull, errors.Wrap(err, "uniform")
			}
		}
		return intResult(n), nil
	})

	// (line :from (vec3 ...) :to (vec3 ...) :count n); endpoints included.
	env.AddFunction("line", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		from, err := requireVec3(pa, "from")
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "line")
		}
		to, err := requireVec3(pa, "to")
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "line")
		}
		v, ok := pa.kw["count"]
		if !ok {
			return zygo.SexpNull, errors.New("line: missing :count")
		}
		n, err := toCount(v)
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "line: count")
		}

		step := v3.Vec{}
		if n > 1 {
			step = to.Sub(from).MulScalar(1 / float64(n-1))
		}
		for i := 0; i < n; i++ {
			if _, err := s.add(from.Add(step.MulScalar(float64(i)))); err != nil {
				return zygo.SexpNull, errors.Wrap(err, "line")
			}
		}
		return intResult(n), nil
	})

	// (sphere-shell :center (vec3 ...) :radius r :count n :seed s); points
	// uniformly distributed on the sphere surface.
	env.AddFunction("sphere_shell", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		center := v3.Vec{}
		if _, ok := pa.kw["center"]; ok {
			c, err := requireVec3(pa, "center")
			if err != nil {
				return zygo.SexpNull, errors.Wrap(err, "sphere-shell")
			}
			center = c
		}
		rv, ok := pa.kw["radius"]
		if !ok {
			return zygo.SexpNull, errors.New("sphere-shell: missing :radius")
		}
		radius, err := toFloat64(rv)
		if err != nil || radius < 0 {
			return zygo.SexpNull, errors.Errorf("sphere-shell: radius must be a non-negative number, got %s", rv.SexpString(nil))
		}
		cv, ok := pa.kw["count"]
		if !ok {
			return zygo.SexpNull, errors.New("sphere-shell: missing :count")
		}
		n, err := toCount(cv)
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "sphere-shell: count")
		}
		rng, err := s.random(pa)
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "sphere-shell")
		}

		for i := 0; i < n; i++ {
			dir := v3.Vec{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}
			l := dir.Length()
			if l == 0 {
				dir, l = v3.Vec{X: 1}, 1
			}
			if _, err := s.add(center.Add(dir.MulScalar(radius / l))); err != nil {
				return zygo.SexpNull, errors.Wrap(err, "sphere-shell")
			}
		}
		return intResult(n), nil
	})

	// (point-count)
	env.AddFunction("point_count", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return intResult(s.cloud.Len()), nil
	})
}

// numbersToVec3 reads three numeric arguments as a vector.
func numbersToVec3(args []zygo.Sexp) (v3.Vec, error) {
	var c [3]float64
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return v3.Vec{}, errors.Wrapf(err, "component %d", i)
		}
		c[i] = f
	}
	return v3.Vec{X: c[0], Y: c[1], Z: c[2]}, nil
}

func requireVec3(pa kwArgs, key string) (v3.Vec, error) {
	v, ok := pa.kw[key]
	if !ok {
		return v3.Vec{}, errors.Errorf("missing :%s", key)
	}
	vec, err := toVec3(v)
	if err != nil {
		return v3.Vec{}, errors.Wrap(err, key)
	}
	return vec, nil
}
