package brep

import (
	"fmt"
	"os"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/veneer/pkg/geometry"
)

// Solids arrive as .csg scripts: small Lisp programs evaluated in a
// sandboxed zygomys environment whose builtins construct sdfx solids.
// The value of the last expression is the solid for the file, e.g.
//
//	; a washer
//	(difference
//	  (cylinder 4 20)
//	  (cylinder 5 8))

// sexpSolid wraps a *Solid so it can be passed between builtins.
type sexpSolid struct {
	solid *Solid
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	min, max := s.solid.Bounds()
	return fmt.Sprintf("(solid :bounds %v %v)", min, max)
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

// Load reads and evaluates a .csg solid script.
func Load(path string) (*Solid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &geometry.LoadError{Path: path, Reason: "unreadable file", Err: err}
	}
	if len(data) == 0 {
		return nil, &geometry.LoadError{Path: path, Reason: "zero-length file"}
	}
	solid, err := Eval(string(data))
	if err != nil {
		return nil, &geometry.LoadError{Path: path, Reason: "solid script failed", Err: err}
	}
	return solid, nil
}

// Eval evaluates a solid script in a fresh sandbox and returns the solid
// produced by its final expression. Evaluation is bounded by EvalTimeout.
func Eval(source string) (*Solid, error) {
	res, err := evalWithTimeout(preprocessSource(source))
	if err != nil {
		return nil, err
	}
	wrapped, ok := res.(*sexpSolid)
	if !ok {
		return nil, fmt.Errorf("script result is %T, want a solid expression", res)
	}
	return wrapped.solid, nil
}

// evalSandboxed runs a fresh sandboxed environment to completion. Called on
// a goroutine by evalWithTimeout; panics are recovered there.
func evalSandboxed(source string) (zygo.Sexp, error) {
	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env)

	if err := env.LoadString(source); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	res, err := env.Run()
	if err != nil {
		return nil, fmt.Errorf("eval: %w", err)
	}
	return res, nil
}

// preprocessSource converts traditional Lisp ; line comments to the //
// form zygomys expects. String literal boundaries are respected.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source))
	b := []byte(source)
	i := 0
	for i < len(b) {
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ';' {
			result = append(result, '/', '/')
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toSolid extracts a *Solid from a sexpSolid.
func toSolid(s zygo.Sexp) (*Solid, error) {
	if w, ok := s.(*sexpSolid); ok {
		return w.solid, nil
	}
	return nil, fmt.Errorf("expected solid, got %T (%s)", s, s.SexpString(nil))
}

// floatArgs extracts exactly n numeric arguments.
func floatArgs(name string, args []zygo.Sexp, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires %d numeric arguments, got %d", name, n, len(args))
	}
	out := make([]float64, n)
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", name, i+1, err)
		}
		out[i] = f
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the solid construction builtins into a zygomys
// environment.
func registerBuiltins(env *zygo.Zlisp) {

	// (box x y z)
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		dims, err := floatArgs("box", args, 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		s, err := Box(dims[0], dims[1], dims[2])
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{solid: s}, nil
	})

	// (sphere radius)
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		dims, err := floatArgs("sphere", args, 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		s, err := Sphere(dims[0])
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{solid: s}, nil
	})

	// (cylinder height radius)
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		dims, err := floatArgs("cylinder", args, 2)
		if err != nil {
			return zygo.SexpNull, err
		}
		s, err := Cylinder(dims[0], dims[1])
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{solid: s}, nil
	})

	// (union a b ...) — folds left over two-solid unions.
	env.AddFunction("union", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("union requires at least 2 solids")
		}
		acc, err := toSolid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("union: %w", err)
		}
		for _, a := range args[1:] {
			s, err := toSolid(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("union: %w", err)
			}
			acc = Union(acc, s)
		}
		return &sexpSolid{solid: acc}, nil
	})

	// (difference a b)
	env.AddFunction("difference", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("difference requires exactly 2 solids")
		}
		a, err := toSolid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("difference: %w", err)
		}
		b, err := toSolid(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("difference: %w", err)
		}
		return &sexpSolid{solid: Difference(a, b)}, nil
	})

	// (intersect a b)
	env.AddFunction("intersect", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("intersect requires exactly 2 solids")
		}
		a, err := toSolid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("intersect: %w", err)
		}
		b, err := toSolid(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("intersect: %w", err)
		}
		return &sexpSolid{solid: Intersection(a, b)}, nil
	})

	// (translate solid x y z)
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 4 {
			return zygo.SexpNull, fmt.Errorf("translate requires a solid and 3 offsets")
		}
		s, err := toSolid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		off, err := floatArgs("translate", args[1:], 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{solid: Translate(s, off[0], off[1], off[2])}, nil
	})

	// (rotate solid degX degY degZ)
	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 4 {
			return zygo.SexpNull, fmt.Errorf("rotate requires a solid and 3 angles")
		}
		s, err := toSolid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
		}
		deg, err := floatArgs("rotate", args[1:], 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{solid: Rotate(s, deg[0], deg[1], deg[2])}, nil
	})
}
