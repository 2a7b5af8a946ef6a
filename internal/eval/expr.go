package eval

import (
	"context"

	"supra/internal/ast"
	"supra/internal/defs"
	"supra/internal/source"
)

func (m *Machine) eval(ctx context.Context, fr *frame, e ast.Expr) (int64, error) {
	switch e := e.(type) {
	case *ast.IntLit:
		return e.Value, nil
	case *ast.Var:
		v, ok := fr.env[e.Name]
		if !ok {
			return 0, newError(ErrUndefinedVar, "undefined variable %s", fr.mod.Strings.MustLookup(e.Name))
		}
		return v, nil
	case *ast.ArgRef:
		return fr.args[e.Index], nil
	case *ast.Unary:
		x, err := m.eval(ctx, fr, e.X)
		if err != nil {
			return 0, err
		}
		return -x, nil
	case *ast.Binary:
		return m.binary(ctx, fr, e)
	case *ast.Call:
		return m.call(ctx, fr, e)
	case *ast.Super:
		return m.super(ctx, fr, e)
	}
	return 0, newError(ErrUndefinedVar, "cannot evaluate %T", e)
}

func (m *Machine) binary(ctx context.Context, fr *frame, e *ast.Binary) (int64, error) {
	l, err := m.eval(ctx, fr, e.Left)
	if err != nil {
		return 0, err
	}
	r, err := m.eval(ctx, fr, e.Right)
	if err != nil {
		return 0, err
	}
	switch e.Op {
	case ast.OpAdd:
		return l + r, nil
	case ast.OpSub:
		return l - r, nil
	case ast.OpMul:
		return l * r, nil
	case ast.OpDiv:
		if r == 0 {
			return 0, newError(ErrDivisionByZero, "division by zero")
		}
		return l / r, nil
	case ast.OpEq:
		return truth(l == r), nil
	case ast.OpNe:
		return truth(l != r), nil
	case ast.OpLt:
		return truth(l < r), nil
	case ast.OpLe:
		return truth(l <= r), nil
	case ast.OpGt:
		return truth(l > r), nil
	case ast.OpGe:
		return truth(l >= r), nil
	}
	return 0, newError(ErrUndefinedVar, "unknown operator %s", e.Op)
}

func (m *Machine) args(ctx context.Context, fr *frame, exprs []ast.Expr) ([]int64, error) {
	out := make([]int64, len(exprs))
	for i, a := range exprs {
		v, err := m.eval(ctx, fr, a)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// call resolves by public name at run time, so bodies compiled before a
// definition was overridden reach its final implementation.
func (m *Machine) call(ctx context.Context, fr *frame, e *ast.Call) (int64, error) {
	args, err := m.args(ctx, fr, e.Args)
	if err != nil {
		return 0, err
	}
	name := fr.mod.Strings.MustLookup(e.Name)
	if e.Unit == source.NoStringID {
		g, ok := fr.mod.Lookup(defs.Key{Name: e.Name, Arity: len(args)})
		if !ok {
			return 0, newError(ErrUndefinedLocal, "undefined function %s/%d (unit %s)", name, len(args), fr.mod.Name)
		}
		return m.dispatch(ctx, fr.mod, g, args, fr.depth+1)
	}
	unitName := fr.mod.Strings.MustLookup(e.Unit)
	target, ok := m.units.Unit(unitName)
	if !ok {
		return 0, newError(ErrUndefinedRemote, "function %s.%s/%d is undefined or private", unitName, name, len(args))
	}
	g, ok := target.LookupName(name, len(args))
	if !ok || !g.Public() {
		return 0, newError(ErrUndefinedRemote, "function %s.%s/%d is undefined or private", unitName, name, len(args))
	}
	return m.dispatch(ctx, target, g, args, fr.depth+1)
}

func (m *Machine) super(ctx context.Context, fr *frame, e *ast.Super) (int64, error) {
	args := fr.args
	if !e.Implicit {
		var err error
		if args, err = m.args(ctx, fr, e.Args); err != nil {
			return 0, err
		}
	}
	g := fr.mod.Group(fr.clause.Super)
	if g == nil {
		return 0, newError(ErrUndefinedLocal, "no super target for %s", fr.group.Identity.Display(fr.mod.Strings))
	}
	return m.dispatch(ctx, fr.mod, g, args, fr.depth+1)
}

func truth(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
