// Package eval runs calls against finalized units.
package eval

import (
	"context"

	"supra/internal/ast"
	"supra/internal/defs"
	"supra/internal/source"
	"supra/internal/unit"
)

// DefaultMaxDepth bounds nested calls when Options.MaxDepth is zero.
const DefaultMaxDepth = 10_000

// Units resolves unit names to finalized modules.
type Units interface {
	Unit(name string) (*unit.Module, bool)
}

// Modules is a fixed set of units keyed by name.
type Modules map[string]*unit.Module

// Unit implements Units.
func (m Modules) Unit(name string) (*unit.Module, bool) {
	mod, ok := m[name]
	return mod, ok
}

// Options configures a Machine.
type Options struct {
	MaxDepth int
}

// Machine evaluates calls. It holds no per-call state and is safe for
// concurrent use as long as the units are not modified.
type Machine struct {
	units    Units
	maxDepth int
}

// New creates a machine over units.
func New(units Units, opts Options) *Machine {
	depth := opts.MaxDepth
	if depth <= 0 {
		depth = DefaultMaxDepth
	}
	return &Machine{units: units, maxDepth: depth}
}

type frame struct {
	mod    *unit.Module
	group  *defs.ClauseGroup
	clause *defs.Clause
	env    map[source.StringID]int64
	args   []int64
	depth  int
}

// Call invokes the public function unitName.fun with args.
func (m *Machine) Call(ctx context.Context, unitName, fun string, args []int64) (int64, error) {
	mod, ok := m.units.Unit(unitName)
	if !ok {
		return 0, newError(ErrUndefinedRemote, "function %s.%s/%d is undefined or private", unitName, fun, len(args))
	}
	g, ok := mod.LookupName(fun, len(args))
	if !ok || !g.Public() {
		return 0, newError(ErrUndefinedRemote, "function %s.%s/%d is undefined or private", unitName, fun, len(args))
	}
	return m.dispatch(ctx, mod, g, args, 0)
}

func (m *Machine) dispatch(ctx context.Context, mod *unit.Module, g *defs.ClauseGroup, args []int64, depth int) (int64, error) {
	if depth >= m.maxDepth {
		return 0, newError(ErrDepth, "call depth exceeded (%d)", m.maxDepth)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	for i := range g.Clauses {
		cl := &g.Clauses[i]
		env, ok := bind(cl.Params, args)
		if !ok {
			continue
		}
		fr := &frame{mod: mod, group: g, clause: cl, env: env, args: args, depth: depth}
		if cl.Guard != nil {
			v, err := m.eval(ctx, fr, cl.Guard)
			if err != nil {
				return 0, err
			}
			if v == 0 {
				continue
			}
		}
		return m.eval(ctx, fr, cl.Body)
	}
	return 0, newError(ErrNoClause, "no function clause matching in %s.%s", mod.Name, g.Identity.Display(mod.Strings))
}

func bind(params []ast.Pattern, args []int64) (map[source.StringID]int64, bool) {
	if len(params) != len(args) {
		return nil, false
	}
	env := make(map[source.StringID]int64, len(params))
	for i, p := range params {
		switch p.Kind {
		case ast.PatWildcard:
		case ast.PatInt:
			if args[i] != p.Value {
				return nil, false
			}
		case ast.PatVar:
			if prev, seen := env[p.Name]; seen && prev != args[i] {
				return nil, false
			}
			env[p.Name] = args[i]
		}
	}
	return env, true
}
