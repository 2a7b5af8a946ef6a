// Package unit compiles one parsed unit into a finalized Module: it records
// definitions in source order, applies defoverridable requests and resolves
// every super reference as soon as its clause is seen.
package unit

import (
	"context"
	"errors"
	"fmt"

	"supra/internal/ast"
	"supra/internal/behaviour"
	"supra/internal/defs"
	"supra/internal/diag"
	"supra/internal/override"
	"supra/internal/source"
	"supra/internal/trace"
)

// Options configures one compilation.
type Options struct {
	Reporter diag.Reporter
	// Resolver answers module subjects of defoverridable. It must only hold
	// finalized units.
	Resolver behaviour.Resolver
}

// Compiler owns the mutable state of one unit while it is compiled.
type Compiler struct {
	unit      *ast.Unit
	strings   *source.Interner
	name      string
	opts      Options
	table     *defs.Table
	registry  *override.Registry
	validator *override.Validator
	canon     *override.Canonicalizer

	callbacks  []behaviour.Callback
	declared   map[defs.Key]bool
	behaviours []string
}

// NewCompiler prepares a compiler for u.
func NewCompiler(u *ast.Unit, strings *source.Interner, opts Options) *Compiler {
	name, _ := strings.Lookup(u.Name)
	table := defs.NewTable()
	return &Compiler{
		unit:      u,
		strings:   strings,
		name:      name,
		opts:      opts,
		table:     table,
		registry:  override.NewRegistry(table, strings, name),
		validator: override.NewValidator(table, strings, opts.Resolver),
		canon:     override.NewCanonicalizer(),
		declared:  make(map[defs.Key]bool),
	}
}

// Compile compiles u. The first failure is reported once and aborts the unit.
func Compile(ctx context.Context, u *ast.Unit, strings *source.Interner, opts Options) (*Module, error) {
	return NewCompiler(u, strings, opts).Run(ctx)
}

// Run processes every statement in order and finalizes the unit.
func (c *Compiler) Run(ctx context.Context) (*Module, error) {
	span := trace.Begin(ctx, trace.ScopeUnit, "compile "+c.name)
	ctx = trace.WithSpan(ctx, span)

	mod, err := c.run(ctx)
	if err != nil {
		c.report(err)
		trace.Fail(ctx, trace.ScopeUnit, "compile "+c.name, err.Error())
		span.End("error")
		return nil, err
	}
	span.WithExtra("groups", fmt.Sprint(c.table.Len())).End("ok")
	return mod, nil
}

func (c *Compiler) run(ctx context.Context) (*Module, error) {
	for _, st := range c.unit.Stmts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var err error
		switch st := st.(type) {
		case *ast.BehaviourStmt:
			c.behaviour(st)
		case *ast.CallbackStmt:
			err = c.callback(st)
		case *ast.DefStmt:
			err = c.define(ctx, st)
		case *ast.OverridableStmt:
			err = c.overridable(ctx, st)
		}
		if err != nil {
			return nil, err
		}
	}
	if err := c.registry.Finalize(); err != nil {
		return nil, err
	}
	trace.Point(ctx, trace.ScopeStep, "finalize", fmt.Sprintf("%d overridable", len(c.registry.Available())))
	return c.module(), nil
}

func (c *Compiler) behaviour(st *ast.BehaviourStmt) {
	name := c.strings.MustLookup(st.Module)
	c.validator.DeclareBehaviour(name)
	c.behaviours = append(c.behaviours, name)
}

func (c *Compiler) callback(st *ast.CallbackStmt) error {
	k := defs.Key{Name: st.Name, Arity: st.Arity}
	if c.declared[k] {
		return &override.Error{
			Code: diag.DefDuplicateCallback,
			Span: st.Span,
			Msg:  fmt.Sprintf("callback `%s` is already declared", k.Display(c.strings)),
		}
	}
	c.declared[k] = true
	c.callbacks = append(c.callbacks, behaviour.Callback{
		Name:     c.strings.MustLookup(st.Name),
		Arity:    st.Arity,
		Optional: st.Optional,
		Macro:    st.Macro,
	})
	return nil
}

func (c *Compiler) define(ctx context.Context, st *ast.DefStmt) error {
	k := defs.Key{Name: st.Name, Arity: len(st.Params)}
	if err := c.checkDefaultsHead(k, st.Kind, st.NameSpan); err != nil {
		return err
	}
	if err := c.checkDefaultValues(k, st.Params); err != nil {
		return err
	}
	gen := c.registry.ClauseGeneration(k)
	clause := defs.Clause{
		Params:     patterns(st.Params),
		Guard:      st.Guard,
		Body:       st.Body,
		Span:       st.Span,
		Generation: gen,
	}
	if supers := append(ast.Supers(st.Guard), ast.Supers(st.Body)...); len(supers) > 0 {
		for _, s := range supers {
			if !s.Implicit && len(s.Args) != k.Arity {
				return &override.Error{
					Code: diag.DefSuperArityMismatch,
					Span: s.Span,
					Msg: fmt.Sprintf("super must be called with the same number of arguments as the current definition (`%s`)",
						k.Display(c.strings)),
				}
			}
		}
		target, err := c.registry.ResolveSuper(k, gen, supers[0])
		if err != nil {
			return err
		}
		clause.Super = target
		trace.Point(ctx, trace.ScopeStep, "super", fmt.Sprintf("%s gen %d -> group %d", k.Display(c.strings), gen, target))
	}
	gid, err := c.record(defs.Identity{Key: k, Kind: st.Kind}, clause, st.NameSpan)
	if err != nil {
		return err
	}

	// the first clause of a group owns its defaults
	fresh := len(c.table.Group(gid).Clauses) == 1
	for _, head := range c.canon.Expand(st) {
		if err := c.defaultHead(head, st.Kind, k, fresh, st.NameSpan); err != nil {
			return err
		}
	}
	return nil
}

// checkDefaultsHead rejects an ordinary clause for a key whose open group
// is a forwarding head generated from defaults.
func (c *Compiler) checkDefaultsHead(k defs.Key, kind ast.DefKind, sp source.Span) error {
	if !c.table.Pending(k) {
		return nil
	}
	g, _ := c.table.Snapshot(k)
	if !g.Synthetic {
		return nil
	}
	canon, _ := c.canon.Canonical(k)
	return c.defaultsConflict(k, kind, canon.Arity, sp)
}

// checkDefaultValues rejects super inside a default value. A forwarding
// head has no hidden generation of its own to dispatch to.
func (c *Compiler) checkDefaultValues(k defs.Key, params []ast.Param) error {
	for _, p := range params {
		if supers := ast.Supers(p.Default); len(supers) > 0 {
			return &override.Error{
				Code: diag.DefSuperInDefault,
				Span: supers[0].Span,
				Msg:  fmt.Sprintf("super cannot be used in a default argument of `%s`", k.Display(c.strings)),
			}
		}
	}
	return nil
}

// defaultHead records the forwarding head for one omitted default of
// canonical. When the head is still open from an earlier generation of
// canonical, a fresh generation regenerates it with the new defaults and
// any other clause restating defaults is a conflict.
func (c *Compiler) defaultHead(head override.Head, kind ast.DefKind, canonical defs.Key, fresh bool, sp source.Span) error {
	if c.table.Pending(head.Key) {
		g, _ := c.table.Snapshot(head.Key)
		owner, _ := c.canon.Canonical(head.Key)
		if !fresh || !g.Synthetic || g.Canonical != canonical.Arity || owner != canonical {
			return c.defaultsConflict(head.Key, kind, canonical.Arity, sp)
		}
		head.Clause.Generation = g.Clauses[0].Generation
		c.table.Replace(head.Key, head.Clause)
		return nil
	}
	head.Clause.Generation = c.registry.ClauseGeneration(head.Key)
	gid, err := c.record(defs.Identity{Key: head.Key, Kind: kind}, head.Clause, sp)
	if err != nil {
		return err
	}
	g := c.table.Group(gid)
	g.Synthetic = true
	g.Canonical = canonical.Arity
	return nil
}

func (c *Compiler) defaultsConflict(k defs.Key, kind ast.DefKind, canonical int, sp source.Span) error {
	canon := defs.Key{Name: k.Name, Arity: canonical}
	return &override.Error{
		Code: diag.DefDefaultsConflict,
		Span: sp,
		Msg: fmt.Sprintf("%s `%s` conflicts with defaults from `%s`",
			kind, k.Display(c.strings), canon.Display(c.strings)),
	}
}

func (c *Compiler) record(id defs.Identity, clause defs.Clause, sp source.Span) (defs.GroupID, error) {
	gid, err := c.table.Record(id, clause)
	var conflict *defs.KindConflictError
	if errors.As(err, &conflict) {
		return defs.NoGroupID, &override.Error{
			Code: diag.DefKindConflict,
			Span: sp,
			Msg: fmt.Sprintf("%s `%s` already defined as %s",
				conflict.Got, conflict.Key.Display(c.strings), conflict.Existing),
		}
	}
	return gid, err
}

func (c *Compiler) overridable(ctx context.Context, st *ast.OverridableStmt) error {
	req := override.RequestFrom(st, c.strings)
	keys, err := c.validator.Validate(req)
	if err != nil {
		return err
	}
	if err := c.registry.MarkOverridable(keys, st.Span); err != nil {
		return err
	}
	if trace.FromContext(ctx).Enabled() {
		for _, k := range keys {
			m, _ := c.registry.Marker(k)
			trace.Point(ctx, trace.ScopeStep, "defoverridable", fmt.Sprintf("%s gen %d", k.Display(c.strings), m.Generation))
		}
	}
	return nil
}

func (c *Compiler) module() *Module {
	mod := &Module{
		Name:        c.name,
		File:        c.unit.File,
		Strings:     c.strings,
		table:       c.table,
		public:      make(map[defs.Key]defs.GroupID),
		order:       c.table.Keys(),
		overridable: c.registry.Available(),
		callbacks:   c.callbacks,
		behaviours:  c.behaviours,
	}
	for _, k := range mod.order {
		g, _ := c.table.Snapshot(k)
		mod.public[k] = g.ID
	}
	return mod
}

func (c *Compiler) report(err error) {
	if c.opts.Reporter == nil {
		return
	}
	var oe *override.Error
	if errors.As(err, &oe) {
		c.opts.Reporter.Report(oe.Code, diag.SevError, oe.Span, oe.Msg, nil)
	}
}

func patterns(params []ast.Param) []ast.Pattern {
	out := make([]ast.Pattern, len(params))
	for i, p := range params {
		out[i] = p.Pattern
	}
	return out
}
