package defs

import (
	"fmt"

	"supra/internal/ast"
	"supra/internal/source"
)

// Key is the name/arity pair used by defoverridable, callbacks and calls.
type Key struct {
	Name  source.StringID
	Arity int
}

// Display renders the key as name/arity.
func (k Key) Display(strs *source.Interner) string {
	name, _ := strs.Lookup(k.Name)
	return fmt.Sprintf("%s/%d", name, k.Arity)
}

// Identity is a key together with the kind it was defined with.
type Identity struct {
	Key
	Kind ast.DefKind
}

// Clause is one recorded definition clause. Clauses are immutable once
// recorded; only a forwarding head's group may have its clause replaced.
type Clause struct {
	Params []ast.Pattern
	Guard  ast.Expr
	Body   ast.Expr
	Span   source.Span
	// Generation is the override generation the clause was compiled in,
	// 1 for clauses written before any defoverridable.
	Generation uint32
	// Super is the hidden group every super marker in Body dispatches to.
	Super GroupID
}

// ClauseGroup holds the ordered clauses of one implementation of an identity.
type ClauseGroup struct {
	ID       GroupID
	Identity Identity
	Clauses  []Clause
	Span     source.Span
	// Synthetic is set for default-argument forwarding heads; Canonical is
	// the arity they forward to.
	Synthetic bool
	Canonical int
}

// Public reports whether the group is exported from its unit.
func (g *ClauseGroup) Public() bool { return g.Identity.Kind.IsPublic() }
