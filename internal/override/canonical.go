package override

import (
	"slices"

	"supra/internal/ast"
	"supra/internal/defs"
	"supra/internal/source"
)

// Head is a generated forwarding head for one omitted default argument.
type Head struct {
	Key    defs.Key
	Clause defs.Clause
}

// Canonicalizer expands definitions with default arguments and remembers
// which arity each forwarding head belongs to.
type Canonicalizer struct {
	canonical map[defs.Key]int
}

// NewCanonicalizer returns an empty canonicalizer.
func NewCanonicalizer() *Canonicalizer {
	return &Canonicalizer{canonical: make(map[defs.Key]int)}
}

// Canonicalize records that name is callable at every arity in arities and
// returns the canonical, maximum arity.
func (c *Canonicalizer) Canonicalize(name source.StringID, arities []int) int {
	if len(arities) == 0 {
		return 0
	}
	canon := slices.Max(arities)
	for _, a := range arities {
		if a != canon {
			c.canonical[defs.Key{Name: name, Arity: a}] = canon
		}
	}
	return canon
}

// Canonical returns the canonical key for k. Keys that are not forwarding
// heads are their own canonical key.
func (c *Canonicalizer) Canonical(k defs.Key) (defs.Key, bool) {
	if canon, ok := c.canonical[k]; ok {
		return defs.Key{Name: k.Name, Arity: canon}, true
	}
	return k, false
}

// Expand builds the forwarding heads of def, shortest first. Each head
// calls the canonical arity by its public name with the missing defaults
// appended, so hiding either side never changes what a head reaches.
func (c *Canonicalizer) Expand(def *ast.DefStmt) []Head {
	required := 0
	for _, p := range def.Params {
		if p.Default == nil {
			required++
		}
	}
	total := len(def.Params)
	if required == total {
		return nil
	}
	arities := make([]int, 0, total-required+1)
	for a := required; a <= total; a++ {
		arities = append(arities, a)
	}
	c.Canonicalize(def.Name, arities)

	heads := make([]Head, 0, total-required)
	for arity := required; arity < total; arity++ {
		params := make([]ast.Pattern, arity)
		args := make([]ast.Expr, 0, total)
		for i := 0; i < arity; i++ {
			params[i] = ast.Pattern{Kind: ast.PatWildcard, Span: def.Params[i].Pattern.Span}
			args = append(args, &ast.ArgRef{Index: i, Span: def.Params[i].Pattern.Span})
		}
		for i := arity; i < total; i++ {
			args = append(args, def.Params[i].Default)
		}
		heads = append(heads, Head{
			Key: defs.Key{Name: def.Name, Arity: arity},
			Clause: defs.Clause{
				Params:     params,
				Body:       &ast.Call{Name: def.Name, Args: args, Span: def.NameSpan},
				Span:       def.Span,
				Generation: 1,
			},
		})
	}
	return heads
}
