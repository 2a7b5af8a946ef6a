// Package testkit holds structural checks shared by tests and fuzz harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"supra/internal/ast"
	"supra/internal/source"
	"supra/internal/unit"
)

// CheckSpanInvariants verifies the spans of a parsed unit:
// every statement span is non-empty, lies inside the file, belongs to it and
// starts after the previous statement.
func CheckSpanInvariants(u *ast.Unit, sf *source.File) error {
	if u == nil || sf == nil {
		return fmt.Errorf("nil unit or file")
	}
	size, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if u.NameSpan.File != sf.ID || u.NameSpan.End > size {
		return fmt.Errorf("unit name span out of file: %v", u.NameSpan)
	}
	var prev uint32
	for i, st := range u.Stmts {
		sp := st.Pos()
		if sp.File != sf.ID {
			return fmt.Errorf("statement %d points to file %d, want %d", i, sp.File, sf.ID)
		}
		if sp.End <= sp.Start {
			return fmt.Errorf("statement %d has empty span %v", i, sp)
		}
		if sp.End > size {
			return fmt.Errorf("statement %d ends beyond content: %d > %d", i, sp.End, size)
		}
		if i > 0 && sp.Start < prev {
			return fmt.Errorf("statement %d starts at %d before the end of statement %d (%d)", i, sp.Start, i-1, prev)
		}
		prev = sp.End
	}
	return nil
}

// CheckModuleInvariants verifies a finalized module: each key has exactly one
// public group with clauses, and every super target is a different group of
// the same key.
func CheckModuleInvariants(mod *unit.Module) error {
	if mod == nil {
		return fmt.Errorf("nil module")
	}
	for _, k := range mod.Keys() {
		name := k.Display(mod.Strings)
		g, ok := mod.Lookup(k)
		if !ok || g == nil {
			return fmt.Errorf("%s has no public group", name)
		}
		if g.Identity.Key != k {
			return fmt.Errorf("%s resolves to a group of %s", name, g.Identity.Key.Display(mod.Strings))
		}
		if len(g.Clauses) == 0 {
			return fmt.Errorf("public group of %s has no clauses", name)
		}
		for i, c := range g.Clauses {
			if !c.Super.IsValid() {
				continue
			}
			target := mod.Group(c.Super)
			if target == nil {
				return fmt.Errorf("clause %d of %s has a dangling super target", i, name)
			}
			if target.ID == g.ID {
				return fmt.Errorf("clause %d of %s supers into its own group", i, name)
			}
			if target.Identity.Key != k {
				return fmt.Errorf("clause %d of %s supers into %s", i, name, target.Identity.Key.Display(mod.Strings))
			}
		}
	}
	return nil
}
