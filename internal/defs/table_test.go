package defs_test

import (
	"errors"
	"testing"

	"supra/internal/ast"
	"supra/internal/defs"
	"supra/internal/source"
)

func ident(name source.StringID, arity int, kind ast.DefKind) defs.Identity {
	return defs.Identity{Key: defs.Key{Name: name, Arity: arity}, Kind: kind}
}

func TestRecordAccumulatesClauses(t *testing.T) {
	tbl := defs.NewTable()
	id := ident(1, 1, ast.KindDef)
	first, err := tbl.Record(id, defs.Clause{Generation: 1})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	second, err := tbl.Record(id, defs.Clause{Generation: 1})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if first != second {
		t.Fatalf("clauses of one identity must share a group: %d vs %d", first, second)
	}
	g, ok := tbl.Snapshot(id.Key)
	if !ok || len(g.Clauses) != 2 {
		t.Fatalf("expected 2 clauses, got %#v", g)
	}
}

func TestDetachOpensFreshGroup(t *testing.T) {
	tbl := defs.NewTable()
	id := ident(1, 0, ast.KindDefp)
	orig, _ := tbl.Record(id, defs.Clause{Generation: 1})

	hidden, ok := tbl.Detach(id.Key)
	if !ok || hidden != orig {
		t.Fatalf("detach returned %d, want %d", hidden, orig)
	}
	if tbl.Pending(id.Key) {
		t.Fatalf("nothing pending right after detach")
	}
	if g, _ := tbl.Snapshot(id.Key); g.ID != orig {
		t.Fatalf("snapshot after detach must still resolve the hidden group")
	}

	next, _ := tbl.Record(id, defs.Clause{Generation: 2})
	if next == orig {
		t.Fatalf("record after detach must open a new group")
	}
	if !tbl.Pending(id.Key) {
		t.Fatalf("expected pending clauses")
	}
	if g, _ := tbl.Snapshot(id.Key); g.ID != next {
		t.Fatalf("snapshot must resolve the pending group")
	}
	if got := len(tbl.Group(orig).Clauses); got != 1 {
		t.Fatalf("hidden group must keep its clauses, got %d", got)
	}
}

func TestRecordRejectsKindChange(t *testing.T) {
	tbl := defs.NewTable()
	if _, err := tbl.Record(ident(1, 1, ast.KindDef), defs.Clause{}); err != nil {
		t.Fatalf("record: %v", err)
	}
	_, err := tbl.Record(ident(1, 1, ast.KindDefp), defs.Clause{})
	var conflict *defs.KindConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected KindConflictError, got %v", err)
	}
	if conflict.Existing != ast.KindDef || conflict.Got != ast.KindDefp {
		t.Fatalf("unexpected conflict %#v", conflict)
	}
}

func TestKeysKeepFirstDefinitionOrder(t *testing.T) {
	tbl := defs.NewTable()
	for _, name := range []source.StringID{3, 1, 2, 1, 3} {
		if _, err := tbl.Record(ident(name, 0, ast.KindDef), defs.Clause{}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	keys := tbl.Keys()
	want := []source.StringID{3, 1, 2}
	if len(keys) != len(want) {
		t.Fatalf("got %d keys, want %d", len(keys), len(want))
	}
	for i, k := range keys {
		if k.Name != want[i] {
			t.Fatalf("key %d = %d, want %d", i, k.Name, want[i])
		}
	}
}
