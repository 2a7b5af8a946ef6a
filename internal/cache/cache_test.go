package cache

import (
	"testing"

	"supra/internal/behaviour"
	"supra/internal/project"
)

func TestPutGetByName(t *testing.T) {
	c, err := OpenDir(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	hash := project.HashContent([]byte("unit Contract\ncallback f/1\n"))
	meta := &UnitMeta{
		Name:        "Contract",
		ContentHash: hash,
		Callbacks:   []behaviour.Callback{{Name: "f", Arity: 1}, {Name: "g", Arity: 0, Optional: true, Macro: true}},
		Overridable: []string{"f/1"},
	}
	if err := c.Put(meta); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := c.Get(hash)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Name != "Contract" || len(got.Callbacks) != 2 || !got.Callbacks[1].Macro {
		t.Fatalf("unexpected meta %#v", got)
	}

	contract, ok := c.Contract("Contract")
	if !ok || len(contract.Callbacks) != 2 || contract.Callbacks[0].Name != "f" {
		t.Fatalf("unexpected contract %#v", contract)
	}
	if _, ok := c.Contract("Missing"); ok {
		t.Fatalf("unknown unit must miss")
	}
}

func TestDropAll(t *testing.T) {
	c, err := OpenDir(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	hash := project.HashContent([]byte("x"))
	if err := c.Put(&UnitMeta{Name: "X", ContentHash: hash}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if _, ok, _ := c.Get(hash); ok {
		t.Fatalf("entry must be gone after DropAll")
	}
}

func TestNilCacheIsAMiss(t *testing.T) {
	var c *Disk
	if _, ok, err := c.Get(project.Digest{}); ok || err != nil {
		t.Fatalf("nil cache must miss without error")
	}
	if err := c.Put(&UnitMeta{}); err != nil {
		t.Fatalf("nil cache put: %v", err)
	}
}
