package defs

import (
	"fmt"

	"supra/internal/ast"
)

// KindConflictError is returned by Record when a name/arity already
// defined with one kind is defined again with another.
type KindConflictError struct {
	Key      Key
	Existing ast.DefKind
	Got      ast.DefKind
}

func (e *KindConflictError) Error() string {
	return fmt.Sprintf("%s already defined as %s", e.Got, e.Existing)
}

type entry struct {
	kind ast.DefKind
	// current receives new clauses; NoGroupID while the identity is hidden
	// and no clause arrived since.
	current GroupID
	// latest is what Snapshot resolves to.
	latest GroupID
}

// Table accumulates the clause groups of one unit in source order.
// It is owned by a single unit compiler and is not safe for concurrent use.
type Table struct {
	groups  *Groups
	entries map[Key]*entry
	order   []Key
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		groups:  NewGroups(0),
		entries: make(map[Key]*entry),
	}
}

// Record appends c to the group accumulating clauses for id. The first
// clause of an identity creates its group; the first clause after the
// identity was hidden opens a fresh group.
func (t *Table) Record(id Identity, c Clause) (GroupID, error) {
	e, ok := t.entries[id.Key]
	if !ok {
		e = &entry{kind: id.Kind}
		t.entries[id.Key] = e
		t.order = append(t.order, id.Key)
	} else if e.kind != id.Kind {
		return NoGroupID, &KindConflictError{Key: id.Key, Existing: e.kind, Got: id.Kind}
	}
	if !e.current.IsValid() {
		e.current = t.groups.New(Identity{Key: id.Key, Kind: e.kind})
		e.latest = e.current
	}
	g := t.groups.Get(e.current)
	if len(g.Clauses) == 0 {
		g.Span = c.Span
	}
	g.Clauses = append(g.Clauses, c)
	return e.current, nil
}

// Snapshot returns the group currently resolvable for k: the pending group
// when clauses arrived after the latest hide, otherwise the most recent group.
func (t *Table) Snapshot(k Key) (*ClauseGroup, bool) {
	e, ok := t.entries[k]
	if !ok {
		return nil, false
	}
	return t.groups.Get(e.latest), true
}

// Kind reports the kind k was defined with.
func (t *Table) Kind(k Key) (ast.DefKind, bool) {
	e, ok := t.entries[k]
	if !ok {
		return 0, false
	}
	return e.kind, true
}

// Has reports whether k has been defined.
func (t *Table) Has(k Key) bool {
	_, ok := t.entries[k]
	return ok
}

// Detach hides the group currently resolvable for k and returns it. The
// next Record for k opens a fresh group.
func (t *Table) Detach(k Key) (GroupID, bool) {
	e, ok := t.entries[k]
	if !ok {
		return NoGroupID, false
	}
	e.current = NoGroupID
	return e.latest, true
}

// Pending reports whether clauses arrived for k since it was last detached.
func (t *Table) Pending(k Key) bool {
	e, ok := t.entries[k]
	return ok && e.current.IsValid()
}

// Replace swaps every clause of the pending group of k for c. It reports
// false when k has no pending group.
func (t *Table) Replace(k Key, c Clause) bool {
	e, ok := t.entries[k]
	if !ok || !e.current.IsValid() {
		return false
	}
	g := t.groups.Get(e.current)
	g.Clauses = []Clause{c}
	g.Span = c.Span
	return true
}

// Promote makes g the public group of k again.
func (t *Table) Promote(k Key, g GroupID) {
	if e, ok := t.entries[k]; ok {
		e.current = g
		e.latest = g
	}
}

// Group returns the group with the given ID, hidden groups included.
func (t *Table) Group(id GroupID) *ClauseGroup { return t.groups.Get(id) }

// Keys returns every defined key in first-definition order.
func (t *Table) Keys() []Key {
	out := make([]Key, len(t.order))
	copy(out, t.order)
	return out
}

// Len reports the number of allocated groups, hidden ones included.
func (t *Table) Len() int { return t.groups.Len() }
