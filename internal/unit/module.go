package unit

import (
	"supra/internal/ast"
	"supra/internal/behaviour"
	"supra/internal/defs"
	"supra/internal/source"
)

// Export is one publicly callable definition.
type Export struct {
	Name  string
	Arity int
	Kind  ast.DefKind
}

// Module is a finalized unit. Every key resolves to exactly one public
// group; groups hidden by defoverridable stay reachable only through the
// super targets recorded in clauses.
type Module struct {
	Name    string
	File    source.FileID
	Strings *source.Interner

	table       *defs.Table
	public      map[defs.Key]defs.GroupID
	order       []defs.Key
	overridable []defs.Key
	callbacks   []behaviour.Callback
	behaviours  []string
}

// Lookup returns the public group of k, private definitions included.
func (m *Module) Lookup(k defs.Key) (*defs.ClauseGroup, bool) {
	g, ok := m.public[k]
	if !ok {
		return nil, false
	}
	return m.table.Group(g), true
}

// LookupName is Lookup by the textual name.
func (m *Module) LookupName(name string, arity int) (*defs.ClauseGroup, bool) {
	id, ok := m.Strings.Find(name)
	if !ok {
		return nil, false
	}
	return m.Lookup(defs.Key{Name: id, Arity: arity})
}

// Group returns any group of the unit by ID, hidden ones included.
func (m *Module) Group(id defs.GroupID) *defs.ClauseGroup { return m.table.Group(id) }

// Exports lists public definitions in first-definition order.
func (m *Module) Exports() []Export {
	out := make([]Export, 0, len(m.order))
	for _, k := range m.order {
		g := m.table.Group(m.public[k])
		if g == nil || !g.Public() {
			continue
		}
		out = append(out, Export{Name: m.Strings.MustLookup(k.Name), Arity: k.Arity, Kind: g.Identity.Kind})
	}
	return out
}

// Keys lists every definition, private ones included, in first-definition order.
func (m *Module) Keys() []defs.Key {
	out := make([]defs.Key, len(m.order))
	copy(out, m.order)
	return out
}

// IsOverridable reports whether k was marked overridable in the unit.
func (m *Module) IsOverridable(k defs.Key) bool {
	for _, o := range m.overridable {
		if o == k {
			return true
		}
	}
	return false
}

// IsOverridableName is IsOverridable by the textual name.
func (m *Module) IsOverridableName(name string, arity int) bool {
	id, ok := m.Strings.Find(name)
	return ok && m.IsOverridable(defs.Key{Name: id, Arity: arity})
}

// Overridable lists marked keys in the order they were first marked.
func (m *Module) Overridable() []defs.Key {
	out := make([]defs.Key, len(m.overridable))
	copy(out, m.overridable)
	return out
}

// Behaviours lists the behaviours the unit declared.
func (m *Module) Behaviours() []string {
	out := make([]string, len(m.behaviours))
	copy(out, m.behaviours)
	return out
}

// Contract returns the callbacks the unit declares for its implementers.
func (m *Module) Contract() behaviour.Contract {
	cbs := make([]behaviour.Callback, len(m.callbacks))
	copy(cbs, m.callbacks)
	return behaviour.Contract{Module: m.Name, Callbacks: cbs}
}
