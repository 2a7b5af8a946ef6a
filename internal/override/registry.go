// Package override implements defoverridable: validating requests, hiding
// clause groups behind a per-identity generation chain, resolving super
// references and promoting hidden groups back when a unit finishes.
package override

import (
	"errors"

	"supra/internal/ast"
	"supra/internal/defs"
	"supra/internal/source"
)

// ErrFinalized is returned when the registry is used after Finalize.
var ErrFinalized = errors.New("override registry already finalized")

type hiddenKey struct {
	key defs.Key
	gen uint32
}

// Marker is the override state of one identity.
type Marker struct {
	Identity   defs.Identity
	Generation uint32
	Span       source.Span
}

// Registry tracks the override markers of one unit. Hidden groups are kept
// under (key, generation) and never under a public name.
type Registry struct {
	table     *defs.Table
	strings   *source.Interner
	module    string
	markers   map[defs.Key]*Marker
	order     []defs.Key
	hidden    map[hiddenKey]defs.GroupID
	finalized bool
}

// NewRegistry binds a registry to the definition table of module.
func NewRegistry(table *defs.Table, strings *source.Interner, module string) *Registry {
	return &Registry{
		table:   table,
		strings: strings,
		module:  module,
		markers: make(map[defs.Key]*Marker),
		hidden:  make(map[hiddenKey]defs.GroupID),
	}
}

// MarkOverridable hides the current group of every key as the next
// generation. Marking a key again without new clauses hides the same group
// again under a bumped generation.
func (r *Registry) MarkOverridable(keys []defs.Key, sp source.Span) error {
	if r.finalized {
		return ErrFinalized
	}
	for _, k := range keys {
		if !r.table.Has(k) {
			return undefinedTarget(sp, k.Display(r.strings))
		}
	}
	for _, k := range keys {
		kind, _ := r.table.Kind(k)
		group, _ := r.table.Detach(k)
		m, ok := r.markers[k]
		if !ok {
			m = &Marker{Identity: defs.Identity{Key: k, Kind: kind}}
			r.markers[k] = m
			r.order = append(r.order, k)
		}
		m.Generation++
		m.Span = sp
		r.hidden[hiddenKey{key: k, gen: m.Generation}] = group
	}
	return nil
}

// ClauseGeneration is the generation a clause for k recorded now belongs to.
func (r *Registry) ClauseGeneration(k defs.Key) uint32 {
	if m, ok := r.markers[k]; ok {
		return m.Generation + 1
	}
	return 1
}

// ResolveSuper returns the group hidden right before generation gen of k.
func (r *Registry) ResolveSuper(k defs.Key, gen uint32, call *ast.Super) (defs.GroupID, error) {
	var sp source.Span
	if call != nil {
		sp = call.Span
	}
	if _, ok := r.markers[k]; ok && gen > 1 {
		if g, ok := r.Hidden(k, gen-1); ok {
			return g, nil
		}
	}
	available := make([]string, 0, len(r.order))
	for _, ak := range r.order {
		available = append(available, ak.Display(r.strings))
	}
	return defs.NoGroupID, noSuper(sp, k.Display(r.strings), r.module, available)
}

// Hidden returns the group hidden at generation gen of k.
func (r *Registry) Hidden(k defs.Key, gen uint32) (defs.GroupID, bool) {
	g, ok := r.hidden[hiddenKey{key: k, gen: gen}]
	return g, ok
}

// IsOverridable reports whether k has been marked overridable.
func (r *Registry) IsOverridable(k defs.Key) bool {
	_, ok := r.markers[k]
	return ok
}

// Marker returns the marker of k.
func (r *Registry) Marker(k defs.Key) (Marker, bool) {
	m, ok := r.markers[k]
	if !ok {
		return Marker{}, false
	}
	return *m, true
}

// Available lists marked keys in the order they were first marked.
func (r *Registry) Available() []defs.Key {
	out := make([]defs.Key, len(r.order))
	copy(out, r.order)
	return out
}

// Finalize promotes the hidden group of every marker that received no new
// clauses. Markers with new clauses keep them as the sole public group.
func (r *Registry) Finalize() error {
	if r.finalized {
		return ErrFinalized
	}
	r.finalized = true
	for _, k := range r.order {
		if r.table.Pending(k) {
			continue
		}
		m := r.markers[k]
		if g, ok := r.Hidden(k, m.Generation); ok {
			r.table.Promote(k, g)
		}
	}
	return nil
}
