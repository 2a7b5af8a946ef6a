package project

import (
	"slices"

	"supra/internal/ast"
	"supra/internal/source"
)

// BehaviourRef is one `behaviour M` or `defoverridable M` statement.
type BehaviourRef struct {
	Name string
	Span source.Span
}

// UnitMeta describes a parsed unit for dependency planning.
type UnitMeta struct {
	Name        string
	File        source.FileID
	Span        source.Span
	Behaviours  []BehaviourRef
	// Uses are module subjects of defoverridable. They order the build
	// like behaviours but declare nothing.
	Uses        []BehaviourRef
	ContentHash Digest
}

// MetaFromUnit extracts planning metadata from a parsed unit.
func MetaFromUnit(u *ast.Unit, strings *source.Interner, content []byte) UnitMeta {
	name, _ := strings.Lookup(u.Name)
	meta := UnitMeta{
		Name:        name,
		File:        u.File,
		Span:        u.NameSpan,
		ContentHash: HashContent(content),
	}
	for _, b := range u.Behaviours() {
		meta.Behaviours = append(meta.Behaviours, BehaviourRef{Name: strings.MustLookup(b.Module), Span: b.Span})
	}
	for _, o := range u.OverriddenModules() {
		meta.Uses = append(meta.Uses, BehaviourRef{Name: strings.MustLookup(o.Module), Span: o.Span})
	}
	return meta
}

// Requires lists every unit that must be compiled before this one:
// behaviours first, then defoverridable module subjects.
func (m UnitMeta) Requires() []BehaviourRef {
	return append(slices.Clone(m.Behaviours), m.Uses...)
}
