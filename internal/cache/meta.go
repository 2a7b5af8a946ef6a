package cache

import (
	"supra/internal/project"
	"supra/internal/unit"
)

// MetaFromModule captures the cacheable parts of a finalized unit.
func MetaFromModule(mod *unit.Module, hash project.Digest) *UnitMeta {
	contract := mod.Contract()
	meta := &UnitMeta{
		Name:        mod.Name,
		ContentHash: hash,
		Callbacks:   contract.Callbacks,
	}
	for _, ex := range mod.Exports() {
		meta.Exports = append(meta.Exports, Export{Name: ex.Name, Arity: ex.Arity, Kind: ex.Kind.String()})
	}
	for _, k := range mod.Overridable() {
		meta.Overridable = append(meta.Overridable, k.Display(mod.Strings))
	}
	return meta
}
