package dag

import (
	"sort"

	"supra/internal/project"
)

// UnitID is the dense index of a unit name inside one session.
type UnitID uint32

// Index maps unit names to dense IDs.
type Index struct {
	NameToID map[string]UnitID
	IDToName []string
}

// BuildIndex assigns IDs to every unit name and every unit it requires,
// in sorted order.
func BuildIndex(metas []project.UnitMeta) Index {
	uniq := make(map[string]struct{}, len(metas))
	for _, meta := range metas {
		if meta.Name != "" {
			uniq[meta.Name] = struct{}{}
		}
		for _, b := range meta.Requires() {
			if b.Name != "" {
				uniq[b.Name] = struct{}{}
			}
		}
	}

	names := make([]string, 0, len(uniq))
	for name := range uniq {
		names = append(names, name)
	}
	sort.Strings(names)

	nameToID := make(map[string]UnitID, len(names))
	for i, name := range names {
		nameToID[name] = UnitID(i)
	}
	return Index{NameToID: nameToID, IDToName: names}
}
