package dag

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// Topo is a Kahn ordering of the present units.
type Topo struct {
	Order   []UnitID
	Batches [][]UnitID // units of one batch do not depend on each other
	Cyclic  bool
	Cycles  []UnitID // units never released because of a cycle
}

// ToposortKahn orders g in dependency-first batches.
func ToposortKahn(g Graph) *Topo {
	count := len(g.Edges)
	indeg := slices.Clone(g.Indeg)
	topo := &Topo{Order: make([]UnitID, 0, count)}

	active := 0
	current := make([]UnitID, 0, count)
	for i := range count {
		if !g.Present[i] {
			continue
		}
		active++
		if indeg[i] == 0 {
			current = append(current, toID(i))
		}
	}

	for len(current) > 0 {
		batch := slices.Clone(current)
		topo.Batches = append(topo.Batches, batch)
		var next []UnitID
		for _, id := range batch {
			topo.Order = append(topo.Order, id)
			for _, to := range g.Edges[int(id)] {
				indeg[int(to)]--
				if indeg[int(to)] == 0 {
					next = append(next, to)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if len(topo.Order) != active {
		topo.Cyclic = true
		for i := range count {
			if g.Present[i] && indeg[i] > 0 {
				topo.Cycles = append(topo.Cycles, toID(i))
			}
		}
	}
	return topo
}

func toID(i int) UnitID {
	id, err := safecast.Conv[UnitID](i)
	if err != nil {
		panic(fmt.Errorf("unit id overflow: %w", err))
	}
	return id
}
