// Package dag orders units so that every behaviour, and every module passed
// to defoverridable, is compiled before the units that name it.
package dag

import (
	"fmt"
	"slices"
	"strings"

	"supra/internal/diag"
	"supra/internal/project"
	"supra/internal/source"
)

// Graph has an edge from every behaviour unit to each unit declaring it.
type Graph struct {
	Edges   [][]UnitID // Edges[behaviour] = dependents
	Indeg   []int      // counts only behaviours present in the session
	Present []bool     // the unit has a source file in the session
}

// UnitNode is one parsed unit offered to BuildGraph.
type UnitNode struct {
	Meta     project.UnitMeta
	Reporter diag.Reporter
	Broken   bool
	FirstErr *diag.Diagnostic
}

// UnitSlot is the per-ID view of the session after BuildGraph.
type UnitSlot struct {
	Meta     project.UnitMeta
	Reporter diag.Reporter
	Present  bool
	Broken   bool
	FirstErr *diag.Diagnostic
}

// BuildGraph places nodes into slots and adds an edge for every behaviour
// and defoverridable module subject. Required units with no source in the session get no edge; the compiler decides later
// whether they can be resolved some other way.
func BuildGraph(idx Index, nodes []UnitNode) (Graph, []UnitSlot) {
	count := len(idx.IDToName)
	g := Graph{
		Edges:   make([][]UnitID, count),
		Indeg:   make([]int, count),
		Present: make([]bool, count),
	}
	slots := make([]UnitSlot, count)
	for i, name := range idx.IDToName {
		slots[i].Meta.Name = name
	}

	for _, node := range nodes {
		id, ok := idx.NameToID[node.Meta.Name]
		if !ok || node.Meta.Name == "" {
			continue
		}
		slot := &slots[int(id)]
		if slot.Present {
			reportDuplicate(node, slot.Meta)
			continue
		}
		slot.Meta = node.Meta
		slot.Reporter = node.Reporter
		slot.Present = true
		slot.Broken = node.Broken
		slot.FirstErr = node.FirstErr
		g.Present[int(id)] = true
	}

	for to := range slots {
		slot := &slots[to]
		if !slot.Present {
			continue
		}
		reqs := slot.Meta.Requires()
		seen := make(map[UnitID]struct{}, len(reqs))
		for _, b := range reqs {
			from, ok := idx.NameToID[b.Name]
			if !ok || int(from) == to || !g.Present[int(from)] {
				continue
			}
			if _, dup := seen[from]; dup {
				continue
			}
			seen[from] = struct{}{}
			g.Edges[from] = append(g.Edges[from], UnitID(to))
			g.Indeg[to]++
		}
	}
	for from := range g.Edges {
		slices.Sort(g.Edges[from])
	}
	return g, slots
}

func reportDuplicate(node UnitNode, prev project.UnitMeta) {
	if node.Reporter == nil {
		return
	}
	var notes []diag.Note
	if prev.Span != (source.Span{}) {
		notes = append(notes, diag.Note{Span: prev.Span, Msg: fmt.Sprintf("previous declaration of %s", prev.Name)})
	}
	node.Reporter.Report(diag.ProjDuplicateUnit, diag.SevError, node.Meta.Span,
		fmt.Sprintf("unit %s is defined more than once", node.Meta.Name), notes)
}

// ReportCycles reports every unit left in a behaviour cycle.
func ReportCycles(idx Index, slots []UnitSlot, topo *Topo) {
	if !topo.Cyclic || len(topo.Cycles) == 0 {
		return
	}
	names := make([]string, 0, len(topo.Cycles))
	for _, id := range topo.Cycles {
		names = append(names, idx.IDToName[int(id)])
	}
	summary := strings.Join(names, " -> ")
	for _, id := range topo.Cycles {
		slot := slots[int(id)]
		if !slot.Present || slot.Reporter == nil {
			continue
		}
		msg := fmt.Sprintf("unit %s participates in a behaviour cycle: %s", slot.Meta.Name, summary)
		slot.Reporter.Report(diag.ProjUnitCycle, diag.SevError, slot.Meta.Span, msg, nil)
	}
}

// ReportBrokenDep reports that the behaviour b of slot failed to compile.
func ReportBrokenDep(slot *UnitSlot, b project.BehaviourRef, dep *UnitSlot) {
	if slot.Reporter == nil {
		return
	}
	var notes []diag.Note
	if dep.FirstErr != nil {
		notes = append(notes, diag.Note{
			Span: dep.FirstErr.Primary,
			Msg:  fmt.Sprintf("first error in behaviour: %s", dep.FirstErr.Message),
		})
	}
	slot.Reporter.Report(diag.ProjDependencyFailed, diag.SevError, b.Span,
		fmt.Sprintf("behaviour unit %s has errors", b.Name), notes)
}
