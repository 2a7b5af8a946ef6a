package dag

import (
	"reflect"
	"testing"

	"supra/internal/diag"
	"supra/internal/project"
	"supra/internal/source"
)

func batchNames(idx Index, batches [][]UnitID) [][]string {
	out := make([][]string, len(batches))
	for i, batch := range batches {
		for _, id := range batch {
			out[i] = append(out[i], idx.IDToName[int(id)])
		}
	}
	return out
}

func meta(name string, behaviours ...string) project.UnitMeta {
	m := project.UnitMeta{Name: name}
	for _, b := range behaviours {
		m.Behaviours = append(m.Behaviours, project.BehaviourRef{Name: b})
	}
	return m
}

func TestBehavioursCompileFirst(t *testing.T) {
	metas := []project.UnitMeta{
		meta("Square", "Shape"),
		meta("Circle", "Shape", "Named"),
		meta("Shape"),
		meta("Named"),
		meta("Loose", "External"),
	}
	nodes := make([]UnitNode, 0, len(metas))
	for _, m := range metas {
		nodes = append(nodes, UnitNode{Meta: m})
	}
	idx := BuildIndex(metas)
	g, _ := BuildGraph(idx, nodes)
	topo := ToposortKahn(g)
	if topo.Cyclic {
		t.Fatalf("unexpected cycle")
	}
	want := [][]string{{"Loose", "Named", "Shape"}, {"Circle", "Square"}}
	if got := batchNames(idx, topo.Batches); !reflect.DeepEqual(got, want) {
		t.Fatalf("batches = %v, want %v", got, want)
	}
}

func TestCyclesAreReported(t *testing.T) {
	bagA, bagB := diag.NewBag(5), diag.NewBag(5)
	metas := []project.UnitMeta{meta("A", "B"), meta("B", "A"), meta("C")}
	idx := BuildIndex(metas)
	g, slots := BuildGraph(idx, []UnitNode{
		{Meta: metas[0], Reporter: diag.BagReporter{Bag: bagA}},
		{Meta: metas[1], Reporter: diag.BagReporter{Bag: bagB}},
		{Meta: metas[2]},
	})
	topo := ToposortKahn(g)
	if !topo.Cyclic || len(topo.Cycles) != 2 {
		t.Fatalf("expected a two-unit cycle, got %+v", topo)
	}
	ReportCycles(idx, slots, topo)
	for _, bag := range []*diag.Bag{bagA, bagB} {
		if bag.Len() != 1 || bag.Items()[0].Code != diag.ProjUnitCycle {
			t.Fatalf("expected one cycle diagnostic per unit")
		}
	}
	if got := batchNames(idx, topo.Batches); !reflect.DeepEqual(got, [][]string{{"C"}}) {
		t.Fatalf("only C can be compiled, got %v", got)
	}
}

func TestDuplicateUnits(t *testing.T) {
	bag := diag.NewBag(5)
	first := project.UnitMeta{Name: "A", Span: source.Span{File: 1, Start: 5, End: 6}}
	second := project.UnitMeta{Name: "A", Span: source.Span{File: 2, Start: 5, End: 6}}
	idx := BuildIndex([]project.UnitMeta{first, second})
	_, slots := BuildGraph(idx, []UnitNode{
		{Meta: first},
		{Meta: second, Reporter: diag.BagReporter{Bag: bag}},
	})
	if bag.Len() != 1 || bag.Items()[0].Code != diag.ProjDuplicateUnit {
		t.Fatalf("expected a duplicate unit diagnostic")
	}
	if len(bag.Items()[0].Notes) != 1 {
		t.Fatalf("expected a note pointing at the first declaration")
	}
	if slots[0].Meta.Span.File != 1 {
		t.Fatalf("the first declaration must win")
	}
}

func TestOverriddenModulesOrderLikeBehaviours(t *testing.T) {
	impl := meta("Impl")
	impl.Uses = []project.BehaviourRef{{Name: "M"}, {Name: "Gone"}}
	metas := []project.UnitMeta{impl, meta("M", "Base"), meta("Base")}
	nodes := make([]UnitNode, 0, len(metas))
	for _, m := range metas {
		nodes = append(nodes, UnitNode{Meta: m})
	}
	idx := BuildIndex(metas)
	g, _ := BuildGraph(idx, nodes)
	topo := ToposortKahn(g)
	want := [][]string{{"Base"}, {"M"}, {"Impl"}}
	if got := batchNames(idx, topo.Batches); !reflect.DeepEqual(got, want) {
		t.Fatalf("batches = %v, want %v", got, want)
	}
	if _, ok := idx.NameToID["Gone"]; !ok {
		t.Fatalf("required units without source must still get an ID")
	}
}
