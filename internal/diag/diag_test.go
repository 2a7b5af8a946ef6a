package diag

import (
	"testing"

	"supra/internal/source"
)

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")
	file := fs.Add("/workspace/units/shapes.ovr", []byte("unit Shapes\ndef f(x) = super\n"), 0)

	diags := []*Diagnostic{
		NewError(DefNoSuperTarget, source.Span{File: file, Start: 23, End: 28}, "no super\nhere").
			WithNote(source.Span{File: file, Start: 12, End: 15}, "defined here"),
		New(SevWarning, SynUnexpectedToken, source.Span{File: file, Start: 0, End: 4}, "warn"),
	}

	want := "warning SYN2001 units/shapes.ovr:1:1 warn\n" +
		"note DEF3005 units/shapes.ovr:2:1 defined here\n" +
		"error DEF3005 units/shapes.ovr:2:12 no super here"
	if got := FormatShortDiagnostics(diags, fs, true); got != want {
		t.Fatalf("unexpected output:\nwant:\n%s\n\ngot:\n%s", want, got)
	}
}

func TestBagLimitAndSort(t *testing.T) {
	bag := NewBag(2)
	r := BagReporter{Bag: bag}
	r.Report(SynUnexpectedToken, SevError, source.Span{Start: 9}, "b", nil)
	r.Report(LexUnknownChar, SevWarning, source.Span{Start: 1}, "a", nil)
	r.Report(LexBadNumber, SevError, source.Span{Start: 0}, "dropped", nil)

	if bag.Len() != 2 {
		t.Fatalf("expected limit to hold, got %d items", bag.Len())
	}
	bag.Sort()
	if bag.Items()[0].Message != "a" {
		t.Fatalf("expected sorted order, got %q first", bag.Items()[0].Message)
	}
	if first := bag.First(); first == nil || first.Message != "b" {
		t.Fatalf("First() = %+v", first)
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	for range 3 {
		ReportError(r, DefNoSuperTarget, source.Span{Start: 1, End: 2}, "same").Emit()
	}
	if bag.Len() != 1 {
		t.Fatalf("expected duplicates to be dropped, got %d", bag.Len())
	}
	if got := DefNoSuperTarget.ID(); got != "DEF3005" {
		t.Fatalf("ID() = %q", got)
	}
}

func TestSeverityNames(t *testing.T) {
	for sev, want := range map[Severity][2]string{
		SevInfo:     {"info", "INFO"},
		SevWarning:  {"warning", "WARNING"},
		SevError:    {"error", "ERROR"},
		Severity(9): {"unknown", "UNKNOWN"},
	} {
		if sev.Label() != want[0] || sev.String() != want[1] {
			t.Fatalf("severity %d = %q/%q, want %q/%q", sev, sev.Label(), sev.String(), want[0], want[1])
		}
	}
}
