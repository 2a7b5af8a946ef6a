package observ

import (
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	timer := NewTimer()
	done := timer.Track("parse")
	done("3 files")
	idx := timer.Begin("compile")
	timer.End(idx, "")

	report := timer.Report()
	if len(report.Phases) != 2 || report.Phases[0].Note != "3 files" {
		t.Fatalf("unexpected report %+v", report)
	}
	summary := timer.Summary()
	if !strings.Contains(summary, "parse") || !strings.Contains(summary, "// 3 files") || !strings.Contains(summary, "total") {
		t.Fatalf("unexpected summary:\n%s", summary)
	}
}

func TestNilTimer(t *testing.T) {
	var timer *Timer
	timer.Track("x")("")
	if len(timer.Report().Phases) != 0 {
		t.Fatalf("nil timer must report nothing")
	}
}
