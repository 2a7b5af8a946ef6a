package ui

import (
	"strings"
	"testing"

	"supra/internal/session"
)

func TestProgressTracksUnitEvents(t *testing.T) {
	files := []string{"units/base.ovr", "units/child.ovr"}
	m := NewProgressModel("building", files, nil).(*progressModel)

	m.Update(eventMsg{Unit: "Base", Path: "units/base.ovr", Kind: session.EventWorking})
	if m.rows[0].kind != session.EventWorking || m.rows[0].unit != "Base" {
		t.Fatalf("unexpected row %+v", m.rows[0])
	}
	if got := m.fraction(); got != 0.25 {
		t.Fatalf("fraction = %v, want 0.25", got)
	}
	m.Update(eventMsg{Unit: "Base", Path: "units/base.ovr", Kind: session.EventError})
	m.Update(eventMsg{Unit: "Child", Path: "units/child.ovr", Kind: session.EventSkipped})
	m.Update(eventMsg{Path: "units/unknown.ovr", Kind: session.EventDone})

	if got := m.fraction(); got != 1 {
		t.Fatalf("fraction = %v, want 1", got)
	}
	view := m.View()
	for _, want := range []string{"building 2/2, 1 failed, 1 skipped", "error", "skipped", "Child units/child.ovr"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestProgressDoneQuits(t *testing.T) {
	m := NewProgressModel("building", []string{"a.ovr"}, nil).(*progressModel)
	_, cmd := m.Update(doneMsg{})
	if !m.done || cmd == nil {
		t.Fatalf("done message should mark the model finished and quit")
	}
	if !strings.Contains(m.View(), "done: building 0/1") {
		t.Fatalf("unexpected view %q", m.View())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"units/very/long/path.ovr", 10, "units/v..."},
		{"short", 10, "short"},
		{"abcdef", 3, "abc"},
		{"anything", 0, "anything"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
