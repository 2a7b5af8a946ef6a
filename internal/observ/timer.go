// Package observ measures build phases for --timings.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase is one measured step. Dur stays zero until the phase ends.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer records phases in the order they begin. Safe for concurrent use;
// a nil *Timer records nothing.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
}

func NewTimer() *Timer { return &Timer{} }

// Begin starts a phase and returns its handle for End.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.mu.Lock()
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	idx := len(t.phases) - 1
	t.mu.Unlock()
	return idx
}

// End closes the phase behind idx. Unknown handles are ignored.
func (t *Timer) End(idx int, note string) {
	if t == nil {
		return
	}
	now := time.Now()
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx >= 0 && idx < len(t.phases) {
		t.phases[idx].Dur = now.Sub(t.phases[idx].Start)
		t.phases[idx].Note = note
	}
}

// Track starts name and hands back the function that ends it.
func (t *Timer) Track(name string) func(note string) {
	idx := t.Begin(name)
	return func(note string) { t.End(idx, note) }
}

// PhaseReport is the serialisable form of a phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report aggregates all phases. TotalMS is the sum of phase durations.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) snapshot() []Phase {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Phase(nil), t.phases...)
}

// Report snapshots the recorded phases.
func (t *Timer) Report() Report {
	var r Report
	var total time.Duration
	for _, p := range t.snapshot() {
		total += p.Dur
		r.Phases = append(r.Phases, PhaseReport{Name: p.Name, DurationMS: ms(p.Dur), Note: p.Note})
	}
	r.TotalMS = ms(total)
	return r
}

// Summary renders the report as a table padded to the longest phase name.
func (t *Timer) Summary() string {
	r := t.Report()
	width := len("total")
	for _, p := range r.Phases {
		width = max(width, len(p.Name))
	}
	var b strings.Builder
	b.WriteString("timings:\n")
	row := func(name string, v float64, note string) {
		fmt.Fprintf(&b, "  %-*s %8.2f ms", width, name, v)
		if note != "" {
			fmt.Fprintf(&b, "  // %s", note)
		}
		b.WriteByte('\n')
	}
	for _, p := range r.Phases {
		row(p.Name, p.DurationMS, p.Note)
	}
	row("total", r.TotalMS, "")
	return b.String()
}

func ms(d time.Duration) float64 { return d.Seconds() * 1e3 }
