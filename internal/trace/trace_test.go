package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestLevelFiltersScopes(t *testing.T) {
	ring := NewRingTracer(16, LevelPhase)
	ctx := WithTracer(context.Background(), ring)

	unit := Begin(ctx, ScopeUnit, "unit:Shapes")
	Point(WithSpan(ctx, unit), ScopeStep, "defoverridable", "area/1")
	Fail(ctx, ScopeStep, "super", "no target")
	unit.End("ok")

	events := ring.Snapshot()
	if len(events) != 3 {
		t.Fatalf("expected begin, error, end; got %d events", len(events))
	}
	if events[1].Kind != KindError {
		t.Fatalf("expected error event to pass phase level, got %v", events[1].Kind)
	}
}

func TestStreamTextFormat(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDebug, Mode: ModeStream, Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := WithTracer(context.Background(), tr)
	sp := Begin(ctx, ScopeSession, "build").WithExtra("units", "2")
	sp.End("done")

	out := buf.String()
	if !strings.Contains(out, "→ build") || !strings.Contains(out, "← build (done) {units=2}") {
		t.Fatalf("unexpected trace output:\n%s", out)
	}
}

func TestNopWhenOff(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("LevelOff must give a disabled tracer, got %v %v", tr, err)
	}
	if FromContext(context.Background()) != Nop {
		t.Fatalf("empty context must yield Nop")
	}
}

func TestParseLevelAndMode(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want Level
	}{{"", LevelOff}, {"Phase", LevelPhase}, {"debug", LevelDebug}} {
		got, err := ParseLevel(tt.in)
		if err != nil || got != tt.want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if m, err := ParseMode("RING"); err != nil || m != ModeRing {
		t.Fatalf("ParseMode(RING) = %v, %v", m, err)
	}
	if _, err := ParseMode("disk"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestFormatNDJSON(t *testing.T) {
	ev := &Event{Seq: 7, Kind: KindPoint, Scope: ScopeStep, Name: "super", Detail: "f/1"}
	line := string(FormatEvent(ev, FormatNDJSON))
	if !strings.HasSuffix(line, "\n") || !strings.Contains(line, `"seq":7`) || !strings.Contains(line, `"detail":"f/1"`) {
		t.Fatalf("unexpected ndjson line %q", line)
	}
}
