package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var (
	globalSeq   atomic.Uint64
	globalSpans atomic.Uint64
)

// NextSeq returns a process-wide monotonically increasing sequence number.
func NextSeq() uint64 { return globalSeq.Add(1) }

// Span tracks one begin/end pair. A span from a disabled tracer is inert.
type Span struct {
	tracer  Tracer
	head    Event
	started time.Time
	extra   map[string]string
}

var inert = &Span{tracer: Nop}

// Begin starts a span under the span recorded in ctx.
func Begin(ctx context.Context, scope Scope, name string) *Span {
	t := FromContext(ctx)
	if !admits(t, scope, KindSpanBegin) {
		return inert
	}
	now := time.Now()
	s := &Span{
		tracer: t,
		head: Event{
			Scope:    scope,
			SpanID:   globalSpans.Add(1),
			ParentID: CurrentSpan(ctx),
			Name:     name,
		},
		started: now,
	}
	begin := s.head
	begin.Time, begin.Kind = now, KindSpanBegin
	t.Emit(&begin)
	return s
}

func (s *Span) live() bool { return s != nil && s != inert && s.tracer.Enabled() }

// WithExtra attaches a key/value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if !s.live() {
		return s
	}
	if s.extra == nil {
		s.extra = map[string]string{}
	}
	s.extra[key] = value
	return s
}

// End emits the end event and returns how long the span was open.
func (s *Span) End(detail string) time.Duration {
	if !s.live() {
		return 0
	}
	end := s.head
	end.Time = time.Now()
	end.Kind = KindSpanEnd
	end.Detail = detail
	end.Extra = s.extra
	s.tracer.Emit(&end)
	return end.Time.Sub(s.started)
}

// Point emits an instant event.
func Point(ctx context.Context, scope Scope, name, detail string) {
	instant(ctx, KindPoint, scope, name, detail)
}

// Fail emits an error event.
func Fail(ctx context.Context, scope Scope, name, detail string) {
	instant(ctx, KindError, scope, name, detail)
}

func instant(ctx context.Context, kind Kind, scope Scope, name, detail string) {
	t := FromContext(ctx)
	if !admits(t, scope, kind) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Kind:     kind,
		Scope:    scope,
		ParentID: CurrentSpan(ctx),
		Name:     name,
		Detail:   detail,
	})
}

func admits(t Tracer, scope Scope, kind Kind) bool {
	return t.Enabled() && t.Level().ShouldEmit(scope, kind)
}
