package trace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer receives events. Implementations must be goroutine-safe because
// units of one session compile concurrently.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	Enabled() bool
}

// StorageMode determines how events are kept.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // write immediately
	ModeRing                          // keep the last N in memory
	ModeBoth
)

var modeNames = map[string]StorageMode{"": ModeStream, "stream": ModeStream, "ring": ModeRing, "both": ModeBoth}

// ParseMode converts a flag value to a StorageMode. Empty means stream.
func ParseMode(s string) (StorageMode, error) {
	if m, ok := modeNames[strings.ToLower(s)]; ok {
		return m, nil
	}
	return ModeStream, fmt.Errorf("invalid trace mode %q, want stream|ring|both", s)
}

// Config holds tracer configuration.
type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format
	Output     io.Writer // wins over OutputPath
	OutputPath string    // "-" or empty means stderr; *.ndjson selects NDJSON
	RingSize   int
}

// New builds a tracer for cfg. LevelOff yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.RingSize <= 0 {
		cfg.RingSize = 4096
	}
	if cfg.Format == FormatAuto {
		cfg.Format = FormatText
		if strings.HasSuffix(cfg.OutputPath, ".ndjson") {
			cfg.Format = FormatNDJSON
		}
	}
	switch cfg.Mode {
	case ModeRing:
		return NewRingTracer(cfg.RingSize, cfg.Level), nil
	case ModeStream, ModeBoth:
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		stream := NewStreamTracer(w, cfg.Level, cfg.Format)
		if cfg.Mode == ModeStream {
			return stream, nil
		}
		return &fanout{level: cfg.Level, tracers: []Tracer{stream, NewRingTracer(cfg.RingSize, cfg.Level)}}, nil
	default:
		return nil, fmt.Errorf("unknown storage mode: %d", cfg.Mode)
	}
}

func openOutput(cfg Config) (io.Writer, error) {
	if cfg.Output != nil {
		return cfg.Output, nil
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return os.Stderr, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}

// fanout forwards each event to several tracers.
type fanout struct {
	level   Level
	tracers []Tracer
}

func (f *fanout) Emit(ev *Event) {
	for _, t := range f.tracers {
		cp := *ev
		t.Emit(&cp)
	}
}

func (f *fanout) Flush() error { return f.each(Tracer.Flush) }
func (f *fanout) Close() error { return f.each(Tracer.Close) }

func (f *fanout) each(op func(Tracer) error) error {
	errs := make([]error, 0, len(f.tracers))
	for _, t := range f.tracers {
		errs = append(errs, op(t))
	}
	return errors.Join(errs...)
}

func (f *fanout) Level() Level  { return f.level }
func (f *fanout) Enabled() bool { return f.level > LevelOff }
