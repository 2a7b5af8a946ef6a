package trace

import (
	"fmt"
	"slices"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota // no tracing
	LevelError               // only failures
	LevelPhase               // session and unit boundaries
	LevelDetail              // plus override bookkeeping steps
	LevelDebug               // everything
)

var levelNames = []string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel converts a flag value to a Level. An empty value means off.
func ParseLevel(s string) (Level, error) {
	if s == "" {
		return LevelOff, nil
	}
	i := slices.Index(levelNames, strings.ToLower(s))
	if i < 0 {
		return LevelOff, fmt.Errorf("invalid trace level %q, want one of %s", s, strings.Join(levelNames, "|"))
	}
	return Level(i), nil
}

// ShouldEmit reports whether an event of kind in scope passes the level.
// Errors pass every level except off; phase keeps session and unit events.
func (l Level) ShouldEmit(scope Scope, kind Kind) bool {
	if l == LevelOff {
		return false
	}
	if kind == KindError || l >= LevelDetail {
		return true
	}
	return l == LevelPhase && scope <= ScopeUnit
}
