package trace

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Format selects the event encoding.
type Format uint8

const (
	FormatAuto   Format = iota // pick from the output path
	FormatText                 // human readable
	FormatNDJSON               // one JSON object per line
)

// FormatEvent encodes ev as a single line.
func FormatEvent(ev *Event, format Format) []byte {
	var line []byte
	if format == FormatNDJSON {
		line = ndjsonLine(ev)
	} else {
		line = []byte(textLine(ev))
	}
	if line == nil {
		return nil
	}
	return append(line, '\n')
}

type wireEvent struct {
	Time     string            `json:"time"`
	Seq      uint64            `json:"seq"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	SpanID   uint64            `json:"span_id,omitempty"`
	ParentID uint64            `json:"parent_id,omitempty"`
	Name     string            `json:"name"`
	Detail   string            `json:"detail,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

const wireTime = "2006-01-02T15:04:05.000000Z07:00"

func ndjsonLine(ev *Event) []byte {
	data, err := json.Marshal(wireEvent{
		Time:     ev.Time.Format(wireTime),
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		Name:     ev.Name,
		Detail:   ev.Detail,
		Extra:    ev.Extra,
	})
	if err != nil {
		return nil
	}
	return data
}

var kindMarks = map[Kind]string{
	KindSpanBegin: "→",
	KindSpanEnd:   "←",
	KindPoint:     "•",
	KindError:     "!",
}

// textLine renders "#seq [scope] mark name (detail) {k=v, ...}".
// Nested events get two extra spaces of indent.
func textLine(ev *Event) string {
	indent := ""
	if ev.ParentID > 0 {
		indent = "  "
	}
	line := fmt.Sprintf("#%-5d [%-7s] %s%s %s", ev.Seq, ev.Scope, indent, kindMarks[ev.Kind], ev.Name)
	if ev.Detail != "" {
		line += " (" + ev.Detail + ")"
	}
	if len(ev.Extra) == 0 {
		return line
	}
	pairs := make([]string, 0, len(ev.Extra))
	for _, k := range slices.Sorted(maps.Keys(ev.Extra)) {
		pairs = append(pairs, k+"="+ev.Extra[k])
	}
	return line + " {" + strings.Join(pairs, ", ") + "}"
}
