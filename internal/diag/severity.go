package diag

import "strings"

// Severity ranks a diagnostic. Only SevError fails a unit.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityNames = [...]string{SevInfo: "info", SevWarning: "warning", SevError: "error"}

// Label is the lowercase name printed in terminal output.
func (s Severity) Label() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "unknown"
}

// String is the uppercase name used in JSON documents.
func (s Severity) String() string {
	return strings.ToUpper(s.Label())
}
