// Package diag defines the diagnostic model shared by the lexer, parser,
// unit compiler and session.
//
// A Diagnostic carries a Severity, a stable numeric Code (see codes.go), a
// human readable Message and a primary source.Span, plus optional Notes.
// Producers emit through a Reporter so they stay decoupled from storage;
// BagReporter collects into a Bag, DedupReporter drops repeats.
//
// Definition errors (DEF3xxx) are unit-fatal: the unit compiler reports the
// first one and stops processing that unit. Their messages are literal and
// deterministic, so tests compare them verbatim.
//
// Rendering lives in internal/diagfmt; this package does no IO.
package diag
