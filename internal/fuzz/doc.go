// Package fuzztests holds fuzz harnesses for the front end: source bytes go
// through the lexer and parser and, when they parse cleanly, through the unit
// compiler. The harnesses only look for panics, hangs and broken module
// invariants; diagnostics are expected and ignored.
package fuzztests
