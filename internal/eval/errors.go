package eval

import "fmt"

// ErrorKind classifies runtime failures.
type ErrorKind uint8

const (
	ErrNoClause ErrorKind = iota + 1
	ErrUndefinedLocal
	ErrUndefinedRemote
	ErrUndefinedVar
	ErrDepth
	ErrDivisionByZero
)

// Error is a runtime failure raised while evaluating a call.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
