package override

import (
	"errors"
	"fmt"
	"strings"

	"supra/internal/diag"
	"supra/internal/source"
)

// Error is a unit-fatal override failure carrying its diagnostic code.
type Error struct {
	Code diag.Code
	Span source.Span
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// CodeOf returns the diagnostic code of err, or diag.UnknownCode when err
// is not an *Error.
func CodeOf(err error) diag.Code {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Code
	}
	return diag.UnknownCode
}

func errorf(code diag.Code, sp source.Span, format string, args ...any) *Error {
	return &Error{Code: code, Span: sp, Msg: fmt.Sprintf(format, args...)}
}

func undefinedTarget(sp source.Span, pair string) *Error {
	return errorf(diag.DefUndefinedOverrideTarget, sp,
		"cannot make function `%s` overridable because it was not defined", pair)
}

func moduleNotCompiled(sp source.Span, module string) *Error {
	return errorf(diag.DefTargetModuleNotCompiled, sp,
		"cannot pass module `%s` as argument to defoverridable/1 because it was not defined", module)
}

func missingBehaviour(sp source.Span, module string) *Error {
	return errorf(diag.DefMissingBehaviourDeclaration, sp,
		"cannot pass module `%s` as argument to defoverridable/1 because its corresponding behaviour is missing. Did you forget to add the behaviour declaration for `%s`?",
		module, module)
}

func noCallbacks(sp source.Span, module string) *Error {
	return errorf(diag.DefNoCallbacksDeclared, sp,
		"cannot pass module `%s` as argument to defoverridable/1 because it does not define any callbacks", module)
}

func invalidSubject(sp source.Span, raw string) *Error {
	return errorf(diag.DefInvalidOverrideSubject, sp,
		"invalid argument for defoverridable/1, expected a list of name/arity pairs or a module, got: `%s`", raw)
}

func noSuper(sp source.Span, pair, module string, available []string) *Error {
	list := ""
	if len(available) > 0 {
		list = "`" + strings.Join(available, ", ") + "`"
	}
	return errorf(diag.DefNoSuperTarget, sp,
		"no super defined for `%s` in module `%s`. Overridable functions available are: %s", pair, module, list)
}
