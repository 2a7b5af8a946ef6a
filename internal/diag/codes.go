package diag

import "fmt"

// Code is a stable numeric diagnostic identifier.
type Code uint16

const (
	UnknownCode Code = 0

	// lexical
	LexInfo        Code = 1000
	LexUnknownChar Code = 1001
	LexBadNumber   Code = 1002

	// syntax
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynExpectIdentifier   Code = 2002
	SynExpectUnitHeader   Code = 2003
	SynDefaultNotTrailing Code = 2004
	SynExpectArity        Code = 2005
	SynUnclosedParen      Code = 2006

	// definitions and overrides
	DefInfo                        Code = 3000
	DefUndefinedOverrideTarget     Code = 3001
	DefTargetModuleNotCompiled     Code = 3002
	DefMissingBehaviourDeclaration Code = 3003
	DefNoCallbacksDeclared         Code = 3004
	DefNoSuperTarget               Code = 3005
	DefInvalidOverrideSubject      Code = 3006
	DefKindConflict                Code = 3007
	DefDefaultsConflict            Code = 3008
	DefSuperArityMismatch          Code = 3009
	DefDuplicateCallback           Code = 3010
	DefSuperInDefault              Code = 3011

	// I/O
	IOLoadFileError Code = 4001

	// session / project
	ProjInfo             Code = 5000
	ProjDuplicateUnit    Code = 5001
	ProjUnitCycle        Code = 5002
	ProjDependencyFailed Code = 5003

	// observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:                    "Unknown error",
	LexInfo:                        "Lexical information",
	LexUnknownChar:                 "Unknown character",
	LexBadNumber:                   "Malformed integer literal",
	SynInfo:                        "Syntax information",
	SynUnexpectedToken:             "Unexpected token",
	SynExpectIdentifier:            "Expected identifier",
	SynExpectUnitHeader:            "Expected unit header",
	SynDefaultNotTrailing:          "Default arguments must be trailing",
	SynExpectArity:                 "Expected name/arity",
	SynUnclosedParen:               "Unclosed parenthesis",
	DefInfo:                        "Definition information",
	DefUndefinedOverrideTarget:     "Override target is not defined",
	DefTargetModuleNotCompiled:     "Behaviour module was not compiled",
	DefMissingBehaviourDeclaration: "Behaviour declaration is missing",
	DefNoCallbacksDeclared:         "Behaviour declares no callbacks",
	DefNoSuperTarget:               "No super target",
	DefInvalidOverrideSubject:      "Invalid defoverridable argument",
	DefKindConflict:                "Definition kind conflict",
	DefDefaultsConflict:            "Default arguments conflict",
	DefSuperArityMismatch:          "Super arity mismatch",
	DefDuplicateCallback:           "Duplicate callback",
	DefSuperInDefault:              "Super in default argument",
	IOLoadFileError:                "I/O load file error",
	ProjInfo:                       "Project information",
	ProjDuplicateUnit:              "Duplicate unit",
	ProjUnitCycle:                  "Behaviour dependency cycle",
	ProjDependencyFailed:           "Behaviour unit has errors",
	ObsInfo:                        "Observability information",
	ObsTimings:                     "Pipeline timings",
}

// ID renders the short form used in CLI and golden output, e.g. DEF3005.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("DEF%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

// Title returns the one-line description of the code.
func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
