package ast

import "supra/internal/source"

// Unit is a parsed compilation unit.
type Unit struct {
	Name     source.StringID
	NameSpan source.Span
	File     source.FileID
	Stmts    []Stmt
}

// Behaviours returns the unit names named by `behaviour` statements, in order.
func (u *Unit) Behaviours() []*BehaviourStmt {
	var out []*BehaviourStmt
	for _, st := range u.Stmts {
		if b, ok := st.(*BehaviourStmt); ok {
			out = append(out, b)
		}
	}
	return out
}

// OverriddenModules returns the `defoverridable M` statements, in order.
func (u *Unit) OverriddenModules() []*OverridableStmt {
	var out []*OverridableStmt
	for _, st := range u.Stmts {
		if o, ok := st.(*OverridableStmt); ok && o.Subject == SubjectModule {
			out = append(out, o)
		}
	}
	return out
}

// Stmt is a top-level statement.
type Stmt interface {
	Pos() source.Span
	stmtNode()
}

// DefKind is the definition keyword used for a clause.
type DefKind uint8

const (
	KindDef DefKind = iota + 1
	KindDefp
	KindDefmacro
	KindDefmacrop
)

func (k DefKind) String() string {
	switch k {
	case KindDef:
		return "def"
	case KindDefp:
		return "defp"
	case KindDefmacro:
		return "defmacro"
	case KindDefmacrop:
		return "defmacrop"
	default:
		return "invalid"
	}
}

// IsMacro reports whether k defines a macro.
func (k DefKind) IsMacro() bool { return k == KindDefmacro || k == KindDefmacrop }

// IsPublic reports whether definitions of kind k are exported.
func (k DefKind) IsPublic() bool { return k == KindDef || k == KindDefmacro }

// BehaviourStmt is `behaviour Module`.
type BehaviourStmt struct {
	Module source.StringID
	Span   source.Span
}

// CallbackStmt is one of callback / optional_callback / macrocallback /
// optional_macrocallback followed by name/arity.
type CallbackStmt struct {
	Name     source.StringID
	Arity    int
	Optional bool
	Macro    bool
	Span     source.Span
}

// DefStmt is one clause: def name(params) when guard = body.
type DefStmt struct {
	Kind     DefKind
	Name     source.StringID
	NameSpan source.Span
	Params   []Param
	Guard    Expr // nil when absent
	Body     Expr
	Span     source.Span
}

// Param is a head binder with an optional default value.
type Param struct {
	Pattern Pattern
	Default Expr
}

// PatternKind classifies a head binder.
type PatternKind uint8

const (
	PatVar PatternKind = iota + 1
	PatWildcard
	PatInt
)

// Pattern is a variable, `_` or an integer literal.
type Pattern struct {
	Kind  PatternKind
	Name  source.StringID
	Value int64
	Span  source.Span
}

// SubjectKind tells which form a defoverridable argument took.
type SubjectKind uint8

const (
	SubjectPairs   SubjectKind = iota + 1 // name/arity, ...
	SubjectModule                         // a unit name
	SubjectInvalid                        // anything else
)

// NameArity is one name/arity item.
type NameArity struct {
	Name  source.StringID
	Arity int
	Span  source.Span
}

// OverridableStmt is `defoverridable`.
type OverridableStmt struct {
	Subject SubjectKind
	Pairs   []NameArity
	Module  source.StringID
	Raw     string // source text of an invalid subject
	Span    source.Span
}

func (s *BehaviourStmt) Pos() source.Span   { return s.Span }
func (s *CallbackStmt) Pos() source.Span    { return s.Span }
func (s *DefStmt) Pos() source.Span         { return s.Span }
func (s *OverridableStmt) Pos() source.Span { return s.Span }

func (*BehaviourStmt) stmtNode()   {}
func (*CallbackStmt) stmtNode()    {}
func (*DefStmt) stmtNode()         {}
func (*OverridableStmt) stmtNode() {}
