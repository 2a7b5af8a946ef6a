package ast

import "supra/internal/source"

// Expr is a term inside a guard, body or default value.
type Expr interface {
	Pos() source.Span
	exprNode()
}

// IntLit is an integer literal.
type IntLit struct {
	Value int64
	Span  source.Span
}

// Var references a head binder.
type Var struct {
	Name source.StringID
	Span source.Span
}

// Op is a unary or binary operator.
type Op uint8

const (
	OpAdd Op = iota + 1
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpNeg
)

var opText = [...]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/",
	OpEq: "==", OpNe: "!=", OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">=",
	OpNeg: "-",
}

func (o Op) String() string {
	if int(o) < len(opText) && opText[o] != "" {
		return opText[o]
	}
	return "?"
}

// Binary is Left Op Right.
type Binary struct {
	Op    Op
	Left  Expr
	Right Expr
	Span  source.Span
}

// Unary is Op X.
type Unary struct {
	Op   Op
	X    Expr
	Span source.Span
}

// Call is a local call name(args) or, when Unit is set, a remote call
// Unit.name(args). Calls always go through the stable public name.
type Call struct {
	Unit source.StringID
	Name source.StringID
	Args []Expr
	Span source.Span
}

// Super calls the previous generation of the enclosing definition.
// A bare `super` is implicit and passes the caller's own argument values.
type Super struct {
	Args     []Expr
	Implicit bool
	Span     source.Span
}

// ArgRef is the Index-th argument of the enclosing clause. It only appears
// in forwarding heads generated for default arguments.
type ArgRef struct {
	Index int
	Span  source.Span
}

func (e *IntLit) Pos() source.Span { return e.Span }
func (e *Var) Pos() source.Span    { return e.Span }
func (e *Binary) Pos() source.Span { return e.Span }
func (e *Unary) Pos() source.Span  { return e.Span }
func (e *Call) Pos() source.Span   { return e.Span }
func (e *Super) Pos() source.Span  { return e.Span }
func (e *ArgRef) Pos() source.Span { return e.Span }

func (*IntLit) exprNode() {}
func (*Var) exprNode()    {}
func (*Binary) exprNode() {}
func (*Unary) exprNode()  {}
func (*Call) exprNode()   {}
func (*Super) exprNode()  {}
func (*ArgRef) exprNode() {}

// Inspect walks e depth-first. Children are skipped when fn returns false.
func Inspect(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	switch n := e.(type) {
	case *Binary:
		Inspect(n.Left, fn)
		Inspect(n.Right, fn)
	case *Unary:
		Inspect(n.X, fn)
	case *Call:
		for _, a := range n.Args {
			Inspect(a, fn)
		}
	case *Super:
		for _, a := range n.Args {
			Inspect(a, fn)
		}
	}
}

// Supers lists every super marker in e in source order.
func Supers(e Expr) []*Super {
	var out []*Super
	Inspect(e, func(n Expr) bool {
		if s, ok := n.(*Super); ok {
			out = append(out, s)
		}
		return true
	})
	return out
}
