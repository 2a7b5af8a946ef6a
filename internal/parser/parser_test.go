package parser_test

import (
	"testing"

	"supra/internal/ast"
	"supra/internal/diag"
	"supra/internal/parser"
	"supra/internal/source"
)

func parse(t *testing.T, src string) (*ast.Unit, *source.Interner, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.ovr", []byte(src))
	strs := source.NewInterner()
	bag := diag.NewBag(20)
	res := parser.ParseFile(fs, id, strs, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	return res.Unit, strs, bag
}

func TestParseUnitStatements(t *testing.T) {
	src := `
unit Shapes
behaviour Contract
callback area/1
optional_macrocallback label/0
def area(x, y \\ 2) when x > 0 = super(x, y) + 1
defp helper(0) = 11
defmacro twice(_) = 2
defoverridable area/2, helper/1
defoverridable Contract
`
	unit, strs, bag := parse(t, src)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostic: %s", bag.Items()[0].Message)
	}
	if got := strs.MustLookup(unit.Name); got != "Shapes" {
		t.Fatalf("unit name = %q", got)
	}
	if len(unit.Stmts) != 8 {
		t.Fatalf("expected 8 statements, got %d", len(unit.Stmts))
	}
	cb, ok := unit.Stmts[2].(*ast.CallbackStmt)
	if !ok || !cb.Optional || !cb.Macro || cb.Arity != 0 {
		t.Fatalf("unexpected callback %#v", unit.Stmts[2])
	}
	def, ok := unit.Stmts[3].(*ast.DefStmt)
	if !ok {
		t.Fatalf("expected def, got %T", unit.Stmts[3])
	}
	if def.Kind != ast.KindDef || len(def.Params) != 2 || def.Params[1].Default == nil || def.Guard == nil {
		t.Fatalf("unexpected def %#v", def)
	}
	supers := ast.Supers(def.Body)
	if len(supers) != 1 || supers[0].Implicit || len(supers[0].Args) != 2 {
		t.Fatalf("unexpected supers %#v", supers)
	}
	helper := unit.Stmts[4].(*ast.DefStmt)
	if helper.Kind != ast.KindDefp || helper.Params[0].Pattern.Kind != ast.PatInt {
		t.Fatalf("unexpected helper %#v", helper)
	}
	over := unit.Stmts[6].(*ast.OverridableStmt)
	if over.Subject != ast.SubjectPairs || len(over.Pairs) != 2 || over.Pairs[1].Arity != 1 {
		t.Fatalf("unexpected pairs %#v", over)
	}
	mod := unit.Stmts[7].(*ast.OverridableStmt)
	if mod.Subject != ast.SubjectModule || strs.MustLookup(mod.Module) != "Contract" {
		t.Fatalf("unexpected module subject %#v", mod)
	}
}

func TestParseImplicitSuperAndPrecedence(t *testing.T) {
	unit, _, bag := parse(t, "unit A\ndef f(x) = super * 10 + 1 < 3\n")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostic: %s", bag.Items()[0].Message)
	}
	body := unit.Stmts[0].(*ast.DefStmt).Body
	cmp, ok := body.(*ast.Binary)
	if !ok || cmp.Op != ast.OpLt {
		t.Fatalf("expected comparison at the root, got %#v", body)
	}
	add, ok := cmp.Left.(*ast.Binary)
	if !ok || add.Op != ast.OpAdd {
		t.Fatalf("expected addition, got %#v", cmp.Left)
	}
	mul, ok := add.Left.(*ast.Binary)
	if !ok || mul.Op != ast.OpMul {
		t.Fatalf("expected multiplication, got %#v", add.Left)
	}
	if s, ok := mul.Left.(*ast.Super); !ok || !s.Implicit {
		t.Fatalf("expected implicit super, got %#v", mul.Left)
	}
}

func TestParseCallNeedsAdjacentParen(t *testing.T) {
	unit, _, bag := parse(t, "unit A\ndef f(x) = g(x) + x\ndef h(x) = Other.g(1, 2)\n")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostic: %s", bag.Items()[0].Message)
	}
	add := unit.Stmts[0].(*ast.DefStmt).Body.(*ast.Binary)
	if call, ok := add.Left.(*ast.Call); !ok || len(call.Args) != 1 || call.Unit != source.NoStringID {
		t.Fatalf("expected local call, got %#v", add.Left)
	}
	remote := unit.Stmts[1].(*ast.DefStmt).Body.(*ast.Call)
	if remote.Unit == source.NoStringID || len(remote.Args) != 2 {
		t.Fatalf("expected remote call, got %#v", remote)
	}
}

func TestParseInvalidOverridableSubject(t *testing.T) {
	unit, _, bag := parse(t, "unit A\ndef f(x) = x\ndefoverridable f\ndefoverridable 42\n")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostic: %s", bag.Items()[0].Message)
	}
	for i, raw := range []string{"f", "42"} {
		st := unit.Stmts[i+1].(*ast.OverridableStmt)
		if st.Subject != ast.SubjectInvalid || st.Raw != raw {
			t.Fatalf("stmt %d: got subject %d raw %q", i, st.Subject, st.Raw)
		}
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"missing header", "def f = 1\n", diag.SynExpectUnitHeader},
		{"default not trailing", "unit A\ndef f(x \\\\ 1, y) = y\n", diag.SynDefaultNotTrailing},
		{"missing arity", "unit A\ncallback f\n", diag.SynExpectArity},
		{"unclosed paren", "unit A\ndef f(x) = (x + 1\n", diag.SynUnclosedParen},
		{"bad number", "unit A\ndef f = 12ab\n", diag.LexBadNumber},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, bag := parse(t, tc.src)
			first := bag.First()
			if first == nil {
				t.Fatalf("expected %s, got no diagnostics", tc.code.ID())
			}
			if first.Code != tc.code {
				t.Fatalf("expected %s, got %s: %s", tc.code.ID(), first.Code.ID(), first.Message)
			}
		})
	}
}

func TestParseRecoversAfterError(t *testing.T) {
	unit, _, bag := parse(t, "unit A\ndef f( = 1\ndef g = 2\n")
	if !bag.HasErrors() {
		t.Fatalf("expected a syntax error")
	}
	if len(unit.Stmts) != 1 {
		t.Fatalf("expected the second definition to survive, got %d statements", len(unit.Stmts))
	}
}
