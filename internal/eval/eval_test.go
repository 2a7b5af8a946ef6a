package eval_test

import (
	"context"
	"errors"
	"testing"

	"supra/internal/behaviour"
	"supra/internal/diag"
	"supra/internal/eval"
	"supra/internal/parser"
	"supra/internal/source"
	"supra/internal/unit"
)

// build compiles srcs in order, publishing each unit's contract for the next.
func build(t *testing.T, srcs ...string) eval.Modules {
	t.Helper()
	fs := source.NewFileSet()
	strs := source.NewInterner()
	store := behaviour.NewStore(nil)
	mods := eval.Modules{}
	for i, src := range srcs {
		bag := diag.NewBag(10)
		id := fs.AddVirtual("unit.ovr", []byte(src))
		res := parser.ParseFile(fs, id, strs, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
		if bag.HasErrors() {
			t.Fatalf("unit %d: parse: %s", i, bag.First().Message)
		}
		mod, err := unit.Compile(context.Background(), res.Unit, strs, unit.Options{
			Reporter: diag.BagReporter{Bag: bag},
			Resolver: store,
		})
		if err != nil {
			t.Fatalf("unit %d: compile: %v", i, err)
		}
		store.Publish(mod.Contract())
		mods[mod.Name] = mod
	}
	return mods
}

func call(t *testing.T, mods eval.Modules, unitName, fun string, args ...int64) int64 {
	t.Helper()
	v, err := eval.New(mods, eval.Options{}).Call(context.Background(), unitName, fun, args)
	if err != nil {
		t.Fatalf("%s.%s: %v", unitName, fun, err)
	}
	return v
}

func TestSuperChain(t *testing.T) {
	mods := build(t, `
unit Chain
def f(x) = x
defoverridable f/1
def f(x) = super(x) + 100
defoverridable f/1
def f(x) = super(x) + 1000
`)
	if got := call(t, mods, "Chain", "f", 11); got != 1111 {
		t.Fatalf("f(11) = %d, want 1111", got)
	}
}

func TestSuperFanIn(t *testing.T) {
	mods := build(t, `
unit Fan
def f(0) = 11
def f(1) = 13
def f(x) = x
defoverridable f/1
def f(2) = super(0) + super(1)
def f(x) = super
`)
	if got := call(t, mods, "Fan", "f", 2); got != 24 {
		t.Fatalf("f(2) = %d, want 24", got)
	}
	if got := call(t, mods, "Fan", "f", 1); got != 13 {
		t.Fatalf("implicit super must pass the caller's argument, f(1) = %d", got)
	}
}

func TestFinalizeIsTransparent(t *testing.T) {
	mods := build(t, `
unit Plain
def sq(x) = x * x
defp twice(x) = x + x
def run(x) = twice(sq(x))
defoverridable sq/1, twice/1
`)
	if got := call(t, mods, "Plain", "run", 3); got != 18 {
		t.Fatalf("run(3) = %d, want 18", got)
	}
	if _, err := eval.New(mods, eval.Options{}).Call(context.Background(), "Plain", "twice", []int64{1}); err == nil {
		t.Fatalf("private functions must not be callable remotely")
	}
}

func TestDefaultArityInvariance(t *testing.T) {
	mods := build(t, `
unit Defaults
def f(x, y \\ 2) = x + y
defoverridable f/1, f/2
def f(x) = super(x) * 10
`)
	if got := call(t, mods, "Defaults", "f", 1); got != 30 {
		t.Fatalf("f(1) = %d, want 30", got)
	}
	if got := call(t, mods, "Defaults", "f", 1, 5); got != 6 {
		t.Fatalf("f(1, 5) = %d, want 6", got)
	}
}

func TestDefaultHeadFollowsOverriddenCanonical(t *testing.T) {
	mods := build(t, `
unit Canon
def f(x, y \\ 2) = x + y
defoverridable f/2
def f(x, y) = super(x, y) + 100
`)
	if got := call(t, mods, "Canon", "f", 1); got != 103 {
		t.Fatalf("f(1) = %d, want 103", got)
	}
}

func TestOverrideRegeneratesDefaults(t *testing.T) {
	mods := build(t, `
unit Redefault
def f(x, y \\ 2) = x + y
defoverridable f/2
def f(x, y \\ 3) = super(x, y) * 10
`)
	if got := call(t, mods, "Redefault", "f", 1); got != 40 {
		t.Fatalf("f(1) = %d, want 40", got)
	}
	if got := call(t, mods, "Redefault", "f", 1, 5); got != 60 {
		t.Fatalf("f(1, 5) = %d, want 60", got)
	}
}

func TestOrderIndependence(t *testing.T) {
	mods := build(t, `
unit Order
def a(x) = b(x) + 1
def b(x) = x
defoverridable b/1
def b(x) = super(x) * 10
`)
	if got := call(t, mods, "Order", "a", 4); got != 41 {
		t.Fatalf("a(4) = %d, want 41", got)
	}
}

func TestBehaviourDerivedOverride(t *testing.T) {
	mods := build(t, `
unit Contract
callback area/1
optional_callback perimeter/1
optional_macrocallback label/0
`, `
unit Square
behaviour Contract
def area(x) = x * x
def perimeter(x) = 4 * x
defoverridable Contract
def area(x) = super(x) + 1
`)
	if got := call(t, mods, "Square", "area", 3); got != 10 {
		t.Fatalf("area(3) = %d, want 10", got)
	}
	if got := call(t, mods, "Square", "perimeter", 3); got != 12 {
		t.Fatalf("perimeter(3) = %d, want 12", got)
	}
}

func TestRemoteCallsAndGuards(t *testing.T) {
	mods := build(t, `
unit Math
def abs(x) when x < 0 = -x
def abs(x) = x
`, `
unit User
def dist(a, b) = Math.abs(a - b)
`)
	if got := call(t, mods, "User", "dist", 2, 9); got != 7 {
		t.Fatalf("dist(2, 9) = %d, want 7", got)
	}
}

func TestRuntimeErrors(t *testing.T) {
	mods := build(t, `
unit Err
def only(0) = 0
def div(x) = 10 / x
def loop(x) = loop(x)
def missing(x) = nope(x)
def remote(x) = Err.hidden(x)
defp hidden(x) = x
`)
	m := eval.New(mods, eval.Options{MaxDepth: 50})
	cases := []struct {
		fun  string
		kind eval.ErrorKind
		msg  string
	}{
		{"only", eval.ErrNoClause, "no function clause matching in Err.only/1"},
		{"div", eval.ErrDivisionByZero, "division by zero"},
		{"loop", eval.ErrDepth, "call depth exceeded (50)"},
		{"missing", eval.ErrUndefinedLocal, "undefined function nope/1 (unit Err)"},
		{"remote", eval.ErrUndefinedRemote, "function Err.hidden/1 is undefined or private"},
	}
	for _, tc := range cases {
		arg := int64(0)
		if tc.fun == "only" {
			arg = 1
		}
		_, err := m.Call(context.Background(), "Err", tc.fun, []int64{arg})
		var ee *eval.Error
		if !errors.As(err, &ee) {
			t.Fatalf("%s: expected eval.Error, got %v", tc.fun, err)
		}
		if ee.Kind != tc.kind || ee.Msg != tc.msg {
			t.Fatalf("%s: got %d %q, want %d %q", tc.fun, ee.Kind, ee.Msg, tc.kind, tc.msg)
		}
	}
}

func TestCallHonoursCancellation(t *testing.T) {
	mods := build(t, "unit C\ndef f(x) = x\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := eval.New(mods, eval.Options{}).Call(ctx, "C", "f", []int64{1}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
