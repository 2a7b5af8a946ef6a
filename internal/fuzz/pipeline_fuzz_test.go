package fuzztests

import (
	"context"
	"testing"
	"time"

	"supra/internal/behaviour"
	"supra/internal/diag"
	"supra/internal/lexer"
	"supra/internal/parser"
	"supra/internal/source"
	"supra/internal/testkit"
	"supra/internal/token"
	"supra/internal/unit"
)

// parseTimeout bounds one parse; exceeding it means error recovery loops.
const parseTimeout = 5 * time.Second

var fuzzContracts = behaviour.Static{
	"Contract": {Module: "Contract", Callbacks: []behaviour.Callback{
		{Name: "run", Arity: 1},
		{Name: "wrap", Arity: 1, Macro: true},
	}},
}

func FuzzLexerTerminates(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		fs := source.NewFileSet()
		id := fs.AddVirtual("fuzz.ovr", input)
		lx := lexer.New(fs.Get(id), diag.BagReporter{Bag: diag.NewBag(128)})
		// every token consumes at least one byte, plus the final EOF
		for i := 0; i <= len(input)+1; i++ {
			if lx.Next().Kind == token.EOF {
				return
			}
		}
		t.Fatalf("lexer did not reach EOF on %q", input)
	})
}

func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		done := make(chan struct{})
		go func() {
			defer close(done)
			fs := source.NewFileSet()
			id := fs.AddVirtual("fuzz.ovr", input)
			bag := diag.NewBag(128)
			parser.ParseFile(fs, id, source.NewInterner(), parser.Options{Reporter: diag.BagReporter{Bag: bag}, MaxErrors: 128})
		}()
		select {
		case <-done:
		case <-time.After(parseTimeout):
			t.Fatalf("parser hung on %q", input)
		}
	})
}

func FuzzCompileKeepsInvariants(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		fs := source.NewFileSet()
		id := fs.AddVirtual("fuzz.ovr", input)
		strs := source.NewInterner()
		bag := diag.NewBag(128)
		reporter := diag.BagReporter{Bag: bag}
		res := parser.ParseFile(fs, id, strs, parser.Options{Reporter: reporter, MaxErrors: 128})
		if res.Errors > 0 || res.Unit == nil || bag.HasErrors() {
			return
		}
		if err := testkit.CheckSpanInvariants(res.Unit, fs.Get(id)); err != nil {
			t.Fatalf("%v\ninput: %q", err, input)
		}
		mod, err := unit.Compile(context.Background(), res.Unit, strs, unit.Options{Reporter: reporter, Resolver: fuzzContracts})
		if err != nil || mod == nil {
			return
		}
		if err := testkit.CheckModuleInvariants(mod); err != nil {
			t.Fatalf("%v\ninput: %q", err, input)
		}
	})
}
