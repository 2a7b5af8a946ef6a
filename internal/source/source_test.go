package source

import "testing"

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.ovr", []byte("unit A\ndef f(x) = x\n"))

	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{5, LineCol{1, 6}},
		{6, LineCol{1, 7}},
		{7, LineCol{2, 1}},
		{11, LineCol{2, 5}},
	}
	for _, tc := range cases {
		got, _ := fs.Resolve(Span{File: id, Start: tc.off, End: tc.off})
		if got != tc.want {
			t.Fatalf("offset %d: got %+v, want %+v", tc.off, got, tc.want)
		}
	}
	if line := fs.Get(id).GetLine(2); line != "def f(x) = x" {
		t.Fatalf("GetLine(2) = %q", line)
	}
	if line := fs.Get(id).GetLine(9); line != "" {
		t.Fatalf("GetLine(9) = %q, want empty", line)
	}
}

func TestNormalizeCRLFAndBOM(t *testing.T) {
	in := []byte("\xEF\xBB\xBFa\r\nb\rc")
	out, bom := removeBOM(in)
	if !bom {
		t.Fatalf("expected BOM to be detected")
	}
	out, changed := normalizeCRLF(out)
	if !changed || string(out) != "a\nb\rc" {
		t.Fatalf("normalizeCRLF = %q, %v", out, changed)
	}
}

func TestInternerNormalizesNames(t *testing.T) {
	in := NewInterner()
	composed := in.Intern("caf\u00e9")
	decomposed := in.Intern("cafe\u0301")
	if composed != decomposed {
		t.Fatalf("expected NFC-equal names to share an ID: %d vs %d", composed, decomposed)
	}
	if in.Intern("") != NoStringID {
		t.Fatalf("empty string must map to NoStringID")
	}
	if s := in.MustLookup(composed); s != "caf\u00e9" {
		t.Fatalf("lookup = %q", s)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 5}
	if got := a.Cover(b); got != (Span{File: 1, Start: 2, End: 8}) {
		t.Fatalf("Cover = %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 100}); got != a {
		t.Fatalf("cross-file Cover must keep the receiver, got %v", got)
	}
}
