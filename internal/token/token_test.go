package token

import "testing"

func TestKeywordRoundTrip(t *testing.T) {
	for text, kind := range keywords {
		if kind.String() != text {
			t.Fatalf("kind %d prints %q, keyword is %q", kind, kind.String(), text)
		}
		if !kind.StartsStatement() && kind != KwWhen && kind != KwSuper {
			t.Fatalf("%q should start a statement", text)
		}
	}
	if _, ok := LookupKeyword("Def"); ok {
		t.Fatalf("keywords are case-sensitive")
	}
	if !KwDefmacrop.IsDefinition() || KwDefoverridable.IsDefinition() {
		t.Fatalf("IsDefinition misclassifies definition keywords")
	}
}
