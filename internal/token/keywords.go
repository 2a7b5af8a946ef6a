package token

var keywords = map[string]Kind{
	"unit":                   KwUnit,
	"def":                    KwDef,
	"defp":                   KwDefp,
	"defmacro":               KwDefmacro,
	"defmacrop":              KwDefmacrop,
	"defoverridable":         KwDefoverridable,
	"behaviour":              KwBehaviour,
	"callback":               KwCallback,
	"optional_callback":      KwOptionalCallback,
	"macrocallback":          KwMacrocallback,
	"optional_macrocallback": KwOptionalMacrocallback,
	"when":                   KwWhen,
	"super":                  KwSuper,
}

// LookupKeyword maps an identifier to its keyword kind. Keywords are case-sensitive.
func LookupKeyword(s string) (Kind, bool) {
	k, ok := keywords[s]
	return k, ok
}
