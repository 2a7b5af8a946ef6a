package token

// Kind is the category of a token.
type Kind uint8

const (
	Invalid Kind = iota
	EOF

	Ident // lower-case name: area, helper?, _tmp
	Alias // capitalised unit name: Shapes
	IntLit

	KwUnit
	KwDef
	KwDefp
	KwDefmacro
	KwDefmacrop
	KwDefoverridable
	KwBehaviour
	KwCallback
	KwOptionalCallback
	KwMacrocallback
	KwOptionalMacrocallback
	KwWhen
	KwSuper

	LParen     // (
	RParen     // )
	Comma      // ,
	Dot        // .
	Assign     // =
	Plus       // +
	Minus      // -
	Star       // *
	Slash      // /
	EqEq       // ==
	BangEq     // !=
	Lt         // <
	LtEq       // <=
	Gt         // >
	GtEq       // >=
	Underscore // _
	DefaultSep // \\
)

var kindNames = [...]string{
	Invalid:                 "invalid",
	EOF:                     "end of file",
	Ident:                   "identifier",
	Alias:                   "unit name",
	IntLit:                  "integer",
	KwUnit:                  "unit",
	KwDef:                   "def",
	KwDefp:                  "defp",
	KwDefmacro:              "defmacro",
	KwDefmacrop:             "defmacrop",
	KwDefoverridable:        "defoverridable",
	KwBehaviour:             "behaviour",
	KwCallback:              "callback",
	KwOptionalCallback:      "optional_callback",
	KwMacrocallback:         "macrocallback",
	KwOptionalMacrocallback: "optional_macrocallback",
	KwWhen:                  "when",
	KwSuper:                 "super",
	LParen:                  "(",
	RParen:                  ")",
	Comma:                   ",",
	Dot:                     ".",
	Assign:                  "=",
	Plus:                    "+",
	Minus:                   "-",
	Star:                    "*",
	Slash:                   "/",
	EqEq:                    "==",
	BangEq:                  "!=",
	Lt:                      "<",
	LtEq:                    "<=",
	Gt:                      ">",
	GtEq:                    ">=",
	Underscore:              "_",
	DefaultSep:              `\\`,
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsDefinition reports whether k starts a def/defp/defmacro/defmacrop statement.
func (k Kind) IsDefinition() bool {
	return k >= KwDef && k <= KwDefmacrop
}

// StartsStatement reports whether k can begin a top-level statement.
func (k Kind) StartsStatement() bool {
	return k >= KwUnit && k <= KwOptionalMacrocallback
}
