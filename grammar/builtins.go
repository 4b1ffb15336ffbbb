package grammar

// Built-in base grammars resolvable by an `Inherits:` directive without
// requiring a caller to supply the text themselves (spec.md §4.4: "each
// import resolves to a base grammar (possibly a built-in like
// antlr4_base, bison_base)"). Both are deliberately minimal: they exist to
// be inherited from and extended, not to parse anything on their own.

const antlr4BaseText = `
Grammar: antlr4_base
FormatType: antlr4

<WS> ::= /[ \t\r\n]+/ => { skip }
<ID> ::= /[a-zA-Z_][a-zA-Z0-9_]*/
<INT> ::= /[0-9]+/
<STRING> ::= /"(\\.|[^"\\])*"/
`

const bisonBaseText = `
Grammar: bison_base
FormatType: bison

<WS> ::= /[ \t\r\n]+/ => { skip }
<IDENTIFIER> ::= /[a-zA-Z_][a-zA-Z0-9_]*/
<NUMBER> ::= /[0-9]+(\.[0-9]+)?/

Precedence: {
  Level1: { operators: ["+", "-"], associativity: "left" }
  Level2: { operators: ["*", "/"], associativity: "left" }
}
`

func builtinANTLR4Base() *Definition {
	def, _ := parseGrammarText(antlr4BaseText)
	return def
}

func builtinBisonBase() *Definition {
	def, _ := parseGrammarText(bisonBaseText)
	return def
}
