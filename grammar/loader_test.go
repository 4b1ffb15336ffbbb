package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const arithmeticGrammar = `
Grammar: arithmetic

<NUMBER> ::= /[0-9]+/
<PLUS> ::= '+'
<WS> ::= /[ \t\r\n]+/ => { skip }

<expr> ::= <expr> PLUS <expr> | NUMBER
`

func TestLoadArithmeticGrammar(t *testing.T) {
	l := NewLoader()
	def, diags, err := l.Load("arithmetic.grm", arithmeticGrammar)
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, "arithmetic", def.Name)

	numberRule, ok := def.TokenRuleByName("NUMBER")
	require.True(t, ok)
	assert.Equal(t, PatternRegex, numberRule.Form)

	wsRule, ok := def.TokenRuleByName("WS")
	require.True(t, ok)
	assert.True(t, wsRule.Skip)

	prods := def.ProductionsFor("expr")
	require.Len(t, prods, 2)
	assert.NoError(t, def.Validate())
}

func TestLoaderCachesByKey(t *testing.T) {
	l := NewLoader()
	def1, _, _ := l.Load("x.grm", arithmeticGrammar)
	def2, _, _ := l.Load("x.grm", "Grammar: ignored-because-cached")
	assert.Same(t, def1, def2)
}

func TestLoadMalformedLineIsNonFatal(t *testing.T) {
	l := NewLoader()
	text := arithmeticGrammar + "\nthis is not a valid line\n"
	def, diags, err := l.Load("bad.grm", text)
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.NotEmpty(t, diags)
}

func TestInheritance(t *testing.T) {
	l := NewLoader()
	text := `
Grammar: myLang
Inherits: antlr4_base

<expr> ::= <expr> ID | ID
`
	def, _, err := l.Load("derived.grm", text)
	require.NoError(t, err)
	_, ok := def.TokenRuleByName("ID")
	assert.True(t, ok, "derived grammar should inherit ID from antlr4_base")
	_, ok = def.TokenRuleByName("WS")
	assert.True(t, ok, "derived grammar should inherit WS (skip rule) from antlr4_base")
}

func TestPrecedenceInheritanceFillsGapsOnly(t *testing.T) {
	l := NewLoader()
	text := `
Grammar: myLang2
Inherits: bison_base

<expr> ::= <expr> "+" <expr>

Precedence: {
  Level5: { operators: ["*"], associativity: "right" }
}
`
	def, _, err := l.Load("derived2.grm", text)
	require.NoError(t, err)
	assert.Equal(t, 1, def.Precedence["+"], "inherited precedence for + should remain from base")
	assert.Equal(t, 5, def.Precedence["*"], "derived precedence for * should override base")
	assert.Equal(t, AssocRight, def.Associativity["*"])
}

func TestAmbiguousGrammarNoPrecedence(t *testing.T) {
	text := `
Grammar: ambiguous

<NUMBER> ::= /[0-9]+/
<PLUS> ::= '+'
<TIMES> ::= '*'
<WS> ::= /[ \t\r\n]+/ => { skip }

<expr> ::= <expr> PLUS <expr> | <expr> TIMES <expr> | NUMBER
`
	l := NewLoader()
	def, _, err := l.Load("ambiguous.grm", text)
	require.NoError(t, err)
	assert.Len(t, def.ProductionsFor("expr"), 3)
}
