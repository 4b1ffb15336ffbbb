package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duskline/glrfront/glrerr"
	"github.com/duskline/glrfront/lex"
)

func loadDef(t *testing.T, text string) *Engine {
	t.Helper()
	def, _, err := LoadGrammar(context.Background(), text)
	require.NoError(t, err)
	return New(def)
}

func kinds(tokens []lex.StepToken) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.KindName
	}
	return out
}

// Scenario 1 (spec.md §8): arithmetic parse.
func TestArithmeticParse(t *testing.T) {
	eng := loadDef(t, `
Grammar: arithmetic

<NUMBER> ::= /[0-9]+/
<PLUS> ::= '+'
<WS> ::= /[ \t\r\n]+/ => { skip }

<expr> ::= <expr> PLUS <expr> | NUMBER
`)
	res, err := eng.Parse(context.Background(), []byte("1 + 2 + 3"), "in.txt", ParseOptions{})
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.GreaterOrEqual(t, len(res.AmbiguousTrees), 1)
	assert.Equal(t, []string{"NUMBER", "PLUS", "NUMBER", "PLUS", "NUMBER"}, kinds(res.Tokens))
}

// Scenario 2 (spec.md §8): ambiguity exposure.
func TestAmbiguityExposure(t *testing.T) {
	eng := loadDef(t, `
Grammar: ambiguous

<NUMBER> ::= /[0-9]+/
<PLUS> ::= '+'
<TIMES> ::= '*'
<WS> ::= /[ \t\r\n]+/ => { skip }

<expr> ::= <expr> PLUS <expr> | <expr> TIMES <expr> | NUMBER
`)
	res, err := eng.Parse(context.Background(), []byte("1 + 2 * 3"), "in.txt", ParseOptions{})
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.GreaterOrEqual(t, len(res.AmbiguousTrees), 2)
}

// Scenario 3 (spec.md §8): safety bound on left recursion.
func TestSafetyBoundOnLeftRecursion(t *testing.T) {
	eng := loadDef(t, `
Grammar: leftrec

<NUMBER> ::= /[0-9]+/

<expr> ::= <expr> | NUMBER
`)
	res, err := eng.Parse(context.Background(), []byte("123"), "in.txt", ParseOptions{})
	require.NoError(t, err)
	if !res.Success {
		require.Len(t, res.Errors, 1)
		assert.ErrorIs(t, res.Errors[0], glrerr.ErrBoundsExceeded)
	}
}

// Scenario 4 (spec.md §8): rename propagates to every reference.
func TestRenamePropagates(t *testing.T) {
	eng := loadDef(t, `
Grammar: decls

<IDENT> ::= /[a-zA-Z_][a-zA-Z0-9_]*/ => { emit() }
<SEMI> ::= ';'
<WS> ::= /[ \t\r\n]+/ => { skip }

<program> ::= stmt program | stmt
<stmt> ::= <IDENT> SEMI
`)
	res, err := eng.Parse(context.Background(), []byte("x; x; x;"), "in.txt", ParseOptions{})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.NotNil(t, res.Symbols)

	sym, ok := res.Symbols.SymbolAt("", "x")
	require.True(t, ok)
	refs := res.Symbols.FindAllReferences(sym.Key())
	require.Len(t, refs, 2)

	out, err := eng.Rename(sym.Location, "y")
	require.NoError(t, err)
	require.True(t, out.Success)
	assert.Len(t, out.Changes, 3)
	for _, c := range out.Changes {
		assert.Equal(t, "x", c.OriginalText)
		assert.Equal(t, "y", c.NewText)
	}
}

func TestParseManyEmptyIsUnsuccessful(t *testing.T) {
	eng := loadDef(t, "Grammar: empty\n<A> ::= 'a'\n<start> ::= A")
	res, err := eng.ParseMany(context.Background(), map[string][]byte{}, ParseOptions{})
	require.NoError(t, err)
	assert.False(t, res.Success)
}

func TestDetectBOM(t *testing.T) {
	enc, n := DetectBOM([]byte{0xEF, 0xBB, 0xBF, 'a'})
	assert.Equal(t, "UTF-8", enc)
	assert.Equal(t, 3, n)

	enc, n = DetectBOM([]byte("plain"))
	assert.Equal(t, "UTF-8", enc)
	assert.Equal(t, 0, n)
}
