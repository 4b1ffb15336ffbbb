package lex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duskline/glrfront/grammar"
)

func arithmeticDef(t *testing.T) *grammar.Definition {
	t.Helper()
	l := grammar.NewLoader()
	def, _, err := l.Load("arith.grm", `
Grammar: arithmetic

<NUMBER> ::= /[0-9]+/
<PLUS> ::= '+'
<WS> ::= /[ \t\r\n]+/ => { skip }

<expr> ::= <expr> PLUS <expr> | NUMBER
`)
	require.NoError(t, err)
	return def
}

func TestLexSimpleArithmetic(t *testing.T) {
	def := arithmeticDef(t)
	lx, err := New(def)
	require.NoError(t, err)

	paths, err := lx.Run("input.txt", []byte("12 + 34"), nil)
	require.NoError(t, err)
	require.NoError(t, Validate(paths, len("12 + 34")))

	var winner *Path
	for _, p := range paths {
		if p.Valid {
			winner = p
			break
		}
	}
	require.NotNil(t, winner)

	require.Len(t, winner.Tokens, 3)
	assert.Equal(t, "NUMBER", winner.Tokens[0].KindName)
	assert.Equal(t, "12", winner.Tokens[0].Value)
	assert.Equal(t, "PLUS", winner.Tokens[1].KindName)
	assert.Equal(t, "NUMBER", winner.Tokens[2].KindName)
	assert.Equal(t, "34", winner.Tokens[2].Value)
}

func TestLexLocationTracking(t *testing.T) {
	def := arithmeticDef(t)
	lx, err := New(def)
	require.NoError(t, err)

	paths, err := lx.Run("input.txt", []byte("1\n22"), nil)
	require.NoError(t, err)
	var winner *Path
	for _, p := range paths {
		if p.Valid {
			winner = p
		}
	}
	require.NotNil(t, winner)
	require.Len(t, winner.Tokens, 2)
	assert.Equal(t, 1, winner.Tokens[0].Location.StartLine)
	assert.Equal(t, 2, winner.Tokens[1].Location.StartLine)
	assert.Equal(t, 1, winner.Tokens[1].Location.StartCol)
}

func TestLexUnmatchedInputInvalidatesPath(t *testing.T) {
	def := arithmeticDef(t)
	lx, err := New(def)
	require.NoError(t, err)

	paths, err := lx.Run("input.txt", []byte("12 @ 34"), nil)
	require.NoError(t, err)
	err = Validate(paths, len("12 @ 34"))
	assert.Error(t, err)
}

func TestLexForksOnAmbiguousRules(t *testing.T) {
	l := grammar.NewLoader()
	def, _, err := l.Load("ambig.grm", `
Grammar: ambiguous

<KEYWORD_IF> ::= 'if'
<IDENT> ::= /[a-z]+/

<stmt> ::= KEYWORD_IF | IDENT
`)
	require.NoError(t, err)
	lx, err := New(def)
	require.NoError(t, err)

	paths, err := lx.Run("input.txt", []byte("if"), nil)
	require.NoError(t, err)

	valid := 0
	kinds := map[string]bool{}
	for _, p := range paths {
		if p.Valid {
			valid++
			require.Len(t, p.Tokens, 1)
			kinds[p.Tokens[0].KindName] = true
		}
	}
	assert.Equal(t, 2, valid, "both KEYWORD_IF and IDENT should match 'if', forking the path")
	assert.True(t, kinds["KEYWORD_IF"])
	assert.True(t, kinds["IDENT"])
}

func TestApplySplitHintOnBracedEscape(t *testing.T) {
	tok := StepToken{KindName: "STRING", Value: `\x{41}rest`}
	applySplitHint(&tok)
	assert.True(t, tok.IsSplittable)
	require.Len(t, tok.Split, 2)
	assert.Equal(t, `\x{41}`, tok.Split[0].Value)
}
