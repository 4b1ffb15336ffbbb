package glr

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duskline/glrfront/glrerr"
	"github.com/duskline/glrfront/grammar"
	"github.com/duskline/glrfront/lex"
)

func tokenize(t *testing.T, grammarText, input string) ([]lex.StepToken, *grammar.Definition) {
	t.Helper()
	l := grammar.NewLoader()
	def, _, err := l.Load("g.grm", grammarText)
	require.NoError(t, err)

	lx, err := lex.New(def)
	require.NoError(t, err)
	paths, err := lx.Run("in", []byte(input), nil)
	require.NoError(t, err)
	require.NoError(t, lex.Validate(paths, len(input)))

	for _, p := range paths {
		if p.Valid {
			return p.Tokens, def
		}
	}
	t.Fatal("no valid lexer path")
	return nil, nil
}

func symbols(n *Node) []string {
	if n == nil {
		return nil
	}
	if n.Terminal {
		return []string{n.Value}
	}
	var out []string
	for _, c := range n.Children {
		out = append(out, symbols(c)...)
	}
	return out
}

const leftAssocGrammar = `
Grammar: leftassoc

<NUMBER> ::= /[0-9]+/
<PLUS> ::= '+'
<WS> ::= /[ \t]+/ => { skip }

<expr> ::= <expr> PLUS <expr> | NUMBER

Precedence: {
  Level1: { operators: ["PLUS"], associativity: "left" }
}
`

func TestParseSimpleLeftAssociative(t *testing.T) {
	tokens, def := tokenize(t, leftAssocGrammar, "1+2+3")
	require.Len(t, tokens, 5)

	p := New(def)
	tree, conflicts, err := p.Parse(context.Background(), tokens)
	require.NoError(t, err)
	require.NotNil(t, tree)
	assert.Equal(t, "expr", tree.Symbol)
	assert.Equal(t, []string{"1", "+", "2", "+", "3"}, symbols(tree))

	// left associativity groups as (1+2)+3: the left operand is the 1+2
	// reduction, and the right operand is a unit expr wrapping the NUMBER 3
	// leaf rather than another PLUS reduction.
	require.Len(t, tree.Children, 3)
	assert.Equal(t, "expr", tree.Children[0].Symbol)
	assert.Equal(t, "NUMBER", tree.Children[2].Children[0].Symbol)

	for _, c := range conflicts {
		assert.NotEqual(t, "forked", c.Reason, "a fully precedenced grammar should resolve shift/reduce deterministically")
	}
}

const ambiguousGrammar = `
Grammar: ambiguous

<NUMBER> ::= /[0-9]+/
<PLUS> ::= '+'
<TIMES> ::= '*'
<WS> ::= /[ \t]+/ => { skip }

<expr> ::= <expr> PLUS <expr> | <expr> TIMES <expr> | NUMBER
`

func TestParseAmbiguousGrammarForksAndLogsConflicts(t *testing.T) {
	tokens, def := tokenize(t, ambiguousGrammar, "1+2*3")
	p := New(def)
	tree, conflicts, err := p.Parse(context.Background(), tokens)
	require.NoError(t, err)
	require.NotNil(t, tree)
	assert.NotEmpty(t, conflicts, "an ambiguous grammar with no precedence table should fork at least once")

	found := false
	for _, c := range conflicts {
		if c.Reason == "forked" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestParseStepBoundTrips(t *testing.T) {
	tokens, def := tokenize(t, leftAssocGrammar, "1+2+3+4+5")
	p := New(def).WithBounds(Bounds{MaxSteps: 1, MaxPaths: 128, NoProgressLimit: 50})
	_, _, err := p.Parse(context.Background(), tokens)
	require.Error(t, err)
	assert.ErrorIs(t, err, glrerr.ErrBoundsExceeded)
}

const precedenceGrammar = `
Grammar: precedence

<NUMBER> ::= /[0-9]+/
<PLUS> ::= '+'
<TIMES> ::= '*'
<WS> ::= /[ \t]+/ => { skip }

<expr> ::= <expr> PLUS <expr> | <expr> TIMES <expr> | NUMBER

Precedence: {
  Level1: { operators: ["PLUS"], associativity: "left" }
  Level2: { operators: ["TIMES"], associativity: "left" }
}
`

func TestParsePrecedenceGroupsMultiplicationTighter(t *testing.T) {
	tokens, def := tokenize(t, precedenceGrammar, "1+2*3")
	p := New(def)
	tree, _, err := p.Parse(context.Background(), tokens)
	require.NoError(t, err)
	require.NotNil(t, tree)
	require.Len(t, tree.Children, 3)
	// 1 + (2*3): the top-level reduction is the PLUS one, so its left
	// operand is a unit expr wrapping the NUMBER 1 leaf and its right
	// operand is the reduced 2*3 product.
	assert.Equal(t, "NUMBER", tree.Children[0].Children[0].Symbol)
	assert.Equal(t, "expr", tree.Children[2].Symbol)
}
