package grammarcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duskline/glrfront/grammar"
)

const sampleGrammarText = `
Grammar: sample

<NUMBER> ::= /[0-9]+/
<PLUS> ::= '+'

<expr> ::= expr PLUS expr | NUMBER
`

func TestKeyIsStableAndContentAddressed(t *testing.T) {
	a := Key(sampleGrammarText)
	b := Key(sampleGrammarText)
	assert.Equal(t, a, b)

	c := Key(sampleGrammarText + "\n")
	assert.NotEqual(t, a, c)
}

func TestStoreMissBeforePut(t *testing.T) {
	s := NewStore(t.TempDir())
	def, ok, err := s.Get(sampleGrammarText)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, def)
}

func TestStorePutThenGetRoundTrips(t *testing.T) {
	s := NewStore(t.TempDir())
	loader := grammar.NewLoader()
	def, _, err := loader.Load("sample", sampleGrammarText)
	require.NoError(t, err)

	require.NoError(t, s.Put(sampleGrammarText, def))

	got, ok, err := s.Get(sampleGrammarText)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, def.Name, got.Name)
	assert.Equal(t, def.StartSymbol, got.StartSymbol)
	assert.Equal(t, len(def.TokenRules), len(got.TokenRules))
	assert.Equal(t, len(def.ProductionRules), len(got.ProductionRules))
	assert.Equal(t, def.ProductionsFor(got.StartSymbol), got.ProductionsFor(got.StartSymbol))
}

func TestLoadOrParseCachesAfterFirstParse(t *testing.T) {
	s := NewStore(t.TempDir())
	calls := 0
	load := func(key, text string) (*grammar.Definition, []grammar.Diagnostic, error) {
		calls++
		return grammar.NewLoader().Load(key, text)
	}

	_, _, err := s.LoadOrParse("sample", sampleGrammarText, load)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	_, _, err = s.LoadOrParse("sample", sampleGrammarText, load)
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "second call should hit the cache instead of re-parsing")
}
