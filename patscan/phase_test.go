package patscan

import (
	"testing"

	"github.com/duskline/glrfront/byteview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, pattern string) []SplittableToken {
	t.Helper()
	toks, err := Phase1(byteview.New([]byte(pattern)))
	require.NoError(t, err)
	return toks
}

func TestPhase1EmptyInput(t *testing.T) {
	toks, err := Phase1(byteview.New(nil))
	assert.NoError(t, err)
	assert.Empty(t, toks)
}

func TestPhase1UnterminatedCharacterClass(t *testing.T) {
	_, err := Phase1(byteview.New([]byte("[abc")))
	assert.Error(t, err)
}

func TestPhase1InlineModifier(t *testing.T) {
	toks := scanAll(t, "(?imsx)test")
	require.Len(t, toks, 5)
	assert.Equal(t, InlineModifier, toks[0].Kind)
	assert.Equal(t, "(?imsx)", toks[0].View.String())
	for _, tok := range toks[1:] {
		assert.Equal(t, Literal, tok.Kind)
	}
}

func TestPhase1RegexComment(t *testing.T) {
	toks := scanAll(t, "(?#a(b)c)x")
	require.Len(t, toks, 2)
	assert.Equal(t, RegexComment, toks[0].Kind)
	assert.Equal(t, "(?#a(b)c)", toks[0].View.String())
	assert.Equal(t, Literal, toks[1].Kind)
}

func TestPhase1PlainHexEscapeUnambiguous(t *testing.T) {
	toks := scanAll(t, `\x41`)
	require.Len(t, toks, 1)
	assert.False(t, toks[0].IsSplittable())
	assert.Equal(t, HexEscape, toks[0].Kind)
}

func TestPhase1AmbiguousBracedHexEscape(t *testing.T) {
	toks := scanAll(t, `\x{41}`)
	require.Len(t, toks, 1)
	assert.True(t, toks[0].IsSplittable())
	assert.Len(t, toks[0].Alternatives, 2)
}

func TestPhase2SelectsLongestAlternative(t *testing.T) {
	toks := scanAll(t, `\x{41}`)
	resolved, err := Phase2(toks)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	got := resolved[0]
	assert.Equal(t, UnicodeEscape, got.Kind)
	for _, alt := range toks[0].Alternatives {
		assert.GreaterOrEqual(t, got.View.Len(), alt.View.Len())
	}
}

func TestPhase2ValidProperty(t *testing.T) {
	toks := scanAll(t, `\p{L}`)
	resolved, err := Phase2(toks)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, UnicodeProperty, resolved[0].Kind)
}

func TestPhase2InvalidProperty(t *testing.T) {
	toks := scanAll(t, `\p{InvalidProperty}`)
	_, err := Phase2(toks)
	assert.Error(t, err)
}

func TestPhase1QLiteralText(t *testing.T) {
	toks := scanAll(t, `\Qa.b\E+`)
	require.Len(t, toks, 2)
	assert.Equal(t, LiteralText, toks[0].Kind)
	assert.Equal(t, Quantifier, toks[1].Kind)
}

func TestPhase1QWithoutE(t *testing.T) {
	toks := scanAll(t, `\Qabc`)
	require.Len(t, toks, 1+3)
	assert.Equal(t, Literal, toks[0].Kind)
	assert.Equal(t, `\Q`, toks[0].View.String())
}

func TestPhase1Quantifiers(t *testing.T) {
	toks := scanAll(t, "a*b+?")
	require.Len(t, toks, 4)
	assert.Equal(t, Quantifier, toks[1].Kind)
	assert.Equal(t, LazyQuantifier, toks[3].Kind)
}

func TestPhase1Anchors(t *testing.T) {
	toks := scanAll(t, "^a$")
	require.Len(t, toks, 3)
	assert.Equal(t, StartAnchor, toks[0].Kind)
	assert.Equal(t, EndAnchor, toks[2].Kind)
}

func TestPhase1SpecialGroup(t *testing.T) {
	toks := scanAll(t, "(?:abc)")
	assert.Equal(t, SpecialGroup, toks[0].Kind)
	assert.Equal(t, "(?:", toks[0].View.String())
}

func TestPhase1NamedGroup(t *testing.T) {
	toks := scanAll(t, "(?<name>x)")
	assert.Equal(t, SpecialGroup, toks[0].Kind)
	assert.Equal(t, "(?<name>", toks[0].View.String())
}
