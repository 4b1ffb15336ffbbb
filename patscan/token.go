// Package patscan implements the two-phase pattern scanner: Phase 1 walks a
// pattern byte view and emits SplittableTokens, some of which record more
// than one plausible lexical interpretation at the same offset; Phase 2
// disambiguates those alternatives and validates semantic constraints such
// as unicode property names.
package patscan

import "github.com/duskline/glrfront/byteview"

// Kind names a lexical category a SplittableToken (or one of its
// alternatives) may have.
type Kind int

const (
	Literal Kind = iota
	LiteralText // \Q...\E content
	UnicodeProperty
	HexEscape
	UnicodeEscape
	CharacterClass
	RegexComment
	InlineModifier
	SpecialGroup
	GroupStart
	GroupEnd
	Quantifier
	LazyQuantifier
	Alternation
	StartAnchor
	EndAnchor
	AnyChar
)

func (k Kind) String() string {
	switch k {
	case Literal:
		return "Literal"
	case LiteralText:
		return "LiteralText"
	case UnicodeProperty:
		return "UnicodeProperty"
	case HexEscape:
		return "HexEscape"
	case UnicodeEscape:
		return "UnicodeEscape"
	case CharacterClass:
		return "CharacterClass"
	case RegexComment:
		return "RegexComment"
	case InlineModifier:
		return "InlineModifier"
	case SpecialGroup:
		return "SpecialGroup"
	case GroupStart:
		return "GroupStart"
	case GroupEnd:
		return "GroupEnd"
	case Quantifier:
		return "Quantifier"
	case LazyQuantifier:
		return "LazyQuantifier"
	case Alternation:
		return "Alternation"
	case StartAnchor:
		return "StartAnchor"
	case EndAnchor:
		return "EndAnchor"
	case AnyChar:
		return "AnyChar"
	default:
		return "Unknown"
	}
}

// Alternative is one of several equally-plausible lexical interpretations
// recorded on an ambiguous SplittableToken. All alternatives of one token
// share the same starting offset.
type Alternative struct {
	View byteview.ByteView
	Kind Kind
}

// SplittableToken is the Phase 1 output unit. If Alternatives is non-empty,
// View/Kind hold the first (or primary) interpretation and Alternatives
// holds every interpretation, including that primary one, for Phase 2 to
// choose among. Alternatives never nest: each alternative is itself a plain
// leaf interpretation.
type SplittableToken struct {
	View         byteview.ByteView
	Kind         Kind
	Offset       int
	Alternatives []Alternative
	// Invalid marks a token that Phase 1 could not fully classify (e.g. an
	// unterminated construct); the token still spans as much input as could
	// be consumed, for partial-result reporting.
	Invalid bool
}

// IsSplittable reports whether t records more than one interpretation.
func (t SplittableToken) IsSplittable() bool { return len(t.Alternatives) > 0 }

// PropertyName returns the name embedded in a \p{name} / \P{name} token's
// view (e.g. "L" for "\p{L}"). It is only meaningful for UnicodeProperty
// tokens and returns "" otherwise or if the braces are malformed.
func (t SplittableToken) PropertyName() string {
	if t.Kind != UnicodeProperty {
		return ""
	}
	s := t.View.String()
	open := -1
	for i := 0; i < len(s); i++ {
		if s[i] == '{' {
			open = i
			break
		}
	}
	if open < 0 {
		return ""
	}
	close := -1
	for i := open + 1; i < len(s); i++ {
		if s[i] == '}' {
			close = i
			break
		}
	}
	if close < 0 {
		return s[open+1:]
	}
	return s[open+1 : close]
}
