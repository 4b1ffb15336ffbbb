package patscan

import (
	"fmt"

	"github.com/duskline/glrfront/glrerr"
	"github.com/duskline/glrfront/uprop"
)

// Phase2 disambiguates the SplittableTokens Phase1 produced and validates
// semantic constraints. For each ambiguous token it selects the
// alternative with the longest text, tie-breaking toward the alternative
// listed first. Every UnicodeProperty token's embedded property name is
// checked against the unicode property oracle; any invalid name fails
// Phase2 for the whole pattern, per spec.md §4.2.
func Phase2(toks []SplittableToken) ([]SplittableToken, error) {
	resolved := make([]SplittableToken, 0, len(toks))

	for _, t := range toks {
		if t.Invalid {
			return resolved, glrerr.New(fmt.Sprintf("invalid token at offset %d (%s)", t.Offset, t.Kind), glrerr.ErrUnterminated)
		}

		chosen := t
		if t.IsSplittable() {
			best := t.Alternatives[0]
			for _, alt := range t.Alternatives[1:] {
				if alt.View.Len() > best.View.Len() {
					best = alt
				}
			}
			chosen = SplittableToken{
				View:         best.View,
				Kind:         best.Kind,
				Offset:       t.Offset,
				Alternatives: t.Alternatives,
			}
		}

		if chosen.Kind == UnicodeProperty {
			name := chosen.PropertyName()
			if !uprop.IsValidPropertyName(name) {
				return resolved, glrerr.New(fmt.Sprintf("invalid unicode property name %q at offset %d", name, t.Offset), glrerr.ErrUnknownProperty)
			}
		}

		resolved = append(resolved, chosen)
	}

	return resolved, nil
}
