package patscan

import (
	"github.com/duskline/glrfront/byteview"
	"github.com/duskline/glrfront/glrerr"
)

var inlineModifierFlags = map[byte]bool{
	'i': true, 'm': true, 's': true, 'x': true,
	'u': true, 'U': true, 'A': true, 'D': true, 'S': true, 'J': true,
}

// Phase1 walks pat and emits one SplittableToken per lexical step. It never
// panics on malformed input: unterminated constructs yield a token flagged
// Invalid spanning to EOF, and scanning continues from there (there is
// nothing left to continue from, so Phase1 returns at that point with the
// partial token list and a non-nil error).
//
// Empty input returns an empty, successful token list.
func Phase1(pat byteview.ByteView) ([]SplittableToken, error) {
	var toks []SplittableToken
	i := 0
	n := pat.Len()

	for i < n {
		start := i
		b := pat.At(i)

		switch {
		case b == '\\':
			tok, next, err := scanEscape(pat, i)
			toks = append(toks, tok)
			i = next
			if err != nil {
				return toks, err
			}

		case b == '[':
			tok, next, err := scanCharacterClass(pat, i)
			toks = append(toks, tok)
			i = next
			if err != nil {
				return toks, err
			}

		case b == '(':
			tok, next, err := scanGroup(pat, i)
			toks = append(toks, tok)
			i = next
			if err != nil {
				return toks, err
			}

		case b == ')':
			toks = append(toks, SplittableToken{View: pat.Slice(i, i+1), Kind: GroupEnd, Offset: start})
			i++

		case b == '*' || b == '+' || b == '?':
			end := i + 1
			kind := Quantifier
			if end < n && pat.At(end) == '?' {
				end++
				kind = LazyQuantifier
			}
			toks = append(toks, SplittableToken{View: pat.Slice(i, end), Kind: kind, Offset: start})
			i = end

		case b == '|':
			toks = append(toks, SplittableToken{View: pat.Slice(i, i+1), Kind: Alternation, Offset: start})
			i++

		case b == '^':
			toks = append(toks, SplittableToken{View: pat.Slice(i, i+1), Kind: StartAnchor, Offset: start})
			i++

		case b == '$':
			toks = append(toks, SplittableToken{View: pat.Slice(i, i+1), Kind: EndAnchor, Offset: start})
			i++

		case b == '.':
			toks = append(toks, SplittableToken{View: pat.Slice(i, i+1), Kind: AnyChar, Offset: start})
			i++

		default:
			_, size := pat.RuneAt(i)
			if size < 1 {
				size = 1
			}
			toks = append(toks, SplittableToken{View: pat.Slice(i, i+size), Kind: Literal, Offset: start})
			i += size
		}
	}

	return toks, nil
}

// scanEscape handles the byte sequence starting at a '\\'.
func scanEscape(pat byteview.ByteView, i int) (SplittableToken, int, error) {
	n := pat.Len()
	start := i

	if i+1 >= n {
		// trailing backslash with nothing after it: malformed, spans to EOF.
		return SplittableToken{View: pat.From(i), Kind: Literal, Offset: start, Invalid: true},
			n, glrerr.New("trailing backslash", glrerr.ErrMalformedEscape)
	}

	next := pat.At(i + 1)
	switch next {
	case 'Q':
		// \Q ... \E, literal until \E or EOF.
		rest := pat.From(i + 2)
		idx := indexOf(rest, "\\E")
		if idx < 0 {
			// no \E remains: downgrade to a 2-byte escape sequence per spec.
			return SplittableToken{View: pat.Slice(i, i+2), Kind: Literal, Offset: start}, i + 2, nil
		}
		end := i + 2 + idx + 2
		return SplittableToken{View: pat.Slice(i, end), Kind: LiteralText, Offset: start}, end, nil

	case 'p', 'P':
		if i+2 >= n || pat.At(i+2) != '{' {
			// no opening brace: treat as a malformed property escape, 2-byte span.
			return SplittableToken{View: pat.Slice(i, i+2), Kind: UnicodeProperty, Offset: start, Invalid: true},
				i + 2, glrerr.New("malformed unicode property escape", glrerr.ErrMalformedEscape)
		}
		closeIdx := pat.IndexByte(i+3, '}')
		if closeIdx < 0 {
			return SplittableToken{View: pat.From(i), Kind: UnicodeProperty, Offset: start, Invalid: true},
				n, glrerr.New("unterminated unicode property escape", glrerr.ErrUnterminated)
		}
		end := closeIdx + 1
		return SplittableToken{View: pat.Slice(i, end), Kind: UnicodeProperty, Offset: start}, end, nil

	case 'x':
		// \xHH (naive 4-byte grab) vs \x{H...} (to matching '}'). When a
		// brace follows, the scanner can't yet tell whether the 4-byte
		// reading or the braced reading is "real", so both are recorded as
		// alternatives and Phase 2's longest-match rule settles it (the
		// braced span, which properly captures the whole escape, is always
		// at least as long as the naive 4-byte grab).
		hasBrace := i+2 < n && pat.At(i+2) == '{'
		if hasBrace {
			closeIdx := pat.IndexByte(i+3, '}')
			if closeIdx < 0 {
				return SplittableToken{View: pat.From(i), Kind: UnicodeEscape, Offset: start, Invalid: true},
					n, glrerr.New("unterminated unicode escape", glrerr.ErrUnterminated)
			}
			bracedEnd := closeIdx + 1
			if i+4 <= n {
				alts := []Alternative{
					{View: pat.Slice(i, i+4), Kind: HexEscape},
					{View: pat.Slice(i, bracedEnd), Kind: UnicodeEscape},
				}
				next := bracedEnd
				if i+4 > next {
					next = i + 4
				}
				return SplittableToken{
					View: alts[0].View, Kind: alts[0].Kind, Offset: start, Alternatives: alts,
				}, next, nil
			}
			return SplittableToken{View: pat.Slice(i, bracedEnd), Kind: UnicodeEscape, Offset: start}, bracedEnd, nil
		}

		if i+3 < n && isHexDigit(pat.At(i+2)) && isHexDigit(pat.At(i+3)) {
			return SplittableToken{View: pat.Slice(i, i+4), Kind: HexEscape, Offset: start}, i + 4, nil
		}

		end := i + 2
		if end > n {
			end = n
		}
		return SplittableToken{View: pat.Slice(i, end), Kind: HexEscape, Offset: start, Invalid: true},
			end, glrerr.New("malformed hex escape", glrerr.ErrMalformedEscape)

	default:
		// ordinary single-character escape: consume the rune following '\'.
		_, size := pat.RuneAt(i + 1)
		if size < 1 {
			size = 1
		}
		end := i + 1 + size
		return SplittableToken{View: pat.Slice(i, end), Kind: Literal, Offset: start}, end, nil
	}
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func indexOf(v byteview.ByteView, s string) int {
	n, m := v.Len(), len(s)
	if m == 0 {
		return 0
	}
	for i := 0; i+m <= n; i++ {
		match := true
		for j := 0; j < m; j++ {
			if v.At(i+j) != s[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// scanCharacterClass handles a '[' ... ']' construct, honoring escapes
// inside the class body.
func scanCharacterClass(pat byteview.ByteView, i int) (SplittableToken, int, error) {
	n := pat.Len()
	start := i
	j := i + 1
	// a leading '^' negation or a leading ']' (literal close bracket) does
	// not terminate the class.
	if j < n && pat.At(j) == '^' {
		j++
	}
	if j < n && pat.At(j) == ']' {
		j++
	}
	for j < n {
		if pat.At(j) == '\\' && j+1 < n {
			j += 2
			continue
		}
		if pat.At(j) == ']' {
			end := j + 1
			return SplittableToken{View: pat.Slice(i, end), Kind: CharacterClass, Offset: start}, end, nil
		}
		j++
	}
	return SplittableToken{View: pat.From(i), Kind: CharacterClass, Offset: start, Invalid: true},
		n, glrerr.New("unterminated character class", glrerr.ErrUnterminated)
}

// scanGroup handles the byte sequence starting at a '(': comments, inline
// modifiers, special (?...) groups, and plain groups.
func scanGroup(pat byteview.ByteView, i int) (SplittableToken, int, error) {
	n := pat.Len()
	start := i

	if i+1 >= n || pat.At(i+1) != '?' {
		return SplittableToken{View: pat.Slice(i, i+1), Kind: GroupStart, Offset: start}, i + 1, nil
	}

	// (?#...) comment, tracking nested parens in the comment body.
	if i+2 < n && pat.At(i+2) == '#' {
		depth := 1
		j := i + 3
		for j < n && depth > 0 {
			switch pat.At(j) {
			case '(':
				depth++
			case ')':
				depth--
			}
			j++
		}
		if depth != 0 {
			return SplittableToken{View: pat.From(i), Kind: RegexComment, Offset: start, Invalid: true},
				n, glrerr.New("unterminated regex comment", glrerr.ErrUnterminated)
		}
		return SplittableToken{View: pat.Slice(i, j), Kind: RegexComment, Offset: start}, j, nil
	}

	// (?flags) inline modifier: scan flag characters up to ')'.
	j := i + 2
	flagsStart := j
	for j < n && inlineModifierFlags[pat.At(j)] {
		j++
	}
	if j > flagsStart && j < n && pat.At(j) == ')' {
		end := j + 1
		return SplittableToken{View: pat.Slice(i, end), Kind: InlineModifier, Offset: start}, end, nil
	}

	// otherwise it's a special group: (?:...  (?=...  (?<name>...  etc. The
	// token only covers the introducer, not the group's body (the body is
	// tokenized by subsequent Phase1 steps up to the matching ')').
	j = i + 2
	if j < n && pat.At(j) == '<' {
		// (?<name> or (?<= / (?<!
		k := j + 1
		if k < n && (pat.At(k) == '=' || pat.At(k) == '!') {
			k++
			return SplittableToken{View: pat.Slice(i, k), Kind: SpecialGroup, Offset: start}, k, nil
		}
		closeIdx := pat.IndexByte(k, '>')
		if closeIdx < 0 {
			return SplittableToken{View: pat.From(i), Kind: SpecialGroup, Offset: start, Invalid: true},
				n, glrerr.New("unterminated named group", glrerr.ErrUnterminated)
		}
		end := closeIdx + 1
		return SplittableToken{View: pat.Slice(i, end), Kind: SpecialGroup, Offset: start}, end, nil
	}
	if j < n {
		j++ // consume the single introducer character (':', '=', '!', etc.)
	}
	return SplittableToken{View: pat.Slice(i, j), Kind: SpecialGroup, Offset: start}, j, nil
}
