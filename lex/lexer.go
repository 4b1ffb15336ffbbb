package lex

import (
	"sort"
	"strings"

	"github.com/duskline/glrfront/byteview"
	"github.com/duskline/glrfront/glrerr"
	"github.com/duskline/glrfront/grammar"
	"github.com/duskline/glrfront/loc"
)

// ActionHandler lets a host (the engine, ultimately the scope/symbol model)
// react to ActionEmitSymbol and ActionUser rule actions without the lex
// package importing either. Both methods may be nil-checked out by passing
// a nil ActionHandler to Lexer.Run, in which case those actions are no-ops.
type ActionHandler interface {
	EmitSymbol(tok StepToken)
	UserAction(id string, tok StepToken)
}

// Lexer drives one grammar's TokenRules over a source buffer, producing a
// StepToken stream. It forks a Path whenever more than one active rule
// matches at a position and merges paths that become indistinguishable,
// per spec.md §4.3.
type Lexer struct {
	def   *grammar.Definition
	rules []compiledRule
}

// New compiles def's token rules into a ready-to-run Lexer.
func New(def *grammar.Definition) (*Lexer, error) {
	rules, err := compileRules(def)
	if err != nil {
		return nil, err
	}
	return &Lexer{def: def, rules: rules}, nil
}

// Run lexes the whole of src, returning every Path at EOF. A path that hits
// an unmatched position becomes invalid and stops advancing; it stays in the
// returned slice with Valid=false. handler may be nil.
func (lx *Lexer) Run(file string, src []byte, handler ActionHandler) ([]*Path, error) {
	view := byteview.New(src)
	lines := newLineIndex(src)

	paths := []*Path{newPath(0)}
	nextID := 1

	for {
		var frontier []*Path
		allDone := true
		for _, p := range paths {
			if !p.Valid {
				continue
			}
			if p.Pos < view.Len() {
				allDone = false
			}
		}
		if allDone {
			break
		}

		for _, p := range paths {
			if !p.Valid {
				frontier = append(frontier, p)
				continue
			}
			if p.Pos >= view.Len() {
				frontier = append(frontier, p)
				continue
			}
			forks, err := lx.step(p, view, lines, file, handler, &nextID)
			if err != nil {
				return nil, err
			}
			frontier = append(frontier, forks...)
		}
		paths = mergePaths(frontier)
	}

	return paths, nil
}

// step advances p by one token, returning p itself (advanced) when exactly
// one rule matches, or p's forks (each a clone advanced by one of the
// candidate matches) when several do.
func (lx *Lexer) step(p *Path, view byteview.ByteView, lines *lineIndex, file string, handler ActionHandler, nextID *int) ([]*Path, error) {
	type candidate struct {
		rule   grammar.TokenRule
		length int
	}
	var candidates []candidate
	for _, cr := range lx.rules {
		if !cr.applies(p.CurrentContext()) {
			continue
		}
		if n, ok := cr.match(view, p.Pos); ok && n > 0 {
			candidates = append(candidates, candidate{rule: cr.rule, length: n})
		}
	}
	if len(candidates) == 0 {
		p.Valid = false
		return []*Path{p}, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].length != candidates[j].length {
			return candidates[i].length > candidates[j].length
		}
		return candidates[i].rule.Priority > candidates[j].rule.Priority
	})

	if len(candidates) == 1 {
		lx.applyMatch(p, candidates[0].rule, candidates[0].length, view, lines, file, handler)
		return []*Path{p}, nil
	}

	out := make([]*Path, 0, len(candidates))
	for i, c := range candidates {
		var target *Path
		if i == 0 {
			target = p
		} else {
			target = p.clone(*nextID)
			*nextID++
		}
		lx.applyMatch(target, c.rule, c.length, view, lines, file, handler)
		out = append(out, target)
	}
	return out, nil
}

func (lx *Lexer) applyMatch(p *Path, rule grammar.TokenRule, length int, view byteview.ByteView, lines *lineIndex, file string, handler ActionHandler) {
	matched := view.Slice(p.Pos, p.Pos+length)
	startLine, startCol := lines.position(p.Pos)
	endLine, endCol := lines.position(p.Pos + length)

	kindName := rule.Name
	if rule.Action.Kind == grammar.ActionRename {
		kindName = rule.Action.Arg
	}

	tok := StepToken{
		KindName: kindName,
		Value:    matched.String(),
		Location: loc.New(file, startLine, startCol, endLine, endCol, p.CurrentContext()),
		Context:  p.CurrentContext(),
	}
	applySplitHint(&tok)

	p.Pos += length

	switch rule.Action.Kind {
	case grammar.ActionSkip:
		// consume bytes, emit nothing
	case grammar.ActionPushContext:
		if !rule.Skip {
			p.Tokens = append(p.Tokens, tok)
		}
		p.pushContext(rule.Action.Arg)
	case grammar.ActionPopContext:
		if !rule.Skip {
			p.Tokens = append(p.Tokens, tok)
		}
		p.popContext()
	case grammar.ActionEmitSymbol:
		p.Tokens = append(p.Tokens, tok)
		if handler != nil {
			handler.EmitSymbol(tok)
		}
	case grammar.ActionUser:
		p.Tokens = append(p.Tokens, tok)
		if handler != nil {
			handler.UserAction(rule.Action.UserID, tok)
		}
	default:
		if !rule.Skip {
			p.Tokens = append(p.Tokens, tok)
		}
	}
}

// applySplitHint flags a token carrying a braced escape such as \x{41} as
// splittable and precomputes its alternatives, mirroring the ambiguity
// patscan exposes for the same construct at the pattern level (spec.md §8
// scenario 5).
func applySplitHint(tok *StepToken) {
	idx := strings.Index(tok.Value, `\x{`)
	if idx < 0 {
		return
	}
	end := strings.IndexByte(tok.Value[idx:], '}')
	if end < 0 {
		return
	}
	braced := tok.Value[idx : idx+end+1]
	tok.IsSplittable = true
	tok.Split = []StepToken{
		{KindName: tok.KindName, Value: braced, Location: tok.Location, Context: tok.Context},
		{KindName: tok.KindName, Value: tok.Value, Location: tok.Location, Context: tok.Context},
	}
}

// mergePaths collapses paths sharing the same (position, context, token
// kind sequence) key, keeping the first-seen representative.
func mergePaths(paths []*Path) []*Path {
	seen := make(map[string]bool, len(paths))
	out := make([]*Path, 0, len(paths))
	for _, p := range paths {
		if !p.Valid {
			out = append(out, p)
			continue
		}
		key := p.mergeKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

// Validate reports ErrNoRuleMatch if every path became invalid before
// reaching EOF, the lexer's equivalent of a parse failure.
func Validate(paths []*Path, srcLen int) error {
	for _, p := range paths {
		if p.Valid && p.Pos >= srcLen {
			return nil
		}
	}
	return glrerr.New("no lexer path reached end of input", glrerr.ErrNoRuleMatch)
}
