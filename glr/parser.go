package glr

import (
	"context"
	"fmt"

	"github.com/duskline/glrfront/glrerr"
	"github.com/duskline/glrfront/grammar"
	"github.com/duskline/glrfront/lex"
	"github.com/duskline/glrfront/loc"
)

// Bounds caps a Parse call's exploration so an ambiguous or left-recursive
// grammar cannot run forever: spec.md §4.5 names a step cap, a path cap, a
// no-progress cap and a wall-clock deadline, the last supplied via Parse's
// context.
type Bounds struct {
	MaxSteps        int
	MaxPaths        int
	NoProgressLimit int
}

// DefaultBounds returns the bounds a Parser uses unless WithBounds is
// called: generous enough for real grammars, tight enough to fail fast on
// a runaway one.
func DefaultBounds() Bounds {
	return Bounds{MaxSteps: 20000, MaxPaths: 128, NoProgressLimit: 50}
}

// Parser drives def's production rules over a token stream using a
// generalized (forking) shift-reduce algorithm, grounded on the
// single-path LR loop of lrParser.Parse but generalized to explore every
// viable action instead of consulting a precomputed table.
type Parser struct {
	def    *grammar.Definition
	bounds Bounds
}

// New returns a Parser for def using DefaultBounds.
func New(def *grammar.Definition) *Parser {
	return &Parser{def: def, bounds: DefaultBounds()}
}

// WithBounds overrides the default exploration bounds.
func (p *Parser) WithBounds(b Bounds) *Parser {
	p.bounds = b
	return p
}

// Parse consumes tokens and returns the single "best" parse tree (the
// first accepting path found, which is also the one whose forks, if any,
// settled conflicts earliest) along with the log of conflicts the parser
// resolved or forked on along the way. Callers that need every surviving
// parse for a genuinely ambiguous grammar should call ParseAll instead; a
// grammar with a unique parse returns the same tree from either method. It
// returns glrerr.ErrSyntax if every path dies before accepting, or
// glrerr.ErrBoundsExceeded if the step, no-progress, or context deadline
// bound trips first. The path bound never fails a parse; it only prunes
// paths beyond MaxPaths.
func (p *Parser) Parse(ctx context.Context, tokens []lex.StepToken) (*Node, []ConflictResolution, error) {
	trees, conflicts, err := p.ParseAll(ctx, tokens)
	if err != nil {
		return nil, conflicts, err
	}
	return trees[0], conflicts, nil
}

// ParseAll consumes tokens and returns every parse tree that reduces to the
// grammar's start symbol while fully consuming the input — the "surviving
// trees" spec.md §4.5 requires the engine expose for an ambiguous grammar,
// not just the one it picks as best. Paths that accept are recorded and
// retired; exploration continues until no path remains live, so a grammar
// admitting two distinct parses of the same input yields two trees.
func (p *Parser) ParseAll(ctx context.Context, tokens []lex.StepToken) ([]*Node, []ConflictResolution, error) {
	paths := []*Path{newPath(0)}
	nextID := 1
	var conflicts []ConflictResolution
	var accepted []*Node
	totalSteps := 0
	prevKey := ""
	noProgress := 0

	for {
		select {
		case <-ctx.Done():
			if len(accepted) > 0 {
				return accepted, conflicts, nil
			}
			return nil, conflicts, glrerr.New("parse deadline exceeded", glrerr.ErrBoundsExceeded)
		default:
		}

		var live []*Path
		for _, pth := range paths {
			if pth.valid && isAcceptState(pth, len(tokens), p.def.StartSymbol) {
				accepted = append(accepted, pth.stack[0].node)
				continue
			}
			live = append(live, pth)
		}
		paths = live

		if len(paths) == 0 {
			if len(accepted) > 0 {
				return accepted, conflicts, nil
			}
			return nil, conflicts, glrerr.New("no parse path survived", glrerr.ErrSyntax)
		}
		if totalSteps > p.bounds.MaxSteps {
			if len(accepted) > 0 {
				return accepted, conflicts, nil
			}
			return nil, conflicts, glrerr.New("parse exceeded step bound", glrerr.ErrBoundsExceeded)
		}

		var frontier []*Path
		for _, pth := range paths {
			forks, conflict := p.step(pth, tokens, &nextID)
			totalSteps++
			if conflict != nil {
				conflicts = append(conflicts, *conflict)
			}
			frontier = append(frontier, forks...)
		}
		paths = mergeCapValid(frontier, p.bounds.MaxPaths, len(tokens), p.def.StartSymbol)

		key := pathSetKey(paths)
		if key == prevKey {
			noProgress++
			if noProgress > p.bounds.NoProgressLimit {
				if len(accepted) > 0 {
					return accepted, conflicts, nil
				}
				return nil, conflicts, glrerr.New("parse made no progress", glrerr.ErrBoundsExceeded)
			}
		} else {
			noProgress = 0
		}
		prevKey = key
	}
}

// reduceCandidate is one production whose RHS matches the top of a path's
// stack.
type reduceCandidate struct {
	rule grammar.ProductionRule
}

// step advances pth by one shift or reduce, returning the resulting set of
// live paths (pth itself plus any forks) and, when a conflict arose, the
// ConflictResolution describing how (or whether) it was settled. A dead
// path (no viable action) is returned alone with valid=false.
func (p *Parser) step(pth *Path, tokens []lex.StepToken, nextID *int) ([]*Path, *ConflictResolution) {
	canShift := pth.pos < len(tokens)
	reduces := p.findReduces(pth)

	switch {
	case !canShift && len(reduces) == 0:
		pth.valid = false
		return []*Path{pth}, nil

	case canShift && len(reduces) == 0:
		p.shift(pth, tokens)
		return []*Path{pth}, nil

	case !canShift && len(reduces) == 1:
		p.reduce(pth, reduces[0].rule)
		return []*Path{pth}, nil

	case !canShift && len(reduces) > 1:
		return p.forkReduces(pth, reduces, nextID)

	default: // canShift && len(reduces) >= 1
		if len(reduces) == 1 && p.isAtomicUnitReduce(reduces[0].rule) {
			// A bare terminal reducing straight to a non-terminal (e.g.
			// <expr> ::= NUMBER) never competes for operator precedence:
			// there is no longer match it could be holding out for, so
			// delaying it with a shift can only lose information. Reduce
			// it outright instead of forking or consulting the precedence
			// table.
			p.reduce(pth, reduces[0].rule)
			return []*Path{pth}, nil
		}
		if len(reduces) == 1 {
			if resolved, shiftWins, reason := p.resolveByPrecedence(tokens[pth.pos], reduces[0].rule); resolved {
				cr := &ConflictResolution{
					PathID:     pth.id,
					Position:   pth.pos,
					Symbol:     tokens[pth.pos].KindName,
					Candidates: []string{"shift", "reduce " + reduces[0].rule.Name},
					Reason:     reason,
				}
				if shiftWins {
					cr.Chosen = "shift"
					p.shift(pth, tokens)
				} else {
					cr.Chosen = "reduce " + reduces[0].rule.Name
					p.reduce(pth, reduces[0].rule)
				}
				return []*Path{pth}, cr
			}
		}
		return p.forkShiftAndReduces(pth, reduces, tokens, nextID)
	}
}

// findReduces returns every production whose RHS matches the top of pth's
// stack, in declaration order. Epsilon productions (empty RHS) are
// deliberately unsupported: allowing them would admit reduce actions that
// never consume a stack entry, defeating no-progress detection.
func (p *Parser) findReduces(pth *Path) []reduceCandidate {
	var out []reduceCandidate
	for _, r := range p.def.ProductionRules {
		n := len(r.RHS)
		if n == 0 || n > len(pth.stack) {
			continue
		}
		match := true
		top := pth.stack[len(pth.stack)-n:]
		for i, sym := range r.RHS {
			if top[i].symbol != sym.Name {
				match = false
				break
			}
		}
		if match {
			out = append(out, reduceCandidate{rule: r})
		}
	}
	return out
}

// isAtomicUnitReduce reports whether rule reduces a single, unprecedenced
// terminal straight to a non-terminal — a unit production with nothing to
// gain by delaying the reduction. A unit production over a non-terminal
// (e.g. <program> ::= <stmt>) is not atomic: reducing it eagerly would rule
// out a longer alternative such as <program> ::= <stmt> <program>.
func (p *Parser) isAtomicUnitReduce(rule grammar.ProductionRule) bool {
	return len(rule.RHS) == 1 && rule.Precedence == 0 && !p.def.IsNonTerminal(rule.RHS[0].Name)
}

func (p *Parser) shift(pth *Path, tokens []lex.StepToken) {
	tok := tokens[pth.pos]
	node := &Node{Symbol: tok.KindName, Terminal: true, Value: tok.Value, Location: tok.Location}
	pth.push(stackEntry{symbol: tok.KindName, node: node})
	pth.pos++
	pth.steps++
}

func (p *Parser) reduce(pth *Path, rule grammar.ProductionRule) {
	popped := pth.popN(len(rule.RHS))
	children := make([]*Node, len(popped))
	for i, e := range popped {
		children[i] = e.node
	}
	node := &Node{Symbol: rule.Name, Terminal: false, Children: children, Location: spanOf(children)}
	pth.push(stackEntry{symbol: rule.Name, node: node})
	pth.steps++
}

func spanOf(children []*Node) loc.CodeLocation {
	if len(children) == 0 {
		return loc.CodeLocation{}
	}
	first := children[0].Location
	last := children[len(children)-1].Location
	return loc.New(first.File, first.StartLine, first.StartCol, last.EndLine, last.EndCol, first.Context)
}

// effectivePrecedence reports a production's precedence for shift/reduce
// comparison: its own explicit Precedence if the grammar author set one via
// a priority annotation, otherwise (the common case) the precedence of the
// rightmost terminal in its RHS, the classic yacc/bison default.
func (p *Parser) effectivePrecedence(rule grammar.ProductionRule) (prec int, assoc grammar.Associativity, has bool) {
	if rule.Precedence != 0 {
		return rule.Precedence, grammar.AssocNone, true
	}
	for i := len(rule.RHS) - 1; i >= 0; i-- {
		sym := rule.RHS[i]
		if sym.Kind != grammar.SymbolTerminal {
			continue
		}
		if prec, ok := p.def.Precedence[sym.Name]; ok {
			return prec, p.def.Associativity[sym.Name], true
		}
	}
	return 0, grammar.AssocNone, false
}

// resolveByPrecedence applies the classic dragon-book shift/reduce
// tie-break: compare the lookahead token's declared precedence against the
// candidate production's effective precedence, falling back to
// associativity on a tie. It reports resolved=false when either side lacks
// precedence information, leaving the conflict for forkShiftAndReduces to
// explore both ways.
func (p *Parser) resolveByPrecedence(tok lex.StepToken, rule grammar.ProductionRule) (resolved, shiftWins bool, reason string) {
	tokPrec, tokHas := p.def.Precedence[tok.KindName]
	rulePrec, ruleAssoc, ruleHas := p.effectivePrecedence(rule)
	if !tokHas || !ruleHas {
		return false, false, ""
	}
	if tokPrec > rulePrec {
		return true, true, "precedence"
	}
	if tokPrec < rulePrec {
		return true, false, "precedence"
	}
	switch ruleAssoc {
	case grammar.AssocLeft:
		return true, false, "associativity"
	case grammar.AssocRight:
		return true, true, "associativity"
	default:
		return false, false, ""
	}
}

func (p *Parser) forkReduces(pth *Path, reduces []reduceCandidate, nextID *int) ([]*Path, *ConflictResolution) {
	names := make([]string, len(reduces))
	out := make([]*Path, 0, len(reduces))
	for i, rc := range reduces {
		names[i] = "reduce " + rc.rule.Name
		target := pth
		if i > 0 {
			target = pth.clone(*nextID)
			*nextID++
		}
		p.reduce(target, rc.rule)
		out = append(out, target)
	}
	return out, &ConflictResolution{
		PathID:     pth.id,
		Position:   pth.pos,
		Candidates: names,
		Chosen:     "forked",
		Reason:     "forked",
	}
}

func (p *Parser) forkShiftAndReduces(pth *Path, reduces []reduceCandidate, tokens []lex.StepToken, nextID *int) ([]*Path, *ConflictResolution) {
	names := []string{"shift"}
	for _, rc := range reduces {
		names = append(names, "reduce "+rc.rule.Name)
	}
	symbol := tokens[pth.pos].KindName

	// Clone a target per reduce branch from pth's pre-shift state first,
	// since shifting pth in place below would otherwise be captured too.
	reduceTargets := make([]*Path, len(reduces))
	for i := range reduces {
		reduceTargets[i] = pth.clone(*nextID)
		*nextID++
	}

	out := make([]*Path, 0, len(reduces)+1)
	p.shift(pth, tokens)
	out = append(out, pth)
	for i, rc := range reduces {
		p.reduce(reduceTargets[i], rc.rule)
		out = append(out, reduceTargets[i])
	}

	return out, &ConflictResolution{
		PathID:     pth.id,
		Position:   pth.pos,
		Symbol:     symbol,
		Candidates: names,
		Chosen:     "forked",
		Reason:     "forked",
	}
}

// isAcceptState reports whether pth has consumed every token and reduced
// down to a single node labeled startSymbol — the condition under which
// ParseAll retires a path into its accepted set instead of continuing to
// step it.
func isAcceptState(pth *Path, numTokens int, startSymbol string) bool {
	return pth.pos == numTokens && len(pth.stack) == 1 && pth.stack[0].symbol == startSymbol
}

// mergeCapValid collapses paths that have become indistinguishable for the
// purpose of further exploration (same mergeKey) down to one representative,
// capping fan-out per spec.md §4.3/§4.5. A path sitting in a full-input
// accept configuration (numTokens consumed, stack reduced to one node
// labeled startSymbol) is exempted from that collapse: two such paths
// sharing a mergeKey can still carry distinct trees built by different
// derivations (spec.md §8 scenario 2's symmetric ambiguity, e.g. "1+2*3"
// reducing to a single top-level expr either way), and collapsing them
// would silently drop a surviving parse ParseAll is required to return.
func mergeCapValid(paths []*Path, maxPaths, numTokens int, startSymbol string) []*Path {
	seen := make(map[string]bool, len(paths))
	out := make([]*Path, 0, len(paths))
	for _, pth := range paths {
		if !pth.valid {
			continue
		}
		if isAcceptState(pth, numTokens, startSymbol) {
			out = append(out, pth)
			continue
		}
		key := pth.mergeKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, pth)
		if len(out) >= maxPaths {
			break
		}
	}
	return out
}

func pathSetKey(paths []*Path) string {
	s := ""
	for _, pth := range paths {
		s += fmt.Sprintf("%s;", pth.mergeKey())
	}
	return s
}
