package lex

import (
	"github.com/dlclark/regexp2"

	"github.com/duskline/glrfront/byteview"
	"github.com/duskline/glrfront/grammar"
)

// compiledRule pairs a TokenRule with whatever its pattern compiles to, so
// a Lexer only pays regex-compilation cost once per rule rather than once
// per Step.
type compiledRule struct {
	rule  grammar.TokenRule
	regex *regexp2.Regexp // non-nil only for PatternRegex rules
}

// compileRules resolves PatternWord aliases against def and compiles every
// PatternRegex rule, per SPEC_FULL.md §4.3 ("/R/-form patterns compile to
// *regexp2.Regexp, anchored at the current byte position").
func compileRules(def *grammar.Definition) ([]compiledRule, error) {
	out := make([]compiledRule, 0, len(def.TokenRules))
	for _, r := range def.TokenRules {
		resolved := resolveWordAlias(def, r)
		cr := compiledRule{rule: resolved}
		if resolved.Form == grammar.PatternRegex {
			re, err := regexp2.Compile("^(?:"+resolved.Pattern+")", regexp2.None)
			if err != nil {
				return nil, err
			}
			cr.regex = re
		}
		out = append(out, cr)
	}
	return out, nil
}

// resolveWordAlias follows a PatternWord rule to the rule it names, one
// level deep — a grammar author using a bare word to mean "match whatever
// this other rule matches" (e.g. aliasing a base grammar's ID rule).
func resolveWordAlias(def *grammar.Definition, r grammar.TokenRule) grammar.TokenRule {
	if r.Form != grammar.PatternWord {
		return r
	}
	if target, ok := def.TokenRuleByName(r.Pattern); ok && target.Name != r.Name {
		target.Name = r.Name
		target.Context = r.Context
		target.Priority = r.Priority
		target.Skip = r.Skip
		target.Action = r.Action
		return target
	}
	return r
}

// match reports the byte length matched by cr at view-relative offset pos,
// or ok=false if it does not match there.
func (cr compiledRule) match(view byteview.ByteView, pos int) (length int, ok bool) {
	rest := view.From(pos)
	switch cr.rule.Form {
	case grammar.PatternLiteral:
		if rest.HasPrefix(cr.rule.Pattern) {
			return len(cr.rule.Pattern), true
		}
		return 0, false
	case grammar.PatternRegex:
		m, err := cr.regex.FindStringMatch(rest.String())
		if err != nil || m == nil || m.Index != 0 {
			return 0, false
		}
		// m.Length is a rune count (regexp2 matches over []rune); callers
		// need the byte length to slice the ByteView and compute locations.
		return len(m.String()), true
	default:
		return 0, false
	}
}

// applies reports whether cr is usable in the given context: a rule with no
// Context filter applies everywhere, one with a filter only in a matching
// context.
func (cr compiledRule) applies(context string) bool {
	return cr.rule.Context == "" || cr.rule.Context == context
}
