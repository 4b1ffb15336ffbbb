// Package lex implements the rule-driven Stream Lexer of spec.md §4.3: it
// turns source bytes into StepTokens according to a grammar's TokenRules,
// forking a LexerPath whenever more than one rule matches at a position.
package lex

import "github.com/duskline/glrfront/loc"

// StepToken is a located, named lexeme produced in source order. Its
// literal value is copied out of the source buffer — the one deliberate
// allocation spec.md §3 permits, kept for diagnostics and for the
// refactoring layer's textual edits.
type StepToken struct {
	KindName     string
	Value        string
	Location     loc.CodeLocation
	Context      string
	IsSplittable bool
	Split        []StepToken
}

// String renders a compact `kind "value"` form (e.g. NUMBER "12"), handy in
// test failures and trace output.
func (t StepToken) String() string {
	return t.KindName + " " + `"` + t.Value + `"`
}
