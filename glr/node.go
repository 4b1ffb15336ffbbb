// Package glr implements the bounded generalized (GLR-style) parser of
// spec.md §4.5: it drives a grammar.Definition's production rules over a
// lex.StepToken stream, forking a Path whenever more than one shift or
// reduce action is viable and merging or capping paths to keep exploration
// bounded on ambiguous or left-recursive grammars.
package glr

import (
	"strings"

	"github.com/duskline/glrfront/loc"
)

// Node is one parse tree node: a terminal leaf carrying the StepToken it
// came from, or a non-terminal carrying the children a production reduced.
type Node struct {
	Symbol   string
	Terminal bool
	Value    string
	Location loc.CodeLocation
	Children []*Node
}

// Leaves returns the terminal nodes under n, in source order — the token
// sequence the subtree spans.
func (n *Node) Leaves() []*Node {
	if n == nil {
		return nil
	}
	if n.Terminal {
		return []*Node{n}
	}
	var out []*Node
	for _, c := range n.Children {
		out = append(out, c.Leaves()...)
	}
	return out
}

// Find walks n's subtree depth-first for the first node whose Location
// contains target, preferring the deepest (most specific) match. It is the
// primitive the refactoring layer's interval index builds on.
func (n *Node) Find(target loc.CodeLocation) *Node {
	if n == nil || !n.Location.Contains(target) {
		return nil
	}
	for _, c := range n.Children {
		if found := c.Find(target); found != nil {
			return found
		}
	}
	return n
}

// Text reconstructs the source text n spans by joining its terminal
// leaves' literal values with single spaces. It is an approximation, not a
// verbatim slice of the original buffer — original inter-token whitespace
// is not preserved — which is acceptable since source formatting is
// explicitly out of scope (spec.md §1); it is enough for the refactoring
// layer to synthesize a new statement or substitute a value.
func (n *Node) Text() string {
	leaves := n.Leaves()
	if len(leaves) == 0 {
		return ""
	}
	parts := make([]string, len(leaves))
	for i, l := range leaves {
		parts[i] = l.Value
	}
	return strings.Join(parts, " ")
}
