package engine

import (
	"github.com/duskline/glrfront/glr"
	"github.com/duskline/glrfront/grammar"
	"github.com/duskline/glrfront/lex"
	"github.com/duskline/glrfront/scope"
)

// symbolCollector implements lex.ActionHandler, populating a scope.Table
// as the lexer walks the source: the first ActionEmitSymbol token seen at
// a given (scope, name) pair is recorded as the declaration, every later
// one at the same pair as a reference. This realizes the scanner-level
// half of spec.md §4.6's "populated during parsing via semantic-action
// callbacks"; the parse-level half (production EmitSymbol actions, fired
// on reduce) is handled separately by walkProductionActions below, since
// glr.Node does not remember which production reduced it and a post-parse
// walk can recover that cheaply once the tree is final.
type symbolCollector struct {
	table   *scope.Table
	userFns map[string]func(lex.StepToken)
}

func newSymbolCollector(userFns map[string]func(lex.StepToken)) *symbolCollector {
	return &symbolCollector{table: scope.NewTable(), userFns: userFns}
}

// EmitSymbol is the lex.ActionHandler hook a TokenRule with `=> { emit(...) }`
// fires at scan time. The first occurrence of a name within a scope is its
// declaration; later occurrences become references against it.
func (c *symbolCollector) EmitSymbol(tok lex.StepToken) {
	if _, ok := c.table.SymbolAt(tok.Context, tok.Value); ok {
		c.table.AddReference(tok.Context, tok.Value, tok.Location)
		return
	}
	c.table.Declare(scope.Symbol{
		Name:      tok.Value,
		ScopePath: tok.Context,
		Kind:      tok.KindName,
		Location:  tok.Location,
		CanInline: true,
	})
}

// UserAction dispatches a TokenRule's `=> { someUserID }` action to a host
// callback registered via Engine.RegisterAction, the action-VM extension
// point spec.md §9 asks for in place of the source's closures-by-name.
func (c *symbolCollector) UserAction(id string, tok lex.StepToken) {
	if fn, ok := c.userFns[id]; ok {
		fn(tok)
	}
}

// walkProductionActions walks root bottom-up, firing each reduced node's
// matching production's EmitSymbol action the same way the lexer fires a
// TokenRule's — so a grammar can declare symbols at production-reduce time
// (e.g. a whole `<declaration>` rule) and not only at token-scan time.
func walkProductionActions(root *glr.Node, def *grammar.Definition, table *scope.Table) {
	if root == nil || root.Terminal {
		return
	}
	for _, c := range root.Children {
		walkProductionActions(c, def, table)
	}
	rule, ok := matchingProduction(root, def)
	if !ok || rule.Action.Kind != grammar.ActionEmitSymbol {
		return
	}
	name := root.Text()
	if _, exists := table.SymbolAt(root.Location.Context, name); exists {
		table.AddReference(root.Location.Context, name, root.Location)
		return
	}
	table.Declare(scope.Symbol{
		Name:      name,
		ScopePath: root.Location.Context,
		Kind:      rule.Name,
		Location:  root.Location,
		CanInline: true,
	})
}

// matchingProduction finds the production rule that could have reduced
// n's children into n, by name and RHS-to-children symbol match — the same
// test glr.Parser.findReduces performs live, run here after the fact
// because Node itself doesn't retain which alternative fired.
func matchingProduction(n *glr.Node, def *grammar.Definition) (grammar.ProductionRule, bool) {
	for _, r := range def.ProductionsFor(n.Symbol) {
		if len(r.RHS) != len(n.Children) {
			continue
		}
		match := true
		for i, sym := range r.RHS {
			if n.Children[i].Symbol != sym.Name {
				match = false
				break
			}
		}
		if match {
			return r, true
		}
	}
	return grammar.ProductionRule{}, false
}
