package grammar

import "fmt"

// Definition is a fully-loaded grammar: its name, token splitter, token and
// production rules, precedence/associativity tables, declared contexts,
// imports, inheritable flag, format tag, and context projections. After
// loading, every symbol reference in a production resolves to a rule and
// every precedence key names a token rule (Validate checks both).
type Definition struct {
	Name          string
	TokenSplitter string
	FormatType    string
	Inheritable   bool
	Imports       []string

	TokenRules      []TokenRule
	ProductionRules []ProductionRule
	Precedence      map[string]int
	Associativity   map[string]Associativity
	Contexts        []string
	Projections     []ContextProjection

	// StartSymbol is the production name the parser must fully reduce to
	// for a parse to succeed. Defaults to the first production rule's name.
	StartSymbol string

	tokenIndex      map[string]int
	productionIndex map[string][]int
}

// NewDefinition returns an empty, named Definition ready to have rules
// added via AddTokenRule/AddProductionRule.
func NewDefinition(name string) *Definition {
	return &Definition{
		Name:          name,
		Precedence:    make(map[string]int),
		Associativity: make(map[string]Associativity),
	}
}

// AddTokenRule appends r, overriding any existing rule of the same name (as
// required by the "derived rules with the same name override" merge rule in
// spec.md §4.4, which also governs a grammar re-declaring its own rule).
func (d *Definition) AddTokenRule(r TokenRule) {
	d.reindex()
	if idx, ok := d.tokenIndex[r.Name]; ok {
		d.TokenRules[idx] = r
		return
	}
	d.TokenRules = append(d.TokenRules, r)
	d.tokenIndex[r.Name] = len(d.TokenRules) - 1
}

// AddProductionRule appends r under its Name, allowing multiple RHS
// alternatives per name.
func (d *Definition) AddProductionRule(r ProductionRule) {
	d.reindex()
	d.ProductionRules = append(d.ProductionRules, r)
	d.productionIndex[r.Name] = append(d.productionIndex[r.Name], len(d.ProductionRules)-1)
	if d.StartSymbol == "" {
		d.StartSymbol = r.Name
	}
}

func (d *Definition) reindex() {
	if d.tokenIndex == nil {
		d.tokenIndex = make(map[string]int, len(d.TokenRules))
		for i, r := range d.TokenRules {
			d.tokenIndex[r.Name] = i
		}
	}
	if d.productionIndex == nil {
		d.productionIndex = make(map[string][]int, len(d.ProductionRules))
		for i, r := range d.ProductionRules {
			d.productionIndex[r.Name] = append(d.productionIndex[r.Name], i)
		}
	}
}

// TokenRuleByName looks up a token rule by name.
func (d *Definition) TokenRuleByName(name string) (TokenRule, bool) {
	d.reindex()
	idx, ok := d.tokenIndex[name]
	if !ok {
		return TokenRule{}, false
	}
	return d.TokenRules[idx], true
}

// ProductionsFor returns all production rules whose Name is head.
func (d *Definition) ProductionsFor(head string) []ProductionRule {
	d.reindex()
	idxs := d.productionIndex[head]
	out := make([]ProductionRule, len(idxs))
	for i, idx := range idxs {
		out[i] = d.ProductionRules[idx]
	}
	return out
}

// IsNonTerminal reports whether name is the head of at least one production
// rule.
func (d *Definition) IsNonTerminal(name string) bool {
	d.reindex()
	_, ok := d.productionIndex[name]
	return ok
}

// Validate checks that every RHS symbol resolves to a known rule and that
// every precedence key names a known token rule. It returns the
// first problem found, or nil if the grammar is consistent. Malformed
// grammars are still usable (the loader never fails outright); Validate is
// a separate, explicit check a caller can run before driving a parse.
func (d *Definition) Validate() error {
	d.reindex()
	for _, p := range d.ProductionRules {
		for _, sym := range p.RHS {
			if sym.Kind == SymbolNonTerminal {
				if !d.IsNonTerminal(sym.Name) {
					return fmt.Errorf("production %q references undefined non-terminal %q", p.Name, sym.Name)
				}
			} else {
				if _, ok := d.tokenIndex[sym.Name]; !ok {
					return fmt.Errorf("production %q references undefined terminal %q", p.Name, sym.Name)
				}
			}
		}
	}
	for key := range d.Precedence {
		if _, ok := d.tokenIndex[key]; !ok {
			return fmt.Errorf("precedence entry %q does not name a known token", key)
		}
	}
	return nil
}
