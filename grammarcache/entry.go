package grammarcache

import "github.com/duskline/glrfront/grammar"

// cachedDefinition mirrors grammar.Definition's exported fields as the wire
// format rezi encodes: Definition also carries unexported lookup indexes
// that reindex() rebuilds lazily on first use, so there is nothing to gain
// from persisting them and rezi (which only sees exported fields) would
// skip them regardless.
type cachedDefinition struct {
	Name          string
	TokenSplitter string
	FormatType    string
	Inheritable   bool
	Imports       []string

	TokenRules      []grammar.TokenRule
	ProductionRules []grammar.ProductionRule
	Precedence      map[string]int
	Associativity   map[string]grammar.Associativity
	Contexts        []string
	Projections     []grammar.ContextProjection

	StartSymbol string
}

func fromDefinition(d *grammar.Definition) cachedDefinition {
	return cachedDefinition{
		Name:            d.Name,
		TokenSplitter:   d.TokenSplitter,
		FormatType:      d.FormatType,
		Inheritable:     d.Inheritable,
		Imports:         d.Imports,
		TokenRules:      d.TokenRules,
		ProductionRules: d.ProductionRules,
		Precedence:      d.Precedence,
		Associativity:   d.Associativity,
		Contexts:        d.Contexts,
		Projections:     d.Projections,
		StartSymbol:     d.StartSymbol,
	}
}

func (c cachedDefinition) toDefinition() *grammar.Definition {
	d := grammar.NewDefinition(c.Name)
	d.TokenSplitter = c.TokenSplitter
	d.FormatType = c.FormatType
	d.Inheritable = c.Inheritable
	d.Imports = c.Imports
	d.TokenRules = c.TokenRules
	d.ProductionRules = c.ProductionRules
	if c.Precedence != nil {
		d.Precedence = c.Precedence
	}
	if c.Associativity != nil {
		d.Associativity = c.Associativity
	}
	d.Contexts = c.Contexts
	d.Projections = c.Projections
	d.StartSymbol = c.StartSymbol
	return d
}
