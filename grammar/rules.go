// Package grammar parses the line-oriented grammar text described in
// spec.md §4.4 into a Definition: token rules, production rules,
// precedence/associativity tables, context projections, and inheritance,
// merging in any base grammars an Inherits directive names.
package grammar

// PatternForm distinguishes how a TokenRule's pattern text should be
// matched: byte-literal or compiled as the small regex dialect §4.3 names.
type PatternForm int

const (
	// PatternLiteral matches the pattern text as exact bytes ("X" or 'X').
	PatternLiteral PatternForm = iota
	// PatternRegex matches via the regex dialect (/.../).
	PatternRegex
	// PatternWord is a bare, unquoted word naming another token rule.
	PatternWord
)

// ActionKind is the tagged enumeration spec.md §9 ("Dynamic dispatch on
// rule actions") asks for in place of source-language closures.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionSkip
	ActionRename
	ActionEmitSymbol
	ActionPushContext
	ActionPopContext
	ActionUser
)

// Action is a built-in action descriptor attached to a TokenRule or
// ProductionRule. UserID names a host-supplied callback registered with
// the engine when Kind is ActionUser.
type Action struct {
	Kind    ActionKind
	Arg     string // e.g. the new kind name for ActionRename, the context tag for Push/PopContext
	UserID  string
}

// TokenRule is a lexical rule: a name, a pattern, an optional context
// filter, a priority used to order match selection (higher first), and a
// skip flag marking rules that consume bytes but emit no StepToken.
type TokenRule struct {
	Name     string
	Pattern  string
	Form     PatternForm
	Context  string
	Priority int
	Skip     bool
	Action   Action
}

// ProductionRule is a grammar production: a name (the non-terminal it
// reduces to), an ordered right-hand side of symbol references
// (non-terminals written <name>, terminals bare or quoted), an optional
// context filter, a precedence
// level, and a semantic action.
type ProductionRule struct {
	Name       string
	RHS        []Symbol
	Context    string
	Precedence int
	Action     Action
}

// SymbolKind classifies one element of a ProductionRule's RHS.
type SymbolKind int

const (
	SymbolTerminal SymbolKind = iota
	SymbolNonTerminal
)

// Symbol is one element of a production's right-hand side.
type Symbol struct {
	Name string
	Kind SymbolKind
}

// Associativity is the associativity of an operator named in a Precedence
// block.
type Associativity int

const (
	AssocNone Associativity = iota
	AssocLeft
	AssocRight
)

// ContextProjection is a `@context(CTX) @projection(PAT) RULE => { CODE }`
// directive: it narrows a rule's applicability to a context and records a
// projection pattern plus action code for the action-VM extension point
// (spec.md §9 — the action vocabulary and evaluation strategy for this are
// deliberately left open by the source material).
type ContextProjection struct {
	Context    string
	Projection string
	Rule       string
	Code       string
}

// Diagnostic is a non-fatal grammar-loading problem: a malformed line, an
// unresolved inheritance, or an undefined RHS symbol. The loader collects
// these instead of failing outright, per spec.md §4.4/§7.
type Diagnostic struct {
	Line    int
	Message string
}
