package refactor

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/duskline/glrfront/glr"
	"github.com/duskline/glrfront/glrerr"
	"github.com/duskline/glrfront/loc"
	"github.com/duskline/glrfront/scope"
)

// Model bundles the parsed tree, its interval Index, and the populated
// symbol table a refactoring operation needs to resolve a location and
// compute changes. A nil Model (or one with a nil Tree) is "no parse tree
// loaded" per spec.md §4.7's contract.
type Model struct {
	Tree    *glr.Node
	Index   *Index
	Symbols *scope.Table
}

// NewModel builds a Model over tree, indexing it for FindAt lookups.
func NewModel(tree *glr.Node, symbols *scope.Table) *Model {
	return &Model{Tree: tree, Index: Build(tree), Symbols: symbols}
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether name is a legal identifier for rename and
// extract-variable to introduce. spec.md §4.7 leaves full grammar-specific
// validation to the caller; this is the baseline syntactic check.
func ValidIdentifier(name string) bool {
	return identPattern.MatchString(name)
}

func literalOf(n *glr.Node) string {
	if n == nil {
		return ""
	}
	if n.Terminal {
		return n.Value
	}
	leaves := n.Leaves()
	if len(leaves) == 0 {
		return ""
	}
	return leaves[0].Value
}

func locEqual(a, b loc.CodeLocation) bool {
	return a.File == b.File && a.StartLine == b.StartLine && a.StartCol == b.StartCol &&
		a.EndLine == b.EndLine && a.EndCol == b.EndCol
}

// symbolAt resolves target to the one Symbol it names, whether target
// marks the declaration itself or one of its references. Unlike FindUsages
// (which groups by literal name) this distinguishes between two
// same-named symbols declared in different scopes, because rename and
// inline-variable must touch only the one the caller pointed at.
func (m *Model) symbolAt(target loc.CodeLocation) (scope.Symbol, bool) {
	for _, sym := range m.Symbols.AllSymbols() {
		if locEqual(sym.Location, target) {
			return sym, true
		}
	}
	for _, sym := range m.Symbols.AllSymbols() {
		for _, ref := range m.Symbols.FindAllReferences(sym.Key()) {
			if locEqual(ref.Location, target) {
				return sym, true
			}
		}
	}
	return scope.Symbol{}, false
}

func scopeMatches(symScope, filter string) bool {
	if filter == "" {
		return true
	}
	return symScope == filter || strings.HasPrefix(symScope, filter+".")
}

func extractableContext(ctx string) bool {
	switch ctx {
	case "function", "method", "block":
		return true
	default:
		return false
	}
}

func sortChanges(changes []CodeChange) {
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Location.Before(changes[j].Location)
	})
}

// FindUsages resolves the node at target, takes its literal text as a
// symbol name, and returns every declaration and reference location
// sharing that name, optionally narrowed to symbols whose scope path is or
// is nested under scopeFilter.
func (m *Model) FindUsages(target loc.CodeLocation, scopeFilter string) (*Result, error) {
	if m == nil || m.Tree == nil {
		return notAvailable(), nil
	}
	node := m.Index.FindAt(target)
	if node == nil {
		return nil, glrerr.New("no node at location", glrerr.ErrNoNodeAtLocation)
	}
	name := literalOf(node)
	if name == "" {
		return nil, glrerr.New("node at location has no literal value", glrerr.ErrNotApplicable)
	}

	var locs []loc.CodeLocation
	for _, sym := range m.Symbols.AllSymbols() {
		if sym.Name != name || !scopeMatches(sym.ScopePath, scopeFilter) {
			continue
		}
		locs = append(locs, sym.Location)
		for _, ref := range m.Symbols.FindAllReferences(sym.Key()) {
			locs = append(locs, ref.Location)
		}
	}
	sort.Slice(locs, func(i, j int) bool { return locs[i].Before(locs[j]) })

	return &Result{
		Success:  true,
		Message:  fmt.Sprintf("%d usage(s) of %q", len(locs), name),
		Location: node.Location,
		Usages:   locs,
	}, nil
}

// Rename resolves target to the one Symbol it identifies and produces a
// Replace change at its declaration plus one per reference.
func (m *Model) Rename(target loc.CodeLocation, newName string) (*Result, error) {
	if m == nil || m.Tree == nil {
		return notAvailable(), nil
	}
	if !ValidIdentifier(newName) {
		return nil, glrerr.New("invalid identifier name: "+newName, glrerr.ErrInvalidName)
	}
	sym, ok := m.symbolAt(target)
	if !ok {
		return nil, glrerr.New("no node at location", glrerr.ErrNoNodeAtLocation)
	}

	changes := []CodeChange{
		{Kind: Replace, Location: sym.Location, OriginalText: sym.Name, NewText: newName},
	}
	for _, ref := range m.Symbols.FindAllReferences(sym.Key()) {
		changes = append(changes, CodeChange{Kind: Replace, Location: ref.Location, OriginalText: sym.Name, NewText: newName})
	}
	sortChanges(changes)

	return &Result{
		Success:  true,
		Message:  fmt.Sprintf("renamed %d occurrence(s) of %q to %q", len(changes), sym.Name, newName),
		Changes:  changes,
		Location: sym.Location,
	}, nil
}

// ExtractVariable resolves target to an expression-shaped node in a
// function/method/block context and replaces it with varName, inserting a
// declaration of varName at the start of the line the expression begins
// on.
func (m *Model) ExtractVariable(target loc.CodeLocation, varName string) (*Result, error) {
	if m == nil || m.Tree == nil {
		return notAvailable(), nil
	}
	if !ValidIdentifier(varName) {
		return nil, glrerr.New("invalid identifier name: "+varName, glrerr.ErrInvalidName)
	}
	node := m.Index.FindAt(target)
	if node == nil {
		return nil, glrerr.New("no node at location", glrerr.ErrNoNodeAtLocation)
	}
	if node.Terminal || !extractableContext(node.Location.Context) || !strings.Contains(strings.ToLower(node.Symbol), "expr") {
		return nil, glrerr.New("node not applicable for extract-variable", glrerr.ErrNotApplicable)
	}

	text := node.Text()
	insertLoc := loc.New(node.Location.File, node.Location.StartLine, 1, node.Location.StartLine, 1, node.Location.Context)
	changes := []CodeChange{
		{Kind: Insert, Location: insertLoc, NewText: varName + " = " + text + ";"},
		{Kind: Replace, Location: node.Location, OriginalText: text, NewText: varName},
	}
	sortChanges(changes)

	return &Result{
		Success:  true,
		Message:  "extracted " + varName,
		Changes:  changes,
		Location: node.Location,
	}, nil
}

// InlineVariable resolves target to a Symbol that is marked inlineable and
// carries a known value, replacing every reference with that value and
// deleting the declaration.
func (m *Model) InlineVariable(target loc.CodeLocation) (*Result, error) {
	if m == nil || m.Tree == nil {
		return notAvailable(), nil
	}
	sym, ok := m.symbolAt(target)
	if !ok {
		return nil, glrerr.New("no node at location", glrerr.ErrNoNodeAtLocation)
	}
	if !sym.CanInline || !sym.HasValue {
		return nil, glrerr.New("symbol is not inlineable", glrerr.ErrNotApplicable)
	}

	refs := m.Symbols.FindAllReferences(sym.Key())
	changes := make([]CodeChange, 0, len(refs)+1)
	for _, ref := range refs {
		changes = append(changes, CodeChange{Kind: Replace, Location: ref.Location, OriginalText: sym.Name, NewText: sym.Value})
	}
	changes = append(changes, CodeChange{Kind: Delete, Location: sym.Location, OriginalText: sym.Name})
	sortChanges(changes)

	return &Result{
		Success:  true,
		Message:  fmt.Sprintf("inlined %d occurrence(s) of %q", len(refs), sym.Name),
		Changes:  changes,
		Location: sym.Location,
	}, nil
}

// ApplicableRefactorings reports which operation names would currently
// succeed at target, the query spec.md §6 names as
// get_applicable_refactorings: implemented as a registry query reusing the
// same context/flag checks each operation's own applicability test needs.
func (m *Model) ApplicableRefactorings(target loc.CodeLocation) []string {
	if m == nil || m.Tree == nil {
		return nil
	}
	node := m.Index.FindAt(target)
	if node == nil {
		return nil
	}
	var out []string
	out = append(out, "find-usages")
	if sym, ok := m.symbolAt(target); ok {
		out = append(out, "rename")
		if sym.CanInline && sym.HasValue {
			out = append(out, "inline-variable")
		}
	}
	if !node.Terminal && extractableContext(node.Location.Context) && strings.Contains(strings.ToLower(node.Symbol), "expr") {
		out = append(out, "extract-variable")
	}
	return out
}

// OperationFunc is the signature every registered refactoring operation
// shares; arg carries the operation's one free-form parameter (a new name
// for rename/extract-variable, unused otherwise).
type OperationFunc func(m *Model, target loc.CodeLocation, arg string) (*Result, error)

var registry = map[string]OperationFunc{
	"find-usages": func(m *Model, target loc.CodeLocation, arg string) (*Result, error) {
		return m.FindUsages(target, arg)
	},
	"rename": func(m *Model, target loc.CodeLocation, arg string) (*Result, error) {
		return m.Rename(target, arg)
	},
	"extract-variable": func(m *Model, target loc.CodeLocation, arg string) (*Result, error) {
		return m.ExtractVariable(target, arg)
	},
	"inline-variable": func(m *Model, target loc.CodeLocation, _ string) (*Result, error) {
		return m.InlineVariable(target)
	},
}

// Invoke runs the operation registered under name. An unregistered name
// returns the standard "operation not available" Result rather than an
// error — spec.md §4.7: "the registry tolerates missing operations and
// returns the standard 'not available' error rather than throwing."
func Invoke(m *Model, name string, target loc.CodeLocation, arg string) (*Result, error) {
	op, ok := registry[name]
	if !ok {
		return notAvailable(), nil
	}
	return op(m, target, arg)
}
