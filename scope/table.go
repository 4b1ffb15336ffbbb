package scope

import (
	"fmt"

	"github.com/duskline/glrfront/loc"
)

// Symbol is one declared name: what it's called, the dotted scope path it
// was declared in, a grammar-defined kind tag (e.g. "variable",
// "function"), the location of its declaration, and the two extra fields
// spec.md §3's SymbolInfo names for the refactoring layer: whether
// inline-variable may fold it away, and the literal value to substitute
// when it can.
type Symbol struct {
	Name      string
	ScopePath string
	Kind      string
	Location  loc.CodeLocation
	CanInline bool
	Value     string
	HasValue  bool
}

// Key uniquely identifies sym within a Table.
func (sym Symbol) Key() string {
	return symbolKey(sym.ScopePath, sym.Name)
}

func symbolKey(scopePath, name string) string {
	return fmt.Sprintf("%s::%s", scopePath, name)
}

// Reference is one use of a previously declared Symbol.
type Reference struct {
	SymbolKey string
	Location  loc.CodeLocation
}

// Table holds every declared Symbol and every Reference resolved against
// one, keyed so that Lookup can walk outward from an inner scope to an
// outer one the way a shadowing name resolution rule requires.
type Table struct {
	symbols    map[string]Symbol
	references map[string][]Reference
}

// NewTable returns an empty symbol table.
func NewTable() *Table {
	return &Table{
		symbols:    make(map[string]Symbol),
		references: make(map[string][]Reference),
	}
}

// Declare records sym, returning its Key. Declaring a symbol with the same
// scope path and name again overwrites the previous declaration — a
// grammar's redeclaration semantics, if any, are the caller's concern.
func (t *Table) Declare(sym Symbol) string {
	key := sym.Key()
	t.symbols[key] = sym
	return key
}

// Lookup resolves name starting at scopePath and walking outward through
// enclosing scopes until a declaration is found, implementing shadowing:
// the innermost matching declaration wins.
func (t *Table) Lookup(scopePath, name string) (Symbol, bool) {
	for _, ancestor := range ancestorsOf(scopePath) {
		if sym, ok := t.symbols[symbolKey(ancestor, name)]; ok {
			return sym, true
		}
	}
	return Symbol{}, false
}

// AddReference resolves name at scopePath via Lookup and, if found, records
// a Reference against it at refLoc. It reports whether a symbol was found.
func (t *Table) AddReference(scopePath, name string, refLoc loc.CodeLocation) (Symbol, bool) {
	sym, ok := t.Lookup(scopePath, name)
	if !ok {
		return Symbol{}, false
	}
	key := sym.Key()
	t.references[key] = append(t.references[key], Reference{SymbolKey: key, Location: refLoc})
	return sym, true
}

// FindAllReferences returns every Reference recorded against the symbol
// identified by key, in the order they were added.
func (t *Table) FindAllReferences(key string) []Reference {
	return append([]Reference(nil), t.references[key]...)
}

// SymbolAt returns the symbol declared at scopePath named name, without
// walking outward (an exact lookup, unlike Lookup).
func (t *Table) SymbolAt(scopePath, name string) (Symbol, bool) {
	sym, ok := t.symbols[symbolKey(scopePath, name)]
	return sym, ok
}

// Clone returns a deep copy of t, a copy-on-write primitive for per-path
// symbol overlays. Nothing in this module calls it: the engine collects
// the symbols of every lexer path into one shared Table.
func (t *Table) Clone() *Table {
	cp := &Table{
		symbols:    make(map[string]Symbol, len(t.symbols)),
		references: make(map[string][]Reference, len(t.references)),
	}
	for k, v := range t.symbols {
		cp.symbols[k] = v
	}
	for k, refs := range t.references {
		cp.references[k] = append([]Reference(nil), refs...)
	}
	return cp
}

// AllSymbols returns every declared symbol, in no particular order.
func (t *Table) AllSymbols() []Symbol {
	out := make([]Symbol, 0, len(t.symbols))
	for _, sym := range t.symbols {
		out = append(out, sym)
	}
	return out
}
