// Package refactor implements the location-based refactoring layer of
// spec.md §4.7: find-usages, rename, extract-variable, and inline-variable,
// each resolving a CodeLocation against a parsed tree and symbol table and
// producing a non-overlapping list of CodeChanges for the caller to apply.
// None of these operations mutates the source buffer itself.
package refactor

import "github.com/duskline/glrfront/loc"

// ChangeKind distinguishes the three shapes of textual edit a refactoring
// operation can produce.
type ChangeKind int

const (
	Replace ChangeKind = iota
	Insert
	Delete
)

// String renders the change kind the way a trace or diagnostic dump would
// want to show it.
func (k ChangeKind) String() string {
	switch k {
	case Replace:
		return "replace"
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

// CodeChange is one atomic, located textual edit. Applying a Result's
// Changes in reverse file order (spec.md §3) yields a consistent edit
// without earlier changes shifting the locations of later ones.
type CodeChange struct {
	Kind         ChangeKind
	Location     loc.CodeLocation
	OriginalText string
	NewText      string
}

// Result is the outcome of one refactoring operation: whether it succeeded,
// a human-readable message, the ordered non-overlapping changes it
// produced (empty on failure), and the location of the node the operation
// resolved to. Usages carries the located references find-usages returns;
// other operations leave it nil.
type Result struct {
	Success  bool
	Message  string
	Changes  []CodeChange
	Location loc.CodeLocation
	Usages   []loc.CodeLocation
}

func notAvailable() *Result {
	return &Result{Success: false, Message: "operation not available"}
}
