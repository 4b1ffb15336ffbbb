package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duskline/glrfront/loc"
)

func TestContextStackPushPopPath(t *testing.T) {
	cs := NewContextStack()
	assert.Equal(t, "", cs.Path())
	assert.Equal(t, 0, cs.Depth())

	cs.Push("module")
	cs.Push("function")
	assert.Equal(t, "module.function", cs.Path())
	assert.Equal(t, "function", cs.Current())
	assert.True(t, cs.Contains("module"))
	assert.Equal(t, 2, cs.Depth())

	tag, ok := cs.Pop()
	require.True(t, ok)
	assert.Equal(t, "function", tag)
	assert.Equal(t, "module", cs.Path())

	_, ok = cs.Pop()
	require.True(t, ok)
	_, ok = cs.Pop()
	assert.False(t, ok)
}

func TestAncestorsOf(t *testing.T) {
	assert.Equal(t, []string{""}, ancestorsOf(""))
	assert.Equal(t, []string{"a.b.c", "a.b", "a", ""}, ancestorsOf("a.b.c"))
}

func TestTableDeclareAndExactLookup(t *testing.T) {
	tbl := NewTable()
	key := tbl.Declare(Symbol{Name: "x", ScopePath: "module.function", Kind: "variable"})
	assert.Equal(t, "module.function::x", key)

	sym, ok := tbl.SymbolAt("module.function", "x")
	require.True(t, ok)
	assert.Equal(t, "variable", sym.Kind)
}

func TestTableLookupShadowing(t *testing.T) {
	tbl := NewTable()
	tbl.Declare(Symbol{Name: "x", ScopePath: "module", Kind: "outer"})
	tbl.Declare(Symbol{Name: "x", ScopePath: "module.function", Kind: "inner"})

	sym, ok := tbl.Lookup("module.function.block", "x")
	require.True(t, ok)
	assert.Equal(t, "inner", sym.Kind, "the innermost declaration should shadow the outer one")

	sym, ok = tbl.Lookup("module.other", "x")
	require.True(t, ok)
	assert.Equal(t, "outer", sym.Kind, "a sibling scope should not see the function-local declaration")

	_, ok = tbl.Lookup("module", "undeclared")
	assert.False(t, ok)
}

func TestTableReferenceTracking(t *testing.T) {
	tbl := NewTable()
	tbl.Declare(Symbol{Name: "count", ScopePath: "module", Kind: "variable"})

	loc1 := loc.New("f.src", 2, 1, 2, 6, "module")
	loc2 := loc.New("f.src", 5, 3, 5, 8, "module")

	sym, ok := tbl.AddReference("module.block", "count", loc1)
	require.True(t, ok)
	_, ok = tbl.AddReference("module.block", "count", loc2)
	require.True(t, ok)

	refs := tbl.FindAllReferences(sym.Key())
	require.Len(t, refs, 2)
	assert.Equal(t, loc1, refs[0].Location)
	assert.Equal(t, loc2, refs[1].Location)

	_, ok = tbl.AddReference("module", "missing", loc1)
	assert.False(t, ok)
}
