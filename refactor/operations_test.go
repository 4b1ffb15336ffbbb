package refactor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duskline/glrfront/glr"
	"github.com/duskline/glrfront/loc"
	"github.com/duskline/glrfront/scope"
)

func leaf(symbol, value string, line, col int, ctx string) *glr.Node {
	return &glr.Node{
		Symbol:   symbol,
		Terminal: true,
		Value:    value,
		Location: loc.New("f.src", line, col, line, col+len(value), ctx),
	}
}

func nonterm(symbol string, ctx string, children ...*glr.Node) *glr.Node {
	first := children[0].Location
	last := children[len(children)-1].Location
	return &glr.Node{
		Symbol:   symbol,
		Children: children,
		Location: loc.New("f.src", first.StartLine, first.StartCol, last.EndLine, last.EndCol, ctx),
	}
}

// buildSample builds a tiny "declare x; use x; use x; use y" tree and a
// matching symbol table, standing in for what the engine package's
// post-parse walk would populate from real grammar actions.
func buildSample(t *testing.T) *Model {
	t.Helper()

	declX := leaf("IDENTIFIER", "x", 1, 5, "function")
	useX1 := leaf("IDENTIFIER", "x", 2, 1, "function")
	useX2 := leaf("IDENTIFIER", "x", 3, 1, "function")
	exprNode := nonterm("expr", "function", leaf("NUMBER", "1", 4, 5, "function"), leaf("PLUS", "+", 4, 7, "function"), leaf("NUMBER", "2", 4, 9, "function"))

	root := nonterm("program", "function", declX, useX1, useX2, exprNode)

	tbl := scope.NewTable()
	tbl.Declare(scope.Symbol{Name: "x", ScopePath: "function", Kind: "variable", Location: declX.Location, CanInline: true, HasValue: true, Value: "42"})
	tbl.AddReference("function", "x", useX1.Location)
	tbl.AddReference("function", "x", useX2.Location)

	return NewModel(root, tbl)
}

func TestFindUsages(t *testing.T) {
	m := buildSample(t)
	decl := loc.New("f.src", 1, 5, 1, 6, "function")

	res, err := m.FindUsages(decl, "")
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.Len(t, res.Usages, 3)
}

func TestRenamePropagatesToAllReferences(t *testing.T) {
	m := buildSample(t)
	decl := loc.New("f.src", 1, 5, 1, 6, "function")

	res, err := m.Rename(decl, "y")
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Len(t, res.Changes, 3)
	for _, c := range res.Changes {
		assert.Equal(t, "x", c.OriginalText)
		assert.Equal(t, "y", c.NewText)
		assert.Equal(t, Replace, c.Kind)
	}
}

func TestRenameRejectsInvalidIdentifier(t *testing.T) {
	m := buildSample(t)
	decl := loc.New("f.src", 1, 5, 1, 6, "function")

	_, err := m.Rename(decl, "123bad")
	require.Error(t, err)
}

func TestInlineVariable(t *testing.T) {
	m := buildSample(t)
	decl := loc.New("f.src", 1, 5, 1, 6, "function")

	res, err := m.InlineVariable(decl)
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Len(t, res.Changes, 3)
	assert.Equal(t, Delete, res.Changes[0].Kind)
}

func TestExtractVariable(t *testing.T) {
	m := buildSample(t)
	target := loc.New("f.src", 4, 5, 4, 9, "function")

	res, err := m.ExtractVariable(target, "sum")
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Len(t, res.Changes, 2)
	assert.Equal(t, Insert, res.Changes[0].Kind)
	assert.Equal(t, Replace, res.Changes[1].Kind)
	assert.Equal(t, "sum", res.Changes[1].NewText)
}

func TestOperationNotAvailableWithoutTree(t *testing.T) {
	var m *Model
	res, err := m.Rename(loc.CodeLocation{}, "y")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "operation not available", res.Message)
}

func TestInvokeUnknownOperationIsNotAvailable(t *testing.T) {
	m := buildSample(t)
	res, err := Invoke(m, "does-not-exist", loc.CodeLocation{}, "")
	require.NoError(t, err)
	assert.False(t, res.Success)
}

func TestApplicableRefactorings(t *testing.T) {
	m := buildSample(t)
	decl := loc.New("f.src", 1, 5, 1, 6, "function")

	ops := m.ApplicableRefactorings(decl)
	assert.Contains(t, ops, "find-usages")
	assert.Contains(t, ops, "rename")
	assert.Contains(t, ops, "inline-variable")
}
