package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeRendersTokenAndProductionTables(t *testing.T) {
	l := NewLoader()
	def, _, err := l.Load("arithmetic.grm", arithmeticGrammar)
	require.NoError(t, err)

	out := def.Describe()
	assert.Contains(t, out, "Grammar: arithmetic")
	assert.Contains(t, out, "NUMBER")
	assert.Contains(t, out, "PLUS")
	assert.Contains(t, out, "expr")
}
