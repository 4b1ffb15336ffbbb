package lex

import "sort"

// lineIndex maps a byte offset to a 1-based (line, column) pair via binary
// search over precomputed line-start offsets, computed once per Lexer.Run
// rather than rescanned per token.
type lineIndex struct {
	starts []int // byte offset of the first byte of each line
}

func newLineIndex(src []byte) *lineIndex {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{starts: starts}
}

// position returns the 1-based line and column of byte offset pos.
func (li *lineIndex) position(pos int) (line, col int) {
	i := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > pos })
	line = i // i is 1-based line count since starts[0]=line 1's start
	col = pos - li.starts[i-1] + 1
	return line, col
}
