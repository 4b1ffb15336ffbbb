package refactor

import (
	"sort"

	"github.com/duskline/glrfront/glr"
	"github.com/duskline/glrfront/loc"
)

// Index is a per-file sorted list of parse-node spans, built once per
// parsed tree so a point query (spec.md §9's find_node_at_location) does
// not need to re-walk the whole tree on every call — the design note's
// "interval index" the reference implementation left as a stub.
type Index struct {
	nodes []*glr.Node
}

// Build walks root once and records every node, sorted by start position.
func Build(root *glr.Node) *Index {
	idx := &Index{}
	var walk func(n *glr.Node)
	walk = func(n *glr.Node) {
		if n == nil {
			return
		}
		idx.nodes = append(idx.nodes, n)
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)
	sort.SliceStable(idx.nodes, func(i, j int) bool {
		return startBefore(idx.nodes[i].Location, idx.nodes[j].Location)
	})
	return idx
}

func startBefore(a, b loc.CodeLocation) bool {
	if a.StartLine != b.StartLine {
		return a.StartLine < b.StartLine
	}
	return a.StartCol < b.StartCol
}

// FindAt returns the smallest recorded node whose span contains target, or
// nil if none does. It binary-searches to the first node starting strictly
// after target, then scans backward over every node starting at or before
// it for the tightest enclosing span — nodes are nested, so the match is
// found within a handful of candidates in the common case rather than a
// full tree walk.
func (idx *Index) FindAt(target loc.CodeLocation) *glr.Node {
	i := sort.Search(len(idx.nodes), func(i int) bool {
		return startBefore(target, idx.nodes[i].Location)
	})
	var best *glr.Node
	for j := i - 1; j >= 0; j-- {
		n := idx.nodes[j]
		if n.Location.Contains(target) {
			if best == nil || tighter(n.Location, best.Location) {
				best = n
			}
		}
	}
	return best
}

// tighter reports whether a spans less source than b, the "most specific
// match" tie-break FindAt uses when several recorded nodes contain target.
func tighter(a, b loc.CodeLocation) bool {
	aLines := a.EndLine - a.StartLine
	bLines := b.EndLine - b.StartLine
	if aLines != bLines {
		return aLines < bLines
	}
	return (a.EndCol - a.StartCol) < (b.EndCol - b.StartCol)
}
