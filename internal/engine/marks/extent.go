package marks

import "fmt"

// extent is the atomic unit of the gap encoding: a set of boundary keys
// anchored at the extent's first byte, followed by length bytes of gap to
// the next boundary in document order. Marks coinciding at one offset share
// one extent's key set.
type extent struct {
	length int
	keys   keySet
}

// String returns a human-readable representation of the extent.
func (e extent) String() string {
	return fmt.Sprintf("(%d %v)", e.length, e.keys)
}

// summary is a node's cached aggregate: the byte length spanned by its
// subtree and the set of mark ids present in it. Summaries are computed when
// a node is built and never modified afterwards, so they are shared freely
// between tree versions.
type summary struct {
	bytes int
	ids   idSet
}

// idSet is the set of mark ids present in a subtree, used to steer descent
// for id lookups. A nil set is empty; unmarked text regions share it.
type idSet map[ID]struct{}

func (s idSet) contains(id ID) bool {
	_, ok := s[id]
	return ok
}

// unionIDSets merges two id sets, reusing one side when the other is empty
// so summaries of unchanged subtrees keep sharing their sets.
func unionIDSets(a, b idSet) idSet {
	if len(b) == 0 {
		return a
	}
	if len(a) == 0 {
		return b
	}
	out := make(idSet, len(a)+len(b))
	for id := range a {
		out[id] = struct{}{}
	}
	for id := range b {
		out[id] = struct{}{}
	}
	return out
}

// summarizeExtents computes a leaf summary from scratch.
func summarizeExtents(extents []extent) summary {
	var sum summary
	var ids idSet
	for _, e := range extents {
		sum.bytes += e.length
		for _, k := range e.keys {
			if ids == nil {
				ids = make(idSet)
			}
			ids[k.id()] = struct{}{}
		}
	}
	sum.ids = ids
	return sum
}
