package marks

// iterFrame represents a position in the tree traversal.
type iterFrame struct {
	n      *node
	idx    int // Next child index (internal) or extent index (leaf) to visit
	offset int // Absolute byte offset of that element's start
}

// Iterator walks marks in ascending document order, ties broken by key
// order: start boundaries before end boundaries, then ascending id. The
// iterator observes the tree as it was when the iterator was created;
// later mutations do not affect it.
type Iterator struct {
	root       *node
	start, end int // Yield marks whose start offset is in [start, end)

	stack     []iterFrame
	started   bool
	curKeys   keySet
	curOffset int
	keyIdx    int
	mark      Mark
}

// Iter returns an iterator over all live marks.
func (t *MarkTree) Iter() *Iterator {
	// Half-open bound, +1 so marks anchored at the very end are included.
	return t.rangeIter(0, t.Len()+1)
}

// Range returns an iterator over the marks whose start position lies within
// r, using the node summaries to skip whole subtrees outside it.
func (t *MarkTree) Range(r Range) *Iterator {
	return t.rangeIter(r.Start, r.End)
}

func (t *MarkTree) rangeIter(start, end int) *Iterator {
	return &Iterator{
		root:  t.root,
		start: start,
		end:   end,
		stack: make([]iterFrame, 0, 8),
	}
}

// Next advances to the next mark.
// Returns true if there is a mark, false if iteration is complete.
func (it *Iterator) Next() bool {
	if !it.started {
		it.started = true
		if !it.root.empty() && it.start < it.end {
			it.stack = append(it.stack, iterFrame{n: it.root})
		}
	}

	for {
		for it.keyIdx < len(it.curKeys) {
			k := it.curKeys[it.keyIdx]
			it.keyIdx++
			if k.isEnd() {
				continue
			}
			r := Range{Start: it.curOffset, End: it.curOffset}
			if k.isRange() {
				if end, ok := findRight(it.root, k.id()); ok {
					r.End = end
				}
			}
			it.mark = Mark{ID: k.id(), Range: r}
			return true
		}
		if !it.nextExtent() {
			return false
		}
	}
}

// nextExtent advances the traversal to the next extent whose offset lies in
// the query window, skipping subtrees entirely outside it.
func (it *Iterator) nextExtent() bool {
	for len(it.stack) > 0 {
		f := &it.stack[len(it.stack)-1]

		if f.n.isLeaf() {
			if f.idx < len(f.n.extents) {
				e := f.n.extents[f.idx]
				off := f.offset
				f.idx++
				f.offset += e.length
				if off >= it.end {
					// Extents come in document order; nothing further
					// can qualify.
					it.stack = it.stack[:0]
					return false
				}
				if off < it.start || e.keys.isEmpty() {
					continue
				}
				it.curKeys, it.curOffset, it.keyIdx = e.keys, off, 0
				return true
			}
			it.stack = it.stack[:len(it.stack)-1]
			continue
		}

		if f.idx < len(f.n.children) {
			child := f.n.children[f.idx]
			childStart := f.offset
			childEnd := childStart + f.n.childSummaries[f.idx].bytes
			f.idx++
			f.offset = childEnd
			if childStart >= it.end {
				it.stack = it.stack[:0]
				return false
			}
			// A child ending exactly at the window start may still hold
			// zero-gap boundaries anchored there, so only skip strictly
			// earlier ones.
			if childEnd < it.start {
				continue
			}
			it.stack = append(it.stack, iterFrame{n: child, offset: childStart})
			continue
		}

		it.stack = it.stack[:len(it.stack)-1]
	}
	return false
}

// Mark returns the current mark.
func (it *Iterator) Mark() Mark {
	return it.mark
}
