package marks

// Tree structure constants
const (
	// maxChildren is the maximum children per internal node before splitting.
	maxChildren = 8

	// maxLeafExtents is the maximum number of extents in a leaf node. Key
	// sets themselves are unbounded; the cap applies to distinct boundary
	// positions per leaf.
	maxLeafExtents = 8
)

// node represents a node in the mark tree.
// Leaf nodes (height == 0) hold ordered extents; internal nodes (height > 0)
// hold ordered children plus per-child summaries for efficient seeking.
//
// Nodes are immutable once built. Every mutation of the tree constructs new
// nodes along the affected path and shares the rest, which is what makes
// snapshots cheap and safe for concurrent readers.
type node struct {
	height  uint8
	summary summary

	// Internal node fields (height > 0)
	children       []*node
	childSummaries []summary

	// Leaf node fields (height == 0)
	extents []extent
}

// newLeaf creates a leaf node from the given extents.
func newLeaf(extents []extent) *node {
	return &node{
		height:  0,
		summary: summarizeExtents(extents),
		extents: extents,
	}
}

// newInternal creates an internal node from children of equal height.
func newInternal(children []*node) *node {
	height := children[0].height + 1
	summaries := make([]summary, len(children))
	var total summary
	for i, child := range children {
		summaries[i] = child.summary
		total.bytes += child.summary.bytes
		total.ids = unionIDSets(total.ids, child.summary.ids)
	}

	return &node{
		height:         height,
		summary:        total,
		children:       children,
		childSummaries: summaries,
	}
}

func (n *node) isLeaf() bool {
	return n.height == 0
}

func (n *node) bytes() int {
	return n.summary.bytes
}

// empty reports whether the node holds nothing at all. A node spanning zero
// bytes is not necessarily empty: it may still carry boundary keys.
func (n *node) empty() bool {
	if n == nil {
		return true
	}
	if n.isLeaf() {
		return len(n.extents) == 0
	}
	return len(n.children) == 0
}

// splitNode splits the subtree at the given byte offset. Everything before p
// goes left; boundary keys anchored exactly at p go right. Either side may
// be nil when it holds nothing.
func splitNode(n *node, p int) (*node, *node) {
	if n.empty() {
		return nil, nil
	}
	if p <= 0 {
		return nil, n
	}
	if n.isLeaf() {
		return splitLeaf(n, p)
	}
	return splitInternal(n, p)
}

// splitLeaf splits a leaf node at offset p. An extent spanning p is cut in
// two; its keys stay with the left half since they anchor at its first byte.
func splitLeaf(n *node, p int) (*node, *node) {
	var le, re []extent
	offset := 0
	for _, e := range n.extents {
		end := offset + e.length
		switch {
		case offset >= p:
			re = append(re, e)
		case end <= p:
			le = append(le, e)
		default:
			le = append(le, extent{length: p - offset, keys: e.keys})
			re = append(re, extent{length: end - p})
		}
		offset = end
	}
	return leafOrNil(le), leafOrNil(re)
}

func leafOrNil(extents []extent) *node {
	if len(extents) == 0 {
		return nil
	}
	return newLeaf(extents)
}

// splitInternal splits an internal node at offset p. The child containing p
// is split recursively; note that a child ending exactly at p may still hold
// keys anchored at p (zero-gap trailing extents), so it is recursed into
// rather than taken whole.
func splitInternal(n *node, p int) (*node, *node) {
	offset := 0
	for i, child := range n.children {
		childEnd := offset + n.childSummaries[i].bytes
		if childEnd < p {
			offset = childEnd
			continue
		}
		if offset >= p {
			return buildFromChildren(n.children[:i]), buildFromChildren(n.children[i:])
		}
		cl, cr := splitNode(child, p-offset)
		left := concat(buildFromChildren(n.children[:i]), cl)
		right := concat(cr, buildFromChildren(n.children[i+1:]))
		return left, right
	}
	return n, nil
}

// buildFromChildren creates a balanced subtree from a list of equal-height
// child nodes.
func buildFromChildren(children []*node) *node {
	if len(children) == 0 {
		return nil
	}
	if len(children) == 1 {
		return children[0]
	}
	if len(children) <= maxChildren {
		return newInternal(children)
	}

	var parents []*node
	for i := 0; i < len(children); i += maxChildren {
		end := i + maxChildren
		if end > len(children) {
			end = len(children)
		}
		parents = append(parents, newInternal(children[i:end]))
	}
	return buildFromChildren(parents)
}

// concat concatenates two subtrees.
func concat(left, right *node) *node {
	if left.empty() {
		return right
	}
	if right.empty() {
		return left
	}

	if left.isLeaf() && right.isLeaf() {
		return concatLeaves(left, right)
	}

	// Bring to the same height by wrapping the shorter one.
	for left.height < right.height {
		left = newInternal([]*node{left})
	}
	for right.height < left.height {
		right = newInternal([]*node{right})
	}

	return mergeNodes(left, right)
}

// concatLeaves concatenates two leaf nodes, coalescing at the seam: a
// zero-gap extent on the left shares its offset with the right's first
// boundary, and a keyless extent on the right is just more gap for the
// left's last boundary.
func concatLeaves(left, right *node) *node {
	le, re := left.extents, right.extents

	var merged []extent
	last, first := le[len(le)-1], re[0]
	if last.length == 0 || first.keys.isEmpty() {
		joined := extent{length: last.length + first.length, keys: last.keys.union(first.keys)}
		merged = make([]extent, 0, len(le)+len(re)-1)
		merged = append(merged, le[:len(le)-1]...)
		merged = append(merged, joined)
		merged = append(merged, re[1:]...)
	} else {
		merged = make([]extent, 0, len(le)+len(re))
		merged = append(merged, le...)
		merged = append(merged, re...)
	}

	if len(merged) <= maxLeafExtents {
		return newLeaf(merged)
	}

	var leaves []*node
	for i := 0; i < len(merged); i += maxLeafExtents {
		end := i + maxLeafExtents
		if end > len(merged) {
			end = len(merged)
		}
		leaves = append(leaves, newLeaf(merged[i:end]))
	}
	return buildFromChildren(leaves)
}

// mergeNodes merges two nodes of the same height.
func mergeNodes(left, right *node) *node {
	if left.isLeaf() {
		return concatLeaves(left, right)
	}

	all := make([]*node, 0, len(left.children)+len(right.children))
	all = append(all, left.children...)
	all = append(all, right.children...)
	return buildFromChildren(all)
}

// pushFrontKeys anchors extra keys at the very start of the subtree by
// merging them into its first extent's key set.
func pushFrontKeys(n *node, ks keySet) *node {
	if ks.isEmpty() {
		return n
	}
	if n.empty() {
		return newLeaf([]extent{{keys: ks}})
	}
	if n.isLeaf() {
		ext := make([]extent, len(n.extents))
		copy(ext, n.extents)
		ext[0] = extent{length: ext[0].length, keys: ext[0].keys.union(ks)}
		return newLeaf(ext)
	}
	children := make([]*node, len(n.children))
	copy(children, n.children)
	children[0] = pushFrontKeys(children[0], ks)
	return newInternal(children)
}

// takeFront detaches every key anchored at offset zero of the subtree,
// returning the rebuilt subtree (nil if fully consumed) and the keys. The
// run of keys at one offset may span several zero-gap extents and even leaf
// boundaries.
func takeFront(n *node) (*node, keySet) {
	if n.empty() {
		return nil, nil
	}
	if n.isLeaf() {
		var ks keySet
		i := 0
		for ; i < len(n.extents); i++ {
			e := n.extents[i]
			ks = ks.union(e.keys)
			if e.length > 0 {
				break
			}
		}
		if i == len(n.extents) {
			return nil, ks
		}
		ext := make([]extent, len(n.extents)-i)
		copy(ext, n.extents[i:])
		ext[0] = extent{length: ext[0].length}
		return newLeaf(ext), ks
	}

	var ks keySet
	rest := n.children
	for len(rest) > 0 {
		c, cks := takeFront(rest[0])
		ks = ks.union(cks)
		if c != nil {
			remaining := make([]*node, len(rest))
			copy(remaining, rest)
			remaining[0] = c
			if len(remaining) == 1 {
				return remaining[0], ks
			}
			return newInternal(remaining), ks
		}
		rest = rest[1:]
	}
	return nil, ks
}

// deleteOne removes the lowest-ordered key carrying id from the subtree,
// guided by the id summaries. It returns the rebuilt subtree, the absolute
// offset of the removed key within it, and the key itself.
func deleteOne(n *node, id ID) (*node, int, key, bool) {
	if !n.summary.ids.contains(id) {
		return n, 0, 0, false
	}
	if n.isLeaf() {
		offset := 0
		for i, e := range n.extents {
			if e.keys.containsID(id) {
				ks, k, _ := e.keys.removeID(id)
				ext := make([]extent, len(n.extents))
				copy(ext, n.extents)
				if ks.isEmpty() && i > 0 {
					// The boundary is gone; fold its gap into the
					// preceding extent.
					ext[i-1] = extent{length: ext[i-1].length + e.length, keys: ext[i-1].keys}
					ext = append(ext[:i], ext[i+1:]...)
				} else {
					ext[i] = extent{length: e.length, keys: ks}
				}
				return newLeaf(ext), offset, k, true
			}
			offset += e.length
		}
		return n, 0, 0, false
	}

	offset := 0
	for i, child := range n.children {
		if child.summary.ids.contains(id) {
			nc, off, k, ok := deleteOne(child, id)
			if !ok {
				return n, 0, 0, false
			}
			children := make([]*node, len(n.children))
			copy(children, n.children)
			children[i] = nc
			return newInternal(children), offset + off, k, true
		}
		offset += n.childSummaries[i].bytes
	}
	return n, 0, 0, false
}

// findLeft returns the offset of the leftmost key carrying id.
func findLeft(n *node, id ID) (int, bool) {
	if !n.summary.ids.contains(id) {
		return 0, false
	}
	if n.isLeaf() {
		offset := 0
		for _, e := range n.extents {
			if e.keys.containsID(id) {
				return offset, true
			}
			offset += e.length
		}
		return 0, false
	}
	offset := 0
	for i, child := range n.children {
		if child.summary.ids.contains(id) {
			off, ok := findLeft(child, id)
			if !ok {
				return 0, false
			}
			return offset + off, true
		}
		offset += n.childSummaries[i].bytes
	}
	return 0, false
}

// findRight returns the offset of the rightmost key carrying id.
func findRight(n *node, id ID) (int, bool) {
	if !n.summary.ids.contains(id) {
		return 0, false
	}
	if n.isLeaf() {
		offset := n.summary.bytes
		for i := len(n.extents) - 1; i >= 0; i-- {
			offset -= n.extents[i].length
			if n.extents[i].keys.containsID(id) {
				return offset, true
			}
		}
		return 0, false
	}
	offset := n.summary.bytes
	for i := len(n.children) - 1; i >= 0; i-- {
		offset -= n.childSummaries[i].bytes
		if n.children[i].summary.ids.contains(id) {
			off, ok := findRight(n.children[i], id)
			if !ok {
				return 0, false
			}
			return offset + off, true
		}
	}
	return 0, false
}

// dissect walks the whole subtree, separating the keys anchored at its very
// start from the keys strictly inside it. Used on the span cut out by an
// edit: the former obey gravity, the latter belong to deleted marks.
func dissect(n *node, offset int, atStart keySet, interior []key) (keySet, []key) {
	if n.empty() {
		return atStart, interior
	}
	if n.isLeaf() {
		for _, e := range n.extents {
			if offset == 0 {
				atStart = atStart.union(e.keys)
			} else {
				interior = append(interior, e.keys...)
			}
			offset += e.length
		}
		return atStart, interior
	}
	for i, child := range n.children {
		atStart, interior = dissect(child, offset, atStart, interior)
		offset += n.childSummaries[i].bytes
	}
	return atStart, interior
}
