package marks

import "fmt"

// MarkTree tracks marks anchored inside a document of a fixed (but editable)
// byte length. It behaves like a map from ID to Range augmented with an
// efficient Shift operation to apply text edits.
//
// A MarkTree is owned by exactly one buffer-like structure; mutations must
// be serialized by the owner. Readers on other goroutines take a Snapshot,
// which observes the pre-mutation state for as long as it is held.
type MarkTree struct {
	root *node
}

// New creates a MarkTree for a document of the given byte length, with no
// marks tracked.
func New(length int) *MarkTree {
	if length < 0 {
		panic(fmt.Sprintf("marks: negative document length %d", length))
	}
	return &MarkTree{root: newLeaf([]extent{{length: length}})}
}

// Len returns the tracked document length: the sum of all gaps, independent
// of how many marks exist. O(1) via the root summary.
func (t *MarkTree) Len() int {
	return t.root.summary.bytes
}

// Count returns the number of live marks.
func (t *MarkTree) Count() int {
	return len(t.root.summary.ids)
}

// Snapshot returns a handle observing the current state of the tree. The
// snapshot stays valid and unchanged while the original keeps mutating;
// internally the two share all structure until they diverge.
func (t *MarkTree) Snapshot() *MarkTree {
	return &MarkTree{root: t.root}
}

func (t *MarkTree) contains(id ID) bool {
	return t.root.summary.ids.contains(id)
}

// setRoot installs a rebuilt root, normalizing the fully-empty case.
func (t *MarkTree) setRoot(n *node) {
	if n.empty() {
		n = newLeaf([]extent{{}})
	}
	t.root = n
}

// markSpec collects the builder options of an insertion.
type markSpec struct {
	width     int
	startBias Bias
	endBias   Bias
}

// MarkOption configures a mark at insertion time.
type MarkOption func(*markSpec)

// WithWidth gives the mark a non-zero width: its boundaries are inserted at
// at and at+width. A width of zero keeps the mark a point.
func WithWidth(width int) MarkOption {
	return func(s *markSpec) {
		s.width = width
	}
}

// WithStartBias sets the gravity of the mark's start boundary.
func WithStartBias(b Bias) MarkOption {
	return func(s *markSpec) {
		s.startBias = b
	}
}

// WithEndBias sets the gravity of the mark's end boundary. Ignored for
// point marks, whose single site is governed by the start bias.
func WithEndBias(b Bias) MarkOption {
	return func(s *markSpec) {
		s.endBias = b
	}
}

// Insert anchors a mark at the given byte position. By default the mark is
// a right-biased point; options add width and per-boundary bias. Inserting
// does not affect Len. If id is already live, the previous mark is replaced.
//
// The mark must fit the document: at < 0 or at+width > Len is a caller bug
// and panics.
func (t *MarkTree) Insert(at int, id ID, opts ...MarkOption) {
	var spec markSpec
	for _, opt := range opts {
		opt(&spec)
	}

	if at < 0 || at+spec.width > t.Len() {
		panic(fmt.Sprintf("marks: range %d..%d out of bounds of tree of length %d",
			at, at+spec.width, t.Len()))
	}

	if t.contains(id) {
		t.Delete(id)
	}

	var startFlags, endFlags keyFlags
	if spec.startBias == BiasLeft {
		startFlags |= flagBiasLeft
	}
	if spec.endBias == BiasLeft {
		endFlags |= flagBiasLeft
	}
	if spec.width > 0 {
		startFlags |= flagRange
		endFlags |= flagRange
	}

	t.insertKey(at, newKey(id, startFlags))
	if spec.width > 0 {
		t.insertKey(at+spec.width, newKey(id, endFlags|flagEnd))
	}
}

// insertKey anchors a single boundary key at the given offset, splitting the
// gap that spans it if needed.
func (t *MarkTree) insertKey(at int, k key) {
	left, right := splitNode(t.root, at)
	t.setRoot(concat(left, pushFrontKeys(right, keySet{k})))
}

// Get returns the current range of the mark with the given id, or false if
// no such mark is live.
func (t *MarkTree) Get(id ID) (Range, bool) {
	start, ok := findLeft(t.root, id)
	if !ok {
		return Range{}, false
	}
	end, ok := findRight(t.root, id)
	if !ok {
		return Range{}, false
	}
	return Range{Start: start, End: end}, true
}

// Delete removes the mark with the given id and returns its range at the
// time of deletion, or false if the id is not live.
func (t *MarkTree) Delete(id ID) (Range, bool) {
	root, start, _, ok := deleteOne(t.root, id)
	if !ok {
		return Range{}, false
	}
	t.setRoot(root)
	r := Range{Start: start, End: start}

	// A range mark has a second boundary.
	if root, end, _, ok := deleteOne(t.root, id); ok {
		t.setRoot(root)
		r.End = end
	}
	return r, true
}

// Shift applies one text edit: the bytes in r are replaced by newLen bytes.
// Gaps outside the edit are untouched and their subtrees are shared with the
// pre-edit state. Boundary keys strictly inside the replaced span are
// dropped and their marks deleted, even if the mark's other boundary lies
// outside the span. A boundary exactly at r.Start stays put when left-biased
// and is carried past the replacement otherwise; a boundary exactly at r.End
// ends up after the replacement.
func (t *MarkTree) Shift(r Range, newLen int) {
	if r.Start < 0 || r.Start > r.End || r.End > t.Len() || newLen < 0 {
		panic(fmt.Sprintf("marks: shift %v by %d out of bounds of tree of length %d",
			r, newLen, t.Len()))
	}

	left, rest := splitNode(t.root, r.Start)
	mid, right := splitNode(rest, r.End-r.Start)

	var atPoint keySet
	var interior []key
	if r.IsEmpty() {
		right, atPoint = takeFront(right)
	} else {
		atPoint, interior = dissect(mid, 0, nil, nil)
	}

	lb, rb := atPoint.partitionByBias()

	var gap *node
	if newLen > 0 || !lb.isEmpty() {
		gap = newLeaf([]extent{{length: newLen, keys: lb}})
	}

	t.setRoot(concat(concat(left, gap), pushFrontKeys(right, rb)))

	// A mark with one boundary inside the edited span loses the other too.
	seen := make(map[ID]struct{}, len(interior))
	for _, k := range interior {
		id := k.id()
		if _, done := seen[id]; done {
			continue
		}
		seen[id] = struct{}{}
		if t.contains(id) {
			t.Delete(id)
		}
	}
}

// Edit applies a batch of text edits. Deltas must be disjoint and sorted
// ascending over the original document; violating that is a caller bug with
// undefined results, consistent with the text buffer's own delta contract.
func (t *MarkTree) Edit(deltas []Delta) {
	adjust := 0
	for _, d := range deltas {
		t.Shift(Range{Start: d.Range.Start + adjust, End: d.Range.End + adjust}, d.NewLen)
		adjust += d.SizeDelta()
	}
}

// RemoveRange deletes every mark whose start position lies within r, without
// altering the tracked document length. This is a mark-only bulk deletion,
// used to drop annotations over a span (e.g. invalidated diagnostics)
// without implying the underlying text changed. The removed marks are
// returned with their ranges at time of removal.
func (t *MarkTree) RemoveRange(r Range) []Mark {
	var ids []ID
	for it := t.Range(r); it.Next(); {
		ids = append(ids, it.Mark().ID)
	}

	var removed []Mark
	for _, id := range ids {
		if rg, ok := t.Delete(id); ok {
			removed = append(removed, Mark{ID: id, Range: rg})
		}
	}
	return removed
}

// Marks returns all live marks in ascending document order.
func (t *MarkTree) Marks() []Mark {
	var out []Mark
	for it := t.Iter(); it.Next(); {
		out = append(out, it.Mark())
	}
	return out
}
