package marks

import (
	"fmt"
	"sort"
)

// Builder assembles a MarkTree from a batch of marks known upfront (e.g.
// restoring saved marks, or batch-loading diagnostics) in time linear in the
// number of boundaries, instead of paying one descent per mark.
//
// Boundaries are indexed by offset as they are added, so Add order is
// irrelevant. Identifier uniqueness remains the caller's responsibility.
type Builder struct {
	length     int
	boundaries map[int]keySet
}

// NewBuilder creates a builder for a document of the given byte length.
func NewBuilder(length int) *Builder {
	if length < 0 {
		panic(fmt.Sprintf("marks: negative document length %d", length))
	}
	return &Builder{
		length:     length,
		boundaries: make(map[int]keySet),
	}
}

// Add schedules a mark for insertion, with the same options and bounds
// contract as MarkTree.Insert.
func (b *Builder) Add(at int, id ID, opts ...MarkOption) *Builder {
	var spec markSpec
	for _, opt := range opts {
		opt(&spec)
	}

	if at < 0 || at+spec.width > b.length {
		panic(fmt.Sprintf("marks: range %d..%d out of bounds of tree of length %d",
			at, at+spec.width, b.length))
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

	b.boundaries[at] = b.boundaries[at].insert(newKey(id, startFlags))
	if spec.width > 0 {
		end := at + spec.width
		b.boundaries[end] = b.boundaries[end].insert(newKey(id, endFlags|flagEnd))
	}
	return b
}

// Build constructs the tree bottom-up: extents from successive offset
// differences, leaves of up to maxLeafExtents extents, then levels of up to
// maxChildren children. The result is indistinguishable from inserting the
// same marks one at a time in offset order.
func (b *Builder) Build() *MarkTree {
	if len(b.boundaries) == 0 {
		return New(b.length)
	}

	offsets := make([]int, 0, len(b.boundaries))
	for off := range b.boundaries {
		offsets = append(offsets, off)
	}
	sort.Ints(offsets)

	var extents []extent
	if offsets[0] > 0 {
		extents = append(extents, extent{length: offsets[0]})
	}
	for i, off := range offsets {
		next := b.length
		if i+1 < len(offsets) {
			next = offsets[i+1]
		}
		extents = append(extents, extent{length: next - off, keys: b.boundaries[off]})
	}

	var leaves []*node
	for i := 0; i < len(extents); i += maxLeafExtents {
		end := i + maxLeafExtents
		if end > len(extents) {
			end = len(extents)
		}
		leaves = append(leaves, newLeaf(extents[i:end]))
	}

	return &MarkTree{root: buildFromChildren(leaves)}
}
