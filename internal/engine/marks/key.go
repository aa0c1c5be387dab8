package marks

import "fmt"

// ID identifies a live mark within one tree. IDs are assigned by the owning
// layer and must be unique among currently-live marks; the tree stores and
// indexes them but never allocates them.
type ID uint32

// Bias controls which side of an exact-position insertion a mark boundary
// sticks to. With BiasRight (the default) text inserted exactly at the
// boundary pushes it forward; with BiasLeft the boundary stays put.
type Bias uint8

const (
	BiasRight Bias = iota
	BiasLeft
)

// String returns a human-readable representation of the bias.
func (b Bias) String() string {
	if b == BiasLeft {
		return "left"
	}
	return "right"
}

// keyFlags records the role of a boundary key.
type keyFlags uint32

const (
	// flagBiasLeft marks a boundary that keeps its position when text is
	// inserted exactly at it.
	flagBiasLeft keyFlags = 1 << 0

	// flagRange marks a boundary belonging to a mark with non-zero width.
	flagRange keyFlags = 1 << 1

	// flagEnd marks the end boundary of a range pair.
	flagEnd keyFlags = 1 << 2
)

// key packs a mark id and its boundary flags into a single integer. The id
// occupies the low 32 bits and the flags the high bits, so ordering keys by
// raw value places start boundaries before end boundaries, then orders by id
// within equal flags. A mark contributes at most one start key and at most
// one end key to the whole tree.
type key uint64

func newKey(id ID, f keyFlags) key {
	return key(uint64(id) | uint64(f)<<32)
}

func (k key) id() ID {
	return ID(k)
}

func (k key) flags() keyFlags {
	return keyFlags(k >> 32)
}

func (k key) isEnd() bool {
	return k.flags()&flagEnd != 0
}

func (k key) isRange() bool {
	return k.flags()&flagRange != 0
}

func (k key) leftBiased() bool {
	return k.flags()&flagBiasLeft != 0
}

// String returns a human-readable representation of the key.
func (k key) String() string {
	return fmt.Sprintf("key(%d,%03b)", k.id(), k.flags())
}
