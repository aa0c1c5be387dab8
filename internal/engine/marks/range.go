package marks

import "fmt"

// Range represents a half-open byte range [Start, End).
type Range struct {
	Start int // Inclusive start position
	End   int // Exclusive end position
}

// NewRange creates a new Range from start and end offsets.
func NewRange(start, end int) Range {
	return Range{Start: start, End: end}
}

// Point creates a zero-width range at the given offset.
func Point(at int) Range {
	return Range{Start: at, End: at}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%d:%d)", r.Start, r.End)
}

// Len returns the length of the range in bytes.
func (r Range) Len() int {
	return r.End - r.Start
}

// IsEmpty returns true if the range has zero length.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Contains returns true if the given offset is within the range.
func (r Range) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// Delta describes one text edit in pre-edit coordinates: the bytes in Range
// are replaced by NewLen bytes. A batch of deltas passed to Edit must be
// disjoint and sorted ascending over the original document, mirroring the
// text buffer's own delta log.
type Delta struct {
	Range  Range
	NewLen int
}

// SizeDelta returns the change in document length caused by this delta.
func (d Delta) SizeDelta() int {
	return d.NewLen - d.Range.Len()
}

// Mark is a tracked annotation: an opaque id anchored to a byte range.
// A point mark has Range.Start == Range.End.
type Mark struct {
	ID    ID
	Range Range
}
