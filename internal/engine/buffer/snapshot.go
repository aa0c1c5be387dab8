package buffer

import (
	"github.com/stanza-edit/stanza/internal/engine/marks"
	"github.com/stanza-edit/stanza/internal/engine/text"
)

// Snapshot is a read-only view of a buffer at a specific point in time:
// content, marks and revision captured together. It is safe for concurrent
// access and will not change even as the original buffer is modified.
type Snapshot struct {
	text     text.Text
	marks    *marks.MarkTree
	revision uint64
}

// Snapshot captures the current buffer state. O(1); the snapshot shares all
// structure with the live buffer until they diverge.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return &Snapshot{
		text:     b.text,
		marks:    b.marks.Snapshot(),
		revision: b.revision,
	}
}

// Text returns the full snapshot content as a string.
func (s *Snapshot) Text() string {
	return s.text.String()
}

// TextRange returns the text in the given byte range.
func (s *Snapshot) TextRange(start, end int) string {
	return s.text.Slice(start, end)
}

// Len returns the total byte length of the snapshot.
func (s *Snapshot) Len() int {
	return s.text.Len()
}

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() int {
	return s.text.LineCount()
}

// LineText returns the text of a specific zero-based line (without newline).
func (s *Snapshot) LineText(line int) string {
	return s.text.Line(line)
}

// LineStartOffset returns the byte offset of the start of a line.
func (s *Snapshot) LineStartOffset(line int) int {
	return s.text.LineStart(line)
}

// Revision returns the revision this snapshot was taken at.
func (s *Snapshot) Revision() uint64 {
	return s.revision
}

// PointUTF16ToOffset converts an LSP-style position to a byte offset.
func (s *Snapshot) PointUTF16ToOffset(p PointUTF16) (int, error) {
	return pointUTF16ToOffset(s.text, p)
}

// Mark returns the range of a mark as of this snapshot.
func (s *Snapshot) Mark(id marks.ID) (marks.Range, bool) {
	return s.marks.Get(id)
}

// MarksIn returns the marks starting within r, in document order.
func (s *Snapshot) MarksIn(r marks.Range) []marks.Mark {
	var out []marks.Mark
	for it := s.marks.Range(r); it.Next(); {
		out = append(out, it.Mark())
	}
	return out
}

// Marks returns all marks live as of this snapshot.
func (s *Snapshot) Marks() []marks.Mark {
	return s.marks.Marks()
}
