package buffer

import (
	"errors"
	"io"
	"sync"
	"unicode/utf8"

	"github.com/stanza-edit/stanza/internal/engine/marks"
	"github.com/stanza-edit/stanza/internal/engine/text"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
	ErrEditsOverlap     = errors.New("edits overlap or are not in ascending order")
)

// Edit replaces the bytes in Range with NewText. A batch passed to
// ApplyEdits is expressed in pre-edit coordinates and must be sorted
// ascending and disjoint.
type Edit struct {
	Range   marks.Range
	NewText string
}

// NewInsert creates an Edit that inserts text at an offset.
func NewInsert(offset int, text string) Edit {
	return Edit{Range: marks.Point(offset), NewText: text}
}

// NewDelete creates an Edit that deletes a range of text.
func NewDelete(start, end int) Edit {
	return Edit{Range: marks.NewRange(start, end)}
}

// Delta returns the change in buffer length caused by this edit.
func (e Edit) Delta() int {
	return len(e.NewText) - e.Range.Len()
}

// Buffer is an editable document with tracked marks.
// All methods are thread-safe.
type Buffer struct {
	mu       sync.RWMutex
	text     text.Text
	marks    *marks.MarkTree
	revision uint64
	nextID   marks.ID
}

// New creates a new empty buffer.
func New() *Buffer {
	return &Buffer{
		marks:  marks.New(0),
		nextID: 1,
	}
}

// FromString creates a buffer with initial content.
func FromString(s string) *Buffer {
	t := text.FromString(s)
	return &Buffer{
		text:   t,
		marks:  marks.New(t.Len()),
		nextID: 1,
	}
}

// FromReader creates a buffer from an io.Reader.
func FromReader(r io.Reader) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return FromString(string(data)), nil
}

// Read Operations

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text.String()
}

// TextRange returns the text in the given byte range.
func (b *Buffer) TextRange(start, end int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text.Slice(start, end)
}

// Len returns the total byte length of the buffer.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text.Len()
}

// IsEmpty returns true if the buffer holds no content.
func (b *Buffer) IsEmpty() bool {
	return b.Len() == 0
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text.LineCount()
}

// LineText returns the text of a specific zero-based line (without newline).
func (b *Buffer) LineText(line int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text.Line(line)
}

// LineStartOffset returns the byte offset of the start of a line.
func (b *Buffer) LineStartOffset(line int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text.LineStart(line)
}

// LineAt returns the zero-based line containing the given byte offset.
func (b *Buffer) LineAt(offset int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text.LineAt(offset)
}

// Revision returns the number of edit batches applied so far. Mark
// operations do not advance it.
func (b *Buffer) Revision() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// Coordinate Conversion

// PointUTF16 is a position expressed the way the Language Server Protocol
// does: a zero-based line and a column counted in UTF-16 code units.
type PointUTF16 struct {
	Line   int
	Column int
}

// PointUTF16ToOffset converts an LSP-style position to a byte offset.
// Columns past the end of the line clamp to the line end.
func (b *Buffer) PointUTF16ToOffset(p PointUTF16) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return pointUTF16ToOffset(b.text, p)
}

// OffsetToPointUTF16 converts a byte offset to an LSP-style position.
func (b *Buffer) OffsetToPointUTF16(offset int) (PointUTF16, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if offset < 0 || offset > b.text.Len() {
		return PointUTF16{}, ErrOffsetOutOfRange
	}
	line := b.text.LineAt(offset)
	lineText := b.text.Slice(b.text.LineStart(line), offset)
	return PointUTF16{Line: line, Column: utf16Columns(lineText)}, nil
}

func pointUTF16ToOffset(t text.Text, p PointUTF16) (int, error) {
	if p.Line < 0 || p.Line >= t.LineCount() || p.Column < 0 {
		return 0, ErrOffsetOutOfRange
	}
	start := t.LineStart(p.Line)
	return start + byteColumnFromUTF16(t.Line(p.Line), p.Column), nil
}

// utf16Columns counts UTF-16 code units in a string.
func utf16Columns(s string) int {
	col := 0
	for _, r := range s {
		if r >= 0x10000 {
			col += 2 // surrogate pair
		} else {
			col++
		}
	}
	return col
}

// byteColumnFromUTF16 converts a UTF-16 column to a byte offset within a
// line, clamping at the line end.
func byteColumnFromUTF16(line string, utf16Col int) int {
	col, offset := 0, 0
	for _, r := range line {
		if col >= utf16Col {
			break
		}
		if r >= 0x10000 {
			col += 2
		} else {
			col++
		}
		offset += utf8.RuneLen(r)
	}
	return offset
}

// Write Operations

// Insert inserts text at the given offset.
// Returns the end position of the inserted text.
func (b *Buffer) Insert(offset int, s string) (int, error) {
	if err := b.ApplyEdits([]Edit{NewInsert(offset, s)}); err != nil {
		return 0, err
	}
	return offset + len(s), nil
}

// Delete removes the text in [start, end).
func (b *Buffer) Delete(start, end int) error {
	return b.ApplyEdits([]Edit{NewDelete(start, end)})
}

// Replace replaces the text in [start, end) with s.
// Returns the end position of the replacement text.
func (b *Buffer) Replace(start, end int, s string) (int, error) {
	if err := b.ApplyEdits([]Edit{{Range: marks.NewRange(start, end), NewText: s}}); err != nil {
		return 0, err
	}
	return start + len(s), nil
}

// ApplyEdits applies a batch of edits atomically: either every edit is
// applied and the revision advances once, or the buffer is unchanged and an
// error is returned. Marks move according to their bias; a mark strictly
// inside a replaced span is dropped.
func (b *Buffer) ApplyEdits(edits []Edit) error {
	if len(edits) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	bufLen := b.text.Len()
	prev := 0
	for _, e := range edits {
		r := e.Range
		if r.Start < 0 || r.Start > r.End || r.End > bufLen {
			return ErrRangeInvalid
		}
		if r.Start < prev {
			return ErrEditsOverlap
		}
		prev = r.End
	}

	// The text edits apply back to front so earlier ranges stay valid;
	// the mark tree takes the whole batch in original coordinates.
	txt := b.text
	deltas := make([]marks.Delta, len(edits))
	for i := len(edits) - 1; i >= 0; i-- {
		e := edits[i]
		txt = txt.Replace(e.Range.Start, e.Range.End, e.NewText)
		deltas[i] = marks.Delta{Range: e.Range, NewLen: len(e.NewText)}
	}

	b.text = txt
	b.marks.Edit(deltas)
	b.revision++
	return nil
}

// Mark Operations

// PlaceMark anchors a new mark at the given offset and returns its id.
// Options control width and bias; see the marks package.
func (b *Buffer) PlaceMark(offset int, opts ...marks.MarkOption) (marks.ID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if offset < 0 || offset > b.text.Len() {
		return 0, ErrOffsetOutOfRange
	}

	id := b.nextID
	b.nextID++
	b.marks.Insert(offset, id, opts...)
	return id, nil
}

// Mark returns the current range of a mark.
func (b *Buffer) Mark(id marks.ID) (marks.Range, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.marks.Get(id)
}

// RemoveMark deletes a mark, reporting whether it was live.
func (b *Buffer) RemoveMark(id marks.ID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.marks.Delete(id)
	return ok
}

// RemoveMarksIn deletes every mark starting within r and returns them.
func (b *Buffer) RemoveMarksIn(r marks.Range) []marks.Mark {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.marks.RemoveRange(r)
}

// MarksIn returns the marks starting within r, in document order.
func (b *Buffer) MarksIn(r marks.Range) []marks.Mark {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []marks.Mark
	for it := b.marks.Range(r); it.Next(); {
		out = append(out, it.Mark())
	}
	return out
}

// Marks returns all live marks in document order.
func (b *Buffer) Marks() []marks.Mark {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.marks.Marks()
}

// MarkCount returns the number of live marks.
func (b *Buffer) MarkCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.marks.Count()
}
