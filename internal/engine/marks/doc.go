// Package marks provides a persistent interval structure that tracks an
// unbounded number of annotations (cursors, diagnostics, folds, plugin-owned
// ranges) anchored to byte positions in a mutable text buffer.
//
// The structure is a B+ tree whose leaves store extents: a set of boundary
// keys anchored at a byte position, followed by a gap (the byte distance to
// the next boundary in document order). Storing gaps instead of absolute
// offsets is the load-bearing design decision: shifting text before a mark
// changes only the gap that spans the edit point, not every downstream
// extent. Internal nodes cache the total byte length and the set of mark ids
// in their subtree, enabling O(log n) descent by offset or by id.
//
// Key features:
//   - O(log n) mark insertion, deletion, and lookup
//   - O(log n) application of a text edit regardless of mark count after it
//   - Range queries that skip whole subtrees outside the query window
//   - Copy-on-write internals: mutations rebuild only the touched paths, so
//     snapshots are cheap handle copies safe for concurrent readers
//
// Basic usage:
//
//	t := marks.New(len(text))
//	t.Insert(12, cursorID)
//	t.Insert(4, diagID, marks.WithWidth(7))
//	t.Shift(marks.Range{Start: 0, End: 0}, 2) // text "ab" inserted at 0
//	r, ok := t.Get(diagID)                    // 6..13
//
// The tree operates purely on byte offsets; higher layers translate to
// character or line coordinates. Identifier uniqueness and edit-range
// disjointness are caller-enforced preconditions, not runtime-checked
// invariants.
package marks
