// Package buffer couples document content with the marks anchored in it.
//
// A Buffer owns an immutable text rope and a mark tree and keeps the two
// consistent: every edit applied to the content is mirrored into the tree,
// so annotations keep pointing at the text they were attached to regardless
// of how the document changes around them.
//
// The buffer package provides:
//
//   - Thread-safe read/write access via sync.RWMutex
//   - Atomic multi-range edit batches with revision tracking
//   - Mark placement, lookup and removal with automatic position upkeep
//   - Coordinate conversion between byte offsets and line positions,
//     including UTF-16 columns for LSP compatibility
//   - Read-only snapshots capturing content, marks and revision together
//
// Basic usage:
//
//	buf := buffer.FromString("Hello, World!")
//
//	// Anchor an annotation on "World"
//	id, _ := buf.PlaceMark(7, marks.WithWidth(5))
//
//	// Edit before it; the mark follows the text
//	buf.Insert(5, " there")
//	r, _ := buf.Mark(id) // now [13:18)
//
// Thread safety:
//
// All Buffer methods are safe for concurrent use. For a consistent
// multi-step read without intervening writes, take a Snapshot; it shares
// structure with the live buffer and never changes.
package buffer
