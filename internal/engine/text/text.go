// Package text provides an immutable rope for document content.
//
// A Text is a persistent balanced tree over string chunks. All operations
// return a new Text and share unchanged chunks with the receiver, so keeping
// an old value alive (for a snapshot or an undo entry) costs only the edited
// path. Offsets are bytes; line numbers are zero-based.
package text

import (
	"fmt"
	"strings"
)

const (
	// maxLeafBytes bounds chunk size. Edits copy at most one chunk per
	// boundary, everything else is shared.
	maxLeafBytes = 128

	// maxTextChildren is the branching factor of internal nodes.
	maxTextChildren = 8
)

// node is a rope node. Leaves (height 0) carry a chunk of the document;
// internal nodes carry children of equal height. Nodes are immutable.
type node struct {
	height   uint8
	bytes    int
	newlines int
	children []*node
	chunk    string
}

// Text is an immutable document. The zero value is the empty document.
type Text struct {
	root *node
}

// FromString builds a Text over the given content.
func FromString(s string) Text {
	if len(s) == 0 {
		return Text{}
	}
	var leaves []*node
	for len(s) > 0 {
		n := maxLeafBytes
		if n > len(s) {
			n = len(s)
		}
		leaves = append(leaves, newChunk(s[:n]))
		s = s[n:]
	}
	return Text{root: buildText(leaves)}
}

func newChunk(s string) *node {
	return &node{
		bytes:    len(s),
		newlines: strings.Count(s, "\n"),
		chunk:    s,
	}
}

func newTextInternal(children []*node) *node {
	n := &node{
		height:   children[0].height + 1,
		children: children,
	}
	for _, c := range children {
		n.bytes += c.bytes
		n.newlines += c.newlines
	}
	return n
}

func buildText(leaves []*node) *node {
	for len(leaves) > 1 {
		var level []*node
		for i := 0; i < len(leaves); i += maxTextChildren {
			end := i + maxTextChildren
			if end > len(leaves) {
				end = len(leaves)
			}
			level = append(level, newTextInternal(leaves[i:end]))
		}
		leaves = level
	}
	return leaves[0]
}

// Len returns the document length in bytes.
func (t Text) Len() int {
	if t.root == nil {
		return 0
	}
	return t.root.bytes
}

// LineCount returns the number of lines. The empty document has one line;
// a trailing newline starts another.
func (t Text) LineCount() int {
	if t.root == nil {
		return 1
	}
	return t.root.newlines + 1
}

// String materializes the whole document.
func (t Text) String() string {
	var sb strings.Builder
	sb.Grow(t.Len())
	t.appendTo(&sb, t.root)
	return sb.String()
}

func (t Text) appendTo(sb *strings.Builder, n *node) {
	if n == nil {
		return
	}
	if n.height == 0 {
		sb.WriteString(n.chunk)
		return
	}
	for _, c := range n.children {
		t.appendTo(sb, c)
	}
}

// Slice returns the bytes in [start, end). Panics when the bounds fall
// outside the document.
func (t Text) Slice(start, end int) string {
	if start < 0 || start > end || end > t.Len() {
		panic(fmt.Sprintf("text: slice %d..%d out of bounds of text of length %d",
			start, end, t.Len()))
	}
	if start == end {
		return ""
	}
	var sb strings.Builder
	sb.Grow(end - start)
	sliceInto(&sb, t.root, start, end)
	return sb.String()
}

func sliceInto(sb *strings.Builder, n *node, start, end int) {
	if n.height == 0 {
		lo, hi := start, end
		if lo < 0 {
			lo = 0
		}
		if hi > len(n.chunk) {
			hi = len(n.chunk)
		}
		sb.WriteString(n.chunk[lo:hi])
		return
	}
	offset := 0
	for _, c := range n.children {
		if offset >= end {
			return
		}
		if offset+c.bytes > start {
			sliceInto(sb, c, start-offset, end-offset)
		}
		offset += c.bytes
	}
}

// Replace substitutes the bytes in [start, end) with s, returning the new
// document. The receiver is unchanged.
func (t Text) Replace(start, end int, s string) Text {
	if start < 0 || start > end || end > t.Len() {
		panic(fmt.Sprintf("text: replace %d..%d out of bounds of text of length %d",
			start, end, t.Len()))
	}
	left, rest := splitText(t.root, start)
	_, right := splitText(rest, end-start)
	mid := FromString(s).root
	return Text{root: concatText(concatText(left, mid), right)}
}

// Insert inserts s at the given offset.
func (t Text) Insert(at int, s string) Text {
	return t.Replace(at, at, s)
}

// Delete removes the bytes in [start, end).
func (t Text) Delete(start, end int) Text {
	return t.Replace(start, end, "")
}

func splitText(n *node, p int) (*node, *node) {
	if n == nil {
		return nil, nil
	}
	if p <= 0 {
		return nil, n
	}
	if p >= n.bytes {
		return n, nil
	}
	if n.height == 0 {
		return newChunk(n.chunk[:p]), newChunk(n.chunk[p:])
	}
	offset := 0
	for i, c := range n.children {
		if offset+c.bytes > p {
			cl, cr := splitText(c, p-offset)
			left := concatText(subText(n.children[:i]), cl)
			right := concatText(cr, subText(n.children[i+1:]))
			return left, right
		}
		offset += c.bytes
	}
	return n, nil
}

func subText(children []*node) *node {
	if len(children) == 0 {
		return nil
	}
	if len(children) == 1 {
		return children[0]
	}
	return newTextInternal(children)
}

func concatText(left, right *node) *node {
	switch {
	case left == nil:
		return right
	case right == nil:
		return left
	}

	// Two short chunks merge into one.
	if left.height == 0 && right.height == 0 && left.bytes+right.bytes <= maxLeafBytes {
		return newChunk(left.chunk + right.chunk)
	}

	for left.height < right.height {
		left = newTextInternal([]*node{left})
	}
	for right.height < left.height {
		right = newTextInternal([]*node{right})
	}

	var all []*node
	if left.height == 0 {
		all = []*node{left, right}
	} else {
		all = make([]*node, 0, len(left.children)+len(right.children))
		all = append(all, left.children...)
		all = append(all, right.children...)
	}
	if len(all) <= maxTextChildren {
		return newTextInternal(all)
	}
	return buildText(all)
}

// LineStart returns the byte offset at which the given zero-based line
// begins. Line 0 starts at offset 0; line i starts just past the i-th
// newline. Panics when the line does not exist.
func (t Text) LineStart(line int) int {
	if line < 0 || line >= t.LineCount() {
		panic(fmt.Sprintf("text: line %d out of range of %d lines", line, t.LineCount()))
	}
	if line == 0 {
		return 0
	}
	return lineStart(t.root, line)
}

func lineStart(n *node, line int) int {
	if n.height == 0 {
		offset := 0
		for line > 0 {
			nl := strings.IndexByte(n.chunk[offset:], '\n')
			offset += nl + 1
			line--
		}
		return offset
	}
	offset := 0
	for _, c := range n.children {
		if line <= c.newlines {
			return offset + lineStart(c, line)
		}
		line -= c.newlines
		offset += c.bytes
	}
	return offset
}

// Line returns the content of the given zero-based line, without its
// trailing newline.
func (t Text) Line(line int) string {
	start := t.LineStart(line)
	if line+1 < t.LineCount() {
		return t.Slice(start, t.LineStart(line+1)-1)
	}
	return t.Slice(start, t.Len())
}

// LineAt returns the zero-based line containing the given byte offset.
// An offset equal to Len addresses the last line.
func (t Text) LineAt(offset int) int {
	if offset < 0 || offset > t.Len() {
		panic(fmt.Sprintf("text: offset %d out of bounds of text of length %d",
			offset, t.Len()))
	}
	if t.root == nil {
		return 0
	}
	return lineAt(t.root, offset)
}

func lineAt(n *node, offset int) int {
	if n.height == 0 {
		if offset >= len(n.chunk) {
			return n.newlines
		}
		return strings.Count(n.chunk[:offset], "\n")
	}
	line := 0
	for _, c := range n.children {
		if offset <= c.bytes {
			// Offsets at a chunk seam resolve in the earlier chunk; the
			// count agrees either way.
			return line + lineAt(c, offset)
		}
		offset -= c.bytes
		line += c.newlines
	}
	return line
}
