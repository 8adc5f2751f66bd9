package rope

import (
	"io"
	"strings"
)

// Rope is an immutable rope over chunked leaves. Operations return new
// Rope values that share structure with the original; a value handed to a
// reader never changes underneath it, which is what makes snapshots cheap
// and concurrent reads safe.
//
// All public indices are code-point offsets. Offsets out of range are
// clamped by the editing operations; callers that need strict range
// checking (the buffer layer does) must validate before calling.
type Rope struct {
	root *Node
}

// New creates an empty rope.
func New() Rope {
	return Rope{root: newLeafNode()}
}

// FromString builds a balanced rope from a string in O(n).
// The string must be valid UTF-8.
func FromString(s string) Rope {
	if len(s) == 0 {
		return New()
	}
	return buildFromChunks(splitIntoChunks(s))
}

// FromReader builds a rope incrementally from a reader without ever
// holding the whole document in one contiguous buffer. The stream must
// yield valid UTF-8; decoding and validation of arbitrary sources is the
// caller's concern.
func FromReader(r io.Reader) (Rope, error) {
	var b Builder
	if _, err := b.ReadFrom(r); err != nil {
		return Rope{}, err
	}
	return b.Build(), nil
}

// buildFromChunks assembles a balanced tree bottom-up.
func buildFromChunks(chunks []Chunk) Rope {
	if len(chunks) == 0 {
		return New()
	}

	var leaves []*Node
	for i := 0; i < len(chunks); i += MaxChunksPerLeaf {
		end := i + MaxChunksPerLeaf
		if end > len(chunks) {
			end = len(chunks)
		}
		leafChunks := make([]Chunk, end-i)
		copy(leafChunks, chunks[i:end])
		leaves = append(leaves, newLeafNodeWithChunks(leafChunks))
	}

	nodes := leaves
	for len(nodes) > 1 {
		var parents []*Node
		for i := 0; i < len(nodes); i += MaxChildren {
			end := i + MaxChildren
			if end > len(nodes) {
				end = len(nodes)
			}
			children := make([]*Node, end-i)
			copy(children, nodes[i:end])
			parents = append(parents, newInternalNode(children))
		}
		nodes = parents
	}

	return Rope{root: nodes[0]}
}

// Len returns the total code-point count. O(1).
func (r Rope) Len() CharOffset {
	if r.root == nil {
		return 0
	}
	return r.root.Chars()
}

// LenBytes returns the total UTF-8 byte length. O(1).
func (r Rope) LenBytes() ByteOffset {
	if r.root == nil {
		return 0
	}
	return r.root.Len()
}

// LenUTF16 returns the total UTF-16 code-unit count. O(1).
func (r Rope) LenUTF16() uint64 {
	if r.root == nil {
		return 0
	}
	return r.root.summary.UTF16Units
}

// LineCount returns the number of lines: terminators + 1. The empty rope
// has one empty line. O(1).
func (r Rope) LineCount() uint32 {
	if r.root == nil {
		return 1
	}
	return r.root.summary.Lines + 1
}

// IsEmpty reports whether the rope contains no text.
func (r Rope) IsEmpty() bool {
	return r.Len() == 0
}

// String materializes the entire document. O(n); meant for snapshots such
// as save-to-disk, not hot paths.
func (r Rope) String() string {
	if r.root == nil {
		return ""
	}
	var sb strings.Builder
	sb.Grow(int(r.LenBytes()))
	r.root.appendTo(&sb)
	return sb.String()
}

// At returns the code point at the given char offset.
// Returns false if the offset is at or past the end.
func (r Rope) At(at CharOffset) (rune, bool) {
	if r.root == nil || at >= r.Len() {
		return 0, false
	}
	return r.root.runeAt(at)
}

// Slice returns an independent copy of the text in the char range
// [start, end). Out-of-range bounds are clamped. O(k + log n).
func (r Rope) Slice(start, end CharOffset) string {
	if r.root == nil || start >= end {
		return ""
	}
	if max := r.Len(); end > max {
		end = max
		if start >= end {
			return ""
		}
	}

	startByte := r.root.byteForCharOffset(start)
	endByte := r.root.byteForCharOffset(end)

	var sb strings.Builder
	sb.Grow(int(endByte - startByte))
	r.root.appendRange(&sb, startByte, endByte)
	return sb.String()
}

// Insert splices text so it begins at the given char offset and returns
// the new rope. An offset past the end appends. The text must be valid
// UTF-8.
func (r Rope) Insert(at CharOffset, text string) Rope {
	if len(text) == 0 {
		return r
	}
	if r.root == nil || r.Len() == 0 {
		return FromString(text)
	}
	if at == 0 {
		return FromString(text).Concat(r)
	}
	if at >= r.Len() {
		return r.Concat(FromString(text))
	}

	left, right := r.Split(at)
	return left.Concat(FromString(text)).Concat(right)
}

// Delete removes the char range [start, end) and returns the new rope.
// Out-of-range bounds are clamped.
func (r Rope) Delete(start, end CharOffset) Rope {
	if r.root == nil || start >= end {
		return r
	}

	total := r.Len()
	if start >= total {
		return r
	}
	if end > total {
		end = total
	}

	switch {
	case start == 0 && end >= total:
		return New()
	case start == 0:
		_, right := r.Split(end)
		return right
	case end >= total:
		left, _ := r.Split(start)
		return left
	}

	left, rest := r.Split(start)
	_, right := rest.Split(end - start)
	return left.Concat(right)
}

// Split divides the rope before the given char offset.
func (r Rope) Split(at CharOffset) (Rope, Rope) {
	if r.root == nil || at == 0 {
		return New(), r
	}
	if at >= r.Len() {
		return r, New()
	}
	left, right := r.root.splitChars(at)
	return Rope{root: left}, Rope{root: right}
}

// Concat joins two ropes.
func (r Rope) Concat(other Rope) Rope {
	if r.root == nil || r.Len() == 0 {
		return other
	}
	if other.root == nil || other.Len() == 0 {
		return r
	}
	return Rope{root: concat(r.root, other.root)}
}

// LineToChar returns the char offset of the first character of the given
// line. A line index equal to LineCount() yields Len(), the one-past-end
// sentinel; larger indices clamp to it. O(log n).
func (r Rope) LineToChar(line uint32) CharOffset {
	if r.root == nil || line == 0 {
		return 0
	}
	if line >= r.LineCount() {
		return r.Len()
	}
	return r.root.charForLine(line)
}

// CharToLine returns the index of the line containing the char at the
// given offset. An offset equal to Len() yields the last line; larger
// offsets clamp to it. A terminator belongs to the line it ends. O(log n).
func (r Rope) CharToLine(at CharOffset) uint32 {
	if r.root == nil || at == 0 {
		return 0
	}
	if at > r.Len() {
		at = r.Len()
	}
	return r.root.lineForChar(at)
}

// Line returns the full content of the given line, including its trailing
// terminator unless it is the final line.
func (r Rope) Line(line uint32) string {
	return r.Slice(r.LineToChar(line), r.LineToChar(line+1))
}

// LineLen returns the char count of the given line, terminator included.
func (r Rope) LineLen(line uint32) CharOffset {
	return r.LineToChar(line+1) - r.LineToChar(line)
}

// ByteForChar translates a char offset into a byte offset. An offset of
// Len() yields LenBytes(). O(log n).
func (r Rope) ByteForChar(at CharOffset) ByteOffset {
	if r.root == nil || at == 0 {
		return 0
	}
	if at > r.Len() {
		at = r.Len()
	}
	return r.root.byteForCharOffset(at)
}

// UTF16ForChar translates a char offset into a UTF-16 code-unit offset.
// O(log n).
func (r Rope) UTF16ForChar(at CharOffset) uint64 {
	if r.root == nil || at == 0 {
		return 0
	}
	if at > r.Len() {
		at = r.Len()
	}

	var units uint64
	n := r.root
descend:
	for !n.IsLeaf() {
		for i, sum := range n.childSummaries {
			if sum.Chars > at {
				n = n.children[i]
				continue descend
			}
			at -= sum.Chars
			units += sum.UTF16Units
		}
		return units
	}

	for _, c := range n.chunks {
		if c.Chars() > at {
			for _, rn := range c.String() {
				if at == 0 {
					break
				}
				at--
				if rn >= 0x10000 {
					units += 2
				} else {
					units++
				}
			}
			return units
		}
		at -= c.Chars()
		units += c.Summary().UTF16Units
	}
	return units
}

// CharForUTF16 translates a UTF-16 code-unit offset into a char offset.
// A unit offset inside a surrogate pair resolves to the pair's code
// point. O(log n).
func (r Rope) CharForUTF16(units uint64) CharOffset {
	if r.root == nil || units == 0 {
		return 0
	}
	if units > r.LenUTF16() {
		units = r.LenUTF16()
	}

	var chars CharOffset
	n := r.root
descend:
	for !n.IsLeaf() {
		for i, sum := range n.childSummaries {
			if sum.UTF16Units > units {
				n = n.children[i]
				continue descend
			}
			units -= sum.UTF16Units
			chars += sum.Chars
		}
		return chars
	}

	for _, c := range n.chunks {
		sum := c.Summary()
		if sum.UTF16Units > units {
			for _, rn := range c.String() {
				var w uint64 = 1
				if rn >= 0x10000 {
					w = 2
				}
				if units < w {
					return chars
				}
				units -= w
				chars++
			}
			return chars
		}
		units -= sum.UTF16Units
		chars += sum.Chars
	}
	return chars
}

// Equals reports whether two ropes hold the same text, regardless of
// structure.
func (r Rope) Equals(other Rope) bool {
	if r.Len() != other.Len() || r.LenBytes() != other.LenBytes() {
		return false
	}
	return r.String() == other.String()
}

// Height returns the tree height. Useful for balance checks in tests.
func (r Rope) Height() int {
	if r.root == nil {
		return 0
	}
	return int(r.root.height) + 1
}

// ChunkCount returns the number of chunks in the rope.
func (r Rope) ChunkCount() int {
	if r.root == nil {
		return 0
	}
	return countChunks(r.root)
}

func countChunks(n *Node) int {
	if n.IsLeaf() {
		return len(n.chunks)
	}
	count := 0
	for _, child := range n.children {
		count += countChunks(child)
	}
	return count
}
