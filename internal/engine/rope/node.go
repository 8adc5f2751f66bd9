package rope

import (
	"strings"
	"unicode/utf8"
)

// Tree structure constants.
const (
	// MinChildren is the minimum children per internal node (except root).
	MinChildren = 4

	// MaxChildren is the maximum children per internal node before splitting.
	MaxChildren = 8

	// MaxChunksPerLeaf is the maximum chunks in a leaf node.
	MaxChunksPerLeaf = 4
)

// Node is a node in the rope B+ tree. Leaves (height == 0) hold text
// chunks; internal nodes hold children plus a cached summary per child, so
// a seek can pick the right subtree without visiting it.
type Node struct {
	height  uint8
	summary TextSummary

	// Internal node fields (height > 0).
	children       []*Node
	childSummaries []TextSummary

	// Leaf node fields (height == 0).
	chunks []Chunk
}

func newLeafNode() *Node {
	return &Node{chunks: make([]Chunk, 0, MaxChunksPerLeaf)}
}

func newLeafNodeWithChunks(chunks []Chunk) *Node {
	n := &Node{chunks: chunks}
	n.summary = TextSummary{}.Zero()
	for _, c := range chunks {
		n.summary = n.summary.Add(c.Summary())
	}
	return n
}

func newInternalNode(children []*Node) *Node {
	if len(children) == 0 {
		return newLeafNode()
	}

	summaries := make([]TextSummary, len(children))
	total := TextSummary{}.Zero()
	for i, child := range children {
		summaries[i] = child.summary
		total = total.Add(child.summary)
	}

	return &Node{
		height:         children[0].height + 1,
		summary:        total,
		children:       children,
		childSummaries: summaries,
	}
}

// IsLeaf reports whether this is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.height == 0
}

// Len returns the byte length of text in this subtree.
func (n *Node) Len() ByteOffset {
	return n.summary.Bytes
}

// Chars returns the code-point count of this subtree.
func (n *Node) Chars() CharOffset {
	return n.summary.Chars
}

// clone makes a shallow copy; children and chunks are shared.
func (n *Node) clone() *Node {
	cp := *n
	if n.IsLeaf() {
		cp.chunks = make([]Chunk, len(n.chunks))
		copy(cp.chunks, n.chunks)
	} else {
		cp.children = make([]*Node, len(n.children))
		copy(cp.children, n.children)
		cp.childSummaries = make([]TextSummary, len(n.childSummaries))
		copy(cp.childSummaries, n.childSummaries)
	}
	return &cp
}

// appendTo appends all text in this subtree to the builder.
func (n *Node) appendTo(sb *strings.Builder) {
	if n.IsLeaf() {
		for _, c := range n.chunks {
			sb.WriteString(c.String())
		}
		return
	}
	for _, child := range n.children {
		child.appendTo(sb)
	}
}

// appendRange appends text in the byte range [start, end) to the builder.
func (n *Node) appendRange(sb *strings.Builder, start, end ByteOffset) {
	if start >= end {
		return
	}

	if n.IsLeaf() {
		var offset ByteOffset
		for _, c := range n.chunks {
			chunkEnd := offset + ByteOffset(c.Len())
			if chunkEnd <= start {
				offset = chunkEnd
				continue
			}
			if offset >= end {
				break
			}
			lo := 0
			if start > offset {
				lo = int(start - offset)
			}
			hi := c.Len()
			if end < chunkEnd {
				hi = int(end - offset)
			}
			sb.WriteString(c.String()[lo:hi])
			offset = chunkEnd
		}
		return
	}

	var offset ByteOffset
	for i, child := range n.children {
		childEnd := offset + n.childSummaries[i].Bytes
		if childEnd <= start {
			offset = childEnd
			continue
		}
		if offset >= end {
			break
		}
		childStart := ByteOffset(0)
		if start > offset {
			childStart = start - offset
		}
		childStop := n.childSummaries[i].Bytes
		if end < childEnd {
			childStop = end - offset
		}
		child.appendRange(sb, childStart, childStop)
		offset = childEnd
	}
}

// splitChars splits the subtree before the at-th code point. The returned
// trees satisfy all balance and summary invariants.
func (n *Node) splitChars(at CharOffset) (*Node, *Node) {
	if at == 0 {
		return newLeafNode(), n.clone()
	}
	if at >= n.Chars() {
		return n.clone(), newLeafNode()
	}
	if n.IsLeaf() {
		return n.splitLeafChars(at)
	}
	return n.splitInternalChars(at)
}

func (n *Node) splitLeafChars(at CharOffset) (*Node, *Node) {
	var leftChunks, rightChunks []Chunk
	var pos CharOffset

	for _, c := range n.chunks {
		switch {
		case pos+c.Chars() <= at:
			leftChunks = append(leftChunks, c)
		case pos >= at:
			rightChunks = append(rightChunks, c)
		default:
			l, r := c.SplitChars(at - pos)
			if !l.IsEmpty() {
				leftChunks = append(leftChunks, l)
			}
			if !r.IsEmpty() {
				rightChunks = append(rightChunks, r)
			}
		}
		pos += c.Chars()
	}

	return newLeafNodeWithChunks(leftChunks), newLeafNodeWithChunks(rightChunks)
}

func (n *Node) splitInternalChars(at CharOffset) (*Node, *Node) {
	var leftChildren, rightChildren []*Node
	var pos CharOffset

	for i, child := range n.children {
		chars := n.childSummaries[i].Chars
		switch {
		case pos+chars <= at:
			leftChildren = append(leftChildren, child)
		case pos >= at:
			rightChildren = append(rightChildren, child)
		default:
			l, r := child.splitChars(at - pos)
			if l.Len() > 0 {
				leftChildren = append(leftChildren, l)
			}
			if r.Len() > 0 {
				rightChildren = append(rightChildren, r)
			}
		}
		pos += chars
	}

	return buildNodeFromChildren(leftChildren), buildNodeFromChildren(rightChildren)
}

// buildNodeFromChildren assembles a balanced tree over same-height nodes.
func buildNodeFromChildren(children []*Node) *Node {
	switch {
	case len(children) == 0:
		return newLeafNode()
	case len(children) == 1:
		return children[0]
	case len(children) <= MaxChildren:
		return newInternalNode(children)
	}

	var parents []*Node
	for i := 0; i < len(children); i += MaxChildren {
		end := i + MaxChildren
		if end > len(children) {
			end = len(children)
		}
		parents = append(parents, newInternalNode(children[i:end]))
	}
	return buildNodeFromChildren(parents)
}

// concat joins two subtrees, equalizing heights first.
func concat(left, right *Node) *Node {
	if left == nil || left.Len() == 0 {
		if right == nil {
			return newLeafNode()
		}
		return right
	}
	if right == nil || right.Len() == 0 {
		return left
	}

	if left.IsLeaf() && right.IsLeaf() {
		return concatLeaves(left, right)
	}

	for left.height < right.height {
		left = newInternalNode([]*Node{left})
	}
	for right.height < left.height {
		right = newInternalNode([]*Node{right})
	}

	return mergeNodes(left, right)
}

func concatLeaves(left, right *Node) *Node {
	total := len(left.chunks) + len(right.chunks)
	if total <= MaxChunksPerLeaf {
		chunks := make([]Chunk, 0, total)
		chunks = append(chunks, left.chunks...)
		chunks = append(chunks, right.chunks...)
		return newLeafNodeWithChunks(chunks)
	}
	return newInternalNode([]*Node{left.clone(), right.clone()})
}

// mergeNodes merges two nodes of equal height.
func mergeNodes(left, right *Node) *Node {
	if left.IsLeaf() {
		return concatLeaves(left, right)
	}

	all := make([]*Node, 0, len(left.children)+len(right.children))
	all = append(all, left.children...)
	all = append(all, right.children...)

	if len(all) <= MaxChildren {
		return newInternalNode(all)
	}
	return buildNodeFromChildren(all)
}

// byteForCharOffset translates a char offset into a byte offset by
// aggregate-guided descent. at must not exceed the subtree's char count.
func (n *Node) byteForCharOffset(at CharOffset) ByteOffset {
	var bytes ByteOffset
descend:
	for !n.IsLeaf() {
		for i, sum := range n.childSummaries {
			if sum.Chars > at {
				n = n.children[i]
				continue descend
			}
			at -= sum.Chars
			bytes += sum.Bytes
		}
		return bytes
	}

	for _, c := range n.chunks {
		if c.Chars() > at {
			return bytes + ByteOffset(byteForChar(c.String(), at))
		}
		at -= c.Chars()
		bytes += ByteOffset(c.Len())
	}
	return bytes
}

// runeAt returns the code point at the given char offset.
// at must be < the subtree's char count.
func (n *Node) runeAt(at CharOffset) (rune, bool) {
descend:
	for !n.IsLeaf() {
		for i, sum := range n.childSummaries {
			if sum.Chars > at {
				n = n.children[i]
				continue descend
			}
			at -= sum.Chars
		}
		return 0, false
	}

	for _, c := range n.chunks {
		if c.Chars() > at {
			r, size := utf8.DecodeRuneInString(c.String()[byteForChar(c.String(), at):])
			return r, size > 0
		}
		at -= c.Chars()
	}
	return 0, false
}

// charForLine returns the char offset of the start of the given line,
// i.e. the position just after the line-th terminator. line must not
// exceed the subtree's terminator count.
func (n *Node) charForLine(line uint32) CharOffset {
	if line == 0 {
		return 0
	}

	var chars CharOffset
descend:
	for !n.IsLeaf() {
		for i, sum := range n.childSummaries {
			if sum.Lines >= line {
				n = n.children[i]
				continue descend
			}
			line -= sum.Lines
			chars += sum.Chars
		}
		return chars
	}

	for _, c := range n.chunks {
		sum := c.Summary()
		if sum.Lines >= line {
			pos := c.Newlines().Nth(line)
			if pos < 0 {
				break
			}
			return chars + charsIn(c.String(), pos+1)
		}
		line -= sum.Lines
		chars += sum.Chars
	}
	return chars
}

// lineForChar returns the index of the line containing the char at the
// given offset. An offset equal to the subtree's char count yields the
// last line. A terminator belongs to the line it ends.
func (n *Node) lineForChar(at CharOffset) uint32 {
	var lines uint32
descend:
	for !n.IsLeaf() {
		for i, sum := range n.childSummaries {
			if sum.Chars > at {
				n = n.children[i]
				continue descend
			}
			at -= sum.Chars
			lines += sum.Lines
		}
		return lines
	}

	for _, c := range n.chunks {
		if c.Chars() > at {
			return lines + c.Newlines().CountBefore(byteForChar(c.String(), at))
		}
		at -= c.Chars()
		lines += c.Summary().Lines
	}
	return lines
}
