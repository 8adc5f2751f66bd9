package rope

import "unicode/utf8"

// chunkFrame is a position in the tree walk for chunk iteration.
type chunkFrame struct {
	node     *Node
	childIdx int // next child to visit (internal nodes)
	chunkIdx int // next chunk to visit (leaves)
	chars    CharOffset
}

// ChunkIterator walks the rope's chunks in document order.
type ChunkIterator struct {
	rope    Rope
	stack   []chunkFrame
	started bool
	chunk   Chunk
	start   CharOffset
}

// Chunks returns an iterator over all chunks in the rope.
func (r Rope) Chunks() *ChunkIterator {
	return &ChunkIterator{
		rope:  r,
		stack: make([]chunkFrame, 0, 16),
	}
}

// Next advances to the next chunk. Returns false when done.
func (it *ChunkIterator) Next() bool {
	if !it.started {
		it.started = true
		if it.rope.root == nil {
			return false
		}
		it.stack = append(it.stack, chunkFrame{node: it.rope.root})
		return it.advance()
	}

	if len(it.stack) > 0 {
		frame := &it.stack[len(it.stack)-1]
		if frame.node.IsLeaf() {
			frame.chunkIdx++
		}
	}
	return it.advance()
}

func (it *ChunkIterator) advance() bool {
	for len(it.stack) > 0 {
		frame := &it.stack[len(it.stack)-1]
		node := frame.node

		if node.IsLeaf() {
			if frame.chunkIdx < len(node.chunks) {
				pos := frame.chars
				for i := 0; i < frame.chunkIdx; i++ {
					pos += node.chunks[i].Chars()
				}
				it.chunk = node.chunks[frame.chunkIdx]
				it.start = pos
				return true
			}
			it.pop()
			continue
		}

		if frame.childIdx < len(node.children) {
			pos := frame.chars
			for i := 0; i < frame.childIdx; i++ {
				pos += node.childSummaries[i].Chars
			}
			it.stack = append(it.stack, chunkFrame{
				node:  node.children[frame.childIdx],
				chars: pos,
			})
			continue
		}

		it.pop()
	}
	return false
}

func (it *ChunkIterator) pop() {
	it.stack = it.stack[:len(it.stack)-1]
	if len(it.stack) > 0 {
		it.stack[len(it.stack)-1].childIdx++
	}
}

// Chunk returns the current chunk.
func (it *ChunkIterator) Chunk() Chunk {
	return it.chunk
}

// Start returns the char offset of the start of the current chunk.
func (it *ChunkIterator) Start() CharOffset {
	return it.start
}

// RuneIterator walks the rope's code points in document order. It rides
// the chunk iterator, so a full scan is O(n) with no per-rune descent.
type RuneIterator struct {
	chunks  *ChunkIterator
	data    string
	idx     int
	current rune
	size    int
	offset  CharOffset
	started bool
}

// Runes returns an iterator over all code points in the rope.
func (r Rope) Runes() *RuneIterator {
	return &RuneIterator{chunks: r.Chunks()}
}

// Next advances to the next code point. Returns false when done.
func (it *RuneIterator) Next() bool {
	if it.started {
		it.idx += it.size
		it.offset++
	}
	it.started = true

	for it.idx >= len(it.data) {
		if !it.chunks.Next() {
			return false
		}
		it.data = it.chunks.Chunk().String()
		it.idx = 0
	}

	it.current, it.size = utf8.DecodeRuneInString(it.data[it.idx:])
	return it.size > 0
}

// Rune returns the current code point.
func (it *RuneIterator) Rune() rune {
	return it.current
}

// Offset returns the char offset of the current code point.
func (it *RuneIterator) Offset() CharOffset {
	return it.offset
}

// LineIterator walks the rope's lines in order. Each line includes its
// trailing terminator except the final line.
type LineIterator struct {
	rope    Rope
	line    uint32
	text    string
	started bool
}

// Lines returns an iterator over all lines in the rope. Every rope has at
// least one line; an empty rope yields a single empty line.
func (r Rope) Lines() *LineIterator {
	return &LineIterator{rope: r}
}

// Next advances to the next line. Returns false when done.
func (it *LineIterator) Next() bool {
	if it.started {
		it.line++
	}
	it.started = true

	if it.line >= it.rope.LineCount() {
		return false
	}
	it.text = it.rope.Line(it.line)
	return true
}

// Text returns the current line's content.
func (it *LineIterator) Text() string {
	return it.text
}

// Line returns the current line index.
func (it *LineIterator) Line() uint32 {
	return it.line
}
