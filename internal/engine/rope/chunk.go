package rope

// Chunk size constants control the granularity of leaf storage.
const (
	// MinChunkSize is the minimum bytes per chunk (except the last).
	MinChunkSize = 128

	// MaxChunkSize is the maximum bytes per chunk before splitting.
	MaxChunkSize = 256

	// TargetChunkSize is the preferred chunk size when building.
	TargetChunkSize = (MinChunkSize + MaxChunkSize) / 2
)

// Chunk is a bounded run of text stored in a leaf. Chunks are immutable
// once created and always hold whole code points: a multi-byte sequence is
// never split across a chunk boundary.
type Chunk struct {
	data     string
	summary  TextSummary
	newlines NewlineIndex
}

// NewChunk creates a chunk from a string, computing its metrics eagerly.
// The string must be valid UTF-8.
func NewChunk(s string) Chunk {
	return Chunk{
		data:     s,
		summary:  ComputeSummary(s),
		newlines: computeNewlineIndex(s),
	}
}

// String returns the chunk's text.
func (c Chunk) String() string {
	return c.data
}

// Summary returns the chunk's precomputed metrics.
func (c Chunk) Summary() TextSummary {
	return c.summary
}

// Newlines returns the chunk's terminator-position index.
func (c Chunk) Newlines() NewlineIndex {
	return c.newlines
}

// Len returns the byte length of the chunk.
func (c Chunk) Len() int {
	return len(c.data)
}

// Chars returns the code-point count of the chunk.
func (c Chunk) Chars() CharOffset {
	return c.summary.Chars
}

// IsEmpty reports whether the chunk contains no text.
func (c Chunk) IsEmpty() bool {
	return len(c.data) == 0
}

// SplitChars splits the chunk before its n-th code point.
func (c Chunk) SplitChars(n CharOffset) (Chunk, Chunk) {
	return c.splitBytes(byteForChar(c.data, n))
}

// splitBytes splits at a byte offset, which must lie on a code-point
// boundary.
func (c Chunk) splitBytes(offset int) (Chunk, Chunk) {
	if offset <= 0 {
		return Chunk{}, c
	}
	if offset >= len(c.data) {
		return c, Chunk{}
	}
	return NewChunk(c.data[:offset]), NewChunk(c.data[offset:])
}

// splitIntoChunks slices a string into chunks of appropriate size.
func splitIntoChunks(s string) []Chunk {
	if len(s) == 0 {
		return nil
	}
	if len(s) <= MaxChunkSize {
		return []Chunk{NewChunk(s)}
	}

	chunks := make([]Chunk, 0, len(s)/TargetChunkSize+1)
	for len(s) > MaxChunkSize {
		cut := chunkBoundary(s, TargetChunkSize)
		chunks = append(chunks, NewChunk(s[:cut]))
		s = s[cut:]
	}
	if len(s) > 0 {
		chunks = append(chunks, NewChunk(s))
	}
	return chunks
}

// chunkBoundary picks a split point near target. It prefers cutting just
// after a terminator, which keeps whole lines inside one chunk when lines
// are short, and otherwise falls back to the nearest code-point boundary.
func chunkBoundary(s string, target int) int {
	if target >= len(s) {
		return len(s)
	}

	lo := target - MinChunkSize/4
	if lo < 1 {
		lo = 1
	}
	hi := target + MinChunkSize/4
	if hi > len(s) {
		hi = len(s)
	}

	for i := target; i < hi; i++ {
		if s[i-1] == '\n' {
			return i
		}
	}
	for i := target - 1; i >= lo; i-- {
		if s[i-1] == '\n' {
			return i
		}
	}

	// No nearby terminator; back up (or step forward) to a code-point
	// boundary.
	cut := target
	for cut > 0 && !isUTF8Start(s[cut]) {
		cut--
	}
	if cut == 0 {
		cut = target
		for cut < len(s) && !isUTF8Start(s[cut]) {
			cut++
		}
	}
	return cut
}

// isUTF8Start reports whether b begins a UTF-8 sequence. Continuation
// bytes match 10xxxxxx.
func isUTF8Start(b byte) bool {
	return b&0xC0 != 0x80
}
