package rope

import "io"

// Builder accumulates text and produces a balanced rope in one shot.
// Writes are buffered and cut into chunks as they grow, so building from
// a stream never materializes the whole document contiguously.
//
// Flushing is careful never to cut inside a multi-byte sequence even when
// a Write ends mid code point; the dangling tail stays buffered until the
// rest of the sequence arrives.
type Builder struct {
	chunks []Chunk
	buf    []byte
	total  int
}

// NewBuilder creates a rope builder.
func NewBuilder() *Builder {
	return &Builder{chunks: make([]Chunk, 0, 64)}
}

// WriteString appends a string.
func (b *Builder) WriteString(s string) {
	if len(s) == 0 {
		return
	}
	b.total += len(s)
	b.buf = append(b.buf, s...)
	if len(b.buf) >= MaxChunkSize*2 {
		b.flush(false)
	}
}

// Write implements io.Writer.
func (b *Builder) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	b.total += len(p)
	b.buf = append(b.buf, p...)
	if len(b.buf) >= MaxChunkSize*2 {
		b.flush(false)
	}
	return len(p), nil
}

// ReadFrom implements io.ReaderFrom.
func (b *Builder) ReadFrom(r io.Reader) (int64, error) {
	buf := make([]byte, 64*1024)
	var total int64

	for {
		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := b.Write(buf[:n]); werr != nil {
				return total, werr
			}
			total += int64(n)
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// Len returns the total number of bytes written so far.
func (b *Builder) Len() int {
	return b.total
}

// Reset clears the builder for reuse.
func (b *Builder) Reset() {
	b.chunks = b.chunks[:0]
	b.buf = b.buf[:0]
	b.total = 0
}

// flush converts buffered bytes to chunks. Unless final, an incomplete
// trailing sequence is held back for the next write.
func (b *Builder) flush(final bool) {
	data := b.buf
	if !final {
		keep := incompleteTail(data)
		data = data[:len(data)-keep]
	}
	if len(data) == 0 {
		return
	}

	b.chunks = append(b.chunks, splitIntoChunks(string(data))...)

	tail := b.buf[len(data):]
	n := copy(b.buf, tail)
	b.buf = b.buf[:n]
}

// incompleteTail returns how many bytes at the end of p begin a UTF-8
// sequence that p does not finish. Returns 0 for complete (or invalid)
// input.
func incompleteTail(p []byte) int {
	for back := 1; back <= 4 && back <= len(p); back++ {
		b := p[len(p)-back]
		if !isUTF8Start(b) {
			continue
		}
		var want int
		switch {
		case b < 0x80:
			want = 1
		case b&0xE0 == 0xC0:
			want = 2
		case b&0xF0 == 0xE0:
			want = 3
		case b&0xF8 == 0xF0:
			want = 4
		default:
			return 0 // not a valid start byte; nothing to hold back
		}
		if want > back {
			return back
		}
		return 0
	}
	return 0
}

// Build assembles the rope and resets the builder.
func (b *Builder) Build() Rope {
	b.flush(true)

	if len(b.chunks) == 0 {
		b.Reset()
		return New()
	}

	chunks := b.chunks
	b.Reset()
	return buildFromChunks(chunks)
}

// FromLines builds a rope from lines, joining them with terminators.
func FromLines(lines []string) Rope {
	if len(lines) == 0 {
		return New()
	}

	var b Builder
	for i, line := range lines {
		b.WriteString(line)
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.Build()
}
