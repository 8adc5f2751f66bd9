package buffer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/itsvks/textbuffer/internal/engine/rope"
)

// Errors returned by buffer operations. Every index or range violation is
// a reported error value; no operation clamps silently and none panics.
// This discipline is uniform across the whole surface.
var (
	// ErrOutOfRange reports a char or line index outside the valid range
	// of the operation.
	ErrOutOfRange = errors.New("index out of range")

	// ErrInvalidRange reports a range whose start exceeds its end.
	ErrInvalidRange = errors.New("invalid range: start exceeds end")

	// ErrDecode reports that a source stream is not valid Unicode text.
	ErrDecode = errors.New("source is not valid unicode text")
)

// Buffer is the mutable document: a thread-safe, validating wrapper over
// the immutable rope. One buffer exists per open document; the owning
// session serializes its lifecycle, while the RWMutex makes individual
// calls safe to issue from any goroutine.
type Buffer struct {
	mu       sync.RWMutex
	rope     rope.Rope
	revision RevisionID
}

// New creates an empty buffer.
func New() *Buffer {
	return &Buffer{
		rope:     rope.New(),
		revision: NewRevisionID(),
	}
}

// NewFromString creates a buffer with initial content. Content is stored
// exactly as given; no line-ending normalization is performed, so
// String() always round-trips the input byte for byte.
func NewFromString(s string) *Buffer {
	return &Buffer{
		rope:     rope.FromString(s),
		revision: NewRevisionID(),
	}
}

// NewFromReader creates a buffer by streaming and decoding a byte source.
// The source is consumed incrementally and chunked straight into the
// rope, so peak memory stays bounded for large documents.
//
// A leading byte-order mark selects the source encoding (UTF-8, UTF-16LE
// or UTF-16BE) and is stripped; without one the bytes are validated as
// strict UTF-8. Read failures and invalid encoding are both terminal: no
// partial buffer is returned. Invalid encoding matches ErrDecode; read
// failures wrap the source error.
func NewFromReader(r io.Reader) (*Buffer, error) {
	src := &readTracker{r: r}
	dec := transform.NewReader(src, unicode.BOMOverride(encoding.UTF8Validator))

	rp, err := rope.FromReader(dec)
	if err != nil {
		if src.err != nil {
			return nil, fmt.Errorf("read source: %w", src.err)
		}
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return &Buffer{rope: rp, revision: NewRevisionID()}, nil
}

// NewFromPath creates a buffer from the contents of a file.
func NewFromPath(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	b, err := NewFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return b, nil
}

// readTracker remembers the first error produced by the underlying
// source, distinguishing I/O failures from decode failures once the
// transform chain reports.
type readTracker struct {
	r   io.Reader
	err error
}

func (t *readTracker) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && err != io.EOF && t.err == nil {
		t.err = err
	}
	return n, err
}

// Read operations

// Len returns the document length in chars. O(1).
func (b *Buffer) Len() CharOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return CharOffset(b.rope.Len())
}

// LenBytes returns the document length in UTF-8 bytes. O(1).
func (b *Buffer) LenBytes() int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return int64(b.rope.LenBytes())
}

// LineCount returns the number of lines. Always at least 1. O(1).
func (b *Buffer) LineCount() uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineCount()
}

// IsEmpty reports whether the buffer holds no text.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.IsEmpty()
}

// String materializes the whole document. O(n); intended for snapshots
// such as saving, not per-keystroke use.
func (b *Buffer) String() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.String()
}

// At returns the code point at the given char offset. The one-past-end
// offset is not addressable.
func (b *Buffer) At(at CharOffset) (rune, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if at < 0 || at >= CharOffset(b.rope.Len()) {
		return 0, fmt.Errorf("%w: char %d, len %d", ErrOutOfRange, at, b.rope.Len())
	}
	r, _ := b.rope.At(rope.CharOffset(at))
	return r, nil
}

// Slice returns an independent copy of the chars in [start, end).
func (b *Buffer) Slice(start, end CharOffset) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkRange(start, end); err != nil {
		return "", err
	}
	return b.rope.Slice(rope.CharOffset(start), rope.CharOffset(end)), nil
}

// SliceRange is Slice over a Range value.
func (b *Buffer) SliceRange(r Range) (string, error) {
	return b.Slice(r.Start, r.End)
}

// Line returns the content of a line, including its trailing terminator
// unless it is the final line.
func (b *Buffer) Line(line uint32) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if line >= b.rope.LineCount() {
		return "", fmt.Errorf("%w: line %d, count %d", ErrOutOfRange, line, b.rope.LineCount())
	}
	return b.rope.Line(line), nil
}

// LineLen returns the char count of a line, terminator included.
func (b *Buffer) LineLen(line uint32) (CharOffset, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if line >= b.rope.LineCount() {
		return 0, fmt.Errorf("%w: line %d, count %d", ErrOutOfRange, line, b.rope.LineCount())
	}
	return CharOffset(b.rope.LineLen(line)), nil
}

// LineToChar returns the char offset of the first character of a line.
// A line index equal to LineCount() is valid and yields Len(), the
// one-past-end sentinel.
func (b *Buffer) LineToChar(line uint32) (CharOffset, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if line > b.rope.LineCount() {
		return 0, fmt.Errorf("%w: line %d, count %d", ErrOutOfRange, line, b.rope.LineCount())
	}
	return CharOffset(b.rope.LineToChar(line)), nil
}

// CharToLine returns the index of the line containing the char at the
// given offset. The one-past-end offset is valid and yields the final
// line.
func (b *Buffer) CharToLine(at CharOffset) (uint32, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if at < 0 || at > CharOffset(b.rope.Len()) {
		return 0, fmt.Errorf("%w: char %d, len %d", ErrOutOfRange, at, b.rope.Len())
	}
	return b.rope.CharToLine(rope.CharOffset(at)), nil
}

// CharToByte translates a char offset into a UTF-8 byte offset.
func (b *Buffer) CharToByte(at CharOffset) (int64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if at < 0 || at > CharOffset(b.rope.Len()) {
		return 0, fmt.Errorf("%w: char %d, len %d", ErrOutOfRange, at, b.rope.Len())
	}
	return int64(b.rope.ByteForChar(rope.CharOffset(at))), nil
}

// CharToUTF16 translates a char offset into a UTF-16 code-unit offset,
// for callers whose coordinate space counts surrogate pairs as two.
func (b *Buffer) CharToUTF16(at CharOffset) (int64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if at < 0 || at > CharOffset(b.rope.Len()) {
		return 0, fmt.Errorf("%w: char %d, len %d", ErrOutOfRange, at, b.rope.Len())
	}
	return int64(b.rope.UTF16ForChar(rope.CharOffset(at))), nil
}

// UTF16ToChar translates a UTF-16 code-unit offset into a char offset.
// An offset inside a surrogate pair resolves to the pair's code point.
func (b *Buffer) UTF16ToChar(units int64) (CharOffset, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if units < 0 || uint64(units) > b.rope.LenUTF16() {
		return 0, fmt.Errorf("%w: utf16 unit %d, len %d", ErrOutOfRange, units, b.rope.LenUTF16())
	}
	return CharOffset(b.rope.CharForUTF16(uint64(units))), nil
}

// Write operations

// Insert splices text so that it begins at the given char offset.
// Inserting at Len() appends. The text must be valid UTF-8.
func (b *Buffer) Insert(at CharOffset, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if at < 0 || at > CharOffset(b.rope.Len()) {
		return fmt.Errorf("%w: char %d, len %d", ErrOutOfRange, at, b.rope.Len())
	}
	if len(text) == 0 {
		return nil
	}

	b.rope = b.rope.Insert(rope.CharOffset(at), text)
	b.revision = NewRevisionID()
	return nil
}

// Remove deletes all chars in [start, end).
func (b *Buffer) Remove(start, end CharOffset) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkRange(start, end); err != nil {
		return err
	}
	if start == end {
		return nil
	}

	b.rope = b.rope.Delete(rope.CharOffset(start), rope.CharOffset(end))
	b.revision = NewRevisionID()
	return nil
}

// checkRange validates [start, end) against the current length.
// Callers must hold at least a read lock.
func (b *Buffer) checkRange(start, end CharOffset) error {
	if start > end {
		return fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, start, end)
	}
	if start < 0 || end > CharOffset(b.rope.Len()) {
		return fmt.Errorf("%w: [%d, %d), len %d", ErrOutOfRange, start, end, b.rope.Len())
	}
	return nil
}

// Buffer state

// RevisionID returns the current revision stamp.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// Snapshot returns a read-only view of the current state. The snapshot
// shares structure with the live rope and never changes, so it is safe to
// read from other goroutines while the buffer keeps mutating.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return &Snapshot{
		rope:     b.rope,
		revision: b.revision,
	}
}
