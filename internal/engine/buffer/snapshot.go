package buffer

import (
	"fmt"

	"github.com/itsvks/textbuffer/internal/engine/rope"
)

// Snapshot is a read-only view of a buffer at a point in time. It shares
// rope structure with the buffer it came from but is immune to later
// edits, so any number of goroutines may read it without coordination.
type Snapshot struct {
	rope     rope.Rope
	revision RevisionID
}

// Len returns the snapshot length in chars.
func (s *Snapshot) Len() CharOffset {
	return CharOffset(s.rope.Len())
}

// LenBytes returns the snapshot length in UTF-8 bytes.
func (s *Snapshot) LenBytes() int64 {
	return int64(s.rope.LenBytes())
}

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() uint32 {
	return s.rope.LineCount()
}

// IsEmpty reports whether the snapshot holds no text.
func (s *Snapshot) IsEmpty() bool {
	return s.rope.IsEmpty()
}

// String materializes the whole snapshot.
func (s *Snapshot) String() string {
	return s.rope.String()
}

// At returns the code point at the given char offset.
func (s *Snapshot) At(at CharOffset) (rune, error) {
	if at < 0 || at >= CharOffset(s.rope.Len()) {
		return 0, fmt.Errorf("%w: char %d, len %d", ErrOutOfRange, at, s.rope.Len())
	}
	r, _ := s.rope.At(rope.CharOffset(at))
	return r, nil
}

// Slice returns the chars in [start, end).
func (s *Snapshot) Slice(start, end CharOffset) (string, error) {
	if start > end {
		return "", fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, start, end)
	}
	if start < 0 || end > CharOffset(s.rope.Len()) {
		return "", fmt.Errorf("%w: [%d, %d), len %d", ErrOutOfRange, start, end, s.rope.Len())
	}
	return s.rope.Slice(rope.CharOffset(start), rope.CharOffset(end)), nil
}

// Line returns the content of a line, terminator included unless final.
func (s *Snapshot) Line(line uint32) (string, error) {
	if line >= s.rope.LineCount() {
		return "", fmt.Errorf("%w: line %d, count %d", ErrOutOfRange, line, s.rope.LineCount())
	}
	return s.rope.Line(line), nil
}

// LineToChar returns the char offset of the first character of a line,
// with the same one-past-end sentinel as Buffer.LineToChar.
func (s *Snapshot) LineToChar(line uint32) (CharOffset, error) {
	if line > s.rope.LineCount() {
		return 0, fmt.Errorf("%w: line %d, count %d", ErrOutOfRange, line, s.rope.LineCount())
	}
	return CharOffset(s.rope.LineToChar(line)), nil
}

// CharToLine returns the line containing the char at the given offset.
func (s *Snapshot) CharToLine(at CharOffset) (uint32, error) {
	if at < 0 || at > CharOffset(s.rope.Len()) {
		return 0, fmt.Errorf("%w: char %d, len %d", ErrOutOfRange, at, s.rope.Len())
	}
	return s.rope.CharToLine(rope.CharOffset(at)), nil
}

// RevisionID returns the revision this snapshot was taken at.
func (s *Snapshot) RevisionID() RevisionID {
	return s.revision
}

// Lines returns an iterator over all lines in the snapshot.
func (s *Snapshot) Lines() *rope.LineIterator {
	return s.rope.Lines()
}

// Runes returns an iterator over all code points in the snapshot.
func (s *Snapshot) Runes() *rope.RuneIterator {
	return s.rope.Runes()
}
