package buffer

import "fmt"

// Range is a char range in the buffer: [Start, End).
type Range struct {
	Start CharOffset // inclusive
	End   CharOffset // exclusive
}

// NewRange creates a Range from start and end offsets.
func NewRange(start, end CharOffset) Range {
	return Range{Start: start, End: end}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%d:%d)", r.Start, r.End)
}

// Len returns the length of the range in chars.
func (r Range) Len() CharOffset {
	return r.End - r.Start
}

// IsEmpty reports whether the range has zero length.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// IsValid reports whether the range is ordered (Start <= End) and
// non-negative.
func (r Range) IsValid() bool {
	return r.Start >= 0 && r.Start <= r.End
}

// Contains reports whether the offset lies within the range.
func (r Range) Contains(offset CharOffset) bool {
	return offset >= r.Start && offset < r.End
}

// Overlaps reports whether this range overlaps another.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// Shift returns the range moved by delta.
func (r Range) Shift(delta CharOffset) Range {
	return Range{Start: r.Start + delta, End: r.End + delta}
}
