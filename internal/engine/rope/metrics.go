package rope

import "unicode/utf8"

// CharOffset is an absolute position in the code-point coordinate space.
// Index i addresses the gap before the i-th code point; Len() addresses
// the gap after the last one.
type CharOffset uint64

// ByteOffset is an absolute UTF-8 byte position. It exists for encoding
// interop; all editing operations take CharOffsets.
type ByteOffset uint64

// TextSummary holds aggregated metrics for a span of text. Summaries form
// a monoid under Add, which is what makes logarithmic index translation
// possible: every internal node caches the summary of each child subtree.
type TextSummary struct {
	// Bytes is the UTF-8 byte count.
	Bytes ByteOffset

	// Chars is the code-point count.
	Chars CharOffset

	// UTF16Units is the UTF-16 code-unit count, kept so the boundary
	// layer can translate positions for UTF-16 based callers.
	UTF16Units uint64

	// Lines is the number of line terminators ('\n').
	Lines uint32

	// Flags record text properties used for fast paths.
	Flags TextFlags
}

// TextFlags indicate text properties for optimization fast paths.
type TextFlags uint8

const (
	// FlagASCII indicates every byte is < 128, so byte, char and UTF-16
	// offsets all coincide.
	FlagASCII TextFlags = 1 << iota
)

// Add combines two adjacent summaries.
func (s TextSummary) Add(other TextSummary) TextSummary {
	if s.Bytes == 0 {
		return other
	}
	if other.Bytes == 0 {
		return s
	}
	return TextSummary{
		Bytes:      s.Bytes + other.Bytes,
		Chars:      s.Chars + other.Chars,
		UTF16Units: s.UTF16Units + other.UTF16Units,
		Lines:      s.Lines + other.Lines,
		Flags:      s.Flags & other.Flags,
	}
}

// Zero returns the identity element for the summary monoid.
func (TextSummary) Zero() TextSummary {
	return TextSummary{Flags: FlagASCII}
}

// IsZero reports whether this is the identity summary.
func (s TextSummary) IsZero() bool {
	return s.Bytes == 0
}

// ComputeSummary calculates the metrics of a string in one pass.
// The input must be valid UTF-8.
func ComputeSummary(s string) TextSummary {
	if len(s) == 0 {
		return TextSummary{Flags: FlagASCII}
	}

	sum := TextSummary{
		Bytes: ByteOffset(len(s)),
		Flags: FlagASCII,
	}

	for _, r := range s {
		sum.Chars++
		if r >= 0x10000 {
			sum.UTF16Units += 2 // surrogate pair
		} else {
			sum.UTF16Units++
		}
		if r > 127 {
			sum.Flags &^= FlagASCII
		}
		if r == '\n' {
			sum.Lines++
		}
	}

	return sum
}

// byteForChar returns the byte offset of the n-th code point of s.
// n must not exceed the number of code points in s.
func byteForChar(s string, n CharOffset) int {
	if n == 0 {
		return 0
	}
	if int(n) <= len(s) && isASCII(s) {
		return int(n)
	}
	var seen CharOffset
	for i := range s {
		if seen == n {
			return i
		}
		seen++
	}
	return len(s)
}

// charsIn returns the number of code points in s[:end].
func charsIn(s string, end int) CharOffset {
	if end > len(s) {
		end = len(s)
	}
	return CharOffset(utf8.RuneCountInString(s[:end]))
}

// isASCII reports whether s contains only single-byte code points.
func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
