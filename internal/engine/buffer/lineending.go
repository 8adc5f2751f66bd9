package buffer

// LineEnding is a line ending style. The buffer never rewrites content —
// documents round-trip byte for byte — but callers saving or displaying a
// document often want to know the dominant style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the escaped representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// DetectLineEnding returns the most common line ending in the text,
// defaulting to LF when none are found.
func DetectLineEnding(text string) LineEnding {
	var lf, crlf, cr int

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				crlf++
				i++
			} else {
				cr++
			}
		case '\n':
			lf++
		}
	}

	if crlf > 0 && crlf >= lf && crlf >= cr {
		return LineEndingCRLF
	}
	if cr > 0 && cr >= lf {
		return LineEndingCR
	}
	return LineEndingLF
}

// LineEnding reports the dominant line ending style of the buffer.
// O(n); cache the result against RevisionID if called frequently.
func (b *Buffer) LineEnding() LineEnding {
	return DetectLineEnding(b.String())
}
