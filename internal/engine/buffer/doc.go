// Package buffer provides the mutable document type built on the rope.
// It is the surface the rest of the system edits and queries through.
//
// The buffer validates every index before it reaches the rope and reports
// violations as error values (ErrOutOfRange, ErrInvalidRange) — uniformly,
// with no silent clamping anywhere, since a clamped index would corrupt
// the caller's offset bookkeeping without telling it.
//
// Coordinates are code-point offsets. Translations to UTF-8 byte offsets
// and UTF-16 code units are provided for foreign callers; lines are
// delimited by '\n' and a line's content includes its terminator unless
// it is the final line.
//
// All methods are safe for concurrent use via an internal RWMutex;
// Snapshot returns an immutable view for lock-free concurrent reading.
//
//	buf := buffer.NewFromString("ab\ncd\n")
//	_ = buf.Insert(2, "X")          // "abX\ncd\n"
//	line, _ := buf.Line(1)          // "cd\n"
//	start, _ := buf.LineToChar(1)   // 4
package buffer
