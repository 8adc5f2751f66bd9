// Package rope provides an immutable rope data structure for efficient
// storage and manipulation of large texts.
//
// A rope is a balanced tree whose leaves hold bounded text chunks and
// whose internal nodes cache aggregated metrics (byte, code-point, UTF-16
// and line-terminator counts) for each child subtree. The cached
// aggregates guide every seek, which makes insertion, deletion, random
// access and line/char index translation all O(log n).
//
// Public indices are code-point offsets. Byte and UTF-16 offsets are
// available as translations for encoding interop.
//
// Operations return new ropes sharing structure with the original; a rope
// value never changes once created, so snapshots are cheap and concurrent
// reads of the same value need no locking.
//
//	r := rope.FromString("hello\nworld")
//	r = r.Insert(5, ",")     // "hello,\nworld"
//	r = r.Delete(0, 6)       // "\nworld"
//	line := r.Line(1)        // "world"
package rope
