package buffer

import "sync/atomic"

// CharOffset is a position in the code-point coordinate space, the index
// space of the whole public surface. Signed so callers can do offset
// arithmetic without underflow surprises; negative values are rejected
// like any other out-of-range index.
type CharOffset = int64

// RevisionID uniquely identifies a buffer revision. Every successful
// mutation produces a new one, so callers can cheaply detect staleness of
// derived state (syntax highlights, layout caches).
type RevisionID uint64

var revisionCounter uint64

// NewRevisionID generates a unique revision ID.
func NewRevisionID() RevisionID {
	return RevisionID(atomic.AddUint64(&revisionCounter, 1))
}
