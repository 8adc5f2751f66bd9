package rope

// NewlineIndex records the byte positions of line terminators within a
// chunk, so line seeks never rescan chunk text. Chunks are at most
// MaxChunkSize bytes, so positions fit comfortably in uint16. The common
// case of a handful of terminators is stored inline without allocating.
type NewlineIndex struct {
	inline   [maxInlineNewlines]uint16
	count    uint16
	overflow []uint16 // allocated only when count > maxInlineNewlines
}

// maxInlineNewlines is the number of positions stored without allocation.
const maxInlineNewlines = 4

// computeNewlineIndex scans s and records every '\n' position.
func computeNewlineIndex(s string) NewlineIndex {
	var idx NewlineIndex
	for i := 0; i < len(s); i++ {
		if s[i] != '\n' {
			continue
		}
		if idx.count < maxInlineNewlines {
			idx.inline[idx.count] = uint16(i)
		} else {
			if idx.overflow == nil {
				idx.overflow = append(idx.overflow, idx.inline[:]...)
			}
			idx.overflow = append(idx.overflow, uint16(i))
		}
		idx.count++
	}
	return idx
}

// Count returns the number of terminators in the chunk.
func (idx NewlineIndex) Count() uint32 {
	return uint32(idx.count)
}

// Position returns the byte offset of the n-th terminator (0-indexed),
// or -1 if n is out of range.
func (idx NewlineIndex) Position(n uint32) int {
	if n >= uint32(idx.count) {
		return -1
	}
	if idx.overflow != nil {
		return int(idx.overflow[n])
	}
	return int(idx.inline[n])
}

// Nth returns the byte offset of the n-th terminator (1-indexed), or -1
// if n is 0 or past the end.
func (idx NewlineIndex) Nth(n uint32) int {
	if n == 0 {
		return -1
	}
	return idx.Position(n - 1)
}

// CountBefore returns how many terminators lie strictly before the given
// byte offset.
func (idx NewlineIndex) CountBefore(offset int) uint32 {
	positions := idx.positions()

	// Linear scan for the inline case, binary search otherwise.
	if len(positions) <= maxInlineNewlines {
		var n uint32
		for _, pos := range positions {
			if int(pos) >= offset {
				break
			}
			n++
		}
		return n
	}

	lo, hi := 0, len(positions)
	for lo < hi {
		mid := (lo + hi) / 2
		if int(positions[mid]) < offset {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return uint32(lo)
}

func (idx NewlineIndex) positions() []uint16 {
	if idx.overflow != nil {
		return idx.overflow
	}
	return idx.inline[:idx.count]
}
