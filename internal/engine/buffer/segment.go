package buffer

import (
	"strings"

	"github.com/clipperhouse/uax29/v2/words"
	"github.com/rivo/uniseg"
)

// Segmentation helpers for the consuming UI: cursor motion and word-wise
// selection operate on grapheme clusters and UAX#29 word segments, not on
// raw code points. Segmentation is line-scoped since that is the unit the
// UI works in and lines are contiguous after extraction.

// LineGraphemes returns the grapheme clusters of a line, in order,
// excluding the trailing terminator.
func (b *Buffer) LineGraphemes(line uint32) ([]string, error) {
	text, err := b.Line(line)
	if err != nil {
		return nil, err
	}
	text = trimTerminator(text)

	var clusters []string
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		clusters = append(clusters, g.Str())
	}
	return clusters, nil
}

// LineGraphemeCount returns the number of grapheme clusters in a line,
// excluding the trailing terminator. This is the "visible character"
// count a UI wants, as opposed to LineLen's code-point count.
func (b *Buffer) LineGraphemeCount(line uint32) (int, error) {
	text, err := b.Line(line)
	if err != nil {
		return 0, err
	}
	return uniseg.GraphemeClusterCount(trimTerminator(text)), nil
}

// LineWords returns the UAX#29 word segments of a line, excluding the
// trailing terminator. Whitespace runs are segments too; callers doing
// word-wise motion typically skip the all-space ones.
func (b *Buffer) LineWords(line uint32) ([]string, error) {
	text, err := b.Line(line)
	if err != nil {
		return nil, err
	}

	var segs []string
	tokens := words.FromString(trimTerminator(text))
	for tokens.Next() {
		segs = append(segs, tokens.Value())
	}
	return segs, nil
}

func trimTerminator(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
