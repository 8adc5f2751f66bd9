package rope

import (
	"math/rand"
	"strings"
	"testing"
	"testing/quick"
	"unicode/utf8"
)

func TestNew(t *testing.T) {
	r := New()
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
	if r.LenBytes() != 0 {
		t.Errorf("LenBytes() = %d, want 0", r.LenBytes())
	}
	if !r.IsEmpty() {
		t.Error("new rope should be empty")
	}
	if r.String() != "" {
		t.Errorf("String() = %q, want empty", r.String())
	}
	if r.LineCount() != 1 {
		t.Errorf("LineCount() = %d, want 1", r.LineCount())
	}
}

func TestFromStringRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"single char", "a"},
		{"short", "hello"},
		{"with newline", "hello\nworld"},
		{"trailing newline", "hello\nworld\n"},
		{"crlf", "one\r\ntwo\r\n"},
		{"unicode", "hello 世界 🌍"},
		{"combining", "café naïve"},
		{"long", strings.Repeat("abcdefghij", 1000)},
		{"long multiline", strings.Repeat("line of text\n", 5000)},
		{"long unicode", strings.Repeat("日本語テキスト\n", 2000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromString(tt.input)
			if got := r.String(); got != tt.input {
				t.Errorf("String() = %q, want %q", got, tt.input)
			}
			if got, want := r.Len(), CharOffset(utf8.RuneCountInString(tt.input)); got != want {
				t.Errorf("Len() = %d, want %d", got, want)
			}
			if got, want := r.LenBytes(), ByteOffset(len(tt.input)); got != want {
				t.Errorf("LenBytes() = %d, want %d", got, want)
			}
			if got, want := r.LineCount(), uint32(strings.Count(tt.input, "\n")+1); got != want {
				t.Errorf("LineCount() = %d, want %d", got, want)
			}
		})
	}
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name     string
		initial  string
		at       CharOffset
		text     string
		expected string
	}{
		{"at start", "world", 0, "hello ", "hello world"},
		{"at end", "hello", 5, " world", "hello world"},
		{"in middle", "helloworld", 5, " ", "hello world"},
		{"into empty", "", 0, "hello", "hello"},
		{"empty text", "hello", 3, "", "hello"},
		{"multibyte text", "hello", 5, " 世界", "hello 世界"},
		{"between multibyte", "世界", 1, "!", "世!界"},
		{"after multibyte", "日本語", 3, "です", "日本語です"},
		{"emoji", "ab", 1, "🎉", "a🎉b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromString(tt.initial).Insert(tt.at, tt.text)
			if got := r.String(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name     string
		initial  string
		start    CharOffset
		end      CharOffset
		expected string
	}{
		{"from start", "hello world", 0, 6, "world"},
		{"from end", "hello world", 5, 11, "hello"},
		{"from middle", "hello world", 5, 6, "helloworld"},
		{"all", "hello", 0, 5, ""},
		{"nothing", "hello", 3, 3, "hello"},
		{"multibyte", "日本語です", 1, 3, "日です"},
		{"emoji", "a🎉b", 1, 2, "ab"},
		{"across newline", "ab\ncd", 1, 4, "ad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromString(tt.initial).Delete(tt.start, tt.end)
			if got := r.String(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
			wantLen := CharOffset(utf8.RuneCountInString(tt.expected))
			if got := r.Len(); got != wantLen {
				t.Errorf("Len() = %d, want %d", got, wantLen)
			}
		})
	}
}

func TestAt(t *testing.T) {
	r := FromString("a🎉日\nz")

	tests := []struct {
		at   CharOffset
		want rune
		ok   bool
	}{
		{0, 'a', true},
		{1, '🎉', true},
		{2, '日', true},
		{3, '\n', true},
		{4, 'z', true},
		{5, 0, false},
	}

	for _, tt := range tests {
		got, ok := r.At(tt.at)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("At(%d) = %q, %v; want %q, %v", tt.at, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSlice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		start    CharOffset
		end      CharOffset
		expected string
	}{
		{"prefix", "hello world", 0, 5, "hello"},
		{"suffix", "hello world", 6, 11, "world"},
		{"middle", "hello world", 3, 8, "lo wo"},
		{"empty range", "hello", 2, 2, ""},
		{"whole", "hello", 0, 5, "hello"},
		{"multibyte", "日本語です", 1, 3, "本語"},
		{"mixed", "a🎉b日c", 1, 4, "🎉b日"},
		{"across lines", "ab\ncd\nef", 1, 7, "b\ncd\ne"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromString(tt.input)
			if got := r.Slice(tt.start, tt.end); got != tt.expected {
				t.Errorf("Slice(%d, %d) = %q, want %q", tt.start, tt.end, got, tt.expected)
			}
		})
	}

	// Slices over a large rope must cross leaf boundaries cleanly.
	big := strings.Repeat("0123456789", 500)
	r := FromString(big)
	if got := r.Slice(995, 1005); got != "5678901234" {
		t.Errorf("cross-leaf slice = %q", got)
	}
}

func TestLineIndexing(t *testing.T) {
	r := FromString("ab\ncd\n")

	if got := r.Len(); got != 6 {
		t.Errorf("Len() = %d, want 6", got)
	}
	if got := r.LineCount(); got != 3 {
		t.Errorf("LineCount() = %d, want 3", got)
	}
	if got := r.LineToChar(1); got != 3 {
		t.Errorf("LineToChar(1) = %d, want 3", got)
	}
	if got := r.CharToLine(4); got != 1 {
		t.Errorf("CharToLine(4) = %d, want 1", got)
	}

	wantLines := []string{"ab\n", "cd\n", ""}
	for i, want := range wantLines {
		if got := r.Line(uint32(i)); got != want {
			t.Errorf("Line(%d) = %q, want %q", i, got, want)
		}
		if got := r.LineLen(uint32(i)); got != CharOffset(len(want)) {
			t.Errorf("LineLen(%d) = %d, want %d", i, got, len(want))
		}
	}

	r = r.Insert(2, "X")
	if got := r.String(); got != "abX\ncd\n" {
		t.Errorf("after insert: %q", got)
	}
	if got := r.Len(); got != 7 {
		t.Errorf("Len() after insert = %d, want 7", got)
	}

	r = r.Delete(0, 3)
	if got := r.String(); got != "\ncd\n" {
		t.Errorf("after delete: %q", got)
	}
}

func TestLineToCharSentinel(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"no terminator", "hello"},
		{"trailing terminator", "hello\n"},
		{"several lines", "a\nbb\nccc\ndddd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromString(tt.input)
			if got := r.LineToChar(0); got != 0 {
				t.Errorf("LineToChar(0) = %d, want 0", got)
			}
			if got := r.LineToChar(r.LineCount()); got != r.Len() {
				t.Errorf("LineToChar(LineCount()) = %d, want %d", got, r.Len())
			}
		})
	}
}

func TestCharToLine(t *testing.T) {
	r := FromString("a\nbb\nccc")

	tests := []struct {
		at   CharOffset
		want uint32
	}{
		{0, 0}, // 'a'
		{1, 0}, // terminator belongs to the line it ends
		{2, 1}, // 'b'
		{3, 1},
		{4, 1},
		{5, 2}, // 'c'
		{7, 2},
		{8, 2}, // one-past-end lands on the final line
	}

	for _, tt := range tests {
		if got := r.CharToLine(tt.at); got != tt.want {
			t.Errorf("CharToLine(%d) = %d, want %d", tt.at, got, tt.want)
		}
	}
}

func TestIndexTranslationInverse(t *testing.T) {
	var sb strings.Builder
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		for j := rng.Intn(40); j >= 0; j-- {
			sb.WriteRune([]rune{'a', 'b', '日', '🎉'}[rng.Intn(4)])
		}
		sb.WriteByte('\n')
	}
	r := FromString(sb.String())

	for i := 0; i < 500; i++ {
		c := CharOffset(rng.Int63n(int64(r.Len())))
		line := r.CharToLine(c)
		start := r.LineToChar(line)
		end := r.LineToChar(line + 1)
		if !(start <= c && c < end) {
			t.Fatalf("char %d: line %d spans [%d, %d), does not contain it", c, line, start, end)
		}
	}
}

func TestLinesAgainstSplit(t *testing.T) {
	input := "alpha\nbeta\n\ngamma\ndelta"
	r := FromString(input)

	want := strings.SplitAfter(input, "\n")
	if got := int(r.LineCount()); got != len(want) {
		t.Fatalf("LineCount() = %d, want %d", got, len(want))
	}
	for i, w := range want {
		if got := r.Line(uint32(i)); got != w {
			t.Errorf("Line(%d) = %q, want %q", i, got, w)
		}
	}
}

func TestSplitConcat(t *testing.T) {
	input := "hello 世界\nsecond line\nthird"
	r := FromString(input)

	for at := CharOffset(0); at <= r.Len(); at++ {
		left, right := r.Split(at)
		if got := left.Len() + right.Len(); got != r.Len() {
			t.Fatalf("Split(%d): lengths %d + %d != %d", at, left.Len(), right.Len(), r.Len())
		}
		if got := left.Concat(right).String(); got != input {
			t.Fatalf("Split(%d) then Concat = %q", at, got)
		}
	}
}

func TestByteForChar(t *testing.T) {
	r := FromString("a日b🎉c")

	tests := []struct {
		at   CharOffset
		want ByteOffset
	}{
		{0, 0},
		{1, 1},
		{2, 4},
		{3, 5},
		{4, 9},
		{5, 10},
	}

	for _, tt := range tests {
		if got := r.ByteForChar(tt.at); got != tt.want {
			t.Errorf("ByteForChar(%d) = %d, want %d", tt.at, got, tt.want)
		}
	}
}

func TestUTF16Translation(t *testing.T) {
	// '🎉' is a surrogate pair in UTF-16; everything else is one unit.
	r := FromString("a🎉b")

	if got := r.LenUTF16(); got != 4 {
		t.Fatalf("LenUTF16() = %d, want 4", got)
	}

	forward := []struct {
		at   CharOffset
		want uint64
	}{
		{0, 0}, {1, 1}, {2, 3}, {3, 4},
	}
	for _, tt := range forward {
		if got := r.UTF16ForChar(tt.at); got != tt.want {
			t.Errorf("UTF16ForChar(%d) = %d, want %d", tt.at, got, tt.want)
		}
	}

	backward := []struct {
		units uint64
		want  CharOffset
	}{
		{0, 0}, {1, 1}, {2, 1}, {3, 2}, {4, 3},
	}
	for _, tt := range backward {
		if got := r.CharForUTF16(tt.units); got != tt.want {
			t.Errorf("CharForUTF16(%d) = %d, want %d", tt.units, got, tt.want)
		}
	}
}

func TestInsertThenSliceProperty(t *testing.T) {
	property := func(initial, insert string, posSeed uint16) bool {
		initial = strings.ToValidUTF8(initial, "")
		insert = strings.ToValidUTF8(insert, "")

		r := FromString(initial)
		at := CharOffset(0)
		if r.Len() > 0 {
			at = CharOffset(uint64(posSeed) % uint64(r.Len()+1))
		}

		r = r.Insert(at, insert)
		n := CharOffset(utf8.RuneCountInString(insert))
		return r.Slice(at, at+n) == insert
	}

	if err := quick.Check(property, &quick.Config{MaxCount: 300}); err != nil {
		t.Error(err)
	}
}

func TestRemoveThenLengthProperty(t *testing.T) {
	property := func(initial string, a, b uint16) bool {
		initial = strings.ToValidUTF8(initial, "")
		r := FromString(initial)
		if r.Len() == 0 {
			return true
		}

		start := CharOffset(uint64(a) % uint64(r.Len()))
		end := CharOffset(uint64(b) % uint64(r.Len()))
		if start > end {
			start, end = end, start
		}

		got := r.Delete(start, end)
		return got.Len() == r.Len()-(end-start)
	}

	if err := quick.Check(property, &quick.Config{MaxCount: 300}); err != nil {
		t.Error(err)
	}
}

func TestEditStormAgainstModel(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	model := []rune(strings.Repeat("the quick brown 狐\n", 2000))
	r := FromString(string(model))

	snippets := []string{"x", "hello", "\n", "two\nlines", "日本", "🚀"}

	for i := 0; i < 3000; i++ {
		if rng.Intn(2) == 0 || len(model) == 0 {
			at := rng.Intn(len(model) + 1)
			text := snippets[rng.Intn(len(snippets))]
			r = r.Insert(CharOffset(at), text)
			model = append(model[:at:at], append([]rune(text), model[at:]...)...)
		} else {
			start := rng.Intn(len(model))
			end := start + rng.Intn(50)
			if end > len(model) {
				end = len(model)
			}
			r = r.Delete(CharOffset(start), CharOffset(end))
			model = append(model[:start:start], model[end:]...)
		}

		if r.Len() != CharOffset(len(model)) {
			t.Fatalf("op %d: Len() = %d, model %d", i, r.Len(), len(model))
		}
	}

	text := r.String()
	if text != string(model) {
		t.Fatal("content diverged from model")
	}
	if got, want := r.LineCount(), uint32(strings.Count(text, "\n")+1); got != want {
		t.Errorf("LineCount() = %d, want %d", got, want)
	}
}

func TestBalanceUnderEditStorm(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	r := FromString(strings.Repeat("some reasonably long line of text here\n", 30000))

	for i := 0; i < 2000; i++ {
		at := CharOffset(rng.Int63n(int64(r.Len() + 1)))
		if rng.Intn(2) == 0 {
			r = r.Insert(at, "inserted text 语言\n")
		} else {
			end := at + CharOffset(rng.Intn(80))
			r = r.Delete(at, end)
		}
	}

	chunks := r.ChunkCount()
	if chunks < 2 {
		t.Skip("document collapsed to a single chunk")
	}

	// Height must stay logarithmic in the chunk count. The bound is
	// deliberately loose; it catches list-like degeneration, not an
	// occasional underfull node.
	limit := 4
	for n := chunks; n > 1; n = (n + 1) / 2 {
		limit++
	}
	if h := r.Height(); h > limit {
		t.Errorf("height %d exceeds bound %d for %d chunks", h, limit, chunks)
	}
}

func TestEquals(t *testing.T) {
	a := FromString("hello world")
	b := FromString("hello").Concat(FromString(" world"))
	if !a.Equals(b) {
		t.Error("ropes with equal content should be equal regardless of structure")
	}
	if a.Equals(FromString("hello worlD")) {
		t.Error("different content reported equal")
	}
}
