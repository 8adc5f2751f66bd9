package buffer

import (
	"errors"
	"reflect"
	"testing"
)

func TestLineGraphemes(t *testing.T) {
	// The flag and the family emoji are single clusters built from
	// several code points.
	b := NewFromString("ab\ncafé\n🇺🇸 x\n")

	tests := []struct {
		line uint32
		want []string
	}{
		{0, []string{"a", "b"}},
		{1, []string{"c", "a", "f", "é"}},
		{2, []string{"🇺🇸", " ", "x"}},
	}

	for _, tt := range tests {
		got, err := b.LineGraphemes(tt.line)
		if err != nil {
			t.Fatalf("LineGraphemes(%d): %v", tt.line, err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("LineGraphemes(%d) = %q, want %q", tt.line, got, tt.want)
		}
	}

	if _, err := b.LineGraphemes(10); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("error = %v, want ErrOutOfRange", err)
	}
}

func TestLineGraphemeCount(t *testing.T) {
	b := NewFromString("héllo\n👩‍👩‍👧‍👦\n")

	n, err := b.LineGraphemeCount(0)
	if err != nil || n != 5 {
		t.Errorf("LineGraphemeCount(0) = %d, %v; want 5", n, err)
	}

	// A ZWJ-joined family is one cluster however many code points long.
	n, err = b.LineGraphemeCount(1)
	if err != nil || n != 1 {
		t.Errorf("LineGraphemeCount(1) = %d, %v; want 1", n, err)
	}
}

func TestLineWords(t *testing.T) {
	b := NewFromString("hello, wide world\n")

	got, err := b.LineWords(0)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"hello", ",", " ", "wide", " ", "world"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LineWords(0) = %q, want %q", got, want)
	}

	if _, err := b.LineWords(5); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("error = %v, want ErrOutOfRange", err)
	}
}

func TestSegmentationExcludesTerminator(t *testing.T) {
	b := NewFromString("ab\r\ncd")

	got, err := b.LineGraphemes(0)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("terminator leaked into clusters: %q", got)
	}
}
