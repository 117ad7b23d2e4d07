package textutil

import (
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestWidth(t *testing.T) {
	setEastAsianWidth(t, false)
	cases := []struct {
		name string
		s    string
		want int
	}{
		{name: "ASCII", s: "ABC", want: 3},
		{name: "Hiragana", s: "あいう", want: 6},
		{name: "CombiningMark", s: "é", want: 1},
		{name: "EmojiSequence", s: "👨🏽‍💻", want: 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Width(tc.s); got != tc.want {
				t.Fatalf("Width(%q) = %d, want %d", tc.s, got, tc.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	setEastAsianWidth(t, false)
	cases := []struct {
		name     string
		s        string
		width    int
		ellipsis string
		want     string
	}{
		{name: "fits", s: "short", width: 10, ellipsis: "…", want: "short"},
		{name: "Japanese", s: "こんにちは世界", width: 6, ellipsis: "…", want: "こん…"},
		{name: "NoEllipsis", s: "abcdef", width: 3, want: "abc"},
		{name: "EllipsisTooWide", s: "abcdef", width: 2, ellipsis: "...", want: "ab"},
		{name: "Zero", s: "abc", width: 0, ellipsis: "…", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Truncate(tc.s, tc.width, tc.ellipsis)
			if got != tc.want {
				t.Fatalf("Truncate(%q, %d) = %q, want %q", tc.s, tc.width, got, tc.want)
			}
			if w := Width(got); w > tc.width {
				t.Fatalf("result width %d exceeds limit %d", w, tc.width)
			}
		})
	}
}

func TestPreview(t *testing.T) {
	setEastAsianWidth(t, false)
	if got := Preview("a\tb\nc\x1b", 40); got != `a\tb\nc\x1b` {
		t.Fatalf("Preview = %q", got)
	}
	if got := Preview("line one\nline two", 10); got != `line one\…` {
		t.Fatalf("Preview = %q", got)
	}
}

func setEastAsianWidth(t *testing.T, eastAsian bool) {
	t.Helper()
	runewidth.EastAsianWidth = eastAsian
	runewidth.DefaultCondition = runewidth.NewCondition()
}
