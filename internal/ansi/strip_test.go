package ansi

import (
	"bytes"
	"testing"
)

func TestStripPassesPlainTextThrough(t *testing.T) {
	cases := []string{
		"",
		"hello world",
		"line with \ttabs and spaces",
		"multi\nline\ninput\n",
		"unicode ☃ text",
	}
	for _, input := range cases {
		got := string(Strip([]byte(input)))
		if got != input {
			t.Fatalf("Strip(%q) = %q, want identity", input, got)
		}
	}
}

func TestStripRemovesSequences(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"csi color", "A\x1b[31mB\x1b[0mC\n", "ABC\n"},
		{"csi cursor", "\x1b[2Jcleared", "cleared"},
		{"csi multi param", "x\x1b[1;32;40my", "xy"},
		{"osc bel", "A\x1b]0;title\x07B\n", "AB\n"},
		{"osc st", "A\x1b]0;title\x1b\\B", "AB"},
		{"two byte", "a\x1bcb", "ab"},
		{"back to back", "\x1b[31m\x1b[0mtext", "text"},
		{"unterminated csi", "A\x1b[31", "A"},
		{"unterminated osc", "A\x1b]0;tit", "A"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := string(Strip([]byte(tc.input)))
			if got != tc.want {
				t.Fatalf("Strip(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestStripDropsTrailingEscape(t *testing.T) {
	got := string(Strip([]byte("abc\x1b")))
	if got != "abc" {
		t.Fatalf("got %q, want %q", got, "abc")
	}
}

func TestStripKeepsNoStateAcrossChunks(t *testing.T) {
	// A sequence split across two chunks loses only the ESC; the tail
	// bytes of the first chunk's sequence leak into the output of the
	// second chunk.
	first := string(Strip([]byte("A\x1b")))
	second := string(Strip([]byte("[31mB")))
	if first != "A" {
		t.Fatalf("first chunk: got %q, want %q", first, "A")
	}
	if second != "[31mB" {
		t.Fatalf("second chunk: got %q, want %q", second, "[31mB")
	}
}

func TestStripFiltersInPlace(t *testing.T) {
	buf := []byte("A\x1b[31mB")
	got := Strip(buf)
	if !bytes.Equal(got, []byte("AB")) {
		t.Fatalf("got %q, want %q", got, "AB")
	}
	if &buf[0] != &got[0] {
		t.Fatal("expected result to alias the input buffer")
	}
}

func TestStripString(t *testing.T) {
	if got := StripString("\x1b[1mbold\x1b[0m"); got != "bold" {
		t.Fatalf("got %q, want %q", got, "bold")
	}
}
