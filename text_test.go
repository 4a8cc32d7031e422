package nelgen

import (
	"math"
	"testing"
)

func TestIsNumber(t *testing.T) {
	for _, s := range []string{"0", "42", "-3", "1.5", " 7 "} {
		if !IsNumber(s) {
			t.Errorf("IsNumber(%q) = false", s)
		}
	}
	for _, s := range []string{"", "x", "1e3", "-", "1.", "(1)"} {
		if IsNumber(s) {
			t.Errorf("IsNumber(%q) = true", s)
		}
	}
}

func TestIsIdentifier(t *testing.T) {
	if !IsIdentifier("list_1") {
		t.Error("list_1 should be an identifier")
	}
	for _, s := range []string{"a.b", "f()", "", "t[1]"} {
		if IsIdentifier(s) {
			t.Errorf("IsIdentifier(%q) = true", s)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{3, "3"},
		{-2.5, "-2.5"},
		{0.1, "0.1"},
		{1e21, "1000000000000000000000"},
		{math.Inf(1), "math.huge"},
		{math.Inf(-1), "-math.huge"},
		{math.NaN(), "(0/0)"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseNumber(t *testing.T) {
	if f, ok := ParseNumber(""); !ok || f != 0 {
		t.Errorf("blank = %v, %v", f, ok)
	}
	if f, ok := ParseNumber(" 2.5 "); !ok || f != 2.5 {
		t.Errorf("2.5 = %v, %v", f, ok)
	}
	if _, ok := ParseNumber("abc"); ok {
		t.Error("abc should not parse")
	}
}

func TestPrefixLines(t *testing.T) {
	tests := []struct {
		text, want string
	}{
		{"a\nb\n", "  a\n  b\n"},
		{"a\nb", "  a\n  b"},
		{"a", "  a"},
	}
	for _, tt := range tests {
		if got := PrefixLines(tt.text, "  "); got != tt.want {
			t.Errorf("PrefixLines(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		text  string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"one two three", 7, "one two\nthree"},
		{"averyveryverylongword x", 5, "averyveryverylongword\nx"},
		{"a b\nc d", 3, "a b\nc d"},
		{"anything", 0, "anything"},
	}
	for _, tt := range tests {
		if got := Wrap(tt.text, tt.limit); got != tt.want {
			t.Errorf("Wrap(%q, %d) = %q, want %q", tt.text, tt.limit, got, tt.want)
		}
	}
}

func TestCleanup(t *testing.T) {
	got := cleanup("\n\nlocal x = 1   \nprint(x)\n\n\n")
	want := "local x = 1\nprint(x)\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
