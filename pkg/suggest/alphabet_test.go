package suggest

import (
	"errors"
	"strings"
	"testing"
)

func TestNewAlphabet(t *testing.T) {
	testCases := []struct {
		letters     string
		valid       bool
		description string
	}{
		{"abcdefghijklmnopqrstuvwxyz", true, "Lowercase latin"},
		{"a", true, "Single letter"},
		{"αβγ", true, "Non ascii letters"},
		{"", false, "Empty alphabet"},
		{"aba", false, "Duplicate letter"},
		{"\xff", false, "Invalid utf-8"},
		{"ab ", false, "Trailing space letter"},
		{"a\tb", false, "Tab letter"},
		{"ab\u00a0", false, "No-break space letter"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			_, err := NewAlphabet(tc.letters)
			if (err == nil) != tc.valid {
				t.Errorf("NewAlphabet(%q): expected valid=%v, got err %v", tc.letters, tc.valid, err)
			}
		})
	}
}

func TestAlphabetTooLarge(t *testing.T) {
	var b strings.Builder
	for r := rune(0x100); r < 0x100+256; r++ {
		b.WriteRune(r)
	}
	if _, err := NewAlphabet(b.String()); err == nil {
		t.Error("Expected error for 256 letters")
	}
}

func TestEncode(t *testing.T) {
	codes, err := Lowercase.Encode("abz")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	expected := []uint8{1, 2, 26}
	for i := range expected {
		if codes[i] != expected[i] {
			t.Errorf("Code %d: expected %d, got %d", i, expected[i], codes[i])
		}
	}

	for code := uint8(1); code <= 26; code++ {
		if got := Lowercase.Letter(code); got != rune('a'+code-1) {
			t.Errorf("Letter(%d): expected %q, got %q", code, 'a'+code-1, got)
		}
	}

	_, err = Lowercase.Encode("héllo")
	var symErr *SymbolError
	if !errors.As(err, &symErr) || symErr.Rune != 'é' || symErr.Offset != 1 {
		t.Errorf("Expected SymbolError for 'é' at offset 1, got %v", err)
	}
	if Lowercase.Valid("héllo") || !Lowercase.Valid("hello") {
		t.Error("Valid disagrees with Encode")
	}
}

// proper prefixes sort first, then letter order
func TestCompare(t *testing.T) {
	reversed := MustAlphabet("cba")
	testCases := []struct {
		alphabet *Alphabet
		a, b     string
		expected int
	}{
		{Lowercase, "ab", "ab", 0},
		{Lowercase, "ab", "abc", -1},
		{Lowercase, "abc", "ab", 1},
		{Lowercase, "b", "ab", 1},
		{Lowercase, "xyz", "xzz", -1},
		{Lowercase, "", "a", -1},
		{reversed, "a", "c", 1},
		{reversed, "cab", "cb", 1},
	}

	for _, tc := range testCases {
		if got := tc.alphabet.Compare(tc.a, tc.b); got != tc.expected {
			t.Errorf("Compare(%q, %q) over %q: expected %d, got %d", tc.a, tc.b, tc.alphabet.Letters(), tc.expected, got)
		}
	}
}
