package suggest

import (
	"errors"
	"testing"
)

func TestScan(t *testing.T) {
	scan, err := NewScan(aggregate(catSentences), nil)
	if err != nil {
		t.Fatalf("NewScan failed: %v", err)
	}

	testCases := []struct {
		prompt   string
		expected string
		found    bool
	}{
		{"x", "xyz", true},
		{"ab", "abazacy", true},
		{"g", "gdbc", true},
		{"q", "", false},
		{"", "abazacy", true},
	}

	for _, tc := range testCases {
		got, found, err := scan.Complete(tc.prompt)
		if err != nil {
			t.Fatalf("Prompt '%s': %v", tc.prompt, err)
		}
		if found != tc.found || got != tc.expected {
			t.Errorf("Prompt '%s': expected (%q, %v), got (%q, %v)", tc.prompt, tc.expected, tc.found, got, found)
		}
	}

	stats := scan.Stats()
	if stats["sentences"] != 12 || stats["distinct"] != 7 {
		t.Errorf("Unexpected stats: %v", stats)
	}
}

func TestScanEmptySentence(t *testing.T) {
	scan, err := NewScan([]Entry{{Sentence: "", Count: 3}, {Sentence: "a", Count: 3}}, nil)
	if err != nil {
		t.Fatalf("NewScan failed: %v", err)
	}
	got, found, _ := scan.Best("")
	if !found || got.Sentence != "" || got.Count != 3 {
		t.Errorf("Expected empty sentence with count 3, got %+v (found=%v)", got, found)
	}
}

func TestScanInvalid(t *testing.T) {
	if _, err := NewScan([]Entry{{Sentence: "A", Count: 1}}, nil); !errors.Is(err, ErrInvalidSymbol) {
		t.Errorf("Expected ErrInvalidSymbol, got %v", err)
	}
	if _, err := NewScan([]Entry{{Sentence: "a", Count: -1}}, nil); err == nil {
		t.Error("Expected error for negative count")
	}

	scan, _ := NewScan(nil, nil)
	if _, _, err := scan.Best("A"); !errors.Is(err, ErrInvalidSymbol) {
		t.Errorf("Expected ErrInvalidSymbol, got %v", err)
	}
}
