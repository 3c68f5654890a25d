package utils

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FoldPrompt lowercases s when enabled, so "Abc" can match a lowercase corpus.
// A cases.Caser keeps state, so each call gets its own.
func FoldPrompt(s string, enabled bool) string {
	if !enabled || s == "" {
		return s
	}
	return cases.Lower(language.Und).String(s)
}
