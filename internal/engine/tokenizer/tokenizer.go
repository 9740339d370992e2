// Package tokenizer splits raw text into whitespace-delimited words and
// validates them. No lower-casing, stemming, or punctuation stripping is
// applied: matching is exact and case-sensitive.
package tokenizer

import "strings"

// SplitIntoWords breaks text on runs of whitespace. Empty input yields an
// empty slice.
func SplitIntoWords(text string) []string {
	return strings.Fields(text)
}

// IsValidWord reports whether a word is free of control characters.
// Any code point below 0x20 (space), down to and including NUL, makes the
// word invalid. Space itself is valid but never appears in a split word.
func IsValidWord(word string) bool {
	for _, r := range word {
		if r >= 0 && r < ' ' {
			return false
		}
	}
	return true
}
