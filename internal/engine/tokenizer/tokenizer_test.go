package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitIntoWords(t *testing.T) {
	assert.Equal(t, []string{"white", "cat", "collar"}, SplitIntoWords("white cat collar"))
	assert.Equal(t, []string{"cat", "dog"}, SplitIntoWords("  cat \t dog \n"))
	assert.Empty(t, SplitIntoWords(""))
	assert.Empty(t, SplitIntoWords("   "))
}

func TestSplitIntoWordsKeepsCase(t *testing.T) {
	// Matching is case-sensitive; the tokenizer must not normalize.
	assert.Equal(t, []string{"Cat", "cat"}, SplitIntoWords("Cat cat"))
}

func TestIsValidWord(t *testing.T) {
	assert.True(t, IsValidWord("cat"))
	assert.True(t, IsValidWord(""))
	assert.True(t, IsValidWord("наушники"))
	assert.True(t, IsValidWord("c-3po"))

	assert.False(t, IsValidWord("ca\x00t"), "NUL is invalid")
	assert.False(t, IsValidWord("\x01cat"))
	assert.False(t, IsValidWord("cat\x1f"), "0x1f is the last invalid code point")
	assert.True(t, IsValidWord("cat dog"), "0x20 (space) is the first valid code point")
}
