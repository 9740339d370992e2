package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfsearch/searchd/pkg/errors"
)

func noStop(string) bool { return false }

func stopSet(words ...string) func(string) bool {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return func(w string) bool {
		_, ok := set[w]
		return ok
	}
}

func TestParseClassifiesPlusAndMinus(t *testing.T) {
	q, err := Parse("fluffy cat -collar", noStop)
	require.NoError(t, err)

	assert.Equal(t, map[string]struct{}{"fluffy": {}, "cat": {}}, q.Plus)
	assert.Equal(t, map[string]struct{}{"collar": {}}, q.Minus)
}

func TestParseDeduplicates(t *testing.T) {
	q, err := Parse("cat cat -dog -dog", noStop)
	require.NoError(t, err)

	assert.Len(t, q.Plus, 1)
	assert.Len(t, q.Minus, 1)
}

func TestParseDropsStopWordsFromBothGroups(t *testing.T) {
	q, err := Parse("the cat -the -dog", stopSet("the"))
	require.NoError(t, err)

	assert.Equal(t, map[string]struct{}{"cat": {}}, q.Plus)
	assert.Equal(t, map[string]struct{}{"dog": {}}, q.Minus)
}

func TestParsePerOccurrenceClassification(t *testing.T) {
	// Each occurrence goes to exactly one group; a token seen both plain
	// and dashed lands in both.
	q, err := Parse("cat -cat", noStop)
	require.NoError(t, err)

	assert.Contains(t, q.Plus, "cat")
	assert.Contains(t, q.Minus, "cat")
}

func TestParseEmptyQuery(t *testing.T) {
	q, err := Parse("", noStop)
	require.NoError(t, err)
	assert.Empty(t, q.Plus)
	assert.Empty(t, q.Minus)
}

func TestParseMalformedMinusWords(t *testing.T) {
	for _, raw := range []string{"-", "cat -", "--dog", "cat --dog tail"} {
		_, err := Parse(raw, noStop)
		require.ErrorIs(t, err, errors.ErrInvalidMinusWord, "query %q", raw)
	}
}

func TestParseControlCharacters(t *testing.T) {
	_, err := Parse("ca\x01t", noStop)
	require.ErrorIs(t, err, errors.ErrInvalidText)

	// The whole raw query is checked, so control characters between words
	// fail too.
	_, err = Parse("cat\tdog", noStop)
	require.ErrorIs(t, err, errors.ErrInvalidText)
}
