package ranker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfsearch/searchd/internal/document"
)

func ratings(m map[int]int) func(int) int {
	return func(id int) int { return m[id] }
}

func TestRankSortsByRelevanceDescending(t *testing.T) {
	got := Rank(
		map[int]float64{1: 0.25, 2: 0.75, 3: 0.5},
		ratings(map[int]int{1: 1, 2: 2, 3: 3}),
		MaxResultCount,
	)

	require.Len(t, got, 3)
	assert.Equal(t, []int{2, 3, 1}, []int{got[0].ID, got[1].ID, got[2].ID})
}

func TestRankBreaksNearTiesByRating(t *testing.T) {
	// Relevance values within epsilon count as equal.
	got := Rank(
		map[int]float64{1: 0.5, 2: 0.5 + 1e-9},
		ratings(map[int]int{1: 9, 2: 1}),
		MaxResultCount,
	)

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, 9, got[0].Rating)
}

func TestRankTruncates(t *testing.T) {
	scores := make(map[int]float64)
	for id := 0; id < 20; id++ {
		scores[id] = float64(id)
	}

	got := Rank(scores, ratings(nil), MaxResultCount)

	require.Len(t, got, MaxResultCount)
	assert.Equal(t, 19, got[0].ID)
	assert.Equal(t, 15, got[MaxResultCount-1].ID)
}

func TestRankEmptyAccumulator(t *testing.T) {
	assert.Empty(t, Rank(nil, ratings(nil), MaxResultCount))
}

func TestRankCarriesRatings(t *testing.T) {
	got := Rank(
		map[int]float64{7: 0.1},
		ratings(map[int]int{7: -4}),
		MaxResultCount,
	)

	require.Len(t, got, 1)
	assert.Equal(t, document.Document{ID: 7, Relevance: 0.1, Rating: -4}, got[0])
}
