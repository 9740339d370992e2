// Package ranker turns the accumulated relevance scores of a query into the
// final ordered result slice.
package ranker

import (
	"math"
	"sort"

	"github.com/tfsearch/searchd/internal/document"
)

// MaxResultCount is the fixed cap on the number of documents a single query
// returns.
const MaxResultCount = 5

// relevanceEpsilon is the threshold below which two relevance values are
// considered equal and the tie is broken by rating.
const relevanceEpsilon = 1e-6

// Rank materializes (id, relevance, rating) triples from the score
// accumulator, sorts by relevance descending with rating as the tie-break,
// and truncates to limit.
func Rank(relevance map[int]float64, ratingOf func(id int) int, limit int) []document.Document {
	matched := make([]document.Document, 0, len(relevance))
	for id, rel := range relevance {
		matched = append(matched, document.Document{
			ID:        id,
			Relevance: rel,
			Rating:    ratingOf(id),
		})
	}

	sort.Slice(matched, func(i, j int) bool {
		if math.Abs(matched[i].Relevance-matched[j].Relevance) < relevanceEpsilon {
			return matched[i].Rating > matched[j].Rating
		}
		return matched[i].Relevance > matched[j].Relevance
	})

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched
}
