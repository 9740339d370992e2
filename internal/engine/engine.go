// Package engine implements the in-memory full-text search engine: add-only
// document ingestion into an inverted index and ranked TF-IDF query
// evaluation with plus/minus word filtering.
package engine

import (
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/tfsearch/searchd/internal/document"
	"github.com/tfsearch/searchd/internal/engine/query"
	"github.com/tfsearch/searchd/internal/engine/ranker"
	"github.com/tfsearch/searchd/internal/engine/tokenizer"
	"github.com/tfsearch/searchd/pkg/errors"
)

// Predicate filters candidate documents during query evaluation. It is
// consulted only for documents reached through a plus-word posting list,
// never for minus-word exclusion.
type Predicate func(id int, status document.Status, rating int) bool

// StatusFilter returns a Predicate matching documents with the given status.
func StatusFilter(status document.Status) Predicate {
	return func(_ int, s document.Status, _ int) bool {
		return s == status
	}
}

type docData struct {
	rating int
	status document.Status
}

// Engine owns the inverted index and document metadata. Ingestion is the
// only mutator; queries take the read lock.
type Engine struct {
	mu           sync.RWMutex
	stopWords    map[string]struct{}
	wordDocFreqs map[string]map[int]float64
	documents    map[int]docData
	docIDs       []int
	logger       *slog.Logger
}

// New creates an Engine with the given stop words. Empty strings are ignored
// and duplicates collapse. A stop word with control characters is rejected.
func New(stopWords []string) (*Engine, error) {
	set := make(map[string]struct{}, len(stopWords))
	for _, word := range stopWords {
		if word == "" {
			continue
		}
		if !tokenizer.IsValidWord(word) {
			return nil, errors.Newf(errors.ErrInvalidText, 400,
				"stop word %q contains control characters", word)
		}
		set[word] = struct{}{}
	}
	return &Engine{
		stopWords:    set,
		wordDocFreqs: make(map[string]map[int]float64),
		documents:    make(map[int]docData),
		logger:       slog.Default().With("component", "engine"),
	}, nil
}

// NewFromText creates an Engine from a whitespace-separated stop word list.
func NewFromText(stopWordsText string) (*Engine, error) {
	return New(tokenizer.SplitIntoWords(stopWordsText))
}

// AddDocument tokenizes text and commits its postings under id. The term
// frequency of each word is its occurrence count divided by the document's
// word count (stop words excluded). The document's rating is the truncated
// mean of ratings, 0 when none are supplied.
//
// Either the whole document commits or the call fails before any mutation.
func (e *Engine) AddDocument(id int, text string, status document.Status, ratings []int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if id < 0 {
		return errors.Newf(errors.ErrInvalidID, 400, "document id %d is negative", id)
	}
	if _, exists := e.documents[id]; exists {
		return errors.Newf(errors.ErrInvalidID, 409, "document id %d already exists", id)
	}

	words, err := e.splitIntoWordsNoStop(text)
	if err != nil {
		return err
	}

	if len(words) > 0 {
		invWordCount := 1.0 / float64(len(words))
		for _, word := range words {
			postings, ok := e.wordDocFreqs[word]
			if !ok {
				postings = make(map[int]float64)
				e.wordDocFreqs[word] = postings
			}
			postings[id] += invWordCount
		}
	}

	e.documents[id] = docData{rating: averageRating(ratings), status: status}
	e.docIDs = append(e.docIDs, id)

	e.logger.Debug("document added",
		"doc_id", id,
		"status", status,
		"word_count", len(words),
	)
	return nil
}

// DocumentCount returns the number of documents added so far.
func (e *Engine) DocumentCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.documents)
}

// DocumentID returns the id of the index-th document in insertion order.
func (e *Engine) DocumentID(index int) (int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if index < 0 || index >= len(e.docIDs) {
		return 0, errors.Newf(errors.ErrIndexOutOfRange, 404,
			"index %d outside [0, %d)", index, len(e.docIDs))
	}
	return e.docIDs[index], nil
}

// FindTopDocuments ranks documents with StatusActive against rawQuery.
func (e *Engine) FindTopDocuments(rawQuery string) ([]document.Document, error) {
	return e.FindTopDocumentsWithStatus(rawQuery, document.StatusActive)
}

// FindTopDocumentsWithStatus ranks documents with the given status.
func (e *Engine) FindTopDocumentsWithStatus(rawQuery string, status document.Status) ([]document.Document, error) {
	return e.FindTopDocumentsFunc(rawQuery, StatusFilter(status))
}

// FindTopDocumentsFunc evaluates rawQuery and returns at most
// ranker.MaxResultCount documents accepted by pred, ordered by TF-IDF
// relevance descending with rating breaking near-ties.
func (e *Engine) FindTopDocumentsFunc(rawQuery string, pred Predicate) ([]document.Document, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	q, err := query.Parse(rawQuery, e.isStopWord)
	if err != nil {
		return nil, err
	}

	relevance := e.findAllDocuments(q, pred)
	return ranker.Rank(relevance, func(id int) int {
		return e.documents[id].rating
	}, ranker.MaxResultCount), nil
}

// MatchDocument returns the query's plus-words present in the document with
// the given id, sorted ascending, together with the document's status. If
// any minus-word is present in the document the word list is empty.
func (e *Engine) MatchDocument(rawQuery string, id int) ([]string, document.Status, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	data, ok := e.documents[id]
	if !ok {
		return nil, 0, errors.Newf(errors.ErrUnknownDocument, 404, "document %d not found", id)
	}

	q, err := query.Parse(rawQuery, e.isStopWord)
	if err != nil {
		return nil, 0, err
	}

	matched := make([]string, 0, len(q.Plus))
	for word := range q.Plus {
		if _, ok := e.wordDocFreqs[word][id]; ok {
			matched = append(matched, word)
		}
	}
	for word := range q.Minus {
		if _, ok := e.wordDocFreqs[word][id]; ok {
			matched = matched[:0]
			break
		}
	}
	sort.Strings(matched)
	return matched, data.status, nil
}

// findAllDocuments accumulates tf*idf per document for every plus-word, then
// unconditionally drops documents containing any minus-word. Callers hold at
// least the read lock.
func (e *Engine) findAllDocuments(q query.Query, pred Predicate) map[int]float64 {
	relevance := make(map[int]float64)
	for word := range q.Plus {
		postings, ok := e.wordDocFreqs[word]
		if !ok {
			continue
		}
		idf := e.inverseDocumentFreq(word)
		for id, termFreq := range postings {
			data := e.documents[id]
			if pred(id, data.status, data.rating) {
				relevance[id] += termFreq * idf
			}
		}
	}
	for word := range q.Minus {
		for id := range e.wordDocFreqs[word] {
			delete(relevance, id)
		}
	}
	return relevance
}

func (e *Engine) inverseDocumentFreq(word string) float64 {
	return math.Log(float64(len(e.documents)) / float64(len(e.wordDocFreqs[word])))
}

func (e *Engine) isStopWord(word string) bool {
	_, ok := e.stopWords[word]
	return ok
}

func (e *Engine) splitIntoWordsNoStop(text string) ([]string, error) {
	var words []string
	for _, word := range tokenizer.SplitIntoWords(text) {
		if !tokenizer.IsValidWord(word) {
			return nil, errors.Newf(errors.ErrInvalidText, 400,
				"document word %q contains control characters", word)
		}
		if !e.isStopWord(word) {
			words = append(words, word)
		}
	}
	return words, nil
}

func averageRating(ratings []int) int {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return sum / len(ratings)
}
