// Package requestlog wraps the search engine with a sliding-window log of
// query outcomes so callers can track how many recent requests returned
// nothing.
package requestlog

import (
	"sync"

	"github.com/tfsearch/searchd/internal/document"
	"github.com/tfsearch/searchd/internal/engine"
)

// WindowSize is the retention window in logical ticks, one tick per recorded
// request. 1440 matches one entry per minute over a day.
const WindowSize = 1440

type queryResult struct {
	timestamp uint64
	results   int
}

// Log records one entry per search call against a logical clock and keeps a
// running count of zero-result requests inside the window.
//
// The Log holds a read-only handle to an Engine whose lifetime must exceed
// the Log's. It serializes its own clock; the engine has its own locking.
type Log struct {
	mu               sync.Mutex
	engine           *engine.Engine
	requests         []queryResult
	noResultRequests int
	currentTime      uint64
}

// New creates a Log over the given engine.
func New(e *engine.Engine) *Log {
	return &Log{engine: e}
}

// AddFindRequest runs rawQuery against active documents and records the
// outcome.
func (l *Log) AddFindRequest(rawQuery string) ([]document.Document, error) {
	result, err := l.engine.FindTopDocuments(rawQuery)
	if err != nil {
		return nil, err
	}
	l.record(len(result))
	return result, nil
}

// AddFindRequestWithStatus runs rawQuery filtered by status and records the
// outcome.
func (l *Log) AddFindRequestWithStatus(rawQuery string, status document.Status) ([]document.Document, error) {
	result, err := l.engine.FindTopDocumentsWithStatus(rawQuery, status)
	if err != nil {
		return nil, err
	}
	l.record(len(result))
	return result, nil
}

// AddFindRequestFunc runs rawQuery filtered by pred and records the outcome.
func (l *Log) AddFindRequestFunc(rawQuery string, pred engine.Predicate) ([]document.Document, error) {
	result, err := l.engine.FindTopDocumentsFunc(rawQuery, pred)
	if err != nil {
		return nil, err
	}
	l.record(len(result))
	return result, nil
}

// NoResultRequests returns the number of retained requests that produced
// zero results.
func (l *Log) NoResultRequests() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.noResultRequests
}

// record advances the clock one tick, evicts entries that aged out of the
// window, and appends the new outcome.
func (l *Log) record(resultCount int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentTime++
	for len(l.requests) > 0 && l.currentTime-l.requests[0].timestamp >= WindowSize {
		if l.requests[0].results == 0 {
			l.noResultRequests--
		}
		l.requests = l.requests[1:]
	}

	l.requests = append(l.requests, queryResult{timestamp: l.currentTime, results: resultCount})
	if resultCount == 0 {
		l.noResultRequests++
	}
}
