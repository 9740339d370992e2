// Package analytics buffers search and ingestion events and ships them to a
// Kafka topic for offline analysis. The service works fine without it; when
// Kafka is unreachable the collector is simply not wired in.
package analytics

import "time"

type EventType string

const (
	EventSearch   EventType = "search"
	EventIndexDoc EventType = "index_document"
)

// SearchEvent records the outcome of one search request.
type SearchEvent struct {
	Type       EventType `json:"type"`
	Query      string    `json:"query"`
	Status     string    `json:"status"`
	Returned   int       `json:"returned"`
	ZeroResult bool      `json:"zero_result"`
	CacheHit   bool      `json:"cache_hit"`
	LatencyMs  int64     `json:"latency_ms"`
	Timestamp  time.Time `json:"timestamp"`
	RequestID  string    `json:"request_id"`
}

// IndexEvent records one successful document ingestion.
type IndexEvent struct {
	Type       EventType `json:"type"`
	DocumentID int       `json:"document_id"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
	RequestID  string    `json:"request_id"`
}
