// Package handler implements the HTTP API of the search service: document
// ingestion, ranked search through the request log, per-document match
// inspection, and service statistics.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/tfsearch/searchd/internal/analytics"
	"github.com/tfsearch/searchd/internal/document"
	"github.com/tfsearch/searchd/internal/engine"
	"github.com/tfsearch/searchd/internal/requestlog"
	"github.com/tfsearch/searchd/internal/server/cache"
	"github.com/tfsearch/searchd/pkg/errors"
	"github.com/tfsearch/searchd/pkg/logger"
	"github.com/tfsearch/searchd/pkg/metrics"
	"github.com/tfsearch/searchd/pkg/paginate"
)

// IngestRequest is the JSON body accepted by the ingestion endpoint.
type IngestRequest struct {
	ID      int    `json:"id"`
	Text    string `json:"text"`
	Status  string `json:"status"`
	Ratings []int  `json:"ratings"`
}

// SearchResponse is returned by the search endpoint. Pages is populated only
// when the caller asks for paginated output.
type SearchResponse struct {
	Query    string                `json:"query"`
	Status   string                `json:"status"`
	Results  []document.Document   `json:"results"`
	Pages    [][]document.Document `json:"pages,omitempty"`
	CacheHit bool                  `json:"cache_hit"`
}

// MatchResponse is returned by the match endpoint.
type MatchResponse struct {
	DocumentID int      `json:"document_id"`
	Status     string   `json:"status"`
	Words      []string `json:"words"`
}

// Handler holds the wired-up service dependencies. Cache, collector, and
// metrics may be nil; the handler degrades to direct engine calls.
type Handler struct {
	engine    *engine.Engine
	requests  *requestlog.Log
	cache     *cache.QueryCache
	collector *analytics.Collector
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// New creates a Handler.
func New(e *engine.Engine, requests *requestlog.Log, queryCache *cache.QueryCache, collector *analytics.Collector, m *metrics.Metrics) *Handler {
	return &Handler{
		engine:    e,
		requests:  requests,
		cache:     queryCache,
		collector: collector,
		metrics:   m,
		logger:    slog.Default().With("component", "http-handler"),
	}
}

// Register installs all API routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/documents", h.Ingest)
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/documents/count", h.DocumentCount)
	mux.HandleFunc("GET /api/v1/documents/{id}/match", h.Match)
	mux.HandleFunc("GET /api/v1/documents/{index}/id", h.DocumentID)
	mux.HandleFunc("GET /api/v1/stats", h.Stats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
}

// Ingest adds one document to the index.
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, errors.Newf(errors.ErrInvalidInput, http.StatusBadRequest,
			"decoding request body: %v", err))
		return
	}
	status, err := document.ParseStatus(req.Status)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.engine.AddDocument(req.ID, req.Text, status, req.Ratings); err != nil {
		log.Warn("ingest rejected", "doc_id", req.ID, "error", err)
		h.writeError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.DocsIndexedTotal.Inc()
	}
	// New documents shift idf for every existing term.
	if h.cache != nil {
		if err := h.cache.Invalidate(r.Context()); err != nil {
			log.Error("cache invalidation after ingest failed", "error", err)
		}
	}
	if h.collector != nil {
		h.collector.Track(analytics.IndexEvent{
			Type:       analytics.EventIndexDoc,
			DocumentID: req.ID,
			Status:     status.String(),
			Timestamp:  time.Now().UTC(),
			RequestID:  logger.RequestID(r.Context()),
		})
	}

	log.Info("document ingested", "doc_id", req.ID, "status", status)
	h.writeJSON(w, http.StatusCreated, map[string]any{
		"document_id": req.ID,
		"status":      status.String(),
	})
}

// Search runs a ranked query through the request log. Supported parameters:
// q (required), status (default active), min_rating (switches to a
// predicate search and bypasses the cache), page_size (chunked output).
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	rawQuery := r.URL.Query().Get("q")
	if rawQuery == "" {
		h.writeError(w, errors.New(errors.ErrInvalidInput, http.StatusBadRequest,
			"query parameter 'q' is required"))
		return
	}
	status, err := document.ParseStatus(r.URL.Query().Get("status"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	var results []document.Document
	cacheHit := false

	if minRatingStr := r.URL.Query().Get("min_rating"); minRatingStr != "" {
		minRating, convErr := strconv.Atoi(minRatingStr)
		if convErr != nil {
			h.writeError(w, errors.New(errors.ErrInvalidInput, http.StatusBadRequest,
				"min_rating must be an integer"))
			return
		}
		results, err = h.requests.AddFindRequestFunc(rawQuery,
			func(_ int, s document.Status, rating int) bool {
				return s == status && rating >= minRating
			})
	} else if h.cache != nil {
		results, cacheHit, err = h.cache.GetOrCompute(ctx, rawQuery, status, func() ([]document.Document, error) {
			return h.requests.AddFindRequestWithStatus(rawQuery, status)
		})
	} else {
		results, err = h.requests.AddFindRequestWithStatus(rawQuery, status)
	}

	latency := time.Since(start)
	h.observeSearch(results, err, latency, cacheHit)

	if err != nil {
		log.Warn("search rejected", "query", rawQuery, "error", err)
		h.writeError(w, err)
		return
	}

	log.Info("search completed",
		"query", rawQuery,
		"status", status.String(),
		"returned", len(results),
		"cache_hit", cacheHit,
		"latency_ms", latency.Milliseconds(),
	)
	if h.collector != nil {
		h.collector.Track(analytics.SearchEvent{
			Type:       analytics.EventSearch,
			Query:      rawQuery,
			Status:     status.String(),
			Returned:   len(results),
			ZeroResult: len(results) == 0,
			CacheHit:   cacheHit,
			LatencyMs:  latency.Milliseconds(),
			Timestamp:  time.Now().UTC(),
			RequestID:  logger.RequestID(ctx),
		})
	}

	resp := SearchResponse{
		Query:    rawQuery,
		Status:   status.String(),
		Results:  results,
		CacheHit: cacheHit,
	}
	if pageSizeStr := r.URL.Query().Get("page_size"); pageSizeStr != "" {
		pageSize, convErr := strconv.Atoi(pageSizeStr)
		if convErr != nil || pageSize < 1 {
			h.writeError(w, errors.New(errors.ErrInvalidInput, http.StatusBadRequest,
				"page_size must be a positive integer"))
			return
		}
		resp.Pages = paginate.Chunk(results, pageSize)
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// Match returns the query's plus-words present in one document.
func (h *Handler) Match(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		h.writeError(w, errors.New(errors.ErrInvalidInput, http.StatusBadRequest,
			"document id must be an integer"))
		return
	}
	rawQuery := r.URL.Query().Get("q")
	if rawQuery == "" {
		h.writeError(w, errors.New(errors.ErrInvalidInput, http.StatusBadRequest,
			"query parameter 'q' is required"))
		return
	}

	words, status, err := h.engine.MatchDocument(rawQuery, id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, MatchResponse{
		DocumentID: id,
		Status:     status.String(),
		Words:      words,
	})
}

// DocumentCount returns the number of indexed documents.
func (h *Handler) DocumentCount(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]int{"count": h.engine.DocumentCount()})
}

// DocumentID returns the document id at the given insertion-order index.
func (h *Handler) DocumentID(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		h.writeError(w, errors.New(errors.ErrInvalidInput, http.StatusBadRequest,
			"index must be an integer"))
		return
	}
	id, err := h.engine.DocumentID(index)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int{"index": index, "document_id": id})
}

// Stats reports document count, the sliding-window zero-result counter, and
// cache counters.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats := map[string]any{
		"document_count":     h.engine.DocumentCount(),
		"no_result_requests": h.requests.NoResultRequests(),
	}
	if h.cache != nil {
		hits, misses := h.cache.Stats()
		stats["cache"] = map[string]int64{"hits": hits, "misses": misses}
	}
	h.writeJSON(w, http.StatusOK, stats)
}

// CacheInvalidate drops all cached search results.
func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "cache disabled"})
		return
	}
	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (h *Handler) observeSearch(results []document.Document, err error, latency time.Duration, cacheHit bool) {
	if h.metrics == nil {
		return
	}
	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
	case len(results) == 0:
		outcome = "zero_result"
	}
	h.metrics.SearchQueriesTotal.WithLabelValues(outcome).Inc()
	h.metrics.SearchLatency.Observe(latency.Seconds())
	if err == nil {
		h.metrics.SearchResultsCount.Observe(float64(len(results)))
	}
	if cacheHit {
		h.metrics.CacheHitsTotal.Inc()
	} else if h.cache != nil {
		h.metrics.CacheMissesTotal.Inc()
	}
	h.metrics.NoResultWindow.Set(float64(h.requests.NoResultRequests()))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encoding response failed", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	h.writeJSON(w, errors.HTTPStatusCode(err), map[string]string{"error": err.Error()})
}
