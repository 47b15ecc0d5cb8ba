// Package server exposes the engine over HTTP: document ingestion and
// removal, the two FindTop evaluators, Match/MatchParallel, and forward
// postings. It is ambient infrastructure around the core engine, which
// never touches the network itself.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/arjun-iyer/corpusengine/internal/analytics"
	"github.com/arjun-iyer/corpusengine/internal/engine"
	"github.com/arjun-iyer/corpusengine/internal/searchcache"
	apperrors "github.com/arjun-iyer/corpusengine/pkg/errors"
	"github.com/arjun-iyer/corpusengine/pkg/logger"
	"github.com/arjun-iyer/corpusengine/pkg/metrics"
	"github.com/arjun-iyer/corpusengine/pkg/middleware"
	"github.com/arjun-iyer/corpusengine/pkg/resilience"
	"github.com/arjun-iyer/corpusengine/pkg/tracing"
)

// Handler implements the engine's HTTP surface.
type Handler struct {
	engine       *engine.Engine
	cache        *searchcache.Cache
	collector    *analytics.Collector
	metrics      *metrics.Metrics
	queryTimeout time.Duration
}

// New creates a Handler. cache, collector, and m may be nil; each
// degrades gracefully (cache misses go straight to the engine, events
// are dropped, metrics are skipped). queryTimeout bounds each Search
// evaluation; zero disables the bound.
func New(eng *engine.Engine, cache *searchcache.Cache, collector *analytics.Collector, m *metrics.Metrics, queryTimeout time.Duration) *Handler {
	return &Handler{engine: eng, cache: cache, collector: collector, metrics: m, queryTimeout: queryTimeout}
}

type addDocumentRequest struct {
	ID      int    `json:"id"`
	Content string `json:"content"`
	Status  int    `json:"status"`
	Ratings []int  `json:"ratings"`
}

// AddDocument handles POST /api/v1/documents.
func (h *Handler) AddDocument(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req addDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.engine.Add(req.ID, req.Content, engine.Status(req.Status), req.Ratings); err != nil {
		h.writeError(w, apperrors.HTTPStatusCode(err), err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.DocumentsAddedTotal.Inc()
		h.metrics.LiveDocumentCount.Set(float64(h.engine.DocumentCount()))
	}
	if h.collector != nil {
		h.collector.Track(analytics.IndexEvent{
			Type:         analytics.EventIndexDoc,
			DocumentID:   req.ID,
			ContentBytes: len(req.Content),
			LatencyMs:    time.Since(start).Milliseconds(),
			Timestamp:    time.Now().UTC(),
		})
	}
	if h.cache != nil {
		if err := h.cache.Invalidate(r.Context()); err != nil {
			logger.FromContext(r.Context()).Warn("search cache invalidation failed", "error", err)
		}
	}

	h.writeJSON(w, http.StatusCreated, map[string]any{"id": req.ID, "status": "added"})
}

// RemoveDocument handles DELETE /api/v1/documents/{id}. ?parallel=true
// erases postings via RemoveParallel instead of Remove.
func (h *Handler) RemoveDocument(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	evaluator := "sequential"
	if r.URL.Query().Get("parallel") == "true" {
		h.engine.RemoveParallel(id)
		evaluator = "parallel"
	} else {
		h.engine.Remove(id)
	}

	if h.metrics != nil {
		h.metrics.DocumentsRemoved.WithLabelValues(evaluator).Inc()
		h.metrics.LiveDocumentCount.Set(float64(h.engine.DocumentCount()))
	}
	if h.cache != nil {
		if err := h.cache.Invalidate(r.Context()); err != nil {
			logger.FromContext(r.Context()).Warn("search cache invalidation failed", "error", err)
		}
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"id": id, "status": "removed"})
}

// Search handles GET /api/v1/search?q=...&status=...&parallel=true.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, span := tracing.StartSpan(r.Context(), "search", middleware.GetRequestID(r.Context()))
	defer func() {
		span.End()
		span.Log()
	}()
	log := logger.FromContext(ctx)

	query := r.URL.Query().Get("q")
	span.SetAttr("query", query)
	if query == "" {
		h.writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	predicateStatus := -1
	if s := r.URL.Query().Get("status"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "status must be an integer")
			return
		}
		predicateStatus = parsed
	}

	parallel := r.URL.Query().Get("parallel") == "true"
	evaluator := "sequential"
	if parallel {
		evaluator = "parallel"
	}

	evalCtx, evalSpan := tracing.StartChildSpan(ctx, "evaluate."+evaluator)
	var docs []engine.Document
	var cacheHit bool
	err := resilience.WithTimeout(evalCtx, h.queryTimeout, "search-evaluate", func(timeoutCtx context.Context) error {
		var evalErr error
		if h.cache != nil {
			if parallel {
				docs, cacheHit, evalErr = h.cache.FindTopParallel(timeoutCtx, query, predicateStatus)
			} else {
				docs, cacheHit, evalErr = h.cache.FindTop(timeoutCtx, query, predicateStatus)
			}
		} else {
			predicate := statusPredicate(predicateStatus)
			if parallel {
				docs, evalErr = h.engine.FindTopParallel(timeoutCtx, query, predicate)
			} else {
				docs, evalErr = h.engine.FindTop(query, predicate)
			}
		}
		return evalErr
	})
	evalSpan.SetAttr("cache_hit", cacheHit)
	evalSpan.End()
	if err != nil {
		h.writeError(w, apperrors.HTTPStatusCode(err), err.Error())
		return
	}

	latencyMs := time.Since(start).Milliseconds()
	log.Info("search completed", "query", query, "evaluator", evaluator, "returned", len(docs), "cache_hit", cacheHit, "latency_ms", latencyMs)

	if h.metrics != nil {
		cacheStatus := "disabled"
		if h.cache != nil {
			cacheStatus = "miss"
			if cacheHit {
				cacheStatus = "hit"
			}
		}
		h.metrics.SearchLatency.WithLabelValues(evaluator, cacheStatus).Observe(time.Since(start).Seconds())
		h.metrics.SearchResultsCount.WithLabelValues().Observe(float64(len(docs)))
		resultType := "hit"
		if len(docs) == 0 {
			resultType = "zero_result"
		}
		h.metrics.SearchQueriesTotal.WithLabelValues(resultType).Inc()
	}
	if h.collector != nil {
		plusWords, minusWords := countQueryWords(query)
		if minusWords > 0 && h.metrics != nil {
			h.metrics.MinusVetoTotal.Inc()
		}
		h.collector.Track(analytics.SearchEvent{
			Type:        eventTypeFor(len(docs), cacheHit),
			Query:       query,
			PlusWords:   plusWords,
			MinusWords:  minusWords,
			ResultCount: len(docs),
			Evaluator:   evaluator,
			LatencyMs:   latencyMs,
			CacheHit:    cacheHit,
			Timestamp:   time.Now().UTC(),
			RequestID:   middleware.GetRequestID(ctx),
		})
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"query": query, "results": docs})
}

// Match handles GET /api/v1/match?q=...&id=...&parallel=true.
func (h *Handler) Match(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "query parameter 'id' must be an integer")
		return
	}
	query := r.URL.Query().Get("q")

	var matched []string
	var status engine.Status
	if r.URL.Query().Get("parallel") == "true" {
		matched, status, err = h.engine.MatchParallel(r.Context(), query, id)
	} else {
		matched, status, err = h.engine.Match(query, id)
	}
	if err != nil {
		h.writeError(w, apperrors.HTTPStatusCode(err), err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"id":            id,
		"matched_words": matched,
		"status":        status.String(),
	})
}

// WordFrequencies handles GET /api/v1/documents/{id}/frequencies.
func (h *Handler) WordFrequencies(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "id must be an integer")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"id":          id,
		"frequencies": h.engine.WordFrequencies(id),
	})
}

func statusPredicate(predicateStatus int) engine.Predicate {
	if predicateStatus < 0 {
		return nil
	}
	return engine.StatusPredicate(engine.Status(predicateStatus))
}

func eventTypeFor(resultCount int, cacheHit bool) analytics.EventType {
	if resultCount == 0 {
		return analytics.EventZeroResult
	}
	if cacheHit {
		return analytics.EventCacheHit
	}
	return analytics.EventCacheMiss
}

// countQueryWords reports how many plus/minus tokens raw's query string
// carries, for analytics only — it does not reuse the engine's parser
// since a malformed query has already failed by the time this runs.
func countQueryWords(raw string) (plus int, minus int) {
	for _, field := range strings.Fields(raw) {
		if len(field) > 0 && field[0] == '-' {
			minus++
		} else {
			plus++
		}
	}
	return plus, minus
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.WithComponent("server-handler").Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
