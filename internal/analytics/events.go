package analytics

import "time"

type EventType string

const (
	EventSearch     EventType = "search"
	EventCacheHit   EventType = "cache_hit"
	EventCacheMiss  EventType = "cache_miss"
	EventIndexDoc   EventType = "index_document"
	EventZeroResult EventType = "zero_result"
)

// SearchEvent records one FindTop/FindTopParallel call for offline analysis:
// which evaluator served it, how many plus/minus words the query carried,
// and how many results it returned.
type SearchEvent struct {
	Type        EventType `json:"type"`
	Query       string    `json:"query"`
	PlusWords   int       `json:"plus_words"`
	MinusWords  int       `json:"minus_words"`
	ResultCount int       `json:"result_count"`
	Evaluator   string    `json:"evaluator"` // "sequential" or "parallel"
	LatencyMs   int64     `json:"latency_ms"`
	CacheHit    bool      `json:"cache_hit"`
	Timestamp   time.Time `json:"timestamp"`
	RequestID   string    `json:"request_id"`
}

// IndexEvent records one Add call.
type IndexEvent struct {
	Type         EventType `json:"type"`
	DocumentID   int       `json:"document_id"`
	TokenCount   int       `json:"token_count"`
	ContentBytes int       `json:"content_bytes"`
	LatencyMs    int64     `json:"latency_ms"`
	Timestamp    time.Time `json:"timestamp"`
}
