package metrics

import (
	"time"
)

// Run collects counters for a single pipeline run. Runs are sequential, so
// the counters are plain fields.
type Run struct {
	StartedAt time.Time

	// Feeds
	FeedsFetched int
	FeedsFailed  int

	// Extraction
	ItemsConsidered int
	ItemsUndated    int
	ItemsStale      int
	ItemsFuture     int
	ItemsOffTopic   int
	ItemsDuplicate  int
	EntriesKept     int

	// Model output
	HistoryNames     int
	ModelCalls       int
	IdeasProposed    int
	IdeasRejected    int
	IdeasDuplicate   int
	ColumnsDiscarded int

	// Persistence
	RecordsPlanned int
	RecordsWritten int
}

// NewRun starts a run clock at now.
func NewRun(now time.Time) *Run {
	return &Run{StartedAt: now}
}

// LogAttrs flattens the counters into slog key/value pairs.
func (r *Run) LogAttrs(now time.Time) []any {
	return []any{
		"duration_ms", now.Sub(r.StartedAt).Milliseconds(),
		"feeds_fetched", r.FeedsFetched,
		"feeds_failed", r.FeedsFailed,
		"items_considered", r.ItemsConsidered,
		"items_undated", r.ItemsUndated,
		"items_stale", r.ItemsStale,
		"items_future", r.ItemsFuture,
		"items_off_topic", r.ItemsOffTopic,
		"items_duplicate", r.ItemsDuplicate,
		"entries_kept", r.EntriesKept,
		"history_names", r.HistoryNames,
		"model_calls", r.ModelCalls,
		"ideas_proposed", r.IdeasProposed,
		"ideas_rejected", r.IdeasRejected,
		"ideas_duplicate", r.IdeasDuplicate,
		"columns_discarded", r.ColumnsDiscarded,
		"records_planned", r.RecordsPlanned,
		"records_written", r.RecordsWritten,
	}
}
