package metrics

import (
	"testing"
	"time"
)

func TestLogAttrs(t *testing.T) {
	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	r := NewRun(start)
	r.FeedsFetched = 3
	r.RecordsWritten = 2

	attrs := r.LogAttrs(start.Add(1500 * time.Millisecond))
	if len(attrs)%2 != 0 {
		t.Fatalf("attrs must be key/value pairs, got %d items", len(attrs))
	}
	got := make(map[string]any)
	for i := 0; i < len(attrs); i += 2 {
		got[attrs[i].(string)] = attrs[i+1]
	}
	if got["duration_ms"] != int64(1500) {
		t.Errorf("duration_ms = %v", got["duration_ms"])
	}
	if got["feeds_fetched"] != 3 || got["records_written"] != 2 {
		t.Errorf("unexpected counters %v", got)
	}
}
