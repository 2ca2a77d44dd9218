package news

import (
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"

	"github.com/deusflow/ideafeed/internal/textutil"
)

// DefaultSnippetLen is the rune budget of Entry.Snippet.
const DefaultSnippetLen = 240

// Batch is one feed's raw items in the order the feed returned them.
type Batch struct {
	Source string
	Items  []*gofeed.Item
}

// Entry is a dated, on-topic feed item ready to be shown to the model.
type Entry struct {
	Title       string
	Link        string
	Source      string
	PublishedAt time.Time
	Snippet     string
}

// Options bound the extraction. Non-positive caps mean "no cap".
type Options struct {
	WindowDays float64
	MaxPerFeed int
	MaxTotal   int
	SnippetLen int
}

// Report counts why items were dropped during one Extract call.
type Report struct {
	Considered int
	Undated    int
	Stale      int
	Future     int
	OffTopic   int
	Duplicates int
	Kept       int
}

// DedupeKey identifies an entry by link, falling back to title and source.
func DedupeKey(e Entry) string {
	if link := textutil.NormalizeKey(e.Link); link != "" {
		return "L:" + link
	}
	return "T:" + textutil.NormalizeKey(e.Title) + "|" + textutil.NormalizeKey(e.Source)
}

// Cutoff returns the start of the recency window ending at now.
func Cutoff(now time.Time, windowDays float64) time.Time {
	ms := int64(windowDays * 24 * 60 * 60 * 1000)
	return now.Add(-time.Duration(ms) * time.Millisecond)
}

// Extract filters batches down to recent on-topic entries, drops duplicates
// (first seen wins, in batch then item order), sorts newest first and caps the result.
// Items published exactly at the cutoff or at now are kept; later ones are dropped.
func Extract(batches []Batch, opts Options, now time.Time) ([]Entry, Report) {
	var rep Report
	cutoff := Cutoff(now, opts.WindowDays)
	snippetLen := opts.SnippetLen
	if snippetLen <= 0 {
		snippetLen = DefaultSnippetLen
	}

	seen := make(map[string]struct{})
	var entries []Entry

	for _, b := range batches {
		items := b.Items
		if opts.MaxPerFeed > 0 && len(items) > opts.MaxPerFeed {
			items = items[:opts.MaxPerFeed]
		}

		for _, item := range items {
			if item == nil {
				continue
			}
			rep.Considered++

			published, ok := ItemTime(item)
			if !ok {
				rep.Undated++
				continue
			}
			if published.Before(cutoff) {
				rep.Stale++
				continue
			}
			if published.After(now) {
				rep.Future++
				continue
			}

			title := strings.TrimSpace(item.Title)
			text := textutil.StripHTML(firstNonEmpty(item.Content, item.Description))
			if !IsOnTopic(title + " " + text) {
				rep.OffTopic++
				continue
			}

			e := Entry{
				Title:       textutil.CollapseSpace(title),
				Link:        strings.TrimSpace(item.Link),
				Source:      b.Source,
				PublishedAt: published,
				Snippet:     textutil.Truncate(text, snippetLen),
			}

			key := DedupeKey(e)
			if _, dup := seen[key]; dup {
				rep.Duplicates++
				continue
			}
			seen[key] = struct{}{}
			entries = append(entries, e)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].PublishedAt.After(entries[j].PublishedAt)
	})

	if opts.MaxTotal > 0 && len(entries) > opts.MaxTotal {
		entries = entries[:opts.MaxTotal]
	}
	rep.Kept = len(entries)
	return entries, rep
}

// ItemTime returns the first parseable date of a feed item.
func ItemTime(item *gofeed.Item) (time.Time, bool) {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed, true
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed, true
	}
	for _, raw := range []string{item.Published, item.Updated} {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if t, err := dateparse.ParseAny(raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
