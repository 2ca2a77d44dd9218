// Package app runs one curation pass: gather input, ask the model, sanitize
// its answer and write the surviving ideas to the store.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"

	"github.com/deusflow/ideafeed/internal/idea"
	"github.com/deusflow/ideafeed/internal/llm"
	"github.com/deusflow/ideafeed/internal/logger"
	"github.com/deusflow/ideafeed/internal/metrics"
	"github.com/deusflow/ideafeed/internal/news"
	"github.com/deusflow/ideafeed/internal/retry"
	"github.com/deusflow/ideafeed/internal/textutil"
)

// FeedSource downloads one feed.
type FeedSource interface {
	Fetch(ctx context.Context, url string) (*gofeed.Feed, error)
}

// Store is the structured database the ideas are written to.
type Store interface {
	Columns(ctx context.Context) (map[string]bool, error)
	RecentNames(ctx context.Context, limit int) ([]string, error)
	Insert(ctx context.Context, rec idea.Record) error
}

// ErrNoUsableIdeas means the model answered but no candidate survived
// sanitization and history dedupe.
var ErrNoUsableIdeas = errors.New("no usable ideas in model response")

// PersistError reports the write that failed. Records written before it stay written.
type PersistError struct {
	Written int
	Total   int
	Name    string
	Err     error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("write %q failed after %d of %d records: %v", e.Name, e.Written, e.Total, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

type Options struct {
	Feeds        []string
	Extract      news.Options
	HistoryLimit int
	Counts       llm.Counts
	Retry        retry.RetryConfig
	Now          func() time.Time
}

// Result describes a finished run.
type Result struct {
	RunID   string
	Skipped bool     // no on-topic feed items, nothing asked or written
	Written []string // names, in write order
	Metrics *metrics.Run
}

type Pipeline struct {
	Feeds   FeedSource
	Model   llm.Model
	Store   Store
	Options Options
}

type run struct {
	log *slog.Logger
	m   *metrics.Run
	res *Result
}

func (p *Pipeline) now() time.Time {
	if p.Options.Now != nil {
		return p.Options.Now()
	}
	return time.Now()
}

func (p *Pipeline) counts() llm.Counts {
	if p.Options.Counts.Primary <= 0 {
		return llm.DefaultCounts
	}
	return p.Options.Counts
}

func (p *Pipeline) start(mode string) *run {
	id := uuid.NewString()
	m := metrics.NewRun(p.now())
	r := &run{
		log: logger.With("run_id", id, "mode", mode),
		m:   m,
		res: &Result{RunID: id, Metrics: m},
	}
	r.log.Info("run started")
	return r
}

func (p *Pipeline) finish(r *run, err error) (*Result, error) {
	attrs := r.m.LogAttrs(p.now())
	if err != nil {
		r.log.Error("run failed", append(attrs, "error", err)...)
	} else {
		r.log.Info("run finished", attrs...)
	}
	return r.res, err
}

// RunNews turns recent on-topic feed items into ideas. A run with no such
// items ends early with Result.Skipped and no error.
func (p *Pipeline) RunNews(ctx context.Context) (*Result, error) {
	r := p.start("news")

	batches := p.fetchAll(ctx, r)
	entries, rep := news.Extract(batches, p.Options.Extract, p.now())
	r.m.ItemsConsidered = rep.Considered
	r.m.ItemsUndated = rep.Undated
	r.m.ItemsStale = rep.Stale
	r.m.ItemsFuture = rep.Future
	r.m.ItemsOffTopic = rep.OffTopic
	r.m.ItemsDuplicate = rep.Duplicates
	r.m.EntriesKept = rep.Kept
	r.log.Info("feed items extracted", "considered", rep.Considered, "kept", rep.Kept)

	if len(entries) == 0 {
		r.log.Info("no recent on-topic news, nothing to do")
		r.res.Skipped = true
		return p.finish(r, nil)
	}

	history, err := p.history(ctx, r)
	if err != nil {
		return p.finish(r, err)
	}

	prompt := llm.NewsPrompt(entries, history, p.counts())
	return p.finish(r, p.generateAndPersist(ctx, r, prompt, history))
}

// RunHistory asks for fresh ideas using the names already in the store.
func (p *Pipeline) RunHistory(ctx context.Context) (*Result, error) {
	r := p.start("history")

	history, err := p.history(ctx, r)
	if err != nil {
		return p.finish(r, err)
	}

	prompt := llm.HistoryPrompt(history, p.counts())
	return p.finish(r, p.generateAndPersist(ctx, r, prompt, history))
}

// fetchAll downloads feeds one at a time. A failing feed is logged and skipped.
func (p *Pipeline) fetchAll(ctx context.Context, r *run) []news.Batch {
	var batches []news.Batch
	for _, u := range p.Options.Feeds {
		feed, err := p.Feeds.Fetch(ctx, u)
		if err != nil {
			r.m.FeedsFailed++
			r.log.Warn("feed skipped", "url", u, "error", err)
			continue
		}
		r.m.FeedsFetched++
		r.log.Debug("feed fetched", "url", u, "items", len(feed.Items))
		batches = append(batches, news.Batch{Source: sourceName(feed, u), Items: feed.Items})
	}
	return batches
}

func (p *Pipeline) history(ctx context.Context, r *run) ([]string, error) {
	limit := p.Options.HistoryLimit
	if limit <= 0 {
		limit = 100
	}
	names, err := p.Store.RecentNames(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	r.m.HistoryNames = len(names)
	r.log.Info("history loaded", "names", len(names))
	return names, nil
}

func (p *Pipeline) generateAndPersist(ctx context.Context, r *run, prompt string, history []string) error {
	var text string
	err := retry.WithRetry(ctx, p.Options.Retry, "model call", func(ctx context.Context) error {
		r.m.ModelCalls++
		var err error
		text, err = p.Model.Generate(ctx, prompt)
		return err
	})
	if err != nil {
		return fmt.Errorf("model call: %w", err)
	}

	obj, err := idea.DecodeResponse(text)
	if err != nil {
		r.log.Error("model response could not be decoded", "raw", textutil.Truncate(text, 4000))
		return err
	}

	ideas := p.sanitize(r, idea.Candidates(obj), history)
	if len(ideas) == 0 {
		return ErrNoUsableIdeas
	}
	return p.persist(ctx, r, ideas)
}

func (p *Pipeline) sanitize(r *run, candidates []map[string]any, history []string) []idea.Idea {
	valid := make([]idea.Idea, 0, len(candidates))
	for _, raw := range candidates {
		i, ok := idea.Sanitize(raw)
		if !ok {
			r.m.IdeasRejected++
			continue
		}
		valid = append(valid, i)
	}
	r.m.IdeasProposed = len(candidates)

	kept := idea.FilterAgainstHistory(valid, history, idea.MaxBatch)
	r.m.IdeasDuplicate = len(valid) - len(kept)
	r.log.Info("ideas sanitized",
		"proposed", len(candidates), "rejected", r.m.IdeasRejected, "dropped", r.m.IdeasDuplicate, "kept", len(kept))
	return kept
}

func (p *Pipeline) persist(ctx context.Context, r *run, ideas []idea.Idea) error {
	cols, err := p.Store.Columns(ctx)
	if err != nil {
		return fmt.Errorf("discover columns: %w", err)
	}
	if !cols[idea.ColName] {
		return fmt.Errorf("target has no %q column", idea.ColName)
	}

	records := make([]idea.Record, len(ideas))
	for n, i := range ideas {
		full := idea.ToRecord(i)
		records[n] = full.Restrict(cols)
		r.m.ColumnsDiscarded += len(full) - len(records[n])
	}
	r.m.RecordsPlanned = len(records)
	r.log.Info("about to write records", "count", len(records))

	for n, rec := range records {
		name := rec[idea.ColName].Text
		if err := p.Store.Insert(ctx, rec); err != nil {
			return &PersistError{Written: n, Total: len(records), Name: name, Err: err}
		}
		r.m.RecordsWritten++
		r.res.Written = append(r.res.Written, name)
		r.log.Info("record written", "name", name, "n", n+1, "of", len(records))
	}
	return nil
}

// sourceName prefers the feed's own title and falls back to the URL host.
func sourceName(feed *gofeed.Feed, feedURL string) string {
	if t := strings.TrimSpace(feed.Title); t != "" {
		return t
	}
	if u, err := url.Parse(feedURL); err == nil && u.Host != "" {
		return strings.TrimPrefix(u.Host, "www.")
	}
	return feedURL
}
