package rss

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v3"
)

// DefaultFeeds is used when neither RSS_FEEDS nor FEEDS_FILE is set.
var DefaultFeeds = []string{
	"https://massivelyop.com/feed/",
	"https://www.pcgamer.com/rss/",
	"https://www.gamespot.com/feeds/news/",
	"https://www.rockpapershotgun.com/feed",
	"https://www.polygon.com/rss/index.xml",
	"https://www.vidaextra.com/feedburner.xml",
	"https://www.3djuegos.com/feedburner.xml",
}

// FeedsConfig is YAML config structure
// feeds:
//   - https://...
type FeedsConfig struct {
	Feeds []string `yaml:"feeds"`
}

// LoadFeeds reads RSS feeds list from YAML file
func LoadFeeds(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg FeedsConfig
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return ParseList(strings.Join(cfg.Feeds, ",")), nil
}

// ParseList splits a comma-separated feed list, dropping blanks.
func ParseList(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if u := strings.TrimSpace(part); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// FetchError is returned when a single feed cannot be downloaded or parsed.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch feed %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher downloads and parses one feed at a time.
type Fetcher struct {
	parser *gofeed.Parser
}

// NewFetcher builds a Fetcher whose requests time out after timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	p := gofeed.NewParser()
	p.Client = &http.Client{Timeout: timeout}
	p.UserAgent = "ideafeed/1.0 (+https://github.com/deusflow/ideafeed)"
	return &Fetcher{parser: p}
}

// Fetch returns the parsed feed at url.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*gofeed.Feed, error) {
	feed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	return feed, nil
}
