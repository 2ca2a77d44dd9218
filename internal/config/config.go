// Package config reads the run configuration from the environment once, in main.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/deusflow/ideafeed/internal/rss"
	"github.com/deusflow/ideafeed/internal/storage"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	BackendNotion   = "notion"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Error reports a missing or malformed setting.
type Error struct {
	Key    string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config %s: %s", e.Key, e.Reason)
}

type Config struct {
	// Model settings
	Provider     string
	OpenAIAPIKey string
	GeminiAPIKey string
	ModelName    string

	// Store settings
	Backend          string
	NotionToken      string
	NotionDatabaseID string // 32 hex chars, hyphens removed
	DatabaseURL      string
	DatabaseTable    string

	// Feed settings
	Feeds        []string
	LookbackDays float64
	MaxPerFeed   int
	MaxItems     int
	HistoryLimit int

	// App settings
	Debug          bool
	RequestTimeout time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration
}

var notionIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{32}$`)

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		Provider:       ProviderOpenAI,
		Backend:        BackendNotion,
		DatabaseTable:  storage.DefaultTable,
		LookbackDays:   7,
		MaxPerFeed:     20,
		MaxItems:       25,
		HistoryLimit:   100,
		RequestTimeout: 60 * time.Second,
		RetryAttempts:  2,
		RetryDelay:     3 * time.Second,
	}

	if v := env("MODEL_PROVIDER"); v != "" {
		cfg.Provider = strings.ToLower(v)
	}
	cfg.OpenAIAPIKey = env("OPENAI_API_KEY")
	cfg.GeminiAPIKey = env("GEMINI_API_KEY")
	cfg.ModelName = env("MODEL_NAME")

	if v := env("STORE_BACKEND"); v != "" {
		cfg.Backend = strings.ToLower(v)
	}
	cfg.NotionToken = env("NOTION_TOKEN")
	cfg.NotionDatabaseID = strings.ReplaceAll(env("NOTION_DATABASE_ID"), "-", "")
	cfg.DatabaseURL = env("DATABASE_URL")
	if v := env("DATABASE_TABLE"); v != "" {
		cfg.DatabaseTable = v
	}

	if v := env("LOOKBACK_DAYS"); v != "" {
		days, err := strconv.ParseFloat(v, 64)
		if err != nil || !(days > 0) || days > 3650 {
			return nil, &Error{Key: "LOOKBACK_DAYS", Reason: fmt.Sprintf("must be a positive number of days, got %q", v)}
		}
		cfg.LookbackDays = days
	}

	var err error
	if cfg.MaxPerFeed, err = positiveInt("MAX_PER_FEED", cfg.MaxPerFeed); err != nil {
		return nil, err
	}
	if cfg.MaxItems, err = positiveInt("MAX_ITEMS", cfg.MaxItems); err != nil {
		return nil, err
	}
	if cfg.HistoryLimit, err = positiveInt("HISTORY_LIMIT", cfg.HistoryLimit); err != nil {
		return nil, err
	}
	if cfg.RetryAttempts, err = positiveInt("RETRY_ATTEMPTS", cfg.RetryAttempts); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = duration("REQUEST_TIMEOUT", cfg.RequestTimeout); err != nil {
		return nil, err
	}
	if cfg.RetryDelay, err = duration("RETRY_DELAY", cfg.RetryDelay); err != nil {
		return nil, err
	}

	if cfg.Feeds, err = feeds(); err != nil {
		return nil, err
	}

	if debug := env("DEBUG"); debug == "true" || debug == "1" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

// feeds resolves RSS_FEEDS, then FEEDS_FILE, then the built-in list.
func feeds() ([]string, error) {
	if v := env("RSS_FEEDS"); v != "" {
		if list := rss.ParseList(v); len(list) > 0 {
			return list, nil
		}
	}
	if path := env("FEEDS_FILE"); path != "" {
		list, err := rss.LoadFeeds(path)
		if err != nil {
			return nil, &Error{Key: "FEEDS_FILE", Reason: err.Error()}
		}
		if len(list) == 0 {
			return nil, &Error{Key: "FEEDS_FILE", Reason: "no feeds listed"}
		}
		return list, nil
	}
	return append([]string(nil), rss.DefaultFeeds...), nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func positiveInt(key string, def int) (int, error) {
	v := env(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, &Error{Key: key, Reason: fmt.Sprintf("must be a positive integer, got %q", v)}
	}
	return n, nil
}

// duration accepts Go durations ("90s") or a bare number of seconds.
func duration(key string, def time.Duration) (time.Duration, error) {
	v := env(key)
	if v == "" {
		return def, nil
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, &Error{Key: key, Reason: fmt.Sprintf("must be a positive duration, got %q", v)}
	}
	return d, nil
}

func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return &Error{Key: "OPENAI_API_KEY", Reason: "is required"}
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return &Error{Key: "GEMINI_API_KEY", Reason: "is required"}
		}
	default:
		return &Error{Key: "MODEL_PROVIDER", Reason: fmt.Sprintf("must be %q or %q, got %q", ProviderOpenAI, ProviderGemini, c.Provider)}
	}

	switch c.Backend {
	case BackendNotion:
		if c.NotionToken == "" {
			return &Error{Key: "NOTION_TOKEN", Reason: "is required"}
		}
		if c.NotionDatabaseID == "" {
			return &Error{Key: "NOTION_DATABASE_ID", Reason: "is required"}
		}
		if !notionIDPattern.MatchString(c.NotionDatabaseID) {
			return &Error{Key: "NOTION_DATABASE_ID", Reason: "must be 32 hex characters (hyphens allowed)"}
		}
	case BackendPostgres, BackendSQLite:
		if c.DatabaseURL == "" {
			return &Error{Key: "DATABASE_URL", Reason: "is required"}
		}
	default:
		return &Error{Key: "STORE_BACKEND", Reason: fmt.Sprintf("must be one of notion, postgres, sqlite, got %q", c.Backend)}
	}
	return nil
}
