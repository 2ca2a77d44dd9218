package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/deusflow/ideafeed/internal/app"
	"github.com/deusflow/ideafeed/internal/config"
	"github.com/deusflow/ideafeed/internal/llm"
	"github.com/deusflow/ideafeed/internal/logger"
	"github.com/deusflow/ideafeed/internal/news"
	"github.com/deusflow/ideafeed/internal/retry"
	"github.com/deusflow/ideafeed/internal/rss"
	"github.com/deusflow/ideafeed/internal/storage"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	newsCmd := &cobra.Command{
		Use:   "news",
		Short: "Turn recent gaming news into content ideas",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), (*app.Pipeline).RunNews)
		},
	}
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Propose new ideas avoiding games already in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), (*app.Pipeline).RunHistory)
		},
	}

	root := &cobra.Command{
		Use:           "ideafeed",
		Short:         "Curate video content ideas from gaming news with a language model",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          newsCmd.RunE,
	}
	root.AddCommand(newsCmd, historyCmd)
	return root
}

func run(parent context.Context, mode func(*app.Pipeline, context.Context) (*app.Result, error)) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(cfg.Debug)

	model, closeModel, err := newModel(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeModel()

	store, closeStore, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	p := &app.Pipeline{
		Feeds: rss.NewFetcher(cfg.RequestTimeout),
		Model: model,
		Store: store,
		Options: app.Options{
			Feeds: cfg.Feeds,
			Extract: news.Options{
				WindowDays: cfg.LookbackDays,
				MaxPerFeed: cfg.MaxPerFeed,
				MaxTotal:   cfg.MaxItems,
			},
			HistoryLimit: cfg.HistoryLimit,
			Counts:       llm.DefaultCounts,
			Retry: retry.RetryConfig{
				MaxAttempts: cfg.RetryAttempts,
				Delay:       cfg.RetryDelay,
				Backoff:     true,
			},
		},
	}

	res, err := mode(p, ctx)
	if err != nil {
		if errors.Is(err, app.ErrNoUsableIdeas) {
			logger.Error("model answered but no idea survived validation")
		}
		return err
	}
	if res.Skipped {
		logger.Info("nothing to write")
		return nil
	}
	logger.Info("done", "written", len(res.Written), "run_id", res.RunID)
	return nil
}

func newModel(ctx context.Context, cfg *config.Config) (llm.Model, func(), error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		g, err := llm.NewGemini(ctx, cfg.GeminiAPIKey, cfg.ModelName)
		if err != nil {
			return nil, nil, err
		}
		return g, func() { g.Close() }, nil
	default:
		client := &http.Client{Timeout: cfg.RequestTimeout}
		return llm.NewOpenAI(cfg.OpenAIAPIKey, cfg.ModelName, "", client), func() {}, nil
	}
}

func newStore(ctx context.Context, cfg *config.Config) (app.Store, func(), error) {
	switch cfg.Backend {
	case config.BackendPostgres, config.BackendSQLite:
		s, err := storage.OpenSQL(ctx, storage.Dialect(cfg.Backend), cfg.DatabaseURL, cfg.DatabaseTable)
		if err != nil {
			return nil, nil, err
		}
		if err := s.EnsureTable(ctx); err != nil {
			s.Close()
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	default:
		client := &http.Client{Timeout: cfg.RequestTimeout}
		return storage.NewNotion(cfg.NotionToken, cfg.NotionDatabaseID, client), func() {}, nil
	}
}
