package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/masha-osint/masha/internal/config"
	"github.com/masha-osint/masha/internal/extract"
	"github.com/masha-osint/masha/internal/fetcher"
	"github.com/masha-osint/masha/internal/ingest"
	"github.com/masha-osint/masha/internal/pipeline"
	"github.com/masha-osint/masha/internal/probe"
	"github.com/masha-osint/masha/internal/store"
	"github.com/masha-osint/masha/pkg/brain"
	"github.com/masha-osint/masha/pkg/serpapi"
)

func newFetcher(cfg config.CrawlConfig) *fetcher.HTTPFetcher {
	return fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		Timeout:      time.Duration(cfg.TimeoutSecs) * time.Second,
		MaxRetries:   cfg.MaxRetries,
		MaxBodyBytes: int64(cfg.MaxBodyKB) * 1024,
	})
}

func newBrain(cfg config.BrainConfig) (brain.Client, error) {
	opts := brain.Options{
		Provider:  cfg.Provider,
		MaxTokens: cfg.MaxTokens,
	}
	switch cfg.Provider {
	case "anthropic":
		opts.APIKey = cfg.AnthropicKey
		opts.Model = cfg.AnthropicModel
	default:
		opts.APIKey = cfg.DeepSeekKey
		opts.BaseURL = cfg.DeepSeekURL
		opts.Model = cfg.DeepSeekModel
	}
	return brain.NewClient(opts)
}

func newSearch(cfg config.SearchConfig) serpapi.Client {
	return serpapi.NewClient(cfg.Key, serpapi.WithBaseURL(cfg.BaseURL))
}

// openRegistry opens the local CNPJ store when configured. A disabled or
// unreachable registry is not fatal: the pipeline degrades to online-only.
func openRegistry(ctx context.Context) store.Store {
	if !cfg.Registry.Enabled {
		return nil
	}
	st, err := store.Open(ctx, cfg.Registry)
	if err != nil {
		zap.L().Warn("registry unavailable, continuing without it", zap.Error(err))
		return nil
	}
	return st
}

// newInvestigation wires the whole pipeline from configuration. The returned
// store is the registry handle (nil when absent) so callers can close it.
func newInvestigation(ctx context.Context) (*pipeline.Investigation, store.Store, error) {
	brainClient, err := newBrain(cfg.Brain)
	if err != nil {
		return nil, nil, err
	}

	f := newFetcher(cfg.Crawl)
	registry := openRegistry(ctx)

	inv := pipeline.New(
		cfg,
		brainClient,
		newSearch(cfg.Search),
		probe.New(f, cfg.Probe),
		extract.New(f),
		registry,
	)
	return inv, registry, nil
}

// openIngestor builds the Receita ingestion tooling over an open store.
func openIngestor(ctx context.Context) (*ingest.Ingestor, store.Store, error) {
	st, err := store.Open(ctx, cfg.Registry)
	if err != nil {
		return nil, nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, nil, err
	}
	return ingest.New(newFetcher(cfg.Crawl), st, cfg.Ingest), st, nil
}
