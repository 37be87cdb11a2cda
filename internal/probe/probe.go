// Package probe checks whether a username exists on a fixed set of social
// platforms by issuing profile-page requests under a bounded worker pool.
package probe

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/masha-osint/masha/internal/config"
	"github.com/masha-osint/masha/internal/fetcher"
	"github.com/masha-osint/masha/internal/model"
)

// Platform describes one probe destination. URLTemplate takes the username
// as its single %s verb.
type Platform struct {
	Name        string
	URLTemplate string
}

// DefaultPlatforms returns the built-in probe table.
func DefaultPlatforms() []Platform {
	return []Platform{
		{Name: "Instagram", URLTemplate: "https://www.instagram.com/%s/"},
		{Name: "Twitter", URLTemplate: "https://twitter.com/%s"},
		{Name: "Facebook", URLTemplate: "https://www.facebook.com/%s"},
		{Name: "TikTok", URLTemplate: "https://www.tiktok.com/@%s"},
		{Name: "GitHub", URLTemplate: "https://github.com/%s"},
		{Name: "Reddit", URLTemplate: "https://www.reddit.com/user/%s"},
		{Name: "Steam", URLTemplate: "https://steamcommunity.com/id/%s"},
		{Name: "Telegram", URLTemplate: "https://t.me/%s"},
		{Name: "Spotify", URLTemplate: "https://open.spotify.com/user/%s"},
	}
}

// Prober fans probe requests across platforms with bounded concurrency.
type Prober struct {
	fetch     *fetcher.HTTPFetcher
	platforms []Platform
	width     int
	timeout   time.Duration
}

// Option customizes a Prober.
type Option func(*Prober)

// WithPlatforms replaces the built-in probe table.
func WithPlatforms(platforms []Platform) Option {
	return func(p *Prober) { p.platforms = platforms }
}

// New builds a Prober from config. Zero width or timeout fall back to the
// config defaults.
func New(f *fetcher.HTTPFetcher, cfg config.ProbeConfig, opts ...Option) *Prober {
	p := &Prober{
		fetch:     f,
		platforms: DefaultPlatforms(),
		width:     cfg.Width,
		timeout:   time.Duration(cfg.TimeoutSecs) * time.Second,
	}
	if p.width <= 0 {
		p.width = 10
	}
	if p.timeout <= 0 {
		p.timeout = 7 * time.Second
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe checks every platform for the given username and returns the hits
// sorted by platform name. A platform only counts as a hit on HTTP 200;
// timeouts, network errors and any other status are dropped silently, so a
// flaky platform never fails the phase.
func (p *Prober) Probe(ctx context.Context, username string) []model.IdentityHit {
	results := make(chan model.IdentityHit, len(p.platforms))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.width)
	for _, plat := range p.platforms {
		g.Go(func() error {
			url := fmt.Sprintf(plat.URLTemplate, username)
			reqCtx, cancel := context.WithTimeout(gctx, p.timeout)
			defer cancel()

			code, err := p.fetch.Status(reqCtx, url)
			if err != nil {
				zap.S().Debugw("probe: request failed", "platform", plat.Name, "error", err)
				return nil
			}
			if code == http.StatusOK {
				results <- model.IdentityHit{Platform: plat.Name, URL: url}
			}
			return nil
		})
	}
	g.Wait() //nolint:errcheck
	close(results)

	var hits []model.IdentityHit
	for hit := range results {
		hits = append(hits, hit)
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Platform < hits[j].Platform })
	return hits
}
