// Package pipeline orchestrates a full OSINT investigation: classify the
// target, plan search queries, sweep the search engine, probe usernames,
// select and crawl URLs, and synthesize the final dossier.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/masha-osint/masha/internal/config"
	"github.com/masha-osint/masha/internal/model"
	"github.com/masha-osint/masha/internal/store"
	"github.com/masha-osint/masha/internal/target"
	"github.com/masha-osint/masha/pkg/brain"
	"github.com/masha-osint/masha/pkg/serpapi"
)

// selectCap bounds how many search hits are offered to the URL selector.
const selectCap = 8

// Prober checks a username across social platforms.
type Prober interface {
	Probe(ctx context.Context, username string) []model.IdentityHit
}

// Extractor pulls contact data out of one URL.
type Extractor interface {
	Extract(ctx context.Context, url string) model.CrawlRecord
}

// Investigation wires every adapter of one run. Planning and synthesis are
// terminal: their failure aborts the run. Every other phase degrades to
// whatever it could gather.
type Investigation struct {
	cfg       *config.Config
	brain     brain.Client
	search    serpapi.Client
	prober    Prober
	extractor Extractor
	registry  store.Store // nil when no local registry is configured
	limiter   *rate.Limiter
}

// New creates an Investigation with all dependencies. registry may be nil.
func New(
	cfg *config.Config,
	brainClient brain.Client,
	searchClient serpapi.Client,
	prober Prober,
	extractor Extractor,
	registry store.Store,
) *Investigation {
	delay := time.Duration(cfg.Search.QueryDelayMS) * time.Millisecond
	limiter := rate.NewLimiter(rate.Inf, 1)
	if delay > 0 {
		limiter = rate.NewLimiter(rate.Every(delay), 1)
	}
	return &Investigation{
		cfg:       cfg,
		brain:     brainClient,
		search:    searchClient,
		prober:    prober,
		extractor: extractor,
		registry:  registry,
		limiter:   limiter,
	}
}

// Result is the outcome of one completed run.
type Result struct {
	Artifact   model.Artifact
	Entries    []model.CollectedEntry
	ReportPath string
}

// synthesisPayload is the bundle handed to the reasoning collaborator.
type synthesisPayload struct {
	Target    model.TargetDescriptor `json:"target"`
	Context   model.RunContext       `json:"context"`
	Collected []model.CollectedEntry `json:"collected"`
}

// Run executes the investigation for one raw target.
func (p *Investigation) Run(ctx context.Context, rawTarget string, mode model.RunMode) (*Result, error) {
	if !mode.Valid() {
		return nil, eris.Errorf("pipeline: invalid run mode %q", mode)
	}
	if strings.TrimSpace(rawTarget) == "" {
		return nil, eris.New("pipeline: empty target")
	}

	if p.cfg.Pipeline.TimeoutSecs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(p.cfg.Pipeline.TimeoutSecs)*time.Second)
		defer cancel()
	}

	desc := target.Classify(rawTarget)
	log := zap.L().With(
		zap.String("target", desc.Normalized),
		zap.String("type", string(desc.Type)),
		zap.String("mode", string(mode)),
	)
	log.Info("pipeline: starting investigation")

	runCtx := model.RunContext{
		HasLocalRegistry: p.registry != nil,
		Mode:             mode,
	}

	var entries []model.CollectedEntry

	// Phase 0: local registry enrichment for CNPJ targets.
	if entry := p.registryLookup(ctx, desc, log); entry != nil {
		entries = append(entries, *entry)
	}

	plan, err := p.brain.Plan(ctx, brain.TargetInfo{
		Raw:   desc.Raw,
		Type:  string(desc.Type),
		Clean: desc.Normalized,
	})
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: plan")
	}
	log.Info("pipeline: plan ready", zap.Int("dorks", len(plan.Dorks)))

	var hits []model.SearchHit
	if mode != model.ModeCrawlOnly {
		hits = p.sweep(ctx, plan.Dorks, log)
		entries = append(entries, model.CollectedEntry{Kind: model.KindGoogleSearch, Data: hits})

		if username := deriveUsername(desc); username != "" {
			runCtx.PotentialUsername = username
			profiles := p.prober.Probe(ctx, username)
			log.Info("pipeline: identity probe done",
				zap.String("username", username),
				zap.Int("hits", len(profiles)),
			)
			if len(profiles) > 0 {
				entries = append(entries, model.CollectedEntry{Kind: model.KindSocialProfiles, Data: profiles})
			}
		}
	}

	if mode != model.ModeSearchOnly {
		for _, rec := range p.crawl(ctx, hits, log) {
			entries = append(entries, model.CollectedEntry{Kind: model.KindWebsiteCrawl, Data: rec})
		}
	}

	payload := synthesisPayload{Target: desc, Context: runCtx, Collected: entries}
	dossier, err := p.brain.Synthesize(ctx, payload)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: synthesize")
	}

	result := &Result{
		Artifact: model.Artifact{
			Target:  desc,
			Context: runCtx,
			Dossier: model.Dossier{
				Summary:           dossier.Summary,
				KeyFacts:          dossier.KeyFacts,
				ExtractedContacts: dossier.ExtractedContacts,
				ConfidenceScore:   dossier.ConfidenceScore,
			},
		},
		Entries: entries,
	}

	path, err := SaveArtifact(p.cfg.Pipeline.ReportsDir, result.Artifact)
	if err != nil {
		// Persistence is best-effort: the dossier is already in hand.
		log.Warn("pipeline: failed to save report", zap.Error(err))
	} else {
		result.ReportPath = path
		log.Info("pipeline: report saved", zap.String("path", path))
	}

	log.Info("pipeline: investigation complete",
		zap.Int("entries", len(entries)),
		zap.Int("confidence", result.Artifact.Dossier.ConfidenceScore),
	)
	return result, nil
}

// registryLookup runs Phase 0: when the target is a CNPJ and a local registry
// is loaded, pull the company and its partners. Failures degrade to nothing.
func (p *Investigation) registryLookup(ctx context.Context, desc model.TargetDescriptor, log *zap.Logger) *model.CollectedEntry {
	if p.registry == nil || desc.Type != model.TargetCNPJ {
		return nil
	}

	base := store.CNPJBase(desc.Normalized)
	company, err := p.registry.CompanyByCNPJ(ctx, base)
	if err != nil {
		log.Warn("pipeline: registry lookup failed", zap.Error(err))
		return nil
	}
	if company == nil {
		log.Info("pipeline: cnpj not in local registry", zap.String("base", base))
		return nil
	}

	partners, err := p.registry.PartnersByCNPJ(ctx, base)
	if err != nil {
		log.Warn("pipeline: partners lookup failed", zap.Error(err))
	}

	log.Info("pipeline: registry hit",
		zap.String("company", company.LegalName),
		zap.Int("partners", len(partners)),
	)
	return &model.CollectedEntry{
		Kind: model.KindRegistryLookup,
		Data: model.RegistryLookup{Company: company, Partners: partners},
	}
}

// sweep runs every planned query against the search engine, pacing requests
// with the inter-query limiter. A failed query is logged and skipped.
func (p *Investigation) sweep(ctx context.Context, dorks []string, log *zap.Logger) []model.SearchHit {
	var hits []model.SearchHit
	for _, query := range dorks {
		if err := p.limiter.Wait(ctx); err != nil {
			log.Warn("pipeline: sweep interrupted", zap.Error(err))
			break
		}

		resp, err := p.search.Search(ctx, serpapi.SearchParams{
			Query:    query,
			Num:      p.cfg.Search.NumResults,
			Country:  p.cfg.Search.Country,
			Language: p.cfg.Search.Language,
		})
		if err != nil {
			log.Warn("pipeline: query failed", zap.String("query", query), zap.Error(err))
			continue
		}
		if len(resp.OrganicResults) == 0 {
			log.Info("pipeline: query returned nothing", zap.String("query", query))
			continue
		}

		log.Info("pipeline: query done",
			zap.String("query", query),
			zap.Int("results", len(resp.OrganicResults)),
		)
		for _, r := range resp.OrganicResults {
			hits = append(hits, model.SearchHit{Title: r.Title, Link: r.Link, Snippet: r.Snippet})
		}
	}
	return hits
}

// crawl selects URLs worth visiting and extracts each one. Failed records
// are logged but not collected.
func (p *Investigation) crawl(ctx context.Context, hits []model.SearchHit, log *zap.Logger) []model.CrawlRecord {
	candidates := p.selectURLs(ctx, hits, log)
	if len(candidates) == 0 {
		log.Info("pipeline: nothing selected for crawling")
		return nil
	}

	var records []model.CrawlRecord
	for _, url := range candidates {
		rec := p.extractor.Extract(ctx, url)
		if rec.Failed() {
			log.Warn("pipeline: crawl failed", zap.String("url", url), zap.String("error", rec.Error))
			continue
		}
		log.Info("pipeline: crawl done",
			zap.String("url", url),
			zap.Int("emails", len(rec.Emails)),
			zap.Int("phones", len(rec.Phones)),
		)
		records = append(records, rec)
	}
	return records
}

// selectURLs asks the reasoning collaborator to pick crawl candidates from
// the search hits. Crawl-only runs skip the sweep and carry no hits, so
// their selection stays empty. A selector failure degrades to no crawling.
func (p *Investigation) selectURLs(ctx context.Context, hits []model.SearchHit, log *zap.Logger) []string {
	if len(hits) == 0 {
		return nil
	}

	top := hits
	if len(top) > selectCap {
		top = top[:selectCap]
	}
	results := make([]brain.SearchResult, len(top))
	for i, h := range top {
		results[i] = brain.SearchResult{Title: h.Title, Link: h.Link, Snippet: h.Snippet, Source: "google"}
	}

	sel, err := p.brain.SelectURLs(ctx, results)
	if err != nil {
		log.Warn("pipeline: url selection failed", zap.Error(err))
		return nil
	}
	log.Info("pipeline: urls selected",
		zap.Int("selected", len(sel.SelectedURLs)),
		zap.String("reasoning", sel.Reasoning),
	)
	return sel.SelectedURLs
}

// deriveUsername extracts a probe candidate from the target: the local part
// of an email, or the value itself for username-shaped targets.
func deriveUsername(desc model.TargetDescriptor) string {
	switch desc.Type {
	case model.TargetEmail:
		return strings.SplitN(desc.Normalized, "@", 2)[0]
	case model.TargetUsername, model.TargetGeneric:
		if !strings.ContainsAny(desc.Normalized, " .") {
			return desc.Normalized
		}
	}
	return ""
}
