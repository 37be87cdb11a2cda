// Package extract is the content-extraction engine: it fetches a single URL,
// parses it according to its format, and pulls contact and document fields
// out of the text.
package extract

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/masha-osint/masha/internal/fetcher"
	"github.com/masha-osint/masha/internal/model"
)

// Engine extracts structured records from remote content.
type Engine struct {
	fetch *fetcher.HTTPFetcher
}

// New creates an Engine on top of the given fetcher.
func New(f *fetcher.HTTPFetcher) *Engine {
	return &Engine{fetch: f}
}

// Extract fetches url and returns a CrawlRecord. It never returns an error
// and never panics: every failure mode is folded into the record's Error
// field or into empty extracted fields.
func (e *Engine) Extract(ctx context.Context, url string) (rec model.CrawlRecord) {
	rec.URL = url

	defer func() {
		if r := recover(); r != nil {
			zap.L().Warn("extract: recovered panic", zap.String("url", url), zap.Any("panic", r))
			rec = model.CrawlRecord{URL: url, Error: fmt.Sprint(r)}
		}
	}()

	zap.L().Info("extract: crawling", zap.String("url", url))

	lower := strings.ToLower(url)
	switch {
	case strings.HasSuffix(lower, ".pdf"),
		strings.HasSuffix(lower, ".csv"),
		strings.HasSuffix(lower, ".xlsx"),
		strings.HasSuffix(lower, ".txt"):
		return e.extractFile(ctx, url, lower)
	default:
		return e.extractHTML(ctx, url)
	}
}

// extractFile handles direct file links. Fetch or parse failures downgrade
// to an empty text blob rather than failing the record.
func (e *Engine) extractFile(ctx context.Context, url, lower string) model.CrawlRecord {
	rec := model.CrawlRecord{URL: url}

	var content []byte
	resp, err := e.fetch.Get(ctx, url)
	if err == nil && resp.StatusCode == http.StatusOK {
		content = resp.Body
	}

	var text string
	switch {
	case strings.HasSuffix(lower, ".pdf"):
		text, err = pdfText(content)
		if err != nil {
			zap.L().Debug("extract: pdf parse failed", zap.String("url", url), zap.Error(err))
			text = ""
		}
	case strings.HasSuffix(lower, ".csv"):
		text = fetcher.FlattenCSV(content)
	case strings.HasSuffix(lower, ".xlsx"):
		text, err = fetcher.FlattenXLSX(content)
		if err != nil {
			zap.L().Debug("extract: xlsx parse failed", zap.String("url", url), zap.Error(err))
			text = ""
		}
	default: // .txt
		text = string(content)
	}

	fillFields(&rec, text)
	return rec
}

func (e *Engine) extractHTML(ctx context.Context, url string) model.CrawlRecord {
	resp, err := e.fetch.Get(ctx, url)
	if err != nil {
		return model.CrawlRecord{URL: url, Error: err.Error()}
	}

	if resp.StatusCode == http.StatusForbidden {
		return model.CrawlRecord{URL: url, Error: "403 Firewall/Cloudflare"}
	}
	if resp.StatusCode != http.StatusOK {
		return model.CrawlRecord{URL: url, Error: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}

	title, text, socialLinks, err := parseHTML(resp.Body)
	if err != nil {
		return model.CrawlRecord{URL: url, Error: err.Error()}
	}

	rec := model.CrawlRecord{
		URL:         url,
		Title:       title,
		SocialLinks: socialLinks,
	}
	fillFields(&rec, text)
	return rec
}
