// Package fetcher provides the HTTP fetch primitive shared by the crawler,
// the identity prober, and the open-data ingestion, plus parsers for the
// tabular formats the crawler and loader consume.
package fetcher

import (
	"context"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// chromeUserAgent is the fingerprint presented on every request. Several of
// the probed platforms and crawled sites serve error pages to obvious bots.
const chromeUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/110.0.0.0 Safari/537.36"

// HTTPOptions configures the HTTP fetcher.
type HTTPOptions struct {
	UserAgent    string
	Timeout      time.Duration
	MaxRetries   int
	MaxBodyBytes int64
	RateLimiters map[string]*rate.Limiter
}

// Response is a completed HTTP exchange. A non-2xx status is not an error:
// callers decide what a 403 or 500 means for them.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// HTTPFetcher performs GET requests with a browser fingerprint, bounded
// retries on transient failures, and optional per-host rate limiting.
type HTTPFetcher struct {
	client   *http.Client
	opts     HTTPOptions
	limiters map[string]*rate.Limiter
}

// NewHTTPFetcher creates an HTTPFetcher with the given options.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 1
	}
	if opts.UserAgent == "" {
		opts.UserAgent = chromeUserAgent
	}
	if opts.MaxBodyBytes == 0 {
		opts.MaxBodyBytes = 2 << 20
	}
	limiters := make(map[string]*rate.Limiter)
	for k, v := range opts.RateLimiters {
		limiters[k] = v
	}
	return &HTTPFetcher{
		client:   &http.Client{Timeout: opts.Timeout},
		opts:     opts,
		limiters: limiters,
	}
}

// Get fetches a URL and returns the response, whatever its status code.
// Network errors are retried up to MaxRetries with jittered backoff; 429 and
// 5xx responses are retried the same way, and the last response is returned
// when retries are exhausted.
func (f *HTTPFetcher) Get(ctx context.Context, rawURL string) (*Response, error) {
	if err := f.waitLimiter(ctx, rawURL); err != nil {
		return nil, err
	}

	var lastResp *Response
	var lastErr error

	for attempt := 0; attempt <= f.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepBackoff(ctx, attempt); err != nil {
				break
			}
		}

		resp, err := f.do(ctx, rawURL)
		if err != nil {
			lastErr = err
			lastResp = nil
			continue
		}

		lastResp = resp
		lastErr = nil

		if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode < 500 {
			return resp, nil
		}
		zap.L().Debug("fetcher: retryable status",
			zap.String("url", rawURL),
			zap.Int("status", resp.StatusCode),
			zap.Int("attempt", attempt),
		)
	}

	if lastResp != nil {
		return lastResp, nil
	}
	return nil, eris.Wrapf(lastErr, "fetcher: get %s", rawURL)
}

// Status performs a single GET and returns only the status code. No retries:
// the identity prober treats any failure as a miss.
func (f *HTTPFetcher) Status(ctx context.Context, rawURL string) (int, error) {
	resp, err := f.do(ctx, rawURL)
	if err != nil {
		return 0, err
	}
	return resp.StatusCode, nil
}

// Download streams a URL to destPath, creating parent directories. Returns
// the number of bytes written.
func (f *HTTPFetcher) Download(ctx context.Context, rawURL, destPath string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return 0, eris.Wrap(err, "fetcher: create download dir")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, eris.Wrap(err, "fetcher: create request")
	}
	f.setHeaders(req)

	// No client timeout here: archive downloads routinely outlive the
	// page-fetch deadline. Context cancellation still applies.
	client := &http.Client{Transport: f.client.Transport}
	resp, err := client.Do(req)
	if err != nil {
		return 0, eris.Wrapf(err, "fetcher: download %s", rawURL)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return 0, eris.Errorf("fetcher: download %s: status %d", rawURL, resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return 0, eris.Wrap(err, "fetcher: create dest file")
	}
	defer out.Close() //nolint:errcheck

	n, err := io.Copy(out, resp.Body)
	if err != nil {
		return n, eris.Wrapf(err, "fetcher: write %s", destPath)
	}
	return n, nil
}

func (f *HTTPFetcher) do(ctx context.Context, rawURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: create request")
	}
	f.setHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.opts.MaxBodyBytes))
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// setHeaders applies the browser fingerprint.
func (f *HTTPFetcher) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,pt-BR;q=0.8")
	req.Header.Set("Sec-Ch-Ua", `"Chromium";v="110", "Not A(Brand";v="24"`)
	req.Header.Set("Sec-Ch-Ua-Mobile", "?0")
	req.Header.Set("Sec-Ch-Ua-Platform", `"Windows"`)
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}

// waitLimiter blocks on the per-host rate limiter, if one is configured.
func (f *HTTPFetcher) waitLimiter(ctx context.Context, rawURL string) error {
	if len(f.limiters) == 0 {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	limiter, ok := f.limiters[u.Host]
	if !ok {
		return nil
	}
	if err := limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "fetcher: rate limit wait")
	}
	return nil
}

func sleepBackoff(ctx context.Context, attempt int) error {
	base := 300 * time.Millisecond
	d := time.Duration(float64(base) * math.Pow(2, float64(attempt-1)))
	d += time.Duration(rand.Int64N(int64(d) / 2))
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
