package probe

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/masha-osint/masha/internal/config"
	"github.com/masha-osint/masha/internal/fetcher"
	"github.com/masha-osint/masha/internal/model"
)

func testPlatforms(baseURL string, n int) []Platform {
	platforms := make([]Platform, 0, n)
	for i := 0; i < n; i++ {
		platforms = append(platforms, Platform{
			Name:        fmt.Sprintf("Platform%02d", i),
			URLTemplate: baseURL + fmt.Sprintf("/p%d/", i) + "%s",
		})
	}
	return platforms
}

func TestProbe_OnlyStatusOKCounts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/p2/maria":
			w.WriteHeader(http.StatusOK)
		case r.URL.Path == "/p5/maria":
			w.WriteHeader(http.StatusOK)
		case r.URL.Path == "/p7/maria":
			// A redirect-style soft 404 must not count as a hit.
			w.WriteHeader(http.StatusFound)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	p := New(fetcher.NewHTTPFetcher(fetcher.HTTPOptions{}), config.ProbeConfig{Width: 10, TimeoutSecs: 5},
		WithPlatforms(testPlatforms(srv.URL, 9)))

	hits := p.Probe(context.Background(), "maria")
	assert.Equal(t, []model.IdentityHit{
		{Platform: "Platform02", URL: srv.URL + "/p2/maria"},
		{Platform: "Platform05", URL: srv.URL + "/p5/maria"},
	}, hits)
}

func TestProbe_AllMissReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := New(fetcher.NewHTTPFetcher(fetcher.HTTPOptions{}), config.ProbeConfig{Width: 4, TimeoutSecs: 5},
		WithPlatforms(testPlatforms(srv.URL, 9)))

	assert.Empty(t, p.Probe(context.Background(), "ghost"))
}

func TestProbe_SlowPlatformIsDropped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/p0/maria" {
			time.Sleep(3 * time.Second)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := New(fetcher.NewHTTPFetcher(fetcher.HTTPOptions{}), config.ProbeConfig{Width: 3, TimeoutSecs: 1},
		WithPlatforms(testPlatforms(srv.URL, 3)))

	hits := p.Probe(context.Background(), "maria")
	assert.Len(t, hits, 2)
	for _, h := range hits {
		assert.NotEqual(t, "Platform00", h.Platform)
	}
}

func TestProbe_WidthBoundsConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cur := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := New(fetcher.NewHTTPFetcher(fetcher.HTTPOptions{}), config.ProbeConfig{Width: 2, TimeoutSecs: 5},
		WithPlatforms(testPlatforms(srv.URL, 8)))

	hits := p.Probe(context.Background(), "maria")
	assert.Len(t, hits, 8)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestProbe_DefaultTableHasNinePlatforms(t *testing.T) {
	platforms := DefaultPlatforms()
	assert.Len(t, platforms, 9)
	for _, plat := range platforms {
		assert.Contains(t, plat.URLTemplate, "%s")
	}
}
