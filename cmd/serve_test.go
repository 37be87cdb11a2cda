//go:build !integration

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/masha-osint/masha/internal/config"
	"github.com/masha-osint/masha/internal/model"
	"github.com/masha-osint/masha/internal/pipeline"
	"github.com/masha-osint/masha/pkg/brain"
	brainmocks "github.com/masha-osint/masha/pkg/brain/mocks"
	"github.com/masha-osint/masha/pkg/serpapi"
	serpmocks "github.com/masha-osint/masha/pkg/serpapi/mocks"
)

type noopProber struct{}

func (noopProber) Probe(ctx context.Context, username string) []model.IdentityHit { return nil }

type noopExtractor struct{}

func (noopExtractor) Extract(ctx context.Context, url string) model.CrawlRecord {
	return model.CrawlRecord{URL: url}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	brainClient := &brainmocks.MockClient{}
	brainClient.On("Plan", mock.Anything, mock.Anything).
		Return(&brain.Plan{Dorks: []string{}}, nil).Maybe()
	brainClient.On("Synthesize", mock.Anything, mock.Anything).
		Return(&brain.Dossier{Summary: "ok"}, nil).Maybe()

	searchClient := &serpmocks.MockClient{}
	searchClient.On("Search", mock.Anything, mock.Anything).
		Return(&serpapi.SearchResponse{}, nil).Maybe()

	testCfg := &config.Config{}
	testCfg.Pipeline.ReportsDir = t.TempDir()

	inv := pipeline.New(testCfg, brainClient, searchClient, noopProber{}, noopExtractor{}, nil)
	return newRouter(inv, nil)
}

func TestRouter_Health(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestRouter_CreateInvestigation_Accepted(t *testing.T) {
	r := newTestRouter(t)

	body := strings.NewReader(`{"target": "maria@exemplo.com", "mode": "search"}`)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/investigations", body))

	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "accepted", resp["status"])
	assert.NotEmpty(t, resp["id"])
}

func TestRouter_CreateInvestigation_DefaultsToFullMode(t *testing.T) {
	r := newTestRouter(t)

	body := strings.NewReader(`{"target": "maria@exemplo.com"}`)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/investigations", body))

	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestRouter_CreateInvestigation_InvalidMode(t *testing.T) {
	r := newTestRouter(t)

	body := strings.NewReader(`{"target": "maria", "mode": "turbo"}`)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/investigations", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid mode")
}

func TestRouter_CreateInvestigation_EmptyTarget(t *testing.T) {
	r := newTestRouter(t)

	for _, payload := range []string{`{"target": ""}`, `{"target": "   "}`, `{}`} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/investigations", strings.NewReader(payload)))

		assert.Equal(t, http.StatusBadRequest, rec.Code, "payload %s", payload)
		assert.Contains(t, rec.Body.String(), "empty target")
	}
}

func TestRouter_CreateInvestigation_BadBody(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/investigations", strings.NewReader("{")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_RegistryStats_NoRegistry(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/registry/stats", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
