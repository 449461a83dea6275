package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectors_Exposure(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	c.ObserveAnalysis(82.6, false)
	c.ObserveAnalysis(3.1, true)
	c.CacheLookup(CacheHit)
	c.UpstreamCall("scraper", errors.New("boom"))
	c.HistorySync(nil)
	c.Generation("anthropic", nil)
	c.SetStoredProfiles(4)
	c.ObserveHTTP("POST", "/api/v1/tweets/analyze", 200, 15*time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	for _, m := range []string{
		"tweetscore_analyses_total",
		"tweetscore_analysis_score",
		"tweetscore_cache_requests_total",
		"tweetscore_upstream_requests_total",
		"tweetscore_history_syncs_total",
		"tweetscore_generations_total",
		"tweetscore_stored_profiles 4",
		"tweetscore_http_requests_total",
		"tweetscore_http_request_duration_seconds",
		"go_goroutines",
	} {
		assert.True(t, strings.Contains(body, m), "expected metric %s in body", m)
	}
}

func TestCollectors_Labels(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	c.ObserveAnalysis(50, true)
	c.ObserveAnalysis(60, true)
	c.ObserveAnalysis(70, false)
	c.UpstreamCall("scraper", nil)
	c.UpstreamCall("scraper", errors.New("timeout"))
	c.UpstreamCall("scraper", errors.New("timeout"))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.analyses.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.analyses.WithLabelValues("false")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.upstream.WithLabelValues("scraper", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.upstream.WithLabelValues("scraper", "success")))
}

func TestCollectors_NilIsNoop(t *testing.T) {
	var c *Collectors

	assert.NotPanics(t, func() {
		c.ObserveAnalysis(1, false)
		c.CacheLookup(CacheMiss)
		c.UpstreamCall("scraper", nil)
		c.HistorySync(nil)
		c.Generation("openai", nil)
		c.SetStoredProfiles(1)
		c.ObserveHTTP("GET", "/livez", 200, time.Millisecond)
	})
}
