package scraper

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tweet-score-service/internal/infra/provider"
)

const (
	testBaseURL  = "https://scraper.example.com"
	testEndpoint = testBaseURL + "/api/users/gopher/tweets"
)

func newTestClient(rl provider.RateLimitConfig) *Client {
	cfg := provider.ClientConfig{
		BaseURL: testBaseURL,
		Timeout: 5 * time.Second,
		Retry: provider.RetryConfig{
			MaxAttempts: 2,
			WaitTime:    10 * time.Millisecond,
			MaxWaitTime: 50 * time.Millisecond,
		},
		CB: provider.CBConfig{
			MaxRequests:  5,
			Interval:     60 * time.Second,
			Timeout:      15 * time.Second,
			FailureRatio: 0.6,
		},
		RateLimit: rl,
	}
	client := New(cfg, zap.NewNop())

	httpmock.ActivateNonDefault(client.client.GetClient())

	return client
}

func mockTimeline() TimelineResponse {
	return TimelineResponse{
		Username: "gopher",
		Tweets: []TweetItem{
			{ID: "1", Text: "Shipping a new release today 🚀", Likes: 40, Retweets: 5, Replies: 3, Impressions: 2_000, CreatedAt: "2026-01-15T10:00:00Z"},
			{ID: "2", Text: "   ", Likes: 1},
			{ID: "3", Text: "What do you think about generics?", Likes: 12, Replies: 9},
			{ID: "4", Text: "Negative counters are clamped", Likes: -5, Impressions: -1},
		},
	}
}

func TestScraper_FetchHistory_Success(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testEndpoint,
		httpmock.NewJsonResponderOrPanic(200, mockTimeline()))

	client := newTestClient(provider.RateLimitConfig{})
	tweets, err := client.FetchHistory(context.Background(), "@gopher", 20)

	require.NoError(t, err)
	require.Len(t, tweets, 3, "blank posts are skipped")

	assert.Equal(t, "1", tweets[0].ID)
	assert.Equal(t, 40, tweets[0].Likes)
	assert.Equal(t, 2_000, tweets[0].Impressions)
	assert.Equal(t, 0, tweets[1].Impressions, "missing view count stays zero")
	assert.Equal(t, 0, tweets[2].Likes)
	assert.Equal(t, 0, tweets[2].Impressions)

	info := httpmock.GetCallCountInfo()
	assert.Equal(t, 1, info["GET "+testEndpoint])
}

func TestScraper_FetchHistory_SendsLimit(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponderWithQuery("GET", testEndpoint, "limit=2",
		httpmock.NewJsonResponderOrPanic(200, mockTimeline()))

	client := newTestClient(provider.RateLimitConfig{})
	tweets, err := client.FetchHistory(context.Background(), "gopher", 2)

	require.NoError(t, err)
	assert.Len(t, tweets, 2, "result is truncated to the limit")
}

func TestScraper_FetchHistory_EmptyUsername(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	client := newTestClient(provider.RateLimitConfig{})
	tweets, err := client.FetchHistory(context.Background(), " @ ", 10)

	require.Error(t, err)
	assert.Nil(t, tweets)
	assert.Zero(t, httpmock.GetTotalCallCount())
}

func TestScraper_FetchHistory_HTTPError(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	tests := []struct {
		name       string
		statusCode int
	}{
		{"404 Not Found", 404},
		{"429 Too Many Requests", 429},
		{"502 Bad Gateway", 502},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpmock.Reset()
			httpmock.RegisterResponder("GET", testEndpoint,
				httpmock.NewStringResponder(tt.statusCode, "Error"))

			client := newTestClient(provider.RateLimitConfig{})
			tweets, err := client.FetchHistory(context.Background(), "gopher", 10)

			require.Error(t, err)
			assert.Nil(t, tweets)
			assert.Contains(t, err.Error(), fmt.Sprintf("status %d", tt.statusCode))
		})
	}
}

func TestScraper_FetchHistory_RetriesServerErrors(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	calls := 0
	httpmock.RegisterResponder("GET", testEndpoint,
		func(_ *http.Request) (*http.Response, error) {
			calls++
			if calls == 1 {
				return httpmock.NewStringResponse(503, "busy"), nil
			}

			return httpmock.NewJsonResponse(200, mockTimeline())
		})

	client := newTestClient(provider.RateLimitConfig{})
	tweets, err := client.FetchHistory(context.Background(), "gopher", 10)

	require.NoError(t, err)
	assert.Len(t, tweets, 3)
	assert.Equal(t, 2, calls)
}

func TestScraper_FetchHistory_NetworkError(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testEndpoint,
		httpmock.NewErrorResponder(fmt.Errorf("connection refused")))

	client := newTestClient(provider.RateLimitConfig{})
	tweets, err := client.FetchHistory(context.Background(), "gopher", 10)

	require.Error(t, err)
	assert.Nil(t, tweets)
	assert.Contains(t, err.Error(), "fetching history of gopher")
}

func TestScraper_FetchHistory_ContextCancellation(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testEndpoint,
		func(_ *http.Request) (*http.Response, error) {
			time.Sleep(200 * time.Millisecond)

			return httpmock.NewJsonResponse(200, mockTimeline())
		})

	client := newTestClient(provider.RateLimitConfig{})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	tweets, err := client.FetchHistory(ctx, "gopher", 10)

	require.Error(t, err)
	assert.Nil(t, tweets)
}

func TestScraper_RateLimiterRejectsExpiredContext(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testEndpoint,
		httpmock.NewJsonResponderOrPanic(200, mockTimeline()))

	client := newTestClient(provider.RateLimitConfig{RPS: 0.001, Burst: 1})

	_, err := client.FetchHistory(context.Background(), "gopher", 10)
	require.NoError(t, err, "first call uses the burst token")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = client.FetchHistory(ctx, "gopher", 10)
	require.Error(t, err, "second call cannot get a token before the deadline")
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestScraper_CircuitBreaker_Opens(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testEndpoint,
		httpmock.NewStringResponder(500, "Internal Server Error"))

	client := newTestClient(provider.RateLimitConfig{})

	for range 3 {
		_, err := client.FetchHistory(context.Background(), "gopher", 10)
		require.Error(t, err)
	}

	before := httpmock.GetTotalCallCount()
	_, err := client.FetchHistory(context.Background(), "gopher", 10)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker is open")
	assert.Equal(t, before, httpmock.GetTotalCallCount(), "open breaker short-circuits the request")
}

func TestScraper_HealthCheck(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	client := newTestClient(provider.RateLimitConfig{})

	httpmock.RegisterResponder("GET", testBaseURL+"/health",
		httpmock.NewStringResponder(200, `{"status":"ok"}`))
	assert.NoError(t, client.HealthCheck(context.Background()))

	httpmock.Reset()
	httpmock.RegisterResponder("GET", testBaseURL+"/health",
		httpmock.NewStringResponder(404, "nope"))
	assert.Error(t, client.HealthCheck(context.Background()))

	assert.Equal(t, Name, client.Name())
}
