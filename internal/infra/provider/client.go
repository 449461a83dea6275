// Package provider provides HTTP client utilities for external collaborators.
package provider

import (
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ClientConfig holds configuration for a collaborator client.
type ClientConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	APIKey    string // sent as a bearer token when set
	Retry     RetryConfig
	CB        CBConfig
	RateLimit RateLimitConfig
}

// RetryConfig holds retry configuration.
type RetryConfig struct {
	MaxAttempts int
	WaitTime    time.Duration
	MaxWaitTime time.Duration
}

// CBConfig holds circuit breaker configuration.
type CBConfig struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
}

// RateLimitConfig holds the outbound token bucket settings.
// A zero RPS disables limiting.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// NewRestyClient creates a Resty HTTP client that retries network errors,
// 429 and 5xx responses with backoff.
func NewRestyClient(cfg ClientConfig) *resty.Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.Retry.MaxAttempts).
		SetRetryWaitTime(cfg.Retry.WaitTime).
		SetRetryMaxWaitTime(cfg.Retry.MaxWaitTime).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}

			return r.StatusCode() == 429 || r.StatusCode() >= 500
		})

	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	return client
}

// NewCircuitBreaker creates a circuit breaker that trips once at least three
// requests were seen and the failure ratio reaches cfg.FailureRatio.
func NewCircuitBreaker[T any](name string, cfg CBConfig, logger *zap.Logger) *gobreaker.CircuitBreaker[T] {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)

			return counts.Requests >= 3 && failureRatio >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return gobreaker.NewCircuitBreaker[T](settings)
}

// NewLimiter creates the outbound token bucket. It returns nil when
// limiting is disabled.
func NewLimiter(cfg RateLimitConfig) *rate.Limiter {
	if cfg.RPS <= 0 {
		return nil
	}

	return rate.NewLimiter(rate.Limit(cfg.RPS), max(cfg.Burst, 1))
}
