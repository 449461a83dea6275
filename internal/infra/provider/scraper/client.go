// Package scraper implements the post history collaborator client.
package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"tweet-score-service/internal/domain"
	"tweet-score-service/internal/infra/provider"
)

// Name is the source identifier.
const Name = "scraper"

// timelinePath is the timeline endpoint; %s is the escaped username.
const timelinePath = "/api/users/%s/tweets"

// Client implements domain.HistorySource over the scraper gateway's JSON API.
type Client struct {
	client  *resty.Client
	cb      *gobreaker.CircuitBreaker[*TimelineResponse]
	limiter *rate.Limiter
	logger  *zap.Logger
}

// New creates a new scraper client.
func New(cfg provider.ClientConfig, logger *zap.Logger) *Client {
	logger = logger.Named(Name)

	return &Client{
		client:  provider.NewRestyClient(cfg),
		cb:      provider.NewCircuitBreaker[*TimelineResponse](Name, cfg.CB, logger),
		limiter: provider.NewLimiter(cfg.RateLimit),
		logger:  logger,
	}
}

// Name returns the source identifier.
func (c *Client) Name() string {
	return Name
}

// FetchHistory retrieves up to limit recent posts of username. Posts with
// empty text are skipped.
func (c *Client) FetchHistory(ctx context.Context, username string, limit int) ([]domain.HistoricalTweet, error) {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	if username == "" {
		return nil, fmt.Errorf("fetching history: empty username")
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("fetching history of %s: %w", username, err)
		}
	}

	result, err := c.cb.Execute(func() (*TimelineResponse, error) {
		var body TimelineResponse
		r, err := c.client.R().
			SetContext(ctx).
			SetQueryParam("limit", strconv.Itoa(max(limit, 1))).
			SetResult(&body).
			Get(fmt.Sprintf(timelinePath, url.PathEscape(username)))
		if err != nil {
			return nil, err
		}
		if r.IsError() {
			return nil, fmt.Errorf("scraper returned status %d", r.StatusCode())
		}

		return &body, nil
	})
	if err != nil {
		c.logger.Warn("history fetch failed",
			zap.String("username", username),
			zap.String("state", c.cb.State().String()),
			zap.Error(err),
		)

		return nil, fmt.Errorf("fetching history of %s: %w", username, err)
	}

	tweets := make([]domain.HistoricalTweet, 0, len(result.Tweets))
	for _, item := range result.Tweets {
		if strings.TrimSpace(item.Text) == "" {
			continue
		}
		tweets = append(tweets, item.ToDomain())
		if limit > 0 && len(tweets) == limit {
			break
		}
	}

	c.logger.Debug("history fetch completed",
		zap.String("username", username),
		zap.Int("count", len(tweets)),
	)

	return tweets, nil
}

// HealthCheck verifies the gateway is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	resp, err := c.client.R().
		SetContext(ctx).
		Get("/health")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("health check returned status %d", resp.StatusCode())
	}

	return nil
}
