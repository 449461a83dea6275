// Package registry builds the outbound collaborator clients from configuration.
package registry

import (
	"go.uber.org/zap"

	"tweet-score-service/internal/config"
	"tweet-score-service/internal/domain"
	"tweet-score-service/internal/infra/provider"
	"tweet-score-service/internal/infra/provider/generator"
	"tweet-score-service/internal/infra/provider/scraper"
)

// NewHistorySource creates the scraper client. It returns nil when no base
// URL is configured.
func NewHistorySource(cfg config.ScraperConfig, logger *zap.Logger) domain.HistorySource {
	if cfg.BaseURL == "" {
		return nil
	}

	return scraper.New(
		provider.ClientConfig{
			BaseURL:   cfg.BaseURL,
			Timeout:   cfg.Timeout,
			UserAgent: cfg.UserAgent,
			APIKey:    cfg.APIKey,
			Retry: provider.RetryConfig{
				MaxAttempts: cfg.Retry.MaxAttempts,
				WaitTime:    cfg.Retry.WaitTime,
				MaxWaitTime: cfg.Retry.MaxWaitTime,
			},
			CB: circuitBreaker(cfg.CB),
			RateLimit: provider.RateLimitConfig{
				RPS:   cfg.RateLimit.RPS,
				Burst: cfg.RateLimit.Burst,
			},
		},
		logger,
	)
}

// NewGenerator creates the configured text generator. It returns nil when
// generation is disabled.
func NewGenerator(cfg config.GeneratorConfig, logger *zap.Logger) domain.TextGenerator {
	genCfg := generator.Config{
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		BaseURL:     cfg.BaseURL,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Timeout:     cfg.Timeout,
		MaxRetries:  cfg.MaxRetries,
		CB:          circuitBreaker(cfg.CB),
	}

	switch cfg.Provider {
	case generator.AnthropicName:
		return generator.NewAnthropic(genCfg, logger)
	case generator.OpenAIName:
		return generator.NewOpenAI(genCfg, logger)
	default:
		return nil
	}
}

func circuitBreaker(cfg config.CBConfig) provider.CBConfig {
	return provider.CBConfig{
		MaxRequests:  cfg.MaxRequests,
		Interval:     cfg.Interval,
		Timeout:      cfg.Timeout,
		FailureRatio: cfg.FailureRatio,
	}
}
