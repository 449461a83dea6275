package domain

import (
	"context"
	"time"
)

// ProfileRepository defines the interface for stored profiles.
// Implementations: internal/infra/postgres/repository.go
type ProfileRepository interface {
	// GetProfile returns the profile of a user by username, or nil if absent.
	GetProfile(ctx context.Context, userID, username string) (*ProfileRecord, error)

	// UpsertProfile creates or updates a profile.
	// Uses user_id + username as the unique key.
	UpsertProfile(ctx context.Context, rec *ProfileRecord) error

	// ListProfiles returns every stored profile, oldest sync first.
	ListProfiles(ctx context.Context, limit int) ([]*ProfileRecord, error)

	// CountProfiles returns the number of stored profiles.
	CountProfiles(ctx context.Context) (int64, error)
}

// AnalysisRepository defines the interface for stored analyses.
// Implementations: internal/infra/postgres/repository.go
type AnalysisRepository interface {
	// SaveAnalysis stores an analysis record.
	SaveAnalysis(ctx context.Context, rec *AnalysisRecord) error

	// ListAnalyses returns a page of a user's analyses, newest first.
	ListAnalyses(ctx context.Context, params HistoryParams) (*AnalysisPage, error)

	// CountAnalyses returns the number of stored analyses.
	CountAnalyses(ctx context.Context) (int64, error)

	// AnalysisStats aggregates a user's analyses created at or after since.
	// A zero since covers every analysis.
	AnalysisStats(ctx context.Context, userID string, since time.Time) (AnalysisStats, error)

	// DailyScores returns per-day counts and average scores since the
	// given time, oldest day first. Days without analyses are omitted.
	DailyScores(ctx context.Context, userID string, since time.Time) ([]DailyScore, error)
}

// CampaignRepository defines the interface for stored A/B campaigns.
// Implementations: internal/infra/postgres/repository.go
type CampaignRepository interface {
	// CreateCampaign stores a campaign together with its variants.
	CreateCampaign(ctx context.Context, c *Campaign) error

	// GetCampaign returns a user's campaign with its variants, or nil if absent.
	GetCampaign(ctx context.Context, userID, id string) (*Campaign, error)

	// ListCampaigns returns a user's campaigns with their variants, newest first.
	ListCampaigns(ctx context.Context, userID string) ([]*Campaign, error)

	// UpdateVariantMetrics replaces the observed counters of a variant.
	UpdateVariantMetrics(ctx context.Context, campaignID, variantID string, m VariantMetrics) error

	// SetWinner marks one variant as winner and completes the campaign.
	SetWinner(ctx context.Context, campaignID, variantID string, endedAt time.Time) error
}

// HistorySource fetches an account's recent posts.
// Implementations: internal/infra/provider/scraper/
type HistorySource interface {
	// Name returns the identifier of the source.
	Name() string

	// FetchHistory returns up to limit recent posts of username.
	FetchHistory(ctx context.Context, username string, limit int) ([]HistoricalTweet, error)

	// HealthCheck verifies the source is reachable.
	HealthCheck(ctx context.Context) error
}

// GenerationRequest describes a candidate post to generate.
type GenerationRequest struct {
	Topic       string
	Style       string
	Length      string
	StylePrompt string
}

// TextGenerator produces candidate post text. Its output is treated as
// opaque input to the engine.
// Implementations: internal/infra/provider/generator/
type TextGenerator interface {
	// Name returns the identifier of the generator.
	Name() string

	// Generate returns one candidate post.
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// Cache defines the interface for caching operations.
// Implementations: internal/infra/redis/cache.go
type Cache interface {
	// Get retrieves a value by key. Returns nil if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Clear removes all cached values.
	Clear(ctx context.Context) error
}
