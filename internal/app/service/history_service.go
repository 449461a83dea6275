package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"tweet-score-service/internal/domain"
	"tweet-score-service/internal/metrics"
)

// syncConcurrency bounds the profiles SyncAll refreshes at once.
const syncConcurrency = 4

// HistoryOptions tunes history refreshes.
type HistoryOptions struct {
	MaxTweets int           // posts fetched per profile
	BatchSize int           // profiles considered per SyncAll run
	MaxAge    time.Duration // profiles synced more recently are skipped by SyncAll
}

// SyncResult holds the result of refreshing one profile.
type SyncResult struct {
	UserID    string                `json:"user_id"`
	Username  string                `json:"username"`
	Posts     int                   `json:"posts"`
	History   domain.HistorySummary `json:"history"`
	Style     *domain.StyleProfile  `json:"style,omitempty"`
	TweetCred domain.TweetCredScore `json:"tweetcred"`
	Debt      domain.EngagementDebt `json:"engagement_debt"`
	Duration  time.Duration         `json:"duration"`
	Error     error                 `json:"-"`
}

// HistoryService refreshes stored profiles from the history source.
type HistoryService struct {
	engine  *domain.Engine
	repo    domain.ProfileRepository
	source  domain.HistorySource
	opts    HistoryOptions
	metrics *metrics.Collectors
	logger  *zap.Logger
	now     func() time.Time
}

// NewHistoryService creates a new HistoryService. source may be nil, in which
// case every sync fails with ErrHistoryUnavailable.
func NewHistoryService(
	engine *domain.Engine,
	repo domain.ProfileRepository,
	source domain.HistorySource,
	opts HistoryOptions,
	m *metrics.Collectors,
	logger *zap.Logger,
) *HistoryService {
	if opts.MaxTweets <= 0 {
		opts.MaxTweets = 50
	}

	return &HistoryService{
		engine:  engine,
		repo:    repo,
		source:  source,
		opts:    opts,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// Enabled reports whether a history source is configured.
func (s *HistoryService) Enabled() bool {
	return s.source != nil
}

// SyncProfile refreshes one stored profile.
func (s *HistoryService) SyncProfile(ctx context.Context, userID, username string) (*SyncResult, error) {
	if s.source == nil {
		return nil, ErrHistoryUnavailable
	}

	rec, err := s.repo.GetProfile(ctx, userID, username)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	if rec == nil {
		return nil, ErrProfileNotFound
	}

	result := s.syncRecord(ctx, rec)

	return &result, result.Error
}

// SyncAll refreshes every stored profile whose history is older than
// MaxAge. Partial failures are allowed and reported per profile.
func (s *HistoryService) SyncAll(ctx context.Context) ([]SyncResult, error) {
	if s.source == nil {
		return nil, ErrHistoryUnavailable
	}

	records, err := s.repo.ListProfiles(ctx, s.opts.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}

	now := s.now()
	due := make([]*domain.ProfileRecord, 0, len(records))
	for _, rec := range records {
		if rec.NeedsSync(now, s.opts.MaxAge) {
			due = append(due, rec)
		}
	}

	s.logger.Info("starting history sync",
		zap.Int("profile_count", len(due)),
		zap.Int("skipped", len(records)-len(due)),
	)

	results := make([]SyncResult, len(due))
	sem := make(chan struct{}, syncConcurrency)
	var wg sync.WaitGroup

	for i, rec := range due {
		wg.Add(1)
		go func(idx int, r *domain.ProfileRecord) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			results[idx] = s.syncRecord(ctx, r)
		}(i, rec)
	}

	wg.Wait()

	failed := 0
	for _, r := range results {
		if r.Error != nil {
			failed++
		}
	}

	s.logger.Info("history sync completed",
		zap.Int("synced", len(results)-failed),
		zap.Int("failed", failed),
	)

	return results, nil
}

// syncRecord fetches, summarizes and stores the history of one profile.
func (s *HistoryService) syncRecord(ctx context.Context, rec *domain.ProfileRecord) SyncResult {
	start := time.Now()
	username := rec.Profile.Username
	result := SyncResult{UserID: rec.UserID, Username: username}

	tweets, err := s.source.FetchHistory(ctx, username, s.opts.MaxTweets)
	s.metrics.UpstreamCall(s.source.Name(), err)
	if err != nil {
		result.Error = fmt.Errorf("%w: %w", ErrHistoryUnavailable, err)
		result.Duration = time.Since(start)
		s.metrics.HistorySync(err)
		s.logger.Warn("history fetch failed",
			zap.String("username", username),
			zap.Error(err),
		)
		return result
	}

	summary := domain.SummarizeHistory(tweets)
	style := domain.AnalyzeStyle(s.engine.Tables(), tweets)
	synced := s.now().UTC()

	rec.History = summary
	rec.Style = &style
	rec.SyncedAt = &synced
	if summary.Posts > 0 {
		rec.Profile.AvgEngagementRate = summary.AvgEngagementRate
	}

	if err := s.repo.UpsertProfile(ctx, rec); err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		s.metrics.HistorySync(err)
		s.logger.Error("storing history failed",
			zap.String("username", username),
			zap.Error(err),
		)
		return result
	}

	rate := rec.Profile.AvgEngagementRate
	if rate <= 0 {
		rate = domain.DefaultAvgEngagementRate
	}

	result.Posts = summary.Posts
	result.History = summary
	result.Style = &style
	result.TweetCred = s.engine.CalculateTweetCred(rec.Profile, rate)
	result.Debt = domain.AnalyzeEngagementDebt(summary.Posts, summary.Likes, summary.Impressions)
	result.Duration = time.Since(start)
	s.metrics.HistorySync(nil)

	s.logger.Info("history synced",
		zap.String("username", username),
		zap.Int("posts", summary.Posts),
		zap.Float64("engagement_rate", summary.AvgEngagementRate),
		zap.Duration("duration", result.Duration),
	)

	return result
}
