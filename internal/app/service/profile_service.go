package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"tweet-score-service/internal/domain"
	"tweet-score-service/internal/metrics"
)

// DefaultReportScore is the post score a report projects reach for when the
// caller does not name one.
const DefaultReportScore = 50.0

// ProfileDefaults holds the engine inputs used when a caller leaves them out.
type ProfileDefaults struct {
	Market     string
	NicheFocus float64
}

// ReportInput selects the profile and the projection inputs of a report.
type ReportInput struct {
	UserID     string
	Username   string
	Niche      string
	Market     string
	NicheFocus *float64
	Score      *float64
}

// ProfileReport combines every account-level projection for a stored profile.
type ProfileReport struct {
	Profile        *domain.ProfileRecord       `json:"profile"`
	TweetCred      domain.TweetCredScore       `json:"tweetcred"`
	EngagementDebt domain.EngagementDebt       `json:"engagement_debt"`
	Monetization   domain.MonetizationEstimate `json:"monetization"`
	NextBestHour   int                         `json:"next_best_hour"`
	Reach          domain.ReachPrediction      `json:"reach"`
}

// ProfileService manages stored profiles and their reports.
type ProfileService struct {
	engine   *domain.Engine
	repo     domain.ProfileRepository
	defaults ProfileDefaults
	metrics  *metrics.Collectors
	logger   *zap.Logger
	now      func() time.Time
}

// NewProfileService creates a new ProfileService.
func NewProfileService(
	engine *domain.Engine,
	repo domain.ProfileRepository,
	defaults ProfileDefaults,
	m *metrics.Collectors,
	logger *zap.Logger,
) *ProfileService {
	if defaults.Market == "" {
		defaults.Market = domain.DefaultMarket
	}

	return &ProfileService{
		engine:   engine,
		repo:     repo,
		defaults: defaults,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// Upsert stores the profile snapshot of a user. History aggregates and style
// of an existing record are kept.
func (s *ProfileService) Upsert(ctx context.Context, userID string, p domain.Profile) (*domain.ProfileRecord, error) {
	rec, err := s.repo.GetProfile(ctx, userID, p.Username)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	if rec == nil {
		rec = &domain.ProfileRecord{UserID: userID}
	}

	if p.AvgEngagementRate <= 0 && rec.History.Posts > 0 {
		p.AvgEngagementRate = rec.History.AvgEngagementRate
	}
	rec.Profile = p

	if err := s.repo.UpsertProfile(ctx, rec); err != nil {
		s.logger.Error("upserting profile failed",
			zap.String("user_id", userID),
			zap.String("username", p.Username),
			zap.Error(err),
		)
		return nil, err
	}

	s.refreshGauge(ctx)

	return rec, nil
}

// Get returns a stored profile or ErrProfileNotFound.
func (s *ProfileService) Get(ctx context.Context, userID, username string) (*domain.ProfileRecord, error) {
	rec, err := s.repo.GetProfile(ctx, userID, username)
	if err != nil {
		s.logger.Error("get profile failed", zap.String("username", username), zap.Error(err))
		return nil, err
	}
	if rec == nil {
		return nil, ErrProfileNotFound
	}

	return rec, nil
}

// Report computes TweetCred, engagement debt, monetization and reach at the
// next best hour for a stored profile.
func (s *ProfileService) Report(ctx context.Context, in ReportInput) (*ProfileReport, error) {
	rec, err := s.Get(ctx, in.UserID, in.Username)
	if err != nil {
		return nil, err
	}

	p := rec.Profile
	rate := p.AvgEngagementRate
	if rec.History.Posts > 0 {
		rate = rec.History.AvgEngagementRate
	}
	if rate <= 0 {
		rate = domain.DefaultAvgEngagementRate
	}

	focus := s.defaults.NicheFocus
	if in.NicheFocus != nil {
		focus = *in.NicheFocus
	}
	market := in.Market
	if market == "" {
		market = s.defaults.Market
	}
	score := DefaultReportScore
	if in.Score != nil {
		score = *in.Score
	}

	cred := s.engine.CalculateTweetCredWithFocus(p, rate, focus)
	next := s.engine.NextBestHour(s.now().Hour())

	report := &ProfileReport{
		Profile:        rec,
		TweetCred:      cred,
		EngagementDebt: domain.AnalyzeEngagementDebt(rec.History.Posts, rec.History.Likes, rec.History.Impressions),
		Monetization:   s.engine.EstimateMonetization(p, in.Niche, market),
		NextBestHour:   next,
		Reach: s.engine.PredictReach(domain.ReachRequest{
			Profile:   p,
			Score:     score,
			Hour:      &next,
			TweetCred: &cred.TotalScore,
		}),
	}

	s.logger.Debug("profile report built",
		zap.String("username", in.Username),
		zap.Int("tweetcred", cred.TotalScore),
		zap.Int("impressions", report.Reach.Impressions),
	)

	return report, nil
}

// CountProfiles returns the number of stored profiles.
func (s *ProfileService) CountProfiles(ctx context.Context) (int64, error) {
	return s.repo.CountProfiles(ctx)
}

func (s *ProfileService) refreshGauge(ctx context.Context) {
	n, err := s.repo.CountProfiles(ctx)
	if err != nil {
		s.logger.Warn("counting profiles failed", zap.Error(err))
		return
	}
	s.metrics.SetStoredProfiles(int(n))
}
