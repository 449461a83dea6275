package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"tweet-score-service/internal/domain"
)

// AnalyticsService summarizes a user's stored analyses.
type AnalyticsService struct {
	repo   domain.AnalysisRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService. repo may be nil, in
// which case every summary is empty.
func NewAnalyticsService(repo domain.AnalysisRepository, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{repo: repo, logger: logger, now: time.Now}
}

// Overview returns all-time totals and the activity of the last seven days.
func (s *AnalyticsService) Overview(ctx context.Context, userID string) (*domain.AnalyticsOverview, error) {
	if s.repo == nil {
		return &domain.AnalyticsOverview{}, nil
	}

	all, err := s.repo.AnalysisStats(ctx, userID, time.Time{})
	if err != nil {
		s.logger.Error("aggregating analyses failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	recent, err := s.repo.AnalysisStats(ctx, userID, s.now().UTC().Add(-domain.RecentActivityWindow))
	if err != nil {
		s.logger.Error("aggregating recent analyses failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	overview := domain.NewAnalyticsOverview(all, recent.Count)
	return &overview, nil
}

// Performance returns per-day averages over the last days days, clamped to
// 1..MaxPerformanceDays. Zero selects DefaultPerformanceDays.
func (s *AnalyticsService) Performance(ctx context.Context, userID string, days int) ([]domain.DailyScore, error) {
	switch {
	case days == 0:
		days = domain.DefaultPerformanceDays
	case days < 1:
		days = 1
	case days > domain.MaxPerformanceDays:
		days = domain.MaxPerformanceDays
	}

	if s.repo == nil {
		return []domain.DailyScore{}, nil
	}

	since := s.now().UTC().AddDate(0, 0, -days)
	daily, err := s.repo.DailyScores(ctx, userID, since)
	if err != nil {
		s.logger.Error("grouping analyses failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	for i := range daily {
		daily[i].AvgScore = roundScore(daily[i].AvgScore)
	}
	if daily == nil {
		daily = []domain.DailyScore{}
	}

	return daily, nil
}
