package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tweet-score-service/internal/domain"
)

func analysisAt(userID string, score float64, gated bool, at time.Time) *domain.AnalysisRecord {
	return &domain.AnalysisRecord{
		UserID:    userID,
		Result:    domain.AnalysisResult{Score: score, Gated: gated},
		CreatedAt: at,
	}
}

func newAnalyticsFixture() *memoryAnalyses {
	return &memoryAnalyses{records: []*domain.AnalysisRecord{
		analysisAt("user-1", 40, false, fixedNow.AddDate(0, 0, -20)),
		analysisAt("user-1", 72.3, false, fixedNow.AddDate(0, 0, -2)),
		analysisAt("user-1", 88.4, false, fixedNow.AddDate(0, 0, -2).Add(time.Hour)),
		analysisAt("user-1", 0.8, true, fixedNow.Add(-time.Hour)),
		analysisAt("user-2", 99, false, fixedNow.Add(-time.Hour)),
	}}
}

func newAnalyticsService(repo domain.AnalysisRepository) *AnalyticsService {
	svc := NewAnalyticsService(repo, zap.NewNop())
	svc.now = fixedClock
	return svc
}

func TestAnalyticsService_Overview(t *testing.T) {
	svc := newAnalyticsService(newAnalyticsFixture())

	got, err := svc.Overview(context.Background(), "user-1")
	require.NoError(t, err)

	// (40 + 72.3 + 88.4 + 0.8) / 4 = 50.375
	assert.Equal(t, domain.AnalyticsOverview{
		TotalAnalyses:  4,
		AvgScore:       50.4,
		BestScore:      88.4,
		HighPerformers: 2,
		GatedCount:     1,
		RecentActivity: 3,
	}, *got)
}

func TestAnalyticsService_Performance(t *testing.T) {
	svc := newAnalyticsService(newAnalyticsFixture())
	ctx := context.Background()

	got, err := svc.Performance(ctx, "user-1", 0)
	require.NoError(t, err)
	assert.Equal(t, []domain.DailyScore{
		{Date: "2026-02-10", Count: 1, AvgScore: 40},
		{Date: "2026-02-28", Count: 2, AvgScore: 80.4},
		{Date: "2026-03-02", Count: 1, AvgScore: 0.8},
	}, got)

	got, err = svc.Performance(ctx, "user-1", 7)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = svc.Performance(ctx, "nobody", 5000)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAnalyticsService_NoRepository(t *testing.T) {
	svc := newAnalyticsService(nil)
	ctx := context.Background()

	overview, err := svc.Overview(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.AnalyticsOverview{}, *overview)

	daily, err := svc.Performance(ctx, "user-1", 30)
	require.NoError(t, err)
	assert.Empty(t, daily)
}
