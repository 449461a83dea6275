package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	postgresContainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresDriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tweet-score-service/internal/domain"
	"tweet-score-service/internal/infra/postgres/migrations"
)

// setupTestDB starts a PostgreSQL testcontainer, applies the migrations and
// returns a connected GORM DB.
//
// Prerequisites:
//   - Docker must be running
//
// OR
//   - Skip tests with: go test -short
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	ctx := context.Background()

	pgContainer, err := postgresContainer.Run(ctx,
		"postgres:16-alpine",
		postgresContainer.WithDatabase("testdb"),
		postgresContainer.WithUsername("testuser"),
		postgresContainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container (is Docker running? use -short to skip): %v", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	db, err := gorm.Open(postgresDriver.Open(connStr), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "Failed to connect to test database")

	require.NoError(t, migrations.Run(db), "Failed to run migrations")

	t.Cleanup(func() {
		if sqlDB, _ := db.DB(); sqlDB != nil {
			_ = sqlDB.Close()
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	return db
}

func createTestProfile(userID, username string) *domain.ProfileRecord {
	return &domain.ProfileRecord{
		UserID: userID,
		Profile: domain.Profile{
			Username:          username,
			FollowersCount:    5_000,
			FollowingCount:    400,
			TweetCount:        1_200,
			Verified:          true,
			AccountAgeDays:    900,
			BioLength:         120,
			AvgEngagementRate: 0.02,
		},
	}
}

func createTestAnalysis(userID string, score float64, at time.Time) *domain.AnalysisRecord {
	return &domain.AnalysisRecord{
		ID:     fmt.Sprintf("00000000-0000-0000-0000-%012d", int(score*10)),
		UserID: userID,
		Text:   "What is the best way to learn Go?",
		Result: domain.AnalysisResult{
			Score:        score,
			ContentScore: score,
			PhoenixScore: 40,
			ProfileBoost: 1,
			Strengths:    []string{"Contains question - encourages replies"},
			Weaknesses:   []string{},
			Suggestions:  []string{},
			AppliedRules: []string{"question"},
			EngagementPrediction: map[domain.Action]float64{
				domain.ActionFavorite: 0.2,
				domain.ActionReply:    0.3,
			},
			Features: domain.TweetFeatures{Length: 34, WordCount: 8, HasQuestion: true},
		},
		CreatedAt: at,
	}
}

func TestUpsertProfile_InsertAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	rec := createTestProfile("user-1", "gopher")
	rec.Style = &domain.StyleProfile{Tone: domain.ToneProfessional, CommonWords: []string{"data"}}
	require.NoError(t, repo.UpsertProfile(ctx, rec))
	assert.False(t, rec.UpdatedAt.IsZero(), "UpdatedAt should be set")

	got, err := repo.GetProfile(ctx, "user-1", "gopher")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 5_000, got.Profile.FollowersCount)
	assert.True(t, got.Profile.Verified)
	assert.InDelta(t, 0.02, got.Profile.AvgEngagementRate, 1e-9)
	require.NotNil(t, got.Style)
	assert.Equal(t, domain.ToneProfessional, got.Style.Tone)
	assert.Nil(t, got.SyncedAt)
}

func TestGetProfile_NotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	repo := NewRepository(setupTestDB(t))

	got, err := repo.GetProfile(context.Background(), "user-1", "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpsertProfile_UpdateExisting(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	rec := createTestProfile("user-1", "gopher")
	require.NoError(t, repo.UpsertProfile(ctx, rec))
	firstUpdate := rec.UpdatedAt

	time.Sleep(10 * time.Millisecond)

	synced := time.Now().UTC()
	rec.Profile.FollowersCount = 6_000
	rec.History = domain.HistorySummary{Posts: 20, Likes: 300, Impressions: 15_000}
	rec.SyncedAt = &synced
	require.NoError(t, repo.UpsertProfile(ctx, rec))

	assert.True(t, rec.UpdatedAt.After(firstUpdate), "UpdatedAt should be newer")

	var count int64
	require.NoError(t, db.Model(&ProfileModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "upsert should not create a second row")

	got, err := repo.GetProfile(ctx, "user-1", "gopher")
	require.NoError(t, err)
	assert.Equal(t, 6_000, got.Profile.FollowersCount)
	assert.Equal(t, 20, got.History.Posts)
	require.NotNil(t, got.SyncedAt)
	assert.WithinDuration(t, synced, *got.SyncedAt, time.Second)
}

func TestUpsertProfile_SameUsernameDifferentOwners(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.UpsertProfile(ctx, createTestProfile("user-1", "gopher")))
	require.NoError(t, repo.UpsertProfile(ctx, createTestProfile("user-2", "gopher")))

	count, err := repo.CountProfiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestUpsertProfile_ConcurrentOperations(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	const goroutines = 10
	var wg sync.WaitGroup
	errChan := make(chan error, goroutines)

	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()

			rec := createTestProfile("user-1", "concurrent")
			rec.Profile.FollowersCount = i * 100
			if err := repo.UpsertProfile(ctx, rec); err != nil {
				errChan <- err
			}
		}()
	}

	wg.Wait()
	close(errChan)

	var errs []error
	for err := range errChan {
		errs = append(errs, err)
	}
	assert.Empty(t, errs, "No errors should occur during concurrent upserts")

	count, err := repo.CountProfiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "Should have exactly 1 record after concurrent upserts")
}

func TestListProfiles_NeverSyncedFirst(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	old := time.Now().UTC().Add(-48 * time.Hour)
	recent := time.Now().UTC().Add(-time.Hour)

	synced := createTestProfile("user-1", "recent")
	synced.SyncedAt = &recent
	stale := createTestProfile("user-1", "stale")
	stale.SyncedAt = &old
	never := createTestProfile("user-1", "never")

	for _, rec := range []*domain.ProfileRecord{synced, stale, never} {
		require.NoError(t, repo.UpsertProfile(ctx, rec))
	}

	got, err := repo.ListProfiles(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "never", got[0].Profile.Username)
	assert.Equal(t, "stale", got[1].Profile.Username)
	assert.Equal(t, "recent", got[2].Profile.Username)

	limited, err := repo.ListProfiles(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestSaveAnalysis_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	rec := createTestAnalysis("user-1", 72.5, time.Now().UTC())
	require.NoError(t, repo.SaveAnalysis(ctx, rec))

	page, err := repo.ListAnalyses(ctx, domain.DefaultHistoryParams("user-1"))
	require.NoError(t, err)
	require.Len(t, page.Analyses, 1)

	got := page.Analyses[0]
	assert.Equal(t, rec.ID, got.ID)
	assert.InDelta(t, 72.5, got.Result.Score, 1e-9)
	assert.Equal(t, []string{"question"}, got.Result.AppliedRules)
	assert.Equal(t, []string{"Contains question - encourages replies"}, got.Result.Strengths)
	assert.NotNil(t, got.Result.Weaknesses)
	assert.True(t, got.Result.Features.HasQuestion)
	assert.InDelta(t, 0.3, got.Result.EngagementPrediction[domain.ActionReply], 1e-9)
}

func TestListAnalyses_PaginationAndFilter(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	scores := []float64{10, 35.5, 60, 80.2, 95}
	for i, s := range scores {
		require.NoError(t, repo.SaveAnalysis(ctx, createTestAnalysis("user-1", s, base.Add(time.Duration(i)*time.Minute))))
	}
	require.NoError(t, repo.SaveAnalysis(ctx, createTestAnalysis("user-2", 50, base)))

	params := domain.HistoryParams{UserID: "user-1", Page: 1, PageSize: 2}
	page, err := repo.ListAnalyses(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Analyses, 2)
	assert.InDelta(t, 95, page.Analyses[0].Result.Score, 1e-9, "newest first")

	minScore := 60.0
	params = domain.HistoryParams{UserID: "user-1", MinScore: &minScore, Page: 1, PageSize: 10}
	page, err = repo.ListAnalyses(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)

	total, err := repo.CountAnalyses(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), total)
}

func TestAnalysisStats_AndDailyScores(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	today := time.Now().UTC().Truncate(24 * time.Hour).Add(time.Hour)
	old := today.AddDate(0, 0, -10)

	gated := createTestAnalysis("user-1", 0.8, today)
	gated.Result.Gated = true
	for _, rec := range []*domain.AnalysisRecord{
		createTestAnalysis("user-1", 40, old),
		createTestAnalysis("user-1", 75.5, today),
		createTestAnalysis("user-1", 90, today.Add(time.Minute)),
		gated,
		createTestAnalysis("user-2", 99, today),
	} {
		require.NoError(t, repo.SaveAnalysis(ctx, rec))
	}

	all, err := repo.AnalysisStats(ctx, "user-1", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), all.Count)
	assert.InDelta(t, 51.575, all.AvgScore, 1e-6)
	assert.InDelta(t, 90, all.BestScore, 1e-9)
	assert.Equal(t, int64(2), all.HighPerformers)
	assert.Equal(t, int64(1), all.Gated)

	recent, err := repo.AnalysisStats(ctx, "user-1", today.AddDate(0, 0, -7))
	require.NoError(t, err)
	assert.Equal(t, int64(3), recent.Count)

	empty, err := repo.AnalysisStats(ctx, "nobody", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, domain.AnalysisStats{}, empty)

	days, err := repo.DailyScores(ctx, "user-1", old.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, old.Format(time.DateOnly), days[0].Date)
	assert.Equal(t, int64(1), days[0].Count)
	assert.Equal(t, today.Format(time.DateOnly), days[1].Date)
	assert.Equal(t, int64(3), days[1].Count)
	assert.InDelta(t, 55.433, days[1].AvgScore, 1e-3)
}

func createTestCampaign(userID string) *domain.Campaign {
	id := uuid.NewString()
	now := time.Now().UTC()
	variants := make([]domain.Variant, 3)
	for i := range variants {
		variants[i] = domain.Variant{
			ID:       uuid.NewString(),
			Position: i,
			Text:     fmt.Sprintf("variant %d", i),
			Analysis: domain.AnalysisResult{Score: float64(50 + i*10), AppliedRules: []string{}},
		}
	}

	return &domain.Campaign{
		ID:        id,
		UserID:    userID,
		Name:      "launch post",
		Status:    domain.CampaignRunning,
		Variants:  variants,
		StartedAt: now,
	}
}

func TestCreateCampaign_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	c := createTestCampaign("user-1")
	require.NoError(t, repo.CreateCampaign(ctx, c))
	assert.False(t, c.CreatedAt.IsZero())

	got, err := repo.GetCampaign(ctx, "user-1", c.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "launch post", got.Name)
	assert.Equal(t, domain.CampaignRunning, got.Status)
	assert.Nil(t, got.EndedAt)
	require.Len(t, got.Variants, 3)
	for i, v := range got.Variants {
		assert.Equal(t, c.Variants[i].ID, v.ID)
		assert.Equal(t, c.ID, v.CampaignID)
		assert.InDelta(t, float64(50+i*10), v.Analysis.Score, 1e-9)
	}

	other, err := repo.GetCampaign(ctx, "user-2", c.ID)
	require.NoError(t, err)
	assert.Nil(t, other, "campaigns are scoped to their owner")

	list, err := repo.ListCampaigns(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Variants, 3)
}

func TestCampaign_MetricsAndWinner(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	c := createTestCampaign("user-1")
	require.NoError(t, repo.CreateCampaign(ctx, c))

	metrics := domain.VariantMetrics{Impressions: 1200, Likes: 90, Retweets: 12, Replies: 8}
	require.NoError(t, repo.UpdateVariantMetrics(ctx, c.ID, c.Variants[1].ID, metrics))

	first := c.Variants[0].ID
	require.NoError(t, repo.SetWinner(ctx, c.ID, first, time.Now().UTC()))
	winner := c.Variants[2].ID
	require.NoError(t, repo.SetWinner(ctx, c.ID, winner, time.Now().UTC()))

	got, err := repo.GetCampaign(ctx, "user-1", c.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.CampaignCompleted, got.Status)
	assert.NotNil(t, got.EndedAt)
	assert.Equal(t, metrics, got.Variants[1].VariantMetrics)
	for _, v := range got.Variants {
		assert.Equal(t, v.ID == winner, v.IsWinner, "variant %s", v.ID)
	}
}
