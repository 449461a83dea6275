package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tweet-score-service/internal/domain"
)

var campaignTexts = []string{
	goodText,
	"ok",
	"Shipped a new release of our Go CLI today. Faster startup and smaller binaries.",
}

func newCampaignService(repo domain.CampaignRepository) *CampaignService {
	svc := NewCampaignService(newAnalysisService(nil, nil, nil), repo, zap.NewNop())
	svc.now = fixedClock
	return svc
}

func TestCampaignService_Create(t *testing.T) {
	repo := &memoryCampaigns{}
	svc := newCampaignService(repo)
	ctx := context.Background()

	c, err := svc.Create(ctx, CreateCampaignInput{UserID: "user-1", Name: "launch", Variants: campaignTexts})
	require.NoError(t, err)

	assert.Equal(t, domain.CampaignRunning, c.Status)
	assert.Equal(t, fixedNow, c.StartedAt)
	require.Len(t, c.Variants, 3)

	engine := domain.NewEngine(nil)
	for i, v := range c.Variants {
		assert.Equal(t, i, v.Position)
		assert.Equal(t, c.ID, v.CampaignID)
		assert.Equal(t, engine.Analyze(campaignTexts[i], nil), v.Analysis)
	}

	stored, err := repo.GetCampaign(ctx, "user-1", c.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "launch", stored.Name)
}

func TestCampaignService_Create_VariantCount(t *testing.T) {
	svc := newCampaignService(&memoryCampaigns{})

	for _, variants := range [][]string{
		{"only one"},
		{"a", "b", "c", "d", "e", "f"},
	} {
		_, err := svc.Create(context.Background(), CreateCampaignInput{UserID: "user-1", Name: "x", Variants: variants})
		assert.ErrorIs(t, err, ErrInvalidCampaign)
	}
}

func TestCampaignService_Create_RepoError(t *testing.T) {
	svc := newCampaignService(&memoryCampaigns{err: errBoom})

	_, err := svc.Create(context.Background(), CreateCampaignInput{UserID: "user-1", Name: "x", Variants: campaignTexts[:2]})
	assert.ErrorIs(t, err, errBoom)
}

func TestCampaignService_ResultsAndWinner(t *testing.T) {
	repo := &memoryCampaigns{}
	svc := newCampaignService(repo)
	ctx := context.Background()

	c, err := svc.Create(ctx, CreateCampaignInput{UserID: "user-1", Name: "launch", Variants: campaignTexts})
	require.NoError(t, err)

	results, err := svc.Results(ctx, "user-1", c.ID)
	require.NoError(t, err)
	require.Len(t, results.Variants, 3)
	assert.Equal(t, results.Variants[0].ID, results.PredictedLeader)
	assert.NotEqual(t, c.Variants[1].ID, results.PredictedLeader, "the gated variant never leads")
	assert.Empty(t, results.ObservedLeader)

	short := c.Variants[1].ID
	results, err = svc.RecordMetrics(ctx, "user-1", c.ID, short, domain.VariantMetrics{Impressions: 500, Likes: 60, Replies: 15})
	require.NoError(t, err)
	assert.Equal(t, short, results.ObservedLeader)

	results, err = svc.RecordMetrics(ctx, "user-1", c.ID, c.Variants[0].ID, domain.VariantMetrics{Impressions: 500, Likes: 20})
	require.NoError(t, err)
	assert.Equal(t, short, results.ObservedLeader)
	require.NotNil(t, results.Confidence)
	assert.Greater(t, *results.Confidence, 0.99)

	results, err = svc.SetWinner(ctx, "user-1", c.ID, short)
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignCompleted, results.Status)
	assert.Equal(t, short, results.WinnerID)

	stored, err := repo.GetCampaign(ctx, "user-1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignCompleted, stored.Status)
	require.NotNil(t, stored.EndedAt)
	assert.Equal(t, fixedNow, *stored.EndedAt)
	assert.Equal(t, 500, stored.Variants[1].Impressions)
}

func TestCampaignService_NotFound(t *testing.T) {
	repo := &memoryCampaigns{}
	svc := newCampaignService(repo)
	ctx := context.Background()

	c, err := svc.Create(ctx, CreateCampaignInput{UserID: "user-1", Name: "launch", Variants: campaignTexts[:2]})
	require.NoError(t, err)

	t.Run("other owner", func(t *testing.T) {
		_, err := svc.Results(ctx, "user-2", c.ID)
		assert.ErrorIs(t, err, ErrCampaignNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := svc.Results(ctx, "user-1", "not-a-uuid")
		assert.ErrorIs(t, err, ErrCampaignNotFound)
	})

	t.Run("unknown variant", func(t *testing.T) {
		_, err := svc.RecordMetrics(ctx, "user-1", c.ID, uuid.NewString(), domain.VariantMetrics{Impressions: 1})
		assert.ErrorIs(t, err, ErrVariantNotFound)

		_, err = svc.SetWinner(ctx, "user-1", c.ID, uuid.NewString())
		assert.ErrorIs(t, err, ErrVariantNotFound)

		stored, err := repo.GetCampaign(ctx, "user-1", c.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.CampaignRunning, stored.Status)
	})
}

func TestCampaignService_List(t *testing.T) {
	svc := newCampaignService(&memoryCampaigns{})
	ctx := context.Background()

	empty, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	first, err := svc.Create(ctx, CreateCampaignInput{UserID: "user-1", Name: "first", Variants: campaignTexts[:2]})
	require.NoError(t, err)
	second, err := svc.Create(ctx, CreateCampaignInput{UserID: "user-1", Name: "second", Variants: campaignTexts[1:]})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateCampaignInput{UserID: "user-2", Name: "other", Variants: campaignTexts[:2]})
	require.NoError(t, err)

	list, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}
