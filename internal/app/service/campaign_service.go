package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tweet-score-service/internal/domain"
)

// CreateCampaignInput names a campaign and its candidate texts.
type CreateCampaignInput struct {
	UserID   string
	Name     string
	Variants []string
	Profile  *domain.Profile
}

// CampaignService runs A/B comparisons between variants of a post.
type CampaignService struct {
	analysis *AnalysisService
	repo     domain.CampaignRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewCampaignService creates a new CampaignService.
func NewCampaignService(analysis *AnalysisService, repo domain.CampaignRepository, logger *zap.Logger) *CampaignService {
	return &CampaignService{
		analysis: analysis,
		repo:     repo,
		logger:   logger,
		now:      time.Now,
	}
}

// Create scores every variant and stores the running campaign.
func (s *CampaignService) Create(ctx context.Context, in CreateCampaignInput) (*domain.Campaign, error) {
	if n := len(in.Variants); n < domain.MinCampaignVariants || n > domain.MaxCampaignVariants {
		return nil, fmt.Errorf("%w: %d variants, want %d to %d",
			ErrInvalidCampaign, n, domain.MinCampaignVariants, domain.MaxCampaignVariants)
	}

	results, err := s.analysis.AnalyzeBatch(ctx, in.Variants, in.Profile)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	c := &domain.Campaign{
		ID:        uuid.NewString(),
		UserID:    in.UserID,
		Name:      in.Name,
		Status:    domain.CampaignRunning,
		Variants:  make([]domain.Variant, len(in.Variants)),
		StartedAt: now,
	}
	for i, text := range in.Variants {
		c.Variants[i] = domain.Variant{
			ID:         uuid.NewString(),
			CampaignID: c.ID,
			Position:   i,
			Text:       text,
			Analysis:   results[i],
		}
	}

	if err := s.repo.CreateCampaign(ctx, c); err != nil {
		s.logger.Error("creating campaign failed", zap.String("user_id", in.UserID), zap.Error(err))
		return nil, fmt.Errorf("creating campaign: %w", err)
	}

	s.logger.Info("campaign created",
		zap.String("campaign_id", c.ID),
		zap.Int("variants", len(c.Variants)),
	)

	return c, nil
}

// List returns the user's campaigns, newest first.
func (s *CampaignService) List(ctx context.Context, userID string) ([]*domain.Campaign, error) {
	campaigns, err := s.repo.ListCampaigns(ctx, userID)
	if err != nil {
		s.logger.Error("listing campaigns failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if campaigns == nil {
		campaigns = []*domain.Campaign{}
	}

	return campaigns, nil
}

// Results compares the variants of one campaign.
func (s *CampaignService) Results(ctx context.Context, userID, id string) (*domain.CampaignResults, error) {
	c, err := s.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	results := domain.CompareVariants(c)
	return &results, nil
}

// RecordMetrics stores the observed counters of a variant and returns the
// updated comparison.
func (s *CampaignService) RecordMetrics(ctx context.Context, userID, id, variantID string, m domain.VariantMetrics) (*domain.CampaignResults, error) {
	c, err := s.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	v := c.Variant(variantID)
	if v == nil {
		return nil, ErrVariantNotFound
	}

	if err := s.repo.UpdateVariantMetrics(ctx, c.ID, v.ID, m); err != nil {
		s.logger.Error("updating variant metrics failed", zap.String("variant_id", v.ID), zap.Error(err))
		return nil, fmt.Errorf("updating variant metrics: %w", err)
	}
	v.VariantMetrics = m

	results := domain.CompareVariants(c)
	return &results, nil
}

// SetWinner declares variantID the winner and completes the campaign.
// Declaring a new winner on a completed campaign replaces the old one.
func (s *CampaignService) SetWinner(ctx context.Context, userID, id, variantID string) (*domain.CampaignResults, error) {
	c, err := s.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	endedAt := s.now().UTC()
	if !c.DeclareWinner(variantID, endedAt) {
		return nil, ErrVariantNotFound
	}

	if err := s.repo.SetWinner(ctx, c.ID, variantID, endedAt); err != nil {
		s.logger.Error("setting winner failed", zap.String("campaign_id", c.ID), zap.Error(err))
		return nil, fmt.Errorf("setting winner: %w", err)
	}

	s.logger.Info("campaign completed",
		zap.String("campaign_id", c.ID),
		zap.String("winner_id", variantID),
	)

	results := domain.CompareVariants(c)
	return &results, nil
}

func (s *CampaignService) get(ctx context.Context, userID, id string) (*domain.Campaign, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrCampaignNotFound
	}

	c, err := s.repo.GetCampaign(ctx, userID, id)
	if err != nil {
		s.logger.Error("getting campaign failed", zap.String("campaign_id", id), zap.Error(err))
		return nil, err
	}
	if c == nil {
		return nil, ErrCampaignNotFound
	}

	return c, nil
}
