package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tweet-score-service/internal/domain"
)

// Repository implements domain.ProfileRepository, domain.AnalysisRepository
// and domain.CampaignRepository using PostgreSQL.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetProfile retrieves a stored profile by owner and username.
func (r *Repository) GetProfile(ctx context.Context, userID, username string) (*domain.ProfileRecord, error) {
	var model ProfileModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND username = ?", userID, username).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Not found
		}

		return nil, fmt.Errorf("getting profile: %w", err)
	}

	return model.ToDomain(), nil
}

// UpsertProfile creates or updates a profile keyed by user_id + username.
func (r *Repository) UpsertProfile(ctx context.Context, rec *domain.ProfileRecord) error {
	model := ProfileFromDomain(rec)
	model.UpdatedAt = time.Now().UTC()

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"followers_count", "following_count", "tweet_count", "verified",
			"account_age_days", "bio_length", "avg_engagement_rate",
			"history_posts", "history_likes", "history_retweets", "history_replies", "history_impressions",
			"style", "synced_at", "updated_at",
		}),
	}).Create(model).Error

	if err != nil {
		return fmt.Errorf("upserting profile: %w", err)
	}

	// Update the domain object with database-generated fields
	rec.CreatedAt = model.CreatedAt
	rec.UpdatedAt = model.UpdatedAt

	return nil
}

// ListProfiles returns stored profiles, least recently synced first.
func (r *Repository) ListProfiles(ctx context.Context, limit int) ([]*domain.ProfileRecord, error) {
	var models []ProfileModel
	query := r.db.WithContext(ctx).
		Order("synced_at ASC NULLS FIRST").
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}

	records := make([]*domain.ProfileRecord, len(models))
	for i := range models {
		records[i] = models[i].ToDomain()
	}

	return records, nil
}

// CountProfiles returns the number of stored profiles.
func (r *Repository) CountProfiles(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ProfileModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting profiles: %w", err)
	}

	return count, nil
}

// SaveAnalysis stores an analysis record.
func (r *Repository) SaveAnalysis(ctx context.Context, rec *domain.AnalysisRecord) error {
	model := AnalysisFromDomain(rec)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("saving analysis: %w", err)
	}

	rec.CreatedAt = model.CreatedAt

	return nil
}

// ListAnalyses returns a page of a user's analyses, newest first.
func (r *Repository) ListAnalyses(ctx context.Context, params domain.HistoryParams) (*domain.AnalysisPage, error) {
	params.Validate()

	var total int64
	if err := r.analysesQuery(ctx, params).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting analyses: %w", err)
	}

	var models []AnalysisModel
	err := r.analysesQuery(ctx, params).
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("listing analyses: %w", err)
	}

	records := make([]*domain.AnalysisRecord, len(models))
	for i := range models {
		records[i] = models[i].ToDomain()
	}

	return domain.NewAnalysisPage(records, total, params), nil
}

// CountAnalyses returns the number of stored analyses.
func (r *Repository) CountAnalyses(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&AnalysisModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting analyses: %w", err)
	}

	return count, nil
}

// AnalysisStats aggregates a user's analyses created at or after since.
func (r *Repository) AnalysisStats(ctx context.Context, userID string, since time.Time) (domain.AnalysisStats, error) {
	var stats domain.AnalysisStats
	err := r.userAnalyses(ctx, userID, since).
		Select(`COUNT(*) AS count,
			COALESCE(AVG(score), 0) AS avg_score,
			COALESCE(MAX(score), 0) AS best_score,
			COUNT(*) FILTER (WHERE score >= ?) AS high_performers,
			COUNT(*) FILTER (WHERE gated) AS gated`, domain.HighPerformerScore).
		Scan(&stats).Error
	if err != nil {
		return domain.AnalysisStats{}, fmt.Errorf("aggregating analyses: %w", err)
	}

	return stats, nil
}

// DailyScores groups a user's analyses since the given time by UTC day.
func (r *Repository) DailyScores(ctx context.Context, userID string, since time.Time) ([]domain.DailyScore, error) {
	var rows []struct {
		Day      time.Time
		Count    int64
		AvgScore float64
	}
	err := r.userAnalyses(ctx, userID, since).
		Select("DATE(created_at) AS day, COUNT(*) AS count, AVG(score) AS avg_score").
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("grouping analyses by day: %w", err)
	}

	days := make([]domain.DailyScore, len(rows))
	for i, row := range rows {
		days[i] = domain.DailyScore{
			Date:     row.Day.Format(time.DateOnly),
			Count:    row.Count,
			AvgScore: row.AvgScore,
		}
	}

	return days, nil
}

// CreateCampaign stores a campaign and its variants in one transaction.
func (r *Repository) CreateCampaign(ctx context.Context, c *domain.Campaign) error {
	model := CampaignFromDomain(c)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("creating campaign: %w", err)
	}

	c.CreatedAt = model.CreatedAt
	for i := range c.Variants {
		c.Variants[i].CampaignID = model.ID
		c.Variants[i].CreatedAt = model.Variants[i].CreatedAt
	}

	return nil
}

// GetCampaign returns a user's campaign with its variants in position order.
func (r *Repository) GetCampaign(ctx context.Context, userID, id string) (*domain.Campaign, error) {
	var model CampaignModel
	err := r.campaignsQuery(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Not found
		}

		return nil, fmt.Errorf("getting campaign: %w", err)
	}

	return model.ToDomain(), nil
}

// ListCampaigns returns a user's campaigns, newest first.
func (r *Repository) ListCampaigns(ctx context.Context, userID string) ([]*domain.Campaign, error) {
	var models []CampaignModel
	err := r.campaignsQuery(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("listing campaigns: %w", err)
	}

	campaigns := make([]*domain.Campaign, len(models))
	for i := range models {
		campaigns[i] = models[i].ToDomain()
	}

	return campaigns, nil
}

// UpdateVariantMetrics replaces the observed counters of a variant.
func (r *Repository) UpdateVariantMetrics(ctx context.Context, campaignID, variantID string, m domain.VariantMetrics) error {
	err := r.db.WithContext(ctx).Model(&VariantModel{}).
		Where("id = ? AND campaign_id = ?", variantID, campaignID).
		Updates(map[string]any{
			"impressions": m.Impressions,
			"likes":       m.Likes,
			"retweets":    m.Retweets,
			"replies":     m.Replies,
		}).Error
	if err != nil {
		return fmt.Errorf("updating variant metrics: %w", err)
	}

	return nil
}

// SetWinner marks variantID as the only winner and completes the campaign.
func (r *Repository) SetWinner(ctx context.Context, campaignID, variantID string, endedAt time.Time) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&VariantModel{}).
			Where("campaign_id = ?", campaignID).
			Update("is_winner", gorm.Expr("id = ?", variantID)).Error; err != nil {
			return err
		}

		return tx.Model(&CampaignModel{}).
			Where("id = ?", campaignID).
			Updates(map[string]any{
				"status":   string(domain.CampaignCompleted),
				"ended_at": endedAt,
			}).Error
	})
	if err != nil {
		return fmt.Errorf("setting winner: %w", err)
	}

	return nil
}

// campaignsQuery preloads variants in position order.
func (r *Repository) campaignsQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Variants", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

// userAnalyses scopes the analyses of one user created at or after since.
func (r *Repository) userAnalyses(ctx context.Context, userID string, since time.Time) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&AnalysisModel{}).Where("user_id = ?", userID)
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}

	return query
}

// analysesQuery builds the WHERE clause of a history listing.
func (r *Repository) analysesQuery(ctx context.Context, params domain.HistoryParams) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&AnalysisModel{}).Where("user_id = ?", params.UserID)
	if params.MinScore != nil {
		query = query.Where("score >= ?", *params.MinScore)
	}

	return query
}
