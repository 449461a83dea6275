package postgres

import (
	"time"

	"tweet-score-service/internal/domain"

	"github.com/lib/pq"
)

// ProfileModel is the GORM model for the profiles table.
type ProfileModel struct {
	ID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID   string `gorm:"type:varchar(100);not null;index:idx_profiles_user_username,unique"`
	Username string `gorm:"type:varchar(50);not null;index:idx_profiles_user_username,unique"`

	// Account snapshot
	FollowersCount    int     `gorm:"default:0"`
	FollowingCount    int     `gorm:"default:0"`
	TweetCount        int     `gorm:"default:0"`
	Verified          bool    `gorm:"default:false"`
	AccountAgeDays    int     `gorm:"default:0"`
	BioLength         int     `gorm:"default:0"`
	AvgEngagementRate float64 `gorm:"type:decimal(10,5);default:0"`

	// History aggregates
	HistoryPosts       int `gorm:"default:0"`
	HistoryLikes       int `gorm:"default:0"`
	HistoryRetweets    int `gorm:"default:0"`
	HistoryReplies     int `gorm:"default:0"`
	HistoryImpressions int `gorm:"default:0"`

	Style *domain.StyleProfile `gorm:"type:jsonb;serializer:json"`

	// Timestamps
	SyncedAt  *time.Time `gorm:"index"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
}

// TableName returns the table name for ProfileModel.
func (ProfileModel) TableName() string {
	return "profiles"
}

// ToDomain converts ProfileModel to domain.ProfileRecord.
func (m *ProfileModel) ToDomain() *domain.ProfileRecord {
	return &domain.ProfileRecord{
		UserID: m.UserID,
		Profile: domain.Profile{
			Username:          m.Username,
			FollowersCount:    m.FollowersCount,
			FollowingCount:    m.FollowingCount,
			TweetCount:        m.TweetCount,
			Verified:          m.Verified,
			AccountAgeDays:    m.AccountAgeDays,
			BioLength:         m.BioLength,
			AvgEngagementRate: m.AvgEngagementRate,
		},
		History: domain.HistorySummary{
			Posts:             m.HistoryPosts,
			Likes:             m.HistoryLikes,
			Retweets:          m.HistoryRetweets,
			Replies:           m.HistoryReplies,
			Impressions:       m.HistoryImpressions,
			AvgEngagementRate: m.AvgEngagementRate,
		},
		Style:     m.Style,
		SyncedAt:  m.SyncedAt,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ProfileFromDomain creates a ProfileModel from domain.ProfileRecord.
func ProfileFromDomain(r *domain.ProfileRecord) *ProfileModel {
	p := r.Profile
	return &ProfileModel{
		UserID:             r.UserID,
		Username:           p.Username,
		FollowersCount:     p.FollowersCount,
		FollowingCount:     p.FollowingCount,
		TweetCount:         p.TweetCount,
		Verified:           p.Verified,
		AccountAgeDays:     p.AccountAgeDays,
		BioLength:          p.BioLength,
		AvgEngagementRate:  p.AvgEngagementRate,
		HistoryPosts:       r.History.Posts,
		HistoryLikes:       r.History.Likes,
		HistoryRetweets:    r.History.Retweets,
		HistoryReplies:     r.History.Replies,
		HistoryImpressions: r.History.Impressions,
		Style:              r.Style,
		SyncedAt:           r.SyncedAt,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

// AnalysisModel is the GORM model for the analyses table.
type AnalysisModel struct {
	ID     string `gorm:"type:uuid;primaryKey"`
	UserID string `gorm:"type:varchar(100);not null;index"`
	Text   string `gorm:"type:text;not null"`

	// Scores
	Score        float64 `gorm:"type:decimal(5,1);not null;index"`
	ContentScore float64 `gorm:"type:decimal(5,1)"`
	PhoenixScore float64 `gorm:"type:decimal(5,1)"`
	ProfileBoost float64 `gorm:"type:decimal(5,2)"`
	Gated        bool    `gorm:"default:false"`

	// Explanations
	AppliedRules pq.StringArray `gorm:"type:text[]"`
	Strengths    pq.StringArray `gorm:"type:text[]"`
	Weaknesses   pq.StringArray `gorm:"type:text[]"`
	Suggestions  pq.StringArray `gorm:"type:text[]"`

	Features             domain.TweetFeatures      `gorm:"type:jsonb;serializer:json"`
	EngagementPrediction map[domain.Action]float64 `gorm:"type:jsonb;serializer:json"`

	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

// TableName returns the table name for AnalysisModel.
func (AnalysisModel) TableName() string {
	return "analyses"
}

// ToDomain converts AnalysisModel to domain.AnalysisRecord.
func (m *AnalysisModel) ToDomain() *domain.AnalysisRecord {
	return &domain.AnalysisRecord{
		ID:     m.ID,
		UserID: m.UserID,
		Text:   m.Text,
		Result: domain.AnalysisResult{
			Score:                m.Score,
			ContentScore:         m.ContentScore,
			PhoenixScore:         m.PhoenixScore,
			ProfileBoost:         m.ProfileBoost,
			Gated:                m.Gated,
			Strengths:            nonNil(m.Strengths),
			Weaknesses:           nonNil(m.Weaknesses),
			Suggestions:          nonNil(m.Suggestions),
			EngagementPrediction: m.EngagementPrediction,
			AppliedRules:         nonNil(m.AppliedRules),
			Features:             m.Features,
		},
		CreatedAt: m.CreatedAt,
	}
}

// AnalysisFromDomain creates an AnalysisModel from domain.AnalysisRecord.
func AnalysisFromDomain(r *domain.AnalysisRecord) *AnalysisModel {
	res := r.Result
	return &AnalysisModel{
		ID:                   r.ID,
		UserID:               r.UserID,
		Text:                 r.Text,
		Score:                res.Score,
		ContentScore:         res.ContentScore,
		PhoenixScore:         res.PhoenixScore,
		ProfileBoost:         res.ProfileBoost,
		Gated:                res.Gated,
		AppliedRules:         res.AppliedRules,
		Strengths:            res.Strengths,
		Weaknesses:           res.Weaknesses,
		Suggestions:          res.Suggestions,
		Features:             res.Features,
		EngagementPrediction: res.EngagementPrediction,
		CreatedAt:            r.CreatedAt,
	}
}

func nonNil(a pq.StringArray) []string {
	if a == nil {
		return []string{}
	}
	return a
}

// CampaignModel is the GORM model for the ab_campaigns table.
type CampaignModel struct {
	ID        string         `gorm:"type:uuid;primaryKey"`
	UserID    string         `gorm:"type:varchar(100);not null;index"`
	Name      string         `gorm:"type:varchar(255);not null"`
	Status    string         `gorm:"type:varchar(20);not null;default:running"`
	Variants  []VariantModel `gorm:"foreignKey:CampaignID;constraint:OnDelete:CASCADE"`
	StartedAt time.Time      `gorm:"not null"`
	EndedAt   *time.Time
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName returns the table name for CampaignModel.
func (CampaignModel) TableName() string {
	return "ab_campaigns"
}

// VariantModel is the GORM model for the ab_variants table.
type VariantModel struct {
	ID         string                `gorm:"type:uuid;primaryKey"`
	CampaignID string                `gorm:"type:uuid;not null;index"`
	Position   int                   `gorm:"not null"`
	Text       string                `gorm:"type:text;not null"`
	Score      float64               `gorm:"type:decimal(5,1);not null"`
	Analysis   domain.AnalysisResult `gorm:"type:jsonb;serializer:json"`

	// Observed metrics
	Impressions int  `gorm:"default:0"`
	Likes       int  `gorm:"default:0"`
	Retweets    int  `gorm:"default:0"`
	Replies     int  `gorm:"default:0"`
	IsWinner    bool `gorm:"default:false"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName returns the table name for VariantModel.
func (VariantModel) TableName() string {
	return "ab_variants"
}

// ToDomain converts CampaignModel to domain.Campaign.
func (m *CampaignModel) ToDomain() *domain.Campaign {
	c := &domain.Campaign{
		ID:        m.ID,
		UserID:    m.UserID,
		Name:      m.Name,
		Status:    domain.CampaignStatus(m.Status),
		Variants:  make([]domain.Variant, len(m.Variants)),
		StartedAt: m.StartedAt,
		EndedAt:   m.EndedAt,
		CreatedAt: m.CreatedAt,
	}
	for i, v := range m.Variants {
		c.Variants[i] = domain.Variant{
			ID:         v.ID,
			CampaignID: v.CampaignID,
			Position:   v.Position,
			Text:       v.Text,
			Analysis:   v.Analysis,
			VariantMetrics: domain.VariantMetrics{
				Impressions: v.Impressions,
				Likes:       v.Likes,
				Retweets:    v.Retweets,
				Replies:     v.Replies,
			},
			IsWinner:  v.IsWinner,
			CreatedAt: v.CreatedAt,
		}
	}

	return c
}

// CampaignFromDomain creates a CampaignModel with its variants from domain.Campaign.
func CampaignFromDomain(c *domain.Campaign) *CampaignModel {
	m := &CampaignModel{
		ID:        c.ID,
		UserID:    c.UserID,
		Name:      c.Name,
		Status:    string(c.Status),
		Variants:  make([]VariantModel, len(c.Variants)),
		StartedAt: c.StartedAt,
		EndedAt:   c.EndedAt,
		CreatedAt: c.CreatedAt,
	}
	for i, v := range c.Variants {
		m.Variants[i] = VariantModel{
			ID:          v.ID,
			CampaignID:  c.ID,
			Position:    v.Position,
			Text:        v.Text,
			Score:       v.Analysis.Score,
			Analysis:    v.Analysis,
			Impressions: v.Impressions,
			Likes:       v.Likes,
			Retweets:    v.Retweets,
			Replies:     v.Replies,
			IsWinner:    v.IsWinner,
			CreatedAt:   v.CreatedAt,
		}
	}

	return m
}
