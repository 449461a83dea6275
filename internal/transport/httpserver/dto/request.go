// Package dto provides request and response shapes of the HTTP API.
package dto

import (
	"tweet-score-service/internal/app/service"
	"tweet-score-service/internal/domain"
)

// ProfileRequest is an account snapshot supplied by the caller.
type ProfileRequest struct {
	Username          string   `json:"username" validate:"max=50"`
	FollowersCount    int      `json:"followers_count" validate:"min=0"`
	FollowingCount    int      `json:"following_count" validate:"min=0"`
	TweetCount        int      `json:"tweet_count" validate:"min=0"`
	Verified          bool     `json:"verified"`
	AccountAgeDays    *int     `json:"account_age_days" validate:"omitempty,min=0"`
	BioLength         int      `json:"bio_length" validate:"min=0,max=500"`
	AvgEngagementRate *float64 `json:"avg_engagement_rate" validate:"omitempty,min=0,max=1"`
}

// ToDomain converts the request to a domain.Profile, filling defaults.
func (r *ProfileRequest) ToDomain() domain.Profile {
	p := domain.Profile{
		Username:       r.Username,
		FollowersCount: r.FollowersCount,
		FollowingCount: r.FollowingCount,
		TweetCount:     r.TweetCount,
		Verified:       r.Verified,
		AccountAgeDays: domain.DefaultAccountAgeDays,
		BioLength:      r.BioLength,
	}
	if r.AccountAgeDays != nil {
		p.AccountAgeDays = *r.AccountAgeDays
	}
	if r.AvgEngagementRate != nil {
		p.AvgEngagementRate = *r.AvgEngagementRate
	}

	return p
}

// profilePtr converts an optional profile.
func profilePtr(r *ProfileRequest) *domain.Profile {
	if r == nil {
		return nil
	}
	p := r.ToDomain()
	return &p
}

// AnalyzeRequest is the body of POST /tweets/analyze.
type AnalyzeRequest struct {
	Text    string          `json:"text" validate:"max=25000"`
	Profile *ProfileRequest `json:"profile" validate:"omitempty"`
	Save    bool            `json:"save"`
}

// ToInput converts the request to service input for the given user.
func (r *AnalyzeRequest) ToInput(userID string) service.AnalyzeInput {
	return service.AnalyzeInput{
		UserID:  userID,
		Text:    r.Text,
		Profile: profilePtr(r.Profile),
		Save:    r.Save,
	}
}

// BatchAnalyzeRequest is the body of POST /tweets/analyze/batch.
type BatchAnalyzeRequest struct {
	Texts   []string        `json:"texts" validate:"required,min=1,max=50,dive,max=25000"`
	Profile *ProfileRequest `json:"profile" validate:"omitempty"`
}

// DomainProfile returns the optional profile.
func (r *BatchAnalyzeRequest) DomainProfile() *domain.Profile {
	return profilePtr(r.Profile)
}

// OptimizeRequest is the body of POST /tweets/optimize.
type OptimizeRequest struct {
	Text    string          `json:"text" validate:"required,max=25000"`
	Profile *ProfileRequest `json:"profile" validate:"omitempty"`
}

// DomainProfile returns the optional profile.
func (r *OptimizeRequest) DomainProfile() *domain.Profile {
	return profilePtr(r.Profile)
}

// GenerateRequest is the body of POST /tweets/generate.
type GenerateRequest struct {
	Topic    string          `json:"topic" validate:"required,max=280"`
	Style    string          `json:"style" validate:"omitempty,oneof=professional casual provocative"`
	Length   string          `json:"length" validate:"omitempty,oneof=short medium long thread"`
	Username string          `json:"username" validate:"max=50"`
	Profile  *ProfileRequest `json:"profile" validate:"omitempty"`
	Optimize bool            `json:"optimize"`
}

// ToInput converts the request to service input for the given user.
func (r *GenerateRequest) ToInput(userID string) service.GenerateInput {
	return service.GenerateInput{
		UserID:   userID,
		Username: r.Username,
		Topic:    r.Topic,
		Style:    r.Style,
		Length:   r.Length,
		Profile:  profilePtr(r.Profile),
		Optimize: r.Optimize,
	}
}

// HistoryRequest holds the query parameters of GET /tweets/history.
type HistoryRequest struct {
	Page     int      `query:"page" validate:"omitempty,min=1"`
	PageSize int      `query:"page_size" validate:"omitempty,min=1,max=100"`
	MinScore *float64 `query:"min_score" validate:"omitempty,min=0,max=100"`
}

// ToParams converts the request to domain.HistoryParams.
func (r *HistoryRequest) ToParams(userID string) domain.HistoryParams {
	params := domain.DefaultHistoryParams(userID)
	if r.Page > 0 {
		params.Page = r.Page
	}
	if r.PageSize > 0 {
		params.PageSize = r.PageSize
	}
	params.MinScore = r.MinScore
	params.Validate()

	return params
}

// ReachRequest is the body of POST /reach/predict.
type ReachRequest struct {
	Score       float64        `json:"score" validate:"min=0,max=100"`
	Profile     ProfileRequest `json:"profile"`
	Hour        *int           `json:"hour" validate:"omitempty,min=0,max=23"`
	Day         *int           `json:"day" validate:"omitempty,min=0,max=6"`
	ContentType string         `json:"content_type" validate:"omitempty,content_type"`
	Trending    bool           `json:"trending"`
	TweetCred   *int           `json:"tweetcred" validate:"omitempty,min=-158,max=102"`
}

// ToDomain converts the request to domain.ReachRequest.
func (r *ReachRequest) ToDomain() domain.ReachRequest {
	return domain.ReachRequest{
		Profile:     r.Profile.ToDomain(),
		Score:       r.Score,
		Hour:        r.Hour,
		Day:         r.Day,
		ContentType: domain.ContentType(r.ContentType),
		Trending:    r.Trending,
		TweetCred:   r.TweetCred,
	}
}

// TweetCredRequest is the body of POST /authority/tweetcred.
type TweetCredRequest struct {
	Profile           ProfileRequest `json:"profile"`
	AvgEngagementRate *float64       `json:"avg_engagement_rate" validate:"omitempty,min=0,max=1"`
	NicheFocus        *float64       `json:"niche_focus" validate:"omitempty,min=0,max=1"`
}

// Rate returns the engagement rate to score with: the explicit field, then
// the profile's, then the default.
func (r *TweetCredRequest) Rate() float64 {
	switch {
	case r.AvgEngagementRate != nil:
		return *r.AvgEngagementRate
	case r.Profile.AvgEngagementRate != nil:
		return *r.Profile.AvgEngagementRate
	default:
		return domain.DefaultAvgEngagementRate
	}
}

// EngagementDebtRequest is the body of POST /authority/engagement-debt.
type EngagementDebtRequest struct {
	Posts       int `json:"posts" validate:"min=0"`
	Likes       int `json:"likes" validate:"min=0"`
	Impressions int `json:"impressions" validate:"min=0"`
}

// MonetizationRequest is the body of POST /monetization/estimate.
type MonetizationRequest struct {
	Profile ProfileRequest `json:"profile"`
	Niche   string         `json:"niche" validate:"max=100"`
	Market  string         `json:"market" validate:"omitempty,market"`
}

// TimingRequest holds the query parameters of GET /timing/windows.
type TimingRequest struct {
	Hour *int `query:"hour" validate:"omitempty,min=0,max=23"`
	Day  *int `query:"day" validate:"omitempty,min=0,max=6"`
}

// TweetRecord is one past post supplied for style analysis.
type TweetRecord struct {
	Text        string `json:"text" validate:"max=25000"`
	Likes       int    `json:"likes" validate:"min=0"`
	Retweets    int    `json:"retweets" validate:"min=0"`
	Replies     int    `json:"replies" validate:"min=0"`
	Impressions int    `json:"impressions" validate:"min=0"`
}

// StyleRequest is the body of POST /style/analyze.
type StyleRequest struct {
	Tweets []TweetRecord `json:"tweets" validate:"max=500,dive"`
}

// ToDomain converts the records to domain.HistoricalTweet values.
func (r *StyleRequest) ToDomain() []domain.HistoricalTweet {
	out := make([]domain.HistoricalTweet, len(r.Tweets))
	for i, t := range r.Tweets {
		out[i] = domain.HistoricalTweet{
			Text:        t.Text,
			Likes:       t.Likes,
			Retweets:    t.Retweets,
			Replies:     t.Replies,
			Impressions: t.Impressions,
		}
	}
	return out
}

// ReportRequest holds the query parameters of GET /profiles/:username/report.
type ReportRequest struct {
	Niche      string   `query:"niche" validate:"max=100"`
	Market     string   `query:"market" validate:"omitempty,market"`
	NicheFocus *float64 `query:"niche_focus" validate:"omitempty,min=0,max=1"`
	Score      *float64 `query:"score" validate:"omitempty,min=0,max=100"`
}

// ToInput converts the request to service input.
func (r *ReportRequest) ToInput(userID, username string) service.ReportInput {
	return service.ReportInput{
		UserID:     userID,
		Username:   username,
		Niche:      r.Niche,
		Market:     r.Market,
		NicheFocus: r.NicheFocus,
		Score:      r.Score,
	}
}

// CreateCampaignRequest is the body of POST /campaigns.
type CreateCampaignRequest struct {
	Name     string          `json:"name" validate:"required,max=255"`
	Variants []string        `json:"variants" validate:"required,min=2,max=5,dive,required,max=25000"`
	Profile  *ProfileRequest `json:"profile" validate:"omitempty"`
}

// ToInput converts the request to service input for the given user.
func (r *CreateCampaignRequest) ToInput(userID string) service.CreateCampaignInput {
	return service.CreateCampaignInput{
		UserID:   userID,
		Name:     r.Name,
		Variants: r.Variants,
		Profile:  profilePtr(r.Profile),
	}
}

// VariantMetricsRequest is the body of PUT /campaigns/:id/variants/:variant/metrics.
type VariantMetricsRequest struct {
	Impressions int `json:"impressions" validate:"min=0"`
	Likes       int `json:"likes" validate:"min=0"`
	Retweets    int `json:"retweets" validate:"min=0"`
	Replies     int `json:"replies" validate:"min=0"`
}

// ToDomain converts the request to domain.VariantMetrics.
func (r *VariantMetricsRequest) ToDomain() domain.VariantMetrics {
	return domain.VariantMetrics{
		Impressions: r.Impressions,
		Likes:       r.Likes,
		Retweets:    r.Retweets,
		Replies:     r.Replies,
	}
}

// WinnerRequest is the body of POST /campaigns/:id/winner.
type WinnerRequest struct {
	VariantID string `json:"variant_id" validate:"required,uuid"`
}

// PerformanceRequest holds the query parameters of GET /analytics/performance.
type PerformanceRequest struct {
	Days int `query:"days" validate:"omitempty,min=1,max=365"`
}
