package dto

import (
	"time"

	"tweet-score-service/internal/app/service"
	"tweet-score-service/internal/domain"
)

// BatchAnalyzeResponse holds the results of a batch, in input order.
type BatchAnalyzeResponse struct {
	Results []domain.AnalysisResult `json:"results"`
	Count   int                     `json:"count"`
}

// AnalysisResponse represents a single stored analysis.
type AnalysisResponse struct {
	ID        string                `json:"id"`
	Text      string                `json:"text"`
	Result    domain.AnalysisResult `json:"result"`
	CreatedAt string                `json:"created_at"`
}

// HistoryResponse represents a page of stored analyses.
type HistoryResponse struct {
	Analyses   []AnalysisResponse `json:"analyses"`
	Pagination PaginationMeta     `json:"pagination"`
}

// PaginationMeta holds pagination metadata.
type PaginationMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// FromAnalysisPage converts domain.AnalysisPage to HistoryResponse.
func FromAnalysisPage(page *domain.AnalysisPage) HistoryResponse {
	analyses := make([]AnalysisResponse, len(page.Analyses))
	for i, a := range page.Analyses {
		analyses[i] = AnalysisResponse{
			ID:        a.ID,
			Text:      a.Text,
			Result:    a.Result,
			CreatedAt: a.CreatedAt.Format(time.RFC3339),
		}
	}

	return HistoryResponse{
		Analyses: analyses,
		Pagination: PaginationMeta{
			Total:      page.Total,
			Page:       page.Page,
			PageSize:   page.PageSize,
			TotalPages: page.TotalPages,
		},
	}
}

// StyleResponse combines the style profile with the history aggregates.
type StyleResponse struct {
	Style   domain.StyleProfile   `json:"style"`
	History domain.HistorySummary `json:"history"`
}

// SyncResultResponse represents the outcome of one profile refresh.
type SyncResultResponse struct {
	Username       string                `json:"username"`
	Posts          int                   `json:"posts"`
	History        domain.HistorySummary `json:"history"`
	Style          *domain.StyleProfile  `json:"style,omitempty"`
	TweetCred      domain.TweetCredScore `json:"tweetcred"`
	EngagementDebt domain.EngagementDebt `json:"engagement_debt"`
	Duration       string                `json:"duration"`
	Error          string                `json:"error,omitempty"`
}

// FromSyncResult converts service.SyncResult to SyncResultResponse.
func FromSyncResult(r *service.SyncResult) SyncResultResponse {
	errMsg := ""
	if r.Error != nil {
		errMsg = r.Error.Error()
	}

	return SyncResultResponse{
		Username:       r.Username,
		Posts:          r.Posts,
		History:        r.History,
		Style:          r.Style,
		TweetCred:      r.TweetCred,
		EngagementDebt: r.Debt,
		Duration:       r.Duration.String(),
		Error:          errMsg,
	}
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// CampaignListResponse holds a user's campaigns, newest first.
type CampaignListResponse struct {
	Campaigns []*domain.Campaign `json:"campaigns"`
	Count     int                `json:"count"`
}

// PerformanceResponse holds per-day averages over a window.
type PerformanceResponse struct {
	Days  int                 `json:"days"`
	Daily []domain.DailyScore `json:"daily"`
}
