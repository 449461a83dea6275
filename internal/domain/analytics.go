package domain

import "time"

// Analytics windows and thresholds.
const (
	HighPerformerScore     = 70.0
	RecentActivityWindow   = 7 * 24 * time.Hour
	DefaultPerformanceDays = 30
	MaxPerformanceDays     = 365
)

// AnalysisStats aggregates a set of stored analyses.
type AnalysisStats struct {
	Count          int64   `json:"count"`
	AvgScore       float64 `json:"avg_score"`
	BestScore      float64 `json:"best_score"`
	HighPerformers int64   `json:"high_performers"`
	Gated          int64   `json:"gated"`
}

// DailyScore is the number and average score of one day's analyses.
type DailyScore struct {
	Date     string  `json:"date"` // YYYY-MM-DD, UTC
	Count    int64   `json:"count"`
	AvgScore float64 `json:"avg_score"`
}

// AnalyticsOverview summarizes a user's stored analyses.
type AnalyticsOverview struct {
	TotalAnalyses  int64   `json:"total_analyses"`
	AvgScore       float64 `json:"avg_score"`
	BestScore      float64 `json:"best_score"`
	HighPerformers int64   `json:"high_performers"`
	GatedCount     int64   `json:"gated_count"`
	RecentActivity int64   `json:"recent_activity"`
}

// NewAnalyticsOverview combines all-time stats with the count of the recent window.
func NewAnalyticsOverview(all AnalysisStats, recent int64) AnalyticsOverview {
	return AnalyticsOverview{
		TotalAnalyses:  all.Count,
		AvgScore:       roundTo(all.AvgScore, 1),
		BestScore:      roundTo(all.BestScore, 1),
		HighPerformers: all.HighPerformers,
		GatedCount:     all.Gated,
		RecentActivity: recent,
	}
}
