package domain

// Engagement debt thresholds on likes per impression.
const (
	DebtMinPosts     = 10
	DebtModerateRate = 0.005
	DebtSevereRate   = 0.003
	DebtCriticalRate = 0.001

	debtLevelModerate = 0.4
	debtLevelSevere   = 0.7
	debtLevelCritical = 1.0
)

// DebtSeverity grades engagement debt.
type DebtSeverity string

const (
	SeverityNone     DebtSeverity = "none"
	SeverityModerate DebtSeverity = "moderate"
	SeveritySevere   DebtSeverity = "severe"
	SeverityCritical DebtSeverity = "critical"
)

// EngagementDebt describes whether early under-performance is suppressing an account.
type EngagementDebt struct {
	TotalPosts       int          `json:"total_posts"`
	TotalLikes       int          `json:"total_likes"`
	TotalImpressions int          `json:"total_impressions"`
	EngagementRate   float64      `json:"engagement_rate"`
	Measurable       bool         `json:"measurable"`
	HasDebt          bool         `json:"has_debt"`
	Severity         DebtSeverity `json:"severity"`
	DebtLevel        float64      `json:"debt_level"`

	Recommendations []string `json:"recommendations"`
}

// AnalyzeEngagementDebt evaluates debt over a post history. Fewer than
// DebtMinPosts posts are reported as not measurable rather than debt-free.
func AnalyzeEngagementDebt(posts, likes, impressions int) EngagementDebt {
	posts, likes, impressions = max(posts, 0), max(likes, 0), max(impressions, 0)

	d := EngagementDebt{
		TotalPosts:       posts,
		TotalLikes:       likes,
		TotalImpressions: impressions,
		EngagementRate:   float64(likes) / float64(max(impressions, 1)),
		Measurable:       posts >= DebtMinPosts,
		Severity:         SeverityNone,
		Recommendations:  []string{},
	}

	if !d.Measurable {
		d.Recommendations = append(d.Recommendations, "Publish at least 10 posts before engagement debt can be measured")
		return d
	}

	switch r := d.EngagementRate; {
	case r < DebtCriticalRate:
		d.Severity, d.DebtLevel = SeverityCritical, debtLevelCritical
	case r < DebtSevereRate:
		d.Severity, d.DebtLevel = SeveritySevere, debtLevelSevere
	case r < DebtModerateRate:
		d.Severity, d.DebtLevel = SeverityModerate, debtLevelModerate
	}
	d.HasDebt = d.Severity != SeverityNone

	switch d.Severity {
	case SeverityCritical:
		d.Recommendations = append(d.Recommendations,
			"Pause volume posting and publish only your strongest content",
			"Reply to larger accounts in your niche to rebuild engagement",
		)
	case SeveritySevere:
		d.Recommendations = append(d.Recommendations,
			"Post fewer, higher quality posts until engagement recovers",
			"Ask questions to drive replies",
		)
	case SeverityModerate:
		d.Recommendations = append(d.Recommendations, "Add a call to action to every post to lift engagement")
	default:
		d.Recommendations = append(d.Recommendations, "No engagement debt: keep your current cadence")
	}

	return d
}
