package domain

import (
	"math"
	"sort"
	"time"
)

// CampaignStatus is the lifecycle state of an A/B campaign.
type CampaignStatus string

const (
	CampaignRunning   CampaignStatus = "running"
	CampaignCompleted CampaignStatus = "completed"
)

// Campaign limits.
const (
	MinCampaignVariants = 2
	MaxCampaignVariants = 5

	// SignificanceMinImpressions is the sample size each of the two leading
	// variants needs before a confidence is reported.
	SignificanceMinImpressions = 100
)

// VariantMetrics are the observed counters of a published variant.
type VariantMetrics struct {
	Impressions int `json:"impressions"`
	Likes       int `json:"likes"`
	Retweets    int `json:"retweets"`
	Replies     int `json:"replies"`
}

// Engagements returns likes + retweets + replies.
func (m VariantMetrics) Engagements() int {
	return m.Likes + m.Retweets + m.Replies
}

// EngagementRate returns engagements per impression, 0 without impressions.
func (m VariantMetrics) EngagementRate() float64 {
	if m.Impressions <= 0 {
		return 0
	}
	return float64(m.Engagements()) / float64(m.Impressions)
}

// Variant is one candidate text of a campaign, scored when it was added.
type Variant struct {
	ID         string         `json:"id"`
	CampaignID string         `json:"campaign_id"`
	Position   int            `json:"position"`
	Text       string         `json:"text"`
	Analysis   AnalysisResult `json:"analysis"`
	VariantMetrics
	IsWinner  bool      `json:"is_winner"`
	CreatedAt time.Time `json:"created_at"`
}

// Campaign groups variants of the same post so they can be compared.
type Campaign struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Name      string         `json:"name"`
	Status    CampaignStatus `json:"status"`
	Variants  []Variant      `json:"variants"`
	StartedAt time.Time      `json:"started_at"`
	EndedAt   *time.Time     `json:"ended_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Variant returns the variant with the given id, or nil.
func (c *Campaign) Variant(id string) *Variant {
	for i := range c.Variants {
		if c.Variants[i].ID == id {
			return &c.Variants[i]
		}
	}
	return nil
}

// DeclareWinner marks variantID as the only winner and completes the
// campaign. It reports false when the variant is not part of the campaign.
func (c *Campaign) DeclareWinner(variantID string, at time.Time) bool {
	if c.Variant(variantID) == nil {
		return false
	}
	for i := range c.Variants {
		c.Variants[i].IsWinner = c.Variants[i].ID == variantID
	}
	c.Status = CampaignCompleted
	c.EndedAt = &at
	return true
}

// VariantResult is a variant with its predicted rank and observed rate.
type VariantResult struct {
	ID             string  `json:"id"`
	Text           string  `json:"text"`
	PredictedScore float64 `json:"predicted_score"`
	PredictedRank  int     `json:"predicted_rank"`
	VariantMetrics
	EngagementRate float64 `json:"engagement_rate"`
	IsWinner       bool    `json:"is_winner"`
}

// CampaignResults compares the variants of a campaign.
type CampaignResults struct {
	CampaignID      string          `json:"campaign_id"`
	Name            string          `json:"name"`
	Status          CampaignStatus  `json:"status"`
	Variants        []VariantResult `json:"variants"` // predicted rank order
	PredictedLeader string          `json:"predicted_leader"`
	ObservedLeader  string          `json:"observed_leader,omitempty"`
	WinnerID        string          `json:"winner_id,omitempty"`

	// Confidence that the observed leader beats the runner-up, nil until
	// both have SignificanceMinImpressions.
	Confidence *float64 `json:"confidence,omitempty"`
}

// CompareVariants ranks the variants by predicted score and, once they
// have impressions, by observed engagement rate.
func CompareVariants(c *Campaign) CampaignResults {
	out := CampaignResults{
		CampaignID: c.ID,
		Name:       c.Name,
		Status:     c.Status,
		Variants:   make([]VariantResult, len(c.Variants)),
	}

	ordered := make([]Variant, len(c.Variants))
	copy(ordered, c.Variants)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Analysis.Score > ordered[j].Analysis.Score
	})

	for i, v := range ordered {
		out.Variants[i] = VariantResult{
			ID:             v.ID,
			Text:           v.Text,
			PredictedScore: v.Analysis.Score,
			PredictedRank:  i + 1,
			VariantMetrics: v.VariantMetrics,
			EngagementRate: roundTo(v.EngagementRate(), 4),
			IsWinner:       v.IsWinner,
		}
		if v.IsWinner {
			out.WinnerID = v.ID
		}
	}
	if len(ordered) > 0 {
		out.PredictedLeader = ordered[0].ID
	}

	observed := make([]Variant, 0, len(ordered))
	for _, v := range ordered {
		if v.Impressions > 0 {
			observed = append(observed, v)
		}
	}
	if len(observed) == 0 {
		return out
	}
	sort.SliceStable(observed, func(i, j int) bool {
		return observed[i].EngagementRate() > observed[j].EngagementRate()
	})
	out.ObservedLeader = observed[0].ID

	if len(observed) > 1 {
		if conf, ok := Significance(observed[0].VariantMetrics, observed[1].VariantMetrics); ok {
			out.Confidence = &conf
		}
	}

	return out
}

// Significance runs a two-proportion z-test on the engagement rates of a
// and b and returns the two-sided confidence that they differ. ok is false
// while either side has fewer than SignificanceMinImpressions.
func Significance(a, b VariantMetrics) (confidence float64, ok bool) {
	if a.Impressions < SignificanceMinImpressions || b.Impressions < SignificanceMinImpressions {
		return 0, false
	}

	n1, n2 := float64(a.Impressions), float64(b.Impressions)
	p1 := clamp(float64(a.Engagements())/n1, 0, 1)
	p2 := clamp(float64(b.Engagements())/n2, 0, 1)
	pooled := clamp(float64(a.Engagements()+b.Engagements())/(n1+n2), 0, 1)

	se := math.Sqrt(pooled * (1 - pooled) * (1/n1 + 1/n2))
	if se == 0 {
		return 0, true
	}

	z := math.Abs(p1-p2) / se
	return roundTo(math.Erf(z/math.Sqrt2), 3), true
}
