package domain

import (
	"math"
	"time"
)

// Engagement split of a predicted engagement count.
const (
	shareLikes         = 0.55
	shareRetweets      = 0.08
	shareReplies       = 0.12
	shareBookmarks     = 0.15
	shareQuotes        = 0.03
	shareProfileVisits = 0.07
)

const (
	// TrendingMultiplier is the viral multiplier of a trending hashtag.
	TrendingMultiplier = 2.0

	// MinImpressions is the floor of any impression estimate.
	MinImpressions = 10
)

// ReachRequest holds the inputs of a reach prediction. Nil Hour and Day
// mean "now" on the engine clock; nil TweetCred is estimated from the profile.
type ReachRequest struct {
	Profile     Profile
	Score       float64
	Hour        *int
	Day         *int
	ContentType ContentType
	Trending    bool
	TweetCred   *int
}

// ReachMultipliers breaks down the total multiplier.
type ReachMultipliers struct {
	Quality     float64 `json:"quality"`
	Hour        float64 `json:"hour"`
	Day         float64 `json:"day"`
	Content     float64 `json:"content"`
	TweetCred   float64 `json:"tweetcred"`
	Viral       float64 `json:"viral"`
	ForYouBoost float64 `json:"foryou_boost"`
	Total       float64 `json:"total"`
}

// ReachRange brackets the expected impressions.
type ReachRange struct {
	Pessimistic    int  `json:"pessimistic"`
	Expected       int  `json:"expected"`
	Optimistic     int  `json:"optimistic"`
	ViralPotential *int `json:"viral_potential,omitempty"`
}

// ReachPrediction is the projected outcome of one post.
type ReachPrediction struct {
	Impressions    int     `json:"impressions"`
	Engagements    int     `json:"engagements"`
	Likes          int     `json:"likes"`
	Retweets       int     `json:"retweets"`
	Replies        int     `json:"replies"`
	Bookmarks      int     `json:"bookmarks"`
	Quotes         int     `json:"quotes"`
	ProfileVisits  int     `json:"profile_visits"`
	EngagementRate float64 `json:"engagement_rate"`

	Multipliers   ReachMultipliers `json:"multipliers"`
	TimingQuality string           `json:"timing_quality"`
	Range         ReachRange       `json:"reach_range"`

	Tier        EngagementTier `json:"tier"`
	Hour        int            `json:"hour"`
	Day         int            `json:"day"`
	ContentType ContentType    `json:"content_type"`
	TweetCred   int            `json:"tweetcred"`
}

// PredictReach projects impressions and engagements for a post. The result
// depends on the clock only when Hour or Day is nil.
func (e *Engine) PredictReach(req ReachRequest) ReachPrediction {
	t := e.tables
	p := req.Profile
	followers := max(p.FollowersCount, 0)

	hour, day := e.slot(req.Hour, req.Day)
	ct := req.ContentType
	if ct == "" {
		ct = DefaultContentType
	}

	cred := 0
	if req.TweetCred != nil {
		cred = *req.TweetCred
	} else {
		rate := p.AvgEngagementRate
		if rate <= 0 {
			rate = DefaultAvgEngagementRate
		}
		cred = CalculateTweetCred(p, rate, DefaultNicheFocus).TotalScore
	}

	tier := t.TierFor(followers)
	baseReach := float64(followers) * tier.OrganicReachRate

	m := ReachMultipliers{
		Quality:   0.5 + clamp(req.Score, 0, 100)/100,
		Hour:      t.HourMultiplier(hour),
		Day:       t.DayMultiplier(day),
		Content:   t.ContentMultiplier(ct),
		TweetCred: tweetCredMultiplier(cred),
		Viral:     1.0,
	}
	if req.Trending {
		m.Viral = TrendingMultiplier
	}
	m.Total = m.Quality * m.Hour * m.Day * m.Content * m.TweetCred * m.Viral

	switch {
	case m.Total > 1.5:
		m.ForYouBoost = 1.5
	case m.Total > 1.2:
		m.ForYouBoost = 1.2
	default:
		m.ForYouBoost = 1.0
	}

	ceiling := math.Max(float64(followers)*10, MinImpressions)
	impressions := int(math.Round(clamp(baseReach*m.Total*m.ForYouBoost, MinImpressions, ceiling)))
	engagements := float64(impressions) * tier.EngagementRate * (0.7*m.Quality + 0.3)

	out := ReachPrediction{
		Impressions:    impressions,
		Engagements:    int(math.Round(engagements)),
		Likes:          int(math.Round(engagements * shareLikes)),
		Retweets:       int(math.Round(engagements * shareRetweets)),
		Replies:        int(math.Round(engagements * shareReplies)),
		Bookmarks:      int(math.Round(engagements * shareBookmarks)),
		Quotes:         int(math.Round(engagements * shareQuotes)),
		ProfileVisits:  int(math.Round(engagements * shareProfileVisits)),
		EngagementRate: roundTo(engagements/float64(max(impressions, 1)), 4),
		Multipliers:    roundMultipliers(m),
		TimingQuality:  timingQuality(m.Hour * m.Day),
		Range: ReachRange{
			Pessimistic: int(math.Round(float64(impressions) * 0.5)),
			Expected:    impressions,
			Optimistic:  impressions * 2,
		},
		Tier:        tier.Tier,
		Hour:        hour,
		Day:         day,
		ContentType: ct,
		TweetCred:   cred,
	}
	if m.Viral > 1 {
		viral := impressions * 5
		out.Range.ViralPotential = &viral
	}

	return out
}

// slot resolves the posting hour and day, falling back to the engine clock.
func (e *Engine) slot(hour, day *int) (int, int) {
	now := e.now()

	h := now.Hour()
	if hour != nil {
		h = wrap(*hour, 24)
	}

	d := mondayFirst(now.Weekday())
	if day != nil {
		d = wrap(*day, 7)
	}

	return h, d
}

func mondayFirst(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

func tweetCredMultiplier(cred int) float64 {
	switch {
	case cred >= TweetCredFullReach:
		return 1.5
	case cred >= TweetCredMinPositive:
		return 1.0
	case cred >= TweetCredColdStart:
		return 0.5
	default:
		return 0.1
	}
}

func timingQuality(mult float64) string {
	switch {
	case mult >= 1.3:
		return "Excellent"
	case mult >= 1.0:
		return "Good"
	default:
		return "Low"
	}
}

func roundMultipliers(m ReachMultipliers) ReachMultipliers {
	return ReachMultipliers{
		Quality:     roundTo(m.Quality, 3),
		Hour:        m.Hour,
		Day:         m.Day,
		Content:     m.Content,
		TweetCred:   m.TweetCred,
		Viral:       m.Viral,
		ForYouBoost: m.ForYouBoost,
		Total:       roundTo(m.Total, 3),
	}
}
