package domain

import "math"

// TweetCred thresholds.
const (
	TweetCredBase          = -128
	TweetCredVerifiedBoost = 100
	TweetCredMinPositive   = 17
	TweetCredColdStart     = -50
	TweetCredFullReach     = 50
)

// TweetCredScore is the account authority score broken down by component.
type TweetCredScore struct {
	BaseScore              int `json:"base_score"`
	VerifiedBoost          int `json:"verified_boost"`
	BioScore               int `json:"bio_score"`
	RatioScore             int `json:"ratio_score"`
	EngagementHistoryScore int `json:"engagement_history_score"` // engagement rate tier plus account age bonus
	NicheFocusScore        int `json:"niche_focus_score"`
	TotalScore             int `json:"total_score"`

	IsPositive              bool    `json:"is_positive"`
	HasColdStartSuppression bool    `json:"has_cold_start_suppression"`
	DistributionRate        float64 `json:"distribution_rate"`

	Suggestions []string `json:"suggestions"`
}

// CalculateTweetCred scores a profile with the default niche focus.
func (e *Engine) CalculateTweetCred(p Profile, avgEngagementRate float64) TweetCredScore {
	return CalculateTweetCred(p, avgEngagementRate, DefaultNicheFocus)
}

// CalculateTweetCredWithFocus scores a profile with an explicit niche focus in [0,1].
func (e *Engine) CalculateTweetCredWithFocus(p Profile, avgEngagementRate, nicheFocus float64) TweetCredScore {
	return CalculateTweetCred(p, avgEngagementRate, nicheFocus)
}

// CalculateTweetCred sums the independent authority components of a profile.
func CalculateTweetCred(p Profile, avgEngagementRate, nicheFocus float64) TweetCredScore {
	s := TweetCredScore{
		BaseScore:              TweetCredBase,
		BioScore:               bioScore(p.BioLength),
		RatioScore:             ratioScore(p.FollowersCount, p.FollowingCount),
		EngagementHistoryScore: engagementHistoryScore(avgEngagementRate) + accountAgeBonus(p.AccountAgeDays),
		NicheFocusScore:        int(math.Round(clamp(nicheFocus, 0, 1) * 30)),
	}
	if p.Verified {
		s.VerifiedBoost = TweetCredVerifiedBoost
	}

	s.TotalScore = s.BaseScore + s.VerifiedBoost + s.BioScore + s.RatioScore +
		s.EngagementHistoryScore + s.NicheFocusScore
	s.IsPositive = s.TotalScore >= TweetCredMinPositive
	s.HasColdStartSuppression = s.TotalScore <= TweetCredColdStart
	s.DistributionRate = DistributionRate(s.TotalScore)
	s.Suggestions = tweetCredSuggestions(s, engagementHistoryScore(avgEngagementRate))

	return s
}

// DistributionRate is the share of normal distribution a TweetCred total earns.
func DistributionRate(total int) float64 {
	switch {
	case total <= TweetCredColdStart:
		return 0.10
	case total < TweetCredMinPositive:
		return 0.30
	case total >= TweetCredFullReach:
		return 1.0
	default:
		return roundTo(0.5+float64(total)/100, 2)
	}
}

func bioScore(length int) int {
	switch {
	case length >= 120:
		return 15
	case length >= 50:
		return 10
	case length >= 1:
		return 5
	default:
		return 0
	}
}

func ratioScore(followers, following int) int {
	if following <= 0 {
		if followers > 100 {
			return 10
		}
		return 0
	}

	switch ratio := float64(followers) / float64(following); {
	case ratio >= 10:
		return 30
	case ratio >= 5:
		return 20
	case ratio >= 2:
		return 15
	case ratio >= 1:
		return 10
	case ratio >= 0.5:
		return 5
	default:
		return -10
	}
}

func engagementHistoryScore(rate float64) int {
	switch {
	case rate >= 0.05:
		return 40
	case rate >= 0.03:
		return 30
	case rate >= 0.02:
		return 20
	case rate >= 0.01:
		return 10
	case rate >= 0.005:
		return 0
	default:
		return -20
	}
}

func accountAgeBonus(days int) int {
	switch {
	case days >= 1095:
		return 15
	case days >= 365:
		return 10
	case days >= 180:
		return 5
	default:
		return 0
	}
}

// tweetCredSuggestions lists the levers still worth pulling, weakest first.
// engagement is the rate tier alone, without the age bonus.
func tweetCredSuggestions(s TweetCredScore, engagement int) []string {
	out := []string{}
	if s.VerifiedBoost == 0 {
		out = append(out, "Verification adds +100 and lifts most accounts above the distribution threshold")
	}
	if engagement < 20 {
		out = append(out, "Raise your engagement rate above 2% with replies and questions")
	}
	if s.RatioScore < 10 {
		out = append(out, "Unfollow inactive accounts to improve your follower/following ratio")
	}
	if s.BioScore < 15 {
		out = append(out, "Write a bio of at least 120 characters describing your niche")
	}
	if s.NicheFocusScore < 20 {
		out = append(out, "Post consistently about one niche")
	}
	if s.HasColdStartSuppression {
		out = append(out, "Account is in cold-start suppression: only about 10% of normal reach")
	}

	return out
}
