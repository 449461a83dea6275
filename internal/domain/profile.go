// Package domain contains the scoring engine and its entities.
// This package has no external dependencies (only stdlib).
package domain

import (
	"math"
	"time"
)

// EngagementTier is the account size bucket derived from the follower count.
type EngagementTier string

const (
	TierStarter EngagementTier = "starter"
	TierNano    EngagementTier = "nano"
	TierMicro   EngagementTier = "micro"
	TierMid     EngagementTier = "mid"
	TierMacro   EngagementTier = "macro"
	TierMega    EngagementTier = "mega"
)

// Defaults used when a caller leaves a field out.
const (
	DefaultAccountAgeDays    = 365
	DefaultAvgEngagementRate = 0.01
	DefaultNicheFocus        = 0.5
	DefaultLongForm          = false
	DefaultMarket            = "US"
	DefaultNiche             = "genel"
	DefaultContentType       = ContentTextOnly
)

// Profile is the account snapshot the engine reads. It is never mutated by
// the engine.
type Profile struct {
	Username       string `json:"username"`
	FollowersCount int    `json:"followers_count"`
	FollowingCount int    `json:"following_count"`
	TweetCount     int    `json:"tweet_count"`
	Verified       bool   `json:"verified"`
	AccountAgeDays int    `json:"account_age_days"`
	BioLength      int    `json:"bio_length"`

	// Average likes per impression over recent posts; zero when unknown.
	AvgEngagementRate float64 `json:"avg_engagement_rate"`
}

// NewProfile builds a profile whose account age is derived from the creation time.
func NewProfile(username string, followers, following, tweets int, verified bool, createdAt, now time.Time, bio string) Profile {
	age := 0
	if !createdAt.IsZero() && now.After(createdAt) {
		age = int(now.Sub(createdAt).Hours() / 24)
	}

	return Profile{
		Username:       username,
		FollowersCount: max(followers, 0),
		FollowingCount: max(following, 0),
		TweetCount:     max(tweets, 0),
		Verified:       verified,
		AccountAgeDays: age,
		BioLength:      len([]rune(bio)),
	}
}

// FollowerRatio returns followers / max(following, 1).
func (p Profile) FollowerRatio() float64 {
	return float64(p.FollowersCount) / float64(max(p.FollowingCount, 1))
}

// EngagementTier buckets the account by follower count.
func (p Profile) EngagementTier() EngagementTier {
	switch f := p.FollowersCount; {
	case f >= 1_000_000:
		return TierMega
	case f >= 100_000:
		return TierMacro
	case f >= 10_000:
		return TierMid
	case f >= 1_000:
		return TierMicro
	case f >= 100:
		return TierNano
	default:
		return TierStarter
	}
}

// ProfileRecord is a stored profile together with its history aggregates.
type ProfileRecord struct {
	UserID   string         `json:"user_id"`
	Profile  Profile        `json:"profile"`
	History  HistorySummary `json:"history"`
	Style    *StyleProfile  `json:"style,omitempty"`
	SyncedAt *time.Time     `json:"synced_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NeedsSync reports whether the history is older than maxAge or was never fetched.
func (r *ProfileRecord) NeedsSync(now time.Time, maxAge time.Duration) bool {
	return r.SyncedAt == nil || now.Sub(*r.SyncedAt) >= maxAge
}

// AnalysisRecord is a stored analysis.
type AnalysisRecord struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Text      string         `json:"text"`
	Result    AnalysisResult `json:"result"`
	CreatedAt time.Time      `json:"created_at"`
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
