package domain

import (
	"slices"
	"strings"
	"unicode"
)

// Revenue constants.
const (
	BaseRPM               = 0.5
	VerifiedRPMMultiplier = 1.3
	HighNicheMultiplier   = 2.0
	MediumNicheMultiplier = 1.2

	postsPerDay              = 3
	dailyReachRate           = 0.1
	fallbackDailyImpressions = 100
	lowEngagementRate        = 0.02
)

// NicheProfitability grades how well a niche pays.
type NicheProfitability string

const (
	ProfitabilityLow    NicheProfitability = "low"
	ProfitabilityMedium NicheProfitability = "medium"
	ProfitabilityHigh   NicheProfitability = "high"
)

// MonetizationEstimate projects revenue for an account.
type MonetizationEstimate struct {
	EstimatedRPM       float64            `json:"estimated_rpm"`
	NicheProfitability NicheProfitability `json:"niche_profitability"`
	TargetMarket       string             `json:"target_market"`
	RecommendedNiches  []string           `json:"recommended_niches"`
	Tips               []string           `json:"tips"`
	Warnings           []string           `json:"warnings"`
	DailyImpressions   float64            `json:"daily_impressions"`
	MonthlyPotential   float64            `json:"monthly_potential"`
}

// EstimateMonetization converts audience, niche and market into an RPM and a
// monthly revenue estimate. Unknown markets use the OTHER multiplier.
func (e *Engine) EstimateMonetization(p Profile, niche, market string) MonetizationEstimate {
	t := e.tables

	market = strings.ToUpper(strings.TrimSpace(market))
	if market == "" {
		market = DefaultMarket
	}
	niche = strings.ToLower(strings.TrimSpace(niche))
	if niche == "" {
		niche = DefaultNiche
	}

	marketMult, ok := t.MarketMultipliers[market]
	if !ok {
		if market == "GB" {
			marketMult = t.MarketMultipliers["UK"]
		} else {
			marketMult = t.MarketMultipliers["OTHER"]
		}
	}

	profitability := NicheProfitabilityOf(t, niche)
	rpm := BaseRPM * marketMult
	switch profitability {
	case ProfitabilityHigh:
		rpm *= HighNicheMultiplier
	case ProfitabilityMedium:
		rpm *= MediumNicheMultiplier
	}
	if p.Verified {
		rpm *= VerifiedRPMMultiplier
	}

	daily := float64(fallbackDailyImpressions)
	if p.FollowersCount > 0 {
		daily = float64(p.FollowersCount) * dailyReachRate * postsPerDay
	}

	est := MonetizationEstimate{
		EstimatedRPM:       roundTo(rpm, 2),
		NicheProfitability: profitability,
		TargetMarket:       market,
		RecommendedNiches:  []string{},
		Tips:               []string{},
		Warnings:           []string{},
		DailyImpressions:   daily,
		MonthlyPotential:   roundTo(daily*30/1000*rpm, 2),
	}

	if market == "TR" {
		est.Warnings = append(est.Warnings, "Turkey has a low RPM - consider targeting a US/UK audience")
		est.Tips = append(est.Tips, "Write in English to reach higher-paying markets")
	}
	if niche == DefaultNiche {
		est.Tips = append(est.Tips,
			"Focus on a specific niche to increase RPM",
			"Consider finance, crypto or tech content",
		)
	}
	if p.AvgEngagementRate < lowEngagementRate {
		est.Tips = append(est.Tips, "Improve your engagement rate to increase monetization eligibility")
	}
	if market != "US" {
		est.RecommendedNiches = append(est.RecommendedNiches, "crypto", "trading", "saas", "ai")
	}

	return est
}

// NicheProfitabilityOf classifies a niche by matching its words against the
// niche lists.
func NicheProfitabilityOf(t *Tables, niche string) NicheProfitability {
	words := strings.FieldsFunc(strings.ToLower(niche), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	switch {
	case matchesAny(words, t.HighValueNiches):
		return ProfitabilityHigh
	case matchesAny(words, t.MediumValueNiches):
		return ProfitabilityMedium
	default:
		return ProfitabilityLow
	}
}

func matchesAny(words, list []string) bool {
	for _, w := range words {
		if slices.Contains(list, w) {
			return true
		}
	}

	return false
}
