package domain

import (
	"maps"
	"math"
	"slices"
)

// PredictEngagement derives per-action probabilities from the unclamped chain
// score. Every value is clamped to [0,1] and rounded to three decimals.
func PredictEngagement(raw float64, f TweetFeatures) map[Action]float64 {
	b := math.Max(raw, 0) / 100
	capped := math.Min(b, 1)

	reply := 0.3
	if f.HasQuestion {
		reply = 0.7
	}

	profileClick := math.Min(0.1*b, 0.3)
	follow := 0.04 * b
	if f.HasThreadMarker {
		profileClick *= 1.5
		follow *= 2
	}

	dwell := 0.35 * b
	if f.Length >= 280 || f.LineBreakCount >= 3 {
		dwell *= 1.3
	}

	media := math.Min(0.08*b, 0.2)

	p := map[Action]float64{
		ActionFavorite:         math.Min(raw/150, 0.85),
		ActionReply:            reply * capped,
		ActionRetweet:          math.Min(raw/200, 0.6),
		ActionQuote:            math.Min(raw/250, 0.4),
		ActionBookmark:         math.Min(raw/180, 0.5),
		ActionClick:            math.Min(0.2*b, 0.4),
		ActionProfileClick:     profileClick,
		ActionPhotoExpand:      media,
		ActionVideoView:        media,
		ActionShare:            math.Min(0.06*b, 0.2),
		ActionShareViaDM:       math.Min(0.04*b, 0.15),
		ActionShareViaCopyLink: math.Min(0.03*b, 0.1),
		ActionDwell:            math.Min(dwell, 0.8),
		ActionFollowAuthor:     math.Min(follow, 0.2),
	}

	if f.HasExternalLink {
		for a, v := range p {
			p[a] = v * 0.7
		}
	}

	inv := 1 - capped
	p[ActionNotInterested] = 0.02 + 0.2*inv
	p[ActionMute] = 0.01 + 0.05*inv
	p[ActionBlock] = 0.005 + 0.02*inv
	p[ActionReport] = 0.002 + 0.01*inv
	if f.SpamHit {
		p[ActionNotInterested] += 0.2
		p[ActionMute] += 0.1
		p[ActionBlock] += 0.05
		p[ActionReport] += 0.05
	}

	for a, v := range p {
		p[a] = roundTo(clamp(v, 0, 1), 3)
	}

	return p
}

// fixedPrediction assigns the same probability to every action, with
// per-action overrides.
func fixedPrediction(value float64, overrides map[Action]float64) map[Action]float64 {
	p := make(map[Action]float64, len(PositiveActions)+len(NegativeActions))
	for _, a := range PositiveActions {
		p[a] = value
	}
	for _, a := range NegativeActions {
		p[a] = value
	}
	for a, v := range overrides {
		p[a] = v
	}

	return p
}

// PhoenixScore is the weighted action score and its normalized form.
type PhoenixScore struct {
	Raw        float64 `json:"raw"`
	Normalized float64 `json:"normalized"`
	// Lift is Raw over the net weight (positives plus negatives), clamped to
	// [0,1]: 0 for a post nobody engages with, 1 once the net weight is met.
	Lift float64 `json:"lift"`
}

// ComputePhoenix applies the action weights to the predictions. The raw sum is
// offset by the total negative weight and divided by the total positive
// weight, then clamped to [0,100]. Actions without a weight are ignored.
// Summation runs in action order so equal inputs always round the same way.
func ComputePhoenix(weights map[Action]float64, predictions map[Action]float64) PhoenixScore {
	var raw, pos, neg float64
	for _, a := range slices.Sorted(maps.Keys(weights)) {
		w := weights[a]
		if w >= 0 {
			pos += w
		} else {
			neg += w
		}
		raw += w * clamp(predictions[a], 0, 1)
	}

	if pos <= 0 {
		return PhoenixScore{Raw: roundTo(raw, 3)}
	}

	lift := clamp((raw-neg)/pos, 0, 1)
	if net := pos + neg; net > 0 {
		lift = clamp(raw/net, 0, 1)
	}

	return PhoenixScore{
		Raw:        roundTo(raw, 3),
		Normalized: roundTo(clamp((raw-neg)/pos*100, 0, 100), 1),
		Lift:       roundTo(lift, 4),
	}
}
