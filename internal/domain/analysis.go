package domain

import (
	"math"
	"time"
)

// AnalysisResult is the outcome of scoring one text.
type AnalysisResult struct {
	Score        float64 `json:"score"`
	ContentScore float64 `json:"content_score"`
	PhoenixScore float64 `json:"phoenix_score"`
	ProfileBoost float64 `json:"profile_boost"`
	Gated        bool    `json:"gated"`

	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	Suggestions []string `json:"suggestions"`

	EngagementPrediction map[Action]float64 `json:"engagement_prediction"`
	AppliedRules         []string           `json:"applied_rules"`
	Features             TweetFeatures      `json:"features"`
}

// Engine runs every scoring operation against one immutable table set.
// It is safe for concurrent use.
type Engine struct {
	tables    *Tables
	gateRules []GateRule
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used when a caller leaves the hour or day out.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an engine over t. A nil table set means DefaultTables.
func NewEngine(t *Tables, opts ...Option) *Engine {
	if t == nil {
		t = DefaultTables()
	}

	e := &Engine{
		tables:    t,
		gateRules: DefaultGateRules(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Tables returns the engine's table set. Callers must not modify it.
func (e *Engine) Tables() *Tables {
	return e.tables
}

// Analyze scores text, optionally in the context of a profile. It never fails:
// degenerate input yields a low but well-formed result.
func (e *Engine) Analyze(text string, profile *Profile) AnalysisResult {
	f := ExtractFeatures(e.tables, text)

	if f.Length < MinTextLength {
		return AnalysisResult{
			Score:                ShortTextScore,
			ContentScore:         ShortTextScore,
			PhoenixScore:         e.phoenixOf(fixedPrediction(0.01, nil)),
			ProfileBoost:         1.0,
			Gated:                true,
			Strengths:            []string{},
			Weaknesses:           []string{"Too short - no meaningful content"},
			Suggestions:          []string{"Write meaningful content of at least 2-3 sentences"},
			EngagementPrediction: fixedPrediction(0.01, nil),
			AppliedRules:         []string{"min_length"},
			Features:             f,
		}
	}

	// Mashed tokens are scored as if absent, then the whole result is
	// deflated. Adding more mashing can therefore never raise the score.
	if len(mashTokens(e.tables, text)) > 0 {
		inner := e.Analyze(stripMash(e.tables, text), nil)

		weaknesses := append([]string{"Keyboard mashing detected - meaningless content"}, inner.Weaknesses...)
		res := e.gated(roundTo(inner.Score*KeyboardMashMultiplier, 1), f, weaknesses)
		res.AppliedRules = append([]string{"keyboard_mash"}, inner.AppliedRules...)

		return res
	}

	score := 100.0
	weaknesses := []string{}
	applied := []string{}
	in := GateInput{Text: text, Features: f, Tables: e.tables}
	for _, r := range e.gateRules {
		if r.Applies(in) {
			score *= r.Multiplier
			weaknesses = append(weaknesses, r.Weakness)
			applied = append(applied, r.Name)
		}
	}
	if score < GateThreshold {
		res := e.gated(roundTo(score, 1), f, weaknesses)
		res.AppliedRules = applied
		return res
	}

	longForm := DefaultLongForm
	if profile != nil {
		longForm = profile.Verified
	}

	out := ApplyRules(e.tables.Rules, RuleInput{Features: f, LongForm: longForm}, score)
	content := roundTo(clamp(out.Score, 0, 100), 1)
	prediction := PredictEngagement(out.Score, f)
	phoenix := ComputePhoenix(e.tables.ActionWeights, prediction)
	boost := ProfileBoost(profile)

	return AnalysisResult{
		Score:                BlendScore(content, phoenix.Lift, boost),
		ContentScore:         content,
		PhoenixScore:         phoenix.Normalized,
		ProfileBoost:         boost,
		Strengths:            out.Strengths,
		Weaknesses:           append(weaknesses, out.Weaknesses...),
		Suggestions:          out.Suggestions,
		EngagementPrediction: prediction,
		AppliedRules:         append(applied, out.Applied...),
		Features:             f,
	}
}

func (e *Engine) gated(score float64, f TweetFeatures, weaknesses []string) AnalysisResult {
	prediction := fixedPrediction(0.01, map[Action]float64{
		ActionFavorite: 0.02,
		ActionReply:    0.02,
	})

	return AnalysisResult{
		Score:        score,
		ContentScore: score,
		PhoenixScore: e.phoenixOf(prediction),
		ProfileBoost: 1.0,
		Gated:        true,
		Strengths:    []string{},
		Weaknesses:   weaknesses,
		Suggestions: []string{
			"Write a meaningful, readable post",
			"Use at least 2-3 sentences",
		},
		EngagementPrediction: prediction,
		AppliedRules:         []string{},
		Features:             f,
	}
}

func (e *Engine) phoenixOf(prediction map[Action]float64) float64 {
	return ComputePhoenix(e.tables.ActionWeights, prediction).Normalized
}

// ProfileBoost is the account multiplier applied to the blended score.
func ProfileBoost(p *Profile) float64 {
	if p == nil {
		return 1.0
	}

	boost := 1.0
	if p.Verified {
		boost += 0.2
	}
	switch {
	case p.FollowersCount >= 100_000:
		boost += 0.2
	case p.FollowersCount >= 10_000:
		boost += 0.1
	}

	return roundTo(boost, 2)
}

// BlendScore scales the content score by the Phoenix lift, then lifts the
// blend towards 100 by (boost-1) of the remaining headroom, scaled by the
// blend itself. The result stays in [0,100] and is increasing in both the
// content score and the lift.
func BlendScore(content, lift, boost float64) float64 {
	blended := clamp(content*clamp(lift, 0, 1), 0, 100)
	extra := math.Max(boost-1, 0)

	return roundTo(clamp(blended+(100-blended)*math.Min(extra, 1)*blended/100, 0, 100), 1)
}
