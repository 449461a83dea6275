package domain

import "fmt"

// RuleInput is what a scoring rule sees.
type RuleInput struct {
	Features TweetFeatures
	LongForm bool
}

// ScoringRule is one step of the multiplicative chain. Rules run in order;
// each one that applies multiplies the running score and appends its messages.
type ScoringRule struct {
	Name       string
	Applies    func(in RuleInput) bool
	Multiplier float64
	Strength   string
	Weakness   string
	Suggestion string

	// Detail overrides Weakness with a message built from the input.
	Detail func(in RuleInput) string
}

// RuleOutcome accumulates the effect of the chain.
type RuleOutcome struct {
	Score       float64
	Applied     []string
	Strengths   []string
	Weaknesses  []string
	Suggestions []string
}

// ApplyRules runs rules over the input starting from score.
func ApplyRules(rules []ScoringRule, in RuleInput, score float64) RuleOutcome {
	out := RuleOutcome{
		Score:       score,
		Applied:     []string{},
		Strengths:   []string{},
		Weaknesses:  []string{},
		Suggestions: []string{},
	}

	for _, r := range rules {
		if !r.Applies(in) {
			continue
		}

		out.Score *= r.Multiplier
		out.Applied = append(out.Applied, r.Name)

		if r.Strength != "" {
			out.Strengths = append(out.Strengths, r.Strength)
		}

		weakness := r.Weakness
		if r.Detail != nil {
			weakness = r.Detail(in)
		}
		if weakness != "" {
			out.Weaknesses = append(out.Weaknesses, weakness)
		}

		if r.Suggestion != "" {
			out.Suggestions = append(out.Suggestions, r.Suggestion)
		}
	}

	return out
}

// DefaultRules returns the content scoring chain. Order matters: the spam
// scan records only the first matching keyword and the score is clamped
// only after the last rule.
func DefaultRules() []ScoringRule {
	return []ScoringRule{
		// Length, long-form accounts
		{
			Name:       "long_form_short",
			Applies:    func(in RuleInput) bool { return in.LongForm && in.Features.Length < 100 },
			Multiplier: 0.95,
			Weakness:   "Short post - a long-form account can offer more value",
		},
		{
			Name: "long_form_optimal",
			Applies: func(in RuleInput) bool {
				return in.LongForm && in.Features.Length >= 500 && in.Features.Length <= 2000
			},
			Multiplier: 1.2,
			Strength:   "Optimal long-form length - detailed and valuable",
		},
		{
			Name:       "long_form_epic",
			Applies:    func(in RuleInput) bool { return in.LongForm && in.Features.Length > 5000 },
			Multiplier: 1.15,
			Strength:   "Article-length content",
		},

		// Length, standard accounts
		{
			Name:       "too_short",
			Applies:    func(in RuleInput) bool { return !in.LongForm && in.Features.Length < 50 },
			Multiplier: 0.9,
			Weakness:   "Very short post - add more context",
		},
		{
			Name: "optimal_length",
			Applies: func(in RuleInput) bool {
				return !in.LongForm && in.Features.Length >= 100 && in.Features.Length <= 280
			},
			Multiplier: 1.1,
			Strength:   "Optimal length for engagement",
		},
		{
			Name:       "over_limit",
			Applies:    func(in RuleInput) bool { return !in.LongForm && in.Features.Length > 280 },
			Multiplier: 1.0,
			Weakness:   "Exceeds the standard character limit",
			Suggestion: "Shorten the post or publish it from a long-form account",
		},

		{
			Name:       "question",
			Applies:    func(in RuleInput) bool { return in.Features.HasQuestion },
			Multiplier: 1.35,
			Strength:   "Contains question - encourages replies",
		},
		{
			Name: "emoji_moderate",
			Applies: func(in RuleInput) bool {
				return in.Features.EmojiCount >= 1 && in.Features.EmojiCount <= 5
			},
			Multiplier: 1.1,
			Strength:   "Good emoji usage",
		},
		{
			Name:       "emoji_overload",
			Applies:    func(in RuleInput) bool { return in.Features.EmojiCount > 10 },
			Multiplier: 0.85,
			Weakness:   "Too many emoji",
		},
		{
			Name: "hashtags_moderate",
			Applies: func(in RuleInput) bool {
				return in.Features.HashtagCount >= 1 && in.Features.HashtagCount <= 2
			},
			Multiplier: 1.05,
			Strength:   "Good hashtag usage",
		},
		{
			Name:       "hashtag_overload",
			Applies:    func(in RuleInput) bool { return in.Features.HashtagCount > 3 },
			Multiplier: 0.8,
			Weakness:   "Too many hashtags - looks like spam",
		},
		{
			Name:       "external_link",
			Applies:    func(in RuleInput) bool { return in.Features.HasExternalLink },
			Multiplier: 0.7,
			Weakness:   "External link - the ranking model penalizes it",
			Suggestion: "Move the link to a reply",
		},
		{
			Name:       "all_caps",
			Applies:    func(in RuleInput) bool { return in.Features.UppercaseRatio > 0.5 },
			Multiplier: 0.85,
			Weakness:   "Too many capital letters",
		},
		{
			Name:       "spam_keyword",
			Applies:    func(in RuleInput) bool { return in.Features.SpamHit },
			Multiplier: 0.5,
			Detail: func(in RuleInput) string {
				return fmt.Sprintf("Spam keyword: '%s'", in.Features.SpamKeyword)
			},
		},
		{
			Name:       "line_breaks",
			Applies:    func(in RuleInput) bool { return in.Features.LineBreakCount >= 3 },
			Multiplier: 1.1,
			Strength:   "Well formatted - easy to read",
		},
		{
			Name:       "thread",
			Applies:    func(in RuleInput) bool { return in.Features.HasThreadMarker },
			Multiplier: 1.35,
			Strength:   "Thread format - high engagement",
		},
		{
			Name:       "call_to_action",
			Applies:    func(in RuleInput) bool { return in.Features.HasCTA },
			Multiplier: 1.2,
			Strength:   "Has a call to action",
		},
		{
			Name:       "missing_call_to_action",
			Applies:    func(in RuleInput) bool { return !in.Features.HasCTA },
			Multiplier: 1.0,
			Suggestion: "Add a call to action (e.g. 'What do you think? 👇')",
		},
	}
}
