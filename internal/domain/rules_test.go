package domain

import (
	"math"
	"slices"
	"testing"
)

func TestDefaultRules_OneByOne(t *testing.T) {
	rules := DefaultRules()
	byName := map[string]ScoringRule{}
	for _, r := range rules {
		byName[r.Name] = r
	}

	tests := []struct {
		rule     string
		in       RuleInput
		applies  bool
		multiple float64
	}{
		{"long_form_short", RuleInput{LongForm: true, Features: TweetFeatures{Length: 99}}, true, 0.95},
		{"long_form_short", RuleInput{Features: TweetFeatures{Length: 99}}, false, 0.95},
		{"long_form_optimal", RuleInput{LongForm: true, Features: TweetFeatures{Length: 500}}, true, 1.2},
		{"long_form_optimal", RuleInput{LongForm: true, Features: TweetFeatures{Length: 2001}}, false, 1.2},
		{"long_form_epic", RuleInput{LongForm: true, Features: TweetFeatures{Length: 5001}}, true, 1.15},
		{"too_short", RuleInput{Features: TweetFeatures{Length: 49}}, true, 0.9},
		{"optimal_length", RuleInput{Features: TweetFeatures{Length: 100}}, true, 1.1},
		{"optimal_length", RuleInput{Features: TweetFeatures{Length: 281}}, false, 1.1},
		{"over_limit", RuleInput{Features: TweetFeatures{Length: 281}}, true, 1.0},
		{"question", RuleInput{Features: TweetFeatures{HasQuestion: true}}, true, 1.35},
		{"emoji_moderate", RuleInput{Features: TweetFeatures{EmojiCount: 5}}, true, 1.1},
		{"emoji_moderate", RuleInput{Features: TweetFeatures{EmojiCount: 6}}, false, 1.1},
		{"emoji_overload", RuleInput{Features: TweetFeatures{EmojiCount: 11}}, true, 0.85},
		{"hashtags_moderate", RuleInput{Features: TweetFeatures{HashtagCount: 2}}, true, 1.05},
		{"hashtag_overload", RuleInput{Features: TweetFeatures{HashtagCount: 3}}, false, 0.8},
		{"hashtag_overload", RuleInput{Features: TweetFeatures{HashtagCount: 4}}, true, 0.8},
		{"external_link", RuleInput{Features: TweetFeatures{HasExternalLink: true}}, true, 0.7},
		{"all_caps", RuleInput{Features: TweetFeatures{UppercaseRatio: 0.51}}, true, 0.85},
		{"all_caps", RuleInput{Features: TweetFeatures{UppercaseRatio: 0.5}}, false, 0.85},
		{"spam_keyword", RuleInput{Features: TweetFeatures{SpamHit: true}}, true, 0.5},
		{"line_breaks", RuleInput{Features: TweetFeatures{LineBreakCount: 3}}, true, 1.1},
		{"thread", RuleInput{Features: TweetFeatures{HasThreadMarker: true}}, true, 1.35},
		{"call_to_action", RuleInput{Features: TweetFeatures{HasCTA: true}}, true, 1.2},
		{"missing_call_to_action", RuleInput{}, true, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			r, ok := byName[tt.rule]
			if !ok {
				t.Fatalf("rule %q not found", tt.rule)
			}
			if got := r.Applies(tt.in); got != tt.applies {
				t.Errorf("Applies() = %v, want %v", got, tt.applies)
			}
			if r.Multiplier != tt.multiple {
				t.Errorf("Multiplier = %v, want %v", r.Multiplier, tt.multiple)
			}
		})
	}
}

func TestApplyRules(t *testing.T) {
	in := RuleInput{Features: TweetFeatures{
		Length:          150,
		HasQuestion:     true,
		HasExternalLink: true,
		SpamHit:         true,
		SpamKeyword:     "buy now",
	}}

	out := ApplyRules(DefaultRules(), in, 100)

	// 100 × 1.1 × 1.35 × 0.7 × 0.5 = 51.975
	if math.Abs(out.Score-51.975) > floatTolerance {
		t.Errorf("Score = %v, want 51.975", out.Score)
	}
	wantApplied := []string{"optimal_length", "question", "external_link", "spam_keyword", "missing_call_to_action"}
	if !slices.Equal(out.Applied, wantApplied) {
		t.Errorf("Applied = %v, want %v", out.Applied, wantApplied)
	}
	if !slices.Equal(out.Weaknesses, []string{"External link - the ranking model penalizes it", "Spam keyword: 'buy now'"}) {
		t.Errorf("Weaknesses = %v", out.Weaknesses)
	}
	if len(out.Suggestions) != 2 {
		t.Errorf("Suggestions = %v, want link and CTA suggestions", out.Suggestions)
	}
}

func TestApplyRules_CustomRuleSet(t *testing.T) {
	rules := []ScoringRule{
		{Name: "always", Applies: func(RuleInput) bool { return true }, Multiplier: 2, Strength: "doubled"},
		{Name: "never", Applies: func(RuleInput) bool { return false }, Multiplier: 0},
	}

	out := ApplyRules(rules, RuleInput{}, 10)

	if out.Score != 20 {
		t.Errorf("Score = %v, want 20", out.Score)
	}
	if !slices.Equal(out.Strengths, []string{"doubled"}) {
		t.Errorf("Strengths = %v", out.Strengths)
	}
}
