package domain

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var styleWordRe = regexp.MustCompile(`\p{L}{4,}`)

// Fallback impressions of a post whose impression count is missing.
const defaultPostImpressions = 100

// HistoricalTweet is one past post as supplied by the history source.
type HistoricalTweet struct {
	ID          string `json:"id,omitempty"`
	Text        string `json:"text"`
	Likes       int    `json:"likes"`
	Retweets    int    `json:"retweets"`
	Replies     int    `json:"replies"`
	Impressions int    `json:"impressions"` // zero when unknown
}

func (h HistoricalTweet) impressions() int {
	if h.Impressions <= 0 {
		return defaultPostImpressions
	}
	return h.Impressions
}

// HistorySummary aggregates a post history.
type HistorySummary struct {
	Posts             int     `json:"posts"`
	Likes             int     `json:"likes"`
	Retweets          int     `json:"retweets"`
	Replies           int     `json:"replies"`
	Impressions       int     `json:"impressions"`
	AvgEngagementRate float64 `json:"avg_engagement_rate"`
}

// SummarizeHistory totals a post history. Posts without an impression count
// are assumed to have had 100.
func SummarizeHistory(records []HistoricalTweet) HistorySummary {
	s := HistorySummary{Posts: len(records)}
	for _, r := range records {
		s.Likes += max(r.Likes, 0)
		s.Retweets += max(r.Retweets, 0)
		s.Replies += max(r.Replies, 0)
		s.Impressions += r.impressions()
	}
	if s.Posts > 0 {
		s.AvgEngagementRate = roundTo(float64(s.Likes)/float64(max(s.Impressions, 1)), 5)
	}

	return s
}

// Tone is the dominant register of a post history.
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneCasual       Tone = "casual"
	ToneProvocative  Tone = "provocative"
	ToneNeutral      Tone = "neutral"
)

// StyleProfile describes how an account writes.
type StyleProfile struct {
	AvgLength         float64  `json:"avg_length"`
	AvgLineBreaks     float64  `json:"avg_line_breaks"`
	EmojiFrequency    float64  `json:"emoji_frequency"`
	QuestionFrequency float64  `json:"question_frequency"`
	HashtagFrequency  float64  `json:"hashtag_frequency"`
	MentionFrequency  float64  `json:"mention_frequency"`
	Tone              Tone     `json:"tone"`
	CommonEmojis      []string `json:"common_emojis"`
	CommonWords       []string `json:"common_words"`
	AvgEngagementRate float64  `json:"avg_engagement_rate"`
	StylePrompt       string   `json:"style_prompt"`
}

// AnalyzeStyle derives a writing style from past posts.
func AnalyzeStyle(t *Tables, records []HistoricalTweet) StyleProfile {
	if len(records) == 0 {
		return StyleProfile{
			Tone:         ToneNeutral,
			CommonEmojis: []string{},
			CommonWords:  []string{},
			StylePrompt:  "Write in a casual, engaging tone.",
		}
	}

	n := float64(len(records))
	var length, lines, emoji, questions, hashtags, mentions int
	emojis := []string{}
	seen := map[rune]bool{}
	words := map[string]int{}

	for _, r := range records {
		length += len([]rune(r.Text))
		lines += strings.Count(r.Text, "\n")
		if strings.Contains(r.Text, "?") {
			questions++
		}
		hashtags += len(hashtagRe.FindAllString(r.Text, -1))
		mentions += len(mentionRe.FindAllString(r.Text, -1))

		for _, c := range r.Text {
			if !t.isEmoji(c) {
				continue
			}
			emoji++
			if !seen[c] && len(emojis) < 5 {
				seen[c] = true
				emojis = append(emojis, string(c))
			}
		}

		for _, w := range styleWordRe.FindAllString(strings.ToLower(r.Text), -1) {
			words[w]++
		}
	}

	summary := SummarizeHistory(records)
	sp := StyleProfile{
		AvgLength:         roundTo(float64(length)/n, 1),
		AvgLineBreaks:     roundTo(float64(lines)/n, 2),
		EmojiFrequency:    roundTo(float64(emoji)/n, 2),
		QuestionFrequency: roundTo(float64(questions)/n, 2),
		HashtagFrequency:  roundTo(float64(hashtags)/n, 2),
		MentionFrequency:  roundTo(float64(mentions)/n, 2),
		Tone:              detectTone(t, records),
		CommonEmojis:      emojis,
		CommonWords:       topWords(words, 10),
		AvgEngagementRate: summary.AvgEngagementRate,
	}
	sp.StylePrompt = stylePrompt(sp)

	return sp
}

// detectTone counts posts hitting each keyword list. Ties resolve in list
// order; no hits at all is neutral.
func detectTone(t *Tables, records []HistoricalTweet) Tone {
	counts := map[Tone]int{}
	for _, r := range records {
		lower := strings.ToLower(r.Text)
		if containsAny(lower, t.ProfessionalKeywords) {
			counts[ToneProfessional]++
		}
		if containsAny(lower, t.CasualKeywords) {
			counts[ToneCasual]++
		}
		if containsAny(lower, t.ProvocativeKeywords) {
			counts[ToneProvocative]++
		}
	}

	best, bestCount := ToneNeutral, 0
	for _, tone := range []Tone{ToneProfessional, ToneCasual, ToneProvocative} {
		if counts[tone] > bestCount {
			best, bestCount = tone, counts[tone]
		}
	}

	return best
}

func topWords(counts map[string]int, n int) []string {
	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	slices.SortFunc(words, func(a, b string) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	if len(words) > n {
		words = words[:n]
	}

	return words
}

func stylePrompt(sp StyleProfile) string {
	parts := []string{}

	switch {
	case sp.AvgLength < 100:
		parts = append(parts, "Keep posts concise and punchy")
	case sp.AvgLength > 200:
		parts = append(parts, "Write longer, more detailed posts")
	}

	switch {
	case sp.EmojiFrequency > 1 && len(sp.CommonEmojis) > 0:
		top := sp.CommonEmojis[:min(3, len(sp.CommonEmojis))]
		parts = append(parts, "Use these emoji frequently: "+strings.Join(top, " "))
	case sp.EmojiFrequency > 0.5:
		parts = append(parts, "Use emoji occasionally")
	default:
		parts = append(parts, "Rarely use emoji")
	}

	if sp.QuestionFrequency > 0.5 {
		parts = append(parts, "Frequently ask questions to engage readers")
	}

	parts = append(parts, fmt.Sprintf("Write in a %s tone", sp.Tone))

	return strings.Join(parts, ". ") + "."
}
