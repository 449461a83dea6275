package domain

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

var (
	hashtagRe = regexp.MustCompile(`#[\p{L}\p{N}_]+`)
	mentionRe = regexp.MustCompile(`@[\p{L}\p{N}_]+`)
	linkRe    = regexp.MustCompile(`https?://\S+`)
)

// TweetFeatures are the countable properties of a text.
type TweetFeatures struct {
	Length              int     `json:"length"`
	WordCount           int     `json:"word_count"`
	HasQuestion         bool    `json:"has_question"`
	HashtagCount        int     `json:"hashtag_count"`
	MentionCount        int     `json:"mention_count"`
	HasExternalLink     bool    `json:"has_external_link"`
	EmojiCount          int     `json:"emoji_count"`
	LineBreakCount      int     `json:"line_break_count"`
	UppercaseRatio      float64 `json:"uppercase_ratio"`
	SpamHit             bool    `json:"spam_hit"`
	SpamKeyword         string  `json:"spam_keyword,omitempty"`
	HasThreadMarker     bool    `json:"has_thread_marker"`
	HasCTA              bool    `json:"has_cta"`
	RecognizedWordRatio float64 `json:"recognized_word_ratio"`
}

// ExtractFeatures parses text into features. Empty input yields a zeroed set.
func ExtractFeatures(t *Tables, text string) TweetFeatures {
	if text == "" {
		return TweetFeatures{}
	}

	lower := strings.ToLower(text)
	words := strings.Fields(text)

	f := TweetFeatures{
		Length:          len([]rune(text)),
		WordCount:       len(words),
		HasQuestion:     strings.Contains(text, "?"),
		HashtagCount:    len(hashtagRe.FindAllString(text, -1)),
		MentionCount:    len(mentionRe.FindAllString(text, -1)),
		HasExternalLink: hasExternalLink(t, text),
		LineBreakCount:  strings.Count(text, "\n"),
		HasThreadMarker: containsAny(lower, t.ThreadMarkers),
		HasCTA:          hasCTA(t, lower),
	}

	var upper, nonSpace int
	for _, r := range text {
		if t.isEmoji(r) {
			f.EmojiCount++
		}
		if unicode.IsUpper(r) {
			upper++
		}
		if r != ' ' {
			nonSpace++
		}
	}
	if nonSpace > 0 {
		f.UppercaseRatio = float64(upper) / float64(nonSpace)
	}

	// First configured keyword wins
	for _, kw := range t.SpamKeywords {
		if strings.Contains(lower, kw) {
			f.SpamHit = true
			f.SpamKeyword = kw
			break
		}
	}

	recognized := 0
	for _, w := range words {
		if _, ok := t.CommonWords[lettersOnly(w)]; ok {
			recognized++
		}
	}
	f.RecognizedWordRatio = float64(recognized) / float64(max(len(words), 1))

	return f
}

// hasExternalLink reports a link whose host is not one of the platform domains.
func hasExternalLink(t *Tables, text string) bool {
	for _, raw := range linkRe.FindAllString(text, -1) {
		u, err := url.Parse(strings.TrimRight(raw, ".,;:!?)\"'"))
		if err != nil || u.Hostname() == "" {
			return true
		}
		if !isPlatformHost(t, u.Hostname()) {
			return true
		}
	}

	return false
}

func isPlatformHost(t *Tables, host string) bool {
	host = strings.ToLower(host)
	for _, d := range t.PlatformDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}

	return false
}

// hasCTA matches call-to-action phrases. Short ASCII phrases such as "dm"
// must stand alone as a word.
func hasCTA(t *Tables, lower string) bool {
	for _, phrase := range t.CTAPhrases {
		if len(phrase) <= 3 && isASCIIWord(phrase) {
			if containsWord(lower, phrase) {
				return true
			}
			continue
		}
		if strings.Contains(lower, phrase) {
			return true
		}
	}

	return false
}

func containsWord(s, word string) bool {
	for _, tok := range strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if tok == word {
			return true
		}
	}

	return false
}

func isASCIIWord(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsLetter(r) {
			return false
		}
	}

	return s != ""
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}

	return false
}

// lettersOnly lowercases w and drops everything that is not a letter.
func lettersOnly(w string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(w) {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}

	return b.String()
}
