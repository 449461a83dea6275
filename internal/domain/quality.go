package domain

import (
	"strings"
	"unicode"
)

const (
	// MinTextLength is the length below which a text is not scored at all.
	MinTextLength = 10
	// ShortTextScore is the fixed score of a text under MinTextLength.
	ShortTextScore = 5.0
	// GateThreshold is the running score under which the gate stops the pipeline.
	GateThreshold = 20.0
	// KeyboardMashMultiplier scales the score of text containing keyboard mashing.
	KeyboardMashMultiplier = 0.15
)

const gatePunctuation = " .,!?:;'\"-()[]{}@#$%&*+=/<>"

// GateInput is what a quality gate rule sees.
type GateInput struct {
	Text     string
	Features TweetFeatures
	Tables   *Tables
}

// GateRule deflates degenerate input. Unlike scoring rules these only carry a
// weakness; the gate adds its own suggestions when it stops the pipeline.
type GateRule struct {
	Name       string
	Applies    func(in GateInput) bool
	Multiplier float64
	Weakness   string
}

// DefaultGateRules returns the quality gate in evaluation order. Keyboard
// mashing is handled separately by the engine.
func DefaultGateRules() []GateRule {
	return []GateRule{
		{
			Name:       "few_words",
			Applies:    func(in GateInput) bool { return in.Features.WordCount < 3 },
			Multiplier: 0.3,
			Weakness:   "Too few words - more context needed",
		},
		{
			Name:       "invalid_characters",
			Applies:    func(in GateInput) bool { return invalidCharRatio(in.Tables, in.Text) > 0.3 },
			Multiplier: 0.2,
			Weakness:   "Too many meaningless characters",
		},
		{
			Name:       "repeated_characters",
			Applies:    func(in GateInput) bool { return hasRepeatRun(in.Text, 5) },
			Multiplier: 0.5,
			Weakness:   "Excessive character repetition - looks like spam",
		},
		{
			Name: "no_recognized_words",
			Applies: func(in GateInput) bool {
				return in.Features.WordCount >= 3 &&
					in.Features.RecognizedWordRatio == 0 &&
					!hasPlausibleWord(in.Tables, in.Text)
			},
			Multiplier: 0.25,
			Weakness:   "No meaningful words found",
		},
		{
			Name:       "little_text",
			Applies:    func(in GateInput) bool { return letterCount(in.Text) < 5 },
			Multiplier: 0.3,
			Weakness:   "Not enough text content",
		},
	}
}

// invalidCharRatio is the share of characters that are neither letters,
// digits, whitespace, common punctuation nor approved symbols, measured over
// the text with emoji removed.
func invalidCharRatio(t *Tables, text string) float64 {
	total, invalid := 0, 0
	for _, r := range text {
		if t.isEmoji(r) {
			continue
		}
		total++

		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			continue
		}
		if strings.ContainsRune(gatePunctuation, r) {
			continue
		}
		if _, ok := t.ApprovedSymbols[r]; ok {
			continue
		}
		invalid++
	}

	return float64(invalid) / float64(max(total, 1))
}

// hasRepeatRun reports a run of at least n identical characters. Newlines
// never count as a run.
func hasRepeatRun(text string, n int) bool {
	var prev rune
	run := 0
	for _, r := range text {
		if r == prev && r != '\n' {
			run++
		} else {
			run = 1
		}
		if run >= n && r != '\n' {
			return true
		}
		prev = r
	}

	return false
}

// hasPlausibleWord reports a word of at least five characters containing a vowel.
func hasPlausibleWord(t *Tables, text string) bool {
	for _, w := range strings.Fields(text) {
		if len([]rune(w)) < 5 {
			continue
		}
		if strings.ContainsAny(strings.ToLower(w), t.Vowels) {
			return true
		}
	}

	return false
}

func letterCount(text string) int {
	n := 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			n++
		}
	}

	return n
}

// mashToken is one whitespace-separated token and whether its letters take
// part in a keyboard pattern.
type mashToken struct {
	line int
	text string
	mash bool
}

// scanMash looks for keyboard patterns in the lowercased letters of the whole
// text joined together, so a pattern split over several tokens marks each of
// them.
func scanMash(t *Tables, text string) []mashToken {
	var (
		tokens  []mashToken
		bounds  [][2]int
		letters strings.Builder
	)
	for i, line := range strings.Split(text, "\n") {
		for _, w := range strings.Fields(line) {
			start := letters.Len()
			letters.WriteString(lettersOnly(w))
			tokens = append(tokens, mashToken{line: i, text: w})
			bounds = append(bounds, [2]int{start, letters.Len()})
		}
	}

	joined := letters.String()
	for _, p := range t.KeyboardPatterns {
		if p == "" {
			continue
		}
		for off := 0; off < len(joined); {
			idx := strings.Index(joined[off:], p)
			if idx < 0 {
				break
			}
			from, to := off+idx, off+idx+len(p)
			for k, b := range bounds {
				if b[0] < to && from < b[1] {
					tokens[k].mash = true
				}
			}
			off = from + 1
		}
	}

	return tokens
}

// mashTokens returns the tokens whose letters take part in a keyboard pattern.
func mashTokens(t *Tables, text string) []string {
	var out []string
	for _, tok := range scanMash(t, text) {
		if tok.mash {
			out = append(out, tok.text)
		}
	}

	return out
}

// stripMash removes mash tokens from text, keeping line structure.
func stripMash(t *Tables, text string) string {
	lines := make([][]string, strings.Count(text, "\n")+1)
	for _, tok := range scanMash(t, text) {
		if !tok.mash {
			lines[tok.line] = append(lines[tok.line], tok.text)
		}
	}

	out := make([]string, len(lines))
	for i, words := range lines {
		out[i] = strings.Join(words, " ")
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}
