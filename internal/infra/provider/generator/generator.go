// Package generator implements the text-generation collaborator over the
// Anthropic and OpenAI chat APIs.
package generator

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tweet-score-service/internal/domain"
	"tweet-score-service/internal/infra/provider"
)

// ErrEmptyOutput is returned when the model produced no usable text.
var ErrEmptyOutput = errors.New("generator returned no text")

// Config holds text generator settings.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string // empty means the vendor default
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	MaxRetries  int
	CB          provider.CBConfig
}

const systemPrompt = "You write posts for X. Reply with the post text only."

// BuildPrompt renders the generation prompt for req.
func BuildPrompt(req domain.GenerationRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate a viral tweet about: %s\n\n", strings.TrimSpace(req.Topic))
	fmt.Fprintf(&b, "STYLE: %s\n", valueOr(req.Style, "casual"))
	fmt.Fprintf(&b, "LENGTH: %s\n", valueOr(req.Length, "medium"))

	if req.StylePrompt != "" {
		fmt.Fprintf(&b, "\nVOICE:\n%s\n", req.StylePrompt)
	}

	b.WriteString(`
Generate ONLY the tweet content, no explanations. The tweet should be:
- Engaging and likely to get replies, reposts and likes
- Natural and authentic sounding
- Under 280 characters unless LENGTH is long

TWEET:
`)

	return b.String()
}

// CleanOutput strips a surrounding markdown code fence and whitespace.
func CleanOutput(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		lines := strings.Split(s, "\n")
		if len(lines) > 2 {
			s = strings.Join(lines[1:len(lines)-1], "\n")
		}
	}

	return strings.TrimSpace(s)
}

func valueOr(v, fallback string) string {
	if v = strings.TrimSpace(v); v == "" {
		return fallback
	}
	return v
}

func newHTTPClient(cfg Config) *http.Client {
	return &http.Client{Timeout: cfg.Timeout}
}
