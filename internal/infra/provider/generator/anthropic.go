package generator

import (
	"context"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"tweet-score-service/internal/domain"
	"tweet-score-service/internal/infra/provider"
)

// AnthropicName is the generator identifier.
const AnthropicName = "anthropic"

// Anthropic implements domain.TextGenerator with the Messages API.
type Anthropic struct {
	client     anthropic.Client
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker[string]
	cfg        Config
	logger     *zap.Logger
}

// NewAnthropic creates an Anthropic generator.
func NewAnthropic(cfg Config, logger *zap.Logger) *Anthropic {
	logger = logger.Named(AnthropicName)
	httpClient := newHTTPClient(cfg)

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Anthropic{
		client:     anthropic.NewClient(opts...),
		httpClient: httpClient,
		cb:         provider.NewCircuitBreaker[string](AnthropicName, cfg.CB, logger),
		cfg:        cfg,
		logger:     logger,
	}
}

// Name returns the generator identifier.
func (a *Anthropic) Name() string {
	return AnthropicName
}

// Generate returns one candidate post for req.
func (a *Anthropic) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	text, err := a.cb.Execute(func() (string, error) {
		message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:       anthropic.Model(a.cfg.Model),
			MaxTokens:   int64(a.cfg.MaxTokens),
			Temperature: anthropic.Float(a.cfg.Temperature),
			System:      []anthropic.TextBlockParam{{Text: systemPrompt}},
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(BuildPrompt(req))),
			},
		})
		if err != nil {
			return "", err
		}

		for _, block := range message.Content {
			if block.Type == "text" {
				if out := CleanOutput(block.Text); out != "" {
					return out, nil
				}
			}
		}

		return "", ErrEmptyOutput
	})
	if err != nil {
		a.logger.Warn("generation failed",
			zap.String("model", a.cfg.Model),
			zap.Error(err),
		)

		return "", fmt.Errorf("anthropic generate: %w", err)
	}

	return text, nil
}
