package generator

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"tweet-score-service/internal/domain"
	"tweet-score-service/internal/infra/provider"
)

// OpenAIName is the generator identifier.
const OpenAIName = "openai"

// OpenAI implements domain.TextGenerator with the chat completions API.
type OpenAI struct {
	client     *openai.Client
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker[string]
	cfg        Config
	logger     *zap.Logger
}

// NewOpenAI creates an OpenAI generator.
func NewOpenAI(cfg Config, logger *zap.Logger) *OpenAI {
	logger = logger.Named(OpenAIName)
	httpClient := newHTTPClient(cfg)

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.HTTPClient = httpClient
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAI{
		client:     openai.NewClientWithConfig(clientCfg),
		httpClient: httpClient,
		cb:         provider.NewCircuitBreaker[string](OpenAIName, cfg.CB, logger),
		cfg:        cfg,
		logger:     logger,
	}
}

// Name returns the generator identifier.
func (o *OpenAI) Name() string {
	return OpenAIName
}

// Generate returns one candidate post for req.
func (o *OpenAI) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	text, err := o.cb.Execute(func() (string, error) {
		resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       o.cfg.Model,
			MaxTokens:   o.cfg.MaxTokens,
			Temperature: float32(o.cfg.Temperature),
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(req)},
			},
		})
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", ErrEmptyOutput
		}

		out := CleanOutput(resp.Choices[0].Message.Content)
		if out == "" {
			return "", ErrEmptyOutput
		}

		return out, nil
	})
	if err != nil {
		o.logger.Warn("generation failed",
			zap.String("model", o.cfg.Model),
			zap.Error(err),
		)

		return "", fmt.Errorf("openai generate: %w", err)
	}

	return text, nil
}
