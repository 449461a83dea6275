package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"tweet-score-service/internal/domain"
	"tweet-score-service/internal/metrics"
)

// GenerateInput describes a generation request. When Username names a
// stored profile of UserID, its style prompt and snapshot are used.
type GenerateInput struct {
	UserID   string
	Username string
	Topic    string
	Style    string
	Length   string
	Profile  *domain.Profile
	Optimize bool
}

// GenerateOutput is a generated candidate with its analysis.
type GenerateOutput struct {
	Provider          string                 `json:"provider"`
	Text              string                 `json:"text"`
	Analysis          domain.AnalysisResult  `json:"analysis"`
	Optimized         string                 `json:"optimized,omitempty"`
	OptimizedAnalysis *domain.AnalysisResult `json:"optimized_analysis,omitempty"`
}

// GenerationService produces candidate posts and scores them.
type GenerationService struct {
	generator domain.TextGenerator
	analysis  *AnalysisService
	profiles  domain.ProfileRepository
	metrics   *metrics.Collectors
	logger    *zap.Logger
}

// NewGenerationService creates a new GenerationService. generator may be nil,
// which disables generation.
func NewGenerationService(
	generator domain.TextGenerator,
	analysis *AnalysisService,
	profiles domain.ProfileRepository,
	m *metrics.Collectors,
	logger *zap.Logger,
) *GenerationService {
	return &GenerationService{
		generator: generator,
		analysis:  analysis,
		profiles:  profiles,
		metrics:   m,
		logger:    logger,
	}
}

// Enabled reports whether a generator is configured.
func (s *GenerationService) Enabled() bool {
	return s.generator != nil
}

// Generate asks the generator for a post about the topic and analyzes it.
func (s *GenerationService) Generate(ctx context.Context, in GenerateInput) (*GenerateOutput, error) {
	if s.generator == nil {
		return nil, ErrGeneratorDisabled
	}

	req := domain.GenerationRequest{
		Topic:  strings.TrimSpace(in.Topic),
		Style:  in.Style,
		Length: in.Length,
	}
	profile := in.Profile

	if in.Username != "" && in.UserID != "" && s.profiles != nil {
		rec, err := s.profiles.GetProfile(ctx, in.UserID, in.Username)
		if err != nil {
			s.logger.Warn("loading profile for generation failed",
				zap.String("username", in.Username),
				zap.Error(err),
			)
		}
		if rec != nil {
			if rec.Style != nil {
				req.StylePrompt = rec.Style.StylePrompt
			}
			if profile == nil {
				profile = &rec.Profile
			}
		}
	}

	text, err := s.generator.Generate(ctx, req)
	s.metrics.Generation(s.generator.Name(), err)
	if err != nil {
		return nil, fmt.Errorf("generating post: %w", err)
	}

	out := &GenerateOutput{
		Provider: s.generator.Name(),
		Text:     text,
	}
	out.Analysis, _ = s.analysis.score(ctx, text, profile)

	if in.Optimize {
		if optimized := s.analysis.Engine().OptimizeTweet(text); optimized != text {
			result, _ := s.analysis.score(ctx, optimized, profile)
			out.Optimized = optimized
			out.OptimizedAnalysis = &result
		}
	}

	s.logger.Info("post generated",
		zap.String("provider", out.Provider),
		zap.Float64("score", out.Analysis.Score),
		zap.Bool("optimized", out.OptimizedAnalysis != nil),
	)

	return out, nil
}
