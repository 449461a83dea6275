package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tweet-score-service/internal/domain"
)

func newGenerationService(gen domain.TextGenerator, profiles domain.ProfileRepository) *GenerationService {
	analysis := newAnalysisService(nil, nil, nil)
	return NewGenerationService(gen, analysis, profiles, nil, zap.NewNop())
}

func TestGenerationService_Disabled(t *testing.T) {
	svc := newGenerationService(nil, nil)
	assert.False(t, svc.Enabled())

	_, err := svc.Generate(context.Background(), GenerateInput{Topic: "go"})
	assert.ErrorIs(t, err, ErrGeneratorDisabled)
}

func TestGenerationService_Generate(t *testing.T) {
	gen := &fakeGenerator{text: goodText}
	svc := newGenerationService(gen, nil)

	out, err := svc.Generate(context.Background(), GenerateInput{Topic: "  learning Go ", Style: "casual", Length: "short"})
	require.NoError(t, err)

	assert.Equal(t, "fake", out.Provider)
	assert.Equal(t, goodText, out.Text)
	assert.Equal(t, domain.NewEngine(nil).Analyze(goodText, nil).Score, out.Analysis.Score)
	assert.Nil(t, out.OptimizedAnalysis)

	require.Len(t, gen.requests, 1)
	assert.Equal(t, "learning Go", gen.requests[0].Topic)
	assert.Equal(t, "casual", gen.requests[0].Style)
	assert.Empty(t, gen.requests[0].StylePrompt)
}

func TestGenerationService_UsesStoredStyle(t *testing.T) {
	profiles := newMemoryProfiles(&domain.ProfileRecord{
		UserID:  "user-1",
		Profile: sampleProfile(),
		Style:   &domain.StyleProfile{StylePrompt: "Write in a casual tone."},
	})
	gen := &fakeGenerator{text: goodText}
	svc := newGenerationService(gen, profiles)

	out, err := svc.Generate(context.Background(), GenerateInput{UserID: "user-1", Username: "gopher", Topic: "go"})
	require.NoError(t, err)

	assert.Equal(t, "Write in a casual tone.", gen.requests[0].StylePrompt)
	p := sampleProfile()
	assert.Equal(t, domain.NewEngine(nil).Analyze(goodText, &p).Score, out.Analysis.Score, "stored snapshot is the scoring profile")
}

func TestGenerationService_Optimize(t *testing.T) {
	text := "Check out https://example.com/launch for the release notes #go #golang #release"
	svc := newGenerationService(&fakeGenerator{text: text}, nil)

	out, err := svc.Generate(context.Background(), GenerateInput{Topic: "release", Optimize: true})
	require.NoError(t, err)

	require.NotNil(t, out.OptimizedAnalysis)
	assert.Contains(t, out.Optimized, "[link in reply]")
	assert.NotContains(t, out.Optimized, "#release")
}

func TestGenerationService_GeneratorError(t *testing.T) {
	svc := newGenerationService(&fakeGenerator{err: errBoom}, nil)

	out, err := svc.Generate(context.Background(), GenerateInput{Topic: "go"})
	assert.ErrorIs(t, err, errBoom)
	assert.Nil(t, out)
}
