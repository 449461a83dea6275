package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tweet-score-service/internal/domain"
	"tweet-score-service/internal/metrics"
)

// MaxBatchSize is the largest number of texts AnalyzeBatch accepts.
const MaxBatchSize = 50

// AnalyzeInput describes one analysis request.
type AnalyzeInput struct {
	UserID  string
	Text    string
	Profile *domain.Profile
	Save    bool // persist the result; needs a UserID
}

// AnalyzeOutput is the result of Analyze. ID is set when the analysis was stored.
type AnalyzeOutput struct {
	ID     string                `json:"id,omitempty"`
	Result domain.AnalysisResult `json:"result"`
	Cached bool                  `json:"cached"`
}

// OptimizeOutput compares a text with its optimized rewrite.
type OptimizeOutput struct {
	Original    string                `json:"original"`
	Optimized   string                `json:"optimized"`
	Before      domain.AnalysisResult `json:"before"`
	After       domain.AnalysisResult `json:"after"`
	Improvement float64               `json:"improvement"`
}

// AnalysisService scores texts, caches results and stores them on request.
type AnalysisService struct {
	engine   *domain.Engine
	repo     domain.AnalysisRepository
	cache    domain.Cache
	cacheTTL time.Duration
	metrics  *metrics.Collectors
	logger   *zap.Logger
}

// NewAnalysisService creates a new AnalysisService. repo and cache may be nil.
func NewAnalysisService(
	engine *domain.Engine,
	repo domain.AnalysisRepository,
	cache domain.Cache,
	cacheTTL time.Duration,
	m *metrics.Collectors,
	logger *zap.Logger,
) *AnalysisService {
	return &AnalysisService{
		engine:   engine,
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		metrics:  m,
		logger:   logger,
	}
}

// Engine returns the scoring engine.
func (s *AnalysisService) Engine() *domain.Engine {
	return s.engine
}

// Analyze scores one text and stores the result when asked to.
func (s *AnalysisService) Analyze(ctx context.Context, in AnalyzeInput) (*AnalyzeOutput, error) {
	result, cached := s.score(ctx, in.Text, in.Profile)
	out := &AnalyzeOutput{Result: result, Cached: cached}

	if !in.Save || in.UserID == "" || s.repo == nil {
		return out, nil
	}

	rec := &domain.AnalysisRecord{
		ID:     uuid.NewString(),
		UserID: in.UserID,
		Text:   in.Text,
		Result: result,
	}
	if err := s.repo.SaveAnalysis(ctx, rec); err != nil {
		s.logger.Error("saving analysis failed",
			zap.String("user_id", in.UserID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("saving analysis: %w", err)
	}
	out.ID = rec.ID

	return out, nil
}

// AnalyzeBatch scores up to MaxBatchSize texts concurrently. Results keep
// the input order.
func (s *AnalysisService) AnalyzeBatch(ctx context.Context, texts []string, profile *domain.Profile) ([]domain.AnalysisResult, error) {
	if len(texts) > MaxBatchSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(texts), MaxBatchSize)
	}

	results := make([]domain.AnalysisResult, len(texts))
	var wg sync.WaitGroup

	for i, text := range texts {
		wg.Add(1)
		go func(idx int, t string) {
			defer wg.Done()
			results[idx], _ = s.score(ctx, t, profile)
		}(i, text)
	}

	wg.Wait()

	s.logger.Debug("batch analyzed", zap.Int("count", len(texts)))

	return results, nil
}

// Optimize rewrites text with the optimizer and scores both versions.
func (s *AnalysisService) Optimize(ctx context.Context, text string, profile *domain.Profile) *OptimizeOutput {
	optimized := s.engine.OptimizeTweet(text)
	before, _ := s.score(ctx, text, profile)
	after, _ := s.score(ctx, optimized, profile)

	return &OptimizeOutput{
		Original:    text,
		Optimized:   optimized,
		Before:      before,
		After:       after,
		Improvement: roundScore(after.Score - before.Score),
	}
}

// History returns a page of the user's stored analyses.
func (s *AnalysisService) History(ctx context.Context, params domain.HistoryParams) (*domain.AnalysisPage, error) {
	params.Validate()
	if s.repo == nil {
		return domain.NewAnalysisPage([]*domain.AnalysisRecord{}, 0, params), nil
	}

	page, err := s.repo.ListAnalyses(ctx, params)
	if err != nil {
		s.logger.Error("listing analyses failed", zap.String("user_id", params.UserID), zap.Error(err))
		return nil, err
	}

	return page, nil
}

// CountAnalyses returns the number of stored analyses.
func (s *AnalysisService) CountAnalyses(ctx context.Context) (int64, error) {
	if s.repo == nil {
		return 0, nil
	}
	return s.repo.CountAnalyses(ctx)
}

// score runs the engine behind the cache. Cache failures are logged and
// never surface to the caller.
func (s *AnalysisService) score(ctx context.Context, text string, profile *domain.Profile) (domain.AnalysisResult, bool) {
	key := cacheKey(text, profile)

	if s.cache != nil {
		data, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			s.metrics.CacheLookup(metrics.CacheError)
			s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		case data != nil:
			var cached domain.AnalysisResult
			if err := json.Unmarshal(data, &cached); err == nil {
				s.metrics.CacheLookup(metrics.CacheHit)
				return cached, true
			}
			s.metrics.CacheLookup(metrics.CacheError)
			s.logger.Warn("cached analysis is corrupt", zap.String("key", key))
		default:
			s.metrics.CacheLookup(metrics.CacheMiss)
		}
	}

	result := s.engine.Analyze(text, profile)
	s.metrics.ObserveAnalysis(result.Score, result.Gated)

	if s.cache != nil {
		if data, err := json.Marshal(result); err == nil {
			if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
				s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
			}
		}
	}

	s.logger.Debug("text analyzed",
		zap.Float64("score", result.Score),
		zap.Bool("gated", result.Gated),
		zap.Int("length", result.Features.Length),
	)

	return result, false
}

// cacheKey hashes the text together with the profile it was scored against.
func cacheKey(text string, profile *domain.Profile) string {
	h := sha256.New()
	h.Write([]byte(text))
	h.Write([]byte{0})
	if profile != nil {
		p, _ := json.Marshal(profile)
		h.Write(p)
	}

	return "analysis:" + hex.EncodeToString(h.Sum(nil))
}

func roundScore(v float64) float64 {
	return math.Round(v*10) / 10
}
