package service

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"time"

	"tweet-score-service/internal/domain"
)

var errBoom = errors.New("boom")

type memoryCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
	sets   int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.data[key], nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = value
	c.sets++
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.data, key)
	return nil
}

func (c *memoryCache) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = map[string][]byte{}
	return nil
}

type memoryAnalyses struct {
	mu      sync.Mutex
	records []*domain.AnalysisRecord
	saveErr error
}

func (r *memoryAnalyses) SaveAnalysis(_ context.Context, rec *domain.AnalysisRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.saveErr != nil {
		return r.saveErr
	}
	rec.CreatedAt = time.Now()
	r.records = append(r.records, rec)
	return nil
}

func (r *memoryAnalyses) ListAnalyses(_ context.Context, params domain.HistoryParams) (*domain.AnalysisPage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var mine []*domain.AnalysisRecord
	for _, rec := range slices.Backward(r.records) {
		if rec.UserID == params.UserID {
			mine = append(mine, rec)
		}
	}

	start := min(params.Offset(), len(mine))
	end := min(start+params.Limit(), len(mine))

	return domain.NewAnalysisPage(mine[start:end], int64(len(mine)), params), nil
}

func (r *memoryAnalyses) CountAnalyses(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return int64(len(r.records)), nil
}

func (r *memoryAnalyses) AnalysisStats(_ context.Context, userID string, since time.Time) (domain.AnalysisStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var stats domain.AnalysisStats
	var sum float64
	for _, rec := range r.records {
		if rec.UserID != userID || rec.CreatedAt.Before(since) {
			continue
		}
		stats.Count++
		sum += rec.Result.Score
		stats.BestScore = max(stats.BestScore, rec.Result.Score)
		if rec.Result.Score >= domain.HighPerformerScore {
			stats.HighPerformers++
		}
		if rec.Result.Gated {
			stats.Gated++
		}
	}
	if stats.Count > 0 {
		stats.AvgScore = sum / float64(stats.Count)
	}
	return stats, nil
}

func (r *memoryAnalyses) DailyScores(_ context.Context, userID string, since time.Time) ([]domain.DailyScore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sums := map[string]float64{}
	counts := map[string]int64{}
	for _, rec := range r.records {
		if rec.UserID != userID || rec.CreatedAt.Before(since) {
			continue
		}
		day := rec.CreatedAt.UTC().Format(time.DateOnly)
		sums[day] += rec.Result.Score
		counts[day]++
	}

	var days []domain.DailyScore
	for _, day := range slices.Sorted(maps.Keys(counts)) {
		days = append(days, domain.DailyScore{Date: day, Count: counts[day], AvgScore: sums[day] / float64(counts[day])})
	}
	return days, nil
}

type memoryCampaigns struct {
	mu        sync.Mutex
	campaigns []*domain.Campaign
	err       error
}

func (r *memoryCampaigns) CreateCampaign(_ context.Context, c *domain.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	c.CreatedAt = time.Now()
	r.campaigns = append(r.campaigns, cloneCampaign(c))
	return nil
}

func (r *memoryCampaigns) GetCampaign(_ context.Context, userID, id string) (*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return nil, r.err
	}
	if c := r.find(id); c != nil && c.UserID == userID {
		return cloneCampaign(c), nil
	}
	return nil, nil
}

func (r *memoryCampaigns) ListCampaigns(_ context.Context, userID string) ([]*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domain.Campaign
	for _, c := range slices.Backward(r.campaigns) {
		if c.UserID == userID {
			out = append(out, cloneCampaign(c))
		}
	}
	return out, nil
}

func (r *memoryCampaigns) UpdateVariantMetrics(_ context.Context, campaignID, variantID string, m domain.VariantMetrics) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c := r.find(campaignID); c != nil {
		if v := c.Variant(variantID); v != nil {
			v.VariantMetrics = m
		}
	}
	return nil
}

func (r *memoryCampaigns) SetWinner(_ context.Context, campaignID, variantID string, endedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c := r.find(campaignID); c != nil {
		c.DeclareWinner(variantID, endedAt)
	}
	return nil
}

func (r *memoryCampaigns) find(id string) *domain.Campaign {
	for _, c := range r.campaigns {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func cloneCampaign(c *domain.Campaign) *domain.Campaign {
	out := *c
	out.Variants = slices.Clone(c.Variants)
	return &out
}

type memoryProfiles struct {
	mu        sync.Mutex
	records   map[string]*domain.ProfileRecord
	upsertErr error
}

func newMemoryProfiles(recs ...*domain.ProfileRecord) *memoryProfiles {
	r := &memoryProfiles{records: map[string]*domain.ProfileRecord{}}
	for _, rec := range recs {
		r.records[rec.UserID+"/"+rec.Profile.Username] = rec
	}
	return r
}

func (r *memoryProfiles) GetProfile(_ context.Context, userID, username string) (*domain.ProfileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[userID+"/"+username]
	if !ok {
		return nil, nil
	}
	clone := *rec
	return &clone, nil
}

func (r *memoryProfiles) UpsertProfile(_ context.Context, rec *domain.ProfileRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.upsertErr != nil {
		return r.upsertErr
	}
	rec.UpdatedAt = time.Now()
	clone := *rec
	r.records[rec.UserID+"/"+rec.Profile.Username] = &clone
	return nil
}

func (r *memoryProfiles) ListProfiles(_ context.Context, limit int) ([]*domain.ProfileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*domain.ProfileRecord, 0, len(r.records))
	for _, rec := range r.records {
		clone := *rec
		out = append(out, &clone)
	}
	slices.SortFunc(out, func(a, b *domain.ProfileRecord) int {
		switch {
		case a.SyncedAt == nil && b.SyncedAt == nil:
			return 0
		case a.SyncedAt == nil:
			return -1
		case b.SyncedAt == nil:
			return 1
		}
		return a.SyncedAt.Compare(*b.SyncedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryProfiles) CountProfiles(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return int64(len(r.records)), nil
}

func (r *memoryProfiles) get(userID, username string) *domain.ProfileRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.records[userID+"/"+username]
}

type fakeSource struct {
	mu     sync.Mutex
	tweets map[string][]domain.HistoricalTweet
	err    error
	calls  []string
}

func (s *fakeSource) Name() string { return "fake" }

func (s *fakeSource) FetchHistory(_ context.Context, username string, limit int) ([]domain.HistoricalTweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, username)
	if s.err != nil {
		return nil, s.err
	}
	tweets := s.tweets[username]
	return tweets[:min(limit, len(tweets))], nil
}

func (s *fakeSource) HealthCheck(context.Context) error { return s.err }

type fakeGenerator struct {
	text     string
	err      error
	requests []domain.GenerationRequest
}

func (g *fakeGenerator) Name() string { return "fake" }

func (g *fakeGenerator) Generate(_ context.Context, req domain.GenerationRequest) (string, error) {
	g.requests = append(g.requests, req)
	return g.text, g.err
}
