package dto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweet-score-service/internal/domain"
	"tweet-score-service/internal/validator"
)

func newTestValidator() *validator.Validator {
	return validator.New()
}

func ptr[T any](v T) *T { return &v }

func TestProfileRequest_ToDomain_Defaults(t *testing.T) {
	req := ProfileRequest{Username: "gopher", FollowersCount: 1200, FollowingCount: 300}

	p := req.ToDomain()

	assert.Equal(t, "gopher", p.Username)
	assert.Equal(t, domain.DefaultAccountAgeDays, p.AccountAgeDays)
	assert.Zero(t, p.AvgEngagementRate)

	req.AccountAgeDays = ptr(0)
	req.AvgEngagementRate = ptr(0.03)
	p = req.ToDomain()

	assert.Equal(t, 0, p.AccountAgeDays, "explicit zero age is kept")
	assert.Equal(t, 0.03, p.AvgEngagementRate)
}

func TestAnalyzeRequest_Validation(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name    string
		req     AnalyzeRequest
		wantErr bool
		field   string
	}{
		{name: "empty text is allowed", req: AnalyzeRequest{}},
		{name: "text with profile", req: AnalyzeRequest{Text: "hello", Profile: &ProfileRequest{FollowersCount: 10}}},
		{name: "text too long", req: AnalyzeRequest{Text: strings.Repeat("a", 25001)}, wantErr: true, field: "text"},
		{name: "negative followers", req: AnalyzeRequest{Text: "x", Profile: &ProfileRequest{FollowersCount: -1}}, wantErr: true, field: "followers_count"},
		{name: "engagement rate above one", req: AnalyzeRequest{Text: "x", Profile: &ProfileRequest{AvgEngagementRate: ptr(1.5)}}, wantErr: true, field: "avg_engagement_rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.req)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			errs, ok := err.(validator.ValidationErrors)
			require.True(t, ok)
			assert.Equal(t, tt.field, errs[0].Field)
		})
	}
}

func TestBatchAnalyzeRequest_Validation(t *testing.T) {
	v := newTestValidator()

	assert.NoError(t, v.Validate(&BatchAnalyzeRequest{Texts: []string{"a", "b"}}))
	assert.Error(t, v.Validate(&BatchAnalyzeRequest{}), "texts are required")
	assert.Error(t, v.Validate(&BatchAnalyzeRequest{Texts: make([]string, 51)}), "at most 50 texts")
	assert.Error(t, v.Validate(&BatchAnalyzeRequest{Texts: []string{strings.Repeat("a", 25001)}}), "each text is bounded")
}

func TestReachRequest_Validation(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name    string
		req     ReachRequest
		wantErr bool
	}{
		{name: "minimal", req: ReachRequest{Score: 70}},
		{name: "full", req: ReachRequest{Score: 100, Hour: ptr(0), Day: ptr(6), ContentType: "with_video", TweetCred: ptr(65)}},
		{name: "score above 100", req: ReachRequest{Score: 101}, wantErr: true},
		{name: "hour 24", req: ReachRequest{Hour: ptr(24)}, wantErr: true},
		{name: "day 7", req: ReachRequest{Day: ptr(7)}, wantErr: true},
		{name: "unknown content type", req: ReachRequest{ContentType: "podcast"}, wantErr: true},
		{name: "cold start tweetcred", req: ReachRequest{TweetCred: ptr(-80)}},
		{name: "lowest tweetcred", req: ReachRequest{TweetCred: ptr(-158)}},
		{name: "highest tweetcred", req: ReachRequest{TweetCred: ptr(102)}},
		{name: "tweetcred below range", req: ReachRequest{TweetCred: ptr(-159)}, wantErr: true},
		{name: "tweetcred above range", req: ReachRequest{TweetCred: ptr(103)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReachRequest_ToDomain(t *testing.T) {
	req := ReachRequest{
		Score:       82,
		Profile:     ProfileRequest{Username: "gopher", FollowersCount: 5000},
		Hour:        ptr(19),
		ContentType: "with_image",
		Trending:    true,
	}

	got := req.ToDomain()

	assert.Equal(t, 82.0, got.Score)
	assert.Equal(t, 5000, got.Profile.FollowersCount)
	assert.Equal(t, 19, *got.Hour)
	assert.Nil(t, got.Day)
	assert.Equal(t, domain.ContentWithImage, got.ContentType)
	assert.True(t, got.Trending)
}

func TestTweetCredRequest_Rate(t *testing.T) {
	req := TweetCredRequest{}
	assert.Equal(t, domain.DefaultAvgEngagementRate, req.Rate())

	req.Profile.AvgEngagementRate = ptr(0.02)
	assert.Equal(t, 0.02, req.Rate())

	req.AvgEngagementRate = ptr(0.05)
	assert.Equal(t, 0.05, req.Rate(), "explicit rate wins over the profile's")
}

func TestMonetizationRequest_Validation(t *testing.T) {
	v := newTestValidator()

	assert.NoError(t, v.Validate(&MonetizationRequest{Niche: "crypto", Market: "UK"}))
	assert.NoError(t, v.Validate(&MonetizationRequest{}))
	assert.Error(t, v.Validate(&MonetizationRequest{Market: "united kingdom"}))
}

func TestGenerateRequest_Validation(t *testing.T) {
	v := newTestValidator()

	assert.NoError(t, v.Validate(&GenerateRequest{Topic: "go generics", Style: "casual", Length: "thread"}))
	assert.Error(t, v.Validate(&GenerateRequest{}), "topic is required")
	assert.Error(t, v.Validate(&GenerateRequest{Topic: "x", Style: "angry"}))
	assert.Error(t, v.Validate(&GenerateRequest{Topic: "x", Length: "novel"}))
}

func TestHistoryRequest_ToParams(t *testing.T) {
	req := HistoryRequest{}
	params := req.ToParams("u1")

	assert.Equal(t, "u1", params.UserID)
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 20, params.PageSize)

	req = HistoryRequest{Page: 3, PageSize: 50, MinScore: ptr(60.0)}
	params = req.ToParams("u1")

	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 50, params.PageSize)
	assert.Equal(t, 100, params.Offset())
	require.NotNil(t, params.MinScore)
	assert.Equal(t, 60.0, *params.MinScore)
}

func TestStyleRequest_ToDomain(t *testing.T) {
	req := StyleRequest{Tweets: []TweetRecord{
		{Text: "first", Likes: 3, Impressions: 100},
		{Text: "second", Retweets: 1},
	}}

	got := req.ToDomain()

	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Text)
	assert.Equal(t, 3, got[0].Likes)
	assert.Equal(t, 1, got[1].Retweets)
	assert.Zero(t, got[1].Impressions)
}
