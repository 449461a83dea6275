package scraper

import "tweet-score-service/internal/domain"

// TimelineResponse is the JSON body of the timeline endpoint.
type TimelineResponse struct {
	Username string      `json:"username"`
	Tweets   []TweetItem `json:"tweets"`
}

// TweetItem is one scraped post. A zero Impressions means the frontend did
// not expose a view count.
type TweetItem struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Likes       int    `json:"likes"`
	Retweets    int    `json:"retweets"`
	Replies     int    `json:"replies"`
	Impressions int    `json:"impressions"`
	CreatedAt   string `json:"created_at"`
}

// ToDomain converts TweetItem to domain.HistoricalTweet.
func (t *TweetItem) ToDomain() domain.HistoricalTweet {
	return domain.HistoricalTweet{
		ID:          t.ID,
		Text:        t.Text,
		Likes:       max(t.Likes, 0),
		Retweets:    max(t.Retweets, 0),
		Replies:     max(t.Replies, 0),
		Impressions: max(t.Impressions, 0),
	}
}
