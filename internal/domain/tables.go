package domain

// Action is an engagement action the ranking model predicts a probability for.
type Action string

const (
	ActionFavorite         Action = "favorite"
	ActionReply            Action = "reply"
	ActionRetweet          Action = "retweet"
	ActionQuote            Action = "quote"
	ActionBookmark         Action = "bookmark"
	ActionClick            Action = "click"
	ActionProfileClick     Action = "profile_click"
	ActionPhotoExpand      Action = "photo_expand"
	ActionVideoView        Action = "video_view"
	ActionShare            Action = "share"
	ActionShareViaDM       Action = "share_via_dm"
	ActionShareViaCopyLink Action = "share_via_copy_link"
	ActionDwell            Action = "dwell"
	ActionFollowAuthor     Action = "follow_author"
	ActionNotInterested    Action = "not_interested"
	ActionMute             Action = "mute"
	ActionBlock            Action = "block"
	ActionReport           Action = "report"
)

// PositiveActions lists the actions that raise the Phoenix score, in report order.
var PositiveActions = []Action{
	ActionFavorite, ActionReply, ActionRetweet, ActionQuote, ActionBookmark,
	ActionClick, ActionProfileClick, ActionPhotoExpand, ActionVideoView,
	ActionShare, ActionShareViaDM, ActionShareViaCopyLink, ActionDwell, ActionFollowAuthor,
}

// NegativeActions lists the actions that lower the Phoenix score.
var NegativeActions = []Action{ActionNotInterested, ActionMute, ActionBlock, ActionReport}

// ContentType is the post format used by reach prediction.
type ContentType string

const (
	ContentTextOnly  ContentType = "text_only"
	ContentWithImage ContentType = "with_image"
	ContentWithVideo ContentType = "with_video"
	ContentWithPoll  ContentType = "with_poll"
	ContentWithLink  ContentType = "with_link"
	ContentThread    ContentType = "thread"
	ContentReply     ContentType = "reply"
	ContentQuote     ContentType = "quote"
)

// ContentTypes returns every supported content type.
func ContentTypes() []ContentType {
	return []ContentType{
		ContentTextOnly, ContentWithImage, ContentWithVideo, ContentWithPoll,
		ContentWithLink, ContentThread, ContentReply, ContentQuote,
	}
}

// RuneRange is an inclusive range of code points.
type RuneRange struct {
	Lo, Hi rune
}

// Contains reports whether r falls inside the range.
func (rr RuneRange) Contains(r rune) bool {
	return r >= rr.Lo && r <= rr.Hi
}

// TierProfile holds the reach constants of one engagement tier.
type TierProfile struct {
	Tier             EngagementTier
	MinFollowers     int
	OrganicReachRate float64
	EngagementRate   float64
}

// Tables is the immutable constant set the engine reads: weights, multipliers
// and keyword lists. Build it once at startup and share it; nothing in the
// engine writes to it.
type Tables struct {
	// Phoenix action weights. Negative weights penalize.
	ActionWeights map[Action]float64

	// Text heuristics
	SpamKeywords     []string
	CTAPhrases       []string
	ThreadMarkers    []string
	CommonWords      map[string]struct{}
	KeyboardPatterns []string
	PlatformDomains  []string
	EmojiRanges      []RuneRange
	ApprovedSymbols  map[rune]struct{}
	Vowels           string

	// Ordered multiplicative scoring chain
	Rules []ScoringRule

	// Reach
	HourMultipliers    [24]float64
	DayMultipliers     [7]float64
	ContentMultipliers map[ContentType]float64
	Tiers              []TierProfile // ordered by MinFollowers, highest first

	// Monetization
	MarketMultipliers map[string]float64
	HighValueNiches   []string
	MediumValueNiches []string

	// Style
	ProfessionalKeywords []string
	CasualKeywords       []string
	ProvocativeKeywords  []string

	// Optimizer
	OptimizerCTAs   []string
	LinkPlaceholder string
}

// DefaultTables returns a freshly built copy of the built-in constant set.
func DefaultTables() *Tables {
	return &Tables{
		ActionWeights: map[Action]float64{
			ActionFavorite:         0.5,
			ActionReply:            1.0,
			ActionRetweet:          1.0,
			ActionQuote:            1.0,
			ActionClick:            0.5,
			ActionProfileClick:     1.0,
			ActionPhotoExpand:      0.5,
			ActionVideoView:        0.5,
			ActionShare:            1.0,
			ActionShareViaDM:       1.0,
			ActionShareViaCopyLink: 1.0,
			ActionDwell:            1.0,
			ActionFollowAuthor:     4.0,
			ActionNotInterested:    -1.0,
			ActionMute:             -2.0,
			ActionBlock:            -3.0,
			ActionReport:           -4.0,
		},
		SpamKeywords: []string{
			"follow for follow", "f4f", "like4like", "dm for collab", "buy now",
			"limited offer", "click link", "free money", "giveaway follow", "retweet to win",
		},
		CTAPhrases: []string{
			"yorumda", "belirtin", "paylaş", "ne düşünüyorsunuz", "katılıyor musunuz",
			"hangisi", "kaydet", "bookmark", "dm", "comment", "share", "👇", "⬇️",
		},
		ThreadMarkers:    []string{"🧵", "thread"},
		CommonWords:      wordSet(defaultCommonWords),
		KeyboardPatterns: []string{"asdf", "jkl", "qwer", "zxcv", "uiop", "ghjk", "asd", "fgh", "qwe", "rty", "dfg", "cvb", "bnm"},
		PlatformDomains:  []string{"twitter.com", "x.com"},
		EmojiRanges: []RuneRange{
			{Lo: 0x1F300, Hi: 0x1F9FF},
			{Lo: 0x2702, Hi: 0x27B0},
		},
		ApprovedSymbols: runeSet("🧵👇💡✅❌📊🎯💪🔥⚡📌🔹🔸•️"),
		Vowels:          "aeıioöuü",

		Rules: DefaultRules(),

		HourMultipliers: [24]float64{
			0.4, 0.3, 0.2, 0.2, 0.2, 0.3, // 00-05
			0.5, 0.7, 0.9, 1.1, 1.2, 1.3, // 06-11
			1.4, 1.3, 1.1, 1.0, 1.0, 1.1, // 12-17
			1.3, 1.4, 1.3, 1.2, 0.9, 0.6, // 18-23
		},
		// Monday first
		DayMultipliers: [7]float64{1.1, 1.1, 1.1, 1.1, 1.0, 0.9, 0.8},
		ContentMultipliers: map[ContentType]float64{
			ContentTextOnly:  1.0,
			ContentWithImage: 1.5,
			ContentWithVideo: 2.0,
			ContentWithPoll:  1.8,
			ContentWithLink:  0.8,
			ContentThread:    1.3,
			ContentReply:     0.5,
			ContentQuote:     1.1,
		},
		Tiers: []TierProfile{
			{Tier: TierMega, MinFollowers: 1_000_000, OrganicReachRate: 0.03, EngagementRate: 0.010},
			{Tier: TierMacro, MinFollowers: 100_000, OrganicReachRate: 0.05, EngagementRate: 0.015},
			{Tier: TierMid, MinFollowers: 10_000, OrganicReachRate: 0.07, EngagementRate: 0.020},
			{Tier: TierMicro, MinFollowers: 1_000, OrganicReachRate: 0.10, EngagementRate: 0.030},
			{Tier: TierNano, MinFollowers: 100, OrganicReachRate: 0.15, EngagementRate: 0.040},
			{Tier: TierStarter, MinFollowers: 0, OrganicReachRate: 0.20, EngagementRate: 0.050},
		},

		// Multipliers over BaseRPM
		MarketMultipliers: map[string]float64{
			"US":    8.0,
			"CA":    6.0,
			"UK":    6.0,
			"AU":    6.0,
			"EU":    4.0,
			"TR":    0.5,
			"OTHER": 1.0,
		},
		HighValueNiches:   []string{"finans", "finance", "kripto", "crypto", "trading", "investing", "saas", "ai"},
		MediumValueNiches: []string{"teknoloji", "tech", "eglence", "entertainment", "spor", "sports", "marketing", "health"},

		ProfessionalKeywords: []string{"according to", "research", "study", "analysis", "data"},
		CasualKeywords:       []string{"lol", "haha", "omg", "literally", "tbh", "imo"},
		ProvocativeKeywords:  []string{"unpopular", "controversial", "hot take", "truth about"},

		OptimizerCTAs: []string{
			"\n\nWhat do you think? 👇",
			"\n\nDo you agree?",
			"\n\nShare your experience 💬",
			"\n\nBookmark this for later 🔖",
		},
		LinkPlaceholder: "[link in reply]",
	}
}

// HourMultiplier returns the engagement multiplier for an hour, wrapping out-of-range values.
func (t *Tables) HourMultiplier(hour int) float64 {
	return t.HourMultipliers[wrap(hour, 24)]
}

// DayMultiplier returns the engagement multiplier for a day (0 = Monday).
func (t *Tables) DayMultiplier(day int) float64 {
	return t.DayMultipliers[wrap(day, 7)]
}

// ContentMultiplier returns the reach multiplier for a content type.
// Unknown types are neutral.
func (t *Tables) ContentMultiplier(ct ContentType) float64 {
	if m, ok := t.ContentMultipliers[ct]; ok {
		return m
	}

	return 1.0
}

// TierFor returns the tier constants for a follower count.
func (t *Tables) TierFor(followers int) TierProfile {
	for _, tp := range t.Tiers {
		if followers >= tp.MinFollowers {
			return tp
		}
	}

	return t.Tiers[len(t.Tiers)-1]
}

// isEmoji reports whether r is inside one of the configured emoji ranges.
func (t *Tables) isEmoji(r rune) bool {
	for _, rr := range t.EmojiRanges {
		if rr.Contains(r) {
			return true
		}
	}

	return false
}

func wrap(v, n int) int {
	return ((v % n) + n) % n
}

func wordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}

	return set
}

func runeSet(s string) map[rune]struct{} {
	set := make(map[rune]struct{})
	for _, r := range s {
		set[r] = struct{}{}
	}

	return set
}

// defaultCommonWords are function words of the supported languages. They only
// serve the gibberish check.
var defaultCommonWords = []string{
	// Turkish
	"bir", "bu", "ve", "için", "ile", "de", "da", "ne", "var", "yok",
	"ben", "sen", "biz", "siz", "ama", "çok", "daha", "en", "gibi",
	"nasıl", "neden", "nerede", "kim", "hangi", "kaç", "şey", "zaman",
	"öyle", "böyle", "şu", "her", "hiç", "artık", "hala", "sadece",
	"ise", "olan", "olarak", "sonra", "önce", "üzere", "kadar", "göre",
	"hakkında", "arasında", "dolayı", "rağmen", "karşı", "doğru",
	// English
	"the", "a", "an", "is", "are", "was", "were", "be", "been", "being",
	"have", "has", "had", "do", "does", "did", "will", "would", "could",
	"should", "may", "might", "must", "can", "to", "of", "in", "for",
	"on", "with", "at", "by", "from", "or", "as", "it", "that", "this",
	"but", "not", "you", "all", "we", "they", "her", "his", "my", "your",
	"what", "which", "who", "when", "where", "why", "how", "if", "so",
	"just", "like", "think", "know", "want", "need", "see", "way",
	"new", "now", "look", "only", "come", "its", "over", "such", "even",
	"very", "after", "most", "also", "made", "well", "back", "through",
	"and",
}
