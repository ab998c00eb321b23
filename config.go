package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// BusinessProfile describes the persona the content is generated for
type BusinessProfile struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Locale      string `json:"locale"`
	Industry    string `json:"industry"`
	Audience    string `json:"audience"`
	Services    string `json:"services"`
	Personality string `json:"personality"`
	Strategy    string `json:"strategy"`
}

// NewsScoring holds the relevance-ranking constants. The defaults match
// the reference weighting; they are configuration, not invariants.
type NewsScoring struct {
	KeywordWeight    float64
	CryptoTermWeight float64
	AITermWeight     float64
	FreshBonus       float64 // < 24h old
	RecentBonus      float64 // < 48h old
	MinScore         float64
}

type Config struct {
	Business BusinessProfile

	KeywordPool    []string
	KeywordsPerRun int
	Platforms      []string

	EnableSuggestions bool
	EnableSocial      bool
	EnableCoins       bool
	EnableImages      bool

	OpenAIKey    string
	GeminiKey    string
	RedditID     string
	RedditSecret string
	NewsAPIKey   string

	NewsFeeds []string
	Scoring   NewsScoring

	ImageProbability float64
	OutputDir        string
	PostsDir         string
	RecentPostLimit  int

	ScheduleInterval time.Duration
	MaxRandomDelay   time.Duration

	LogFile         string
	ScheduleLogFile string
}

var defaultNewsFeeds = []string{
	"https://cointelegraph.com/rss",
	"https://decrypt.co/feed",
	"https://www.coindesk.com/arc/outboundfeeds/rss/",
}

// LoadConfig builds the configuration from the environment. Only the
// OpenAI key is mandatory; everything else has a workable default.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Business: BusinessProfile{
			Name:        envOr("BUSINESS_NAME", "Trend Pulse"),
			Type:        envOr("BUSINESS_TYPE", "consultancy"),
			Locale:      envOr("BUSINESS_LOCALE", "en-US"),
			Industry:    envOr("BUSINESS_INDUSTRY", "technology"),
			Audience:    envOr("BUSINESS_AUDIENCE", "small business owners"),
			Services:    envOr("BUSINESS_SERVICES", "AI automation consulting"),
			Personality: envOr("BUSINESS_PERSONALITY", "approachable expert"),
			Strategy:    envOr("CONTENT_STRATEGY", "value_first"),
		},
		KeywordPool:    splitList(os.Getenv("KEYWORD_POOL")),
		KeywordsPerRun: envInt("KEYWORDS_PER_RUN", 3),
		Platforms:      splitList(envOr("PLATFORMS", "twitter,instagram,linkedin")),

		EnableSuggestions: envBool("ENABLE_SEARCH_SUGGESTIONS", true),
		EnableSocial:      envBool("ENABLE_SOCIAL_SCRAPE", true),
		EnableCoins:       envBool("ENABLE_TRENDING_COINS", true),
		EnableImages:      envBool("ENABLE_IMAGE_GENERATION", true),

		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		GeminiKey:    os.Getenv("GEMINI_API_KEY"),
		RedditID:     os.Getenv("REDDIT_CLIENT_ID"),
		RedditSecret: os.Getenv("REDDIT_CLIENT_SECRET"),
		NewsAPIKey:   os.Getenv("NEWS_API_KEY"),

		NewsFeeds: defaultNewsFeeds,
		Scoring: NewsScoring{
			KeywordWeight:    envFloat("NEWS_KEYWORD_WEIGHT", 0.3),
			CryptoTermWeight: envFloat("NEWS_CRYPTO_WEIGHT", 0.2),
			AITermWeight:     envFloat("NEWS_AI_WEIGHT", 0.2),
			FreshBonus:       envFloat("NEWS_FRESH_BONUS", 0.2),
			RecentBonus:      envFloat("NEWS_RECENT_BONUS", 0.1),
			MinScore:         envFloat("NEWS_MIN_SCORE", 0.2),
		},

		ImageProbability: envFloat("IMAGE_PROBABILITY", 0.3),
		OutputDir:        envOr("OUTPUT_DIR", "current_post"),
		PostsDir:         envOr("POSTS_DIR", "posts"),
		RecentPostLimit:  envInt("RECENT_POST_LIMIT", 10),

		ScheduleInterval: envDuration("SCHEDULE_INTERVAL", 6*time.Hour),
		MaxRandomDelay:   envDuration("MAX_RANDOM_DELAY", 0),

		LogFile:         os.Getenv("LOG_FILE"),
		ScheduleLogFile: envOr("SCHEDULE_LOG_FILE", "schedule.log"),
	}

	if feeds := splitList(os.Getenv("NEWS_FEEDS")); len(feeds) > 0 {
		cfg.NewsFeeds = feeds
	}

	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
	}

	switch cfg.Business.Strategy {
	case "value_first", "authority_building", "direct_sales":
	default:
		return nil, fmt.Errorf("invalid content strategy: %s", cfg.Business.Strategy)
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
