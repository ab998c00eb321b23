package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

const newsTTL = 4 * time.Hour

var cryptoTerms = []string{
	"bitcoin", "ethereum", "crypto", "blockchain", "defi", "web3",
	"stablecoin", "altcoin", "token", "nft",
}

var aiTerms = []string{
	"ai", "artificial intelligence", "machine learning", "llm",
	"chatgpt", "automation", "neural", "generative",
}

// NewsFeedSource merges a fixed list of RSS feeds with an optional
// keyword-search endpoint, scores each article for relevance, and keeps
// everything above the configured threshold sorted best-first.
type NewsFeedSource struct {
	cache     *Cache
	client    *http.Client
	parser    *gofeed.Parser
	feeds     []string
	apiKey    string
	searchURL string
	scoring   NewsScoring
	now       func() time.Time
}

func NewNewsFeedSource(cache *Cache, feeds []string, apiKey string, scoring NewsScoring) *NewsFeedSource {
	return &NewsFeedSource{
		cache:     cache,
		client:    &http.Client{Timeout: 15 * time.Second},
		parser:    gofeed.NewParser(),
		feeds:     feeds,
		apiKey:    apiKey,
		searchURL: "https://newsapi.org/v2/everything",
		scoring:   scoring,
		now:       time.Now,
	}
}

func (s *NewsFeedSource) FetchNews(ctx context.Context, keywords []string) []NewsArticle {
	key := s.cache.DeriveKey("news", map[string]string{
		"keywords": strings.Join(keywords, ","),
	})
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]NewsArticle)
	}

	seen := make(map[string]bool)
	var articles []NewsArticle

	for _, feedURL := range s.feeds {
		feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			logg.Warnf("news: error parsing feed %s: %v", feedURL, err)
			continue
		}
		for _, item := range feed.Items {
			if item.Link == "" || seen[item.Link] {
				continue
			}
			seen[item.Link] = true
			published := s.now()
			if item.PublishedParsed != nil {
				published = *item.PublishedParsed
			}
			articles = append(articles, NewsArticle{
				Headline:    strings.TrimSpace(item.Title),
				URL:         item.Link,
				PublishedAt: published,
				Description: strings.TrimSpace(item.Description),
			})
		}
	}

	for _, article := range s.searchArticles(ctx, keywords) {
		if article.URL == "" || seen[article.URL] {
			continue
		}
		seen[article.URL] = true
		articles = append(articles, article)
	}

	ranked := rankArticles(articles, keywords, s.scoring, s.now())

	if len(ranked) > 0 {
		s.cache.Set(key, ranked, newsTTL)
	}
	return ranked
}

// searchArticles queries the keyword-search endpoint when an API key is
// configured; without one the feed list alone serves the source.
func (s *NewsFeedSource) searchArticles(ctx context.Context, keywords []string) []NewsArticle {
	if s.apiKey == "" || len(keywords) == 0 {
		return nil
	}

	params := url.Values{}
	params.Add("q", strings.Join(keywords, " OR "))
	params.Add("sortBy", "publishedAt")
	params.Add("pageSize", "20")
	params.Add("apiKey", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", s.searchURL+"?"+params.Encode(), nil)
	if err != nil {
		logg.Warnf("news: error creating search request: %v", err)
		return nil
	}

	resp, err := s.client.Do(req)
	if err != nil {
		logg.Warnf("news: search request failed: %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logg.Warnf("news: search failed with status %d", resp.StatusCode)
		return nil
	}

	var payload struct {
		Articles []struct {
			Title       string    `json:"title"`
			URL         string    `json:"url"`
			PublishedAt time.Time `json:"publishedAt"`
			Description string    `json:"description"`
		} `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		logg.Warnf("news: error decoding search response: %v", err)
		return nil
	}

	var articles []NewsArticle
	for _, a := range payload.Articles {
		articles = append(articles, NewsArticle{
			Headline:    strings.TrimSpace(a.Title),
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
			Description: strings.TrimSpace(a.Description),
		})
	}
	return articles
}

// rankArticles assigns each article a relevance score, drops everything
// below the threshold, and sorts descending
func rankArticles(articles []NewsArticle, keywords []string, scoring NewsScoring, now time.Time) []NewsArticle {
	var ranked []NewsArticle
	for _, article := range articles {
		article.RelevanceScore = scoreArticle(article, keywords, scoring, now)
		if article.RelevanceScore >= scoring.MinScore {
			ranked = append(ranked, article)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RelevanceScore > ranked[j].RelevanceScore
	})
	return ranked
}

func scoreArticle(article NewsArticle, keywords []string, scoring NewsScoring, now time.Time) float64 {
	text := strings.ToLower(article.Headline + " " + article.Description)

	var score float64
	for _, keyword := range keywords {
		if keyword != "" && strings.Contains(text, strings.ToLower(keyword)) {
			score += scoring.KeywordWeight
			break
		}
	}
	if containsAny(text, cryptoTerms) {
		score += scoring.CryptoTermWeight
	}
	if containsAny(text, aiTerms) {
		score += scoring.AITermWeight
	}

	age := now.Sub(article.PublishedAt)
	if age < 24*time.Hour {
		score += scoring.FreshBonus
	} else if age < 48*time.Hour {
		score += scoring.RecentBonus
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
