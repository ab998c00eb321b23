package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	discussionTTL    = 2 * time.Hour
	rateLimitBackoff = 5 * time.Second
	discussionLimit  = 15
)

// CommunityDiscussionSource searches reddit for discussions around the
// run's keywords. It manages its own bearer token (client-credentials
// grant) with expiry tracking, and backs off once by a fixed delay on a
// rate-limit response before giving up for that call.
type CommunityDiscussionSource struct {
	cache        *Cache
	client       *http.Client
	clientID     string
	clientSecret string
	tokenURL     string
	searchURL    string
	userAgent    string

	token       string
	tokenExpiry time.Time
	now         func() time.Time
	sleep       func(time.Duration)
}

func NewCommunityDiscussionSource(cache *Cache, clientID, clientSecret string) *CommunityDiscussionSource {
	return &CommunityDiscussionSource{
		cache:        cache,
		client:       &http.Client{Timeout: 15 * time.Second},
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     "https://www.reddit.com/api/v1/access_token",
		searchURL:    "https://oauth.reddit.com/search",
		userAgent:    "trend-pulse-api/1.0",
		now:          time.Now,
		sleep:        time.Sleep,
	}
}

func (s *CommunityDiscussionSource) FetchDiscussions(ctx context.Context, keywords []string) []CommunityPost {
	if s.clientID == "" || s.clientSecret == "" {
		logg.Debug("community discussions: credentials not configured, skipping")
		return nil
	}

	key := s.cache.DeriveKey("discussions", map[string]string{
		"keywords": strings.Join(keywords, ","),
	})
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]CommunityPost)
	}

	if err := s.ensureToken(ctx); err != nil {
		logg.Warnf("community discussions: %v", err)
		return nil
	}

	posts, err := s.search(ctx, strings.Join(keywords, " OR "))
	if err != nil {
		logg.Warnf("community discussions: %v", err)
		return nil
	}

	if len(posts) > 0 {
		s.cache.Set(key, posts, discussionTTL)
	}
	return posts
}

// ensureToken refreshes the bearer token when it is absent or expired
func (s *CommunityDiscussionSource) ensureToken(ctx context.Context) error {
	if s.token != "" && s.now().Before(s.tokenExpiry) {
		return nil
	}

	form := url.Values{}
	form.Add("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, "POST", s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("error creating token request: %w", err)
	}
	req.SetBasicAuth(s.clientID, s.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token request failed with status %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("error decoding token response: %w", err)
	}
	if payload.AccessToken == "" {
		return fmt.Errorf("empty access token in response")
	}

	s.token = payload.AccessToken
	// Refresh a minute early rather than racing the real expiry
	s.tokenExpiry = s.now().Add(time.Duration(payload.ExpiresIn)*time.Second - time.Minute)
	return nil
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title       string `json:"title"`
				Subreddit   string `json:"subreddit"`
				Score       int    `json:"score"`
				NumComments int    `json:"num_comments"`
				Permalink   string `json:"permalink"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func (s *CommunityDiscussionSource) search(ctx context.Context, query string) ([]CommunityPost, error) {
	params := url.Values{}
	params.Add("q", query)
	params.Add("sort", "top")
	params.Add("t", "day")
	params.Add("limit", fmt.Sprintf("%d", discussionLimit))

	doSearch := func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, "GET", s.searchURL+"?"+params.Encode(), nil)
		if err != nil {
			return nil, fmt.Errorf("error creating search request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+s.token)
		req.Header.Set("User-Agent", s.userAgent)
		return s.client.Do(req)
	}

	resp, err := doSearch()
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		resp.Body.Close()
		logg.Warnf("community discussions: rate limited, backing off %s", rateLimitBackoff)
		s.sleep(rateLimitBackoff)
		resp, err = doSearch()
		if err != nil {
			return nil, fmt.Errorf("search retry failed: %w", err)
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search failed with status %d", resp.StatusCode)
	}

	var listing redditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("error decoding search response: %w", err)
	}

	var posts []CommunityPost
	for _, child := range listing.Data.Children {
		posts = append(posts, CommunityPost{
			Title:        child.Data.Title,
			Subreddit:    child.Data.Subreddit,
			Score:        child.Data.Score,
			CommentCount: child.Data.NumComments,
			URL:          "https://www.reddit.com" + child.Data.Permalink,
		})
	}
	return posts, nil
}
