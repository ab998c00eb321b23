package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const suggestionTTL = 2 * time.Hour

// SearchSuggestionSource fetches autocomplete suggestions for each
// keyword. Like every adapter it degrades to an empty list on failure
// and never raises past its own boundary.
type SearchSuggestionSource struct {
	cache   *Cache
	client  *http.Client
	baseURL string
}

func NewSearchSuggestionSource(cache *Cache) *SearchSuggestionSource {
	return &SearchSuggestionSource{
		cache:   cache,
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: "https://suggestqueries.google.com/complete/search",
	}
}

func (s *SearchSuggestionSource) FetchSuggestions(ctx context.Context, keywords []string) []string {
	key := s.cache.DeriveKey("suggestions", map[string]string{
		"keywords": strings.Join(keywords, ","),
	})
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]string)
	}

	seen := make(map[string]bool)
	var suggestions []string
	for _, keyword := range keywords {
		for _, suggestion := range s.fetchOne(ctx, keyword) {
			if !seen[suggestion] {
				seen[suggestion] = true
				suggestions = append(suggestions, suggestion)
			}
		}
	}

	if len(suggestions) > 0 {
		s.cache.Set(key, suggestions, suggestionTTL)
	}
	return suggestions
}

func (s *SearchSuggestionSource) fetchOne(ctx context.Context, keyword string) []string {
	params := url.Values{}
	params.Add("client", "firefox")
	params.Add("q", keyword)

	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		logg.Warnf("suggestions: error creating request for %q: %v", keyword, err)
		return nil
	}

	resp, err := s.client.Do(req)
	if err != nil {
		logg.Warnf("suggestions: request failed for %q: %v", keyword, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logg.Warnf("suggestions: status %d for %q", resp.StatusCode, keyword)
		return nil
	}

	// Response shape is ["query", ["suggestion", ...], ...]
	var payload []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		logg.Warnf("suggestions: error decoding response for %q: %v", keyword, err)
		return nil
	}
	if len(payload) < 2 {
		logg.Warnf("suggestions: unexpected payload shape for %q", keyword)
		return nil
	}

	var list []string
	if err := json.Unmarshal(payload[1], &list); err != nil {
		logg.Warnf("suggestions: error parsing suggestion list for %q: %v", keyword, err)
		return nil
	}

	var out []string
	for _, s := range list {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
