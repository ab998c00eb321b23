package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

const maxIdeas = 8

// IdeaGenerator turns a trend snapshot plus recent-post history into a
// ranked list of post concepts with a single language-model call.
type IdeaGenerator struct {
	chat ChatClient
}

func NewIdeaGenerator(chat ChatClient) *IdeaGenerator {
	return &IdeaGenerator{chat: chat}
}

// GenerateIdeas always returns a non-empty, well-typed idea list: when
// the model response has no parseable array the fixed fallback set is
// used instead, upgraded in place with real snapshot data.
func (g *IdeaGenerator) GenerateIdeas(ctx context.Context, business BusinessProfile, snapshot TrendSnapshot, recent []RecentPost) []PostIdea {
	prompt := buildIdeaPrompt(business, snapshot, recent)

	response, err := g.chat.Complete(ctx, prompt)
	if err != nil {
		logg.Warnf("idea generation call failed, using fallback ideas: %v", err)
		return fallbackIdeas(business, snapshot)
	}

	ideas, err := parseIdeas(response)
	if err != nil {
		logg.Warnf("could not parse idea response, using fallback ideas: %v", err)
		return fallbackIdeas(business, snapshot)
	}

	sort.SliceStable(ideas, func(i, j int) bool {
		return ideas[i].RelevanceScore > ideas[j].RelevanceScore
	})
	if len(ideas) > maxIdeas {
		ideas = ideas[:maxIdeas]
	}
	return ideas
}

func buildIdeaPrompt(business BusinessProfile, snapshot TrendSnapshot, recent []RecentPost) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are a social media strategist for %s, a %s in the %s industry.
Audience: %s. Services: %s. Brand personality: %s. Content strategy: %s.

Today's trend signals:
`, business.Name, business.Type, business.Industry, business.Audience,
		business.Services, business.Personality, business.Strategy)

	b.WriteString(formatSnapshot(snapshot))

	if len(recent) > 0 {
		b.WriteString("\nRecently covered (do NOT repeat these topics or formats):\n")
		for _, post := range recent {
			fmt.Fprintf(&b, "- %s\n", post.Snippet)
		}
	}

	b.WriteString(`
Propose up to 8 post ideas ranked by relevance. Respond with ONLY a JSON array:
[
  {"concept": "short phrase", "trend_source": "where this came from", "relevance_score": 0.9, "business_benefit": "why it helps"}
]`)

	return b.String()
}

// formatSnapshot renders each non-empty source section distinctly; empty
// sections are omitted entirely
func formatSnapshot(snapshot TrendSnapshot) string {
	var b strings.Builder

	if len(snapshot.SearchSuggestions) > 0 {
		fmt.Fprintf(&b, "Search suggestions: %s\n", strings.Join(snapshot.SearchSuggestions, "; "))
	}
	if len(snapshot.TrendingCoins) > 0 {
		b.WriteString("Trending coins:\n")
		for _, coin := range snapshot.TrendingCoins {
			fmt.Fprintf(&b, "- %s (%s) rank %d, 24h change %.1f%%\n", coin.Name, coin.Symbol, coin.Rank, coin.PriceChange)
		}
	}
	if len(snapshot.SocialTrends) > 0 {
		fmt.Fprintf(&b, "Social trends: %s\n", strings.Join(snapshot.SocialTrends, ", "))
	}
	if len(snapshot.Discussions) > 0 {
		b.WriteString("Community discussions:\n")
		for _, post := range snapshot.Discussions {
			fmt.Fprintf(&b, "- %q (r/%s, %d points, %d comments)\n", post.Title, post.Subreddit, post.Score, post.CommentCount)
		}
	}
	if len(snapshot.NewsArticles) > 0 {
		b.WriteString("News:\n")
		for _, article := range snapshot.NewsArticles {
			fmt.Fprintf(&b, "- %s (relevance %.1f)\n", article.Headline, article.RelevanceScore)
		}
	}

	if b.Len() == 0 {
		return "(no trend data available this run)\n"
	}
	return b.String()
}

// parseIdeas extracts the first JSON array embedded in the response text.
// The model regularly wraps the array in commentary, so this is a lenient
// parse with an explicit error when no array can be found.
func parseIdeas(response string) ([]PostIdea, error) {
	raw := extractJSONArray(response)
	if raw == "" {
		return nil, fmt.Errorf("no JSON array found in response")
	}

	var parsed []struct {
		Concept         string   `json:"concept"`
		TrendSource     string   `json:"trend_source"`
		RelevanceScore  *float64 `json:"relevance_score"`
		BusinessBenefit string   `json:"business_benefit"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("error parsing idea array: %w", err)
	}
	if len(parsed) == 0 {
		return nil, fmt.Errorf("idea array is empty")
	}

	var ideas []PostIdea
	for _, p := range parsed {
		idea := PostIdea{
			ID:              uuid.New().String(),
			Concept:         strings.TrimSpace(p.Concept),
			TrendSource:     strings.TrimSpace(p.TrendSource),
			RelevanceScore:  0.5,
			BusinessBenefit: strings.TrimSpace(p.BusinessBenefit),
		}
		if idea.Concept == "" {
			idea.Concept = "Share a timely industry insight"
		}
		if idea.TrendSource == "" {
			idea.TrendSource = "general"
		}
		if p.RelevanceScore != nil {
			idea.RelevanceScore = *p.RelevanceScore
		}
		if idea.BusinessBenefit == "" {
			idea.BusinessBenefit = "keeps the brand part of the current conversation"
		}
		ideas = append(ideas, idea)
	}
	return ideas, nil
}

// extractJSONArray returns the first balanced bracketed array in text,
// or "" when there is none
func extractJSONArray(text string) string {
	start := strings.Index(text, "[")
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '[':
			if !inString {
				depth++
			}
		case ']':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1]
				}
			}
		}
	}
	return ""
}

// fallbackIdeas is the guaranteed-non-empty safety net used whenever the
// model output cannot be parsed
func fallbackIdeas(business BusinessProfile, snapshot TrendSnapshot) []PostIdea {
	ideas := []PostIdea{
		{
			ID:              uuid.New().String(),
			Concept:         fmt.Sprintf("How %s helps %s stay ahead", business.Services, business.Audience),
			TrendSource:     "fallback",
			RelevanceScore:  0.7,
			BusinessBenefit: "positions the business as a practical problem solver",
		},
		{
			ID:              uuid.New().String(),
			Concept:         "The market trend everyone in your feed is missing",
			TrendSource:     "fallback",
			RelevanceScore:  0.6,
			BusinessBenefit: "drives curiosity and engagement",
		},
		{
			ID:              uuid.New().String(),
			Concept:         fmt.Sprintf("Three questions %s should ask before adopting new tech", business.Audience),
			TrendSource:     "fallback",
			RelevanceScore:  0.5,
			BusinessBenefit: "builds trust through educational content",
		},
	}

	// Upgrade the generic market idea with real snapshot data when we
	// have any
	if len(snapshot.TrendingCoins) > 0 {
		top := snapshot.TrendingCoins[0]
		ideas[1].Concept = fmt.Sprintf("Why %s is trending and what it signals for the market", top.Name)
		ideas[1].TrendSource = sourceCoins
	} else if len(snapshot.SocialTrends) > 0 {
		ideas[1].Concept = fmt.Sprintf("What the %s conversation means for your business", snapshot.SocialTrends[0])
		ideas[1].TrendSource = sourceSocial
	}

	return ideas
}
