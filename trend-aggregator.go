package main

import (
	"context"
	"sync"
	"time"
)

// Per-source fetch contracts. Adapters log their own failures and return
// empty results rather than errors, so the aggregator only has to join.
type SuggestionFetcher interface {
	FetchSuggestions(ctx context.Context, keywords []string) []string
}

type CoinFetcher interface {
	FetchTrendingCoins(ctx context.Context) []TrendingCoin
}

type SocialFetcher interface {
	FetchSocialTrends(ctx context.Context) []string
}

type DiscussionFetcher interface {
	FetchDiscussions(ctx context.Context, keywords []string) []CommunityPost
}

type NewsFetcher interface {
	FetchNews(ctx context.Context, keywords []string) []NewsArticle
}

// TrendAggregator fans out to every enabled source concurrently and
// assembles the run's snapshot. The join is all-settled: a slow or
// failing source degrades its own list to empty and never aborts the
// siblings or the run. Community discussions and news are always
// attempted; the others are gated by config flags.
type TrendAggregator struct {
	Suggestions SuggestionFetcher
	Coins       CoinFetcher
	Social      SocialFetcher
	Discussions DiscussionFetcher
	News        NewsFetcher

	EnableSuggestions bool
	EnableCoins       bool
	EnableSocial      bool
}

const (
	sourceSuggestions = "search_suggestions"
	sourceCoins       = "trending_coins"
	sourceSocial      = "social_trends"
	sourceDiscussions = "community_discussions"
	sourceNews        = "news"
)

// Aggregate returns the snapshot plus the list of sources that actually
// contributed data. Disabled and failed sources look identical in the
// snapshot (empty list); the usage list is how callers tell them apart
// from populated ones.
func (a *TrendAggregator) Aggregate(ctx context.Context, keywords []string) (TrendSnapshot, []string) {
	start := time.Now()
	var snapshot TrendSnapshot
	var wg sync.WaitGroup

	run := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					logg.Errorf("trend source panicked: %v", r)
				}
			}()
			fn()
		}()
	}

	if a.EnableSuggestions && a.Suggestions != nil {
		run(func() { snapshot.SearchSuggestions = a.Suggestions.FetchSuggestions(ctx, keywords) })
	}
	if a.EnableCoins && a.Coins != nil {
		run(func() { snapshot.TrendingCoins = a.Coins.FetchTrendingCoins(ctx) })
	}
	if a.EnableSocial && a.Social != nil {
		run(func() { snapshot.SocialTrends = a.Social.FetchSocialTrends(ctx) })
	}
	if a.Discussions != nil {
		run(func() { snapshot.Discussions = a.Discussions.FetchDiscussions(ctx, keywords) })
	}
	if a.News != nil {
		run(func() { snapshot.NewsArticles = a.News.FetchNews(ctx, keywords) })
	}

	wg.Wait()

	var used []string
	if len(snapshot.SearchSuggestions) > 0 {
		used = append(used, sourceSuggestions)
	}
	if len(snapshot.TrendingCoins) > 0 {
		used = append(used, sourceCoins)
	}
	if len(snapshot.SocialTrends) > 0 {
		used = append(used, sourceSocial)
	}
	if len(snapshot.Discussions) > 0 {
		used = append(used, sourceDiscussions)
	}
	if len(snapshot.NewsArticles) > 0 {
		used = append(used, sourceNews)
	}

	logg.Infof("trend aggregation finished in %s, %d sources contributed", time.Since(start).Round(time.Millisecond), len(used))
	return snapshot, used
}
