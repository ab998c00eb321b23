package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregateAllSourcesContribute(t *testing.T) {
	agg := &TrendAggregator{
		Suggestions:       &fakeSuggestions{out: []string{"ai tools"}},
		Coins:             &fakeCoins{out: []TrendingCoin{{Name: "Bitcoin", Symbol: "btc", Rank: 1}}},
		Social:            &fakeSocial{out: []string{"#AI"}},
		Discussions:       &fakeDiscussions{out: []CommunityPost{{Title: "thread"}}},
		News:              &fakeNews{out: []NewsArticle{{Headline: "story"}}},
		EnableSuggestions: true,
		EnableCoins:       true,
		EnableSocial:      true,
	}

	snapshot, used := agg.Aggregate(context.Background(), []string{"ai"})

	assert.Len(t, snapshot.SearchSuggestions, 1)
	assert.Len(t, snapshot.TrendingCoins, 1)
	assert.Len(t, snapshot.SocialTrends, 1)
	assert.Len(t, snapshot.Discussions, 1)
	assert.Len(t, snapshot.NewsArticles, 1)
	assert.ElementsMatch(t, []string{
		sourceSuggestions, sourceCoins, sourceSocial, sourceDiscussions, sourceNews,
	}, used)
}

func TestAggregatePartialFailure(t *testing.T) {
	// Failed adapters surface as empty lists; only contributors are in
	// the usage list
	agg := &TrendAggregator{
		Suggestions:       &fakeSuggestions{out: nil},
		Coins:             &fakeCoins{out: nil},
		Social:            &fakeSocial{out: []string{"#crypto"}},
		Discussions:       &fakeDiscussions{out: nil},
		News:              &fakeNews{out: nil},
		EnableSuggestions: true,
		EnableCoins:       true,
		EnableSocial:      true,
	}

	snapshot, used := agg.Aggregate(context.Background(), []string{"crypto"})

	assert.Empty(t, snapshot.SearchSuggestions)
	assert.Empty(t, snapshot.TrendingCoins)
	assert.Equal(t, []string{"#crypto"}, snapshot.SocialTrends)
	assert.Equal(t, []string{sourceSocial}, used)
}

func TestAggregateAllSourcesFail(t *testing.T) {
	agg := &TrendAggregator{
		Suggestions:       &fakeSuggestions{},
		Coins:             &fakeCoins{},
		Social:            &fakeSocial{},
		Discussions:       &fakeDiscussions{},
		News:              &fakeNews{},
		EnableSuggestions: true,
		EnableCoins:       true,
		EnableSocial:      true,
	}

	snapshot, used := agg.Aggregate(context.Background(), nil)

	assert.Empty(t, snapshot.SearchSuggestions)
	assert.Empty(t, snapshot.TrendingCoins)
	assert.Empty(t, snapshot.SocialTrends)
	assert.Empty(t, snapshot.Discussions)
	assert.Empty(t, snapshot.NewsArticles)
	assert.Empty(t, used)
}

func TestAggregateDisabledLooksLikeFailed(t *testing.T) {
	agg := &TrendAggregator{
		Suggestions: &fakeSuggestions{out: []string{"would be data"}},
		Coins:       &fakeCoins{out: []TrendingCoin{{Name: "Solana"}}},
		Social:      &fakeSocial{out: []string{"#trend"}},
		Discussions: &fakeDiscussions{out: []CommunityPost{{Title: "always on"}}},
		News:        &fakeNews{out: []NewsArticle{{Headline: "always on"}}},
		// gated sources all disabled
	}

	snapshot, used := agg.Aggregate(context.Background(), nil)

	assert.Empty(t, snapshot.SearchSuggestions)
	assert.Empty(t, snapshot.TrendingCoins)
	assert.Empty(t, snapshot.SocialTrends)
	assert.Len(t, snapshot.Discussions, 1)
	assert.Len(t, snapshot.NewsArticles, 1)
	assert.ElementsMatch(t, []string{sourceDiscussions, sourceNews}, used)
}

func TestAggregateSurvivesPanickingSource(t *testing.T) {
	agg := &TrendAggregator{
		Social:       &fakeSocial{panicking: true},
		News:         &fakeNews{out: []NewsArticle{{Headline: "still here"}}},
		Discussions:  &fakeDiscussions{},
		EnableSocial: true,
	}

	var snapshot TrendSnapshot
	var used []string
	assert.NotPanics(t, func() {
		snapshot, used = agg.Aggregate(context.Background(), nil)
	})
	assert.Empty(t, snapshot.SocialTrends)
	assert.Equal(t, []string{sourceNews}, used)
}
