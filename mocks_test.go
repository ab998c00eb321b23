package main

import "context"

// mockChat lets tests script the language model
type mockChat struct {
	completeFn func(ctx context.Context, prompt string) (string, error)
	prompts    []string
}

func (m *mockChat) Complete(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.completeFn != nil {
		return m.completeFn(ctx, prompt)
	}
	return "", nil
}

// Fake trend sources for aggregator and pipeline tests

type fakeSuggestions struct{ out []string }

func (f *fakeSuggestions) FetchSuggestions(ctx context.Context, keywords []string) []string {
	return f.out
}

type fakeCoins struct{ out []TrendingCoin }

func (f *fakeCoins) FetchTrendingCoins(ctx context.Context) []TrendingCoin { return f.out }

type fakeSocial struct {
	out       []string
	panicking bool
}

func (f *fakeSocial) FetchSocialTrends(ctx context.Context) []string {
	if f.panicking {
		panic("social source blew up")
	}
	return f.out
}

type fakeDiscussions struct{ out []CommunityPost }

func (f *fakeDiscussions) FetchDiscussions(ctx context.Context, keywords []string) []CommunityPost {
	return f.out
}

type fakeNews struct{ out []NewsArticle }

func (f *fakeNews) FetchNews(ctx context.Context, keywords []string) []NewsArticle { return f.out }

// fakeImages scripts the image sub-path for persister tests
type fakeImages struct {
	path  string
	err   error
	calls int
}

func (f *fakeImages) GenerateImage(ctx context.Context, postText, outputDir string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.path, nil
}
