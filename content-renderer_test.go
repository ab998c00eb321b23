package main

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIdea(concept string) PostIdea {
	return PostIdea{ID: "id-1", Concept: concept, TrendSource: "news", RelevanceScore: 0.9, BusinessBenefit: "keeps us relevant"}
}

func newTestRenderer(t *testing.T, chat ChatClient) (*ContentRenderer, *PostLog) {
	t.Helper()
	postLog := NewPostLog(t.TempDir())
	return NewContentRenderer(chat, postLog, 5), postLog
}

func TestRenderOnePairPerIdeaPlatform(t *testing.T) {
	chat := &mockChat{completeFn: func(ctx context.Context, prompt string) (string, error) {
		return "A short post.", nil
	}}
	renderer, _ := newTestRenderer(t, chat)

	ideas := []PostIdea{testIdea("first"), testIdea("second")}
	platforms := []string{"twitter", "linkedin"}
	contents := renderer.Render(context.Background(), testBusiness, ideas, platforms)

	require.Len(t, contents, 4)
	// idea-major, platform-minor order
	assert.Equal(t, "first", contents[0].Idea)
	assert.Equal(t, "twitter", contents[0].Platform)
	assert.Equal(t, "first", contents[1].Idea)
	assert.Equal(t, "linkedin", contents[1].Platform)
	assert.Equal(t, "second", contents[2].Idea)
	for _, c := range contents {
		assert.Equal(t, "value_first", c.Strategy)
	}
}

func TestRenderFailedPairGetsFallbackNotDropped(t *testing.T) {
	calls := 0
	chat := &mockChat{completeFn: func(ctx context.Context, prompt string) (string, error) {
		calls++
		if calls == 2 {
			return "", fmt.Errorf("model unavailable")
		}
		return "Fine post.", nil
	}}
	renderer, _ := newTestRenderer(t, chat)

	contents := renderer.Render(context.Background(), testBusiness,
		[]PostIdea{testIdea("the concept")}, []string{"twitter", "linkedin", "instagram"})

	require.Len(t, contents, 3)
	assert.Contains(t, contents[1].Text, "the concept")
}

func TestRenderAppendsToDedupLog(t *testing.T) {
	chat := &mockChat{completeFn: func(ctx context.Context, prompt string) (string, error) {
		return "Logged post text.", nil
	}}
	renderer, postLog := newTestRenderer(t, chat)

	renderer.Render(context.Background(), testBusiness, []PostIdea{testIdea("x")}, []string{"twitter"})

	recent := postLog.Recent(10)
	require.Len(t, recent, 1)
	assert.Equal(t, "Logged post text.", recent[0].Body)
}

func TestRenderFallbackTextNotLogged(t *testing.T) {
	calls := 0
	chat := &mockChat{completeFn: func(ctx context.Context, prompt string) (string, error) {
		calls++
		if calls == 1 {
			return "", fmt.Errorf("model unavailable")
		}
		return "Real rendered text.", nil
	}}
	renderer, postLog := newTestRenderer(t, chat)

	contents := renderer.Render(context.Background(), testBusiness,
		[]PostIdea{testIdea("the concept")}, []string{"twitter", "linkedin"})

	require.Len(t, contents, 2)
	recent := postLog.Recent(10)
	require.Len(t, recent, 1, "only the model-rendered pair enters the dedup log")
	assert.Equal(t, "Real rendered text.", recent[0].Body)
}

func TestRenderTwitterNeverExceedsLimit(t *testing.T) {
	long := strings.Repeat("word ", 120) // well over 280 chars
	chat := &mockChat{completeFn: func(ctx context.Context, prompt string) (string, error) {
		return long, nil
	}}
	renderer, _ := newTestRenderer(t, chat)

	contents := renderer.Render(context.Background(), testBusiness, []PostIdea{testIdea("x")}, []string{"twitter"})

	require.Len(t, contents, 1)
	assert.LessOrEqual(t, len(contents[0].Text), twitterLimit)
}

func TestCleanGeneratedText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"boilerplate prefix", "Here's the post: Great content ahead", "Great content ahead"},
		{"caption prefix", "Caption: sunny days", "sunny days"},
		{"surrounding quotes", `"Quoted post"`, "Quoted post"},
		{"quote layer then prefix", `"inner 'quoted' words stay"`, "inner 'quoted' words stay"},
		{"clean passthrough", "Nothing to strip here", "Nothing to strip here"},
		{"whitespace", "  padded  ", "padded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanGeneratedText(tt.in))
		})
	}
}

func TestTruncatePrefersParagraphBreak(t *testing.T) {
	first := strings.Repeat("a", 200)
	text := first + "\n\n" + strings.Repeat("b", 200)

	got := truncateAtBoundary(text, 280)
	assert.Equal(t, first, got)
}

func TestTruncateFallsBackToSentenceEnd(t *testing.T) {
	first := strings.Repeat("a", 180) + "."
	text := first + " " + strings.Repeat("b", 200)

	got := truncateAtBoundary(text, 280)
	assert.Equal(t, first, got)
}

func TestTruncateWordBoundaryWithEllipsis(t *testing.T) {
	// No paragraph breaks or sentence punctuation anywhere
	text := strings.Repeat("word ", 100)

	got := truncateAtBoundary(text, 280)
	assert.LessOrEqual(t, len(got), 280)
	assert.True(t, strings.HasSuffix(got, "..."))
	// Never cut mid-word: the piece before the ellipsis is whole words
	body := strings.TrimSuffix(got, "...")
	for _, w := range strings.Fields(body) {
		assert.Equal(t, "word", w)
	}
}

func TestTruncateIgnoresUnreasonablyEarlyBoundary(t *testing.T) {
	// A sentence end at position 10 is before half the budget, so it
	// must not be used as the cut point
	text := "Short one. " + strings.Repeat("c", 400)

	got := truncateAtBoundary(text, 280)
	assert.Greater(t, len(got), 100)
	assert.LessOrEqual(t, len(got), 280)
}

func TestTruncateShortTextUntouched(t *testing.T) {
	assert.Equal(t, "fits fine", truncateAtBoundary("fits fine", 280))
}

func TestFallbackContentMentionsConceptAndFits(t *testing.T) {
	text := fallbackContent(testIdea("AI cost savings"), "twitter")
	assert.Contains(t, text, "AI cost savings")
	assert.LessOrEqual(t, len(text), twitterLimit)
}
