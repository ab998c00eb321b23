package main

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Pipeline sequences one content-generation run: keyword selection →
// trend analysis → idea generation → content rendering → persistence.
// Any failure that escapes the per-step boundaries becomes a structured
// error result; the caller never sees a raw panic.
type Pipeline struct {
	cfg        *Config
	aggregator *TrendAggregator
	ideas      *IdeaGenerator
	renderer   *ContentRenderer
	persister  *Persister
	chat       ChatClient
	postLog    *PostLog
	now        func() time.Time
}

func NewPipeline(cfg *Config, aggregator *TrendAggregator, ideas *IdeaGenerator, renderer *ContentRenderer, persister *Persister, chat ChatClient, postLog *PostLog) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		aggregator: aggregator,
		ideas:      ideas,
		renderer:   renderer,
		persister:  persister,
		chat:       chat,
		postLog:    postLog,
		now:        time.Now,
	}
}

// Run executes one pipeline invocation. Explicit keywords take priority
// over the configured pool; the pool beats model-generated keywords.
func (p *Pipeline) Run(ctx context.Context, explicit []string) (result *PipelineResult) {
	start := p.now()

	defer func() {
		if r := recover(); r != nil {
			logg.Errorf("pipeline run failed: %v", r)
			result = p.errorResult(fmt.Sprintf("pipeline error: %v", r), start)
		}
	}()

	stepStart := p.now()
	keywords := p.selectKeywords(ctx, explicit)
	logg.Infof("keyword selection finished in %s: %v", time.Since(stepStart).Round(time.Millisecond), keywords)

	stepStart = p.now()
	snapshot, sourcesUsed := p.aggregator.Aggregate(ctx, keywords)
	logg.Infof("trend analysis finished in %s, sources used: %v", time.Since(stepStart).Round(time.Millisecond), sourcesUsed)

	stepStart = p.now()
	recent := p.postLog.Recent(p.cfg.RecentPostLimit)
	ideas := p.ideas.GenerateIdeas(ctx, p.cfg.Business, snapshot, recent)
	logg.Infof("idea generation finished in %s with %d ideas", time.Since(stepStart).Round(time.Millisecond), len(ideas))

	var content []GeneratedContent
	if len(p.cfg.Platforms) > 0 {
		stepStart = p.now()
		content = p.renderer.Render(ctx, p.cfg.Business, ideas, p.cfg.Platforms)
		logg.Infof("content rendering finished in %s with %d pieces", time.Since(stepStart).Round(time.Millisecond), len(content))
	}

	var currentPost *CurrentPost
	if len(content) > 0 {
		stepStart = p.now()
		chosen := content[0] // top-ranked idea on the first platform
		post, err := p.persister.Persist(ctx, chosen.Platform, chosen.Text, ideas[0])
		if err != nil {
			logg.Errorf("persistence failed: %v", err)
			return p.errorResult(fmt.Sprintf("persistence error: %v", err), start)
		}
		currentPost = post
		logg.Infof("persistence finished in %s", time.Since(stepStart).Round(time.Millisecond))
	}

	final := &PipelineResult{
		Success:     true,
		Business:    p.cfg.Business,
		Keywords:    keywords,
		Trends:      snapshot,
		Ideas:       ideas,
		Content:     content,
		CurrentPost: currentPost,
		Metadata: ResultMetadata{
			Timestamp:    start,
			ElapsedMs:    time.Since(start).Milliseconds(),
			SourcesUsed:  sourcesUsed,
			KeywordCount: len(keywords),
			IdeaCount:    len(ideas),
			ContentCount: len(content),
		},
	}
	return final.normalize()
}

// selectKeywords applies the strict priority: explicit caller keywords,
// then a random sample of the configured pool without replacement, then
// model-generated keywords only when the pool is empty.
func (p *Pipeline) selectKeywords(ctx context.Context, explicit []string) []string {
	if len(explicit) > 0 {
		return explicit
	}

	if len(p.cfg.KeywordPool) > 0 {
		return samplePool(p.cfg.KeywordPool, p.cfg.KeywordsPerRun)
	}

	return p.generateKeywords(ctx)
}

func samplePool(pool []string, perRun int) []string {
	n := perRun
	if n > len(pool) {
		n = len(pool)
	}

	indices := rand.Perm(len(pool))[:n]
	sample := make([]string, 0, n)
	for _, idx := range indices {
		sample = append(sample, pool[idx])
	}
	return sample
}

func (p *Pipeline) generateKeywords(ctx context.Context) []string {
	prompt := fmt.Sprintf(`Suggest %d trending search keywords relevant to a %s in the %s industry serving %s.
Respond with ONLY a comma-separated list, no commentary.`,
		p.cfg.KeywordsPerRun, p.cfg.Business.Type, p.cfg.Business.Industry, p.cfg.Business.Audience)

	response, err := p.chat.Complete(ctx, prompt)
	if err != nil {
		logg.Warnf("keyword generation failed, falling back to business terms: %v", err)
		return []string{p.cfg.Business.Industry, p.cfg.Business.Services}
	}

	var keywords []string
	for _, part := range strings.Split(response, ",") {
		if kw := strings.TrimSpace(part); kw != "" {
			keywords = append(keywords, kw)
		}
		if len(keywords) >= p.cfg.KeywordsPerRun {
			break
		}
	}
	if len(keywords) == 0 {
		return []string{p.cfg.Business.Industry, p.cfg.Business.Services}
	}
	return keywords
}

func (p *Pipeline) errorResult(message string, start time.Time) *PipelineResult {
	result := &PipelineResult{
		Success:  false,
		Business: p.cfg.Business,
		Error:    message,
		Metadata: ResultMetadata{
			Timestamp: start,
			ElapsedMs: time.Since(start).Milliseconds(),
		},
	}
	return result.normalize()
}

// normalize replaces nil slices so every collection serializes as an
// empty array, never null. Downstream consumers parse the stdout
// document and rely on stable shapes.
func (r *PipelineResult) normalize() *PipelineResult {
	if r.Keywords == nil {
		r.Keywords = []string{}
	}
	if r.Ideas == nil {
		r.Ideas = []PostIdea{}
	}
	if r.Content == nil {
		r.Content = []GeneratedContent{}
	}
	if r.Metadata.SourcesUsed == nil {
		r.Metadata.SourcesUsed = []string{}
	}

	t := &r.Trends
	if t.SearchSuggestions == nil {
		t.SearchSuggestions = []string{}
	}
	if t.TrendingCoins == nil {
		t.TrendingCoins = []TrendingCoin{}
	}
	if t.SocialTrends == nil {
		t.SocialTrends = []string{}
	}
	if t.Discussions == nil {
		t.Discussions = []CommunityPost{}
	}
	if t.NewsArticles == nil {
		t.NewsArticles = []NewsArticle{}
	}
	return r
}
