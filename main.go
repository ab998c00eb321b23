// main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/playwright-community/playwright-go"
)

const (
	exitOK            = 0
	exitPipelineError = 1
	exitStartupError  = 2
	exitDegraded      = 3
)

func main() {
	mode := flag.String("mode", "run", "Mode to run: 'run' (single pipeline run) or 'schedule'")
	keywordsFlag := flag.String("keywords", "", "Comma-separated explicit keywords, overrides the configured pool")
	quiet := flag.Bool("quiet", false, "Only log errors")
	flag.Parse()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		logg.Warnf("Error loading .env file: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		logg.Errorf("Error loading configuration: %v", err)
		emitResult(startupErrorResult(nil, fmt.Sprintf("startup error: %v", err)))
		os.Exit(exitStartupError)
	}

	if err := InitLogger(*quiet, cfg.LogFile); err != nil {
		logg.Errorf("Error initializing logger: %v", err)
		emitResult(startupErrorResult(cfg, fmt.Sprintf("startup error: %v", err)))
		os.Exit(exitStartupError)
	}

	// Install Playwright browsers for the social scrape
	setupBrowser(cfg, func() error { return playwright.Install() })

	pipeline := buildPipeline(cfg)

	switch *mode {
	case "run":
		result := pipeline.Run(context.Background(), splitList(*keywordsFlag))
		emitResult(result)
		os.Exit(exitCode(result))

	case "schedule":
		scheduler := NewRunScheduler(pipeline, cfg.ScheduleInterval, cfg.MaxRandomDelay, cfg.ScheduleLogFile, emitResult)
		scheduler.Start()
		logg.Infof("Scheduler started with interval %s", cfg.ScheduleInterval)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		scheduler.Stop()
		logg.Info("Scheduler stopped")

	default:
		logg.Errorf("Invalid mode: %s (use -mode=run or -mode=schedule)", *mode)
		emitResult(startupErrorResult(cfg, fmt.Sprintf("startup error: invalid mode %q", *mode)))
		os.Exit(exitStartupError)
	}
}

// setupBrowser installs the headless browser the social scrape renders
// pages with. Install failure disables the source for this process;
// the run itself still happens.
func setupBrowser(cfg *Config, install func() error) {
	if !cfg.EnableSocial {
		return
	}
	if err := install(); err != nil {
		logg.Warnf("Error installing playwright browsers, disabling social scrape: %v", err)
		cfg.EnableSocial = false
	}
}

// startupErrorResult is the error-shaped document emitted when the
// process fails before a pipeline exists. cfg is nil when configuration
// itself could not be loaded.
func startupErrorResult(cfg *Config, message string) *PipelineResult {
	result := &PipelineResult{
		Success:  false,
		Error:    message,
		Metadata: ResultMetadata{Timestamp: time.Now()},
	}
	if cfg != nil {
		result.Business = cfg.Business
	}
	return result.normalize()
}

func buildPipeline(cfg *Config) *Pipeline {
	cache := NewCache()
	chat := NewOpenAIChat(cfg.OpenAIKey)
	postLog := NewPostLog(cfg.PostsDir)

	aggregator := &TrendAggregator{
		Suggestions:       NewSearchSuggestionSource(cache),
		Coins:             NewTrendingCoinSource(cache),
		Social:            NewSocialScrapeSource(cache),
		Discussions:       NewCommunityDiscussionSource(cache, cfg.RedditID, cfg.RedditSecret),
		News:              NewNewsFeedSource(cache, cfg.NewsFeeds, cfg.NewsAPIKey, cfg.Scoring),
		EnableSuggestions: cfg.EnableSuggestions,
		EnableCoins:       cfg.EnableCoins,
		EnableSocial:      cfg.EnableSocial,
	}

	var images ImageMaker
	if cfg.GeminiKey != "" {
		images = NewImageGenerator(NewGeminiChat(cfg.GeminiKey), cfg.OpenAIKey)
	}

	return NewPipeline(
		cfg,
		aggregator,
		NewIdeaGenerator(chat),
		NewContentRenderer(chat, postLog, cfg.RecentPostLimit),
		NewPersister(cfg.OutputDir, cfg.ImageProbability, cfg.EnableImages && images != nil, images),
		chat,
		postLog,
	)
}

// emitResult writes the result document to stdout; it is the only thing
// this process ever prints there
func emitResult(result *PipelineResult) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logg.Errorf("Error marshaling result: %v", err)
		return
	}
	os.Stdout.Write(append(data, '\n'))
}

func exitCode(result *PipelineResult) int {
	if !result.Success {
		return exitPipelineError
	}
	if len(result.Metadata.SourcesUsed) == 0 {
		return exitDegraded
	}
	return exitOK
}
