package main

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"
)

const (
	socialTTL       = 2 * time.Hour
	maxSocialTrends = 20
)

// SocialScrapeSource scrapes the trending hashtags/topics page. The page
// builds its trend list with JavaScript, so it is rendered with a
// headless browser and the resulting HTML parsed with goquery.
type SocialScrapeSource struct {
	cache    *Cache
	trendURL string
}

func NewSocialScrapeSource(cache *Cache) *SocialScrapeSource {
	return &SocialScrapeSource{
		cache:    cache,
		trendURL: "https://trends24.in/united-states/",
	}
}

func (s *SocialScrapeSource) FetchSocialTrends(ctx context.Context) []string {
	key := s.cache.DeriveKey("social-trends", map[string]string{"url": s.trendURL})
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]string)
	}

	content, err := s.renderPage()
	if err != nil {
		logg.Warnf("social scrape: %v", err)
		return nil
	}

	trends, err := parseSocialTrends(content)
	if err != nil {
		logg.Warnf("social scrape: error parsing trends page: %v", err)
		return nil
	}

	if len(trends) > 0 {
		s.cache.Set(key, trends, socialTTL)
	}
	return trends
}

func (s *SocialScrapeSource) renderPage() (string, error) {
	pw, err := playwright.Run()
	if err != nil {
		return "", err
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		return "", err
	}
	defer browser.Close()

	page, err := browser.NewPage()
	if err != nil {
		return "", err
	}
	defer page.Close()

	if _, err = page.Goto(s.trendURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		return "", err
	}

	// Give the trend list a moment to settle after network idle
	time.Sleep(2 * time.Second)

	return page.Content()
}

// parseSocialTrends extracts the most recent trend card's entries from
// the rendered page HTML
func parseSocialTrends(content string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var trends []string

	doc.Find(".trend-card").First().Find("ol li a").Each(func(i int, sel *goquery.Selection) {
		if len(trends) >= maxSocialTrends {
			return
		}
		trend := strings.TrimSpace(sel.Text())
		if trend == "" || seen[trend] {
			return
		}
		seen[trend] = true
		trends = append(trends, trend)
	})

	return trends, nil
}
