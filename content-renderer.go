package main

import (
	"context"
	"fmt"
	"strings"
)

const twitterLimit = 280

type platformRules struct {
	guidance string
	maxChars int // 0 means no hard ceiling
}

var platformRuleSet = map[string]platformRules{
	"twitter": {
		guidance: "Strict 280 character maximum including hashtags. 1-2 hashtags at most. Punchy and direct.",
		maxChars: twitterLimit,
	},
	"instagram": {
		guidance: "125-150 words. Conversational, visual language. End with 5-10 relevant hashtags.",
	},
	"linkedin": {
		guidance: "40-80 words. Professional tone, one clear takeaway, no more than 3 hashtags.",
	},
}

var boilerplatePrefixes = []string{
	"here's the post:",
	"here is the post:",
	"here's your post:",
	"post:",
	"caption:",
	"tweet:",
	"content:",
}

// ContentRenderer produces platform copy for each (idea, platform) pair,
// one model call per pair in idea-major, platform-minor order. Rendering
// is sequential, so dedup-log entries written for earlier pairs are
// visible to later pairs within the same run.
type ContentRenderer struct {
	chat    ChatClient
	postLog *PostLog
	recentN int
}

func NewContentRenderer(chat ChatClient, postLog *PostLog, recentN int) *ContentRenderer {
	return &ContentRenderer{chat: chat, postLog: postLog, recentN: recentN}
}

// Render never drops a pair: a failed model call substitutes a
// deterministic fallback built from the concept and platform. Only
// successfully rendered text enters the dedup log; fallback text is
// static and would pollute future avoid-repetition prompts.
func (r *ContentRenderer) Render(ctx context.Context, business BusinessProfile, ideas []PostIdea, platforms []string) []GeneratedContent {
	var contents []GeneratedContent

	for _, idea := range ideas {
		for _, platform := range platforms {
			text, rendered := r.renderOne(ctx, business, idea, platform)
			contents = append(contents, GeneratedContent{
				Idea:     idea.Concept,
				Platform: platform,
				Text:     text,
				Strategy: business.Strategy,
			})

			if rendered {
				if err := r.postLog.Append(text); err != nil {
					logg.Warnf("failed to record post in dedup log: %v", err)
				}
			}
		}
	}

	return contents
}

// renderOne reports whether the returned text came from the model or
// the fallback
func (r *ContentRenderer) renderOne(ctx context.Context, business BusinessProfile, idea PostIdea, platform string) (string, bool) {
	recent := r.postLog.Recent(r.recentN)
	prompt := buildContentPrompt(business, idea, platform, recent)

	response, err := r.chat.Complete(ctx, prompt)
	if err != nil {
		logg.Warnf("content rendering failed for %q on %s, using fallback: %v", idea.Concept, platform, err)
		return fallbackContent(idea, platform), false
	}

	text := cleanGeneratedText(response)
	if rules, ok := platformRuleSet[platform]; ok && rules.maxChars > 0 {
		text = truncateAtBoundary(text, rules.maxChars)
	}
	if text == "" {
		return fallbackContent(idea, platform), false
	}
	return text, true
}

func buildContentPrompt(business BusinessProfile, idea PostIdea, platform string, recent []RecentPost) string {
	rules, ok := platformRuleSet[platform]
	if !ok {
		rules = platformRules{guidance: "Keep it short and platform-appropriate."}
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Write a %s post for %s (%s, %s industry).
Audience: %s. Personality: %s.

Topic: %s
Why it matters to the business: %s

Platform rules: %s
`, platform, business.Name, business.Type, business.Industry,
		business.Audience, business.Personality,
		idea.Concept, idea.BusinessBenefit, rules.guidance)

	switch business.Strategy {
	case "authority_building":
		b.WriteString("Tone: authoritative thought leadership, back claims with specifics, soft call to action.\n")
	case "direct_sales":
		b.WriteString("Tone: benefit-led with a clear, direct call to action to get in touch.\n")
	default: // value_first
		b.WriteString("Tone: useful and generous, lead with actionable value, no hard sell.\n")
	}

	if len(recent) > 0 {
		b.WriteString("\nDo not repeat the angle or format of these recent posts:\n")
		for _, post := range recent {
			fmt.Fprintf(&b, "- %s\n", post.Snippet)
		}
	}

	b.WriteString("\nRespond with ONLY the post text, no commentary.")
	return b.String()
}

// cleanGeneratedText strips known boilerplate prefixes and a single
// layer of surrounding quote characters
func cleanGeneratedText(text string) string {
	text = strings.TrimSpace(text)

	lower := strings.ToLower(text)
	for _, prefix := range boilerplatePrefixes {
		if strings.HasPrefix(lower, prefix) {
			text = strings.TrimSpace(text[len(prefix):])
			break
		}
	}

	if len(text) >= 2 {
		first, last := text[0], text[len(text)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			text = strings.TrimSpace(text[1 : len(text)-1])
		}
	}

	return text
}

// truncateAtBoundary cuts text down to limit at the best natural
// boundary available: paragraph break, then sentence-ending punctuation,
// then the last word boundary with an ellipsis. A boundary is only used
// if it is not unreasonably early (past roughly half the limit).
func truncateAtBoundary(text string, limit int) string {
	if len(text) <= limit {
		return text
	}

	window := text[:limit]
	minCut := limit / 2

	if idx := strings.LastIndex(window, "\n\n"); idx >= minCut {
		return strings.TrimSpace(window[:idx])
	}

	if idx := lastSentenceEnd(window); idx >= minCut {
		return strings.TrimSpace(window[:idx+1])
	}

	// Last resort: cut at a word boundary and append an ellipsis
	cut := window[:limit-3]
	if idx := strings.LastIndexByte(cut, ' '); idx >= minCut {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut) + "..."
}

func lastSentenceEnd(text string) int {
	best := -1
	for i, ch := range text {
		if ch == '.' || ch == '!' || ch == '?' {
			best = i
		}
	}
	return best
}

func fallbackContent(idea PostIdea, platform string) string {
	text := fmt.Sprintf("%s — we've been thinking about this a lot lately. What's your take?", idea.Concept)
	if platform == "twitter" && len(text) > twitterLimit {
		text = truncateAtBoundary(text, twitterLimit)
	}
	return text
}
