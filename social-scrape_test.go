package main

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trendsPageHTML = `<html><body>
<div class="trend-card">
  <ol>
    <li><a href="#">#AIagents</a></li>
    <li><a href="#"> Bitcoin </a></li>
    <li><a href="#">#AIagents</a></li>
    <li><a href="#"></a></li>
    <li><a href="#">#fintech</a></li>
  </ol>
</div>
<div class="trend-card">
  <ol><li><a href="#">#stale-from-yesterday</a></li></ol>
</div>
</body></html>`

func TestParseSocialTrendsFirstCardOnly(t *testing.T) {
	trends, err := parseSocialTrends(trendsPageHTML)

	require.NoError(t, err)
	assert.Equal(t, []string{"#AIagents", "Bitcoin", "#fintech"}, trends)
	assert.NotContains(t, trends, "#stale-from-yesterday")
}

func TestParseSocialTrendsCapped(t *testing.T) {
	var b strings.Builder
	b.WriteString(`<div class="trend-card"><ol>`)
	for i := 0; i < maxSocialTrends+10; i++ {
		fmt.Fprintf(&b, `<li><a href="#">#topic%d</a></li>`, i)
	}
	b.WriteString(`</ol></div>`)

	trends, err := parseSocialTrends(b.String())

	require.NoError(t, err)
	assert.Len(t, trends, maxSocialTrends)
}

func TestParseSocialTrendsNoCard(t *testing.T) {
	trends, err := parseSocialTrends(`<html><body><p>nothing here</p></body></html>`)

	require.NoError(t, err)
	assert.Empty(t, trends)
}
