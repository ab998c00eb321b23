package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostLogAppendThenRecent(t *testing.T) {
	postLog := NewPostLog(t.TempDir())

	require.NoError(t, postLog.Append("First post about markets."))

	recent := postLog.Recent(10)
	require.Len(t, recent, 1)
	assert.Equal(t, "First post about markets.", recent[0].Body)
	assert.Equal(t, "First post about markets.", recent[0].Snippet)
}

func TestPostLogRecentOrderAndLimit(t *testing.T) {
	postLog := NewPostLog(t.TempDir())
	ts := time.Unix(1700000000, 0)
	postLog.now = func() time.Time {
		ts = ts.Add(time.Second)
		return ts
	}

	for _, text := range []string{"oldest", "middle", "newest"} {
		require.NoError(t, postLog.Append(text))
	}

	recent := postLog.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "newest", recent[0].Body)
	assert.Equal(t, "middle", recent[1].Body)
}

func TestPostLogSnippetTruncatesLongPosts(t *testing.T) {
	postLog := NewPostLog(t.TempDir())
	long := strings.Repeat("alpha beta ", 30)

	require.NoError(t, postLog.Append(long))

	recent := postLog.Recent(1)
	require.Len(t, recent, 1)
	assert.LessOrEqual(t, len(recent[0].Snippet), snippetLength)
	assert.Equal(t, strings.TrimSpace(long), recent[0].Body)
}

func TestPostLogMissingDirectory(t *testing.T) {
	postLog := NewPostLog(t.TempDir() + "/never-created")
	assert.Empty(t, postLog.Recent(5))
}

func TestPostLogMultilineBodyPreserved(t *testing.T) {
	postLog := NewPostLog(t.TempDir())
	body := "Line one.\n\nLine two with detail."

	require.NoError(t, postLog.Append(body))

	recent := postLog.Recent(1)
	require.Len(t, recent, 1)
	assert.Equal(t, body, recent[0].Body)
	// Snippet collapses whitespace into one line
	assert.NotContains(t, recent[0].Snippet, "\n")
}
