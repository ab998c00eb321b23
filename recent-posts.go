package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const snippetLength = 80

// PostLog is the append-only record of published post text, one file per
// publish. It is only ever appended to and read back; records are never
// mutated or deleted.
type PostLog struct {
	dir string
	now func() time.Time
}

func NewPostLog(dir string) *PostLog {
	return &PostLog{dir: dir, now: time.Now}
}

// Append writes one record: a snippet header line, a blank line, then
// the full post body.
func (l *PostLog) Append(text string) error {
	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return fmt.Errorf("failed to create posts directory: %w", err)
	}

	name := fmt.Sprintf("post_%d.txt", l.now().UnixNano())
	record := fmt.Sprintf("# %s\n\n%s\n", snippet(text), text)

	if err := os.WriteFile(filepath.Join(l.dir, name), []byte(record), 0644); err != nil {
		return fmt.Errorf("failed to write post record: %w", err)
	}
	return nil
}

// Recent returns up to limit records, most recent first. A missing
// directory just means no history yet.
func (l *PostLog) Recent(limit int) []RecentPost {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			logg.Warnf("post log: error reading %s: %v", l.dir, err)
		}
		return nil
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), "post_") && strings.HasSuffix(entry.Name(), ".txt") {
			names = append(names, entry.Name())
		}
	}
	// File names embed a nanosecond timestamp, so lexical order is
	// chronological
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}

	var posts []RecentPost
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(l.dir, name))
		if err != nil {
			logg.Warnf("post log: error reading %s: %v", name, err)
			continue
		}
		posts = append(posts, parseRecord(string(data)))
	}
	return posts
}

func parseRecord(data string) RecentPost {
	lines := strings.SplitN(data, "\n", 3)
	post := RecentPost{}
	if len(lines) > 0 {
		post.Snippet = strings.TrimSpace(strings.TrimPrefix(lines[0], "#"))
	}
	if len(lines) == 3 {
		post.Body = strings.TrimSpace(lines[2])
	}
	return post
}

func snippet(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= snippetLength {
		return text
	}
	return text[:snippetLength]
}
