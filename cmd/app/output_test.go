package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yingtu35/link-sentry/internal/history"
	"github.com/yingtu35/link-sentry/internal/linkcheck"
	"github.com/yingtu35/link-sentry/internal/webscraper"
)

func TestPrintLinks(t *testing.T) {
	t.Parallel()

	page := &webscraper.Page{
		URL:    "https://example.com/",
		Status: 200,
		Links: []linkcheck.LinkRecord{
			{ID: "link-0", Href: "https://example.com/about", Raw: "/about", Text: "About", Index: 0},
			{ID: "link-1", Href: "https://other.org/", Raw: "https://other.org/", Text: "Other", Index: 1},
			{ID: "link-2", Href: "mailto:hi@example.com", Raw: "mailto:hi@example.com", Text: "Mail", Index: 2},
		},
	}

	var buf bytes.Buffer
	printLinks(&buf, page)
	out := buf.String()

	assert.Contains(t, out, "https://example.com/ (status 200): 3 links")
	assert.Contains(t, out, "internal")
	assert.Contains(t, out, "external")
	assert.Contains(t, out, "skip")
	assert.Contains(t, out, "probe")
}

func TestPrintLinksEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printLinks(&buf, &webscraper.Page{URL: "https://example.com/", Status: 200})
	assert.Equal(t, "https://example.com/ (status 200): 0 links\n\n", buf.String())
}

func TestPrintRuns(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		printRuns(&buf, nil)
		assert.Contains(t, buf.String(), "No runs recorded")
	})

	t.Run("rows", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		printRuns(&buf, []history.Run{{
			ID:        "3f1c",
			Target:    "https://example.com/",
			StartedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			Duration:  1500 * time.Millisecond,
			Working:   4,
			Broken:    1,
			Total:     5,
		}})
		out := buf.String()
		assert.Contains(t, out, "3f1c")
		assert.Contains(t, out, "https://example.com/")
		assert.Contains(t, out, "1.5s")
	})
}
