package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yingtu35/link-sentry/internal/linkcheck"
)

func result(index int, href string, o linkcheck.Outcome) linkcheck.Result {
	return linkcheck.Result{
		Link: linkcheck.LinkRecord{
			ID:       linkcheck.IDPrefix + string(rune('0'+index)),
			Href:     href,
			Text:     "link",
			Location: linkcheck.LocationBody,
			Index:    index,
		},
		Outcome: o,
	}
}

func sampleResults() []linkcheck.Result {
	broken := result(2, "https://example.com/gone", linkcheck.BrokenOutcome(404))
	broken.Screenshot = "screenshots/broken-link-3-status-404.png"
	return []linkcheck.Result{
		result(0, "https://example.com/", linkcheck.WorkingOutcome(200)),
		result(1, "mailto:a@b.com", linkcheck.SkippedOutcome()),
		broken,
		result(3, "https://down.example.com/", linkcheck.ErroredOutcome("net::ERR_NAME_NOT_RESOLVED at https://down.example.com/")),
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	t.Run("partitions outcomes", func(t *testing.T) {
		t.Parallel()

		r := Build(sampleResults())

		assert.Equal(t, 4, r.Total)
		assert.Equal(t, r.Total, len(r.Working)+len(r.Broken))
		require.Len(t, r.Working, 2)
		require.Len(t, r.Broken, 2)

		assert.Equal(t, "working", r.Working[0].Outcome)
		assert.Equal(t, "skipped", r.Working[1].Outcome)
		assert.Empty(t, r.Working[1].Category)

		assert.Equal(t, "broken", r.Broken[0].Outcome)
		assert.Equal(t, 404, r.Broken[0].Status)
		assert.Equal(t, Category4xx, r.Broken[0].Category)
		assert.Equal(t, "screenshots/broken-link-3-status-404.png", r.Broken[0].Screenshot)

		assert.Equal(t, "errored", r.Broken[1].Outcome)
		assert.Equal(t, CategoryDNSFailure, r.Broken[1].Category)
		assert.True(t, r.HasBroken())
	})

	t.Run("all working", func(t *testing.T) {
		t.Parallel()

		r := Build([]linkcheck.Result{
			result(0, "https://example.com/a", linkcheck.WorkingOutcome(200)),
			result(1, "https://example.com/b", linkcheck.WorkingOutcome(301)),
		})
		assert.Empty(t, r.Broken)
		assert.NotNil(t, r.Broken)
		assert.Len(t, r.Working, r.Total)
		assert.False(t, r.HasBroken())
	})

	t.Run("empty harvest", func(t *testing.T) {
		t.Parallel()

		r := Build(nil)
		assert.Zero(t, r.Total)
		assert.NotNil(t, r.Working)
		assert.NotNil(t, r.Broken)
	})
}

func TestCategorize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   linkcheck.Outcome
		want Category
	}{
		{"404", linkcheck.BrokenOutcome(404), Category4xx},
		{"500", linkcheck.BrokenOutcome(500), Category5xx},
		{"no status", linkcheck.BrokenOutcome(0), CategoryUnknown},
		{"playwright timeout", linkcheck.ErroredOutcome("page.goto: Timeout 15000ms exceeded."), CategoryTimeout},
		{"dns", linkcheck.ErroredOutcome("net::ERR_NAME_NOT_RESOLVED at https://x.invalid/"), CategoryDNSFailure},
		{"refused", linkcheck.ErroredOutcome("net::ERR_CONNECTION_REFUSED"), CategoryConnectionRefused},
		{"invalid", linkcheck.ErroredOutcome("Protocol error (Page.navigate): Cannot navigate to invalid URL"), CategoryInvalidURL},
		{"other", linkcheck.ErroredOutcome("net::ERR_CERT_AUTHORITY_INVALID"), CategoryUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Categorize(tt.in))
		})
	}
}

func TestFormatCategory(t *testing.T) {
	t.Parallel()

	for _, cat := range CategoryOrder {
		assert.NotEmpty(t, FormatCategory(cat))
	}
	assert.Equal(t, "Client Errors (4xx)", FormatCategory(Category4xx))
	assert.Equal(t, "Other Errors", FormatCategory(CategoryUnknown))
}

func TestPrintResults(t *testing.T) {
	t.Parallel()

	t.Run("lists broken links", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		PrintResults(&buf, Build(sampleResults()))
		out := buf.String()

		assert.Contains(t, out, "Checked 4 links: 2 working, 2 broken")
		assert.Contains(t, out, "https://example.com/gone")
		assert.Contains(t, out, "404")
		assert.Contains(t, out, "https://down.example.com/")
		assert.Contains(t, out, "broken-link-3-status-404.png")
		assert.NotContains(t, out, "mailto:a@b.com")
	})

	t.Run("no broken links", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		PrintResults(&buf, Build(sampleResults()[:2]))
		assert.Contains(t, buf.String(), "No broken links found")
	})
}

func TestPrintProgress(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	res := result(3, "https://down.example.com/", linkcheck.ErroredOutcome("Timeout 15000ms exceeded.\nCall log:\n  - navigating"))
	PrintProgress(&buf, 4, res)

	line := buf.String()
	assert.Contains(t, line, "✗")
	assert.Contains(t, line, "[4/4]")
	assert.Contains(t, line, "Timeout 15000ms exceeded.")
	assert.NotContains(t, line, "Call log")
	assert.Equal(t, 1, strings.Count(line, "\n"))
}
