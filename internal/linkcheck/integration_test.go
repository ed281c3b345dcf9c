package linkcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yingtu35/link-sentry/internal/browser"
)

const integrationPage = `<!doctype html>
<html><body>
<header><a href="/docs">Docs</a></header>
<main>
  <a href="/docs" style="color: blue">Docs again</a>
  <a href="/missing">Missing</a>
  <a href="/docs" style="color: green">Docs third</a>
</main>
<footer><a href="/legal">Legal</a></footer>
</body></html>`

// skipIfShort skips tests that drive a real browser in short mode.
func skipIfShort(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode (starts Chromium)")
	}
}

// newBrowserSession starts a headless Chromium session or skips the test
// when the Playwright driver or browser is not installed.
func newBrowserSession(t *testing.T) *browser.PlaywrightSession {
	t.Helper()
	s, err := browser.NewPlaywrightSession(browser.Options{Headless: true})
	if err != nil {
		t.Skipf("skipping integration test: chromium not available (run with --install once): %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newIntegrationServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(integrationPage))
	})
	for _, path := range []string{"/docs", "/legal"} {
		mux.HandleFunc(path, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<html><body>ok</body></html>"))
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// evalString runs a no-argument script that returns a string.
func evalString(t *testing.T, s browser.Session, script string) string {
	t.Helper()
	v, err := s.Evaluate(script, nil)
	require.NoError(t, err)
	str, ok := v.(string)
	require.True(t, ok, "script returned %T", v)
	return str
}

const stampedIDsScript = `() => Array.from(document.querySelectorAll("[data-link-sentry-id]"))
	.map((a) => a.getAttribute("data-link-sentry-id") + "=" + a.textContent.trim()).join("|")`

const leftoverScript = `() => JSON.stringify({
	annotations: document.querySelectorAll("[data-link-sentry-annotation]").length,
	saved: document.querySelectorAll("[data-link-sentry-style]").length,
	styles: Array.from(document.querySelectorAll("main a")).map((a) => a.getAttribute("style") || "")
})`

func TestPlaywrightIntegration(t *testing.T) {
	skipIfShort(t)
	s := newBrowserSession(t)
	srv := newIntegrationServer(t)
	origin := srv.URL + "/"

	t.Run("harvest skips header and footer and stamps ids", func(t *testing.T) {
		require.NoError(t, s.Load(origin, browser.WaitNetworkIdle, DefaultOriginTimeout))

		links, err := Harvest(s, DefaultRegions())
		require.NoError(t, err)
		require.Len(t, links, 3)

		assert.Equal(t, srv.URL+"/docs", links[0].Href)
		assert.Equal(t, "Docs again", links[0].Text)
		assert.Equal(t, srv.URL+"/missing", links[1].Href)
		assert.Equal(t, "/missing", links[1].Raw)
		assert.Equal(t, "Docs third", links[2].Text)

		assert.Equal(t, "link-0=Docs again|link-1=Missing|link-2=Docs third", evalString(t, s, stampedIDsScript))
	})

	t.Run("probe reports status", func(t *testing.T) {
		assert.Equal(t, WorkingOutcome(200), Probe(s, srv.URL+"/docs", DefaultProbeTimeout))
		assert.Equal(t, BrokenOutcome(404), Probe(s, srv.URL+"/missing", DefaultProbeTimeout))
	})

	t.Run("capture highlights the body duplicate and cleans up", func(t *testing.T) {
		require.NoError(t, s.Load(origin, browser.WaitNetworkIdle, DefaultOriginTimeout))
		links, err := Harvest(s, DefaultRegions())
		require.NoError(t, err)
		require.Len(t, links, 3)

		c := NewCapturer(filepath.Join(t.TempDir(), "shots"), nil)
		c.RenderDelay = 0

		path, err := c.Capture(s, origin, links[2], BrokenOutcome(404))
		require.NoError(t, err)
		assert.FileExists(t, path)

		// The reload drops the harvest stamps, so only the located element
		// carries an id and it must be the third body link.
		assert.Equal(t, "link-2=Docs third", evalString(t, s, stampedIDsScript))
		assert.JSONEq(t,
			`{"annotations":0,"saved":0,"styles":["color: blue","","color: green"]}`,
			evalString(t, s, leftoverScript))
	})

	t.Run("hunt records every link and restores the origin", func(t *testing.T) {
		c := NewCapturer(filepath.Join(t.TempDir(), "shots"), nil)
		c.RenderDelay = 0
		h := NewHunter(s, Options{Capturer: c})

		results, err := h.Hunt(context.Background(), origin)
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.Equal(t, Working, results[0].Outcome.Kind)
		assert.Equal(t, BrokenOutcome(404), results[1].Outcome)
		assert.FileExists(t, results[1].Screenshot)
		assert.Equal(t, Working, results[2].Outcome.Kind)
		assert.Equal(t, Done, h.State())

		status, ok := s.CurrentStatusCode()
		require.True(t, ok)
		assert.Equal(t, 200, status)
		assert.JSONEq(t,
			`{"annotations":0,"saved":0,"styles":["color: blue","","color: green"]}`,
			evalString(t, s, leftoverScript))
	})
}
