package webscraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yingtu35/link-sentry/internal/linkcheck"
)

func TestStaticScraper_Scrape(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs/", http.StatusFound)
	})
	mux.HandleFunc("/docs/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
<header><a href="/">Home</a></header>
<a href="intro.html">Intro</a>
<a href="mailto:team@example.com">Mail</a>
<footer><a href="/privacy">Privacy</a></footer>
</body></html>`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	s := NewStaticScraper(srv.Client(), linkcheck.DefaultRegions(), nil)

	page, err := s.Scrape(context.Background(), srv.URL+"/start")
	require.NoError(t, err)

	assert.Equal(t, srv.URL+"/docs/", page.URL)
	assert.Equal(t, http.StatusOK, page.Status)
	require.Len(t, page.Links, 2)
	assert.Equal(t, srv.URL+"/docs/intro.html", page.Links[0].Href)
	assert.Equal(t, linkcheck.MustProbe, linkcheck.ClassifyLink(page.Links[0]))
	assert.Equal(t, linkcheck.Skippable, linkcheck.ClassifyLink(page.Links[1]))
}

func TestStaticScraper_ScrapeUnreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	s := NewStaticScraper(nil, linkcheck.DefaultRegions(), nil)
	_, err := s.Scrape(context.Background(), url)
	assert.Error(t, err)
}
