package webscraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/yingtu35/link-sentry/internal/linkcheck"
)

const (
	DefaultTimeout   = 10 * time.Second
	defaultUserAgent = "link-sentry/1.0"
	maxBodySize      = 5 << 20
)

// Page is a fetched origin page and the links it would be checked for.
type Page struct {
	URL    string
	Status int
	Links  []linkcheck.LinkRecord
}

// StaticScraper fetches a page over plain HTTP and harvests it without a
// browser, so scripts on the page never run.
type StaticScraper struct {
	client  *http.Client      // The HTTP client to use
	regions linkcheck.Regions // Where links are harvested from
	logger  *slog.Logger
}

func NewStaticScraper(client *http.Client, regions linkcheck.Regions, logger *slog.Logger) *StaticScraper {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StaticScraper{client: client, regions: regions, logger: logger}
}

// Scrape fetches rawURL and harvests its links. Redirects are followed and
// relative hrefs resolve against the final URL.
func (s *StaticScraper) Scrape(ctx context.Context, rawURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	s.logger.Debug("fetching page", "url", rawURL)
	res, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer res.Body.Close()

	if res.StatusCode > 299 {
		s.logger.Warn("page returned an error status", "url", rawURL, "status", res.StatusCode)
	}

	base := res.Request.URL
	if base == nil {
		if base, err = url.Parse(rawURL); err != nil {
			return nil, err
		}
	}

	links, err := linkcheck.HarvestHTML(io.LimitReader(res.Body, maxBodySize), base, s.regions)
	if err != nil {
		return nil, err
	}
	return &Page{URL: base.String(), Status: res.StatusCode, Links: links}, nil
}
