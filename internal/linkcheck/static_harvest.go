package linkcheck

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yingtu35/link-sentry/pkg/domain"
	"golang.org/x/net/html"
)

// HarvestHTML applies the harvest rules to a raw HTML document without a
// browser. Links found this way carry no DOM identity marker.
func HarvestHTML(body io.Reader, base *url.URL, regions Regions) ([]LinkRecord, error) {
	root, err := html.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse html: %v", ErrHarvest, err)
	}
	doc := goquery.NewDocumentFromNode(root)

	region := doc.Selection
	if regions.Include != "" {
		region = doc.Find(regions.Include).First()
	}
	excluded := strings.Join(regions.Exclude, ",")

	links := []LinkRecord{}
	region.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		if excluded != "" && a.Closest(excluded).Length() > 0 {
			return
		}
		raw, _ := a.Attr("href")
		href := domain.Resolve(base, raw)
		links = append(links, newLinkRecord(len(links), href, raw, label(a)))
	})
	return links, nil
}

// label follows the same fallback chain as the in-page harvest:
// visible text, then aria-label, then title.
func label(a *goquery.Selection) string {
	if text := strings.Join(strings.Fields(a.Text()), " "); text != "" {
		return text
	}
	if aria := strings.TrimSpace(a.AttrOr("aria-label", "")); aria != "" {
		return aria
	}
	return strings.TrimSpace(a.AttrOr("title", ""))
}
