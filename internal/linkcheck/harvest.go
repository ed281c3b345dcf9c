package linkcheck

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/yingtu35/link-sentry/internal/browser"
)

// ErrHarvest is returned when links cannot be read from the origin page.
var ErrHarvest = errors.New("harvest links")

// Regions selects where links are harvested from.
type Regions struct {
	Include string   // CSS selector of the content region
	Exclude []string // CSS selectors whose descendants are ignored
}

// DefaultRegions harvests the body minus header and footer.
func DefaultRegions() Regions {
	return Regions{Include: "body", Exclude: append([]string(nil), DefaultExcludeRegions...)}
}

// regionAnchorsJS defines regionAnchors, the a[href] elements under the
// include region that are not inside an excluded region, in document order.
const regionAnchorsJS = `
	const regionAnchors = (include, exclude) => {
		const root = include ? document.querySelector(include) : document.documentElement;
		if (!root) return [];
		const excluded = exclude && exclude.length ? exclude.join(",") : null;
		return Array.from(root.querySelectorAll("a[href]")).filter((a) => !(excluded && a.closest(excluded)));
	};
`

// harvestScript collects the region anchors and stamps each element with
// its identity.
const harvestScript = `(opts) => {` + regionAnchorsJS + `
	const out = [];
	for (const a of regionAnchors(opts.include, opts.exclude)) {
		const id = opts.prefix + out.length;
		a.setAttribute(opts.attr, id);
		const label = (a.innerText || "").trim()
			|| (a.getAttribute("aria-label") || "").trim()
			|| (a.getAttribute("title") || "").trim();
		out.push({ id: id, href: a.href, raw: a.getAttribute("href") || "", text: label });
	}
	return JSON.stringify(out);
}`

type harvestedLink struct {
	ID   string `json:"id"`
	Href string `json:"href"`
	Raw  string `json:"raw"`
	Text string `json:"text"`
}

// Harvest reads every link of the loaded origin page in document order.
// It must run before the session navigates away from the origin page.
func Harvest(s browser.Session, regions Regions) ([]LinkRecord, error) {
	exclude := regions.Exclude
	if exclude == nil {
		exclude = []string{}
	}
	raw, err := s.Evaluate(harvestScript, map[string]any{
		"include": regions.Include,
		"exclude": exclude,
		"attr":    IDAttribute,
		"prefix":  IDPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHarvest, err)
	}
	payload, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected script result %T", ErrHarvest, raw)
	}

	var found []harvestedLink
	if err := json.Unmarshal([]byte(payload), &found); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrHarvest, err)
	}

	links := make([]LinkRecord, 0, len(found))
	for i, f := range found {
		links = append(links, newLinkRecord(i, f.Href, f.Raw, f.Text))
	}
	return links, nil
}

func newLinkRecord(index int, href, raw, text string) LinkRecord {
	if text == "" {
		text = NoText
	}
	return LinkRecord{
		ID:       linkID(index),
		Href:     href,
		Raw:      raw,
		Text:     text,
		Location: LocationBody,
		Index:    index,
	}
}

func linkID(index int) string {
	return IDPrefix + strconv.Itoa(index)
}
