package linkcheck

import "strings"

// Verdict is the classifier's decision for an href.
type Verdict int

const (
	// MustProbe links are navigated to.
	MustProbe Verdict = iota
	// Skippable links use a special scheme or point inside the page.
	Skippable
)

var skippedPrefixes = []string{"mailto:", "tel:", "javascript:", "#"}

// Classify decides whether href must be probed. It has no side effects.
func Classify(href string) Verdict {
	if href == "" {
		return Skippable
	}
	for _, prefix := range skippedPrefixes {
		if strings.HasPrefix(href, prefix) {
			return Skippable
		}
	}
	return MustProbe
}

// ClassifyLink classifies a harvested link. The attribute as written is
// checked first because "" and "#..." resolve to the page's own URL.
func ClassifyLink(link LinkRecord) Verdict {
	if Classify(strings.TrimSpace(link.Raw)) == Skippable {
		return Skippable
	}
	return Classify(link.Href)
}
