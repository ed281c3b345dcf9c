package linkcheck

import (
	"fmt"

	"github.com/yingtu35/link-sentry/internal/browser"
)

// DefaultDismissSelectors match common cookie banners and newsletter popups.
var DefaultDismissSelectors = []string{
	"#onetrust-accept-btn-handler",
	"button[aria-label='Close']",
	"button[aria-label='Accept all']",
	".cookie-consent button",
}

const dismissScript = `(selectors) => {
	let clicked = 0;
	for (const sel of selectors) {
		let el = null;
		try { el = document.querySelector(sel); } catch (e) { continue; }
		if (el && el.offsetParent !== null) { el.click(); clicked++; }
	}
	return clicked;
}`

// DismissOverlays clicks the first visible match of each selector so
// popups do not cover links in screenshots. The caller decides what to do
// with the error; it never affects a check.
func DismissOverlays(s browser.Session, selectors []string) (int, error) {
	if len(selectors) == 0 {
		return 0, nil
	}
	raw, err := s.Evaluate(dismissScript, selectors)
	if err != nil {
		return 0, fmt.Errorf("dismiss overlays: %w", err)
	}
	switch n := raw.(type) {
	case int:
		return n, nil
	case float64:
		return int(n), nil
	default:
		return 0, nil
	}
}
