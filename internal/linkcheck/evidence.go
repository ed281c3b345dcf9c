package linkcheck

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/yingtu35/link-sentry/internal/browser"
)

// ErrNotLocated means no matcher found the failed link in the reloaded page.
var ErrNotLocated = errors.New("link not found on reloaded page")

// Matcher is one strategy for finding a harvested link in a fresh DOM.
// Script receives {attr, id, href, text, index, include, exclude} and returns
// true when it found the element, stamping it with the identity attribute if
// it was missing.
type Matcher struct {
	Name   string
	Script string
}

// DefaultMatchers try the identity marker first, then the exact resolved
// href, then the exact visible text.
var DefaultMatchers = []Matcher{
	{Name: "id", Script: locateByIDScript},
	{Name: "href", Script: locateByHrefScript},
	{Name: "text", Script: locateByTextScript},
}

const locateByIDScript = `(arg) => document.querySelector("[" + arg.attr + "=\"" + CSS.escape(arg.id) + "\"]") !== null`

// pickAnchorJS prefers the anchor at the harvest position, then the region
// anchor nearest to it, then the first match anywhere in the document.
const pickAnchorJS = `
	const pickAnchor = (arg, same) => {
		const anchors = regionAnchors(arg.include, arg.exclude);
		const at = anchors[arg.index];
		if (at && same(at)) return at;
		let best = null;
		let dist = Infinity;
		anchors.forEach((a, i) => {
			if (same(a) && Math.abs(i - arg.index) < dist) { best = a; dist = Math.abs(i - arg.index); }
		});
		return best || Array.from(document.querySelectorAll("a[href]")).find(same) || null;
	};
`

const locateByHrefScript = `(arg) => {` + regionAnchorsJS + pickAnchorJS + `
	const el = pickAnchor(arg, (a) => a.href === arg.href);
	if (!el) return false;
	el.setAttribute(arg.attr, arg.id);
	return true;
}`

const locateByTextScript = `(arg) => {` + regionAnchorsJS + pickAnchorJS + `
	const el = pickAnchor(arg, (a) => (a.innerText || "").trim() === arg.text);
	if (!el) return false;
	el.setAttribute(arg.attr, arg.id);
	return true;
}`

const annotateScript = `(arg) => {
	const el = document.querySelector("[" + arg.attr + "=\"" + CSS.escape(arg.id) + "\"]");
	if (!el) return false;
	el.setAttribute("data-link-sentry-style", el.getAttribute("style") || "");
	el.style.border = "3px solid #ff0033";
	el.style.outline = "3px dashed #ffee00";
	el.style.outlineOffset = "2px";
	el.style.background = "rgba(255, 0, 51, 0.25)";
	el.style.boxShadow = "0 0 0 6px rgba(255, 0, 51, 0.45)";
	el.scrollIntoView({ block: "center", inline: "center" });

	const banner = document.createElement("div");
	banner.setAttribute("data-link-sentry-annotation", "banner");
	banner.textContent = arg.banner;
	banner.style.cssText = "position:fixed;top:0;left:0;right:0;z-index:2147483647;" +
		"padding:12px 16px;background:#ff0033;color:#fff;font:bold 16px/1.4 sans-serif;" +
		"word-break:break-all;box-shadow:0 2px 8px rgba(0,0,0,.5)";
	document.body.appendChild(banner);

	const box = el.getBoundingClientRect();
	const pointer = document.createElement("div");
	pointer.setAttribute("data-link-sentry-annotation", "pointer");
	pointer.textContent = "➤";
	pointer.style.cssText = "position:absolute;z-index:2147483647;color:#ff0033;" +
		"font:bold 32px/1 sans-serif;text-shadow:0 0 4px #fff;pointer-events:none";
	pointer.style.left = Math.max(0, box.left + window.scrollX - 40) + "px";
	pointer.style.top = (box.top + window.scrollY + box.height / 2 - 16) + "px";
	document.body.appendChild(pointer);
	return true;
}`

const cleanupScript = `(arg) => {
	document.querySelectorAll("[data-link-sentry-annotation]").forEach((n) => n.remove());
	document.querySelectorAll("[data-link-sentry-style]").forEach((el) => {
		const prev = el.getAttribute("data-link-sentry-style");
		if (prev) { el.setAttribute("style", prev); } else { el.removeAttribute("style"); }
		el.removeAttribute("data-link-sentry-style");
	});
	return true;
}`

// Capturer produces the annotated screenshot for a failed link.
type Capturer struct {
	Dir           string
	OriginTimeout time.Duration
	RenderDelay   time.Duration
	Matchers      []Matcher // DefaultMatchers when empty
	// Regions must match the harvest so positions line up after a reload.
	Regions Regions
	// DismissSelectors are clicked after the reload, see DismissOverlays.
	DismissSelectors []string
	Logger           *slog.Logger

	sleep func(time.Duration)
}

// NewCapturer returns a Capturer writing screenshots to dir.
func NewCapturer(dir string, logger *slog.Logger) *Capturer {
	return &Capturer{
		Dir:           dir,
		OriginTimeout: DefaultOriginTimeout,
		RenderDelay:   DefaultRenderDelay,
		Regions:       DefaultRegions(),
		Logger:        logger,
	}
}

// ScreenshotName is the evidence file name for a failed link.
func ScreenshotName(link LinkRecord, outcome Outcome) string {
	n := link.Index + 1
	switch {
	case outcome.Kind == Errored:
		return fmt.Sprintf("broken-link-%d-error.png", n)
	case outcome.Status == 0:
		return fmt.Sprintf("broken-link-%d-no-status.png", n)
	default:
		return fmt.Sprintf("broken-link-%d-status-%d.png", n, outcome.Status)
	}
}

// Capture reloads originURL, highlights link, saves a full page screenshot
// and removes the highlight again. It returns the screenshot path, or ""
// when nothing was written. Capture never panics; every failure comes back
// as an error for the caller to log.
func (c *Capturer) Capture(s browser.Session, originURL string, link LinkRecord, outcome Outcome) (path string, err error) {
	defer func() {
		if r := recover(); r != nil {
			path, err = "", fmt.Errorf("capture evidence: panic: %v", r)
		}
	}()

	if err := s.Load(originURL, browser.WaitNetworkIdle, c.originTimeout()); err != nil {
		return "", fmt.Errorf("reload origin page: %w", err)
	}
	if _, err := DismissOverlays(s, c.DismissSelectors); err != nil {
		c.logger().Debug("overlay dismissal failed", "error", err)
	}

	exclude := c.Regions.Exclude
	if exclude == nil {
		exclude = []string{}
	}
	arg := map[string]any{
		"attr":    IDAttribute,
		"id":      link.ID,
		"href":    link.Href,
		"text":    link.Text,
		"index":   link.Index,
		"include": c.Regions.Include,
		"exclude": exclude,
		"banner":  bannerText(link, outcome),
	}

	matcher, ok := c.locate(s, arg)
	if !ok {
		c.logger().Debug("failed link not on reloaded page, skipping screenshot", "link", link.ID, "href", link.Href)
		return "", nil
	}
	c.logger().Debug("located failed link", "link", link.ID, "matcher", matcher)

	defer func() {
		if _, cerr := s.Evaluate(cleanupScript, arg); cerr != nil {
			c.logger().Warn("remove annotation", "link", link.ID, "error", cerr)
		}
	}()

	annotated, err := s.Evaluate(annotateScript, arg)
	if err != nil {
		return "", fmt.Errorf("annotate link: %w", err)
	}
	if done, _ := annotated.(bool); !done {
		return "", fmt.Errorf("annotate link %s: %w", link.ID, ErrNotLocated)
	}

	if c.RenderDelay > 0 {
		c.sleepFn()(c.RenderDelay)
	}

	if err := os.MkdirAll(c.Dir, 0o750); err != nil {
		return "", fmt.Errorf("create screenshot dir: %w", err)
	}
	path = filepath.Join(c.Dir, ScreenshotName(link, outcome))
	if err := s.Screenshot(path, true); err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}
	return path, nil
}

// locate runs the matchers in order and returns the name of the first that
// found the element.
func (c *Capturer) locate(s browser.Session, arg map[string]any) (string, bool) {
	matchers := c.Matchers
	if len(matchers) == 0 {
		matchers = DefaultMatchers
	}
	for _, m := range matchers {
		found, err := s.Evaluate(m.Script, arg)
		if err != nil {
			c.logger().Debug("matcher failed", "matcher", m.Name, "error", err)
			continue
		}
		if ok, _ := found.(bool); ok {
			return m.Name, true
		}
	}
	return "", false
}

func bannerText(link LinkRecord, outcome Outcome) string {
	status := "BROKEN LINK (" + outcome.Label() + ")"
	if outcome.Kind == Errored {
		status = "LINK ERROR: " + outcome.Message
	}
	return fmt.Sprintf("%s | %q | %s", status, link.Text, link.Href)
}

func (c *Capturer) originTimeout() time.Duration {
	if c.OriginTimeout <= 0 {
		return DefaultOriginTimeout
	}
	return c.OriginTimeout
}

func (c *Capturer) sleepFn() func(time.Duration) {
	if c.sleep != nil {
		return c.sleep
	}
	return time.Sleep
}

func (c *Capturer) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}
