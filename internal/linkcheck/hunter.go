package linkcheck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/yingtu35/link-sentry/internal/browser"
)

// ErrOriginLoad is returned when the origin page cannot be loaded. Nothing
// can be harvested, so the whole run fails.
var ErrOriginLoad = errors.New("load origin page")

// InterruptedMessage is the Errored message for links left unchecked after
// the run was cancelled.
const InterruptedMessage = "check interrupted"

// State is the hunter's position in a run.
type State int

const (
	Idle State = iota
	Harvesting
	Classifying
	Probing
	Capturing
	Restoring
	Reporting
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Harvesting:
		return "harvesting"
	case Classifying:
		return "classifying"
	case Probing:
		return "probing"
	case Capturing:
		return "capturing"
	case Restoring:
		return "restoring"
	case Reporting:
		return "reporting"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Options configures a Hunter.
type Options struct {
	ProbeTimeout     time.Duration
	OriginTimeout    time.Duration
	Regions          Regions
	DismissSelectors []string
	// Capturer records evidence for failed links. No screenshots are taken
	// when it is nil.
	Capturer *Capturer
	Logger   *slog.Logger
	// OnHarvest is called once with the number of links found.
	OnHarvest func(count int)
	// OnResult is called after each link is checked, in harvest order.
	OnResult func(Result)
}

// Hunter checks every link of one origin page, one at a time, through a
// single browser session it owns for the duration of Hunt.
type Hunter struct {
	session browser.Session
	opts    Options
	logger  *slog.Logger
	state   State
}

// NewHunter returns a Hunter driving s.
func NewHunter(s browser.Session, opts Options) *Hunter {
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = DefaultProbeTimeout
	}
	if opts.OriginTimeout <= 0 {
		opts.OriginTimeout = DefaultOriginTimeout
	}
	if opts.Regions.Include == "" && opts.Regions.Exclude == nil {
		opts.Regions = DefaultRegions()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Hunter{session: s, opts: opts, logger: logger}
}

// State returns the hunter's current state.
func (h *Hunter) State() State {
	return h.state
}

// Hunt loads originURL, harvests its links and checks each of them in
// document order. Only a failed origin load or harvest is returned as an
// error; every per-link failure is recorded in that link's Result.
//
// Hunt checks ctx between links. Links not reached before cancellation are
// recorded as Errored so the results still cover the whole harvest.
func (h *Hunter) Hunt(ctx context.Context, originURL string) ([]Result, error) {
	h.setState(Harvesting)
	if err := h.session.Load(originURL, browser.WaitNetworkIdle, h.opts.OriginTimeout); err != nil {
		h.setState(Done)
		return nil, fmt.Errorf("%w %s: %w", ErrOriginLoad, originURL, err)
	}
	if code, ok := h.session.CurrentStatusCode(); ok && (code < 200 || code >= 400) {
		h.logger.Warn("origin page returned an error status", "url", originURL, "status", code)
	}
	h.dismissOverlays()

	links, err := Harvest(h.session, h.opts.Regions)
	if err != nil {
		h.setState(Done)
		return nil, err
	}
	h.logger.Info("harvested links", "url", originURL, "count", len(links))
	if h.opts.OnHarvest != nil {
		h.opts.OnHarvest(len(links))
	}

	results := make([]Result, 0, len(links))
	for _, link := range links {
		var res Result
		if ctx.Err() != nil {
			res = Result{Link: link, Outcome: ErroredOutcome(InterruptedMessage)}
		} else {
			res = h.check(originURL, link)
		}
		results = append(results, res)
		if h.opts.OnResult != nil {
			h.opts.OnResult(res)
		}
	}

	h.setState(Reporting)
	defer h.setState(Done)
	return results, nil
}

// check runs classify, probe, capture and restore for one link.
func (h *Hunter) check(originURL string, link LinkRecord) Result {
	res := Result{Link: link}

	h.setState(Classifying)
	if ClassifyLink(link) == Skippable {
		res.Outcome = SkippedOutcome()
		return res
	}

	h.setState(Probing)
	outcome, err := h.probe(link.Href)
	if err != nil {
		h.logger.Error("probe aborted", "link", link.ID, "href", link.Href, "error", err)
		outcome = ErroredOutcome(err.Error())
	}
	res.Outcome = outcome

	if outcome.Failed() {
		// Capture reloads the origin page itself.
		h.setState(Capturing)
		res.Screenshot = h.capture(originURL, link, outcome)
		return res
	}

	h.setState(Restoring)
	if err := h.restore(originURL); err != nil {
		h.logger.Warn("restore origin page", "url", originURL, "error", err)
	}
	return res
}

// probe wraps Probe so a panic in the session surfaces as an error.
func (h *Hunter) probe(href string) (outcome Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("probe %s: panic: %v", href, r)
		}
	}()
	return Probe(h.session, href, h.opts.ProbeTimeout), nil
}

func (h *Hunter) capture(originURL string, link LinkRecord, outcome Outcome) string {
	if h.opts.Capturer == nil {
		if err := h.restore(originURL); err != nil {
			h.logger.Warn("restore origin page", "url", originURL, "error", err)
		}
		return ""
	}
	path, err := h.opts.Capturer.Capture(h.session, originURL, link, outcome)
	if err != nil {
		h.logger.Warn("evidence capture failed", "link", link.ID, "href", link.Href, "error", err)
		return ""
	}
	if path != "" {
		h.logger.Debug("saved screenshot", "link", link.ID, "path", path)
	}
	return path
}

func (h *Hunter) restore(originURL string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if err := h.session.Load(originURL, browser.WaitNetworkIdle, h.opts.OriginTimeout); err != nil {
		return err
	}
	h.dismissOverlays()
	return nil
}

func (h *Hunter) dismissOverlays() {
	n, err := DismissOverlays(h.session, h.opts.DismissSelectors)
	if err != nil {
		h.logger.Debug("overlay dismissal failed", "error", err)
		return
	}
	if n > 0 {
		h.logger.Debug("dismissed overlays", "count", n)
	}
}

func (h *Hunter) setState(s State) {
	if h.state != s {
		h.logger.Debug("state", "from", h.state.String(), "to", s.String())
	}
	h.state = s
}
