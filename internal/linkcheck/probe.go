package linkcheck

import (
	"time"

	"github.com/yingtu35/link-sentry/internal/browser"
)

// Probe navigates s to href and classifies the response. Navigation
// failures become an Errored outcome and are never returned as errors.
// The session is left on the probed document; restoring the origin page
// is the caller's job.
func Probe(s browser.Session, href string, timeout time.Duration) Outcome {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	if err := s.Load(href, browser.WaitDOMContentLoaded, timeout); err != nil {
		return ErroredOutcome(err.Error())
	}
	code, ok := s.CurrentStatusCode()
	if !ok {
		return BrokenOutcome(0)
	}
	return outcomeForStatus(code)
}

func outcomeForStatus(code int) Outcome {
	if code >= 200 && code < 400 {
		return WorkingOutcome(code)
	}
	return BrokenOutcome(code)
}
