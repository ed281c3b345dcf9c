package linkcheck

import "time"

const (
	DefaultProbeTimeout  = 15 * time.Second // per-link navigation limit
	DefaultOriginTimeout = 30 * time.Second // origin page loads, network idle
	DefaultRenderDelay   = 500 * time.Millisecond

	// IDAttribute is the DOM attribute carrying a link's harvest identity.
	IDAttribute = "data-link-sentry-id"
	IDPrefix    = "link-"
)

// DefaultExcludeRegions are the site chrome regions never harvested.
var DefaultExcludeRegions = []string{"header", "footer"}
