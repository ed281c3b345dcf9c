package browser

import "time"

// WaitPolicy tells Load when a navigation counts as finished.
type WaitPolicy string

const (
	// WaitDOMContentLoaded returns once the document has been parsed.
	WaitDOMContentLoaded WaitPolicy = "domcontentloaded"
	// WaitNetworkIdle returns once there has been no network traffic for a while.
	WaitNetworkIdle WaitPolicy = "networkidle"
)

// Session is a single browser page driven one navigation at a time.
// A Session is not safe for concurrent use.
type Session interface {
	// Load navigates the page to url and waits according to wait.
	Load(url string, wait WaitPolicy, timeout time.Duration) error
	// CurrentStatusCode reports the HTTP status of the last navigation.
	// ok is false when the navigation produced no response.
	CurrentStatusCode() (code int, ok bool)
	// Evaluate runs a JavaScript function expression in the page with arg.
	Evaluate(script string, arg any) (any, error)
	// Screenshot writes a PNG of the page to path.
	Screenshot(path string, fullPage bool) error
	Close() error
}
