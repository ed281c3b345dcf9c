package linkcheck

import (
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/yingtu35/link-sentry/internal/browser"
)

type fakeResponse struct {
	status     int
	noResponse bool
	err        error
	panicMsg   string
}

type loadCall struct {
	url  string
	wait browser.WaitPolicy
}

type shot struct {
	path      string
	annotated bool
}

// fakeSession is an in-memory browser.Session. Evaluate dispatches on the
// script constants used by the package.
type fakeSession struct {
	origin    string
	responses map[string]fakeResponse
	links     []harvestedLink

	// matcher results, keyed by matcher name; missing means false
	found map[string]bool

	harvestErr    error
	annotateErr   error
	screenshotErr error

	current   string
	status    int
	hasStatus bool
	annotated bool

	loads       []loadCall
	matched     []string
	locateArgs  []map[string]any
	cleanups    int
	screenshots []shot
}

func newFakeSession(origin string, links ...harvestedLink) *fakeSession {
	return &fakeSession{
		origin:    origin,
		responses: map[string]fakeResponse{origin: {status: 200}},
		links:     links,
		found:     map[string]bool{"id": true},
	}
}

func (f *fakeSession) Load(url string, wait browser.WaitPolicy, _ time.Duration) error {
	f.loads = append(f.loads, loadCall{url: url, wait: wait})
	f.hasStatus = false
	f.annotated = false
	resp, ok := f.responses[url]
	if !ok {
		resp = fakeResponse{status: 200}
	}
	if resp.panicMsg != "" {
		panic(resp.panicMsg)
	}
	if resp.err != nil {
		f.current = "chrome-error://chromewebdata/"
		return resp.err
	}
	f.current = url
	if !resp.noResponse {
		f.status, f.hasStatus = resp.status, true
	}
	return nil
}

func (f *fakeSession) CurrentStatusCode() (int, bool) {
	return f.status, f.hasStatus
}

func (f *fakeSession) Evaluate(script string, arg any) (any, error) {
	switch script {
	case harvestScript:
		if f.harvestErr != nil {
			return nil, f.harvestErr
		}
		if f.current != f.origin {
			return "[]", nil
		}
		b, err := json.Marshal(f.links)
		return string(b), err
	case dismissScript:
		return float64(0), nil
	case locateByIDScript:
		if m, ok := arg.(map[string]any); ok {
			f.locateArgs = append(f.locateArgs, m)
		}
		return f.match("id"), nil
	case locateByHrefScript:
		return f.match("href"), nil
	case locateByTextScript:
		return f.match("text"), nil
	case annotateScript:
		if f.annotateErr != nil {
			return nil, f.annotateErr
		}
		f.annotated = true
		return true, nil
	case cleanupScript:
		f.cleanups++
		f.annotated = false
		return true, nil
	}
	return nil, errors.New("unknown script")
}

func (f *fakeSession) match(name string) bool {
	f.matched = append(f.matched, name)
	return f.current == f.origin && f.found[name]
}

func (f *fakeSession) Screenshot(path string, _ bool) error {
	if f.screenshotErr != nil {
		return f.screenshotErr
	}
	f.screenshots = append(f.screenshots, shot{path: path, annotated: f.annotated})
	return os.WriteFile(path, []byte("png"), 0o600)
}

func (f *fakeSession) Close() error { return nil }

// probedURLs returns every load that was not a return to the origin page.
func (f *fakeSession) probedURLs() []string {
	var urls []string
	for _, l := range f.loads {
		if l.url != f.origin {
			urls = append(urls, l.url)
		}
	}
	return urls
}
