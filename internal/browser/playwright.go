package browser

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Options configures the Playwright session.
type Options struct {
	Headless bool
	// InstallBrowsers downloads the browser binaries before launching.
	InstallBrowsers bool
	Logger          *slog.Logger
}

// PlaywrightSession drives one Chromium page through playwright-go.
type PlaywrightSession struct {
	pwClient *playwright.Playwright // The Playwright client to use
	browser  playwright.Browser     // The Chromium instance
	page     playwright.Page        // The single page shared by every check
	lastResp playwright.Response    // Response of the last navigation, may be nil
	logger   *slog.Logger
}

// NewPlaywrightSession starts Playwright, launches Chromium and opens a page.
func NewPlaywrightSession(opts Options) (*PlaywrightSession, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	pwOptions := playwright.RunOptions{
		SkipInstallBrowsers: !opts.InstallBrowsers,
		Browsers:            []string{"chromium"},
	}
	if opts.InstallBrowsers {
		if err := playwright.Install(&pwOptions); err != nil {
			return nil, fmt.Errorf("install playwright browsers: %w", err)
		}
	}

	pw, err := playwright.Run(&pwOptions)
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	browserInstance, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	page, err := browserInstance.NewPage(playwright.BrowserNewPageOptions{
		Viewport: &playwright.Size{Width: 1366, Height: 900},
	})
	if err != nil {
		_ = browserInstance.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("open page: %w", err)
	}

	return &PlaywrightSession{
		pwClient: pw,
		browser:  browserInstance,
		page:     page,
		logger:   logger,
	}, nil
}

func (s *PlaywrightSession) Load(url string, wait WaitPolicy, timeout time.Duration) error {
	s.lastResp = nil
	s.logger.Debug("navigating", "url", url, "wait", string(wait), "timeout", timeout)

	resp, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: waitUntil(wait),
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return err
	}
	s.lastResp = resp
	return nil
}

func (s *PlaywrightSession) CurrentStatusCode() (int, bool) {
	if s.lastResp == nil {
		return 0, false
	}
	return s.lastResp.Status(), true
}

func (s *PlaywrightSession) Evaluate(script string, arg any) (any, error) {
	if arg == nil {
		return s.page.Evaluate(script)
	}
	return s.page.Evaluate(script, arg)
}

func (s *PlaywrightSession) Screenshot(path string, fullPage bool) error {
	_, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(fullPage),
	})
	return err
}

// Close shuts down the page, the browser and the Playwright driver.
// It returns the first error encountered but always attempts every step.
func (s *PlaywrightSession) Close() error {
	var firstErr error
	if s.page != nil {
		if err := s.page.Close(); err != nil {
			firstErr = fmt.Errorf("close page: %w", err)
		}
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close browser: %w", err)
		}
	}
	if s.pwClient != nil {
		if err := s.pwClient.Stop(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("stop playwright: %w", err)
		}
	}
	return firstErr
}

func waitUntil(wait WaitPolicy) *playwright.WaitUntilState {
	switch wait {
	case WaitNetworkIdle:
		return playwright.WaitUntilStateNetworkidle
	default:
		return playwright.WaitUntilStateDomcontentloaded
	}
}
