package config

import (
	"path/filepath"
	"slices"
	"time"

	"github.com/adrg/xdg"
	"github.com/yingtu35/link-sentry/internal/linkcheck"
	"github.com/yingtu35/link-sentry/pkg/domain"
)

const (
	AppName = "link-sentry"

	// DefaultTarget is checked when no URL is given.
	DefaultTarget = "https://scrape-me.dreamsofcode.io/"

	DefaultScreenshotDir = "screenshots"
	DefaultReportPath    = "link-report" // exporter adds the extension
	DefaultFormat        = "json"
)

var formats = []string{"json", "csv", "markdown", "md"}

// Config holds every option of a run. CLI flags are applied on top of the
// values loaded from the config file.
type Config struct {
	Target string

	ProbeTimeout  time.Duration
	OriginTimeout time.Duration
	RenderDelay   time.Duration

	IncludeRegion    string
	ExcludeRegions   []string
	DismissSelectors []string

	ScreenshotDir string
	ReportPath    string
	Format        string

	Headless        bool
	InstallBrowsers bool
	Verbose         bool

	SaveHistory bool
	HistoryDir  string

	ConfigFilePath string
}

// NewConfig returns a Config filled with defaults.
func NewConfig() *Config {
	return &Config{
		Target:           DefaultTarget,
		ProbeTimeout:     linkcheck.DefaultProbeTimeout,
		OriginTimeout:    linkcheck.DefaultOriginTimeout,
		RenderDelay:      linkcheck.DefaultRenderDelay,
		IncludeRegion:    "body",
		ExcludeRegions:   slices.Clone(linkcheck.DefaultExcludeRegions),
		DismissSelectors: slices.Clone(linkcheck.DefaultDismissSelectors),
		ScreenshotDir:    DefaultScreenshotDir,
		ReportPath:       DefaultReportPath,
		Format:           DefaultFormat,
		Headless:         true,
		HistoryDir:       XDGDataDir(),
	}
}

// XDGDataDir is where the run history database lives.
// On Linux: ~/.local/share/link-sentry
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Regions returns the harvest regions described by the config.
func (c *Config) Regions() linkcheck.Regions {
	return linkcheck.Regions{
		Include: c.IncludeRegion,
		Exclude: slices.Clone(c.ExcludeRegions),
	}
}

// Validate returns the first problem found in the config.
func (c *Config) Validate() error {
	if c.Target == "" {
		return ErrNoTarget
	}
	if _, err := domain.ParseTarget(c.Target); err != nil {
		return err
	}
	if c.ProbeTimeout <= 0 || c.OriginTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.RenderDelay < 0 {
		return ErrInvalidDelay
	}
	if !slices.Contains(formats, c.Format) {
		return ErrInvalidFormat
	}
	if c.IncludeRegion == "" {
		return ErrNoIncludeRegion
	}
	if c.ReportPath == "" {
		return ErrNoReportPath
	}
	return nil
}
