package config

import "errors"

// Configuration validation errors, returned by Config.Validate.
var (
	ErrNoTarget        = errors.New("no target specified: provide a URL to check")
	ErrInvalidTimeout  = errors.New("invalid timeout: must be positive")
	ErrInvalidDelay    = errors.New("invalid render delay: must be non-negative")
	ErrInvalidFormat   = errors.New("invalid report format: use json, csv or markdown")
	ErrNoIncludeRegion = errors.New("include region selector must not be empty")
	ErrNoReportPath    = errors.New("report path must not be empty")
)

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")
