package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file name searched for.
const DefaultConfigFile = ".linksentry.yaml"

// File is the on-disk configuration. Unset fields keep their defaults.
type File struct {
	Target           string   `yaml:"target"`
	ProbeTimeout     string   `yaml:"probe_timeout"`
	OriginTimeout    string   `yaml:"origin_timeout"`
	RenderDelay      string   `yaml:"render_delay"`
	Include          string   `yaml:"include"`
	Exclude          []string `yaml:"exclude"`
	DismissSelectors []string `yaml:"dismiss_selectors"`
	ScreenshotDir    string   `yaml:"screenshot_dir"`
	ReportPath       string   `yaml:"report"`
	Format           string   `yaml:"format"`
	Headless         *bool    `yaml:"headless"`
	SaveHistory      *bool    `yaml:"save_history"`
	HistoryDir       string   `yaml:"history_dir"`
}

// LoadConfigFile reads a YAML config file.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path is intentional
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &f, nil
}

// FindConfigFile returns configPath if it exists, otherwise the first
// DefaultConfigFile found in the current then the home directory.
// It returns "" when nothing is found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}
	var dirs []string
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, home)
	}
	for _, dir := range dirs {
		p := filepath.Join(dir, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Apply copies the values set in f onto c.
func (f *File) Apply(c *Config) error {
	setString(&c.Target, f.Target)
	setString(&c.IncludeRegion, f.Include)
	setString(&c.ScreenshotDir, f.ScreenshotDir)
	setString(&c.ReportPath, f.ReportPath)
	setString(&c.Format, f.Format)
	setString(&c.HistoryDir, f.HistoryDir)
	if f.Exclude != nil {
		c.ExcludeRegions = f.Exclude
	}
	if f.DismissSelectors != nil {
		c.DismissSelectors = f.DismissSelectors
	}
	if f.Headless != nil {
		c.Headless = *f.Headless
	}
	if f.SaveHistory != nil {
		c.SaveHistory = *f.SaveHistory
	}
	for _, d := range []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"probe_timeout", f.ProbeTimeout, &c.ProbeTimeout},
		{"origin_timeout", f.OriginTimeout, &c.OriginTimeout},
		{"render_delay", f.RenderDelay, &c.RenderDelay},
	} {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
		*d.dst = v
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
