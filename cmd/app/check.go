package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/yingtu35/link-sentry/internal/browser"
	"github.com/yingtu35/link-sentry/internal/config"
	"github.com/yingtu35/link-sentry/internal/export"
	"github.com/yingtu35/link-sentry/internal/history"
	"github.com/yingtu35/link-sentry/internal/linkcheck"
	"github.com/yingtu35/link-sentry/internal/report"
)

// sessionFactory opens the browser session a check runs in.
type sessionFactory func(cfg *config.Config, logger *slog.Logger) (browser.Session, error)

func newPlaywrightSession(cfg *config.Config, logger *slog.Logger) (browser.Session, error) {
	return browser.NewPlaywrightSession(browser.Options{
		Headless:        cfg.Headless,
		InstallBrowsers: cfg.InstallBrowsers,
		Logger:          logger,
	})
}

func runCheckCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runCheck(ctx, cfg, logger, cmd.OutOrStdout(), newPlaywrightSession)
}

// buildConfig layers defaults, the config file, flags and the positional
// URL, in that order.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	// An explicit --config must exist; the implicit lookup may find nothing.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath == "" && cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}
	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", configPath, err)
		}
		if err := file.Apply(cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", configPath, err)
		}
	}

	cfg.Verbose = getVerboseFlag(cmd)

	stringFlags := map[string]*string{
		"include":     &cfg.IncludeRegion,
		"output":      &cfg.ReportPath,
		"format":      &cfg.Format,
		"screenshots": &cfg.ScreenshotDir,
	}
	for name, dst := range stringFlags {
		if flags.Lookup(name) == nil || !flags.Changed(name) {
			continue
		}
		if *dst, err = flags.GetString(name); err != nil {
			return nil, err
		}
	}

	durationFlags := map[string]*time.Duration{
		"timeout":        &cfg.ProbeTimeout,
		"origin-timeout": &cfg.OriginTimeout,
		"render-delay":   &cfg.RenderDelay,
	}
	for name, dst := range durationFlags {
		if flags.Lookup(name) == nil || !flags.Changed(name) {
			continue
		}
		if *dst, err = flags.GetDuration(name); err != nil {
			return nil, err
		}
	}

	if flags.Changed("exclude") {
		if cfg.ExcludeRegions, err = flags.GetStringSlice("exclude"); err != nil {
			return nil, err
		}
	}
	if flags.Lookup("headed") != nil && flags.Changed("headed") {
		headed, err := flags.GetBool("headed")
		if err != nil {
			return nil, err
		}
		cfg.Headless = !headed
	}
	if flags.Lookup("install") != nil {
		if cfg.InstallBrowsers, err = flags.GetBool("install"); err != nil {
			return nil, err
		}
	}
	if flags.Lookup("save-history") != nil && flags.Changed("save-history") {
		if cfg.SaveHistory, err = flags.GetBool("save-history"); err != nil {
			return nil, err
		}
	}

	if len(args) > 0 {
		cfg.Target = args[0]
	}
	return cfg, nil
}

// runCheck performs one check of cfg.Target and writes the report.
func runCheck(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer, open sessionFactory) error {
	exporter, err := export.New(cfg.Format)
	if err != nil {
		return err
	}

	session, err := open(cfg, logger)
	if err != nil {
		return fmt.Errorf("start browser: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn("close browser", "error", err)
		}
	}()

	capturer := linkcheck.NewCapturer(cfg.ScreenshotDir, logger)
	capturer.OriginTimeout = cfg.OriginTimeout
	capturer.RenderDelay = cfg.RenderDelay
	capturer.DismissSelectors = cfg.DismissSelectors
	capturer.Regions = cfg.Regions()

	var total int
	hunter := linkcheck.NewHunter(session, linkcheck.Options{
		ProbeTimeout:     cfg.ProbeTimeout,
		OriginTimeout:    cfg.OriginTimeout,
		Regions:          cfg.Regions(),
		DismissSelectors: cfg.DismissSelectors,
		Capturer:         capturer,
		Logger:           logger,
		OnHarvest: func(n int) {
			total = n
			fmt.Fprintf(out, "Found %d links\n", n)
		},
		OnResult: func(res linkcheck.Result) {
			report.PrintProgress(out, total, res)
		},
	})

	fmt.Fprintf(out, "Checking links on %s\n", cfg.Target)
	start := time.Now()
	results, err := hunter.Hunt(ctx, cfg.Target)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	rep := report.Build(results)
	path, err := exporter.Export(rep, cfg.ReportPath)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	report.PrintResults(out, rep)
	fmt.Fprintf(out, "Report written to %s (%s)\n", path, elapsed.Round(time.Millisecond))

	if cfg.SaveHistory {
		if err := saveHistory(ctx, cfg, start, elapsed, rep); err != nil {
			logger.Warn("save run history", "error", err)
		}
	}

	if ctx.Err() != nil {
		return errors.New("check interrupted")
	}
	if rep.HasBroken() {
		return errBrokenLinks
	}
	return nil
}

func saveHistory(ctx context.Context, cfg *config.Config, start time.Time, elapsed time.Duration, rep *report.Report) error {
	store, err := history.Open(cfg.HistoryDir)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := history.NewRun(cfg.Target, start, elapsed, rep)
	if err != nil {
		return err
	}
	// The run context may already be cancelled; the record should still land.
	return store.Save(context.WithoutCancel(ctx), run)
}
