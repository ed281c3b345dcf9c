package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/yingtu35/link-sentry/internal/config"
	"github.com/yingtu35/link-sentry/internal/linkcheck"
)

// errBrokenLinks makes the process exit non-zero when a check found
// broken links.
var errBrokenLinks = errors.New("broken links found")

// NewRootCmd creates the root command, which checks a page.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link-sentry [url]",
		Short: "Check every link on a page and screenshot the broken ones",
		Long: `link-sentry opens a page in headless Chromium, collects the links in its body
(header and footer excluded), visits each one in turn and records whether it
works. Every broken link gets a full page screenshot of the original page with
the link highlighted.

The report is written to link-report.json (or .csv / .md) and screenshots to
./screenshots. The exit status is 1 when any link is broken.

Examples:
  # Check the default page
  link-sentry

  # Check a page and write a Markdown report
  link-sentry --format markdown https://example.com/

  # Only check links inside <main>, ignoring the sidebar
  link-sentry --include main --exclude header,footer,.sidebar https://example.com/`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runCheckCmd,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: "+config.DefaultConfigFile+" in current or home directory)")
	cmd.PersistentFlags().String("include", "body", "CSS selector of the region links are collected from")
	cmd.PersistentFlags().StringSlice("exclude", []string{"header", "footer"}, "CSS selectors of regions to ignore")

	cmd.Flags().DurationP("timeout", "t", linkcheck.DefaultProbeTimeout, "Navigation timeout for each link")
	cmd.Flags().Duration("origin-timeout", linkcheck.DefaultOriginTimeout, "Timeout for loading the page under test")
	cmd.Flags().Duration("render-delay", linkcheck.DefaultRenderDelay, "Pause before each screenshot")
	cmd.Flags().StringP("output", "o", config.DefaultReportPath, "Report path, the extension is added for the format")
	cmd.Flags().StringP("format", "f", config.DefaultFormat, "Report format: json, csv or markdown")
	cmd.Flags().StringP("screenshots", "s", config.DefaultScreenshotDir, "Screenshot directory")
	cmd.Flags().Bool("headed", false, "Show the browser window")
	cmd.Flags().Bool("install", false, "Download the Chromium build used by Playwright before running")
	cmd.Flags().Bool("save-history", false, "Store the run in the history database")

	cmd.AddCommand(NewLinksCmd())
	cmd.AddCommand(NewHistoryCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		if !errors.Is(err, errBrokenLinks) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return false
	}
	return verbose
}

func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
