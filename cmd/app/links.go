package main

import (
	"fmt"
	"io"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"
	"github.com/yingtu35/link-sentry/internal/linkcheck"
	"github.com/yingtu35/link-sentry/internal/webscraper"
	"github.com/yingtu35/link-sentry/pkg/domain"
)

// NewLinksCmd creates the links command.
func NewLinksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "links [url]",
		Short: "List the links a check would visit, without a browser",
		Long: `Links fetches the page over plain HTTP, applies the same include and exclude
regions as a check and prints every link with its position and whether it would
be probed or skipped. Nothing is navigated to and no JavaScript runs, so pages
that build their links client side may show fewer links than a real check.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runLinksCmd,
	}
}

func runLinksCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if _, err := domain.ParseTarget(cfg.Target); err != nil {
		return err
	}
	logger := setupLogger(cfg.Verbose)

	scraper := webscraper.NewStaticScraper(nil, cfg.Regions(), logger)
	page, err := scraper.Scrape(cmd.Context(), cfg.Target)
	if err != nil {
		return err
	}
	printLinks(cmd.OutOrStdout(), page)
	return nil
}

func printLinks(w io.Writer, page *webscraper.Page) {
	fmt.Fprintf(w, "%s (status %d): %d links\n\n", page.URL, page.Status, len(page.Links))
	if len(page.Links) == 0 {
		return
	}

	site, _ := domain.GetDomain(page.URL)
	tbl := table.New("#", "Action", "Scope", "Text", "URL").WithWriter(w)
	for _, l := range page.Links {
		action := "probe"
		if linkcheck.ClassifyLink(l) == linkcheck.Skippable {
			action = "skip"
		}
		scope := "external"
		if domain.IsSameDomain(site, l.Href) {
			scope = "internal"
		}
		tbl.AddRow(l.Index+1, action, scope, l.Text, l.Href)
	}
	tbl.Print()
}
