package main

import (
	"fmt"
	"io"
	"time"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"
	"github.com/yingtu35/link-sentry/internal/config"
	"github.com/yingtu35/link-sentry/internal/export"
	"github.com/yingtu35/link-sentry/internal/history"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [url]",
		Short: "Show past runs saved with --save-history",
		Long: `History lists runs stored in the history database, newest first. Pass a URL
to only show runs of that page, or --id to print the full JSON report of one run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}
	cmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to list (0 for all)")
	cmd.Flags().String("id", "", "Print the stored report of this run")
	cmd.Flags().String("dir", "", "History directory (default "+config.XDGDataDir()+")")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	id, err := cmd.Flags().GetString("id")
	if err != nil {
		return err
	}
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return err
	}

	if dir == "" {
		cfg, err := buildConfig(cmd, nil)
		if err != nil {
			return err
		}
		dir = cfg.HistoryDir
	}

	store, err := history.Open(dir)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if id != "" {
		run, err := store.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("run %s: %w", id, err)
		}
		rep, err := run.Report()
		if err != nil {
			return err
		}
		return export.WriteJSON(out, rep)
	}

	var target string
	if len(args) > 0 {
		target = args[0]
	}
	runs, err := store.List(ctx, target, limit)
	if err != nil {
		return err
	}
	printRuns(out, runs)
	return nil
}

func printRuns(w io.Writer, runs []history.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded. Use --save-history when checking a page.")
		return
	}
	tbl := table.New("ID", "Date", "Target", "Working", "Broken", "Total", "Duration").WithWriter(w)
	for _, r := range runs {
		tbl.AddRow(r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Target,
			r.Working, r.Broken, r.Total, r.Duration.Round(time.Millisecond))
	}
	tbl.Print()
}
