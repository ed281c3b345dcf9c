package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/rodaine/table"
	"github.com/yingtu35/link-sentry/internal/linkcheck"
)

var (
	passStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	failStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	skipStyle  = lipgloss.NewStyle().Faint(true)
	titleStyle = lipgloss.NewStyle().Bold(true)
)

// Marker returns the symbol printed next to a checked link.
func Marker(k linkcheck.Kind) string {
	switch k {
	case linkcheck.Working:
		return passStyle.Render("✓")
	case linkcheck.Skipped:
		return skipStyle.Render("-")
	default:
		return failStyle.Render("✗")
	}
}

// PrintProgress writes one progress line for a checked link.
func PrintProgress(w io.Writer, total int, res linkcheck.Result) {
	detail := res.Outcome.Label()
	if res.Outcome.Kind == linkcheck.Errored {
		detail = firstLine(res.Outcome.Message)
	}
	_, _ = fmt.Fprintf(w, "%s [%d/%d] %s (%s)\n", Marker(res.Outcome.Kind), res.Link.Index+1, total, res.Link.Href, detail)
}

// PrintResults writes the totals and an itemized table of broken links.
func PrintResults(w io.Writer, r *Report) {
	writef := func(format string, a ...any) { _, _ = fmt.Fprintf(w, format, a...) }

	writef("\n")
	writef("%s\n", titleStyle.Render(fmt.Sprintf("Checked %d links: %d working, %d broken", r.Total, len(r.Working), len(r.Broken))))
	if !r.HasBroken() {
		writef("No broken links found\n")
		return
	}

	tbl := table.New("#", "Text", "URL", "Status", "Screenshot").WithWriter(w)
	for _, e := range r.Broken {
		shot := e.Screenshot
		if shot == "" {
			shot = "-"
		}
		tbl.AddRow(e.Index+1, e.Text, e.Href, firstLine(e.StatusText()), shot)
	}
	tbl.Print()
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
