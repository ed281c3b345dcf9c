package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/yingtu35/link-sentry/internal/report"
)

type MarkdownExporter struct{}

func NewMarkdownExporter() Exporter {
	return &MarkdownExporter{}
}

func (e *MarkdownExporter) Export(r *report.Report, filename string) (string, error) {
	path := filename + ".md"
	if err := writeFile(path, func(w io.Writer) error { return WriteMarkdown(w, r) }); err != nil {
		return "", err
	}
	return path, nil
}

// WriteMarkdown renders r as GitHub flavored markdown: a summary table,
// then one table per failure category.
func WriteMarkdown(w io.Writer, r *report.Report) error {
	md := markdown.NewMarkdown(w)

	md.H1("Link Check Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Result", "Count"},
		Rows: [][]string{
			{"✅ Working", strconv.Itoa(len(r.Working))},
			{"❌ Broken", strconv.Itoa(len(r.Broken))},
			{"**Total**", "**" + strconv.Itoa(r.Total) + "**"},
		},
	})
	md.PlainText("")

	if !r.HasBroken() {
		md.PlainText("No broken links found.")
		if err := md.Build(); err != nil {
			return fmt.Errorf("write markdown report: %w", err)
		}
		return nil
	}

	grouped := make(map[report.Category][]report.Entry)
	for _, e := range r.Broken {
		cat := e.Category
		if cat == "" {
			cat = report.CategoryUnknown
		}
		grouped[cat] = append(grouped[cat], e)
	}

	for _, cat := range report.CategoryOrder {
		entries := grouped[cat]
		if len(entries) == 0 {
			continue
		}
		md.H2(fmt.Sprintf("%s (%d)", report.FormatCategory(cat), len(entries)))
		md.PlainText("")

		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{
				strconv.Itoa(e.Index + 1),
				cell(e.Text),
				"`" + e.Href + "`",
				cell(e.StatusText()),
				screenshotCell(e.Screenshot),
			})
		}
		md.Table(markdown.TableSet{
			Header: []string{"#", "Text", "URL", "Status", "Screenshot"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if err := md.Build(); err != nil {
		return fmt.Errorf("write markdown report: %w", err)
	}
	return nil
}

// cell keeps a value on one table row.
func cell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "\\|")
}

func screenshotCell(path string) string {
	if path == "" {
		return "-"
	}
	return "[view](" + path + ")"
}
