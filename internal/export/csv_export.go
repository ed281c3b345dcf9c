package export

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/yingtu35/link-sentry/internal/report"
)

// LinkRow is one CSV line: a checked link and whether it passed.
type LinkRow struct {
	Result string `csv:"Result"`
	report.Entry
}

type CSVExporter struct{}

func NewCSVExporter() Exporter {
	return &CSVExporter{}
}

func (e *CSVExporter) Export(r *report.Report, filename string) (string, error) {
	path := filename + ".csv"
	if err := writeFile(path, func(w io.Writer) error { return WriteCSV(w, r) }); err != nil {
		return "", err
	}
	return path, nil
}

// WriteCSV writes every entry of r, broken links first, in report order.
func WriteCSV(w io.Writer, r *report.Report) error {
	rows := transformData(r)
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("write csv report: %w", err)
	}
	return nil
}

func transformData(r *report.Report) []LinkRow {
	rows := make([]LinkRow, 0, r.Total)
	for _, e := range r.Broken {
		rows = append(rows, LinkRow{Result: "broken", Entry: e})
	}
	for _, e := range r.Working {
		rows = append(rows, LinkRow{Result: "working", Entry: e})
	}
	return rows
}
