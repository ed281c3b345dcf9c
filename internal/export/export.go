package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/yingtu35/link-sentry/internal/report"
)

type Exporter interface {
	// Export writes the report to filename plus the exporter's extension
	// and returns the path written. An existing file is overwritten.
	Export(r *report.Report, filename string) (string, error)
}

// New returns the exporter for format: "json", "csv" or "markdown".
func New(format string) (Exporter, error) {
	switch format {
	case "json", "":
		return NewJsonExporter(), nil
	case "csv":
		return NewCSVExporter(), nil
	case "markdown", "md":
		return NewMarkdownExporter(), nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// writeFile creates path (and its directory) and hands the file to write.
func writeFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
