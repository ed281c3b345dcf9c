package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/yingtu35/link-sentry/internal/report"
)

type JsonExporter struct{}

func NewJsonExporter() Exporter {
	return &JsonExporter{}
}

func (e *JsonExporter) Export(r *report.Report, filename string) (string, error) {
	path := filename + ".json"
	if err := writeFile(path, func(w io.Writer) error { return WriteJSON(w, r) }); err != nil {
		return "", err
	}
	return path, nil
}

// WriteJSON writes r as indented JSON with URLs left unescaped.
func WriteJSON(w io.Writer, r *report.Report) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("write json report: %w", err)
	}
	return nil
}
