package report

import (
	json "github.com/goccy/go-json"
)

// JSONExporter renders the full report as indented JSON
type JSONExporter struct{}

func (e *JSONExporter) Ext() string {
	return "json"
}

func (e *JSONExporter) Export(r *Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
