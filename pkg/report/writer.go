package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Writer persists rendered reports to an output directory
type Writer struct {
	outputDir string

	mu      sync.Mutex
	written []string
}

// NewWriter creates the output directory if needed and returns a writer
func NewWriter(outputDir string) (*Writer, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Writer{outputDir: outputDir}, nil
}

// Save renders the report with the exporter and writes it atomically.
// Returns the full path of the written file.
func (w *Writer) Save(r *Report, exporter Exporter) (string, error) {
	data, err := exporter.Export(r)
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}

	path := filepath.Join(w.outputDir, r.Filename(exporter.Ext()))
	if err := w.writeAtomic(path, data); err != nil {
		return "", err
	}

	w.mu.Lock()
	w.written = append(w.written, path)
	w.mu.Unlock()

	return path, nil
}

// writeAtomic writes through a temp file and renames so a crashed run never
// leaves a half-written report behind.
func (w *Writer) writeAtomic(path string, data []byte) error {
	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// OutputDir returns the output directory path
func (w *Writer) OutputDir() string {
	return w.outputDir
}

// Written returns the paths written so far
func (w *Writer) Written() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.written))
	copy(out, w.written)
	return out
}
