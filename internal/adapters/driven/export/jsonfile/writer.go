// Package jsonfile writes the extraction artifact as an indented JSON file.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
	"github.com/custodia-labs/arielle-cli/internal/core/ports/driven"
)

// Ensure Writer implements the interface.
var _ driven.ExtractionWriter = (*Writer)(nil)

// Artifact layout.
const (
	OutputSubdir    = "phase2-output"
	FilePrefix      = "api-extraction_"
	TimestampLayout = "2006-01-02_15-04-05"
)

// Writer stores records under <dir>/phase2-output/api-extraction_<UTC time>.json.
type Writer struct {
	defaultDir string
	now        func() time.Time
}

// NewWriter creates a writer. An empty defaultDir means the working directory.
func NewWriter(defaultDir string) *Writer {
	if defaultDir == "" {
		defaultDir = "."
	}
	return &Writer{defaultDir: defaultDir, now: time.Now}
}

// Write marshals records with two-space indentation and returns the file path.
func (w *Writer) Write(ctx context.Context, dir string, records []domain.ExtractionRecord) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if dir == "" {
		dir = w.defaultDir
	}
	if records == nil {
		records = []domain.ExtractionRecord{}
	}

	outDir := filepath.Join(dir, OutputSubdir)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal records: %w", err)
	}

	name := FilePrefix + w.now().UTC().Format(TimestampLayout) + ".json"
	path := filepath.Join(outDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
