package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/docbridge"
)

const (
	// IndexFilename is the name of the documentation index artifact.
	IndexFilename = "documentation_index.json"

	reportPrefix     = "loading_results_"
	reportTimeLayout = "20060102_150405"
)

var (
	_ docbridge.ReportWriter = (*ArtifactWriter)(nil)
	_ docbridge.IndexWriter  = (*ArtifactWriter)(nil)
)

// ArtifactWriter writes run reports and indexes as indented JSON files in a
// data directory. Each file is written to a temporary name and renamed into
// place, so readers never observe a partial artifact.
type ArtifactWriter struct {
	dir string
}

// NewArtifactWriter creates an ArtifactWriter for dir. The directory is
// created on first write.
func NewArtifactWriter(dir string) *ArtifactWriter {
	return &ArtifactWriter{dir: dir}
}

// ReportPath returns the path of the report stamped with the given time.
func (w *ArtifactWriter) ReportPath(report *docbridge.RunReport) string {
	return filepath.Join(w.dir, reportPrefix+report.Timestamp.Format(reportTimeLayout)+".json")
}

// WriteReport writes report to loading_results_<YYYYMMDD_HHMMSS>.json.
func (w *ArtifactWriter) WriteReport(ctx context.Context, report *docbridge.RunReport) (string, error) {
	path := w.ReportPath(report)
	if err := w.writeJSON(ctx, path, report); err != nil {
		return "", err
	}
	return path, nil
}

// WriteIndex replaces documentation_index.json.
func (w *ArtifactWriter) WriteIndex(ctx context.Context, index *docbridge.Index) (string, error) {
	path := filepath.Join(w.dir, IndexFilename)
	if err := w.writeJSON(ctx, path, index); err != nil {
		return "", err
	}
	return path, nil
}

func (w *ArtifactWriter) writeJSON(ctx context.Context, path string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(w.dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
