package mock

import (
	"context"

	"github.com/fwojciec/docbridge"
)

// Compile-time interface verification.
var (
	_ docbridge.ReportWriter = (*ReportWriter)(nil)
	_ docbridge.IndexWriter  = (*IndexWriter)(nil)
)

// ReportWriter is a mock implementation of docbridge.ReportWriter.
type ReportWriter struct {
	WriteReportFn func(ctx context.Context, report *docbridge.RunReport) (string, error)
}

func (w *ReportWriter) WriteReport(ctx context.Context, report *docbridge.RunReport) (string, error) {
	return w.WriteReportFn(ctx, report)
}

// IndexWriter is a mock implementation of docbridge.IndexWriter.
type IndexWriter struct {
	WriteIndexFn func(ctx context.Context, index *docbridge.Index) (string, error)
}

func (w *IndexWriter) WriteIndex(ctx context.Context, index *docbridge.Index) (string, error) {
	return w.WriteIndexFn(ctx, index)
}
