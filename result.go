package docbridge

import (
	"context"
	"time"
)

// LoadResult is the outcome of ingesting one source. Exactly one of
// DocumentsLoaded (on success) or Error (on failure) is meaningful.
type LoadResult struct {
	Source          string    `json:"source"`
	DocumentsLoaded int       `json:"documents_loaded"`
	Collection      string    `json:"collection,omitempty"`
	Origin          string    `json:"origin,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
	Tokens          int       `json:"tokens,omitempty"`
	Error           string    `json:"error,omitempty"`

	// Err is the typed cause behind Error.
	Err error `json:"-"`
}

// Failed reports whether the load failed.
func (r *LoadResult) Failed() bool {
	return r.Error != ""
}

// RunReport summarizes one bulk load. Results are in catalog order.
type RunReport struct {
	Timestamp        time.Time     `json:"timestamp"`
	SourcesAttempted int           `json:"sources_attempted"`
	Successful       int           `json:"successful"`
	Failed           int           `json:"failed"`
	TotalDocuments   int           `json:"total_documents"`
	Results          []*LoadResult `json:"results"`

	// Path is where the report was persisted, if anywhere.
	Path string `json:"-"`
}

// NewRunReport computes the summary counts for results.
func NewRunReport(results []*LoadResult, now time.Time) *RunReport {
	report := &RunReport{
		Timestamp:        now,
		SourcesAttempted: len(results),
		Results:          results,
	}
	for _, r := range results {
		if r.Failed() {
			report.Failed++
			continue
		}
		report.Successful++
		report.TotalDocuments += r.DocumentsLoaded
	}
	return report
}

// ReportWriter persists run reports.
type ReportWriter interface {
	// WriteReport persists the report and returns where it was written.
	WriteReport(ctx context.Context, report *RunReport) (string, error)
}

// Verification reports whether a source's documents are queryable.
type Verification struct {
	Source        string `json:"source"`
	Available     bool   `json:"available"`
	DocumentCount int    `json:"document_count"`
	Collection    string `json:"collection,omitempty"`
	Error         string `json:"error,omitempty"`
}
