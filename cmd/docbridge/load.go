package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fwojciec/docbridge"
)

// Run executes the load command.
func (c *LoadCmd) Run(deps *Dependencies) error {
	sources := deps.Catalog
	if c.Priority {
		sources = docbridge.FilterPriority(sources)
	}
	_, err := load(deps, sources)
	return err
}

// load runs the loader and prints its report. It fails if any source failed.
// A nil report means the run could not start and no source was attempted.
func load(deps *Dependencies, sources []*docbridge.Source) (*docbridge.RunReport, error) {
	if len(sources) == 0 {
		fmt.Fprintln(deps.Stdout, "No sources to load.")
		return docbridge.NewRunReport(nil, time.Now()), nil
	}

	fmt.Fprintf(deps.Stdout, "Loading %d sources into %s\n", len(sources), deps.Loader.Pipeline.Collection)

	report, err := deps.Loader.Run(deps.Ctx, sources)
	if report == nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbridge.ErrorMessage(err))
		return nil, err
	}

	printReport(deps.Stdout, report)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "warning: %v\n", err)
	}

	if report.Failed > 0 {
		return report, fmt.Errorf("%d of %d sources failed", report.Failed, report.SourcesAttempted)
	}
	return report, err
}

func printReport(w io.Writer, report *docbridge.RunReport) {
	for _, r := range report.Results {
		if r.Failed() {
			fmt.Fprintf(w, "  ✗ %s: %s\n", r.Source, r.Error)
			continue
		}
		fmt.Fprintf(w, "  ✓ %s: %d documents", r.Source, r.DocumentsLoaded)
		if r.Tokens > 0 {
			fmt.Fprintf(w, " (%d tokens)", r.Tokens)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\n%d succeeded, %d failed, %d documents total\n",
		report.Successful, report.Failed, report.TotalDocuments)
	if report.Path != "" {
		fmt.Fprintf(w, "Report: %s\n", report.Path)
	}
}
