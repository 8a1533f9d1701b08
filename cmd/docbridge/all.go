package main

import (
	"fmt"

	"github.com/fwojciec/docbridge"
)

// Run executes the all command. Verification and indexing run even when
// some sources failed to load; the command still fails in that case. A run
// that could not start stops here.
func (c *AllCmd) Run(deps *Dependencies) error {
	sources := deps.Catalog
	if c.Priority {
		sources = docbridge.FilterPriority(sources)
	}

	report, loadErr := load(deps, sources)
	if report == nil || deps.Ctx.Err() != nil {
		return loadErr
	}

	fmt.Fprintln(deps.Stdout, "\nVerifying")
	verify := &VerifyCmd{}
	if err := verify.Run(deps); err != nil {
		return err
	}

	fmt.Fprintln(deps.Stdout, "\nIndexing")
	index := &IndexCmd{}
	if err := index.Run(deps); err != nil {
		return err
	}

	return loadErr
}
