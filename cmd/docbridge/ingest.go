package main

import (
	"fmt"

	"github.com/fwojciec/docbridge"
)

// Run executes the ingest command.
func (c *IngestCmd) Run(deps *Dependencies) error {
	src := &docbridge.Source{
		Name:        c.Name,
		Origin:      c.Origin,
		Priority:    c.Priority,
		Description: c.Description,
	}
	if err := src.Validate(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbridge.ErrorMessage(err))
		return err
	}
	_, err := load(deps, []*docbridge.Source{src})
	return err
}
