package main

import (
	"fmt"

	"github.com/fwojciec/docbridge"
)

// Run executes the index command.
func (c *IndexCmd) Run(deps *Dependencies) error {
	index, err := deps.Indexer.Build(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbridge.ErrorMessage(err))
		return err
	}

	path, err := deps.Indexer.Write(deps.Ctx, index)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbridge.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Indexed %d documents from %d sources\n", index.TotalDocuments, index.TotalSources)
	fmt.Fprintf(deps.Stdout, "Index: %s\n", path)
	return nil
}
