package main

import (
	"fmt"
	"text/tabwriter"
)

// Run executes the sources command.
func (c *SourcesCmd) Run(deps *Dependencies) error {
	if len(deps.Catalog) == 0 {
		fmt.Fprintln(deps.Stdout, "No sources configured.")
		return nil
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRIORITY\tNAME\tKIND\tORIGIN")
	for _, s := range deps.Catalog {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", s.Priority, s.Name, s.Kind(), s.Origin)
	}
	return w.Flush()
}
