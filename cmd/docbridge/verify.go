package main

import (
	"fmt"
)

// Run executes the verify command.
func (c *VerifyCmd) Run(deps *Dependencies) error {
	verifications := deps.Verifier.Verify(deps.Ctx, deps.Catalog)

	available := 0
	for _, v := range verifications {
		switch {
		case v.Error != "":
			fmt.Fprintf(deps.Stdout, "  ✗ %s: %s\n", v.Source, v.Error)
		case v.Available:
			available++
			fmt.Fprintf(deps.Stdout, "  ✓ %s: %d documents\n", v.Source, v.DocumentCount)
		default:
			fmt.Fprintf(deps.Stdout, "  - %s: no documents\n", v.Source)
		}
	}

	fmt.Fprintf(deps.Stdout, "\n%d of %d sources available\n", available, len(verifications))
	return nil
}
