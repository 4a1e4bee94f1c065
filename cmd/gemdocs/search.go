package main

import (
	"fmt"

	"github.com/fwojciec/gemdocs"
	"github.com/fwojciec/gemdocs/query"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	svc := query.NewService(deps.Pages)
	svc.Limit = c.Limit

	groups, err := svc.SearchDocumentation(deps.Ctx, c.Queries)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", gemdocs.ErrorMessage(err))
		return err
	}

	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(deps.Stdout)
		}
		fmt.Fprintf(deps.Stdout, "## %s\n", g.Query)
		if len(g.Results) == 0 {
			fmt.Fprintln(deps.Stdout, "No matches.")
			continue
		}
		for _, r := range g.Results {
			fmt.Fprintf(deps.Stdout, "- %s  %s\n  %s\n", r.Title, r.URL, r.Snippet)
		}
	}
	return nil
}
