package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/credex"
)

// Run executes the analyze command.
func (c *AnalyzeCmd) Run(deps *Dependencies) error {
	fetched, err := deps.Fetcher.FetchHTML(deps.Ctx, c.URL, c.Force)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", credex.ErrorMessage(err))
		return err
	}

	analysis, err := deps.Scanner.Analyze(fetched.HTML, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", credex.ErrorMessage(err))
		return err
	}

	out := deps.Stdout
	if analysis.Headline != "" {
		fmt.Fprintf(out, "headline:   %s\n", analysis.Headline)
	}
	fmt.Fprintf(out, "strategy:   %s (confidence %.2f)\n", analysis.Strategy, analysis.Confidence)
	switch {
	case analysis.HasPagination && analysis.MaxPage > 0:
		fmt.Fprintf(out, "pagination: yes (%d pages)\n", analysis.MaxPage)
	case analysis.HasPagination:
		fmt.Fprintln(out, "pagination: yes")
	default:
		fmt.Fprintln(out, "pagination: no")
	}
	if len(analysis.RolesDetected) > 0 {
		fmt.Fprintf(out, "roles:      %s\n", strings.Join(analysis.RolesDetected, ", "))
	}

	printLinks(c, deps, "project links", analysis.ProjectLinks)
	printLinks(c, deps, "company links", analysis.CompanyLinks)
	printLinks(c, deps, "person links", analysis.PersonLinks)
	return nil
}

func printLinks(c *AnalyzeCmd, deps *Dependencies, label string, links []string) {
	fmt.Fprintf(deps.Stdout, "%s: %d\n", label, len(links))
	if !c.Links {
		return
	}
	for _, l := range links {
		fmt.Fprintf(deps.Stdout, "  %s\n", l)
	}
}
