package main

import (
	"fmt"

	"github.com/fwojciec/credex"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	records, err := deps.Records.ListRecords(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", credex.ErrorMessage(err))
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(deps.Stdout, "No records found. Use 'credex mission' or 'credex extract --save' to collect some.")
		return nil
	}

	for _, r := range records {
		title := r.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %d companies  %d credits  %s\n",
			r.UpdatedAt.Format("2006-01-02"), title, r.Companies, r.Credits, r.URL)
	}

	return nil
}
