package main

import (
	"fmt"

	"github.com/fwojciec/credex"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	record, err := deps.Records.FindRecord(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", credex.ErrorMessage(err))
		return err
	}
	return printJSON(deps, record)
}
