package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/credex"
	"github.com/fwojciec/credex/crawl"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	domain := credex.Domain(c.URL)
	hints, err := crawl.LoadHints(deps.Ctx, deps.Knowledge, domain)
	if err != nil {
		deps.logger().Warn("knowledge lookup failed", "domain", domain, "err", err)
	}

	res := deps.Pipeline.ExtractURL(deps.Ctx, c.URL, hints)
	if res.Err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", credex.ErrorMessage(res.Err))
		return res.Err
	}

	if c.Save && len(res.Record.Companies) > 0 {
		if err := deps.Records.SaveRecord(deps.Ctx, res.Record); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", credex.ErrorMessage(err))
			return err
		}
		if err := crawl.Learn(deps.Ctx, deps.Knowledge, domain, res.Record, res.Selectors); err != nil {
			deps.logger().Warn("knowledge update failed", "domain", domain, "err", err)
		}
	}

	return printJSON(deps, res.Record)
}

func printJSON(deps *Dependencies, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Fprintln(deps.Stdout, string(data))
	return nil
}
