package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/credex"
)

// Run executes the detect command.
func (c *DetectCmd) Run(deps *Dependencies) error {
	fetched, err := deps.Fetcher.FetchHTML(deps.Ctx, c.URL, c.Force)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", credex.ErrorMessage(err))
		return err
	}

	variant := deps.Detector.Detect(fetched.HTML, c.URL)
	order := deps.Registry.StrategiesFor(variant, credex.Domain(c.URL))

	ids := make([]string, len(order))
	for i, id := range order {
		ids[i] = string(id)
	}

	fmt.Fprintf(deps.Stdout, "variant:    %s\n", variant)
	fmt.Fprintf(deps.Stdout, "strategies: %s\n", strings.Join(ids, ", "))
	if fetched.FromCache {
		fmt.Fprintln(deps.Stdout, "source:     snapshot")
	}
	return nil
}
