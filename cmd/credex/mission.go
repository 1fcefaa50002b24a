package main

import (
	"fmt"

	"github.com/fwojciec/credex"
	"github.com/fwojciec/credex/crawl"
	"github.com/fwojciec/credex/fs"
)

// Run executes the mission command.
func (c *MissionCmd) Run(deps *Dependencies) error {
	m := &crawl.Mission{
		Fetcher:         deps.Fetcher,
		Scanner:         deps.Scanner,
		Extractor:       deps.Pipeline,
		Store:           deps.Records,
		Knowledge:       deps.Knowledge,
		Sitemaps:        deps.Sitemaps,
		Logger:          deps.logger(),
		Concurrency:     c.Concurrency,
		MaxListingPages: c.MaxPages,
		MaxProjects:     c.MaxProjects,
		ForceRefresh:    c.Force,
	}
	if c.Out != "" {
		newWriter := deps.NewWriter
		if newWriter == nil {
			newWriter = func(dir string) credex.RecordWriter { return fs.NewRecordWriter(dir) }
		}
		m.Writer = newWriter(c.Out)
	}

	result, err := m.Run(deps.Ctx, c.URLs)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: mission interrupted: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Scraped %d pages, %d failed\n", result.Scraped, result.Failed)
	for _, r := range result.Records {
		fmt.Fprintf(deps.Stdout, "  %s  %d companies  %d credits  %s\n",
			r.URL, len(r.Companies), r.CreditCount(), r.Meta.ExtractionMethod)
	}
	return nil
}
