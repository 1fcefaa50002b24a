package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/credex"
	"github.com/fwojciec/credex/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Records   credex.RecordStore
	Knowledge credex.KnowledgeBase
	Fetcher   credex.HTMLFetcher
	Detector  credex.StructureDetector
	Registry  credex.StrategyRegistry
	Scanner   credex.LinkScanner
	Sitemaps  credex.SitemapService
	Pipeline  crawl.PageExtractor

	// NewWriter opens a record file writer for a directory. Defaults to
	// fs.NewRecordWriter.
	NewWriter func(dir string) credex.RecordWriter
}

func (d *Dependencies) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.Logger
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Extract ExtractCmd `cmd:"" help:"Extract the credits record of a project page"`
	Detect  DetectCmd  `cmd:"" help:"Show the structure variant and strategy order of a page"`
	Analyze AnalyzeCmd `cmd:"" help:"Analyze the links of a listing page"`
	Mission MissionCmd `cmd:"" help:"Discover and extract project pages from listing pages"`
	List    ListCmd    `cmd:"" help:"List stored records"`
	Show    ShowCmd    `cmd:"" help:"Print a stored record"`
}

// PipelineFlags configure the extraction pipeline.
type PipelineFlags struct {
	Force       bool   `short:"f" help:"Bypass the snapshot cache"`
	NoAI        bool   `name:"no-ai" help:"Disable selector suggestions and role resolution"`
	NoRender    bool   `name:"no-render" help:"Disable headless rendering"`
	RenderFirst bool   `name:"render-first" help:"Try rendering before selector suggestions"`
	Model       string `help:"Gemini model for selector suggestions" placeholder:"MODEL"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URL  string `arg:"" help:"Project page URL"`
	Save bool   `short:"s" help:"Save the record and what was learned about the site"`

	PipelineFlags `embed:""`
}

// DetectCmd is the "detect" subcommand.
type DetectCmd struct {
	URL   string `arg:"" help:"Page URL"`
	Force bool   `short:"f" help:"Bypass the snapshot cache"`
}

// AnalyzeCmd is the "analyze" subcommand.
type AnalyzeCmd struct {
	URL   string `arg:"" help:"Listing page URL"`
	Force bool   `short:"f" help:"Bypass the snapshot cache"`
	Links bool   `short:"l" help:"Print every discovered link"`
}

// MissionCmd is the "mission" subcommand.
type MissionCmd struct {
	URLs        []string `arg:"" name:"url" help:"Listing or project page URLs"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent page limit"`
	MaxPages    int      `name:"max-pages" default:"5" help:"Listing pages to follow per start URL"`
	MaxProjects int      `name:"max-projects" help:"Stop after this many project pages (0 for no limit)"`
	Out         string   `short:"o" help:"Also write each record as JSON into this directory" type:"path"`

	PipelineFlags `embed:""`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	URL string `arg:"" help:"Project page URL"`
}
