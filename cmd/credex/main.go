package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/credex"
	"github.com/fwojciec/credex/cascade"
	"github.com/fwojciec/credex/crawl"
	"github.com/fwojciec/credex/fs"
	"github.com/fwojciec/credex/gemini"
	"github.com/fwojciec/credex/goquery"
	"github.com/fwojciec/credex/htmltomarkdown"
	"github.com/fwojciec/credex/readability"
	credexhttp "github.com/fwojciec/credex/http"
	"github.com/fwojciec/credex/rod"
	credexslog "github.com/fwojciec/credex/slog"
	"github.com/fwojciec/credex/sqlite"
	"github.com/fwojciec/credex/trafilatura"
	"github.com/fwojciec/credex/yaml"
	"github.com/joho/godotenv"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	// A missing .env file is fine; real environment variables win.
	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Paths and credentials. Set before calling Run().
	DBPath      string
	SnapshotDir string
	MappingPath string
	APIKey      string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults read from the
// environment.
func NewMain() *Main {
	return &Main{
		DBPath:      envOr("CREDEX_DB", filepath.Join(dataDir(), "credex.db")),
		SnapshotDir: envOr("CREDEX_SNAPSHOTS", filepath.Join(dataDir(), "snapshots")),
		MappingPath: envOr("CREDEX_MAPPING", filepath.Join(dataDir(), "mapping.yaml")),
		APIKey:      os.Getenv("GEMINI_API_KEY"),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var firstErr error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	if m.DB != nil {
		if err := m.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		m.DB = nil
	}
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("credex"),
		kong.Description("Extract project credits from creative-industry websites."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'credex --help' to see available commands")
	}

	if first := args[0]; first == "help" || first == "--help" || first == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	if err := os.MkdirAll(filepath.Dir(m.DBPath), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set CREDEX_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	deps.Records = sqlite.NewRecordStore(m.DB)
	deps.Knowledge = sqlite.NewKnowledgeBase(m.DB)

	if cmd == "list" || cmd == "show" {
		return kongCtx.Run(deps)
	}

	mapping, err := yaml.LoadMapping(m.MappingPath)
	if err != nil {
		fmt.Fprintf(stderr, "Hint: Set CREDEX_MAPPING to use a different mapping file\n")
		return fmt.Errorf("failed to load mapping: %w", err)
	}

	var httpFetcher credex.Fetcher = credexhttp.NewFetcher()
	httpFetcher = credexslog.NewLoggingFetcher(httpFetcher, logger)
	snapshots := crawl.NewSnapshotFetcher(httpFetcher,
		crawl.WithCache(fs.NewSnapshotStore(m.SnapshotDir)),
		crawl.WithLimiter(crawl.NewDomainLimiter(crawl.DefaultRequestsPerSecond)),
		crawl.WithFetchLogger(logger),
	)
	deps.Fetcher = credexslog.NewLoggingHTMLFetcher(snapshots, logger)
	deps.Detector = credexslog.NewLoggingDetector(goquery.NewDetector(), logger)
	deps.Registry = credexslog.NewLoggingRegistry(goquery.NewDefaultRegistry(mapping), logger)
	deps.Scanner = goquery.NewScanner()
	deps.Sitemaps = credexslog.NewLoggingSitemapService(credexhttp.NewSitemapService(nil), logger)

	var flags *PipelineFlags
	switch cmd {
	case "extract":
		flags = &cli.Extract.PipelineFlags
	case "mission":
		flags = &cli.Mission.PipelineFlags
	}
	if flags != nil {
		pipeline, err := m.buildPipeline(ctx, deps, mapping, *flags, stderr)
		if err != nil {
			return err
		}
		deps.Pipeline = pipeline
	}

	return kongCtx.Run(deps)
}

// buildPipeline wires the extraction pipeline. The oracle and renderer are
// best-effort: when they cannot be set up the pipeline runs without them.
func (m *Main) buildPipeline(ctx context.Context, deps *Dependencies, mapping *credex.Mapping, flags PipelineFlags, stderr io.Writer) (*cascade.Pipeline, error) {
	config := credex.DefaultPipelineConfig()
	config.AIEnabled = !flags.NoAI
	config.RenderEnabled = !flags.NoRender
	config.ForceRefresh = flags.Force
	if flags.Model != "" {
		config.Model = flags.Model
	}
	if flags.RenderFirst {
		config.EscalationOrder = []credex.Escalation{credex.EscalationRender, credex.EscalationOracle}
	}

	opts := []cascade.Option{
		cascade.WithFetcher(deps.Fetcher),
		cascade.WithLogger(deps.Logger),
	}

	if config.AIEnabled {
		if m.APIKey == "" {
			fmt.Fprintln(stderr, "Hint: Set GEMINI_API_KEY to enable selector suggestions. Get a key at https://aistudio.google.com/apikey")
			config.AIEnabled = false
		} else {
			client, err := genai.NewClient(ctx, &genai.ClientConfig{
				APIKey:  m.APIKey,
				Backend: genai.BackendGeminiAPI,
			})
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
				return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
			}
			oracle := gemini.NewOracle(client, config.Model)
			roles := gemini.NewRoleResolver(client, config.Model, mapping,
				gemini.WithConverter(htmltomarkdown.NewConverter()))
			opts = append(opts,
				cascade.WithOracle(credexslog.NewLoggingOracle(oracle, deps.Logger)),
				cascade.WithRoleResolver(credexslog.NewLoggingRoleResolver(roles, deps.Logger)),
			)
		}
	}

	if config.RenderEnabled {
		renderer, err := rod.NewRenderer()
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for rendering; use --no-render to skip it")
			deps.Logger.Warn("renderer unavailable", "err", err)
			config.RenderEnabled = false
		} else {
			m.closers = append(m.closers, renderer)
			opts = append(opts, cascade.WithRenderer(credexslog.NewLoggingRenderer(renderer, deps.Logger)))
		}
	}

	metadata := goquery.NewMetadataExtractor(
		goquery.WithFallback(trafilatura.NewMetadataExtractor()),
		goquery.WithFallback(readability.NewMetadataExtractor()),
	)
	return cascade.New(deps.Detector, deps.Registry, metadata, config, opts...), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".credex")
}
