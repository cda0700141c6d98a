package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docrag"
	"github.com/fwojciec/docrag/chromem"
	"github.com/fwojciec/docrag/crawl"
	docfs "github.com/fwojciec/docrag/fs"
	"github.com/fwojciec/docrag/gemini"
	"github.com/fwojciec/docrag/glob"
	"github.com/fwojciec/docrag/goquery"
	"github.com/fwojciec/docrag/htmltomarkdown"
	dochttp "github.com/fwojciec/docrag/http"
	dockoanf "github.com/fwojciec/docrag/koanf"
	"github.com/fwojciec/docrag/openai"
	docprom "github.com/fwojciec/docrag/prometheus"
	"github.com/fwojciec/docrag/rag"
	"github.com/fwojciec/docrag/rod"
	docslog "github.com/fwojciec/docrag/slog"
	"github.com/fwojciec/docrag/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Effective configuration, loaded by Run.
	Config *docrag.Config

	// Collectors shared by the instrumented services and /metrics.
	Metrics *docprom.Metrics

	// Service wired for the parsed command.
	Service *rag.Service

	// Crawler used by Service when indexing.
	Crawler *crawl.Crawler

	closers []func() error
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close releases everything Run acquired.
func (m *Main) Close() error {
	var first error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	m.closers = nil
	return first
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
		kong.Name("docrag"),
		kong.Description("Crawl documentation sites and answer questions about them."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docrag --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd = strings.Fields(kongCtx.Command())[0]

	cfg, err := dockoanf.Load(cli.Config)
	if err != nil {
		fmt.Fprintf(stderr, "Hint: check %s or the %s* environment variables\n", cli.Config, dockoanf.EnvPrefix)
		return err
	}
	if cli.LogLevel != "" {
		cfg.Log.Level = cli.LogLevel
	}
	if cmd == "index" && len(cli.Index.URLs) > 0 {
		cfg.URLs = cli.Index.URLs
	}
	m.Config = cfg
	deps.Config = cfg

	logger, err := newLogger(cfg.Log, stderr)
	if err != nil {
		return err
	}
	deps.Logger = logger

	m.Metrics = docprom.New(nil)
	deps.Metrics = m.Metrics

	switch cmd {
	case "index":
		if err := cfg.ValidateForIndex(); err != nil {
			return err
		}
		if err := m.wireService(ctx, cfg, logger, stderr, true); err != nil {
			return err
		}
		defer m.Close()
		deps.Crawler = m.Crawler
	case "ask", "serve":
		if err := m.wireService(ctx, cfg, logger, stderr, false); err != nil {
			return err
		}
		defer m.Close()
	case "docs":
		m.Service = &rag.Service{
			Store:  docfs.NewIndexStore(cfg.VectorStore.IndexPath, chromem.NewIndexer(nil, cfg.VectorStore.EmbedConcurrency), sqlite.NewCatalog()),
			Logger: logger,
		}
	}
	if m.Service != nil {
		deps.Service = m.Service
	}

	return kongCtx.Run(deps)
}

// wireService builds the rag.Service. The crawler and its fetcher are only
// started when crawling.
func (m *Main) wireService(ctx context.Context, cfg *docrag.Config, logger *slog.Logger, stderr io.Writer, crawling bool) error {
	embedder, model, err := newModels(ctx, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Hint: set %s for provider %q\n", apiKeyEnv(cfg.Provider), cfg.Provider)
		return err
	}
	embedder = docprom.NewEmbedder(docslog.NewLoggingEmbedder(embedder, logger), m.Metrics)
	model = docprom.NewLanguageModel(docslog.NewLoggingLanguageModel(model, logger), m.Metrics)

	answerer := &rag.Answerer{
		Embedder:         embedder,
		Model:            model,
		MaxContextTokens: cfg.Answer.MaxContextTokens,
		K:                cfg.VectorStore.SimilaritySearchK,
		PromptTemplate:   cfg.PromptTemplate,
	}
	if cfg.Answer.MaxContextTokens > 0 {
		tokens, err := gemini.NewTokenCounter(tokenizerModel)
		if err != nil {
			return fmt.Errorf("failed to create token counter: %w", err)
		}
		answerer.Tokens = tokens
	}

	indexer := chromem.NewIndexer(embedder, cfg.VectorStore.EmbedConcurrency)
	m.Service = &rag.Service{
		Splitter: cfg.Splitter(),
		Indexer:  indexer,
		Store:    docfs.NewIndexStore(cfg.VectorStore.IndexPath, indexer, sqlite.NewCatalog()),
		Answerer: answerer,
		Seeds:    cfg.URLs,
		Logger:   logger,
	}

	if !crawling {
		return nil
	}

	crawler, err := m.newCrawler(cfg, logger, stderr)
	if err != nil {
		return err
	}
	m.Crawler = crawler
	m.Service.Crawler = crawler
	return nil
}

func (m *Main) newCrawler(cfg *docrag.Config, logger *slog.Logger, stderr io.Writer) (*crawl.Crawler, error) {
	filter, err := glob.NewURLFilter(cfg.URLPatterns.Accepted, cfg.URLPatterns.Blacklisted)
	if err != nil {
		return nil, err
	}

	var fetcher docrag.Fetcher
	switch cfg.Crawler.Renderer {
	case docrag.RendererHTTP:
		fetcher = dochttp.NewFetcher(dochttp.WithTimeout(cfg.Crawler.FetchTimeout))
	default:
		f, err := rod.NewFetcher(nil,
			rod.WithBrowserBin(cfg.Crawler.BrowserBin),
			rod.WithRecycleAfter(cfg.Crawler.RecycleAfter),
			rod.WithLogger(logger),
		)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: install Chrome or Chromium, set crawler.browser_bin, or set crawler.renderer to http")
			return nil, err
		}
		fetcher = f
	}
	fetcher = docprom.NewFetcher(docslog.NewLoggingFetcher(fetcher, logger), m.Metrics)
	m.closers = append(m.closers, fetcher.Close)

	crawler := &crawl.Crawler{
		Fetcher:      fetcher,
		Extractor:    goquery.NewExtractor(htmltomarkdown.NewConverter()),
		Links:        goquery.NewLinkExtractor(),
		Filter:       filter,
		RateLimiter:  crawl.NewDomainLimiter(cfg.Crawler.Delay),
		Logger:       logger,
		MaxDepth:     cfg.Document.MaxDepth,
		MaxPages:     cfg.Crawler.MaxPages,
		FetchTimeout: cfg.Crawler.FetchTimeout,
	}
	if cfg.Crawler.UseSitemap {
		crawler.Sitemaps = docslog.NewLoggingSitemapService(dochttp.NewSitemapService(nil), logger)
	}
	return crawler, nil
}

// newModels returns the embedder and language model of the configured
// provider.
func newModels(ctx context.Context, cfg *docrag.Config) (docrag.Embedder, docrag.LanguageModel, error) {
	mc := cfg.Model()
	switch cfg.Provider {
	case docrag.ProviderGemini:
		client, err := gemini.NewClient(ctx, mc.APIKey, mc.BaseURL)
		if err != nil {
			return nil, nil, err
		}
		return gemini.NewEmbedder(client, mc.EmbeddingModel),
			gemini.NewLanguageModel(client, mc.ModelName, mc.Temperature), nil
	default:
		client, err := openai.NewClient(mc.APIKey, mc.BaseURL)
		if err != nil {
			return nil, nil, err
		}
		return openai.NewEmbedder(client, mc.EmbeddingModel),
			openai.NewLanguageModel(client, mc.ModelName, mc.Temperature), nil
	}
}

func apiKeyEnv(provider string) string {
	if provider == docrag.ProviderGemini {
		return "GEMINI_API_KEY"
	}
	return "OPENAI_API_KEY"
}

// tokenizerModel is used for context token budgets. The local tokenizer
// only knows Gemini vocabularies, so OpenAI budgets are approximate.
const tokenizerModel = "gemini-2.5-flash"

// newLogger builds the slog handler selected by cfg.
func newLogger(cfg docrag.LogConfig, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, docrag.Errorf(docrag.ECONFIG, "invalid log.level %q", cfg.Level)
	}
	opts := &slog.HandlerOptions{Level: level}
	switch cfg.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, docrag.Errorf(docrag.ECONFIG, "invalid log.format %q: must be one of text, json", cfg.Format)
	}
}
