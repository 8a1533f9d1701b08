package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docbridge"
	"github.com/fwojciec/docbridge/chroma"
	"github.com/fwojciec/docbridge/fs"
	"github.com/fwojciec/docbridge/gemini"
	"github.com/fwojciec/docbridge/goquery"
	"github.com/fwojciec/docbridge/htmltomarkdown"
	dbhttp "github.com/fwojciec/docbridge/http"
	"github.com/fwojciec/docbridge/ingest"
	"github.com/fwojciec/docbridge/readability"
	dbslog "github.com/fwojciec/docbridge/slog"
	"github.com/fwojciec/docbridge/sqlite"
	"github.com/fwojciec/docbridge/toml"
	"github.com/fwojciec/docbridge/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		m.Close()
		os.Exit(1)
	}
	m.Close()
}

// Main represents the program.
type Main struct {
	// Config is loaded from the environment on Run when nil.
	Config *Config

	// EnvFile is an optional dotenv file read before the environment.
	EnvFile string

	// SQLite database, when that backend is selected.
	DB *sqlite.DB

	// Chroma store, when that backend is selected.
	Chroma *chroma.Store
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{EnvFile: ".env"}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.Chroma != nil {
		err := m.Chroma.Close()
		m.Chroma = nil
		return err
	}
	if m.DB != nil {
		err := m.DB.Close()
		m.DB = nil
		return err
	}
	return nil
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
		kong.Name("docbridge"),
		kong.Description("Load documentation sources into a queryable collection."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docbridge --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	if m.Config == nil {
		if m.Config, err = LoadConfig(m.EnvFile, nil); err != nil {
			fmt.Fprintf(stderr, "error: %s\n", docbridge.ErrorMessage(err))
			return err
		}
	}
	cfg := m.Config

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if deps.Catalog, err = cfg.Sources(toml.LoadCatalog); err != nil {
		fmt.Fprintf(stderr, "error: %s\n", docbridge.ErrorMessage(err))
		return err
	}

	if cmd == "sources" {
		return kongCtx.Run(deps)
	}

	var genaiClient *genai.Client
	if cfg.GeminiAPIKey != "" {
		genaiClient, err = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
	}

	store, err := m.openStore(cfg, genaiClient)
	if err != nil {
		return err
	}
	store = dbslog.NewLoggingStore(store, logger)

	pipeline := &ingest.Pipeline{
		Store:      store,
		Adapters:   adapters(cfg, logger),
		Collection: cfg.Collection,
	}
	if cfg.CountTokens {
		tc, err := gemini.NewTokenCounter(gemini.DefaultTokenizerModel)
		if err != nil {
			return fmt.Errorf("failed to create token counter: %w", err)
		}
		pipeline.TokenCounter = tc
	}

	artifacts := fs.NewArtifactWriter(cfg.DataDir)

	deps.Store = store
	deps.Loader = &ingest.Loader{
		Pipeline:    pipeline,
		Reports:     artifacts,
		Concurrency: cfg.Concurrency,
		OnState: func(src *docbridge.Source, state ingest.State) {
			logger.Debug("state", "source", src.Name, "state", string(state))
		},
		OnRetry: func(src *docbridge.Source, attempt int, err error) {
			logger.Warn("retrying source", "source", src.Name, "attempt", attempt, "err", err)
		},
	}
	deps.Verifier = &ingest.Verifier{Store: store, Collection: cfg.Collection}
	deps.Indexer = &ingest.Indexer{Store: store, Collection: cfg.Collection, Writer: artifacts}

	return kongCtx.Run(deps)
}

// openStore connects the configured backend. Chroma records are embedded
// with Gemini when a client is available, otherwise by Chroma's default
// embedding function.
func (m *Main) openStore(cfg *Config, client *genai.Client) (docbridge.Store, error) {
	switch cfg.Store {
	case StoreSQLite:
		m.DB = sqlite.NewDB(cfg.DBPath)
		if err := m.DB.Open(); err != nil {
			m.DB = nil
			return nil, fmt.Errorf("failed to open database at %q: %w", cfg.DBPath, err)
		}
		return sqlite.NewStore(m.DB), nil
	default:
		var opts []chroma.Option
		if client != nil {
			opts = append(opts, chroma.WithEmbedder(gemini.NewEmbedder(client)))
		}
		store, err := chroma.NewStore(chroma.BaseURL(cfg.ChromaHost, cfg.ChromaPort), opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to chroma: %w", err)
		}
		m.Chroma = store
		return store, nil
	}
}

// adapters builds the remote and local source adapters.
func adapters(cfg *Config, logger *slog.Logger) map[docbridge.SourceKind]docbridge.SourceAdapter {
	remote := dbhttp.NewExtractor(cfg.APIKey,
		dbhttp.WithEndpoint(cfg.ExtractURL),
		dbhttp.WithLimiter(dbhttp.NewDomainLimiter(dbhttp.DefaultRequestsPerSecond)),
	)

	var opts []fs.AdapterOption
	if cfg.Convert {
		var ext docbridge.Extractor = trafilatura.NewExtractor()
		if cfg.Extractor == ExtractorReadability {
			ext = readability.NewExtractor(nil)
		}
		seg := goquery.NewSegmenter(htmltomarkdown.NewConverter())
		opts = append(opts, fs.WithConverter(fs.NewConverter(ext, seg)))
	}
	local := fs.NewAdapter(opts...)

	return map[docbridge.SourceKind]docbridge.SourceAdapter{
		docbridge.SourceRemote: dbslog.NewLoggingAdapter(remote, logger),
		docbridge.SourceLocal:  dbslog.NewLoggingAdapter(local, logger),
	}
}
