package main

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/fwojciec/docbridge"
	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreChroma = "chroma"
	StoreSQLite = "sqlite"
)

// Main-content extractors for HTML conversion.
const (
	ExtractorTrafilatura = "trafilatura"
	ExtractorReadability = "readability"
)

// Config is read from the environment, optionally seeded from a .env file.
type Config struct {
	Store        string `env:"DOCBRIDGE_STORE" envDefault:"chroma"`
	ChromaHost   string `env:"CHROMA_HOST" envDefault:"localhost"`
	ChromaPort   int    `env:"CHROMA_PORT" envDefault:"8000"`
	DBPath       string `env:"DOCBRIDGE_DB" envDefault:"docbridge.db"`
	APIKey       string `env:"CONTEXT7_API_KEY"`
	ExtractURL   string `env:"DOCBRIDGE_EXTRACT_URL" envDefault:"https://api.context7.ai/v1/extract"`
	Convert      bool   `env:"DOCBRIDGE_CONVERT" envDefault:"true"`
	Extractor    string `env:"DOCBRIDGE_EXTRACTOR" envDefault:"trafilatura"`
	Collection   string `env:"DOCBRIDGE_COLLECTION" envDefault:"documentation_library"`
	DataDir      string `env:"DOCBRIDGE_DATA_DIR" envDefault:"data"`
	Concurrency  int    `env:"DOCBRIDGE_CONCURRENCY" envDefault:"4"`
	Catalog      string `env:"DOCBRIDGE_CATALOG"`
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	CountTokens  bool   `env:"DOCBRIDGE_COUNT_TOKENS" envDefault:"false"`
	LogLevel     string `env:"DOCBRIDGE_LOG_LEVEL" envDefault:"info"`
}

// LoadConfig reads configuration. Variables in envFile, when it exists, are
// applied without overriding ones already set. A nil environ reads the
// process environment; tests pass an explicit map.
func LoadConfig(envFile string, environ map[string]string) (*Config, error) {
	if envFile != "" {
		if environ == nil {
			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, iofs.ErrNotExist) {
				return nil, fmt.Errorf("load %s: %w", envFile, err)
			}
		} else if err := mergeEnvFile(envFile, environ); err != nil {
			return nil, err
		}
	}

	var cfg Config
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.Parse(&cfg, opts); err != nil {
		return nil, docbridge.WrapError(docbridge.EINVALID, err, "parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeEnvFile copies variables from envFile into environ unless already set.
func mergeEnvFile(envFile string, environ map[string]string) error {
	vars, err := godotenv.Read(envFile)
	if errors.Is(err, iofs.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("load %s: %w", envFile, err)
	}
	for k, v := range vars {
		if _, ok := environ[k]; !ok {
			environ[k] = v
		}
	}
	return nil
}

// Validate returns an error if the configuration cannot be used.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreChroma, StoreSQLite:
	default:
		return docbridge.Errorf(docbridge.EINVALID, "DOCBRIDGE_STORE must be %q or %q, got %q", StoreChroma, StoreSQLite, c.Store)
	}
	switch c.Extractor {
	case ExtractorTrafilatura, ExtractorReadability:
	default:
		return docbridge.Errorf(docbridge.EINVALID, "DOCBRIDGE_EXTRACTOR must be %q or %q, got %q", ExtractorTrafilatura, ExtractorReadability, c.Extractor)
	}
	if c.Collection == "" {
		return docbridge.Errorf(docbridge.EINVALID, "DOCBRIDGE_COLLECTION must not be empty")
	}
	if c.Concurrency < 1 {
		return docbridge.Errorf(docbridge.EINVALID, "DOCBRIDGE_CONCURRENCY must be at least 1")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, docbridge.Errorf(docbridge.EINVALID, "invalid DOCBRIDGE_LOG_LEVEL %q", c.LogLevel)
	}
	return level, nil
}

// Sources returns the catalog file's sources, or the built-in catalog when
// no file is configured.
func (c *Config) Sources(load func(path string) ([]*docbridge.Source, error)) ([]*docbridge.Source, error) {
	if c.Catalog == "" {
		return docbridge.DefaultCatalog(), nil
	}
	return load(c.Catalog)
}
