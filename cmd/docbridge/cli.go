package main

import (
	"context"
	"io"

	"github.com/fwojciec/docbridge"
	"github.com/fwojciec/docbridge/ingest"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Catalog  []*docbridge.Source
	Store    docbridge.Store
	Loader   *ingest.Loader
	Verifier *ingest.Verifier
	Indexer  *ingest.Indexer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Load    LoadCmd    `cmd:"" help:"Load every catalog source into the collection"`
	Verify  VerifyCmd  `cmd:"" help:"Check that each catalog source is queryable"`
	Index   IndexCmd   `cmd:"" help:"Write the documentation index"`
	All     AllCmd     `cmd:"" help:"Load, verify and index in one run"`
	Ingest  IngestCmd  `cmd:"" help:"Load a single source"`
	Sources SourcesCmd `cmd:"" help:"List catalog sources"`
}

// LoadCmd is the "load" subcommand.
type LoadCmd struct {
	Priority bool `short:"p" help:"Only load priority 1 sources"`
}

// VerifyCmd is the "verify" subcommand.
type VerifyCmd struct{}

// IndexCmd is the "index" subcommand.
type IndexCmd struct{}

// AllCmd is the "all" subcommand.
type AllCmd struct {
	Priority bool `short:"p" help:"Only load priority 1 sources"`
}

// IngestCmd is the "ingest" subcommand.
type IngestCmd struct {
	Name        string `arg:"" help:"Source name"`
	Origin      string `arg:"" help:"Documentation URL or local file path"`
	Priority    int    `default:"1" help:"Source priority"`
	Description string `short:"d" help:"Source description"`
}

// SourcesCmd is the "sources" subcommand.
type SourcesCmd struct{}
