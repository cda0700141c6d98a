package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/docrag"
	"github.com/fwojciec/docrag/crawl"
	docprom "github.com/fwojciec/docrag/prometheus"
	"github.com/fwojciec/docrag/rag"
)

// Service is the part of rag.Service the commands use.
type Service interface {
	Index(ctx context.Context, seeds []string) (*rag.IndexSummary, error)
	LoadIndex(ctx context.Context) error
	Loaded() bool
	Documents(ctx context.Context) ([]*docrag.Document, error)
	docrag.Asker
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Config  *docrag.Config
	Logger  *slog.Logger
	Metrics *docprom.Metrics
	Service Service
	Crawler *crawl.Crawler
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config   string `short:"c" default:"config.yaml" help:"Configuration file"`
	LogLevel string `name:"log-level" help:"Override log.level (debug, info, warn, error)"`

	Index       IndexCmd  `cmd:"" help:"Crawl documentation and build the index"`
	Ask         AskCmd    `cmd:"" help:"Ask a question about the indexed documentation"`
	Docs        DocsCmd   `cmd:"" help:"List the pages in the index"`
	Serve       ServeCmd  `cmd:"" help:"Serve the question API over HTTP"`
	PrintConfig ConfigCmd `cmd:"" name:"config" help:"Print the effective configuration"`
}

// IndexCmd is the "index" subcommand.
type IndexCmd struct {
	URLs       []string `arg:"" optional:"" name:"url" help:"Seed URLs (default: urls from the configuration)"`
	NoProgress bool     `name:"no-progress" help:"Print one line per page instead of a progress bar"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question []string `arg:"" help:"Question to ask about the documentation"`
}

// DocsCmd is the "docs" subcommand.
type DocsCmd struct{}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr    string   `default:":8001" help:"Listen address"`
	Origins []string `name:"origin" help:"Allowed CORS origin (repeatable, default: local dev servers)"`
}

// ConfigCmd is the "config" subcommand.
type ConfigCmd struct{}
