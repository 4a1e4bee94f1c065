package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/gemdocs"
	"github.com/fwojciec/gemdocs/ingest"
	"github.com/fwojciec/gemdocs/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	DB     *sqlite.DB
	Pages  gemdocs.PageService

	// Pipeline builds the ingester for serve and ingest. The returned
	// function releases its resources.
	Pipeline func(flags PipelineFlags) (*ingest.Ingester, func() error, error)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config    kong.ConfigFlag `help:"YAML file with flag defaults"`
	DB        string          `name:"db" env:"GEMINI_DOCS_DB_PATH" help:"Path of the corpus database (default ~/.mcp/gemini-api-docs/database.db)"`
	LogLevel  string          `default:"info" enum:"debug,info,warn,error" env:"GEMDOCS_LOG_LEVEL" help:"Log level (debug, info, warn, error)"`
	LogFormat string          `default:"text" enum:"text,json" env:"GEMDOCS_LOG_FORMAT" help:"Log format (text, json)"`

	Serve  ServeCmd  `cmd:"" help:"Serve the documentation tools over MCP"`
	Ingest IngestCmd `cmd:"" help:"Ingest the documentation once and print a summary"`
	Search SearchCmd `cmd:"" help:"Search the indexed documentation"`
	Export ExportCmd `cmd:"" help:"Write the corpus to a directory of markdown files"`
}

// PipelineFlags configure the ingestion pipeline.
type PipelineFlags struct {
	ManifestURL string        `name:"manifest-url" env:"GEMDOCS_MANIFEST_URL" default:"https://ai.google.dev/gemini-api/docs/llms.txt" help:"Manifest listing the pages to ingest"`
	Fetcher     string        `default:"http" enum:"http,browser" help:"Page fetcher (http, browser)"`
	Extractor   string        `default:"goquery" enum:"goquery,trafilatura,readability" help:"HTML content extractor (goquery, trafilatura, readability)"`
	Converter   string        `default:"text" enum:"text,markdown" help:"HTML to text conversion (text, markdown)"`
	Concurrency int           `short:"c" default:"20" help:"Concurrent fetch limit"`
	Timeout     time.Duration `short:"t" default:"30s" help:"Fetch timeout per attempt"`
	RateLimit   float64       `default:"10" help:"Requests per second per host"`
	Prune       bool          `help:"Remove stored pages no longer listed in the manifest"`
	CountTokens bool          `name:"count-tokens" help:"Count tokens with the Gemini tokenizer"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	PipelineFlags `embed:""`

	HTTP      string `name:"http" placeholder:"ADDR" help:"Serve the HTTP control surface and /mcp on this address instead of stdio"`
	NoRefresh bool   `name:"no-refresh" help:"Skip the refresh at startup"`
}

// IngestCmd is the "ingest" subcommand.
type IngestCmd struct {
	PipelineFlags `embed:""`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Queries []string `arg:"" help:"Keyword queries (up to 3)"`
	Limit   int      `short:"n" default:"3" help:"Results per query"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Dir string `arg:"" help:"Output directory (replaced atomically)"`
}
