// Command jsonskel infers structural schema skeletons from JSON or YAML
// documents and writes them next to their inputs as <name>.schema.json.
//
// Usage:
//
//	jsonskel [flags] file.json [file2.json ...]
//	cat doc.json | jsonskel -stdout -
//	jsonskel -serve
//
// Configuration is loaded from environment variables (see internal/config),
// with a .env file in the working directory applied automatically.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	json "github.com/goccy/go-json"
	_ "github.com/joho/godotenv/autoload"

	"github.com/jsonskel/jsonskel/internal/config"
	"github.com/jsonskel/jsonskel/internal/generator"
	"github.com/jsonskel/jsonskel/internal/logging"
	"github.com/jsonskel/jsonskel/internal/mcp"
	"github.com/jsonskel/jsonskel/internal/mcp/tools"
	"github.com/jsonskel/jsonskel/internal/query"
)

func main() {
	var (
		output    = flag.String("o", "", "output path (single input only; default: <input>.schema.json)")
		format    = flag.String("format", "", "input format: json or yaml (default: by file extension)")
		selectExp = flag.String("select", "", "jq expression applied to each document before inference")
		repair    = flag.Bool("repair", false, "repair malformed JSON before giving up")
		stats     = flag.Bool("stats", false, "print per-field statistics to stderr")
		compact   = flag.Bool("compact", false, "compact output instead of indented")
		conflicts = flag.String("scalar-conflicts", "", "conflicting key shape policy: last or mixed (default: last)")
		toStdout  = flag.Bool("stdout", false, "print schemas to stdout instead of writing files")
		serve     = flag.Bool("serve", false, "run as an MCP server on stdio")
	)
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()

	cleanup, err := logging.Setup(logging.Config{
		Level:      cfg.LogLevel,
		FilePath:   cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	if *serve {
		runServe(ctx, cfg)
		return
	}

	paths := flag.Args()
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: jsonskel [flags] file.json [file2.json ...] (or - for stdin)")
		flag.PrintDefaults()
		os.Exit(2)
	}
	if *output != "" && len(paths) > 1 {
		fmt.Fprintln(os.Stderr, "-o requires exactly one input file")
		os.Exit(2)
	}

	gen, err := generator.New(cfg)
	if err != nil {
		slog.Error("failed to create generator", "error", err)
		os.Exit(1)
	}

	opts := &generator.Options{
		Format:          *format,
		Repair:          *repair,
		Select:          *selectExp,
		Stats:           *stats,
		Compact:         *compact,
		NoWrite:         *toStdout,
		OutputPath:      *output,
		ScalarConflicts: *conflicts,
	}

	// Stdout mode prints schemas in input order, so it stays sequential.
	if len(paths) == 1 || *toStdout {
		failed := 0
		for _, path := range paths {
			if err := runSingle(ctx, gen, path, opts); err != nil {
				slog.Error("generation failed", "input", path, "error", err)
				fmt.Fprintln(os.Stderr, err)
				failed++
			}
		}
		if failed > 0 {
			os.Exit(1)
		}
		return
	}

	summary, err := gen.GenerateAll(ctx, paths, opts)
	if err != nil {
		slog.Error("batch generation aborted", "error", err)
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, summary.Format())
	if summary.Failed > 0 {
		os.Exit(1)
	}
}

func runSingle(ctx context.Context, gen *generator.Generator, path string, opts *generator.Options) error {
	var (
		res *generator.Result
		err error
	)
	if path == "-" {
		data, readErr := io.ReadAll(os.Stdin)
		if readErr != nil {
			return fmt.Errorf("reading stdin: %w", readErr)
		}
		stdinOpts := *opts
		stdinOpts.NoWrite = stdinOpts.OutputPath == ""
		res, err = gen.GenerateBytes(ctx, "stdin.json", data, &stdinOpts)
	} else {
		res, err = gen.Generate(ctx, path, opts)
	}
	if err != nil {
		return err
	}

	if res.OutputPath == "" {
		fmt.Println(string(res.Rendered))
	}
	if opts.Stats {
		return printStats(res)
	}
	return nil
}

func printStats(res *generator.Result) error {
	if len(res.Stats) == 0 {
		return nil
	}
	out, err := json.MarshalIndent(res.Stats, "", "    ")
	if err != nil {
		return fmt.Errorf("rendering statistics: %w", err)
	}
	fmt.Fprintln(os.Stderr, string(out))
	return nil
}

func runServe(ctx context.Context, cfg *config.Config) {
	deps := &tools.Deps{
		Config: cfg,
		Query:  query.NewEngine(),
	}

	server, err := mcp.NewServer(deps)
	if err != nil {
		slog.Error("failed to create MCP server", "error", err)
		os.Exit(1)
	}

	slog.Info("starting jsonskel MCP server on stdio")
	if err := server.Run(ctx); err != nil && err != context.Canceled {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
