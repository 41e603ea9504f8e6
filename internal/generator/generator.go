// Package generator is the file boundary around schema inference: it reads
// documents, decodes them, runs inference, and writes the rendered skeleton
// next to the input as "<name>.schema.json".
package generator

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jsonskel/jsonskel/internal/config"
	"github.com/jsonskel/jsonskel/internal/logging"
	"github.com/jsonskel/jsonskel/internal/query"
	"github.com/jsonskel/jsonskel/pkg/jsonvalue"
	"github.com/jsonskel/jsonskel/pkg/skeleton"
)

// Options controls a generation run.
type Options struct {
	Format     string // "json", "yaml", or "" to pick by file extension
	Repair     bool   // repair malformed JSON before giving up
	Select     string // jq expression applied to the document before inference
	Stats      bool   // also compute field statistics
	Compact    bool   // compact rendering instead of indented
	NoWrite    bool   // skip writing; caller consumes Result.Rendered
	OutputPath string // explicit output path ("" = derive from input)

	// ScalarConflicts names the merge policy for non-sequence key
	// conflicts: "last" (default) or "mixed".
	ScalarConflicts string
}

// Result is the outcome of generating one schema file.
type Result struct {
	InputPath  string               `json:"input_path"`
	OutputPath string               `json:"output_path,omitempty"`
	Rendered   []byte               `json:"-"`
	Stats      []skeleton.FieldStat `json:"stats,omitempty"`
	CacheHit   bool                 `json:"cache_hit"`
}

// Summary aggregates a batch run.
type Summary struct {
	Generated int
	Failed    int
	CacheHits int
	Errors    []string
}

// Format renders the summary for terminal output with localized counts.
func (s *Summary) Format() string {
	p := message.NewPrinter(language.English)
	out := p.Sprintf("generated %d schema file(s), %d failed, %d served from cache", s.Generated, s.Failed, s.CacheHits)
	for _, e := range s.Errors {
		out += "\n  " + e
	}
	return out
}

// Generator turns input documents into schema skeleton files. Safe for
// concurrent use.
type Generator struct {
	cfg   *config.Config
	cache *lru.Cache[string, []byte]
	query *query.Engine
	log   *slog.Logger
}

// New creates a Generator.
func New(cfg *config.Config) (*Generator, error) {
	cache, err := lru.New[string, []byte](cfg.ResultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating result cache: %w", err)
	}
	return &Generator{
		cfg:   cfg,
		cache: cache,
		query: query.NewEngine(),
		log:   logging.Component("generator"),
	}, nil
}

// Generate reads one file, infers its schema, and writes the rendered
// skeleton. Inference itself never fails; every error here is an I/O,
// decode, or selection failure.
func (g *Generator) Generate(ctx context.Context, path string, opts *Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &Options{}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return g.GenerateBytes(ctx, path, data, opts)
}

// GenerateBytes is Generate for already-read input. The name is used for
// output path derivation, format detection, and log messages.
func (g *Generator) GenerateBytes(ctx context.Context, name string, data []byte, opts *Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &Options{}
	}

	result := &Result{InputPath: name}

	// Identical content with identical options renders identically, so a
	// digest lookup can skip the whole pipeline. Field statistics need the
	// decoded value, so they bypass the cache.
	key := digest(name, data, opts)
	if !opts.Stats {
		if cached, ok := g.cache.Get(key); ok {
			result.Rendered = cached
			result.CacheHit = true
			return g.finish(result, opts)
		}
	}

	doc, err := g.decode(name, data, opts)
	if err != nil {
		return nil, err
	}

	if opts.Select != "" {
		doc, err = g.query.First(doc, opts.Select)
		if err != nil {
			return nil, fmt.Errorf("selecting from %s: %w", name, err)
		}
	}

	policy, err := parseConflicts(opts.ScalarConflicts, g.cfg.ScalarConflicts)
	if err != nil {
		return nil, err
	}
	schema := skeleton.New(skeleton.WithConflictPolicy(policy)).Infer(doc)

	rendered, err := render(schema, opts.Compact)
	if err != nil {
		return nil, fmt.Errorf("rendering schema for %s: %w", name, err)
	}
	result.Rendered = rendered
	g.cache.Add(key, rendered)

	if opts.Stats {
		result.Stats = skeleton.ProfileDocument(doc)
	}

	return g.finish(result, opts)
}

// GenerateAll processes many files concurrently and aggregates the outcome.
// Individual file failures are collected, not fatal; the error return is
// reserved for cancellation.
func (g *Generator) GenerateAll(ctx context.Context, paths []string, opts *Options) (*Summary, error) {
	summary := &Summary{}
	var mu sync.Mutex

	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(g.cfg.Workers)

	for _, path := range paths {
		grp.Go(func() error {
			res, err := g.Generate(ctx, path, opts)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				summary.Failed++
				summary.Errors = append(summary.Errors, err.Error())
				g.log.Warn("generation failed", "input", path, "error", err)
				return nil
			}
			summary.Generated++
			if res.CacheHit {
				summary.CacheHits++
			}
			g.log.Info("schema generated", "input", path, "output", res.OutputPath, "cache_hit", res.CacheHit)
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return summary, err
	}
	return summary, nil
}

func (g *Generator) decode(name string, data []byte, opts *Options) (jsonvalue.Value, error) {
	decodeOpts := &jsonvalue.Options{
		Repair:   opts.Repair,
		MaxDepth: g.cfg.MaxDepth,
	}

	format := opts.Format
	if format == "" {
		switch strings.ToLower(filepath.Ext(name)) {
		case ".yaml", ".yml":
			format = "yaml"
		default:
			format = "json"
		}
	}

	switch format {
	case "yaml":
		doc, err := jsonvalue.DecodeYAML(data, decodeOpts)
		if err != nil {
			return jsonvalue.Value{}, fmt.Errorf("decoding %s: %w", name, err)
		}
		return doc, nil
	case "json":
		doc, err := jsonvalue.Decode(data, decodeOpts)
		if err != nil {
			return jsonvalue.Value{}, fmt.Errorf("decoding %s: %w", name, err)
		}
		return doc, nil
	default:
		return jsonvalue.Value{}, fmt.Errorf("unknown input format %q", format)
	}
}

func (g *Generator) finish(result *Result, opts *Options) (*Result, error) {
	if opts.NoWrite {
		return result, nil
	}

	out := opts.OutputPath
	if out == "" {
		out = DeriveOutputPath(result.InputPath)
	}
	result.OutputPath = out

	if err := os.WriteFile(out, append(result.Rendered, '\n'), 0644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", out, err)
	}
	return result, nil
}

// DeriveOutputPath maps an input path to its schema file: "data.json"
// becomes "data.schema.json", "config.yaml" becomes "config.schema.json".
func DeriveOutputPath(input string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	if base == "" {
		base = input
	}
	return base + ".schema.json"
}

func render(s skeleton.Schema, compact bool) ([]byte, error) {
	if compact {
		return s.Render()
	}
	return s.RenderIndent()
}

func parseConflicts(opt, fallback string) (skeleton.ConflictPolicy, error) {
	name := opt
	if name == "" {
		name = fallback
	}
	switch name {
	case "", "last":
		return skeleton.ConflictLastWriteWins, nil
	case "mixed":
		return skeleton.ConflictMarkMixed, nil
	default:
		return 0, fmt.Errorf("unknown scalar conflict policy %q (want \"last\" or \"mixed\")", name)
	}
}

func digest(name string, data []byte, opts *Options) string {
	h := sha256.New()
	h.Write(data)
	fmt.Fprintf(h, "|%s|%s|%v|%v|%s|%s",
		opts.Format, opts.Select, opts.Repair, opts.Compact, opts.ScalarConflicts, formatExt(name))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// formatExt keeps extension-driven format detection out of false cache hits
// when the same bytes arrive under .json and .yaml names.
func formatExt(name string) string {
	return strings.ToLower(filepath.Ext(name))
}
