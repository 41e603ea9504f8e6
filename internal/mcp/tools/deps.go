// Package tools implements the MCP tool handlers for schema inference.
package tools

import (
	"fmt"

	"github.com/jsonskel/jsonskel/internal/config"
	"github.com/jsonskel/jsonskel/internal/query"
	"github.com/jsonskel/jsonskel/pkg/jsonvalue"
)

// Deps contains the dependencies shared by all tool handlers.
type Deps struct {
	Config *config.Config
	Query  *query.Engine
}

// docOptions are the decoding knobs common to all tools.
type docOptions struct {
	Format string // "json" (default) or "yaml"
	Repair bool
	Select string // optional jq expression applied per document
}

// parseDocuments validates and decodes tool input documents, applying the
// configured count and size limits and the optional per-document selection.
func (d *Deps) parseDocuments(documents []string, opts docOptions) ([]jsonvalue.Value, error) {
	if len(documents) == 0 {
		return nil, ErrInvalidInput("at least one document is required")
	}
	if len(documents) > d.Config.ToolMaxDocuments {
		return nil, ErrLimitExceeded(fmt.Sprintf("too many documents: %d (max %d)", len(documents), d.Config.ToolMaxDocuments))
	}

	format := opts.Format
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "yaml" {
		return nil, ErrInvalidInput(fmt.Sprintf("format must be \"json\" or \"yaml\", got %q", format))
	}

	if opts.Select != "" {
		if err := d.Query.ValidateExpression(opts.Select); err != nil {
			return nil, ErrQuery(err)
		}
	}

	decodeOpts := &jsonvalue.Options{
		Repair:   opts.Repair,
		MaxDepth: d.Config.MaxDepth,
	}

	docs := make([]jsonvalue.Value, 0, len(documents))
	for i, raw := range documents {
		if len(raw) > d.Config.ToolMaxBytes {
			return nil, ErrLimitExceeded(fmt.Sprintf("document %d is %d bytes (max %d)", i, len(raw), d.Config.ToolMaxBytes))
		}

		var (
			doc jsonvalue.Value
			err error
		)
		if format == "yaml" {
			doc, err = jsonvalue.DecodeYAML([]byte(raw), decodeOpts)
		} else {
			doc, err = jsonvalue.Decode([]byte(raw), decodeOpts)
		}
		if err != nil {
			return nil, ErrParse(fmt.Sprintf("document %d", i), err)
		}

		if opts.Select != "" {
			doc, err = d.Query.First(doc, opts.Select)
			if err != nil {
				return nil, ErrQuery(err)
			}
		}

		docs = append(docs, doc)
	}

	return docs, nil
}
