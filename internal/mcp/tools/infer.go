package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jsonskel/jsonskel/pkg/jsonvalue"
	"github.com/jsonskel/jsonskel/pkg/skeleton"
)

// InferInput is the input for jsonskel_infer.
type InferInput struct {
	Documents       []string `json:"documents" jsonschema:"Documents to analyze, one string per document. Multiple documents are unified as if they were siblings in one array."`
	Format          string   `json:"format,omitempty" jsonschema:"Input format: json (default) or yaml"`
	Repair          bool     `json:"repair,omitempty" jsonschema:"Repair malformed JSON (trailing commas, single quotes) before giving up"`
	Select          string   `json:"select,omitempty" jsonschema:"jq expression applied to each document before inference, e.g. .data.items"`
	ScalarConflicts string   `json:"scalar_conflicts,omitempty" jsonschema:"Policy for conflicting non-sequence key shapes across siblings: last (default, keep the last observed) or mixed (mark the key as mixed)"`
}

// InferOutput is the output of jsonskel_infer.
type InferOutput struct {
	Schema    any    `json:"schema"`
	Rendered  string `json:"rendered"`
	Documents int    `json:"documents"`
	Hint      string `json:"hint,omitempty"`
}

// ToolInfer infers a schema skeleton from one or more documents. Multiple
// documents are wrapped into a synthetic array so their shapes unify exactly
// like sibling array elements.
func ToolInfer(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input InferInput) (*sdkmcp.CallToolResult, InferOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input InferInput) (*sdkmcp.CallToolResult, InferOutput, error) {
		docs, err := d.parseDocuments(input.Documents, docOptions{
			Format: input.Format,
			Repair: input.Repair,
			Select: input.Select,
		})
		if err != nil {
			return nil, InferOutput{}, err
		}

		policy, err := conflictPolicy(input.ScalarConflicts, d.Config.ScalarConflicts)
		if err != nil {
			return nil, InferOutput{}, err
		}
		inferrer := skeleton.New(skeleton.WithConflictPolicy(policy))

		var schema skeleton.Schema
		if len(docs) == 1 {
			schema = inferrer.Infer(docs[0])
		} else {
			schema = inferrer.Infer(jsonvalue.ArrayOf(docs...))
		}

		rendered, err := schema.Render()
		if err != nil {
			return nil, InferOutput{}, fmt.Errorf("rendering schema: %w", err)
		}

		output := InferOutput{
			Schema:    schema.Interface(),
			Rendered:  string(rendered),
			Documents: len(docs),
			Hint:      "Use jsonskel_query(documents=..., expression=...) to extract specific field values based on this schema, or jsonskel_profile for per-field statistics.",
		}
		return nil, output, nil
	}
}

func conflictPolicy(opt, fallback string) (skeleton.ConflictPolicy, error) {
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
		return 0, ErrInvalidInput(fmt.Sprintf("scalar_conflicts must be \"last\" or \"mixed\", got %q", name))
	}
}
