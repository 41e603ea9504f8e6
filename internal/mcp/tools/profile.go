package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jsonskel/jsonskel/pkg/jsonvalue"
	"github.com/jsonskel/jsonskel/pkg/skeleton"
)

// ProfileInput is the input for jsonskel_profile.
type ProfileInput struct {
	Documents []string `json:"documents" jsonschema:"Documents to profile, one string per document. Arrays contribute their object elements as siblings; lone objects count as one sibling each."`
	Format    string   `json:"format,omitempty" jsonschema:"Input format: json (default) or yaml"`
	Repair    bool     `json:"repair,omitempty" jsonschema:"Repair malformed JSON before giving up"`
	Select    string   `json:"select,omitempty" jsonschema:"jq expression applied to each document before profiling"`
}

// ProfileOutput is the output of jsonskel_profile.
type ProfileOutput struct {
	Stats     []skeleton.FieldStat `json:"stats"`
	Siblings  int                  `json:"siblings"`
	Documents int                  `json:"documents"`
	Hint      string               `json:"hint,omitempty"`
}

// ToolProfile computes per-field statistics (frequency, required/nullable,
// distinct counts, examples) across the sibling objects of the input
// documents.
func ToolProfile(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ProfileInput) (*sdkmcp.CallToolResult, ProfileOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ProfileInput) (*sdkmcp.CallToolResult, ProfileOutput, error) {
		docs, err := d.parseDocuments(input.Documents, docOptions{
			Format: input.Format,
			Repair: input.Repair,
			Select: input.Select,
		})
		if err != nil {
			return nil, ProfileOutput{}, err
		}

		var siblings []jsonvalue.Value
		for _, doc := range docs {
			if doc.Kind() == jsonvalue.KindArray {
				siblings = append(siblings, doc.Elems()...)
			} else {
				siblings = append(siblings, doc)
			}
		}

		stats := skeleton.Profile(siblings)
		if stats == nil {
			stats = []skeleton.FieldStat{}
		}

		output := ProfileOutput{
			Stats:     stats,
			Siblings:  len(siblings),
			Documents: len(docs),
			Hint:      "Fields with frequency below 1.0 are optional; use jsonskel_infer for the unified structural skeleton.",
		}
		return nil, output, nil
	}
}
