package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jsonskel/jsonskel/internal/query"
)

// QueryInput is the input for jsonskel_query.
type QueryInput struct {
	Documents   []string `json:"documents" jsonschema:"Documents to query, one string per document"`
	Expression  string   `json:"expression" jsonschema:"jq expression to evaluate against each document, e.g. .items[].id"`
	Format      string   `json:"format,omitempty" jsonschema:"Input format: json (default) or yaml"`
	Repair      bool     `json:"repair,omitempty" jsonschema:"Repair malformed JSON before giving up"`
	Deduplicate bool     `json:"deduplicate,omitempty" jsonschema:"Drop duplicate values across all documents"`
	MaxResults  int      `json:"max_results,omitempty" jsonschema:"Cap on returned values (default from server config)"`
}

// QueryOutput is the output of jsonskel_query.
type QueryOutput struct {
	Values    []any    `json:"values"`
	Errors    []string `json:"errors,omitempty"`
	RawCount  int      `json:"raw_count"`
	Documents int      `json:"documents"`
}

// ToolQuery evaluates a jq expression across documents and returns the
// combined values.
func ToolQuery(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input QueryInput) (*sdkmcp.CallToolResult, QueryOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input QueryInput) (*sdkmcp.CallToolResult, QueryOutput, error) {
		if input.Expression == "" {
			return nil, QueryOutput{}, ErrInvalidInput("expression is required")
		}
		if err := d.Query.ValidateExpression(input.Expression); err != nil {
			return nil, QueryOutput{}, ErrQuery(err)
		}

		docs, err := d.parseDocuments(input.Documents, docOptions{
			Format: input.Format,
			Repair: input.Repair,
		})
		if err != nil {
			return nil, QueryOutput{}, err
		}

		maxResults := input.MaxResults
		if maxResults <= 0 || maxResults > d.Config.QueryMaxResults {
			maxResults = d.Config.QueryMaxResults
		}

		var result *query.Result
		result, err = d.Query.QueryMultiple(docs, input.Expression, input.Deduplicate, maxResults)
		if err != nil {
			return nil, QueryOutput{}, ErrQuery(err)
		}

		output := QueryOutput{
			Values:    result.Values,
			Errors:    result.Errors,
			RawCount:  result.RawCount,
			Documents: len(docs),
		}
		return nil, output, nil
	}
}
