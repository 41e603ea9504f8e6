package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	// Tool 1: jsonskel_infer
	sdkmcp.AddTool(srv, &sdkmcp.Tool{
		Name:        "jsonskel_infer",
		Description: "Infer a structural schema skeleton from JSON or YAML documents: types, nested field layouts, and array element types. Multiple documents are unified as siblings, so shared keys merge and conflicting shapes degrade to kind sets or a mixed marker. Use select to analyze a subdocument, and scalar_conflicts to control how conflicting key shapes resolve.",
	}, ToolInfer(d))

	// Tool 2: jsonskel_profile
	sdkmcp.AddTool(srv, &sdkmcp.Tool{
		Name:        "jsonskel_profile",
		Description: "Compute per-field statistics across sibling objects: frequency, required/nullable flags, distinct value counts, and example values, with nested paths like user.name and items[].id. Use this after jsonskel_infer when the skeleton alone is not enough to tell required fields from optional ones.",
	}, ToolProfile(d))

	// Tool 3: jsonskel_query
	sdkmcp.AddTool(srv, &sdkmcp.Tool{
		Name:        "jsonskel_query",
		Description: "Extract specific values from documents with a jq expression. Returns a values array, per-document errors with hints, and the raw match count. Use jsonskel_infer first to discover the document structure the expression should navigate.",
	}, ToolQuery(d))
}
