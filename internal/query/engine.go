// Package query provides jq-based selection over parsed JSON documents.
package query

import (
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/itchyny/gojq"

	"github.com/jsonskel/jsonskel/pkg/jsonvalue"
)

// Engine executes jq expressions against parsed documents.
type Engine struct{}

// NewEngine creates a new query engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Result contains the outcome of a jq query.
type Result struct {
	Values   []any    `json:"values"`           // Extracted values
	Errors   []string `json:"errors,omitempty"` // Per-item errors (e.g., type mismatch)
	RawCount int      `json:"raw_count"`        // Count before deduplication
}

// Query executes a jq expression against one document.
func (e *Engine) Query(doc jsonvalue.Value, expression string, deduplicate bool, maxResults int) (*Result, error) {
	return e.QueryMultiple([]jsonvalue.Value{doc}, expression, deduplicate, maxResults)
}

// QueryMultiple executes a jq expression against multiple documents,
// combining results in input order and optionally deduplicating across all.
func (e *Engine) QueryMultiple(docs []jsonvalue.Value, expression string, deduplicate bool, maxResults int) (*Result, error) {
	code, err := compile(expression)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Values: make([]any, 0),
		Errors: make([]string, 0),
	}

	seen := make(map[string]bool)
	seenErrors := make(map[string]bool)

	for i, doc := range docs {
		if maxResults > 0 && len(result.Values) >= maxResults {
			break
		}

		iter := code.Run(doc.Interface())
		for {
			if maxResults > 0 && len(result.Values) >= maxResults {
				break
			}

			v, ok := iter.Next()
			if !ok {
				break
			}

			if err, isErr := v.(error); isErr {
				errMsg := formatJQError(fmt.Sprintf("document[%d]", i), err)
				if !seenErrors[errMsg] {
					result.Errors = append(result.Errors, errMsg)
					seenErrors[errMsg] = true
				}
				continue
			}

			if v == nil {
				continue
			}

			result.RawCount++

			if deduplicate {
				key := valueKey(v)
				if seen[key] {
					continue
				}
				seen[key] = true
			}

			result.Values = append(result.Values, v)
		}
	}

	return result, nil
}

// First applies a jq expression to a document and returns the first produced
// value, converted back into the value domain. Used to select a subdocument
// before inference.
func (e *Engine) First(doc jsonvalue.Value, expression string) (jsonvalue.Value, error) {
	code, err := compile(expression)
	if err != nil {
		return jsonvalue.Value{}, err
	}

	iter := code.Run(doc.Interface())
	for {
		v, ok := iter.Next()
		if !ok {
			return jsonvalue.Value{}, fmt.Errorf("expression %q produced no result", expression)
		}
		if err, isErr := v.(error); isErr {
			return jsonvalue.Value{}, errors.New(formatJQError("selection", err))
		}
		return jsonvalue.FromInterface(v)
	}
}

// ValidateExpression checks if a jq expression is valid without executing it.
func (e *Engine) ValidateExpression(expression string) error {
	_, err := compile(expression)
	return err
}

func compile(expression string) (*gojq.Code, error) {
	q, err := gojq.Parse(expression)
	if err != nil {
		var parseErr *gojq.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("invalid jq expression at position %d: %w", parseErr.Offset, err)
		}
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}

	code, err := gojq.Compile(q)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}
	return code, nil
}

// formatJQError decorates a jq runtime error with a hint for common cases.
// Runtime errors carry no typed wrappers in gojq, so string matching is used
// for the user-facing hint only, never for control flow.
func formatJQError(label string, err error) string {
	var haltErr *gojq.HaltError
	if errors.As(err, &haltErr) {
		if haltErr.Value() == nil {
			return fmt.Sprintf("%s: query halted", label)
		}
		return fmt.Sprintf("%s: query halted with: %v", label, haltErr.Value())
	}

	errStr := err.Error()

	var hint string
	switch {
	case strings.Contains(errStr, "cannot iterate over: null"):
		hint = " (the path may not exist in this document)"
	case strings.Contains(errStr, "cannot index") && strings.Contains(errStr, "with"):
		hint = " (field not found or wrong type)"
	case strings.Contains(errStr, "object") && strings.Contains(errStr, "cannot be iterated"):
		hint = " (expected array but got object, try removing '[]')"
	case strings.Contains(errStr, "array") && strings.Contains(errStr, "cannot be indexed"):
		hint = " (expected object but got array, try adding '[]')"
	}

	return fmt.Sprintf("%s: %s%s", label, errStr, hint)
}

// valueKey creates a string key for deduplication.
func valueKey(v any) string {
	switch val := v.(type) {
	case string:
		return "s:" + val
	case float64:
		return fmt.Sprintf("n:%v", val)
	case int:
		return fmt.Sprintf("n:%v", val)
	case bool:
		return fmt.Sprintf("b:%v", val)
	case nil:
		return "null"
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("?:%v", val)
		}
		return "j:" + string(b)
	}
}
