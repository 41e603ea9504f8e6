package jsonvalue

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"

	json "github.com/goccy/go-json"
	"github.com/kaptinlin/jsonrepair"
	"gopkg.in/yaml.v3"
)

// ErrTooDeep is returned when a document nests deeper than Options.MaxDepth.
var ErrTooDeep = errors.New("document exceeds maximum nesting depth")

// Options controls decoding behavior.
type Options struct {
	// Repair attempts to repair malformed JSON (trailing commas, single
	// quotes, unquoted keys) and retries once when the initial parse fails.
	Repair bool
	// MaxDepth rejects documents nested beyond this many array/object
	// levels (0 = unlimited). Inference recurses along document structure,
	// so this bounds its stack usage for untrusted input.
	MaxDepth int
}

// Decode parses JSON bytes into a Value. Number tokens are inspected before
// conversion: tokens that parse as integers become KindInt, everything else
// becomes KindFloat, so "1" and "1.0" stay distinguishable.
func Decode(data []byte, opts *Options) (Value, error) {
	if opts == nil {
		opts = &Options{}
	}

	raw, err := decodeAny(data)
	if err != nil {
		if !opts.Repair {
			return Value{}, fmt.Errorf("invalid JSON: %w", err)
		}
		repaired, repairErr := jsonrepair.JSONRepair(string(data))
		if repairErr != nil {
			return Value{}, fmt.Errorf("invalid JSON (repair failed: %v): %w", repairErr, err)
		}
		raw, err = decodeAny([]byte(repaired))
		if err != nil {
			return Value{}, fmt.Errorf("invalid JSON after repair: %w", err)
		}
	}

	return fromDecoded(raw, 0, opts.MaxDepth)
}

// DecodeYAML parses YAML bytes into a Value. Non-string mapping keys are
// stringified, matching how YAML documents are bridged to JSON tooling.
func DecodeYAML(data []byte, opts *Options) (Value, error) {
	if opts == nil {
		opts = &Options{}
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Value{}, fmt.Errorf("invalid YAML: %w", err)
	}

	return fromDecoded(raw, 0, opts.MaxDepth)
}

// FromInterface converts a plain any-tree (as produced by json.Unmarshal or
// a gojq evaluation) into a Value.
func FromInterface(v any) (Value, error) {
	return fromDecoded(v, 0, 0)
}

func decodeAny(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("trailing data after top-level value")
	}
	return raw, nil
}

// fromDecoded converts the output of a JSON or YAML unmarshal into a Value.
func fromDecoded(raw any, depth, maxDepth int) (Value, error) {
	switch val := raw.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(val), nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := val.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("unparseable number %q: %w", string(val), err)
		}
		return Float(f), nil
	case int:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case uint64:
		return Int(int64(val)), nil
	case float64:
		return Float(val), nil
	case *big.Int:
		// gojq promotes large integers to big.Int.
		if val.IsInt64() {
			return Int(val.Int64()), nil
		}
		f, _ := new(big.Float).SetInt(val).Float64()
		return Float(f), nil
	case string:
		return String(val), nil
	case []any:
		if maxDepth > 0 && depth >= maxDepth {
			return Value{}, ErrTooDeep
		}
		elems := make([]Value, len(val))
		for i, e := range val {
			ev, err := fromDecoded(e, depth+1, maxDepth)
			if err != nil {
				return Value{}, err
			}
			elems[i] = ev
		}
		return ArrayOf(elems...), nil
	case map[string]any:
		if maxDepth > 0 && depth >= maxDepth {
			return Value{}, ErrTooDeep
		}
		fields := make(map[string]Value, len(val))
		for k, f := range val {
			fv, err := fromDecoded(f, depth+1, maxDepth)
			if err != nil {
				return Value{}, err
			}
			fields[k] = fv
		}
		return ObjectOf(fields), nil
	case map[any]any:
		// Older YAML decodings use any-keyed maps.
		if maxDepth > 0 && depth >= maxDepth {
			return Value{}, ErrTooDeep
		}
		fields := make(map[string]Value, len(val))
		for k, f := range val {
			fv, err := fromDecoded(f, depth+1, maxDepth)
			if err != nil {
				return Value{}, err
			}
			fields[fmt.Sprintf("%v", k)] = fv
		}
		return ObjectOf(fields), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", raw)
	}
}
