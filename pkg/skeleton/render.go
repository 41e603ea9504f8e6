package skeleton

import (
	json "github.com/goccy/go-json"
)

// MixedSentinel is the rendered form of a Mixed schema. It collides with no
// kind label, so a "mixed" string in output is always the marker.
const MixedSentinel = "mixed"

// Interface converts the schema to its JSON-compatible rendering tree:
// scalars become their kind-name strings, null stays null, objects keep
// their keys, a homogeneous array renders as a one-element array, a kind set
// as an array of kind names, an empty array as [], and Mixed as the
// MixedSentinel string.
func (s Schema) Interface() any {
	switch s.form {
	case FormScalar:
		return s.kind
	case FormNull:
		return nil
	case FormObject:
		out := make(map[string]any, len(s.fields))
		for k, f := range s.fields {
			out[k] = f.Interface()
		}
		return out
	case FormArray:
		return []any{s.Elem().Interface()}
	case FormEmptyArray:
		return []any{}
	case FormKindSet:
		out := make([]any, len(s.kinds))
		for i, k := range s.kinds {
			out[i] = k
		}
		return out
	case FormMixed:
		return MixedSentinel
	default:
		return nil
	}
}

// MarshalJSON renders the schema deterministically: object keys sort
// lexically and kind sets are already sorted, so equal schemas always
// produce identical bytes.
func (s Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Interface())
}

// Render returns the compact JSON rendering of the schema.
func (s Schema) Render() ([]byte, error) {
	return json.Marshal(s.Interface())
}

// RenderIndent returns the four-space indented JSON rendering of the schema.
func (s Schema) RenderIndent() ([]byte, error) {
	return json.MarshalIndent(s.Interface(), "", "    ")
}
