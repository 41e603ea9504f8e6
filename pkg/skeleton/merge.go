package skeleton

import (
	"github.com/jsonskel/jsonskel/pkg/jsonvalue"
)

// mergedField is one entry of the structural pre-merge of sibling objects.
// It is not yet a Schema: it holds either a raw value, the result of a
// recursive object merge, or the mixed marker, and is consumed by inference
// afterwards.
type mergedField struct {
	mixed  bool
	nested map[string]mergedField
	value  jsonvalue.Value
}

// mergeObjects unions the keys of sibling objects into one combined
// structure. Processed in input order as a left fold: per key, objects merge
// recursively, sequences concatenate (existing elements first), a
// sequence-vs-non-sequence conflict becomes the mixed marker, and any other
// conflict is resolved by the inferrer's ConflictPolicy.
func (in *Inferrer) mergeObjects(objects []jsonvalue.Value) map[string]mergedField {
	acc := make(map[string]mergedField)
	for _, obj := range objects {
		in.mergeInto(acc, obj.Fields())
	}
	return acc
}

func (in *Inferrer) mergeInto(acc map[string]mergedField, fields map[string]jsonvalue.Value) {
	for key, val := range fields {
		existing, ok := acc[key]
		if !ok {
			acc[key] = mergedField{value: val}
			continue
		}
		acc[key] = in.combine(existing, val)
	}
}

func (in *Inferrer) combine(existing mergedField, val jsonvalue.Value) mergedField {
	existingIsSeq := !existing.mixed && existing.nested == nil && existing.value.Kind() == jsonvalue.KindArray
	existingIsMap := existing.nested != nil || (!existing.mixed && existing.value.Kind() == jsonvalue.KindObject)
	newIsSeq := val.Kind() == jsonvalue.KindArray

	switch {
	case existingIsMap && val.Kind() == jsonvalue.KindObject:
		nested := existing.nested
		if nested == nil {
			nested = liftFields(existing.value.Fields())
		}
		in.mergeInto(nested, val.Fields())
		return mergedField{nested: nested}

	case existingIsSeq && newIsSeq:
		combined := make([]jsonvalue.Value, 0, len(existing.value.Elems())+val.Len())
		combined = append(combined, existing.value.Elems()...)
		combined = append(combined, val.Elems()...)
		return mergedField{value: jsonvalue.ArrayOf(combined...)}

	case existingIsSeq != newIsSeq:
		// Irrecoverable: stays mixed even if a later sibling would match.
		return mergedField{mixed: true}

	default:
		// Same-kind non-sequence values agree on shape; the overwrite is
		// invisible in the inferred schema.
		if !existing.mixed && existing.nested == nil && existing.value.Kind() == val.Kind() {
			return mergedField{value: val}
		}
		// Non-sequence conflict: scalars of different kinds, scalar vs
		// mapping, or a stored mixed marker. The single policy decision
		// point.
		if in.conflicts == ConflictMarkMixed {
			return mergedField{mixed: true}
		}
		return mergedField{value: val}
	}
}

// liftFields wraps an object's raw fields into the merge domain.
func liftFields(fields map[string]jsonvalue.Value) map[string]mergedField {
	out := make(map[string]mergedField, len(fields))
	for k, v := range fields {
		out[k] = mergedField{value: v}
	}
	return out
}

// inferMerged maps a merged field table to its object schema.
func (in *Inferrer) inferMerged(merged map[string]mergedField) Schema {
	fields := make(map[string]Schema, len(merged))
	for k, f := range merged {
		fields[k] = in.inferField(f)
	}
	return Object(fields)
}

func (in *Inferrer) inferField(f mergedField) Schema {
	switch {
	case f.mixed:
		return Mixed()
	case f.nested != nil:
		return in.inferMerged(f.nested)
	default:
		return in.Infer(f.value)
	}
}
