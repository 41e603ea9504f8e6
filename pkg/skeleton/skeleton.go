// Package skeleton infers a structural schema skeleton from a parsed JSON
// document: types, nested field layouts, and array element types, without a
// declared schema. The output is a minimal internal representation, not a
// standards-compliant JSON Schema.
package skeleton

import (
	"sort"

	"github.com/jsonskel/jsonskel/pkg/jsonvalue"
)

// Form identifies which variant a Schema holds.
type Form int

const (
	// FormScalar describes a primitive value by its kind label.
	FormScalar Form = iota
	// FormNull describes a null value.
	FormNull
	// FormObject maps keys to their inferred schemas.
	FormObject
	// FormArray describes a homogeneous array by its unified element schema.
	FormArray
	// FormEmptyArray marks an array with no elements to infer from.
	FormEmptyArray
	// FormKindSet lists the distinct kinds of a heterogeneous array.
	// Terminal: element structure is not explored further.
	FormKindSet
	// FormMixed marks a key whose value took irreconcilable shapes across
	// sibling objects. Terminal.
	FormMixed
)

// Schema is the inferred description of a JSON value's shape. Schemas are
// immutable once constructed and compare structurally via Equal.
type Schema struct {
	form   Form
	kind   string
	fields map[string]Schema
	elem   *Schema
	kinds  []string
}

// Scalar returns a schema describing a primitive of the given kind label.
func Scalar(kind string) Schema { return Schema{form: FormScalar, kind: kind} }

// Null returns the schema of a null value.
func Null() Schema { return Schema{form: FormNull} }

// Object returns a schema with the given field schemas. The map is used
// directly; callers hand over ownership.
func Object(fields map[string]Schema) Schema {
	if fields == nil {
		fields = map[string]Schema{}
	}
	return Schema{form: FormObject, fields: fields}
}

// Array returns the schema of a homogeneous array with the given unified
// element schema.
func Array(elem Schema) Schema { return Schema{form: FormArray, elem: &elem} }

// EmptyArray returns the empty-array marker.
func EmptyArray() Schema { return Schema{form: FormEmptyArray} }

// KindSet returns the schema of a heterogeneous array. Labels are
// deduplicated and sorted so equal sets compare and render identically.
func KindSet(kinds ...string) Schema {
	seen := make(map[string]bool, len(kinds))
	out := make([]string, 0, len(kinds))
	for _, k := range kinds {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return Schema{form: FormKindSet, kinds: out}
}

// Mixed returns the terminal marker for an irreconcilable key shape.
func Mixed() Schema { return Schema{form: FormMixed} }

// Form returns the variant this schema holds.
func (s Schema) Form() Form { return s.form }

// Kind returns the kind label of a FormScalar schema.
func (s Schema) Kind() string { return s.kind }

// Fields returns the field schemas of a FormObject schema. Callers must not
// mutate the returned map.
func (s Schema) Fields() map[string]Schema { return s.fields }

// Elem returns the element schema of a FormArray schema.
func (s Schema) Elem() Schema {
	if s.elem == nil {
		return Schema{}
	}
	return *s.elem
}

// Kinds returns the sorted kind labels of a FormKindSet schema.
func (s Schema) Kinds() []string { return s.kinds }

// Equal reports structural equality. Mixed markers are unit values: any two
// compare equal regardless of how they were produced.
func (s Schema) Equal(o Schema) bool {
	if s.form != o.form {
		return false
	}
	switch s.form {
	case FormScalar:
		return s.kind == o.kind
	case FormObject:
		if len(s.fields) != len(o.fields) {
			return false
		}
		for k, sv := range s.fields {
			ov, ok := o.fields[k]
			if !ok || !sv.Equal(ov) {
				return false
			}
		}
		return true
	case FormArray:
		return s.Elem().Equal(o.Elem())
	case FormKindSet:
		if len(s.kinds) != len(o.kinds) {
			return false
		}
		for i := range s.kinds {
			if s.kinds[i] != o.kinds[i] {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// ConflictPolicy decides what happens when a key holds conflicting
// non-sequence shapes across sibling objects: scalars of differing kinds,
// scalar vs mapping, or a previously stored mixed marker. Same-kind scalars
// are not a conflict, and sequence-vs-non-sequence conflicts always produce
// Mixed regardless of policy.
type ConflictPolicy int

const (
	// ConflictLastWriteWins keeps the value observed last. Default.
	ConflictLastWriteWins ConflictPolicy = iota
	// ConflictMarkMixed marks the key as Mixed instead.
	ConflictMarkMixed
)

// Inferrer maps JSON values to schemas. The zero value uses
// ConflictLastWriteWins; Inferrers are stateless across calls and safe for
// concurrent use.
type Inferrer struct {
	conflicts ConflictPolicy
}

// Option configures an Inferrer.
type Option func(*Inferrer)

// WithConflictPolicy sets the policy for non-sequence key conflicts.
func WithConflictPolicy(p ConflictPolicy) Option {
	return func(in *Inferrer) { in.conflicts = p }
}

// New creates an Inferrer.
func New(opts ...Option) *Inferrer {
	in := &Inferrer{}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Infer maps a JSON value to its schema using the default inferrer.
func Infer(v jsonvalue.Value) Schema {
	return New().Infer(v)
}

// Infer maps a JSON value to its schema. Total over any well-formed value:
// unresolvable shapes degrade to KindSet or Mixed, never to an error.
func (in *Inferrer) Infer(v jsonvalue.Value) Schema {
	switch v.Kind() {
	case jsonvalue.KindNull:
		return Null()
	case jsonvalue.KindArray:
		return in.inferArray(v.Elems())
	case jsonvalue.KindObject:
		fields := make(map[string]Schema, v.Len())
		for k, f := range v.Fields() {
			fields[k] = in.Infer(f)
		}
		return Object(fields)
	default:
		return Scalar(v.Kind().String())
	}
}

// inferArray resolves the schema of a sequence of sibling elements.
//
// Heterogeneity wins over structure: as soon as two distinct kinds appear the
// result is the kind set, even if most elements share internal structure.
func (in *Inferrer) inferArray(elems []jsonvalue.Value) Schema {
	if len(elems) == 0 {
		return EmptyArray()
	}

	kinds := distinctKinds(elems)
	if len(kinds) > 1 {
		labels := make([]string, len(kinds))
		for i, k := range kinds {
			labels[i] = k.String()
		}
		return KindSet(labels...)
	}

	switch kinds[0] {
	case jsonvalue.KindObject:
		return Array(in.inferMerged(in.mergeObjects(elems)))
	case jsonvalue.KindArray:
		// Flatten one level and resolve the combined elements. Ragged
		// inner arrays lose their original nesting depth here.
		var flat []jsonvalue.Value
		for _, e := range elems {
			flat = append(flat, e.Elems()...)
		}
		return Array(in.inferArray(flat))
	default:
		return Array(Scalar(kinds[0].String()))
	}
}

// distinctKinds returns the distinct kinds across elements, in first-seen
// order.
func distinctKinds(elems []jsonvalue.Value) []jsonvalue.Kind {
	seen := make(map[jsonvalue.Kind]bool, 4)
	var kinds []jsonvalue.Kind
	for _, e := range elems {
		if !seen[e.Kind()] {
			seen[e.Kind()] = true
			kinds = append(kinds, e.Kind())
		}
	}
	return kinds
}
