package skeleton

import (
	"testing"

	"github.com/jsonskel/jsonskel/pkg/jsonvalue"
)

func parse(t *testing.T, doc string) jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.Decode([]byte(doc), nil)
	if err != nil {
		t.Fatalf("decode %s: %v", doc, err)
	}
	return v
}

func TestInfer_Scalars(t *testing.T) {
	tests := []struct {
		doc      string
		expected Schema
	}{
		{`null`, Null()},
		{`true`, Scalar("bool")},
		{`false`, Scalar("bool")},
		{`3`, Scalar("int")},
		{`3.5`, Scalar("float")},
		{`"x"`, Scalar("str")},
	}

	for _, tt := range tests {
		t.Run(tt.doc, func(t *testing.T) {
			got := Infer(parse(t, tt.doc))
			if !got.Equal(tt.expected) {
				t.Errorf("Infer(%s) = %+v, want %+v", tt.doc, got, tt.expected)
			}
		})
	}
}

func TestInfer_IntFloatDistinction(t *testing.T) {
	// 1.0 carries a fractional notation, so it stays a float even though
	// its value is whole.
	if got := Infer(parse(t, `1.0`)); !got.Equal(Scalar("float")) {
		t.Errorf("Infer(1.0) = %+v, want float", got)
	}
	if got := Infer(parse(t, `1`)); !got.Equal(Scalar("int")) {
		t.Errorf("Infer(1) = %+v, want int", got)
	}
}

func TestInfer_EmptyArray(t *testing.T) {
	got := Infer(parse(t, `[]`))
	if got.Form() != FormEmptyArray {
		t.Errorf("Infer([]) form = %v, want FormEmptyArray", got.Form())
	}
}

func TestInfer_HomogeneousScalarArray(t *testing.T) {
	got := Infer(parse(t, `[1, 2, 3]`))
	if !got.Equal(Array(Scalar("int"))) {
		t.Errorf("Infer([1,2,3]) = %+v, want [int]", got)
	}
}

func TestInfer_HeterogeneousArray(t *testing.T) {
	got := Infer(parse(t, `[1, "a"]`))
	// Set equality is order-independent: the constructor sorts labels.
	if !got.Equal(KindSet("str", "int")) {
		t.Errorf("Infer([1,\"a\"]) = %+v, want kind set {int,str}", got)
	}
}

func TestInfer_HeterogeneityWinsOverStructure(t *testing.T) {
	// A single odd element discards all structural information about the
	// majority type.
	got := Infer(parse(t, `[{"a": 1}, {"a": 2}, "x"]`))
	if !got.Equal(KindSet("object", "str")) {
		t.Errorf("got %+v, want kind set {object,str}", got)
	}
}

func TestInfer_NullElements(t *testing.T) {
	if got := Infer(parse(t, `[null]`)); !got.Equal(Array(Scalar("null"))) {
		t.Errorf("Infer([null]) = %+v, want [null kind]", got)
	}
	if got := Infer(parse(t, `[null, 1]`)); !got.Equal(KindSet("int", "null")) {
		t.Errorf("Infer([null,1]) = %+v, want kind set {int,null}", got)
	}
}

func TestInfer_ObjectFieldIndependence(t *testing.T) {
	got := Infer(parse(t, `{"a": 1, "b": "x"}`))
	want := Object(map[string]Schema{
		"a": Scalar("int"),
		"b": Scalar("str"),
	})
	if !got.Equal(want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestInfer_SiblingObjectMerge(t *testing.T) {
	got := Infer(parse(t, `[{"a": 1}, {"b": "x"}]`))
	want := Array(Object(map[string]Schema{
		"a": Scalar("int"),
		"b": Scalar("str"),
	}))
	if !got.Equal(want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestInfer_NestedArrayFlattening(t *testing.T) {
	got := Infer(parse(t, `[[1, 2], [3]]`))
	want := Array(Array(Scalar("int")))
	if !got.Equal(want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestInfer_RaggedNestedArrays(t *testing.T) {
	// Flattening one level combines elements of differing inner depth.
	got := Infer(parse(t, `[[1], [[2]]]`))
	want := Array(KindSet("int", "array"))
	if !got.Equal(want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestInfer_DeepNesting(t *testing.T) {
	got := Infer(parse(t, `{"l1": {"l2": {"l3": {"v": "deep"}}}}`))
	want := Object(map[string]Schema{
		"l1": Object(map[string]Schema{
			"l2": Object(map[string]Schema{
				"l3": Object(map[string]Schema{
					"v": Scalar("str"),
				}),
			}),
		}),
	})
	if !got.Equal(want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestInfer_Determinism(t *testing.T) {
	doc := parse(t, `[{"a": [1, 2], "b": {"c": null}}, {"a": [3], "d": "x"}]`)

	first := Infer(doc)
	for i := 0; i < 5; i++ {
		if got := Infer(doc); !got.Equal(first) {
			t.Fatalf("run %d produced a different schema: %+v vs %+v", i, got, first)
		}
	}

	b1, err := first.Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	b2, err := Infer(doc).Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(b1) != string(b2) {
		t.Errorf("renderings differ: %s vs %s", b1, b2)
	}
}
