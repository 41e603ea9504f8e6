package jsonvalue

import (
	"errors"
	"strings"
	"testing"
)

func TestDecode_Scalars(t *testing.T) {
	tests := []struct {
		doc      string
		expected Value
	}{
		{`null`, Null()},
		{`true`, Bool(true)},
		{`false`, Bool(false)},
		{`42`, Int(42)},
		{`-7`, Int(-7)},
		{`3.5`, Float(3.5)},
		{`1.0`, Float(1)}, // fractional notation decodes as float
		{`1e3`, Float(1000)},
		{`"hello"`, String("hello")},
	}

	for _, tt := range tests {
		t.Run(tt.doc, func(t *testing.T) {
			got, err := Decode([]byte(tt.doc), nil)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !got.Equal(tt.expected) {
				t.Errorf("Decode(%s) = %+v, want %+v", tt.doc, got, tt.expected)
			}
		})
	}
}

func TestDecode_LargeIntStaysExact(t *testing.T) {
	got, err := Decode([]byte(`9007199254740993`), nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Kind() != KindInt || got.IntVal() != 9007199254740993 {
		t.Errorf("got %+v, want exact int 9007199254740993", got)
	}
}

func TestDecode_Composite(t *testing.T) {
	got, err := Decode([]byte(`{"a": [1, "x", null], "b": {"c": 2.5}}`), nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := ObjectOf(map[string]Value{
		"a": ArrayOf(Int(1), String("x"), Null()),
		"b": ObjectOf(map[string]Value{"c": Float(2.5)}),
	})
	if !got.Equal(want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestDecode_InvalidJSON(t *testing.T) {
	if _, err := Decode([]byte(`not json`), nil); err == nil {
		t.Error("expected error for invalid JSON")
	}
	if _, err := Decode([]byte(``), nil); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestDecode_TrailingData(t *testing.T) {
	_, err := Decode([]byte(`{"a": 1} {"b": 2}`), nil)
	if err == nil {
		t.Fatal("expected error for trailing data")
	}
	if !strings.Contains(err.Error(), "trailing") {
		t.Errorf("error = %v, want trailing data mention", err)
	}
}

func TestDecode_Repair(t *testing.T) {
	// Trailing comma and single quotes are repairable.
	malformed := []byte(`{'a': 1, 'b': [1, 2,],}`)

	if _, err := Decode(malformed, nil); err == nil {
		t.Fatal("expected malformed input to fail without repair")
	}

	got, err := Decode(malformed, &Options{Repair: true})
	if err != nil {
		t.Fatalf("decode with repair: %v", err)
	}
	want := ObjectOf(map[string]Value{
		"a": Int(1),
		"b": ArrayOf(Int(1), Int(2)),
	})
	if !got.Equal(want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestDecode_MaxDepth(t *testing.T) {
	doc := []byte(`{"a": {"b": {"c": 1}}}`)

	if _, err := Decode(doc, &Options{MaxDepth: 10}); err != nil {
		t.Errorf("within bound: %v", err)
	}

	_, err := Decode(doc, &Options{MaxDepth: 2})
	if !errors.Is(err, ErrTooDeep) {
		t.Errorf("err = %v, want ErrTooDeep", err)
	}
}

func TestDecodeYAML(t *testing.T) {
	doc := []byte(`
name: test
count: 3
ratio: 0.5
enabled: true
empty:
items:
  - id: 1
  - id: 2
`)

	got, err := DecodeYAML(doc, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := ObjectOf(map[string]Value{
		"name":    String("test"),
		"count":   Int(3),
		"ratio":   Float(0.5),
		"enabled": Bool(true),
		"empty":   Null(),
		"items": ArrayOf(
			ObjectOf(map[string]Value{"id": Int(1)}),
			ObjectOf(map[string]Value{"id": Int(2)}),
		),
	})
	if !got.Equal(want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestDecodeYAML_Invalid(t *testing.T) {
	if _, err := DecodeYAML([]byte("a: [unclosed"), nil); err == nil {
		t.Error("expected error for invalid YAML")
	}
}
