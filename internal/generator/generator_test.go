package generator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsonskel/jsonskel/internal/config"
)

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	cfg := config.Load()
	g, err := New(cfg)
	require.NoError(t, err)
	return g
}

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestGenerate_WritesSchemaFile(t *testing.T) {
	g := newTestGenerator(t)
	in := writeInput(t, "users.json", `{"name": "alice", "age": 30, "tags": ["a", "b"]}`)

	res, err := g.Generate(context.Background(), in, nil)
	require.NoError(t, err)

	expected := filepath.Join(filepath.Dir(in), "users.schema.json")
	assert.Equal(t, expected, res.OutputPath)
	assert.False(t, res.CacheHit)

	data, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(data, &schema))
	assert.Equal(t, "str", schema["name"])
	assert.Equal(t, "int", schema["age"])
	assert.Equal(t, []any{"str"}, schema["tags"])
}

func TestGenerate_IndentedOutput(t *testing.T) {
	g := newTestGenerator(t)
	in := writeInput(t, "doc.json", `{"a": 1}`)

	res, err := g.Generate(context.Background(), in, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"a\": \"int\"\n}\n", string(data))
}

func TestGenerate_CompactOutput(t *testing.T) {
	g := newTestGenerator(t)
	in := writeInput(t, "doc.json", `{"a": 1}`)

	res, err := g.Generate(context.Background(), in, &Options{Compact: true})
	require.NoError(t, err)

	data, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, `{"a":"int"}`+"\n", string(data))
}

func TestGenerate_ExplicitOutputPath(t *testing.T) {
	g := newTestGenerator(t)
	in := writeInput(t, "doc.json", `[1, 2, 3]`)
	out := filepath.Join(t.TempDir(), "custom.json")

	res, err := g.Generate(context.Background(), in, &Options{OutputPath: out})
	require.NoError(t, err)
	assert.Equal(t, out, res.OutputPath)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.JSONEq(t, `["int"]`, string(data))
}

func TestGenerate_NoWrite(t *testing.T) {
	g := newTestGenerator(t)
	in := writeInput(t, "doc.json", `{"ok": true}`)

	res, err := g.Generate(context.Background(), in, &Options{NoWrite: true})
	require.NoError(t, err)
	assert.Empty(t, res.OutputPath)
	assert.JSONEq(t, `{"ok":"bool"}`, string(res.Rendered))

	_, err = os.Stat(DeriveOutputPath(in))
	assert.True(t, os.IsNotExist(err))
}

func TestGenerate_YAMLByExtension(t *testing.T) {
	g := newTestGenerator(t)
	in := writeInput(t, "config.yaml", "host: localhost\nport: 8080\nretries:\n  - 1\n  - 2\n")

	res, err := g.Generate(context.Background(), in, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(in), "config.schema.json"), res.OutputPath)

	data, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	assert.JSONEq(t, `{"host":"str","port":"int","retries":["int"]}`, string(data))
}

func TestGenerate_ExplicitFormatOverridesExtension(t *testing.T) {
	g := newTestGenerator(t)
	in := writeInput(t, "data.txt", `{"a": 1.5}`)

	res, err := g.Generate(context.Background(), in, &Options{Format: "json", NoWrite: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"float"}`, string(res.Rendered))
}

func TestGenerate_UnknownFormat(t *testing.T) {
	g := newTestGenerator(t)
	in := writeInput(t, "data.json", `{}`)

	_, err := g.Generate(context.Background(), in, &Options{Format: "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown input format")
}

func TestGenerate_SelectSubdocument(t *testing.T) {
	g := newTestGenerator(t)
	in := writeInput(t, "wrapped.json", `{"data": {"items": [{"id": 1}, {"id": 2}]}}`)

	res, err := g.Generate(context.Background(), in, &Options{Select: ".data.items", NoWrite: true})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"int"}]`, string(res.Rendered))
}

func TestGenerate_SelectInvalidExpression(t *testing.T) {
	g := newTestGenerator(t)
	in := writeInput(t, "doc.json", `{"a": 1}`)

	_, err := g.Generate(context.Background(), in, &Options{Select: ".[broken", NoWrite: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid jq expression")
}

func TestGenerate_RepairMalformedJSON(t *testing.T) {
	g := newTestGenerator(t)
	in := writeInput(t, "messy.json", `{'name': 'alice', 'tags': [1, 2,],}`)

	_, err := g.Generate(context.Background(), in, &Options{NoWrite: true})
	require.Error(t, err)

	res, err := g.Generate(context.Background(), in, &Options{Repair: true, NoWrite: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"str","tags":["int"]}`, string(res.Rendered))
}

func TestGenerate_MissingFile(t *testing.T) {
	g := newTestGenerator(t)

	_, err := g.Generate(context.Background(), filepath.Join(t.TempDir(), "absent.json"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading")
}

func TestGenerate_ScalarConflictPolicies(t *testing.T) {
	g := newTestGenerator(t)
	in := writeInput(t, "conflict.json", `[{"a": 1}, {"a": "x"}]`)

	res, err := g.Generate(context.Background(), in, &Options{NoWrite: true})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"a":"str"}]`, string(res.Rendered))

	res, err = g.Generate(context.Background(), in, &Options{ScalarConflicts: "mixed", NoWrite: true})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"a":"mixed"}]`, string(res.Rendered))

	_, err = g.Generate(context.Background(), in, &Options{ScalarConflicts: "bogus", NoWrite: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown scalar conflict policy")
}

func TestGenerate_CacheHitOnRepeat(t *testing.T) {
	g := newTestGenerator(t)
	in := writeInput(t, "doc.json", `{"a": [1, 2]}`)
	opts := &Options{NoWrite: true}

	first, err := g.Generate(context.Background(), in, opts)
	require.NoError(t, err)
	assert.False(t, first.CacheHit)

	second, err := g.Generate(context.Background(), in, opts)
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Rendered, second.Rendered)
}

func TestGenerate_CacheKeyedByOptions(t *testing.T) {
	g := newTestGenerator(t)
	in := writeInput(t, "doc.json", `{"a": 1}`)

	_, err := g.Generate(context.Background(), in, &Options{NoWrite: true})
	require.NoError(t, err)

	res, err := g.Generate(context.Background(), in, &Options{NoWrite: true, Compact: true})
	require.NoError(t, err)
	assert.False(t, res.CacheHit)
	assert.Equal(t, `{"a":"int"}`, string(res.Rendered))
}

func TestGenerate_StatsBypassCache(t *testing.T) {
	g := newTestGenerator(t)
	in := writeInput(t, "rows.json", `[{"id": 1, "name": "a"}, {"id": 2}]`)
	opts := &Options{Stats: true, NoWrite: true}

	_, err := g.Generate(context.Background(), in, opts)
	require.NoError(t, err)

	res, err := g.Generate(context.Background(), in, opts)
	require.NoError(t, err)
	assert.False(t, res.CacheHit)
	require.NotEmpty(t, res.Stats)

	byPath := map[string]float64{}
	for _, s := range res.Stats {
		byPath[s.Path] = s.Frequency
	}
	assert.Equal(t, 1.0, byPath["id"])
	assert.Equal(t, 0.5, byPath["name"])
}

func TestGenerateAll_MixedOutcomes(t *testing.T) {
	g := newTestGenerator(t)
	dir := t.TempDir()

	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"a": 1}`), 0644))
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{not json`), 0644))
	missing := filepath.Join(dir, "missing.json")

	summary, err := g.GenerateAll(context.Background(), []string{good, bad, missing}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Generated)
	assert.Equal(t, 2, summary.Failed)
	assert.Len(t, summary.Errors, 2)

	_, err = os.Stat(filepath.Join(dir, "good.schema.json"))
	assert.NoError(t, err)
}

func TestGenerateAll_Canceled(t *testing.T) {
	g := newTestGenerator(t)
	in := writeInput(t, "doc.json", `{"a": 1}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.GenerateAll(ctx, []string{in}, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestDeriveOutputPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"data.json", "data.schema.json"},
		{"config.yaml", "config.schema.json"},
		{"dir/file.yml", "dir/file.schema.json"},
		{"noext", "noext.schema.json"},
		{".hidden", ".hidden.schema.json"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveOutputPath(tt.in), "input %q", tt.in)
	}
}
