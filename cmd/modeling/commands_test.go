package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/codemix/modeling/i18n"
)

const schemaYAML = `
name: Person
statics: {"@context": "http://schema.org/"}
properties:
  name: {type: string, label: Name, rules: [required]}
  age: {type: number, rules: [{name: number, min: 0, max: 150}]}
---
name: Tag
properties:
  label: string
`

func writeSchema(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "people.yaml")
	require.NoError(t, os.WriteFile(path, []byte(schemaYAML), 0o600))
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestDescribe(t *testing.T) {
	path := writeSchema(t)

	t.Run("json", func(t *testing.T) {
		out, _, err := run(t, "", "describe", "-f", path)
		require.NoError(t, err)
		var doc map[string]any
		require.NoError(t, gojson.Unmarshal([]byte(out), &doc))
		assert.Equal(t, "Person", doc["name"])
		assert.Equal(t, "http://schema.org/", doc["@context"])
	})

	t.Run("yaml", func(t *testing.T) {
		out, _, err := run(t, "", "describe", "-f", path, "-m", "Tag", "-o", "yaml")
		require.NoError(t, err)
		var doc map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
		want := map[string]any{"name": "Tag", "properties": map[string]any{"label": map[string]any{"type": "string"}}}
		assert.Equal(t, want, doc)
	})

	tests := []struct {
		name string
		args []string
	}{
		{"unknown format", []string{"describe", "-f", path, "-o", "xml"}},
		{"unknown model", []string{"describe", "-f", path, "-m", "Nobody"}},
		{"no schema file", []string{"describe"}},
		{"missing schema file", []string{"describe", "-f", filepath.Join(t.TempDir(), "none.yaml")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, "", tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestJSONSchema(t *testing.T) {
	out, _, err := run(t, "", "jsonschema", "-f", writeSchema(t))
	require.NoError(t, err)
	var s map[string]any
	require.NoError(t, gojson.Unmarshal([]byte(out), &s))
	assert.Equal(t, []any{"name"}, s["required"])
	assert.Equal(t, "object", s["type"])
}

func TestInput(t *testing.T) {
	path := writeSchema(t)

	t.Run("valid from stdin", func(t *testing.T) {
		out, _, err := run(t, `{"name": "Ada", "age": "36"}`, "input", "-f", path)
		require.NoError(t, err, out)
		var res struct {
			Valid bool           `json:"valid"`
			Value map[string]any `json:"value"`
		}
		require.NoError(t, gojson.Unmarshal([]byte(out), &res))
		assert.True(t, res.Valid)
		assert.Equal(t, float64(36), res.Value["age"])
	})

	t.Run("invalid from file", func(t *testing.T) {
		dataPath := filepath.Join(t.TempDir(), "data.json")
		require.NoError(t, os.WriteFile(dataPath, []byte(`{"age": 200}`), 0o600))
		out, stderr, err := run(t, "", "input", "-f", path, "-v", dataPath)
		require.ErrorIs(t, err, errInvalid)
		assert.Contains(t, out, `"age": "Must be at most 150."`)
		assert.Contains(t, stderr, "too_big /age")
	})

	t.Run("duplicate keys", func(t *testing.T) {
		_, _, err := run(t, `{"name": "a", "name": "b"}`, "input", "-f", path)
		require.Error(t, err)
		assert.NotErrorIs(t, err, errInvalid)
		assert.Contains(t, err.Error(), "duplicate_key at /name")
	})
}

func TestInput_Language(t *testing.T) {
	t.Cleanup(func() { i18n.SetLanguage("en") })
	out, _, err := run(t, `{}`, "input", "-f", writeSchema(t), "--lang", "ja")
	require.ErrorIs(t, err, errInvalid)
	assert.Contains(t, out, "必須項目です。")
}
