package schemafile_test

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/codemix/modeling"
	"github.com/codemix/modeling/obligations"
	"github.com/codemix/modeling/schemafile"
)

const people = `
name: Person
extends: Thing
statics: {"@type": "Person"}
properties:
  name: {type: string, label: Name, rules: [required]}
  age:
    type: number
    default: 18
    unit: years
    rules:
      - {name: number, min: 0, max: 150}
---
name: Thing
statics: {"@context": "http://schema.org/"}
properties:
  url: string
  id: {writable: false, enumerable: false}
`

func names(m *modeling.Model) []string {
	var out []string
	for _, p := range m.Schema() {
		out = append(out, p.Name)
	}
	return out
}

func TestLoad(t *testing.T) {
	set, err := schemafile.Load([]byte(people))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Person", "Thing"}, set.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	person, _ := set.Get("Person")
	thing, _ := set.Get("Thing")
	if person.Parent() != thing {
		t.Fatal("extends not resolved")
	}
	if diff := cmp.Diff([]string{"name", "age", "url", "id"}, names(person)); diff != "" {
		t.Errorf("field order mismatch (-want +got):\n%s", diff)
	}

	doc := person.Describe()
	if doc.Context != "http://schema.org/" || doc.Type != "Person" {
		t.Errorf("statics = %v %v", doc.Context, doc.Type)
	}
	wantAge := map[string]any{
		"type":    "number",
		"default": 18,
		"unit":    "years",
		"rules":   []any{map[string]any{"name": "number", "min": 0, "max": 150}},
	}
	if diff := cmp.Diff(wantAge, doc.Properties["age"]); diff != "" {
		t.Errorf("age mismatch (-want +got):\n%s", diff)
	}

	res, err := person.Input(map[string]any{"age": "200", "url": 5})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"name": "Cannot be empty.", "age": "Must be at most 150."}
	if diff := cmp.Diff(want, res.Errors); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
	if got := res.Value.Get("url"); got != "5" {
		t.Errorf("url = %#v", got)
	}
}

func TestLoad_JSONArray(t *testing.T) {
	data := `[{"name": "A", "properties": {"x": {"type": "number"}}}, {"name": "B", "extends": "A"}]`
	set, err := schemafile.Load([]byte(data))
	if err != nil {
		t.Fatal(err)
	}
	b, ok := set.Get("B")
	if !ok || set.Len() != 2 {
		t.Fatalf("set = %v", set.Names())
	}
	if diff := cmp.Diff([]string{"x"}, names(b)); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_ExternalParent(t *testing.T) {
	base := modeling.MustCreate("Base", modeling.Schema{modeling.Prop("id", modeling.Descriptor{Type: "string"})})
	set, err := schemafile.Load([]byte("name: Leaf\nextends: Base\n"), schemafile.WithParents(base))
	if err != nil {
		t.Fatal(err)
	}
	leaf, _ := set.Get("Leaf")
	if leaf.Parent() != base {
		t.Error("external parent not used")
	}
	if _, ok := set.Get("Base"); ok {
		t.Error("external parents are not part of the set")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name         string
		data         string
		precondition bool
	}{
		{"unknown parent", "name: A\nextends: Nowhere\n", true},
		{"cycle", "name: A\nextends: B\n---\nname: B\nextends: A\n", true},
		{"missing name", "properties: {a: string}\n", true},
		{"duplicate model", "name: A\n---\nname: A\n", true},
		{"unknown key", "name: A\ncolour: red\n", true},
		{"unknown validator", "name: A\nproperties:\n  a: {rules: [nope]}\n", true},
		{"rule without name", "name: A\nproperties:\n  a: {rules: [{min: 1}]}\n", true},
		{"scalar document", "just text\n", false},
		{"bad yaml", "name: [\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schemafile.Load([]byte(tt.data))
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := errors.Is(err, obligations.ErrPrecondition); got != tt.precondition {
				t.Errorf("precondition = %v, want %v (%v)", got, tt.precondition, err)
			}
		})
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{"models/people.yaml": {Data: []byte(people)}}
	set, err := schemafile.LoadFS(fsys, "models/people.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if set.Len() != 2 {
		t.Errorf("len = %d", set.Len())
	}
	if _, err := schemafile.LoadFS(fsys, "missing.yaml"); err == nil {
		t.Error("expected an error for a missing file")
	}
}
