package modeling

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/codemix/modeling/casting"
	"github.com/codemix/modeling/internal/value"
	js "github.com/codemix/modeling/jsonschema"
)

// JSONSchema projects the model onto a JSON Schema object. Field types map
// onto JSON types and the builtin rules onto keywords; rules with no
// keyword counterpart are left out.
func (m *Model) JSONSchema() (*js.Schema, error) {
	s, err := m.jsonSchema(map[*Model]bool{})
	if err != nil {
		return nil, err
	}
	s.SchemaURI = js.Draft
	return s, nil
}

func (m *Model) jsonSchema(seen map[*Model]bool) (*js.Schema, error) {
	if seen[m] {
		// recursive reference
		return &js.Schema{Type: "object", Title: m.name}, nil
	}
	seen[m] = true
	defer delete(seen, m)

	p := m.program()
	out := &js.Schema{
		Type:                 "object",
		Title:                m.name,
		Properties:           make(map[string]*js.Schema, len(p.fields)),
		AdditionalProperties: false,
	}
	for _, f := range p.fields {
		if f.method != nil || !f.enumerable {
			continue
		}
		ps, required, err := f.jsonSchema(m, seen)
		if err != nil {
			return nil, fmt.Errorf("modeling: %s.%s: %w", m.name, f.name, err)
		}
		out.Properties[f.name] = ps
		if required {
			out.Required = append(out.Required, f.name)
		}
	}
	sort.Strings(out.Required)
	return out, nil
}

func (f *field) jsonSchema(m *Model, seen map[*Model]bool) (*js.Schema, bool, error) {
	d := f.desc
	var s *js.Schema
	if nested, ok := d.Type.(*Model); ok {
		var err error
		if s, err = nested.jsonSchema(seen); err != nil {
			return nil, false, err
		}
	} else {
		s = &js.Schema{}
		switch f.typeName(m) {
		case "string":
			s.Type = "string"
		case "number":
			s.Type = "number"
		case "boolean":
			s.Type = "boolean"
		case "array":
			s.Type = "array"
		case "object":
			s.Type = "object"
		case "date":
			s.Type, s.Format = "string", "date-time"
		case "regexp":
			s.Type, s.Format = "string", "regex"
		}
	}
	if d.Label != "" {
		s.Title = d.Label
	}
	s.Description = d.Description
	if d.Default != nil && isJSONLiteral(d.Default) {
		s.Default = d.Default
	}

	required := false
	for _, r := range d.Rules {
		switch r.Name {
		case "required":
			required = true
		case "type":
			if t, ok := r.Config["type"].(string); ok && s.Type == "" {
				s.Type = t
			}
		case "length":
			minV, hasMin := value.Number(r.Config["min"])
			maxV, hasMax := value.Number(r.Config["max"])
			if s.Type == "array" {
				if hasMin {
					s.MinItems = js.Int(int(minV))
				}
				if hasMax {
					s.MaxItems = js.Int(int(maxV))
				}
				continue
			}
			if hasMin {
				s.MinLength = js.Int(int(minV))
			}
			if hasMax {
				s.MaxLength = js.Int(int(maxV))
			}
		case "number":
			if s.Type == "" {
				s.Type = "number"
			}
			if v, ok := value.Number(r.Config["min"]); ok {
				s.Minimum = js.Float(v)
			}
			if v, ok := value.Number(r.Config["max"]); ok {
				s.Maximum = js.Float(v)
			}
		case "boolean":
			if s.Type == "" {
				s.Type = "boolean"
			}
		case "regexp":
			if pat := patternSource(r.Config["pattern"]); pat != "" {
				s.Pattern = pat
			}
		case "range":
			if in, ok := value.Slice(r.Config["in"]); ok {
				s.Enum = in
			}
			if between, ok := value.Slice(r.Config["between"]); ok && len(between) == 2 {
				if v, ok := value.Number(between[0]); ok {
					s.Minimum = js.Float(v)
				}
				if v, ok := value.Number(between[1]); ok {
					s.Maximum = js.Float(v)
				}
			}
		case "url":
			s.Format = "uri"
		case "email":
			s.Format = "email"
		case "hostname":
			s.Format = "hostname"
		case "ip":
			v4, v6 := true, true
			if b, ok := r.Config["v4"].(bool); ok {
				v4 = b
			}
			if b, ok := r.Config["v6"].(bool); ok {
				v6 = b
			}
			switch {
			case v4 && !v6:
				s.Format = "ipv4"
			case v6 && !v4:
				s.Format = "ipv6"
			}
		case "date":
			s.Format = "date"
		case "time":
			s.Format = "time"
		case "datetime":
			s.Format = "date-time"
		}
	}
	return s, required, nil
}

func patternSource(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	}
	return ""
}

// isJSONLiteral reports whether v survives as a JSON Schema default.
// Funcs and channels have no JSON form.
func isJSONLiteral(v any) bool {
	switch reflect.TypeOf(v).Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return false
	}
	if reflect.TypeOf(v) == casting.RegexpType {
		return false
	}
	return true
}
