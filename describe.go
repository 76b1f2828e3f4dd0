package modeling

import (
	gojson "github.com/goccy/go-json"
)

// Document is the static description of a model. It is what Describe
// returns and what a model encodes to.
type Document struct {
	Context    any                       `json:"@context,omitempty" yaml:"@context,omitempty"`
	ID         any                       `json:"@id,omitempty" yaml:"@id,omitempty"`
	Type       any                       `json:"@type,omitempty" yaml:"@type,omitempty"`
	Name       string                    `json:"name" yaml:"name"`
	Properties map[string]map[string]any `json:"properties" yaml:"properties"`
}

// genDescribe renders the descriptive keys of every field. Accessors,
// flags, casters and generator defaults have no document form.
func (p *program) genDescribe() DescribeFunc {
	return func(m *Model) Document {
		doc := Document{
			Context:    p.statics["@context"],
			ID:         p.statics["@id"],
			Type:       p.statics["@type"],
			Name:       m.name,
			Properties: make(map[string]map[string]any, len(p.fields)),
		}
		for _, f := range p.fields {
			doc.Properties[f.name] = f.describe(m)
		}
		return doc
	}
}

func (f *field) describe(m *Model) map[string]any {
	d := f.desc
	out := map[string]any{}
	for k, v := range d.Meta {
		out[k] = v
	}
	if t := f.typeName(m); t != "" {
		out["type"] = t
	}
	if d.Default != nil {
		out["default"] = d.Default
	}
	if len(d.Rules) > 0 {
		rules := make([]any, 0, len(d.Rules))
		for _, r := range d.Rules {
			if v := r.Describe(); v != nil {
				rules = append(rules, v)
			}
		}
		out["rules"] = rules
	}
	if d.Label != "" {
		out["label"] = d.Label
	}
	if d.Description != "" {
		out["description"] = d.Description
	}
	if d.BindTo != nil {
		out["bind"] = d.BindTo
	} else if d.Bind {
		out["bind"] = true
	}
	return out
}

// MarshalJSON encodes the static document.
func (m *Model) MarshalJSON() ([]byte, error) {
	return gojson.Marshal(m.Describe())
}

// MarshalYAML lets yaml.v3 encode a model as its static document.
func (m *Model) MarshalYAML() (any, error) {
	return m.Describe(), nil
}
