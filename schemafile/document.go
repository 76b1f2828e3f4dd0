package schemafile

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/codemix/modeling"
	"github.com/codemix/modeling/obligations"
	"github.com/codemix/modeling/validating"
)

type document struct {
	name    string
	extends string
	line    int
	statics map[string]any
	schema  modeling.Schema
}

func parseDocument(n *yaml.Node) (*document, error) {
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("schemafile: line %d: expected a model document", n.Line)
	}
	doc := &document{line: n.Line}
	err := eachPair(n, func(key string, v *yaml.Node) error {
		switch key {
		case "name":
			return v.Decode(&doc.name)
		case "extends":
			return v.Decode(&doc.extends)
		case "statics":
			m, err := decodeMap(v)
			doc.statics = m
			return err
		case "properties":
			if v.Kind != yaml.MappingNode {
				return fmt.Errorf("line %d: properties must be a mapping", v.Line)
			}
			return eachPair(v, func(field string, pv *yaml.Node) error {
				d, err := parseDescriptor(pv)
				if err != nil {
					return fmt.Errorf("property %s: %w", field, err)
				}
				doc.schema = append(doc.schema, modeling.Prop(field, d))
				return nil
			})
		}
		return &obligations.PreconditionError{Message: fmt.Sprintf("line %d: unknown document key %q", v.Line, key)}
	})
	if err != nil {
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	if doc.name == "" {
		return nil, &obligations.PreconditionError{Message: fmt.Sprintf("line %d: Model name must be specified.", n.Line)}
	}
	return doc, nil
}

// parseDescriptor reads one property. Unrecognised keys are kept as Meta.
func parseDescriptor(n *yaml.Node) (modeling.Descriptor, error) {
	var d modeling.Descriptor
	if n.Kind == yaml.ScalarNode {
		var t string
		if err := n.Decode(&t); err != nil {
			return d, err
		}
		d.Type = t
		return d, nil
	}
	if n.Kind != yaml.MappingNode {
		return d, fmt.Errorf("line %d: expected a type name or a mapping", n.Line)
	}
	err := eachPair(n, func(key string, v *yaml.Node) error {
		switch key {
		case "type":
			var t string
			if err := v.Decode(&t); err != nil {
				return err
			}
			d.Type = t
		case "default":
			val, err := decodeValue(v)
			d.Default = val
			return err
		case "bind":
			val, err := decodeValue(v)
			if err != nil {
				return err
			}
			if b, ok := val.(bool); ok {
				d.Bind = b
			} else {
				d.BindTo = val
			}
		case "rules":
			val, err := decodeValue(v)
			if err != nil {
				return err
			}
			list, ok := val.([]any)
			if !ok {
				list = []any{val}
			}
			rules, err := validating.ParseRules(list)
			if err != nil {
				return fmt.Errorf("line %d: %w", v.Line, err)
			}
			d.Rules = rules
		case "enumerable", "writable", "configurable":
			var b bool
			if err := v.Decode(&b); err != nil {
				return err
			}
			switch key {
			case "enumerable":
				d.Enumerable = modeling.Bool(b)
			case "writable":
				d.Writable = modeling.Bool(b)
			default:
				d.Configurable = modeling.Bool(b)
			}
		case "label":
			return v.Decode(&d.Label)
		case "description":
			return v.Decode(&d.Description)
		default:
			val, err := decodeValue(v)
			if err != nil {
				return err
			}
			if d.Meta == nil {
				d.Meta = map[string]any{}
			}
			d.Meta[key] = val
		}
		return nil
	})
	return d, err
}

// eachPair walks a mapping node in document order.
func eachPair(n *yaml.Node, fn func(key string, v *yaml.Node) error) error {
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: keys must be strings", k.Line)
		}
		if err := fn(k.Value, v); err != nil {
			return err
		}
	}
	return nil
}

func decodeValue(n *yaml.Node) (any, error) {
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	return normalizeValue(v), nil
}

func decodeMap(n *yaml.Node) (map[string]any, error) {
	v, err := decodeValue(n)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok && v != nil {
		return nil, fmt.Errorf("line %d: expected a mapping", n.Line)
	}
	return m, nil
}

// normalizeValue turns YAML maps with non-string keys into map[string]any
// so values read the same as decoded JSON.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[fmt.Sprint(k)] = normalizeValue(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = normalizeValue(t[i])
		}
		return arr
	}
	return v
}
