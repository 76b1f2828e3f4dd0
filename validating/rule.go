package validating

import (
	"github.com/codemix/modeling/obligations"
)

// Rule names a validator and its configuration, or carries an inline
// function.
type Rule struct {
	Name   string
	Config Properties
	Func   func(any) error
}

// Named refers to a catalogue validator with default configuration.
func Named(name string) Rule { return Rule{Name: name} }

// With refers to a catalogue validator configured by props.
func With(name string, props Properties) Rule { return Rule{Name: name, Config: props} }

// Inline wraps fn as an anonymous validator.
func Inline(fn func(any) error) Rule { return Rule{Func: fn} }

var errNoName = &obligations.PreconditionError{Message: "Validator name must be specified."}

// ParseRule reads the loose rule forms found in schema documents:
// "name", ["name", {config}], {"name": "...", config...}, a func(any) error
// or a Rule.
func ParseRule(v any) (Rule, error) {
	switch t := v.(type) {
	case Rule:
		if t.Name == "" && t.Func == nil {
			return Rule{}, errNoName
		}
		return t, nil
	case string:
		if t == "" {
			return Rule{}, errNoName
		}
		return Named(t), nil
	case func(any) error:
		return Inline(t), nil
	case []any:
		if len(t) == 0 {
			return Rule{}, errNoName
		}
		name, _ := t[0].(string)
		if name == "" {
			return Rule{}, errNoName
		}
		r := Named(name)
		if len(t) > 1 && t[1] != nil {
			props, ok := asProperties(t[1])
			if !ok {
				return Rule{}, &obligations.PreconditionError{Message: "Validator configuration must be an object."}
			}
			r.Config = props
		}
		return r, nil
	case []string:
		if len(t) == 0 || t[0] == "" {
			return Rule{}, errNoName
		}
		return Named(t[0]), nil
	case map[string]any, Properties:
		props, _ := asProperties(t)
		name, _ := props["name"].(string)
		if name == "" {
			return Rule{}, errNoName
		}
		cfg := make(Properties, len(props))
		for k, val := range props {
			if k != "name" {
				cfg[k] = val
			}
		}
		return With(name, cfg), nil
	}
	return Rule{}, errNoName
}

// ParseRules applies ParseRule to each element of list.
func ParseRules(list []any) ([]Rule, error) {
	out := make([]Rule, 0, len(list))
	for _, it := range list {
		r, err := ParseRule(it)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func asProperties(v any) (Properties, bool) {
	switch t := v.(type) {
	case Properties:
		return t, true
	case map[string]any:
		return Properties(t), true
	}
	return nil, false
}

// Describe renders the rule for a static document: the bare name when
// unconfigured, otherwise the configuration tagged with its name. Inline
// rules have no document form and yield nil.
func (r Rule) Describe() any {
	if r.Func != nil && r.Name == "" {
		return nil
	}
	if len(r.Config) == 0 {
		return r.Name
	}
	out := make(map[string]any, len(r.Config)+1)
	for k, v := range r.Config {
		out[k] = v
	}
	out["name"] = r.Name
	return out
}
