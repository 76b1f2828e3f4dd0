// Package validating holds the validator catalogue and compiles per-field
// and whole-object validation functions from descriptor rules.
//
// A validator is configured once from Properties and then checks values,
// returning nil when a value is acceptable or a *Violation carrying a
// human-readable message. Messages are templates with {{token}}
// placeholders, resolved from the i18n dictionary when the validator is
// created and overridable per instance through the "message" and
// "messages" properties.
package validating

import (
	"errors"
	"regexp"

	"github.com/codemix/modeling/i18n"
	"github.com/codemix/modeling/internal/value"
	"github.com/codemix/modeling/obligations"
)

// Validator checks a single value.
type Validator interface {
	Validate(value any) error
}

// Violation is the error returned by a failing validator.
type Violation struct {
	// Rule is the validator kind, for example "number" or "inline".
	Rule string
	// Key selects the message inside the validator, for example "tooSmall".
	Key     string
	Message string
	Params  map[string]string
}

func (v *Violation) Error() string { return v.Message }

// Properties configure a validator instance.
type Properties map[string]any

// Base carries the behavior shared by all built-in validators. Custom
// validators can embed it through NewBase.
type Base struct {
	Kind       string
	AllowEmpty bool
	Messages   map[string]string
}

// NewBase resolves the common properties for a validator of the given kind.
// keys lists the message keys the validator uses; their templates come
// from the i18n dictionary under "<kind>.<key>".
func NewBase(kind string, props Properties, allowEmpty bool, keys ...string) (Base, error) {
	b := Base{Kind: kind, AllowEmpty: allowEmpty, Messages: make(map[string]string, len(keys)+1)}
	if len(keys) == 0 {
		keys = []string{"default"}
	}
	for _, k := range keys {
		b.Messages[k] = i18n.T(kind+"."+k, nil)
	}
	if v, ok := props["allowEmpty"]; ok {
		ae, isBool := v.(bool)
		if err := obligations.Precondition(isBool, "allowEmpty must be a boolean."); err != nil {
			return Base{}, err
		}
		b.AllowEmpty = ae
	}
	if v, ok := props["messages"]; ok {
		switch m := v.(type) {
		case map[string]string:
			for k, msg := range m {
				b.Messages[k] = msg
			}
		case map[string]any:
			for k, msg := range m {
				s, isString := msg.(string)
				if err := obligations.Precondition(isString, "Message must be a string."); err != nil {
					return Base{}, err
				}
				b.Messages[k] = s
			}
		default:
			return Base{}, &obligations.PreconditionError{Message: "messages must be an object."}
		}
	}
	if v, ok := props["message"]; ok {
		s, isString := v.(string)
		if err := obligations.Precondition(isString, "Message must be a string."); err != nil {
			return Base{}, err
		}
		b.Messages["default"] = s
	}
	return b, nil
}

// IsEmpty reports whether v counts as empty.
func (b *Base) IsEmpty(v any) bool { return value.IsEmpty(v) }

// Skip reports whether v is empty and empty values are allowed.
func (b *Base) Skip(v any) bool { return b.AllowEmpty && value.IsEmpty(v) }

var tokenPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Prepare renders the message stored under key. Tokens absent from refs
// render as empty text.
func (b *Base) Prepare(key string, refs map[string]string) string {
	msg, ok := b.Messages[key]
	if !ok {
		msg = b.Messages["default"]
	}
	return tokenPattern.ReplaceAllStringFunc(msg, func(tok string) string {
		return refs[tok[2:len(tok)-2]]
	})
}

// Fail builds the Violation for key.
func (b *Base) Fail(key string, refs map[string]string) error {
	return &Violation{Rule: b.Kind, Key: key, Message: b.Prepare(key, refs), Params: refs}
}

// funcValidator adapts a plain function; used for inline rules and
// Catalogue.DefineFunc.
type funcValidator struct {
	kind string
	fn   func(any) error
}

func (f funcValidator) Validate(v any) error {
	err := f.fn(v)
	if err == nil {
		return nil
	}
	var viol *Violation
	if errors.As(err, &viol) {
		return viol
	}
	return &Violation{Rule: f.kind, Key: "default", Message: err.Error()}
}
