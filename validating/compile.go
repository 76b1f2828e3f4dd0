package validating

import (
	"errors"
	"sort"

	"github.com/codemix/modeling/obligations"
)

// FieldResult is the outcome of validating one field.
type FieldResult struct {
	Valid     bool
	Error     string
	Violation *Violation
}

// FieldFunc validates the value of one field.
type FieldFunc func(value any) FieldResult

// FieldRules pairs a field with its rules. A nil Rules slice means the
// field is not validated at all.
type FieldRules struct {
	Name  string
	Rules []Rule
}

// Getter reads fields from the object being validated.
type Getter interface {
	Get(field string) any
}

// Map adapts a plain map to Getter.
type Map map[string]any

func (m Map) Get(field string) any { return m[field] }

// ObjectResult is the outcome of validating a whole object. Errors and
// Violations are keyed by field.
type ObjectResult struct {
	Valid      bool
	Value      Getter
	Errors     map[string]string
	Violations map[string]*Violation
}

// ObjectFunc validates every field of an object.
type ObjectFunc func(obj Getter) ObjectResult

// ForDescriptor compiles the rules of one field. It returns a nil function
// when rules is nil. Validators run in order and stop at the first failure.
func (c *Catalogue) ForDescriptor(field string, rules []Rule) (FieldFunc, error) {
	if err := obligations.Precondition(field != "", "Name must be specified."); err != nil {
		return nil, err
	}
	if rules == nil {
		return nil, nil
	}
	validators := make([]Validator, 0, len(rules))
	for _, r := range rules {
		v, err := c.Build(r)
		if err != nil {
			return nil, err
		}
		validators = append(validators, v)
	}
	return func(value any) FieldResult {
		for _, v := range validators {
			err := v.Validate(value)
			if err == nil {
				continue
			}
			var viol *Violation
			if !errors.As(err, &viol) {
				viol = &Violation{Rule: "inline", Key: "default", Message: err.Error()}
			}
			return FieldResult{Error: viol.Message, Violation: viol}
		}
		return FieldResult{Valid: true}
	}, nil
}

// ForDescriptors compiles an object validator. Fields are checked in name
// order and every field is checked even after a failure.
func (c *Catalogue) ForDescriptors(fields []FieldRules) (ObjectFunc, error) {
	sorted := make([]FieldRules, len(fields))
	copy(sorted, fields)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	type compiled struct {
		name string
		fn   FieldFunc
	}
	var checks []compiled
	for _, f := range sorted {
		fn, err := c.ForDescriptor(f.Name, f.Rules)
		if err != nil {
			return nil, err
		}
		if fn != nil {
			checks = append(checks, compiled{f.Name, fn})
		}
	}
	return func(obj Getter) ObjectResult {
		res := ObjectResult{Valid: true, Value: obj, Errors: map[string]string{}, Violations: map[string]*Violation{}}
		for _, ch := range checks {
			var v any
			if obj != nil {
				v = obj.Get(ch.name)
			}
			if r := ch.fn(v); !r.Valid {
				res.Valid = false
				res.Errors[ch.name] = r.Error
				res.Violations[ch.name] = r.Violation
			}
		}
		return res
	}, nil
}
