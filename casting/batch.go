package casting

import "fmt"

// Field names a schema field and its declared type (a registered name or a
// reflect.Type). Fields without a type are skipped by the batch caster.
type Field struct {
	Name string
	Type any
	// Cast overrides the registry lookup when set.
	Cast Caster
}

// Target is an object whose fields a Batch coerces in place.
type Target interface {
	Lookup(field string) (any, bool)
	Store(field string, v any)
}

// Map adapts a plain map to Target.
type Map map[string]any

func (m Map) Lookup(field string) (any, bool) {
	v, ok := m[field]
	return v, ok
}

func (m Map) Store(field string, v any) { m[field] = v }

// Batch coerces every typed field of a target and returns the same target.
type Batch func(t Target) (Target, error)

type compiledField struct {
	name   string
	caster Caster
	err    error
}

// ForDescriptors resolves every typed field once and returns a Batch that
// applies the casters. Fields whose current value is absent or nil are left
// untouched. A type with no registered caster fails when the batch meets a
// value for it, not at compile time.
func (r *Registry) ForDescriptors(fields []Field) (Batch, error) {
	plan := make([]compiledField, 0, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("casting: field name must be specified")
		}
		if f.Cast != nil {
			plan = append(plan, compiledField{name: f.Name, caster: f.Cast})
			continue
		}
		if f.Type == nil {
			continue
		}
		fn, err := r.Resolve(f.Type)
		plan = append(plan, compiledField{name: f.Name, caster: fn, err: err})
	}
	return func(t Target) (Target, error) {
		for _, cf := range plan {
			cur, ok := t.Lookup(cf.name)
			if !ok || cur == nil {
				continue
			}
			if cf.err != nil {
				return t, &FieldError{Field: cf.name, Err: cf.err}
			}
			v, err := cf.caster(cur)
			if err != nil {
				return t, &FieldError{Field: cf.name, Err: err}
			}
			t.Store(cf.name, v)
		}
		return t, nil
	}, nil
}
