package modeling

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/codemix/modeling/casting"
	"github.com/codemix/modeling/obligations"
	"github.com/codemix/modeling/validating"
)

// Method is a member function. self is the instance, or the explicit
// binding target when the field declares one.
type Method func(self any, args ...any) (any, error)

// Descriptor declares one field of a schema.
type Descriptor struct {
	// Type is a registered caster name, a reflect.Type, or a *Model.
	Type any
	// Cast replaces the registry caster for Type.
	Cast casting.Caster

	// Default is assigned when an instance is built. DefaultFunc, when set,
	// produces the default instead.
	Default     any
	DefaultFunc func(inst *Instance, field string) any

	// Bind binds a method member to the instance; BindTo binds it to an
	// explicit target instead.
	Bind   bool
	BindTo any

	Rules []validating.Rule

	// nil flags take their defaults: enumerable unless a method,
	// configurable, writable unless Get or Set is given. Enumerable is
	// ignored for methods, which keys, toJSON and forEach never list.
	Enumerable   *bool
	Writable     *bool
	Configurable *bool

	Get func(inst *Instance) any
	Set func(inst *Instance, v any) error

	// Value is a constant member. A Method value makes the field a method.
	Value any

	Label       string
	Description string
	// Meta is carried into Describe untouched.
	Meta map[string]any
}

// Bool returns a pointer to b, for the Descriptor flags.
func Bool(b bool) *bool { return &b }

// Property is a named Descriptor.
type Property struct {
	Name string
	Descriptor
}

// Prop is shorthand for a Property.
func Prop(name string, d Descriptor) Property { return Property{Name: name, Descriptor: d} }

// Schema is an ordered list of properties.
type Schema []Property

// Lookup returns the property named name.
func (s Schema) Lookup(name string) (Descriptor, bool) {
	for _, p := range s {
		if p.Name == name {
			return p.Descriptor, true
		}
	}
	return Descriptor{}, false
}

// with returns a copy of s where name is replaced in place or appended.
func (s Schema) with(p Property) Schema {
	out := make(Schema, len(s), len(s)+1)
	copy(out, s)
	for i := range out {
		if out[i].Name == p.Name {
			out[i] = p
			return out
		}
	}
	return append(out, p)
}

func asMethod(v any) (Method, bool) {
	switch fn := v.(type) {
	case Method:
		return fn, fn != nil
	case func(self any, args ...any) (any, error):
		return fn, fn != nil
	}
	return nil, false
}

// field is a normalized descriptor.
type field struct {
	name string
	desc Descriptor

	enumerable   bool
	writable     bool
	configurable bool

	method Method
	// generated fields are stored in the instance state through an
	// accessor that applies caster.
	generated bool
	caster    casting.Caster
	typed     bool

	check validating.FieldFunc
}

func flag(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func (m *Model) normalize(p Property) (*field, error) {
	if err := obligations.Precondition(p.Name != "", "Field name must be specified."); err != nil {
		return nil, err
	}
	d := p.Descriptor
	f := &field{name: p.Name, desc: d}
	f.method, _ = asMethod(d.Value)
	hasAccessor := d.Get != nil || d.Set != nil

	f.enumerable = flag(d.Enumerable, f.method == nil)
	f.configurable = flag(d.Configurable, true)
	f.writable = flag(d.Writable, !hasAccessor)

	if f.method == nil {
		if err := obligations.Preconditionf(!d.Bind && d.BindTo == nil, "Only methods can be bound: %s", p.Name); err != nil {
			return nil, err
		}
	}
	f.generated = f.method == nil && !hasAccessor && f.writable

	switch {
	case d.Cast != nil:
		f.caster, f.typed = d.Cast, true
	case d.Type != nil:
		f.typed = true
		fn, err := m.resolveCaster(d.Type)
		if errors.Is(err, obligations.ErrPrecondition) {
			return nil, err
		}
		f.caster = fn
	}
	if err := m.checkDefault(f); err != nil {
		return nil, err
	}

	check, err := m.catalogue.ForDescriptor(p.Name, d.Rules)
	if err != nil {
		return nil, err
	}
	f.check = check
	return f, nil
}

// checkDefault casts a literal default once so a schema whose default can
// never be assigned fails to compile instead of failing every New.
func (m *Model) checkDefault(f *field) error {
	d := f.desc
	if d.Default == nil || d.DefaultFunc != nil {
		return nil
	}
	if f.method != nil {
		return &obligations.PreconditionError{Message: fmt.Sprintf("Methods cannot have a default: %s", f.name)}
	}
	// A model typed by itself has no program to cast with yet.
	if f.caster == nil || d.Type == m {
		return nil
	}
	if _, err := f.caster(d.Default); err != nil {
		return &obligations.PreconditionError{Message: fmt.Sprintf("Invalid default for %s: %v", f.name, err)}
	}
	return nil
}

func (m *Model) resolveCaster(t any) (casting.Caster, error) {
	switch tt := t.(type) {
	case *Model:
		return func(v any) (any, error) {
			inst, err := tt.Cast(v)
			if err != nil {
				return nil, err
			}
			return inst, nil
		}, nil
	case string, reflect.Type:
		return m.casts.Resolve(tt)
	}
	return nil, &obligations.PreconditionError{Message: "Type must be a type name, a reflect.Type or a model."}
}

// cast applies the field caster, resolving it again when the type was not
// registered at compile time.
func (f *field) cast(m *Model, v any) (any, error) {
	if v == nil || !f.typed {
		return v, nil
	}
	fn := f.caster
	if fn == nil {
		var err error
		if fn, err = m.resolveCaster(f.desc.Type); err != nil {
			return nil, err
		}
	}
	return fn(v)
}

// typeName names the field type for documents.
func (f *field) typeName(m *Model) string {
	switch t := f.desc.Type.(type) {
	case nil:
		return ""
	case string:
		return t
	case *Model:
		return t.Name()
	case reflect.Type:
		if n, ok := m.casts.Name(t); ok {
			return n
		}
		return t.String()
	}
	return ""
}
