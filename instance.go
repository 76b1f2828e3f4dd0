package modeling

import (
	"fmt"

	gojson "github.com/goccy/go-json"

	"github.com/codemix/modeling/obligations"
)

// Instance is a value of a model. Field values live in a private state
// container reached through the compiled accessors.
type Instance struct {
	model *Model
	state map[string]any
	bound map[string]func(args ...any) (any, error)
}

// Model returns the model inst was built from.
func (inst *Instance) Model() *Model { return inst.model }

// TypeName returns the model name.
func (inst *Instance) TypeName() string {
	if inst.model == nil {
		return ""
	}
	return inst.model.name
}

func (inst *Instance) field(name string) (*field, error) {
	obligations.MustPrecondition(inst.model != nil, "Instance has no model.")
	f, ok := inst.model.program().index[name]
	if !ok {
		return nil, &UnknownFieldError{Model: inst.model.name, Field: name}
	}
	return f, nil
}

// Get returns the value of field, or nil when it is unset or unknown.
func (inst *Instance) Get(field string) any {
	f, err := inst.field(field)
	if err != nil {
		return nil
	}
	return inst.get(f)
}

// Lookup is Get that also reports whether the field holds a value.
func (inst *Instance) Lookup(field string) (any, bool) {
	f, err := inst.field(field)
	if err != nil {
		return nil, false
	}
	return inst.lookup(f)
}

// Set writes field through its accessor. Typed fields cast v first; a nil v
// is stored as is.
func (inst *Instance) Set(field string, v any) error {
	f, err := inst.field(field)
	if err != nil {
		return err
	}
	return inst.set(f, v)
}

// MustSet is Set that panics on error.
func (inst *Instance) MustSet(field string, v any) *Instance {
	if err := inst.Set(field, v); err != nil {
		panic(err)
	}
	return inst
}

func (inst *Instance) get(f *field) any {
	v, _ := inst.lookup(f)
	return v
}

func (inst *Instance) lookup(f *field) (any, bool) {
	switch {
	case f.desc.Get != nil:
		v := f.desc.Get(inst)
		return v, v != nil
	case f.method != nil:
		if fn, ok := inst.bound[f.name]; ok {
			return fn, true
		}
		return f.method, true
	}
	if v, ok := inst.state[f.name]; ok {
		return v, true
	}
	if !f.generated && f.desc.Value != nil {
		return f.desc.Value, true
	}
	return nil, false
}

func (inst *Instance) set(f *field, v any) error {
	if f.desc.Set == nil && !f.generated {
		return &ReadOnlyError{Model: inst.model.name, Field: f.name}
	}
	cv, err := f.cast(inst.model, v)
	if err != nil {
		return err
	}
	return inst.assign(f, cv)
}

// assign stores an already cast value.
func (inst *Instance) assign(f *field, v any) error {
	switch {
	case f.desc.Set != nil:
		return f.desc.Set(inst, v)
	case f.generated:
		inst.state[f.name] = v
		return nil
	}
	return &ReadOnlyError{Model: inst.model.name, Field: f.name}
}

// assignDefault writes a default. Read-only data fields accept their
// default directly into the state container.
func (inst *Instance) assignDefault(f *field, v any) error {
	if f.desc.Set != nil || f.generated {
		return inst.set(f, v)
	}
	if f.method != nil {
		return &ReadOnlyError{Model: inst.model.name, Field: f.name}
	}
	inst.state[f.name] = v
	return nil
}

func (inst *Instance) bind(f *field, target any) {
	if inst.bound == nil {
		inst.bound = map[string]func(args ...any) (any, error){}
	}
	method := f.method
	inst.bound[f.name] = func(args ...any) (any, error) { return method(target, args...) }
}

// Call invokes the method member name.
func (inst *Instance) Call(name string, args ...any) (any, error) {
	f, err := inst.field(name)
	if err != nil {
		return nil, err
	}
	if f.method == nil {
		return nil, fmt.Errorf("modeling: %s.%s is not a method", inst.model.name, name)
	}
	if fn, ok := inst.bound[name]; ok {
		return fn(args...)
	}
	return f.method(inst, args...)
}

// Configure assigns every present, settable field of config.
func (inst *Instance) Configure(config map[string]any) error {
	return inst.model.program().configure(inst, config)
}

// ToJSON returns the enumerable fields.
func (inst *Instance) ToJSON() map[string]any {
	return inst.model.program().toJSON(inst)
}

// ForEach calls fn for every field holding a value, in schema order.
func (inst *Instance) ForEach(fn func(value any, field string, inst *Instance)) {
	inst.model.program().forEach(inst, fn)
}

// Keys returns the enumerable field names in sorted order.
func (inst *Instance) Keys() []string {
	return inst.model.program().keys(inst)
}

// MarshalJSON encodes ToJSON.
func (inst *Instance) MarshalJSON() ([]byte, error) {
	return gojson.Marshal(inst.ToJSON())
}

// UnmarshalJSON configures inst from a JSON object. inst must come from a
// model.
func (inst *Instance) UnmarshalJSON(data []byte) error {
	if inst.model == nil {
		return fmt.Errorf("modeling: cannot decode into an instance without a model")
	}
	config, err := decodeObject(data)
	if err != nil {
		return err
	}
	return inst.Configure(config)
}

// stateTarget exposes the state container to the batch caster.
type stateTarget struct{ inst *Instance }

func (t stateTarget) Lookup(field string) (any, bool) {
	v, ok := t.inst.state[field]
	return v, ok
}

func (t stateTarget) Store(field string, v any) { t.inst.state[field] = v }
