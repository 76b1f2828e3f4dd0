// Package casting is the type cast registry: an ordered list of named
// casters that coerce raw values into declared types.
//
// Lookups scan the list in registration order and return the first entry
// whose name or type identity matches. Defining a name twice appends a second
// entry; the earlier one keeps winning.
package casting

import (
	"fmt"
	"reflect"
	"sync"
)

// Caster coerces a raw value to a declared type.
type Caster func(value any) (any, error)

type entry struct {
	name     string
	identity reflect.Type
	caster   Caster
}

// Registry is an ordered, append-mostly list of casters.
type Registry struct {
	mu      sync.RWMutex
	entries []entry
}

// NewRegistry returns an empty registry. Most callers use Default.
func NewRegistry() *Registry { return &Registry{} }

// Define registers a caster for name and identity. A nil fn installs a
// caster that converts the raw value to identity.
func (r *Registry) Define(name string, identity reflect.Type, fn Caster) *Registry {
	if fn == nil {
		fn = convertTo(identity)
	}
	r.mu.Lock()
	r.entries = append(r.entries, entry{name: name, identity: identity, caster: fn})
	r.mu.Unlock()
	return r
}

// Get returns the first caster matching typeOrName, which is either a name
// or a reflect.Type.
func (r *Registry) Get(typeOrName any) (Caster, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, it := range r.entries {
		if matches(it, typeOrName) {
			return it.caster, true
		}
	}
	return nil, false
}

// Name returns the registered name for a type identity, or the name itself
// when typeOrName is already a registered name.
func (r *Registry) Name(typeOrName any) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, it := range r.entries {
		if matches(it, typeOrName) {
			return it.name, true
		}
	}
	return "", false
}

// Cast coerces value to typeOrName. It fails with *UnknownTypeError when no
// caster is registered.
func (r *Registry) Cast(typeOrName any, value any) (any, error) {
	fn, ok := r.Get(typeOrName)
	if !ok {
		return nil, &UnknownTypeError{Type: describeType(typeOrName)}
	}
	return fn(value)
}

// Resolve is Get with the miss reported as *UnknownTypeError.
func (r *Registry) Resolve(typeOrName any) (Caster, error) {
	fn, ok := r.Get(typeOrName)
	if !ok {
		return nil, &UnknownTypeError{Type: describeType(typeOrName)}
	}
	return fn, nil
}

func matches(it entry, typeOrName any) bool {
	switch t := typeOrName.(type) {
	case string:
		return t == it.name
	case reflect.Type:
		return t == it.identity
	default:
		return false
	}
}

func describeType(typeOrName any) string {
	switch t := typeOrName.(type) {
	case string:
		return t
	case reflect.Type:
		return t.String()
	default:
		return fmt.Sprint(typeOrName)
	}
}

// convertTo builds the default caster for an identity: reflect conversion of
// the raw value.
func convertTo(identity reflect.Type) Caster {
	return func(v any) (any, error) {
		if identity == nil {
			return v, nil
		}
		rv := reflect.ValueOf(v)
		if !rv.IsValid() {
			return reflect.Zero(identity).Interface(), nil
		}
		if rv.Type() == identity {
			return v, nil
		}
		if !rv.Type().ConvertibleTo(identity) {
			return nil, &CastError{Type: identity.String(), Value: v}
		}
		return rv.Convert(identity).Interface(), nil
	}
}

// Default is the process-wide registry holding the built-in casters.
var Default = NewRegistry()

// Define registers a caster on Default.
func Define(name string, identity reflect.Type, fn Caster) *Registry {
	return Default.Define(name, identity, fn)
}

// Get looks a caster up on Default.
func Get(typeOrName any) (Caster, bool) { return Default.Get(typeOrName) }

// Cast coerces value using Default.
func Cast(typeOrName any, value any) (any, error) { return Default.Cast(typeOrName, value) }

// Name resolves a registered name on Default.
func Name(typeOrName any) (string, bool) { return Default.Name(typeOrName) }

// ForDescriptors compiles a batch caster against Default.
func ForDescriptors(fields []Field) (Batch, error) { return Default.ForDescriptors(fields) }
