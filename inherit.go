package modeling

import (
	"fmt"
	"sort"

	"github.com/codemix/modeling/obligations"
)

// Inherits makes parent the ancestor of m. Statics and fields m lacks are
// copied from parent, with m's own fields first. Generated instance
// routines of m adopt parent's hand-written ones. Static routines stay m's
// own and are rebuilt over the merged fields unless m defines them by hand.
func (m *Model) Inherits(parent *Model) error {
	if err := obligations.Precondition(parent != nil, "Parent model must be specified."); err != nil {
		return err
	}
	for mm := parent; mm != nil; mm = mm.Parent() {
		if mm == m {
			return &obligations.PreconditionError{Message: fmt.Sprintf("%s cannot inherit from its own descendant %s.", m.name, parent.name)}
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	pp := parent.program()
	cur := m.program()

	statics := copyStatics(cur.statics)
	for k, v := range pp.statics {
		if _, own := statics[k]; !own {
			statics[k] = v
		}
	}

	schema := append(Schema(nil), cur.schema...)
	for _, prop := range pp.schema {
		if _, own := cur.schema.Lookup(prop.Name); !own {
			schema = append(schema, prop)
		}
	}

	adopted := map[Routine]any{}
	for r, fn := range pp.overrides {
		if r.static() {
			continue
		}
		if _, own := m.overrides[r]; !own {
			adopted[r] = fn
		}
	}

	prev := m.overrides
	m.overrides = mergeOverrides(prev, adopted)
	if err := m.rebuild(schema, statics, parent); err != nil {
		m.overrides = prev
		return fmt.Errorf("modeling: %s inherits %s: %w", m.name, parent.name, err)
	}
	return nil
}

// Extend compiles a new model from schema and makes m its parent. The new
// model shares m's caster registry and validator catalogue unless opts
// choose others.
func (m *Model) Extend(name string, schema Schema, opts ...Option) (*Model, error) {
	if name == "" {
		name = m.name
	}
	all := append([]Option{WithCastRegistry(m.casts), WithCatalogue(m.catalogue)}, opts...)
	child, err := Create(name, schema, all...)
	if err != nil {
		return nil, err
	}
	if err := child.Inherits(m); err != nil {
		return nil, err
	}
	return child, nil
}

// DefineProperty adds or replaces field name and rebuilds the generated
// routines.
func (m *Model) DefineProperty(name string, d Descriptor) error {
	return m.DefineProperties(Schema{Prop(name, d)})
}

// DefineProperties adds or replaces several fields at once. Nothing changes
// when any of them fails to compile.
func (m *Model) DefineProperties(props Schema) error {
	if len(props) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	cur := m.program()
	schema := cur.schema
	for _, p := range props {
		if err := obligations.Precondition(p.Name != "", "Field name must be specified."); err != nil {
			return err
		}
		if old, ok := schema.Lookup(p.Name); ok && !flag(old.Configurable, true) {
			return &obligations.PreconditionError{Message: fmt.Sprintf("Cannot redefine property: %s", p.Name)}
		}
		schema = schema.with(p)
	}
	if err := m.rebuild(schema, cur.statics, cur.parent); err != nil {
		return fmt.Errorf("modeling: %s: %w", m.name, err)
	}
	return nil
}

// Mixin adds members to m in name order. Methods become method members,
// Descriptors are used as given and any other value becomes a field
// defaulting to it.
func (m *Model) Mixin(members map[string]any) error {
	names := make([]string, 0, len(members))
	for k := range members {
		names = append(names, k)
	}
	sort.Strings(names)
	props := make(Schema, 0, len(names))
	for _, name := range names {
		switch v := members[name].(type) {
		case Descriptor:
			props = append(props, Prop(name, v))
		default:
			if fn, ok := asMethod(v); ok {
				props = append(props, Prop(name, Descriptor{Value: fn}))
			} else {
				props = append(props, Prop(name, Descriptor{Default: v}))
			}
		}
	}
	return m.DefineProperties(props)
}

// Override installs hand-written routines or statics after creation.
// Registry and catalogue options are ignored.
func (m *Model) Override(opts ...Option) error {
	o := collect(opts)
	m.mu.Lock()
	defer m.mu.Unlock()

	cur := m.program()
	statics := copyStatics(cur.statics)
	for k, v := range o.statics {
		statics[k] = v
	}
	prev := m.overrides
	m.overrides = mergeOverrides(prev, o.overrides)
	if err := m.rebuild(cur.schema, statics, cur.parent); err != nil {
		m.overrides = prev
		return err
	}
	return nil
}

func copyStatics(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func mergeOverrides(base, more map[Routine]any) map[Routine]any {
	out := make(map[Routine]any, len(base)+len(more))
	for r, fn := range base {
		out[r] = fn
	}
	for r, fn := range more {
		if fn == nil {
			delete(out, r)
			continue
		}
		out[r] = fn
	}
	return out
}
