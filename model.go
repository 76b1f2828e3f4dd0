package modeling

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/codemix/modeling/casting"
	"github.com/codemix/modeling/obligations"
	"github.com/codemix/modeling/validating"
)

// Origin tells whether a routine was synthesized from the schema or
// supplied by hand.
type Origin int

const (
	Generated Origin = iota
	UserDefined
)

func (o Origin) String() string {
	if o == UserDefined {
		return "user-defined"
	}
	return "generated"
}

// Routine identifies one compiled routine slot of a model.
type Routine int

const (
	RoutineInitialize Routine = iota
	RoutineApplyDefaults
	RoutineConfigure
	RoutineToJSON
	RoutineForEach
	RoutineKeys
	RoutineCast
	RoutineValidate
	RoutineInput
	RoutineDescribe
	routineCount
)

var routineNames = [routineCount]string{
	"initialize", "applyDefaults", "configure", "toJSON", "forEach",
	"keys", "cast", "validate", "input", "describe",
}

// static reports whether r runs on the model rather than an instance.
func (r Routine) static() bool { return r >= RoutineCast }

func (r Routine) String() string {
	if r < 0 || r >= routineCount {
		return fmt.Sprintf("Routine(%d)", int(r))
	}
	return routineNames[r]
}

// Routine signatures. Instance routines receive the instance, static
// routines the model they run for, which is the child model when a routine
// was inherited.
type (
	InitializeFunc    func(inst *Instance) error
	ApplyDefaultsFunc func(inst *Instance) error
	ConfigureFunc     func(inst *Instance, config map[string]any) error
	ToJSONFunc        func(inst *Instance) map[string]any
	ForEachFunc       func(inst *Instance, fn func(value any, field string, inst *Instance))
	KeysFunc          func(inst *Instance) []string
	CastFunc          func(m *Model, v any) (*Instance, error)
	ValidateFunc      func(m *Model, inst *Instance) Result
	InputFunc         func(m *Model, subject *Instance, values map[string]any) Result
	DescribeFunc      func(m *Model) Document
)

type routines struct {
	initialize    InitializeFunc
	applyDefaults ApplyDefaultsFunc
	configure     ConfigureFunc
	toJSON        ToJSONFunc
	forEach       ForEachFunc
	keys          KeysFunc
	cast          CastFunc
	validate      ValidateFunc
	input         InputFunc
	describe      DescribeFunc
}

// program is the compiled, immutable form of a model. Every mutation
// builds a new program and swaps it in.
type program struct {
	schema  Schema
	fields  []*field
	index   map[string]*field
	statics map[string]any
	parent  *Model

	// overrides is the hand-written routine set this program was built with.
	overrides map[Routine]any
	routines
	origins [routineCount]Origin

	validateAll validating.ObjectFunc
	castAll     casting.Batch
	keyList     []string
}

// Model is a compiled model type.
type Model struct {
	name      string
	casts     *casting.Registry
	catalogue *validating.Catalogue

	// mu serializes Inherits, DefineProperty, Mixin and Override.
	mu        sync.Mutex
	overrides map[Routine]any
	prog      atomic.Pointer[program]
}

// Create compiles schema into a model named name.
func Create(name string, schema Schema, opts ...Option) (*Model, error) {
	if name == "" {
		name = "Class"
	}
	o := collect(opts)
	m := &Model{name: name, casts: o.casts, catalogue: o.catalogue, overrides: mergeOverrides(nil, o.overrides)}
	p, err := m.compile(schema, o.statics, nil)
	if err != nil {
		return nil, fmt.Errorf("modeling: create %s: %w", name, err)
	}
	m.prog.Store(p)
	return m, nil
}

// MustCreate is Create that panics on error.
func MustCreate(name string, schema Schema, opts ...Option) *Model {
	m, err := Create(name, schema, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Model) program() *program { return m.prog.Load() }

// compile normalizes schema and synthesizes every routine not overridden
// by hand. The caller holds m.mu or owns m exclusively.
func (m *Model) compile(schema Schema, statics map[string]any, parent *Model) (*program, error) {
	p := &program{
		schema:    append(Schema(nil), schema...),
		index:     make(map[string]*field, len(schema)),
		statics:   statics,
		parent:    parent,
		overrides: m.overrides,
	}
	if p.statics == nil {
		p.statics = map[string]any{}
	}
	var (
		rules []validating.FieldRules
		casts []casting.Field
		keys  []string
	)
	for _, prop := range schema {
		if _, dup := p.index[prop.Name]; dup {
			return nil, &obligations.PreconditionError{Message: fmt.Sprintf("Duplicate field: %s", prop.Name)}
		}
		f, err := m.normalize(prop)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", prop.Name, err)
		}
		p.fields = append(p.fields, f)
		p.index[f.name] = f
		if f.desc.Rules != nil {
			rules = append(rules, validating.FieldRules{Name: f.name, Rules: f.desc.Rules})
		}
		if f.generated && f.typed {
			casts = append(casts, casting.Field{Name: f.name, Type: f.desc.Type, Cast: func(v any) (any, error) {
				return f.cast(m, v)
			}})
		}
		if f.enumerable && f.method == nil {
			keys = append(keys, f.name)
		}
	}
	sort.Strings(keys)
	p.keyList = keys

	var err error
	if p.validateAll, err = m.catalogue.ForDescriptors(rules); err != nil {
		return nil, err
	}
	if p.castAll, err = m.casts.ForDescriptors(casts); err != nil {
		return nil, err
	}
	m.synthesize(p)
	return p, nil
}

// synthesize fills every routine slot, preferring hand-supplied overrides.
func (m *Model) synthesize(p *program) {
	for r := Routine(0); r < routineCount; r++ {
		fn, ok := m.overrides[r]
		if ok {
			p.origins[r] = UserDefined
		}
		switch r {
		case RoutineInitialize:
			if ok {
				p.initialize = fn.(InitializeFunc)
			} else {
				p.initialize = func(*Instance) error { return nil }
			}
		case RoutineApplyDefaults:
			if ok {
				p.applyDefaults = fn.(ApplyDefaultsFunc)
			} else {
				p.applyDefaults = p.genApplyDefaults()
			}
		case RoutineConfigure:
			if ok {
				p.configure = fn.(ConfigureFunc)
			} else {
				p.configure = p.genConfigure()
			}
		case RoutineToJSON:
			if ok {
				p.toJSON = fn.(ToJSONFunc)
			} else {
				p.toJSON = p.genToJSON()
			}
		case RoutineForEach:
			if ok {
				p.forEach = fn.(ForEachFunc)
			} else {
				p.forEach = p.genForEach()
			}
		case RoutineKeys:
			if ok {
				p.keys = fn.(KeysFunc)
			} else {
				p.keys = p.genKeys()
			}
		case RoutineCast:
			if ok {
				p.cast = fn.(CastFunc)
			} else {
				p.cast = p.genCast()
			}
		case RoutineValidate:
			if ok {
				p.validate = fn.(ValidateFunc)
			} else {
				p.validate = p.genValidate()
			}
		case RoutineInput:
			if ok {
				p.input = fn.(InputFunc)
			} else {
				p.input = p.genInput()
			}
		case RoutineDescribe:
			if ok {
				p.describe = fn.(DescribeFunc)
			} else {
				p.describe = p.genDescribe()
			}
		}
	}
}

// rebuild recompiles m from schema and statics and publishes the result.
// The caller holds m.mu. On error the current program stays in place.
func (m *Model) rebuild(schema Schema, statics map[string]any, parent *Model) error {
	p, err := m.compile(schema, statics, parent)
	if err != nil {
		return err
	}
	m.prog.Store(p)
	return nil
}

// Name returns the model name.
func (m *Model) Name() string { return m.name }

// TypeName returns the model name; instances report the same name.
func (m *Model) TypeName() string { return m.name }

// Parent returns the model m inherits from, or nil.
func (m *Model) Parent() *Model { return m.program().parent }

// Schema returns a copy of the compiled schema, inherited fields included.
func (m *Model) Schema() Schema { return append(Schema(nil), m.program().schema...) }

// GetOwnPropertyDescriptor returns the descriptor of field name.
func (m *Model) GetOwnPropertyDescriptor(name string) (Descriptor, bool) {
	return m.program().schema.Lookup(name)
}

// Static returns a static member.
func (m *Model) Static(name string) (any, bool) {
	v, ok := m.program().statics[name]
	return v, ok
}

// Statics returns a copy of all static members.
func (m *Model) Statics() map[string]any {
	src := m.program().statics
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// Origin reports whether routine r is generated or user-defined.
func (m *Model) Origin(r Routine) Origin {
	if r < 0 || r >= routineCount {
		return Generated
	}
	return m.program().origins[r]
}

// IsInstance reports whether v is an instance of m or of a model derived
// from m.
func (m *Model) IsInstance(v any) bool {
	inst, ok := v.(*Instance)
	if !ok || inst == nil {
		return false
	}
	for mm := inst.model; mm != nil; mm = mm.Parent() {
		if mm == m {
			return true
		}
	}
	return false
}

// New builds an instance: defaults first, then config, then the
// initialize hook.
func (m *Model) New(config map[string]any) (*Instance, error) {
	p := m.program()
	inst := &Instance{model: m, state: make(map[string]any, len(p.fields))}
	if err := p.applyDefaults(inst); err != nil {
		return nil, fmt.Errorf("modeling: %s defaults: %w", m.name, err)
	}
	if config != nil {
		if err := p.configure(inst, config); err != nil {
			return nil, err
		}
	}
	if err := p.initialize(inst); err != nil {
		return nil, err
	}
	return inst, nil
}

// MustNew is New that panics on error.
func (m *Model) MustNew(config map[string]any) *Instance {
	inst, err := m.New(config)
	if err != nil {
		panic(err)
	}
	return inst
}

// Cast returns v as an instance of m. Existing instances have their typed
// fields cast in place; any other value seeds a new instance.
func (m *Model) Cast(v any) (*Instance, error) {
	return m.program().cast(m, v)
}

// Validate runs every field rule against inst.
func (m *Model) Validate(inst *Instance) Result {
	obligations.MustPrecondition(inst != nil, "Instance must be specified.")
	return m.program().validate(m, inst)
}

// Input builds a new instance from untrusted values. Cast and validation
// failures are reported in the Result; err is only set when the instance
// itself cannot be built.
func (m *Model) Input(values map[string]any) (Result, error) {
	subject, err := m.New(nil)
	if err != nil {
		return Result{}, err
	}
	return m.program().input(m, subject, values), nil
}

// InputInto applies untrusted values to an existing instance.
func (m *Model) InputInto(inst *Instance, values map[string]any) Result {
	obligations.MustPrecondition(inst != nil, "Instance must be specified.")
	return m.program().input(m, inst, values)
}

// Describe returns the static document of the model.
func (m *Model) Describe() Document {
	return m.program().describe(m)
}
