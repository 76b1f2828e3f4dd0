package modeling

import (
	"github.com/codemix/modeling/casting"
	"github.com/codemix/modeling/validating"
)

// Option configures Create, Extend and Override.
type Option func(*options)

type options struct {
	statics   map[string]any
	overrides map[Routine]any
	casts     *casting.Registry
	catalogue *validating.Catalogue
}

func collect(opts []Option) *options {
	o := &options{
		statics:   map[string]any{},
		overrides: map[Routine]any{},
		casts:     casting.Default,
		catalogue: validating.Default,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// WithStatic sets a static member, such as "@context".
func WithStatic(name string, v any) Option {
	return func(o *options) { o.statics[name] = v }
}

// WithStatics sets several static members.
func WithStatics(statics map[string]any) Option {
	return func(o *options) {
		for k, v := range statics {
			o.statics[k] = v
		}
	}
}

// WithCastRegistry selects the caster registry; casting.Default otherwise.
func WithCastRegistry(r *casting.Registry) Option {
	return func(o *options) {
		if r != nil {
			o.casts = r
		}
	}
}

// WithCatalogue selects the validator catalogue; validating.Default otherwise.
func WithCatalogue(c *validating.Catalogue) Option {
	return func(o *options) {
		if c != nil {
			o.catalogue = c
		}
	}
}

func override(r Routine, fn any, isNil bool) Option {
	return func(o *options) {
		if isNil {
			// a nil override restores the generated routine
			o.overrides[r] = nil
			return
		}
		o.overrides[r] = fn
	}
}

// WithInitialize installs a hand-written initialize hook.
func WithInitialize(fn InitializeFunc) Option { return override(RoutineInitialize, fn, fn == nil) }

// WithApplyDefaults installs a hand-written defaults routine.
func WithApplyDefaults(fn ApplyDefaultsFunc) Option {
	return override(RoutineApplyDefaults, fn, fn == nil)
}

// WithConfigure installs a hand-written configure routine.
func WithConfigure(fn ConfigureFunc) Option { return override(RoutineConfigure, fn, fn == nil) }

// WithToJSON installs a hand-written instance serializer.
func WithToJSON(fn ToJSONFunc) Option { return override(RoutineToJSON, fn, fn == nil) }

// WithForEach installs a hand-written field iterator.
func WithForEach(fn ForEachFunc) Option { return override(RoutineForEach, fn, fn == nil) }

// WithKeys installs a hand-written key listing.
func WithKeys(fn KeysFunc) Option { return override(RoutineKeys, fn, fn == nil) }

// WithCast installs a hand-written static cast.
func WithCast(fn CastFunc) Option { return override(RoutineCast, fn, fn == nil) }

// WithValidate installs a hand-written static validate.
func WithValidate(fn ValidateFunc) Option { return override(RoutineValidate, fn, fn == nil) }

// WithInput installs a hand-written input acceptor.
func WithInput(fn InputFunc) Option { return override(RoutineInput, fn, fn == nil) }

// WithDescribe installs a hand-written static document.
func WithDescribe(fn DescribeFunc) Option { return override(RoutineDescribe, fn, fn == nil) }
