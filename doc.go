// Package modeling compiles declarative schemas into model types.
//
// A Schema is an ordered list of named Descriptors. Create normalizes it,
// resolves field casters from a casting.Registry, compiles field rules from
// a validating.Catalogue, and synthesizes the routines every model carries:
//
//   - instance routines: applyDefaults, configure, toJSON, forEach, keys
//   - static routines: cast, validate, input, describe
//
// Routines supplied through With* options are user-defined and survive
// every later rebuild; the rest are regenerated whenever the schema changes
// through DefineProperty, Mixin or Inherits.
//
// Typical usage:
//
//	person := modeling.MustCreate("Person", modeling.Schema{
//		modeling.Prop("name", modeling.Descriptor{Type: "string", Rules: []validating.Rule{validating.Named("required")}}),
//		modeling.Prop("age", modeling.Descriptor{Type: "number"}),
//	})
//	res, err := person.Input(map[string]any{"name": "Ada", "age": "36"})
//	if err != nil { ... }
//	if !res.Valid { fmt.Println(res.Issues) }
//
// Validation failures are reported through Result and the Issues error
// model (JSON Pointer path, code, message). Contract violations, such as an
// unknown validator or a malformed descriptor, surface at compile time as
// obligations.PreconditionError.
package modeling
