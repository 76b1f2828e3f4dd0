package modeling

import (
	"errors"
	"fmt"
	"strconv"

	gojson "github.com/goccy/go-json"

	"github.com/codemix/modeling/internal/jsondup"
	"github.com/codemix/modeling/validating"
)

// The gen* functions synthesize the Generated routines of a program. Each
// closes over the normalized fields so calls never revisit descriptors.

func (p *program) genApplyDefaults() ApplyDefaultsFunc {
	type step struct {
		f     *field
		apply func(inst *Instance) error
	}
	var steps []step
	for _, f := range p.fields {
		f := f
		d := f.desc
		switch {
		case d.DefaultFunc != nil:
			steps = append(steps, step{f, func(inst *Instance) error {
				return inst.assignDefault(f, d.DefaultFunc(inst, f.name))
			}})
		case d.Default != nil:
			steps = append(steps, step{f, func(inst *Instance) error {
				return inst.assignDefault(f, d.Default)
			}})
		case f.method != nil && (d.Bind || d.BindTo != nil):
			steps = append(steps, step{f, func(inst *Instance) error {
				var target any = inst
				if d.BindTo != nil {
					target = d.BindTo
				}
				inst.bind(f, target)
				return nil
			}})
		}
	}
	return func(inst *Instance) error {
		for _, s := range steps {
			if err := s.apply(inst); err != nil {
				return fmt.Errorf("%s: %w", s.f.name, err)
			}
		}
		return nil
	}
}

func (p *program) genConfigure() ConfigureFunc {
	var settable []*field
	for _, f := range p.fields {
		if f.method == nil && (f.writable || f.desc.Set != nil) {
			settable = append(settable, f)
		}
	}
	return func(inst *Instance, config map[string]any) error {
		for _, f := range settable {
			v, ok := config[f.name]
			if !ok {
				continue
			}
			if err := inst.set(f, v); err != nil {
				return fmt.Errorf("modeling: configure %s: %w", f.name, err)
			}
		}
		return nil
	}
}

func (p *program) genToJSON() ToJSONFunc {
	var fields []*field
	for _, f := range p.fields {
		if f.enumerable && f.method == nil {
			fields = append(fields, f)
		}
	}
	return func(inst *Instance) map[string]any {
		out := make(map[string]any, len(fields))
		for _, f := range fields {
			out[f.name] = inst.get(f)
		}
		return out
	}
}

func (p *program) genForEach() ForEachFunc {
	var fields []*field
	for _, f := range p.fields {
		if f.method == nil {
			fields = append(fields, f)
		}
	}
	return func(inst *Instance, fn func(value any, field string, inst *Instance)) {
		for _, f := range fields {
			if v, ok := inst.lookup(f); ok {
				fn(v, f.name, inst)
			}
		}
	}
}

func (p *program) genKeys() KeysFunc {
	keys := p.keyList
	return func(*Instance) []string {
		return append([]string(nil), keys...)
	}
}

func (p *program) genCast() CastFunc {
	castAll := p.castAll
	return func(m *Model, v any) (*Instance, error) {
		if inst, ok := v.(*Instance); ok && m.IsInstance(inst) {
			if _, err := castAll(stateTarget{inst}); err != nil {
				return nil, err
			}
			return inst, nil
		}
		config, err := toConfig(v)
		if err != nil {
			return nil, err
		}
		return m.New(config)
	}
}

func (p *program) genValidate() ValidateFunc {
	validateAll := p.validateAll
	return func(m *Model, inst *Instance) Result {
		res := validateAll(inst)
		issues := issueSet{}
		for name, v := range res.Violations {
			issues.violation(name, v)
		}
		return Result{Valid: res.Valid, Value: inst, Errors: res.Errors, Issues: issues.list()}
	}
}

// genInput builds the input acceptor. Every present key is cast with the
// failure captured as the field error; rules run for every field that did
// not fail casting, present or not.
func (p *program) genInput() InputFunc {
	type step struct {
		f     *field
		check validating.FieldFunc
	}
	var steps []step
	for _, f := range p.fields {
		if f.method != nil || (!f.writable && f.desc.Set == nil) {
			continue
		}
		steps = append(steps, step{f, f.check})
	}
	return func(m *Model, subject *Instance, values map[string]any) Result {
		res := Result{Valid: true, Value: subject, Errors: map[string]string{}}
		issues := issueSet{}
		for _, s := range steps {
			f := s.f
			if raw, ok := values[f.name]; ok {
				v, err := f.cast(m, raw)
				if err == nil {
					err = subject.assign(f, v)
				}
				if err != nil {
					res.Valid = false
					var ro *ReadOnlyError
					switch {
					case errors.As(err, &ro):
						issues.other(f.name, CodeReadOnly, err)
					case f.typed:
						issues.cast(f.name, err)
					default:
						issues.other(f.name, CodeInvalidType, err)
					}
					res.Errors[f.name] = issues[f.name].Message
					continue
				}
			}
			if s.check == nil {
				continue
			}
			if r := s.check(subject.get(f)); !r.Valid {
				res.Valid = false
				res.Errors[f.name] = r.Error
				issues.violation(f.name, r.Violation)
			}
		}
		res.Issues = issues.list()
		return res
	}
}

// toConfig reads v as a field map. Structs and other maps go through a
// JSON round trip.
func toConfig(v any) (map[string]any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return t, nil
	case *Instance:
		return t.ToJSON(), nil
	case []byte:
		return decodeObject(t)
	case gojson.RawMessage:
		return decodeObject(t)
	}
	data, err := gojson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("modeling: cast %T: %w", v, err)
	}
	return decodeObject(data)
}

// maxDuplicateIssues bounds the duplicate keys reported for one document.
const maxDuplicateIssues = 16

// DecodeValues reads a JSON object for Input or Cast. Repeated keys are
// rejected with duplicate_key issues instead of keeping the last value.
func DecodeValues(data []byte) (map[string]any, error) {
	return decodeObject(data)
}

func decodeObject(data []byte) (map[string]any, error) {
	dups, err := jsondup.Find(data, maxDuplicateIssues)
	if err != nil {
		return nil, fmt.Errorf("modeling: expected a JSON object: %w", err)
	}
	if len(dups) > 0 {
		var iss Issues
		for _, d := range dups {
			iss = AppendIssues(iss, Issue{Path: d.Path, Code: CodeDuplicateKey, Message: "duplicate key " + strconv.Quote(d.Key)})
		}
		return nil, iss
	}
	var out map[string]any
	if err := gojson.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("modeling: expected a JSON object: %w", err)
	}
	return out, nil
}
