package validating_test

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/codemix/modeling/obligations"
	"github.com/codemix/modeling/validating"
)

func mustCreate(t *testing.T, name string, props validating.Properties) validating.Validator {
	t.Helper()
	v, err := validating.Create(name, props)
	if err != nil {
		t.Fatalf("Create(%q): %v", name, err)
	}
	return v
}

func message(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func TestBuiltinValidators(t *testing.T) {
	cases := []struct {
		name  string
		kind  string
		props validating.Properties
		in    any
		want  string
	}{
		{"required empty", "required", nil, "", "Cannot be empty."},
		{"required nil", "required", nil, nil, "Cannot be empty."},
		{"required value", "required", nil, "x", ""},
		{"required empty slice", "required", nil, []any{}, "Cannot be empty."},

		{"type ok", "type", validating.Properties{"type": "number"}, 3, ""},
		{"type mismatch", "type", validating.Properties{"type": "number"}, "3", "Expected number, got string."},
		{"type default string", "type", nil, true, "Expected string, got boolean."},
		{"type empty allowed", "type", validating.Properties{"type": "number"}, "", ""},
		{"type object rejects slices", "type", validating.Properties{"type": "object"}, []any{1}, "Expected object, got array."},
		{"type array", "type", validating.Properties{"type": "array"}, []any{1}, ""},

		{"length short string", "length", validating.Properties{"min": 3}, "ab", "Too short, should be at least 3 character(s)."},
		{"length long string", "length", validating.Properties{"max": 2}, "abc", "Too long, should be at most 2 character(s)."},
		{"length array", "length", validating.Properties{"min": 2}, []any{1}, "Too short, should contain at least 2 item(s)."},
		{"length object", "length", validating.Properties{"max": 1}, map[string]any{"a": 1, "b": 2}, "Too long, should contain at most 1 key(s)."},
		{"length invalid", "length", validating.Properties{"min": 1}, 42, "The value is invalid."},
		{"length ok", "length", validating.Properties{"min": 1, "max": 5}, "abc", ""},

		{"number not a number", "number", nil, "12", "Expected a number."},
		{"number too small", "number", validating.Properties{"min": 0}, -1, "Must be at least 0."},
		{"number too large", "number", validating.Properties{"max": 150}, 151.5, "Must be at most 150."},
		{"number ok", "number", validating.Properties{"min": 0, "max": 150}, 30, ""},

		{"boolean ok", "boolean", nil, false, ""},
		{"boolean bad", "boolean", nil, "yes", "Must be true or false."},
		{"boolean custom", "boolean", validating.Properties{"trueValues": []any{"yes"}}, "yes", ""},

		{"regexp match", "regexp", validating.Properties{"pattern": "^[a-z]+$"}, "abc", ""},
		{"regexp miss", "regexp", validating.Properties{"pattern": "^[a-z]+$"}, "ABC", "Does not match the required pattern."},
		{"regexp bad type", "regexp", validating.Properties{"pattern": regexp.MustCompile("x")}, 5, "Should be a text value."},

		{"range between", "range", validating.Properties{"between": []any{1, 10}}, 11, "Must be between 1 and 10."},
		{"range between ok", "range", validating.Properties{"between": []any{1, 10}}, 10, ""},
		{"range in", "range", validating.Properties{"in": []any{"a", "b"}}, "c", "Not in the list of valid options."},
		{"range in ok", "range", validating.Properties{"in": []any{"a", "b"}}, "b", ""},

		{"url ok", "url", nil, "http://example.com", ""},
		{"url no scheme strict", "url", nil, "example.com", "Not a valid URL."},
		{"url no scheme lax", "url", validating.Properties{"strict": false}, "example.com", ""},
		{"url other scheme", "url", validating.Properties{"schemes": []any{"ftp"}}, "ftp://example.com", ""},

		{"email ok", "email", nil, "bob@Example.COM", ""},
		{"email bad", "email", nil, "nope", "Not a valid email address."},

		{"ip v4", "ip", nil, "192.168.0.1", ""},
		{"ip v6", "ip", nil, "2001:db8::1", ""},
		{"ip v4 disabled", "ip", validating.Properties{"v4": false}, "192.168.0.1", "Not a valid IP address."},
		{"ip bad", "ip", nil, "300.1.1.1", "Not a valid IP address."},
		{"ip v6 embedded junk", "ip", nil, "xx 2001:db8::1 yy", "Not a valid IP address."},

		{"hostname ok", "hostname", nil, "example.com", ""},
		{"hostname bad", "hostname", nil, "-bad-.com", "Not a valid hostname."},
		{"hostname at length limit", "hostname", nil, strings.Repeat("a.", 126) + "com", ""},
		{"hostname over length limit", "hostname", nil, strings.Repeat("a.", 128) + "com", "Not a valid hostname."},

		{"date ok", "date", nil, "2014-02-28", ""},
		{"date month", "date", nil, "2014-13-01", "Not a valid date."},
		{"date time.Time", "date", nil, time.Now(), ""},
		{"time ok", "time", nil, "23:59:59", ""},
		{"time bad", "time", nil, "24:00:00", "Not a valid time."},
		{"datetime ok", "datetime", nil, "2014-02-28T10:11:12.123Z", ""},
		{"datetime bad", "datetime", nil, "2014-02-28 25:11:12", "Not a valid date / time."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := mustCreate(t, tc.kind, tc.props)
			if got := message(v.Validate(tc.in)); got != tc.want {
				t.Fatalf("Validate(%#v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestViolationDetails(t *testing.T) {
	v := mustCreate(t, "number", validating.Properties{"max": 150})
	err := v.Validate(200)
	var viol *validating.Violation
	if !errors.As(err, &viol) {
		t.Fatalf("expected *Violation, got %T", err)
	}
	want := &validating.Violation{Rule: "number", Key: "tooLarge", Message: "Must be at most 150.", Params: map[string]string{"max": "150"}}
	if diff := cmp.Diff(want, viol); diff != "" {
		t.Fatalf("violation mismatch (-want +got):\n%s", diff)
	}
}

func TestMessageOverrides(t *testing.T) {
	v := mustCreate(t, "required", validating.Properties{"message": "Name please."})
	if got := message(v.Validate("")); got != "Name please." {
		t.Fatalf("got %q", got)
	}
	v = mustCreate(t, "number", validating.Properties{"min": 1, "messages": map[string]any{"tooSmall": "At least {{min}}, really."}})
	if got := message(v.Validate(0)); got != "At least 1, really." {
		t.Fatalf("got %q", got)
	}
	v = mustCreate(t, "number", validating.Properties{"allowEmpty": false})
	if got := message(v.Validate(nil)); got != "Expected a number." {
		t.Fatalf("got %q", got)
	}
}

func TestCreate_Preconditions(t *testing.T) {
	cases := []struct {
		kind  string
		props validating.Properties
	}{
		{"length", nil},
		{"regexp", nil},
		{"regexp", validating.Properties{"pattern": "("}},
		{"instanceOf", nil},
		{"range", validating.Properties{"between": []any{1}}},
		{"type", validating.Properties{"type": "widget"}},
		{"required", validating.Properties{"allowEmpty": "no"}},
		{"missing", nil},
	}
	for _, tc := range cases {
		_, err := validating.Create(tc.kind, tc.props)
		if !errors.Is(err, obligations.ErrPrecondition) {
			t.Errorf("Create(%q, %v): expected precondition error, got %v", tc.kind, tc.props, err)
		}
	}
}

type widget struct{ Name string }

type named struct{}

func (named) TypeName() string { return "Thing" }

type thingClass struct{}

func (thingClass) TypeName() string { return "Thing" }

func (thingClass) IsInstance(v any) bool {
	_, ok := v.(named)
	return ok
}

func TestInstanceOf(t *testing.T) {
	byType := mustCreate(t, "instanceOf", validating.Properties{"class": reflect.TypeOf(widget{})})
	if err := byType.Validate(&widget{}); err != nil {
		t.Fatalf("pointer to widget must pass: %v", err)
	}
	if got := message(byType.Validate("w")); got != "Expected widget, got string." {
		t.Fatalf("got %q", got)
	}

	byName := mustCreate(t, "instanceOf", validating.Properties{"class": "Thing"})
	if err := byName.Validate(named{}); err != nil {
		t.Fatalf("named Thing must pass: %v", err)
	}
	if got := message(byName.Validate(widget{})); got != "Expected Thing, got widget." {
		t.Fatalf("got %q", got)
	}

	byClass := mustCreate(t, "instanceOf", validating.Properties{"class": thingClass{}})
	if err := byClass.Validate(named{}); err != nil {
		t.Fatalf("class instance must pass: %v", err)
	}
}

func TestParseRule(t *testing.T) {
	cases := []struct {
		in   any
		want validating.Rule
	}{
		{"required", validating.Named("required")},
		{[]any{"number", map[string]any{"min": 1}}, validating.With("number", validating.Properties{"min": 1})},
		{[]any{"email"}, validating.Named("email")},
		{map[string]any{"name": "length", "max": 3}, validating.With("length", validating.Properties{"max": 3})},
	}
	for _, tc := range cases {
		got, err := validating.ParseRule(tc.in)
		if err != nil {
			t.Fatalf("ParseRule(%#v): %v", tc.in, err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("ParseRule(%#v) mismatch (-want +got):\n%s", tc.in, diff)
		}
	}

	for _, bad := range []any{map[string]any{"min": 1}, []any{}, []any{3}, 42, ""} {
		_, err := validating.ParseRule(bad)
		if err == nil || err.Error() != "Validator name must be specified." {
			t.Errorf("ParseRule(%#v): expected name precondition, got %v", bad, err)
		}
	}
}

func TestRuleDescribe(t *testing.T) {
	if got := validating.Named("required").Describe(); got != "required" {
		t.Fatalf("got %#v", got)
	}
	got := validating.With("number", validating.Properties{"min": 0}).Describe()
	if diff := cmp.Diff(map[string]any{"name": "number", "min": 0}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if got := validating.Inline(func(any) error { return nil }).Describe(); got != nil {
		t.Fatalf("inline rules have no document form, got %#v", got)
	}
}

func TestForDescriptor_ShortCircuits(t *testing.T) {
	calls := 0
	fn, err := validating.ForDescriptor("name", []validating.Rule{
		validating.Named("required"),
		validating.Inline(func(any) error { calls++; return nil }),
	})
	if err != nil {
		t.Fatalf("ForDescriptor: %v", err)
	}
	res := fn("")
	if res.Valid || res.Error != "Cannot be empty." || calls != 0 {
		t.Fatalf("unexpected result %+v (calls=%d)", res, calls)
	}
	if res = fn("bob"); !res.Valid || calls != 1 {
		t.Fatalf("unexpected result %+v (calls=%d)", res, calls)
	}

	none, err := validating.ForDescriptor("free", nil)
	if err != nil || none != nil {
		t.Fatalf("nil rules must compile to nil, got %v, %v", none, err)
	}

	if _, err := validating.ForDescriptor("x", []validating.Rule{validating.Named("nope")}); !errors.Is(err, obligations.ErrPrecondition) {
		t.Fatalf("unknown validator must fail at compile time, got %v", err)
	}
}

func TestForDescriptor_InlineErrors(t *testing.T) {
	fn, err := validating.ForDescriptor("code", []validating.Rule{
		validating.Inline(func(v any) error {
			if v != "ok" {
				return errors.New("Must be ok.")
			}
			return nil
		}),
	})
	if err != nil {
		t.Fatalf("ForDescriptor: %v", err)
	}
	res := fn("no")
	if res.Valid || res.Error != "Must be ok." || res.Violation.Rule != "inline" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestForDescriptors_AllFields(t *testing.T) {
	fn, err := validating.ForDescriptors([]validating.FieldRules{
		{Name: "name", Rules: []validating.Rule{validating.Named("required")}},
		{Name: "age", Rules: []validating.Rule{validating.With("number", validating.Properties{"min": 0, "max": 150})}},
		{Name: "free"},
	})
	if err != nil {
		t.Fatalf("ForDescriptors: %v", err)
	}
	res := fn(validating.Map{"name": "", "age": 200})
	if res.Valid {
		t.Fatalf("expected invalid")
	}
	want := map[string]string{"name": "Cannot be empty.", "age": "Must be at most 150."}
	if diff := cmp.Diff(want, res.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	res = fn(validating.Map{"name": "Bob", "age": 30})
	if !res.Valid || len(res.Errors) != 0 {
		t.Fatalf("expected valid, got %+v", res)
	}
}

func TestCatalogue_DefineFunc(t *testing.T) {
	c := validating.NewCatalogue()
	c.DefineFunc("even", func(v any) error {
		if n, ok := v.(int); ok && n%2 == 0 {
			return nil
		}
		return errors.New("Must be even.")
	})
	if !c.Has("even") || !c.Has("required") {
		t.Fatalf("catalogue must hold builtins and custom kinds: %v", c.Names())
	}
	fn, err := c.ForDescriptor("n", []validating.Rule{validating.Named("even")})
	if err != nil {
		t.Fatalf("ForDescriptor: %v", err)
	}
	res := fn(3)
	if res.Valid || res.Violation.Rule != "even" || res.Error != "Must be even." {
		t.Fatalf("unexpected result %+v", res)
	}
	if validating.Default.Has("even") {
		t.Fatalf("custom catalogue must not leak into Default")
	}
}
