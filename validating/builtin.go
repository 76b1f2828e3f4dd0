package validating

import (
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/codemix/modeling/internal/value"
	"github.com/codemix/modeling/obligations"
)

var builtins = []struct {
	name    string
	factory Factory
}{
	{"required", newRequired},
	{"type", newType},
	{"instanceOf", newInstanceOf},
	{"length", newLength},
	{"number", newNumber},
	{"boolean", newBoolean},
	{"regexp", newRegexp},
	{"range", newRange},
	{"url", newURL},
	{"email", newEmail},
	{"ip", newIP},
	{"hostname", newHostname},
	{"date", newDate},
	{"time", newTime},
	{"datetime", newDatetime},
}

// required

type required struct{ Base }

func newRequired(p Properties) (Validator, error) {
	b, err := NewBase("required", p, false)
	if err != nil {
		return nil, err
	}
	return &required{b}, nil
}

func (v *required) Validate(val any) error {
	if v.IsEmpty(val) {
		return v.Fail("default", nil)
	}
	return nil
}

// type

var typeTags = map[string]bool{
	"null": true, "string": true, "number": true, "boolean": true,
	"array": true, "object": true, "function": true, "date": true,
}

type typeValidator struct {
	Base
	Type string
}

func newType(p Properties) (Validator, error) {
	b, err := NewBase("type", p, true)
	if err != nil {
		return nil, err
	}
	t, err := propString(p, "type", "string")
	if err != nil {
		return nil, err
	}
	if err := obligations.Preconditionf(typeTags[t], "Unknown type: %s", t); err != nil {
		return nil, err
	}
	return &typeValidator{Base: b, Type: t}, nil
}

func (v *typeValidator) Validate(val any) error {
	if v.Skip(val) {
		return nil
	}
	got := value.TypeTag(val)
	if got == v.Type {
		return nil
	}
	return v.Fail("default", map[string]string{"expected": v.Type, "got": got})
}

// instanceOf

// Class is a runtime type that can recognize its own instances.
type Class interface {
	TypeName() string
	IsInstance(v any) bool
}

type instanceOf struct {
	Base
	name  string
	match func(any) bool
}

func newInstanceOf(p Properties) (Validator, error) {
	b, err := NewBase("instanceOf", p, true)
	if err != nil {
		return nil, err
	}
	v := &instanceOf{Base: b}
	switch c := p["class"].(type) {
	case Class:
		v.name = c.TypeName()
		v.match = c.IsInstance
	case reflect.Type:
		v.name = c.Name()
		v.match = func(x any) bool {
			t := reflect.TypeOf(x)
			if t == nil {
				return false
			}
			if c.Kind() == reflect.Interface {
				return t.Implements(c)
			}
			return t == c || (t.Kind() == reflect.Pointer && t.Elem() == c)
		}
	case string:
		v.name = c
		v.match = func(x any) bool { return typeName(x) == c }
	}
	if err := obligations.Precondition(v.match != nil && v.name != "", "Class must be specified"); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *instanceOf) Validate(val any) error {
	if v.Skip(val) {
		return nil
	}
	if val != nil && v.match(val) {
		return nil
	}
	got := value.TypeTag(val)
	if got == "object" || got == "date" || got == "array" {
		got = typeName(val)
	}
	return v.Fail("default", map[string]string{"expected": v.name, "got": got})
}

func typeName(x any) string {
	if n, ok := x.(interface{ TypeName() string }); ok {
		return n.TypeName()
	}
	t := reflect.TypeOf(x)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "null"
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.Name()
}

// length

type length struct {
	Base
	min, max       float64
	hasMin, hasMax bool
}

func newLength(p Properties) (Validator, error) {
	b, err := NewBase("length", p, true, "invalid",
		"tooShortString", "tooLongString", "tooShortArray", "tooLongArray", "tooShortObject", "tooLongObject")
	if err != nil {
		return nil, err
	}
	v := &length{Base: b}
	if v.min, v.hasMin, err = propNumber(p, "min"); err != nil {
		return nil, err
	}
	if v.max, v.hasMax, err = propNumber(p, "max"); err != nil {
		return nil, err
	}
	if err := obligations.Precondition(v.hasMin || v.hasMax, "No constraints specified for length validator."); err != nil {
		return nil, err
	}
	return v, nil
}

// Keyed values report their own key set, for example model instances.
type keyed interface{ Keys() []string }

func (v *length) Validate(val any) error {
	if v.Skip(val) {
		return nil
	}
	var n int
	var kind string
	switch t := val.(type) {
	case string:
		n, kind = utf8.RuneCountInString(t), "String"
	case keyed:
		n, kind = len(t.Keys()), "Object"
	default:
		rv := reflect.ValueOf(val)
		for rv.IsValid() && rv.Kind() == reflect.Pointer && !rv.IsNil() {
			rv = rv.Elem()
		}
		switch {
		case !rv.IsValid():
			return v.Fail("invalid", v.refs())
		case rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array:
			n, kind = rv.Len(), "Array"
		case rv.Kind() == reflect.Map:
			n, kind = rv.Len(), "Object"
		case rv.Kind() == reflect.Struct && rv.Type() != reflect.TypeOf(time.Time{}):
			n, kind = exportedFields(rv.Type()), "Object"
		default:
			return v.Fail("invalid", v.refs())
		}
	}
	if v.hasMin && float64(n) < v.min {
		return v.Fail("tooShort"+kind, v.refs())
	}
	if v.hasMax && float64(n) > v.max {
		return v.Fail("tooLong"+kind, v.refs())
	}
	return nil
}

func (v *length) refs() map[string]string {
	r := map[string]string{}
	if v.hasMin {
		r["min"] = value.FormatNumber(v.min)
	}
	if v.hasMax {
		r["max"] = value.FormatNumber(v.max)
	}
	return r
}

func exportedFields(t reflect.Type) int {
	n := 0
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).IsExported() {
			n++
		}
	}
	return n
}

// number

type number struct {
	Base
	min, max       float64
	hasMin, hasMax bool
}

func newNumber(p Properties) (Validator, error) {
	b, err := NewBase("number", p, true, "invalid", "tooSmall", "tooLarge")
	if err != nil {
		return nil, err
	}
	v := &number{Base: b}
	if v.min, v.hasMin, err = propNumber(p, "min"); err != nil {
		return nil, err
	}
	if v.max, v.hasMax, err = propNumber(p, "max"); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *number) Validate(val any) error {
	if v.Skip(val) {
		return nil
	}
	f, ok := value.Number(val)
	if !ok || math.IsNaN(f) {
		return v.Fail("invalid", v.refs())
	}
	if v.hasMin && f < v.min {
		return v.Fail("tooSmall", v.refs())
	}
	if v.hasMax && f > v.max {
		return v.Fail("tooLarge", v.refs())
	}
	return nil
}

func (v *number) refs() map[string]string {
	r := map[string]string{}
	if v.hasMin {
		r["min"] = value.FormatNumber(v.min)
	}
	if v.hasMax {
		r["max"] = value.FormatNumber(v.max)
	}
	return r
}

// boolean

type boolean struct {
	Base
	trueValues, falseValues []any
}

func newBoolean(p Properties) (Validator, error) {
	b, err := NewBase("boolean", p, true)
	if err != nil {
		return nil, err
	}
	v := &boolean{Base: b}
	if v.trueValues, _, err = propList(p, "trueValues", []any{true}); err != nil {
		return nil, err
	}
	if v.falseValues, _, err = propList(p, "falseValues", []any{false}); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *boolean) Validate(val any) error {
	if v.Skip(val) || value.Contains(v.trueValues, val) || value.Contains(v.falseValues, val) {
		return nil
	}
	return v.Fail("default", nil)
}

// regexp

type pattern struct {
	Base
	re *regexp.Regexp
}

func newRegexp(p Properties) (Validator, error) {
	b, err := NewBase("regexp", p, true, "default", "badType")
	if err != nil {
		return nil, err
	}
	re, ok, err := propPattern(p, "pattern", "")
	if err != nil {
		return nil, err
	}
	if err := obligations.Precondition(ok, "Pattern must be specified."); err != nil {
		return nil, err
	}
	return &pattern{Base: b, re: re}, nil
}

func (v *pattern) Validate(val any) error {
	if v.Skip(val) {
		return nil
	}
	s, ok := val.(string)
	if !ok {
		return v.Fail("badType", nil)
	}
	if v.re.MatchString(s) {
		return nil
	}
	return v.Fail("default", nil)
}

// range

type rangeValidator struct {
	Base
	between    []any
	in         []any
	hasBetween bool
	hasIn      bool
}

func newRange(p Properties) (Validator, error) {
	b, err := NewBase("range", p, true, "between", "in")
	if err != nil {
		return nil, err
	}
	v := &rangeValidator{Base: b}
	if v.between, v.hasBetween, err = propList(p, "between", nil); err != nil {
		return nil, err
	}
	if v.hasBetween {
		if err := obligations.Precondition(len(v.between) == 2, "`between` must be an array containing two values."); err != nil {
			return nil, err
		}
	}
	if v.in, v.hasIn, err = propList(p, "in", nil); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *rangeValidator) Validate(val any) error {
	if v.Skip(val) {
		return nil
	}
	switch {
	case v.hasBetween:
		lo, okLo := value.Compare(val, v.between[0])
		hi, okHi := value.Compare(val, v.between[1])
		if okLo && okHi && lo >= 0 && hi <= 0 {
			return nil
		}
		return v.Fail("between", map[string]string{
			"start": value.ToString(v.between[0]),
			"stop":  value.ToString(v.between[1]),
		})
	case v.hasIn:
		if value.Contains(v.in, val) {
			return nil
		}
		return v.Fail("in", nil)
	}
	return nil
}

// url

type urlValidator struct {
	Base
	strict bool
	re     *regexp.Regexp
}

func newURL(p Properties) (Validator, error) {
	b, err := NewBase("url", p, true)
	if err != nil {
		return nil, err
	}
	v := &urlValidator{Base: b}
	if v.strict, err = propBool(p, "strict", true); err != nil {
		return nil, err
	}
	re, ok, err := propPattern(p, "pattern", "(?i)")
	if err != nil {
		return nil, err
	}
	if !ok {
		schemes, _, err := propList(p, "schemes", []any{"http", "https"})
		if err != nil {
			return nil, err
		}
		quoted := make([]string, len(schemes))
		for i, s := range schemes {
			quoted[i] = regexp.QuoteMeta(value.ToString(s))
		}
		re = regexp.MustCompile(`(?i)^((` + strings.Join(quoted, "|") + `):\/\/)?(([A-Z0-9][A-Z0-9_-]*)(\.[A-Z0-9][A-Z0-9_-]*)+)`)
	}
	v.re = re
	return v, nil
}

func (v *urlValidator) Validate(val any) error {
	if v.Skip(val) {
		return nil
	}
	m := v.re.FindStringSubmatch(value.ToString(val))
	if m == nil {
		return v.Fail("default", nil)
	}
	if v.strict && (len(m) < 2 || m[1] == "") {
		return v.Fail("default", nil)
	}
	return nil
}

// email

var emailPattern = regexp.MustCompile(`(?i)@(([A-Z0-9][A-Z0-9_-]*)(\.[A-Z0-9][A-Z0-9_-]*)+)$`)

type patternMatch struct {
	Base
	re *regexp.Regexp
}

func newEmail(p Properties) (Validator, error) {
	b, err := NewBase("email", p, true)
	if err != nil {
		return nil, err
	}
	re, ok, err := propPattern(p, "pattern", "(?i)")
	if err != nil {
		return nil, err
	}
	if !ok {
		re = emailPattern
	}
	return &patternMatch{Base: b, re: re}, nil
}

func (v *patternMatch) Validate(val any) error {
	if v.Skip(val) || v.re.MatchString(value.ToString(val)) {
		return nil
	}
	return v.Fail("default", nil)
}

// ip

var (
	ipv4Pattern = regexp.MustCompile(`^(25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.(25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.(25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.(25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)$`)
	ipv6Pattern = regexp.MustCompile(`^(?:(([0-9a-fA-F]{1,4}:){7,7}[0-9a-fA-F]{1,4}|([0-9a-fA-F]{1,4}:){1,7}:|([0-9a-fA-F]{1,4}:){1,6}:[0-9a-fA-F]{1,4}|([0-9a-fA-F]{1,4}:){1,5}(:[0-9a-fA-F]{1,4}){1,2}|([0-9a-fA-F]{1,4}:){1,4}(:[0-9a-fA-F]{1,4}){1,3}|([0-9a-fA-F]{1,4}:){1,3}(:[0-9a-fA-F]{1,4}){1,4}|([0-9a-fA-F]{1,4}:){1,2}(:[0-9a-fA-F]{1,4}){1,5}|[0-9a-fA-F]{1,4}:((:[0-9a-fA-F]{1,4}){1,6})|:((:[0-9a-fA-F]{1,4}){1,7}|:)|fe80:(:[0-9a-fA-F]{0,4}){0,4}%[0-9a-zA-Z]{1,}|::(ffff(:0{1,4}){0,1}:){0,1}((25[0-5]|(2[0-4]|1{0,1}[0-9]){0,1}[0-9]).){3,3}(25[0-5]|(2[0-4]|1{0,1}[0-9]){0,1}[0-9])|([0-9a-fA-F]{1,4}:){1,4}:((25[0-5]|(2[0-4]|1{0,1}[0-9]){0,1}[0-9]).){3,3}(25[0-5]|(2[0-4]|1{0,1}[0-9]){0,1}[0-9])))$`)
)

type ip struct {
	Base
	v4, v6 bool
}

func newIP(p Properties) (Validator, error) {
	b, err := NewBase("ip", p, true)
	if err != nil {
		return nil, err
	}
	v := &ip{Base: b}
	if v.v4, err = propBool(p, "v4", true); err != nil {
		return nil, err
	}
	if v.v6, err = propBool(p, "v6", true); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *ip) Validate(val any) error {
	if v.Skip(val) {
		return nil
	}
	s := value.ToString(val)
	if (v.v4 && ipv4Pattern.MatchString(s)) || (v.v6 && ipv6Pattern.MatchString(s)) {
		return nil
	}
	return v.Fail("default", nil)
}

// hostname

var hostnamePattern = regexp.MustCompile(`^(?:(?:(?:(?:[a-zA-Z0-9][-a-zA-Z0-9]{0,61})?[a-zA-Z0-9])[.])*(?:[a-zA-Z][-a-zA-Z0-9]{0,61}[a-zA-Z0-9]|[a-zA-Z])[.]?)$`)

type hostname struct{ Base }

func newHostname(p Properties) (Validator, error) {
	b, err := NewBase("hostname", p, true)
	if err != nil {
		return nil, err
	}
	return &hostname{b}, nil
}

func (v *hostname) Validate(val any) error {
	if v.Skip(val) {
		return nil
	}
	s := value.ToString(val)
	if len(s) > 0 && len(s) <= 255 && hostnamePattern.MatchString(s) {
		return nil
	}
	return v.Fail("default", nil)
}

// date, time, datetime

var (
	datePattern     = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	timePattern     = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})$`)
	datetimePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})[\s|T]?(\d{2}):(\d{2}):(\d{2})(?:.\d{1,3})?Z?$`)
)

// calendar checks textual dates and times. limits bound each captured
// group, exclusive; zero means unchecked.
type calendar struct {
	Base
	re     *regexp.Regexp
	limits []int
}

func newDate(p Properties) (Validator, error) {
	return newCalendar("date", p, datePattern, []int{0, 13, 32})
}

func newTime(p Properties) (Validator, error) {
	return newCalendar("time", p, timePattern, []int{24, 60, 60})
}

func newDatetime(p Properties) (Validator, error) {
	return newCalendar("datetime", p, datetimePattern, []int{0, 13, 32, 24, 60, 60})
}

func newCalendar(kind string, p Properties, re *regexp.Regexp, limits []int) (Validator, error) {
	b, err := NewBase(kind, p, true)
	if err != nil {
		return nil, err
	}
	return &calendar{Base: b, re: re, limits: limits}, nil
}

func (v *calendar) Validate(val any) error {
	if v.Skip(val) {
		return nil
	}
	switch val.(type) {
	case time.Time, *time.Time:
		return nil
	}
	s, ok := val.(string)
	if !ok {
		return v.Fail("default", nil)
	}
	m := v.re.FindStringSubmatch(s)
	if m == nil {
		return v.Fail("default", nil)
	}
	for i, limit := range v.limits {
		if limit == 0 {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil || n >= limit {
			return v.Fail("default", nil)
		}
	}
	return nil
}
