package casting

import (
	"math"
	"reflect"
	"regexp"
	"time"

	"github.com/codemix/modeling/internal/value"
)

// Type identities of the built-in casters.
var (
	ArrayType  = reflect.TypeOf([]any(nil))
	StringType = reflect.TypeOf("")
	NumberType = reflect.TypeOf(float64(0))
	BoolType   = reflect.TypeOf(false)
	RegexpType = reflect.TypeOf((*regexp.Regexp)(nil))
	ObjectType = reflect.TypeOf(map[string]any(nil))
	DateType   = reflect.TypeOf(time.Time{})
)

func init() {
	Default.
		Define("array", ArrayType, castArray).
		Define("string", StringType, castString).
		Define("number", NumberType, castNumber).
		Define("boolean", BoolType, castBoolean).
		Define("regexp", RegexpType, castRegexp).
		Define("object", ObjectType, castObject).
		Define("date", DateType, castDate)
}

func castArray(v any) (any, error) {
	rv := reflect.ValueOf(v)
	if rv.IsValid() && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) {
		return v, nil
	}
	return []any{v}, nil
}

func castString(v any) (any, error) {
	return value.ToString(v), nil
}

func castNumber(v any) (any, error) {
	f, ok := value.ToNumber(v)
	if !ok {
		return nil, &CastError{Type: "number", Value: v}
	}
	return f, nil
}

func castBoolean(v any) (any, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	f, ok := value.ToNumber(v)
	return ok && f != 0 && !math.IsNaN(f), nil
}

func castRegexp(v any) (any, error) {
	switch t := v.(type) {
	case *regexp.Regexp:
		return t, nil
	case string:
		re, err := regexp.Compile(t)
		if err != nil {
			return nil, &CastError{Type: "RegExp", Value: v, Cause: err}
		}
		return re, nil
	default:
		return nil, &CastError{Type: "RegExp", Value: v}
	}
}

// castObject keeps maps, structs and pointers as they are; Go values are
// already boxed once they are stored in an interface.
func castObject(v any) (any, error) {
	return v, nil
}

func castDate(v any) (any, error) {
	return ParseDate(v)
}
