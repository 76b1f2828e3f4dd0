package validating

import (
	"fmt"
	"regexp"

	"github.com/codemix/modeling/internal/value"
	"github.com/codemix/modeling/obligations"
)

func propBool(p Properties, key string, def bool) (bool, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, &obligations.PreconditionError{Message: fmt.Sprintf("%s must be a boolean.", key)}
	}
	return b, nil
}

// propNumber returns the numeric property key. set is false when the key
// is absent or nil.
func propNumber(p Properties, key string) (f float64, set bool, err error) {
	v, ok := p[key]
	if !ok || v == nil {
		return 0, false, nil
	}
	f, ok = value.Number(v)
	if !ok {
		return 0, false, &obligations.PreconditionError{Message: fmt.Sprintf("%s must be a number.", key)}
	}
	return f, true, nil
}

func propString(p Properties, key, def string) (string, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &obligations.PreconditionError{Message: fmt.Sprintf("%s must be a string.", key)}
	}
	return s, nil
}

func propList(p Properties, key string, def []any) ([]any, bool, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return def, false, nil
	}
	list, ok := value.Slice(v)
	if !ok {
		return nil, false, &obligations.PreconditionError{Message: fmt.Sprintf("`%s` must be an array", key)}
	}
	return list, true, nil
}

// propPattern reads a pattern given as text or as a compiled expression.
// Text patterns get flags prepended, for example "(?i)".
func propPattern(p Properties, key, flags string) (*regexp.Regexp, bool, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return nil, false, nil
	}
	switch t := v.(type) {
	case *regexp.Regexp:
		return t, true, nil
	case string:
		re, err := regexp.Compile(flags + t)
		if err != nil {
			return nil, false, &obligations.PreconditionError{Message: fmt.Sprintf("%s is not a valid pattern: %v", key, err)}
		}
		return re, true, nil
	}
	return nil, false, &obligations.PreconditionError{Message: fmt.Sprintf("%s must be a string or a compiled pattern.", key)}
}
