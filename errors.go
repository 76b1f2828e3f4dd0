package modeling

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/codemix/modeling/casting"
	"github.com/codemix/modeling/i18n"
	"github.com/codemix/modeling/validating"
)

// Issue codes
const (
	CodeInvalidType   = "invalid_type"
	CodeRequired      = "required"
	CodeUnknownKey    = "unknown_key"
	CodeTooSmall      = "too_small"
	CodeTooBig        = "too_big"
	CodeTooShort      = "too_short"
	CodeTooLong       = "too_long"
	CodePattern       = "pattern"
	CodeInvalidEnum   = "invalid_enum"
	CodeInvalidFormat = "invalid_format"
	CodeDomainRange   = "domain_range"
	CodeBusinessRule  = "business_rule"
	CodeReadOnly      = "read_only"
	CodeDuplicateKey  = "duplicate_key"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /address~1line1).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error, such as a cast failure.
	// Params carries the message parameters (e.g., {"min": "0", "max": "150"}).
	Params map[string]string
	// Rule records the validator kind that produced this issue.
	Rule string
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. too_big at /age: Must be at most 150.
		fmt.Fprintf(b, "%s at %s: %s", it.Code, it.Path, it.Message)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// ReadOnlyError is returned when writing a field that has neither a setter
// nor a writable slot.
type ReadOnlyError struct {
	Model string
	Field string
}

func (e *ReadOnlyError) Error() string {
	return fmt.Sprintf("modeling: %s.%s is read-only", e.Model, e.Field)
}

// UnknownFieldError is returned when addressing a field the model does not
// declare.
type UnknownFieldError struct {
	Model string
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("modeling: %s has no field %q", e.Model, e.Field)
}

// pointer escapes field as a one-segment JSON Pointer.
func pointer(field string) string {
	// escape '~' -> '~0', '/' -> '~1' per RFC6901
	return "/" + strings.ReplaceAll(strings.ReplaceAll(field, "~", "~0"), "/", "~1")
}

// violationCode maps a validator outcome onto an issue code.
func violationCode(v *validating.Violation) string {
	switch v.Rule {
	case "required":
		return CodeRequired
	case "length":
		switch {
		case strings.HasPrefix(v.Key, "tooShort"):
			return CodeTooShort
		case strings.HasPrefix(v.Key, "tooLong"):
			return CodeTooLong
		}
		return CodeInvalidType
	case "number":
		switch v.Key {
		case "tooSmall":
			return CodeTooSmall
		case "tooLarge":
			return CodeTooBig
		}
		return CodeInvalidType
	case "regexp":
		if v.Key == "badType" {
			return CodeInvalidType
		}
		return CodePattern
	case "range":
		if v.Key == "in" {
			return CodeInvalidEnum
		}
		return CodeDomainRange
	case "url", "email", "ip", "hostname", "date", "time", "datetime":
		return CodeInvalidFormat
	case "type", "instanceOf", "boolean":
		return CodeInvalidType
	}
	return CodeBusinessRule
}

func castCode(err error) string {
	var ide *casting.InvalidDateError
	if errors.As(err, &ide) {
		return CodeInvalidFormat
	}
	return CodeInvalidType
}

// issueSet accumulates per-field issues and renders them in field order.
type issueSet map[string]Issue

func (s issueSet) violation(field string, v *validating.Violation) {
	s[field] = Issue{Path: pointer(field), Code: violationCode(v), Message: v.Message, Params: v.Params, Rule: v.Rule}
}

func (s issueSet) cast(field string, err error) {
	s[field] = Issue{Path: pointer(field), Code: castCode(err), Message: err.Error(), Cause: err}
}

func (s issueSet) other(field, code string, err error) {
	msg := err.Error()
	var ro *ReadOnlyError
	if errors.As(err, &ro) {
		msg = i18n.T("model.readOnly", nil)
	}
	s[field] = Issue{Path: pointer(field), Code: code, Message: msg, Cause: err}
}

func (s issueSet) list() Issues {
	if len(s) == 0 {
		return nil
	}
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make(Issues, 0, len(names))
	for _, n := range names {
		out = append(out, s[n])
	}
	return out
}
