package modeling

// Result is the outcome of Validate and Input. Errors holds one message per
// failing field; Issues carries the same failures with codes and paths,
// sorted by field.
type Result struct {
	Valid  bool
	Value  *Instance
	Errors map[string]string
	Issues Issues
}

// Err returns the issues as an error, or nil when the result is valid.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	if len(r.Issues) == 0 {
		return Issues{{Path: "/", Code: CodeBusinessRule, Message: "invalid"}}
	}
	return r.Issues
}
