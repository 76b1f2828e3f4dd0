// Package jsondup finds object keys that occur more than once in a JSON
// document. Decoders keep the last occurrence silently, so callers that must
// not lose data check first.
package jsondup

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
)

// Duplicate is one repeated key. Path is the JSON Pointer of the repeated
// member.
type Duplicate struct {
	Path string
	Key  string
}

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	keys         map[string]struct{}
	expectingKey bool
	key          string
	index        int
}

// Find scans data and reports duplicate keys in document order. limit < 0
// means unlimited; otherwise scanning stops after limit duplicates.
func Find(data []byte, limit int) ([]Duplicate, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var (
		out   []Duplicate
		stack []frame
	)
	top := func() *frame {
		if len(stack) == 0 {
			return nil
		}
		return &stack[len(stack)-1]
	}
	beginValue := func() {
		if f := top(); f != nil && f.kind == kindArray {
			f.index++
		}
	}
	endValue := func() {
		if f := top(); f != nil && f.kind == kindObject {
			f.expectingKey = true
		}
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			if len(stack) > 0 {
				return out, io.ErrUnexpectedEOF
			}
			return out, nil
		}
		if err != nil {
			return out, err
		}
		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{':
				beginValue()
				stack = append(stack, frame{kind: kindObject, keys: map[string]struct{}{}, expectingKey: true})
			case '[':
				beginValue()
				stack = append(stack, frame{kind: kindArray, index: -1})
			case '}', ']':
				stack = stack[:len(stack)-1]
				endValue()
			}
		case string:
			if f := top(); f != nil && f.kind == kindObject && f.expectingKey {
				if _, dup := f.keys[v]; dup {
					out = append(out, Duplicate{Path: pointer(stack, v), Key: v})
					if limit >= 0 && len(out) >= limit {
						return out, nil
					}
				}
				f.keys[v] = struct{}{}
				f.key = v
				f.expectingKey = false
				continue
			}
			beginValue()
			endValue()
		default:
			beginValue()
			endValue()
		}
	}
}

// pointer renders the path of member key inside the innermost frame.
func pointer(stack []frame, key string) string {
	var b strings.Builder
	for _, f := range stack[:len(stack)-1] {
		b.WriteByte('/')
		if f.kind == kindArray {
			b.WriteString(strconv.Itoa(f.index))
		} else {
			b.WriteString(escape(f.key))
		}
	}
	b.WriteByte('/')
	b.WriteString(escape(key))
	return b.String()
}

func escape(s string) string {
	// escape '~' -> '~0', '/' -> '~1' per RFC6901
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}
