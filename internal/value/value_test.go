package value

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

type emptyish struct{ empty bool }

func (e emptyish) IsEmpty() bool { return e.empty }

func TestIsEmpty(t *testing.T) {
	var nilMap map[string]any
	var nilPtr *int
	cases := []struct {
		v    any
		want bool
	}{
		{nil, true},
		{"", true},
		{"x", false},
		{[]any{}, true},
		{[]string{"a"}, false},
		{map[string]any{}, true},
		{map[string]any{"a": 1}, false},
		{nilMap, true},
		{nilPtr, true},
		{0, false},
		{false, false},
		{emptyish{empty: true}, true},
		{emptyish{empty: false}, false},
		{struct{}{}, false},
	}
	for i, tc := range cases {
		if got := IsEmpty(tc.v); got != tc.want {
			t.Errorf("case %d: IsEmpty(%#v) = %v, want %v", i, tc.v, got, tc.want)
		}
	}
}

func TestToNumber(t *testing.T) {
	cases := []struct {
		v    any
		want float64
		ok   bool
	}{
		{12, 12, true},
		{int8(-3), -3, true},
		{uint16(7), 7, true},
		{uint64(math.MaxUint64), math.MaxUint64, true},
		{float32(1.5), 1.5, true},
		{json.Number("4.25"), 4.25, true},
		{" 42 ", 42, true},
		{"", 0, true},
		{"abc", 0, false},
		{true, 1, true},
		{false, 0, true},
		{time.UnixMilli(1500), 1500, true},
		{[]any{1}, 0, false},
	}
	for i, tc := range cases {
		got, ok := ToNumber(tc.v)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("case %d: ToNumber(%#v) = (%v, %v), want (%v, %v)", i, tc.v, got, ok, tc.want, tc.ok)
		}
	}
}

func TestToString(t *testing.T) {
	cases := []struct {
		v    any
		want string
	}{
		{123, "123"},
		{123.5, "123.5"},
		{1e21, "1e+21"},
		{math.NaN(), "NaN"},
		{true, "true"},
		{[]any{1, "a", false}, "1,a,false"},
		{"x", "x"},
		{nil, ""},
	}
	for i, tc := range cases {
		if got := ToString(tc.v); got != tc.want {
			t.Errorf("case %d: ToString(%#v) = %q, want %q", i, tc.v, got, tc.want)
		}
	}
}

func TestTypeTag(t *testing.T) {
	cases := []struct {
		v    any
		want string
	}{
		{nil, "null"},
		{"s", "string"},
		{1, "number"},
		{2.5, "number"},
		{true, "boolean"},
		{[]int{1}, "array"},
		{map[string]any{}, "object"},
		{func() {}, "function"},
		{time.Now(), "date"},
		{struct{}{}, "object"},
	}
	for i, tc := range cases {
		if got := TypeTag(tc.v); got != tc.want {
			t.Errorf("case %d: TypeTag(%#v) = %q, want %q", i, tc.v, got, tc.want)
		}
	}
}

func TestEqualAndCompare(t *testing.T) {
	if !Equal(1, 1.0) {
		t.Fatalf("numbers of different kinds must compare by value")
	}
	if Equal("1", 1) {
		t.Fatalf("string and number must differ")
	}
	if !Equal([]any{"a"}, []any{"a"}) {
		t.Fatalf("slices compare deeply")
	}
	if !Contains([]any{true, "yes"}, "yes") {
		t.Fatalf("Contains missed an element")
	}
	if c, ok := Compare(3, 4.5); !ok || c != -1 {
		t.Fatalf("Compare(3, 4.5) = %d, %v", c, ok)
	}
	if c, ok := Compare("b", "a"); !ok || c != 1 {
		t.Fatalf("Compare(b, a) = %d, %v", c, ok)
	}
	if _, ok := Compare("a", 1); ok {
		t.Fatalf("mixed comparison must not be ordered")
	}
}
