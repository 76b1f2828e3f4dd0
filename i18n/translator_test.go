package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("required.default", nil); msg != "Cannot be empty." {
		t.Fatalf("expected english message, got %q", msg)
	}

	SetLanguage("ja")
	if msg := T("required.default", nil); msg == "Cannot be empty." {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_UnknownKeyFallsBack(t *testing.T) {
	if msg := T("nope.nothing", nil); msg != "Invalid value." {
		t.Fatalf("expected generic fallback, got %q", msg)
	}
}

type upper struct{}

func (upper) Message(key string, data map[string]string) string { return "X:" + key }

func TestSetTranslator(t *testing.T) {
	SetTranslator(upper{})
	defer SetTranslator(nil)
	if msg := T("email.default", nil); msg != "X:email.default" {
		t.Fatalf("custom translator not used, got %q", msg)
	}
}

func TestFill(t *testing.T) {
	cases := []struct {
		msg  string
		data map[string]string
		want string
	}{
		{"Must be at least {{min}}.", map[string]string{"min": "3"}, "Must be at least 3."},
		{"Between {{start}} and {{stop}}.", map[string]string{"start": "1", "stop": "9"}, "Between 1 and 9."},
		{"Keep {{unknown}}.", map[string]string{"min": "1"}, "Keep {{unknown}}."},
		{"No data {{min}}.", nil, "No data {{min}}."},
		{"Broken {{min", map[string]string{"min": "1"}, "Broken {{min"},
	}
	for _, tc := range cases {
		if got := Fill(tc.msg, tc.data); got != tc.want {
			t.Errorf("Fill(%q) = %q, want %q", tc.msg, got, tc.want)
		}
	}
}
