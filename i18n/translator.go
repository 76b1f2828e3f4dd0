package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves message templates for validator message keys.
// Keys have the form "<validator>.<message>", for example "number.tooSmall".
// data provides optional values to embed in the template; the built-in
// dictionaries leave {{token}} placeholders for validators to fill.
type Translator interface {
	Message(key string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"default":               "Invalid value.",
		"required.default":      "Cannot be empty.",
		"type.default":          "Expected {{expected}}, got {{got}}.",
		"instanceOf.default":    "Expected {{expected}}, got {{got}}.",
		"length.invalid":        "The value is invalid.",
		"length.tooShortString": "Too short, should be at least {{min}} character(s).",
		"length.tooLongString":  "Too long, should be at most {{max}} character(s).",
		"length.tooShortArray":  "Too short, should contain at least {{min}} item(s).",
		"length.tooLongArray":   "Too long, should contain at most {{max}} item(s).",
		"length.tooShortObject": "Too short, should contain at least {{min}} key(s).",
		"length.tooLongObject":  "Too long, should contain at most {{max}} key(s).",
		"number.invalid":        "Expected a number.",
		"number.tooSmall":       "Must be at least {{min}}.",
		"number.tooLarge":       "Must be at most {{max}}.",
		"boolean.default":       "Must be true or false.",
		"regexp.default":        "Does not match the required pattern.",
		"regexp.badType":        "Should be a text value.",
		"range.between":         "Must be between {{start}} and {{stop}}.",
		"range.in":              "Not in the list of valid options.",
		"url.default":           "Not a valid URL.",
		"email.default":         "Not a valid email address.",
		"ip.default":            "Not a valid IP address.",
		"hostname.default":      "Not a valid hostname.",
		"date.default":          "Not a valid date.",
		"time.default":          "Not a valid time.",
		"datetime.default":      "Not a valid date / time.",
		"model.unknownField":    "Unknown field.",
		"model.readOnly":        "Cannot be changed.",
	},
	"ja": {
		"default":               "値が不正です。",
		"required.default":      "必須項目です。",
		"type.default":          "{{expected}} が必要ですが {{got}} が指定されました。",
		"instanceOf.default":    "{{expected}} が必要ですが {{got}} が指定されました。",
		"length.invalid":        "値が不正です。",
		"length.tooShortString": "短すぎます。{{min}} 文字以上にしてください。",
		"length.tooLongString":  "長すぎます。{{max}} 文字以下にしてください。",
		"length.tooShortArray":  "少なすぎます。{{min}} 件以上必要です。",
		"length.tooLongArray":   "多すぎます。{{max}} 件以下にしてください。",
		"length.tooShortObject": "少なすぎます。{{min}} 個以上のキーが必要です。",
		"length.tooLongObject":  "多すぎます。{{max}} 個以下のキーにしてください。",
		"number.invalid":        "数値を指定してください。",
		"number.tooSmall":       "{{min}} 以上にしてください。",
		"number.tooLarge":       "{{max}} 以下にしてください。",
		"boolean.default":       "true または false を指定してください。",
		"regexp.default":        "必要な形式に一致しません。",
		"regexp.badType":        "文字列を指定してください。",
		"range.between":         "{{start}} から {{stop}} の間にしてください。",
		"range.in":              "有効な選択肢ではありません。",
		"url.default":           "URL が不正です。",
		"email.default":         "メールアドレスが不正です。",
		"ip.default":            "IP アドレスが不正です。",
		"hostname.default":      "ホスト名が不正です。",
		"date.default":          "日付が不正です。",
		"time.default":          "時刻が不正です。",
		"datetime.default":      "日時が不正です。",
		"model.unknownField":    "未知のフィールドです。",
		"model.readOnly":        "変更できません。",
	},
}

func (t dictTranslator) Message(key string, data map[string]string) string {
	dict := dictionaries[t.lang]
	msg, ok := dict[key]
	if !ok {
		// fall back to English, then to the generic message
		if msg, ok = dictionaries["en"][key]; !ok {
			msg = dict["default"]
		}
	}
	return Fill(msg, data)
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	mu.Lock()
	currentTranslator = dictTranslator{lang: lang}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given key using the current Translator.
func T(key string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(key, data)
}

// Fill replaces {{token}} placeholders in msg with values from data. Tokens
// missing from data are left in place; a nil data map returns msg unchanged.
func Fill(msg string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(msg, "{{") {
		return msg
	}
	b := &strings.Builder{}
	for {
		i := strings.Index(msg, "{{")
		if i < 0 {
			break
		}
		j := strings.Index(msg[i:], "}}")
		if j < 0 {
			break
		}
		b.WriteString(msg[:i])
		tok := msg[i+2 : i+j]
		if v, ok := data[tok]; ok {
			b.WriteString(v)
		} else {
			b.WriteString(msg[i : i+j+2])
		}
		msg = msg[i+j+2:]
	}
	b.WriteString(msg)
	return b.String()
}
