package chat

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Step reports which stage of Normalize produced its output.
type Step string

const (
	// StepDirect means the unwrapped text parsed as JSON as-is.
	StepDirect Step = "direct"
	// StepSingleQuote means the text parsed after swapping ' for ".
	StepSingleQuote Step = "single_quote"
	// StepUnchanged means neither parse succeeded.
	StepUnchanged Step = "unchanged"
)

const jsonTag = "json"

// Normalized is the output of NormalizeDetailed.
type Normalized struct {
	Text string `json:"text"`
	Step Step   `json:"step"`
}

// Structured reports whether the text was reformatted as JSON.
func (n Normalized) Structured() bool {
	return n.Step != StepUnchanged
}

// Normalize recovers likely-intended JSON from agent output and pretty-prints
// it with a two-space indent. Text that is not JSON comes back quote-unwrapped
// and tag-stripped, otherwise untouched. It never fails.
func Normalize(raw string) string {
	return NormalizeDetailed(raw).Text
}

// NormalizeDetailed is Normalize, also reporting which step produced the text.
func NormalizeDetailed(raw string) Normalized {
	s := unwrapQuoted(raw)
	s = strings.TrimPrefix(s, jsonTag)

	if out, ok := indentJSON(s); ok {
		return Normalized{Text: out, Step: StepDirect}
	}
	if out, ok := indentJSON(strings.ReplaceAll(s, "'", `"`)); ok {
		return Normalized{Text: out, Step: StepSingleQuote}
	}
	return Normalized{Text: s, Step: StepUnchanged}
}

// unwrapQuoted strips one pair of surrounding double quotes and expands
// literal \n sequences. Strings shorter than two bytes are left alone.
func unwrapQuoted(s string) string {
	if len(s) < 2 || !strings.HasPrefix(s, `"`) || !strings.HasSuffix(s, `"`) {
		return s
	}
	return strings.ReplaceAll(s[1:len(s)-1], `\n`, "\n")
}

// indentJSON re-serializes valid JSON with a two-space indent. Object keys
// keep their first position; a repeated key takes its last value. Numbers
// and strings are written in canonical form.
func indentJSON(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || !gjson.Valid(s) {
		return "", false
	}
	var b strings.Builder
	writeValue(&b, gjson.Parse(s), "")
	return b.String(), true
}

const indentUnit = "  "

type member struct {
	key   string
	value gjson.Result
}

func writeValue(b *strings.Builder, v gjson.Result, indent string) {
	switch {
	case v.IsObject():
		writeObject(b, v, indent)
	case v.IsArray():
		writeArray(b, v, indent)
	default:
		switch v.Type {
		case gjson.True:
			b.WriteString("true")
		case gjson.False:
			b.WriteString("false")
		case gjson.Number:
			b.WriteString(formatNumber(v.Num))
		case gjson.String:
			b.WriteString(quoteString(v.String()))
		default:
			b.WriteString("null")
		}
	}
}

func writeObject(b *strings.Builder, v gjson.Result, indent string) {
	var members []member
	seen := make(map[string]int)
	v.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		if i, ok := seen[k]; ok {
			members[i].value = value
			return true
		}
		seen[k] = len(members)
		members = append(members, member{key: k, value: value})
		return true
	})

	if len(members) == 0 {
		b.WriteString("{}")
		return
	}
	inner := indent + indentUnit
	b.WriteString("{\n")
	for i, m := range members {
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString(inner)
		b.WriteString(quoteString(m.key))
		b.WriteString(": ")
		writeValue(b, m.value, inner)
	}
	b.WriteString("\n" + indent + "}")
}

func writeArray(b *strings.Builder, v gjson.Result, indent string) {
	items := v.Array()
	if len(items) == 0 {
		b.WriteString("[]")
		return
	}
	inner := indent + indentUnit
	b.WriteString("[\n")
	for i, item := range items {
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString(inner)
		writeValue(b, item, inner)
	}
	b.WriteString("\n" + indent + "]")
}

// formatNumber writes the shortest round-tripping form: plain decimals
// between 1e-6 and 1e21, exponent notation outside. Out-of-range values
// become null.
func formatNumber(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "null"
	}
	if f == 0 {
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	// Go pads the exponent to two digits: 1e-07.
	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mantissa + "e" + sign + digits
}

func quoteString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
