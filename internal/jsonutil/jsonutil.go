package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// MarshalNoEscape encodes v into JSON without escaping <, >, & to \u003c etc.
// Model prompts embed this output, and escaped text confuses the model.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalNoEscapeIndent is MarshalNoEscape with indentation.
func MarshalNoEscapeIndent(v any, prefix, indent string) ([]byte, error) {
	b, err := MarshalNoEscape(v)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, b, prefix, indent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// UnescapeUnicodeString converts unicode escapes like "\u003e" into actual
// characters, including double-escaped sequences ("\\u003e").
var unicodeEscape = regexp.MustCompile(`\\+u[0-9a-fA-F]{4}`)

func UnescapeUnicodeString(s string) (string, error) {
	if !strings.Contains(s, `\u`) {
		return s, nil
	}
	out := unicodeEscape.ReplaceAllStringFunc(s, func(m string) string {
		n, err := strconv.ParseUint(m[len(m)-4:], 16, 32)
		if err != nil {
			return m
		}
		return string(rune(n))
	})
	return out, nil
}

// Normalize parses raw JSON and returns a cleaned encoding: string values are
// recursively unescaped, and a payload the model wrapped in an extra layer of
// string quoting is unwrapped. Models drift between these encodings run to run.
func Normalize(raw []byte) ([]byte, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	// The model sometimes wraps the whole payload in an extra layer of
	// string quoting; unwrap it when the inner text parses.
	if s, ok := v.(string); ok {
		var inner any
		if err := json.Unmarshal([]byte(s), &inner); err != nil {
			return nil, errors.New("jsonutil: cannot parse JSON payload")
		}
		v = inner
	}
	return MarshalNoEscape(deepUnescape(v))
}

// UnmarshalFlex unmarshals raw into v, normalizing first if a direct
// unmarshal fails.
func UnmarshalFlex(raw []byte, v any) error {
	if err := json.Unmarshal(raw, v); err == nil {
		return nil
	}
	norm, err := Normalize(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(norm, v)
}

func deepUnescape(v any) any {
	switch x := v.(type) {
	case string:
		if s, err := UnescapeUnicodeString(x); err == nil {
			return s
		}
		return x
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = deepUnescape(x[i])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, vv := range x {
			out[k] = deepUnescape(vv)
		}
		return out
	default:
		return v
	}
}
