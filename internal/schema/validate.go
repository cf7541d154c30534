package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	genai "google.golang.org/genai"
)

// Validate checks raw JSON against s. Objects are closed: a property the
// schema does not declare is a violation, not something to drop silently.
// An object schema with no declared properties is the one exception; it is
// treated as an open map (used for advisory parameter bags).
func Validate(raw []byte, s *genai.Schema) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("not valid JSON: %w", err)
	}
	return validateValue("$", v, s)
}

func validateValue(path string, v any, s *genai.Schema) error {
	if s == nil {
		return nil
	}
	switch s.Type {
	case genai.TypeObject:
		obj, ok := v.(map[string]any)
		if !ok {
			return typeError(path, "object", v)
		}
		if len(s.Properties) == 0 {
			return nil // open map
		}
		for _, req := range s.Required {
			if _, present := obj[req]; !present {
				return fmt.Errorf("%s: missing required field %q", path, req)
			}
		}
		for key, val := range obj {
			prop, declared := s.Properties[key]
			if !declared {
				return fmt.Errorf("%s: undeclared field %q", path, key)
			}
			if err := validateValue(path+"."+key, val, prop); err != nil {
				return err
			}
		}
		return nil
	case genai.TypeArray:
		arr, ok := v.([]any)
		if !ok {
			return typeError(path, "array", v)
		}
		for i, item := range arr {
			if err := validateValue(fmt.Sprintf("%s[%d]", path, i), item, s.Items); err != nil {
				return err
			}
		}
		return nil
	case genai.TypeString:
		str, ok := v.(string)
		if !ok {
			return typeError(path, "string", v)
		}
		if len(s.Enum) > 0 && !contains(s.Enum, str) {
			return fmt.Errorf("%s: %q is not one of [%s]", path, str, strings.Join(s.Enum, ", "))
		}
		return nil
	case genai.TypeNumber:
		if _, ok := v.(float64); !ok {
			return typeError(path, "number", v)
		}
		return nil
	case genai.TypeInteger:
		f, ok := v.(float64)
		if !ok || f != float64(int64(f)) {
			return typeError(path, "integer", v)
		}
		return nil
	case genai.TypeBoolean:
		if _, ok := v.(bool); !ok {
			return typeError(path, "boolean", v)
		}
		return nil
	default:
		return nil
	}
}

func typeError(path, want string, got any) error {
	return fmt.Errorf("%s: expected %s, got %s", path, want, jsonTypeName(got))
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
