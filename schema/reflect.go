package schema

import (
	"reflect"
	"strings"
	"time"
)

// For generates a JSON Schema for T using reflection.
//
// Field names come from json tags. Every exported field is required unless it is
// a pointer or tagged omitempty. A description tag is copied into the schema.
// Supports: primitives, pointers, structs, slices, maps, time.Time, time.Duration.
func For[T any]() map[string]any {
	return generate(reflect.TypeFor[T](), false)
}

// forStrict is like For but closes every object: properties not declared in
// the struct are rejected.
func forStrict[T any]() map[string]any {
	return generate(reflect.TypeFor[T](), true)
}

func generate(t reflect.Type, closed bool) map[string]any {
	if t == nil {
		return map[string]any{"type": "null"}
	}

	// Pointers are nullable
	if t.Kind() == reflect.Ptr {
		s := generate(t.Elem(), closed)
		if typeVal, ok := s["type"].(string); ok {
			s["type"] = []string{typeVal, "null"}
		}
		return s
	}

	if t == reflect.TypeFor[time.Time]() {
		return map[string]any{
			"type":   "string",
			"format": "date-time",
		}
	}

	if t == reflect.TypeFor[time.Duration]() {
		return map[string]any{
			"type":        "string",
			"description": "Duration string (e.g., '1h30m', '2s')",
		}
	}

	switch t.Kind() {
	case reflect.String:
		return map[string]any{"type": "string"}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return map[string]any{"type": "integer"}

	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}

	case reflect.Bool:
		return map[string]any{"type": "boolean"}

	case reflect.Slice, reflect.Array:
		return map[string]any{
			"type":  "array",
			"items": generate(t.Elem(), closed),
		}

	case reflect.Map:
		return map[string]any{
			"type":                 "object",
			"additionalProperties": generate(t.Elem(), closed),
		}

	case reflect.Struct:
		return generateStruct(t, closed)

	default:
		return map[string]any{}
	}
}

func generateStruct(t reflect.Type, closed bool) map[string]any {
	properties := make(map[string]any)
	required := make([]string, 0)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		fieldName := field.Name
		omitempty := false
		if jsonTag != "" {
			parts := strings.Split(jsonTag, ",")
			if parts[0] != "" {
				fieldName = parts[0]
			}
			for _, part := range parts[1:] {
				if part == "omitempty" {
					omitempty = true
				}
			}
		}

		fieldSchema := generate(field.Type, closed)
		if desc := field.Tag.Get("description"); desc != "" {
			fieldSchema["description"] = desc
		}
		properties[fieldName] = fieldSchema

		if !omitempty && field.Type.Kind() != reflect.Ptr {
			required = append(required, fieldName)
		}
	}

	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	if closed {
		s["additionalProperties"] = false
	}
	return s
}
