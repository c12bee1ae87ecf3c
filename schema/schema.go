// Package schema provides JSON Schema building and validation utilities.
//
// Schemas are declared once and used twice: rendered into the prompt so the
// model knows what to produce, and compiled into a validator that checks what the
// model actually produced.
//
// # Quick Start
//
//	// Answer schema derived from a struct
//	type Answer struct {
//	    Result    string   `json:"result"`
//	    ToolsUsed []string `json:"tools_used"`
//	}
//	answer := schema.MustResponse[Answer]()
//	prompt := answer.FormatInstructions()
//	value, err := answer.Validate(decoded)
//
//	// Tool argument schema built by hand
//	args := schema.Object(map[string]*schema.Property{
//	    "input": schema.String("SQL statement to run"),
//	}, "input")
//
// See [Response], [Object], and [Property] for details.
package schema

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Schema represents a JSON Schema definition.
// It provides both the raw map representation (for serialization/prompts)
// and a compiled validator (for runtime validation).
type Schema struct {
	raw      map[string]any
	compiled *jsonschema.Schema
}

// Raw returns the underlying map[string]any representation.
// This is useful for serialization and passing to LLMs.
func (s *Schema) Raw() map[string]any {
	if s == nil {
		return nil
	}
	return s.raw
}

// Validate validates the given data against the schema.
// Data must be a generic decoded JSON value (map[string]any, []any, string,
// float64 or json.Number, bool, nil).
// Returns nil if valid, or a *ValidationError listing every violation.
func (s *Schema) Validate(data any) error {
	if s == nil || s.compiled == nil {
		return nil
	}
	err := s.compiled.Validate(data)
	if err == nil {
		return nil
	}
	verr := &ValidationError{Err: err}
	if ve, ok := err.(*jsonschema.ValidationError); ok {
		verr.Violations = collectViolations(ve)
	}
	return verr
}

// Violation is a single schema failure at one field.
type Violation struct {
	// Field is the slash-separated path of the offending field. Empty means the
	// value as a whole.
	Field string

	// Message describes what is wrong with the field.
	Message string
}

func (v Violation) String() string {
	field := v.Field
	if field == "" {
		field = "(root)"
	}
	return field + ": " + v.Message
}

// ValidationError wraps a JSON Schema validation error with a cleaner message.
type ValidationError struct {
	// Violations lists every missing or mistyped field, sorted by field.
	Violations []Violation

	Err error
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return fmt.Sprintf("schema validation failed: %v", e.Err)
	}
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return "schema validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Fields returns the paths of all violating fields.
func (e *ValidationError) Fields() []string {
	fields := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		fields[i] = v.Field
	}
	return fields
}

var printer = message.NewPrinter(language.English)

// collectViolations flattens the cause tree of a jsonschema error into one
// violation per leaf. Missing and unknown properties are split per field.
func collectViolations(root *jsonschema.ValidationError) []Violation {
	var out []Violation
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) > 0 {
			for _, c := range e.Causes {
				walk(c)
			}
			return
		}
		switch k := e.ErrorKind.(type) {
		case *kind.Required:
			for _, name := range k.Missing {
				out = append(out, Violation{
					Field:   fieldPath(e.InstanceLocation, name),
					Message: "missing required field",
				})
			}
		case *kind.AdditionalProperties:
			for _, name := range k.Properties {
				out = append(out, Violation{
					Field:   fieldPath(e.InstanceLocation, name),
					Message: "unknown field",
				})
			}
		default:
			out = append(out, Violation{
				Field:   fieldPath(e.InstanceLocation, ""),
				Message: e.ErrorKind.LocalizedString(printer),
			})
		}
	}
	walk(root)

	sort.SliceStable(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

func fieldPath(location []string, name string) string {
	parts := append([]string(nil), location...)
	if name != "" {
		parts = append(parts, name)
	}
	return strings.Join(parts, "/")
}

// Compile compiles a raw schema map into a Schema with a compiled validator.
// Returns an error if the schema is invalid.
func Compile(raw map[string]any) (*Schema, error) {
	if raw == nil {
		return nil, nil
	}

	// Marshal the schema to JSON for the compiler
	schemaJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	// Unmarshal into the format expected by jsonschema
	schemaData, err := jsonschema.UnmarshalJSON(strings.NewReader(string(schemaJSON)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", schemaData); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return &Schema{
		raw:      raw,
		compiled: compiled,
	}, nil
}

// MustCompile is like Compile but panics on error.
// Use this for schemas defined at init time.
func MustCompile(raw map[string]any) *Schema {
	s, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return s
}
