package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Response is the schema of a final answer, derived from the struct T.
//
// One Response feeds both sides of the exchange: [Response.FormatInstructions]
// renders the schema into the prompt, and [Response.Validate] checks the decoded
// answer against the same compiled schema. Both are pure; a Response can be
// shared freely.
//
//	type ResearchResponse struct {
//	    Topic     string   `json:"topic"`
//	    Summary   string   `json:"summary"`
//	    Sources   []string `json:"sources"`
//	    ToolsUsed []string `json:"tools_used"`
//	}
//	rs := schema.MustResponse[ResearchResponse]()
type Response[T any] struct {
	schema  *Schema
	strict  bool
	example *T
}

// ResponseOption configures a Response.
type ResponseOption[T any] func(*Response[T])

// WithStrict rejects answers carrying fields T does not declare. By default
// extra fields are ignored.
func WithStrict[T any]() ResponseOption[T] {
	return func(r *Response[T]) { r.strict = true }
}

// WithExample adds an example value to the format instructions.
func WithExample[T any](example T) ResponseOption[T] {
	return func(r *Response[T]) { r.example = &example }
}

// NewResponse derives and compiles the schema for T.
func NewResponse[T any](opts ...ResponseOption[T]) (*Response[T], error) {
	r := &Response[T]{}
	for _, opt := range opts {
		opt(r)
	}

	raw := For[T]()
	if r.strict {
		raw = forStrict[T]()
	}
	if raw["type"] != "object" {
		var zero T
		return nil, fmt.Errorf("schema: response type %T is not an object", zero)
	}

	compiled, err := Compile(raw)
	if err != nil {
		return nil, err
	}
	r.schema = compiled
	return r, nil
}

// MustResponse is like NewResponse but panics on error.
// Use this for answer types defined at init time.
func MustResponse[T any](opts ...ResponseOption[T]) *Response[T] {
	r, err := NewResponse(opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// Raw returns the JSON Schema as a map.
func (r *Response[T]) Raw() map[string]any {
	return r.schema.Raw()
}

// Strict reports whether unknown fields are rejected.
func (r *Response[T]) Strict() bool {
	return r.strict
}

// FormatInstructions returns the prompt text describing the required answer shape.
func (r *Response[T]) FormatInstructions() string {
	var sb strings.Builder

	sb.WriteString("The output must be a JSON object that conforms to the JSON schema below. ")
	sb.WriteString("Every field listed under \"required\" must be present and must not be null.\n")
	sb.WriteString("The schema describes the shape of the answer; do not return the schema itself.\n\n")
	sb.WriteString("Here is the output schema:\n")

	schemaJSON, err := json.MarshalIndent(r.schema.Raw(), "", "  ")
	if err == nil {
		sb.Write(schemaJSON)
	}

	if r.example != nil {
		sb.WriteString("\n\nExample:\n")
		exampleJSON, err := json.MarshalIndent(r.example, "", "  ")
		if err == nil {
			sb.Write(exampleJSON)
		}
	}

	return sb.String()
}

// Validate checks a generic decoded JSON value against the schema and converts
// it into T. On failure it returns a *ValidationError naming every violating
// field, and the zero T; partially valid values are never returned.
func (r *Response[T]) Validate(decoded any) (T, error) {
	var zero T
	if err := r.schema.Validate(decoded); err != nil {
		return zero, err
	}

	// Re-serialize so T only receives the fields it declares.
	data, err := json.Marshal(decoded)
	if err != nil {
		return zero, fmt.Errorf("schema: re-encode answer: %w", err)
	}
	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return zero, fmt.Errorf("schema: convert answer to %T: %w", zero, err)
	}
	return result, nil
}
