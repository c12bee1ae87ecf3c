// Package extract turns raw model output into a validated, typed answer.
//
// The model is told (see [FormatInstructions]) to answer with a single JSON
// object inside a fenced block:
//
//	```json
//	{"result": "3 rows found", "tools_used": ["sqlite_query_tool"]}
//	```
//
// [Extract] checks that convention with a plain prefix/suffix test, decodes the
// payload and validates it against a [schema.Response]. Anything else is
// reported as an *[Error] carrying the raw text:
//
//   - KindUnexpectedFormat: the text is not wrapped as above
//   - KindDecode: the payload is not valid JSON
//   - KindValidation: the payload does not match the schema
//
// Variants such as a missing language tag or whitespace after the closing fence
// do not match the convention. [WithLenient] accepts them.
package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/vishnuvardhanreddy31/research-agent/schema"
)

// Fence markers of the wrapping convention.
const (
	OpenFence  = "```json"
	CloseFence = "```"
)

type options struct {
	lenient bool
}

// Option configures Extract.
type Option func(*options)

// WithLenient relaxes fence detection and decoding. The first fenced block
// anywhere in the text is used, whatever its language tag, and a payload with
// syntax errors is retried once after JSON repair. Text without any fence is
// still KindUnexpectedFormat.
func WithLenient() Option {
	return func(o *options) { o.lenient = true }
}

// Extract converts raw model output into a T validated against rs.
//
// It never returns a partially populated value: on failure the zero T and an
// *Error are returned. Extract is pure; calling it twice on the same input gives
// the same result.
func Extract[T any](raw string, rs *schema.Response[T], opts ...Option) (value T, err error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	defer func() {
		if r := recover(); r != nil {
			var zero T
			value = zero
			err = &Error{Kind: KindDecode, Raw: raw, Err: fmt.Errorf("panic while extracting: %v", r)}
		}
	}()

	payload, ok := Unwrap(raw)
	if !ok && o.lenient {
		payload, ok = findFenced(raw)
	}
	if !ok {
		return value, &Error{Kind: KindUnexpectedFormat, Raw: raw, Err: ErrUnexpectedFormat}
	}

	decoded, err := decode(payload)
	if err != nil && o.lenient {
		if repaired, rerr := jsonrepair.JSONRepair(payload); rerr == nil {
			decoded, err = decode(repaired)
		}
	}
	if err != nil {
		return value, &Error{Kind: KindDecode, Raw: raw, Err: err}
	}

	value, err = rs.Validate(decoded)
	if err != nil {
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			return value, &Error{Kind: KindValidation, Raw: raw, Err: err}
		}
		return value, &Error{Kind: KindDecode, Raw: raw, Err: err}
	}
	return value, nil
}

// Unwrap applies the strict fence convention: raw must start with OpenFence
// followed by a line break and end with CloseFence. It returns the text between
// the markers.
func Unwrap(raw string) (string, bool) {
	rest, ok := strings.CutPrefix(raw, OpenFence)
	if !ok {
		return "", false
	}
	switch {
	case strings.HasPrefix(rest, "\r\n"):
		rest = rest[2:]
	case strings.HasPrefix(rest, "\n"):
		rest = rest[1:]
	default:
		return "", false
	}
	return strings.CutSuffix(rest, CloseFence)
}

// Wrap applies the fence convention to a payload. Unwrap(Wrap(p)) returns p.
func Wrap(payload string) string {
	return OpenFence + "\n" + payload + CloseFence
}

// findFenced returns the body of the first ``` block in raw, whatever its tag.
func findFenced(raw string) (string, bool) {
	start := strings.Index(raw, "```")
	if start < 0 {
		return "", false
	}
	after := raw[start+3:]
	nl := strings.IndexByte(after, '\n')
	if nl < 0 {
		return "", false
	}
	body := after[nl+1:]
	end := strings.Index(body, "```")
	if end < 0 {
		return "", false
	}
	return body[:end], true
}

// decode parses exactly one JSON value. Numbers stay json.Number so the
// validator sees them unchanged.
func decode(payload string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(payload))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty payload")
		}
		return nil, err
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("unexpected data after JSON value: %s", bytes.TrimSpace(extra))
	}
	return v, nil
}

// Describer renders schema text for a prompt. *schema.Response implements it.
type Describer interface {
	FormatInstructions() string
}

// FormatInstructions returns the prompt fragment asking the model to answer in
// the shape d describes, wrapped in the fence Extract expects.
func FormatInstructions(d Describer) string {
	var sb strings.Builder
	sb.WriteString(d.FormatInstructions())
	sb.WriteString("\n\nWrap the JSON object in a fenced code block: start with ")
	sb.WriteString(OpenFence)
	sb.WriteString(" on its own line and end with ")
	sb.WriteString(CloseFence)
	sb.WriteString(". Do not write anything before or after the block, for example:\n")
	sb.WriteString(Wrap("{...}\n"))
	return sb.String()
}
