package extract

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishnuvardhanreddy31/research-agent/schema"
)

type databaseAnswer struct {
	Result    string   `json:"result"`
	ToolsUsed []string `json:"tools_used"`
}

type researchAnswer struct {
	Topic     string   `json:"topic"`
	Summary   string   `json:"summary"`
	Sources   []string `json:"sources"`
	ToolsUsed []string `json:"tools_used"`
}

var (
	databaseSchema = schema.MustResponse[databaseAnswer]()
	researchSchema = schema.MustResponse[researchAnswer]()
)

func TestExtract_Database(t *testing.T) {
	type input struct {
		raw     string
		options []Option
	}

	type expected struct {
		value   databaseAnswer
		kind    Kind
		message string
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name: "fenced valid payload succeeds",
			input: input{
				raw: "```json\n{\"result\": \"3 rows found\", \"tools_used\": [\"sqlite_query_tool\"]}\n```",
			},
			expected: expected{
				value: databaseAnswer{Result: "3 rows found", ToolsUsed: []string{"sqlite_query_tool"}},
			},
		},
		{
			name: "windows line break after open fence",
			input: input{
				raw: "```json\r\n{\"result\": \"ok\", \"tools_used\": []}\r\n```",
			},
			expected: expected{value: databaseAnswer{Result: "ok", ToolsUsed: []string{}}},
		},
		{
			name:     "plain text is unexpected format",
			input:    input{raw: "Here is your answer: 42"},
			expected: expected{kind: KindUnexpectedFormat, message: "output not in expected wrapped format"},
		},
		{
			name: "bare JSON is unexpected format",
			input: input{
				raw: `{"result": "ok", "tools_used": []}`,
			},
			expected: expected{kind: KindUnexpectedFormat, message: "output not in expected wrapped format"},
		},
		{
			name: "fence without language tag is unexpected format",
			input: input{
				raw: "```\n{\"result\": \"ok\", \"tools_used\": []}\n```",
			},
			expected: expected{kind: KindUnexpectedFormat, message: "output not in expected wrapped format"},
		},
		{
			name: "trailing whitespace after close fence is unexpected format",
			input: input{
				raw: "```json\n{\"result\": \"ok\", \"tools_used\": []}\n```\n",
			},
			expected: expected{kind: KindUnexpectedFormat, message: "output not in expected wrapped format"},
		},
		{
			name: "different tag sharing the prefix is unexpected format",
			input: input{
				raw: "```jsonc\n{\"result\": \"ok\", \"tools_used\": []}\n```",
			},
			expected: expected{kind: KindUnexpectedFormat, message: "output not in expected wrapped format"},
		},
		{
			name: "missing close fence is unexpected format",
			input: input{
				raw: "```json\n{\"result\": \"ok\", \"tools_used\": []}",
			},
			expected: expected{kind: KindUnexpectedFormat, message: "output not in expected wrapped format"},
		},
		{
			name: "trailing comma is decode error",
			input: input{
				raw: "```json\n{\"result\": \"ok\", \"tools_used\": [],}\n```",
			},
			expected: expected{kind: KindDecode, message: "invalid character"},
		},
		{
			name: "unbalanced braces is decode error",
			input: input{
				raw: "```json\n{\"result\": \"ok\", \"tools_used\": []\n```",
			},
			expected: expected{kind: KindDecode, message: "unexpected EOF"},
		},
		{
			name:     "empty payload is decode error",
			input:    input{raw: "```json\n```"},
			expected: expected{kind: KindDecode, message: "empty payload"},
		},
		{
			name: "two JSON values is decode error",
			input: input{
				raw: "```json\n{\"result\": \"a\", \"tools_used\": []}\n{\"result\": \"b\"}\n```",
			},
			expected: expected{kind: KindDecode, message: "unexpected data after JSON value"},
		},
		{
			name: "missing field is validation error",
			input: input{
				raw: "```json\n{\"result\": \"ok\"}\n```",
			},
			expected: expected{kind: KindValidation, message: "tools_used: missing required field"},
		},
		{
			name: "mistyped field is validation error",
			input: input{
				raw: "```json\n{\"result\": 3, \"tools_used\": []}\n```",
			},
			expected: expected{kind: KindValidation, message: "result:"},
		},
		{
			name: "array payload is validation error",
			input: input{
				raw: "```json\n[\"ok\"]\n```",
			},
			expected: expected{kind: KindValidation, message: "(root):"},
		},
		{
			name: "extra field is ignored",
			input: input{
				raw: "```json\n{\"result\": \"ok\", \"tools_used\": [\"sqlite_query_tool\"], \"rows\": 3}\n```",
			},
			expected: expected{
				value: databaseAnswer{Result: "ok", ToolsUsed: []string{"sqlite_query_tool"}},
			},
		},
		{
			name: "lenient accepts prose around a bare fence",
			input: input{
				raw:     "Sure! Here it is:\n```\n{\"result\": \"ok\", \"tools_used\": []}\n```\nAnything else?\n",
				options: []Option{WithLenient()},
			},
			expected: expected{value: databaseAnswer{Result: "ok", ToolsUsed: []string{}}},
		},
		{
			name: "lenient repairs trailing comma",
			input: input{
				raw:     "```json\n{\"result\": \"ok\", \"tools_used\": [\"sqlite_query_tool\",],}\n```",
				options: []Option{WithLenient()},
			},
			expected: expected{
				value: databaseAnswer{Result: "ok", ToolsUsed: []string{"sqlite_query_tool"}},
			},
		},
		{
			name: "lenient still requires a fence",
			input: input{
				raw:     `{"result": "ok", "tools_used": []}`,
				options: []Option{WithLenient()},
			},
			expected: expected{kind: KindUnexpectedFormat, message: "output not in expected wrapped format"},
		},
		{
			name: "lenient still validates",
			input: input{
				raw:     "```\n{\"result\": \"ok\"}\n```",
				options: []Option{WithLenient()},
			},
			expected: expected{kind: KindValidation, message: "tools_used"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := Extract(tt.input.raw, databaseSchema, tt.input.options...)

			if tt.expected.kind == 0 {
				require.NoError(t, err)
				assert.Equal(t, tt.expected.value, value)
				return
			}

			var extractErr *Error
			require.ErrorAs(t, err, &extractErr)
			assert.Equal(t, tt.expected.kind, extractErr.Kind)
			assert.Equal(t, tt.input.raw, extractErr.Raw, "failure must carry the raw text")
			assert.Contains(t, extractErr.Message(), tt.expected.message)
			assert.Equal(t, databaseAnswer{}, value, "no partial value on failure")
		})
	}
}

func TestExtract_ResearchMissingSources(t *testing.T) {
	raw := Wrap(`{"topic": "Go", "summary": "A language.", "tools_used": ["search"]}` + "\n")

	_, err := Extract(raw, researchSchema)

	require.ErrorIs(t, err, ErrValidation)
	var verr *schema.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"sources"}, verr.Fields())
}

func TestExtract_ResearchSuccess(t *testing.T) {
	raw := "```json\n" + `{
  "topic": "Printing press",
  "summary": "Gutenberg introduced movable type around 1440.",
  "sources": ["https://en.wikipedia.org/wiki/Printing_press"],
  "tools_used": ["search", "wikipedia"]
}` + "\n```"

	value, err := Extract(raw, researchSchema)

	require.NoError(t, err)
	assert.Equal(t, researchAnswer{
		Topic:     "Printing press",
		Summary:   "Gutenberg introduced movable type around 1440.",
		Sources:   []string{"https://en.wikipedia.org/wiki/Printing_press"},
		ToolsUsed: []string{"search", "wikipedia"},
	}, value)
}

// brittleString fails hard when decoded.
type brittleString string

func (*brittleString) UnmarshalJSON([]byte) error {
	panic("decoder blew up")
}

type brittleAnswer struct {
	Result brittleString `json:"result"`
}

func TestExtract_PanicIsDecodeError(t *testing.T) {
	raw := "```json\n{\"result\": \"x\"}\n```"

	value, err := Extract(raw, schema.MustResponse[brittleAnswer]())

	var extractErr *Error
	require.ErrorAs(t, err, &extractErr)
	assert.Equal(t, KindDecode, extractErr.Kind)
	assert.Equal(t, raw, extractErr.Raw)
	assert.Contains(t, extractErr.Error(), "decoder blew up")
	assert.ErrorIs(t, err, ErrDecode)
	assert.Equal(t, brittleAnswer{}, value)
}

func TestExtract_Idempotent(t *testing.T) {
	inputs := []string{
		Wrap(`{"result": "3 rows found", "tools_used": ["sqlite_query_tool"]}`),
		Wrap(`{"result": "3 rows found",}`),
		Wrap(`{"result": 1}`),
		"no fence",
	}

	for _, raw := range inputs {
		v1, err1 := Extract(raw, databaseSchema)
		v2, err2 := Extract(raw, databaseSchema)
		assert.Equal(t, v1, v2)
		assert.Equal(t, fmt.Sprint(err1), fmt.Sprint(err2))
	}
}

func TestExtract_ErrorsIs(t *testing.T) {
	_, err := Extract("plain", databaseSchema)
	assert.ErrorIs(t, err, ErrUnexpectedFormat)
	assert.NotErrorIs(t, err, ErrDecode)

	_, err = Extract(Wrap("{"), databaseSchema)
	assert.ErrorIs(t, err, ErrDecode)
	assert.NotErrorIs(t, err, ErrValidation)

	_, err = Extract(Wrap("{}"), databaseSchema)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestError_Error(t *testing.T) {
	err := &Error{Kind: KindDecode, Raw: "x", Err: errors.New("boom")}
	assert.Equal(t, "extract: DecodeError: boom", err.Error())
	assert.Equal(t, "boom", err.Message())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "UnexpectedFormat", KindUnexpectedFormat.String())
	assert.Equal(t, "DecodeError", KindDecode.String())
	assert.Equal(t, "ValidationError", KindValidation.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}

func TestUnwrapWrap(t *testing.T) {
	payload := "{\"a\": 1}\n"
	got, ok := Unwrap(Wrap(payload))
	require.True(t, ok)
	assert.Equal(t, payload, got)

	_, ok = Unwrap("```json{\"a\": 1}```")
	assert.False(t, ok, "open fence must be followed by a line break")
}

func TestFormatInstructions(t *testing.T) {
	text := FormatInstructions(databaseSchema)

	assert.True(t, strings.HasPrefix(text, databaseSchema.FormatInstructions()))
	assert.Contains(t, text, OpenFence)
	assert.Contains(t, text, Wrap("{...}\n"))
}
