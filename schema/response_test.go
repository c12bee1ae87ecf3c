package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testResearch struct {
	Topic     string   `json:"topic"`
	Summary   string   `json:"summary"`
	Sources   []string `json:"sources"`
	ToolsUsed []string `json:"tools_used"`
}

type testDatabase struct {
	Result    string   `json:"result" description:"Rows returned by the query"`
	ToolsUsed []string `json:"tools_used"`
}

func decode(t *testing.T, payload string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(payload), &v))
	return v
}

func TestResponse_Validate(t *testing.T) {
	type input struct {
		payload string
		strict  bool
	}

	type expected struct {
		value  testResearch
		fields []string
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name: "complete payload converts",
			input: input{
				payload: `{"topic":"Go","summary":"A language.","sources":["go.dev"],"tools_used":["search"]}`,
			},
			expected: expected{
				value: testResearch{
					Topic:     "Go",
					Summary:   "A language.",
					Sources:   []string{"go.dev"},
					ToolsUsed: []string{"search"},
				},
			},
		},
		{
			name: "extra field is ignored by default",
			input: input{
				payload: `{"topic":"Go","summary":"s","sources":[],"tools_used":[],"confidence":0.9}`,
			},
			expected: expected{
				value: testResearch{Topic: "Go", Summary: "s", Sources: []string{}, ToolsUsed: []string{}},
			},
		},
		{
			name: "extra field is rejected in strict mode",
			input: input{
				payload: `{"topic":"Go","summary":"s","sources":[],"tools_used":[],"confidence":0.9}`,
				strict:  true,
			},
			expected: expected{fields: []string{"confidence"}},
		},
		{
			name: "missing sources is named",
			input: input{
				payload: `{"topic":"Go","summary":"s","tools_used":[]}`,
			},
			expected: expected{fields: []string{"sources"}},
		},
		{
			name: "null field is a violation",
			input: input{
				payload: `{"topic":null,"summary":"s","sources":[],"tools_used":[]}`,
			},
			expected: expected{fields: []string{"topic"}},
		},
		{
			name: "wrong item type is a violation",
			input: input{
				payload: `{"topic":"Go","summary":"s","sources":[1],"tools_used":[]}`,
			},
			expected: expected{fields: []string{"sources/0"}},
		},
		{
			name: "all violations are enumerated",
			input: input{
				payload: `{"sources":[],"tools_used":"search"}`,
			},
			expected: expected{fields: []string{"summary", "tools_used", "topic"}},
		},
		{
			name:     "non-object payload is a violation at the root",
			input:    input{payload: `["Go"]`},
			expected: expected{fields: []string{""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []ResponseOption[testResearch]
			if tt.input.strict {
				opts = append(opts, WithStrict[testResearch]())
			}
			rs := MustResponse(opts...)

			value, err := rs.Validate(decode(t, tt.input.payload))

			if tt.expected.fields == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.expected.value, value)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.ElementsMatch(t, tt.expected.fields, verr.Fields())
			assert.Equal(t, testResearch{}, value, "no partial value on failure")
		})
	}
}

func TestResponse_Validate_Idempotent(t *testing.T) {
	rs := MustResponse[testDatabase]()
	decoded := decode(t, `{"result":"3 rows found","tools_used":["sqlite_query_tool"]}`)

	first, err1 := rs.Validate(decoded)
	second, err2 := rs.Validate(decoded)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)
}

func TestResponse_FormatInstructions(t *testing.T) {
	rs := MustResponse(WithExample(testDatabase{
		Result:    "Columns: name",
		ToolsUsed: []string{"sqlite_query_tool"},
	}))

	text := rs.FormatInstructions()

	assert.Contains(t, text, "JSON schema")
	assert.Contains(t, text, `"tools_used"`)
	assert.Contains(t, text, `"required"`)
	assert.Contains(t, text, "Rows returned by the query")
	assert.Contains(t, text, "Example:")
	assert.Contains(t, text, `"sqlite_query_tool"`)
}

func TestResponse_FormatInstructions_MatchesValidator(t *testing.T) {
	rs := MustResponse[testDatabase]()

	required, ok := rs.Raw()["required"].([]string)
	require.True(t, ok)
	assert.Equal(t, []string{"result", "tools_used"}, required)

	_, err := rs.Validate(map[string]any{"result": "x"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"tools_used"}, verr.Fields())
}

func TestNewResponse_RejectsNonObject(t *testing.T) {
	_, err := NewResponse[[]string]()
	assert.Error(t, err)

	assert.Panics(t, func() { MustResponse[string]() })
}

func TestResponse_Strict(t *testing.T) {
	assert.False(t, MustResponse[testDatabase]().Strict())
	assert.True(t, MustResponse(WithStrict[testDatabase]()).Strict())
}
