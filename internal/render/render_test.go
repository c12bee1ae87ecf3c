package render

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishnuvardhanreddy31/research-agent/assistant"
	"github.com/vishnuvardhanreddy31/research-agent/extract"
)

var sample = assistant.ResearchResponse{
	Topic:     "Go",
	Summary:   "Go is fast.",
	Sources:   []string{"https://go.dev", "https://en.wikipedia.org/wiki/Go"},
	ToolsUsed: []string{},
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input       string
		expected    Format
		expectedErr bool
	}{
		{input: "", expected: FormatText},
		{input: "text", expected: FormatText},
		{input: "JSON", expected: FormatJSON},
		{input: "yaml", expected: FormatYAML},
		{input: "xml", expectedErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			format, err := ParseFormat(tt.input)
			if tt.expectedErr {
				assert.ErrorContains(t, err, "unknown output format")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}
}

func TestRenderer_Answer(t *testing.T) {
	tests := []struct {
		name     string
		format   Format
		input    any
		expected string
	}{
		{
			name:   "text",
			format: FormatText,
			input:  sample,
			expected: "Topic:\n" +
				"  Go\n" +
				"Summary:\n" +
				"  Go is fast.\n" +
				"Sources:\n" +
				"  - https://go.dev\n" +
				"  - https://en.wikipedia.org/wiki/Go\n" +
				"Tools used:\n" +
				"  (none)\n",
		},
		{
			name:   "json",
			format: FormatJSON,
			input:  assistant.DatabaseResponse{Result: "('Alice',)", ToolsUsed: []string{"sqlite_query_tool"}},
			expected: "{\n" +
				"  \"result\": \"('Alice',)\",\n" +
				"  \"tools_used\": [\n" +
				"    \"sqlite_query_tool\"\n" +
				"  ]\n" +
				"}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			err := New(&buf, tt.format).Answer(tt.input)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestRenderer_Answer_YAML(t *testing.T) {
	var buf bytes.Buffer

	err := New(&buf, FormatYAML).Answer(sample)

	require.NoError(t, err)
	assert.YAMLEq(t, `
topic: Go
summary: Go is fast.
sources:
  - https://go.dev
  - https://en.wikipedia.org/wiki/Go
tools_used: []
`, buf.String())
	assert.NotContains(t, buf.String(), `"topic"`)
}

func TestRenderer_Answer_Wraps(t *testing.T) {
	var buf bytes.Buffer

	err := New(&buf, FormatText).WithWidth(20).Answer(assistant.DatabaseResponse{
		Result:    "alpha beta gamma delta epsilon",
		ToolsUsed: []string{"sqlite_query_tool"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Result:\n"+
		"  alpha beta gamma\n"+
		"  delta epsilon\n"+
		"Tools used:\n"+
		"  - sqlite_query_tool\n", buf.String())
}

func TestRenderer_Failure(t *testing.T) {
	failure := &extract.Error{
		Kind: extract.KindUnexpectedFormat,
		Raw:  "Go is a language.\nIt is fast.",
		Err:  extract.ErrUnexpectedFormat,
	}

	tests := []struct {
		name     string
		format   Format
		expected string
	}{
		{
			name:   "text",
			format: FormatText,
			expected: "Could not parse the response: UnexpectedFormat\n" +
				"Error: output not in expected wrapped format\n" +
				"Raw output:\n" +
				"Go is a language.\nIt is fast.\n",
		},
		{
			name:   "json",
			format: FormatJSON,
			expected: "{\n" +
				"  \"kind\": \"UnexpectedFormat\",\n" +
				"  \"error\": \"output not in expected wrapped format\",\n" +
				"  \"raw\": \"Go is a language.\\nIt is fast.\"\n" +
				"}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			err := New(&buf, tt.format).Failure(failure)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestRenderer_Failure_YAML(t *testing.T) {
	var buf bytes.Buffer
	failure := &extract.Error{Kind: extract.KindDecode, Raw: "```json\n{\n```", Err: errors.New("unexpected EOF")}

	err := New(&buf, FormatYAML).Failure(failure)

	require.NoError(t, err)
	assert.YAMLEq(t, "kind: DecodeError\nerror: unexpected EOF\nraw: \"```json\\n{\\n```\"\n", buf.String())
}

func TestRenderer_Tools(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, New(&buf, FormatText).Tools([]string{"search", "wikipedia"}))
	require.NoError(t, New(&buf, FormatJSON).Tools([]string{"search"}))
	require.NoError(t, New(&buf, FormatText).Tools(nil))

	assert.Equal(t, "Tools invoked: search, wikipedia\n", buf.String())
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Tools used", label("tools_used"))
	assert.Equal(t, "Topic", label("topic"))
	assert.Equal(t, "", label(""))
}
