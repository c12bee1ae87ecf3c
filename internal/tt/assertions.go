package tt

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/tmc/langchaingo/llms"
)

// Roles returns the role of each message, in order.
func Roles(messages []llms.MessageContent) []llms.ChatMessageType {
	roles := make([]llms.ChatMessageType, len(messages))
	for i, m := range messages {
		roles[i] = m.Role
	}
	return roles
}

// Text concatenates the text parts of a message.
func Text(message llms.MessageContent) string {
	var sb strings.Builder
	for _, part := range message.Parts {
		if tc, ok := part.(llms.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return sb.String()
}

// Transcript renders messages one part per line, for diffs.
func Transcript(messages []llms.MessageContent) string {
	var sb strings.Builder
	for _, m := range messages {
		for _, part := range m.Parts {
			switch p := part.(type) {
			case llms.TextContent:
				fmt.Fprintf(&sb, "[%s] %s\n", m.Role, p.Text)
			case llms.ToolCall:
				if p.FunctionCall != nil {
					fmt.Fprintf(&sb, "[%s] call %s %s(%s)\n", m.Role, p.ID, p.FunctionCall.Name, p.FunctionCall.Arguments)
				}
			case llms.ToolCallResponse:
				fmt.Fprintf(&sb, "[%s] response %s %s: %s\n", m.Role, p.ToolCallID, p.Name, p.Content)
			default:
				fmt.Fprintf(&sb, "[%s] %T\n", m.Role, p)
			}
		}
	}
	return sb.String()
}

// AssertMessagesEqual compares message lists role by role and part by part.
// On mismatch it logs a unified diff of both transcripts.
func AssertMessagesEqual(t *testing.T, expected, actual []llms.MessageContent) {
	t.Helper()

	ok := assert.Equal(t, Roles(expected), Roles(actual), "message roles")
	if ok {
		for i := range expected {
			ok = assert.Equal(t, expected[i].Parts, actual[i].Parts, "message %d (%s)", i, expected[i].Role) && ok
		}
	}
	if ok {
		return
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(Transcript(expected)),
		B:        difflib.SplitLines(Transcript(actual)),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  2,
	})
	if err == nil && diff != "" {
		t.Logf("transcript diff:\n%s", diff)
	}
}
