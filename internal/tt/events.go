package tt

import (
	"encoding/json"

	"github.com/tmc/langchaingo/llms"
)

// -----------------------------------------------------------------------------
// Builders for tool-call conversations
// -----------------------------------------------------------------------------

// ToolCall builds a function call with the {"input": ...} argument convention.
func ToolCall(id, name, input string) llms.ToolCall {
	args, _ := json.Marshal(map[string]string{"input": input})
	return llms.ToolCall{
		ID:   id,
		Type: "function",
		FunctionCall: &llms.FunctionCall{
			Name:      name,
			Arguments: string(args),
		},
	}
}

// RawToolCall builds a function call with arguments passed through verbatim.
func RawToolCall(id, name, arguments string) llms.ToolCall {
	return llms.ToolCall{
		ID:           id,
		Type:         "function",
		FunctionCall: &llms.FunctionCall{Name: name, Arguments: arguments},
	}
}

// ToolResponse builds the tool-role message answering one call.
func ToolResponse(id, name, content string) llms.MessageContent {
	return llms.MessageContent{
		Role: llms.ChatMessageTypeTool,
		Parts: []llms.ContentPart{llms.ToolCallResponse{
			ToolCallID: id,
			Name:       name,
			Content:    content,
		}},
	}
}

// AIToolCalls builds the assistant message carrying tool calls.
func AIToolCalls(calls ...llms.ToolCall) llms.MessageContent {
	parts := make([]llms.ContentPart, 0, len(calls))
	for _, c := range calls {
		parts = append(parts, c)
	}
	return llms.MessageContent{Role: llms.ChatMessageTypeAI, Parts: parts}
}
