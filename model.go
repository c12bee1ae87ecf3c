package researchagent

import (
	"context"
	"time"

	"github.com/tmc/langchaingo/llms"
)

// Model wraps langchaingo's llms.Model behind a smaller interface that reports
// normalized token usage across providers.
type Model interface {
	// GenerateContent generates content from a sequence of messages.
	GenerateContent(
		ctx context.Context,
		messages []llms.MessageContent,
		options ...llms.CallOption,
	) (*ContentResponse, error)
}

// ContentResponse is the response from a GenerateContent call.
type ContentResponse struct {
	// Choices contains the generated content choices.
	Choices []*ContentChoice

	// Info contains generation metadata including normalized token counts.
	Info *GenerationInfo
}

// ContentChoice is a single content choice from the model.
type ContentChoice struct {
	// Content is the textual content of the response.
	Content string

	// StopReason is the reason the model stopped generating.
	StopReason string

	// ToolCalls is a list of tool calls the model asks to invoke.
	ToolCalls []llms.ToolCall
}

// GenerationInfo contains metadata about the generation including normalized token counts.
type GenerationInfo struct {
	// InputTokens is the number of input/prompt tokens used.
	// This is normalized across providers:
	//   - OpenAI: PromptTokens
	//   - Google: input_tokens / PromptTokens
	InputTokens int

	// OutputTokens is the number of output/completion tokens generated.
	// This is normalized across providers:
	//   - OpenAI: CompletionTokens
	//   - Google: output_tokens / CompletionTokens
	OutputTokens int

	// TotalTokens is the total token count (InputTokens + OutputTokens).
	// Some providers return this directly; otherwise it's computed.
	TotalTokens int

	// CachedInputTokens is the number of input tokens served from cache.
	CachedInputTokens int

	// ReasoningTokens is the number of tokens used for reasoning/thinking.
	ReasoningTokens int

	// Duration is how long the generation took.
	Duration time.Duration
}
