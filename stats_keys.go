package researchagent

// Iteration tracking. One iteration is one model call.
const KeyIterations = "agent:iterations"

// Token tracking keys.
const (
	KeyInputTokens  = "agent:input_tokens"
	KeyOutputTokens = "agent:output_tokens"
)

// Tool call tracking keys.
const (
	KeyToolCalls           = "agent:tool_calls"
	KeyToolCallsFor        = "agent:tool_calls:" // + tool name
	KeyToolCallsErrorTotal = "agent:tool_calls_error_total"
	KeyToolCallsErrorFor   = "agent:tool_calls_error:" // + tool name
)
