package models

import (
	"context"
	"log/slog"
	"time"

	"github.com/tmc/langchaingo/llms"
	researchagent "github.com/vishnuvardhanreddy31/research-agent"
)

// LCGWrapper wraps an llms.Model and implements researchagent.Model.
// It normalizes token usage across providers and logs every call at debug level.
//
// Example usage:
//
//	llm, _ := googleai.New(ctx, googleai.WithAPIKey(apiKey))
//	model := models.NewLCGWrapper(llm).WithModelName("gemini-2.5-flash")
//	response, err := model.GenerateContent(ctx, messages)
type LCGWrapper struct {
	model     llms.Model
	modelName string // Optional model name for logs
	logger    *slog.Logger
}

// NewLCGWrapper creates a new LCGWrapper wrapping the given llms.Model.
func NewLCGWrapper(model llms.Model) *LCGWrapper {
	return &LCGWrapper{
		model:  model,
		logger: slog.New(slog.DiscardHandler),
	}
}

// WithModelName sets the model name used in logs.
// Returns the model for chaining.
func (m *LCGWrapper) WithModelName(name string) *LCGWrapper {
	m.modelName = name
	return m
}

// WithLogger sets the logger. Returns the model for chaining.
func (m *LCGWrapper) WithLogger(logger *slog.Logger) *LCGWrapper {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// ModelName returns the name set with WithModelName.
func (m *LCGWrapper) ModelName() string {
	return m.modelName
}

// Unwrap returns the underlying llms.Model.
func (m *LCGWrapper) Unwrap() llms.Model {
	return m.model
}

// GenerateContent implements researchagent.Model.GenerateContent.
// Token usage is normalized across providers.
func (m *LCGWrapper) GenerateContent(
	ctx context.Context,
	messages []llms.MessageContent,
	options ...llms.CallOption,
) (*researchagent.ContentResponse, error) {
	startTime := time.Now()
	lcgResponse, err := m.model.GenerateContent(ctx, messages, options...)
	duration := time.Since(startTime)

	var response *researchagent.ContentResponse
	if lcgResponse != nil {
		response = convertLCGResponse(lcgResponse, duration)
	}

	attrs := []any{
		"model", m.modelName,
		"messages", len(messages),
		"duration", duration,
	}
	if response != nil {
		attrs = append(attrs,
			"choices", len(response.Choices),
			"input_tokens", response.Info.InputTokens,
			"output_tokens", response.Info.OutputTokens,
		)
	}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	m.logger.DebugContext(ctx, "model call", attrs...)

	return response, err
}

// convertLCGResponse converts an llms.ContentResponse with normalized tokens.
func convertLCGResponse(
	lcgResponse *llms.ContentResponse,
	duration time.Duration,
) *researchagent.ContentResponse {
	response := &researchagent.ContentResponse{
		Choices: make([]*researchagent.ContentChoice, 0, len(lcgResponse.Choices)),
		Info:    &researchagent.GenerationInfo{Duration: duration},
	}

	for _, choice := range lcgResponse.Choices {
		if choice == nil {
			continue
		}
		response.Choices = append(response.Choices, &researchagent.ContentChoice{
			Content:    choice.Content,
			StopReason: choice.StopReason,
			ToolCalls:  choice.ToolCalls,
		})
	}

	// Token info lives on the first choice's GenerationInfo.
	if len(lcgResponse.Choices) > 0 && lcgResponse.Choices[0] != nil &&
		lcgResponse.Choices[0].GenerationInfo != nil {
		rawInfo := lcgResponse.Choices[0].GenerationInfo
		response.Info.InputTokens = extractInputTokens(rawInfo)
		response.Info.OutputTokens = extractOutputTokens(rawInfo)
		response.Info.TotalTokens = extractTotalTokens(
			rawInfo,
			response.Info.InputTokens,
			response.Info.OutputTokens,
		)
		response.Info.CachedInputTokens = extractCachedInputTokens(rawInfo)
		response.Info.ReasoningTokens = extractReasoningTokens(rawInfo)
	}

	return response
}

// firstInt returns the first positive value among keys.
func firstInt(info map[string]any, keys ...string) int {
	for _, key := range keys {
		if v := getIntFromMap(info, key); v > 0 {
			return v
		}
	}
	return 0
}

// extractInputTokens: OpenAI, Google (compat) and Google native key names.
func extractInputTokens(info map[string]any) int {
	return firstInt(info, "PromptTokens", "InputTokens", "input_tokens")
}

func extractOutputTokens(info map[string]any) int {
	return firstInt(info, "CompletionTokens", "OutputTokens", "output_tokens")
}

// extractTotalTokens falls back to input + output when the provider omits it.
func extractTotalTokens(info map[string]any, input, output int) int {
	if v := firstInt(info, "TotalTokens", "total_tokens"); v > 0 {
		return v
	}
	return input + output
}

func extractCachedInputTokens(info map[string]any) int {
	return firstInt(info, "PromptCachedTokens", "CachedTokens", "CacheReadInputTokens")
}

func extractReasoningTokens(info map[string]any) int {
	return firstInt(info, "ReasoningTokens", "CompletionReasoningTokens", "ThinkingTokens")
}

// getIntFromMap extracts an int value from a map, handling various numeric types.
func getIntFromMap(m map[string]any, key string) int {
	v, ok := m[key]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	case float32:
		return int(n)
	default:
		return 0
	}
}

// Compile-time check that LCGWrapper implements researchagent.Model.
var _ researchagent.Model = (*LCGWrapper)(nil)
