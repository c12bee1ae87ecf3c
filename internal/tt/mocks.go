package tt

import (
	"context"
	"slices"
	"sync"

	"github.com/tmc/langchaingo/llms"
	researchagent "github.com/vishnuvardhanreddy31/research-agent"
)

// -----------------------------------------------------------------------------
// MockModel - implements researchagent.Model with scripted responses
// -----------------------------------------------------------------------------

// MockModel is a configurable mock that implements researchagent.Model.
// Responses and errors are returned in the order they were queued.
type MockModel struct {
	mu        sync.Mutex
	responses []*researchagent.ContentResponse
	errors    []error
	callCount int

	// CapturedMessages stores the messages passed to each
	// GenerateContent call. Populated automatically on
	// every call.
	CapturedMessages [][]llms.MessageContent

	// CapturedOptions stores the resolved call options of each call.
	CapturedOptions []llms.CallOptions
}

// NewMockModel creates a new MockModel.
func NewMockModel() *MockModel {
	return &MockModel{}
}

// AddResponse queues a text response with the specified token counts.
func (m *MockModel) AddResponse(content string, inputTokens, outputTokens int) *MockModel {
	m.responses = append(m.responses, &researchagent.ContentResponse{
		Choices: []*researchagent.ContentChoice{{Content: content, StopReason: "stop"}},
		Info: &researchagent.GenerationInfo{
			InputTokens:  inputTokens,
			OutputTokens: outputTokens,
			TotalTokens:  inputTokens + outputTokens,
		},
	})
	m.errors = append(m.errors, nil)
	return m
}

// AddToolCalls queues a response asking for the given tool calls.
// Build the calls with ToolCall.
func (m *MockModel) AddToolCalls(inputTokens, outputTokens int, calls ...llms.ToolCall) *MockModel {
	m.responses = append(m.responses, &researchagent.ContentResponse{
		Choices: []*researchagent.ContentChoice{{StopReason: "tool_calls", ToolCalls: calls}},
		Info: &researchagent.GenerationInfo{
			InputTokens:  inputTokens,
			OutputTokens: outputTokens,
			TotalTokens:  inputTokens + outputTokens,
		},
	})
	m.errors = append(m.errors, nil)
	return m
}

// AddRawResponse queues a raw ContentResponse.
// Use this when you need full control over the response
// structure (e.g., empty Choices slice).
func (m *MockModel) AddRawResponse(resp *researchagent.ContentResponse) *MockModel {
	m.responses = append(m.responses, resp)
	m.errors = append(m.errors, nil)
	return m
}

// AddError queues an error for the next call.
func (m *MockModel) AddError(err error) *MockModel {
	m.responses = append(m.responses, nil)
	m.errors = append(m.errors, err)
	return m
}

// CallCount returns the number of times GenerateContent has been called.
func (m *MockModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// GenerateContent returns the next queued response or error. Once the queue is
// exhausted it keeps answering "done".
func (m *MockModel) GenerateContent(
	ctx context.Context,
	messages []llms.MessageContent,
	opts ...llms.CallOption,
) (*researchagent.ContentResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.callCount
	m.callCount++

	var options llms.CallOptions
	for _, opt := range opts {
		opt(&options)
	}
	m.CapturedMessages = append(m.CapturedMessages, slices.Clone(messages))
	m.CapturedOptions = append(m.CapturedOptions, options)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if idx < len(m.errors) && m.errors[idx] != nil {
		return nil, m.errors[idx]
	}
	if idx < len(m.responses) {
		return m.responses[idx], nil
	}
	return &researchagent.ContentResponse{
		Choices: []*researchagent.ContentChoice{{Content: "done", StopReason: "stop"}},
		Info:    &researchagent.GenerationInfo{InputTokens: 10, OutputTokens: 5, TotalTokens: 15},
	}, nil
}

var _ researchagent.Model = (*MockModel)(nil)

// -----------------------------------------------------------------------------
// MockTool - implements researchagent.Tool
// -----------------------------------------------------------------------------

// MockToolFunc is the body of a MockTool.
type MockToolFunc func(ctx context.Context, input string) (string, error)

// MockTool is a named tool backed by a function. It records every input it
// receives.
type MockTool struct {
	name        string
	description string
	fn          MockToolFunc

	mu     sync.Mutex
	inputs []string
}

// NewMockTool creates a tool that echoes its input unless fn is given.
func NewMockTool(name string, fn MockToolFunc) *MockTool {
	if fn == nil {
		fn = func(_ context.Context, input string) (string, error) {
			return input, nil
		}
	}
	return &MockTool{name: name, description: "Mock tool " + name, fn: fn}
}

// WithDescription overrides the tool description.
func (t *MockTool) WithDescription(description string) *MockTool {
	t.description = description
	return t
}

func (t *MockTool) Name() string        { return t.name }
func (t *MockTool) Description() string { return t.description }

func (t *MockTool) Call(ctx context.Context, input string) (string, error) {
	t.mu.Lock()
	t.inputs = append(t.inputs, input)
	t.mu.Unlock()
	return t.fn(ctx, input)
}

// Inputs returns the inputs received so far, in call order.
func (t *MockTool) Inputs() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.inputs...)
}

var _ researchagent.Tool = (*MockTool)(nil)
