package researchagent

import (
	"context"
)

// Tool is a named function exposed to the model.
//
// The shape matches langchaingo's tools.Tool, so every tool in this module can
// also be handed to langchaingo agents unchanged.
//
// Responsibility design:
//   - Tool: accept the raw input string, run the business logic, return text
//   - ToolChain: describe tools to the model, validate arguments, dispatch calls
type Tool interface {
	// Name returns the tool's identifier used in tool calls.
	Name() string

	// Description returns a human-readable description for the model.
	Description() string

	// Call executes the tool with the given input.
	Call(ctx context.Context, input string) (string, error)
}

// InputDescriber is implemented by tools that want to describe their single
// string argument to the model. Tools that don't implement it get a generic
// description.
type InputDescriber interface {
	InputDescription() string
}

// Step records one tool invocation made during a run.
type Step struct {
	// ToolCallID is the provider-assigned identifier of the call, if any.
	ToolCallID string

	// Tool is the name of the tool the model asked for.
	Tool string

	// Input is the string argument the tool was called with.
	Input string

	// Output is the text returned to the model. When Err is set, Output holds the
	// error text the model saw instead.
	Output string

	// Err is the error from argument validation or from the tool itself.
	Err error
}
