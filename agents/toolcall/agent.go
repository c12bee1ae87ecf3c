package toolcall

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"

	"github.com/tmc/langchaingo/llms"
	researchagent "github.com/vishnuvardhanreddy31/research-agent"
	"github.com/vishnuvardhanreddy31/research-agent/toolchain"
)

// DefaultMaxIterations bounds the model calls of one run.
const DefaultMaxIterations = 15

var (
	// ErrNoChoices is returned when the model reply has no choices.
	ErrNoChoices = errors.New("model returned no choices")

	// ErrMaxIterationsExceeded is returned when the model is still calling tools
	// after the iteration limit.
	ErrMaxIterationsExceeded = errors.New("max iterations exceeded")
)

// Result is the outcome of one run.
type Result struct {
	// Output is the text of the final model reply.
	Output string

	// Steps lists every tool invocation, in execution order.
	Steps []researchagent.Step

	// ToolsInvoked lists the registered tools the model called, unique, in
	// order of first use.
	ToolsInvoked []string

	// Messages is the full conversation sent to the model on the last call,
	// plus the final reply.
	Messages []llms.MessageContent

	// Stats holds iteration, token and tool call counters.
	Stats *researchagent.Stats
}

// Agent runs a tool-calling conversation against a model.
type Agent struct {
	model         researchagent.Model
	registry      *toolchain.Registry
	systemPrompt  string
	partials      map[string]any
	maxIterations int
	temperature   float64
	logger        *slog.Logger
	timeProvider  researchagent.TimeProvider
}

// NewAgent creates an agent over model and the tools in registry.
//
// Defaults:
//   - System prompt: DefaultSystemPrompt
//   - Max iterations: 15
//   - Temperature: 0
//   - Logger: discards everything
//   - TimeProvider: system clock
func NewAgent(model researchagent.Model, registry *toolchain.Registry) *Agent {
	if registry == nil {
		registry = toolchain.New()
	}
	return &Agent{
		model:         model,
		registry:      registry,
		systemPrompt:  DefaultSystemPrompt,
		partials:      map[string]any{VarFormatInstructions: ""},
		maxIterations: DefaultMaxIterations,
		logger:        slog.New(slog.DiscardHandler),
		timeProvider:  researchagent.NewDefaultTimeProvider(),
	}
}

// WithSystemPrompt sets the system prompt template.
func (a *Agent) WithSystemPrompt(prompt string) *Agent {
	a.systemPrompt = prompt
	return a
}

// WithFormatInstructions sets the value of {{.format_instructions}}.
func (a *Agent) WithFormatInstructions(instructions string) *Agent {
	a.partials[VarFormatInstructions] = instructions
	return a
}

// WithMaxIterations sets the model call limit. Values below 1 are ignored.
func (a *Agent) WithMaxIterations(n int) *Agent {
	if n >= 1 {
		a.maxIterations = n
	}
	return a
}

// WithTemperature sets the sampling temperature.
func (a *Agent) WithTemperature(t float64) *Agent {
	a.temperature = t
	return a
}

// WithLogger sets the logger. A nil logger is ignored.
func (a *Agent) WithLogger(logger *slog.Logger) *Agent {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// WithTimeProvider sets the clock used for {{.today}}.
func (a *Agent) WithTimeProvider(tp researchagent.TimeProvider) *Agent {
	a.timeProvider = tp
	return a
}

// Registry returns the agent's tool registry.
func (a *Agent) Registry() *toolchain.Registry {
	return a.registry
}

// Run answers query, calling tools until the model replies with plain text.
// On failure the partial Result is returned along with the error.
func (a *Agent) Run(ctx context.Context, query string) (*Result, error) {
	result := &Result{Stats: researchagent.NewStats()}

	messages, err := RenderMessages(NewPrompt(a.systemPrompt, a.promptPartials()), query)
	if err != nil {
		return result, err
	}
	result.Messages = messages

	callOpts := []llms.CallOption{llms.WithTemperature(a.temperature)}
	if defs := a.registry.Definitions(); len(defs) > 0 {
		callOpts = append(callOpts, llms.WithTools(defs))
	}

	seen := make(map[string]bool)
	for iteration := 1; iteration <= a.maxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		response, err := a.model.GenerateContent(ctx, result.Messages, callOpts...)
		if err != nil {
			return result, fmt.Errorf("model call failed: %w", err)
		}
		if response == nil || len(response.Choices) == 0 || response.Choices[0] == nil {
			return result, ErrNoChoices
		}
		result.Stats.RecordGeneration(response.Info)

		choice := response.Choices[0]
		a.logger.DebugContext(ctx, "model reply",
			"iteration", iteration,
			"stop_reason", choice.StopReason,
			"tool_calls", len(choice.ToolCalls),
		)

		if len(choice.ToolCalls) == 0 {
			result.Output = choice.Content
			result.Messages = append(result.Messages, llms.TextParts(llms.ChatMessageTypeAI, choice.Content))
			return result, nil
		}

		result.Messages = append(result.Messages, assistantMessage(choice))
		responses, steps := a.registry.Execute(ctx, choice.ToolCalls)
		for i, step := range steps {
			result.Stats.RecordToolCall(step.Tool, step.Err != nil)
			result.Steps = append(result.Steps, step)
			result.Messages = append(result.Messages, llms.MessageContent{
				Role:  llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{responses[i]},
			})

			if step.Tool != "" && !errors.Is(step.Err, toolchain.ErrUnknownTool) && !seen[step.Tool] {
				seen[step.Tool] = true
				result.ToolsInvoked = append(result.ToolsInvoked, step.Tool)
			}

			a.logger.DebugContext(ctx, "tool step",
				"iteration", iteration,
				"tool", step.Tool,
				"input", step.Input,
				"output", step.Output,
				"error", step.Err,
			)
		}
	}

	return result, fmt.Errorf("%w: limit is %d", ErrMaxIterationsExceeded, a.maxIterations)
}

func (a *Agent) promptPartials() map[string]any {
	partials := maps.Clone(a.partials)
	partials[VarToday] = a.timeProvider.Today()
	return partials
}

// assistantMessage records the model's tool-call turn, keeping any text it
// produced alongside the calls.
func assistantMessage(choice *researchagent.ContentChoice) llms.MessageContent {
	parts := make([]llms.ContentPart, 0, len(choice.ToolCalls)+1)
	if choice.Content != "" {
		parts = append(parts, llms.TextContent{Text: choice.Content})
	}
	for _, call := range choice.ToolCalls {
		parts = append(parts, call)
	}
	return llms.MessageContent{Role: llms.ChatMessageTypeAI, Parts: parts}
}
