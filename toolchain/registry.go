package toolchain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tmc/langchaingo/llms"
	researchagent "github.com/vishnuvardhanreddy31/research-agent"
	"github.com/vishnuvardhanreddy31/research-agent/schema"
	"golang.org/x/sync/errgroup"
)

// ArgInput is the name of the single argument every tool takes.
const ArgInput = "input"

const defaultInputDescription = "The input to the tool"

var (
	// ErrUnknownTool is returned when the model calls a tool that is not registered.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrInvalidArguments is returned when tool call arguments are not a JSON
	// object matching the tool's argument schema.
	ErrInvalidArguments = errors.New("invalid tool arguments")
)

// Registry holds a closed set of tools keyed by name.
type Registry struct {
	tools       []researchagent.Tool
	toolMap     map[string]researchagent.Tool
	schemaMap   map[string]*schema.Schema // compiled argument schemas
	parallelism int
	logger      *slog.Logger
}

// New creates an empty Registry. Calls of one turn run concurrently, at most four
// at a time.
func New() *Registry {
	return &Registry{
		toolMap:     make(map[string]researchagent.Tool),
		schemaMap:   make(map[string]*schema.Schema),
		parallelism: 4,
		logger:      slog.New(slog.DiscardHandler),
	}
}

// WithParallelism sets how many calls of one turn may run at the same time.
// Values below 1 mean one at a time.
func (r *Registry) WithParallelism(n int) *Registry {
	r.parallelism = max(n, 1)
	return r
}

// WithLogger sets the logger used to report each tool call at debug level.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// Register adds a tool and compiles its argument schema.
//
// Panics if tool is nil or a tool with the same name is already registered. The
// tool set is fixed at wiring time, so both are programming errors.
func (r *Registry) Register(tool researchagent.Tool) *Registry {
	if tool == nil {
		panic("toolchain: Register called with nil tool")
	}
	name := tool.Name()
	if _, exists := r.toolMap[name]; exists {
		panic(fmt.Sprintf("toolchain: tool %q registered twice", name))
	}

	r.tools = append(r.tools, tool)
	r.toolMap[name] = tool
	r.schemaMap[name] = schema.MustCompile(argumentSchema(tool))
	return r
}

// Tools returns the registered tools in registration order.
func (r *Registry) Tools() []researchagent.Tool {
	return append([]researchagent.Tool(nil), r.tools...)
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (researchagent.Tool, bool) {
	tool, ok := r.toolMap[name]
	return tool, ok
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.tools))
	for i, tool := range r.tools {
		names[i] = tool.Name()
	}
	return names
}

// Definitions returns the function definitions passed to the model with
// llms.WithTools.
func (r *Registry) Definitions() []llms.Tool {
	defs := make([]llms.Tool, len(r.tools))
	for i, tool := range r.tools {
		defs[i] = llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        tool.Name(),
				Description: tool.Description(),
				Parameters:  r.schemaMap[tool.Name()].Raw(),
			},
		}
	}
	return defs
}

// Execute runs the tool calls of one model turn and returns one response and one
// step per call, in call order.
//
// Calls run concurrently. Failures are reported in the response content and in
// Step.Err; Execute itself never fails.
func (r *Registry) Execute(
	ctx context.Context,
	calls []llms.ToolCall,
) ([]llms.ToolCallResponse, []researchagent.Step) {
	responses := make([]llms.ToolCallResponse, len(calls))
	steps := make([]researchagent.Step, len(calls))

	var g errgroup.Group
	g.SetLimit(r.parallelism)
	for i, call := range calls {
		g.Go(func() error {
			steps[i] = r.executeOne(ctx, call)
			responses[i] = llms.ToolCallResponse{
				ToolCallID: call.ID,
				Name:       steps[i].Tool,
				Content:    steps[i].Output,
			}
			return nil
		})
	}
	_ = g.Wait()

	return responses, steps
}

func (r *Registry) executeOne(ctx context.Context, call llms.ToolCall) (step researchagent.Step) {
	step.ToolCallID = call.ID
	if call.FunctionCall == nil {
		step.Err = fmt.Errorf("%w: tool call %q has no function", ErrInvalidArguments, call.ID)
		step.Output = errorOutput(step.Err)
		return step
	}
	step.Tool = call.FunctionCall.Name

	defer func() {
		if rec := recover(); rec != nil {
			step.Err = fmt.Errorf("tool %s panicked: %v", step.Tool, rec)
			step.Output = errorOutput(step.Err)
		}
	}()

	tool, ok := r.toolMap[step.Tool]
	if !ok {
		step.Err = fmt.Errorf("%w: %s", ErrUnknownTool, step.Tool)
		step.Output = errorOutput(step.Err)
		return step
	}

	input, err := r.parseInput(step.Tool, call.FunctionCall.Arguments)
	if err != nil {
		step.Err = err
		step.Output = errorOutput(err)
		return step
	}
	step.Input = input

	start := time.Now()
	output, err := tool.Call(ctx, input)
	duration := time.Since(start)

	if err != nil {
		step.Err = err
		step.Output = errorOutput(err)
	} else {
		step.Output = output
	}

	r.logger.DebugContext(ctx, "tool call",
		"tool", step.Tool,
		"input", input,
		"duration", duration,
		"error", step.Err,
	)
	return step
}

// parseInput validates raw JSON arguments against the tool's schema and returns
// the "input" string.
func (r *Registry) parseInput(name, arguments string) (string, error) {
	var args any
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	if err := r.schemaMap[name].Validate(args); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}
	// Validated above: an object with a string "input".
	return args.(map[string]any)[ArgInput].(string), nil
}

func argumentSchema(tool researchagent.Tool) map[string]any {
	description := defaultInputDescription
	if d, ok := tool.(researchagent.InputDescriber); ok {
		description = d.InputDescription()
	}
	return schema.Object(map[string]*schema.Property{
		ArgInput: schema.String(description).MinLength(1),
	}, ArgInput)
}

func errorOutput(err error) string {
	return "Error: " + err.Error()
}
