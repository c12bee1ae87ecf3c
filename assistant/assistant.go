// Package assistant binds a prompt, a tool set and an answer schema into the
// research and database assistants.
//
// Ask separates two kinds of failure. Upstream failures (the model API, the
// iteration limit, cancellation) come back as plain wrapped errors and mean no
// answer text exists. Extraction failures come back as *extract.Error together
// with a non-nil Answer holding the raw text; callers report them and carry on.
package assistant

import (
	"context"
	"fmt"
	"log/slog"

	researchagent "github.com/vishnuvardhanreddy31/research-agent"
	"github.com/vishnuvardhanreddy31/research-agent/agents/toolcall"
	"github.com/vishnuvardhanreddy31/research-agent/extract"
	"github.com/vishnuvardhanreddy31/research-agent/schema"
	"github.com/vishnuvardhanreddy31/research-agent/toolchain"
)

// Answer is the outcome of one Ask.
type Answer[T any] struct {
	// Value is the validated answer. It is the zero T when extraction failed.
	Value T

	// Raw is the final model text the value was extracted from.
	Raw string

	// Run holds the agent's steps, tools and stats.
	Run *toolcall.Result
}

// Assistant answers queries with a typed, schema-validated value.
type Assistant[T any] struct {
	agent    *toolcall.Agent
	response *schema.Response[T]
	extract  []extract.Option
}

type options struct {
	lenient       bool
	strictSchema  bool
	sqlReadOnly   bool
	maxIterations int
	temperature   float64
	parallelism   int
	logger        *slog.Logger
	timeProvider  researchagent.TimeProvider
}

// Option configures an assistant.
type Option func(*options)

// WithLenient makes extraction accept a fenced block anywhere in the answer
// and repair broken JSON once.
func WithLenient() Option {
	return func(o *options) { o.lenient = true }
}

// WithStrictSchema rejects answers carrying undeclared fields.
func WithStrictSchema() Option {
	return func(o *options) { o.strictSchema = true }
}

// WithSQLReadOnly controls whether the database assistant may run statements
// that modify data. Default: true.
func WithSQLReadOnly(readOnly bool) Option {
	return func(o *options) { o.sqlReadOnly = readOnly }
}

// WithMaxIterations bounds the model calls per query.
func WithMaxIterations(n int) Option {
	return func(o *options) { o.maxIterations = n }
}

// WithTemperature sets the sampling temperature. Default: 0.
func WithTemperature(t float64) Option {
	return func(o *options) { o.temperature = t }
}

// WithParallelism caps concurrent tool calls within one model turn.
func WithParallelism(n int) Option {
	return func(o *options) { o.parallelism = n }
}

// WithLogger sets the logger for the agent and the tool registry.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithTimeProvider sets the clock used in prompts.
func WithTimeProvider(tp researchagent.TimeProvider) Option {
	return func(o *options) { o.timeProvider = tp }
}

func newOptions(opts []Option) options {
	o := options{
		sqlReadOnly:   true,
		maxIterations: toolcall.DefaultMaxIterations,
		parallelism:   4,
		logger:        slog.New(slog.DiscardHandler),
		timeProvider:  researchagent.NewDefaultTimeProvider(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o
}

func newAssistant[T any](
	model researchagent.Model,
	tools []researchagent.Tool,
	systemPrompt string,
	example T,
	o options,
) *Assistant[T] {
	schemaOpts := []schema.ResponseOption[T]{schema.WithExample(example)}
	if o.strictSchema {
		schemaOpts = append(schemaOpts, schema.WithStrict[T]())
	}
	response := schema.MustResponse(schemaOpts...)

	registry := toolchain.New().
		WithParallelism(o.parallelism).
		WithLogger(o.logger)
	for _, tool := range tools {
		registry.Register(tool)
	}

	agent := toolcall.NewAgent(model, registry).
		WithSystemPrompt(systemPrompt).
		WithFormatInstructions(extract.FormatInstructions(response)).
		WithMaxIterations(o.maxIterations).
		WithTemperature(o.temperature).
		WithLogger(o.logger).
		WithTimeProvider(o.timeProvider)

	var extractOpts []extract.Option
	if o.lenient {
		extractOpts = append(extractOpts, extract.WithLenient())
	}

	return &Assistant[T]{agent: agent, response: response, extract: extractOpts}
}

// Tools returns the names of the tools the assistant offers the model.
func (a *Assistant[T]) Tools() []string {
	return a.agent.Registry().Names()
}

// Schema returns the answer schema.
func (a *Assistant[T]) Schema() *schema.Response[T] {
	return a.response
}

// Ask runs the agent on query and extracts the typed answer from its final text.
//
// When the agent fails, Ask returns a nil Answer and the wrapped error. When
// extraction fails, Ask returns the Answer with Raw and Run set and an
// *extract.Error.
func (a *Assistant[T]) Ask(ctx context.Context, query string) (*Answer[T], error) {
	result, err := a.agent.Run(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("agent run: %w", err)
	}

	answer := &Answer[T]{Raw: result.Output, Run: result}
	value, err := extract.Extract(result.Output, a.response, a.extract...)
	if err != nil {
		return answer, err
	}
	answer.Value = value
	return answer, nil
}
