// Package toolcall implements an agent loop built on native model tool calling.
//
// # Overview
//
// Each iteration sends the conversation and the registry's tool definitions to
// the model. When the reply carries tool calls, the agent runs them through the
// toolchain.Registry, appends the assistant message and one tool message per
// response, and asks again. The first reply without tool calls ends the run and
// its text becomes Result.Output.
//
// # Prompt
//
// The system prompt is a Go template rendered through a langchaingo
// prompts.ChatPromptTemplate. Two partial variables are always available:
//
//   - {{.format_instructions}}: text set with WithFormatInstructions
//   - {{.today}}: the current date from the TimeProvider
//
// The user query follows as the human message.
//
// # Failure Modes
//
// Tool failures never stop the loop; they reach the model as response text so
// it can recover. The run fails when:
//   - the model call returns an error (wrapped, the original is reachable with errors.Is)
//   - the model returns no choices (ErrNoChoices)
//   - the model keeps calling tools past the iteration limit (ErrMaxIterationsExceeded)
//   - the context is cancelled
//
// A failed run still returns the partial Result with steps and stats gathered so far.
//
// # Configuration
//
//   - WithSystemPrompt: system prompt template
//   - WithFormatInstructions: value of {{.format_instructions}}
//   - WithMaxIterations: model call limit (default 15)
//   - WithTemperature: sampling temperature (default 0)
//   - WithLogger: slog logger for model calls and tool steps
//   - WithTimeProvider: clock used for {{.today}}
package toolcall
