// Package toolchain describes a closed set of tools to the model and executes
// the tool calls the model makes.
//
// # Overview
//
// A Registry is responsible for:
//  1. Explaining to the model what tools are available and their expected inputs
//  2. Validating tool arguments against JSON Schema
//  3. Executing the calls of one model turn and turning the results into tool
//     responses
//
// Every tool takes a single string argument named "input":
//
//	{"input": "SELECT name FROM users"}
//
// Failures never abort a turn. An unknown tool, invalid arguments or an error
// returned by the tool become the text of the tool response, so the model can see
// what went wrong and try again.
//
// # Usage
//
//	reg := toolchain.New().
//	    Register(websearch.New()).
//	    Register(wikipedia.New())
//
//	resp, err := llm.GenerateContent(ctx, messages, llms.WithTools(reg.Definitions()))
//	responses, steps := reg.Execute(ctx, resp.Choices[0].ToolCalls)
package toolchain
