// Package researchagent holds the types shared by the research and database
// assistants: the tool contract, the model contract and run statistics.
//
// The assistants themselves live in the assistant package. A typical run looks
// like this:
//
//	llm, _ := models.New(ctx, cfg.Model, logger)
//	research, _ := assistant.NewResearch(llm, assistant.ResearchDeps{
//	    Search:    websearch.New(),
//	    Wikipedia: wikipedia.New(),
//	    Save:      savefile.New("research_output.txt"),
//	})
//	answer, err := research.Ask(ctx, "history of the printing press")
//
// # Tools
//
// A [Tool] takes a single string input and returns text for the model. The
// toolchain package turns a closed set of tools into model tool definitions and
// dispatches the calls the model makes.
//
// # Structured answers
//
// The final answer of every assistant is a fenced JSON block. The schema package
// derives a JSON Schema from the answer struct and renders it into the prompt; the
// extract package strips the fence, decodes and validates the payload. Extraction
// failures are classified (unexpected format, decode error, validation error) and
// always carry the raw model text.
//
// # Stats
//
// [Stats] counts iterations, tokens and tool calls for a single run. See
// stats_keys.go for the keys.
package researchagent
