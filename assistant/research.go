package assistant

import (
	"errors"

	researchagent "github.com/vishnuvardhanreddy31/research-agent"
)

// ResearchResponse is the research assistant's answer.
type ResearchResponse struct {
	Topic     string   `json:"topic" description:"The research topic"`
	Summary   string   `json:"summary" description:"A summary of the findings"`
	Sources   []string `json:"sources" description:"Sources the summary is based on"`
	ToolsUsed []string `json:"tools_used" description:"Names of the tools used"`
}

// ResearchExample is shown to the model in the format instructions.
var ResearchExample = ResearchResponse{
	Topic:     "Photosynthesis",
	Summary:   "Photosynthesis converts light energy into chemical energy stored in glucose.",
	Sources:   []string{"https://en.wikipedia.org/wiki/Photosynthesis"},
	ToolsUsed: []string{"search", "wikipedia"},
}

// ResearchSystemPrompt is the research assistant's system prompt template.
const ResearchSystemPrompt = `You are a research assistant that will help generate a research paper.
Always use the provided tools (search, wikipedia) to gather information. If the user asks to save information, use the ` + "`save_text_to_file`" + ` tool with the generated ` + "`summary`" + ` as its input.
Answer the user query and wrap the output in this format and provide no other text
{{.format_instructions}}`

// ErrNoTools is returned when an assistant is built without any tool.
var ErrNoTools = errors.New("assistant: no tools configured")

// ResearchDeps are the tools of the research assistant. Nil tools are left out.
type ResearchDeps struct {
	Search    researchagent.Tool
	Wikipedia researchagent.Tool
	Save      researchagent.Tool
}

func (d ResearchDeps) tools() []researchagent.Tool {
	var tools []researchagent.Tool
	for _, t := range []researchagent.Tool{d.Search, d.Wikipedia, d.Save} {
		if t != nil {
			tools = append(tools, t)
		}
	}
	return tools
}

// Research answers research questions with a ResearchResponse.
type Research = Assistant[ResearchResponse]

// NewResearch builds the research assistant.
func NewResearch(model researchagent.Model, deps ResearchDeps, opts ...Option) (*Research, error) {
	tools := deps.tools()
	if len(tools) == 0 {
		return nil, ErrNoTools
	}
	return newAssistant(model, tools, ResearchSystemPrompt, ResearchExample, newOptions(opts)), nil
}
