package toolcall

import (
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"
)

// Template variables.
const (
	VarFormatInstructions = "format_instructions"
	VarToday              = "today"
	VarQuery              = "query"
)

// DefaultSystemPrompt is used when WithSystemPrompt is not called.
const DefaultSystemPrompt = `You are a helpful assistant. Use the available tools when they help answer the query, and do not make up facts.
{{.format_instructions}}`

// NewPrompt builds the chat template: the system prompt followed by the query.
func NewPrompt(system string, partials map[string]any) prompts.ChatPromptTemplate {
	tmpl := prompts.NewChatPromptTemplate([]prompts.MessageFormatter{
		prompts.NewSystemMessagePromptTemplate(system, nil),
		prompts.NewHumanMessagePromptTemplate("{{.query}}", []string{VarQuery}),
	})
	tmpl.PartialVariables = partials
	return tmpl
}

// RenderMessages formats the template for query into model messages.
func RenderMessages(tmpl prompts.ChatPromptTemplate, query string) ([]llms.MessageContent, error) {
	chat, err := tmpl.FormatMessages(map[string]any{VarQuery: query})
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	messages := make([]llms.MessageContent, 0, len(chat))
	for _, m := range chat {
		messages = append(messages, llms.TextParts(m.GetType(), m.GetContent()))
	}
	return messages, nil
}
