package researchagent

// Model names used as provider defaults.
// https://ai.google.dev/gemini-api/docs/models
// https://platform.openai.com/docs/models/
const (
	ModelGoogleGemini25Flash = "gemini-2.5-flash"
	ModelOpenAIGPT4oMini     = "gpt-4o-mini"
)

// DefaultModel is the model both assistants use unless configured otherwise.
const DefaultModel = ModelGoogleGemini25Flash
