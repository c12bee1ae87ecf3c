package models

import (
	"context"
	"fmt"
	"iter"
	"slices"

	"google.golang.org/genai"
)

// ActionGenerateContent is the supported action of models that can chat.
const ActionGenerateContent = "generateContent"

// ListGenerateModels collects the names of models that support content
// generation, in catalog order. It stops at the first error.
func ListGenerateModels(seq iter.Seq2[*genai.Model, error]) ([]string, error) {
	var names []string
	for m, err := range seq {
		if err != nil {
			return names, fmt.Errorf("list models: %w", err)
		}
		if m != nil && slices.Contains(m.SupportedActions, ActionGenerateContent) {
			names = append(names, m.Name)
		}
	}
	return names, nil
}

// ListGeminiModels lists the Gemini API models usable for content generation.
func ListGeminiModels(ctx context.Context, apiKey string) ([]string, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set GOOGLE_API_KEY", ErrMissingAPIKey)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return ListGenerateModels(client.Models.All(ctx))
}
