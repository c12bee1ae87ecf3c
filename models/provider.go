// Package models adapts langchaingo models to researchagent.Model and builds them
// from configuration.
package models

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
	researchagent "github.com/vishnuvardhanreddy31/research-agent"
)

// Supported providers.
const (
	ProviderGoogleAI = "googleai"
	ProviderOpenAI   = "openai"
	ProviderGitHub   = "github"
)

var (
	// ErrMissingAPIKey is returned when the selected provider has no API key.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrUnknownProvider is returned for a provider name New does not know.
	ErrUnknownProvider = errors.New("unknown model provider")
)

// Config selects and configures the model backend.
type Config struct {
	// Provider is one of "googleai" (default), "openai" or "github".
	Provider string `yaml:"provider"`

	// Model is the model name. Defaults to gemini-2.5-flash for googleai,
	// gpt-4o-mini for openai and openai/gpt-4.1-mini for github.
	Model string `yaml:"model"`

	// APIKey authenticates against the provider.
	APIKey string `yaml:"api_key"`

	// BaseURL points the openai provider at any OpenAI-compatible endpoint.
	BaseURL string `yaml:"base_url"`
}

// WithDefaults returns c with the provider and model filled in.
func (c Config) WithDefaults() Config {
	if c.Provider == "" {
		c.Provider = ProviderGoogleAI
	}
	if c.Model == "" {
		switch c.Provider {
		case ProviderGoogleAI:
			c.Model = researchagent.DefaultModel
		case ProviderOpenAI:
			c.Model = researchagent.ModelOpenAIGPT4oMini
		case ProviderGitHub:
			c.Model = GHCopilotGPT41Mini
		}
	}
	return c
}

// New builds the model described by cfg.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*LCGWrapper, error) {
	cfg = cfg.WithDefaults()

	switch cfg.Provider {
	case ProviderGoogleAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%w: set GOOGLE_API_KEY or model.api_key", ErrMissingAPIKey)
		}
		llm, err := googleai.New(ctx,
			googleai.WithAPIKey(cfg.APIKey),
			googleai.WithDefaultModel(cfg.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Google AI client: %w", err)
		}
		return NewLCGWrapper(llm).WithModelName(cfg.Model).WithLogger(logger), nil

	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%w: set OPENAI_API_KEY or model.api_key", ErrMissingAPIKey)
		}
		opts := []openai.Option{
			openai.WithToken(cfg.APIKey),
			openai.WithModel(cfg.Model),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		llm, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
		}
		return NewLCGWrapper(llm).WithModelName(cfg.Model).WithLogger(logger), nil

	case ProviderGitHub:
		m, err := NewGitHubModel(cfg.Model, cfg.APIKey)
		if err != nil {
			return nil, err
		}
		return m.WithLogger(logger), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
