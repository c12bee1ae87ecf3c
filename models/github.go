package models

import (
	"fmt"
	"net/http"

	"github.com/tmc/langchaingo/llms/openai"
)

const (
	// GitHubModelsBaseURL is the base URL for the GitHub Models API.
	// The OpenAI-compatible chat completions endpoint is at
	// {baseURL}/chat/completions.
	GitHubModelsBaseURL = "https://models.github.ai/inference"

	// GHCopilotGPT41Mini is the default GitHub Models ID, in publisher/model
	// format.
	GHCopilotGPT41Mini = "openai/gpt-4.1-mini"
)

// githubHeaderTransport injects GitHub-specific headers into every request.
// It satisfies the Doer interface langchaingo's openai client sends through.
type githubHeaderTransport struct {
	base http.RoundTripper
}

func (t *githubHeaderTransport) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	return t.base.RoundTrip(req)
}

// NewGitHubModel creates a model backed by the GitHub Models API, e.g.
// "openai/gpt-4.1". The token must be a fine-grained personal access token with
// the models:read permission.
//
// Additional openai.Option values customise the underlying langchaingo client
// and override the defaults.
func NewGitHubModel(
	model string,
	token string,
	opts ...openai.Option,
) (*LCGWrapper, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: github token is required: "+
			"create a fine-grained PAT with models:read "+
			"at https://github.com/settings/personal-access-tokens/new", ErrMissingAPIKey)
	}
	if model == "" {
		model = GHCopilotGPT41Mini
	}

	baseOpts := []openai.Option{
		openai.WithBaseURL(GitHubModelsBaseURL),
		openai.WithToken(token),
		openai.WithModel(model),
		openai.WithHTTPClient(&githubHeaderTransport{
			base: http.DefaultTransport,
		}),
	}

	llm, err := openai.New(append(baseOpts, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub Models client: %w", err)
	}

	return NewLCGWrapper(llm).WithModelName(model), nil
}
