package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"slices"

	"github.com/vishnuvardhanreddy31/research-agent/models"
	"gopkg.in/yaml.v3"
)

// APIKeyEnv maps each provider to the environment variable its API key is read
// from when model.api_key is empty.
var APIKeyEnv = map[string]string{
	models.ProviderGoogleAI: "GOOGLE_API_KEY",
	models.ProviderOpenAI:   "OPENAI_API_KEY",
	models.ProviderGitHub:   "GITHUB_TOKEN",
}

// Load reads the YAML configuration file at path and returns a validated
// [Config]. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return LoadFromReader(bytes.NewReader(nil))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r over the defaults, fills the API
// key from the environment and validates the result.
//
// ${VAR} and $VAR references are expanded from the environment before decoding.
func LoadFromReader(r io.Reader) (*Config, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("config: read: %w", err)
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader([]byte(os.ExpandEnv(string(raw)))))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}

	cfg.Model = cfg.Model.WithDefaults()
	if cfg.Model.APIKey == "" {
		if env, ok := APIKeyEnv[cfg.Model.Provider]; ok {
			cfg.Model.APIKey = os.Getenv(env)
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
//
// A missing API key is not checked here; models.New reports it, so commands
// that never call the model work without one.
func Validate(cfg *Config) error {
	var errs []error

	if !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}

	providers := []string{models.ProviderGoogleAI, models.ProviderOpenAI, models.ProviderGitHub}
	if provider := cfg.Model.WithDefaults().Provider; !slices.Contains(providers, provider) {
		errs = append(errs, fmt.Errorf("model.provider %q is invalid; valid values: googleai, openai, github", provider))
	}
	if err := validateURL("model.base_url", cfg.Model.BaseURL); err != nil {
		errs = append(errs, err)
	}

	if cfg.Agent.MaxIterations < 1 {
		errs = append(errs, fmt.Errorf("agent.max_iterations must be at least 1, got %d", cfg.Agent.MaxIterations))
	}
	if cfg.Agent.Temperature < 0 || cfg.Agent.Temperature > 2 {
		errs = append(errs, fmt.Errorf("agent.temperature %.2f is out of range [0, 2]", cfg.Agent.Temperature))
	}
	if cfg.Agent.Parallelism < 1 {
		errs = append(errs, fmt.Errorf("agent.parallelism must be at least 1, got %d", cfg.Agent.Parallelism))
	}

	if err := validateURL("search.base_url", cfg.Search.BaseURL); err != nil {
		errs = append(errs, err)
	}
	if cfg.Search.Timeout < 0 {
		errs = append(errs, errors.New("search.timeout must not be negative"))
	}
	if cfg.Search.RateLimit < 0 {
		errs = append(errs, errors.New("search.rate_limit must not be negative"))
	}
	if cfg.Search.RelatedTopics < 0 {
		errs = append(errs, errors.New("search.related_topics must not be negative"))
	}

	if err := validateURL("wikipedia.base_url", cfg.Wikipedia.BaseURL); err != nil {
		errs = append(errs, err)
	}
	if cfg.Wikipedia.Timeout < 0 {
		errs = append(errs, errors.New("wikipedia.timeout must not be negative"))
	}
	if cfg.Wikipedia.RateLimit < 0 {
		errs = append(errs, errors.New("wikipedia.rate_limit must not be negative"))
	}
	if cfg.Wikipedia.TopK < 1 {
		errs = append(errs, fmt.Errorf("wikipedia.top_k must be at least 1, got %d", cfg.Wikipedia.TopK))
	}
	if cfg.Wikipedia.MaxChars < 0 {
		errs = append(errs, errors.New("wikipedia.max_chars must not be negative"))
	}

	if cfg.Save.Path == "" {
		errs = append(errs, errors.New("save.path is required"))
	}

	return errors.Join(errs...)
}

func validateURL(field, raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s %q is invalid: %w", field, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s %q must be an http or https URL", field, raw)
	}
	return nil
}
