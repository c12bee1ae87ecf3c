// Package config holds the YAML configuration shared by the commands.
package config

import (
	"log/slog"
	"time"

	"github.com/vishnuvardhanreddy31/research-agent/models"
	"github.com/vishnuvardhanreddy31/research-agent/sqlstore"
	"github.com/vishnuvardhanreddy31/research-agent/tools/savefile"
)

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Level converts l to a slog.Level. Unknown values map to info.
func (l LogLevel) Level() slog.Level {
	switch l {
	case LogDebug:
		return slog.LevelDebug
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config is the root configuration.
type Config struct {
	// LogLevel controls verbosity. Default: warn.
	LogLevel LogLevel `yaml:"log_level"`

	// Model selects the backend. Provider and model name defaults are applied
	// after decoding, so they follow the configured provider.
	Model     models.Config   `yaml:"model"`
	Agent     AgentConfig     `yaml:"agent"`
	Search    SearchConfig    `yaml:"search"`
	Wikipedia WikipediaConfig `yaml:"wikipedia"`
	Save      SaveConfig      `yaml:"save"`
	SQL       SQLConfig       `yaml:"sql"`
}

// AgentConfig tunes the tool-calling loop and answer extraction.
type AgentConfig struct {
	// MaxIterations bounds the model calls per query. Default: 15.
	MaxIterations int `yaml:"max_iterations"`

	// Temperature is the sampling temperature. Default: 0.
	Temperature float64 `yaml:"temperature"`

	// Parallelism caps concurrent tool calls within one model turn. Default: 4.
	Parallelism int `yaml:"parallelism"`

	// Lenient accepts a fenced block anywhere in the answer and repairs broken
	// JSON once.
	Lenient bool `yaml:"lenient"`

	// StrictSchema rejects answers carrying undeclared fields.
	StrictSchema bool `yaml:"strict_schema"`
}

// SearchConfig configures the web search tool.
type SearchConfig struct {
	BaseURL       string        `yaml:"base_url"`
	UserAgent     string        `yaml:"user_agent"`
	Timeout       time.Duration `yaml:"timeout"`
	RateLimit     float64       `yaml:"rate_limit"`
	Burst         int           `yaml:"burst"`
	RelatedTopics int           `yaml:"related_topics"`
}

// WikipediaConfig configures the Wikipedia tool.
type WikipediaConfig struct {
	BaseURL   string        `yaml:"base_url"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit float64       `yaml:"rate_limit"`
	Burst     int           `yaml:"burst"`
	TopK      int           `yaml:"top_k"`
	MaxChars  int           `yaml:"max_chars"`
}

// SaveConfig configures the save-to-file tool.
type SaveConfig struct {
	// Path is the file research output is appended to.
	Path string `yaml:"path"`
}

// SQLConfig configures the SQL store and query tool.
type SQLConfig struct {
	// DSN is the go-sqlite3 data source. Default: in-memory.
	DSN string `yaml:"dsn"`

	// AllowWrites lets the query tool run statements that modify data.
	AllowWrites bool `yaml:"allow_writes"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel: LogWarn,
		Agent: AgentConfig{
			MaxIterations: 15,
			Parallelism:   4,
		},
		Search: SearchConfig{
			Timeout:       15 * time.Second,
			RateLimit:     1,
			Burst:         1,
			RelatedTopics: 5,
		},
		Wikipedia: WikipediaConfig{
			Timeout:   15 * time.Second,
			RateLimit: 5,
			Burst:     2,
			TopK:      3,
			MaxChars:  4000,
		},
		Save: SaveConfig{Path: savefile.DefaultPath},
		SQL:  SQLConfig{DSN: sqlstore.MemoryDSN},
	}
}
