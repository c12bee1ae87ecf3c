// Package app wires configuration into models, tools and assistants, and holds
// the plumbing shared by the commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/chzyer/readline"
	"github.com/joho/godotenv"
	researchagent "github.com/vishnuvardhanreddy31/research-agent"
	"github.com/vishnuvardhanreddy31/research-agent/assistant"
	"github.com/vishnuvardhanreddy31/research-agent/config"
	"github.com/vishnuvardhanreddy31/research-agent/extract"
	"github.com/vishnuvardhanreddy31/research-agent/internal/render"
	"github.com/vishnuvardhanreddy31/research-agent/models"
	"github.com/vishnuvardhanreddy31/research-agent/sqlstore"
	"github.com/vishnuvardhanreddy31/research-agent/tools/savefile"
	"github.com/vishnuvardhanreddy31/research-agent/tools/websearch"
	"github.com/vishnuvardhanreddy31/research-agent/tools/wikipedia"
)

// Exit codes. Extraction failures are reported but still exit with ExitOK.
const (
	ExitOK    = 0
	ExitError = 1
)

// ErrEmptyQuery is returned when the user enters nothing.
var ErrEmptyQuery = errors.New("empty query")

// LoadEnv loads .env from the working directory if present.
func LoadEnv() {
	_ = godotenv.Load()
}

// NewLogger builds the text logger the commands write to w. verbose forces
// debug level.
func NewLogger(w io.Writer, level config.LogLevel, verbose bool) *slog.Logger {
	lvl := level.Level()
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// NewModel builds the configured model.
func NewModel(ctx context.Context, cfg *config.Config, logger *slog.Logger) (researchagent.Model, error) {
	m, err := models.New(ctx, cfg.Model, logger)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func assistantOptions(cfg *config.Config, logger *slog.Logger) []assistant.Option {
	opts := []assistant.Option{
		assistant.WithMaxIterations(cfg.Agent.MaxIterations),
		assistant.WithTemperature(cfg.Agent.Temperature),
		assistant.WithParallelism(cfg.Agent.Parallelism),
		assistant.WithLogger(logger),
		assistant.WithSQLReadOnly(!cfg.SQL.AllowWrites),
	}
	if cfg.Agent.Lenient {
		opts = append(opts, assistant.WithLenient())
	}
	if cfg.Agent.StrictSchema {
		opts = append(opts, assistant.WithStrictSchema())
	}
	return opts
}

// ResearchTools builds the research tools from cfg.
func ResearchTools(cfg *config.Config) assistant.ResearchDeps {
	searchOpts := []websearch.Option{
		websearch.WithHTTPClient(&http.Client{Timeout: cfg.Search.Timeout}),
		websearch.WithRateLimit(cfg.Search.RateLimit, cfg.Search.Burst),
		websearch.WithRelatedTopics(cfg.Search.RelatedTopics),
	}
	if cfg.Search.BaseURL != "" {
		searchOpts = append(searchOpts, websearch.WithBaseURL(cfg.Search.BaseURL))
	}
	if cfg.Search.UserAgent != "" {
		searchOpts = append(searchOpts, websearch.WithUserAgent(cfg.Search.UserAgent))
	}

	wikiOpts := []wikipedia.Option{
		wikipedia.WithHTTPClient(&http.Client{Timeout: cfg.Wikipedia.Timeout}),
		wikipedia.WithRateLimit(cfg.Wikipedia.RateLimit, cfg.Wikipedia.Burst),
		wikipedia.WithTopK(cfg.Wikipedia.TopK),
		wikipedia.WithMaxChars(cfg.Wikipedia.MaxChars),
	}
	if cfg.Wikipedia.BaseURL != "" {
		wikiOpts = append(wikiOpts, wikipedia.WithBaseURL(cfg.Wikipedia.BaseURL))
	}
	if cfg.Wikipedia.UserAgent != "" {
		wikiOpts = append(wikiOpts, wikipedia.WithUserAgent(cfg.Wikipedia.UserAgent))
	}

	return assistant.ResearchDeps{
		Search:    websearch.New(searchOpts...),
		Wikipedia: wikipedia.New(wikiOpts...),
		Save:      savefile.New(cfg.Save.Path),
	}
}

// NewResearch builds the research assistant.
func NewResearch(cfg *config.Config, model researchagent.Model, logger *slog.Logger) (*assistant.Research, error) {
	return assistant.NewResearch(model, ResearchTools(cfg), assistantOptions(cfg, logger)...)
}

// NewDatabase opens and seeds the SQL store and builds the database assistant
// over it. The caller closes the store.
func NewDatabase(
	ctx context.Context,
	cfg *config.Config,
	model researchagent.Model,
	logger *slog.Logger,
) (*assistant.Database, *sqlstore.Store, error) {
	store, err := sqlstore.Open(ctx, cfg.SQL.DSN)
	if err != nil {
		return nil, nil, err
	}
	if err := store.Seed(ctx); err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	logger.InfoContext(ctx, "sample database ready", "dsn", cfg.SQL.DSN, "table", "users")
	return assistant.NewDatabase(model, store, assistantOptions(cfg, logger)...), store, nil
}

// ReadQuery returns flagQuery when set, and otherwise asks for a query with
// prompt on the terminal.
func ReadQuery(flagQuery, prompt string) (string, error) {
	if q := strings.TrimSpace(flagQuery); q != "" {
		return q, nil
	}

	rl, err := readline.New(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	line, err := rl.Readline()
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", ErrEmptyQuery
	}
	return line, nil
}

// Report prints the outcome of Ask and returns the exit code. Extraction
// failures are printed with the raw model output and exit with ExitOK; any
// other error exits with ExitError.
func Report[T any](r *render.Renderer, stderr io.Writer, answer *assistant.Answer[T], err error) int {
	var extractErr *extract.Error
	switch {
	case errors.As(err, &extractErr):
		if rerr := r.Failure(extractErr); rerr != nil {
			fmt.Fprintf(stderr, "Error: %v\n", rerr)
			return ExitError
		}
		return ExitOK
	case err != nil:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitError
	}

	if rerr := r.Answer(answer.Value); rerr != nil {
		fmt.Fprintf(stderr, "Error: %v\n", rerr)
		return ExitError
	}
	if answer.Run != nil {
		if rerr := r.Tools(answer.Run.ToolsInvoked); rerr != nil {
			fmt.Fprintf(stderr, "Error: %v\n", rerr)
			return ExitError
		}
	}
	return ExitOK
}
