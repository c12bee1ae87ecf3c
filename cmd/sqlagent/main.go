// Command sqlagent answers questions about a sample SQLite users table by
// letting the model run SQL queries.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vishnuvardhanreddy31/research-agent/config"
	"github.com/vishnuvardhanreddy31/research-agent/internal/app"
	"github.com/vishnuvardhanreddy31/research-agent/internal/render"
)

const prompt = "What can I help you with regarding the database? "

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to the YAML configuration file")
	query := flag.String("q", "", `query, e.g. "Query database for: SELECT * FROM users"; prompts when empty`)
	output := flag.String("output", "text", "output format: text, json or yaml")
	verbose := flag.Bool("verbose", false, "log model calls and tool steps")
	lenient := flag.Bool("lenient", false, "accept a fenced answer anywhere in the reply and repair broken JSON")
	flag.Parse()

	app.LoadEnv()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sqlagent: %v\n", err)
		return app.ExitError
	}
	if *lenient {
		cfg.Agent.Lenient = true
	}

	format, err := render.ParseFormat(*output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sqlagent: %v\n", err)
		return app.ExitError
	}

	logger := app.NewLogger(os.Stderr, cfg.LogLevel, *verbose)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	model, err := app.NewModel(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sqlagent: %v\n", err)
		return app.ExitError
	}

	db, store, err := app.NewDatabase(ctx, cfg, model, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sqlagent: %v\n", err)
		return app.ExitError
	}
	defer store.Close()

	q, err := app.ReadQuery(*query, prompt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sqlagent: %v\n", err)
		return app.ExitError
	}

	answer, err := db.Ask(ctx, q)
	return app.Report(render.New(os.Stdout, format), os.Stderr, answer, err)
}
