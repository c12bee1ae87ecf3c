// Command listmodels prints the Gemini models that support content generation.
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
	"github.com/vishnuvardhanreddy31/research-agent/models"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to the YAML configuration file")
	flag.Parse()

	app.LoadEnv()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "listmodels: %v\n", err)
		return app.ExitError
	}

	apiKey := os.Getenv(config.APIKeyEnv[models.ProviderGoogleAI])
	if cfg.Model.Provider == models.ProviderGoogleAI && cfg.Model.APIKey != "" {
		apiKey = cfg.Model.APIKey
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	names, err := models.ListGeminiModels(ctx, apiKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "listmodels: %v\n", err)
		return app.ExitError
	}

	fmt.Println("Available Gemini models:")
	for _, name := range names {
		fmt.Printf("- %s\n", name)
	}
	return app.ExitOK
}
