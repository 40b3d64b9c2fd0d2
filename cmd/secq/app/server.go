// Package app provides the secq command line application.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kart-io/secq/cmd/secq/app/options"
	"github.com/kart-io/secq/pkg/infra/app"
)

const (
	// Name is the name of the application.
	Name = "secq"

	// commandDesc is the description of the command.
	commandDesc = `secq answers a security questionnaire from a policy document.

It runs once and exits:
  - extracts the text of the source PDF into an in-memory vector index
  - answers every question of the question set with the configured LLM,
    using the nearest document text as context
  - renders the answers into an HTML report (and optionally an .xlsx file)

Required settings may come from flags, a config file, SECQ_* variables or the
legacy variables SECURITY_QUESTIONS_FILE, TEMPLATE_DIR, TEMPLATE_NAME,
OUTPUT_DIR, OLLAMA_API_URL, OLLAMA_MODEL and PDF_FILE_NAME (also read from .env).`
)

// NewApp creates and returns a new App object with default parameters.
func NewApp() *app.App {
	opts := options.NewServerOptions()
	application := app.NewApp(
		app.WithName(Name),
		app.WithShortDescription("Generate a security questionnaire report"),
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithRunFunc(run(opts)),
		app.WithSilence(),
	)

	return application
}

// run contains the main logic of a single report run.
func run(opts *options.ServerOptions) app.RunFunc {
	return func() error {
		cfg, err := opts.Config()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		ctx := setupSignalContext()
		return cfg.Run(ctx)
	}
}

// setupSignalContext returns a context that is cancelled on SIGINT or SIGTERM.
func setupSignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		cancel()
		<-c
		os.Exit(1)
	}()
	return ctx
}
