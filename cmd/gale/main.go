// Package main is the entry point for the gale workflow runner.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"github.com/joho/godotenv"
	"go.trai.ch/gale/cmd/gale/commands"
	"go.trai.ch/gale/internal/app"
	"go.trai.ch/gale/internal/core/domain"
	_ "go.trai.ch/gale/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run() int {
	// 0. Environment overrides from an optional .env file
	_ = godotenv.Load()

	// 1. Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 2. Initialize application components
	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		// zerr prints a report with stack trace and metadata when using %+v
		_, _ = fmt.Fprintf(os.Stderr, "%+v\n", err)
		return 1
	}

	// 3. Interface - CLI
	cli := commands.New(components)

	// 4. Execution
	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, domain.ErrRunFailed) {
			// Per-job causes were already logged with the run summary.
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}
