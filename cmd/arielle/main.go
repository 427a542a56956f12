// Command arielle answers questions about an OpenAPI document.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/arielle-cli/internal/adapters/driving/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is normal; variables may come from the shell.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := newDependencies("", os.Stderr)
	if err != nil {
		return err
	}

	cli.SetVersion(version)
	cli.SetSettingsService(deps.settings)
	cli.SetServiceBuilder(deps.buildServices)

	return cli.Execute(ctx)
}
