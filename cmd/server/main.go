// Command server runs the action server that the dialogue engine calls on
// POST /webhook.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/soulpath-wellness/soulpath-actions-go/internal/app"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/config"
)

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	application, err := app.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	return application.Run()
}

func main() {
	if err := run(context.Background()); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "soulpath-actions: %v\n", err)
		os.Exit(1)
	}
}
