// Command healthcheck probes the local action server for container
// HEALTHCHECK directives. It exits non-zero unless /health answers 200.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/soulpath-wellness/soulpath-actions-go/internal/config"
)

const defaultPort = "5055"

func probe(ctx context.Context, port string) error {
	ctx, cancel := context.WithTimeout(ctx, config.HealthCheck)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://localhost:"+port+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health: status %d", resp.StatusCode)
	}
	return nil
}

func main() {
	port := os.Getenv(config.EnvPort)
	if port == "" {
		port = defaultPort
	}
	if err := probe(context.Background(), port); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
