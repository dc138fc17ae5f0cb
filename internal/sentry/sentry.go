// Package sentry wraps the Sentry Go SDK for Better Stack error tracking.
// Only faults that are not explained by a failing dependency are reported:
// panics inside actions and unexpected outbound errors.
package sentry

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/soulpath-wellness/soulpath-actions-go/internal/ctxutil"
)

// Config points the SDK at a Better Stack Errors application.
type Config struct {
	Token       string // application token; empty disables reporting
	Host        string // ingesting host, e.g. errors.betterstack.com
	Environment string
	Release     string
	SampleRate  float64 // 0 means report everything
}

// Initialize sets up the Sentry SDK. An empty Token leaves Sentry disabled.
// The DSN is built as https://$TOKEN@$HOST/1; Better Stack ignores the project ID.
func Initialize(cfg Config) error {
	if cfg.Token == "" {
		return nil
	}
	if cfg.Host == "" {
		return fmt.Errorf("sentry host is required when token is provided")
	}

	opts := sentry.ClientOptions{
		Dsn:              fmt.Sprintf("https://%s@%s/1", cfg.Token, cfg.Host),
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		SampleRate:       cfg.SampleRate,
		AttachStacktrace: true,
	}
	if opts.SampleRate <= 0 || opts.SampleRate > 1 {
		opts.SampleRate = 1.0
	}
	return sentry.Init(opts)
}

// Flush reports whether buffered events were delivered within timeout.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

// IsEnabled reports whether a client is bound to the global hub.
func IsEnabled() bool {
	return sentry.CurrentHub().Client() != nil
}

func hubFrom(ctx context.Context) *sentry.Hub {
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		return hub
	}
	return sentry.CurrentHub()
}

// report runs fn on a scope carrying the dispatch trace from ctx plus tags.
// The sender id becomes the Sentry user so one conversation groups together.
func report(ctx context.Context, tags map[string]string, fn func(*sentry.Hub)) {
	hub := hubFrom(ctx)
	hub.WithScope(func(scope *sentry.Scope) {
		trace := ctxutil.TraceFrom(ctx)
		if trace.SenderID != "" {
			scope.SetUser(sentry.User{ID: trace.SenderID})
		}
		if trace.Action != "" {
			scope.SetTag("action", trace.Action)
		}
		if trace.RequestID != "" {
			scope.SetTag("request_id", trace.RequestID)
		}
		scope.SetTags(tags)
		fn(hub)
	})
}

// CaptureException reports err on the hub bound to ctx by the HTTP
// middleware, falling back to the global hub.
func CaptureException(ctx context.Context, err error, tags map[string]string) {
	if err == nil || hubFrom(ctx).Client() == nil {
		return
	}
	report(ctx, tags, func(hub *sentry.Hub) { hub.CaptureException(err) })
}

// Recover reports a recovered panic value.
func Recover(ctx context.Context, recovered any, tags map[string]string) {
	if recovered == nil || hubFrom(ctx).Client() == nil {
		return
	}
	report(ctx, tags, func(hub *sentry.Hub) { hub.RecoverWithContext(ctx, recovered) })
}
