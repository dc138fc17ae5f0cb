// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/soulpath-wellness/soulpath-actions-go/internal/action"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/audiostore"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/buildinfo"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/config"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/content"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/ctxutil"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/logger"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/metrics"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/sentry"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/webhook"
)

// ServiceName is attached to every log entry.
const ServiceName = "soulpath-actions"

// Application manages the application lifecycle and dependencies.
type Application struct {
	cfg            *config.Config
	logger         *logger.Logger
	metrics        *metrics.Metrics
	registry       *prometheus.Registry
	dispatcher     *action.Dispatcher
	webhookHandler *webhook.Handler
	server         *http.Server
}

// Initialize creates and initializes a new application with all dependencies.
func Initialize(ctx context.Context, cfg *config.Config) (*Application, error) {
	log := logger.NewWithOptions(cfg.LogLevel, os.Stdout, logger.Options{
		BetterStackToken:    cfg.BetterStackToken,
		BetterStackEndpoint: cfg.BetterStackEndpoint,
	})

	log = log.WithField("service", ServiceName).WithField("release", buildinfo.Release())
	if host, err := os.Hostname(); err == nil && host != "" {
		log = log.WithField("instance_id", host)
	}

	// ContextHandler adds sender_id, action and request_id to slog.*Context calls.
	slog.SetDefault(log.Logger)

	log.Info("Initializing application...")
	if cfg.BetterStackToken != "" {
		log.WithField("endpoint", cfg.BetterStackEndpoint).Info("Better Stack logging enabled")
	}

	if err := sentry.Initialize(sentry.Config{
		Token:       cfg.SentryToken,
		Host:        cfg.SentryHost,
		Environment: cfg.SentryEnvironment,
		Release:     buildinfo.Release(),
		SampleRate:  cfg.SentrySampleRate,
	}); err != nil {
		log.WithError(err).Warn("Sentry initialization failed")
	} else if sentry.IsEnabled() {
		log.WithField("environment", cfg.SentryEnvironment).Info("Sentry error tracking enabled")
	}

	docs, err := content.Load(cfg.ContentPath)
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	log.WithField("teachers", len(docs.Teachers)).
		WithField("fallback_buckets", len(docs.Fallback.Buckets)).
		Info("Content loaded")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewBuildInfoCollector(),
	)
	m := metrics.New(registry)
	m.ObserveLogDrops(log.DroppedRecords)

	deps := ModuleDeps{
		Content: docs,
		Logger:  log,
		Metrics: m,
	}
	if cfg.Audio.Enabled() {
		store, err := audiostore.New(ctx, audiostore.Config{
			Endpoint:    cfg.Audio.Endpoint,
			AccessKeyID: cfg.Audio.AccessKeyID,
			SecretKey:   cfg.Audio.SecretAccessKey,
			Bucket:      cfg.Audio.Bucket,
			URLTTL:      cfg.Audio.URLTTL,
		})
		if err != nil {
			log.WithError(err).Warn("Audio store unavailable, clips will be sent inline")
		} else {
			deps.Audio = store
			log.WithField("bucket", cfg.Audio.Bucket).Info("Audio store enabled")
		}
	}

	actions, err := BuildRegistry(deps)
	if err != nil {
		return nil, fmt.Errorf("actions: %w", err)
	}

	dispatcher := action.NewDispatcher(action.DispatcherConfig{
		Registry: actions,
		Logger:   log,
		Metrics:  m,
	})
	webhookHandler := webhook.NewHandler(webhook.HandlerConfig{
		Dispatcher: dispatcher,
		Metrics:    m,
		Logger:     log,
	})

	app := &Application{
		cfg:            cfg,
		logger:         log,
		metrics:        m,
		registry:       registry,
		dispatcher:     dispatcher,
		webhookHandler: webhookHandler,
	}

	app.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.routes(),
		ReadHeaderTimeout: config.WebhookHTTPRead,
		ReadTimeout:       config.WebhookHTTPRead,
		WriteTimeout:      config.WebhookHTTPWrite,
		IdleTimeout:       config.WebhookHTTPIdle,
	}

	log.WithField("actions", actions.Len()).Info("Initialization complete")
	return app, nil
}

// routes builds the HTTP handler. Responses are gzipped when the client
// accepts it.
func (a *Application) routes() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	router.Use(securityHeadersMiddleware())
	router.Use(loggingMiddleware(a.logger))

	router.GET("/health", a.healthCheck)
	router.GET("/livez", a.livenessCheck)
	router.HEAD("/livez", a.livenessCheck)
	router.GET("/actions", a.webhookHandler.ListActions)
	router.POST("/webhook", a.webhookHandler.Handle)
	router.GET("/metrics",
		requireBasicAuth(a.cfg.MetricsUsername, a.cfg.MetricsPassword),
		gin.WrapH(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))

	return gzhttp.GzipHandler(router)
}

func (a *Application) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

func (a *Application) livenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

// Run serves until SIGINT or SIGTERM, then shuts down gracefully.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.WithField("port", a.cfg.Port).Info("Starting HTTP server")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		a.logger.Info("Received shutdown signal")
		return a.shutdown()
	})

	return g.Wait()
}

func (a *Application) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	a.logger.Info("Stopping HTTP server...")
	var serverErr error
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Error("HTTP server shutdown error")
		serverErr = fmt.Errorf("http shutdown: %w", err)
	}

	if sentry.IsEnabled() && !sentry.Flush(config.SentryFlush) {
		a.logger.Warn("Sentry flush timed out")
	}

	a.logger.Info("Shutdown complete")
	if err := a.logger.Shutdown(shutdownCtx); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "logger shutdown: %v\n", err)
	}
	return serverErr
}

// securityHeadersMiddleware adds security headers to responses.
func securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Content-Security-Policy", "default-src 'none'")
		c.Header("X-Permitted-Cross-Domain-Policies", "none")
		c.Next()
	}
}

// requestIDHeaders are checked in order for an upstream request id.
var requestIDHeaders = []string{"X-Request-Id", "X-Correlation-Id"}

// loggingMiddleware tags each request with an id (taken from the caller or
// generated) and logs it with status-based levels:
// 5xx=Error, 4xx=Warn, 404=Debug, 3xx/2xx=Debug.
func loggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		var requestID string
		for _, h := range requestIDHeaders {
			if requestID = c.GetHeader(h); requestID != "" {
				break
			}
		}
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(webhook.RequestIDKey, requestID)
		c.Header("X-Request-Id", requestID)
		c.Request = c.Request.WithContext(ctxutil.WithRequestID(c.Request.Context(), requestID))

		c.Next()

		status := c.Writer.Status()
		entry := log.WithRequestID(requestID).
			WithField("http_method", method).
			WithField("http_path", path).
			WithField("http_status", status).
			WithField("duration_ms", time.Since(start).Milliseconds()).
			WithField("client_ip", c.ClientIP())

		switch {
		case status >= 500:
			entry.Error("HTTP request failed")
		case status >= 400 && status != http.StatusNotFound:
			entry.Warn("HTTP request rejected")
		case status == http.StatusNotFound:
			entry.Debug("HTTP request not found")
		default:
			entry.Debug("HTTP request completed")
		}
	}
}
