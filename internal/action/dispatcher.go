package action

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/soulpath-wellness/soulpath-actions-go/internal/ctxutil"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/dialogue"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/logger"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/metrics"
)

// FallbackAction is the action run when the engine names an unknown action.
const FallbackAction = "action_default_fallback"

// UnexpectedReply is sent when an action fails outside of Attempt.
const UnexpectedReply = "Hubo un error inesperado. ¿En qué más puedo ayudarte?"

// Dispatch outcomes used as the metrics label.
const (
	OutcomeOK       = "ok"
	OutcomeDegraded = "degraded"
	OutcomeError    = "error"
	OutcomePanic    = "panic"
	OutcomeUnknown  = "unknown"

	// unknownActionLabel is the action label for names that are not
	// registered. The raw name is only logged.
	unknownActionLabel = "unknown"
)

// Handler runs a resolved action.
type Handler func(ctx context.Context, a Action, tracker *dialogue.Tracker, out *Collector) ([]dialogue.Event, error)

// Middleware wraps a Handler.
type Middleware func(next Handler) Handler

// DispatcherConfig wires a Dispatcher.
type DispatcherConfig struct {
	Registry *Registry
	Logger   *logger.Logger
	Metrics  *metrics.Metrics // optional

	// Fallback is run for unknown action names. Defaults to FallbackAction.
	Fallback string
}

// Dispatcher resolves an action name and runs it under the middleware chain.
type Dispatcher struct {
	registry *Registry
	logger   *logger.Logger
	metrics  *metrics.Metrics
	fallback string
	handler  Handler
}

// NewDispatcher builds a dispatcher with logging, metrics and recovery
// middleware, outermost first. Recovery sits innermost so a panic still
// reaches the logging and metrics layers as an error.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	if cfg.Registry == nil {
		cfg.Registry = NewRegistry()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.New("info")
	}
	if cfg.Fallback == "" {
		cfg.Fallback = FallbackAction
	}
	d := &Dispatcher{
		registry: cfg.Registry,
		logger:   cfg.Logger.WithModule("dispatcher"),
		metrics:  cfg.Metrics,
		fallback: cfg.Fallback,
	}
	d.handler = Chain(run,
		LoggingMiddleware(d.logger),
		MetricsMiddleware(d.metrics),
		RecoveryMiddleware(d.logger),
	)
	return d
}

// Registry returns the registry used for lookups.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Dispatch runs the named action against tracker. It always returns a
// result; failures become a generic apology with no events.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, tracker *dialogue.Tracker) dialogue.ActionResult {
	if tracker == nil {
		tracker = &dialogue.Tracker{}
	}
	ctx = ctxutil.WithAction(ctx, name)
	ctx = ctxutil.WithSenderID(ctx, tracker.SenderID)

	out := &Collector{}
	a, ok := d.registry.Get(name)
	if !ok {
		d.logger.WithField("action", name).Warn("Unknown action, running fallback")
		d.metrics.RecordDispatch(unknownActionLabel, OutcomeUnknown, 0)
		a, ok = d.registry.Get(d.fallback)
		if !ok {
			out.Utter(UnexpectedReply)
			return dialogue.NewActionResult(nil, out.Responses())
		}
	}

	events, err := d.handler(ctx, a, tracker, out)
	if err != nil {
		out.reset()
		out.Utter(UnexpectedReply)
		events = nil
	}
	return dialogue.NewActionResult(events, out.Responses())
}

func run(ctx context.Context, a Action, tracker *dialogue.Tracker, out *Collector) ([]dialogue.Event, error) {
	return a.Run(ctx, tracker, out)
}

// Chain applies middlewares so the first one listed runs outermost.
func Chain(h Handler, middlewares ...Middleware) Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// PanicError carries a value recovered from an action.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("action panic: %v", e.Value)
}

func outcomeOf(err error, out *Collector) string {
	switch {
	case err == nil && out.Degraded():
		return OutcomeDegraded
	case err == nil:
		return OutcomeOK
	default:
		var pe *PanicError
		if errors.As(err, &pe) {
			return OutcomePanic
		}
		return OutcomeError
	}
}

func since(start time.Time) float64 {
	return time.Since(start).Seconds()
}
