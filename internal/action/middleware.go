package action

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/soulpath-wellness/soulpath-actions-go/internal/dialogue"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/logger"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/metrics"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/sentry"
)

// RecoveryMiddleware converts a panic into a *PanicError and reports it.
func RecoveryMiddleware(log *logger.Logger) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, a Action, tracker *dialogue.Tracker, out *Collector) (events []dialogue.Event, err error) {
			defer func() {
				if r := recover(); r != nil {
					stack := debug.Stack()
					log.WithField("action", a.Name()).
						WithField("panic", r).
						WithField("stack", string(stack)).
						Error("Action panicked")
					sentry.Recover(ctx, r, map[string]string{"action": a.Name()})
					events, err = nil, &PanicError{Value: r, Stack: stack}
				}
			}()
			return next(ctx, a, tracker, out)
		}
	}
}

// LoggingMiddleware logs each dispatch with its duration and outcome.
func LoggingMiddleware(log *logger.Logger) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, a Action, tracker *dialogue.Tracker, out *Collector) ([]dialogue.Event, error) {
			start := time.Now()
			events, err := next(ctx, a, tracker, out)
			entry := log.WithFields(map[string]any{
				"action":      a.Name(),
				"duration_ms": time.Since(start).Milliseconds(),
				"events":      len(events),
				"responses":   len(out.Responses()),
				"outcome":     outcomeOf(err, out),
			})
			var pe *PanicError
			switch {
			case errors.As(err, &pe):
				// already logged with the stack
			case err != nil:
				entry.WithError(err).ErrorContext(ctx, "Action failed")
				sentry.CaptureException(ctx, err, map[string]string{"action": a.Name()})
			default:
				entry.DebugContext(ctx, "Action dispatched")
			}
			return events, err
		}
	}
}

// MetricsMiddleware records dispatch counts and latency. m may be nil.
func MetricsMiddleware(m *metrics.Metrics) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, a Action, tracker *dialogue.Tracker, out *Collector) ([]dialogue.Event, error) {
			start := time.Now()
			events, err := next(ctx, a, tracker, out)
			m.RecordDispatch(a.Name(), outcomeOf(err, out), since(start))
			return events, err
		}
	}
}
