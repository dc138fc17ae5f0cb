package action

import (
	"context"
	"errors"
	"fmt"
	"time"

	domerrors "github.com/soulpath-wellness/soulpath-actions-go/internal/errors"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/logger"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/metrics"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/sentry"
)

// Policy maps outbound failure kinds to the reply sent instead of the
// normal one.
type Policy struct {
	Service string
	Replies map[domerrors.Kind]string
	// Default is used for kinds missing from Replies.
	Default string
}

// Reply returns the substitute message for kind.
func (p Policy) Reply(kind domerrors.Kind) string {
	if r, ok := p.Replies[kind]; ok && r != "" {
		return r
	}
	if p.Default != "" {
		return p.Default
	}
	return UnexpectedReply
}

// Uniform returns a policy that answers every failure with reply.
func Uniform(service, reply string) Policy {
	return Policy{Service: service, Default: reply}
}

// Guard carries the logging and metrics sinks used by Attempt.
// The zero value and nil are usable and silent.
type Guard struct {
	Logger  *logger.Logger
	Metrics *metrics.Metrics
}

// NewGuard creates a Guard.
func NewGuard(log *logger.Logger, m *metrics.Metrics) *Guard {
	return &Guard{Logger: log, Metrics: m}
}

// Attempt calls an external service exactly once. On failure it logs the
// diagnostic, sends the policy's reply for the failure kind to out, and
// returns ok=false. A panic inside call counts as an unexpected fault.
func Attempt[T any](ctx context.Context, g *Guard, p Policy, out *Collector, call func(context.Context) (T, error)) (result T, ok bool) {
	if g == nil {
		g = &Guard{}
	}
	start := time.Now()
	result, err := protect(ctx, call)
	elapsed := time.Since(start).Seconds()

	if err == nil {
		g.Metrics.RecordExternal(p.Service, "success", elapsed)
		return result, true
	}

	kind := domerrors.KindOf(err)
	g.Metrics.RecordExternal(p.Service, kind.String(), elapsed)
	g.Metrics.RecordDegraded(p.Service, kind.String())
	g.log(ctx, p.Service, kind, err)
	if kind == domerrors.KindUnexpected {
		sentry.CaptureException(ctx, err, map[string]string{"service": p.Service})
	}

	if out != nil {
		out.degraded = true
		out.Utter(p.Reply(kind))
	}
	var zero T
	return zero, false
}

func protect[T any](ctx context.Context, call func(context.Context) (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recovered: %v", r)
		}
	}()
	return call(ctx)
}

func (g *Guard) log(ctx context.Context, service string, kind domerrors.Kind, err error) {
	if g.Logger == nil {
		return
	}
	entry := g.Logger.WithFields(map[string]any{
		"service": service,
		"kind":    kind.String(),
	}).WithError(err)
	if code := domerrors.StatusCodeOf(err); code > 0 {
		entry = entry.WithField("status_code", code)
	}
	var se *domerrors.ServiceError
	if errors.As(err, &se) && se.Body != "" {
		entry = entry.WithField("body", se.Body)
	}
	if kind == domerrors.KindUnexpected || kind == domerrors.KindStatus {
		entry.ErrorContext(ctx, "External call failed, sending degraded reply")
		return
	}
	entry.WarnContext(ctx, "External call failed, sending degraded reply")
}
