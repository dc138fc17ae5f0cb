// Package ctxutil carries per-dispatch tracing values through a context.
package ctxutil

import (
	"context"
	"log/slog"
)

type traceKey struct{}

// Trace identifies one dispatch in logs and error reports.
type Trace struct {
	SenderID  string
	Action    string
	RequestID string
}

// Attrs returns the non-empty fields as log attributes.
func (t Trace) Attrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, 3)
	if t.SenderID != "" {
		attrs = append(attrs, slog.String("sender_id", t.SenderID))
	}
	if t.Action != "" {
		attrs = append(attrs, slog.String("action", t.Action))
	}
	if t.RequestID != "" {
		attrs = append(attrs, slog.String("request_id", t.RequestID))
	}
	return attrs
}

// TraceFrom returns the trace stored in ctx, or the zero Trace.
func TraceFrom(ctx context.Context) Trace {
	t, _ := ctx.Value(traceKey{}).(Trace)
	return t
}

func withTrace(ctx context.Context, update func(*Trace)) context.Context {
	t := TraceFrom(ctx)
	update(&t)
	return context.WithValue(ctx, traceKey{}, t)
}

// WithSenderID records the conversation the dispatch belongs to.
func WithSenderID(ctx context.Context, senderID string) context.Context {
	return withTrace(ctx, func(t *Trace) { t.SenderID = senderID })
}

// WithAction records the action being dispatched.
func WithAction(ctx context.Context, action string) context.Context {
	return withTrace(ctx, func(t *Trace) { t.Action = action })
}

// WithRequestID records the inbound HTTP request id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withTrace(ctx, func(t *Trace) { t.RequestID = requestID })
}

// SenderID returns the sender id in ctx, if any.
func SenderID(ctx context.Context) string { return TraceFrom(ctx).SenderID }

// Action returns the action name in ctx, if any.
func Action(ctx context.Context) string { return TraceFrom(ctx).Action }

// RequestID returns the request id in ctx, if any.
func RequestID(ctx context.Context) string { return TraceFrom(ctx).RequestID }
