package logger

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// AsyncOptions sizes the remote log buffer. Zero values pick defaults.
type AsyncOptions struct {
	BufferSize   int
	FlushTimeout time.Duration
}

func (o AsyncOptions) withDefaults() AsyncOptions {
	if o.BufferSize <= 0 {
		o.BufferSize = 1024
	}
	if o.FlushTimeout <= 0 {
		o.FlushTimeout = 5 * time.Second
	}
	return o
}

type pendingRecord struct {
	ctx     context.Context
	handler slog.Handler
	record  slog.Record
}

// shipper owns the buffer and the goroutine draining it. Every handler
// derived from one AsyncHandler shares its shipper.
type shipper struct {
	opts    AsyncOptions
	in      chan pendingRecord
	stopped chan struct{}

	mu      sync.RWMutex // guards closing against sends on a closed channel
	closing bool
	dropped atomic.Uint64
}

func startShipper(opts AsyncOptions) *shipper {
	opts = opts.withDefaults()
	s := &shipper{
		opts:    opts,
		in:      make(chan pendingRecord, opts.BufferSize),
		stopped: make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *shipper) run() {
	defer close(s.stopped)
	for p := range s.in {
		_ = p.handler.Handle(p.ctx, p.record)
	}
}

// enqueue never blocks; a full buffer counts the record as dropped.
func (s *shipper) enqueue(p pendingRecord) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closing {
		return
	}
	select {
	case s.in <- p:
	default:
		s.dropped.Add(1)
	}
}

func (s *shipper) stop(ctx context.Context) error {
	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		return nil
	}
	s.closing = true
	close(s.in)
	s.mu.Unlock()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.FlushTimeout)
		defer cancel()
	}
	select {
	case <-s.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AsyncHandler ships records to a slow remote sink off the request path.
type AsyncHandler struct {
	s    *shipper
	next slog.Handler
}

func NewAsyncHandler(next slog.Handler, opts AsyncOptions) *AsyncHandler {
	return &AsyncHandler{s: startShipper(opts), next: next}
}

func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle queues a clone of r detached from ctx cancellation.
func (h *AsyncHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.next.Enabled(ctx, r.Level) {
		h.s.enqueue(pendingRecord{ctx: context.WithoutCancel(ctx), handler: h.next, record: r.Clone()})
	}
	return nil
}

func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{s: h.s, next: h.next.WithAttrs(attrs)}
}

func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{s: h.s, next: h.next.WithGroup(name)}
}

// Dropped counts records lost to a full buffer.
func (h *AsyncHandler) Dropped() uint64 {
	if h == nil {
		return 0
	}
	return h.s.dropped.Load()
}

// Shutdown stops accepting records and waits for the buffer to drain,
// bounded by ctx or, without a deadline, by FlushTimeout.
func (h *AsyncHandler) Shutdown(ctx context.Context) error {
	if h == nil {
		return nil
	}
	return h.s.stop(ctx)
}
