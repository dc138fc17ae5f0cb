package webhook

// DefaultMaxBodyBytes bounds a request body. Trackers carry the whole
// conversation history, so this is generous.
const DefaultMaxBodyBytes int64 = 4 << 20

// RequestIDKey is the gin context key holding the request id set by the
// server's logging middleware.
const RequestIDKey = "request_id"

// HandlerOption is a functional option for configuring Handler.
type HandlerOption func(*Handler)

// WithMaxBodyBytes overrides DefaultMaxBodyBytes.
func WithMaxBodyBytes(n int64) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxBodyBytes = n
		}
	}
}
