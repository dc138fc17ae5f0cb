// Package webhook serves the dialogue engine's action server protocol:
// one POST per action to run, answered with events and responses.
package webhook

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soulpath-wellness/soulpath-actions-go/internal/action"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/ctxutil"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/dialogue"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/logger"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/metrics"
)

// Handler handles action server requests
type Handler struct {
	dispatcher   *action.Dispatcher
	metrics      *metrics.Metrics
	logger       *logger.Logger
	maxBodyBytes int64
}

// HandlerConfig holds configuration for creating a new Handler
type HandlerConfig struct {
	Dispatcher *action.Dispatcher
	Metrics    *metrics.Metrics
	Logger     *logger.Logger
}

// errorBody is the JSON shape of a rejected request.
type errorBody struct {
	Error string `json:"error"`
}

// actionInfo is one entry of the action listing.
type actionInfo struct {
	Name string `json:"name"`
}

// NewHandler creates a new webhook handler.
func NewHandler(cfg HandlerConfig, opts ...HandlerOption) *Handler {
	h := &Handler{
		dispatcher:   cfg.Dispatcher,
		metrics:      cfg.Metrics,
		logger:       cfg.Logger.WithModule("webhook"),
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle is the Gin handler for POST /webhook.
func (h *Handler) Handle(c *gin.Context) {
	start := time.Now()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)

	var call dialogue.ActionCall
	if err := c.ShouldBindJSON(&call); err != nil {
		h.reject(c, start, "invalid request body", err)
		return
	}
	call.NextAction = strings.TrimSpace(call.NextAction)
	if call.NextAction == "" {
		h.reject(c, start, "next_action is required", nil)
		return
	}
	if call.Tracker.SenderID == "" {
		call.Tracker.SenderID = call.SenderID
	}

	ctx := c.Request.Context()
	if id := c.GetString(RequestIDKey); id != "" {
		ctx = ctxutil.WithRequestID(ctx, id)
	}

	result := h.dispatcher.Dispatch(ctx, call.NextAction, &call.Tracker)

	h.metrics.RecordWebhook("ok", time.Since(start).Seconds())
	c.JSON(http.StatusOK, result)
}

// ListActions is the Gin handler for GET /actions.
func (h *Handler) ListActions(c *gin.Context) {
	names := h.dispatcher.Registry().Names()
	out := make([]actionInfo, 0, len(names))
	for _, name := range names {
		out = append(out, actionInfo{Name: name})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) reject(c *gin.Context, start time.Time, message string, err error) {
	var tooLarge *http.MaxBytesError
	status := http.StatusBadRequest
	if errors.As(err, &tooLarge) {
		status = http.StatusRequestEntityTooLarge
		message = "request body too large"
	}

	log := h.logger.WithField("status", status)
	if err != nil {
		log = log.WithError(err)
	}
	log.WarnContext(c.Request.Context(), "Rejected action request")

	h.metrics.RecordWebhook("rejected", time.Since(start).Seconds())
	c.JSON(status, errorBody{Error: message})
}
