package config

import "time"

// Outbound service timeouts. Each call is attempted exactly once, so these
// bound the whole wait for a reply.
const (
	// CatalogRequest bounds a GET of the packages catalog.
	CatalogRequest = 10 * time.Second

	// SpeechRequest is the default bound for a speech synthesis POST.
	// Edge TTS on a cold free-tier host can take most of this.
	SpeechRequest = 30 * time.Second

	// MaxSpeechRequest caps TTS_TIMEOUT so the text fallback still fits in
	// WebhookHTTPWrite.
	MaxSpeechRequest = 45 * time.Second

	// AudioUpload bounds storing a synthesized clip in the audio store.
	AudioUpload = 15 * time.Second

	// AudioURLTTL is the default lifetime of a presigned clip URL.
	AudioURLTTL = time.Hour
)

// Action server timeouts
const (
	// WebhookHTTPRead is the HTTP server read timeout. Tracker snapshots are
	// small JSON documents.
	WebhookHTTPRead = 10 * time.Second

	// WebhookHTTPWrite must cover the slowest dispatch: a speech call plus an
	// audio upload plus serialization.
	WebhookHTTPWrite = MaxSpeechRequest + AudioUpload + 5*time.Second

	// WebhookHTTPIdle is the idle timeout for keep-alive connections.
	WebhookHTTPIdle = 120 * time.Second

	// HealthCheck bounds the container health probe.
	HealthCheck = 3 * time.Second
)

// Graceful shutdown
const (
	// GracefulShutdown is the default time allowed for in-flight dispatches
	// to finish after a shutdown signal.
	GracefulShutdown = 10 * time.Second

	// SentryFlush bounds the final flush of buffered error events.
	SentryFlush = 2 * time.Second
)
