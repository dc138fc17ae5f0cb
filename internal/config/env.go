package config

//nolint:gosec,revive // Environment variable keys are not credentials and do not need per-const comments.
const (
	// Server
	EnvPort            = "ACTIONS_PORT"
	EnvLogLevel        = "ACTIONS_LOG_LEVEL"
	EnvShutdownTimeout = "ACTIONS_SHUTDOWN_TIMEOUT"
	EnvContentPath     = "ACTIONS_CONTENT_PATH"

	// Metrics Auth Feature
	EnvMetricsUsername = "ACTIONS_METRICS_USERNAME"
	EnvMetricsPassword = "ACTIONS_METRICS_PASSWORD"

	// Better Stack Feature
	EnvBetterStackToken    = "ACTIONS_BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "ACTIONS_BETTERSTACK_ENDPOINT"

	// Sentry Feature
	EnvSentryToken       = "ACTIONS_SENTRY_TOKEN"
	EnvSentryHost        = "ACTIONS_SENTRY_HOST"
	EnvSentryEnvironment = "ACTIONS_SENTRY_ENVIRONMENT"
	EnvSentrySampleRate  = "ACTIONS_SENTRY_SAMPLE_RATE"

	// Audio Store Feature (S3-compatible)
	EnvAudioEndpoint        = "ACTIONS_AUDIO_ENDPOINT"
	EnvAudioAccessKeyID     = "ACTIONS_AUDIO_ACCESS_KEY_ID"
	EnvAudioSecretAccessKey = "ACTIONS_AUDIO_SECRET_ACCESS_KEY"
	EnvAudioBucket          = "ACTIONS_AUDIO_BUCKET"
	EnvAudioURLTTL          = "ACTIONS_AUDIO_URL_TTL"

	// Catalog service, in priority order.
	EnvNextPublicBaseURL = "NEXT_PUBLIC_BASE_URL"
	EnvFrontendBaseURL   = "FRONTEND_BASE_URL"
	EnvAPIBaseURL        = "API_BASE_URL"
	EnvFrontendPortAlias = "PORT"
	EnvFrontendPort      = "FRONTEND_PORT"

	// Speech service
	EnvTTSServiceURL   = "TTS_SERVICE_URL"
	EnvTTSAPIKey       = "TTS_API_KEY"
	EnvTTSDefaultVoice = "TTS_DEFAULT_VOICE"
	EnvTTSTimeout      = "TTS_TIMEOUT"
	EnvTTSVoiceMapping = "TTS_VOICE_MAPPING"
)
