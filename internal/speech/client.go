// Package speech synthesizes audio through an OpenAI-compatible
// /v1/audio/speech endpoint (the default is an Edge TTS bridge).
package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/soulpath-wellness/soulpath-actions-go/internal/config"
	domerrors "github.com/soulpath-wellness/soulpath-actions-go/internal/errors"
)

// maxAudioSize bounds a synthesized clip.
const maxAudioSize = 16 << 20

// Audio is a synthesized clip.
type Audio struct {
	Data        []byte
	ContentType string
	Format      string // "mp3"
	Voice       string
}

// Client calls the speech service. Settings are resolved per call.
type Client struct {
	resolver   *config.Resolver
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used by the SDK.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a speech client. A nil resolver reads the process
// environment.
func NewClient(resolver *config.Resolver, opts ...Option) *Client {
	if resolver == nil {
		resolver = config.NewResolver(nil)
	}
	c := &Client{
		resolver:   resolver,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Settings resolves the current speech settings, including the voice table.
func (c *Client) Settings() (config.SpeechSettings, error) {
	return c.resolver.Speech()
}

// Synthesize converts text to audio once, without retries. An empty voice
// uses the configured default. Errors are *errors.ServiceError values.
func (c *Client) Synthesize(ctx context.Context, text, voice string) (*Audio, error) {
	settings, err := c.resolver.Speech()
	if err != nil {
		return nil, domerrors.NewServiceError(config.ServiceSpeech, err)
	}
	if voice == "" {
		voice = settings.DefaultVoice
	}

	ctx, cancel := context.WithTimeout(ctx, settings.Timeout)
	defer cancel()

	client := openai.NewClient(
		option.WithBaseURL(settings.Endpoint("/v1/")),
		option.WithAPIKey(settings.Credential),
		option.WithHTTPClient(c.httpClient),
		option.WithMaxRetries(0),
	)

	resp, err := client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(settings.Model),
		Input:          text,
		Voice:          openai.AudioSpeechNewParamsVoice(voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormat(settings.Format),
		Speed:          openai.Float(settings.Speed),
	})
	if err != nil {
		return nil, classify(err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioSize))
	if err != nil {
		return nil, &domerrors.ServiceError{
			Service: config.ServiceSpeech,
			Kind:    domerrors.KindConnection,
			Err:     fmt.Errorf("read audio: %w", err),
		}
	}
	if len(data) == 0 {
		return nil, domerrors.NewMalformedError(config.ServiceSpeech, "", nil)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/" + settings.Format
	}
	return &Audio{
		Data:        data,
		ContentType: contentType,
		Format:      settings.Format,
		Voice:       voice,
	}, nil
}

func classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		body := apiErr.RawJSON()
		if body == "" {
			body = apiErr.Message
		}
		return domerrors.NewStatusError(config.ServiceSpeech, apiErr.StatusCode, body)
	}
	return domerrors.NewServiceError(config.ServiceSpeech, err)
}
