// Package voice turns bot replies into speech and manages the user's voice
// preferences.
package voice

import (
	"context"
	"strings"

	"github.com/soulpath-wellness/soulpath-actions-go/internal/action"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/audiostore"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/config"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/dialogue"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/logger"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/metrics"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/speech"
)

// ModuleName identifies the module in logs.
const ModuleName = "voice"

// Action names.
const (
	ActionTextToSpeech  = "action_text_to_speech"
	ActionSpeakResponse = "action_speak_response"
	ActionToggleTTS     = "action_toggle_tts"
	ActionSetVoice      = "action_set_voice"
)

// Slot and entity names.
const (
	SlotTextToSpeak       = "text_to_speak"
	SlotVoice             = "tts_voice"
	SlotEnabled           = "tts_enabled"
	EntityVoicePreference = "voice_preference"
)

// DefaultGreeting is spoken when there is nothing else to say.
const DefaultGreeting = "Hola, soy tu asistente de astrología. ¿En qué puedo ayudarte?"

// AudioTitle labels the audio attachment.
const AudioTitle = "Respuesta de voz"

// Synthesizer converts text to audio. *speech.Client implements it.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) (*speech.Audio, error)
	Settings() (config.SpeechSettings, error)
}

// Publisher stores a clip and returns a URL for it. *audiostore.Client
// implements it.
type Publisher interface {
	Publish(ctx context.Context, data []byte, contentType, format string) (string, error)
}

// Handler runs the voice actions.
type Handler struct {
	speech    Synthesizer
	publisher Publisher
	guard     *action.Guard
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithPublisher sends clips through p instead of inlining them as data URIs.
func WithPublisher(p Publisher) Option {
	return func(h *Handler) {
		h.publisher = p
	}
}

// NewHandler creates the voice handler.
func NewHandler(synth Synthesizer, guard *action.Guard, log *logger.Logger, opts ...Option) *Handler {
	h := &Handler{
		speech: synth,
		guard:  guard,
		logger: log.WithModule(ModuleName),
	}
	if guard != nil {
		h.metrics = guard.Metrics
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Name returns the module name.
func (h *Handler) Name() string {
	return ModuleName
}

// Actions returns the actions this module provides.
func (h *Handler) Actions() []action.Action {
	return []action.Action{
		action.New(ActionTextToSpeech, h.textToSpeech),
		action.New(ActionSpeakResponse, h.speakResponse),
		action.New(ActionToggleTTS, h.toggle),
		action.New(ActionSetVoice, h.setVoice),
	}
}

// textToSpeech answers with the text itself when synthesis fails, so the
// user only loses the audio.
func (h *Handler) textToSpeech(ctx context.Context, tracker *dialogue.Tracker, out *action.Collector) ([]dialogue.Event, error) {
	text := strings.TrimSpace(tracker.SlotString(SlotTextToSpeak))
	if text == "" {
		text = tracker.LatestBotText()
	}
	if text == "" {
		text = DefaultGreeting
	}
	voice := strings.TrimSpace(tracker.SlotString(SlotVoice))

	policy := action.Uniform(config.ServiceSpeech, text)
	audio, ok := action.Attempt(ctx, h.guard, policy, out, func(ctx context.Context) (*speech.Audio, error) {
		return h.speech.Synthesize(ctx, text, voice)
	})
	if !ok {
		return nil, nil
	}

	out.UtterAttachment("🔊 "+text, dialogue.Attachment{
		Type: dialogue.AttachmentAudio,
		Payload: dialogue.AttachmentPayload{
			Src:   h.source(ctx, audio),
			Title: AudioTitle,
		},
	})
	return nil, nil
}

// source publishes the clip when a store is configured and falls back to an
// inline data URI otherwise.
func (h *Handler) source(ctx context.Context, audio *speech.Audio) string {
	if h.publisher == nil {
		return audiostore.DataURI(audio.Format, audio.Data)
	}

	uploadCtx, cancel := context.WithTimeout(ctx, config.AudioUpload)
	defer cancel()

	url, err := h.publisher.Publish(uploadCtx, audio.Data, audio.ContentType, audio.Format)
	if err != nil {
		code, status := audiostore.ErrorCode(err)
		h.logger.WithError(err).WithFields(map[string]any{
			"code":        code,
			"status_code": status,
			"bytes":       len(audio.Data),
		}).WarnContext(ctx, "Audio upload failed, sending inline")
		h.metrics.RecordAudioUpload("error")
		return audiostore.DataURI(audio.Format, audio.Data)
	}

	h.metrics.RecordAudioUpload("success")
	return url
}

func (h *Handler) speakResponse(_ context.Context, tracker *dialogue.Tracker, _ *action.Collector) ([]dialogue.Event, error) {
	text := tracker.LatestBotText()
	if text == "" {
		return nil, nil
	}
	return []dialogue.Event{
		dialogue.SlotSet(SlotTextToSpeak, text),
		dialogue.ActionExecuted(ActionTextToSpeech),
	}, nil
}

// toggle enables speech when the slot is unset and flips it otherwise.
func (h *Handler) toggle(_ context.Context, tracker *dialogue.Tracker, out *action.Collector) ([]dialogue.Event, error) {
	enabled := true
	if current, ok := tracker.SlotBool(SlotEnabled); ok {
		enabled = !current
	}

	if enabled {
		out.Utter("🔊 He activado la función de voz. Ahora te hablaré en mis respuestas.")
	} else {
		out.Utter("🔇 He desactivado la función de voz. Solo te enviaré texto.")
	}
	return []dialogue.Event{dialogue.SlotSet(SlotEnabled, enabled)}, nil
}

func (h *Handler) setVoice(ctx context.Context, tracker *dialogue.Tracker, out *action.Collector) ([]dialogue.Event, error) {
	preference, ok := tracker.EntityValue(EntityVoicePreference)
	if !ok || strings.TrimSpace(preference) == "" {
		out.Utter("🎤 ¿Qué tipo de voz prefieres? Puedo usar voz femenina o masculina, en español o inglés.")
		return nil, nil
	}

	selected := config.DefaultVoice
	if settings, err := h.speech.Settings(); err != nil {
		h.logger.WithError(err).WarnContext(ctx, "Speech settings unavailable, using built-in default voice")
	} else {
		selected = settings.VoiceFor(preference)
	}

	out.Utterf("🎤 Perfecto, he configurado la voz %s. Ahora usaré esta voz para hablarte.", preference)
	return []dialogue.Event{dialogue.SlotSet(SlotVoice, selected)}, nil
}
