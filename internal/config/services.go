package config

import (
	"fmt"
	"maps"
	"net/url"
	"os"
	"strings"
	"time"

	domerrors "github.com/soulpath-wellness/soulpath-actions-go/internal/errors"
)

// Service names used in logs, metrics and errors.
const (
	ServiceCatalog = "catalog"
	ServiceSpeech  = "speech"
)

// Speech defaults applied when the environment is silent.
const (
	DefaultSpeechURL    = "https://openai-edge-tts-k05k.onrender.com"
	DefaultSpeechAPIKey = "sdfsdfdsfsdfsdf" // Edge TTS accepts any bearer token
	DefaultVoice        = "en-US-AvaNeural"
	DefaultSpeechModel  = "tts-1"
	DefaultSpeechFormat = "mp3"
	DefaultSpeechSpeed  = 1.0

	defaultFrontendPort = "3001"
)

// defaultVoices maps a spoken preference to an Edge TTS voice name.
var defaultVoices = map[string]string{
	"español":           "es-MX-DaliaNeural",
	"espanol":           "es-MX-DaliaNeural",
	"spanish":           "es-MX-DaliaNeural",
	"mexicano":          "es-MX-DaliaNeural",
	"mexican":           "es-MX-DaliaNeural",
	"femenino":          "es-MX-DaliaNeural",
	"female":            "es-MX-DaliaNeural",
	"masculino":         "es-MX-JorgeNeural",
	"male":              "es-MX-JorgeNeural",
	"inglés":            "en-US-AvaNeural",
	"ingles":            "en-US-AvaNeural",
	"english":           "en-US-AvaNeural",
	"americano":         "en-US-AvaNeural",
	"american":          "en-US-AvaNeural",
	"español_femenino":  "es-MX-DaliaNeural",
	"español_masculino": "es-MX-JorgeNeural",
	"espanol_femenino":  "es-MX-DaliaNeural",
	"espanol_masculino": "es-MX-JorgeNeural",
	"english_female":    "en-US-AvaNeural",
	"english_male":      "en-US-GuyNeural",
}

// LookupFunc reads one environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// ServiceDescriptor is a resolved address for an external HTTP API.
type ServiceDescriptor struct {
	Name       string
	BaseURL    string // scheme and host, optional path prefix, no trailing slash
	Timeout    time.Duration
	Credential string
}

// Endpoint joins path onto the base address.
func (d ServiceDescriptor) Endpoint(path string) string {
	return d.BaseURL + "/" + strings.TrimLeft(path, "/")
}

// SpeechSettings is the speech service descriptor plus the request defaults.
type SpeechSettings struct {
	ServiceDescriptor
	Model        string
	Format       string
	Speed        float64
	DefaultVoice string
	Voices       map[string]string
}

// VoiceFor maps a preference such as "femenino" to a voice name.
// Unknown or empty preferences resolve to the default voice.
func (s SpeechSettings) VoiceFor(preference string) string {
	key := strings.ToLower(strings.TrimSpace(preference))
	if voice, ok := s.Voices[key]; ok && voice != "" {
		return voice
	}
	return s.DefaultVoice
}

// Resolver builds service descriptors from the environment on every call.
// Nothing is cached, so a changed variable applies to the next dispatch.
type Resolver struct {
	lookup LookupFunc
}

// NewResolver returns a Resolver reading through lookup.
// A nil lookup reads the process environment.
func NewResolver(lookup LookupFunc) *Resolver {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &Resolver{lookup: lookup}
}

// MapLookup adapts a map for tests and the CLI.
func MapLookup(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func (r *Resolver) get(key string) string {
	v, ok := r.lookup(key)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}

func (r *Resolver) first(keys ...string) string {
	for _, key := range keys {
		if v := r.get(key); v != "" {
			return v
		}
	}
	return ""
}

// Catalog resolves the packages catalog address. The first non-blank of
// NEXT_PUBLIC_BASE_URL, FRONTEND_BASE_URL and API_BASE_URL wins; otherwise
// the frontend is assumed on localhost at PORT, FRONTEND_PORT or 3001.
func (r *Resolver) Catalog() (ServiceDescriptor, error) {
	base := r.first(EnvNextPublicBaseURL, EnvFrontendBaseURL, EnvAPIBaseURL)
	if base == "" {
		port := r.first(EnvFrontendPortAlias, EnvFrontendPort)
		if port == "" {
			port = defaultFrontendPort
		}
		base = "http://localhost:" + port
	}

	normalized, err := normalizeBaseURL(base)
	if err != nil {
		return ServiceDescriptor{}, fmt.Errorf("%s: %w", ServiceCatalog, err)
	}
	return ServiceDescriptor{
		Name:    ServiceCatalog,
		BaseURL: normalized,
		Timeout: CatalogRequest,
	}, nil
}

// Speech resolves the speech synthesis service. TTS_SERVICE_URL may name the
// full endpoint (".../v1/audio/speech"); it is reduced to the base address.
func (r *Resolver) Speech() (SpeechSettings, error) {
	raw := r.first(EnvTTSServiceURL)
	if raw == "" {
		raw = DefaultSpeechURL
	}
	raw = strings.TrimRight(raw, "/")
	raw = strings.TrimSuffix(raw, "/audio/speech")
	raw = strings.TrimSuffix(raw, "/v1")

	base, err := normalizeBaseURL(raw)
	if err != nil {
		return SpeechSettings{}, fmt.Errorf("%s: %w", ServiceSpeech, err)
	}

	timeout := SpeechRequest
	if v := r.get(EnvTTSTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return SpeechSettings{}, fmt.Errorf("%s: %w: %s=%q", ServiceSpeech, domerrors.ErrInvalidInput, EnvTTSTimeout, v)
		}
		timeout = min(d, MaxSpeechRequest)
	}

	apiKey := r.first(EnvTTSAPIKey)
	if apiKey == "" {
		apiKey = DefaultSpeechAPIKey
	}
	voice := r.first(EnvTTSDefaultVoice)
	if voice == "" {
		voice = DefaultVoice
	}

	voices := maps.Clone(defaultVoices)
	for key, name := range parseVoiceMapping(r.get(EnvTTSVoiceMapping)) {
		voices[key] = name
	}

	return SpeechSettings{
		ServiceDescriptor: ServiceDescriptor{
			Name:       ServiceSpeech,
			BaseURL:    base,
			Timeout:    timeout,
			Credential: apiKey,
		},
		Model:        DefaultSpeechModel,
		Format:       DefaultSpeechFormat,
		Speed:        DefaultSpeechSpeed,
		DefaultVoice: voice,
		Voices:       voices,
	}, nil
}

// parseVoiceMapping reads "preference=voice" pairs separated by commas.
// Malformed pairs are skipped.
func parseVoiceMapping(raw string) map[string]string {
	out := make(map[string]string)
	for pair := range strings.SplitSeq(raw, ",") {
		key, voice, ok := strings.Cut(pair, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		voice = strings.TrimSpace(voice)
		if !ok || key == "" || voice == "" {
			continue
		}
		out[key] = voice
	}
	return out
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if raw == "" {
		return "", domerrors.ErrMissingAddress
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", domerrors.ErrMissingAddress, raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q is not an http(s) address", domerrors.ErrMissingAddress, raw)
	}
	return raw, nil
}
