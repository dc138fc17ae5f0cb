// Package profile handles what the user tells us about themselves: their
// name, saved details, and the mood of their latest message.
package profile

import (
	"context"
	"regexp"

	"github.com/soulpath-wellness/soulpath-actions-go/internal/action"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/content"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/dialogue"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/logger"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/stringutil"
)

// ModuleName identifies the module in logs.
const ModuleName = "profile"

// Action names.
const (
	ActionHandleName = "action_handle_name_provision"
	ActionSaveInfo   = "action_save_user_info"
	ActionSentiment  = "action_sentiment_analysis"
)

// Sentiment labels stored in the "sentiment" slot.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// namePatterns are tried in order against the raw utterance when the engine
// extracted no name entity. The first capture wins.
var namePatterns = func() []*regexp.Regexp {
	word := `([\p{L}\p{N}_]+)`
	sources := []string{
		`mi nombre es ` + word,
		`me llamo ` + word,
		`soy ` + word,
		`call me ` + word,
		`I['’]m ` + word,
		`my name is ` + word,
		`I am ` + word,
	}
	patterns := make([]*regexp.Regexp, 0, len(sources))
	for _, src := range sources {
		patterns = append(patterns, regexp.MustCompile(`(?i)`+src))
	}
	return patterns
}()

// ExtractName returns the first name captured by the name patterns.
func ExtractName(text string) (string, bool) {
	for _, p := range namePatterns {
		if m := p.FindStringSubmatch(text); len(m) > 1 && m[1] != "" {
			return m[1], true
		}
	}
	return "", false
}

// Handler runs the profile actions.
type Handler struct {
	positive []string
	negative []string
	logger   *logger.Logger
}

// NewHandler creates the profile handler.
func NewHandler(c *content.Content, log *logger.Logger) *Handler {
	fold := func(words []string) []string {
		out := make([]string, 0, len(words))
		for _, w := range words {
			out = append(out, stringutil.Fold(w))
		}
		return out
	}
	return &Handler{
		positive: fold(c.Sentiment.Positive),
		negative: fold(c.Sentiment.Negative),
		logger:   log.WithModule(ModuleName),
	}
}

// Name returns the module name.
func (h *Handler) Name() string {
	return ModuleName
}

// Actions returns the actions this module provides.
func (h *Handler) Actions() []action.Action {
	return []action.Action{
		action.New(ActionHandleName, h.handleName),
		action.New(ActionSaveInfo, h.saveInfo),
		action.New(ActionSentiment, h.sentiment),
	}
}

func (h *Handler) handleName(_ context.Context, tracker *dialogue.Tracker, out *action.Collector) ([]dialogue.Event, error) {
	name, ok := tracker.EntityValue("name")
	if !ok || name == "" {
		name, ok = ExtractName(tracker.LatestText())
	}
	if !ok {
		out.Utter("¡Mucho gusto! Soy tu asistente de astrología. ¿En qué puedo ayudarte?")
		return nil, nil
	}

	out.Utterf("¡Mucho gusto, %s! Soy tu asistente de astrología. ¿En qué puedo ayudarte?", name)
	return []dialogue.Event{dialogue.SlotSet("name", name)}, nil
}

func (h *Handler) saveInfo(ctx context.Context, tracker *dialogue.Tracker, out *action.Collector) ([]dialogue.Event, error) {
	name := tracker.SlotString("name")
	h.logger.WithFields(map[string]any{
		"user_id": tracker.SenderID,
		"name":    name,
		"sign":    tracker.SlotString("sign"),
	}).InfoContext(ctx, "Saving user info")

	if name != "" {
		out.Utterf("¡Perfecto, %s! He guardado tu información. ¿Hay algo más en lo que pueda ayudarte?", name)
	}
	return nil, nil
}

func (h *Handler) sentiment(_ context.Context, tracker *dialogue.Tracker, out *action.Collector) ([]dialogue.Event, error) {
	label := h.Classify(tracker.LatestText())
	switch label {
	case SentimentPositive:
		out.Utter("Me alegra saber que estás teniendo una experiencia positiva. ¿Hay algo más en lo que pueda ayudarte?")
	case SentimentNegative:
		out.Utter("Entiendo que puede haber alguna preocupación. ¿Te gustaría que te ayude de alguna manera específica?")
	}
	return []dialogue.Event{dialogue.SlotSet("sentiment", label)}, nil
}

// Classify compares how many positive and negative words occur in text as
// whole words, ignoring case and accents.
func (h *Handler) Classify(text string) string {
	folded := stringutil.Fold(text)
	positive := countWords(folded, h.positive)
	negative := countWords(folded, h.negative)
	switch {
	case positive > negative:
		return SentimentPositive
	case negative > positive:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

func countWords(text string, words []string) int {
	n := 0
	for _, w := range words {
		if stringutil.ContainsWord(text, w) {
			n++
		}
	}
	return n
}
