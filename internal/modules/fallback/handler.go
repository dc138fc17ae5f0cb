// Package fallback answers turns the dialogue engine could not map to a
// specific action by routing the utterance through an ordered keyword table.
package fallback

import (
	"context"
	"strings"

	"github.com/soulpath-wellness/soulpath-actions-go/internal/action"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/content"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/dialogue"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/logger"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/sliceutil"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/stringutil"
)

// ModuleName identifies the module in logs.
const ModuleName = "fallback"

// Rule is one row of the keyword table: a predicate over the utterance and
// the domain response it routes to. Lower Priority is checked first.
type Rule struct {
	Name     string
	Priority int
	Match    func(text string) bool
	Response string
	// Followup, when set, is emitted as an executed action so the engine
	// continues with it.
	Followup string
}

// Classifier evaluates rules in priority order. The first match wins;
// ties are decided by declaration order, never by score.
type Classifier struct {
	rules    []Rule
	fallback Rule
}

// NewClassifier builds a classifier from the content document's buckets,
// keeping their order as priority.
func NewClassifier(table content.Fallback) *Classifier {
	rules := make([]Rule, 0, len(table.Buckets))
	for i, b := range table.Buckets {
		rules = append(rules, Rule{
			Name:     b.Name,
			Priority: i + 1,
			Match:    KeywordMatcher(b.Keywords),
			Response: b.Response,
			Followup: b.FollowupAction,
		})
	}
	return &Classifier{
		rules:    rules,
		fallback: Rule{Name: "default", Priority: len(rules) + 1, Response: table.DefaultResponse},
	}
}

// Rules returns the rules in evaluation order.
func (c *Classifier) Rules() []Rule {
	return c.rules
}

// Classify returns the first rule matching text, or the default rule.
func (c *Classifier) Classify(text string) Rule {
	for _, r := range c.rules {
		if r.Match(text) {
			return r
		}
	}
	return c.fallback
}

// KeywordMatcher matches when any keyword is a substring of the lower-cased
// text, or of its accent-folded form, so "cuanto" still hits "cuánto".
// Keywords equal after folding are checked once.
func KeywordMatcher(keywords []string) func(string) bool {
	keywords = sliceutil.Deduplicate(keywords, stringutil.Fold)
	plain := make([]string, 0, len(keywords))
	folded := make([]string, 0, len(keywords))
	for _, k := range keywords {
		plain = append(plain, strings.ToLower(k))
		folded = append(folded, stringutil.Fold(k))
	}
	return func(text string) bool {
		lower := strings.ToLower(text)
		foldedText := stringutil.Fold(text)
		for i := range plain {
			if strings.Contains(lower, plain[i]) || strings.Contains(foldedText, folded[i]) {
				return true
			}
		}
		return false
	}
}

// Handler runs the default fallback action.
type Handler struct {
	classifier *Classifier
	logger     *logger.Logger
}

// NewHandler creates the fallback handler.
func NewHandler(c *content.Content, log *logger.Logger) *Handler {
	return &Handler{
		classifier: NewClassifier(c.Fallback),
		logger:     log.WithModule(ModuleName),
	}
}

// Name returns the module name.
func (h *Handler) Name() string {
	return ModuleName
}

// Actions returns the actions this module provides.
func (h *Handler) Actions() []action.Action {
	return []action.Action{
		action.New(action.FallbackAction, h.defaultFallback),
	}
}

func (h *Handler) defaultFallback(ctx context.Context, tracker *dialogue.Tracker, out *action.Collector) ([]dialogue.Event, error) {
	rule := h.classifier.Classify(tracker.LatestText())
	h.logger.WithField("bucket", rule.Name).DebugContext(ctx, "Fallback classified")

	out.UtterTemplate(rule.Response)
	if rule.Followup != "" {
		return []dialogue.Event{dialogue.ActionExecuted(rule.Followup)}, nil
	}
	return nil, nil
}
