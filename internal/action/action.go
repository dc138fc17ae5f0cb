// Package action provides the action interface, the registry, and the
// dispatcher that runs one action per engine call.
//
// Dispatch never fails from the engine's point of view: errors and panics
// raised by an action are logged and replaced with a generic apology, and
// outbound calls go through Attempt, which substitutes a reply per failure
// kind.
package action

import (
	"context"
	"fmt"

	"github.com/soulpath-wellness/soulpath-actions-go/internal/dialogue"
)

// Action is one named handler invoked by the dialogue engine.
type Action interface {
	// Name is the identifier the engine uses, e.g. "action_fetch_packages".
	Name() string

	// Run inspects the tracker, adds messages to out and returns the state
	// updates to apply. A returned error is treated as an unexpected fault.
	Run(ctx context.Context, tracker *dialogue.Tracker, out *Collector) ([]dialogue.Event, error)
}

// RunFunc is the signature of Action.Run.
type RunFunc func(ctx context.Context, tracker *dialogue.Tracker, out *Collector) ([]dialogue.Event, error)

type funcAction struct {
	name string
	run  RunFunc
}

func (f funcAction) Name() string { return f.name }

func (f funcAction) Run(ctx context.Context, tracker *dialogue.Tracker, out *Collector) ([]dialogue.Event, error) {
	return f.run(ctx, tracker, out)
}

// New adapts a function into an Action.
func New(name string, run RunFunc) Action {
	return funcAction{name: name, run: run}
}

// Collector gathers the messages produced during one dispatch.
type Collector struct {
	responses []dialogue.Response
	degraded  bool
}

// Utter sends a text message.
func (c *Collector) Utter(text string) {
	c.responses = append(c.responses, dialogue.Response{Text: text})
}

// Utterf sends a formatted text message.
func (c *Collector) Utterf(format string, args ...any) {
	c.Utter(fmt.Sprintf(format, args...))
}

// UtterTemplate asks the engine to render a domain response.
func (c *Collector) UtterTemplate(name string) {
	c.responses = append(c.responses, dialogue.Response{Template: name})
}

// UtterAttachment sends text with a media attachment.
func (c *Collector) UtterAttachment(text string, attachment dialogue.Attachment) {
	c.responses = append(c.responses, dialogue.Response{Text: text, Attachment: &attachment})
}

// Responses returns the collected messages in order.
func (c *Collector) Responses() []dialogue.Response {
	return c.responses
}

// Degraded reports whether a substitute reply was sent.
func (c *Collector) Degraded() bool {
	return c.degraded
}

func (c *Collector) reset() {
	c.responses = nil
}
