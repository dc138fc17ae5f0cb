// Package dialogue models the conversation state sent by the dialogue engine
// and the events and responses an action sends back.
//
// A Tracker is a read-only snapshot: actions never modify it. Every change
// to the conversation is expressed as an Event that the engine applies after
// the dispatch returns.
package dialogue

import (
	"fmt"
	"strconv"
	"strings"
)

// Intent is the classifier result attached to the latest user message.
type Intent struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Entity is a value extracted from the latest user message by the engine.
type Entity struct {
	Entity string `json:"entity"`
	Value  any    `json:"value"`
}

// Text renders the entity value as a string.
func (e Entity) Text() string {
	return Stringify(e.Value)
}

// Message is the latest user message.
type Message struct {
	Text     string   `json:"text"`
	Intent   Intent   `json:"intent"`
	Entities []Entity `json:"entities"`
}

// Recorded event types read from the tracker history.
const (
	RecordedUser   = "user"
	RecordedBot    = "bot"
	RecordedAction = "action"
)

// RecordedEvent is one entry of the conversation history. Only the fields
// actions read are decoded.
type RecordedEvent struct {
	Event     string  `json:"event"`
	Text      string  `json:"text,omitempty"`
	Name      string  `json:"name,omitempty"`
	Timestamp float64 `json:"timestamp,omitempty"`
}

// Tracker is the conversation snapshot for one dispatch.
type Tracker struct {
	SenderID         string          `json:"sender_id"`
	Slots            map[string]any  `json:"slots"`
	LatestMessage    Message         `json:"latest_message"`
	Events           []RecordedEvent `json:"events"`
	LatestActionName string          `json:"latest_action_name,omitempty"`
}

// Slot returns the raw slot value, or nil when unset.
func (t *Tracker) Slot(name string) any {
	if t == nil || t.Slots == nil {
		return nil
	}
	return t.Slots[name]
}

// SlotString returns the slot rendered as a string, or "" when unset.
func (t *Tracker) SlotString(name string) string {
	return Stringify(t.Slot(name))
}

// SlotBool returns a boolean slot and whether it was set to a boolean.
func (t *Tracker) SlotBool(name string) (value, ok bool) {
	value, ok = t.Slot(name).(bool)
	return value, ok
}

// LatestText returns the text of the latest user message.
func (t *Tracker) LatestText() string {
	if t == nil {
		return ""
	}
	return t.LatestMessage.Text
}

// EntityValue returns the first entity of the given kind.
func (t *Tracker) EntityValue(kind string) (string, bool) {
	if t == nil {
		return "", false
	}
	for _, e := range t.LatestMessage.Entities {
		if e.Entity == kind {
			return e.Text(), true
		}
	}
	return "", false
}

// LastEntityValue returns the last entity of the given kind.
func (t *Tracker) LastEntityValue(kind string) (string, bool) {
	if t == nil {
		return "", false
	}
	for i := len(t.LatestMessage.Entities) - 1; i >= 0; i-- {
		if e := t.LatestMessage.Entities[i]; e.Entity == kind {
			return e.Text(), true
		}
	}
	return "", false
}

// LatestBotText returns the text of the most recent non-empty bot message.
func (t *Tracker) LatestBotText() string {
	if t == nil {
		return ""
	}
	for i := len(t.Events) - 1; i >= 0; i-- {
		if e := t.Events[i]; e.Event == RecordedBot && e.Text != "" {
			return e.Text
		}
	}
	return ""
}

// Stringify renders a JSON-decoded value for display. nil renders as "".
// Whole floats render without a fraction, so 3.0 becomes "3".
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}
