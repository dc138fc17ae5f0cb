package dialogue

import "encoding/json"

// EventKind names an update event on the wire.
type EventKind string

// Update event kinds.
const (
	EventSlot       EventKind = "slot"
	EventAction     EventKind = "action"
	EventResetSlots EventKind = "reset_slots"
)

// Event is a declarative state update applied by the engine after the
// dispatch. Events are values and are never modified once built.
type Event struct {
	Kind  EventKind
	Name  string
	Value any
}

// SlotSet sets a slot. A nil value clears it.
func SlotSet(name string, value any) Event {
	return Event{Kind: EventSlot, Name: name, Value: value}
}

// ActionExecuted records that the named action ran, prompting the engine
// to continue from it.
func ActionExecuted(name string) Event {
	return Event{Kind: EventAction, Name: name}
}

// AllSlotsReset clears every slot of the conversation.
func AllSlotsReset() Event {
	return Event{Kind: EventResetSlots}
}

// MarshalJSON writes the engine's wire shape for each kind.
func (e Event) MarshalJSON() ([]byte, error) {
	switch e.Kind {
	case EventSlot:
		return json.Marshal(struct {
			Event     EventKind `json:"event"`
			Timestamp *float64  `json:"timestamp"`
			Name      string    `json:"name"`
			Value     any       `json:"value"`
		}{Event: e.Kind, Name: e.Name, Value: e.Value})
	case EventAction:
		return json.Marshal(struct {
			Event      EventKind `json:"event"`
			Timestamp  *float64  `json:"timestamp"`
			Name       string    `json:"name"`
			Policy     *string   `json:"policy"`
			Confidence *float64  `json:"confidence"`
		}{Event: e.Kind, Name: e.Name})
	default:
		return json.Marshal(struct {
			Event     EventKind `json:"event"`
			Timestamp *float64  `json:"timestamp"`
		}{Event: e.Kind})
	}
}

// UnmarshalJSON reads any of the wire shapes written by MarshalJSON.
func (e *Event) UnmarshalJSON(data []byte) error {
	var wire struct {
		Event EventKind `json:"event"`
		Name  string    `json:"name"`
		Value any       `json:"value"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*e = Event{Kind: wire.Event, Name: wire.Name, Value: wire.Value}
	return nil
}
