package dialogue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trackerJSON = `{
  "sender_id": "web-42",
  "slots": {"name": "Ana", "tts_enabled": false, "session_price": 80, "date": null},
  "latest_message": {
    "text": "quiero el paquete Luna",
    "intent": {"name": "ask_package_details", "confidence": 0.93},
    "entities": [
      {"entity": "package_name", "value": "Sol", "start": 0, "end": 3},
      {"entity": "package_id", "value": 7},
      {"entity": "package_name", "value": "Luna"}
    ]
  },
  "events": [
    {"event": "action", "name": "action_listen", "timestamp": 1.5},
    {"event": "bot", "text": "Hola, ¿en qué te ayudo?"},
    {"event": "user", "text": "quiero el paquete Luna"},
    {"event": "bot", "text": ""}
  ],
  "latest_action_name": "action_listen"
}`

func decodeTracker(t *testing.T) *Tracker {
	t.Helper()
	var tr Tracker
	require.NoError(t, json.Unmarshal([]byte(trackerJSON), &tr))
	return &tr
}

func TestTracker_Slots(t *testing.T) {
	tr := decodeTracker(t)

	assert.Equal(t, "Ana", tr.SlotString("name"))
	assert.Equal(t, "80", tr.SlotString("session_price"))
	assert.Equal(t, "", tr.SlotString("date"))
	assert.Equal(t, "", tr.SlotString("missing"))

	enabled, ok := tr.SlotBool("tts_enabled")
	assert.True(t, ok)
	assert.False(t, enabled)

	_, ok = tr.SlotBool("name")
	assert.False(t, ok, "a string slot is not a boolean")
}

func TestTracker_Entities(t *testing.T) {
	tr := decodeTracker(t)

	first, ok := tr.EntityValue("package_name")
	assert.True(t, ok)
	assert.Equal(t, "Sol", first)

	last, ok := tr.LastEntityValue("package_name")
	assert.True(t, ok)
	assert.Equal(t, "Luna", last)

	id, ok := tr.EntityValue("package_id")
	assert.True(t, ok)
	assert.Equal(t, "7", id)

	_, ok = tr.EntityValue("teacher_name")
	assert.False(t, ok)
}

func TestTracker_LatestBotText(t *testing.T) {
	tr := decodeTracker(t)
	assert.Equal(t, "Hola, ¿en qué te ayudo?", tr.LatestBotText(), "empty bot events are skipped")
	assert.Equal(t, "quiero el paquete Luna", tr.LatestText())

	empty := &Tracker{}
	assert.Equal(t, "", empty.LatestBotText())
}

func TestTracker_NilSafe(t *testing.T) {
	var tr *Tracker
	assert.Nil(t, tr.Slot("x"))
	assert.Equal(t, "", tr.LatestText())
	assert.Equal(t, "", tr.LatestBotText())
	_, ok := tr.EntityValue("x")
	assert.False(t, ok)
	_, ok = tr.LastEntityValue("x")
	assert.False(t, ok)
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "", Stringify(nil))
	assert.Equal(t, "x", Stringify("x"))
	assert.Equal(t, "3", Stringify(float64(3)))
	assert.Equal(t, "49.99", Stringify(49.99))
	assert.Equal(t, "true", Stringify(true))
	assert.Equal(t, "12", Stringify(12))
}

func TestEvent_WireShapes(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{"slot", SlotSet("name", "Carlos"), `{"event":"slot","timestamp":null,"name":"name","value":"Carlos"}`},
		{"slot cleared", SlotSet("date", nil), `{"event":"slot","timestamp":null,"name":"date","value":null}`},
		{"action", ActionExecuted("action_fetch_packages"), `{"event":"action","timestamp":null,"name":"action_fetch_packages","policy":null,"confidence":null}`},
		{"reset", AllSlotsReset(), `{"event":"reset_slots","timestamp":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.event)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))

			var back Event
			require.NoError(t, json.Unmarshal(got, &back))
			assert.Equal(t, tt.event.Kind, back.Kind)
			assert.Equal(t, tt.event.Name, back.Name)
		})
	}
}

func TestActionResult_EmptySlices(t *testing.T) {
	got, err := json.Marshal(NewActionResult(nil, nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"events":[],"responses":[]}`, string(got))
}

func TestResponse_Wire(t *testing.T) {
	resp := []Response{
		{Template: "utter_ask_packages"},
		{Text: "🔊 Hola", Attachment: &Attachment{
			Type:    AttachmentAudio,
			Payload: AttachmentPayload{Src: "data:audio/mp3;base64,AAAA", Title: "Respuesta de voz"},
		}},
	}
	got, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"response":"utter_ask_packages"},
		{"text":"🔊 Hola","attachment":{"type":"audio","payload":{"src":"data:audio/mp3;base64,AAAA","title":"Respuesta de voz"}}}
	]`, string(got))
}
