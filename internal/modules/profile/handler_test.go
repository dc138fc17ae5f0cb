package profile

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulpath-wellness/soulpath-actions-go/internal/action"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/content"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/dialogue"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/logger"
)

func newHandler(t *testing.T) (*Handler, *bytes.Buffer) {
	t.Helper()
	c, err := content.Default()
	require.NoError(t, err)
	var buf bytes.Buffer
	return NewHandler(c, logger.NewWithWriter("debug", &buf)), &buf
}

func runAction(t *testing.T, h *Handler, name string, tracker *dialogue.Tracker) ([]dialogue.Event, []dialogue.Response) {
	t.Helper()
	for _, a := range h.Actions() {
		if a.Name() == name {
			out := &action.Collector{}
			events, err := a.Run(context.Background(), tracker, out)
			require.NoError(t, err)
			return events, out.Responses()
		}
	}
	t.Fatalf("action %s not registered", name)
	return nil, nil
}

func TestExtractName(t *testing.T) {
	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{"me llamo Carlos", "Carlos", true},
		{"I'm Ana", "Ana", true},
		{"I’m Ana", "Ana", true},
		{"Hola, MI NOMBRE ES josé", "josé", true},
		{"soy Lucía y quiero una cita", "Lucía", true},
		{"call me Sam", "Sam", true},
		{"my name is Alex", "Alex", true},
		{"I am Bea", "Bea", true},
		{"hola, buenas tardes", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := ExtractName(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandleName(t *testing.T) {
	h, _ := newHandler(t)

	t.Run("entity wins", func(t *testing.T) {
		events, responses := runAction(t, h, ActionHandleName, &dialogue.Tracker{LatestMessage: dialogue.Message{
			Text:     "me llamo Carlos",
			Entities: []dialogue.Entity{{Entity: "name", Value: "Carla"}},
		}})
		require.Len(t, events, 1)
		assert.Equal(t, "Carla", events[0].Value)
		assert.Equal(t, "¡Mucho gusto, Carla! Soy tu asistente de astrología. ¿En qué puedo ayudarte?", responses[0].Text)
	})

	t.Run("pattern", func(t *testing.T) {
		events, _ := runAction(t, h, ActionHandleName, &dialogue.Tracker{LatestMessage: dialogue.Message{Text: "me llamo Carlos"}})
		require.Len(t, events, 1)
		assert.Equal(t, "name", events[0].Name)
		assert.Equal(t, "Carlos", events[0].Value)
	})

	t.Run("no match", func(t *testing.T) {
		events, responses := runAction(t, h, ActionHandleName, &dialogue.Tracker{LatestMessage: dialogue.Message{Text: "hola"}})
		assert.Empty(t, events)
		require.Len(t, responses, 1)
		assert.Equal(t, "¡Mucho gusto! Soy tu asistente de astrología. ¿En qué puedo ayudarte?", responses[0].Text)
	})
}

func TestSaveInfo(t *testing.T) {
	h, logs := newHandler(t)

	_, responses := runAction(t, h, ActionSaveInfo, &dialogue.Tracker{SenderID: "u7", Slots: map[string]any{"name": "Ana", "sign": "Leo"}})
	require.Len(t, responses, 1)
	assert.Equal(t, "¡Perfecto, Ana! He guardado tu información. ¿Hay algo más en lo que pueda ayudarte?", responses[0].Text)
	assert.Contains(t, logs.String(), `"sign":"Leo"`)
	assert.Contains(t, logs.String(), `"user_id":"u7"`)

	_, responses = runAction(t, h, ActionSaveInfo, &dialogue.Tracker{})
	assert.Empty(t, responses)
}

func TestSentiment(t *testing.T) {
	h, _ := newHandler(t)

	assert.Equal(t, SentimentPositive, h.Classify("¡Excelente, gracias!"))
	assert.Equal(t, SentimentPositive, h.Classify("Si, me parece genial"))
	assert.Equal(t, SentimentNegative, h.Classify("No me gusta, es malo"))
	assert.Equal(t, SentimentNeutral, h.Classify("quiero información"))
	// "no" inside another word does not count
	assert.Equal(t, SentimentNeutral, h.Classify("noviembre"))

	events, responses := runAction(t, h, ActionSentiment, &dialogue.Tracker{LatestMessage: dialogue.Message{Text: "terrible"}})
	require.Len(t, events, 1)
	assert.Equal(t, SentimentNegative, events[0].Value)
	require.Len(t, responses, 1)

	events, responses = runAction(t, h, ActionSentiment, &dialogue.Tracker{LatestMessage: dialogue.Message{Text: "ok"}})
	assert.Equal(t, SentimentNeutral, events[0].Value)
	assert.Empty(t, responses)
}
