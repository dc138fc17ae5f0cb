package booking

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulpath-wellness/soulpath-actions-go/internal/action"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/content"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/dialogue"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/logger"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type harness struct {
	handler *Handler
	logs    *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	c, err := content.Default()
	require.NoError(t, err)
	var buf bytes.Buffer
	h := NewHandler(c, logger.NewWithWriter("debug", &buf), WithClock(func() time.Time { return fixedNow }))
	return &harness{handler: h, logs: &buf}
}

func (h *harness) run(t *testing.T, name string, slots map[string]any) ([]dialogue.Event, []string) {
	t.Helper()
	for _, a := range h.handler.Actions() {
		if a.Name() != name {
			continue
		}
		out := &action.Collector{}
		events, err := a.Run(context.Background(), &dialogue.Tracker{SenderID: "u1", Slots: slots}, out)
		require.NoError(t, err)
		texts := make([]string, 0, len(out.Responses()))
		for _, r := range out.Responses() {
			texts = append(texts, r.Text)
		}
		return events, texts
	}
	t.Fatalf("action %s not registered", name)
	return nil, nil
}

func assertCleared(t *testing.T, events []dialogue.Event, slot string) {
	t.Helper()
	require.Len(t, events, 1)
	assert.Equal(t, dialogue.EventSlot, events[0].Kind)
	assert.Equal(t, slot, events[0].Name)
	assert.Nil(t, events[0].Value)
}

func TestValidateBooking(t *testing.T) {
	h := newHarness(t)

	t.Run("all valid", func(t *testing.T) {
		events, texts := h.run(t, ActionValidateBooking, map[string]any{
			"session_type": "Tarot", "date": "15/03/2024", "time": "2:30 PM",
		})
		assert.Empty(t, events)
		assert.Empty(t, texts)
	})

	t.Run("unknown session type", func(t *testing.T) {
		events, texts := h.run(t, ActionValidateBooking, map[string]any{"session_type": "reiki", "date": "bad"})
		assertCleared(t, events, "session_type")
		require.Len(t, texts, 1)
		assert.Equal(t, "Disculpa, no reconozco el tipo de sesión 'reiki'. Nuestros servicios disponibles son: astrología, tarot, numerología, meditación, terapia, coaching. ¿Cuál te interesa?", texts[0])
	})

	t.Run("date in words", func(t *testing.T) {
		events, texts := h.run(t, ActionValidateBooking, map[string]any{"date": "marzo quince"})
		assertCleared(t, events, "date")
		assert.Contains(t, texts[0], "15/03/2024")
	})

	t.Run("bad time", func(t *testing.T) {
		events, _ := h.run(t, ActionValidateBooking, map[string]any{"date": "15-03-24", "time": "tarde"})
		assertCleared(t, events, "time")
	})
}

func TestValidDateAndTime(t *testing.T) {
	assert.True(t, ValidDate("15/03/2024"))
	assert.True(t, ValidDate("1-3-24"))
	assert.False(t, ValidDate("marzo quince"))
	assert.False(t, ValidDate("2024"))

	assert.True(t, ValidTime("14:30"))
	assert.True(t, ValidTime("2:30 pm"))
	assert.False(t, ValidTime("a las dos"))
}

func TestCheckBirthDate(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		problem BirthDateProblem
	}{
		{"15/03/1990", "15/03/1990", BirthDateOK},
		{"3/4/1990", "03/04/1990", BirthDateOK},
		{"03/15/1990", "15/03/1990", BirthDateOK},
		{"1990-03-15", "15/03/1990", BirthDateOK},
		{"15-03-1990", "15/03/1990", BirthDateOK},
		{"03-15-1990", "15/03/1990", BirthDateOK},
		{"15/06/2025", "15/06/2025", BirthDateOK},
		{"quince de marzo", "", BirthDateUnparsable},
		{"15/03/90", "", BirthDateUnparsable},
		{"16/06/2025", "", BirthDateInFuture},
		{"01/01/1900", "", BirthDateTooOld},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, problem := CheckBirthDate(tt.raw, fixedNow)
			assert.Equal(t, tt.problem, problem)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateBirthDateAction(t *testing.T) {
	h := newHarness(t)

	events, texts := h.run(t, ActionValidateBirthDate, map[string]any{"birth_date": "1990-3-5"})
	require.Len(t, events, 1)
	assert.Equal(t, "05/03/1990", events[0].Value)
	assert.Empty(t, texts)

	events, texts = h.run(t, ActionValidateBirthDate, map[string]any{"birth_date": "2030-01-01"})
	assertCleared(t, events, "birth_date")
	assert.Equal(t, []string{"La fecha de nacimiento no puede ser en el futuro. ¿Podrías verificar la fecha?"}, texts)

	events, texts = h.run(t, ActionValidateBirthDate, nil)
	assert.Empty(t, events)
	assert.Empty(t, texts)
}

func TestConfirmation(t *testing.T) {
	h := newHarness(t)

	_, texts := h.run(t, ActionConfirmation, nil)
	assert.Equal(t, []string{"Necesito tu nombre para completar la reserva. ¿Podrías proporcionármelo?"}, texts)

	_, texts = h.run(t, ActionConfirmation, map[string]any{"name": "Ana"})
	assert.Equal(t, []string{"Para una lectura precisa, necesito tu fecha de nacimiento. ¿Cuándo naciste?"}, texts)

	_, texts = h.run(t, ActionConfirmation, map[string]any{"name": "Ana", "birth_date": "15/03/1990", "session_type": "tarot"})
	require.Len(t, texts, 1)
	assert.Equal(t, "¡Perfecto! Resumiendo tu reserva:\n\n"+
		"👤 **Nombre**: Ana\n"+
		"📅 **Fecha de Nacimiento**: 15/03/1990\n"+
		"⏰ **Horario Preferido**: Por confirmar\n"+
		"🔮 **Tipo de Sesión**: tarot\n"+
		"💰 **Precio**: $40 USD\n\n"+
		"¿Confirmas esta reserva?", texts[0])
}

func TestSendEmail(t *testing.T) {
	h := newHarness(t)

	events, texts := h.run(t, ActionSendEmail, map[string]any{"name": "Ana", "session_type": "tarot"})
	require.Len(t, events, 1)
	assert.Equal(t, dialogue.EventResetSlots, events[0].Kind)
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "José se pondrá en contacto contigo")
	assert.Contains(t, texts[0], "¡Gracias por elegir SoulPath Wellness! 🌟")
	assert.Contains(t, h.logs.String(), "Booking confirmed")
	assert.Contains(t, h.logs.String(), `"session_type":"tarot"`)
}

func TestCalculatePricing(t *testing.T) {
	h := newHarness(t)

	events, texts := h.run(t, ActionCalculatePricing, map[string]any{"session_type": "Crecimiento Personal"})
	require.Len(t, events, 1)
	assert.Equal(t, "session_price", events[0].Name)
	assert.Equal(t, 120, events[0].Value)
	assert.Empty(t, texts)

	events, _ = h.run(t, ActionCalculatePricing, nil)
	assert.Equal(t, 80, events[0].Value)
}

func TestAskMissingInfo(t *testing.T) {
	h := newHarness(t)

	_, texts := h.run(t, ActionAskMissingInfo, nil)
	assert.Equal(t, []string{"Para completar tu reserva, necesito: nombre, fecha de nacimiento, horario preferido. ¿Podrías proporcionarme esta información?"}, texts)

	_, texts = h.run(t, ActionAskMissingInfo, map[string]any{"name": "Ana", "birth_date": "15/03/1990"})
	assert.Equal(t, []string{"Para completar tu reserva, necesito tu horario preferido. ¿Podrías proporcionármelo?"}, texts)

	_, texts = h.run(t, ActionAskMissingInfo, map[string]any{"name": "Ana", "birth_date": "x", "preferred_time": "tarde"})
	assert.Empty(t, texts)
}

func TestGenerateSummary(t *testing.T) {
	h := newHarness(t)

	_, texts := h.run(t, ActionGenerateSummary, map[string]any{"name": "Ana", "session_price": 60.0})
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "👤 **Cliente**: Ana\n")
	assert.Contains(t, texts[0], "📅 **Fecha de Nacimiento**: Por confirmar\n")
	assert.Contains(t, texts[0], "🔮 **Tipo de Sesión**: Carta Natal\n")
	assert.Contains(t, texts[0], "💰 **Precio**: $60 USD\n")

	_, texts = h.run(t, ActionGenerateSummary, nil)
	assert.Contains(t, texts[0], "💰 **Precio**: $80 USD\n")
}

func TestBookClassForm(t *testing.T) {
	h := newHarness(t)

	_, texts := h.run(t, ActionBookClassForm, map[string]any{
		"class_type": "Hatha Yoga", "teacher_name": "María", "date": "15/03/2025", "time": "10:00 AM",
	})
	assert.Equal(t, []string{"¡Perfecto! He registrado tu solicitud para una clase de Hatha Yoga con María el 15/03/2025 a las 10:00 AM. Te contactaremos pronto para confirmar todos los detalles."}, texts)
}
