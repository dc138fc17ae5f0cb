// Package booking implements the session booking flow: slot validation,
// confirmation and summary messages, pricing, and the final hand-off, which
// is only logged.
package booking

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/soulpath-wellness/soulpath-actions-go/internal/action"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/content"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/dialogue"
	domerrors "github.com/soulpath-wellness/soulpath-actions-go/internal/errors"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/logger"
)

// ModuleName identifies the module in logs.
const ModuleName = "booking"

// Action names.
const (
	ActionValidateBooking   = "action_validate_booking"
	ActionBookClassForm     = "action_book_class_form"
	ActionConfirmation      = "action_booking_confirmation"
	ActionSendEmail         = "action_send_booking_email"
	ActionValidateBirthDate = "action_validate_birth_date"
	ActionCalculatePricing  = "action_calculate_pricing"
	ActionAskMissingInfo    = "action_ask_for_missing_info"
	ActionGenerateSummary   = "action_generate_booking_summary"
)

// Slot names.
const (
	SlotSessionType   = "session_type"
	SlotDate          = "date"
	SlotTime          = "time"
	SlotClassType     = "class_type"
	SlotTeacherName   = "teacher_name"
	SlotName          = "name"
	SlotBirthDate     = "birth_date"
	SlotPreferredTime = "preferred_time"
	SlotSessionPrice  = "session_price"
)

const pending = "Por confirmar"

// maxAge bounds a plausible birth date.
const maxAge = 120

var (
	// Shape checks only; the engine owns real date handling.
	datePattern = regexp.MustCompile(`^\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`)
	timePattern = regexp.MustCompile(`^\d{1,2}:\d{2}\s*(AM|PM|am|pm)?`)

	// birthDateLayouts are tried in order; the first that parses wins, so
	// an ambiguous 03/04/1990 reads as day/month.
	birthDateLayouts = []string{"2/1/2006", "1/2/2006", "2006-1-2", "2-1-2006", "1-2-2006"}
)

// Handler runs the booking actions.
type Handler struct {
	content *content.Content
	logger  *logger.Logger
	now     func() time.Time
}

// Option configures a Handler.
type Option func(*Handler)

// WithClock overrides the clock used for birth date checks.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		h.now = now
	}
}

// NewHandler creates the booking handler.
func NewHandler(c *content.Content, log *logger.Logger, opts ...Option) *Handler {
	h := &Handler{
		content: c,
		logger:  log.WithModule(ModuleName),
		now:     time.Now,
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
		action.New(ActionValidateBooking, h.validateBooking),
		action.New(ActionBookClassForm, h.bookClassForm),
		action.New(ActionConfirmation, h.confirmation),
		action.New(ActionSendEmail, h.sendEmail),
		action.New(ActionValidateBirthDate, h.validateBirthDate),
		action.New(ActionCalculatePricing, h.calculatePricing),
		action.New(ActionAskMissingInfo, h.askMissingInfo),
		action.New(ActionGenerateSummary, h.generateSummary),
	}
}

// validateBooking checks session type, date and time in that order. Only
// the first invalid field is reported and cleared so the engine re-asks it.
func (h *Handler) validateBooking(ctx context.Context, tracker *dialogue.Tracker, out *action.Collector) ([]dialogue.Event, error) {
	invalid := h.checkBooking(tracker)
	if invalid == nil {
		return nil, nil
	}

	h.logger.WithField("field", invalid.Field).
		WithField("value", tracker.SlotString(invalid.Field)).
		DebugContext(ctx, "Booking field rejected")
	out.Utter(invalid.Message)
	return []dialogue.Event{dialogue.SlotSet(invalid.Field, nil)}, nil
}

func (h *Handler) checkBooking(tracker *dialogue.Tracker) *domerrors.ValidationError {
	if st := tracker.SlotString(SlotSessionType); st != "" && !h.content.IsSessionType(st) {
		return domerrors.NewValidationError(SlotSessionType, fmt.Sprintf(
			"Disculpa, no reconozco el tipo de sesión '%s'. Nuestros servicios disponibles son: %s. ¿Cuál te interesa?",
			st, strings.Join(h.content.SessionTypes, ", ")))
	}
	if date := tracker.SlotString(SlotDate); date != "" && !ValidDate(date) {
		return domerrors.NewValidationError(SlotDate,
			"Por favor, proporciona la fecha en formato DD/MM/YYYY o DD-MM-YYYY. Por ejemplo: 15/03/2024")
	}
	if t := tracker.SlotString(SlotTime); t != "" && !ValidTime(t) {
		return domerrors.NewValidationError(SlotTime,
			"Por favor, proporciona la hora en formato HH:MM AM/PM. Por ejemplo: 2:30 PM o 14:30")
	}
	return nil
}

// ValidDate reports whether s starts like a numeric date ("15/03/2024").
func ValidDate(s string) bool {
	return datePattern.MatchString(strings.TrimSpace(s))
}

// ValidTime reports whether s starts like a clock time ("2:30 PM", "14:30").
func ValidTime(s string) bool {
	return timePattern.MatchString(strings.TrimSpace(s))
}

func (h *Handler) bookClassForm(ctx context.Context, tracker *dialogue.Tracker, out *action.Collector) ([]dialogue.Event, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "¡Perfecto! He registrado tu solicitud para una clase de %s", orPending(tracker.SlotString(SlotClassType)))
	if teacher := tracker.SlotString(SlotTeacherName); teacher != "" {
		fmt.Fprintf(&b, " con %s", teacher)
	}
	fmt.Fprintf(&b, " el %s a las %s. Te contactaremos pronto para confirmar todos los detalles.",
		orPending(tracker.SlotString(SlotDate)), orPending(tracker.SlotString(SlotTime)))

	h.logger.WithFields(map[string]any{
		"class_type": tracker.SlotString(SlotClassType),
		"teacher":    tracker.SlotString(SlotTeacherName),
		"date":       tracker.SlotString(SlotDate),
		"time":       tracker.SlotString(SlotTime),
	}).InfoContext(ctx, "Class booking requested")

	out.Utter(b.String())
	return nil, nil
}

func (h *Handler) confirmation(_ context.Context, tracker *dialogue.Tracker, out *action.Collector) ([]dialogue.Event, error) {
	name := tracker.SlotString(SlotName)
	if name == "" {
		out.Utter("Necesito tu nombre para completar la reserva. ¿Podrías proporcionármelo?")
		return nil, nil
	}
	birthDate := tracker.SlotString(SlotBirthDate)
	if birthDate == "" {
		out.Utter("Para una lectura precisa, necesito tu fecha de nacimiento. ¿Cuándo naciste?")
		return nil, nil
	}

	sessionType := tracker.SlotString(SlotSessionType)
	var b strings.Builder
	b.WriteString("¡Perfecto! Resumiendo tu reserva:\n\n")
	fmt.Fprintf(&b, "👤 **Nombre**: %s\n", name)
	fmt.Fprintf(&b, "📅 **Fecha de Nacimiento**: %s\n", birthDate)
	fmt.Fprintf(&b, "⏰ **Horario Preferido**: %s\n", orPending(tracker.SlotString(SlotPreferredTime)))
	fmt.Fprintf(&b, "🔮 **Tipo de Sesión**: %s\n", h.sessionLabel(sessionType))
	fmt.Fprintf(&b, "💰 **Precio**: $%d %s\n\n", h.content.SessionPrice(sessionType), h.content.Booking.Currency)
	b.WriteString("¿Confirmas esta reserva?")
	out.Utter(b.String())
	return nil, nil
}

// sendEmail records the confirmed booking. Nothing is persisted; the log
// line is the hand-off to the studio.
func (h *Handler) sendEmail(ctx context.Context, tracker *dialogue.Tracker, out *action.Collector) ([]dialogue.Event, error) {
	h.logger.WithFields(map[string]any{
		"name":           tracker.SlotString(SlotName),
		"birth_date":     tracker.SlotString(SlotBirthDate),
		"preferred_time": tracker.SlotString(SlotPreferredTime),
		"session_type":   tracker.SlotString(SlotSessionType),
	}).InfoContext(ctx, "Booking confirmed")

	contact := h.content.Studio.ContactPerson
	var b strings.Builder
	b.WriteString("¡Excelente! Tu sesión ha sido confirmada.\n\n")
	fmt.Fprintf(&b, "%s se pondrá en contacto contigo en las próximas 24 horas para coordinar los detalles finales y confirmar el horario exacto.\n\n", contact)
	b.WriteString("📧 Recibirás un email de confirmación en breve.\n")
	fmt.Fprintf(&b, "📞 %s te llamará para coordinar la sesión.\n\n", contact)
	fmt.Fprintf(&b, "¡Gracias por elegir %s! 🌟", h.content.Studio.Name)
	out.Utter(b.String())

	return []dialogue.Event{dialogue.AllSlotsReset()}, nil
}

func (h *Handler) validateBirthDate(_ context.Context, tracker *dialogue.Tracker, out *action.Collector) ([]dialogue.Event, error) {
	raw := strings.TrimSpace(tracker.SlotString(SlotBirthDate))
	if raw == "" {
		return nil, nil
	}

	normalized, problem := CheckBirthDate(raw, h.now())
	switch problem {
	case BirthDateUnparsable:
		out.Utter("No pude entender la fecha. ¿Podrías escribirla en formato DD/MM/AAAA? Por ejemplo: 15/03/1990")
	case BirthDateInFuture:
		out.Utter("La fecha de nacimiento no puede ser en el futuro. ¿Podrías verificar la fecha?")
	case BirthDateTooOld:
		out.Utter("La fecha parece ser incorrecta. ¿Podrías verificar tu fecha de nacimiento?")
	default:
		return []dialogue.Event{dialogue.SlotSet(SlotBirthDate, normalized)}, nil
	}
	return []dialogue.Event{dialogue.SlotSet(SlotBirthDate, nil)}, nil
}

// BirthDateProblem is the outcome of CheckBirthDate.
type BirthDateProblem int

const (
	BirthDateOK BirthDateProblem = iota
	BirthDateUnparsable
	BirthDateInFuture
	BirthDateTooOld
)

// CheckBirthDate parses raw with the accepted layouts and validates it
// against now. On success it returns the date as DD/MM/YYYY.
func CheckBirthDate(raw string, now time.Time) (string, BirthDateProblem) {
	var parsed time.Time
	var err error
	for _, layout := range birthDateLayouts {
		parsed, err = time.ParseInLocation(layout, raw, now.Location())
		if err == nil {
			break
		}
	}
	if err != nil {
		return "", BirthDateUnparsable
	}

	if parsed.After(now) {
		return "", BirthDateInFuture
	}
	if age(parsed, now) > maxAge {
		return "", BirthDateTooOld
	}
	return parsed.Format("02/01/2006"), BirthDateOK
}

func age(born, now time.Time) int {
	years := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		years--
	}
	return years
}

func (h *Handler) calculatePricing(_ context.Context, tracker *dialogue.Tracker, _ *action.Collector) ([]dialogue.Event, error) {
	price := h.content.SessionPrice(tracker.SlotString(SlotSessionType))
	return []dialogue.Event{dialogue.SlotSet(SlotSessionPrice, price)}, nil
}

func (h *Handler) askMissingInfo(_ context.Context, tracker *dialogue.Tracker, out *action.Collector) ([]dialogue.Event, error) {
	var missing []string
	if tracker.SlotString(SlotName) == "" {
		missing = append(missing, "nombre")
	}
	if tracker.SlotString(SlotBirthDate) == "" {
		missing = append(missing, "fecha de nacimiento")
	}
	if tracker.SlotString(SlotPreferredTime) == "" {
		missing = append(missing, "horario preferido")
	}

	switch len(missing) {
	case 0:
	case 1:
		out.Utterf("Para completar tu reserva, necesito tu %s. ¿Podrías proporcionármelo?", missing[0])
	default:
		out.Utterf("Para completar tu reserva, necesito: %s. ¿Podrías proporcionarme esta información?", strings.Join(missing, ", "))
	}
	return nil, nil
}

func (h *Handler) generateSummary(_ context.Context, tracker *dialogue.Tracker, out *action.Collector) ([]dialogue.Event, error) {
	price := tracker.SlotString(SlotSessionPrice)
	if price == "" || price == "0" {
		price = fmt.Sprint(h.content.Booking.DefaultPrice)
	}

	var b strings.Builder
	b.WriteString("📋 **RESUMEN DE RESERVA**\n\n")
	fmt.Fprintf(&b, "👤 **Cliente**: %s\n", orPending(tracker.SlotString(SlotName)))
	fmt.Fprintf(&b, "📅 **Fecha de Nacimiento**: %s\n", orPending(tracker.SlotString(SlotBirthDate)))
	fmt.Fprintf(&b, "⏰ **Horario Preferido**: %s\n", orPending(tracker.SlotString(SlotPreferredTime)))
	fmt.Fprintf(&b, "🔮 **Tipo de Sesión**: %s\n", h.sessionLabel(tracker.SlotString(SlotSessionType)))
	fmt.Fprintf(&b, "💰 **Precio**: $%s %s\n\n", price, h.content.Booking.Currency)
	b.WriteString("¿Todo está correcto?")
	out.Utter(b.String())
	return nil, nil
}

func (h *Handler) sessionLabel(sessionType string) string {
	if sessionType == "" {
		return h.content.Booking.DefaultSession
	}
	return sessionType
}

func orPending(s string) string {
	if s == "" {
		return pending
	}
	return s
}
