// Package studio serves the static studio information: teachers, the class
// schedule, class prices, level recommendations and open booking slots.
package studio

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/soulpath-wellness/soulpath-actions-go/internal/action"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/content"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/dialogue"
)

// ModuleName identifies the module in logs.
const ModuleName = "studio"

// Action names.
const (
	ActionTeachersInfo      = "action_get_teachers_info"
	ActionClassSchedule     = "action_get_class_schedule"
	ActionPricing           = "action_get_pricing"
	ActionRecommendClass    = "action_recommend_class"
	ActionCheckAvailability = "action_check_availability"
)

// Handler renders studio content.
type Handler struct {
	content *content.Content
}

// NewHandler creates the studio handler.
func NewHandler(c *content.Content) *Handler {
	return &Handler{content: c}
}

// Name returns the module name.
func (h *Handler) Name() string {
	return ModuleName
}

// Actions returns the actions this module provides.
func (h *Handler) Actions() []action.Action {
	return []action.Action{
		action.New(ActionTeachersInfo, h.teachersInfo),
		action.New(ActionClassSchedule, h.classSchedule),
		action.New(ActionPricing, h.pricing),
		action.New(ActionRecommendClass, h.recommendClass),
		action.New(ActionCheckAvailability, h.checkAvailability),
	}
}

func (h *Handler) teachersInfo(_ context.Context, tracker *dialogue.Tracker, out *action.Collector) ([]dialogue.Event, error) {
	requested, ok := tracker.EntityValue("teacher_name")
	if !ok {
		var b strings.Builder
		b.WriteString("**Nuestros Instructores:**\n\n")
		for _, t := range h.content.Teachers {
			fmt.Fprintf(&b, "• **%s** - %s\n", t.Name, t.Specialties[0])
		}
		b.WriteString("\n¿Te gustaría conocer más detalles sobre algún instructor específico?")
		out.Utter(b.String())
		return nil, nil
	}

	teacher, found := h.content.Teacher(requested)
	if !found {
		out.Utterf("No encontré información sobre %s. Nuestros instructores son %s. ¿Te gustaría conocer más sobre alguno de ellos?",
			requested, joinSpanish(h.content.TeacherFirstNames()))
		return nil, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n\n", teacher.Name)
	fmt.Fprintf(&b, "**Especialidades:** %s\n", strings.Join(teacher.Specialties, ", "))
	fmt.Fprintf(&b, "**Experiencia:** %s\n", teacher.Experience)
	fmt.Fprintf(&b, "**Descripción:** %s\n\n", teacher.Description)
	b.WriteString("¿Te gustaría reservar una clase con este instructor?")
	out.Utter(b.String())
	return nil, nil
}

func (h *Handler) classSchedule(_ context.Context, _ *dialogue.Tracker, out *action.Collector) ([]dialogue.Event, error) {
	var b strings.Builder
	b.WriteString("**Horario de Clases:**\n\n")
	for _, day := range h.content.Schedule {
		fmt.Fprintf(&b, "**%s:**\n", day.Day)
		for _, class := range day.Classes {
			fmt.Fprintf(&b, "  • %s\n", class)
		}
		b.WriteString("\n")
	}
	b.WriteString("¿Te gustaría reservar alguna de estas clases?")
	out.Utter(b.String())
	return nil, nil
}

func (h *Handler) pricing(_ context.Context, _ *dialogue.Tracker, out *action.Collector) ([]dialogue.Event, error) {
	var b strings.Builder
	b.WriteString("Aquí tienes nuestros precios detallados:\n\n")
	for _, p := range h.content.ClassPricing {
		fmt.Fprintf(&b, "• %s: %s\n", p.Class, p.Price)
	}
	b.WriteString("\nTambién ofrecemos paquetes especiales con descuentos. ¿Te interesa algún tipo de clase específico?")
	out.Utter(b.String())
	return nil, nil
}

func (h *Handler) recommendClass(_ context.Context, tracker *dialogue.Tracker, out *action.Collector) ([]dialogue.Event, error) {
	var b strings.Builder

	level := tracker.SlotString("skill_level")
	if rec, ok := h.content.Recommendation(level); ok && level != "" {
		fmt.Fprintf(&b, "**Recomendaciones para nivel %s:**\n\n", cases.Title(language.Spanish).String(level))
		fmt.Fprintf(&b, "%s\n\n", rec.Description)
		b.WriteString("**Clases recomendadas:**\n")
		for _, class := range rec.Classes {
			fmt.Fprintf(&b, "• %s\n", class)
		}
		b.WriteString("\n¿Te gustaría reservar alguna de estas clases?")
		out.Utter(b.String())
		return nil, nil
	}

	b.WriteString("**Clases Populares:**\n\n")
	for _, p := range h.content.Recommendations.Popular {
		fmt.Fprintf(&b, "• **%s** - %s\n", p.Name, p.Note)
	}
	b.WriteString("\n¿Cuál te interesa más?")
	out.Utter(b.String())
	return nil, nil
}

func (h *Handler) checkAvailability(_ context.Context, _ *dialogue.Tracker, out *action.Collector) ([]dialogue.Event, error) {
	var b strings.Builder
	b.WriteString("📅 **HORARIOS DISPONIBLES ESTA SEMANA**\n\n")
	for _, day := range h.content.Availability {
		fmt.Fprintf(&b, "**%s**: %s\n", day.Day, strings.Join(day.Times, ", "))
	}
	b.WriteString("\n¿Cuál te conviene más?")
	out.Utter(b.String())
	return nil, nil
}

// joinSpanish joins items as "a, b y c".
func joinSpanish(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " y " + items[len(items)-1]
	}
}
