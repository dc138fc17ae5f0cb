package catalog

import (
	"fmt"
	"strings"
)

// FormatSummary renders the numbered package list sent after a fetch.
func FormatSummary(packages []Package) string {
	var b strings.Builder
	b.WriteString("🌟 **Paquetes Disponibles:**\n\n")

	for i, p := range packages {
		fmt.Fprintf(&b, "**%d. %s**\n", i+1, p.Name)
		if p.IsPopular {
			b.WriteString("   ⭐ POPULAR\n")
		}
		fmt.Fprintf(&b, "   💰 Precio: %s\n", p.PriceLabel())
		fmt.Fprintf(&b, "   📅 Sesiones: %d\n", p.SessionsCount)
		fmt.Fprintf(&b, "   ⏱️ Duración: %d minutos cada una\n", p.Duration)
		fmt.Fprintf(&b, "   📝 %s\n\n", p.Description)
	}

	b.WriteString("💫 **¿Listo para reservar?** Solo dime qué paquete te interesa y te ayudo a comenzar.")
	return b.String()
}

// FormatDetails renders a single package.
func FormatDetails(p Package) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 **Detalles del Paquete: %s**\n\n", p.Name)
	if p.IsPopular {
		b.WriteString("⭐ **POPULAR**\n\n")
	}
	fmt.Fprintf(&b, "💰 **Precio:** %s\n", p.PriceLabel())
	fmt.Fprintf(&b, "📅 **Sesiones:** %d\n", p.SessionsCount)
	fmt.Fprintf(&b, "⏱️ **Duración:** %d minutos por sesión\n\n", p.Duration)
	fmt.Fprintf(&b, "📝 **Descripción:**\n%s\n\n", p.Description)
	b.WriteString("💫 **¿Te gustaría reservar este paquete?**")
	return b.String()
}
