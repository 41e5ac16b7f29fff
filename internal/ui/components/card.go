package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/skillbit/skillbit/internal/ui/theme"
)

// ContentWidth returns the inner width of the centered column every
// screen renders into.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 72)
}

// Card wraps content in a rounded border at width w.
func Card(content string, w int) string {
	return theme.Card.Width(w).Render(content)
}

// Section renders a bold heading over a dimmed rule.
func Section(title string, w int) string {
	rule := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(w, 0)))
	return lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(title) + "\n" + rule
}
