package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/skillbit/skillbit/internal/ui/theme"
)

// ProgressBar displays a horizontal bar for a fraction in [0,1].
type ProgressBar struct {
	Label   string
	Percent float64
	// Suffix replaces the default percentage text when set.
	Suffix string
	Width  int
	Fill   color.Color
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, width int) ProgressBar {
	return ProgressBar{
		Label:   label,
		Percent: percent,
		Width:   width,
		Fill:    theme.Secondary,
	}
}

// Meter is a 0-100 gauge such as competence or fatigue.
func Meter(label string, value int, width int, fill color.Color) string {
	bar := NewProgressBar(label, float64(value)/100, width)
	bar.Fill = fill
	bar.Suffix = fmt.Sprintf("%3d", value)
	return bar.View()
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string
	if p.Label != "" {
		result = lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	pct := min(max(p.Percent, 0), 1)
	suffix := p.Suffix
	if suffix == "" {
		suffix = fmt.Sprintf("%d%%", int(pct*100))
	}
	suffix = "  " + suffix

	barWidth := max(p.Width-lipgloss.Width(result)-lipgloss.Width(suffix), 4)
	filled := int(float64(barWidth) * pct)

	fill := p.Fill
	if fill == nil {
		fill = theme.Secondary
	}
	result += lipgloss.NewStyle().Background(fill).Render(strings.Repeat(" ", filled))
	result += lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled))
	result += lipgloss.NewStyle().Foreground(theme.TextDim).Render(suffix)
	return result
}
