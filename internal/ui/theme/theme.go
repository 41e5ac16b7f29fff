package theme

import (
	"fmt"
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/skillbit/skillbit/internal/questionbank"
)

// Palette: calm study colors with warm accents for feedback.
var (
	Primary   = lipgloss.Color("#6366F1") // Indigo
	Secondary = lipgloss.Color("#0EA5E9") // Sky
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#EF4444") // Red
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0F172A") // Deep Navy
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate

	EasyColor   = lipgloss.Color("#22C55E")
	MediumColor = lipgloss.Color("#F59E0B")
	HardColor   = lipgloss.Color("#EF4444")
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	Overlay = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(Accent).
		Padding(1, 4).
		Align(lipgloss.Center)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Disabled = lipgloss.NewStyle().
			Foreground(TextDim)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// TierColor returns the badge color for a difficulty tier.
func TierColor(d questionbank.Difficulty) color.Color {
	switch d {
	case questionbank.Easy:
		return EasyColor
	case questionbank.Hard:
		return HardColor
	default:
		return MediumColor
	}
}

// TierBadge renders a difficulty as a colored, bracketed label.
func TierBadge(d questionbank.Difficulty) string {
	return lipgloss.NewStyle().
		Foreground(TierColor(d)).
		Bold(true).
		Render("[" + d.Label() + "]")
}

// Delta renders a signed change, green when it moves in the good direction.
func Delta(n int, higherIsBetter bool) string {
	style := lipgloss.NewStyle().Foreground(TextDim)
	if n == 0 {
		return style.Render("±0")
	}
	if (n > 0) == higherIsBetter {
		style = style.Foreground(Success)
	} else {
		style = style.Foreground(Error)
	}
	return style.Render(fmt.Sprintf("%+d", n))
}
