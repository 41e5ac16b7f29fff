package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/skillbit/skillbit/internal/ui/theme"
)

const bannerArt = `
 ███████╗██╗  ██╗██╗██╗     ██╗     ██████╗ ██╗████████╗
 ██╔════╝██║ ██╔╝██║██║     ██║     ██╔══██╗██║╚══██╔══╝
 ███████╗█████╔╝ ██║██║     ██║     ██████╔╝██║   ██║
 ╚════██║██╔═██╗ ██║██║     ██║     ██╔══██╗██║   ██║
 ███████║██║  ██╗██║███████╗███████╗██████╔╝██║   ██║
 ╚══════╝╚═╝  ╚═╝╚═╝╚══════╝╚══════╝╚═════╝ ╚═╝   ╚═╝`

const bannerCompact = "S K I L L B I T"

// RenderBanner returns the banner, or a one-line fallback below 60 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 60 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
