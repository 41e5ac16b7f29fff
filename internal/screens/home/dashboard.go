package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/skillbit/skillbit/internal/session"
	"github.com/skillbit/skillbit/internal/ui/components"
	"github.com/skillbit/skillbit/internal/ui/theme"
)

const titleFull = `╔═╗╦╔═╦╦  ╦  ╔╗ ╦╔╦╗
╚═╗╠╩╗║║  ║  ╠╩╗║ ║
╚═╝╩ ╩╩╩═╝╩═╝╚═╝╩ ╩ `

const titleCompact = "S K I L L B I T"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	title := titleFull
	if compact {
		title = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(title))
}

// renderStatsBar renders lecture, diagnostic and session progress in a
// bordered box matching content width.
func renderStatsBar(st status, cw int, compact bool) string {
	lectureStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	diagStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	compStyle := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	diag := dimStyle.Render("—")
	if st.diag != nil {
		diag = diagStyle.Render(fmt.Sprintf("%d%%", st.diag.Score))
	}
	comp := dimStyle.Render("—")
	if st.sess != nil {
		comp = compStyle.Render(fmt.Sprintf("%d", st.sess.Competence)) + " " + theme.TierBadge(st.sess.CurrentDifficulty)
	} else if st.diag != nil {
		initial := session.InitialState(st.diag.Score)
		comp = dimStyle.Render(fmt.Sprintf("%d", initial.Competence)) + " " + theme.TierBadge(initial.Difficulty)
	}

	lectures := lectureStyle.Render(fmt.Sprintf("%d/%d", st.lecturesDone, st.lecturesTotal))

	var stats string
	if compact {
		stats = fmt.Sprintf("▶ %s  ◎ %s  ▲ %s", lectures, diag, comp)
	} else {
		stats = fmt.Sprintf("LECTURES %s   DIAGNOSTIC %s   COMPETENCE %s", lectures, diag, comp)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Border).
		Width(cw).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// renderMenu centers the menu block in the content column.
func renderMenu(m components.Menu, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(m.View())
}

func renderError(msg string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Error).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ " + msg)
}
