package session

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/skillbit/skillbit/internal/ui/components"
	"github.com/skillbit/skillbit/internal/ui/layout"
	"github.com/skillbit/skillbit/internal/ui/theme"
)

// renderStatus renders the meters and tier shown above every question.
func (s *SessionScreen) renderStatus(cw int) string {
	st := s.ctrl.State()

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("Question %d", st.QuestionsAnswered+1))
	if s.env.MaxQuestions > 0 {
		infoLeft += theme.Disabled.Render(fmt.Sprintf(" of %d", s.env.MaxQuestions))
	}

	infoRight := fmt.Sprintf("%s  %s %d  %s",
		theme.TierBadge(st.Difficulty),
		lipgloss.NewStyle().Foreground(theme.Success).Render("✓"),
		st.CorrectAnswers,
		theme.Disabled.Render(clockLabel(s.ctrl.Elapsed())),
	)

	infoLine := infoLeft
	if pad := cw - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight); pad > 0 {
		infoLine += strings.Repeat(" ", pad) + infoRight
	} else {
		infoLine += "  " + infoRight
	}

	meterWidth := max(cw-18, 10)
	fatigueColor := theme.Success
	if st.Fatigue >= 50 {
		fatigueColor = theme.Accent
	}

	var b strings.Builder
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(components.Meter("Competence", st.Competence, meterWidth, theme.Primary))
	b.WriteString("\n")
	b.WriteString(components.Meter("Fatigue   ", st.Fatigue, meterWidth, fatigueColor))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw)))
	return b.String()
}

// renderQuestionView renders the active question display.
func (s *SessionScreen) renderQuestionView(width, height int) string {
	cw := components.ContentWidth(width)
	if _, ok := s.ctrl.Current(); !ok {
		return layout.Center(theme.Hint.Render("Choosing your next question..."), width, height)
	}

	var b strings.Builder
	b.WriteString(s.renderStatus(cw))
	b.WriteString("\n\n")
	b.WriteString(s.choice.View(cw))
	return layout.Center(b.String(), width, height)
}

// renderFeedback renders the answer outcome and how the learner model moved.
func (s *SessionScreen) renderFeedback(width, height int) string {
	fb := s.feedback
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(s.choice.View(cw))
	b.WriteString("\n")

	if fb.Event.IsCorrect {
		b.WriteString(theme.Correct.Render("Correct!"))
	} else {
		b.WriteString(theme.Incorrect.Render("Not quite"))
		b.WriteString("\n")
		b.WriteString(theme.Disabled.Render("Correct answer: " + fb.Question.CorrectOption()))
	}
	b.WriteString("\n\n")

	if fb.Question.Explanation != "" {
		b.WriteString(lipgloss.NewStyle().Width(cw).Foreground(theme.Text).Render(fb.Question.Explanation))
		b.WriteString("\n\n")
	}

	upd := fb.Update
	b.WriteString(fmt.Sprintf("Competence  %3d → %3d  %s\n",
		fb.PrevCompetence, upd.Competence, theme.Delta(upd.Competence-fb.PrevCompetence, true)))
	b.WriteString(fmt.Sprintf("Fatigue     %3d → %3d  %s\n",
		fb.PrevFatigue, upd.Fatigue, theme.Delta(upd.Fatigue-fb.PrevFatigue, false)))
	b.WriteString(theme.Disabled.Render(fmt.Sprintf("Answered in %s", clockLabel(fb.Event.Elapsed()))))
	b.WriteString("\n")

	if fb.TierChanged() {
		b.WriteString("\n")
		if fb.PrevDifficulty.Up() == upd.Difficulty {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
				Render("Level up! Moving to " + theme.TierBadge(upd.Difficulty)))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
				Render("Easing off to " + theme.TierBadge(upd.Difficulty)))
		}
		b.WriteString("\n")
	}

	if fb.BreakRequired {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render("You're getting tired. A short break is next."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("Press any key to continue..."))
	return layout.Center(b.String(), width, height)
}

// renderBreak renders the rest-break overlay with its countdown.
func (s *SessionScreen) renderBreak(width, height int) string {
	st := s.ctrl.Break()
	cw := min(components.ContentWidth(width), 56)

	bar := components.NewProgressBar("", st.Progress, max(cw-16, 10))
	bar.Fill = theme.Accent
	bar.Suffix = clockLabel(st.Remaining)

	body := strings.Join([]string{
		lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("Time for a Break"),
		"",
		lipgloss.NewStyle().Foreground(theme.Text).Render("You've been working hard. Rest your eyes,"),
		lipgloss.NewStyle().Foreground(theme.Text).Render("stretch, and take a few deep breaths."),
		"",
		bar.View(),
		"",
		theme.Disabled.Render(fmt.Sprintf("Fatigue will drop by %d points.", st.Relief)),
		"",
		theme.Hint.Render("[S] Resume now"),
	}, "\n")

	return layout.Center(theme.Overlay.Render(body), width, height)
}

// renderQuitConfirm renders the quit confirmation dialog.
func renderQuitConfirm(width, height int) string {
	body := strings.Join([]string{
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("End session early?"),
		theme.Disabled.Render("Your results so far will be saved."),
		"",
		lipgloss.NewStyle().Foreground(theme.Success).Render("[Y] Yes, end session"),
		lipgloss.NewStyle().Foreground(theme.Primary).Render("[N] No, keep going"),
	}, "\n")
	return layout.Center(body, width, height)
}

// renderLoading renders the loading state.
func renderLoading(width, height int) string {
	return layout.Center(theme.Hint.Render("Preparing your session..."), width, height)
}

// renderError renders an error message.
func renderError(width, height int, errMsg string) string {
	return layout.Center(lipgloss.NewStyle().
		Foreground(theme.Error).
		Render(fmt.Sprintf("Error: %s\n\nPress any key to go back.", errMsg)), width, height)
}

// clockLabel formats d as m:ss.
func clockLabel(d time.Duration) string {
	secs := max(int(d.Round(time.Second).Seconds()), 0)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
