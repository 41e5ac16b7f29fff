// Package summary is the results screen shown after a practice session.
package summary

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/skillbit/skillbit/internal/coach"
	"github.com/skillbit/skillbit/internal/questionbank"
	"github.com/skillbit/skillbit/internal/results"
	"github.com/skillbit/skillbit/internal/router"
	"github.com/skillbit/skillbit/internal/screen"
	"github.com/skillbit/skillbit/internal/ui/components"
	"github.com/skillbit/skillbit/internal/ui/layout"
	"github.com/skillbit/skillbit/internal/ui/theme"
)

// timelineRows caps the per-question table.
const timelineRows = 10

type loadedMsg struct {
	summary *results.Summary
	err     error
}

type coachMsg struct {
	msg coach.Message
}

type clearedMsg struct {
	err error
}

// SummaryScreen displays the analytics of the stored session against
// the diagnostic baseline.
type SummaryScreen struct {
	env     *screen.Env
	loaded  bool
	summary *results.Summary
	errMsg  string

	coachMsg *coach.Message
	spinner  spinner.Model
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(env *screen.Env) *SummaryScreen {
	return &SummaryScreen{
		env:     env,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (s *SummaryScreen) Init() tea.Cmd {
	env := s.env
	return func() tea.Msg {
		ctx := context.Background()
		diag, err := env.Results.DiagnosticResult(ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		sess, err := env.Results.SessionResult(ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		if diag == nil || sess == nil {
			return loadedMsg{}
		}
		sum := results.Summarize(*diag, *sess)
		return loadedMsg{summary: &sum}
	}
}

func (s *SummaryScreen) Title() string {
	return "Results"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	if s.summary == nil {
		return []layout.KeyHint{{Key: "Esc", Description: "Home"}}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Home"},
		{Key: "R", Description: "Start again"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.summary = msg.summary
		if s.summary == nil {
			return s, nil
		}
		return s, tea.Batch(s.motivate(*s.summary), s.spinner.Tick)

	case coachMsg:
		s.coachMsg = &msg.msg
		return s, nil

	case clearedMsg:
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		return s, router.PopToRoot

	case spinner.TickMsg:
		if s.coachMsg != nil {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter":
			return s, router.PopToRoot
		case "r", "R":
			if s.summary != nil {
				return s, s.startAgain()
			}
		}
	}
	return s, nil
}

// motivate asks the coach for a message. On failure Motivate logs the
// error and still returns the rules message, which is shown as is.
func (s *SummaryScreen) motivate(sum results.Summary) tea.Cmd {
	svc := s.env.Coach
	return func() tea.Msg {
		if svc == nil {
			return coachMsg{msg: coach.Rules(sum)}
		}
		m, _ := svc.Motivate(context.Background(), sum)
		return coachMsg{msg: m}
	}
}

// startAgain wipes the stored diagnostic and session results.
func (s *SummaryScreen) startAgain() tea.Cmd {
	store := s.env.Results
	return func() tea.Msg {
		return clearedMsg{err: store.Clear(context.Background())}
	}
}

func (s *SummaryScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	switch {
	case s.errMsg != "":
		return layout.Center(theme.Incorrect.Render("Error: "+s.errMsg), width, height)
	case !s.loaded:
		return layout.Center(theme.Hint.Render("Loading results..."), width, height)
	case s.summary == nil:
		return layout.Center(theme.Hint.Render("No results yet. Finish a practice session first."), width, height)
	}

	sum := s.summary
	var b strings.Builder

	b.WriteString(theme.Title.Width(cw).Render("Learning Journey Complete!"))
	b.WriteString("\n\n")

	// Pre/post comparison.
	improvement := theme.Delta(sum.Improvement, true)
	b.WriteString(fmt.Sprintf("Diagnostic %s  →  Competence %s   %s\n",
		lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(fmt.Sprintf("%d%%", sum.Comparison.PreTest)),
		lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(fmt.Sprintf("%d%%", sum.Comparison.PostTest)),
		improvement,
	))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render(sum.Message()))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("Questions: %d    Correct: %d    Accuracy: %.0f%%    Fatigue: %d",
		sum.QuestionsAnswered, sum.CorrectAnswers, sum.Accuracy, sum.FinalFatigue)
	b.WriteString(theme.Body.Render(statsLine))
	b.WriteString("\n\n")

	b.WriteString(components.Section("Difficulty", cw))
	b.WriteString("\n")
	b.WriteString(renderDistribution(sum.Distribution, cw))
	b.WriteString("\n")

	if len(sum.Timeline) > 0 {
		b.WriteString(components.Section("Timeline", cw))
		b.WriteString("\n")
		b.WriteString(renderTimeline(sum.Timeline))
		b.WriteString("\n")
	}

	b.WriteString(components.Section("Coach", cw))
	b.WriteString("\n")
	if s.coachMsg == nil {
		b.WriteString(s.spinner.View() + theme.Hint.Render(" Thinking about your session..."))
	} else {
		b.WriteString(lipgloss.NewStyle().Width(cw).Foreground(theme.Text).Bold(true).Render(s.coachMsg.Headline))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(cw).Foreground(theme.TextDim).Render(s.coachMsg.Tip))
	}

	return layout.Center(b.String(), width, height)
}

func renderDistribution(d results.Distribution, cw int) string {
	total := d.Easy + d.Medium + d.Hard
	var b strings.Builder
	for _, diff := range questionbank.AllDifficulties() {
		n := d.Count(diff)
		var pct float64
		if total > 0 {
			pct = float64(n) / float64(total)
		}
		bar := components.NewProgressBar(fmt.Sprintf("%-6s", diff.Label()), pct, max(cw-20, 10))
		bar.Fill = theme.TierColor(diff)
		bar.Suffix = fmt.Sprintf("%d", n)
		b.WriteString(bar.View())
		b.WriteString("\n")
	}
	return b.String()
}

// renderTimeline lists the most recent answers, newest last.
func renderTimeline(points []results.Point) string {
	if len(points) > timelineRows {
		points = points[len(points)-timelineRows:]
	}
	var b strings.Builder
	for _, p := range points {
		mark := theme.Incorrect.Render("✗")
		if p.Accuracy == 100 {
			mark = theme.Correct.Render("✓")
		}
		badge := theme.TierBadge(p.Difficulty)
		pad := strings.Repeat(" ", max(8-lipgloss.Width(badge), 0))
		b.WriteString(fmt.Sprintf("  Q%-3d %s  %s%s %3ds\n", p.Question, mark, badge, pad, p.Seconds))
	}
	return b.String()
}
