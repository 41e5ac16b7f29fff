// Package history lists finished practice sessions.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/skillbit/skillbit/internal/questionbank"
	"github.com/skillbit/skillbit/internal/screen"
	"github.com/skillbit/skillbit/internal/store"
	"github.com/skillbit/skillbit/internal/ui/layout"
	"github.com/skillbit/skillbit/internal/ui/theme"
)

// limit bounds how many sessions are loaded.
const limit = 50

type historyLoadedMsg struct {
	snapshots []store.Snapshot
	err       error
}

// HistoryScreen displays past sessions with an expandable tier trail.
type HistoryScreen struct {
	env       *screen.Env
	snapshots []store.Snapshot
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(env *screen.Env) *HistoryScreen {
	return &HistoryScreen{
		env:      env,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	env := s.env
	return func() tea.Msg {
		if env.History == nil || env.Learner == nil {
			return historyLoadedMsg{}
		}
		snaps, err := env.History.List(context.Background(), env.Learner.ID, limit)
		return historyLoadedMsg{snapshots: snaps, err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.err != nil {
			s.errMsg = msg.err.Error()
		} else {
			s.snapshots = msg.snapshots
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.snapshots)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.snapshots) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No sessions yet. Start practicing!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, snap := range s.snapshots {
		r := snap.Result
		var accuracy float64
		if r.QuestionsAnswered > 0 {
			accuracy = float64(r.CorrectAnswers) / float64(r.QuestionsAnswered) * 100
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %d questions  %.0f%% accuracy  competence %d",
			prefix, snap.Timestamp.Local().Format("Jan 02, 15:04"), r.QuestionsAnswered, accuracy, r.Competence)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderDetail(snap)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// renderDetail shows the tier of every answer and where the session ended.
func renderDetail(snap store.Snapshot) string {
	r := snap.Result
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	if len(r.Answers) == 0 {
		return dim.Italic(true).Render("    No answers recorded")
	}

	trail := make([]string, 0, len(r.Answers))
	for _, a := range r.Answers {
		mark := "·"
		if a.IsCorrect {
			mark = "✓"
		}
		trail = append(trail, lipgloss.NewStyle().Foreground(theme.TierColor(a.Difficulty)).Render(mark))
	}

	counts := map[questionbank.Difficulty]int{}
	for _, a := range r.Answers {
		counts[a.Difficulty]++
	}
	var mix []string
	for _, d := range questionbank.AllDifficulties() {
		if counts[d] > 0 {
			mix = append(mix, fmt.Sprintf("%s %d", d.Label(), counts[d]))
		}
	}

	return strings.Join([]string{
		"    " + strings.Join(trail, " "),
		dim.Render(fmt.Sprintf("    %s  ended at %s, fatigue %d",
			strings.Join(mix, " / "), r.CurrentDifficulty.Label(), r.Fatigue)),
	}, "\n")
}
