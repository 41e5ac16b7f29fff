// Package lectures is the screen that lists the foundational lectures and
// lets the learner mark them watched.
package lectures

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	lec "github.com/skillbit/skillbit/internal/lectures"
	"github.com/skillbit/skillbit/internal/screen"
	"github.com/skillbit/skillbit/internal/ui/components"
	"github.com/skillbit/skillbit/internal/ui/layout"
	"github.com/skillbit/skillbit/internal/ui/theme"
)

type progressMsg struct {
	completed []string
	err       error
}

// Screen lists lectures; Enter opens one, M marks it watched.
type Screen struct {
	tracker   *lec.Tracker
	lectures  []lec.Lecture
	completed []string
	selected  int
	viewing   bool
	notice    string
	errMsg    string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.BackInterceptor = (*Screen)(nil)

// New creates the lectures screen. notice is shown above the list, e.g.
// when the learner was redirected here by a prerequisite.
func New(tracker *lec.Tracker, notice string) *Screen {
	return &Screen{tracker: tracker, lectures: tracker.Lectures(), notice: notice}
}

func (s *Screen) Init() tea.Cmd {
	return s.load()
}

func (s *Screen) load() tea.Cmd {
	tracker := s.tracker
	return func() tea.Msg {
		done, err := tracker.Completed(context.Background())
		return progressMsg{completed: done, err: err}
	}
}

func (s *Screen) markWatched(id string) tea.Cmd {
	tracker := s.tracker
	return func() tea.Msg {
		ctx := context.Background()
		if err := tracker.MarkComplete(ctx, id); err != nil {
			return progressMsg{err: err}
		}
		done, err := tracker.Completed(ctx)
		return progressMsg{completed: done, err: err}
	}
}

func (s *Screen) Title() string {
	return "Lectures"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.viewing {
		return []layout.KeyHint{
			{Key: "M", Description: "Mark watched"},
			{Key: "Esc", Description: "Back to list"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "M", Description: "Mark watched"},
		{Key: "Esc", Description: "Back"},
	}
}

// InterceptBack closes the lecture detail before leaving the screen.
func (s *Screen) InterceptBack() bool {
	if s.viewing {
		s.viewing = false
		return true
	}
	return false
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.completed = msg.completed
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			if !s.viewing && s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if !s.viewing && s.selected < len(s.lectures)-1 {
				s.selected++
			}
		case "enter":
			s.viewing = true
		case "m", "M":
			if s.selected < len(s.lectures) {
				return s, s.markWatched(s.lectures[s.selected].ID)
			}
		}
	}
	return s, nil
}

func (s *Screen) watched(id string) bool {
	return slices.Contains(s.completed, id)
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var b strings.Builder

	if s.notice != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Width(cw).Render(s.notice))
		b.WriteString("\n\n")
	}
	if s.errMsg != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render("Error: " + s.errMsg))
		b.WriteString("\n\n")
	}

	if s.viewing && s.selected < len(s.lectures) {
		b.WriteString(s.renderDetail(s.lectures[s.selected], cw))
	} else {
		b.WriteString(s.renderList(cw))
	}
	return layout.Center(b.String(), width, height)
}

func (s *Screen) renderList(cw int) string {
	var b strings.Builder
	b.WriteString(components.NewProgressBar("Watched", float64(len(s.completed))/float64(max(len(s.lectures), 1)), cw).View())
	b.WriteString("\n\n")

	for i, l := range s.lectures {
		mark := theme.Disabled.Render("○")
		if s.watched(l.ID) {
			mark = theme.Correct.Render("✓")
		}
		line := fmt.Sprintf("%d. %s", i+1, l.Title)
		dur := theme.Disabled.Render(l.DurationLabel())
		if i == s.selected {
			line = theme.Selected.Render("▸ " + line)
		} else {
			line = theme.Unselected.Render("  " + line)
		}
		b.WriteString(mark + " " + line + "  " + dur + "\n")
	}

	if len(s.completed) == len(s.lectures) {
		b.WriteString("\n" + theme.Correct.Render("All lectures watched. The diagnostic quiz is unlocked!"))
	}
	return b.String()
}

func (s *Screen) renderDetail(l lec.Lecture, cw int) string {
	status := theme.Hint.Render("not watched yet")
	if s.watched(l.ID) {
		status = theme.Correct.Render("✓ watched")
	}
	body := strings.Join([]string{
		lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(l.Title),
		theme.Disabled.Render("Duration " + l.DurationLabel()),
		"",
		lipgloss.NewStyle().Foreground(theme.Text).Width(cw - 6).Render(l.Description),
		"",
		lipgloss.NewStyle().Foreground(theme.Secondary).Underline(true).Render(l.VideoURL),
		"",
		status,
	}, "\n")
	return components.Card(body, cw)
}
