// Package diagnostic is the baseline quiz screen.
package diagnostic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	diag "github.com/skillbit/skillbit/internal/diagnostic"
	"github.com/skillbit/skillbit/internal/prereq"
	"github.com/skillbit/skillbit/internal/router"
	"github.com/skillbit/skillbit/internal/screen"
	lecturescreen "github.com/skillbit/skillbit/internal/screens/lectures"
	"github.com/skillbit/skillbit/internal/ui/components"
	"github.com/skillbit/skillbit/internal/ui/layout"
	"github.com/skillbit/skillbit/internal/ui/theme"
)

// LecturesNotice is shown when the quiz redirects to the lecture list.
const LecturesNotice = "Please complete all lectures before taking the diagnostic test."

type startedMsg struct {
	eval *diag.Evaluator
	err  error
}

// Screen runs the diagnostic evaluator. Answers get no feedback; the
// score is revealed at the end.
type Screen struct {
	env    *screen.Env
	eval   *diag.Evaluator
	choice components.Choice
	// answering is set between a committed choice and its submit.
	answering bool
	result    *diag.Result
	errMsg string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the diagnostic screen.
func New(env *screen.Env) *Screen {
	return &Screen{env: env}
}

func (s *Screen) Init() tea.Cmd {
	env := s.env
	return func() tea.Msg {
		eval, err := diag.Start(context.Background(), env.Lectures, env.Catalog.Diagnostic.All(),
			diag.WithSink(env.Results),
			diag.WithLogger(env.Log),
		)
		return startedMsg{eval: eval, err: err}
	}
}

func (s *Screen) Title() string {
	return "Diagnostic"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.result != nil || s.errMsg != "" {
		return []layout.KeyHint{{Key: "Enter", Description: "Done"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter / 1-4", Description: "Answer"},
		{Key: "Esc", Description: "Abandon"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		if errors.Is(msg.err, prereq.ErrNotMet) {
			return s, router.Replace(lecturescreen.New(s.env.Lectures, LecturesNotice))
		}
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.eval = msg.eval
		s.present()
		return s, nil

	case components.ChoiceSubmittedMsg:
		s.submit(msg.Index)
		return s, nil

	case tea.KeyPressMsg:
		if s.result != nil || s.errMsg != "" {
			if msg.String() == "enter" {
				return s, router.Pop
			}
			return s, nil
		}
		if s.eval != nil && !s.answering {
			var cmd tea.Cmd
			s.choice, cmd = s.choice.Update(msg)
			s.answering = cmd != nil
			return s, cmd
		}
	}
	return s, nil
}

func (s *Screen) present() {
	q, ok := s.eval.Current()
	if !ok {
		return
	}
	s.choice = components.NewChoice(q.Prompt, q.Options)
}

// submit runs on the update loop; the evaluator is not safe for
// concurrent use.
func (s *Screen) submit(i int) {
	s.answering = false
	if s.eval == nil {
		return
	}
	if _, err := s.eval.Submit(context.Background(), i); err != nil {
		s.errMsg = err.Error()
		return
	}
	if s.eval.Done() {
		r, _ := s.eval.Result()
		s.result = &r
		return
	}
	s.present()
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	switch {
	case s.errMsg != "":
		return layout.Center(theme.Incorrect.Render("Error: "+s.errMsg), width, height)
	case s.result != nil:
		return layout.Center(renderResult(*s.result, cw), width, height)
	case s.eval == nil:
		return layout.Center(theme.Hint.Render("Preparing your diagnostic..."), width, height)
	}

	answered, total := s.eval.Progress()
	var b strings.Builder
	b.WriteString(components.NewProgressBar(fmt.Sprintf("Question %d of %d", answered+1, total), float64(answered)/float64(total), cw).View())
	b.WriteString("\n\n")
	b.WriteString(s.choice.View(cw))
	return layout.Center(b.String(), width, height)
}

func renderResult(r diag.Result, cw int) string {
	score := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(fmt.Sprintf("%d%%", r.Score))
	body := strings.Join([]string{
		theme.Title.Render("Diagnostic Complete"),
		"",
		"Your baseline score: " + score,
		theme.Disabled.Render(fmt.Sprintf("%d of %d correct", r.Correct(), len(r.Answers))),
		"",
		lipgloss.NewStyle().Foreground(theme.Text).Render(diag.ScoreMessage(r.Score)),
		lipgloss.NewStyle().Foreground(theme.Secondary).Render(diag.Recommendation(r.Score)),
		"",
		theme.Hint.Render("Adaptive practice is now unlocked."),
	}, "\n")
	return components.Card(lipgloss.NewStyle().Align(lipgloss.Center).Render(body), cw)
}
