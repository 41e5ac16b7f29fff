package welcome

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/skillbit/skillbit/internal/learner"
	"github.com/skillbit/skillbit/internal/router"
	"github.com/skillbit/skillbit/internal/screen"
	"github.com/skillbit/skillbit/internal/ui/components"
	"github.com/skillbit/skillbit/internal/ui/layout"
	"github.com/skillbit/skillbit/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	bannerAt     = 400 * time.Millisecond
	totalDur     = 1500 * time.Millisecond
)

type tickMsg time.Time

type namedMsg struct {
	learner *learner.Learner
	err     error
}

// WelcomeScreen shows the banner, asks a first-time learner for a name,
// then replaces itself with the home screen.
type WelcomeScreen struct {
	env          *screen.Env
	homeFactory  func() screen.Screen
	elapsed      time.Duration
	askName      bool
	input        components.TextInput
	errMsg       string
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)
var _ screen.KeyHintProvider = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that transitions to homeFactory's screen.
func New(env *screen.Env, homeFactory func() screen.Screen) *WelcomeScreen {
	w := &WelcomeScreen{env: env, homeFactory: homeFactory}
	if env != nil && env.Learner != nil && env.Learner.New && env.Profiles != nil {
		w.askName = true
		w.input = components.NewTextInput("Your name", 32)
	}
	return w
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	if w.askName {
		return []layout.KeyHint{{Key: "Enter", Description: "Continue"}, {Key: "Ctrl+C", Description: "Quit"}}
	}
	return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
}

func (w *WelcomeScreen) Init() tea.Cmd {
	cmds := []tea.Cmd{tick()}
	if w.askName {
		cmds = append(cmds, w.input.Init())
	}
	return tea.Batch(cmds...)
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if w.elapsed >= totalDur {
			return w, nil
		}
		w.elapsed += tickInterval
		return w, tick()

	case namedMsg:
		if msg.err != nil {
			w.errMsg = msg.err.Error()
			return w, nil
		}
		w.env.Learner = msg.learner
		w.askName = false
		return w, w.transition()

	case tea.KeyPressMsg:
		if !w.askName {
			if w.elapsed >= totalDur {
				return w, w.transition()
			}
			return w, nil
		}
		if msg.String() == "enter" {
			return w, w.saveName(w.input.Value())
		}
	}

	if w.askName {
		var cmd tea.Cmd
		w.input, cmd = w.input.Update(msg)
		return w, cmd
	}
	return w, nil
}

func (w *WelcomeScreen) saveName(name string) tea.Cmd {
	env := w.env
	return func() tea.Msg {
		l, err := learner.Resolve(context.Background(), env.Profiles, name)
		return namedMsg{learner: l, err: err}
	}
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	return router.Replace(w.homeFactory())
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	if w.elapsed >= bannerAt || w.askName {
		sections = append(sections, RenderBanner(width), "")
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render("Learn at your pace. Rest when you need to."))
	}

	hint := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)
	switch {
	case w.askName:
		sections = append(sections, "",
			lipgloss.NewStyle().Foreground(theme.Secondary).Render("What should we call you?"),
			w.input.View())
		if w.errMsg != "" {
			sections = append(sections, lipgloss.NewStyle().Foreground(theme.Error).Render(w.errMsg))
		}
	case w.elapsed >= totalDur:
		name := w.env.LearnerName()
		if name != "" {
			sections = append(sections, "", lipgloss.NewStyle().Foreground(theme.Accent).Render("Welcome back, "+name+"!"))
		}
		sections = append(sections, "", hint.Render("press any key to continue"))
	}

	return layout.Center(strings.Join(sections, "\n"), width, height)
}
