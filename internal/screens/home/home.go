// Package home is the main menu.
package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/skillbit/skillbit/internal/diagnostic"
	"github.com/skillbit/skillbit/internal/router"
	"github.com/skillbit/skillbit/internal/screen"
	diagscreen "github.com/skillbit/skillbit/internal/screens/diagnostic"
	"github.com/skillbit/skillbit/internal/screens/history"
	lecturescreen "github.com/skillbit/skillbit/internal/screens/lectures"
	sessionscreen "github.com/skillbit/skillbit/internal/screens/session"
	"github.com/skillbit/skillbit/internal/screens/summary"
	"github.com/skillbit/skillbit/internal/session"
	"github.com/skillbit/skillbit/internal/ui/components"
	"github.com/skillbit/skillbit/internal/ui/layout"
)

// status is the learner's progress through the flow.
type status struct {
	lecturesDone  int
	lecturesTotal int
	diag          *diagnostic.Result
	sess          *session.Result
}

func (st status) lecturesComplete() bool {
	return st.lecturesTotal > 0 && st.lecturesDone == st.lecturesTotal
}

type statusMsg struct {
	status status
	err    error
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	env    *screen.Env
	status status
	loaded bool
	errMsg string
	menu   components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(env *screen.Env) *HomeScreen {
	h := &HomeScreen{env: env}
	h.menu = components.NewMenu(h.menuItems())
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadStatus()
}

// Resume reloads progress after a lecture, quiz or session screen closes.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.loadStatus()
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) loadStatus() tea.Cmd {
	env := h.env
	return func() tea.Msg {
		ctx := context.Background()
		var st status
		done, total, err := env.Lectures.Progress(ctx)
		if err != nil {
			return statusMsg{err: fmt.Errorf("load lecture progress: %w", err)}
		}
		st.lecturesDone, st.lecturesTotal = done, total

		if st.diag, err = env.Results.DiagnosticResult(ctx); err != nil {
			return statusMsg{err: fmt.Errorf("load diagnostic result: %w", err)}
		}
		if st.sess, err = env.Results.SessionResult(ctx); err != nil {
			return statusMsg{err: fmt.Errorf("load session result: %w", err)}
		}
		return statusMsg{status: st}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(statusMsg); ok {
		h.loaded = true
		if msg.err != nil {
			h.errMsg = msg.err.Error()
			return h, nil
		}
		h.errMsg = ""
		h.status = msg.status
		selected := h.menu.Selected
		h.menu = components.NewMenu(h.menuItems())
		if selected < len(h.menu.Items) && !h.menu.Items[selected].Disabled {
			h.menu.Selected = selected
		}
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) menuItems() []components.MenuItem {
	env, st := h.env, h.status

	lectureNote := fmt.Sprintf("%d/%d watched", st.lecturesDone, st.lecturesTotal)
	if st.lecturesComplete() {
		lectureNote = "all watched ✓"
	}

	diagNote := "locked: finish the lectures"
	switch {
	case st.diag != nil:
		diagNote = fmt.Sprintf("baseline %d%%, retake anytime", st.diag.Score)
	case st.lecturesComplete():
		diagNote = "ready"
	}

	practiceNote := "locked: take the diagnostic"
	switch {
	case !st.lecturesComplete():
		practiceNote = "locked: finish the lectures"
	case st.diag != nil:
		practiceNote = "starts at " + session.InitialState(st.diag.Score).Difficulty.Label()
	}

	resultsNote := "after your first session"
	if st.sess != nil {
		resultsNote = fmt.Sprintf("competence %d", st.sess.Competence)
	}

	return []components.MenuItem{
		{Label: "Lectures", Note: lectureNote, Action: func() tea.Cmd {
			return router.Push(lecturescreen.New(env.Lectures, ""))
		}},
		{Label: "Diagnostic Quiz", Note: diagNote, Action: func() tea.Cmd {
			return router.Push(diagscreen.New(env))
		}},
		{Label: "Adaptive Practice", Note: practiceNote, Action: func() tea.Cmd {
			return router.Push(sessionscreen.New(env))
		}},
		{Label: "Results", Note: resultsNote, Disabled: st.sess == nil, Action: func() tea.Cmd {
			return router.Push(summary.New(env))
		}},
		{Label: "History", Note: "past sessions", Disabled: st.sess == nil || env.History == nil, Action: func() tea.Cmd {
			return router.Push(history.New(env))
		}},
		{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	compact := layout.IsCompactWidth(width) || height < 24

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if h.loaded && h.errMsg == "" {
		sections = append(sections, renderStatsBar(h.status, cw, compact))
	}
	if h.errMsg != "" {
		sections = append(sections, renderError(h.errMsg, cw))
	}
	sections = append(sections, renderMenu(h.menu, cw))

	return layout.Center(strings.Join(sections, "\n\n"), width, height)
}
