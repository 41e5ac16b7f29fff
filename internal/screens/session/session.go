// Package session is the adaptive practice screen.
package session

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/skillbit/skillbit/internal/prereq"
	"github.com/skillbit/skillbit/internal/router"
	"github.com/skillbit/skillbit/internal/screen"
	diagscreen "github.com/skillbit/skillbit/internal/screens/diagnostic"
	lecturescreen "github.com/skillbit/skillbit/internal/screens/lectures"
	"github.com/skillbit/skillbit/internal/screens/summary"
	sess "github.com/skillbit/skillbit/internal/session"
	"github.com/skillbit/skillbit/internal/ui/components"
	"github.com/skillbit/skillbit/internal/ui/layout"
)

// DiagnosticNotice is shown on the lecture list when practice was
// started before the lectures were finished.
const DiagnosticNotice = "Please complete all lectures and the diagnostic test before starting practice."

// SessionScreen implements screen.Screen for an active practice session.
type SessionScreen struct {
	env  *screen.Env
	ctrl *sess.Controller

	choice    components.Choice
	answering bool
	feedback  *sess.Feedback

	showingQuitConfirm bool
	ended              bool
	errMsg             string
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)
var _ screen.BackInterceptor = (*SessionScreen)(nil)

// New creates a new SessionScreen over env.
func New(env *screen.Env) *SessionScreen {
	return &SessionScreen{env: env}
}

func (s *SessionScreen) Init() tea.Cmd {
	return s.initSession()
}

func (s *SessionScreen) Title() string {
	return "Practice"
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "":
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	case s.ctrl == nil:
		return nil
	case s.showingQuitConfirm:
		return []layout.KeyHint{
			{Key: "Y", Description: "End session"},
			{Key: "N", Description: "Keep going"},
		}
	case s.feedback != nil:
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	case s.ctrl.BreakRequired():
		return []layout.KeyHint{
			{Key: "S", Description: "Resume now"},
			{Key: "Esc", Description: "End session"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter / 1-4", Description: "Answer"},
		{Key: "Esc", Description: "End session"},
	}
}

// InterceptBack turns Esc into the end-session prompt while a session
// is running.
func (s *SessionScreen) InterceptBack() bool {
	if s.ctrl == nil || s.ended || s.errMsg != "" {
		return false
	}
	s.showingQuitConfirm = !s.showingQuitConfirm
	return true
}

func (s *SessionScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, height, s.errMsg)
	}
	if s.ctrl == nil {
		return renderLoading(width, height)
	}
	if s.showingQuitConfirm {
		return renderQuitConfirm(width, height)
	}
	if s.feedback != nil {
		return s.renderFeedback(width, height)
	}
	if s.ctrl.BreakRequired() {
		return s.renderBreak(width, height)
	}
	return s.renderQuestionView(width, height)
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionInitMsg:
		return s.handleInit(msg)

	case timerTickMsg:
		return s.handleTimerTick()

	case components.ChoiceSubmittedMsg:
		return s.submitAnswer(msg.Index)

	case sessionEndMsg:
		return s.handleSessionEnd()

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

// initSession checks the prerequisites and starts the controller.
func (s *SessionScreen) initSession() tea.Cmd {
	env := s.env
	return func() tea.Msg {
		ctrl, err := sess.New(context.Background(), env.Gate(), env.Catalog.Practice.All(),
			sess.WithBreakPolicy(env.Break),
			sess.WithMaxQuestions(env.MaxQuestions),
			sess.WithSink(env.Sink),
			sess.WithLogger(env.Log),
		)
		return sessionInitMsg{Ctrl: ctrl, Err: err}
	}
}

func (s *SessionScreen) handleInit(msg sessionInitMsg) (screen.Screen, tea.Cmd) {
	var pe *prereq.Error
	if errors.As(msg.Err, &pe) {
		if pe.Has(prereq.Lectures) {
			return s, router.Replace(lecturescreen.New(s.env.Lectures, DiagnosticNotice))
		}
		return s, router.Replace(diagscreen.New(s.env))
	}
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	s.ctrl = msg.Ctrl
	return s, tea.Batch(s.nextQuestion(), tickCmd())
}

func (s *SessionScreen) handleTimerTick() (screen.Screen, tea.Cmd) {
	if s.ctrl == nil || s.ended {
		return s, nil
	}
	// The countdown only runs while the break overlay is on screen.
	if s.ctrl.BreakRequired() && s.feedback == nil && !s.showingQuitConfirm {
		if s.ctrl.AdvanceBreak(context.Background(), time.Second) {
			return s, tea.Batch(s.nextQuestion(), tickCmd())
		}
	}
	return s, tickCmd()
}

// nextQuestion asks the controller for the next question. Exhausting the
// pool or hitting the question cap ends the session.
func (s *SessionScreen) nextQuestion() tea.Cmd {
	q, err := s.ctrl.Next(context.Background())
	switch {
	case errors.Is(err, sess.ErrSessionComplete):
		return func() tea.Msg { return sessionEndMsg{} }
	case errors.Is(err, sess.ErrBreakActive):
		return nil
	case err != nil:
		s.errMsg = err.Error()
		return nil
	}
	s.choice = components.NewChoice(q.Prompt, q.Options)
	s.answering = false
	return nil
}

func (s *SessionScreen) handleSessionEnd() (screen.Screen, tea.Cmd) {
	if s.ctrl == nil {
		return s, router.Pop
	}
	s.ended = true
	s.ctrl.End(context.Background())
	return s, router.Replace(summary.New(s.env))
}

func (s *SessionScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	// Error state: any key goes back.
	if s.errMsg != "" {
		return s, router.Pop
	}
	if s.ctrl == nil || s.ended {
		return s, nil
	}

	if s.showingQuitConfirm {
		switch key {
		case "y", "Y":
			s.showingQuitConfirm = false
			return s, func() tea.Msg { return sessionEndMsg{} }
		case "n", "N":
			s.showingQuitConfirm = false
		}
		return s, nil
	}

	// Feedback: any key moves on, unless a break has just been triggered.
	if s.feedback != nil {
		s.feedback = nil
		if s.ctrl.BreakRequired() {
			return s, nil
		}
		return s, s.nextQuestion()
	}

	if s.ctrl.BreakRequired() {
		switch key {
		case "s", "S", "enter":
			s.ctrl.SkipBreak(context.Background())
			return s, s.nextQuestion()
		}
		return s, nil
	}

	if s.answering {
		return s, nil
	}
	var cmd tea.Cmd
	s.choice, cmd = s.choice.Update(msg)
	s.answering = cmd != nil
	return s, cmd
}

// submitAnswer scores the chosen option and shows feedback.
func (s *SessionScreen) submitAnswer(selected int) (screen.Screen, tea.Cmd) {
	s.answering = false
	if s.ctrl == nil {
		return s, nil
	}
	fb, err := s.ctrl.Submit(context.Background(), selected)
	if err != nil {
		// Stale submissions after a break or an answer are dropped.
		if errors.Is(err, sess.ErrAlreadyAnswered) || errors.Is(err, sess.ErrBreakActive) || errors.Is(err, sess.ErrNoQuestion) {
			return s, nil
		}
		if errors.Is(err, sess.ErrSessionComplete) {
			return s, func() tea.Msg { return sessionEndMsg{} }
		}
		s.errMsg = err.Error()
		return s, nil
	}
	s.choice.Reveal(fb.Question.Correct, selected)
	s.feedback = &fb
	return s, nil
}

// tickCmd returns a 1-second tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
