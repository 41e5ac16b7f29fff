package session

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/skillbit/skillbit/internal/breaks"
	"github.com/skillbit/skillbit/internal/diagnostic"
	"github.com/skillbit/skillbit/internal/lectures"
	"github.com/skillbit/skillbit/internal/questionbank"
	"github.com/skillbit/skillbit/internal/router"
	"github.com/skillbit/skillbit/internal/screen"
	sess "github.com/skillbit/skillbit/internal/session"
)

type memProgress struct{ ids []string }

func (m *memProgress) LoadLectureProgress(context.Context) ([]string, error) { return m.ids, nil }
func (m *memProgress) SaveLectureProgress(_ context.Context, ids []string) error {
	m.ids = ids
	return nil
}

type memResults struct {
	diag *diagnostic.Result
}

func (m *memResults) SaveDiagnosticResult(_ context.Context, r diagnostic.Result) error {
	m.diag = &r
	return nil
}
func (m *memResults) DiagnosticResult(context.Context) (*diagnostic.Result, error) { return m.diag, nil }
func (m *memResults) SessionResult(context.Context) (*sess.Result, error)          { return nil, nil }
func (m *memResults) Clear(context.Context) error                                   { return nil }

// mockSink implements sess.Sink for testing.
type mockSink struct {
	results []sess.Result
	answers []questionbank.AnswerEvent
	events  []sess.Event
}

func (m *mockSink) SaveSessionResult(_ context.Context, r sess.Result) error {
	m.results = append(m.results, r)
	return nil
}
func (m *mockSink) AppendAnswer(_ context.Context, _ string, ev questionbank.AnswerEvent) error {
	m.answers = append(m.answers, ev)
	return nil
}
func (m *mockSink) AppendSessionEvent(_ context.Context, ev sess.Event) error {
	m.events = append(m.events, ev)
	return nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func testEnv(watched []string, diag *diagnostic.Result) (*screen.Env, *mockSink) {
	sink := &mockSink{}
	return &screen.Env{
		Catalog:  questionbank.Builtin(),
		Lectures: lectures.NewTracker(&memProgress{ids: watched}),
		Results:  &memResults{diag: diag},
		Sink:     sink,
		Break:    breaks.Policy{Duration: 2 * time.Second, Relief: 30},
	}, sink
}

func allLectures() []string {
	return []string{"1", "2", "3", "4"}
}

// startSession runs Init without executing the tick command.
func startSession(t *testing.T, env *screen.Env) *SessionScreen {
	t.Helper()
	s := New(env)
	s.Update(s.Init()())
	if s.ctrl == nil {
		t.Fatalf("session did not start: %q", s.errMsg)
	}
	return s
}

// answer picks the correct or a wrong option for the current question.
func answer(t *testing.T, s *SessionScreen, correct bool) sess.Feedback {
	t.Helper()
	q, ok := s.ctrl.Current()
	if !ok {
		t.Fatal("no question presented")
	}
	choice := q.Correct
	if !correct {
		choice = (q.Correct + 1) % len(q.Options)
	}
	_, cmd := s.Update(keyPress(rune('1' + choice)))
	if cmd == nil {
		t.Fatal("expected choice command")
	}
	s.Update(cmd())
	if s.feedback == nil {
		t.Fatal("expected feedback after answering")
	}
	return *s.feedback
}

func TestSessionScreen_RedirectsToLectures(t *testing.T) {
	env, _ := testEnv([]string{"1"}, &diagnostic.Result{Score: 80})
	s := New(env)
	_, cmd := s.Update(s.Init()())
	if cmd == nil {
		t.Fatal("expected redirect command")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", msg)
	}
	if msg.Screen.Title() != "Lectures" {
		t.Errorf("redirect Title = %q, want Lectures", msg.Screen.Title())
	}
}

func TestSessionScreen_RedirectsToDiagnostic(t *testing.T) {
	env, _ := testEnv(allLectures(), nil)
	s := New(env)
	_, cmd := s.Update(s.Init()())
	if cmd == nil {
		t.Fatal("expected redirect command")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", msg)
	}
	if msg.Screen.Title() != "Diagnostic" {
		t.Errorf("redirect Title = %q, want Diagnostic", msg.Screen.Title())
	}
}

func TestSessionScreen_StartsFromDiagnostic(t *testing.T) {
	env, sink := testEnv(allLectures(), &diagnostic.Result{Score: 80})
	s := startSession(t, env)

	st := s.ctrl.State()
	if st.Competence != 90 {
		t.Errorf("Competence = %d, want 90", st.Competence)
	}
	if st.Difficulty != questionbank.Medium {
		t.Errorf("Difficulty = %s, want medium", st.Difficulty)
	}
	if len(sink.events) != 1 || sink.events[0].Action != sess.ActionStart {
		t.Errorf("events = %+v, want a single start event", sink.events)
	}
	if !strings.Contains(s.View(100, 30), "[Medium]") {
		t.Error("expected tier badge in question view")
	}
}

func TestSessionScreen_AnswerAndContinue(t *testing.T) {
	env, sink := testEnv(allLectures(), &diagnostic.Result{Score: 50})
	s := startSession(t, env)

	fb := answer(t, s, true)
	if fb.Update.Competence != 68 {
		t.Errorf("Competence = %d, want 68", fb.Update.Competence)
	}
	if view := s.View(100, 40); !strings.Contains(view, "Correct!") {
		t.Error("expected Correct! in feedback view")
	}
	if len(sink.answers) != 1 {
		t.Errorf("answers persisted = %d, want 1", len(sink.answers))
	}

	// A second key press before dismissal must not answer again.
	s.Update(keyPress(' '))
	if s.feedback != nil {
		t.Fatal("expected feedback to be dismissed")
	}
	if _, ok := s.ctrl.Current(); !ok {
		t.Fatal("expected next question after dismissing feedback")
	}

	fb = answer(t, s, false)
	if !strings.Contains(s.View(100, 40), "Not quite") {
		t.Error("expected Not quite in feedback view")
	}
	if fb.Update.Rule != sess.RuleIncorrect {
		t.Errorf("Rule = %s, want incorrect", fb.Update.Rule)
	}
}

func TestSessionScreen_QuestionCapEndsSession(t *testing.T) {
	env, sink := testEnv(allLectures(), &diagnostic.Result{Score: 50})
	env.MaxQuestions = 2
	s := startSession(t, env)

	answer(t, s, true)
	s.Update(keyPress(' '))
	answer(t, s, true)

	_, cmd := s.Update(keyPress(' '))
	if cmd == nil {
		t.Fatal("expected session end after the cap")
	}
	_, cmd = s.Update(cmd())
	if cmd == nil {
		t.Fatal("expected navigation to results")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok || msg.Screen.Title() != "Results" {
		t.Fatalf("expected results screen, got %+v", msg)
	}
	if len(sink.results) != 1 || sink.results[0].QuestionsAnswered != 2 {
		t.Errorf("results = %+v, want one result with 2 answers", sink.results)
	}
}

func TestSessionScreen_QuitConfirm(t *testing.T) {
	env, sink := testEnv(allLectures(), &diagnostic.Result{Score: 50})
	s := startSession(t, env)

	if !s.InterceptBack() {
		t.Fatal("expected Esc to be intercepted during a session")
	}
	if !strings.Contains(s.View(100, 30), "End session early?") {
		t.Error("expected quit confirmation")
	}

	// N keeps going.
	s.Update(keyPress('n'))
	if s.showingQuitConfirm {
		t.Fatal("expected confirmation to close")
	}

	s.InterceptBack()
	_, cmd := s.Update(keyPress('y'))
	if cmd == nil {
		t.Fatal("expected end command")
	}
	_, cmd = s.Update(cmd())
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Error("expected ReplaceScreenMsg to results")
	}
	if len(sink.results) != 1 || sink.results[0].QuestionsAnswered != 0 {
		t.Errorf("results = %+v, want one empty result", sink.results)
	}
	if s.InterceptBack() {
		t.Error("expected Esc to pass through after the session ended")
	}
}

// tireOut answers wrong until a break is triggered.
func tireOut(t *testing.T, s *SessionScreen) {
	t.Helper()
	for range 20 {
		fb := answer(t, s, false)
		s.Update(keyPress(' '))
		if fb.BreakRequired {
			return
		}
	}
	t.Fatal("break never triggered")
}

func TestSessionScreen_BreakCountdown(t *testing.T) {
	env, sink := testEnv(allLectures(), &diagnostic.Result{Score: 90})
	s := startSession(t, env)
	tireOut(t, s)

	if !s.ctrl.BreakRequired() {
		t.Fatal("expected break overlay")
	}
	if !strings.Contains(s.View(100, 30), "Time for a Break") {
		t.Error("expected break overlay in view")
	}
	before := s.ctrl.State().Fatigue

	// Answer keys are ignored during a break.
	s.Update(keyPress('1'))
	if !s.ctrl.BreakRequired() {
		t.Fatal("answer key must not end the break")
	}

	s.Update(timerTickMsg(time.Now()))
	if !s.ctrl.BreakRequired() {
		t.Fatal("break ended early")
	}
	s.Update(timerTickMsg(time.Now()))
	if s.ctrl.BreakRequired() {
		t.Fatal("expected break to complete after its duration")
	}
	if got := s.ctrl.State().Fatigue; got != before-30 {
		t.Errorf("Fatigue = %d, want %d", got, before-30)
	}

	var completed bool
	for _, ev := range sink.events {
		if ev.Action == sess.ActionBreakComplete {
			completed = true
		}
	}
	if !completed {
		t.Error("expected break_complete event")
	}
}

func TestSessionScreen_SkipBreak(t *testing.T) {
	env, _ := testEnv(allLectures(), &diagnostic.Result{Score: 90})
	s := startSession(t, env)
	tireOut(t, s)

	before := s.ctrl.State().Fatigue
	s.Update(keyPress('s'))
	if s.ctrl.BreakRequired() {
		t.Fatal("expected S to skip the break")
	}
	if got := s.ctrl.State().Fatigue; got != before-30 {
		t.Errorf("Fatigue = %d, want %d", got, before-30)
	}
}
