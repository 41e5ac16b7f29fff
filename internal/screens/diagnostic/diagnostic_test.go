package diagnostic

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	diag "github.com/skillbit/skillbit/internal/diagnostic"
	"github.com/skillbit/skillbit/internal/lectures"
	"github.com/skillbit/skillbit/internal/questionbank"
	"github.com/skillbit/skillbit/internal/router"
	"github.com/skillbit/skillbit/internal/screen"
	"github.com/skillbit/skillbit/internal/session"
)

type memProgress struct{ ids []string }

func (m *memProgress) LoadLectureProgress(context.Context) ([]string, error) { return m.ids, nil }
func (m *memProgress) SaveLectureProgress(_ context.Context, ids []string) error {
	m.ids = ids
	return nil
}

type memResults struct {
	diag *diag.Result
}

func (m *memResults) SaveDiagnosticResult(_ context.Context, r diag.Result) error {
	m.diag = &r
	return nil
}
func (m *memResults) DiagnosticResult(context.Context) (*diag.Result, error) { return m.diag, nil }
func (m *memResults) SessionResult(context.Context) (*session.Result, error) { return nil, nil }
func (m *memResults) Clear(context.Context) error {
	m.diag = nil
	return nil
}

func newEnv(watched ...string) (*screen.Env, *memResults) {
	results := &memResults{}
	return &screen.Env{
		Catalog:  questionbank.Builtin(),
		Lectures: lectures.NewTracker(&memProgress{ids: watched}),
		Results:  results,
	}, results
}

// press delivers k and drains the resulting commands.
func press(s *Screen, k tea.KeyPressMsg) tea.Msg {
	_, cmd := s.Update(k)
	var last tea.Msg
	for cmd != nil {
		last = cmd()
		_, cmd = s.Update(last)
	}
	return last
}

func key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestRedirectsWhenLecturesIncomplete(t *testing.T) {
	env, _ := newEnv("1", "2")
	s := New(env)

	_, cmd := s.Update(s.Init()())
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "Lectures", msg.Screen.Title())
	assert.Contains(t, msg.Screen.View(100, 30), LecturesNotice)
}

func TestPerfectScore(t *testing.T) {
	env, results := newEnv("1", "2", "3", "4")
	s := New(env)
	s.Update(s.Init()())
	require.NotNil(t, s.eval)

	for _, q := range env.Catalog.Diagnostic.All() {
		assert.Contains(t, s.View(100, 30), q.Prompt)
		press(s, key(rune('1'+q.Correct)))
	}

	require.NotNil(t, s.result)
	assert.Equal(t, 100, s.result.Score)
	require.NotNil(t, results.diag)
	assert.Equal(t, 100, results.diag.Score)

	view := s.View(100, 30)
	assert.Contains(t, view, "100%")
	assert.Contains(t, view, diag.ScoreMessage(100))

	assert.IsType(t, router.PopScreenMsg{}, press(s, tea.KeyPressMsg{Code: tea.KeyEnter}))
}

func TestWrongAnswersScoreZero(t *testing.T) {
	env, results := newEnv("1", "2", "3", "4")
	s := New(env)
	s.Update(s.Init()())

	for _, q := range env.Catalog.Diagnostic.All() {
		wrong := (q.Correct + 1) % len(q.Options)
		press(s, key(rune('1'+wrong)))
	}

	require.NotNil(t, results.diag)
	assert.Equal(t, 0, results.diag.Score)
	assert.Contains(t, s.View(100, 30), diag.Recommendation(0))
}

func TestIgnoresKeysWhileAnswering(t *testing.T) {
	env, _ := newEnv("1", "2", "3", "4")
	s := New(env)
	s.Update(s.Init()())

	_, cmd := s.Update(key('1'))
	require.NotNil(t, cmd)
	_, again := s.Update(key('2'))
	assert.Nil(t, again)

	s.Update(cmd())
	answered, _ := s.eval.Progress()
	assert.Equal(t, 1, answered)
}
