package app

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillbit/skillbit/internal/learner"
	"github.com/skillbit/skillbit/internal/router"
	"github.com/skillbit/skillbit/internal/screen"
	"github.com/skillbit/skillbit/internal/ui/layout"
)

// stubScreen is a minimal screen that can intercept Esc.
type stubScreen struct {
	title     string
	intercept bool
	escSeen   int
}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title + " body" }
func (s *stubScreen) Title() string                           { return s.title }
func (s *stubScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "X", Description: "Stub action"}}
}
func (s *stubScreen) InterceptBack() bool {
	s.escSeen++
	return s.intercept
}

func newTestModel(screens ...screen.Screen) AppModel {
	r := router.New(screens[0])
	for _, s := range screens[1:] {
		r.Push(s)
	}
	return AppModel{
		env:    &screen.Env{Learner: &learner.Learner{Name: "Ada"}},
		router: r,
		width:  100,
		height: 30,
	}
}

func esc() tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: tea.KeyEscape}
}

func TestEscPopsWhenNotIntercepted(t *testing.T) {
	top := &stubScreen{title: "Top"}
	m := newTestModel(&stubScreen{title: "Root"}, top)

	_, cmd := m.Update(esc())
	require.NotNil(t, cmd)
	assert.IsType(t, router.PopScreenMsg{}, cmd())
	assert.Equal(t, 1, top.escSeen)
}

func TestEscInterceptedByScreen(t *testing.T) {
	top := &stubScreen{title: "Practice", intercept: true}
	m := newTestModel(&stubScreen{title: "Root"}, top)

	_, cmd := m.Update(esc())
	assert.Nil(t, cmd)
	assert.Equal(t, 2, m.router.Depth())
}

func TestEscAtRootDoesNothing(t *testing.T) {
	m := newTestModel(&stubScreen{title: "Root"})
	_, cmd := m.Update(esc())
	assert.Nil(t, cmd)
}

func TestViewUsesScreenHintsAndLearner(t *testing.T) {
	m := newTestModel(&stubScreen{title: "Root"}, &stubScreen{title: "Lectures"})
	content := m.render()

	assert.True(t, strings.Contains(content, "Stub action"))
	assert.True(t, strings.Contains(content, "Lectures"))
	assert.True(t, strings.Contains(content, "Ada"))
}

func TestViewTooSmall(t *testing.T) {
	m := newTestModel(&stubScreen{title: "Root"})
	m.width, m.height = 40, 10
	assert.NotContains(t, m.render(), "Root body")
}
