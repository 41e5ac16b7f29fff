package components

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(s string) tea.KeyPressMsg {
	switch s {
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func TestMenuSkipsDisabled(t *testing.T) {
	var picked string
	pick := func(name string) func() tea.Cmd {
		return func() tea.Cmd {
			picked = name
			return nil
		}
	}
	m := NewMenu([]MenuItem{
		{Label: "Locked", Disabled: true},
		{Label: "Lectures", Action: pick("lectures")},
		{Label: "Practice", Disabled: true, Note: "locked"},
		{Label: "Quit", Action: pick("quit")},
	})
	assert.Equal(t, 1, m.Selected)

	m, _ = m.Update(key("down"))
	assert.Equal(t, 3, m.Selected)
	m, _ = m.Update(key("down"))
	assert.Equal(t, 3, m.Selected)

	m, _ = m.Update(key("enter"))
	assert.Equal(t, "quit", picked)

	m, _ = m.Update(key("up"))
	assert.Equal(t, 1, m.Selected)
	m, _ = m.Update(key("up"))
	assert.Equal(t, 1, m.Selected)

	assert.Contains(t, m.View(), "locked")
}

func TestChoiceSubmitByKey(t *testing.T) {
	c := NewChoice("2 + 2?", []string{"3", "4", "5", "6"})

	c, cmd := c.Update(key("down"))
	assert.Nil(t, cmd)
	assert.Equal(t, 1, c.Selected)

	_, cmd = c.Update(key("enter"))
	require.NotNil(t, cmd)
	assert.Equal(t, ChoiceSubmittedMsg{Index: 1}, cmd())

	_, cmd = c.Update(key("3"))
	require.NotNil(t, cmd)
	assert.Equal(t, ChoiceSubmittedMsg{Index: 2}, cmd())

	_, cmd = c.Update(key("d"))
	require.NotNil(t, cmd)
	assert.Equal(t, ChoiceSubmittedMsg{Index: 3}, cmd())

	_, cmd = c.Update(key("9"))
	assert.Nil(t, cmd)
}

func TestChoiceRevealLocks(t *testing.T) {
	c := NewChoice("2 + 2?", []string{"3", "4"})
	c.Reveal(1, 0)
	assert.True(t, c.Revealed())

	_, cmd := c.Update(key("enter"))
	assert.Nil(t, cmd)

	view := c.View(40)
	assert.Contains(t, view, "✓")
	assert.Contains(t, view, "✗")
}

func TestProgressBarClamps(t *testing.T) {
	full := NewProgressBar("", 1.5, 20).View()
	empty := NewProgressBar("", -1, 20).View()
	assert.Contains(t, full, "100%")
	assert.Contains(t, empty, " 0%")
	assert.Contains(t, Meter("Fatigue", 42, 30, nil), " 42")
}

func TestContentWidth(t *testing.T) {
	assert.Equal(t, 20, ContentWidth(10))
	assert.Equal(t, 54, ContentWidth(60))
	assert.Equal(t, 72, ContentWidth(200))
}
