package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/skillbit/skillbit/internal/ui/theme"
)

var optionLabels = []string{"A", "B", "C", "D", "E", "F"}

// ChoiceSubmittedMsg is emitted when the learner commits to an option.
type ChoiceSubmittedMsg struct {
	Index int
}

// Choice is a multiple-choice selector. Options can be picked with the
// arrows and Enter or directly with 1-9 / a-f. Reveal locks the widget
// and colors the correct and chosen options.
type Choice struct {
	Prompt   string
	Options  []string
	Selected int

	revealed bool
	correct  int
	chosen   int
}

// NewChoice creates a selector for one question.
func NewChoice(prompt string, options []string) Choice {
	return Choice{Prompt: prompt, Options: options, chosen: -1}
}

// Update handles keyboard navigation and selection.
func (c Choice) Update(msg tea.Msg) (Choice, tea.Cmd) {
	if c.revealed {
		return c, nil
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return c, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if c.Selected > 0 {
			c.Selected--
		}
		return c, nil
	case "down", "j":
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
		return c, nil
	case "enter":
		return c, c.submit(c.Selected)
	}

	if len(key) == 1 {
		switch k := key[0]; {
		case k >= '1' && k <= '9':
			if i := int(k - '1'); i < len(c.Options) {
				c.Selected = i
				return c, c.submit(i)
			}
		case k >= 'a' && k <= 'f':
			if i := int(k - 'a'); i < len(c.Options) {
				c.Selected = i
				return c, c.submit(i)
			}
		}
	}
	return c, nil
}

func (c Choice) submit(i int) tea.Cmd {
	return func() tea.Msg { return ChoiceSubmittedMsg{Index: i} }
}

// Reveal locks the selector and marks the correct and chosen options.
func (c *Choice) Reveal(correct, chosen int) {
	c.revealed = true
	c.correct = correct
	c.chosen = chosen
}

// Revealed reports whether Reveal has been called.
func (c Choice) Revealed() bool { return c.revealed }

// View renders the prompt and the options.
func (c Choice) View(width int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Foreground(theme.Text).
		Bold(true).
		Render(c.Prompt))
	b.WriteString("\n\n")

	for i, opt := range c.Options {
		label := "?"
		if i < len(optionLabels) {
			label = optionLabels[i]
		}
		prefix := "  "
		if i == c.Selected && !c.revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, label, opt)

		switch {
		case !c.revealed && i == c.Selected:
			line = theme.Selected.Render(line)
		case !c.revealed:
			line = theme.Unselected.Render(line)
		case i == c.correct:
			line = theme.Correct.Render(line + "  ✓")
		case i == c.chosen:
			line = theme.Incorrect.Render(line + "  ✗")
		default:
			line = theme.Disabled.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
