package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/quizwiz/quizwiz/internal/ui/theme"
)

// MultiChoice is a four-option selector for quiz questions. After
// submission it repaints to show the correct option in green and a
// wrong pick in red.
type MultiChoice struct {
	Question     string
	Options      []string
	CorrectIndex int
	Selected     int
	Submitted    bool
	ChosenIndex  int
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(question string, options []string, correctIndex int) MultiChoice {
	return MultiChoice{
		Question:     question,
		Options:      options,
		CorrectIndex: correctIndex,
		ChosenIndex:  -1,
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation and selection. Input is ignored
// once an answer is submitted.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "a", "b", "c", "d":
		m.Selected = int(kmsg.String()[0] - 'a')
	case "enter":
		m.Submitted = true
		m.ChosenIndex = m.Selected
	}

	return m, nil
}

// View renders the question and its options.
func (m MultiChoice) View() string {
	s := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(m.Question) + "\n\n"
	for i, opt := range m.Options {
		s += m.renderOption(i, opt) + "\n"
	}
	return s
}

func (m MultiChoice) renderOption(i int, opt string) string {
	prefix := "  "
	if i == m.Selected && !m.Submitted {
		prefix = "▸ "
	}
	line := fmt.Sprintf("%s%c)  %s", prefix, 'A'+i, opt)

	if m.Submitted {
		switch {
		case i == m.CorrectIndex:
			return theme.Correct.Render(line)
		case i == m.ChosenIndex:
			return theme.Incorrect.Render(line)
		default:
			return lipgloss.NewStyle().Foreground(theme.TextDim).Render(line)
		}
	}
	if i == m.Selected {
		return theme.Selected.Render(line)
	}
	return theme.Unselected.Render(line)
}

// IsCorrect returns true if the user chose the correct answer.
func (m MultiChoice) IsCorrect() bool {
	return m.Submitted && m.ChosenIndex == m.CorrectIndex
}
