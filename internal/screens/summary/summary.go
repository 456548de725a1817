package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/quizwiz/quizwiz/internal/router"
	"github.com/quizwiz/quizwiz/internal/screen"
	"github.com/quizwiz/quizwiz/internal/session"
	"github.com/quizwiz/quizwiz/internal/ui/components"
	"github.com/quizwiz/quizwiz/internal/ui/layout"
	"github.com/quizwiz/quizwiz/internal/ui/theme"
)

// SummaryScreen shows the finished quiz totals and offers a replay.
type SummaryScreen struct {
	summary session.Summary
	menu    components.Menu
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a summary screen. replay refetches the same topic;
// setupFactory returns to the configuration form.
func New(sum session.Summary, replay func() screen.Screen, setupFactory func() screen.Screen) *SummaryScreen {
	menu := components.NewMenu([]components.MenuItem{
		{Label: "Same topic again", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.ReplaceScreenMsg{Screen: replay()}
			}
		}},
		{Label: "New quiz", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.ReplaceScreenMsg{Screen: setupFactory()}
			}
		}},
		{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	})
	return &SummaryScreen{summary: sum, menu: menu}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Results"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); !ok {
		return s, nil
	}
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centered(width, theme.Title.Render("Quiz complete!")))
	b.WriteString("\n\n")

	scoreLine := fmt.Sprintf("Score  %d / %d", sum.Score, sum.MaxScore)
	b.WriteString(centered(width, lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(scoreLine)))
	b.WriteString("\n\n")

	counted := sum.TotalCount - sum.Excluded
	b.WriteString(centered(width, theme.Body.Render(
		fmt.Sprintf("%d of %d questions correct", sum.Correct, counted))))
	b.WriteString("\n")

	if sum.Excluded > 0 {
		noun := "questions"
		if sum.Excluded == 1 {
			noun = "question"
		}
		b.WriteString(centered(width, theme.Hint.Render(
			fmt.Sprintf("%d flawed %s removed from scoring", sum.Excluded, noun))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(s.menu.View())
	return b.String()
}

func centered(width int, text string) string {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(text)
}
