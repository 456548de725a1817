package quizplay

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/quizwiz/quizwiz/internal/coach"
	"github.com/quizwiz/quizwiz/internal/ui/components"
	"github.com/quizwiz/quizwiz/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, s.errMsg)
	}

	switch s.phase {
	case phaseLoading:
		return s.renderLoading(width)
	case phaseCoaching:
		return s.renderCoaching(width)
	case phaseVerifying:
		return s.renderCentered(width, s.spinnerFrame()+" Checking your report...")
	case phaseReportDone:
		return s.renderQuestionCard(width) + "\n" +
			centered(width, theme.Hint.Render(s.reportNote))
	case phaseReporting:
		return s.renderQuestionCard(width) + "\n" +
			centered(width, theme.Subtitle.Render("What is wrong with this question?")) +
			"\n\n" + s.menu.View()
	case phaseFeedback:
		return s.renderFeedback(width)
	}

	return s.renderQuestion(width)
}

func (s *QuizScreen) renderLoading(width int) string {
	lines := []string{
		s.spinnerFrame() + " Preparing your quiz on " + s.req.Topic + "...",
		"",
		theme.Hint.Render("New questions may take a few seconds to write."),
	}
	var b strings.Builder
	b.WriteString("\n\n")
	for _, l := range lines {
		b.WriteString(centered(width, l))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *QuizScreen) renderQuestion(width int) string {
	done := float64(s.session.Index) / float64(len(s.session.Questions))
	bar := components.NewProgressBar("", done, false, min(width-8, 40))

	var b strings.Builder
	b.WriteString(s.renderProgressLine(width))
	b.WriteString("\n  ")
	b.WriteString(bar.View())
	b.WriteString("\n\n")
	b.WriteString(s.choice.View())

	if s.degraded != "" {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("  " + s.degraded))
	}
	return b.String()
}

func (s *QuizScreen) renderFeedback(width int) string {
	var b strings.Builder
	b.WriteString(s.renderQuestionCard(width))
	b.WriteString("\n")

	result := s.session.Results[s.session.Index]
	if result.Correct {
		q := s.session.Questions[s.session.Index]
		b.WriteString(centered(width, theme.Correct.Render(fmt.Sprintf("Correct!  +%d points", q.Difficulty.Points()))))
	} else {
		b.WriteString(centered(width, theme.Incorrect.Render("Not quite.")))
	}
	b.WriteString("\n\n")
	b.WriteString(s.menu.View())
	return b.String()
}

// renderQuestionCard shows the answered question with its color-coded
// options, shared by the feedback and reporting views.
func (s *QuizScreen) renderQuestionCard(width int) string {
	return s.renderProgressLine(width) + "\n\n" + s.choice.View()
}

func (s *QuizScreen) renderProgressLine(width int) string {
	q := s.session.Questions[s.session.Index]

	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Question %d/%d", s.session.Index+1, len(s.session.Questions)))
	badge := theme.DifficultyStyle(string(q.Difficulty)).Render(string(q.Difficulty))

	pad := width - lipgloss.Width(left) - lipgloss.Width(badge) - 4
	if pad < 1 {
		pad = 1
	}
	line := left + strings.Repeat(" ", pad) + badge
	rule := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0)))
	return line + "\n" + rule
}

func (s *QuizScreen) renderCoaching(width int) string {
	var b strings.Builder
	b.WriteString(centered(width, theme.Title.Render("Coach")))
	b.WriteString("\n\n")

	coachStyle := lipgloss.NewStyle().Foreground(theme.Secondary)
	studentStyle := lipgloss.NewStyle().Foreground(theme.Text)
	wrap := lipgloss.NewStyle().Width(max(width-8, 20))

	for _, turn := range s.transcript {
		if turn.Role == coach.RoleCoach {
			b.WriteString(coachStyle.Render("  Coach: "))
		} else {
			b.WriteString(studentStyle.Render("  You:   "))
		}
		b.WriteString(wrap.Render(turn.Content))
		b.WriteString("\n\n")
	}

	if s.coachWaiting {
		b.WriteString("  " + s.spinnerFrame() + " thinking...\n\n")
	}
	if s.coachErr != "" {
		b.WriteString("  " + theme.Incorrect.Render(s.coachErr) + "\n\n")
	}

	b.WriteString("  " + s.coachInput.View())
	return b.String()
}

func (s *QuizScreen) renderCentered(width int, text string) string {
	return "\n\n" + centered(width, text)
}

func (s *QuizScreen) spinnerFrame() string {
	return theme.Selected.Render(spinnerFrames[s.spinner%len(spinnerFrames)])
}

func renderError(width int, msg string) string {
	return "\n\n" + centered(width, theme.Incorrect.Render("Something went wrong")) +
		"\n" + centered(width, theme.Hint.Render(msg))
}

func centered(width int, text string) string {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(text)
}
