package setup

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/quizwiz/quizwiz/internal/quiz"
	"github.com/quizwiz/quizwiz/internal/router"
	"github.com/quizwiz/quizwiz/internal/screen"
	"github.com/quizwiz/quizwiz/internal/screens/quizplay"
	"github.com/quizwiz/quizwiz/internal/ui/components"
	"github.com/quizwiz/quizwiz/internal/ui/layout"
	"github.com/quizwiz/quizwiz/internal/ui/theme"
)

// step is the current form field.
type step int

const (
	stepName step = iota
	stepGrade
	stepBoard
	stepTopic
	stepCount
	stepMix
)

const defaultCount = 10

// mixPreset is a named difficulty breakdown offered on the form.
type mixPreset struct {
	label string
	mix   quiz.Mix
}

var mixPresets = []mixPreset{
	{"Balanced (30% easy, 40% medium, 30% hard)", quiz.DefaultMix()},
	{"Warm-up (50% easy, 30% medium, 20% hard)", quiz.Mix{quiz.Easy: 50, quiz.Medium: 30, quiz.Hard: 20}},
	{"Challenge (20% easy, 30% medium, 50% hard)", quiz.Mix{quiz.Easy: 20, quiz.Medium: 30, quiz.Hard: 50}},
}

// SetupScreen walks through the quiz configuration one field at a time.
type SetupScreen struct {
	deps quizplay.Deps

	step  step
	input components.TextInput
	menu  components.Menu

	user  string
	grade int
	board quiz.Board
	topic string
	count int

	errMsg string
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)

// New creates the setup form. defaultUser prefills the name field so a
// returning player keeps their question history.
func New(deps quizplay.Deps, defaultUser string) *SetupScreen {
	s := &SetupScreen{deps: deps, user: defaultUser}
	s.input = components.NewTextInput("Your name (blank to skip history)", false, 40)
	s.input.Model.SetValue(defaultUser)
	return s
}

func (s *SetupScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *SetupScreen) Title() string {
	return "New Quiz"
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	if s.step == stepBoard || s.step == stepMix {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Next"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, isKey := msg.(tea.KeyMsg)

	switch s.step {
	case stepBoard, stepMix:
		if !isKey {
			return s, nil
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(kmsg)
		return s, cmd
	}

	if isKey && kmsg.String() == "enter" {
		return s, s.advance()
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// advance validates the current text field and moves to the next step.
func (s *SetupScreen) advance() tea.Cmd {
	switch s.step {
	case stepName:
		s.user = strings.TrimSpace(s.input.Value())
		s.errMsg = ""
		s.step = stepGrade
		s.input = components.NewTextInput(fmt.Sprintf("%d-%d", quiz.MinGrade, quiz.MaxGrade), true, 2)
		return s.input.Init()

	case stepGrade:
		grade, err := s.input.NumericValue()
		if err != nil || grade < quiz.MinGrade || grade > quiz.MaxGrade {
			s.input.Submit(false)
			s.errMsg = fmt.Sprintf("Grade must be between %d and %d.", quiz.MinGrade, quiz.MaxGrade)
			return nil
		}
		s.grade = grade
		s.errMsg = ""
		s.step = stepBoard
		s.menu = s.boardMenu()
		return nil

	case stepTopic:
		topic := strings.TrimSpace(s.input.Value())
		if topic == "" {
			s.input.Submit(false)
			s.errMsg = "Topic is required."
			return nil
		}
		s.topic = topic
		s.errMsg = ""
		s.step = stepCount
		s.input = components.NewTextInput(fmt.Sprintf("default %d", defaultCount), true, 2)
		return s.input.Init()

	case stepCount:
		count := defaultCount
		if s.input.Value() != "" {
			n, err := s.input.NumericValue()
			if err != nil || n <= 0 {
				s.input.Submit(false)
				s.errMsg = "Count must be a positive number."
				return nil
			}
			count = n
		}
		s.count = count
		s.errMsg = ""
		s.step = stepMix
		s.menu = s.mixMenu()
		return nil
	}
	return nil
}

func (s *SetupScreen) boardMenu() components.Menu {
	items := make([]components.MenuItem, 0, len(quiz.Boards))
	for _, board := range quiz.Boards {
		board := board
		items = append(items, components.MenuItem{
			Label: string(board),
			Action: func() tea.Cmd {
				s.board = board
				s.step = stepTopic
				s.input = components.NewTextInput("e.g. fractions, algebra, geometry", false, 60)
				return s.input.Init()
			},
		})
	}
	return components.NewMenu(items)
}

func (s *SetupScreen) mixMenu() components.Menu {
	items := make([]components.MenuItem, 0, len(mixPresets))
	for _, preset := range mixPresets {
		preset := preset
		items = append(items, components.MenuItem{
			Label:  preset.label,
			Action: func() tea.Cmd { return s.start(preset.mix) },
		})
	}
	return components.NewMenu(items)
}

// start hands off to the quiz screen with the assembled request.
func (s *SetupScreen) start(mix quiz.Mix) tea.Cmd {
	req := quiz.SupplyRequest{
		Scope: quiz.Scope{
			Grade: s.grade,
			Board: s.board,
			Topic: s.topic,
		},
		Count: s.count,
		Mix:   mix,
		User:  s.user,
	}

	deps, user := s.deps, s.user
	setupFactory := func() screen.Screen {
		return New(deps, user)
	}
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: quizplay.New(deps, req, setupFactory)}
	}
}

func (s *SetupScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centered(width, theme.Title.Render("Set up your quiz")))
	b.WriteString("\n\n")

	b.WriteString(s.renderCompleted())

	label := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	switch s.step {
	case stepName:
		b.WriteString(label.Render("  Who is playing?") + "\n\n  " + s.input.View())
	case stepGrade:
		b.WriteString(label.Render("  Which grade?") + "\n\n  " + s.input.View())
	case stepBoard:
		b.WriteString(label.Render("  Which board?") + "\n\n" + s.menu.View())
	case stepTopic:
		b.WriteString(label.Render("  What topic?") + "\n\n  " + s.input.View())
	case stepCount:
		b.WriteString(label.Render("  How many questions?") + "\n\n  " + s.input.View())
	case stepMix:
		b.WriteString(label.Render("  How hard should it be?") + "\n\n" + s.menu.View())
	}

	if s.errMsg != "" {
		b.WriteString("\n\n  " + theme.Incorrect.Render(s.errMsg))
	}
	return b.String()
}

// renderCompleted lists the fields already filled in.
func (s *SetupScreen) renderCompleted() string {
	var lines []string
	if s.step > stepName && s.user != "" {
		lines = append(lines, fmt.Sprintf("  Player: %s", s.user))
	}
	if s.step > stepGrade {
		lines = append(lines, fmt.Sprintf("  Grade:  %d", s.grade))
	}
	if s.step > stepBoard {
		lines = append(lines, fmt.Sprintf("  Board:  %s", s.board))
	}
	if s.step > stepTopic {
		lines = append(lines, fmt.Sprintf("  Topic:  %s", s.topic))
	}
	if s.step > stepCount {
		lines = append(lines, fmt.Sprintf("  Count:  %d", s.count))
	}
	if len(lines) == 0 {
		return ""
	}
	return theme.Hint.Render(strings.Join(lines, "\n")) + "\n\n"
}

func centered(width int, text string) string {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(text)
}
