package quizplay

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/quizwiz/quizwiz/internal/coach"
	"github.com/quizwiz/quizwiz/internal/quiz"
	"github.com/quizwiz/quizwiz/internal/report"
	"github.com/quizwiz/quizwiz/internal/router"
	"github.com/quizwiz/quizwiz/internal/screen"
	"github.com/quizwiz/quizwiz/internal/screens/summary"
	sess "github.com/quizwiz/quizwiz/internal/session"
	"github.com/quizwiz/quizwiz/internal/supply"
	"github.com/quizwiz/quizwiz/internal/ui/components"
	"github.com/quizwiz/quizwiz/internal/ui/layout"
)

const spinnerInterval = 100 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// phase tracks where in the question loop the screen is.
type phase int

const (
	phaseLoading phase = iota
	phaseQuestion
	phaseFeedback
	phaseCoaching
	phaseReporting
	phaseVerifying
	phaseReportDone
)

// Deps holds the services a quiz run needs. Coach and Reports may be
// nil when no LLM provider is configured; the matching menu entries
// are disabled rather than failing at use time.
type Deps struct {
	Supply  *supply.Service
	Coach   *coach.Coach
	Reports *report.Workflow
}

// QuizScreen runs one quiz attempt from fetch to summary.
type QuizScreen struct {
	deps         Deps
	req          quiz.SupplyRequest
	setupFactory func() screen.Screen

	phase   phase
	session *sess.Session
	choice  components.MultiChoice
	menu    components.Menu

	// degraded holds the supply warning when the quiz runs short.
	degraded string
	errMsg   string
	spinner  int

	// coaching state
	transcript   []coach.Turn
	coachInput   components.TextInput
	coachWaiting bool
	coachErr     string

	// reporting state
	reportNote string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.ScoreProvider = (*QuizScreen)(nil)

// New creates a quiz screen that fetches questions for req on Init.
// setupFactory rebuilds the setup screen for the summary's replay menu.
func New(deps Deps, req quiz.SupplyRequest, setupFactory func() screen.Screen) *QuizScreen {
	return &QuizScreen{
		deps:         deps,
		req:          req,
		setupFactory: setupFactory,
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	return tea.Batch(s.fetch(), spinnerTick())
}

func (s *QuizScreen) Title() string {
	return "Quiz"
}

// Score feeds the header's running score display.
func (s *QuizScreen) Score() (int, int) {
	if s.session == nil {
		return 0, 0
	}
	return s.session.Score(), s.session.MaxScore()
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseQuestion:
		return []layout.KeyHint{
			{Key: "↑↓/a-d", Description: "Choose"},
			{Key: "Enter", Description: "Lock in"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	case phaseCoaching:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Send"},
			{Key: "Esc", Description: "Back to quiz"},
		}
	case phaseReportDone:
		return []layout.KeyHint{
			{Key: "any key", Description: "Continue"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionsMsg:
		return s.handleQuestions(msg)

	case coachMsg:
		return s.handleCoachReply(msg)

	case reportMsg:
		return s.handleReportResult(msg)

	case spinnerTickMsg:
		if s.phase == phaseLoading || s.phase == phaseVerifying || s.coachWaiting {
			s.spinner++
			return s, spinnerTick()
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch s.phase {
	case phaseQuestion:
		var cmd tea.Cmd
		s.choice, cmd = s.choice.Update(msg)
		if s.choice.Submitted {
			return s, s.submitAnswer()
		}
		return s, cmd

	case phaseFeedback, phaseReporting:
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd

	case phaseCoaching:
		return s.handleCoachKey(msg)

	case phaseReportDone:
		s.phase = phaseFeedback
		s.menu = s.feedbackMenu()
		return s, nil
	}
	return s, nil
}

// fetch runs the supply cycle off the UI loop.
func (s *QuizScreen) fetch() tea.Cmd {
	return func() tea.Msg {
		questions, err := s.deps.Supply.Fetch(context.Background(), s.req)
		return questionsMsg{Questions: questions, Err: err}
	}
}

func (s *QuizScreen) handleQuestions(msg questionsMsg) (screen.Screen, tea.Cmd) {
	if len(msg.Questions) == 0 {
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.errMsg = "no questions available for this topic"
		}
		return s, nil
	}
	if msg.Err != nil {
		s.degraded = "Running short: " + msg.Err.Error()
	}

	s.session = sess.New(s.req.User, s.req.Scope, msg.Questions)

	// Questions are in the seen-set from this point on even if the
	// quiz is abandoned mid-way.
	_ = s.deps.Supply.RecordShown(s.req.User, s.req.Scope, msg.Questions)

	return s, s.presentCurrent()
}

// presentCurrent moves to the question phase for the session's current
// question, or replaces the screen with the summary when done.
func (s *QuizScreen) presentCurrent() tea.Cmd {
	q, ok := s.session.Current()
	if !ok {
		return s.finish()
	}
	s.phase = phaseQuestion
	s.choice = components.NewMultiChoice(q.Text, q.Options, q.Answer)
	return nil
}

func (s *QuizScreen) submitAnswer() tea.Cmd {
	if _, _, err := s.session.Answer(s.choice.ChosenIndex); err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.phase = phaseFeedback
	s.menu = s.feedbackMenu()
	return nil
}

func (s *QuizScreen) feedbackMenu() components.Menu {
	result := s.session.Results[s.session.Index]

	next := "Next question"
	if s.session.Index == len(s.session.Questions)-1 {
		next = "See results"
	}

	items := []components.MenuItem{
		{Label: next, Action: func() tea.Cmd {
			s.session.Advance()
			return s.presentCurrent()
		}},
	}

	if !result.Correct {
		items = append(items, components.MenuItem{
			Label:    "Talk it through with the coach",
			Disabled: s.deps.Coach == nil,
			Action:   func() tea.Cmd { return s.startCoaching() },
		})
	}

	items = append(items,
		components.MenuItem{
			Label:    "Report a problem with this question",
			Disabled: s.deps.Reports == nil || result.Reported,
			Action: func() tea.Cmd {
				s.phase = phaseReporting
				s.menu = s.reportMenu()
				return nil
			},
		},
		components.MenuItem{
			Label:  "End quiz",
			Action: func() tea.Cmd { return s.finish() },
		},
	)

	return components.NewMenu(items)
}

func (s *QuizScreen) finish() tea.Cmd {
	sum := s.session.Summarize()
	scr := summary.New(sum, s.replayFactory(), s.setupFactory)
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: scr}
	}
}

// replayFactory rebuilds this screen with the same request, so the
// summary's "same topic again" entry refetches fresh questions.
func (s *QuizScreen) replayFactory() func() screen.Screen {
	deps, req, setup := s.deps, s.req, s.setupFactory
	return func() screen.Screen {
		return New(deps, req, setup)
	}
}

func (s *QuizScreen) startCoaching() tea.Cmd {
	s.phase = phaseCoaching
	s.transcript = nil
	s.coachErr = ""
	s.coachWaiting = true
	s.coachInput = components.NewTextInput("Ask the coach...", false, 200)

	q, _ := s.session.Current()
	chosen := s.session.Results[s.session.Index].Chosen
	c := s.deps.Coach
	return tea.Batch(func() tea.Msg {
		reply, err := c.Start(context.Background(), q, chosen)
		return coachMsg{Reply: reply, Err: err}
	}, spinnerTick(), s.coachInput.Init())
}

func (s *QuizScreen) handleCoachKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.phase = phaseFeedback
		s.menu = s.feedbackMenu()
		return s, nil
	case "enter":
		if s.coachWaiting {
			return s, nil
		}
		text := s.coachInput.Value()
		if text == "" {
			return s, nil
		}
		s.transcript = append(s.transcript, coach.Turn{Role: coach.RoleStudent, Content: text})
		s.coachInput.Reset()
		s.coachWaiting = true

		q, _ := s.session.Current()
		chosen := s.session.Results[s.session.Index].Chosen
		c := s.deps.Coach
		history := append([]coach.Turn(nil), s.transcript...)
		return s, tea.Batch(func() tea.Msg {
			reply, err := c.Respond(context.Background(), q, chosen, history, text)
			return coachMsg{Reply: reply, Err: err}
		}, spinnerTick())
	}

	if s.coachWaiting {
		return s, nil
	}
	var cmd tea.Cmd
	s.coachInput, cmd = s.coachInput.Update(msg)
	return s, cmd
}

func (s *QuizScreen) handleCoachReply(msg coachMsg) (screen.Screen, tea.Cmd) {
	s.coachWaiting = false
	if msg.Err != nil {
		s.coachErr = "The coach is unavailable right now."
		return s, nil
	}
	s.coachErr = ""
	s.transcript = append(s.transcript, coach.Turn{Role: coach.RoleCoach, Content: msg.Reply})
	return s, nil
}

func (s *QuizScreen) reportMenu() components.Menu {
	items := make([]components.MenuItem, 0, len(report.ErrorKinds)+1)
	for _, kind := range report.ErrorKinds {
		kind := kind
		items = append(items, components.MenuItem{
			Label:  "It seems " + kind.Label(),
			Action: func() tea.Cmd { return s.submitReport(kind) },
		})
	}
	items = append(items, components.MenuItem{
		Label: "Never mind",
		Action: func() tea.Cmd {
			s.phase = phaseFeedback
			s.menu = s.feedbackMenu()
			return nil
		},
	})
	return components.NewMenu(items)
}

func (s *QuizScreen) submitReport(kind report.ErrorKind) tea.Cmd {
	// One report per question per session, spent even if the check
	// ends up failing.
	if !s.session.MarkReported() {
		s.phase = phaseFeedback
		s.menu = s.feedbackMenu()
		return nil
	}

	s.phase = phaseVerifying
	q, _ := s.session.Current()
	wf := s.deps.Reports
	return tea.Batch(func() tea.Msg {
		invalidated, err := wf.ReportAndVerify(context.Background(), q, kind)
		return reportMsg{Invalidated: invalidated, Err: err}
	}, spinnerTick())
}

func (s *QuizScreen) handleReportResult(msg reportMsg) (screen.Screen, tea.Cmd) {
	s.phase = phaseReportDone
	switch {
	case msg.Err != nil:
		s.reportNote = "Could not check the report. The question stays in the quiz."
	case msg.Invalidated:
		s.session.ExcludeCurrent()
		s.reportNote = "You were right. This question no longer counts toward your score."
	default:
		s.reportNote = "The answer key checks out, so the question stands."
	}
	return s, nil
}

func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}
