package quizplay

import (
	"context"
	"fmt"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/quizwiz/quizwiz/internal/quiz"
	"github.com/quizwiz/quizwiz/internal/report"
	"github.com/quizwiz/quizwiz/internal/router"
	"github.com/quizwiz/quizwiz/internal/screen"
	"github.com/quizwiz/quizwiz/internal/screens/summary"
	"github.com/quizwiz/quizwiz/internal/store"
	"github.com/quizwiz/quizwiz/internal/supply"
)

// fakeRepo is an in-memory store.QuestionRepo with a pre-stocked bank.
type fakeRepo struct {
	bank        []quiz.Question
	invalidated []string
}

func (f *fakeRepo) SaveBatch(_ context.Context, scope quiz.Scope, records []quiz.Question) (int, int, error) {
	f.bank = append(f.bank, records...)
	return len(records), 0, nil
}

func (f *fakeRepo) Count(_ context.Context, _ quiz.Scope, difficulty *quiz.Difficulty) (int, error) {
	n := 0
	for _, q := range f.bank {
		if difficulty == nil || q.Difficulty == *difficulty {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) Sample(_ context.Context, _ quiz.Scope, difficulty quiz.Difficulty, limit int, _ bool) ([]quiz.Question, error) {
	var out []quiz.Question
	for _, q := range f.bank {
		if q.Difficulty == difficulty && len(out) < limit {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeRepo) Invalidate(_ context.Context, _ quiz.Scope, text string) (bool, error) {
	f.invalidated = append(f.invalidated, text)
	return true, nil
}

func (f *fakeRepo) InvalidReport(_ context.Context, _ store.InvalidFilter) ([]quiz.Question, error) {
	return nil, nil
}

func (f *fakeRepo) CountInvalid(_ context.Context, _ store.InvalidFilter) (int, error) {
	return 0, nil
}

// stubVerifier always returns a fixed verdict.
type stubVerifier struct {
	confirm bool
}

func (v stubVerifier) Verify(_ context.Context, _ quiz.Question, _ report.ErrorKind) (bool, error) {
	return v.confirm, nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func testScope() quiz.Scope {
	return quiz.Scope{Grade: 7, Board: quiz.CBSE, Topic: "fractions"}
}

func bankQuestion(i int, difficulty quiz.Difficulty) quiz.Question {
	return quiz.Question{
		Scope:      testScope(),
		Text:       fmt.Sprintf("banked %s %d", difficulty, i),
		Options:    []string{"w", "x", "y", "z"},
		Answer:     1,
		Difficulty: difficulty,
		Valid:      true,
	}
}

// testScreen builds a quiz screen over a two-question, all-easy bank.
func testScreen(t *testing.T) (*QuizScreen, *fakeRepo) {
	t.Helper()
	repo := &fakeRepo{bank: []quiz.Question{
		bankQuestion(1, quiz.Easy),
		bankQuestion(2, quiz.Easy),
	}}

	deps := Deps{
		Supply:  supply.NewService(repo, nil, nil),
		Reports: report.NewWorkflow(repo, stubVerifier{confirm: true}),
	}
	req := quiz.SupplyRequest{
		Scope: testScope(),
		Count: 2,
		Mix:   quiz.Mix{quiz.Easy: 100},
	}
	s := New(deps, req, func() screen.Screen { return nil })
	return s, repo
}

// startQuiz runs the fetch command and feeds the result back in.
func startQuiz(t *testing.T, s *QuizScreen) {
	t.Helper()
	msg := s.fetch()()
	qmsg, ok := msg.(questionsMsg)
	if !ok {
		t.Fatalf("fetch returned %T, want questionsMsg", msg)
	}
	if qmsg.Err != nil {
		t.Fatalf("fetch error: %v", qmsg.Err)
	}
	if _, cmd := s.Update(qmsg); cmd != nil {
		t.Fatalf("expected no command after presenting first question")
	}
}

func TestQuizScreen_Title(t *testing.T) {
	s, _ := testScreen(t)
	if s.Title() != "Quiz" {
		t.Errorf("Title = %q, want %q", s.Title(), "Quiz")
	}
}

func TestQuizScreen_StartsSessionFromFetch(t *testing.T) {
	s, _ := testScreen(t)
	startQuiz(t, s)

	if s.phase != phaseQuestion {
		t.Fatalf("phase = %d, want phaseQuestion", s.phase)
	}
	if s.session == nil || len(s.session.Questions) != 2 {
		t.Fatalf("expected a 2-question session")
	}

	score, maxScore := s.Score()
	if score != 0 || maxScore != 2 {
		t.Errorf("Score() = %d/%d, want 0/2", score, maxScore)
	}
}

func TestQuizScreen_CorrectAnswerScores(t *testing.T) {
	s, _ := testScreen(t)
	startQuiz(t, s)

	// Option B is correct for every banked question.
	s.Update(keyPress('b'))
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	if s.phase != phaseFeedback {
		t.Fatalf("phase = %d, want phaseFeedback", s.phase)
	}
	if score, _ := s.Score(); score != 1 {
		t.Errorf("score after correct easy answer = %d, want 1", score)
	}
	if view := s.View(80, 24); view == "" {
		t.Error("expected non-empty feedback view")
	}
}

func TestQuizScreen_WrongAnswerScoresZero(t *testing.T) {
	s, _ := testScreen(t)
	startQuiz(t, s)

	s.Update(keyPress('a'))
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	if score, _ := s.Score(); score != 0 {
		t.Errorf("score after wrong answer = %d, want 0", score)
	}
	if s.session.Results[0].Correct {
		t.Error("result marked correct for a wrong answer")
	}
}

func TestQuizScreen_NextAdvancesThenSummary(t *testing.T) {
	s, _ := testScreen(t)
	startQuiz(t, s)

	// Answer question 1 and pick "Next question".
	s.Update(keyPress('b'))
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	if s.phase != phaseQuestion || s.session.Index != 1 {
		t.Fatalf("expected question 2 on screen, phase=%d index=%d", s.phase, s.session.Index)
	}

	// Answer question 2 and pick "See results".
	s.Update(keyPress('b'))
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command finishing the quiz")
	}

	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("finish produced %T, want router.ReplaceScreenMsg", cmd())
	}
	if _, ok := msg.Screen.(*summary.SummaryScreen); !ok {
		t.Errorf("replacement screen is %T, want *summary.SummaryScreen", msg.Screen)
	}
}

func TestQuizScreen_ConfirmedReportExcludesQuestion(t *testing.T) {
	s, repo := testScreen(t)
	startQuiz(t, s)

	s.Update(keyPress('b'))
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	cmd := s.submitReport(report.MissingAnswer)
	if cmd == nil {
		t.Fatal("expected verification command")
	}
	if s.phase != phaseVerifying {
		t.Fatalf("phase = %d, want phaseVerifying", s.phase)
	}

	drainReportMsg(t, s, cmd)

	if s.phase != phaseReportDone {
		t.Fatalf("phase = %d, want phaseReportDone", s.phase)
	}
	if !s.session.Results[0].Excluded {
		t.Error("confirmed report did not exclude the question")
	}
	if len(repo.invalidated) != 1 {
		t.Fatalf("bank invalidations = %d, want 1", len(repo.invalidated))
	}
	if _, maxScore := s.Score(); maxScore != 1 {
		t.Errorf("max score after exclusion = %d, want 1", maxScore)
	}
}

func TestQuizScreen_OneReportPerQuestion(t *testing.T) {
	s, _ := testScreen(t)
	startQuiz(t, s)

	s.Update(keyPress('b'))
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	drainReportMsg(t, s, s.submitReport(report.MissingAnswer))

	// A second report on the same question bounces back to feedback.
	if cmd := s.submitReport(report.Incomplete); cmd != nil {
		t.Error("expected no command for a repeat report")
	}
	if s.phase != phaseFeedback {
		t.Errorf("phase = %d, want phaseFeedback", s.phase)
	}
}

func TestQuizScreen_FetchFailureShowsError(t *testing.T) {
	s, _ := testScreen(t)
	s.Update(questionsMsg{Err: fmt.Errorf("backend down")})

	if s.errMsg == "" {
		t.Fatal("expected an error message")
	}
	if view := s.View(80, 24); view == "" {
		t.Error("expected non-empty error view")
	}
}

func TestQuizScreen_PartialFetchRunsDegraded(t *testing.T) {
	s, _ := testScreen(t)
	s.Update(questionsMsg{
		Questions: []quiz.Question{bankQuestion(1, quiz.Easy)},
		Err:       fmt.Errorf("2 questions short"),
	})

	if s.phase != phaseQuestion {
		t.Fatalf("phase = %d, want phaseQuestion", s.phase)
	}
	if s.degraded == "" {
		t.Error("expected a degraded-quiz notice")
	}
}

// drainReportMsg runs the verification command batch and feeds the
// reportMsg back into the screen.
func drainReportMsg(t *testing.T, s *QuizScreen, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected verification command")
	}
	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatalf("expected tea.BatchMsg, got %T", cmd())
	}
	for _, c := range batch {
		if msg, ok := c().(reportMsg); ok {
			s.Update(msg)
			return
		}
	}
	t.Fatal("no reportMsg in command batch")
}
