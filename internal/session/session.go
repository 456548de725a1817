// Package session tracks one quiz attempt: which question is up, what
// the student answered, the running score, and which questions were
// reported. All state is explicit and serializable; nothing lives in
// package globals, so the core workflows are testable without any UI.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quizwiz/quizwiz/internal/quiz"
)

// ErrFinished is returned when answering past the last question.
var ErrFinished = errors.New("quiz already finished")

// QuestionResult records the outcome for a single question.
type QuestionResult struct {
	// Chosen is the selected option index, -1 while unanswered.
	Chosen int `json:"chosen"`

	Correct bool `json:"correct"`

	// Points earned for this question: the difficulty's point value
	// when correct, zero otherwise. Zeroed again if the question is
	// later excluded.
	Points int `json:"points"`

	// Reported is set on the first defect report; further reports on
	// the same question are rejected for this session.
	Reported bool `json:"reported"`

	// Excluded drops the question from scoring after a confirmed
	// defect report.
	Excluded bool `json:"excluded"`
}

// Session is one quiz attempt over a fixed question list.
type Session struct {
	ID        string           `json:"id"`
	User      string           `json:"user"`
	Scope     quiz.Scope       `json:"scope"`
	Questions []quiz.Question  `json:"questions"`
	Results   []QuestionResult `json:"results"`

	// Index points at the current question; equal to len(Questions)
	// once the quiz is finished.
	Index int `json:"index"`

	StartedAt time.Time `json:"started_at"`
}

// New starts a session over the given questions.
func New(user string, scope quiz.Scope, questions []quiz.Question) *Session {
	results := make([]QuestionResult, len(questions))
	for i := range results {
		results[i].Chosen = -1
	}
	return &Session{
		ID:        uuid.NewString(),
		User:      user,
		Scope:     scope,
		Questions: questions,
		Results:   results,
		StartedAt: time.Now(),
	}
}

// Finished reports whether every question has been answered.
func (s *Session) Finished() bool {
	return s.Index >= len(s.Questions)
}

// Current returns the question under play, or false when finished.
func (s *Session) Current() (quiz.Question, bool) {
	if s.Finished() {
		return quiz.Question{}, false
	}
	return s.Questions[s.Index], true
}

// Answer records the choice for the current question and returns
// whether it was correct and the points earned. It does not advance;
// the caller shows feedback (and possibly coaching) first, then calls
// Advance.
func (s *Session) Answer(choice int) (correct bool, points int, err error) {
	if s.Finished() {
		return false, 0, ErrFinished
	}
	if choice < 0 || choice >= quiz.NumOptions {
		return false, 0, fmt.Errorf("choice %d out of range", choice)
	}

	q := s.Questions[s.Index]
	r := &s.Results[s.Index]
	r.Chosen = choice
	r.Correct = choice == q.Answer
	if r.Correct {
		r.Points = q.Difficulty.Points()
	} else {
		r.Points = 0
	}
	return r.Correct, r.Points, nil
}

// Advance moves to the next question.
func (s *Session) Advance() {
	if !s.Finished() {
		s.Index++
	}
}

// MarkReported registers a defect report against the current question.
// It returns false when this session already reported it, the
// once-per-question guard that stops re-verification spam.
func (s *Session) MarkReported() bool {
	if s.Finished() {
		return false
	}
	r := &s.Results[s.Index]
	if r.Reported {
		return false
	}
	r.Reported = true
	return true
}

// ExcludeCurrent removes the current question from scoring, used after
// a defect report is confirmed.
func (s *Session) ExcludeCurrent() {
	if s.Finished() {
		return
	}
	r := &s.Results[s.Index]
	r.Excluded = true
	r.Points = 0
}

// Score sums the points of all non-excluded questions answered so far.
func (s *Session) Score() int {
	total := 0
	for _, r := range s.Results {
		if !r.Excluded {
			total += r.Points
		}
	}
	return total
}

// MaxScore is the best possible score over the non-excluded questions.
func (s *Session) MaxScore() int {
	total := 0
	for i, q := range s.Questions {
		if !s.Results[i].Excluded {
			total += q.Difficulty.Points()
		}
	}
	return total
}

// Summary aggregates the finished attempt for display and history.
type Summary struct {
	Score      int `json:"score"`
	MaxScore   int `json:"max_score"`
	Correct    int `json:"correct"`
	Answered   int `json:"answered"`
	Excluded   int `json:"excluded"`
	TotalCount int `json:"total_count"`
}

// Summarize computes the session totals.
func (s *Session) Summarize() Summary {
	sum := Summary{
		Score:      s.Score(),
		MaxScore:   s.MaxScore(),
		TotalCount: len(s.Questions),
	}
	for _, r := range s.Results {
		if r.Chosen >= 0 {
			sum.Answered++
		}
		if r.Excluded {
			sum.Excluded++
			continue
		}
		if r.Correct {
			sum.Correct++
		}
	}
	return sum
}
