// Package report handles user-submitted defect reports on quiz
// questions: each report is checked against a verification oracle and,
// if confirmed, retires the question from the bank.
package report

import (
	"context"
	"fmt"

	"github.com/quizwiz/quizwiz/internal/quiz"
	"github.com/quizwiz/quizwiz/internal/store"
)

// ErrorKind classifies what the user believes is wrong with a question.
type ErrorKind string

const (
	MissingAnswer   ErrorKind = "missing_answer"
	MultipleCorrect ErrorKind = "multiple_correct"
	Incomplete      ErrorKind = "incomplete"
)

// ErrorKinds lists all report classifications in display order.
var ErrorKinds = []ErrorKind{MissingAnswer, MultipleCorrect, Incomplete}

// Label returns the user-facing description of the error kind.
func (k ErrorKind) Label() string {
	switch k {
	case MissingAnswer:
		return "none of the options is correct"
	case MultipleCorrect:
		return "more than one option is correct"
	case Incomplete:
		return "the question is incomplete or unclear"
	}
	return string(k)
}

// IsValid reports whether k is a known classification.
func (k ErrorKind) IsValid() bool {
	switch k {
	case MissingAnswer, MultipleCorrect, Incomplete:
		return true
	}
	return false
}

// Verifier is the oracle deciding whether a reported defect is real.
type Verifier interface {
	Verify(ctx context.Context, q quiz.Question, kind ErrorKind) (bool, error)
}

// Workflow runs a defect report end to end: one oracle call, then a
// conditional store update when the oracle confirms.
type Workflow struct {
	questions store.QuestionRepo
	verifier  Verifier
}

// NewWorkflow creates a Workflow over the given repo and verifier.
func NewWorkflow(questions store.QuestionRepo, verifier Verifier) *Workflow {
	return &Workflow{questions: questions, verifier: verifier}
}

// ReportAndVerify submits one defect report. The oracle is consulted
// exactly once; there is no retry on oracle failure, the caller may
// resubmit. It returns true only when the oracle confirmed the defect
// AND the question was still valid, so it flipped to invalid here. An
// oracle failure returns false with the error; the report still counts
// as submitted and no store mutation happens. Confirming an
// already-invalid question returns false.
func (w *Workflow) ReportAndVerify(ctx context.Context, q quiz.Question, kind ErrorKind) (bool, error) {
	if !kind.IsValid() {
		return false, fmt.Errorf("unknown error kind %q", kind)
	}

	confirmed, err := w.verifier.Verify(ctx, q, kind)
	if err != nil {
		return false, fmt.Errorf("verify report: %w", err)
	}
	if !confirmed {
		return false, nil
	}

	invalidated, err := w.questions.Invalidate(ctx, q.Scope, q.Text)
	if err != nil {
		return false, fmt.Errorf("invalidate question: %w", err)
	}
	return invalidated, nil
}
