package quizplay

import (
	"time"

	"github.com/quizwiz/quizwiz/internal/quiz"
)

// questionsMsg is sent when the supply fetch completes. Questions may
// be a partial set with Err describing why the quiz is degraded.
type questionsMsg struct {
	Questions []quiz.Question
	Err       error
}

// coachMsg carries one coach reply, either the opening question or a
// response to the student's last message.
type coachMsg struct {
	Reply string
	Err   error
}

// reportMsg is sent when the defect report verification completes.
type reportMsg struct {
	Invalidated bool
	Err         error
}

// spinnerTickMsg animates the loading spinner.
type spinnerTickMsg time.Time
