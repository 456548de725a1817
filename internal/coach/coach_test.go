package coach

import (
	"context"
	"strings"
	"testing"

	"github.com/quizwiz/quizwiz/internal/llm"
	"github.com/quizwiz/quizwiz/internal/quiz"
)

func coachedQuestion() quiz.Question {
	return quiz.Question{
		Scope:      quiz.Scope{Grade: 6, Board: quiz.CBSE, Topic: "fractions"},
		Text:       "Which fraction is largest?",
		Options:    []string{"1/2", "2/3", "3/8", "1/4"},
		Answer:     1,
		Difficulty: quiz.Medium,
		Valid:      true,
	}
}

func TestStartBuildsContext(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: []byte("What happens when you compare 1/2 and 2/3?")})
	c := New(mock)

	reply, err := c.Start(context.Background(), coachedQuestion(), 2)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if reply == "" {
		t.Fatal("empty coaching reply")
	}

	prompt := mock.Calls[0].Messages[0].Content
	for _, want := range []string{
		"Which fraction is largest?",
		"A. 1/2",
		"D. 1/4",
		"Student's wrong answer: C. 3/8",
		"Correct answer: B. 2/3",
		"ONE thoughtful Socratic question",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if mock.Calls[0].System == "" {
		t.Error("system prompt not set")
	}
}

func TestRespondReplaysRecentHistoryOnly(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: []byte("Good thinking. What does the denominator tell you?")})
	c := New(mock)

	history := []Turn{
		{Role: RoleCoach, Content: "turn one"},
		{Role: RoleStudent, Content: "turn two"},
		{Role: RoleCoach, Content: "turn three"},
		{Role: RoleStudent, Content: "turn four"},
		{Role: RoleCoach, Content: "turn five"},
		{Role: RoleStudent, Content: "turn six"},
	}

	_, err := c.Respond(context.Background(), coachedQuestion(), 2, history, "is it about denominators?")
	if err != nil {
		t.Fatalf("respond: %v", err)
	}

	call, ok := mock.LastCall()
	if !ok {
		t.Fatal("no provider call recorded")
	}
	prompt := call.Messages[0].Content
	if strings.Contains(prompt, "turn one") || strings.Contains(prompt, "turn two") {
		t.Error("prompt includes turns past the history cap")
	}
	for _, want := range []string{"Coach: turn three", "Student: turn six", `Student just said: "is it about denominators?"`} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestRespondWithoutHistory(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: []byte("Let's look at the options again.")})
	c := New(mock)

	_, err := c.Respond(context.Background(), coachedQuestion(), 0, nil, "I don't know")
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if strings.Contains(mock.Calls[0].Messages[0].Content, "Previous conversation") {
		t.Error("history section present for empty history")
	}
}

func TestCoachRejectsBadIndices(t *testing.T) {
	c := New(llm.NewMockProvider())

	if _, err := c.Start(context.Background(), coachedQuestion(), 7); err == nil {
		t.Error("want error for out-of-range student answer")
	}

	q := coachedQuestion()
	q.Options = q.Options[:3]
	if _, err := c.Start(context.Background(), q, 0); err == nil {
		t.Error("want error for short option list")
	}
}

func TestCoachPropagatesProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	if _, err := New(mock).Start(context.Background(), coachedQuestion(), 0); err == nil {
		t.Error("want provider error, got nil")
	}
}
