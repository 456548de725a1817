// Package coach runs the Socratic coaching conversation shown after a
// wrong answer: it nudges the student toward the correct option with
// guiding questions instead of revealing it outright.
package coach

import (
	"context"
	"fmt"
	"strings"

	"github.com/quizwiz/quizwiz/internal/llm"
	"github.com/quizwiz/quizwiz/internal/quiz"
)

const systemPrompt = `You are a patient and encouraging math tutor using the Socratic method.
Your goal is to help the student understand why their answer is incorrect and guide them
to discover the correct answer through thoughtful questioning, NOT by directly telling them.

Socratic Method Principles:
1. Ask open-ended questions that make the student think
2. Break down the problem into smaller parts
3. Guide them to identify their mistake
4. Help them understand the underlying concept
5. Never directly reveal the answer - help them discover it

Be encouraging, patient, and supportive. Make the student feel safe to think and explore.
Keep your responses concise (2-3 sentences).`

// maxHistoryTurns caps how much prior conversation is replayed into
// each prompt.
const maxHistoryTurns = 4

// TurnRole identifies who spoke in a coaching turn.
type TurnRole string

const (
	RoleStudent TurnRole = "student"
	RoleCoach   TurnRole = "coach"
)

// Turn is one message in the coaching conversation. Turns are plain
// data so a session can serialize them.
type Turn struct {
	Role    TurnRole `json:"role"`
	Content string   `json:"content"`
}

// Coach generates coaching replies through an LLM provider. It holds no
// conversation state; callers pass the history explicitly.
type Coach struct {
	provider llm.Provider

	// MaxTokens caps each coaching reply.
	MaxTokens int

	// Temperature controls reply variety.
	Temperature float64
}

// New creates a Coach with the standard limits.
func New(provider llm.Provider) *Coach {
	return &Coach{provider: provider, MaxTokens: 512, Temperature: 0.7}
}

// Start opens a coaching session with the first guiding question.
func (c *Coach) Start(ctx context.Context, q quiz.Question, userAnswer int) (string, error) {
	if err := checkAnswers(q, userAnswer); err != nil {
		return "", err
	}

	prompt := questionContext(q, userAnswer) + `

Start the coaching session. Ask the student ONE thoughtful Socratic question that will help them
think about the problem differently and guide them toward understanding why their answer is incorrect.`

	return c.generate(ctx, prompt)
}

// Respond continues the session after the student replies. Only the
// most recent turns of history are replayed; if the student seems to
// understand or asks for the answer, the model may reveal it.
func (c *Coach) Respond(ctx context.Context, q quiz.Question, userAnswer int, history []Turn, studentMessage string) (string, error) {
	if err := checkAnswers(q, userAnswer); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(questionContext(q, userAnswer))

	if len(history) > 0 {
		b.WriteString("\n\nPrevious conversation:\n")
		recent := history
		if len(recent) > maxHistoryTurns {
			recent = recent[len(recent)-maxHistoryTurns:]
		}
		for _, turn := range recent {
			label := "Coach"
			if turn.Role == RoleStudent {
				label = "Student"
			}
			fmt.Fprintf(&b, "%s: %s\n", label, turn.Content)
		}
	}

	fmt.Fprintf(&b, "\nStudent just said: %q\n\n", studentMessage)
	b.WriteString(`Respond to the student's message. Continue guiding them using Socratic questioning.
If they seem to understand or ask for the answer, you can reveal it with an explanation.`)

	return c.generate(ctx, b.String())
}

func (c *Coach) generate(ctx context.Context, prompt string) (string, error) {
	ctx = llm.WithPurpose(ctx, "coaching")

	resp, err := c.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: prompt},
		},
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("coaching reply: %w", err)
	}
	return strings.TrimSpace(string(resp.Content)), nil
}

// questionContext lays out the question with lettered options, the
// student's pick, and the correct one.
func questionContext(q quiz.Question, userAnswer int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Question: %s\n\nOptions:\n", q.Text)
	for i, opt := range q.Options {
		fmt.Fprintf(&b, "%c. %s\n", 'A'+i, opt)
	}
	fmt.Fprintf(&b, "\nStudent's wrong answer: %c. %s\n", 'A'+userAnswer, q.Options[userAnswer])
	fmt.Fprintf(&b, "Correct answer: %c. %s", 'A'+q.Answer, q.Options[q.Answer])

	return b.String()
}

func checkAnswers(q quiz.Question, userAnswer int) error {
	if len(q.Options) != quiz.NumOptions {
		return fmt.Errorf("question has %d options, want %d", len(q.Options), quiz.NumOptions)
	}
	if userAnswer < 0 || userAnswer >= len(q.Options) {
		return fmt.Errorf("student answer index %d out of range", userAnswer)
	}
	if q.Answer < 0 || q.Answer >= len(q.Options) {
		return fmt.Errorf("correct answer index %d out of range", q.Answer)
	}
	return nil
}
