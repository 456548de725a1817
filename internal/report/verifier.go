package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/quizwiz/quizwiz/internal/llm"
	"github.com/quizwiz/quizwiz/internal/quiz"
)

const verifySystemPrompt = `You are a math teacher reviewing a student's complaint about a multiple-choice question.
Decide whether the complaint is justified.
Answer with a single word on the first line: YES if the complaint is justified, NO if it is not.
You may add a short explanation after that line.`

// LLMVerifier checks a defect report by asking the model to re-examine
// the question. The free-text answer counts as confirmation only when
// it starts with YES, case-insensitive; anything else, including an
// unparseable response, means not confirmed.
type LLMVerifier struct {
	provider llm.Provider

	// MaxTokens caps the oracle response. The verdict is in the first
	// word, so a short budget is enough.
	MaxTokens int
}

// NewLLMVerifier creates a verifier over the given provider.
func NewLLMVerifier(provider llm.Provider) *LLMVerifier {
	return &LLMVerifier{provider: provider, MaxTokens: 256}
}

// Verify consults the model once and interprets the verdict.
func (v *LLMVerifier) Verify(ctx context.Context, q quiz.Question, kind ErrorKind) (bool, error) {
	ctx = llm.WithPurpose(ctx, "report-verify")

	req := llm.Request{
		System: verifySystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildVerifyMessage(q, kind)},
		},
		MaxTokens: v.MaxTokens,
	}

	resp, err := v.provider.Generate(ctx, req)
	if err != nil {
		return false, err
	}

	return isAffirmative(string(resp.Content)), nil
}

// buildVerifyMessage lays out the question exactly as stored so the
// model judges the same content the student saw.
func buildVerifyMessage(q quiz.Question, kind ErrorKind) string {
	var b strings.Builder

	fmt.Fprintf(&b, "A Grade %d student (%s board, topic %q) reports that %s.\n\n", q.Grade, q.Board, q.Topic, kind.Label())
	fmt.Fprintf(&b, "Question: %s\n", q.Text)
	for i, opt := range q.Options {
		fmt.Fprintf(&b, "Option %d: %s\n", i, opt)
	}
	fmt.Fprintf(&b, "Stored correct option: %d\n\n", q.Answer)
	b.WriteString("Is the student's complaint justified?")

	return b.String()
}

// isAffirmative reports whether the oracle response starts with YES
// after trimming, case-insensitive.
func isAffirmative(text string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(text)), "YES")
}
