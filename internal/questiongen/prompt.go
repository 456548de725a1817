package questiongen

import (
	"fmt"
	"strings"

	"github.com/quizwiz/quizwiz/internal/quiz"
)

const systemPrompt = `You are a math teacher writing multiple-choice practice questions for school students.

Rules:
- Every question must have exactly 4 options with exactly one correct option.
- Do not prefix the options with A, B, C, or D.
- Use plain ASCII text for all math. No LaTeX, no Unicode symbols.
- Questions must be appropriate for the given grade and curriculum board.
- Difficulty must be one of "Easy", "Medium", or "Hard" and match the requested breakdown.
- Return only a JSON array of question objects. No prose before or after it.`

// buildUserMessage constructs the generation instruction: the scope,
// the per-difficulty breakdown, the expected JSON shape, and up to
// cfg.MaxAvoidTexts previously seen questions to avoid.
func buildUserMessage(scope quiz.Scope, shortfall quiz.Shortfall, seenTexts []string, cfg Config) string {
	total := shortfall.Total()

	var b strings.Builder

	fmt.Fprintf(&b, "Generate %d multiple-choice math questions for Grade %d students following the %s curriculum.\n\n", total, scope.Grade, scope.Board)
	fmt.Fprintf(&b, "Topic: %s\n", scope.Topic)
	b.WriteString("Difficulty breakdown:\n")
	for _, d := range quiz.Difficulties {
		fmt.Fprintf(&b, "- %s: %d questions\n", d, shortfall[d])
	}

	b.WriteString(`
Return the response as a JSON array with the following structure:
[
  {
    "question": "Question text here",
    "options": ["Option 1", "Option 2", "Option 3", "Option 4"],
    "correct_answer": 0,
    "difficulty": "Easy"
  }
]

The correct_answer is the index (0-3) of the correct option.
`)

	if len(seenTexts) > 0 {
		b.WriteString("\nDo NOT repeat any of these questions:\n")
		b.WriteString(buildAvoidList(seenTexts, cfg.MaxAvoidTexts))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nGenerate exactly %d questions with the breakdown above.", total)

	return b.String()
}

// buildAvoidList formats seen question texts for the prompt, capped at
// max entries with an "...and more" marker when truncated.
func buildAvoidList(texts []string, max int) string {
	truncated := false
	if max > 0 && len(texts) > max {
		texts = texts[:max]
		truncated = true
	}

	var b strings.Builder
	for i, t := range texts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, t)
	}
	if truncated {
		b.WriteString("...and more")
		return b.String()
	}
	return strings.TrimRight(b.String(), "\n")
}
