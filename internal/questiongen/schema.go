package questiongen

import "github.com/quizwiz/quizwiz/internal/llm"

// BatchSchema describes the expected shape of a generation response
// after fence stripping and single-object wrapping. correct_answer is
// deliberately loose: models sometimes return the option letter instead
// of the index, and normalization happens after validation.
var BatchSchema = &llm.Schema{
	Name:        "question-batch",
	Description: "A batch of multiple-choice quiz questions",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question": map[string]any{
					"type":        "string",
					"description": "The question text shown to the student",
				},
				"options": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string"},
					"minItems": 4,
					"maxItems": 4,
				},
				"correct_answer": map[string]any{
					"type":        []any{"integer", "string"},
					"description": "Index 0-3 of the correct option, or the letter A-D",
				},
				"difficulty": map[string]any{
					"type": "string",
					"enum": []any{"Easy", "Medium", "Hard"},
				},
			},
			"required": []any{"question", "options", "correct_answer", "difficulty"},
		},
	},
}
