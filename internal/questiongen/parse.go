package questiongen

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/quizwiz/quizwiz/internal/quiz"
)

// ErrMalformedResponse marks a generation response that could not be
// parsed or normalized into question records. It is distinct from
// backend unavailability: the call succeeded but the content is bad.
var ErrMalformedResponse = errors.New("malformed generation response")

// rawQuestion is the wire shape of one generated question before
// normalization. CorrectAnswer stays raw because models return either
// an integer index or an option letter.
type rawQuestion struct {
	Question      string          `json:"question"`
	Options       []string        `json:"options"`
	CorrectAnswer json.RawMessage `json:"correct_answer"`
	Difficulty    string          `json:"difficulty"`
}

// stripFences removes a surrounding markdown code fence, with or
// without a json language tag, returning the inner text untouched when
// no fence is present.
func stripFences(text string) string {
	trimmed := strings.TrimSpace(text)

	if idx := strings.Index(trimmed, "```json"); idx >= 0 {
		rest := trimmed[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	if idx := strings.Index(trimmed, "```"); idx >= 0 {
		rest := trimmed[idx+len("```"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	return trimmed
}

// parseBatch decodes the fence-stripped response into raw question
// records, wrapping a bare single object into a one-element batch.
func parseBatch(text string) ([]rawQuestion, error) {
	data := []byte(strings.TrimSpace(text))
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}

	if bytes.HasPrefix(data, []byte("{")) {
		var one rawQuestion
		if err := json.Unmarshal(data, &one); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		return []rawQuestion{one}, nil
	}

	var batch []rawQuestion
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return batch, nil
}

// normalizeAnswer maps a raw correct_answer to an index in [0,3].
// Letters A-D (case-insensitive) map via their alphabet position;
// numbers, including numbers quoted as strings, are used as-is.
func normalizeAnswer(raw json.RawMessage) (int, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("%w: correct_answer missing", ErrMalformedResponse)
	}

	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return checkAnswerRange(n)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("%w: correct_answer is neither number nor string", ErrMalformedResponse)
	}

	s = strings.TrimSpace(s)
	if len(s) == 1 {
		upper := strings.ToUpper(s)[0]
		if upper >= 'A' && upper <= 'D' {
			return int(upper - 'A'), nil
		}
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: correct_answer %q is not a letter A-D or an index", ErrMalformedResponse, s)
	}
	return checkAnswerRange(n)
}

func checkAnswerRange(n int) (int, error) {
	if n < 0 || n >= quiz.NumOptions {
		return 0, fmt.Errorf("%w: correct_answer index %d out of range", ErrMalformedResponse, n)
	}
	return n, nil
}

// toQuestions normalizes raw records into Question values scoped to the
// request. Any structural defect fails the whole batch.
func toQuestions(scope quiz.Scope, raws []rawQuestion) ([]quiz.Question, error) {
	questions := make([]quiz.Question, 0, len(raws))
	for i, r := range raws {
		if strings.TrimSpace(r.Question) == "" {
			return nil, fmt.Errorf("%w: question %d has empty text", ErrMalformedResponse, i)
		}
		if len(r.Options) != quiz.NumOptions {
			return nil, fmt.Errorf("%w: question %d has %d options, want %d", ErrMalformedResponse, i, len(r.Options), quiz.NumOptions)
		}

		answer, err := normalizeAnswer(r.CorrectAnswer)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}

		difficulty, err := quiz.ParseDifficulty(r.Difficulty)
		if err != nil {
			return nil, fmt.Errorf("%w: question %d: %v", ErrMalformedResponse, i, err)
		}

		questions = append(questions, quiz.Question{
			Scope:      scope,
			Text:       strings.TrimSpace(r.Question),
			Options:    r.Options,
			Answer:     answer,
			Difficulty: difficulty,
			Valid:      true,
		})
	}
	return questions, nil
}
