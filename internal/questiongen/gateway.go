// Package questiongen fills question-bank shortfalls from an LLM
// backend: it builds the batch instruction, repairs the loosely shaped
// response into strict records, persists them, and returns exactly the
// requested count.
package questiongen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/quizwiz/quizwiz/internal/llm"
	"github.com/quizwiz/quizwiz/internal/quiz"
	"github.com/quizwiz/quizwiz/internal/store"
)

// Gateway generates quiz questions through an LLM provider and writes
// them into the question bank before handing them to the caller.
type Gateway struct {
	provider  llm.Provider
	questions store.QuestionRepo
	config    Config
}

// New creates a Gateway over the given provider and question repo.
func New(provider llm.Provider, questions store.QuestionRepo, cfg Config) *Gateway {
	return &Gateway{provider: provider, questions: questions, config: cfg}
}

// Fill generates the shortfall in a single backend call. Every parsed
// record is persisted before the method returns, so callers can treat
// the returned questions as durable; the return value is truncated to
// the shortfall total even when the model over-produces, but the full
// batch is persisted for future reuse. A nil or zero shortfall is a
// no-op.
func (g *Gateway) Fill(ctx context.Context, scope quiz.Scope, shortfall quiz.Shortfall, seen map[string]struct{}) ([]quiz.Question, error) {
	want := shortfall.Total()
	if want == 0 {
		return nil, nil
	}

	ctx = llm.WithPurpose(ctx, "question-gen")

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(scope, shortfall, seenList(seen), g.config)},
		},
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("question generation backend: %w", err)
	}

	batch, err := g.parseResponse(string(resp.Content))
	if err != nil {
		return nil, err
	}

	generated, err := toQuestions(scope, batch)
	if err != nil {
		return nil, err
	}

	if _, _, err := g.questions.SaveBatch(ctx, scope, generated); err != nil {
		return nil, fmt.Errorf("persist generated questions: %w", err)
	}

	if len(generated) > want {
		generated = generated[:want]
	}
	return generated, nil
}

// parseResponse strips code fences, wraps a bare object into an array,
// validates the shape, and decodes the batch.
func (g *Gateway) parseResponse(text string) ([]rawQuestion, error) {
	cleaned := stripFences(text)
	if strings.HasPrefix(cleaned, "{") {
		cleaned = "[" + cleaned + "]"
	}

	if err := llm.ValidateSchema(BatchSchema, json.RawMessage(cleaned)); err != nil {
		var invalid *llm.ErrInvalidResponse
		if errors.As(err, &invalid) {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, invalid.Err)
		}
		return nil, err
	}

	return parseBatch(cleaned)
}

// seenList flattens the seen-set into a sorted slice so prompts are
// deterministic for a given history state.
func seenList(seen map[string]struct{}) []string {
	if len(seen) == 0 {
		return nil
	}
	texts := make([]string, 0, len(seen))
	for t := range seen {
		texts = append(texts, t)
	}
	sort.Strings(texts)
	return texts
}
