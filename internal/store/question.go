package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/quizwiz/quizwiz/ent"
	"github.com/quizwiz/quizwiz/ent/predicate"
	"github.com/quizwiz/quizwiz/ent/question"
	"github.com/quizwiz/quizwiz/internal/quiz"
)

// questionRepo implements QuestionRepo using the ent client.
type questionRepo struct {
	client *ent.Client
}

func (r *questionRepo) SaveBatch(ctx context.Context, scope quiz.Scope, records []quiz.Question) (int, int, error) {
	saved, skipped := 0, 0

	for _, q := range records {
		if len(q.Options) != quiz.NumOptions {
			return saved, skipped, fmt.Errorf("question %q: %d options, want %d", q.Text, len(q.Options), quiz.NumOptions)
		}

		_, err := r.client.Question.Create().
			SetGrade(scope.Grade).
			SetBoard(string(scope.Board)).
			SetTopic(scope.Topic).
			SetDifficulty(string(q.Difficulty)).
			SetText(q.Text).
			SetOptions(q.Options).
			SetAnswer(q.Answer).
			Save(ctx)
		if err == nil {
			saved++
			continue
		}
		if isUniqueViolation(err) {
			// The question already exists in the bank. Expected under
			// concurrent generation for the same scope; not a fault.
			skipped++
			continue
		}
		return saved, skipped, fmt.Errorf("save question %q: %w", q.Text, err)
	}

	return saved, skipped, nil
}

func (r *questionRepo) Count(ctx context.Context, scope quiz.Scope, difficulty *quiz.Difficulty) (int, error) {
	q := r.client.Question.Query().
		Where(scopePredicates(scope)...).
		Where(question.ValidEQ(true))
	if difficulty != nil {
		q = q.Where(question.DifficultyEQ(string(*difficulty)))
	}

	n, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}

func (r *questionRepo) Sample(ctx context.Context, scope quiz.Scope, difficulty quiz.Difficulty, limit int, randomized bool) ([]quiz.Question, error) {
	q := r.client.Question.Query().
		Where(scopePredicates(scope)...).
		Where(
			question.DifficultyEQ(string(difficulty)),
			question.ValidEQ(true),
		)

	if randomized {
		q = q.Order(func(s *entsql.Selector) {
			s.OrderExpr(entsql.Expr("RANDOM()"))
		})
	} else {
		q = q.Order(ent.Asc(question.FieldID))
	}

	if limit > 0 {
		q = q.Limit(limit)
	}

	rows, err := q.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("sample questions: %w", err)
	}

	out := make([]quiz.Question, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromEnt(row))
	}
	return out, nil
}

func (r *questionRepo) Invalidate(ctx context.Context, scope quiz.Scope, text string) (bool, error) {
	n, err := r.client.Question.Update().
		Where(scopePredicates(scope)...).
		Where(
			question.TextEQ(text),
			question.ValidEQ(true),
		).
		SetValid(false).
		SetReportedAt(time.Now().UTC()).
		Save(ctx)
	if err != nil {
		return false, fmt.Errorf("invalidate question: %w", err)
	}
	return n > 0, nil
}

func (r *questionRepo) InvalidReport(ctx context.Context, filter InvalidFilter) ([]quiz.Question, error) {
	rows, err := r.invalidQuery(filter).
		Order(ent.Desc(question.FieldReportedAt)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("invalid question report: %w", err)
	}

	out := make([]quiz.Question, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromEnt(row))
	}
	return out, nil
}

func (r *questionRepo) CountInvalid(ctx context.Context, filter InvalidFilter) (int, error) {
	n, err := r.invalidQuery(filter).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count invalid questions: %w", err)
	}
	return n, nil
}

func (r *questionRepo) invalidQuery(filter InvalidFilter) *ent.QuestionQuery {
	q := r.client.Question.Query().Where(question.ValidEQ(false))
	if filter.Grade != 0 {
		q = q.Where(question.GradeEQ(filter.Grade))
	}
	if filter.Board != "" {
		q = q.Where(question.BoardEQ(string(filter.Board)))
	}
	if filter.Topic != "" {
		q = q.Where(question.TopicEQ(filter.Topic))
	}
	return q
}

// scopePredicates builds the exact-match predicates for a bank scope.
func scopePredicates(scope quiz.Scope) []predicate.Question {
	return []predicate.Question{
		question.GradeEQ(scope.Grade),
		question.BoardEQ(string(scope.Board)),
		question.TopicEQ(scope.Topic),
	}
}

// fromEnt converts an ent row to the domain question.
func fromEnt(row *ent.Question) quiz.Question {
	return quiz.Question{
		Scope: quiz.Scope{
			Grade: row.Grade,
			Board: quiz.Board(row.Board),
			Topic: row.Topic,
		},
		Text:       row.Text,
		Options:    row.Options,
		Answer:     row.Answer,
		Difficulty: quiz.Difficulty(row.Difficulty),
		Valid:      row.Valid,
		CreatedAt:  row.CreatedAt,
		ReportedAt: row.ReportedAt,
	}
}

// isUniqueViolation reports whether err is the expected duplicate-identity
// conflict, as opposed to some other constraint failure.
func isUniqueViolation(err error) bool {
	return ent.IsConstraintError(err) && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
