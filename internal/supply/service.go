package supply

import (
	"context"
	"fmt"
	"sort"

	"github.com/quizwiz/quizwiz/internal/history"
	"github.com/quizwiz/quizwiz/internal/quiz"
	"github.com/quizwiz/quizwiz/internal/store"
)

// Generator fills a shortfall with freshly generated questions.
// Implementations persist what they generate before returning it.
type Generator interface {
	Fill(ctx context.Context, scope quiz.Scope, shortfall quiz.Shortfall, seen map[string]struct{}) ([]quiz.Question, error)
}

// Service runs the full supply cycle: plan against the bank, generate
// the shortfall, merge, order, and truncate to the requested count.
type Service struct {
	planner   *Planner
	generator Generator
	history   *history.File
}

// NewService creates a Service. generator may be nil, in which case any
// shortfall surfaces as a degraded (bank-only) result. hist may be nil
// to disable per-user seen-filtering and recording.
func NewService(questions store.QuestionRepo, generator Generator, hist *history.File) *Service {
	return &Service{
		planner:   NewPlanner(questions),
		generator: generator,
		history:   hist,
	}
}

// Fetch assembles a quiz for the request. On generation failure it
// returns the bank-sourced partial set alongside the error so the
// caller can choose a degraded quiz over none; a nil error means the
// full requested count was assembled.
func (s *Service) Fetch(ctx context.Context, req quiz.SupplyRequest) ([]quiz.Question, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	seen, err := s.seenFor(req)
	if err != nil {
		return nil, err
	}

	usable, shortfall, err := s.planner.Plan(ctx, req.Scope, req.Count, req.Mix, seen)
	if err != nil {
		return nil, err
	}

	if shortfall.Total() == 0 {
		return orderQuestions(usable, req.Count), nil
	}

	if s.generator == nil {
		return orderQuestions(usable, req.Count),
			fmt.Errorf("%d questions short and no generator configured", shortfall.Total())
	}

	generated, err := s.generator.Fill(ctx, req.Scope, shortfall, seen)
	if err != nil {
		// The bank-sourced partial is still a usable degraded quiz.
		return orderQuestions(usable, req.Count), fmt.Errorf("fill shortfall: %w", err)
	}

	return orderQuestions(append(usable, generated...), req.Count), nil
}

// RecordShown appends the served questions to the user's history.
// Call it once the quiz is actually presented, not at fetch time, so an
// abandoned fetch doesn't poison the seen-set.
func (s *Service) RecordShown(user string, scope quiz.Scope, questions []quiz.Question) error {
	if s.history == nil || user == "" {
		return nil
	}
	texts := make([]string, len(questions))
	for i, q := range questions {
		texts[i] = q.Text
	}
	return s.history.Append(user, scope, texts)
}

func (s *Service) seenFor(req quiz.SupplyRequest) (map[string]struct{}, error) {
	if s.history == nil || req.User == "" {
		return nil, nil
	}
	seen, err := s.history.Seen(req.User, req.Scope)
	if err != nil {
		return nil, fmt.Errorf("load seen questions: %w", err)
	}
	return seen, nil
}

// orderQuestions sorts Easy before Medium before Hard, keeping the
// within-bucket order stable (bank-sourced rows precede generated
// ones), and truncates to at most count.
func orderQuestions(questions []quiz.Question, count int) []quiz.Question {
	rank := map[quiz.Difficulty]int{quiz.Easy: 0, quiz.Medium: 1, quiz.Hard: 2}
	sort.SliceStable(questions, func(i, j int) bool {
		return rank[questions[i].Difficulty] < rank[questions[j].Difficulty]
	})
	if len(questions) > count {
		questions = questions[:count]
	}
	return questions
}
