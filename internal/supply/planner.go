// Package supply reconciles quiz requests against the question bank:
// it decides how much of a request the bank can satisfy, how much must
// be freshly generated, and merges the two into the final quiz.
package supply

import (
	"context"
	"fmt"

	"github.com/quizwiz/quizwiz/internal/quiz"
	"github.com/quizwiz/quizwiz/internal/store"
)

// overFetchMultiplier is applied to sample limits when a seen-set is in
// play: sampling extra compensates for rows lost to seen-filtering.
const overFetchMultiplier = 2

// SplitCounts converts a percentage mix into per-difficulty question
// counts. Easy and Medium floor independently; Hard takes the remainder
// so the three always sum to total exactly, whatever the rounding.
func SplitCounts(total int, mix quiz.Mix) map[quiz.Difficulty]int {
	easy := total * mix[quiz.Easy] / 100
	medium := total * mix[quiz.Medium] / 100
	return map[quiz.Difficulty]int{
		quiz.Easy:   easy,
		quiz.Medium: medium,
		quiz.Hard:   total - easy - medium,
	}
}

// Planner computes what the bank can supply for a request.
type Planner struct {
	Questions store.QuestionRepo
}

// NewPlanner creates a Planner over the given repo.
func NewPlanner(questions store.QuestionRepo) *Planner {
	return &Planner{Questions: questions}
}

// Plan samples the bank per difficulty, filters out questions the user
// has already seen, and reports the remaining shortfall per difficulty.
// The returned questions are grouped Easy, Medium, Hard.
func (p *Planner) Plan(ctx context.Context, scope quiz.Scope, total int, mix quiz.Mix, seen map[string]struct{}) ([]quiz.Question, quiz.Shortfall, error) {
	targets := SplitCounts(total, mix)

	multiplier := 1
	if len(seen) > 0 {
		multiplier = overFetchMultiplier
	}

	var usable []quiz.Question
	shortfall := quiz.Shortfall{}

	for _, difficulty := range quiz.Difficulties {
		target := targets[difficulty]
		if target <= 0 {
			continue
		}

		sampled, err := p.Questions.Sample(ctx, scope, difficulty, target*multiplier, true)
		if err != nil {
			return nil, nil, fmt.Errorf("sample %s questions: %w", difficulty, err)
		}

		kept := 0
		for _, q := range sampled {
			if kept == target {
				break
			}
			if _, ok := seen[quiz.NormalizeText(q.Text)]; ok {
				continue
			}
			usable = append(usable, q)
			kept++
		}

		if kept < target {
			shortfall[difficulty] = target - kept
		}
	}

	return usable, shortfall, nil
}
