package supply

import (
	"context"
	"fmt"
	"testing"

	"github.com/quizwiz/quizwiz/internal/quiz"
	"github.com/quizwiz/quizwiz/internal/store"
)

// fakeRepo is an in-memory QuestionRepo for planner tests. Sample
// returns questions in insertion order regardless of randomized, which
// keeps assertions deterministic.
type fakeRepo struct {
	questions []quiz.Question

	// sampleLimits records the limit passed to each Sample call, keyed
	// by difficulty.
	sampleLimits map[quiz.Difficulty]int

	saveBatches [][]quiz.Question
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{sampleLimits: make(map[quiz.Difficulty]int)}
}

func (f *fakeRepo) add(scope quiz.Scope, difficulty quiz.Difficulty, texts ...string) {
	for _, text := range texts {
		f.questions = append(f.questions, quiz.Question{
			Scope:      scope,
			Text:       text,
			Options:    []string{"1", "2", "3", "4"},
			Answer:     0,
			Difficulty: difficulty,
			Valid:      true,
		})
	}
}

func (f *fakeRepo) SaveBatch(_ context.Context, scope quiz.Scope, records []quiz.Question) (int, int, error) {
	saved, skipped := 0, 0
	for _, q := range records {
		dup := false
		for _, existing := range f.questions {
			if existing.Scope == scope && existing.Text == q.Text {
				dup = true
				break
			}
		}
		if dup {
			skipped++
			continue
		}
		q.Scope = scope
		q.Valid = true
		f.questions = append(f.questions, q)
		saved++
	}
	f.saveBatches = append(f.saveBatches, records)
	return saved, skipped, nil
}

func (f *fakeRepo) Count(_ context.Context, scope quiz.Scope, difficulty *quiz.Difficulty) (int, error) {
	n := 0
	for _, q := range f.questions {
		if q.Scope == scope && q.Valid && (difficulty == nil || q.Difficulty == *difficulty) {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) Sample(_ context.Context, scope quiz.Scope, difficulty quiz.Difficulty, limit int, _ bool) ([]quiz.Question, error) {
	f.sampleLimits[difficulty] = limit
	var out []quiz.Question
	for _, q := range f.questions {
		if len(out) == limit {
			break
		}
		if q.Scope == scope && q.Valid && q.Difficulty == difficulty {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeRepo) Invalidate(_ context.Context, scope quiz.Scope, text string) (bool, error) {
	for i, q := range f.questions {
		if q.Scope == scope && q.Text == text && q.Valid {
			f.questions[i].Valid = false
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) InvalidReport(_ context.Context, _ store.InvalidFilter) ([]quiz.Question, error) {
	var out []quiz.Question
	for _, q := range f.questions {
		if !q.Valid {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeRepo) CountInvalid(_ context.Context, filter store.InvalidFilter) (int, error) {
	qs, _ := f.InvalidReport(context.Background(), filter)
	return len(qs), nil
}

func planScope() quiz.Scope {
	return quiz.Scope{Grade: 6, Board: quiz.CBSE, Topic: "arithmetic"}
}

func TestSplitCountsSumInvariant(t *testing.T) {
	tests := []struct {
		total int
		mix   quiz.Mix
		want  map[quiz.Difficulty]int
	}{
		{10, quiz.Mix{quiz.Easy: 50, quiz.Medium: 30, quiz.Hard: 20}, map[quiz.Difficulty]int{quiz.Easy: 5, quiz.Medium: 3, quiz.Hard: 2}},
		{10, quiz.Mix{quiz.Easy: 33, quiz.Medium: 33, quiz.Hard: 34}, map[quiz.Difficulty]int{quiz.Easy: 3, quiz.Medium: 3, quiz.Hard: 4}},
		{7, quiz.Mix{quiz.Easy: 30, quiz.Medium: 40, quiz.Hard: 30}, map[quiz.Difficulty]int{quiz.Easy: 2, quiz.Medium: 2, quiz.Hard: 3}},
		{1, quiz.Mix{quiz.Easy: 100, quiz.Medium: 0, quiz.Hard: 0}, map[quiz.Difficulty]int{quiz.Easy: 1, quiz.Medium: 0, quiz.Hard: 0}},
		{5, quiz.Mix{quiz.Easy: 0, quiz.Medium: 0, quiz.Hard: 100}, map[quiz.Difficulty]int{quiz.Easy: 0, quiz.Medium: 0, quiz.Hard: 5}},
	}

	for _, tt := range tests {
		got := SplitCounts(tt.total, tt.mix)
		sum := got[quiz.Easy] + got[quiz.Medium] + got[quiz.Hard]
		if sum != tt.total {
			t.Errorf("SplitCounts(%d, %v): counts sum to %d, want %d", tt.total, tt.mix, sum, tt.total)
		}
		for _, d := range quiz.Difficulties {
			if got[d] != tt.want[d] {
				t.Errorf("SplitCounts(%d, %v)[%s] = %d, want %d", tt.total, tt.mix, d, got[d], tt.want[d])
			}
		}
	}
}

func TestSplitCountsRemainderGoesToHard(t *testing.T) {
	// 10 questions at 25/25/50: Easy and Medium floor to 2 each,
	// Hard absorbs the remaining 6 rather than flooring to 5.
	got := SplitCounts(10, quiz.Mix{quiz.Easy: 25, quiz.Medium: 25, quiz.Hard: 50})
	if got[quiz.Hard] != 6 {
		t.Errorf("hard count = %d, want 6", got[quiz.Hard])
	}
}

func TestPlanShortfall(t *testing.T) {
	repo := newFakeRepo()
	scope := planScope()
	repo.add(scope, quiz.Easy, "E1", "E2", "E3", "E4", "E5")
	repo.add(scope, quiz.Medium, "M1", "M2", "M3")

	usable, shortfall, err := NewPlanner(repo).Plan(context.Background(), scope, 10,
		quiz.Mix{quiz.Easy: 50, quiz.Medium: 30, quiz.Hard: 20}, nil)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}

	if len(usable) != 8 {
		t.Errorf("usable = %d questions, want 8", len(usable))
	}
	if shortfall[quiz.Easy] != 0 || shortfall[quiz.Medium] != 0 || shortfall[quiz.Hard] != 2 {
		t.Errorf("shortfall = %v, want Hard:2 only", shortfall)
	}
	if shortfall.Total() != 2 {
		t.Errorf("total shortfall = %d, want 2", shortfall.Total())
	}
}

func TestPlanFullySupplied(t *testing.T) {
	repo := newFakeRepo()
	scope := planScope()
	repo.add(scope, quiz.Easy, "E1", "E2", "E3")
	repo.add(scope, quiz.Medium, "M1", "M2", "M3")
	repo.add(scope, quiz.Hard, "H1", "H2", "H3")

	usable, shortfall, err := NewPlanner(repo).Plan(context.Background(), scope, 6,
		quiz.Mix{quiz.Easy: 34, quiz.Medium: 33, quiz.Hard: 33}, nil)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(usable) != 6 {
		t.Errorf("usable = %d, want 6", len(usable))
	}
	if shortfall.Total() != 0 {
		t.Errorf("shortfall = %v, want none", shortfall)
	}
}

func TestPlanFiltersSeenQuestions(t *testing.T) {
	repo := newFakeRepo()
	scope := planScope()
	repo.add(scope, quiz.Easy, "E1", "E2", "E3")

	seen := map[string]struct{}{
		quiz.NormalizeText("  e2  "): {}, // trimmed, case-insensitive match
	}

	usable, shortfall, err := NewPlanner(repo).Plan(context.Background(), scope, 3,
		quiz.Mix{quiz.Easy: 100}, seen)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}

	for _, q := range usable {
		if q.Text == "E2" {
			t.Error("seen question E2 returned as usable")
		}
	}
	if len(usable) != 2 {
		t.Errorf("usable = %d, want 2", len(usable))
	}
	if shortfall[quiz.Easy] != 1 {
		t.Errorf("easy shortfall = %d, want 1", shortfall[quiz.Easy])
	}
}

func TestPlanOverFetchesWithSeenSet(t *testing.T) {
	repo := newFakeRepo()
	scope := planScope()
	repo.add(scope, quiz.Easy, "E1", "E2")

	// No seen-set: limit equals the target.
	_, _, err := NewPlanner(repo).Plan(context.Background(), scope, 4, quiz.Mix{quiz.Easy: 100}, nil)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if got := repo.sampleLimits[quiz.Easy]; got != 4 {
		t.Errorf("sample limit without seen-set = %d, want 4", got)
	}

	// Non-empty seen-set: limit doubles.
	_, _, err = NewPlanner(repo).Plan(context.Background(), scope, 4, quiz.Mix{quiz.Easy: 100},
		map[string]struct{}{"something": {}})
	if err != nil {
		t.Fatalf("plan with seen: %v", err)
	}
	if got := repo.sampleLimits[quiz.Easy]; got != 8 {
		t.Errorf("sample limit with seen-set = %d, want 8", got)
	}
}

func TestPlanCapsAtTargetDespiteOverFetch(t *testing.T) {
	repo := newFakeRepo()
	scope := planScope()
	for i := 1; i <= 10; i++ {
		repo.add(scope, quiz.Easy, fmt.Sprintf("E%d", i))
	}

	usable, shortfall, err := NewPlanner(repo).Plan(context.Background(), scope, 3,
		quiz.Mix{quiz.Easy: 100}, map[string]struct{}{"unrelated": {}})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(usable) != 3 {
		t.Errorf("usable = %d, want 3 (over-fetch must not leak extras)", len(usable))
	}
	if shortfall.Total() != 0 {
		t.Errorf("shortfall = %v, want none", shortfall)
	}
}
