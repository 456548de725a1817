package questiongen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/quizwiz/quizwiz/internal/llm"
	"github.com/quizwiz/quizwiz/internal/quiz"
	"github.com/quizwiz/quizwiz/internal/store"
)

// memRepo is a minimal in-memory QuestionRepo recording what the
// gateway persists.
type memRepo struct {
	saved []quiz.Question
}

func (m *memRepo) SaveBatch(_ context.Context, scope quiz.Scope, records []quiz.Question) (int, int, error) {
	saved, skipped := 0, 0
	for _, q := range records {
		dup := false
		for _, existing := range m.saved {
			if existing.Scope == scope && existing.Text == q.Text {
				dup = true
				break
			}
		}
		if dup {
			skipped++
			continue
		}
		m.saved = append(m.saved, q)
		saved++
	}
	return saved, skipped, nil
}

func (m *memRepo) Count(context.Context, quiz.Scope, *quiz.Difficulty) (int, error) {
	return len(m.saved), nil
}

func (m *memRepo) Sample(context.Context, quiz.Scope, quiz.Difficulty, int, bool) ([]quiz.Question, error) {
	return nil, nil
}

func (m *memRepo) Invalidate(context.Context, quiz.Scope, string) (bool, error) {
	return false, nil
}

func (m *memRepo) InvalidReport(context.Context, store.InvalidFilter) ([]quiz.Question, error) {
	return nil, nil
}

func (m *memRepo) CountInvalid(context.Context, store.InvalidFilter) (int, error) {
	return 0, nil
}

func batchJSON(t *testing.T, n int) string {
	t.Helper()
	type rec struct {
		Question      string   `json:"question"`
		Options       []string `json:"options"`
		CorrectAnswer any      `json:"correct_answer"`
		Difficulty    string   `json:"difficulty"`
	}
	recs := make([]rec, n)
	for i := range recs {
		recs[i] = rec{
			Question:      fmt.Sprintf("What is %d + %d?", i, i),
			Options:       []string{"1", "2", "3", "4"},
			CorrectAnswer: i % 4,
			Difficulty:    "Easy",
		}
	}
	data, err := json.Marshal(recs)
	if err != nil {
		t.Fatalf("marshal batch: %v", err)
	}
	return string(data)
}

func gatewayScope() quiz.Scope {
	return quiz.Scope{Grade: 6, Board: quiz.CBSE, Topic: "arithmetic"}
}

func TestFillGeneratesAndPersists(t *testing.T) {
	body := "```json\n" + batchJSON(t, 3) + "\n```"
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(body)})
	repo := &memRepo{}
	gw := New(mock, repo, DefaultConfig())

	got, err := gw.Fill(context.Background(), gatewayScope(), quiz.Shortfall{quiz.Easy: 3}, nil)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d questions, want 3", len(got))
	}
	if len(repo.saved) != 3 {
		t.Errorf("persisted %d questions, want 3", len(repo.saved))
	}
	for _, q := range got {
		if q.Scope != gatewayScope() || !q.Valid {
			t.Errorf("question not scoped and valid: %+v", q)
		}
	}
}

func TestFillTruncatesButPersistsAll(t *testing.T) {
	// Backend over-produces: 7 returned for a shortfall of 5.
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(batchJSON(t, 7))})
	repo := &memRepo{}
	gw := New(mock, repo, DefaultConfig())

	got, err := gw.Fill(context.Background(), gatewayScope(), quiz.Shortfall{quiz.Easy: 5}, nil)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if len(got) != 5 {
		t.Errorf("got %d questions, want exactly 5", len(got))
	}
	if len(repo.saved) != 7 {
		t.Errorf("persisted %d questions, want the full batch of 7", len(repo.saved))
	}
}

func TestFillWrapsSingleObjectResponse(t *testing.T) {
	body := `{"question":"What is 5*5?","options":["20","25","30","35"],"correct_answer":"B","difficulty":"Medium"}`
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(body)})
	repo := &memRepo{}
	gw := New(mock, repo, DefaultConfig())

	got, err := gw.Fill(context.Background(), gatewayScope(), quiz.Shortfall{quiz.Medium: 1}, nil)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d questions, want 1", len(got))
	}
	if got[0].Answer != 1 {
		t.Errorf("answer = %d, want 1 (letter B)", got[0].Answer)
	}
}

func TestFillZeroShortfallSkipsBackend(t *testing.T) {
	mock := llm.NewMockProvider()
	gw := New(mock, &memRepo{}, DefaultConfig())

	got, err := gw.Fill(context.Background(), gatewayScope(), quiz.Shortfall{}, nil)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if got != nil {
		t.Errorf("got %d questions, want none", len(got))
	}
	if mock.CallCount() != 0 {
		t.Errorf("backend called %d times, want 0", mock.CallCount())
	}
}

func TestFillPropagatesBackendFailure(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	gw := New(mock, &memRepo{}, DefaultConfig())

	_, err := gw.Fill(context.Background(), gatewayScope(), quiz.Shortfall{quiz.Easy: 1}, nil)
	var unavailable *llm.ErrProviderUnavailable
	if !errors.As(err, &unavailable) {
		t.Errorf("want ErrProviderUnavailable, got %v", err)
	}
}

func TestFillMalformedResponsePersistsNothing(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("I could not produce questions today.")})
	repo := &memRepo{}
	gw := New(mock, repo, DefaultConfig())

	_, err := gw.Fill(context.Background(), gatewayScope(), quiz.Shortfall{quiz.Easy: 2}, nil)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("want ErrMalformedResponse, got %v", err)
	}
	if len(repo.saved) != 0 {
		t.Errorf("persisted %d questions from a malformed response", len(repo.saved))
	}
}

func TestFillEmbedsSeenTextsInPrompt(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(batchJSON(t, 1))})
	gw := New(mock, &memRepo{}, DefaultConfig())

	seen := map[string]struct{}{"what is 1 + 1?": {}}
	if _, err := gw.Fill(context.Background(), gatewayScope(), quiz.Shortfall{quiz.Easy: 1}, seen); err != nil {
		t.Fatalf("fill: %v", err)
	}

	if len(mock.Calls) != 1 {
		t.Fatalf("backend called %d times, want 1", len(mock.Calls))
	}
	prompt := mock.Calls[0].Messages[0].Content
	if !strings.Contains(prompt, "what is 1 + 1?") {
		t.Errorf("prompt missing seen text:\n%s", prompt)
	}
}
