package store

import (
	"context"
	"time"

	"github.com/quizwiz/quizwiz/internal/quiz"
)

// QuestionRepo provides durable access to the question bank.
// All methods are safe for concurrent use from multiple sessions;
// the UNIQUE(grade, board, topic, text) constraint is the sole arbiter
// when two sessions race to insert the same question.
type QuestionRepo interface {
	// SaveBatch inserts the records under the given scope with
	// insert-if-absent semantics. A record whose identity tuple already
	// exists is counted as skipped, not an error. Any other failure
	// aborts the batch.
	SaveBatch(ctx context.Context, scope quiz.Scope, records []quiz.Question) (saved, skipped int, err error)

	// Count returns the number of valid questions in scope.
	// A nil difficulty counts across all difficulties.
	Count(ctx context.Context, scope quiz.Scope, difficulty *quiz.Difficulty) (int, error)

	// Sample returns up to limit valid questions in scope at the given
	// difficulty. When randomized, the selection is uniformly random among
	// all matching rows rather than the first N by insertion order.
	Sample(ctx context.Context, scope quiz.Scope, difficulty quiz.Difficulty, limit int, randomized bool) ([]quiz.Question, error)

	// Invalidate flips the exact question to invalid and stamps the report
	// time, only if it is currently valid. Returns whether a row changed.
	// The update is a single conditional statement: concurrent reports on
	// the same question see at most one true result.
	Invalidate(ctx context.Context, scope quiz.Scope, text string) (bool, error)

	// InvalidReport returns invalid questions matching the filter,
	// newest report first.
	InvalidReport(ctx context.Context, filter InvalidFilter) ([]quiz.Question, error)

	// CountInvalid returns the number of invalid questions matching the filter.
	CountInvalid(ctx context.Context, filter InvalidFilter) (int, error)
}

// InvalidFilter narrows an invalid-question report. Zero values mean "any".
type InvalidFilter struct {
	Grade int
	Board quiz.Board
	Topic string
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMEventRecord is a stored LLM request event.
type LLMEventRecord struct {
	ID int
	LLMRequestEventData
	Timestamp time.Time
}

// QueryOpts configures event queries.
type QueryOpts struct {
	// Limit caps the number of returned records. Zero means no limit.
	Limit int

	// Purpose filters to a single purpose label when non-empty.
	Purpose string
}

// PurposeUsage aggregates token usage per purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int
}

// ModelUsage aggregates token usage per model, for cost estimation.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides access to the LLM request audit log.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns recent events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)

	// UsageByPurpose aggregates token usage grouped by purpose.
	UsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// UsageByModel aggregates token usage grouped by model.
	UsageByModel(ctx context.Context) ([]ModelUsage, error)
}
