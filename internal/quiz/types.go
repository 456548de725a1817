package quiz

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty labels a question's difficulty bucket.
type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// Difficulties lists all buckets in display and scoring order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// Points returns the score awarded for a correct answer at this difficulty.
func (d Difficulty) Points() int {
	switch d {
	case Easy:
		return 1
	case Medium:
		return 2
	case Hard:
		return 4
	}
	return 1
}

// IsValid reports whether d is one of the three known buckets.
func (d Difficulty) IsValid() bool {
	return d == Easy || d == Medium || d == Hard
}

// ParseDifficulty normalizes a free-form difficulty label ("easy", "HARD").
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// Board is the curriculum authority that scopes question content and style.
type Board string

const (
	CBSE Board = "CBSE"
	ICSE Board = "ICSE"
	IB   Board = "IB"
)

// Boards lists the supported curriculum boards.
var Boards = []Board{CBSE, ICSE, IB}

// IsValid reports whether b is a supported board.
func (b Board) IsValid() bool {
	return b == CBSE || b == ICSE || b == IB
}

// ParseBoard normalizes a board name ("cbse" -> CBSE).
func ParseBoard(s string) (Board, error) {
	b := Board(strings.ToUpper(strings.TrimSpace(s)))
	if !b.IsValid() {
		return "", fmt.Errorf("unknown board %q", s)
	}
	return b, nil
}

const (
	// MinGrade and MaxGrade bound the supported grade levels.
	MinGrade = 6
	MaxGrade = 12

	// NumOptions is the fixed option count for every question.
	NumOptions = 4
)

// Scope identifies a slice of the question bank: one grade, board, and topic.
// Topic is stored as entered; seen-set matching lowercases it separately.
type Scope struct {
	Grade int
	Board Board
	Topic string
}

func (s Scope) String() string {
	return fmt.Sprintf("grade %d / %s / %s", s.Grade, s.Board, s.Topic)
}

// Validate checks the scope's grade, board, and topic.
func (s Scope) Validate() error {
	if s.Grade < MinGrade || s.Grade > MaxGrade {
		return fmt.Errorf("grade %d out of range %d-%d", s.Grade, MinGrade, MaxGrade)
	}
	if !s.Board.IsValid() {
		return fmt.Errorf("unknown board %q", s.Board)
	}
	if strings.TrimSpace(s.Topic) == "" {
		return fmt.Errorf("topic is required")
	}
	return nil
}

// Question is a multiple-choice question as served to consumers.
type Question struct {
	Scope

	// Text is the question prompt. Together with Scope it forms the
	// question's identity in the bank.
	Text string

	// Options holds exactly NumOptions answer choices in display order.
	Options []string

	// Answer is the index (0-3) of the correct option.
	Answer int

	Difficulty Difficulty

	// Valid is false once a defect report against this question was confirmed.
	Valid bool

	CreatedAt  time.Time
	ReportedAt *time.Time
}

// Mix maps each difficulty to its requested percentage of the quiz.
// The caller is responsible for the percentages summing to 100.
type Mix map[Difficulty]int

// DefaultMix mirrors the product default of a mostly-medium quiz.
func DefaultMix() Mix {
	return Mix{Easy: 30, Medium: 40, Hard: 30}
}

// Shortfall counts the questions still needed per difficulty after the
// bank was consulted and already-seen questions were filtered out.
type Shortfall map[Difficulty]int

// Total returns the summed shortfall across all difficulties.
func (s Shortfall) Total() int {
	n := 0
	for _, c := range s {
		n += c
	}
	return n
}

// SupplyRequest asks for a quiz worth of questions.
type SupplyRequest struct {
	Scope

	// Count is the total number of questions wanted.
	Count int

	// Mix is the difficulty percentage breakdown.
	Mix Mix

	// User, when set, enables already-seen filtering for that user.
	User string
}

// Validate checks the request's scope, count, and mix.
func (r SupplyRequest) Validate() error {
	if err := r.Scope.Validate(); err != nil {
		return err
	}
	if r.Count <= 0 {
		return fmt.Errorf("question count must be positive, got %d", r.Count)
	}
	if len(r.Mix) == 0 {
		return fmt.Errorf("difficulty mix is required")
	}
	return nil
}

// NormalizeText canonicalizes question text for seen-set comparisons:
// surrounding whitespace is insignificant and matching is case-insensitive.
func NormalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
