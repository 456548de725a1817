package questiongen

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/quizwiz/quizwiz/internal/quiz"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `[{"question":"q"}]`, `[{"question":"q"}]`},
		{"json fence", "```json\n[1,2]\n```", "[1,2]"},
		{"bare fence", "```\n[1,2]\n```", "[1,2]"},
		{"fence with preamble", "Here are your questions:\n```json\n[1]\n```", "[1]"},
		{"unterminated fence", "```json\n[1]", "[1]"},
		{"whitespace", "  \n[1]\n  ", "[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripFences(tt.in); got != tt.want {
				t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeAnswer(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{"integer index", `2`, 2, false},
		{"zero index", `0`, 0, false},
		{"upper letter", `"A"`, 0, false},
		{"lower letter", `"d"`, 3, false},
		{"letter with spaces", `" B "`, 1, false},
		{"quoted digit", `"3"`, 3, false},
		{"index too high", `4`, 0, true},
		{"negative index", `-1`, 0, true},
		{"letter out of range", `"E"`, 0, true},
		{"word", `"first"`, 0, true},
		{"missing", ``, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeAnswer(json.RawMessage(tt.raw))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("normalizeAnswer(%q): want error, got %d", tt.raw, got)
				}
				if !errors.Is(err, ErrMalformedResponse) {
					t.Errorf("normalizeAnswer(%q): error %v is not ErrMalformedResponse", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("normalizeAnswer(%q): %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("normalizeAnswer(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseBatchWrapsSingleObject(t *testing.T) {
	batch, err := parseBatch(`{"question":"What is 2+2?","options":["1","2","3","4"],"correct_answer":3,"difficulty":"Easy"}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(batch) != 1 {
		t.Fatalf("got %d records, want 1", len(batch))
	}
	if batch[0].Question != "What is 2+2?" {
		t.Errorf("question = %q", batch[0].Question)
	}
}

func TestParseBatchRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "not json", `42`, `"just a string"`} {
		if _, err := parseBatch(in); !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("parseBatch(%q): want ErrMalformedResponse, got %v", in, err)
		}
	}
}

func TestToQuestionsNormalizes(t *testing.T) {
	scope := quiz.Scope{Grade: 7, Board: quiz.ICSE, Topic: "fractions"}
	raws := []rawQuestion{
		{
			Question:      "  Which fraction equals 1/2?  ",
			Options:       []string{"2/4", "1/3", "3/4", "2/3"},
			CorrectAnswer: json.RawMessage(`"a"`),
			Difficulty:    "Medium",
		},
	}

	got, err := toQuestions(scope, raws)
	if err != nil {
		t.Fatalf("toQuestions: %v", err)
	}
	q := got[0]
	if q.Text != "Which fraction equals 1/2?" {
		t.Errorf("text not trimmed: %q", q.Text)
	}
	if q.Answer != 0 {
		t.Errorf("answer = %d, want 0", q.Answer)
	}
	if q.Difficulty != quiz.Medium {
		t.Errorf("difficulty = %s, want Medium", q.Difficulty)
	}
	if q.Scope != scope || !q.Valid {
		t.Errorf("scope/valid not set: %+v", q)
	}
}

func TestToQuestionsRejectsBadOptionCount(t *testing.T) {
	raws := []rawQuestion{
		{
			Question:      "Pick one",
			Options:       []string{"a", "b", "c"},
			CorrectAnswer: json.RawMessage(`0`),
			Difficulty:    "Easy",
		},
	}
	if _, err := toQuestions(quiz.Scope{Grade: 6, Board: quiz.CBSE, Topic: "t"}, raws); !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("want ErrMalformedResponse, got %v", err)
	}
}
