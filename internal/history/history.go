// Package history tracks which questions each user has been shown,
// backed by an append-only JSON file. The planner consults it to avoid
// resurfacing questions across quizzes.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quizwiz/quizwiz/internal/quiz"
	"github.com/quizwiz/quizwiz/internal/store"
)

// Entry records one completed quiz generation for a user.
type Entry struct {
	ID        string     `json:"id"`
	Grade     int        `json:"grade"`
	Board     quiz.Board `json:"board"`
	Topic     string     `json:"topic"`
	Questions []string   `json:"questions"`
	Timestamp time.Time  `json:"timestamp"`
}

// userRecord holds all quiz entries for one user, oldest first.
type userRecord struct {
	Quizzes []Entry `json:"quizzes"`
}

// File is a JSON-file-backed history. Saves are read-modify-write;
// entries are only ever appended, never mutated or deleted.
type File struct {
	path string
}

// NewFile creates a File at the given path. The file itself is created
// lazily on first append.
func NewFile(path string) *File {
	return &File{path: path}
}

// DefaultPath resolves the history file path in priority order:
// 1. QUIZWIZ_HISTORY environment variable
// 2. $XDG_DATA_HOME/quizwiz/history.json
// 3. ~/.local/share/quizwiz/history.json
func DefaultPath() (string, error) {
	if p := os.Getenv("QUIZWIZ_HISTORY"); p != "" {
		return p, store.EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "quizwiz", "history.json")
	return p, store.EnsureDir(p)
}

// Append records the question texts shown to user for the given scope.
// User identifiers are case-sensitive.
func (f *File) Append(user string, scope quiz.Scope, questionTexts []string) error {
	if user == "" {
		return fmt.Errorf("user is required")
	}

	records, err := f.load()
	if err != nil {
		return err
	}

	rec := records[user]
	if rec == nil {
		rec = &userRecord{}
		records[user] = rec
	}

	rec.Quizzes = append(rec.Quizzes, Entry{
		ID:        uuid.NewString(),
		Grade:     scope.Grade,
		Board:     scope.Board,
		Topic:     scope.Topic,
		Questions: questionTexts,
		Timestamp: time.Now().UTC(),
	})

	return f.save(records)
}

// Seen returns the normalized texts of every question the user has been
// shown for the scope. Topic matching is case-insensitive even though
// topics are stored as entered.
func (f *File) Seen(user string, scope quiz.Scope) (map[string]struct{}, error) {
	records, err := f.load()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	rec := records[user]
	if rec == nil {
		return seen, nil
	}

	topic := strings.ToLower(strings.TrimSpace(scope.Topic))
	for _, e := range rec.Quizzes {
		if e.Grade != scope.Grade || e.Board != scope.Board {
			continue
		}
		if strings.ToLower(strings.TrimSpace(e.Topic)) != topic {
			continue
		}
		for _, q := range e.Questions {
			seen[quiz.NormalizeText(q)] = struct{}{}
		}
	}

	return seen, nil
}

// Entries returns the user's quiz entries, oldest first.
func (f *File) Entries(user string) ([]Entry, error) {
	records, err := f.load()
	if err != nil {
		return nil, err
	}
	rec := records[user]
	if rec == nil {
		return nil, nil
	}
	return rec.Quizzes, nil
}

func (f *File) load() (map[string]*userRecord, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(map[string]*userRecord), nil
		}
		return nil, fmt.Errorf("read history: %w", err)
	}

	records := make(map[string]*userRecord)
	if len(data) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}
	return records, nil
}

func (f *File) save(records map[string]*userRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := store.EnsureDir(f.path); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}
