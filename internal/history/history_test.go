package history

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizwiz/quizwiz/internal/quiz"
)

func testFile(t *testing.T) *File {
	t.Helper()
	return NewFile(filepath.Join(t.TempDir(), "history.json"))
}

func arithmeticScope() quiz.Scope {
	return quiz.Scope{Grade: 6, Board: quiz.CBSE, Topic: "arithmetic"}
}

func TestAppendAndEntries(t *testing.T) {
	f := testFile(t)
	scope := arithmeticScope()

	require.NoError(t, f.Append("Asha", scope, []string{"What is 2+2?", "What is 3*3?"}))
	require.NoError(t, f.Append("Asha", scope, []string{"What is 10/2?"}))

	entries, err := f.Entries("Asha")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, 6, entries[0].Grade)
	assert.Equal(t, quiz.CBSE, entries[0].Board)
	assert.Equal(t, "arithmetic", entries[0].Topic)
	assert.Equal(t, []string{"What is 2+2?", "What is 3*3?"}, entries[0].Questions)
	assert.NotEmpty(t, entries[0].ID)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
	assert.False(t, entries[0].Timestamp.IsZero())
}

func TestAppendRequiresUser(t *testing.T) {
	f := testFile(t)
	assert.Error(t, f.Append("", arithmeticScope(), []string{"q"}))
}

func TestSeenAccumulatesAcrossQuizzes(t *testing.T) {
	f := testFile(t)
	scope := arithmeticScope()

	require.NoError(t, f.Append("Asha", scope, []string{"What is 2+2?"}))
	require.NoError(t, f.Append("Asha", scope, []string{"  What is 3*3?  "}))

	seen, err := f.Seen("Asha", scope)
	require.NoError(t, err)

	assert.Contains(t, seen, "what is 2+2?")
	assert.Contains(t, seen, "what is 3*3?")
	assert.Len(t, seen, 2)
}

func TestSeenTopicCaseInsensitive(t *testing.T) {
	f := testFile(t)

	require.NoError(t, f.Append("Asha", quiz.Scope{Grade: 6, Board: quiz.CBSE, Topic: "Arithmetic"}, []string{"What is 2+2?"}))

	seen, err := f.Seen("Asha", quiz.Scope{Grade: 6, Board: quiz.CBSE, Topic: "arithmetic"})
	require.NoError(t, err)
	assert.Contains(t, seen, "what is 2+2?")
}

func TestSeenScopedToGradeBoardAndUser(t *testing.T) {
	f := testFile(t)
	scope := arithmeticScope()

	require.NoError(t, f.Append("Asha", scope, []string{"What is 2+2?"}))

	other, err := f.Seen("Asha", quiz.Scope{Grade: 7, Board: quiz.CBSE, Topic: "arithmetic"})
	require.NoError(t, err)
	assert.Empty(t, other)

	other, err = f.Seen("Asha", quiz.Scope{Grade: 6, Board: quiz.IB, Topic: "arithmetic"})
	require.NoError(t, err)
	assert.Empty(t, other)

	// User identifiers are case-sensitive.
	other, err = f.Seen("asha", scope)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSeenMissingFile(t *testing.T) {
	f := testFile(t)
	seen, err := f.Seen("Nobody", arithmeticScope())
	require.NoError(t, err)
	assert.Empty(t, seen)
}
