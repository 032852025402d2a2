package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PRIYADHARSANK/Study-Tool/internal/domain"
	"github.com/PRIYADHARSANK/Study-Tool/internal/state"
)

func testRepo(t *testing.T) *SessionRepository {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "studytool.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSessionRepository(db)
}

func TestCreateAndLoadEmptySession(t *testing.T) {
	repo := testRepo(t)

	id, err := repo.Create()
	require.NoError(t, err)
	require.NotEmpty(t, id)

	s, ok, err := repo.Load(id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, state.ViewChat, s.View)
	assert.Nil(t, s.Document)
	assert.Empty(t, s.Chat)
}

func TestLoadUnknownSession(t *testing.T) {
	repo := testRepo(t)

	_, ok, err := repo.Load("no-such-session")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	repo := testRepo(t)
	id, err := repo.Create()
	require.NoError(t, err)

	s := state.New()
	s.Document = &domain.Document{
		Name:    "notes.pdf",
		DataURI: "data:application/pdf;base64,JVBERi0=",
		Text:    "lecture notes",
	}
	s.View = state.ViewSummary
	s.Summary = "- key point"
	s.Quiz = &domain.Quiz{Questions: []domain.QuizQuestion{{
		Question:      "What is 2+2?",
		Options:       []string{"3", "4", "5", "6"},
		CorrectAnswer: "4",
	}}}
	s.Chat = []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "What is the main topic?"},
		{Role: domain.RoleAssistant, Content: "Arithmetic."},
	}
	s.Loading.Summary = true // must not survive the round trip

	require.NoError(t, repo.Save(id, s))

	loaded, ok, err := repo.Load(id)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, s.Document, loaded.Document)
	assert.Equal(t, state.ViewSummary, loaded.View)
	assert.Equal(t, s.Summary, loaded.Summary)
	assert.Equal(t, s.Quiz, loaded.Quiz)
	assert.Equal(t, s.Chat, loaded.Chat)
	assert.Equal(t, state.Loading{}, loaded.Loading)
}

func TestSaveRewritesTranscript(t *testing.T) {
	repo := testRepo(t)
	id, err := repo.Create()
	require.NoError(t, err)

	s := state.New()
	s.Document = &domain.Document{Name: "notes.pdf", DataURI: "data:application/pdf;base64,AA=="}
	s.Chat = []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "first"},
		{Role: domain.RoleAssistant, Content: "second"},
	}
	require.NoError(t, repo.Save(id, s))

	// Rollback: the trailing user turn is gone in the new snapshot.
	s.Chat = s.Chat[:1]
	require.NoError(t, repo.Save(id, s))

	loaded, ok, err := repo.Load(id)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, loaded.Chat, 1)
	assert.Equal(t, "first", loaded.Chat[0].Content)
}

func TestSaveUnknownSession(t *testing.T) {
	repo := testRepo(t)
	err := repo.Save("no-such-session", state.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
