package service

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/PRIYADHARSANK/Study-Tool/internal/domain"
	"github.com/PRIYADHARSANK/Study-Tool/internal/llm"
	"github.com/PRIYADHARSANK/Study-Tool/internal/repository"
	"github.com/PRIYADHARSANK/Study-Tool/internal/speech"
	"github.com/PRIYADHARSANK/Study-Tool/internal/state"
)

// recordingSynthesizer captures spoken text for assertions.
type recordingSynthesizer struct {
	mu     sync.Mutex
	spoken []string
}

func (r *recordingSynthesizer) Speak(text string) (speech.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spoken = append(r.spoken, text)
	return speech.Handle("test"), nil
}

func (r *recordingSynthesizer) Cancel(speech.Handle) {}

type studyFixture struct {
	svc     *StudyService
	mock    *llm.MockProvider
	speaker *recordingSynthesizer
}

func newStudyFixture(t *testing.T, responses ...llm.MockResponse) *studyFixture {
	t.Helper()

	db, err := repository.NewDB(filepath.Join(t.TempDir(), "studytool.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := zap.NewNop()
	mock := llm.NewMockProvider(responses...)
	speaker := &recordingSynthesizer{}

	svc := NewStudyService(
		repository.NewSessionRepository(db),
		NewIngestService(logger),
		NewFlowService(mock, logger),
		NewExportService(),
		speaker,
		logger,
	)

	return &studyFixture{svc: svc, mock: mock, speaker: speaker}
}

func (f *studyFixture) newSessionWithDoc(t *testing.T) string {
	t.Helper()
	id, err := f.svc.CreateSession()
	require.NoError(t, err)
	_, err = f.svc.UploadDocument(id, "notes.pdf", domain.MIMETypePDF, int64(len(pdfBytes)), bytes.NewReader(pdfBytes))
	require.NoError(t, err)
	return id
}

func TestUploadRejectionLeavesStateUntouched(t *testing.T) {
	f := newStudyFixture(t)
	id, err := f.svc.CreateSession()
	require.NoError(t, err)

	before, err := f.svc.GetState(id)
	require.NoError(t, err)

	_, err = f.svc.UploadDocument(id, "notes.txt", "text/plain", 10, bytes.NewReader([]byte("plain text")))
	require.ErrorIs(t, err, domain.ErrUnsupportedType)

	after, err := f.svc.GetState(id)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestOperationsWithoutDocument(t *testing.T) {
	f := newStudyFixture(t)
	id, err := f.svc.CreateSession()
	require.NoError(t, err)

	_, err = f.svc.Summarize(t.Context(), id)
	assert.ErrorIs(t, err, domain.ErrNoDocument)

	_, err = f.svc.GenerateQuiz(t.Context(), id, nil)
	assert.ErrorIs(t, err, domain.ErrNoDocument)

	_, err = f.svc.Ask(t.Context(), id, "anything?")
	assert.ErrorIs(t, err, domain.ErrNoDocument)

	assert.Equal(t, 0, f.mock.CallCount())
}

func TestUnknownSession(t *testing.T) {
	f := newStudyFixture(t)

	_, err := f.svc.GetState("no-such-session")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.Summarize(t.Context(), "no-such-session")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSummarizeSuccess(t *testing.T) {
	f := newStudyFixture(t, llm.MockResponse{
		Content: json.RawMessage(`{"summary": "- key concept"}`),
	})
	id := f.newSessionWithDoc(t)

	summary, err := f.svc.Summarize(t.Context(), id)
	require.NoError(t, err)
	assert.Equal(t, "- key concept", summary)

	st, err := f.svc.GetState(id)
	require.NoError(t, err)
	assert.Equal(t, state.ViewSummary, st.View)
	assert.Equal(t, "- key concept", st.Summary)
	assert.False(t, st.Loading.Summary)
}

func TestSummarizeFailureRevertsToChat(t *testing.T) {
	f := newStudyFixture(t, llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	id := f.newSessionWithDoc(t)

	_, err := f.svc.Summarize(t.Context(), id)
	require.ErrorIs(t, err, domain.ErrOperationFailed)

	st, err := f.svc.GetState(id)
	require.NoError(t, err)
	assert.Equal(t, state.ViewChat, st.View)
	assert.False(t, st.Loading.Summary)
}

func TestAskAppendsTwoMessages(t *testing.T) {
	f := newStudyFixture(t, llm.MockResponse{
		Content: json.RawMessage(`{"answer": "The main topic is arithmetic."}`),
	})
	id := f.newSessionWithDoc(t)

	answer, err := f.svc.Ask(t.Context(), id, "What is the main topic?")
	require.NoError(t, err)
	assert.Equal(t, "The main topic is arithmetic.", answer)

	st, err := f.svc.GetState(id)
	require.NoError(t, err)
	require.Len(t, st.Chat, 2)
	assert.Equal(t, domain.RoleUser, st.Chat[0].Role)
	assert.Equal(t, "What is the main topic?", st.Chat[0].Content)
	assert.Equal(t, domain.RoleAssistant, st.Chat[1].Role)

	// The successful answer is handed to the speech capability.
	assert.Equal(t, []string{"The main topic is arithmetic."}, f.speaker.spoken)
}

func TestAskFailureRollsBackTranscript(t *testing.T) {
	f := newStudyFixture(t,
		llm.MockResponse{Content: json.RawMessage(`{"answer": "fine"}`)},
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
	)
	id := f.newSessionWithDoc(t)

	_, err := f.svc.Ask(t.Context(), id, "first")
	require.NoError(t, err)

	before, err := f.svc.GetState(id)
	require.NoError(t, err)

	_, err = f.svc.Ask(t.Context(), id, "second")
	require.ErrorIs(t, err, domain.ErrOperationFailed)

	after, err := f.svc.GetState(id)
	require.NoError(t, err)
	assert.Equal(t, before.Chat, after.Chat)
	assert.Empty(t, f.speaker.spoken[1:])
}

func TestGenerateQuizRegenerationBiasesAgainstCurrent(t *testing.T) {
	f := newStudyFixture(t,
		llm.MockResponse{Content: validQuizJSON()},
		llm.MockResponse{Content: validQuizJSON()},
	)
	id := f.newSessionWithDoc(t)

	quiz, err := f.svc.GenerateQuiz(t.Context(), id, nil)
	require.NoError(t, err)
	require.Len(t, quiz.Questions, domain.QuizQuestionCount)

	// Regenerate without explicit previous questions; the stored quiz is used.
	_, err = f.svc.GenerateQuiz(t.Context(), id, nil)
	require.NoError(t, err)

	secondPrompt := f.mock.Calls[1].Messages[0].Content
	assert.Contains(t, secondPrompt, quiz.Questions[0].Question)
}

func TestScoreQuiz(t *testing.T) {
	f := newStudyFixture(t, llm.MockResponse{Content: validQuizJSON()})
	id := f.newSessionWithDoc(t)

	quiz, err := f.svc.GenerateQuiz(t.Context(), id, nil)
	require.NoError(t, err)

	// All correct.
	all := make([]string, len(quiz.Questions))
	for i, q := range quiz.Questions {
		all[i] = q.CorrectAnswer
	}
	res, err := f.svc.ScoreQuiz(id, all)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Score)
	assert.Equal(t, 3, res.Total)

	// One correct.
	one := []string{quiz.Questions[0].CorrectAnswer, "wrong", "wrong"}
	res, err = f.svc.ScoreQuiz(id, one)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Score)

	// Incomplete selection set.
	_, err = f.svc.ScoreQuiz(id, []string{"only one"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestScoreQuizWithoutQuiz(t *testing.T) {
	f := newStudyFixture(t)
	id := f.newSessionWithDoc(t)

	_, err := f.svc.ScoreQuiz(id, []string{"a", "b", "c"})
	assert.ErrorIs(t, err, domain.ErrNoDocument)
}

func TestRemoveDocumentResetsSession(t *testing.T) {
	f := newStudyFixture(t,
		llm.MockResponse{Content: json.RawMessage(`{"summary": "- something"}`)},
		llm.MockResponse{Content: json.RawMessage(`{"answer": "ok"}`)},
	)
	id := f.newSessionWithDoc(t)

	_, err := f.svc.Summarize(t.Context(), id)
	require.NoError(t, err)
	_, err = f.svc.Ask(t.Context(), id, "question")
	require.NoError(t, err)

	require.NoError(t, f.svc.RemoveDocument(id))

	st, err := f.svc.GetState(id)
	require.NoError(t, err)
	assert.Equal(t, state.ViewChat, st.View)
	assert.Nil(t, st.Document)
	assert.Empty(t, st.Summary)
	assert.Nil(t, st.Quiz)
	assert.Empty(t, st.Chat)
}

func TestNewUploadReplacesDocumentAndResets(t *testing.T) {
	f := newStudyFixture(t, llm.MockResponse{
		Content: json.RawMessage(`{"summary": "- old"}`),
	})
	id := f.newSessionWithDoc(t)

	_, err := f.svc.Summarize(t.Context(), id)
	require.NoError(t, err)

	_, err = f.svc.UploadDocument(id, "other.pdf", domain.MIMETypePDF, int64(len(pdfBytes)), bytes.NewReader(pdfBytes))
	require.NoError(t, err)

	st, err := f.svc.GetState(id)
	require.NoError(t, err)
	assert.Equal(t, "other.pdf", st.Document.Name)
	assert.Empty(t, st.Summary)
	assert.Equal(t, state.ViewChat, st.View)
}

func TestExportTranscript(t *testing.T) {
	f := newStudyFixture(t, llm.MockResponse{
		Content: json.RawMessage(`{"answer": "arithmetic"}`),
	})
	id := f.newSessionWithDoc(t)

	_, err := f.svc.Ask(t.Context(), id, "topic?")
	require.NoError(t, err)

	name, content, mimeType, err := f.svc.ExportTranscript(id, ExportFormatText)
	require.NoError(t, err)
	assert.Equal(t, "conversation.txt", name)
	assert.Equal(t, "text/plain; charset=utf-8", mimeType)
	assert.Contains(t, string(content), "You: topic?")
	assert.Contains(t, string(content), "Assistant: arithmetic")
}
