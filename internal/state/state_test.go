package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PRIYADHARSANK/Study-Tool/internal/domain"
)

func testDoc() *domain.Document {
	return &domain.Document{
		Name:    "notes.pdf",
		DataURI: "data:application/pdf;base64,JVBERi0=",
	}
}

func stateWithDoc(t *testing.T) State {
	t.Helper()
	s, err := Reduce(New(), DocumentSet{Document: testDoc()})
	require.NoError(t, err)
	return s
}

func TestNewState(t *testing.T) {
	s := New()
	assert.Equal(t, ViewChat, s.View)
	assert.Nil(t, s.Document)
	assert.Empty(t, s.Chat)
}

func TestDocumentSetResetsDependentState(t *testing.T) {
	s := stateWithDoc(t)
	s.Summary = "old summary"
	s.Quiz = &domain.Quiz{Questions: []domain.QuizQuestion{{Question: "q"}}}
	s.Chat = []domain.ChatMessage{{Role: domain.RoleUser, Content: "hi"}}
	s.View = ViewQuiz

	next, err := Reduce(s, DocumentSet{Document: &domain.Document{Name: "other.pdf"}})
	require.NoError(t, err)

	assert.Equal(t, "other.pdf", next.Document.Name)
	assert.Equal(t, ViewChat, next.View)
	assert.Empty(t, next.Summary)
	assert.Nil(t, next.Quiz)
	assert.Empty(t, next.Chat)
}

func TestDocumentClearedResetsEverything(t *testing.T) {
	s := stateWithDoc(t)
	s.Summary = "summary"
	s.Quiz = &domain.Quiz{}
	s.Chat = []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "q"},
		{Role: domain.RoleAssistant, Content: "a"},
	}
	s.View = ViewSummary

	next, err := Reduce(s, DocumentCleared{})
	require.NoError(t, err)
	assert.Equal(t, New(), next)
}

func TestOperationsRequireDocument(t *testing.T) {
	for _, a := range []Action{SummarizeStarted{}, QuizStarted{}, AskStarted{Question: "why"}} {
		_, err := Reduce(New(), a)
		assert.ErrorIs(t, err, domain.ErrNoDocument)
	}
}

func TestStartedWhileLoadingIsBusy(t *testing.T) {
	tests := []struct {
		name  string
		start Action
	}{
		{"summarize", SummarizeStarted{}},
		{"quiz", QuizStarted{}},
		{"ask", AskStarted{Question: "why"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := stateWithDoc(t)
			s, err := Reduce(s, tt.start)
			require.NoError(t, err)

			_, err = Reduce(s, tt.start)
			assert.ErrorIs(t, err, domain.ErrBusy)
		})
	}
}

func TestSummarizeOptimisticViewAndRevert(t *testing.T) {
	s := stateWithDoc(t)
	s.Summary = "previous summary"

	s, err := Reduce(s, SummarizeStarted{})
	require.NoError(t, err)
	assert.Equal(t, ViewSummary, s.View)
	assert.True(t, s.Loading.Summary)

	s, err = Reduce(s, SummarizeFailed{})
	require.NoError(t, err)
	assert.Equal(t, ViewChat, s.View)
	assert.False(t, s.Loading.Summary)
	// The previously displayed result is untouched.
	assert.Equal(t, "previous summary", s.Summary)
}

func TestSummarizeSucceeded(t *testing.T) {
	s := stateWithDoc(t)
	s, err := Reduce(s, SummarizeStarted{})
	require.NoError(t, err)

	s, err = Reduce(s, SummarizeSucceeded{Summary: "- point one\n- point two"})
	require.NoError(t, err)
	assert.Equal(t, "- point one\n- point two", s.Summary)
	assert.Equal(t, ViewSummary, s.View)
	assert.False(t, s.Loading.Summary)
}

func TestQuizFailureKeepsPreviousQuiz(t *testing.T) {
	prev := &domain.Quiz{Questions: []domain.QuizQuestion{{Question: "old"}}}
	s := stateWithDoc(t)
	s.Quiz = prev

	s, err := Reduce(s, QuizStarted{})
	require.NoError(t, err)
	assert.Equal(t, ViewQuiz, s.View)

	s, err = Reduce(s, QuizFailed{})
	require.NoError(t, err)
	assert.Equal(t, ViewChat, s.View)
	assert.Equal(t, prev, s.Quiz)
}

func TestAskRollbackRestoresChat(t *testing.T) {
	s := stateWithDoc(t)
	s, err := Reduce(s, AskStarted{Question: "first"})
	require.NoError(t, err)
	s, err = Reduce(s, AskSucceeded{Answer: "answer"})
	require.NoError(t, err)

	before := append([]domain.ChatMessage(nil), s.Chat...)

	s, err = Reduce(s, AskStarted{Question: "second"})
	require.NoError(t, err)
	require.Len(t, s.Chat, 3)

	s, err = Reduce(s, AskFailed{})
	require.NoError(t, err)
	assert.Equal(t, before, s.Chat)
	assert.False(t, s.Loading.Chat)
}

func TestAskAppendsUserThenAssistant(t *testing.T) {
	s := stateWithDoc(t)
	s, err := Reduce(s, AskStarted{Question: "What is the main topic?"})
	require.NoError(t, err)
	require.Len(t, s.Chat, 1)
	assert.Equal(t, domain.RoleUser, s.Chat[0].Role)

	s, err = Reduce(s, AskSucceeded{Answer: "The main topic is X."})
	require.NoError(t, err)
	require.Len(t, s.Chat, 2)
	assert.Equal(t, domain.RoleAssistant, s.Chat[1].Role)
}

func TestAskEmptyQuestionRejected(t *testing.T) {
	s := stateWithDoc(t)
	_, err := Reduce(s, AskStarted{Question: ""})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCompletionAfterDocumentRemovalIsDropped(t *testing.T) {
	s := stateWithDoc(t)
	s, err := Reduce(s, SummarizeStarted{})
	require.NoError(t, err)

	s, err = Reduce(s, DocumentCleared{})
	require.NoError(t, err)

	s, err = Reduce(s, SummarizeSucceeded{Summary: "late result"})
	require.NoError(t, err)
	assert.Empty(t, s.Summary)
	assert.Equal(t, New(), s)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := stateWithDoc(t)
	s, err := Reduce(s, AskStarted{Question: "q1"})
	require.NoError(t, err)
	s, err = Reduce(s, AskSucceeded{Answer: "a1"})
	require.NoError(t, err)

	snapshot := append([]domain.ChatMessage(nil), s.Chat...)

	_, err = Reduce(s, AskStarted{Question: "q2"})
	require.NoError(t, err)
	assert.Equal(t, snapshot, s.Chat)
}
