package service

import (
	"context"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/PRIYADHARSANK/Study-Tool/internal/domain"
	"github.com/PRIYADHARSANK/Study-Tool/internal/repository"
	"github.com/PRIYADHARSANK/Study-Tool/internal/speech"
	"github.com/PRIYADHARSANK/Study-Tool/internal/state"
)

// sessionHandle carries the runtime-only part of a session: the mutex
// serializing its transitions and the in-flight flags, which are never
// persisted.
type sessionHandle struct {
	mu      sync.Mutex
	loading state.Loading
}

// StudyService orchestrates sessions: it applies state transitions around the
// ingest and flow services and persists the result. Transitions for one
// session are serialized through its handle; the model call itself runs
// outside the lock so the session stays readable while a flow is in flight.
type StudyService struct {
	repo    *repository.SessionRepository
	ingest  *IngestService
	flows   *FlowService
	export  *ExportService
	speaker speech.Synthesizer
	logger  *zap.Logger

	mu      sync.Mutex
	handles map[string]*sessionHandle
}

// NewStudyService creates a new study service
func NewStudyService(
	repo *repository.SessionRepository,
	ingest *IngestService,
	flows *FlowService,
	export *ExportService,
	speaker speech.Synthesizer,
	logger *zap.Logger,
) *StudyService {
	return &StudyService{
		repo:    repo,
		ingest:  ingest,
		flows:   flows,
		export:  export,
		speaker: speaker,
		logger:  logger,
		handles: make(map[string]*sessionHandle),
	}
}

// CreateSession starts a new empty session and returns its ID.
func (s *StudyService) CreateSession() (string, error) {
	return s.repo.Create()
}

// GetState returns the current session state, including live loading flags.
func (s *StudyService) GetState(sessionID string) (state.State, error) {
	h := s.handle(sessionID)
	h.mu.Lock()
	defer h.mu.Unlock()
	return s.load(sessionID, h)
}

// UploadDocument ingests a file and makes it the active document, replacing
// any prior one and resetting dependent state. A rejected upload leaves the
// session untouched.
func (s *StudyService) UploadDocument(sessionID, name, contentType string, size int64, r io.Reader) (*domain.Document, error) {
	doc, err := s.ingest.Ingest(name, contentType, size, r)
	if err != nil {
		return nil, err
	}

	if err := s.apply(sessionID, state.DocumentSet{Document: doc}); err != nil {
		return nil, err
	}
	return doc, nil
}

// RemoveDocument clears the active document and resets the view to chat and
// the summary, quiz and chat history unconditionally.
func (s *StudyService) RemoveDocument(sessionID string) error {
	return s.apply(sessionID, state.DocumentCleared{})
}

// Summarize runs the summarize flow. The view switches to summary
// optimistically; on failure it reverts to chat and any previously displayed
// summary is kept.
func (s *StudyService) Summarize(ctx context.Context, sessionID string) (string, error) {
	doc, err := s.begin(sessionID, state.SummarizeStarted{})
	if err != nil {
		return "", err
	}

	summary, err := s.flows.Summarize(ctx, doc)
	if err != nil {
		s.finish(sessionID, state.SummarizeFailed{})
		return "", err
	}

	s.finish(sessionID, state.SummarizeSucceeded{Summary: summary})
	return summary, nil
}

// GenerateQuiz runs the quiz flow. When the request carries no previous
// questions, the session's current quiz is used to bias regeneration away
// from repeats.
func (s *StudyService) GenerateQuiz(ctx context.Context, sessionID string, previous []domain.QuizQuestion) (*domain.Quiz, error) {
	h := s.handle(sessionID)
	h.mu.Lock()
	cur, err := s.load(sessionID, h)
	if err != nil {
		h.mu.Unlock()
		return nil, err
	}
	if len(previous) == 0 && cur.Quiz != nil {
		previous = cur.Quiz.Questions
	}
	doc, err := s.transitionLocked(sessionID, h, cur, state.QuizStarted{})
	h.mu.Unlock()
	if err != nil {
		return nil, err
	}

	quiz, err := s.flows.GenerateQuiz(ctx, doc, previous)
	if err != nil {
		s.finish(sessionID, state.QuizFailed{})
		return nil, err
	}

	s.finish(sessionID, state.QuizSucceeded{Quiz: quiz})
	return quiz, nil
}

// Ask runs the question-answering flow. The user turn is appended
// optimistically and removed again if the call fails, so the transcript after
// a failed attempt equals the transcript before it.
func (s *StudyService) Ask(ctx context.Context, sessionID, question string) (string, error) {
	doc, err := s.begin(sessionID, state.AskStarted{Question: question})
	if err != nil {
		return "", err
	}

	answer, err := s.flows.Ask(ctx, doc, question)
	if err != nil {
		s.finish(sessionID, state.AskFailed{})
		return "", err
	}

	s.finish(sessionID, state.AskSucceeded{Answer: answer})

	if _, err := s.speaker.Speak(answer); err != nil {
		s.logger.Warn("speech synthesis failed", zap.Error(err))
	}

	return answer, nil
}

// ScoreQuiz computes the number of selections matching the correct answer.
// Requires a generated quiz and a complete selection set.
func (s *StudyService) ScoreQuiz(sessionID string, selections []string) (*domain.ScoreQuizResponse, error) {
	h := s.handle(sessionID)
	h.mu.Lock()
	defer h.mu.Unlock()

	cur, err := s.load(sessionID, h)
	if err != nil {
		return nil, err
	}
	if cur.Quiz == nil {
		return nil, domain.ErrNoDocument
	}
	if len(selections) != len(cur.Quiz.Questions) {
		return nil, domain.ErrValidation
	}

	score := 0
	for i, q := range cur.Quiz.Questions {
		if selections[i] == q.CorrectAnswer {
			score++
		}
	}

	return &domain.ScoreQuizResponse{
		Score: score,
		Total: len(cur.Quiz.Questions),
	}, nil
}

// ExportTranscript renders the session's chat transcript for download.
func (s *StudyService) ExportTranscript(sessionID, format string) (string, []byte, string, error) {
	h := s.handle(sessionID)
	h.mu.Lock()
	cur, err := s.load(sessionID, h)
	h.mu.Unlock()
	if err != nil {
		return "", nil, "", err
	}

	return s.export.Export(cur.Chat, format)
}

// begin applies a Started action and returns the active document for the
// flow call.
func (s *StudyService) begin(sessionID string, a state.Action) (*domain.Document, error) {
	h := s.handle(sessionID)
	h.mu.Lock()
	defer h.mu.Unlock()

	cur, err := s.load(sessionID, h)
	if err != nil {
		return nil, err
	}
	return s.transitionLocked(sessionID, h, cur, a)
}

// finish applies a completion action. Completion failures are logged, never
// surfaced: the caller already has the flow result or error.
func (s *StudyService) finish(sessionID string, a state.Action) {
	h := s.handle(sessionID)
	h.mu.Lock()
	defer h.mu.Unlock()

	cur, err := s.load(sessionID, h)
	if err != nil {
		s.logger.Error("load session for completion", zap.String("session", sessionID), zap.Error(err))
		return
	}
	if _, err := s.transitionLocked(sessionID, h, cur, a); err != nil {
		s.logger.Error("apply completion", zap.String("session", sessionID), zap.Error(err))
	}
}

// apply runs a single locked load-reduce-save.
func (s *StudyService) apply(sessionID string, a state.Action) error {
	h := s.handle(sessionID)
	h.mu.Lock()
	defer h.mu.Unlock()

	cur, err := s.load(sessionID, h)
	if err != nil {
		return err
	}
	_, err = s.transitionLocked(sessionID, h, cur, a)
	return err
}

// transitionLocked reduces, persists the snapshot and keeps the runtime
// loading flags on the handle. Callers must hold h.mu.
func (s *StudyService) transitionLocked(sessionID string, h *sessionHandle, cur state.State, a state.Action) (*domain.Document, error) {
	next, err := state.Reduce(cur, a)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(sessionID, next); err != nil {
		return nil, err
	}
	h.loading = next.Loading
	return next.Document, nil
}

// load reads the persisted snapshot and overlays the handle's live loading
// flags. Callers must hold h.mu.
func (s *StudyService) load(sessionID string, h *sessionHandle) (state.State, error) {
	cur, ok, err := s.repo.Load(sessionID)
	if err != nil {
		return state.State{}, err
	}
	if !ok {
		return state.State{}, domain.ErrNotFound
	}
	cur.Loading = h.loading
	return cur, nil
}

func (s *StudyService) handle(sessionID string) *sessionHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.handles[sessionID]
	if !ok {
		h = &sessionHandle{}
		s.handles[sessionID] = h
	}
	return h
}
