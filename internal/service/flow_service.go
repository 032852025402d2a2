package service

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/PRIYADHARSANK/Study-Tool/internal/domain"
	"github.com/PRIYADHARSANK/Study-Tool/internal/llm"
)

// Response size caps per flow.
const (
	summarizeMaxTokens = 1024
	quizMaxTokens      = 2048
	askMaxTokens       = 1024
)

// FlowService holds the three document-grounded AI operations. Each is a
// single call against the model provider with a fixed prompt and a strict
// output schema; the model is an untrusted boundary and any structural or
// semantic mismatch fails closed as ErrOperationFailed. Nothing is retried.
type FlowService struct {
	provider llm.Provider
	logger   *zap.Logger
}

// NewFlowService creates a new flow service
func NewFlowService(provider llm.Provider, logger *zap.Logger) *FlowService {
	return &FlowService{provider: provider, logger: logger}
}

// Summarize condenses the document into a bullet-oriented summary. The prompt
// asks for conciseness but no length bound is enforced by the caller.
func (s *FlowService) Summarize(ctx context.Context, doc *domain.Document) (string, error) {
	attachment, err := attachmentFor(doc)
	if err != nil {
		return "", s.operationFailed("summarize", err)
	}

	resp, err := s.provider.Generate(ctx, llm.Request{
		System: summarizeSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildSummarizeMessage()},
		},
		Document:  attachment,
		Schema:    SummarySchema,
		MaxTokens: summarizeMaxTokens,
	})
	if err != nil {
		return "", s.operationFailed("summarize", err)
	}

	var out domain.SummarizeResponse
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", s.operationFailed("summarize", err)
	}

	return out.Summary, nil
}

// GenerateQuiz produces exactly 3 questions with 4 options each. Previous
// questions, when given, bias the model away from repeats; uniqueness is
// advisory, not enforced.
func (s *FlowService) GenerateQuiz(ctx context.Context, doc *domain.Document, previous []domain.QuizQuestion) (*domain.Quiz, error) {
	attachment, err := attachmentFor(doc)
	if err != nil {
		return nil, s.operationFailed("quiz", err)
	}

	resp, err := s.provider.Generate(ctx, llm.Request{
		System: quizSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildQuizMessage(previous)},
		},
		Document:  attachment,
		Schema:    QuizSchema,
		MaxTokens: quizMaxTokens,
	})
	if err != nil {
		return nil, s.operationFailed("quiz", err)
	}

	var quiz domain.Quiz
	if err := json.Unmarshal(resp.Content, &quiz); err != nil {
		return nil, s.operationFailed("quiz", err)
	}

	if err := conformQuiz(&quiz); err != nil {
		return nil, s.operationFailed("quiz", err)
	}

	return &quiz, nil
}

// Ask answers a single free-text question about the document. Each call is
// stateless: the running chat history is not sent to the model.
func (s *FlowService) Ask(ctx context.Context, doc *domain.Document, question string) (string, error) {
	attachment, err := attachmentFor(doc)
	if err != nil {
		return "", s.operationFailed("ask", err)
	}

	resp, err := s.provider.Generate(ctx, llm.Request{
		System: askSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildAskMessage(question)},
		},
		Document:  attachment,
		Schema:    AnswerSchema,
		MaxTokens: askMaxTokens,
	})
	if err != nil {
		return "", s.operationFailed("ask", err)
	}

	var out domain.AskResponse
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", s.operationFailed("ask", err)
	}

	return out.Answer, nil
}

// conformQuiz enforces the semantic invariant the schema cannot express:
// every correctAnswer must be a member of its question's options. A quiz
// violating it would be unscoreable or always wrong, so the whole response is
// rejected.
func conformQuiz(quiz *domain.Quiz) error {
	if len(quiz.Questions) != domain.QuizQuestionCount {
		return fmt.Errorf("expected %d questions, got %d", domain.QuizQuestionCount, len(quiz.Questions))
	}
	for i, q := range quiz.Questions {
		if len(q.Options) != domain.QuizOptionCount {
			return fmt.Errorf("question %d: expected %d options, got %d", i, domain.QuizOptionCount, len(q.Options))
		}
		if !slices.Contains(q.Options, q.CorrectAnswer) {
			return fmt.Errorf("question %d: correct answer is not one of the options", i)
		}
	}
	return nil
}

// attachmentFor decodes the document's data URI back to raw bytes for the
// provider call.
func attachmentFor(doc *domain.Document) (*llm.Attachment, error) {
	if doc == nil {
		return nil, domain.ErrNoDocument
	}
	mimeType, data, err := DecodeDataURI(doc.DataURI)
	if err != nil {
		return nil, err
	}
	if mimeType != domain.MIMETypePDF {
		return nil, fmt.Errorf("%w: document payload is not a PDF", domain.ErrValidation)
	}
	return &llm.Attachment{
		Name:     doc.Name,
		MIMEType: mimeType,
		Data:     data,
		Text:     doc.Text,
	}, nil
}

func (s *FlowService) operationFailed(flow string, err error) error {
	s.logger.Error("flow failed", zap.String("flow", flow), zap.Error(err))
	return fmt.Errorf("%w: %s", domain.ErrOperationFailed, flow)
}
