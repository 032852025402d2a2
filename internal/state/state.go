// Package state holds the per-session application state and the pure
// transitions that mutate it. Every mutation is expressed as
// previous state + action -> next state, so the rollback and reset rules are
// enforced structurally and unit-testable without HTTP or a model provider.
package state

import (
	"github.com/PRIYADHARSANK/Study-Tool/internal/domain"
)

// View is the active presentation view.
type View string

const (
	ViewChat    View = "chat"
	ViewSummary View = "summary"
	ViewQuiz    View = "quiz"
)

// Loading tracks at most one in-flight call per operation kind.
// Runtime-only; never persisted.
type Loading struct {
	Summary bool `json:"summary"`
	Quiz    bool `json:"quiz"`
	Chat    bool `json:"chat"`
}

// State is the full session state. Summary, Quiz and Chat are meaningless
// without an active Document; the reducer refuses to start any operation when
// Document is nil.
type State struct {
	Document *domain.Document     `json:"document,omitempty"`
	View     View                 `json:"activeView"`
	Summary  string               `json:"summary,omitempty"`
	Quiz     *domain.Quiz         `json:"quiz,omitempty"`
	Chat     []domain.ChatMessage `json:"chat"`
	Loading  Loading              `json:"loading"`
}

// New returns the zero session state: empty chat view, no document.
func New() State {
	return State{View: ViewChat}
}

// Action is a state transition input. Implementations are the only way to
// mutate a session.
type Action interface {
	isAction()
}

// DocumentSet replaces the active document. Any prior summary, quiz and chat
// history are cleared and the view resets to chat.
type DocumentSet struct {
	Document *domain.Document
}

// DocumentCleared removes the active document and resets the session
// unconditionally.
type DocumentCleared struct{}

// SummarizeStarted switches the view to summary optimistically and marks the
// summary operation in flight.
type SummarizeStarted struct{}

// SummarizeSucceeded stores the generated summary.
type SummarizeSucceeded struct {
	Summary string
}

// SummarizeFailed reverts the view to chat; a previously displayed summary is
// left untouched.
type SummarizeFailed struct{}

// QuizStarted switches the view to quiz optimistically and marks the quiz
// operation in flight.
type QuizStarted struct{}

// QuizSucceeded stores the generated quiz.
type QuizSucceeded struct {
	Quiz *domain.Quiz
}

// QuizFailed reverts the view to chat; a previously displayed quiz is left
// untouched.
type QuizFailed struct{}

// AskStarted appends the user question to the chat optimistically.
type AskStarted struct {
	Question string
}

// AskSucceeded appends the assistant answer.
type AskSucceeded struct {
	Answer string
}

// AskFailed removes the optimistically appended user message, restoring the
// chat to its pre-attempt contents.
type AskFailed struct{}

func (DocumentSet) isAction()        {}
func (DocumentCleared) isAction()    {}
func (SummarizeStarted) isAction()   {}
func (SummarizeSucceeded) isAction() {}
func (SummarizeFailed) isAction()    {}
func (QuizStarted) isAction()        {}
func (QuizSucceeded) isAction()      {}
func (QuizFailed) isAction()         {}
func (AskStarted) isAction()         {}
func (AskSucceeded) isAction()       {}
func (AskFailed) isAction()          {}

// Reduce applies an action to a state and returns the next state. The input
// state is never mutated. Completion actions arriving after the document was
// removed are dropped silently; the reset already cleared everything they
// would touch.
func Reduce(s State, a Action) (State, error) {
	switch act := a.(type) {
	case DocumentSet:
		if act.Document == nil {
			return s, domain.ErrValidation
		}
		next := New()
		next.Document = act.Document
		return next, nil

	case DocumentCleared:
		return New(), nil

	case SummarizeStarted:
		if s.Document == nil {
			return s, domain.ErrNoDocument
		}
		if s.Loading.Summary {
			return s, domain.ErrBusy
		}
		s.View = ViewSummary
		s.Loading.Summary = true
		return s, nil

	case SummarizeSucceeded:
		if s.Document == nil {
			return s, nil
		}
		s.Summary = act.Summary
		s.Loading.Summary = false
		return s, nil

	case SummarizeFailed:
		if s.Document == nil {
			return s, nil
		}
		s.View = ViewChat
		s.Loading.Summary = false
		return s, nil

	case QuizStarted:
		if s.Document == nil {
			return s, domain.ErrNoDocument
		}
		if s.Loading.Quiz {
			return s, domain.ErrBusy
		}
		s.View = ViewQuiz
		s.Loading.Quiz = true
		return s, nil

	case QuizSucceeded:
		if s.Document == nil {
			return s, nil
		}
		s.Quiz = act.Quiz
		s.Loading.Quiz = false
		return s, nil

	case QuizFailed:
		if s.Document == nil {
			return s, nil
		}
		s.View = ViewChat
		s.Loading.Quiz = false
		return s, nil

	case AskStarted:
		if s.Document == nil {
			return s, domain.ErrNoDocument
		}
		if s.Loading.Chat {
			return s, domain.ErrBusy
		}
		if act.Question == "" {
			return s, domain.ErrValidation
		}
		s.Chat = appendMessage(s.Chat, domain.ChatMessage{
			Role:    domain.RoleUser,
			Content: act.Question,
		})
		s.Loading.Chat = true
		return s, nil

	case AskSucceeded:
		if s.Document == nil {
			return s, nil
		}
		s.Chat = appendMessage(s.Chat, domain.ChatMessage{
			Role:    domain.RoleAssistant,
			Content: act.Answer,
		})
		s.Loading.Chat = false
		return s, nil

	case AskFailed:
		if s.Document == nil {
			return s, nil
		}
		if n := len(s.Chat); n > 0 && s.Chat[n-1].Role == domain.RoleUser {
			s.Chat = append([]domain.ChatMessage(nil), s.Chat[:n-1]...)
		}
		s.Loading.Chat = false
		return s, nil
	}

	return s, domain.ErrValidation
}

// appendMessage copies before appending so the previous state's slice is
// never aliased.
func appendMessage(chat []domain.ChatMessage, msg domain.ChatMessage) []domain.ChatMessage {
	next := make([]domain.ChatMessage, len(chat), len(chat)+1)
	copy(next, chat)
	return append(next, msg)
}
