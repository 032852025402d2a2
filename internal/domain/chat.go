package domain

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a single turn in the session transcript.
type ChatMessage struct {
	Role    string `json:"role"` // user, assistant
	Content string `json:"content"`
}

// AskRequest is the request to answer a question about the active document.
type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

// AskResponse is the answer to a question.
type AskResponse struct {
	Answer string `json:"answer"`
}

// SummarizeResponse is the result of the summarize operation.
type SummarizeResponse struct {
	Summary string `json:"summary"`
}
