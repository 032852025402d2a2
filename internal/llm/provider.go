package llm

import (
	"context"
	"encoding/json"
)

// Provider is the abstraction over the hosted generative-model service.
// Consumers call Generate with a Request and receive structured JSON.
type Provider interface {
	// Generate sends a prompt to the model and returns its response. When the
	// request carries a Schema the provider uses its native structured-output
	// mechanism and the response Content is the validated JSON.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System is the system prompt.
	System string

	// Messages is the conversation. Every flow in Study-Tool is single-turn,
	// so this holds one user message.
	Messages []Message

	// Document is the uploaded file grounding the request, when set.
	Document *Attachment

	// Schema is the JSON Schema the response must conform to. When nil the
	// response Content is the raw text wrapped as json.RawMessage.
	Schema *Schema

	// MaxTokens caps the response length.
	MaxTokens int

	// Temperature controls randomness, 0.0 - 1.0. Zero means deterministic.
	Temperature float64
}

// Message is a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Attachment is a document passed to the model alongside the prompt.
// Data holds the raw bytes for providers with native file input; Text holds
// the extracted plain text as a fallback for providers without it.
type Attachment struct {
	Name     string
	MIMEType string
	Data     []byte
	Text     string
}

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies this schema. Kebab-case, e.g. "exam-quiz".
	Name string

	// Description is sent to the model to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Content is the generated output. Validated JSON when the request carried
	// a Schema, raw text otherwise.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason is normalized to: "end", "max_tokens".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
