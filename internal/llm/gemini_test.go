package llm

import (
	"testing"
)

func TestBuildGeminiContentsAttachesDocumentOnce(t *testing.T) {
	req := Request{
		Document: &Attachment{
			Name:     "notes.pdf",
			MIMEType: "application/pdf",
			Data:     []byte("%PDF-1.4"),
		},
		Messages: []Message{
			{Role: RoleUser, Content: "first"},
			{Role: RoleAssistant, Content: "reply"},
			{Role: RoleUser, Content: "second"},
		},
	}

	contents := buildGeminiContents(req)
	if len(contents) != 3 {
		t.Fatalf("expected 3 contents, got %d", len(contents))
	}

	// Document goes on the first user message only.
	if len(contents[0].Parts) != 2 {
		t.Fatalf("expected 2 parts on first message, got %d", len(contents[0].Parts))
	}
	if contents[0].Parts[0].InlineData == nil {
		t.Fatal("expected inline data on first part")
	}
	if contents[0].Parts[0].InlineData.MIMEType != "application/pdf" {
		t.Fatalf("unexpected mime type: %s", contents[0].Parts[0].InlineData.MIMEType)
	}
	if len(contents[2].Parts) != 1 {
		t.Fatalf("expected 1 part on later user message, got %d", len(contents[2].Parts))
	}

	if contents[1].Role != "model" {
		t.Fatalf("expected model role for assistant message, got %s", contents[1].Role)
	}
}

func TestBuildGeminiContentsNoDocument(t *testing.T) {
	req := Request{
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}

	contents := buildGeminiContents(req)
	if len(contents) != 1 || len(contents[0].Parts) != 1 {
		t.Fatal("expected a single text part")
	}
	if contents[0].Parts[0].Text != "hello" {
		t.Fatalf("unexpected text: %s", contents[0].Parts[0].Text)
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{"type": "string"},
			"options": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": 4,
				"maxItems": 4,
			},
		},
		"required": []any{"question", "options"},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != "OBJECT" {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if schema.Properties["question"].Type != "STRING" {
		t.Fatalf("expected STRING for question, got %s", schema.Properties["question"].Type)
	}

	opts := schema.Properties["options"]
	if opts.Type != "ARRAY" {
		t.Fatalf("expected ARRAY for options, got %s", opts.Type)
	}
	if opts.Items.Type != "STRING" {
		t.Fatalf("expected STRING items, got %s", opts.Items.Type)
	}
	if opts.MinItems == nil || *opts.MinItems != 4 {
		t.Fatal("expected minItems 4")
	}
	if opts.MaxItems == nil || *opts.MaxItems != 4 {
		t.Fatal("expected maxItems 4")
	}
	if len(schema.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %d", len(schema.Required))
	}
}
