package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/PRIYADHARSANK/Study-Tool/internal/domain"
)

// Export formats.
const (
	ExportFormatText = "txt"
	ExportFormatPDF  = "pdf"
)

// ExportFilename is the base name of the offered download.
const ExportFilename = "conversation"

// ExportService serializes the chat transcript for download. Both formats
// are human-readable text only; no format-compatibility guarantee beyond
// that.
type ExportService struct{}

// NewExportService creates a new export service
func NewExportService() *ExportService {
	return &ExportService{}
}

// Export renders the transcript in the given format and returns the file
// name, content and media type.
func (s *ExportService) Export(messages []domain.ChatMessage, format string) (string, []byte, string, error) {
	switch format {
	case ExportFormatText:
		return ExportFilename + ".txt", s.text(messages), "text/plain; charset=utf-8", nil
	case ExportFormatPDF:
		content, err := s.pdf(messages)
		if err != nil {
			return "", nil, "", err
		}
		return ExportFilename + ".pdf", content, domain.MIMETypePDF, nil
	default:
		return "", nil, "", fmt.Errorf("%w: unknown export format %q", domain.ErrValidation, format)
	}
}

func (s *ExportService) text(messages []domain.ChatMessage) []byte {
	var b strings.Builder
	for _, msg := range messages {
		b.WriteString(speakerLabel(msg.Role))
		b.WriteString(": ")
		b.WriteString(msg.Content)
		b.WriteString("\n\n")
	}
	return []byte(b.String())
}

func (s *ExportService) pdf(messages []domain.ChatMessage) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(15, 15, 15)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 8, "Conversation", "", 1, "L", false, 0, "")
	doc.Ln(4)

	for _, msg := range messages {
		doc.SetFont("Helvetica", "B", 11)
		doc.MultiCell(0, 6, speakerLabel(msg.Role), "", "L", false)
		doc.SetFont("Helvetica", "", 11)
		doc.MultiCell(0, 6, msg.Content, "", "L", false)
		doc.Ln(3)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render transcript pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func speakerLabel(role string) string {
	if role == domain.RoleUser {
		return "You"
	}
	return "Assistant"
}
