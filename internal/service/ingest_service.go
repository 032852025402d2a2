package service

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/dslipak/pdf"
	"go.uber.org/zap"

	"github.com/PRIYADHARSANK/Study-Tool/internal/domain"
)

// IngestService validates an uploaded file and encodes it as a
// self-describing data URI. The encoded form is what every downstream
// operation receives, since the model calls cannot retrieve the original
// file handle.
type IngestService struct {
	logger *zap.Logger
}

// NewIngestService creates a new ingest service
func NewIngestService(logger *zap.Logger) *IngestService {
	return &IngestService{logger: logger}
}

// Ingest accepts exactly one file. The file must be non-empty and carry the
// PDF media type; no partial state is committed on violation.
func (s *IngestService) Ingest(name, contentType string, size int64, r io.Reader) (*domain.Document, error) {
	if name == "" || size == 0 {
		return nil, fmt.Errorf("%w: no file uploaded", domain.ErrValidation)
	}
	if mediaType(contentType) != domain.MIMETypePDF {
		return nil, fmt.Errorf("%w: please upload a PDF", domain.ErrUnsupportedType)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEncoding, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no file uploaded", domain.ErrValidation)
	}

	doc := &domain.Document{
		Name:    name,
		DataURI: EncodeDataURI(domain.MIMETypePDF, data),
	}

	// Best-effort text extraction; some providers cannot take the raw PDF.
	// A scanned or malformed PDF still uploads fine with empty text.
	text, err := extractText(data)
	if err != nil {
		s.logger.Warn("pdf text extraction failed",
			zap.String("file", name),
			zap.Error(err),
		)
	}
	doc.Text = text

	return doc, nil
}

// EncodeDataURI encodes binary content as "data:<mimetype>;base64,<payload>".
func EncodeDataURI(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// DecodeDataURI reverses EncodeDataURI, returning the media type and the
// original bytes.
func DecodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("%w: not a data URI", domain.ErrEncoding)
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: malformed data URI", domain.ErrEncoding)
	}
	mimeType, ok := strings.CutSuffix(header, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("%w: data URI is not base64 encoded", domain.ErrEncoding)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", domain.ErrEncoding, err)
	}
	return mimeType, data, nil
}

func extractText(data []byte) (_ string, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if _, err := io.Copy(&b, plain); err != nil {
		return "", err
	}
	return b.String(), nil
}

// mediaType strips any parameters from a Content-Type header value.
func mediaType(contentType string) string {
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}
