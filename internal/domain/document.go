package domain

// MIMETypePDF is the only media type accepted for upload.
const MIMETypePDF = "application/pdf"

// Document is the uploaded PDF, held in encoded form for the session.
// Exactly one document may be active at a time; a new upload replaces it.
type Document struct {
	// Name is the display name of the uploaded file.
	Name string `json:"name"`
	// DataURI is the self-describing payload encoding,
	// "data:application/pdf;base64,<payload>". This is the form handed to every
	// downstream operation.
	DataURI string `json:"dataUri"`
	// Text is the plain text extracted from the PDF at upload time, when
	// extraction succeeded. Kept out of API responses; used by providers that
	// cannot accept binary attachments.
	Text string `json:"-"`
}
