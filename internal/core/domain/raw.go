package domain

// MIME types the pipeline knows how to convert.
const (
	MIMETypePDF       = "application/pdf"
	MIMETypePlainText = "text/plain"
)

// RawDocument represents the opaque bytes handed to the pipeline.
// It is the caller's input before PDF-to-text conversion.
type RawDocument struct {
	// URI is the original location (file path, "stdin", etc).
	URI string

	// MIMEType is the content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// Hints carries caller-supplied context.
	Hints Hints
}

// Hints is optional context supplied alongside a document.
// Nothing in Hints is required for extraction.
type Hints struct {
	// ClientID is the caller's target client identifier. It is passed
	// through untouched so the caller can match the result.
	ClientID string `json:"clientId,omitempty"`

	// Installation, Month and Year are inferred from the file path by the
	// batch processor.
	Installation string `json:"installation,omitempty"`
	Month        string `json:"month,omitempty"`
	Year         int    `json:"year,omitempty"`
}

// IsEmpty returns true if no hint is set.
func (h Hints) IsEmpty() bool {
	return h == Hints{}
}

// DocumentInfo describes a document's container, independent of its text.
type DocumentInfo struct {
	Pages int
}

// BillFile is a bill found on disk together with the hints its path
// carries.
type BillFile struct {
	Path  string
	Hints Hints
}
