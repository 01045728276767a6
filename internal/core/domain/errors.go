package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates no converter handles the document's MIME type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrUnknownField indicates a field name outside the bill record.
	ErrUnknownField = errors.New("unknown field")

	// Extraction Errors.

	// ErrConversionFailed indicates the PDF-to-text step produced no text.
	// Corrupt or non-PDF input ends up here.
	ErrConversionFailed = errors.New("conversion failed")

	// ErrExtractionFailed is the terminal error returned when both the
	// specialized and the fallback paths failed.
	ErrExtractionFailed = errors.New("failed to parse PDF")

	// ErrInvalidRecord indicates a record that violates the output schema.
	ErrInvalidRecord = errors.New("invalid record")
)
