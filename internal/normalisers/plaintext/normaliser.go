// Package plaintext passes already-extracted bill text through unchanged.
package plaintext

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
	"github.com/custodia-labs/fatura-cli/internal/core/ports/driven"
)

// Name identifies this converter in results.
const Name = "plaintext"

// Ensure Normaliser implements the interface.
var _ driven.TextConverter = (*Normaliser)(nil)

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text converter.
func New() *Normaliser {
	return &Normaliser{}
}

// Name returns the converter identifier.
func (n *Normaliser) Name() string {
	return Name
}

// SupportedMIMETypes returns the MIME types this converter handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{domain.MIMETypePlainText}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 5 // Passthrough converter
}

// Convert returns the content as text. A UTF-8 byte order mark is dropped
// and invalid sequences are replaced.
func (n *Normaliser) Convert(_ context.Context, raw *domain.RawDocument) (string, error) {
	if raw == nil {
		return "", domain.ErrInvalidInput
	}

	content := strings.TrimPrefix(string(raw.Content), "\ufeff")
	if !utf8.ValidString(content) {
		content = strings.ToValidUTF8(content, "\uFFFD")
	}
	return content, nil
}
